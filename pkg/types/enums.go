package types

type Role string

const (
	RoleStaff         Role = "staff"
	RoleRegionManager Role = "region_manager"
	RoleExecutive     Role = "executive"
)

var Roles = []Role{RoleStaff, RoleRegionManager, RoleExecutive}

func (r Role) Valid() bool {
	switch r {
	case RoleStaff, RoleRegionManager, RoleExecutive:
		return true
	}
	return false
}

type Unit string

const (
	UnitABM  Unit = "ABM"
	UnitKNR  Unit = "KNR"
	UnitSDM  Unit = "SDM"
	UnitSPGM Unit = "SPGM"
	UnitLKM  Unit = "LKM"
	UnitLMD  Unit = "LMD"
)

var Units = []Unit{UnitABM, UnitKNR, UnitSDM, UnitSPGM, UnitLKM, UnitLMD}

func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

type Region string

const (
	RegionTWU Region = "TWU"
	RegionLD  Region = "LD"
	RegionSDK Region = "SDK"
	RegionBFT Region = "BFT"
	RegionKDT Region = "KDT"
)

var Regions = []Region{RegionTWU, RegionLD, RegionSDK, RegionBFT, RegionKDT}

func (r Region) Valid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

type Category string

const (
	CategoryPencerobohan Category = "Pencerobohan"
	CategoryKecurian     Category = "Kecurian"
	CategoryKerosakan    Category = "Kerosakan"
	CategoryKebakaran    Category = "Kebakaran"
	CategorySabotaj      Category = "Sabotaj"
	CategoryGangguan     Category = "Gangguan"
	CategoryLainLain     Category = "Lain-lain"
)

var Categories = []Category{
	CategoryPencerobohan,
	CategoryKecurian,
	CategoryKerosakan,
	CategoryKebakaran,
	CategorySabotaj,
	CategoryGangguan,
	CategoryLainLain,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
