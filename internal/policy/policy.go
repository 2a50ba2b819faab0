// Package policy holds the pure access decisions: which views an identity
// may reach and which report rows it may see. Everything here is a
// deterministic function of the profile with no side effects; enforcement
// happens in the HTTP layer and the report store, both of which call in
// here rather than re-deriving role checks.
package policy

import "ladangwatch/pkg/types"

type View string

const (
	ViewSetup     View = "setup"
	ViewReport    View = "report"
	ViewDashboard View = "dashboard"
	ViewAdmin     View = "admin"
)

// CanSubmitReport reports whether the profile may submit incident reports.
// Submission is universal across the three roles.
func CanSubmitReport(p *types.Profile) bool {
	return p != nil && p.Role.Valid()
}

// CanViewAggregateReports reports whether the profile may list and export
// stored reports.
func CanViewAggregateReports(p *types.Profile) bool {
	if p == nil {
		return false
	}
	return p.Role == types.RoleRegionManager || p.Role == types.RoleExecutive
}

// CanManageUsers reports whether the profile may administer user accounts.
func CanManageUsers(p *types.Profile) bool {
	return p != nil && p.Role == types.RoleExecutive
}

// Views returns every view reachable for the profile. An identity without
// a profile can reach only the setup view.
func Views(p *types.Profile) []View {
	if p == nil {
		return []View{ViewSetup}
	}

	views := []View{ViewReport}
	if CanViewAggregateReports(p) {
		views = append(views, ViewDashboard)
	}
	if CanManageUsers(p) {
		views = append(views, ViewAdmin)
	}
	return views
}

// DefaultView is where a session lands when it has not explicitly selected
// a view.
func DefaultView(p *types.Profile) View {
	if p == nil {
		return ViewSetup
	}
	return ViewReport
}

// ResolveView re-validates a previously selected view against the current
// capability set. A view that is no longer reachable (a demoted executive
// still holding admin, say) falls back to the default; a promotion never
// switches views on its own.
func ResolveView(p *types.Profile, requested View) View {
	for _, v := range Views(p) {
		if v == requested {
			return requested
		}
	}
	return DefaultView(p)
}

// Scope narrows a report query to a single region. An unscoped Scope
// matches every row.
type Scope struct {
	Region types.Region
	Scoped bool
}

// ReportScope returns the row-visibility scope for an aggregate-capable
// viewer: region managers are confined to their own region, executives see
// everything. Callers gate on CanViewAggregateReports first; for any other
// profile the scope is meaningless and fully scoped to nothing.
func ReportScope(p *types.Profile) Scope {
	if p != nil && p.Role == types.RoleRegionManager && p.Region != nil {
		return Scope{Region: *p.Region, Scoped: true}
	}
	return Scope{}
}

// Matches reports whether a report falls inside the scope.
func (s Scope) Matches(r *types.Report) bool {
	return !s.Scoped || r.Region == s.Region
}

// VisibleReports filters a report list down to what the profile may see,
// preserving order. It is the in-memory equivalent of the SQL scoping the
// report store applies.
func VisibleReports(p *types.Profile, all []*types.Report) []*types.Report {
	if !CanViewAggregateReports(p) {
		return nil
	}

	scope := ReportScope(p)
	visible := make([]*types.Report, 0, len(all))
	for _, r := range all {
		if scope.Matches(r) {
			visible = append(visible, r)
		}
	}
	return visible
}
