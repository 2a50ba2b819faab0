package internal

const (
	COOKIE_ACCESS_TOKEN_NAME = "lw_access_token"
	COOKIE_VIEW_NAME         = "lw_view"
)
