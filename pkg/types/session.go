package types

// Identity is the externally managed Cognito principal.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is the explicit per-request session context: the verified
// identity plus its freshly loaded profile. Profile is nil until the
// identity completes profile setup, and the only reachable state in that
// case is the setup flow. Sessions are built wholesale by the auth
// middleware and never mutated in place.
type Session struct {
	Identity Identity `json:"identity"`
	Profile  *Profile `json:"profile"`
}
