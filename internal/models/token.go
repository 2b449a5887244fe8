package models

// TokenPair issued on login or refresh.
// Access is a signed JWT, Refresh is an opaque string that must not be
// parsed or decoded by any caller.
type TokenPair struct {
	Access  string
	Refresh string
}
