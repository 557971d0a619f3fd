package ports

// TokenSource yields the bearer token used for CONNECT and SUBSCRIBE
// headers. It is asked again on every (re)connect, so a refreshed token is
// picked up without rebuilding the client.
type TokenSource interface {
	Token() (string, error)
}
