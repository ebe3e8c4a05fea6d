package console

// LoginRoute is where unauthenticated navigation lands.
const LoginRoute = "/"

// Authenticator is what the guard consults.
type Authenticator interface {
	IsAuthenticated() bool
}

// Guard decides whether navigation to a protected route may proceed. It is
// always enforced; there is no bypass configuration.
type Guard struct {
	auth Authenticator
}

func NewGuard(auth Authenticator) *Guard {
	return &Guard{auth: auth}
}

// Allow returns the route to render: the requested one when authenticated,
// the login route otherwise.
func (g *Guard) Allow(route string) (string, bool) {
	if g.auth.IsAuthenticated() {
		return route, true
	}
	return LoginRoute, false
}
