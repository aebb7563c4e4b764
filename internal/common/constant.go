package common

// Header names used on every outbound request.
const (
	AuthorizationHeaderName = "Authorization"
	RequestIDHeaderName     = "X-Request-ID"
)

// Client-side routes the guard and the views navigate to.
const (
	LoginRoute    = "/login"
	ProductsRoute = "/products"
	ProfileRoute  = "/profile"
)

// AccessTokenKey is the single durable key the bearer token is stored under.
const AccessTokenKey = "access_token"
