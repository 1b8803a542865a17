package domain

// BearerTokenType is the literal token-type tag returned with every pair.
const BearerTokenType = "Bearer"

// TokenPair bundles the tokens minted at login and refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}

// Principal is the request-scoped identity established by the
// authentication middleware. It lives only for the current request.
type Principal struct {
	Email string
	Role  string
}

// Profile is the view of an account returned to its authenticated owner.
type Profile struct {
	Email       string
	DisplayName string
}
