package domain

import "time"

// TokenPair is what a successful login or refresh returns: the signed access
// token (JWT) and the opaque refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ValidTo      time.Time // access-token expiry
}
