package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrAlgMismatch = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrNoSubject   = errors.New("jwtx: token carries no username")
	ErrMissingKey  = errors.New("jwtx: signing key is empty")
)

// HS256Signer signs JWTs with a shared symmetric key using HMAC-SHA256.
type HS256Signer struct {
	key []byte
}

// NewSignerHS256 creates an HS256 signer. An empty key is a configuration
// error, never a per-request one, so it is rejected up front.
func NewSignerHS256(key []byte) (*HS256Signer, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	return &HS256Signer{key: key}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign takes your claims and turns them into a signed JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.key)
}

// HS256Verifier validates JWTs signed with the same symmetric key.
type HS256Verifier struct {
	key []byte
}

// NewVerifierHS256 creates a verifier over the shared symmetric key.
func NewVerifierHS256(key []byte) (*HS256Verifier, error) {
	if len(key) == 0 {
		return nil, ErrMissingKey
	}
	return &HS256Verifier{key: key}, nil
}

// Verify validates the JWT string (signature, algorithm, and expiry) and
// returns its parsed Claims. Issuer and audience are not enforced.
func (v *HS256Verifier) Verify(tokenStr string) (Claims, error) {
	claims, err := v.parse(tokenStr, false)
	if err != nil {
		return Claims{}, err
	}

	if err := claims.ValidateExpiry(); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

// VerifyIgnoringExpiry signature-verifies the token and recovers its claims
// without checking exp. This is the refresh path: the access token is
// expected to already be expired there. The signing algorithm must still be
// exactly HS256 so an attacker cannot substitute a weaker one, and a token
// with no username claim is rejected because it identifies nobody.
func (v *HS256Verifier) VerifyIgnoringExpiry(tokenStr string) (Claims, error) {
	claims, err := v.parse(tokenStr, true)
	if err != nil {
		return Claims{}, err
	}

	if claims.Username == "" {
		return Claims{}, ErrNoSubject
	}

	return claims, nil
}

func (v *HS256Verifier) parse(tokenStr string, ignoreExpiry bool) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ignoreExpiry {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}
	parser := jwt.NewParser(opts...)

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		// WithValidMethods already rejects foreign algorithms; this guards
		// against a parser configured differently in the future.
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrAlgMismatch
		}
		return v.key, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return Claims{}, ErrMalformed
	}

	return *claims, nil
}

// mapParseError translates golang-jwt errors into our sentinels so callers
// can branch without importing the library.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenUnverifiable), errors.Is(err, ErrAlgMismatch):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	default:
		return fmt.Errorf("jwtx: parse or verify: %w", err)
	}
}
