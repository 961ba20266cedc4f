package oidc

import (
	"context"
	"errors"
	"fmt"

	"github.com/benvon/replan/internal/models"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jws"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Verifier verifies bearer tokens signed by a JWKS key set or a shared HS256 secret
type Verifier struct {
	jwksManager *JWKSManager
	jwksURL     string
	hmacKey     []byte
	issuer      string
}

// NewJWKSVerifier creates a verifier for tokens signed by keys published at jwksURL
func NewJWKSVerifier(jwksManager *JWKSManager, jwksURL, issuer string) *Verifier {
	return &Verifier{
		jwksManager: jwksManager,
		jwksURL:     jwksURL,
		issuer:      issuer,
	}
}

// NewHS256Verifier creates a verifier for tokens signed with a shared secret
func NewHS256Verifier(secret, issuer string) *Verifier {
	return &Verifier{
		hmacKey: []byte(secret),
		issuer:  issuer,
	}
}

// Verify verifies a JWT token and extracts claims
func (v *Verifier) Verify(ctx context.Context, tokenString string) (*models.JWTClaims, error) {
	opts := []jwt.ParseOption{jwt.WithValidate(true)}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var (
		token jwt.Token
		err   error
	)
	switch {
	case v.jwksManager != nil:
		token, err = v.parseWithJWKS(ctx, tokenString, opts)
	case len(v.hmacKey) > 0:
		token, err = jwt.Parse([]byte(tokenString), append(opts, jwt.WithKey(jwa.HS256, v.hmacKey))...)
	default:
		return nil, errors.New("verifier has no key material")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse/verify token: %w", err)
	}

	if token.Subject() == "" {
		return nil, errors.New("token missing subject claim")
	}

	claims := &models.JWTClaims{
		Sub: token.Subject(),
		Iss: token.Issuer(),
		Exp: token.Expiration().Unix(),
	}
	if email, ok := token.Get("email"); ok {
		if emailStr, ok := email.(string); ok {
			claims.Email = emailStr
		}
	}
	if name, ok := token.Get("name"); ok {
		if nameStr, ok := name.(string); ok {
			claims.Name = nameStr
		}
	}

	return claims, nil
}

// parseWithJWKS verifies against the cached key set and, when the token's
// key ID is unknown, refreshes the set once before giving up.
func (v *Verifier) parseWithJWKS(ctx context.Context, tokenString string, opts []jwt.ParseOption) (jwt.Token, error) {
	keys, err := v.jwksManager.GetJWKS(ctx, v.jwksURL)
	if err != nil {
		return nil, err
	}
	token, err := jwt.Parse([]byte(tokenString), append(opts, jwt.WithKeySet(keys))...)
	if err == nil || !v.unknownKey(tokenString, keys) {
		return token, err
	}

	keys, rerr := v.jwksManager.Refresh(ctx, v.jwksURL)
	if rerr != nil {
		return nil, err
	}
	return jwt.Parse([]byte(tokenString), append(opts, jwt.WithKeySet(keys))...)
}

// unknownKey reports whether the token header names a kid missing from keys
func (v *Verifier) unknownKey(tokenString string, keys jwk.Set) bool {
	msg, err := jws.Parse([]byte(tokenString))
	if err != nil || len(msg.Signatures()) == 0 {
		return false
	}
	kid := msg.Signatures()[0].ProtectedHeaders().KeyID()
	if kid == "" {
		return false
	}
	_, found := keys.LookupKeyID(kid)
	return !found
}
