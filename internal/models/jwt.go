package models

// JWTClaims represents the claims extracted from a bearer token
type JWTClaims struct {
	Sub   string `json:"sub"`   // Subject, used as the user id
	Email string `json:"email"` // User email
	Name  string `json:"name"`  // Display name
	Exp   int64  `json:"exp"`   // Expiration time
	Iss   string `json:"iss"`   // Issuer
}

// User converts verified claims into the request identity
func (c *JWTClaims) User() *User {
	u := &User{ID: c.Sub, Email: c.Email, EmailVerified: c.Email != ""}
	if c.Name != "" {
		name := c.Name
		u.Name = &name
	}
	return u
}
