package models

// User is the authenticated identity attached to a request.
// ID is the token subject and keys every profile and plan record.
type User struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Name          *string `json:"name,omitempty"`
	EmailVerified bool    `json:"email_verified"`
}
