package auth

import "time"

// AccessClaims represents the claims carried by an access token.
// They're encrypted in v4.local tokens, so not readable without the key.
type AccessClaims struct {
	CustomerID string `json:"customer_id"`
	Email      string `json:"email"`

	// Standard PASETO claims. TokenID (jti) is the session ID.
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}
