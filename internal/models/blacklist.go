package models

import "time"

// BlacklistedToken is a revoked or expired bearer token. Entries are retained
// past the token's natural lifetime so a delayed sweep never re-admits one.
type BlacklistedToken struct {
	Token     string    `bson:"token"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// PendingLogin binds a driver who passed the password check to the OTP that
// was mailed out, keyed by the caller's session. Single use.
type PendingLogin struct {
	DriverID string    `json:"driver_id"`
	Email    string    `json:"email"`
	Code     string    `json:"code"`
	IssuedAt time.Time `json:"issued_at"`
}
