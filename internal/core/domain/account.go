package domain

import "time"

// TrackedAccount is a row of the account state store.
type TrackedAccount struct {
	Username string    `json:"username" bson:"username"`
	Active   bool      `json:"active" bson:"active"`
	AddedAt  time.Time `json:"added_at" bson:"added_at"`
}
