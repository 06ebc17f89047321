// internal/domain/models/profile.go
package models

import "time"

// Profile is the public identity document for a signed-up user.
//
// NOTE:
//   - The document id is the (normalized) email address itself, so
//     profile lookups are plain _id gets and the email is unique by
//     construction.
//   - Credentials are NOT stored here; see the accounts collection.
type Profile struct {
	Email     string    `bson:"_id" json:"email"`
	Nickname  string    `bson:"nickname" json:"nickname"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
