// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a named collection of members sharing a feed of links.
//
// Membership is embedded twice on the document:
//   - MemberEmails is the authoritative index (queried with
//     {"member_emails": email} to list a user's groups).
//   - Members is the denormalized profile snapshot used for display.
//
// Every mutation that touches one must touch the other in the same
// update document so the two arrays always describe the same set of
// identities.
type Group struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Avatar    string             `bson:"avatar" json:"avatar"`
	CreatedBy string             `bson:"created_by" json:"created_by"` // owner email, immutable

	MemberEmails []string  `bson:"member_emails" json:"member_emails"`
	Members      []Profile `bson:"members" json:"members"`

	Links []Link `bson:"links" json:"links"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsOwner reports whether email created the group.
func (g *Group) IsOwner(email string) bool {
	return g.CreatedBy == email
}

// LinkByID returns a pointer into Links for the given link id, or nil.
func (g *Group) LinkByID(linkID string) *Link {
	for i := range g.Links {
		if g.Links[i].ID == linkID {
			return &g.Links[i]
		}
	}
	return nil
}
