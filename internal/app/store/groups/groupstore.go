// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sharehub/internal/app/system/normalize"
	"github.com/dalemusser/sharehub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when no group exists for an id.
var ErrNotFound = errors.New("group not found")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// GetByID loads a group by ObjectID. Returns ErrNotFound if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, ErrNotFound
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// ByMemberEmail returns every group whose member_emails array contains
// the email, oldest first.
func (s *Store) ByMemberEmail(ctx context.Context, email string) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"member_emails": normalize.Email(email)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts a new group, assigning its id and timestamps. The
// caller supplies name, avatar, owner, and the initial member arrays.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.Links == nil {
		g.Links = []models.Link{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// UpdateInfo sets the group's name and avatar.
func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, avatar string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"avatar":     avatar,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember unions the email into member_emails and the profile
// snapshot into members in a single update, so the two arrays cannot
// be observed out of step.
func (s *Store) AddMember(ctx context.Context, id primitive.ObjectID, p models.Profile) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{
			"member_emails": p.Email,
			"members":       p,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// RemoveMember pulls the email from member_emails and the matching
// profile entry from members in a single update. The members entry is
// matched by email so a stale nickname snapshot is still removed.
func (s *Store) RemoveMember(ctx context.Context, id primitive.ObjectID, email string) error {
	email = normalize.Email(email)
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{
			"member_emails": email,
			"members":       bson.M{"_id": email},
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendLink unions the link into the group's links array. Union
// compares the full element, so two structurally identical links
// collapse into one; link ids are fresh UUIDs, which keeps appends
// distinct in practice.
func (s *Store) AppendLink(ctx context.Context, id primitive.ObjectID, link models.Link) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"links": link},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceLinks overwrites the entire links array.
//
// This is a read-modify-write with no version check: a concurrent
// writer to any link in the same group between the caller's read and
// this write is silently overwritten. Callers that only need to add a
// link should use AppendLink instead.
func (s *Store) ReplaceLinks(ctx context.Context, id primitive.ObjectID, links []models.Link) error {
	if links == nil {
		links = []models.Link{}
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"links":      links,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
