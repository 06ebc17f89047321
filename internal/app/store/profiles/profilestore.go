// internal/app/store/profiles/profilestore.go
package profilestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sharehub/internal/app/system/normalize"
	"github.com/dalemusser/sharehub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no profile exists for an email.
	ErrNotFound = errors.New("user not found")

	// ErrDuplicateEmail is returned when creating a profile for an
	// email that already has one.
	ErrDuplicateEmail = errors.New("a profile with this email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new profile keyed by the normalized email.
func (s *Store) Create(ctx context.Context, email, nickname string) (models.Profile, error) {
	p := models.Profile{
		Email:     normalize.Email(email),
		Nickname:  normalize.Nickname(nickname),
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Profile{}, ErrDuplicateEmail
		}
		return models.Profile{}, err
	}
	return p, nil
}

// GetByEmail loads a profile by email. Returns ErrNotFound if absent.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"_id": normalize.Email(email)}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// UpdateNickname sets the nickname on the profile document.
//
// Denormalized nickname snapshots (group members, link and comment
// authors) are NOT rewritten and go stale; callers display whatever was
// captured at the time of the original write.
func (s *Store) UpdateNickname(ctx context.Context, email, nickname string) error {
	res, err := s.c.UpdateByID(ctx, normalize.Email(email), bson.M{
		"$set": bson.M{"nickname": normalize.Nickname(nickname)},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SearchByEmailPrefix returns profiles whose email starts with prefix,
// as an inclusive-lower/exclusive-upper range scan over the _id index.
// The upper bound appends the maximum code point so every extension of
// the prefix sorts below it. No pagination; the full result set is
// returned in email order.
func (s *Store) SearchByEmailPrefix(ctx context.Context, prefix string) ([]models.Profile, error) {
	prefix = normalize.Email(prefix)
	upper := prefix + string(rune(0x10FFFF))

	cur, err := s.c.Find(ctx,
		bson.M{"_id": bson.M{"$gte": prefix, "$lt": upper}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
