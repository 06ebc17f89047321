// internal/app/store/accounts/accountstore.go
package accountstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/sharehub/internal/app/system/normalize"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Account is the credential document behind a sign-up. It is keyed by
// email like the profile document, but lives in its own collection so
// password hashes never travel with profile reads.
type Account struct {
	Email        string    `bson:"_id"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

var (
	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrEmailTaken is returned when signing up with an email that
	// already has an account.
	ErrEmailTaken = errors.New("an account with this email already exists")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("accounts")}
}

// Create registers a new account with a bcrypt-hashed password.
func (s *Store) Create(ctx context.Context, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return err
	}

	a := Account{
		Email:        normalize.Email(email),
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// Verify checks email/password against the stored credential. It
// returns ErrInvalidCredentials when the account is missing or the
// password does not match.
func (s *Store) Verify(ctx context.Context, email, password string) error {
	var a Account
	err := s.c.FindOne(ctx, bson.M{"_id": normalize.Email(email)}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return ErrInvalidCredentials
	}
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
