package accountstore_test

import (
	"testing"

	accountstore "github.com/dalemusser/sharehub/internal/app/store/accounts"
	"github.com/dalemusser/sharehub/internal/testutil"
)

func TestStore_CreateAndVerify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "a@x.com", "pw"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Verify(ctx, "a@x.com", "pw"); err != nil {
		t.Errorf("Verify with correct password: %v", err)
	}
	if err := store.Verify(ctx, "a@x.com", "wrong"); err != accountstore.ErrInvalidCredentials {
		t.Errorf("Verify with wrong password: got %v, want ErrInvalidCredentials", err)
	}
	if err := store.Verify(ctx, "nobody@x.com", "pw"); err != accountstore.ErrInvalidCredentials {
		t.Errorf("Verify with unknown email: got %v, want ErrInvalidCredentials", err)
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "a@x.com", "pw"); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if err := store.Create(ctx, "a@x.com", "other"); err != accountstore.ErrEmailTaken {
		t.Errorf("second Create: got %v, want ErrEmailTaken", err)
	}
}

func TestStore_EmailNormalized(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := accountstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Create(ctx, "  A@X.Com ", "pw"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Verify(ctx, "a@x.com", "pw"); err != nil {
		t.Errorf("Verify with normalized email: %v", err)
	}
	if err := store.Create(ctx, "a@x.com", "pw"); err != accountstore.ErrEmailTaken {
		t.Errorf("Create with normalized duplicate: got %v, want ErrEmailTaken", err)
	}
}
