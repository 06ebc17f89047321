package groupstore_test

import (
	"testing"
	"time"

	groupstore "github.com/dalemusser/sharehub/internal/app/store/groups"
	"github.com/dalemusser/sharehub/internal/domain/models"
	"github.com/dalemusser/sharehub/internal/testutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_CreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateProfile(ctx, "a@x.com", "Alice")

	created, err := store.Create(ctx, models.Group{
		Name:         "Team",
		Avatar:       "https://ui-avatars.com/api/?name=Team&background=random",
		CreatedBy:    owner.Email,
		MemberEmails: []string{owner.Email},
		Members:      []models.Profile{owner},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if created.Links == nil {
		t.Error("expected Links to be initialized")
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.CreatedBy != "a@x.com" {
		t.Errorf("CreatedBy: got %q, want %q", got.CreatedBy, "a@x.com")
	}
	if len(got.MemberEmails) != 1 || got.MemberEmails[0] != "a@x.com" {
		t.Errorf("MemberEmails: got %v", got.MemberEmails)
	}
}

func TestStore_GetByID_Missing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != groupstore.ErrNotFound {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStore_ByMemberEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "a@x.com", "Alice")
	bob := fixtures.CreateProfile(ctx, "b@x.com", "Bob")

	fixtures.CreateGroup(ctx, "Alpha", alice)
	fixtures.CreateGroup(ctx, "Beta", bob)

	groups, err := store.ByMemberEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("ByMemberEmail failed: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Alpha" {
		t.Errorf("expected only Alpha, got %v", groups)
	}
}

func TestStore_AddRemoveMember_KeepsArraysPaired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "a@x.com", "Alice")
	bob := fixtures.CreateProfile(ctx, "b@x.com", "Bob")
	g := fixtures.CreateGroup(ctx, "Team", alice)

	if err := store.AddMember(ctx, g.ID, bob); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	assertMembershipPaired(t, got)
	if len(got.MemberEmails) != 2 {
		t.Fatalf("expected 2 members, got %v", got.MemberEmails)
	}

	// Adding the same member again is a no-op under $addToSet.
	if err := store.AddMember(ctx, g.ID, bob); err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}
	got, _ = store.GetByID(ctx, g.ID)
	if len(got.MemberEmails) != 2 || len(got.Members) != 2 {
		t.Errorf("expected duplicate add to be a no-op, got %v / %d members",
			got.MemberEmails, len(got.Members))
	}

	if err := store.RemoveMember(ctx, g.ID, "b@x.com"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	got, _ = store.GetByID(ctx, g.ID)
	assertMembershipPaired(t, got)
	if len(got.MemberEmails) != 1 || got.MemberEmails[0] != "a@x.com" {
		t.Errorf("expected only the owner to remain, got %v", got.MemberEmails)
	}
}

func TestStore_RemoveMember_MatchesStaleSnapshotByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "a@x.com", "Alice")
	bob := fixtures.CreateProfile(ctx, "b@x.com", "Bob")
	g := fixtures.CreateGroup(ctx, "Team", alice)

	if err := store.AddMember(ctx, g.ID, bob); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}

	// The embedded snapshot now has nickname "Bob" even if the profile
	// document were renamed later; removal must match on email alone.
	if err := store.RemoveMember(ctx, g.ID, "b@x.com"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}

	got, _ := store.GetByID(ctx, g.ID)
	for _, m := range got.Members {
		if m.Email == "b@x.com" {
			t.Error("expected snapshot for b@x.com to be pulled")
		}
	}
}

func TestStore_AppendLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "a@x.com", "Alice")
	g := fixtures.CreateGroup(ctx, "Team", alice)

	link := models.Link{
		ID:             uuid.NewString(),
		URL:            "https://e.com",
		Title:          "T",
		Description:    "D",
		Author:         alice.Email,
		AuthorNickname: alice.Nickname,
		Timestamp:      time.Now().UTC().Truncate(time.Millisecond),
		Votes:          models.Votes{Up: []string{}, Down: []string{}},
		Comments:       []models.Comment{},
	}
	if err := store.AppendLink(ctx, g.ID, link); err != nil {
		t.Fatalf("AppendLink failed: %v", err)
	}

	got, err := store.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(got.Links))
	}
	if got.Links[0].ID != link.ID || got.Links[0].URL != "https://e.com" {
		t.Errorf("unexpected link: %+v", got.Links[0])
	}

	// Identical element: $addToSet collapses it.
	if err := store.AppendLink(ctx, g.ID, got.Links[0]); err != nil {
		t.Fatalf("second AppendLink failed: %v", err)
	}
	got, _ = store.GetByID(ctx, g.ID)
	if len(got.Links) != 1 {
		t.Errorf("expected identical append to collapse, got %d links", len(got.Links))
	}
}

func TestStore_ReplaceLinks(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateProfile(ctx, "a@x.com", "Alice")
	g := fixtures.CreateGroup(ctx, "Team", alice)

	link := models.Link{
		ID:        uuid.NewString(),
		URL:       "https://e.com",
		Title:     "T",
		Author:    alice.Email,
		Timestamp: time.Now().UTC(),
		Votes:     models.Votes{Up: []string{}, Down: []string{}},
		Comments:  []models.Comment{},
	}
	if err := store.AppendLink(ctx, g.ID, link); err != nil {
		t.Fatalf("AppendLink failed: %v", err)
	}

	fresh, _ := store.GetByID(ctx, g.ID)
	fresh.Links[0].Title = "New title"
	if err := store.ReplaceLinks(ctx, g.ID, fresh.Links); err != nil {
		t.Fatalf("ReplaceLinks failed: %v", err)
	}

	got, _ := store.GetByID(ctx, g.ID)
	if len(got.Links) != 1 || got.Links[0].Title != "New title" {
		t.Errorf("unexpected links after replace: %+v", got.Links)
	}

	if err := store.ReplaceLinks(ctx, g.ID, nil); err != nil {
		t.Fatalf("ReplaceLinks(nil) failed: %v", err)
	}
	got, _ = store.GetByID(ctx, g.ID)
	if got.Links == nil || len(got.Links) != 0 {
		t.Errorf("expected empty links array, got %v", got.Links)
	}
}

func assertMembershipPaired(t *testing.T, g models.Group) {
	t.Helper()

	if len(g.MemberEmails) != len(g.Members) {
		t.Fatalf("member arrays out of step: %d emails vs %d snapshots",
			len(g.MemberEmails), len(g.Members))
	}
	set := make(map[string]bool, len(g.MemberEmails))
	for _, e := range g.MemberEmails {
		set[e] = true
	}
	for _, m := range g.Members {
		if !set[m.Email] {
			t.Errorf("snapshot %q has no matching member_emails entry", m.Email)
		}
	}
}
