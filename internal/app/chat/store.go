// internal/app/chat/store.go
//
// Store is the in-process state container behind the UI: the signed-in
// profile, the mirror of that user's groups, the active group, and the
// last error. Every action requires a session, performs its remote
// writes, and then mutates the mirror to match the accepted change.
//
// The mirror is optimistic: it is patched locally after each write, not
// re-fetched, so it can drift from the backend if another client
// mutates the same group. UpdateLink, ToggleVote, and AddComment write
// the whole links array back from a fresh read with no version check;
// concurrent writers to the same group's links lose updates. That race
// is inherited from the source system and accepted here.
package chat

import (
	"context"
	"sync"
	"time"

	accountstore "github.com/dalemusser/sharehub/internal/app/store/accounts"
	groupstore "github.com/dalemusser/sharehub/internal/app/store/groups"
	profilestore "github.com/dalemusser/sharehub/internal/app/store/profiles"
	"github.com/dalemusser/sharehub/internal/app/system/auth"
	"github.com/dalemusser/sharehub/internal/app/system/avatar"
	"github.com/dalemusser/sharehub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/sharehub/internal/app/system/normalize"
	"github.com/dalemusser/sharehub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// VoteKind selects which vote roll ToggleVote flips.
type VoteKind string

const (
	VoteUp   VoteKind = "up"
	VoteDown VoteKind = "down"
)

// LinkUpdate is a partial update for a shared link. Nil fields are left
// unchanged.
type LinkUpdate struct {
	URL         *string
	Title       *string
	Description *string
}

type Store struct {
	log      *zap.Logger
	sessions *auth.Manager
	accounts *accountstore.Store
	profiles *profilestore.Store
	groups   *groupstore.Store

	mu            sync.Mutex
	profile       *models.Profile
	mirror        []models.Group
	activeGroupID string
	lastError     string
}

// New builds the chat store and subscribes it to session changes so an
// external sign-out clears the mirror.
func New(log *zap.Logger, sessions *auth.Manager, accounts *accountstore.Store,
	profiles *profilestore.Store, groups *groupstore.Store) *Store {

	s := &Store{
		log:      log,
		sessions: sessions,
		accounts: accounts,
		profiles: profiles,
		groups:   groups,
	}
	sessions.OnChange(func(sess *auth.Session) {
		if sess != nil {
			return
		}
		s.mu.Lock()
		s.profile = nil
		s.mirror = nil
		s.activeGroupID = ""
		s.mu.Unlock()
	})
	return s
}

/* ── accessors ───────────────────────────────────────────────────────── */

// Profile returns the signed-in user's profile mirror.
func (s *Store) Profile() (models.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return models.Profile{}, false
	}
	return *s.profile, true
}

// Groups returns a snapshot of the groups mirror.
func (s *Store) Groups() []models.Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Group, len(s.mirror))
	copy(out, s.mirror)
	return out
}

// Group returns the mirrored group with the given hex id.
func (s *Store) Group(groupID string) (models.Group, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.mirror {
		if s.mirror[i].ID.Hex() == groupID {
			return s.mirror[i], true
		}
	}
	return models.Group{}, false
}

// ActiveGroupID returns the currently selected group id ("" if none).
func (s *Store) ActiveGroupID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeGroupID
}

// LastError returns the message of the most recent failed action, or
// "" if the last action succeeded.
func (s *Store) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

/* ── auth actions ────────────────────────────────────────────────────── */

// SignIn authenticates, loads the profile and the user's groups, and
// replaces the mirror with the fetched state.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	email = normalize.Email(email)

	if err := s.accounts.Verify(ctx, email, password); err != nil {
		return s.fail("sign_in", err)
	}
	profile, err := s.profiles.GetByEmail(ctx, email)
	if err != nil {
		return s.fail("sign_in", err)
	}
	groups, err := s.groups.ByMemberEmail(ctx, email)
	if err != nil {
		return s.fail("sign_in", err)
	}

	s.sessions.SignIn(email)

	s.mu.Lock()
	s.profile = &profile
	s.mirror = groups
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// SignUp creates the account and the profile document, then starts a
// session with an empty groups mirror.
func (s *Store) SignUp(ctx context.Context, email, password, nickname string) error {
	email = normalize.Email(email)

	if err := s.accounts.Create(ctx, email, password); err != nil {
		return s.fail("sign_up", err)
	}
	profile, err := s.profiles.Create(ctx, email, nickname)
	if err != nil {
		// The account exists but the profile write failed; the remote
		// store is now ahead of local state. No compensation is
		// attempted, matching the source system.
		return s.fail("sign_up", err)
	}

	s.sessions.SignIn(email)

	s.mu.Lock()
	s.profile = &profile
	s.mirror = []models.Group{}
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// Logout ends the session. The session-change listener clears the
// mirror.
func (s *Store) Logout() {
	s.sessions.SignOut()
	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
}

// UpdateProfile changes the signed-in user's nickname.
//
// Nickname snapshots embedded in groups, links, and comments are NOT
// rewritten; they keep the nickname captured when they were written.
func (s *Store) UpdateProfile(ctx context.Context, nickname string) error {
	sess, err := s.requireSession()
	if err != nil {
		return s.fail("update_profile", err)
	}

	if err := s.profiles.UpdateNickname(ctx, sess.Email, nickname); err != nil {
		return s.fail("update_profile", err)
	}

	s.mu.Lock()
	if s.profile != nil {
		s.profile.Nickname = normalize.Nickname(nickname)
	}
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

/* ── group actions ───────────────────────────────────────────────────── */

// SetActiveGroup selects a group locally. Pass "" to deselect.
func (s *Store) SetActiveGroup(groupID string) {
	s.mu.Lock()
	s.activeGroupID = groupID
	s.mu.Unlock()
}

// AddGroup creates a group with the caller as owner and sole member and
// makes it the active group. The caller's profile is re-fetched so the
// embedded snapshot is fresh.
func (s *Store) AddGroup(ctx context.Context, name string) (models.Group, error) {
	sess, err := s.requireSession()
	if err != nil {
		return models.Group{}, s.fail("add_group", err)
	}

	profile, err := s.profiles.GetByEmail(ctx, sess.Email)
	if err != nil {
		return models.Group{}, s.fail("add_group", err)
	}

	created, err := s.groups.Create(ctx, models.Group{
		Name:         name,
		Avatar:       avatar.URL(name),
		CreatedBy:    sess.Email,
		MemberEmails: []string{sess.Email},
		Members:      []models.Profile{profile},
		Links:        []models.Link{},
	})
	if err != nil {
		return models.Group{}, s.fail("add_group", err)
	}

	s.mu.Lock()
	s.mirror = append(s.mirror, created)
	s.activeGroupID = created.ID.Hex()
	s.lastError = ""
	s.mu.Unlock()
	return created, nil
}

// UpdateGroupName renames a group and re-derives its avatar. Ownership
// is not re-verified here; the UI only offers the control to the owner.
func (s *Store) UpdateGroupName(ctx context.Context, groupID, name string) error {
	if _, err := s.requireSession(); err != nil {
		return s.fail("update_group_name", err)
	}
	id, err := parseGroupID(groupID)
	if err != nil {
		return s.fail("update_group_name", err)
	}

	av := avatar.URL(name)
	if err := s.groups.UpdateInfo(ctx, id, name, av); err != nil {
		return s.fail("update_group_name", mapGroupErr(err))
	}

	s.mu.Lock()
	if g := s.mirrorGroup(id); g != nil {
		g.Name = name
		g.Avatar = av
	}
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// AddMember adds an existing user to a group, appending to both member
// arrays remotely (one atomic update) and locally.
func (s *Store) AddMember(ctx context.Context, groupID, email string) error {
	if _, err := s.requireSession(); err != nil {
		return s.fail("add_member", err)
	}
	id, err := parseGroupID(groupID)
	if err != nil {
		return s.fail("add_member", err)
	}

	profile, err := s.profiles.GetByEmail(ctx, email)
	if err == profilestore.ErrNotFound {
		return s.fail("add_member", ErrUserNotFound)
	}
	if err != nil {
		return s.fail("add_member", err)
	}

	if err := s.groups.AddMember(ctx, id, profile); err != nil {
		return s.fail("add_member", mapGroupErr(err))
	}

	s.mu.Lock()
	if g := s.mirrorGroup(id); g != nil && !contains(g.MemberEmails, profile.Email) {
		g.MemberEmails = append(g.MemberEmails, profile.Email)
		g.Members = append(g.Members, profile)
	}
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// RemoveMember removes a member from a group. The group document is
// re-fetched fresh to check authorization: only the owner may remove,
// and the owner cannot be removed (self-removal is rejected).
func (s *Store) RemoveMember(ctx context.Context, groupID, email string) error {
	sess, err := s.requireSession()
	if err != nil {
		return s.fail("remove_member", err)
	}
	id, err := parseGroupID(groupID)
	if err != nil {
		return s.fail("remove_member", err)
	}
	email = normalize.Email(email)

	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return s.fail("remove_member", mapGroupErr(err))
	}
	if !group.IsOwner(sess.Email) {
		return s.fail("remove_member", ErrNotGroupOwner)
	}
	if email == sess.Email {
		return s.fail("remove_member", ErrCannotRemoveSelf)
	}

	if err := s.groups.RemoveMember(ctx, id, email); err != nil {
		return s.fail("remove_member", mapGroupErr(err))
	}

	s.mu.Lock()
	if g := s.mirrorGroup(id); g != nil {
		g.MemberEmails = filter(g.MemberEmails, func(e string) bool { return e != email })
		kept := g.Members[:0:0]
		for _, m := range g.Members {
			if m.Email != email {
				kept = append(kept, m)
			}
		}
		g.Members = kept
	}
	s.lastError = ""
	s.mu.Unlock()
	return nil
}

// SearchUsers returns profiles whose email starts with query.
func (s *Store) SearchUsers(ctx context.Context, query string) ([]models.Profile, error) {
	if _, err := s.requireSession(); err != nil {
		return nil, s.fail("search_users", err)
	}

	out, err := s.profiles.SearchByEmailPrefix(ctx, query)
	if err != nil {
		return nil, s.fail("search_users", err)
	}

	s.mu.Lock()
	s.lastError = ""
	s.mu.Unlock()
	return out, nil
}

/* ── link actions ────────────────────────────────────────────────────── */

// ShareLink appends a new link to the group's feed with a fresh id,
// zero votes, and no comments.
func (s *Store) ShareLink(ctx context.Context, groupID, url, title, description string) (models.Link, error) {
	sess, err := s.requireSession()
	if err != nil {
		return models.Link{}, s.fail("share_link", err)
	}
	id, err := parseGroupID(groupID)
	if err != nil {
		return models.Link{}, s.fail("share_link", err)
	}

	profile, err := s.profiles.GetByEmail(ctx, sess.Email)
	if err != nil {
		return models.Link{}, s.fail("share_link", err)
	}

	link := models.Link{
		ID:             uuid.NewString(),
		URL:            url,
		Title:          htmlsanitize.Sanitize(title),
		Description:    htmlsanitize.Sanitize(description),
		Author:         sess.Email,
		AuthorNickname: profile.Nickname,
		Timestamp:      time.Now().UTC(),
		Votes:          models.Votes{Up: []string{}, Down: []string{}},
		Comments:       []models.Comment{},
	}
	if err := s.groups.AppendLink(ctx, id, link); err != nil {
		return models.Link{}, s.fail("share_link", mapGroupErr(err))
	}

	s.mu.Lock()
	if g := s.mirrorGroup(id); g != nil {
		g.Links = append(g.Links, link)
	}
	s.lastError = ""
	s.mu.Unlock()
	return link, nil
}

// UpdateLink merges a partial update over a link. Only the author may
// edit. The whole links array is written back from a fresh read; see
// the package comment for the lost-update caveat.
func (s *Store) UpdateLink(ctx context.Context, groupID, linkID string, upd LinkUpdate) error {
	sess, err := s.requireSession()
	if err != nil {
		return s.fail("update_link", err)
	}
	id, err := parseGroupID(groupID)
	if err != nil {
		return s.fail("update_link", err)
	}

	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return s.fail("update_link", mapGroupErr(err))
	}
	link := group.LinkByID(linkID)
	if link == nil {
		return s.fail("update_link", ErrLinkNotFound)
	}
	if link.Author != sess.Email {
		return s.fail("update_link", ErrNotLinkAuthor)
	}

	if upd.URL != nil {
		link.URL = *upd.URL
	}
	if upd.Title != nil {
		link.Title = htmlsanitize.Sanitize(*upd.Title)
	}
	if upd.Description != nil {
		link.Description = htmlsanitize.Sanitize(*upd.Description)
	}

	if err := s.groups.ReplaceLinks(ctx, id, group.Links); err != nil {
		return s.fail("update_link", mapGroupErr(err))
	}

	s.setMirrorLinks(id, group.Links)
	return nil
}

// ToggleVote flips the caller's membership in the requested vote roll.
// The caller is first removed from the opposite roll, so an email is
// never in both. Toggling the same vote twice restores the original
// state.
func (s *Store) ToggleVote(ctx context.Context, groupID, linkID string, vote VoteKind) error {
	sess, err := s.requireSession()
	if err != nil {
		return s.fail("toggle_vote", err)
	}
	if vote != VoteUp && vote != VoteDown {
		return s.fail("toggle_vote", ErrInvalidVote)
	}
	id, err := parseGroupID(groupID)
	if err != nil {
		return s.fail("toggle_vote", err)
	}

	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return s.fail("toggle_vote", mapGroupErr(err))
	}
	link := group.LinkByID(linkID)
	if link == nil {
		return s.fail("toggle_vote", ErrLinkNotFound)
	}

	email := sess.Email
	keep := func(e string) bool { return e != email }

	same, opposite := &link.Votes.Up, &link.Votes.Down
	if vote == VoteDown {
		same, opposite = opposite, same
	}

	*opposite = filter(*opposite, keep)
	if contains(*same, email) {
		*same = filter(*same, keep)
	} else {
		*same = append(*same, email)
	}

	if err := s.groups.ReplaceLinks(ctx, id, group.Links); err != nil {
		return s.fail("toggle_vote", mapGroupErr(err))
	}

	s.setMirrorLinks(id, group.Links)
	return nil
}

// AddComment appends a comment to a link, snapshotting the caller's
// current nickname.
func (s *Store) AddComment(ctx context.Context, groupID, linkID, content string) (models.Comment, error) {
	sess, err := s.requireSession()
	if err != nil {
		return models.Comment{}, s.fail("add_comment", err)
	}
	id, err := parseGroupID(groupID)
	if err != nil {
		return models.Comment{}, s.fail("add_comment", err)
	}

	group, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return models.Comment{}, s.fail("add_comment", mapGroupErr(err))
	}
	link := group.LinkByID(linkID)
	if link == nil {
		return models.Comment{}, s.fail("add_comment", ErrLinkNotFound)
	}

	profile, err := s.profiles.GetByEmail(ctx, sess.Email)
	if err != nil {
		return models.Comment{}, s.fail("add_comment", err)
	}

	comment := models.Comment{
		ID:             uuid.NewString(),
		Content:        htmlsanitize.Sanitize(content),
		Author:         sess.Email,
		AuthorNickname: profile.Nickname,
		Timestamp:      time.Now().UTC(),
	}
	link.Comments = append(link.Comments, comment)

	if err := s.groups.ReplaceLinks(ctx, id, group.Links); err != nil {
		return models.Comment{}, s.fail("add_comment", mapGroupErr(err))
	}

	s.setMirrorLinks(id, group.Links)
	return comment, nil
}

/* ── internals ───────────────────────────────────────────────────────── */

func (s *Store) requireSession() (auth.Session, error) {
	sess, ok := s.sessions.Current()
	if !ok {
		return auth.Session{}, ErrNotAuthenticated
	}
	return sess, nil
}

// fail records the message for the UI and returns the error unchanged.
func (s *Store) fail(op string, err error) error {
	s.mu.Lock()
	s.lastError = err.Error()
	s.mu.Unlock()
	s.log.Warn("chat action failed", zap.String("op", op), zap.Error(err))
	return err
}

// mirrorGroup returns a pointer into the mirror for id, or nil. Caller
// must hold s.mu.
func (s *Store) mirrorGroup(id primitive.ObjectID) *models.Group {
	for i := range s.mirror {
		if s.mirror[i].ID == id {
			return &s.mirror[i]
		}
	}
	return nil
}

func (s *Store) setMirrorLinks(id primitive.ObjectID, links []models.Link) {
	s.mu.Lock()
	if g := s.mirrorGroup(id); g != nil {
		g.Links = links
	}
	s.lastError = ""
	s.mu.Unlock()
}

func parseGroupID(groupID string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(groupID)
	if err != nil {
		return primitive.NilObjectID, ErrGroupNotFound
	}
	return id, nil
}

func mapGroupErr(err error) error {
	if err == groupstore.ErrNotFound {
		return ErrGroupNotFound
	}
	return err
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func filter(ss []string, keep func(string) bool) []string {
	out := ss[:0:0]
	for _, v := range ss {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
