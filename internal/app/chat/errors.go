// internal/app/chat/errors.go
package chat

import "errors"

// Sentinel errors surfaced by chat actions. Auth failures come from the
// accounts store (accountstore.ErrInvalidCredentials / ErrEmailTaken);
// anything else is passed through from the backend unchanged.
var (
	ErrNotAuthenticated = errors.New("user not authenticated")
	ErrUserNotFound     = errors.New("user not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrNotGroupOwner    = errors.New("only group creator can remove members")
	ErrCannotRemoveSelf = errors.New("cannot remove yourself")
	ErrLinkNotFound     = errors.New("link not found")
	ErrNotLinkAuthor    = errors.New("only the link author can edit it")
	ErrInvalidVote      = errors.New(`vote must be "up" or "down"`)
)
