// internal/app/cli/repl.go
//
// A line-oriented front-end for the chat store. This layer is glue:
// it parses commands, calls store actions, and prints results. All
// behavior lives in internal/app/chat.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dalemusser/sharehub/internal/app/chat"
	"github.com/dalemusser/sharehub/internal/domain/models"
)

const helpText = `commands:
  signup <email> <password> <nickname>   create an account and sign in
  login <email> <password>               sign in
  logout                                 sign out
  whoami                                 show the signed-in profile
  nick <nickname>                        change your nickname
  search <prefix>                        find users by email prefix

  groups                                 list your groups
  create <name>                          create a group (becomes active)
  use <n>                                select group n as active
  rename <name>                          rename the active group
  members                                list members of the active group
  invite <email>                         add a member to the active group
  kick <email>                           remove a member (owner only)

  links                                  list links in the active group
  share <url> <title> [description]      share a link
  title <n> <text>                       retitle link n (author only)
  up <n> / down <n>                      toggle a vote on link n
  comment <n> <text>                     comment on link n
  comments <n>                           show comments on link n

  help                                   this text
  quit                                   exit`

// Runner drives the chat store from a line stream.
type Runner struct {
	store *chat.Store
	in    io.Reader
	out   io.Writer
}

func NewRunner(store *chat.Store, in io.Reader, out io.Writer) *Runner {
	return &Runner{store: store, in: in, out: out}
}

// Run reads commands until EOF or "quit".
func (r *Runner) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, `sharehub — type "help" for commands`)

	sc := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(r.out)
			return sc.Err()
		}
		cmd, args := splitCommand(sc.Text())
		if cmd == "" {
			continue
		}
		if cmd == "quit" || cmd == "exit" {
			return nil
		}
		if err := r.dispatch(ctx, cmd, args); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

func (r *Runner) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "help":
		fmt.Fprintln(r.out, helpText)
		return nil

	case "signup":
		if len(args) < 3 {
			return usage("signup <email> <password> <nickname>")
		}
		if err := r.store.SignUp(ctx, args[0], args[1], strings.Join(args[2:], " ")); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "signed up as %s\n", args[0])
		return nil

	case "login":
		if len(args) != 2 {
			return usage("login <email> <password>")
		}
		if err := r.store.SignIn(ctx, args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "signed in; %d group(s)\n", len(r.store.Groups()))
		return nil

	case "logout":
		r.store.Logout()
		fmt.Fprintln(r.out, "signed out")
		return nil

	case "whoami":
		p, ok := r.store.Profile()
		if !ok {
			fmt.Fprintln(r.out, "not signed in")
			return nil
		}
		fmt.Fprintf(r.out, "%s (%s)\n", p.Nickname, p.Email)
		return nil

	case "nick":
		if len(args) == 0 {
			return usage("nick <nickname>")
		}
		return r.store.UpdateProfile(ctx, strings.Join(args, " "))

	case "search":
		if len(args) != 1 {
			return usage("search <prefix>")
		}
		users, err := r.store.SearchUsers(ctx, args[0])
		if err != nil {
			return err
		}
		for _, u := range users {
			fmt.Fprintf(r.out, "  %s (%s)\n", u.Email, u.Nickname)
		}
		fmt.Fprintf(r.out, "%d user(s)\n", len(users))
		return nil

	case "groups":
		active := r.store.ActiveGroupID()
		for i, g := range r.store.Groups() {
			marker := " "
			if g.ID.Hex() == active {
				marker = "*"
			}
			fmt.Fprintf(r.out, "%s %d. %s (%d members, %d links)\n",
				marker, i+1, g.Name, len(g.MemberEmails), len(g.Links))
		}
		return nil

	case "create":
		if len(args) == 0 {
			return usage("create <name>")
		}
		g, err := r.store.AddGroup(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(r.out, "created %q (now active)\n", g.Name)
		return nil

	case "use":
		g, err := r.groupByIndex(args)
		if err != nil {
			return err
		}
		r.store.SetActiveGroup(g.ID.Hex())
		fmt.Fprintf(r.out, "active group: %s\n", g.Name)
		return nil

	case "rename":
		if len(args) == 0 {
			return usage("rename <name>")
		}
		g, err := r.activeGroup()
		if err != nil {
			return err
		}
		return r.store.UpdateGroupName(ctx, g.ID.Hex(), strings.Join(args, " "))

	case "members":
		g, err := r.activeGroup()
		if err != nil {
			return err
		}
		for _, m := range g.Members {
			owner := ""
			if g.IsOwner(m.Email) {
				owner = " (owner)"
			}
			fmt.Fprintf(r.out, "  %s (%s)%s\n", m.Nickname, m.Email, owner)
		}
		return nil

	case "invite":
		if len(args) != 1 {
			return usage("invite <email>")
		}
		g, err := r.activeGroup()
		if err != nil {
			return err
		}
		return r.store.AddMember(ctx, g.ID.Hex(), args[0])

	case "kick":
		if len(args) != 1 {
			return usage("kick <email>")
		}
		g, err := r.activeGroup()
		if err != nil {
			return err
		}
		return r.store.RemoveMember(ctx, g.ID.Hex(), args[0])

	case "links":
		g, err := r.activeGroup()
		if err != nil {
			return err
		}
		for i, l := range g.Links {
			fmt.Fprintf(r.out, "  %d. %s — %s (by %s, +%d/-%d, %d comments)\n",
				i+1, l.Title, l.URL, l.AuthorNickname,
				len(l.Votes.Up), len(l.Votes.Down), len(l.Comments))
		}
		return nil

	case "share":
		if len(args) < 2 {
			return usage("share <url> <title> [description]")
		}
		g, err := r.activeGroup()
		if err != nil {
			return err
		}
		desc := ""
		if len(args) > 2 {
			desc = strings.Join(args[2:], " ")
		}
		_, err = r.store.ShareLink(ctx, g.ID.Hex(), args[0], args[1], desc)
		return err

	case "title":
		if len(args) < 2 {
			return usage("title <n> <text>")
		}
		g, link, err := r.linkByIndex(args[0])
		if err != nil {
			return err
		}
		title := strings.Join(args[1:], " ")
		return r.store.UpdateLink(ctx, g.ID.Hex(), link.ID, chat.LinkUpdate{Title: &title})

	case "up", "down":
		if len(args) != 1 {
			return usage(cmd + " <n>")
		}
		g, link, err := r.linkByIndex(args[0])
		if err != nil {
			return err
		}
		return r.store.ToggleVote(ctx, g.ID.Hex(), link.ID, chat.VoteKind(cmd))

	case "comment":
		if len(args) < 2 {
			return usage("comment <n> <text>")
		}
		g, link, err := r.linkByIndex(args[0])
		if err != nil {
			return err
		}
		_, err = r.store.AddComment(ctx, g.ID.Hex(), link.ID, strings.Join(args[1:], " "))
		return err

	case "comments":
		if len(args) != 1 {
			return usage("comments <n>")
		}
		_, link, err := r.linkByIndex(args[0])
		if err != nil {
			return err
		}
		for _, c := range link.Comments {
			fmt.Fprintf(r.out, "  %s: %s\n", c.AuthorNickname, c.Content)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q (try \"help\")", cmd)
	}
}

func (r *Runner) activeGroup() (models.Group, error) {
	id := r.store.ActiveGroupID()
	if id == "" {
		return models.Group{}, fmt.Errorf("no active group (use \"use <n>\")")
	}
	g, ok := r.store.Group(id)
	if !ok {
		return models.Group{}, fmt.Errorf("active group is gone")
	}
	return g, nil
}

func (r *Runner) groupByIndex(args []string) (models.Group, error) {
	if len(args) != 1 {
		return models.Group{}, usage("use <n>")
	}
	groups := r.store.Groups()
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(groups) {
		return models.Group{}, fmt.Errorf("no group %q", args[0])
	}
	return groups[n-1], nil
}

func (r *Runner) linkByIndex(arg string) (models.Group, models.Link, error) {
	g, err := r.activeGroup()
	if err != nil {
		return models.Group{}, models.Link{}, err
	}
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(g.Links) {
		return models.Group{}, models.Link{}, fmt.Errorf("no link %q", arg)
	}
	return g, g.Links[n-1], nil
}

func splitCommand(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

func usage(s string) error {
	return fmt.Errorf("usage: %s", s)
}
