package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/satish9484/chat-app/config"
	adminusecase "github.com/satish9484/chat-app/internal/admin/usecase"
	"github.com/satish9484/chat-app/internal/conversation"
	conversationmodel "github.com/satish9484/chat-app/internal/conversation/model"
	conversationrepo "github.com/satish9484/chat-app/internal/conversation/repository"
	conversationusecase "github.com/satish9484/chat-app/internal/conversation/usecase"
	"github.com/satish9484/chat-app/internal/friend"
	friendrepo "github.com/satish9484/chat-app/internal/friend/repository"
	friendusecase "github.com/satish9484/chat-app/internal/friend/usecase"
	"github.com/satish9484/chat-app/internal/platform/firebase"
	"github.com/satish9484/chat-app/internal/selection"
	"github.com/satish9484/chat-app/internal/session"
	sessionmodel "github.com/satish9484/chat-app/internal/session/model"
	sessionusecase "github.com/satish9484/chat-app/internal/session/usecase"
	"github.com/satish9484/chat-app/internal/upload"
	"github.com/satish9484/chat-app/pkg/logger"
)

func main() {
	configName := flag.String("config", "config-local", "config file name under config/ (without extension)")
	flag.Parse()

	v, err := config.LoadConfig(*configName)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		log.Fatalf("parse config: %v", err)
	}

	appLogger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer appLogger.Sync()

	ctx := context.Background()
	platform, err := firebase.NewPlatform(ctx, cfg, appLogger)
	if err != nil {
		log.Fatalf("init backend: %v", err)
	}
	defer platform.Close()

	sess := sessionusecase.NewSessionUsecase(platform.Auth, platform.Docs, platform.Blobs, appLogger)
	sel := selection.NewState(appLogger)
	uploads := upload.NewCoordinator(platform.Blobs, sel, cfg.Upload, appLogger)
	friends := friendusecase.NewFriendDirectory(friendrepo.NewFriendRepository(platform.Docs, appLogger), sess, sel, appLogger)
	conv := conversationusecase.NewConversationSync(conversationrepo.NewConversationRepository(platform.Docs, appLogger), sess, sel, uploads, friends, appLogger)
	defer conv.Close()
	mod := adminusecase.NewAdminUsecase(platform.Docs, platform.Admin, appLogger)

	cli := &app{
		session:   sess,
		selection: sel,
		friends:   friends,
		conv:      conv,
		admin:     mod,
		out:       os.Stdout,
	}

	// Every identity change invalidates the selection and the friend cache.
	unsub := sess.OnChange(func(p *sessionmodel.Principal) {
		sel.Reset()
		if p == nil {
			return
		}
		fmt.Fprintf(cli.out, "signed in as %s\n", p.DisplayName)
		if _, err := friends.LoadFriends(ctx); err != nil {
			appLogger.Warn("initial friend load failed", "err", err)
		}
	})
	defer unsub()

	stopPrinting := conv.OnMessages(cli.printMessages)
	defer stopPrinting()

	cli.run(ctx, os.Stdin)
}

type app struct {
	session   session.Usecase
	selection *selection.State
	friends   friend.Directory
	conv      conversation.Usecase
	admin     *adminusecase.AdminUsecase
	out       *os.File
}

func (a *app) run(ctx context.Context, in *os.File) {
	fmt.Fprintln(a.out, "commands: /register /login /logout /friends /add /remove /chat /recent /attach /delmsg /users /quit")
	fmt.Fprintln(a.out, "plain text sends to the active chat")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return
		}
		if err := a.dispatch(ctx, scanner, line); err != nil {
			fmt.Fprintf(a.out, "error: %v\n", err)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(a.out, "stdin error: %v\n", err)
	}
}

func (a *app) dispatch(ctx context.Context, scanner *bufio.Scanner, line string) error {
	if !strings.HasPrefix(line, "/") {
		return a.conv.SendText(ctx, line)
	}

	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "/register":
		if len(args) < 3 {
			return fmt.Errorf("usage: /register <name> <email> <password>")
		}
		p, err := a.session.Register(ctx, session.RegisterCommand{
			DisplayName: args[0],
			Email:       args[1],
			Password:    args[2],
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "registered %s (%s)\n", p.DisplayName, p.UID)
		return nil

	case "/login":
		if len(args) < 2 {
			return fmt.Errorf("usage: /login <email> <password>")
		}
		_, err := a.session.SignIn(ctx, session.SignInCommand{Email: args[0], Password: args[1]})
		return err

	case "/logout":
		return a.session.SignOut(ctx)

	case "/friends":
		list, err := a.friends.LoadFriends(ctx)
		if err != nil {
			return err
		}
		for _, p := range list {
			fmt.Fprintf(a.out, "  %s (%s)\n", p.DisplayName, p.UID)
		}
		return nil

	case "/add":
		if len(args) < 1 {
			return fmt.Errorf("usage: /add <displayName>")
		}
		target, err := a.findUser(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return a.friends.AddFriend(ctx, *target)

	case "/remove":
		if len(args) < 1 {
			return fmt.Errorf("usage: /remove <displayName>")
		}
		target, err := a.findUser(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		if err := a.friends.RequestRemoval(*target); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "remove %s and keep chat history? [y/N] ", target.DisplayName)
		if !scanner.Scan() || strings.ToLower(strings.TrimSpace(scanner.Text())) != "y" {
			a.friends.CancelRemoval()
			fmt.Fprintln(a.out, "cancelled")
			return nil
		}
		return a.friends.ConfirmRemoval(ctx)

	case "/chat":
		if len(args) < 1 {
			return fmt.Errorf("usage: /chat <displayName>")
		}
		self := a.session.Current()
		if self == nil {
			return fmt.Errorf("sign in first")
		}
		target, err := a.findUser(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		return a.selection.SelectPeer(*self, *target)

	case "/recent":
		entries, err := a.conv.RecentChats(ctx)
		if err != nil {
			return err
		}
		for _, e := range entries {
			last := "(no messages)"
			if e.LastMessage != nil {
				last = e.LastMessage.Text
			}
			fmt.Fprintf(a.out, "  %s: %s\n", e.Peer.DisplayName, last)
		}
		return nil

	case "/attach":
		if len(args) < 1 {
			return fmt.Errorf("usage: /attach <path> [caption]")
		}
		file, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer file.Close()
		info, err := file.Stat()
		if err != nil {
			return err
		}
		caption := strings.Join(args[1:], " ")
		return a.conv.SendWithAttachment(ctx, caption, filepath.Base(args[0]), file, info.Size())

	case "/delmsg":
		if len(args) < 1 {
			return fmt.Errorf("usage: /delmsg <messageID>")
		}
		return a.conv.DeleteMessage(ctx, args[0])

	case "/users":
		users, err := a.admin.ListUsers(ctx)
		if err != nil {
			return err
		}
		for _, p := range users {
			fmt.Fprintf(a.out, "  %s (%s)\n", p.DisplayName, p.UID)
		}
		return nil

	default:
		return fmt.Errorf("unknown command %s", cmd)
	}
}

func (a *app) findUser(ctx context.Context, displayName string) (*sessionmodel.Principal, error) {
	matches, err := a.admin.SearchUsers(ctx, displayName)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no user named %q", displayName)
	}
	return &matches[0], nil
}

// printMessages renders the whole view on every push; the sync model is
// full-replace, so there is nothing incremental to print.
func (a *app) printMessages(msgs []conversationmodel.Message) {
	if len(msgs) == 0 {
		return
	}
	fmt.Fprintf(a.out, "--- %s ---\n", a.selection.Peer().DisplayName)
	for _, m := range msgs {
		body := m.Text
		if m.ImageURL != "" {
			body = fmt.Sprintf("%s [%s]", body, m.ImageURL)
		}
		fmt.Fprintf(a.out, "[%s] %s: %s\n", m.SentAt.Format("15:04"), m.SenderID, body)
	}
}
