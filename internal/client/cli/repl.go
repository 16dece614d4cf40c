package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/bookflix/internal/client/services"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context, edit bool) error
	Trending(ctx context.Context) error
	NewReleases(ctx context.Context) error
	Recommended(ctx context.Context) error
	Search(ctx context.Context, query string) error
	Book(ctx context.Context, id string) error
	Favorite(ctx context.Context, id string) error
	Unfavorite(ctx context.Context, id string) error
	Progress(ctx context.Context, id, value string) error
	Subscription(ctx context.Context) error
	Tiers(ctx context.Context) error
	Upgrade(ctx context.Context, tier string) error
	Can(ctx context.Context, feature, tier string) error
}

const (
	helpAnonymous = "Available commands: register, login, trending, new, recommended, search <q>, book <id>, tiers, can <feature> [tier], exit"
	helpSignedIn  = "Available commands: whoami, profile [edit], trending, new, recommended, search <q>, book <id>, fav <id>, unfav <id>, progress <id> <0-100>, sub, tiers, upgrade <tier>, can <feature> [tier], logout, exit"
)

// runREPL starts a simple read–eval–print loop for the bookflix CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Errors returned by command handlers are
// printed as a single display line and never end the loop. The loop exits on
// EOF or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("bookflix %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpSignedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "whoami":
			report(a.WhoAmI(ctx))

		case "profile":
			report(a.Profile(ctx, len(args) > 0 && args[0] == "edit"))

		case "trending":
			report(a.Trending(ctx))

		case "new":
			report(a.NewReleases(ctx))

		case "recommended":
			report(a.Recommended(ctx))

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <query>")
				continue
			}
			report(a.Search(ctx, strings.Join(args, " ")))

		case "book", "fav", "unfav":
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				continue
			}
			switch cmd {
			case "book":
				report(a.Book(ctx, args[0]))
			case "fav":
				report(a.Favorite(ctx, args[0]))
			default:
				report(a.Unfavorite(ctx, args[0]))
			}

		case "progress":
			if len(args) < 2 {
				printlnFn("Usage: progress <id> <0-100>")
				continue
			}
			report(a.Progress(ctx, args[0], args[1]))

		case "sub":
			report(a.Subscription(ctx))

		case "tiers":
			report(a.Tiers(ctx))

		case "upgrade":
			if len(args) == 0 {
				printlnFn("Usage: upgrade <tier>")
				continue
			}
			report(a.Upgrade(ctx, strings.Join(args, " ")))

		case "can":
			if len(args) == 0 {
				printlnFn("Usage: can <feature> [tier]")
				continue
			}
			report(a.Can(ctx, args[0], strings.Join(args[1:], " ")))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", services.DisplayMessage(err))
	}
}
