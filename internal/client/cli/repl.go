package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	status() string
	Home(ctx context.Context) error
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Profile(ctx context.Context) error
	Update(ctx context.Context) error
	Logout(ctx context.Context) error
	Delete(ctx context.Context) error
}

// runREPL reads commands line by line from reader and dispatches them to a.
// Prompts and replies go to out, the same writer the views use.
// Views prompt for their own fields from the same reader, so a command and
// its answers can be piped in together.
//
// Commands
//
//	Not logged in:
//	  - help           show available commands
//	  - home           show the landing view
//	  - register       create an account
//	  - login          authenticate
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - home           show the landing view
//	  - profile        show the profile
//	  - update         edit the profile
//	  - logout         end the session
//	  - delete         delete the account
//	  - exit | quit    leave the program
//
// Errors returned by command handlers are ignored here; handlers print
// their own messages. The loop exits on EOF, on exit/quit, or once ctx is
// done.
func runREPL(ctx context.Context, a execIface, reader *bufio.Reader, out io.Writer) {
	for ctx.Err() == nil {
		fmt.Fprintf(out, "authapp%s> ", a.status())
		line, err := readLine(reader)
		if err != nil {
			fmt.Fprintln(out)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: home, profile, update, logout, delete, exit")
			} else {
				fmt.Fprintln(out, "Available commands: home, register, login, exit")
			}

		case "home":
			_ = a.Home(ctx)

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "update":
			_ = a.Update(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}
