package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Products(ctx context.Context) error
	Show(ctx context.Context, id string) error
	Image(ctx context.Context, id string) error
	Mine(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Profile(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the eproduct CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF, when ctx is done, or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Anyone:
//	  - help           - show available commands
//	  - products | ls  - list all products
//	  - show <id>      - show one product
//	  - image <id>     - download a product image
//	  - signup         - create an account and log in
//	  - login          - authenticate
//	  - exit | quit    - leave the program
//
//	Logged in:
//	  - mine           - your products
//	  - add            - list a new product
//	  - edit <id>      - edit one of your products
//	  - delete <id>    - delete one of your products
//	  - profile        - update name or password
//	  - whoami         - show the current user
//	  - logout         - log out
//
// Errors returned by command handlers are not printed here; handlers report
// failures themselves through notifications.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("ep %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		withID := func(run func(ctx context.Context, id string) error) {
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
				return
			}
			_ = run(ctx, args[0])
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: products, show <id>, image <id>, mine, add, edit <id>, delete <id>, profile, whoami, logout, exit")
			} else {
				printlnFn("Available commands: products, show <id>, image <id>, signup, login, exit")
			}

		case "signup", "register":
			_ = a.Signup(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "products", "ls":
			_ = a.Products(ctx)

		case "show":
			withID(a.Show)

		case "image":
			withID(a.Image)

		case "mine":
			_ = a.Mine(ctx)

		case "add":
			_ = a.Add(ctx)

		case "edit":
			withID(a.Edit)

		case "delete", "rm":
			withID(a.Delete)

		case "profile":
			_ = a.Profile(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
