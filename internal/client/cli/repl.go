package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Status(ctx context.Context) error
	ListEvents(ctx context.Context, args []string) error
	ShowEvent(ctx context.Context, args []string) error
	Attend(ctx context.Context, args []string) error
	Sessions(ctx context.Context, args []string) error
	Metrics(ctx context.Context) error
	Export(ctx context.Context, args []string) error
}

const (
	helpAnonymous = "Available commands: register, login, status, events [key=value ...], event <slug>, sessions <slug>, exit"
	helpLoggedIn  = "Available commands: whoami, profile, status, events [key=value ...], event <slug>, attend <slug>, sessions <slug>, metrics, export <slug>, logout, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The loop exits on EOF or when the user types "exit" or "quit".
//
// Handler errors are reported to the user and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("eventhub%s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpAnonymous)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "profile":
			cmdErr = a.EditProfile(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "events", "ls":
			cmdErr = a.ListEvents(ctx, args)

		case "event":
			cmdErr = a.ShowEvent(ctx, args)

		case "attend":
			cmdErr = a.Attend(ctx, args)

		case "sessions":
			cmdErr = a.Sessions(ctx, args)

		case "metrics":
			cmdErr = a.Metrics(ctx)

		case "export":
			cmdErr = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", describe(cmdErr))
		}

		if err != nil {
			return
		}
	}
}
