package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. App satisfies it; tests
// use a stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Ask(ctx context.Context, question string) error
}

// runREPL reads commands line by line until EOF, "exit" or "quit".
//
//	Not logged in:  help, login, exit | quit
//	Logged in:      help, ask <question>, logout, exit | quit
//
// When logged in, a line that is not a command is sent as a question.
// Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rk %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: ask <question>, logout, exit (or just type a question)")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "ask":
			if !a.isLoggedIn() {
				printlnFn("Please log in first")
				continue
			}
			_ = a.Ask(ctx, rest)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			if !a.isLoggedIn() {
				printlnFn("Unknown command:", cmd)
				continue
			}
			_ = a.Ask(ctx, line)
		}
	}
}
