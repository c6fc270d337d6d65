// Package interactive implements the radiodns interactive shell.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/nexgenta/libradiodns/cmd/radiodns/commands"
)

// SuffixFunc returns the domain suffix for a bearer. Empty selects the
// bearer's default.
type SuffixFunc func(bearer string) string

// Shell is a readline command loop over a commands.Lookup.
type Shell struct {
	lookup *commands.Lookup
	suffix SuffixFunc
	rl     *readline.Instance
}

// New creates a shell. The lookup's App and Protocol change with the
// "app" command.
func New(lookup *commands.Lookup, suffix SuffixFunc) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "radiodns> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return newShell(lookup, suffix, rl), nil
}

func newShell(lookup *commands.Lookup, suffix SuffixFunc, rl *readline.Instance) *Shell {
	if suffix == nil {
		suffix = func(string) string { return "" }
	}
	return &Shell{lookup: lookup, suffix: suffix, rl: rl}
}

// Stdout returns a writer that coordinates with the readline input.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Run reads commands until quit, EOF or ctx is done.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	s.Exec(ctx, "help", s.rl.Stdout())

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		if !s.Exec(ctx, line, s.rl.Stdout()) {
			return
		}
	}
}

// Exec runs one command line, writing output to w. It returns false when
// the shell should exit.
func (s *Shell) Exec(ctx context.Context, line string, w io.Writer) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		printHelp(w)

	case "lookup", "l":
		if len(args) == 0 {
			fmt.Fprintln(w, "Usage: lookup <domain>...")
			return true
		}
		s.lookup.RunAll(ctx, args, w, w)

	case "app":
		s.cmdApp(args, w)

	case "quit", "exit", "q":
		fmt.Fprintln(w, "Exiting...")
		return false

	default:
		b, ok := commands.LookupBearer(cmd)
		if !ok {
			fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
			return true
		}
		domain, err := b.Domain(args, s.suffix(b.Name))
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return true
		}
		if err := s.lookup.Run(ctx, domain, w); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
	return true
}

func (s *Shell) cmdApp(args []string, w io.Writer) {
	switch len(args) {
	case 0:
		if s.lookup.App == "" {
			fmt.Fprintln(w, "No application selected")
			return
		}
		fmt.Fprintf(w, "Application: %s (%s)\n", s.lookup.App, protocolOrDefault(s.lookup.Protocol))
	case 1, 2:
		if args[0] == "-" || args[0] == "none" {
			s.lookup.App = ""
			fmt.Fprintln(w, "Application cleared")
			return
		}
		s.lookup.App = args[0]
		s.lookup.Protocol = ""
		if len(args) == 2 {
			s.lookup.Protocol = args[1]
		}
		fmt.Fprintf(w, "Application: %s (%s)\n", s.lookup.App, protocolOrDefault(s.lookup.Protocol))
	default:
		fmt.Fprintln(w, "Usage: app [name [protocol]] | app none")
	}
}

func protocolOrDefault(p string) string {
	if p == "" {
		return "tcp"
	}
	return p
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, `
RadioDNS Commands:
  Lookup:
    lookup <domain>...   - Resolve source domains`)
	for _, b := range commands.Bearers() {
		fmt.Fprintf(w, "    %-20s - %s\n", b.Usage(), b.Help)
	}
	fmt.Fprintln(w, `
  Applications:
    app [name [proto]]   - Show or set the application to discover (e.g. app radioepg)
    app none             - Stop discovering applications

  General:
    help                 - Show this help
    quit                 - Exit

  Numbers are decimal or 0x-prefixed hex.`)
}
