// Package tui runs the interactive assistant session, either as a Bubble Tea
// terminal UI or as a plain line-based loop.
package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/addrbook/internal/command"
)

// Text shown by every session.
const (
	Welcome = "Welcome to the assistant bot!"
	Prompt  = "Enter a command: "
)

// Executor runs one line of user input.
type Executor interface {
	Execute(line string) command.Result
}

// Verify at compile time that the command handler satisfies Executor.
var _ Executor = (*command.Handler)(nil)

// Session runs the read-eval-print loop until the user exits, input ends,
// or ctx is cancelled.
type Session interface {
	Run(ctx context.Context) error
}

// SessionOptions configures session creation.
type SessionOptions struct {
	In         io.Reader // Input source (default: os.Stdin).
	Out        io.Writer // Output destination (default: os.Stdout).
	ForcePlain bool      // Force the line-based session even if TTY.
	Executor   Executor
}

// NewSession returns a TUI session when Out is a TTY, or a plain line-based
// session otherwise. ForcePlain overrides TTY detection.
func NewSession(opts SessionOptions) Session {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	if opts.ForcePlain || !isTTY(opts.Out) {
		return &PlainSession{in: opts.In, out: opts.Out, exec: opts.Executor}
	}
	return &TUISession{in: opts.In, out: opts.Out, exec: opts.Executor}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainSession prompts and reads one line at a time.
type PlainSession struct {
	in   io.Reader
	out  io.Writer
	exec Executor

	scanning sync.WaitGroup // the reader goroutine started by Run
}

// NewPlainSession creates a line-based session reading from in and writing to out.
func NewPlainSession(in io.Reader, out io.Writer, exec Executor) *PlainSession {
	return &PlainSession{in: in, out: out, exec: exec}
}

// Run loops until an exit command, end of input, or cancellation.
// End of input is a normal exit; cancellation returns ctx.Err().
func (s *PlainSession) Run(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.out, Welcome)

	done := make(chan struct{})
	defer close(done)

	// A blocked Read cannot be interrupted, so the reader goroutine may
	// outlive Run until the next line or end of input arrives. It never
	// delivers that line once Run has returned.
	lines := make(chan string)
	scanErr := make(chan error, 1)
	s.scanning.Add(1)
	go func() {
		defer s.scanning.Done()
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		_, _ = fmt.Fprint(s.out, Prompt)
		select {
		case <-ctx.Done():
			_, _ = fmt.Fprintln(s.out)
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				_, _ = fmt.Fprintln(s.out)
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			res := s.exec.Execute(line)
			if res.Output != "" {
				_, _ = fmt.Fprintln(s.out, res.Output)
			}
			if res.Exit {
				return nil
			}
		}
	}
}

// TUISession renders the session with Bubble Tea.
// Falls back to PlainSession if the TUI program fails to start.
type TUISession struct {
	in   io.Reader
	out  io.Writer
	exec Executor
}

// Run starts the Bubble Tea program and blocks until it exits.
func (s *TUISession) Run(ctx context.Context) error {
	p := tea.NewProgram(NewModel(s.exec),
		tea.WithInput(s.in),
		tea.WithOutput(s.out),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, tea.ErrProgramKilled) {
			return ctx.Err()
		}
		if m, ok := final.(Model); ok && len(m.transcript) > 0 {
			return fmt.Errorf("tui: %w", err)
		}
		plain := &PlainSession{in: s.in, out: s.out, exec: s.exec}
		return plain.Run(ctx)
	}
	return nil
}
