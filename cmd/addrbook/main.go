package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/addrbook"
	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/command"
	"github.com/smileynet/addrbook/internal/config"
	"github.com/smileynet/addrbook/internal/logging"
	"github.com/smileynet/addrbook/internal/store"
	"github.com/smileynet/addrbook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	projectConfigFile = ".addrbook.yaml"
	localTemplatesDir = ".addrbook"
	dotEnvFile        = ".env"
)

// Globals holds flags shared by every command.
type Globals struct {
	Config string `help:"Config file applied after the user and project config." type:"path"`
	File   string `help:"Address book file (overrides storage.path)." short:"f"`
	Format string `help:"Storage format: yaml or cbor (overrides storage.format)."`
	Plain  bool   `help:"Use the line-based session even on a TTY."`
}

// CLI is the top-level command structure for addrbook.
type CLI struct {
	Globals

	Version      kong.VersionFlag `help:"Show version." short:"V"`
	Shell        ShellCmd         `cmd:"" default:"1" help:"Start the interactive assistant (default)."`
	Add          AddCmd           `cmd:"" help:"Add a phone to a contact, creating the contact if needed."`
	Change       ChangeCmd        `cmd:"" help:"Replace a contact's first phone."`
	Phone        PhoneCmd         `cmd:"" help:"Show a contact's phones."`
	All          AllCmd           `cmd:"" help:"List every contact."`
	AddBirthday  AddBirthdayCmd   `cmd:"" name:"add-birthday" help:"Set a contact's birthday (DD.MM.YYYY)."`
	ShowBirthday ShowBirthdayCmd  `cmd:"" name:"show-birthday" help:"Show a contact's birthday."`
	Birthdays    BirthdaysCmd     `cmd:"" help:"List upcoming congratulation dates."`
	Init         InitCmd          `cmd:"" help:"Write a starter .addrbook.yaml in the current directory."`
}

// bookStore abstracts store.FileStore for testing.
type bookStore interface {
	Load() (*book.Book, error)
	Save(b *book.Book) error
}

// app bundles everything a command needs for one run.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  bookStore
	book   *book.Book
	help   string
	now    func() time.Time
}

// handler builds a command handler over the app's address book.
func (a *app) handler() *command.Handler {
	return command.NewHandler(a.book,
		command.WithClock(a.now),
		command.WithWindow(a.cfg.Birthdays.Window),
		command.WithLeapDayPolicy(a.cfg.LeapDayPolicy()),
		command.WithHelp(a.help),
		command.WithLogger(a.logger),
	)
}

// loadConfig loads .env, layered config files, environment overrides, and
// finally flag overrides.
func loadConfig(g *Globals) (*config.Config, error) {
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if g.Config != "" {
		if _, err := os.Stat(g.Config); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/addrbook/config.yaml"),
		projectConfigFile,
		g.Config,
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if g.File != "" {
		cfg.Storage.Path = g.File
	}
	if g.Format != "" {
		cfg.Storage.Format = g.Format
	}
	if g.Plain {
		cfg.UI.Plain = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openApp loads config, builds the logger and store, and restores the address book.
func openApp(g *Globals) (*app, func(), error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, nil, err
	}

	logger, cleanup, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	st, err := store.NewFileStore(cfg.Storage.Path, cfg.Storage.Format, store.WithLogger(logger))
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	b, err := st.Load()
	if err != nil {
		logger.Error("loading address book failed", zap.String("path", st.Path()), zap.Error(err))
		cleanup()
		return nil, nil, err
	}

	help, err := addrbook.ReadTemplate(localTemplatesDir, addrbook.HelpFile)
	if err != nil {
		logger.Warn("help text unavailable", zap.Error(err))
	}

	return &app{cfg: cfg, logger: logger, store: st, book: b, help: help, now: time.Now}, cleanup, nil
}

// --- Shell command ---

// ShellCmd runs the interactive assistant.
type ShellCmd struct{}

// Run opens the address book and starts a session on stdin/stdout.
func (s *ShellCmd) Run(g *Globals) error {
	a, cleanup, err := openApp(g)
	if err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := tui.NewSession(tui.SessionOptions{
		In:         os.Stdin,
		Out:        os.Stdout,
		ForcePlain: a.cfg.UI.Plain,
		Executor:   a.handler(),
	})
	return s.run(ctx, a, session)
}

// run executes the session and saves the address book on every exit path.
func (s *ShellCmd) run(ctx context.Context, a *app, session tui.Session) error {
	runErr := session.Run(ctx)
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		a.logger.Error("session ended with error", zap.Error(runErr))
	}

	if err := a.store.Save(a.book); err != nil {
		return fmt.Errorf("shell: saving: %w", err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("shell: %w", runErr)
	}
	return nil
}

// --- One-shot commands ---

// commandError marks a failed one-shot command whose message was already printed.
type commandError struct {
	err error
}

func (e *commandError) Error() string { return command.Describe(e.err) }

func (e *commandError) Unwrap() error { return e.err }

// oneShot dispatches a single command, prints its response, and saves the
// address book if the command changed it.
func oneShot(w io.Writer, a *app, name string, args ...string) error {
	res := a.handler().Dispatch(name, args)
	if res.Output != "" {
		_, _ = fmt.Fprintln(w, res.Output)
	}
	if res.Err != nil {
		return &commandError{err: res.Err}
	}
	if res.Changed {
		if err := a.store.Save(a.book); err != nil {
			return fmt.Errorf("%s: saving: %w", name, err)
		}
	}
	return nil
}

// runOneShot opens the app and runs a single command against stdout.
func runOneShot(g *Globals, name string, args ...string) error {
	a, cleanup, err := openApp(g)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	defer cleanup()
	return oneShot(os.Stdout, a, name, args...)
}

// AddCmd adds a phone to a contact.
type AddCmd struct {
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"Phone number."`
}

// Run executes the add command.
func (c *AddCmd) Run(g *Globals) error { return runOneShot(g, "add", c.Name, c.Phone) }

// ChangeCmd replaces a contact's first phone.
type ChangeCmd struct {
	Name  string `arg:"" help:"Contact name."`
	Phone string `arg:"" help:"New phone number."`
}

// Run executes the change command.
func (c *ChangeCmd) Run(g *Globals) error { return runOneShot(g, "change", c.Name, c.Phone) }

// PhoneCmd shows a contact's phones.
type PhoneCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the phone command.
func (c *PhoneCmd) Run(g *Globals) error { return runOneShot(g, "phone", c.Name) }

// AllCmd lists every contact.
type AllCmd struct{}

// Run executes the all command.
func (c *AllCmd) Run(g *Globals) error { return runOneShot(g, "all") }

// AddBirthdayCmd sets a contact's birthday.
type AddBirthdayCmd struct {
	Name string `arg:"" help:"Contact name."`
	Date string `arg:"" help:"Birthday as DD.MM.YYYY."`
}

// Run executes the add-birthday command.
func (c *AddBirthdayCmd) Run(g *Globals) error {
	return runOneShot(g, "add-birthday", c.Name, c.Date)
}

// ShowBirthdayCmd shows a contact's birthday.
type ShowBirthdayCmd struct {
	Name string `arg:"" help:"Contact name."`
}

// Run executes the show-birthday command.
func (c *ShowBirthdayCmd) Run(g *Globals) error { return runOneShot(g, "show-birthday", c.Name) }

// BirthdaysCmd lists upcoming congratulation dates.
type BirthdaysCmd struct {
	Days string `arg:"" optional:"" help:"Days ahead, inclusive (default from birthdays.window)."`
}

// Run executes the birthdays command.
func (c *BirthdaysCmd) Run(g *Globals) error {
	if c.Days == "" {
		return runOneShot(g, "birthdays")
	}
	return runOneShot(g, "birthdays", c.Days)
}

// --- Init command ---

// InitCmd writes the embedded config template.
type InitCmd struct {
	Force bool `help:"Overwrite an existing file."`
}

// Run executes the init command in the current directory.
func (c *InitCmd) Run() error {
	return c.run(os.Stdout, projectConfigFile)
}

// run writes the template to path, enabling testable wiring.
func (c *InitCmd) run(w io.Writer, path string) error {
	if !c.Force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("init: %s already exists (use --force to overwrite)", path)
		}
	}

	tmpl, err := addrbook.ReadTemplate(localTemplatesDir, addrbook.ConfigTemplateFile)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	if err := os.WriteFile(path, []byte(tmpl), 0o644); err != nil {
		return fmt.Errorf("init: writing %s: %w", path, err)
	}

	_, _ = fmt.Fprintf(w, "Wrote %s\n", path)
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitCommand = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ce *commandError
	if errors.As(err, &ce) {
		return exitCommand
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("addrbook"),
		kong.Description("Contact manager with birthday reminders."),
		kong.UsageOnError(),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		var ce *commandError
		if !errors.As(err, &ce) {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
		}
		os.Exit(exitCode(err))
	}
}
