// Package command turns assistant input lines into address book operations
// and their printable responses.
package command

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/smileynet/addrbook/internal/book"
	"github.com/smileynet/addrbook/internal/contact"
)

// Result is the outcome of one command.
type Result struct {
	Output  string // Text to print; may be empty
	Err     error  // Non-nil when the command failed; Output then holds Describe(Err)
	Changed bool   // The address book was modified
	Exit    bool   // The session should end
}

// Handler executes commands against one address book.
type Handler struct {
	book    *book.Book
	now     func() time.Time
	window  int
	leapDay contact.LeapDayPolicy
	help    string
	logger  *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithClock sets the source of "today" for the birthdays command.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithWindow sets the default number of days the birthdays command looks ahead.
func WithWindow(days int) Option {
	return func(h *Handler) { h.window = days }
}

// WithLeapDayPolicy sets where Feb 29 birthdays fall in non-leap years.
func WithLeapDayPolicy(p contact.LeapDayPolicy) Option {
	return func(h *Handler) { h.leapDay = p }
}

// WithHelp sets the text printed by the help command. Empty text keeps the
// built-in summary.
func WithHelp(text string) Option {
	return func(h *Handler) {
		if text = strings.TrimRight(text, "\n"); text != "" {
			h.help = text
		}
	}
}

// WithLogger sets the logger used to record failed commands.
func WithLogger(l *zap.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHandler creates a Handler that owns b for the duration of a session.
func NewHandler(b *book.Book, opts ...Option) *Handler {
	h := &Handler{
		book:    b,
		now:     time.Now,
		window:  7,
		leapDay: contact.LeapDayMarch1,
		help:    "Commands: hello, add, change, phone, all, add-birthday, show-birthday, birthdays, close, exit",
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ParseInput splits a line into a lower-cased command word and its arguments.
// Arguments keep their case because contact names are case-sensitive.
func ParseInput(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// Execute parses line and runs the command it names.
func (h *Handler) Execute(line string) Result {
	cmd, args := ParseInput(line)
	return h.Dispatch(cmd, args)
}

// Dispatch runs cmd with args. It never panics on bad input; every failure is
// reported through Result.Err with a printable Result.Output.
func (h *Handler) Dispatch(cmd string, args []string) Result {
	var (
		out     string
		changed bool
		err     error
	)

	switch cmd {
	case "":
		return Result{}
	case "hello":
		out = "How can I help you?"
	case "help":
		out = h.help
	case "close", "exit":
		return Result{Output: "Good bye!", Exit: true}
	case "add":
		out, err = h.addContact(args)
		changed = err == nil
	case "change":
		out, err = h.changeContact(args)
		changed = err == nil
	case "phone":
		out, err = h.showPhone(args)
	case "all":
		out = h.showAll()
	case "add-birthday":
		out, err = h.addBirthday(args)
		changed = err == nil
	case "show-birthday":
		out, err = h.showBirthday(args)
	case "birthdays":
		out, err = h.birthdays(args)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}

	if err != nil {
		h.logger.Debug("command failed",
			zap.String("command", cmd),
			zap.String("kind", string(Kind(err))),
			zap.Error(err),
		)
		return Result{Output: Describe(err), Err: err}
	}
	return Result{Output: out, Changed: changed}
}

// contactName normalises a name argument the way contact.NewRecord does, so
// lookups match the stored key.
func contactName(arg string) string { return strings.TrimSpace(arg) }

func (h *Handler) addContact(args []string) (string, error) {
	if len(args) < 2 {
		return "", ErrMissingArgs
	}
	name, phone := contactName(args[0]), args[1]

	r, err := h.book.Find(name)
	if err == nil {
		if err := r.AddPhone(phone); err != nil {
			return "", err
		}
		return "Contact updated.", nil
	}

	r, err = contact.NewRecord(name)
	if err != nil {
		return "", err
	}
	if err := r.AddPhone(phone); err != nil {
		return "", err
	}
	h.book.Add(r)
	return "Contact added.", nil
}

func (h *Handler) changeContact(args []string) (string, error) {
	if len(args) < 2 {
		return "", ErrMissingArgs
	}
	name, phone := contactName(args[0]), args[1]

	r, err := h.book.Find(name)
	if err != nil {
		return "", userError("Contact not found.", err)
	}
	if !r.HasPhones() {
		if err := r.AddPhone(phone); err != nil {
			return "", err
		}
		return "Phone added to contact.", nil
	}
	if err := r.EditPhone(r.Phones()[0], phone); err != nil {
		return "", err
	}
	return "Contact changed.", nil
}

func (h *Handler) showPhone(args []string) (string, error) {
	if len(args) < 1 {
		return "", ErrMissingArgs
	}
	r, err := h.book.Find(contactName(args[0]))
	if err != nil {
		return "", userError("Contact not found.", err)
	}
	return fmt.Sprintf("%s: %s", r.Name(), r.PhoneList()), nil
}

func (h *Handler) showAll() string {
	if h.book.Len() == 0 {
		return "No contacts found."
	}
	lines := make([]string, 0, h.book.Len())
	for name, phones := range h.book.Items() {
		lines = append(lines, fmt.Sprintf("%s: %s", name, phones))
	}
	return strings.Join(lines, "\n")
}

func (h *Handler) addBirthday(args []string) (string, error) {
	if len(args) < 2 {
		return "", ErrMissingArgs
	}
	r, err := h.book.Find(contactName(args[0]))
	if err != nil {
		return "", userError("Contact not found.", err)
	}
	if err := r.AddBirthday(args[1]); err != nil {
		return "", userError("Error: Invalid date format. Use DD.MM.YYYY", err)
	}
	return "Birthday added.", nil
}

func (h *Handler) showBirthday(args []string) (string, error) {
	if len(args) < 1 {
		return "", ErrMissingArgs
	}
	r, err := h.book.Find(contactName(args[0]))
	if err != nil {
		return "", userError("Contact or birthday not found.", err)
	}
	bd, ok := r.Birthday()
	if !ok {
		return "", userError("Contact or birthday not found.",
			fmt.Errorf("%w: birthday for %s", contact.ErrNotFound, r.Name()))
	}
	return fmt.Sprintf("%s's birthday is on %s", r.Name(), bd), nil
}

func (h *Handler) birthdays(args []string) (string, error) {
	days := h.window
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return "", userError("Error: Days must be a non-negative whole number.",
				fmt.Errorf("%w: days %q", contact.ErrMalformedInput, args[0]))
		}
		days = n
	}

	upcoming, err := h.book.UpcomingBirthdays(h.now(), days, book.WithLeapDayPolicy(h.leapDay))
	if err != nil {
		return "", err
	}
	if len(upcoming) == 0 {
		return "No upcoming birthdays.", nil
	}
	lines := make([]string, len(upcoming))
	for i, u := range upcoming {
		lines[i] = fmt.Sprintf("%s %s", u.Record.Name(), u.Date.Format(contact.DateLayout))
	}
	return strings.Join(lines, "\n"), nil
}
