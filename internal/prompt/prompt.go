package prompt

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"prism/internal/logging"
)

// Notifier is the user-facing notification port used by entity lifecycle and
// hook dispatch.
type Notifier interface {
	// Popup shows an informational or error message.
	Popup(msg string)
	// Question asks a yes/no question and reports true for "Yes".
	Question(msg string) bool
	// RetryOrCancel reports an operation failure and returns true when the
	// user chose Retry.
	RetryOrCancel(msg string) bool
}

// Terminal prompts on a text terminal. When input is not interactive every
// question is answered "No" and every retry prompt "Cancel".
type Terminal struct {
	mu          sync.Mutex
	out         io.Writer
	in          *bufio.Reader
	interactive bool
}

// NewTerminal creates a Terminal reading answers from in and writing prompts
// to out.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		out:         out,
		in:          bufio.NewReader(in),
		interactive: isInteractive(in),
	}
}

// NewStdTerminal prompts on the process's standard streams.
func NewStdTerminal() *Terminal {
	return NewTerminal(os.Stdin, os.Stderr)
}

// SetInteractive overrides TTY detection, e.g. for --yes style flags or tests.
func (t *Terminal) SetInteractive(interactive bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.interactive = interactive
}

func (t *Terminal) Popup(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.out, strings.TrimRight(msg, "\n"))
}

func (t *Terminal) Question(msg string) bool {
	answer := t.ask(msg, "[y/N]")
	return answer == "y" || answer == "yes"
}

func (t *Terminal) RetryOrCancel(msg string) bool {
	answer := t.ask(msg, "[r]etry/[C]ancel")
	return answer == "r" || answer == "retry"
}

func (t *Terminal) ask(msg, choices string) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintf(t.out, "%s %s ", strings.TrimRight(msg, "\n"), choices)
	if !t.interactive {
		fmt.Fprintln(t.out)
		return ""
	}
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(line))
}

func isInteractive(in io.Reader) bool {
	file, ok := in.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Logging is a Notifier for unattended runs: messages are logged, questions
// answer "No", and failures are not retried.
type Logging struct {
	logger *slog.Logger
}

// NewLogging creates a logging-only Notifier.
func NewLogging(logger *slog.Logger) *Logging {
	return &Logging{logger: logging.NewComponentLogger(logger, "prompt")}
}

func (l *Logging) Popup(msg string) {
	l.logger.Info(msg, logging.String(logging.FieldEventType, "popup"))
}

func (l *Logging) Question(msg string) bool {
	l.logger.Info(msg, logging.String(logging.FieldEventType, "question"), logging.String("answer", "no"))
	return false
}

func (l *Logging) RetryOrCancel(msg string) bool {
	logging.WarnWithContext(l.logger, msg, "retry_declined",
		logging.String(logging.FieldErrorHint, "close programs using the files and run the command again"),
		logging.String(logging.FieldImpact, "operation canceled"))
	return false
}
