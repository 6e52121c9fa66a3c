// Package ui renders installer dialogs in a terminal.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/ZebulonRouseFrantzich/qjsup/internal/installer"
	"github.com/ZebulonRouseFrantzich/qjsup/internal/logging"
)

var (
	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8F8F2"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#50FA7B")).
			Padding(0, 1)
)

// Prompter asks a yes/no question.
type Prompter func(ctx context.Context, heading, message string) (bool, error)

// Terminal implements installer.UI on a terminal. Without a TTY on stdin it
// never prompts: it answers yes when AssumeYes is set and no otherwise.
type Terminal struct {
	out         io.Writer
	interactive bool
	assumeYes   bool
	prompt      Prompter
	log         logrus.FieldLogger
}

var _ installer.UI = (*Terminal)(nil)

// Option configures a Terminal.
type Option func(*Terminal)

// WithOutput sets where dialogs are written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(t *Terminal) {
		t.out = w
	}
}

// WithInteractive overrides TTY detection.
func WithInteractive(interactive bool) Option {
	return func(t *Terminal) {
		t.interactive = interactive
	}
}

// WithAssumeYes answers every confirmation with yes without asking.
func WithAssumeYes(yes bool) Option {
	return func(t *Terminal) {
		t.assumeYes = yes
	}
}

// WithPrompter replaces the huh confirmation form.
func WithPrompter(p Prompter) Option {
	return func(t *Terminal) {
		t.prompt = p
	}
}

// New creates a terminal UI.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		out:         os.Stderr,
		interactive: isInteractiveTTY(),
		prompt:      huhConfirm,
		log:         logging.New("ui"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func isInteractiveTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// Confirm asks heading/message as a yes/no question.
func (t *Terminal) Confirm(ctx context.Context, heading, message string) (bool, error) {
	if t.assumeYes {
		fmt.Fprintf(t.out, "%s %s [yes]\n", headingStyle.Render(heading+":"), message)
		return true, nil
	}
	if !t.interactive {
		t.log.Info("not a terminal, declining install; use --yes to accept")
		return false, nil
	}
	return t.prompt(ctx, heading, message)
}

func huhConfirm(ctx context.Context, heading, message string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(heading).
			Description(message).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	))

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("run confirm form: %w", err)
	}
	return confirmed, nil
}

// StartProgress prints message and returns a progress bar that redraws in
// place. Without a TTY only the message is printed.
func (t *Terminal) StartProgress(heading, message string) installer.Progress {
	fmt.Fprintf(t.out, "%s %s\n", headingStyle.Render(heading+":"), messageStyle.Render(message))
	return &bar{
		out:         t.out,
		interactive: t.interactive,
		model:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		last:        -1,
	}
}

// Notify prints message in a box.
func (t *Terminal) Notify(ctx context.Context, heading, message string) error {
	if !t.interactive {
		_, err := fmt.Fprintf(t.out, "%s: %s\n", heading, message)
		return err
	}
	_, err := fmt.Fprintln(t.out, boxStyle.Render(headingStyle.Render(heading)+"\n"+messageStyle.Render(message)))
	return err
}

type bar struct {
	out         io.Writer
	interactive bool
	model       progress.Model
	last        int
	drawn       bool
}

func (b *bar) Update(percent int) {
	if percent == b.last {
		return
	}
	b.last = percent
	if !b.interactive {
		return
	}
	fmt.Fprintf(b.out, "\r%s", b.model.ViewAs(float64(percent)/100))
	b.drawn = true
}

func (b *bar) Close() {
	if b.drawn {
		fmt.Fprintln(b.out)
		b.drawn = false
	}
}
