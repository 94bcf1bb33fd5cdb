package tui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/smileynet/contactbus/internal/locale"
	"github.com/smileynet/contactbus/internal/screen"
)

// Display drives the screens of a Root until the user is done.
type Display interface {
	Run(ctx context.Context, root *screen.Root) error
}

// DisplayOptions configures display creation.
type DisplayOptions struct {
	Writer     io.Writer          // Output destination (default: os.Stdout).
	Reader     io.Reader          // Input source (default: os.Stdin).
	ForcePlain bool               // Force plain text even if TTY.
	AltScreen  bool               // Run the TUI in the alternate screen buffer.
	Strings    locale.Strings     // Localized labels.
	Log        *zap.SugaredLogger // Optional; defaults to a no-op logger.
}

// NewDisplay returns a TUI display when stdout is a TTY, or a plain text
// display otherwise. ForcePlain overrides TTY detection.
func NewDisplay(opts DisplayOptions) Display {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}
	if opts.Reader == nil {
		opts.Reader = os.Stdin
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop().Sugar()
	}

	if opts.ForcePlain || !isTTY(opts.Writer) {
		return &PlainDisplay{w: opts.Writer, r: opts.Reader, strings: opts.Strings}
	}

	return &TUIDisplay{
		w:         opts.Writer,
		r:         opts.Reader,
		strings:   opts.Strings,
		altScreen: opts.AltScreen,
		log:       opts.Log,
	}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PlainDisplay reads the contact fields as lines and prints the summary.
type PlainDisplay struct {
	w       io.Writer
	r       io.Reader
	strings locale.Strings
}

// Run prompts for name, surname and telephone number, one line each, then
// shows the summary screen as text. All screens are closed before returning.
func (d *PlainDisplay) Run(ctx context.Context, root *screen.Root) (err error) {
	defer func() {
		err = errors.Join(err, root.Close())
	}()

	if root.Top() == nil {
		if err := root.Start(); err != nil {
			return err
		}
	}
	create, ok := root.Top().(*screen.CreateController)
	if !ok {
		return fmt.Errorf("tui: expected create screen, got %s", root.Top().Kind())
	}

	sc := bufio.NewScanner(d.r)
	labels := [...]string{d.strings.ContactName, d.strings.ContactSurname, d.strings.ContactTelNum}
	for i, field := range formFields {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(d.w, "%s: ", labels[i])
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return fmt.Errorf("tui: reading %s: %w", field, err)
			}
			return fmt.Errorf("tui: reading %s: %w", field, io.ErrUnexpectedEOF)
		}
		create.SetField(field, sc.Text())
	}
	_, _ = fmt.Fprintln(d.w)

	if _, err := create.ViewSummary(); err != nil {
		return err
	}
	summary, ok := root.Top().(*screen.SummaryController)
	if !ok {
		return fmt.Errorf("tui: expected summary screen, got %s", root.Top().Kind())
	}
	WriteSummary(d.w, summary)
	return nil
}

// WriteSummary prints the summary screen's title and body as plain text.
func WriteSummary(w io.Writer, s *screen.SummaryController) {
	_, _ = fmt.Fprintln(w, s.Title())
	_, _ = fmt.Fprintln(w, s.Render())
}

// TUIDisplay runs the screens in a Bubble Tea terminal UI.
type TUIDisplay struct {
	w         io.Writer
	r         io.Reader
	strings   locale.Strings
	altScreen bool
	log       *zap.SugaredLogger
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled. All screens are closed before returning.
func (d *TUIDisplay) Run(ctx context.Context, root *screen.Root) error {
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(d.w),
		tea.WithInput(d.r),
	}
	if d.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	p := tea.NewProgram(NewModel(root, d.strings, WithLogger(d.log)), opts...)
	final, err := p.Run()
	// Closing an already closed root is a no-op.
	closeErr := root.Close()
	if err != nil {
		return errors.Join(fmt.Errorf("tui: %w", err), closeErr)
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return closeErr
}
