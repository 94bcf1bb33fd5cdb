package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/smileynet/contactbus"
	"github.com/smileynet/contactbus/internal/bus"
	"github.com/smileynet/contactbus/internal/config"
	"github.com/smileynet/contactbus/internal/locale"
	"github.com/smileynet/contactbus/internal/logging"
	"github.com/smileynet/contactbus/internal/screen"
	"github.com/smileynet/contactbus/internal/state"
	"github.com/smileynet/contactbus/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Globals are flags shared by every command.
type Globals struct {
	Locale string `help:"Locale for labels (overrides config)." short:"l"`
}

// CLI is the top-level command structure for contactbus.
type CLI struct {
	Globals

	Version kong.VersionFlag `help:"Show version." short:"V"`
	UI      UICmd            `cmd:"" name:"ui" help:"Open the contact screens in the terminal."`
	Create  CreateCmd        `cmd:"" help:"Create a contact and print its summary without a UI."`
	Locales LocalesCmd       `cmd:"" help:"List available locales."`
}

// UICmd runs the interactive screens.
type UICmd struct {
	NoTUI bool `help:"Force plain text input even if stdout is a TTY." default:"false"`
}

// CreateCmd runs create and summary headlessly.
type CreateCmd struct {
	Name     string `help:"Contact name."`
	Surname  string `help:"Contact surname."`
	Tel      string `help:"Telephone number."`
	Recreate bool   `help:"Recreate all screens before printing, as a rotation would." default:"false"`
}

// LocalesCmd lists the locale files found on disk and embedded.
type LocalesCmd struct{}

// app holds the wired dependencies shared by commands.
type app struct {
	cfg      *config.Config
	log      *zap.SugaredLogger
	deps     screen.Deps
	closeLog func()
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/contactbus/config.yaml"),
		".contactbus/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// localeLoader reads locale files from the configured directory, falling
// back to the embedded ones.
func localeLoader(cfg *config.Config) *locale.Loader {
	return locale.NewLoader(contactbus.OverlayFS(cfg.LocalesDir, contactbus.Locales))
}

// setup builds the logger, bus, state and strings for one command run.
func setup(g *Globals, cfg *config.Config) (*app, error) {
	if g.Locale != "" {
		cfg.Locale = g.Locale
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, err
	}
	strs, err := localeLoader(cfg).Load(cfg.Locale)
	if err != nil {
		closeLog()
		return nil, err
	}

	b := bus.New(bus.WithLogger(log.Named("bus")))
	if _, err := bus.Subscribe(b, bus.DeadEvents, bus.SubscriberFunc[bus.DeadEvent](func(ev bus.DeadEvent) {
		log.Debugw("Event had no subscribers", "topic", ev.Topic)
	})); err != nil {
		closeLog()
		return nil, err
	}

	log.Infow("Starting", "version", version, "locale", cfg.Locale)
	return &app{
		cfg: cfg,
		log: log,
		deps: screen.Deps{
			Bus:     b,
			State:   state.NewApp(),
			Strings: strs,
			Log:     log.Named("screen"),
		},
		closeLog: closeLog,
	}, nil
}

// Run executes the ui command.
func (c *UICmd) Run(g *Globals) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	a, err := setup(g, cfg)
	if err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	defer a.closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	display := tui.NewDisplay(tui.DisplayOptions{
		Writer:     os.Stdout,
		Reader:     os.Stdin,
		ForcePlain: c.NoTUI,
		AltScreen:  a.cfg.UI.AltScreen,
		Strings:    a.deps.Strings,
		Log:        a.log.Named("tui"),
	})
	return c.run(ctx, display, screen.NewRoot(a.deps))
}

// run drives root with display, enabling testable wiring.
func (c *UICmd) run(ctx context.Context, display tui.Display, root *screen.Root) error {
	if err := display.Run(ctx, root); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}

// Run executes the create command.
func (c *CreateCmd) Run(g *Globals) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	a, err := setup(g, cfg)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer a.closeLog()

	return c.run(os.Stdout, screen.NewRoot(a.deps))
}

// run fills the create screen, shows the summary and prints it to w.
func (c *CreateCmd) run(w io.Writer, root *screen.Root) (err error) {
	defer func() {
		if closeErr := root.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("create: %w", closeErr))
		}
	}()

	if err := root.Start(); err != nil {
		return fmt.Errorf("create: %w", err)
	}
	create, ok := root.Top().(*screen.CreateController)
	if !ok {
		return fmt.Errorf("create: unexpected first screen %s", root.Top().Kind())
	}
	create.SetFields(screen.Fields{Name: c.Name, Surname: c.Surname, TelNum: c.Tel})
	if _, err := create.ViewSummary(); err != nil {
		return fmt.Errorf("create: %w", err)
	}

	if c.Recreate {
		if err := root.Recreate(); err != nil {
			return fmt.Errorf("create: %w", err)
		}
	}

	summary, ok := root.Top().(*screen.SummaryController)
	if !ok {
		return fmt.Errorf("create: unexpected screen %s after view summary", root.Top().Kind())
	}
	tui.WriteSummary(w, summary)
	return nil
}

// Run executes the locales command.
func (c *LocalesCmd) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("locales: %w", err)
	}
	return c.run(os.Stdout, localeLoader(cfg))
}

func (c *LocalesCmd) run(w io.Writer, loader *locale.Loader) error {
	names := loader.Available()
	if len(names) == 0 {
		return fmt.Errorf("locales: no locale files found")
	}
	for _, name := range names {
		_, _ = fmt.Fprintln(w, name)
	}
	return nil
}

// Exit codes.
const (
	exitSuccess = 0
	exitRuntime = 1
	exitSetup   = 2
)

// runtimeErrors are failures of the bus or the screens once everything is
// wired. Anything else is a setup problem.
var runtimeErrors = []error{
	bus.ErrNilHandler,
	bus.ErrAlreadyRegistered,
	bus.ErrProducerExists,
	bus.ErrNotRegistered,
	screen.ErrDestroyed,
	screen.ErrStarted,
	screen.ErrUnknownKind,
}

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	for _, target := range runtimeErrors {
		if errors.Is(err, target) {
			return exitRuntime
		}
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Description("Create a contact on one screen and view it on another."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run(&cli.Globals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
