package cli

import (
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"oer-catalog/internal/config"
	"oer-catalog/internal/controller"
	"oer-catalog/internal/format"
	"oer-catalog/internal/logging"
	"oer-catalog/internal/source"
	"oer-catalog/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	ConfigPath string
	Endpoints  []string
	PageSize   int
	Loading    string
	Timeout    time.Duration
	LogFile    string
	Debug      bool
	PrettyJSON bool
	Format     string

	// HTTPClient overrides the transport for every request (tests).
	HTTPClient *http.Client
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "oer",
		Short:        "Browse the BCcampus open educational resource collection",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive browser
  oer

  # Print one page (shortcut for: oer page 3)
  oer 3

  # Print page 2 with institutions and authors resolved, as a table
  oer page 2 --enrich --format table

  # Combine two collections into one list
  oer --endpoint https://a.example/wp-json/wp/v2/oer --endpoint https://b.example/wp-json/wp/v2/oer
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", envOr("OER_CONFIG", ""), "Path to config.yaml (default: ~/.oer/config.yaml)")
	pf.StringArrayVar(&app.Endpoints, "endpoint", nil, "Collection endpoint URL (repeatable; overrides config)")
	pf.IntVar(&app.PageSize, "page-size", 0, "Resources per page across all endpoints")
	pf.StringVar(&app.Loading, "loading", "", "When the loading indicator clears (first|all)")
	pf.DurationVar(&app.Timeout, "timeout", 0, "Per-request timeout")
	pf.StringVar(&app.LogFile, "log-file", "", "Write structured logs to this file")
	pf.BoolVar(&app.Debug, "debug", false, "Log at debug level")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output and render markdown for the terminal")
	pf.StringVar(&app.Format, "format", envOr("OER_FORMAT", "json"), "Output format (json|edn|table; page also takes markdown)")

	cmd.AddCommand(newPageCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// loadConfig resolves the effective configuration: file and environment
// first, then any flag the user set explicitly.
func loadConfig(cmd *cobra.Command, app *App) (config.Config, error) {
	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if flagSet(cmd, "endpoint") {
		cfg.Endpoints = app.Endpoints
	}
	if flagSet(cmd, "page-size") {
		cfg.PageSize = app.PageSize
	}
	if flagSet(cmd, "loading") {
		cfg.Loading = app.Loading
	}
	if flagSet(cmd, "timeout") {
		cfg.Timeout = app.Timeout
	}
	if flagSet(cmd, "log-file") {
		cfg.LogFile = app.LogFile
	}
	if flagSet(cmd, "debug") {
		cfg.Debug = app.Debug
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func flagSet(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)
	return f != nil && f.Changed
}

// session is everything one command needs to talk to the collection.
type session struct {
	cfg      config.Config
	log      *zap.Logger
	closeLog func()
	ctl      *controller.Controller
}

func openSession(cmd *cobra.Command, app *App, startPage int) (*session, error) {
	cfg, err := loadConfig(cmd, app)
	if err != nil {
		return nil, err
	}
	if startPage > 0 {
		cfg.StartPage = startPage
	}

	log, closeLog, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return nil, err
	}

	client := source.NewClient(source.Options{
		Timeout:    cfg.Timeout,
		UserAgent:  cfg.UserAgent,
		Logger:     log,
		HTTPClient: app.HTTPClient,
	})
	ctl, err := controller.New(controller.Config{
		Sources:   cfg.Endpoints,
		PageSize:  cfg.PageSize,
		StartPage: cfg.StartPage,
		Policy:    cfg.Policy(),
	}, client, controller.WithLogger(log), controller.WithContext(cmd.Context()))
	if err != nil {
		closeLog()
		return nil, err
	}

	log.Debug("session opened",
		zap.Strings("endpoints", cfg.Endpoints),
		zap.Int("pageSize", cfg.PageSize),
		zap.String("loading", cfg.Policy().String()),
	)
	return &session{cfg: cfg, log: log, closeLog: closeLog, ctl: ctl}, nil
}

func (s *session) Close() {
	s.ctl.Close()
	s.closeLog()
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := openSession(cmd, app, 0)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer s.Close()

	// The splash is erased when the shell mounts, before the alternate screen
	// is entered. The second Clear covers a program that never mounted.
	sp := showSplash(cmd.ErrOrStderr())
	runErr := tui.Run(tui.Options{
		Controller: s.ctl,
		Title:      s.cfg.Title,
		Subtitle:   s.cfg.Subtitle,
		Footer:     s.cfg.Footer,
		Logger:     s.log,
		OnReady:    sp.Clear,
	})
	sp.Clear()
	if runErr != nil {
		s.log.Error("tui exited with error", zap.Error(runErr))
		return writeErr(cmd, runErr)
	}
	return nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// writeOut prints v in the selected format. json and edn wrap the payload in
// a {"data": ...} envelope; table prints the payload itself.
func writeOut(cmd *cobra.Command, app *App, v any) error {
	if app.Format == "table" {
		return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
	}
	return format.Write(cmd.OutOrStdout(), map[string]any{"data": v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
