// Package cli implements the contractform commands.
package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contractform/internal/config"
	"github.com/goliatone/go-contractform/pkg/contract"
	"github.com/goliatone/go-contractform/pkg/postal"
	"github.com/goliatone/go-contractform/pkg/renderers/tui"
	"github.com/goliatone/go-contractform/pkg/session"
)

type app struct {
	configPath string
	baseURL    string
	fixture    string
	templates  string

	driver tui.PromptDriver
	logger *log.Logger
}

// Option configures the command tree.
type Option func(*app)

// WithPromptDriver replaces the survey prompts used by the interactive
// commands.
func WithPromptDriver(driver tui.PromptDriver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// WithLogger routes lookup and server logs to logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *app) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewRootCommand builds the contractform command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{logger: log.Default()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(a)
	}

	root := &cobra.Command{
		Use:           "contractform",
		Short:         "Contract editor and address lookup forms",
		Long:          "Serves the contract and address pages, runs postal lookups and edits contracts from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default: $"+config.EnvPath+")")
	root.PersistentFlags().StringVar(&a.baseURL, "postal-url", "", "Override the postal lookup endpoint")
	root.PersistentFlags().StringVar(&a.fixture, "fixture", "", "Contract fixture (YAML or JSON) instead of the demo contract")
	root.PersistentFlags().StringVar(&a.templates, "templates", "", "Directory of html templates overriding the bundled ones")

	root.AddCommand(
		a.serveCommand(),
		a.lookupCommand(),
		a.addressCommand(),
		a.contractCommand(),
		a.renderCommand(),
	)
	return root
}

func (a *app) loadConfig() (config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if a.baseURL != "" {
		cfg.Postal.BaseURL = a.baseURL
	}
	if a.fixture != "" {
		cfg.Contract.Fixture = a.fixture
	}
	if a.templates != "" {
		cfg.Theme.Templates = a.templates
	}
	return cfg, nil
}

// newClient builds a postal client. A non-empty cachePath keeps the lookup
// cache in a SQLite file shared between invocations; the returned closer
// releases it.
func (a *app) newClient(cfg config.Config, cachePath string) (*postal.Client, func() error, error) {
	var (
		store  session.Store = session.NewMemoryStore()
		closer               = func() error { return nil }
	)
	if cachePath != "" {
		sqlite, err := session.NewSQLiteStore(cachePath)
		if err != nil {
			return nil, nil, err
		}
		store = sqlite
		closer = sqlite.Close
	}

	client, err := postal.New(
		postal.WithBaseURL(cfg.Postal.BaseURL),
		postal.WithLocale(cfg.Postal.Locale),
		postal.WithUserAgent(cfg.Postal.UserAgent),
		postal.WithStore(store),
		postal.WithLogger(a.logger),
		postal.WithResponseSchema(cfg.ValidateResponses()),
	)
	if err != nil {
		_ = closer()
		return nil, nil, err
	}
	return client, closer, nil
}

func (a *app) contractModel(cfg config.Config) (*contract.Model, error) {
	if cfg.Contract.Fixture == "" {
		return contract.InitialModel(), nil
	}
	return contract.LoadFixtureFile(cfg.Contract.Fixture)
}

func (a *app) tuiRenderer(out io.Writer) *tui.Renderer {
	driver := a.driver
	if driver == nil {
		driver = tui.NewSurveyDriver(out)
	}
	return tui.New(tui.WithPromptDriver(driver), tui.WithTheme(tui.Theme{ErrorPrefix: "error: "}))
}

func writeOutput(out io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(out, string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cli: write %s: %w", path, err)
	}
	_, err := fmt.Fprintf(out, "written to %s\n", path)
	return err
}
