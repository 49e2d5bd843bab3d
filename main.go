package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/jasonkneen/emdash/internal/commands"
	"github.com/jasonkneen/emdash/internal/core/broadcast"
	"github.com/jasonkneen/emdash/internal/core/config"
	"github.com/jasonkneen/emdash/internal/core/detect"
	"github.com/jasonkneen/emdash/internal/core/provider"
	"github.com/jasonkneen/emdash/internal/data/db"
	"github.com/jasonkneen/emdash/internal/data/stores"
	"github.com/jasonkneen/emdash/pkg/executil"
	"github.com/jasonkneen/emdash/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
		emdashApp = &commands.App{}
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "emdash",
		Usage:     "Drive multiple AI agent CLIs from one place",
		UsageText: "emdash [global options] command [command options]",
		Description: `Emdash detects which agent CLI tools (claude, codex, gemini, ...) are
installed and authenticated on this machine, keeps that status fresh in the
background, and broadcasts updates to every open window.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("EMDASH_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/emdash.log)",
				Sources:     cli.EnvVars("EMDASH_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("EMDASH_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("EMDASH_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/emdash.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "emdash.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			database, err = db.Open(cfg.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			catalog := provider.Builtin()
			for _, pc := range cfg.Providers {
				if pc.ID == "" || len(pc.Commands) == 0 {
					log.Warn().Str("provider", pc.ID).Msg("ignoring config provider without id or commands")
					continue
				}
				name := pc.Name
				if name == "" {
					name = pc.ID
				}
				catalog = append(catalog, provider.Definition{
					ID:          pc.ID,
					Name:        name,
					Commands:    pc.Commands,
					VersionArgs: pc.VersionArgs,
					DocsURL:     pc.DocsURL,
					InstallHint: pc.InstallHint,
				})
			}

			var defs []provider.Definition
			for _, def := range catalog {
				if cfg.Detection.IsDisabled(def.ID) {
					log.Debug().Str("provider", def.ID).Msg("provider disabled by config")
					continue
				}
				defs = append(defs, def)
			}

			var (
				registry = provider.NewRegistry(defs...)
				store    = stores.NewStatusStore(database)
				bus      = broadcast.NewBus()
			)

			bus.Subscribe(func(ev provider.Event) {
				log.Debug().
					Str("provider", ev.ProviderID).
					Str("status", string(ev.Status.Code)).
					Msg("provider status update")
			})

			emdashApp.Config = cfg
			emdashApp.Registry = registry
			emdashApp.Store = store
			emdashApp.Bus = bus
			emdashApp.Detector = detect.New(registry, store, bus, &executil.RealExecutor{})

			return ctx, nil
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			// Bare invocation runs the full bootstrap: seed from the store,
			// probe every provider, then print the resulting table.
			if err := emdashApp.Detector.Initialize(ctx); err != nil {
				return err
			}
			return commands.PrintStatuses(c.Writer, emdashApp.Registry.All(), emdashApp.Detector.Cached())
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if emdashApp.Detector != nil {
				emdashApp.Detector.Shutdown()
			}
			if database != nil {
				_ = database.Close()
			}
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	commands.NewStatusCmd(flags, emdashApp).Register(app)
	commands.NewCheckCmd(flags, emdashApp).Register(app)
	commands.NewLsCmd(flags, emdashApp).Register(app)

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
