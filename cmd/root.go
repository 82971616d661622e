package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"skywings-cli/config"
	"skywings-cli/logging"
	"skywings-cli/service"
	"skywings-cli/store"
	"skywings-cli/tui"
)

const appName = "skywings"

var (
	version = "dev"
	commit  = "none"
)

// SetVersion records the build metadata injected into main.
func SetVersion(v, c string) {
	version, commit = v, c
}

// app is the state shared by every command once PersistentPreRunE ran.
type app struct {
	cfg     *config.Config
	client  *service.Client
	logFile io.Closer
	logger  *slog.Logger
}

func (a *app) close() {
	if a.logFile != nil {
		_ = a.logFile.Close()
		a.logFile = nil
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var apiURL, origin, logLevel string

	root := &cobra.Command{
		Use:   appName,
		Short: "SkyWings flight booking from the terminal",
		Long: `Search flights, pick a seat and book it without leaving the terminal.
Run without arguments to open the interactive booking app.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if apiURL != "" {
				cfg.APIBaseURL = apiURL
			}
			if origin != "" {
				cfg.DefaultOrigin = origin
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return a.setup(cfg)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// PersistentPostRun is skipped when RunE fails.
			defer a.close()
			model := tui.New(tui.Options{
				Client:        a.client,
				DefaultOrigin: a.cfg.DefaultOrigin,
			})
			a.logger.Info("starting interactive session", "api", a.cfg.APIBaseURL)
			_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
			return err
		},
	}
	root.PersistentFlags().StringVar(&apiURL, "api-url", "", "booking service base URL (overrides SKYWINGS_API_BASE_URL)")
	root.PersistentFlags().StringVar(&origin, "origin", "", "default departure airport code")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: DEBUG, INFO, WARN or ERROR")

	root.AddCommand(
		newVersionCmd(),
		newSearchCmd(a),
		newAirportsCmd(a),
		newBookingCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoAmICmd(a),
	)
	return root
}

// setup opens the log file and the persisted session and builds the client.
func (a *app) setup(cfg *config.Config) error {
	a.cfg = cfg

	logPath := cfg.LogFile
	if logPath == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("locate cache dir: %w", err)
		}
		logPath = filepath.Join(dir, "skywings-cli", "skywings.log")
	}
	var w io.Writer = io.Discard
	if f, err := logging.OpenFile(logPath); err == nil {
		a.logFile = f
		w = f
	}
	a.logger = logging.Init(cfg.LogLevel, cfg.LogFormat, w).With("component", "cli")

	sessions, err := store.OpenSession()
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	a.client = service.NewClient(cfg.APIBaseURL, &http.Client{Timeout: cfg.HTTPTimeout}, sessions)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of SkyWings CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s", appName, version)
			if commit != "none" && commit != "" {
				fmt.Fprintf(out, " (%s)", commit)
			}
			fmt.Fprintln(out)
		},
	}
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
