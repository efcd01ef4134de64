package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/einthusarr/config"
	"github.com/s0up4200/einthusarr/einthusan"
	"github.com/s0up4200/einthusarr/session"
)

var (
	cfgFile    string
	cfg        *config.Config
	logger     zerolog.Logger
	store      *session.Store
	sess       *session.Session
	siteClient *einthusan.Client

	appVersion   = "dev"
	appBuildTime = "unknown"
)

// SetVersion records build information for the version command.
func SetVersion(version, buildTime string) {
	appVersion = version
	appBuildTime = buildTime
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "einthusarr",
	Short: "Download South Asian movies from Einthusan and feed them to Radarr/Plex",
	Long: `einthusarr searches Einthusan for movies, downloads them with
Plex-friendly filenames, and can cross-reference a Radarr instance's
wanted list to automate acquisition.`,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: persistSession,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp initializes the configuration, session, and site client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	store, err = session.NewStore(logger)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	sess, err = store.LoadSession()
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	siteClient, err = einthusan.NewClient(cfg.Einthusan.BaseURL, sess, logger)
	if err != nil {
		return fmt.Errorf("failed to create site client: %w", err)
	}

	return nil
}

// persistSession writes the session back to disk on exit so cookies
// refreshed during the run survive to the next invocation.
func persistSession(cmd *cobra.Command, args []string) error {
	if store == nil || sess == nil || len(sess.Cookies) == 0 {
		return nil
	}
	if err := store.SaveSession(sess); err != nil {
		logger.Warn().Err(err).Msg("Could not persist session")
	}
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	// No config needed to print a version string.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("einthusarr %s (built %s)\n", appVersion, appBuildTime)
	},
}
