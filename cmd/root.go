package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/restbind/api"
	"github.com/s0up4200/restbind/config"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  = zerolog.Nop()
	client  *api.Client
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "restbind",
	Short: "Call REST endpoints declared in a config file",
	Long: `restbind reads an API surface (connection defaults, endpoints and CRUD
groups) from a YAML config file and calls it from the command line.

Endpoints are addressed by name, group actions as GROUP.ACTION:

  restbind call ping
  restbind call get_table my_schema my_table my_database
  restbind call objects.retrieve 5 --select 'response.name'`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./restbind.yaml)")
}

// initializeApp loads the configuration and creates the client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	client, err = config.NewClient(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	logger.Debug().
		Str("host", client.Host()).
		Strs("endpoints", client.Surface().EndpointNames()).
		Strs("groups", client.Surface().GroupNames()).
		Msg("Client ready")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}

	// Console format, colour only on a terminal
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !tty,
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
