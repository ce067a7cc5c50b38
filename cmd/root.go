package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s0up4200/holonet/catalog"
	"github.com/s0up4200/holonet/config"
	"github.com/s0up4200/holonet/session"
)

var (
	cfgFile   string
	cfg       *config.Config
	logger    zerolog.Logger
	store     session.Store
	client    *catalog.Client
	formatter = catalog.NewConsoleFormatter()

	// Command flags
	noPersist bool
	jsonOut   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "holonet",
	Short: "Browse the Star Wars film catalog from your terminal",
	Long: `holonet is a CLI client for the film catalog API. Log in once, then list
films, inspect a single film and browse the characters that appear in it.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", describeError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&noPersist, "no-persist", false, "keep the session in memory for this run only")
}

// initializeApp loads the configuration and wires the session store and client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	if noPersist {
		cfg.Session.Persist = false
	}

	store, err = openStore(cfg.Session)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}

	client, err = catalog.NewClient(cfg.API.URL, store, logger,
		catalog.WithTimeout(cfg.API.Timeout),
		catalog.WithUserAgent(cfg.API.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	client.Subscribe(sessionNotifier(os.Stderr))

	return nil
}

// openStore picks the session store implementation for the configuration
func openStore(sc config.SessionConfig) (session.Store, error) {
	if !sc.Persist {
		return session.NewMemoryStore(), nil
	}
	return session.NewFileStore(sc.Path)
}

// sessionNotifier tells the user when the session ends, the way a browser would
// send them back to the login screen
func sessionNotifier(w io.Writer) catalog.Handler {
	return func(e catalog.Event) {
		switch e {
		case catalog.EventUnauthorized:
			fmt.Fprintln(w, "Your session has expired or was rejected. Run `holonet login` to sign in again.")
		case catalog.EventLogout:
			fmt.Fprintln(w, "Logged out.")
		}
	}
}

// requireSession guards commands that need a stored token
func requireSession(cmd *cobra.Command, args []string) error {
	if err := initializeApp(cmd, args); err != nil {
		return err
	}
	if !client.IsAuthenticated() {
		return errNotLoggedIn
	}
	return nil
}

var errNotLoggedIn = errors.New("not logged in: run `holonet login` first")

// describeError turns catalog errors into short user-facing messages
func describeError(err error) string {
	var (
		authErr   *catalog.AuthError
		notFound  *catalog.NotFoundError
		reqErr    *catalog.RequestError
		decodeErr *catalog.DecodeError
	)

	switch {
	case errors.As(err, &authErr):
		if authErr.Message != "" {
			return fmt.Sprintf("authentication failed (%s)", authErr.Message)
		}
		return "authentication failed"
	case errors.As(err, &notFound):
		return fmt.Sprintf("not found: %s", notFound.Path)
	case errors.As(err, &reqErr):
		return fmt.Sprintf("the catalog returned an error (status %d): %s", reqErr.StatusCode, reqErr.Message)
	case errors.As(err, &decodeErr):
		return fmt.Sprintf("unexpected response from the catalog: %v", decodeErr.Err)
	default:
		return err.Error()
	}
}

// setupLogger configures the zerolog logger
func setupLogger(lc config.LoggingConfig, out *os.File) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(lc.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if lc.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	color := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	if lc.Color != nil {
		color = *lc.Color
	}

	// Console format
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !color,
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// printJSON writes v as indented JSON to stdout
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
