package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/StillwaterLabs/SteadyPath/internal/api"
	"github.com/StillwaterLabs/SteadyPath/internal/classify"
	"github.com/StillwaterLabs/SteadyPath/internal/content"
	"github.com/StillwaterLabs/SteadyPath/internal/flow"
	"github.com/StillwaterLabs/SteadyPath/internal/genai"
	"github.com/StillwaterLabs/SteadyPath/internal/notify"
	"github.com/StillwaterLabs/SteadyPath/internal/session"
	"github.com/StillwaterLabs/SteadyPath/internal/store"
	"github.com/joho/godotenv"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for SteadyPath state data
	DefaultStateDir = "/var/lib/steadypath"
	// DefaultDBFileName is the default SQLite database filename
	DefaultDBFileName = "steadypath.db"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Ensure required directories exist
	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	slog.Info("Bootstrapping SteadyPath with configured modules")
	slog.Debug("Final configuration", "state_dir", *flags.stateDir, "dsn_set", *flags.dbDSN != "", "api_addr", *flags.apiAddr)

	if err := run(flags); err != nil {
		slog.Error("SteadyPath failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("SteadyPath exited successfully")
}

// Config holds environment configuration
type Config struct {
	DatabaseURL      string
	StateDir         string
	OpenAIKey        string
	APIAddr          string
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFrom       string
	CrisisAlertTo    string
}

// Flags holds command line flag values
type Flags struct {
	stateDir  *string
	dbDSN     *string
	openaiKey *string
	apiAddr   *string
	alertTo   *string
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		StateDir:         os.Getenv("STEADYPATH_STATE_DIR"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		APIAddr:          os.Getenv("API_ADDR"),
		TwilioAccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioFrom:       os.Getenv("TWILIO_FROM_NUMBER"),
		CrisisAlertTo:    os.Getenv("CRISIS_ALERT_NUMBER"),
	}

	// Set default state directory if not specified
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No STEADYPATH_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	} else {
		slog.Debug("STEADYPATH_STATE_DIR found in environment", "state_dir", config.StateDir)
	}

	// If no database URL is provided, default to SQLite in the state directory
	if config.DatabaseURL == "" {
		config.DatabaseURL = filepath.Join(config.StateDir, DefaultDBFileName)
		slog.Debug("No database DSN provided, defaulting to SQLite", "sqlite_path", config.DatabaseURL)
	}

	slog.Debug("environment variables loaded",
		"DATABASE_URL_SET", config.DatabaseURL != "",
		"STEADYPATH_STATE_DIR", config.StateDir,
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"API_ADDR", config.APIAddr,
		"TWILIO_ACCOUNT_SID_SET", config.TwilioAccountSID != "",
		"CRISIS_ALERT_NUMBER_SET", config.CrisisAlertTo != "")

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		stateDir:  flag.String("state-dir", config.StateDir, "state directory for SteadyPath data (overrides $STEADYPATH_STATE_DIR)"),
		dbDSN:     flag.String("db-dsn", config.DatabaseURL, "database DSN for the outcome store (overrides $DATABASE_URL)"),
		openaiKey: flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key for content enhancement (overrides $OPENAI_API_KEY)"),
		apiAddr:   flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		alertTo:   flag.String("crisis-alert-number", config.CrisisAlertTo, "phone number for crisis escalation SMS (overrides $CRISIS_ALERT_NUMBER)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"stateDir", *flags.stateDir,
		"dbDSN_set", *flags.dbDSN != "",
		"openaiKeySet", *flags.openaiKey != "",
		"apiAddr", *flags.apiAddr,
		"alertToSet", *flags.alertTo != "")

	// Update database DSN if not explicitly set but state directory is provided
	if *flags.dbDSN == filepath.Join(config.StateDir, DefaultDBFileName) && *flags.stateDir != config.StateDir {
		*flags.dbDSN = filepath.Join(*flags.stateDir, DefaultDBFileName)
		slog.Debug("Updated dbDSN based on state directory", "dsn_updated", true, "old_state_dir", config.StateDir, "new_state_dir", *flags.stateDir)
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	if store.DetectDSNType(*flags.dbDSN) != "sqlite" {
		return nil
	}
	stateDir := filepath.Dir(*flags.dbDSN)
	slog.Debug("Creating state directory for file-based database", "state_dir", stateDir)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		slog.Error("Failed to create state directory", "error", err, "state_dir", stateDir)
		return err
	}
	return nil
}

// buildStore selects the store backend from the DSN.
func buildStore(flags Flags) (store.Store, error) {
	if *flags.dbDSN == "" {
		slog.Debug("No database DSN provided, using in-memory store")
		return store.NewInMemoryStore(), nil
	}
	if store.DetectDSNType(*flags.dbDSN) == "postgres" {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL store", "dsn_set", true)
		st, err := store.NewPostgresStore(store.WithDSN(*flags.dbDSN))
		if err != nil {
			return nil, err
		}
		return st, nil
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite store", "db_path", *flags.dbDSN)
	st, err := store.NewSQLiteStore(store.WithDSN(*flags.dbDSN))
	if err != nil {
		return nil, err
	}
	return st, nil
}

// buildContentSource wraps the static library with GenAI enhancement when an
// API key is configured.
func buildContentSource(flags Flags) content.Source {
	library := content.NewLibrary()
	if *flags.openaiKey == "" && os.Getenv("OPENAI_API_KEY") == "" {
		slog.Debug("No OpenAI API key configured, serving static content")
		return library
	}
	if *flags.openaiKey != "" {
		os.Setenv("OPENAI_API_KEY", *flags.openaiKey)
	}
	client, err := genai.NewClient()
	if err != nil {
		slog.Warn("GenAI client unavailable, serving static content", "error", err)
		return library
	}
	slog.Debug("GenAI content enhancement enabled")
	return genai.NewEnhancer(library, client)
}

// buildSessionOptions wires the store and, when configured, the Twilio
// crisis notifier.
func buildSessionOptions(flags Flags, st store.Store) []session.Option {
	opts := []session.Option{session.WithStore(st)}
	if os.Getenv("TWILIO_ACCOUNT_SID") == "" {
		slog.Debug("No Twilio credentials configured, crisis alerts disabled")
		return opts
	}
	notifier, err := notify.NewTwilioNotifier(notify.WithTo(*flags.alertTo))
	if err != nil {
		slog.Warn("Twilio notifier unavailable, crisis alerts disabled", "error", err)
		return opts
	}
	slog.Debug("Twilio crisis notifier enabled")
	return append(opts, session.WithNotifier(notifier))
}

func run(flags Flags) error {
	st, err := buildStore(flags)
	if err != nil {
		return err
	}
	defer st.Close()

	engine := flow.NewEngine(flow.NewRegistry(), buildContentSource(flags))
	router := classify.NewRouter(classify.NewIntentScorer(), classify.NewKeywordEmotion())
	sessions := session.NewRegistry(engine, router, buildSessionOptions(flags, st)...)

	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	server := api.NewServer(sessions, apiOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.Run(ctx)
}
