package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/passgate/passgate/internal/auth"
	"github.com/passgate/passgate/internal/client"
	"github.com/passgate/passgate/internal/config"
	httpapp "github.com/passgate/passgate/internal/http"
	"github.com/passgate/passgate/internal/store/sqlite"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = ""
	buildTime = ""
)

// CLIConfig holds the CLI client configuration persisted to disk.
type CLIConfig struct {
	BaseURL string `json:"base_url"`
	Email   string `json:"email"`
	Token   string `json:"token"`
}

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	cmd := os.Args[1]

	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}

	if cmd == "-v" || cmd == "--version" || cmd == "version" {
		fmt.Printf("passgate %s\n", version)
		return
	}

	if strings.HasPrefix(cmd, "-") {
		runServer()
		return
	}

	args := os.Args[2:]

	switch cmd {
	case "server", "serve":
		runServer()
	case "signup":
		cmdSignup(args)
	case "login", "auth":
		cmdLogin(args)
	case "validate":
		cmdValidate(args)
	case "status", "whoami":
		cmdStatus(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`passgate - Credential-issuance service

Usage: passgate <command> [options]

Client Commands:
  signup              Register a new account
  login               Authenticate and store the bearer token
  validate            Check a bearer token against the server
  status              Show current config and token status

Server:
  server              Start the Passgate server (default if no command)

Examples:
  passgate signup --email me@example.com --password secret
  passgate login --email me@example.com --password secret
  passgate validate
  passgate status

Environment Variables (server):
  PASSGATE_ADDR          Listen address (default: :8080)
  PASSGATE_DB            Database path (default: passgate.db)
  PASSGATE_BCRYPT_COST   bcrypt cost factor (default: 10)
  PASSGATE_CORS_ORIGIN   Access-Control-Allow-Origin value (default: *)
  PASSGATE_LOG_LEVEL     Log level: debug, info, warn, error (default: info)`)
}

// ============================================================================
// SERVER
// ============================================================================

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg.Version = version
	cfg.Commit = commit
	cfg.BuildTime = buildTime

	logger := newLogger(cfg.LogLevel)

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open db", "path", cfg.DBPath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	authSvc := auth.NewService(store, cfg.BcryptCost)
	server := httpapp.NewServer(store, authSvc, cfg, logger)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("passgate listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ============================================================================
// CLIENT COMMANDS
// ============================================================================

func cmdSignup(args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	url := fs.String("url", "", "server base URL")
	fs.Parse(args)

	cliCfg := loadCLIConfig()
	if *url != "" {
		cliCfg.BaseURL = *url
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "signup requires --email and --password")
		os.Exit(1)
	}

	c := client.New(cliCfg.BaseURL)
	if err := c.Signup(*email, *password); err != nil {
		if errors.Is(err, client.ErrEmailTaken) {
			fmt.Fprintln(os.Stderr, "email already registered")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "signup failed: %v\n", err)
		os.Exit(1)
	}

	cliCfg.Email = *email
	saveCLIConfig(cliCfg)
	fmt.Printf("✓ Registered %s\n", *email)
}

func cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	url := fs.String("url", "", "server base URL")
	fs.Parse(args)

	cliCfg := loadCLIConfig()
	if *url != "" {
		cliCfg.BaseURL = *url
	}
	if *email == "" {
		*email = cliCfg.Email
	}
	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "login requires --email and --password")
		os.Exit(1)
	}

	c := client.New(cliCfg.BaseURL)
	token, err := c.Login(*email, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "login failed: %v\n", err)
		os.Exit(1)
	}

	cliCfg.Email = *email
	cliCfg.Token = token
	saveCLIConfig(cliCfg)
	fmt.Printf("✓ Logged in as %s\n", *email)
}

func cmdValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	token := fs.String("token", "", "token to validate (default: stored token)")
	url := fs.String("url", "", "server base URL")
	fs.Parse(args)

	cliCfg := loadCLIConfig()
	if *url != "" {
		cliCfg.BaseURL = *url
	}
	if *token == "" {
		*token = cliCfg.Token
	}
	if *token == "" {
		fmt.Fprintln(os.Stderr, "no token to validate; login first or pass --token")
		os.Exit(1)
	}

	c := client.New(cliCfg.BaseURL)
	email, err := c.Validate(*token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validate failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✓ Token belongs to %s\n", email)
}

func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	fs.Parse(args)

	cliCfg := loadCLIConfig()
	fmt.Printf("Config:  %s\n", cliConfigPath())
	fmt.Printf("Server:  %s\n", cliCfg.BaseURL)
	if cliCfg.Email == "" {
		fmt.Println("Account: (none)")
		return
	}
	fmt.Printf("Account: %s\n", cliCfg.Email)
	if cliCfg.Token == "" {
		fmt.Println("Token:   (none)")
		return
	}

	c := client.New(cliCfg.BaseURL)
	if _, err := c.Validate(cliCfg.Token); err != nil {
		fmt.Println("Token:   invalid")
		return
	}
	fmt.Println("Token:   valid")
}

// ============================================================================
// CLI CONFIG
// ============================================================================

func cliConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "passgate", "config.json")
}

func loadCLIConfig() CLIConfig {
	cfg := CLIConfig{BaseURL: "http://localhost:8080"}
	data, err := os.ReadFile(cliConfigPath())
	if err != nil {
		return cfg
	}
	_ = json.Unmarshal(data, &cfg)
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	return cfg
}

func saveCLIConfig(cfg CLIConfig) {
	path := cliConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not create config dir: %v\n", err)
		return
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not save config: %v\n", err)
	}
}
