package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"

	"github.com/sanjeev23oct/copilotkit-chat-sub001/chat"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/config"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/model"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/nl2sql"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/provider"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/sqlexec"
	"github.com/sanjeev23oct/copilotkit-chat-sub001/storage"
)

const Version = "v0.1.0"

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	logger := zerolog.New(output).With().Timestamp().Logger()

	level := slog.LevelWarn
	if os.Getenv("PILOT_DEBUG") == "true" || os.Getenv("PILOT_DEBUG") == "1" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(logger, &zeroslog.HandlerOptions{Level: level}),
	))
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	ctx := context.Background()

	var cmdErr error
	switch os.Args[1] {
	case "ask":
		cmdErr = runAsk(ctx, cfg, os.Args[2:])
	case "ask-sql":
		cmdErr = runAskSQL(ctx, cfg, os.Args[2:])
	case "sessions":
		cmdErr = runSessions(ctx, cfg)
	case "check":
		cmdErr = runCheck(ctx, cfg, os.Args[2:])
	case "version":
		fmt.Println(Version)
	default:
		usage()
		os.Exit(2)
	}

	if cmdErr != nil {
		fatal(os.Args[1]+" failed", cmdErr)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `pilotchat %s

Usage:
  pilotchat ask [-provider id] [-session id] [-no-stream] <question>
  pilotchat ask-sql [-provider id] [-tables t1,t2] [-execute] <question>
  pilotchat sessions
  pilotchat check [-provider id]
  pilotchat version
`, Version)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// buildProvider resolves and constructs the adapter for providerID,
// falling back to the configured default on "".
func buildProvider(cfg *config.Config, providerID string) (model.Provider, error) {
	resolved, err := cfg.ResolveProvider(providerID)
	if err != nil {
		return nil, err
	}
	return provider.NewProvider(resolved)
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	return storage.Open(filepath.Join(cfg.DataDir(), "chat.db"))
}

func runAsk(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	providerID := fs.String("provider", "", "provider ID (default from config)")
	sessionID := fs.String("session", "", "continue an existing session")
	noStream := fs.Bool("no-stream", false, "wait for the full reply instead of streaming")
	_ = fs.Parse(args)

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return fmt.Errorf("no question given")
	}

	p, err := buildProvider(cfg, *providerID)
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	svc := chat.NewService(p, store)
	svc.Temperature = cfg.Temperature
	svc.MaxTokens = cfg.MaxTokens

	if *sessionID == "" {
		session, err := svc.StartSession(ctx)
		if err != nil {
			return err
		}
		*sessionID = session.ID
		slog.Debug("started session", "id", session.ID)
	}

	if *noStream {
		result, err := svc.Send(ctx, *sessionID, question)
		if err != nil {
			return err
		}
		return writeJSON(result.Envelope)
	}

	events, err := svc.SendStream(ctx, *sessionID, question)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	for event := range events {
		if err := enc.Encode(event); err != nil {
			return err
		}
	}
	return nil
}

func runAskSQL(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("ask-sql", flag.ExitOnError)
	providerID := fs.String("provider", "", "provider ID (default from config)")
	tables := fs.String("tables", "", "comma-separated table hints")
	execute := fs.Bool("execute", false, "run the generated query and print its rows")
	_ = fs.Parse(args)

	question := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if question == "" {
		return fmt.Errorf("no question given")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("no database configured; set database_url or PILOT_DATABASE_URL")
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	schema, err := sqlexec.NewSchemaLoader(pool).LoadSchema(ctx)
	if err != nil {
		return err
	}

	p, err := buildProvider(cfg, *providerID)
	if err != nil {
		return err
	}

	var tableHints []string
	if *tables != "" {
		tableHints = strings.Split(*tables, ",")
	}

	result, err := nl2sql.NewConverter(p).Convert(ctx, question, schema, tableHints)
	if err != nil {
		return err
	}
	if err := writeJSON(result); err != nil {
		return err
	}

	if !*execute {
		return nil
	}
	rows, err := sqlexec.NewExecutor(pool).Query(ctx, result.SQL)
	if err != nil {
		return err
	}
	return writeJSON(rows)
}

func runSessions(ctx context.Context, cfg *config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.ListSessions(ctx)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		fmt.Printf("%s  %-30s  %s  %s\n",
			session.ID, session.Name, session.Model,
			session.UpdatedAt.Format(time.RFC3339))
	}
	return nil
}

func runCheck(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	providerID := fs.String("provider", "", "check a single provider instead of all enabled ones")
	_ = fs.Parse(args)

	ids := []string{}
	if *providerID != "" {
		ids = append(ids, *providerID)
	} else {
		for _, entry := range cfg.Providers {
			if entry.Enabled {
				ids = append(ids, entry.ID)
			}
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("no providers enabled")
	}

	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for _, id := range ids {
		p, err := buildProvider(cfg, id)
		if err != nil {
			fmt.Printf("%-12s unavailable (%v)\n", id, err)
			continue
		}
		if p.Available(probeCtx) {
			fmt.Printf("%-12s available (%s)\n", id, p.Model())
		} else {
			fmt.Printf("%-12s unavailable\n", id)
		}
	}
	return nil
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
