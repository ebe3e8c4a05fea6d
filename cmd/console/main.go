// Command console is the records-desk client: it logs an officer in with the
// full session-enrichment workflow, keeps the token in a local state file,
// and reads records off the backend.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"precinct/internal/console"
	"precinct/internal/console/storage"
	"precinct/internal/platform/config"
	"precinct/internal/platform/logger"
	"precinct/internal/session/enrich"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		apiURL    = flag.String("api", envOr("PRECINCT_API_URL", "http://localhost:8080"), "backend base URL")
		statePath = flag.String("state", defaultStatePath(), "local state file")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		return fmt.Errorf("usage: console [flags] login|logout|profile|sessions|crimes|applications|rules")
	}

	logg := logger.New()
	cfg := config.FromEnv()

	store, err := storage.NewFile(*statePath)
	if err != nil {
		return err
	}

	enricher := enrich.New(
		enrich.NewHTTPIPClient(cfg.IPLookupURL, nil),
		enrich.NewHTTPGeoClient(cfg.GeoLookupURL, nil),
		console.DescriptorWriter{Store: store},
		consoleUserAgent(),
		logg,
		enrich.WithStepTimeout(cfg.LookupTimeout),
	)
	client := console.NewClient(*apiURL, nil, store, enricher, logg)
	state := console.NewAuthState(client, store, *apiURL+"/login", logg)

	ctx := context.Background()

	switch flag.Arg(0) {
	case "login":
		return login(ctx, state)
	case "logout":
		return state.Logout(ctx)
	case "profile":
		return requireAuth(ctx, state, func() error {
			return printJSON(state.Profile())
		})
	case "sessions":
		return requireAuth(ctx, state, func() error {
			summaries, err := client.SessionHistory(ctx)
			if err != nil {
				return err
			}
			return printJSON(summaries)
		})
	case "crimes":
		return requireAuth(ctx, state, func() error {
			var records json.RawMessage
			if err := client.ListCrimeRecords(ctx, &records); err != nil {
				return err
			}
			return printJSON(records)
		})
	case "applications":
		return requireAuth(ctx, state, func() error {
			var apps json.RawMessage
			if err := client.ListApplications(ctx, &apps); err != nil {
				return err
			}
			return printJSON(apps)
		})
	case "rules":
		return requireAuth(ctx, state, func() error {
			var rules json.RawMessage
			if err := client.ListDataRules(ctx, &rules); err != nil {
				return err
			}
			return printJSON(rules)
		})
	default:
		return fmt.Errorf("unknown command %q", flag.Arg(0))
	}
}

func login(ctx context.Context, state *console.AuthState) error {
	fmt.Print("email: ")
	var email string
	if _, err := fmt.Scanln(&email); err != nil {
		return err
	}

	fmt.Print("password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return err
	}

	if err := state.LoginWithCredentials(ctx, email, string(password)); err != nil {
		return err
	}
	fmt.Println("logged in as", state.Profile().OfficerName)
	return nil
}

// requireAuth is the CLI's route guard: every protected command goes through
// it, and unauthenticated use is always refused.
func requireAuth(ctx context.Context, state *console.AuthState, fn func() error) error {
	state.CheckAuth(ctx)
	guard := console.NewGuard(state)
	if _, ok := guard.Allow("/"); !ok {
		return fmt.Errorf("not logged in, run: console login")
	}
	return fn()
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "precinct-console.json"
	}
	return filepath.Join(home, ".precinct", "console.json")
}

func consoleUserAgent() string {
	return fmt.Sprintf("PrecinctConsole/1.0 (%s)", os.Getenv("PRECINCT_CONSOLE_PLATFORM"))
}
