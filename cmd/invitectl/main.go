// Command invitectl is the operator CLI for the invitation service. It works
// directly on the service database, so run it next to the server's data
// volume (or inside the container).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aussiebroadwan/futurgenie/internal/invites/store/drivers/sqlite"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(envOr("INVITES_ENV_FILE", ".env"))
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type command struct {
	name    string
	summary string
	run     func(args []string, stdout, stderr io.Writer) int
}

func commands() []command {
	return []command{
		{"migrate", "up|down|version - manage the database schema", runMigrateCmd},
		{"onboard", "create a school and its director", runOnboardCmd},
		{"classroom", "add a classroom to a director's school", runClassroomCmd},
		{"issue", "issue (or reuse) an invitation for a classroom", runIssueCmd},
		{"sweep", "delete invitations that expired before the retention window", runSweepCmd},
		{"session", "mint a development session token", runSessionCmd},
		{"keygen", "generate an Ed25519 signing key and its JWKS", runKeygenCmd},
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stderr)
		return 2
	}

	for _, c := range commands() {
		if c.name == args[0] {
			return c.run(args[1:], stdout, stderr)
		}
	}

	_, _ = fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
	printUsage(stderr)
	return 2
}

func printUsage(w io.Writer) {
	_, _ = fmt.Fprintln(w, "Usage: invitectl <command> [flags]")
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Commands:")
	for _, c := range commands() {
		_, _ = fmt.Fprintf(w, "  %-10s %s\n", c.name, c.summary)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "Run 'invitectl <command> -h' for the command's flags.")
}

// newFlagSet returns a flag set with the shared -db flag.
func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *string) {
	fs := newBareFlagSet(name, stderr)
	db := fs.String("db", envOr("INVITES_DATABASE_FILE", "invites.db"), "SQLite database file")
	return fs, db
}

// openStore opens the database, bringing the schema up to date when migrate
// is set.
func openStore(path string, migrate bool) (*sqlite.Store, error) {
	st, err := sqlite.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if migrate {
		if err := st.ApplyMigrations(); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
	}
	return st, nil
}

func fail(stderr io.Writer, err error) int {
	_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

var background = context.Background

// newBareFlagSet is newFlagSet for commands that do not touch the database.
func newBareFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}
