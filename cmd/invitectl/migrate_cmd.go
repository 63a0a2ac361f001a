package main

import (
	"fmt"
	"io"
)

// runMigrateCmd implements `invitectl migrate up|down|version`.
func runMigrateCmd(args []string, stdout, stderr io.Writer) int {
	fs, dbPath := newFlagSet("migrate", stderr)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "Error: expected one of up, down, version")
		return 2
	}

	st, err := openStore(*dbPath, false)
	if err != nil {
		return fail(stderr, err)
	}
	defer func() { _ = st.Close() }()

	switch fs.Arg(0) {
	case "up":
		if err := st.ApplyMigrations(); err != nil {
			return fail(stderr, err)
		}
	case "down":
		if err := st.MigrateDown(); err != nil {
			return fail(stderr, err)
		}
	case "version":
	default:
		_, _ = fmt.Fprintf(stderr, "Error: unknown migrate action %q\n", fs.Arg(0))
		return 2
	}

	version, dirty, err := st.SchemaVersion()
	if err != nil {
		return fail(stderr, err)
	}
	_, _ = fmt.Fprintf(stdout, "schema version %d", version)
	if dirty {
		_, _ = fmt.Fprint(stdout, " (dirty)")
	}
	_, _ = fmt.Fprintln(stdout)
	return 0
}
