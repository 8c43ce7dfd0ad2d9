// Shared helpers for packrat subcommands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/packrat-app/packrat/internal/imagestore/local"
	"github.com/packrat-app/packrat/internal/store"
)

// openStore opens the engine against the resolved runtime configuration. The
// returned close func releases the database handle; callers must defer it.
func openStore() (*store.Store, *local.Store, func(), error) {
	images, err := local.New(runtimeConfig.ImageDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open image store: %w", err)
	}
	st, err := store.Open(runtimeConfig.DataDir, images)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open store: %w", err)
	}

	closeStore := func() {
		if err := st.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close store:", err)
		}
	}
	return st, images, closeStore, nil
}

// printResult renders v as indented JSON when --json is set, otherwise via
// the plain formatter.
func printResult(v any, plain func()) error {
	if !flagJSON {
		plain()
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// optional turns an empty string into a nil pointer for optional id flags.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
