// Command packrat is the CLI surface over the packrat inventory engine.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/packrat-app/packrat/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
	os.Exit(exitSuccess)
}

// exitCode maps engine sentinels to the user-error code; anything else (disk,
// database, archive failures) is a system error.
func exitCode(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound),
		errors.Is(err, types.ErrInvalidID),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrInvalidParent),
		errors.Is(err, types.ErrUnsupportedVersion):
		return exitUserError
	default:
		return exitSysError
	}
}
