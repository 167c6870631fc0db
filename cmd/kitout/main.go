package main

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	kitouterrors "github.com/kitout-sh/kitout/pkg/errors"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "kitout crashed: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode separates the unrecoverable failure classes: 2 for catalog
// problems, 3 for failed environment preconditions, 1 for everything else.
// A run that completed returns no error at all, whatever its steps did.
func exitCode(err error) int {
	var parseErr *kitouterrors.ParseError
	var validationErr *kitouterrors.ValidationError
	var envErr *kitouterrors.EnvError
	switch {
	case errors.As(err, &parseErr), errors.As(err, &validationErr):
		return 2
	case errors.As(err, &envErr):
		return 3
	}
	return 1
}
