package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/nhle/todo-manager/internal/store"
)

// Exit codes distinguish the failure kinds for scripts.
const (
	exitOK          = 0
	exitError       = 1
	exitValidation  = 2
	exitNotFound    = 3
	exitPersistence = 4
)

func main() {
	if err := newRootCmd(newCLI()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, store.ErrValidation):
		return exitValidation
	case errors.Is(err, store.ErrNotFound):
		return exitNotFound
	case errors.Is(err, store.ErrPersistence):
		return exitPersistence
	default:
		return exitError
	}
}
