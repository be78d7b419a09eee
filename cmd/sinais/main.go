package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
)

// The tray toolkit needs the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
