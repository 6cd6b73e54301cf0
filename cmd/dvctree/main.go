package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vk/dvctree/internal/app"
	"github.com/vk/dvctree/internal/cli"
)

// main is the entrypoint for the dvctree application.
func main() {
	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, errW io.Writer, args []string) error {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	dvctreeApp := app.NewApp(outW, errW, appConfig)
	return dvctreeApp.Run(context.Background())
}
