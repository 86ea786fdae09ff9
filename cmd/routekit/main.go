package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	rerrors "github.com/vango-dev/routekit/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var re *rerrors.RouteError
		if errors.As(err, &re) {
			fmt.Fprint(os.Stderr, re.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "routekit",
		Short: "Inspect and exercise the routekit routing kernel",
		Long: `routekit is the command line companion of the routekit routing kernel.

It compiles and tests route patterns, calculates hrefs for every routing
universe, edits multi-hash fragments and serves an HTTP playground that
drives an in-memory kernel described by routekit.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		matchCmd(),
		hrefCmd(),
		fragmentCmd(),
		serveCmd(),
		versionCmd(),
	)
	return rootCmd
}

// printJSON writes v indented.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}
