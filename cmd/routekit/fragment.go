package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/href"
)

func fragmentCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "fragment <id=path>...",
		Short: "Edit a multi-hash fragment",
		Long: `Apply id=path updates to a multi-hash fragment. An empty path removes
the id; new ids are appended in the order given.

Examples:
  routekit fragment main=/a side=/b
  routekit fragment --from 'main=/a;side=/b' side=`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			updates := make([]hash.PathEntry, 0, len(args))
			for _, arg := range args {
				id, path, ok := strings.Cut(arg, "=")
				if !ok || id == "" {
					return fmt.Errorf("invalid update %q: expected id=path", arg)
				}
				updates = append(updates, hash.PathEntry{ID: id, Path: path})
			}
			existing := hash.ParsePaths(strings.TrimPrefix(from, "#"), true)
			fmt.Fprintln(cmd.OutOrStdout(), href.CalculateMultiHashFragment(existing, updates...))
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Existing fragment")

	return cmd
}
