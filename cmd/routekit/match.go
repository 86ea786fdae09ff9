package main

import (
	"regexp"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/pkg/pattern"
)

type matchResult struct {
	Pattern string         `json:"pattern"`
	Regexp  string         `json:"regexp,omitempty"`
	Path    string         `json:"path"`
	Match   bool           `json:"match"`
	Params  pattern.Params `json:"params,omitempty"`
}

func matchCmd() *cobra.Command {
	var (
		base          string
		isRegexp      bool
		caseSensitive bool
	)

	cmd := &cobra.Command{
		Use:   "match <pattern> <path>...",
		Short: "Test paths against a route pattern",
		Long: `Compile a route pattern and test one or more paths against it.

Examples:
  routekit match /user/:id /user/42
  routekit match "/:lang?/docs/*" /en/docs/a/b /docs
  routekit match --regexp '^/x/(?<n>\d+)$' /x/7`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ri := pattern.RouteInfo{Path: args[0], CaseSensitive: caseSensitive}
			if isRegexp {
				re, err := regexp.Compile(args[0])
				if err != nil {
					return err
				}
				ri = pattern.RouteInfo{Regexp: re}
			}
			c, err := pattern.Compile(ri, base)
			if err != nil {
				return err
			}

			results := make([]matchResult, 0, len(args)-1)
			for _, path := range args[1:] {
				ok, params := c.Test(path)
				r := matchResult{Pattern: args[0], Path: path, Match: ok, Params: params}
				if c.Regexp != nil {
					r.Regexp = c.Regexp.String()
				}
				results = append(results, r)
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "/", "Base path the pattern is relative to")
	cmd.Flags().BoolVarP(&isRegexp, "regexp", "r", false, "Treat the pattern as a regular expression")
	cmd.Flags().BoolVarP(&caseSensitive, "case-sensitive", "c", false, "Match case-sensitively")

	return cmd
}
