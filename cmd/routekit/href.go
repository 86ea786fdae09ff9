package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/vango-dev/routekit/pkg/hash"
	"github.com/vango-dev/routekit/pkg/href"
	"github.com/vango-dev/routekit/pkg/options"
	"github.com/vango-dev/routekit/pkg/query"
)

// staticView is a fixed href.View.
type staticView struct {
	u     *url.URL
	multi bool
}

func (v staticView) URL() *url.URL { return v.u }
func (v staticView) HashPaths() hash.Paths {
	return hash.ParsePaths(v.u.EscapedFragment(), v.multi)
}

func hrefCmd() *cobra.Command {
	var (
		current       string
		mode          string
		defaultHash   string
		target        string
		preserveQuery []string
		preserveAll   bool
		preserveHash  bool
	)

	cmd := &cobra.Command{
		Use:   "href <path>...",
		Short: "Calculate an href for a routing universe",
		Long: `Join paths into an href the way routers and links do.

--hash selects the universe: "false" for path routing, "true" for single
hash routing, any other value for a named hash path (multi mode).

Examples:
  routekit href /users 42
  routekit href --hash true /settings
  routekit href --mode multi --url 'http://localhost/#main=/a' --hash side /panel`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := url.Parse(current)
			if err != nil {
				return fmt.Errorf("--url: %w", err)
			}

			reg := options.NewRegistry()
			if err := reg.Set(options.Update{
				HashMode:    options.HashMode(mode),
				DefaultHash: parseHashFlag(defaultHash),
			}); err != nil {
				return err
			}

			opts := href.Options{
				Hash:          parseHashFlag(target),
				PreserveQuery: query.PreserveKeys(preserveQuery...),
				PreserveHash:  preserveHash,
			}
			if preserveAll {
				opts.PreserveQuery = query.PreserveAll()
			}

			out, err := href.Calculate(staticView{u: u, multi: reg.IsMulti()}, reg, opts, args...)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&current, "url", "u", "http://localhost/", "Current URL")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(options.HashModeSingle), "Hash mode (single or multi)")
	cmd.Flags().StringVar(&defaultHash, "default-hash", "", "Default hash (false, true or an id)")
	cmd.Flags().StringVar(&target, "hash", "", "Target universe (false, true or an id)")
	cmd.Flags().StringSliceVarP(&preserveQuery, "preserve-query", "q", nil, "Query keys to carry over")
	cmd.Flags().BoolVar(&preserveAll, "preserve-all", false, "Carry every query parameter over")
	cmd.Flags().BoolVar(&preserveHash, "preserve-hash", false, "Keep the current fragment (path routing)")

	return cmd
}

// parseHashFlag maps "" to Unset, "true"/"false" to Single/Path and any
// other value to a named hash.
func parseHashFlag(v string) hash.Hash {
	switch v {
	case "true":
		return hash.Single()
	case "false":
		return hash.Path()
	}
	return hash.Named(v)
}
