package cli

import (
	"fmt"

	"github.com/keepvault/keepvault/internal/vault"
	"github.com/spf13/cobra"
)

func (a *App) searchCmd() *cobra.Command {
	var (
		viewName string
		useFuzzy bool
	)

	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search the immediate children of a view's root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			view, err := hierarchyByName(db, viewName)
			if err != nil {
				return err
			}

			matcher := vault.MatchCaseInsensitive
			if useFuzzy {
				matcher = vault.MatchFuzzy
			}

			results := view.Search(view.Root().UUID(), args[0], matcher)
			for _, ref := range results {
				fmt.Fprintf(a.out, "%-9s %s  %s\n", kindLabel(ref.Kind()), ref.UUID(), ref.Name())
			}
			if len(results) == 0 {
				fmt.Fprintln(a.out, "no matches")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&viewName, "view", a.config.DefaultView, "view to search (default, templates, totp, tags)")
	cmd.Flags().BoolVar(&useFuzzy, "fuzzy", false, "use fuzzy subsequence matching")
	return cmd
}
