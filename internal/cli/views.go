package cli

import (
	"fmt"

	"github.com/keepvault/keepvault/internal/vault"
	"github.com/spf13/cobra"
)

func (a *App) viewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "views",
		Short: "Summarize the available hierarchy views",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			views := []*vault.Hierarchy{
				vault.NewDefaultView(db),
				vault.NewAllTemplates(db),
				vault.NewTotpEntries(db),
				vault.NewAllTags(db),
			}

			for _, view := range views {
				line := fmt.Sprintf("%-15s %d items", view.Name(), len(view.Root().Children()))
				if view.Feature() == vault.FeatureDisplayTwoFactorAuth {
					line += " (shows 2FA codes)"
				}
				fmt.Fprintln(a.out, line)
			}
			return nil
		},
	}
}
