package cli

import (
	"fmt"
	"strings"

	"github.com/keepvault/keepvault/internal/vault"
	"github.com/spf13/cobra"
)

func (a *App) treeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the group tree with entry titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := a.openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			view := vault.NewDefaultView(db)
			a.printContainer(view.Root(), 0)
			return nil
		},
	}
}

func (a *App) printContainer(c *vault.Container, depth int) {
	ref := c.Ref()
	indent := strings.Repeat("  ", depth)

	if ref.Kind() == vault.KindEntry {
		fmt.Fprintf(a.out, "%s- %s\n", indent, ref.Name())
		return
	}

	fmt.Fprintf(a.out, "%s%s/\n", indent, ref.Name())
	for _, child := range c.Children() {
		a.printContainer(child, depth+1)
	}
}
