package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *App) totpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totp <entry-uuid>",
		Short: "Print the entry's current one-time code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("parsing entry uuid: %w", err)
			}

			db, err := a.openVault(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			code, err := db.TOTP(id)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "%s (valid for %s)\n", code.Code, code.ValidFor)
			return nil
		},
	}
}
