package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/keepvault/keepvault/internal/common"
	"github.com/keepvault/keepvault/internal/vault"
	"github.com/spf13/cobra"
)

const maskedValue = "********"

func (a *App) showCmd() *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "show <entry-uuid>",
		Short: "Print an entry's fields",
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

			entry, ok := db.Entry(id)
			if !ok {
				return fmt.Errorf("entry %s: %w", id, common.ErrorNotFound)
			}
			return a.printEntry(entry, reveal)
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "print protected values in cleartext")
	return cmd
}

func (a *App) printEntry(entry *vault.Entry, reveal bool) error {
	named := []struct {
		label string
		get   func() (vault.ValueRef, bool)
	}{
		{"Title", entry.Title},
		{"Username", entry.Username},
		{"Password", entry.Password},
		{"URL", entry.URL},
		{"Notes", entry.Notes},
	}

	for _, field := range named {
		ref, ok := field.get()
		if !ok {
			continue
		}
		value, err := a.renderValue(ref, reveal)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%-10s %s\n", field.label+":", value)
	}

	for name, ref := range entry.CustomFields() {
		value, err := a.renderValue(ref, reveal)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%-10s %s\n", name+":", value)
	}

	if entry.HasTags() {
		fmt.Fprintf(a.out, "%-10s %v\n", "Tags:", entry.Tags())
	}
	if entry.HasOTP() {
		fmt.Fprintf(a.out, "%-10s configured\n", "OTP:")
	}
	return nil
}

func (a *App) renderValue(ref vault.ValueRef, reveal bool) (string, error) {
	if ref.HiddenByDefault() && !reveal {
		return maskedValue, nil
	}
	value, err := ref.Reveal()
	if err != nil {
		return "", fmt.Errorf("revealing field: %w", err)
	}
	return value, nil
}
