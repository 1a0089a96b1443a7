// Package cli implements the keepvault command line interface: every
// command opens a KDBX file, loads it into an in-memory vault, runs one
// operation, and closes the vault again.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/keepvault/keepvault/internal/kdbx"
	"github.com/keepvault/keepvault/internal/logging"
	"github.com/keepvault/keepvault/internal/vault"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// App wires the cobra command tree to a config and logger.
type App struct {
	config *Config
	log    logging.Logger
	out    io.Writer

	rootCmd *cobra.Command

	file        string
	passwordEnv string
}

func NewApp(cfg *Config, log logging.Logger) *App {
	a := &App{
		config: cfg,
		log:    log,
		out:    os.Stdout,
	}

	root := &cobra.Command{
		Use:          "keepvault",
		Short:        "Inspect KeePass databases without keeping secrets in cleartext memory",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&a.file, "file", "f", "", "path to the .kdbx file")
	root.PersistentFlags().StringVar(&a.passwordEnv, "password-env", cfg.PasswordEnv,
		"environment variable holding the master password (prompts when unset)")
	_ = root.MarkPersistentFlagRequired("file")

	root.AddCommand(
		a.treeCmd(),
		a.viewsCmd(),
		a.searchCmd(),
		a.showCmd(),
		a.totpCmd(),
	)

	a.rootCmd = root
	return a
}

func (a *App) Execute(ctx context.Context) error {
	return a.rootCmd.ExecuteContext(ctx)
}

// openVault decrypts the file and loads it. The caller must Close the
// returned database.
func (a *App) openVault(ctx context.Context) (*vault.Database, error) {
	password, err := a.password()
	if err != nil {
		return nil, err
	}

	src, err := kdbx.Open(a.file, password)
	if err != nil {
		return nil, err
	}

	a.log.Debug(ctx, "database decoded", "file", a.file)

	db, err := vault.Load(src, a.log)
	if err != nil {
		return nil, fmt.Errorf("loading vault: %w", err)
	}
	return db, nil
}

func (a *App) password() (string, error) {
	if a.passwordEnv != "" {
		if v, ok := os.LookupEnv(a.passwordEnv); ok {
			return v, nil
		}
		return "", fmt.Errorf("environment variable %s is not set", a.passwordEnv)
	}

	fmt.Fprint(os.Stderr, "Master password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(raw), nil
}

// hierarchyByName maps a view name to its constructor.
func hierarchyByName(db *vault.Database, name string) (*vault.Hierarchy, error) {
	switch name {
	case "default", "":
		return vault.NewDefaultView(db), nil
	case "templates":
		return vault.NewAllTemplates(db), nil
	case "totp":
		return vault.NewTotpEntries(db), nil
	case "tags":
		return vault.NewAllTags(db), nil
	default:
		return nil, fmt.Errorf("unknown view %q (default, templates, totp, tags)", name)
	}
}

func kindLabel(kind vault.ContainedKind) string {
	switch kind {
	case vault.KindGroup:
		return "group"
	case vault.KindTemplate:
		return "template"
	case vault.KindTag:
		return "tag"
	case vault.KindEntry:
		return "entry"
	default:
		return "root"
	}
}
