package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/keepvault/keepvault/internal/kdbx"
	"github.com/keepvault/keepvault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobischo/gokeepasslib/v3"
	w "github.com/tobischo/gokeepasslib/v3/wrappers"
	"github.com/zalando/go-keyring"
)

const testPassword = "correct horse"

func uuidString(id gokeepasslib.UUID) string {
	return uuid.UUID(id).String()
}

func writeTestVault(t *testing.T) (string, gokeepasslib.UUID) {
	t.Helper()

	entryID := gokeepasslib.NewUUID()

	db := gokeepasslib.NewDatabase()
	db.Credentials = gokeepasslib.NewPasswordCredentials(testPassword)
	db.Content = &gokeepasslib.DBContent{
		Meta: gokeepasslib.NewMetaData(),
		Root: &gokeepasslib.RootData{
			Groups: []gokeepasslib.Group{
				{
					UUID: gokeepasslib.NewUUID(),
					Name: "Root",
					Groups: []gokeepasslib.Group{
						{
							UUID: gokeepasslib.NewUUID(),
							Name: "Web",
							Entries: []gokeepasslib.Entry{
								{
									UUID: entryID,
									Values: []gokeepasslib.ValueData{
										{Key: "Title", Value: gokeepasslib.V{Content: "GitHub"}},
										{Key: "UserName", Value: gokeepasslib.V{Content: "alice"}},
										{
											Key: "Password",
											Value: gokeepasslib.V{
												Content:   "hunter2",
												Protected: w.NewBoolWrapper(true),
											},
										},
										{
											Key: "otp",
											Value: gokeepasslib.V{
												Content: "otpauth://totp/GitHub:alice?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
											},
										},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "vault.kdbx")
	require.NoError(t, kdbx.Save(db, path, testPassword))
	return path, entryID
}

func runCommand(t *testing.T, args ...string) string {
	t.Helper()
	keyring.MockInit()
	t.Setenv("KEEPVAULT_TEST_PASSWORD", testPassword)

	cfg := &Config{}
	cfg.LoadDefaults()

	app := NewApp(cfg, logging.Nop())
	var out bytes.Buffer
	app.out = &out

	app.rootCmd.SetArgs(append(args, "--password-env", "KEEPVAULT_TEST_PASSWORD"))
	require.NoError(t, app.Execute(context.Background()))
	return out.String()
}

func TestTreeCommand(t *testing.T) {
	path, _ := writeTestVault(t)

	out := runCommand(t, "tree", "--file", path)

	assert.Contains(t, out, "Root/")
	assert.Contains(t, out, "Web/")
	assert.Contains(t, out, "- GitHub")
}

func TestViewsCommand(t *testing.T) {
	path, _ := writeTestVault(t)

	out := runCommand(t, "views", "--file", path)

	assert.Contains(t, out, "Default View")
	assert.Contains(t, out, "All Templates")
	assert.Contains(t, out, "2FA Codes")
	assert.Contains(t, out, "Tags")
	assert.Contains(t, out, "shows 2FA codes")
}

func TestSearchCommand(t *testing.T) {
	path, _ := writeTestVault(t)

	out := runCommand(t, "search", "web", "--file", path)
	assert.Contains(t, out, "group")
	assert.Contains(t, out, "Web")

	out = runCommand(t, "search", "nothing-here", "--file", path)
	assert.Contains(t, out, "no matches")
}

func TestSearchCommand_FuzzyOnTotpView(t *testing.T) {
	path, _ := writeTestVault(t)

	out := runCommand(t, "search", "gthb", "--file", path, "--view", "totp", "--fuzzy")
	assert.Contains(t, out, "GitHub")
}

func TestShowCommand_MasksProtectedByDefault(t *testing.T) {
	path, entryID := writeTestVault(t)
	id := uuidString(entryID)

	out := runCommand(t, "show", id, "--file", path)
	assert.Contains(t, out, "GitHub")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, maskedValue)
	assert.NotContains(t, out, "hunter2")

	out = runCommand(t, "show", id, "--file", path, "--reveal")
	assert.Contains(t, out, "hunter2")
}

func TestTotpCommand(t *testing.T) {
	path, entryID := writeTestVault(t)

	out := runCommand(t, "totp", uuidString(entryID), "--file", path)
	assert.Regexp(t, `^\d{6} \(valid for \d+s\)`, out)
}
