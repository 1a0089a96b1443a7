package vault

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/keepvault/keepvault/internal/common"
	"github.com/keepvault/keepvault/internal/logging"
	"github.com/keepvault/keepvault/internal/secret"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobischo/gokeepasslib/v3"
	"github.com/zalando/go-keyring"
)

func TestDatabase_IteratorsAreRestartable(t *testing.T) {
	db, _, _ := newFixtureDB(t)

	count := func() int {
		n := 0
		for range db.Entries() {
			n++
		}
		return n
	}

	first := count()
	second := count()
	assert.Equal(t, 1, first)
	assert.Equal(t, first, second)

	groups := 0
	for range db.Groups() {
		groups++
	}
	assert.Equal(t, 2, groups)
}

func TestDatabase_Metadata(t *testing.T) {
	db, _, _ := newFixtureDB(t)

	assert.Equal(t, "Test Vault", db.Metadata().Name)
}

func TestDatabase_MetadataPrefersKPXCName(t *testing.T) {
	keyring.MockInit()

	src := wrapContent(gokeepasslib.Group{
		UUID: gokeepasslib.NewUUID(),
		Name: "Root",
	})
	src.Content.Meta.CustomData = []gokeepasslib.CustomData{
		{Key: "KPXC_PUBLIC_NAME", Value: "My Vault"},
		{Key: "KPXC_PUBLIC_COLOR", Value: "#ff0000"},
		{Key: "KPXC_PUBLIC_ICON", Value: "7"},
	}

	db, err := Load(src, logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	md := db.Metadata()
	assert.Equal(t, "My Vault", md.Name)
	assert.Equal(t, "#ff0000", md.Color)
	require.True(t, md.HasIcon)
	assert.Equal(t, 7, md.Icon)
}

func TestDatabase_TOTPUnknownEntry(t *testing.T) {
	db, _, _ := newFixtureDB(t)

	_, err := db.TOTP(uuid.New())
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDatabase_TOTPEntryWithoutOTP(t *testing.T) {
	db, _, entryID := newFixtureDB(t)

	_, err := db.TOTP(uuid.UUID(entryID))
	require.ErrorIs(t, err, ErrNoOTPConfigured)
}

func TestDatabase_TOTPGeneratesCode(t *testing.T) {
	keyring.MockInit()

	entryID := gokeepasslib.NewUUID()
	root := gokeepasslib.Group{
		UUID: gokeepasslib.NewUUID(),
		Name: "Root",
		Entries: []gokeepasslib.Entry{
			{
				UUID: entryID,
				Values: []gokeepasslib.ValueData{
					plainField("Title", "Mail"),
					protectedField("otp", "otpauth://totp/Mail:bob?secret=GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ"),
				},
			},
		},
	}

	db, err := Load(wrapContent(root), logging.Nop())
	require.NoError(t, err)
	defer db.Close()

	code, err := db.TOTP(uuid.UUID(entryID))
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)
	assert.NotEmpty(t, code.ValidFor)
}

func TestDatabase_CloseIsIdempotent(t *testing.T) {
	db, _, entryID := newFixtureDB(t)

	require.NoError(t, db.Close())
	require.NoError(t, db.Close())

	assert.True(t, db.Store().Poisoned())

	entry, ok := db.Entry(uuid.UUID(entryID))
	require.True(t, ok)
	password, ok := entry.Password()
	require.True(t, ok)
	_, err := password.Reveal()
	require.ErrorIs(t, err, secret.ErrDecryptionFailed)
}

func TestDatabase_RekeyAllRotatesProtectedFields(t *testing.T) {
	db, _, entryID := newFixtureDB(t)

	entry, _ := db.Entry(uuid.UUID(entryID))
	envs := entry.protectedEnvelopes()
	require.NotEmpty(t, envs)

	require.NoError(t, db.RekeyAll(context.Background()))

	password, ok := entry.Password()
	require.True(t, ok)
	got, err := password.Reveal()
	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}

func TestDatabase_RekeyAllHonorsCancellation(t *testing.T) {
	db, _, _ := newFixtureDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := db.RekeyAll(ctx)
	require.ErrorIs(t, err, context.Canceled)
}
