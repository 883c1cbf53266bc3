package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
)

func newTestVaultStore(t *testing.T) (*VaultStore, string) {
	t.Helper()

	tmpDir := t.TempDir()
	cfg, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store, err := NewVaultStore(cfg)
	require.NoError(t, err)
	return store, tmpDir
}

func testVault(id, name string) domain.Vault {
	return domain.Vault{
		ID:      id,
		Name:    name,
		Path:    "/vaults/" + id,
		AddedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewVaultStore_RequiresConfigStore(t *testing.T) {
	store, err := NewVaultStore(nil)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, store)
}

func TestNewVaultStore_StartsEmpty(t *testing.T) {
	store, _ := newTestVaultStore(t)

	vaults, err := store.List(context.Background())

	require.NoError(t, err)
	assert.Empty(t, vaults)
}

func TestVaultStore_SaveAndGet(t *testing.T) {
	store, _ := newTestVaultStore(t)
	ctx := context.Background()

	vault := testVault("vault-1", "Notes")
	err := store.Save(ctx, vault)
	require.NoError(t, err)

	got, err := store.Get(ctx, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, vault, *got)
}

func TestVaultStore_Get_NotFound(t *testing.T) {
	store, _ := newTestVaultStore(t)

	got, err := store.Get(context.Background(), "ghost")

	assert.ErrorIs(t, err, domain.ErrVaultNotFound)
	assert.Nil(t, got)
}

func TestVaultStore_Save_RejectsInvalidVault(t *testing.T) {
	store, _ := newTestVaultStore(t)
	ctx := context.Background()

	err := store.Save(ctx, domain.Vault{Path: "/vaults/no-id"})
	assert.ErrorIs(t, err, domain.ErrInvalidVaultID)

	err = store.Save(ctx, domain.Vault{ID: "no-path"})
	assert.ErrorIs(t, err, domain.ErrInvalidVaultPath)

	vaults, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, vaults)
}

func TestVaultStore_Save_UpdatesExisting(t *testing.T) {
	store, _ := newTestVaultStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testVault("vault-1", "Old Name")))

	updated := testVault("vault-1", "New Name")
	require.NoError(t, store.Save(ctx, updated))

	vaults, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, vaults, 1)
	assert.Equal(t, "New Name", vaults[0].Name)
}

func TestVaultStore_Delete(t *testing.T) {
	store, _ := newTestVaultStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testVault("vault-1", "Notes")))

	err := store.Delete(ctx, "vault-1")
	require.NoError(t, err)

	_, err = store.Get(ctx, "vault-1")
	assert.ErrorIs(t, err, domain.ErrVaultNotFound)

	// Deleting again reports not found
	err = store.Delete(ctx, "vault-1")
	assert.ErrorIs(t, err, domain.ErrVaultNotFound)
}

func TestVaultStore_List_OrderedByRegistration(t *testing.T) {
	store, _ := newTestVaultStore(t)
	ctx := context.Background()

	oldest := testVault("vault-c", "Oldest")
	oldest.AddedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newest := testVault("vault-a", "Newest")
	newest.AddedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	middle := testVault("vault-b", "Middle")
	middle.AddedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Save(ctx, newest))
	require.NoError(t, store.Save(ctx, oldest))
	require.NoError(t, store.Save(ctx, middle))

	vaults, err := store.List(ctx)

	require.NoError(t, err)
	require.Len(t, vaults, 3)
	assert.Equal(t, "Oldest", vaults[0].Name)
	assert.Equal(t, "Middle", vaults[1].Name)
	assert.Equal(t, "Newest", vaults[2].Name)
}

func TestVaultStore_PersistsAcrossReload(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	cfg1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	store1, err := NewVaultStore(cfg1)
	require.NoError(t, err)

	require.NoError(t, store1.Save(ctx, testVault("vault-1", "Notes")))
	require.NoError(t, store1.Save(ctx, testVault("vault-2", "")))

	// A fresh store pair reads the same file
	cfg2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	store2, err := NewVaultStore(cfg2)
	require.NoError(t, err)

	vaults, err := store2.List(ctx)
	require.NoError(t, err)
	require.Len(t, vaults, 2)

	got, err := store2.Get(ctx, "vault-1")
	require.NoError(t, err)
	assert.Equal(t, "Notes", got.Name)
	assert.Equal(t, "/vaults/vault-1", got.Path)
	assert.True(t, got.AddedAt.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))
}

func TestVaultStore_SharesConfigFileWithSettings(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()

	cfg1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, cfg1.Set("search.threshold", 0.4))

	store1, err := NewVaultStore(cfg1)
	require.NoError(t, err)
	require.NoError(t, store1.Save(ctx, testVault("vault-1", "Notes")))

	// Both the setting and the vault survive a reload from disk
	cfg2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	store2, err := NewVaultStore(cfg2)
	require.NoError(t, err)

	assert.InDelta(t, 0.4, cfg2.GetFloat("search.threshold"), 1e-9)

	vaults, err := store2.List(ctx)
	require.NoError(t, err)
	require.Len(t, vaults, 1)
}

func TestNewVaultStore_SkipsMalformedEntries(t *testing.T) {
	tmpDir := t.TempDir()

	content := `[[vaults]]
id = "vault-1"
name = "Notes"
path = "/vaults/notes"
added_at = 2024-01-15T10:00:00Z

[[vaults]]
id = "vault-2"
name = "No path, skipped"
`
	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(content), 0600)
	require.NoError(t, err)

	cfg, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	store, err := NewVaultStore(cfg)
	require.NoError(t, err)

	vaults, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, vaults, 1)
	assert.Equal(t, "vault-1", vaults[0].ID)
}

func TestNewVaultStore_RejectsNonArrayVaults(t *testing.T) {
	tmpDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(`vaults = "nope"`), 0600)
	require.NoError(t, err)

	cfg, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	store, err := NewVaultStore(cfg)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Nil(t, store)
}
