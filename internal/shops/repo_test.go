package shops

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepositorySaveLoadRoundTrip(t *testing.T) {
	repo := NewRepository(t.TempDir())
	ctx := context.Background()

	record := &ShopRecord{
		ShopName:      "Corner Store",
		OwnerName:     "Amina Khan",
		Address:       "12 Canal Road",
		MobileNumbers: []string{"03001234567"},
	}
	require.NoError(t, repo.Save(ctx, "Corner Store", record))
	require.True(t, repo.Exists(ctx, "Corner Store"))

	loaded, err := repo.Load(ctx, "Corner Store")
	require.NoError(t, err)
	require.Equal(t, record, loaded)
}

func TestRepositoryLoadMissing(t *testing.T) {
	repo := NewRepository(t.TempDir())
	_, err := repo.Load(context.Background(), "nowhere")
	require.True(t, os.IsNotExist(err))
}

func TestRepositoryLoadNormalizesNilNumbers(t *testing.T) {
	root := t.TempDir()
	repo := NewRepository(root)
	ctx := context.Background()

	dir := filepath.Join(root, "Bare Shop")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	payload := `{"shop_name":"Bare Shop","owner_name":"o","address":"a"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop_info.json"), []byte(payload), 0o644))

	loaded, err := repo.Load(ctx, "Bare Shop")
	require.NoError(t, err)
	require.NotNil(t, loaded.MobileNumbers)
	require.Empty(t, loaded.MobileNumbers)
}

func TestRepositoryListSkipsUnparsableFolders(t *testing.T) {
	root := t.TempDir()
	repo := NewRepository(root)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "Good Shop", &ShopRecord{ShopName: "Good Shop", OwnerName: "o", Address: "a"}))

	badDir := filepath.Join(root, "Broken Shop")
	require.NoError(t, os.MkdirAll(badDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(badDir, "shop_info.json"), []byte("not json"), 0o644))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "Empty Folder"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "Good Shop", records[0].ShopName)
}

func TestRepositoryListCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "fresh")
	repo := NewRepository(root)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, records)

	info, err := os.Stat(root)
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestRepositoryRenameMovesFolderContents(t *testing.T) {
	root := t.TempDir()
	repo := NewRepository(root)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "Old Name", &ShopRecord{ShopName: "Old Name", OwnerName: "o", Address: "a"}))
	require.NoError(t, os.WriteFile(filepath.Join(repo.Dir("Old Name"), "inventory.json"), []byte("[]"), 0o644))

	require.NoError(t, repo.Rename(ctx, "Old Name", "New Name"))
	require.False(t, repo.Exists(ctx, "Old Name"))

	_, err := os.Stat(filepath.Join(repo.Dir("New Name"), "inventory.json"))
	require.NoError(t, err)
}

func TestRepositoryBlocksTraversalFolders(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "data")
	require.NoError(t, os.MkdirAll(root, 0o755))

	// A shop record one level above the data root must stay unreachable
	// even though "../shop_info.json" resolves to it.
	payload := `{"shop_name":"Outside","owner_name":"o","address":"a"}`
	require.NoError(t, os.WriteFile(filepath.Join(parent, "shop_info.json"), []byte(payload), 0o644))

	repo := NewRepository(root)
	ctx := context.Background()

	for _, folder := range []string{"..", ".", "", "a/b", `a\b`} {
		require.False(t, repo.Exists(ctx, folder), "folder %q", folder)

		_, err := repo.Load(ctx, folder)
		require.True(t, os.IsNotExist(err), "folder %q", folder)

		require.Error(t, repo.Save(ctx, folder, &ShopRecord{ShopName: "x", OwnerName: "o", Address: "a"}), "folder %q", folder)
		require.Error(t, repo.Delete(ctx, folder), "folder %q", folder)
	}
	require.Error(t, repo.Rename(ctx, "..", "fine"))
	require.Error(t, repo.Rename(ctx, "fine", ".."))

	// Nothing above the root was touched.
	_, err := os.Stat(filepath.Join(parent, "shop_info.json"))
	require.NoError(t, err)
}

func TestRepositoryDelete(t *testing.T) {
	root := t.TempDir()
	repo := NewRepository(root)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "Corner Store", &ShopRecord{ShopName: "Corner Store", OwnerName: "o", Address: "a"}))
	require.NoError(t, repo.Delete(ctx, "Corner Store"))

	_, err := os.Stat(repo.Dir("Corner Store"))
	require.True(t, os.IsNotExist(err))
}
