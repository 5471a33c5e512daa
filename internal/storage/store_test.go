package storage

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir(), "test-signing-secret", "http://localhost:3001", 15*time.Minute)
	require.NoError(t, err)
	return store
}

func TestStoreSave(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	name, err := store.Save(ctx, []byte("jpeg bytes"), "image/jpeg", "rex.jpg")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"))
	assert.NotContains(t, name, "/")

	path, err := store.Path(name)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	// Same filename again must yield a distinct object.
	name2, err := store.Save(ctx, []byte("other"), "image/jpeg", "rex.jpg")
	require.NoError(t, err)
	assert.NotEqual(t, name, name2)
}

func TestStoreSaveExtensionFromContentType(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(context.Background(), []byte("png bytes"), "image/png", "blob")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".png"))
}

func TestStoreSignedURLRoundTrip(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(context.Background(), []byte("x"), "image/jpeg", "rex.jpg")
	require.NoError(t, err)

	signed, err := store.SignedURL(name, 0)
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "/media/"+name, u.Path)

	expires, err := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	require.NoError(t, err)
	assert.Greater(t, expires, time.Now().Unix())

	assert.True(t, store.Verify(name, expires, u.Query().Get("sig")))
}

func TestStoreSignedURLMissingObject(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SignedURL("1700000000000-42.jpg", 0)
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}

func TestStoreVerifyRejections(t *testing.T) {
	store := newTestStore(t)

	name, err := store.Save(context.Background(), []byte("x"), "image/jpeg", "rex.jpg")
	require.NoError(t, err)

	signed, err := store.SignedURL(name, time.Minute)
	require.NoError(t, err)
	u, _ := url.Parse(signed)
	expires, _ := strconv.ParseInt(u.Query().Get("expires"), 10, 64)
	sig := u.Query().Get("sig")

	tests := []struct {
		name    string
		object  string
		expires int64
		sig     string
	}{
		{"Tampered signature", name, expires, "deadbeef"},
		{"Expired", name, time.Now().Add(-time.Minute).Unix(), sig},
		{"Different object", "other.jpg", expires, sig},
		{"Traversal name", "../secret", expires, sig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, store.Verify(tt.object, tt.expires, tt.sig))
		})
	}
}

func TestStorePathRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, object := range []string{"", "../etc/passwd", "a/b.jpg", `a\b.jpg`, "..hidden..名"} {
		_, err := store.Path(object)
		if strings.Contains(object, "..") || strings.ContainsAny(object, `/\`) || object == "" {
			assert.True(t, errors.Is(err, ErrInvalidObjectName), "object %q", object)
		}
	}
}

func TestStoreDirCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "objects")
	_, err := New(dir, "s", "http://localhost:3001", time.Minute)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
