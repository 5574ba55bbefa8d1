package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketly-backend/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignArchiveKey(t *testing.T) {
	owner := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	id := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	assert.Equal(t,
		"campaigns/11111111-1111-1111-1111-111111111111/22222222-2222-2222-2222-222222222222.txt",
		CampaignArchiveKey(owner, id))
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage(config.StorageConfig{Type: "none"})
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = NewStorage(config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(config.StorageConfig{Type: "s3"})
	assert.Error(t, err)

	_, err = NewStorage(config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestLocalStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(base)
	require.NoError(t, err)

	key := CampaignArchiveKey(uuid.New(), uuid.New())
	require.NoError(t, s.Upload(ctx, key, strings.NewReader("مرحبا")))

	_, err = os.Stat(filepath.Join(base, filepath.FromSlash(key)))
	require.NoError(t, err)

	rc, err := s.Download(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "مرحبا", string(body))

	require.NoError(t, s.Upload(ctx, key, strings.NewReader("v2")))
	rc, err = s.Download(ctx, key)
	require.NoError(t, err)
	body, _ = io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "v2", string(body))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Download(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)

	// deleting twice is fine
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../outside.txt", "/etc/passwd", ""} {
		assert.Error(t, s.Upload(ctx, key, strings.NewReader("x")), "key %q", key)
		_, err := s.Download(ctx, key)
		assert.Error(t, err, "key %q", key)
		assert.Error(t, s.Delete(ctx, key), "key %q", key)
	}
}
