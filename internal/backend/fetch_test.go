package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDownload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("payload"))
	}))
	t.Cleanup(server.Close)

	f := NewFetcher(nil, nil)
	dest := filepath.Join(t.TempDir(), "nested", "dir", "file.bin")

	require.NoError(t, f.Download(context.Background(), server.URL+"/file.bin", dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestDownloadNon200(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	f := NewFetcher(nil, nil)
	err := f.Download(context.Background(), server.URL+"/missing", filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}

func TestDownloadTempKeepsBasename(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("archive"))
	}))
	t.Cleanup(server.Close)

	f := NewFetcher(nil, nil)
	path, err := f.DownloadTemp(context.Background(), server.URL+"/lazygit_0.53.0_Linux_x86_64.tar.gz")
	require.NoError(t, err)
	t.Cleanup(func() { cleanupTemp(path) })

	assert.Equal(t, "lazygit_0.53.0_Linux_x86_64.tar.gz", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "archive", string(data))
}

func TestFileSHA256(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))

	digest, err := FileSHA256(path)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", digest)
}
