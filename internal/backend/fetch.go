package backend

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kitout-sh/kitout/internal/logger"
)

// newHTTPClient builds the client used for all downloads. The long total
// timeout covers large release archives on slow links; the handshake timeout
// is raised above the default for slow mirrors.
func newHTTPClient(timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSHandshakeTimeout = 30 * time.Second

	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

// Fetcher downloads remote content for the script and release methods.
type Fetcher struct {
	client *http.Client
	log    *logger.Logger
}

// NewFetcher creates a Fetcher. A nil client gets the default one.
func NewFetcher(client *http.Client, log *logger.Logger) *Fetcher {
	if client == nil {
		client = newHTTPClient(0)
	}
	return &Fetcher{client: client, log: log}
}

// Download fetches url into dest, creating parent directories as needed.
func (f *Fetcher) Download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer out.Close()

	written, err := io.Copy(out, resp.Body)
	if err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}

	f.log.WithFields(map[string]any{
		"url":   url,
		"dest":  dest,
		"bytes": written,
	}).Debug("Downloaded file")

	return nil
}

// DownloadTemp fetches url into a fresh temporary directory, keeping the
// URL's basename so extension-sniffing code sees the original name.
func (f *Fetcher) DownloadTemp(ctx context.Context, url string) (string, error) {
	dir, err := os.MkdirTemp("", "kitout-fetch-*")
	if err != nil {
		return "", err
	}

	name := filepath.Base(url)
	if name == "." || name == "/" || name == "" {
		name = "download"
	}

	dest := filepath.Join(dir, name)
	if err := f.Download(ctx, url, dest); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return dest, nil
}

// FileSHA256 returns the hex digest of a file's contents.
func FileSHA256(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
