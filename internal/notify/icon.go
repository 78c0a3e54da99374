package notify

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder for station icons
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/nfnt/resize"
)

const (
	iconDirName     = "tuner/icons"
	iconMaxDim      = 128     // notification servers downscale anything bigger anyway
	iconMaxDownload = 5 << 20 // refuse remote icons larger than 5 MiB
	iconMaxAge      = 30 * 24 * time.Hour
)

// IconCache resolves station icons to local files the notification server
// can read. Remote icons are downloaded once, downscaled and cached as PNG
// in the user cache directory; local paths pass through untouched.
type IconCache struct {
	dir    string
	client *http.Client
}

// NewIconCache creates an icon cache rooted at baseDir. When baseDir is
// empty the XDG cache directory is used.
func NewIconCache(baseDir string) (*IconCache, error) {
	if baseDir == "" {
		baseDir = xdg.CacheHome
	}

	dir := filepath.Join(baseDir, iconDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	c := &IconCache{
		dir:    dir,
		client: &http.Client{Timeout: 10 * time.Second},
	}

	// Prune stale entries in background
	go c.pruneOldEntries()

	return c, nil
}

// Resolve returns a local file path for a station icon, or "" when no icon
// is available. A nil cache resolves local paths and drops remote ones.
func (c *IconCache) Resolve(icon string) (string, error) {
	if icon == "" {
		return "", nil
	}

	if !strings.HasPrefix(icon, "http://") && !strings.HasPrefix(icon, "https://") {
		return icon, nil
	}

	if c == nil {
		return "", nil
	}

	path := filepath.Join(c.dir, cacheKey(icon)+".png")
	if _, err := os.Stat(path); err == nil {
		// Touch the file to update mtime (keeps used entries fresh)
		now := time.Now()
		_ = os.Chtimes(path, now, now) //nolint:errcheck // best-effort

		return path, nil
	}

	img, err := c.download(icon)
	if err != nil {
		return "", err
	}

	resized := resize.Thumbnail(iconMaxDim, iconMaxDim, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return "", fmt.Errorf("encoding icon: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return "", err
	}

	return path, nil
}

// cacheKey generates a stable file name for an icon URL.
func cacheKey(url string) string {
	hash := sha256.Sum256([]byte(url))
	return hex.EncodeToString(hash[:])
}

func (c *IconCache) download(url string) (image.Image, error) {
	resp, err := c.client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading icon: unexpected status %s", resp.Status)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, iconMaxDownload))
	if err != nil {
		return nil, fmt.Errorf("decoding icon: %w", err)
	}

	return img, nil
}

// pruneOldEntries removes cache entries older than iconMaxAge.
func (c *IconCache) pruneOldEntries() {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-iconMaxAge)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		if info.ModTime().Before(cutoff) {
			_ = os.Remove(filepath.Join(c.dir, entry.Name())) //nolint:errcheck // best-effort cleanup
		}
	}
}
