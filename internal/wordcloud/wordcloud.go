// Package wordcloud renders keyword frequencies to PNG images under a
// retention-pruned directory.
package wordcloud

import (
	"fmt"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/psykhi/wordclouds"

	"github.com/brieflynews/insights/internal/metrics"
)

const (
	filePrefix = "wordcloud_"
	fileSuffix = ".png"
	// urlPrefix is where the API layer serves rendered images from.
	urlPrefix = "/api/wordcloud/"
)

type Renderer struct {
	dir      string
	fontPath string
	width    int
	height   int
	maxAge   time.Duration
}

func NewRenderer(dir, fontPath string, width, height int, maxAge time.Duration) *Renderer {
	if width <= 0 {
		width = 600
	}
	if height <= 0 {
		height = 400
	}
	return &Renderer{
		dir:      dir,
		fontPath: fontPath,
		width:    width,
		height:   height,
		maxAge:   maxAge,
	}
}

var palette = []color.Color{
	color.RGBA{0x44, 0x01, 0x54, 0xff},
	color.RGBA{0x3b, 0x52, 0x8b, 0xff},
	color.RGBA{0x21, 0x91, 0x8c, 0xff},
	color.RGBA{0x5e, 0xc9, 0x62, 0xff},
	color.RGBA{0xfd, 0xe7, 0x25, 0xff},
}

// Render draws the frequency map and writes a timestamped PNG, returning
// the retrieval URL path. A missing font file is a hard error for this
// operation; nothing else in the pipeline depends on it.
func (r *Renderer) Render(freqs map[string]int) (string, error) {
	if len(freqs) == 0 {
		return "", fmt.Errorf("no keywords to render")
	}

	// Opportunistic retention sweep; failures only cost disk space.
	if removed := r.CleanupOld(); removed > 0 {
		slog.Debug("pruned old wordcloud images", "removed", removed)
	}

	if _, err := os.Stat(r.fontPath); err != nil {
		return "", fmt.Errorf("wordcloud font %q unavailable: %w", r.fontPath, err)
	}
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create wordcloud dir: %w", err)
	}

	wc := wordclouds.NewWordcloud(freqs,
		wordclouds.FontFile(r.fontPath),
		wordclouds.Width(r.width),
		wordclouds.Height(r.height),
		wordclouds.FontMaxSize(64),
		wordclouds.FontMinSize(10),
		wordclouds.Colors(palette),
		wordclouds.BackgroundColor(color.White),
	)
	img := wc.Draw()

	filename := filePrefix + time.Now().Format("20060102_150405") + fileSuffix
	path := filepath.Join(r.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("encode png: %w", err)
	}

	metrics.Global.IncrementWordcloudsRendered()
	slog.Info("wordcloud rendered", "path", path, "words", len(freqs))
	return urlPrefix + filename, nil
}

// FilePath resolves a previously returned image name inside the
// renderer's directory, rejecting traversal attempts.
func (r *Renderer) FilePath(name string) (string, error) {
	if name != filepath.Base(name) || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return "", fmt.Errorf("invalid wordcloud file name %q", name)
	}
	return filepath.Join(r.dir, name), nil
}

// CleanupOld removes rendered images older than the retention window and
// returns how many were deleted. Files vanishing mid-sweep (a concurrent
// sweep or manual cleanup) are skipped, not errors.
func (r *Renderer) CleanupOld() int {
	if r.maxAge <= 0 {
		return 0
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return 0
	}

	removed := 0
	cutoff := time.Now().Add(-r.maxAge)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // file disappeared mid-enumeration
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(r.dir, name)); err == nil {
				removed++
			}
		}
	}
	return removed
}
