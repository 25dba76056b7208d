package sharc

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
)

// Screenshot queues a labeled capture of the surface at the end of the
// current frame. The PNG is written to Config.ScreenshotDir with a
// timestamped filename. Safe to call from listeners.
func (s *Stage) Screenshot(label string) {
	s.mu.Lock()
	s.screenshotQueue = append(s.screenshotQueue, label)
	s.mu.Unlock()
}

// flushScreenshots writes every queued capture. Called at the end of
// RenderFrame.
func (s *Stage) flushScreenshots() {
	s.mu.Lock()
	queue := s.screenshotQueue
	s.screenshotQueue = nil
	s.mu.Unlock()
	if len(queue) == 0 {
		return
	}

	dir := s.cfg.ScreenshotDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error("screenshot: mkdir", "dir", dir, "err", err)
		return
	}

	img := s.surface.Image()
	stamp := time.Now().Format("20060102_150405")
	for _, label := range queue {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
		if err := gg.SavePNG(path, img); err != nil {
			s.logger.Error("screenshot", "path", path, "err", err)
			continue
		}
		s.logger.Debug("screenshot saved", "path", path)
	}
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
