package scratch

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// CleanStaleProjects removes project directories under root that have not
// been modified within retention. Requests remove their own projects, so
// anything found here was left behind by a crash or a kill.
func CleanStaleProjects(root string, retention time.Duration, logger *zap.Logger) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		logger.Error("scratch cleanup error", zap.String("root", root), zap.Error(err))
		return 0, err
	}

	cutoff := time.Now().Add(-retention)
	cleaned := 0

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			dir := filepath.Join(root, e.Name())
			if err := os.RemoveAll(dir); err != nil {
				logger.Warn("failed to remove stale project", zap.String("dir", dir), zap.Error(err))
			} else {
				cleaned++
			}
		}
	}

	if cleaned > 0 {
		logger.Info("cleaned up stale projects", zap.Int("count", cleaned))
	}
	return cleaned, nil
}
