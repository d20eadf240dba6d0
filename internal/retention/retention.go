// Package retention keeps output directories bounded to the most recent N
// artifacts. Artifact names start with a timestamp, so lexicographic order is
// also chronological order.
package retention

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
)

// TimestampLayout is the layout used in artifact file names.
const TimestampLayout = "20060102_150405"

// FileName builds an artifact name like "voice_20240102_150405.mp3". A
// non-empty suffix is appended after the timestamp so names written within the
// same second stay unique while still sorting by time.
func FileName(prefix string, at time.Time, suffix, ext string) string {
	name := prefix + "_" + at.Format(TimestampLayout)
	if suffix != "" {
		name += "_" + suffix
	}
	return name + "." + ext
}

// Save writes data to dir/name, creating dir if needed, and returns the path.
func Save(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// Prune deletes all but the keep lexicographically-largest entries in dir and
// returns the names it removed. A missing directory is treated as empty.
func Prune(dir string, keep int) ([]string, error) {
	if keep < 0 {
		keep = 0
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(entries) <= keep {
		return nil, nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var removed []string
	for _, name := range names[:len(names)-keep] {
		if err := os.RemoveAll(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}

// Cleanup prunes every directory to keep entries. Failures are logged and
// otherwise ignored.
func Cleanup(keep int, dirs ...string) {
	for _, dir := range dirs {
		removed, err := Prune(dir, keep)
		if err != nil {
			log.Error().Err(err).Str("dir", dir).Msg("failed to clean up old files")
			continue
		}
		if len(removed) > 0 {
			log.Debug().Str("dir", dir).Int("removed", len(removed)).Msg("cleaned up old files")
		}
	}
}
