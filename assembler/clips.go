// Package assembler turns timeline segments into exact-duration media units
// built from per-keyword clip pools.
package assembler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// NoClipsError marks a keyword whose clip pool is missing or empty. Fatal
// to the segment, not to the recording.
type NoClipsError struct{ Keyword string }

func (e *NoClipsError) Error() string {
	return fmt.Sprintf("no clips available for keyword %q", e.Keyword)
}

// SelectClips resolves the candidate clip pool for a keyword. The returned
// order is lexicographic by filename so repeated runs are reproducible.
func SelectClips(clipsDir, keyword string) ([]string, error) {
	dir := filepath.Join(clipsDir, keyword)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &NoClipsError{Keyword: keyword}
	}

	var clips []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".mp4") {
			continue
		}
		clips = append(clips, filepath.Join(dir, e.Name()))
	}
	if len(clips) == 0 {
		return nil, &NoClipsError{Keyword: keyword}
	}
	return clips, nil
}

// UnitName encodes a segment unit's identity into its filename. The
// composition stage parses these fields back out when regrouping.
func UnitName(recordingID string, index int, keyword string) string {
	return fmt.Sprintf("%s_segment_%d_%s.mp4", recordingID, index, keyword)
}
