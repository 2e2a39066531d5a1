package timeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const suffix = "_segments.json"

// Save writes one recording's segment timeline to
// <dir>/<recordingID>_segments.json, creating the directory as needed.
func Save(dir, recordingID string, segs []Segment) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if segs == nil {
		segs = []Segment{}
	}
	path := filepath.Join(dir, recordingID+suffix)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(segs); err != nil {
		return "", err
	}
	return path, nil
}

func Load(path string) ([]Segment, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var segs []Segment
	if err := json.Unmarshal(b, &segs); err != nil {
		return nil, fmt.Errorf("segments %s: %w", path, err)
	}
	return segs, nil
}

// RecordingID recovers the recording identity from a timeline file path.
func RecordingID(path string) string {
	return strings.TrimSuffix(filepath.Base(path), suffix)
}

// List returns the timeline documents under dir in stable order.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
