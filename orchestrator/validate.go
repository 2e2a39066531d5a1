package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func requireDir(path, label string) error {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%s directory %q not found", label, path)
	}
	return nil
}

func requireFile(path, label string) error {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return fmt.Errorf("%s file %q not found", label, path)
	}
	return nil
}

func recordingID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// listRecordings enumerates the source recordings and enforces the input
// limits: an empty directory or one over the cap aborts the run before any
// work starts.
func (p *Pipeline) listRecordings() ([]string, error) {
	if err := requireDir(p.cfg.Paths.Audio, "audio"); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(p.cfg.Paths.Audio)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".mp4") {
			continue
		}
		out = append(out, filepath.Join(p.cfg.Paths.Audio, e.Name()))
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no MP4 recordings found in %q", p.cfg.Paths.Audio)
	}
	if max := p.cfg.Limits.MaxRecordings; max > 0 && len(out) > max {
		return nil, fmt.Errorf("maximum %d recordings allowed, found %d", max, len(out))
	}
	return out, nil
}
