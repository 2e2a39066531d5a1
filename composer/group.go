// Package composer regroups assembled segment units per recording and
// composes each group into one final video.
package composer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// SegmentUnit is one assembled media artifact for one timeline segment.
// Index preserves the original timeline order and is the sole sort key
// when regrouping.
type SegmentUnit struct {
	RecordingID string
	Index       int
	Keyword     string
	Path        string
}

// RecordingGroup holds one recording's ordered units plus its narration
// source.
type RecordingGroup struct {
	RecordingID   string
	Units         []SegmentUnit
	NarrationPath string
}

// DuplicateIndexError marks two units claiming the same timeline position
// within one recording, a data-integrity failure.
type DuplicateIndexError struct {
	RecordingID string
	Index       int
}

func (e *DuplicateIndexError) Error() string {
	return fmt.Sprintf("recording %q has duplicate segment index %d", e.RecordingID, e.Index)
}

// ParseUnitName decodes "{recordingID}_segment_{index}_{keyword}.mp4".
// Recording IDs may themselves contain underscores.
func ParseUnitName(path string) (SegmentUnit, error) {
	name := filepath.Base(path)
	rec, rest, ok := strings.Cut(name, "_segment_")
	if !ok {
		return SegmentUnit{}, fmt.Errorf("unit %q: missing segment marker", name)
	}
	idxStr, kw, ok := strings.Cut(strings.TrimSuffix(rest, ".mp4"), "_")
	if !ok {
		return SegmentUnit{}, fmt.Errorf("unit %q: missing keyword field", name)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return SegmentUnit{}, fmt.Errorf("unit %q: bad index: %w", name, err)
	}
	return SegmentUnit{RecordingID: rec, Index: idx, Keyword: kw, Path: path}, nil
}

// ScanUnits reads the produced segment units under dir.
func ScanUnits(dir string) ([]SegmentUnit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var units []SegmentUnit
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".mp4") {
			continue
		}
		u, err := ParseUnitName(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// Group maps units to their recording and restores timeline order by
// segment index. A duplicate index within one recording fails fast.
func Group(units []SegmentUnit) (map[string][]SegmentUnit, error) {
	groups := map[string][]SegmentUnit{}
	for _, u := range units {
		groups[u.RecordingID] = append(groups[u.RecordingID], u)
	}
	for rec, g := range groups {
		sort.Slice(g, func(i, j int) bool { return g[i].Index < g[j].Index })
		for i := 0; i+1 < len(g); i++ {
			if g[i].Index == g[i+1].Index {
				return nil, &DuplicateIndexError{RecordingID: rec, Index: g[i].Index}
			}
		}
		groups[rec] = g
	}
	return groups, nil
}

// LocateNarration finds the recording's narration source in audioDir by
// filename prefix.
func LocateNarration(audioDir, recordingID string) (string, error) {
	entries, err := os.ReadDir(audioDir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, recordingID) && strings.HasSuffix(strings.ToLower(name), ".mp4") {
			return filepath.Join(audioDir, name), nil
		}
	}
	return "", fmt.Errorf("no narration source for recording %q in %s", recordingID, audioDir)
}
