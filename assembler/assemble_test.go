package assembler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Ahmiconnect/ahmi/media"
)

// fakeEngine records operations instead of invoking ffmpeg.
type fakeEngine struct {
	durations map[string]float64
	ops       []string
	concatLen int // number of entries in the last concat list
}

func (f *fakeEngine) Concat(_ context.Context, listPath, outPath string) error {
	b, err := os.ReadFile(listPath)
	if err != nil {
		return err
	}
	f.concatLen = 0
	for _, c := range b {
		if c == '\n' {
			f.concatLen++
		}
	}
	f.ops = append(f.ops, "concat")
	return nil
}

func (f *fakeEngine) ConcatEncode(_ context.Context, _, _ string, _ media.EncodeOpts) error {
	f.ops = append(f.ops, "concat-encode")
	return nil
}

func (f *fakeEngine) Trim(_ context.Context, _ string, seconds float64, _ string) error {
	f.ops = append(f.ops, fmt.Sprintf("trim %.2f", seconds))
	return nil
}

func (f *fakeEngine) ExtractAudio(_ context.Context, _, _ string) error {
	f.ops = append(f.ops, "extract")
	return nil
}

func (f *fakeEngine) ScaleGain(_ context.Context, _ string, _ float64, _ string) error {
	f.ops = append(f.ops, "gain")
	return nil
}

func (f *fakeEngine) MergeChannels(_ context.Context, _, _, _ string) error {
	f.ops = append(f.ops, "merge")
	return nil
}

func (f *fakeEngine) Mux(_ context.Context, _, _, _ string, _ media.MuxOpts) error {
	f.ops = append(f.ops, "mux")
	return nil
}

func (f *fakeEngine) Duration(_ context.Context, path string) (float64, error) {
	d, ok := f.durations[path]
	if !ok {
		return 0, fmt.Errorf("unknown media %s", path)
	}
	return d, nil
}

func TestAssemble_ConcatThenTrim(t *testing.T) {
	eng := &fakeEngine{durations: map[string]float64{"a.mp4": 5, "b.mp4": 5, "c.mp4": 5}}
	out := filepath.Join(t.TempDir(), "unit.mp4")

	if err := Assemble(context.Background(), eng, []string{"a.mp4", "b.mp4", "c.mp4"}, 7.0, out); err != nil {
		t.Fatal(err)
	}
	if len(eng.ops) != 2 || eng.ops[0] != "concat" || eng.ops[1] != "trim 7.00" {
		t.Errorf("unexpected op sequence %v", eng.ops)
	}
	// 7s needs only the first two 5s clips
	if eng.concatLen != 2 {
		t.Errorf("concat list has %d entries, want 2", eng.concatLen)
	}
}

func TestAssemble_InsufficientClipDuration(t *testing.T) {
	eng := &fakeEngine{durations: map[string]float64{"a.mp4": 3, "b.mp4": 2}}
	err := Assemble(context.Background(), eng, []string{"a.mp4", "b.mp4"}, 10.0, "unit.mp4")

	var ierr *InsufficientClipDurationError
	if !errors.As(err, &ierr) {
		t.Fatalf("got %v, want InsufficientClipDurationError", err)
	}
	if ierr.Need != 10.0 || ierr.Have != 5.0 {
		t.Errorf("unexpected error detail %+v", ierr)
	}
	if len(eng.ops) != 0 {
		t.Errorf("no engine operation should run on under-supply, got %v", eng.ops)
	}
}

func TestSelectClips_DeterministicOrder(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "luffy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.mp4", "a.MP4", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	clips, err := SelectClips(root, "luffy")
	if err != nil {
		t.Fatal(err)
	}
	if len(clips) != 2 {
		t.Fatalf("got %d clips, want 2", len(clips))
	}
	if filepath.Base(clips[0]) != "a.MP4" || filepath.Base(clips[1]) != "b.mp4" {
		t.Errorf("unexpected order %v", clips)
	}
}

func TestSelectClips_EmptyPool(t *testing.T) {
	root := t.TempDir()
	_, err := SelectClips(root, "nobody")
	var nerr *NoClipsError
	if !errors.As(err, &nerr) {
		t.Fatalf("got %v, want NoClipsError", err)
	}
	if nerr.Keyword != "nobody" {
		t.Errorf("unexpected keyword %q", nerr.Keyword)
	}
}

func TestUnitName(t *testing.T) {
	if got := UnitName("episode1", 2, "goku"); got != "episode1_segment_2_goku.mp4" {
		t.Errorf("got %q", got)
	}
}
