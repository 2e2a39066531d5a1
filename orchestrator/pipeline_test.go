package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	cfg "github.com/Ahmiconnect/ahmi/config"
	"github.com/Ahmiconnect/ahmi/media"
	"github.com/Ahmiconnect/ahmi/timeline"
)

// fakeEngine materializes output files so downstream stages can see them,
// without invoking ffmpeg.
type fakeEngine struct{ ops []string }

func (f *fakeEngine) touch(op, outPath string) error {
	f.ops = append(f.ops, op)
	return os.WriteFile(outPath, nil, 0o644)
}

func (f *fakeEngine) Concat(_ context.Context, _, out string) error { return f.touch("concat", out) }
func (f *fakeEngine) ConcatEncode(_ context.Context, _, out string, _ media.EncodeOpts) error {
	return f.touch("concat-encode", out)
}
func (f *fakeEngine) Trim(_ context.Context, _ string, _ float64, out string) error {
	return f.touch("trim", out)
}
func (f *fakeEngine) ExtractAudio(_ context.Context, _, out string) error {
	return f.touch("extract", out)
}
func (f *fakeEngine) ScaleGain(_ context.Context, _ string, _ float64, out string) error {
	return f.touch("gain", out)
}
func (f *fakeEngine) MergeChannels(_ context.Context, _, _, out string) error {
	return f.touch("merge", out)
}
func (f *fakeEngine) Mux(_ context.Context, _, _, out string, _ media.MuxOpts) error {
	return f.touch("mux", out)
}
func (f *fakeEngine) Duration(_ context.Context, _ string) (float64, error) { return 100, nil }

func testPipeline(t *testing.T, eng media.Engine) (*Pipeline, *cfg.Root) {
	t.Helper()
	root := t.TempDir()
	c := &cfg.Root{
		Paths: cfg.Paths{
			Audio:          filepath.Join(root, "audio"),
			Clips:          filepath.Join(root, "clips"),
			Transcriptions: filepath.Join(root, "temp_transcriptions"),
			Segments:       filepath.Join(root, "segments"),
			Music:          filepath.Join(root, "music.mp3"),
			Output:         filepath.Join(root, "final_videos"),
		},
		Video:   cfg.Video{FrameRate: 30, Preset: "fast", CRF: 23, AudioBitrate: "192k", MusicGain: 0.1},
		Limits:  cfg.Limits{MaxRecordings: 5},
		Workers: 2,
	}
	vocab := &cfg.Vocabulary{Keywords: map[string]string{"luffy": "onepiece", "goku": "dbz"}}
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewPipeline(c, vocab, eng, log), c
}

func mkdir(t *testing.T, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func touch(t *testing.T, paths ...string) {
	t.Helper()
	for _, p := range paths {
		if err := os.WriteFile(p, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestAssemble_EmptyTimelineIsSkippedWithoutError(t *testing.T) {
	eng := &fakeEngine{}
	p, c := testPipeline(t, eng)
	mkdir(t, c.Paths.Clips)
	if _, err := timeline.Save(c.Paths.Transcriptions, "silent", nil); err != nil {
		t.Fatal(err)
	}

	if err := p.Assemble(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(eng.ops) != 0 {
		t.Errorf("no engine work expected for an empty timeline, got %v", eng.ops)
	}
}

func TestAssemble_SegmentFailureIsIsolated(t *testing.T) {
	eng := &fakeEngine{}
	p, c := testPipeline(t, eng)
	mkdir(t, filepath.Join(c.Paths.Clips, "luffy"))
	touch(t, filepath.Join(c.Paths.Clips, "luffy", "c1.mp4"))

	// second segment's keyword has no clip pool
	segs := []timeline.Segment{
		{Keyword: "luffy", Start: 0, End: 10},
		{Keyword: "goku", Start: 10, End: 15},
	}
	if _, err := timeline.Save(c.Paths.Transcriptions, "ep", segs); err != nil {
		t.Fatal(err)
	}

	if err := p.Assemble(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(c.Paths.Segments, "ep_segment_0_luffy.mp4")); err != nil {
		t.Errorf("luffy unit should exist: %v", err)
	}
	if _, err := os.Stat(filepath.Join(c.Paths.Segments, "ep_segment_1_goku.mp4")); !os.IsNotExist(err) {
		t.Error("goku unit should be a gap")
	}
}

func TestCompose_EndToEnd(t *testing.T) {
	eng := &fakeEngine{}
	p, c := testPipeline(t, eng)
	mkdir(t, c.Paths.Audio, c.Paths.Segments)
	touch(t,
		c.Paths.Music,
		filepath.Join(c.Paths.Audio, "ep.mp4"),
		filepath.Join(c.Paths.Segments, "ep_segment_1_goku.mp4"),
		filepath.Join(c.Paths.Segments, "ep_segment_0_luffy.mp4"),
	)

	if err := p.Compose(context.Background()); err != nil {
		t.Fatal(err)
	}

	finals, err := os.ReadDir(c.Paths.Output)
	if err != nil {
		t.Fatal(err)
	}
	if len(finals) != 1 {
		t.Fatalf("expected one final artifact, got %d", len(finals))
	}
	if !strings.HasPrefix(finals[0].Name(), "luffy vs goku ") {
		t.Errorf("artifact name should start with first-seen keyword order: %q", finals[0].Name())
	}

	// units consumed after successful composition
	left, err := os.ReadDir(c.Paths.Segments)
	if err != nil {
		t.Fatal(err)
	}
	if len(left) != 0 {
		t.Errorf("segment units should be deleted after inclusion, %d left", len(left))
	}
}

func TestListRecordings_Limits(t *testing.T) {
	p, c := testPipeline(t, &fakeEngine{})
	mkdir(t, c.Paths.Audio)

	if _, err := p.listRecordings(); err == nil {
		t.Error("expected error for empty audio directory")
	}

	for _, n := range []string{"a.mp4", "b.mp4", "c.mp4", "d.mp4", "e.mp4", "f.mp4"} {
		touch(t, filepath.Join(c.Paths.Audio, n))
	}
	if _, err := p.listRecordings(); err == nil {
		t.Error("expected error for too many recordings")
	}
}
