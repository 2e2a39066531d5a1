package composer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"

	"github.com/Ahmiconnect/ahmi/config"
	"github.com/Ahmiconnect/ahmi/media"
)

// FinalArtifact is one composed compilation video.
type FinalArtifact struct {
	RecordingID string
	Title       string
	Path        string
}

type Composer struct {
	eng   media.Engine
	video config.Video
	log   *logrus.Logger
}

func New(eng media.Engine, video config.Video, log *logrus.Logger) *Composer {
	return &Composer{eng: eng, video: video, log: log}
}

// Compose runs the fixed five-step composition protocol for one recording
// group:
//
//  1. concatenate the ordered units, re-encoded to a fixed frame rate,
//     audio stripped
//  2. extract the narration audio to uncompressed PCM
//  3. extract the music track to PCM at reduced gain
//  4. merge narration and music into one stereo track
//  5. mux the silent video (copied) with the merged audio (compressed),
//     embedding the title as metadata
//
// Every step works inside a private temp namespace so concurrent
// compositions never collide; intermediates are released best-effort on
// all exit paths. The group's segment units are deleted only after the
// final artifact is written, so a failed composition can be retried.
func (c *Composer) Compose(ctx context.Context, group RecordingGroup, musicPath, title, outPath string) (*FinalArtifact, error) {
	tmp := filepath.Join(os.TempDir(), "ahmi-"+group.RecordingID+"-"+ulid.Make().String())
	if err := os.MkdirAll(tmp, 0o755); err != nil {
		return nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			c.log.WithError(err).Warnf("could not remove temp dir %s", tmp)
		}
	}()

	paths := make([]string, len(group.Units))
	for i, u := range group.Units {
		paths[i] = u.Path
	}
	list := filepath.Join(tmp, "concat.txt")
	if err := media.WriteConcatList(list, paths); err != nil {
		return nil, err
	}

	silentVideo := filepath.Join(tmp, "video_no_audio.mp4")
	if err := c.eng.ConcatEncode(ctx, list, silentVideo, media.EncodeOpts{
		FrameRate: c.video.FrameRate,
		Preset:    c.video.Preset,
		CRF:       c.video.CRF,
	}); err != nil {
		return nil, fmt.Errorf("concat segments: %w", err)
	}

	narration := filepath.Join(tmp, "narration.wav")
	if err := c.eng.ExtractAudio(ctx, group.NarrationPath, narration); err != nil {
		return nil, fmt.Errorf("extract narration: %w", err)
	}

	bgMusic := filepath.Join(tmp, "music.wav")
	if err := c.eng.ScaleGain(ctx, musicPath, c.video.MusicGain, bgMusic); err != nil {
		return nil, fmt.Errorf("prepare music: %w", err)
	}

	mixed := filepath.Join(tmp, "mixed.wav")
	if err := c.eng.MergeChannels(ctx, narration, bgMusic, mixed); err != nil {
		return nil, fmt.Errorf("mix audio: %w", err)
	}

	if err := c.eng.Mux(ctx, silentVideo, mixed, outPath, media.MuxOpts{
		FrameRate:    c.video.FrameRate,
		AudioBitrate: c.video.AudioBitrate,
		Title:        title,
	}); err != nil {
		return nil, fmt.Errorf("mux: %w", err)
	}

	for _, u := range group.Units {
		if err := os.Remove(u.Path); err != nil && !os.IsNotExist(err) {
			c.log.WithError(err).Warnf("could not remove segment unit %s", u.Path)
		}
	}

	return &FinalArtifact{RecordingID: group.RecordingID, Title: title, Path: outPath}, nil
}
