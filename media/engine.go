// Package media wraps the external encode/concat/mix engine behind a narrow
// interface so the pipeline stages can be exercised against fakes.
package media

import (
	"context"
	"fmt"
	"os"
)

type EncodeOpts struct {
	FrameRate int
	Preset    string
	CRF       int
}

type MuxOpts struct {
	FrameRate    int
	AudioBitrate string
	Title        string
}

type Engine interface {
	// Concat joins the files named in a concat list, stream-copied.
	Concat(ctx context.Context, listPath, outPath string) error
	// ConcatEncode joins the files named in a concat list, re-encoding to a
	// fixed frame rate and quality preset, with audio stripped.
	ConcatEncode(ctx context.Context, listPath, outPath string, opts EncodeOpts) error
	// Trim cuts the input to the given duration from its start, stream-copied.
	Trim(ctx context.Context, inPath string, seconds float64, outPath string) error
	// ExtractAudio decodes the input's audio to uncompressed PCM.
	ExtractAudio(ctx context.Context, inPath, outPath string) error
	// ScaleGain decodes the input's audio to uncompressed PCM at the given
	// amplitude fraction.
	ScaleGain(ctx context.Context, inPath string, factor float64, outPath string) error
	// MergeChannels combines two mono/stereo PCM inputs into one stereo track.
	MergeChannels(ctx context.Context, aPath, bPath, outPath string) error
	// Mux combines a video stream (copied) with an audio stream (compressed),
	// truncated to the shorter input, with the title embedded as metadata.
	Mux(ctx context.Context, videoPath, audioPath, outPath string, opts MuxOpts) error
	// Duration reports the playable duration of a media file in seconds.
	Duration(ctx context.Context, path string) (float64, error)
}

// WriteConcatList writes a concat demuxer list, one quoted path per line.
func WriteConcatList(listPath string, paths []string) error {
	f, err := os.Create(listPath)
	if err != nil {
		return err
	}
	defer f.Close()
	for _, p := range paths {
		if _, err := fmt.Fprintf(f, "file '%s'\n", p); err != nil {
			return err
		}
	}
	return nil
}
