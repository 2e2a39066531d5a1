package media

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner executes an external command. Split out so command construction
// can be tested without invoking the binaries.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
	Output(ctx context.Context, name string, args ...string) (string, error)
}

type execRunner struct {
	log *logrus.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	r.log.WithField("cmd", name).Debug(strings.Join(args, " "))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, lastLine(stderr.String()))
	}
	return nil
}

func (r execRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", name, err, lastLine(stderr.String()))
	}
	return stdout.String(), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

// FFmpeg is the production Engine, shelling out to ffmpeg/ffprobe.
type FFmpeg struct {
	run Runner
}

func NewFFmpeg(log *logrus.Logger) *FFmpeg {
	return &FFmpeg{run: execRunner{log: log}}
}

// Preflight verifies the engine binaries are installed.
func Preflight() error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s is not installed: %w", bin, err)
		}
	}
	return nil
}

func (e *FFmpeg) Concat(ctx context.Context, listPath, outPath string) error {
	return e.run.Run(ctx, "ffmpeg", concatArgs(listPath, outPath)...)
}

func (e *FFmpeg) ConcatEncode(ctx context.Context, listPath, outPath string, opts EncodeOpts) error {
	return e.run.Run(ctx, "ffmpeg", concatEncodeArgs(listPath, outPath, opts)...)
}

func (e *FFmpeg) Trim(ctx context.Context, inPath string, seconds float64, outPath string) error {
	return e.run.Run(ctx, "ffmpeg", trimArgs(inPath, seconds, outPath)...)
}

func (e *FFmpeg) ExtractAudio(ctx context.Context, inPath, outPath string) error {
	return e.run.Run(ctx, "ffmpeg", extractAudioArgs(inPath, outPath)...)
}

func (e *FFmpeg) ScaleGain(ctx context.Context, inPath string, factor float64, outPath string) error {
	return e.run.Run(ctx, "ffmpeg", scaleGainArgs(inPath, factor, outPath)...)
}

func (e *FFmpeg) MergeChannels(ctx context.Context, aPath, bPath, outPath string) error {
	return e.run.Run(ctx, "ffmpeg", mergeChannelsArgs(aPath, bPath, outPath)...)
}

func (e *FFmpeg) Mux(ctx context.Context, videoPath, audioPath, outPath string, opts MuxOpts) error {
	return e.run.Run(ctx, "ffmpeg", muxArgs(videoPath, audioPath, outPath, opts)...)
}

func (e *FFmpeg) Duration(ctx context.Context, path string) (float64, error) {
	out, err := e.run.Output(ctx, "ffprobe", durationArgs(path)...)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", strings.TrimSpace(out), err)
	}
	return d, nil
}

func concatArgs(listPath, outPath string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outPath,
	}
}

func concatEncodeArgs(listPath, outPath string, opts EncodeOpts) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:v", "libx264",
		"-r", strconv.Itoa(opts.FrameRate),
		"-preset", opts.Preset,
		"-crf", strconv.Itoa(opts.CRF),
		"-an",
		outPath,
	}
}

func trimArgs(inPath string, seconds float64, outPath string) []string {
	return []string{
		"-y",
		"-i", inPath,
		"-t", strconv.FormatFloat(seconds, 'f', -1, 64),
		"-c", "copy",
		outPath,
	}
}

func extractAudioArgs(inPath, outPath string) []string {
	return []string{
		"-y",
		"-i", inPath,
		"-vn",
		"-acodec", "pcm_s16le",
		outPath,
	}
}

func scaleGainArgs(inPath string, factor float64, outPath string) []string {
	return []string{
		"-y",
		"-i", inPath,
		"-vn",
		"-filter:a", fmt.Sprintf("volume=%g", factor),
		"-acodec", "pcm_s16le",
		outPath,
	}
}

func mergeChannelsArgs(aPath, bPath, outPath string) []string {
	return []string{
		"-y",
		"-i", aPath,
		"-i", bPath,
		"-filter_complex", "[0:a][1:a]amerge=inputs=2[aout]",
		"-map", "[aout]",
		"-ac", "2",
		"-c:a", "pcm_s16le",
		outPath,
	}
}

func muxArgs(videoPath, audioPath, outPath string, opts MuxOpts) []string {
	return []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", opts.AudioBitrate,
		"-shortest",
		"-r", strconv.Itoa(opts.FrameRate),
		"-metadata", "title=" + opts.Title,
		outPath,
	}
}

func durationArgs(path string) []string {
	return []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}
}
