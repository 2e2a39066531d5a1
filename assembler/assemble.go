package assembler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Ahmiconnect/ahmi/media"
)

// InsufficientClipDurationError marks a clip pool whose total playable
// duration cannot cover the requested segment. Clips are never looped to
// make up the difference.
type InsufficientClipDurationError struct {
	Need float64
	Have float64
}

func (e *InsufficientClipDurationError) Error() string {
	return fmt.Sprintf("clip pool supplies %.2fs of %.2fs needed", e.Have, e.Need)
}

// Assemble concatenates clips in order, losslessly, and trims the result to
// targetDuration, writing the unit to outPath. The stream-copied trim cuts
// on packet boundaries, so the produced duration is exact to within one
// frame interval. Only the clips needed to cover the target are
// concatenated. The pre-trim intermediate lives in a private temp dir
// released on every exit path.
func Assemble(ctx context.Context, eng media.Engine, clips []string, targetDuration float64, outPath string) error {
	var picked []string
	have := 0.0
	for _, clip := range clips {
		d, err := eng.Duration(ctx, clip)
		if err != nil {
			return fmt.Errorf("probe %s: %w", clip, err)
		}
		picked = append(picked, clip)
		have += d
		if have >= targetDuration {
			break
		}
	}
	if have < targetDuration {
		return &InsufficientClipDurationError{Need: targetDuration, Have: have}
	}

	tmp, err := os.MkdirTemp("", "ahmi-assemble-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmp)

	list := filepath.Join(tmp, "clips.txt")
	if err := media.WriteConcatList(list, picked); err != nil {
		return err
	}

	joined := filepath.Join(tmp, "concat.mp4")
	if err := eng.Concat(ctx, list, joined); err != nil {
		return fmt.Errorf("concat: %w", err)
	}
	if err := eng.Trim(ctx, joined, targetDuration, outPath); err != nil {
		return fmt.Errorf("trim: %w", err)
	}
	return nil
}
