package observer

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"os/exec"
	"time"
)

// ScreenGrabber captures the screen as a PNG.
type ScreenGrabber interface {
	Grab(ctx context.Context) ([]byte, error)
}

// ScrotGrabber is the production ScreenGrabber on the scrot utility.
type ScrotGrabber struct{}

func (ScrotGrabber) Grab(ctx context.Context) ([]byte, error) {
	f, err := os.CreateTemp("", "glow-screen-*.png")
	if err != nil {
		return nil, fmt.Errorf("screenshot temp file: %w", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := exec.CommandContext(ctx, "scrot", "--overwrite", path).Run(); err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read screenshot: %w", err)
	}
	return data, nil
}

// changeThreshold is the mean per-pixel difference ratio above which the
// screen counts as changed.
const changeThreshold = 0.002

// pollInterval is the spacing between change checks.
const pollInterval = 500 * time.Millisecond

// WaitForChange blocks until the screen differs from its state at entry or
// the timeout elapses. Used to let the desktop settle after an action.
// Capture failures degrade to a plain sleep of the full timeout.
func WaitForChange(ctx context.Context, grabber ScreenGrabber, timeout time.Duration) {
	if grabber == nil {
		sleep(ctx, timeout)
		return
	}

	before, err := grabber.Grab(ctx)
	if err != nil {
		sleep(ctx, timeout)
		return
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !sleep(ctx, pollInterval) {
			return
		}
		after, err := grabber.Grab(ctx)
		if err != nil {
			sleep(ctx, time.Until(deadline))
			return
		}
		if Changed(before, after) {
			// Give the new screen a moment to finish painting.
			sleep(ctx, pollInterval)
			return
		}
	}
}

// Changed reports whether two PNG screenshots differ meaningfully.
// Undecodable or differently-sized captures count as changed.
func Changed(beforePNG, afterPNG []byte) bool {
	if bytes.Equal(beforePNG, afterPNG) {
		return false
	}
	before, _, err := image.Decode(bytes.NewReader(beforePNG))
	if err != nil {
		return true
	}
	after, _, err := image.Decode(bytes.NewReader(afterPNG))
	if err != nil {
		return true
	}
	if before.Bounds() != after.Bounds() {
		return true
	}
	return diffRatio(before, after) > changeThreshold
}

// diffRatio returns the mean absolute channel difference between two
// equally-sized images, normalized to [0,1]. Pixels are sampled on a grid
// to bound cost on large screens.
func diffRatio(a, b image.Image) float64 {
	bounds := a.Bounds()
	step := (bounds.Dx() + bounds.Dy()) / 512
	if step < 1 {
		step = 1
	}

	var total, samples float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			ar, ag, ab, _ := a.At(x, y).RGBA()
			br, bg, bb, _ := b.At(x, y).RGBA()
			total += absDiff(ar, br) + absDiff(ag, bg) + absDiff(ab, bb)
			samples += 3
		}
	}
	if samples == 0 {
		return 0
	}
	// Channel values are 16-bit.
	return total / samples / 65535.0
}

func absDiff(a, b uint32) float64 {
	if a > b {
		return float64(a - b)
	}
	return float64(b - a)
}

// sleep waits for d or until ctx is done; returns false when cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
