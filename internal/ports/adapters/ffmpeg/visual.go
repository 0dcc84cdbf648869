package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
)

// Frames are downscaled to a fixed grayscale raster before differencing.
// The raster size only scales the cost, not the ordering of scores.
const (
	frameWidth  = 160
	frameHeight = 90
	frameSize   = frameWidth * frameHeight
)

// VisualActivity decodes the window's frames at their native rate as
// grayscale rasters and returns the mean absolute pixel difference between
// consecutive frames, averaged over the window. Fewer than two decodable
// frames yields 0.
func (a *Adapter) VisualActivity(ctx context.Context, path string, t0, t1 float64) (float64, error) {
	if t1 <= t0 {
		return 0, nil
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-hide_banner", "-v", "error",
		"-ss", fmtSeconds(t0),
		"-t", fmtSeconds(t1-t0),
		"-i", path,
		"-vf", fmt.Sprintf("scale=%d:%d,format=gray", frameWidth, frameHeight),
		"-f", "rawvideo",
		"pipe:1",
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start ffmpeg: %w", err)
	}

	activity, readErr := frameActivity(stdout, frameSize)

	if err := cmd.Wait(); err != nil {
		return 0, fmt.Errorf("ffmpeg decode: %w\n%s", err, stderr.String())
	}
	if readErr != nil {
		return 0, readErr
	}
	a.log.Debug().Float64("t0", t0).Float64("t1", t1).Float64("activity", activity).Msg("visual activity measured")
	return activity, nil
}

// frameActivity streams fixed-size frames from r and averages the per-pair
// mean absolute differences. Two buffers are recycled for the whole stream.
func frameActivity(r io.Reader, size int) (float64, error) {
	prev := make([]byte, size)
	cur := make([]byte, size)

	var sum float64
	pairs := 0
	havePrev := false

	for {
		if _, err := io.ReadFull(r, cur); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return 0, fmt.Errorf("read frame: %w", err)
		}
		if havePrev {
			sum += meanAbsDiff(prev, cur)
			pairs++
		}
		prev, cur = cur, prev
		havePrev = true
	}

	if pairs == 0 {
		return 0, nil
	}
	return sum / float64(pairs), nil
}

func meanAbsDiff(a, b []byte) float64 {
	var total int
	for i := range a {
		d := int(a[i]) - int(b[i])
		if d < 0 {
			d = -d
		}
		total += d
	}
	return float64(total) / float64(len(a))
}
