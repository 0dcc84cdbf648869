package ffmpeg

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"github.com/momentcut/momentcut/internal/types"
)

// probeResult matches the ffprobe JSON output structure.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType  string `json:"codec_type"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		Duration   string `json:"duration"`
		RFrameRate string `json:"r_frame_rate"`
	} `json:"streams"`
}

// Probe reads container metadata without decoding frames.
func (a *Adapter) Probe(ctx context.Context, path string) (types.VideoInfo, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	b, err := cmd.Output()
	if err != nil {
		return types.VideoInfo{}, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	return parseProbeOutput(b)
}

func parseProbeOutput(b []byte) (types.VideoInfo, error) {
	var pr probeResult
	if err := json.Unmarshal(b, &pr); err != nil {
		return types.VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}

	info := types.VideoInfo{Orientation: types.Horizontal}

	for _, s := range pr.Streams {
		if s.CodecType != "video" || s.Width == 0 {
			continue
		}
		info.Width = s.Width
		info.Height = s.Height
		info.FPS = parseFrameRate(s.RFrameRate)
		if d, err := strconv.ParseFloat(s.Duration, 64); err == nil {
			info.Duration = d
		}
		break
	}

	// Some containers carry duration only at format level.
	if info.Duration == 0 {
		if d, err := strconv.ParseFloat(pr.Format.Duration, 64); err == nil {
			info.Duration = d
		}
	}

	if info.Width == 0 {
		return types.VideoInfo{}, fmt.Errorf("no video stream found")
	}
	if info.Height > info.Width {
		info.Orientation = types.Vertical
	}
	return info, nil
}
