package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// AudioEnergy measures mean loudness over [t0, t1) with a volumedetect
// null-sink pass and maps it onto a non-negative scale: max(0, 100 + dB), so
// anything quieter than -100 dBFS floors at 0.
func (a *Adapter) AudioEnergy(ctx context.Context, path string, t0, t1 float64) (float64, error) {
	if t1 <= t0 {
		return 0, nil
	}

	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-hide_banner",
		"-ss", fmtSeconds(t0),
		"-t", fmtSeconds(t1-t0),
		"-i", path,
		"-af", "volumedetect",
		"-f", "null", "-",
	)
	// volumedetect reports on stderr; the null muxer output is discarded.
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffmpeg volumedetect: %w\n%s", err, string(b))
	}

	mean, ok := parseMeanVolume(string(b))
	if !ok {
		return 0, fmt.Errorf("no mean_volume in volumedetect output")
	}
	energy := normalizeLoudness(mean)
	a.log.Debug().Float64("t0", t0).Float64("t1", t1).Float64("mean_db", mean).Float64("energy", energy).
		Msg("audio energy measured")
	return energy, nil
}

func parseMeanVolume(output string) (float64, bool) {
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, "mean_volume:") {
			continue
		}
		rest := strings.SplitN(line, "mean_volume:", 2)[1]
		rest = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), "dB"))
		v, err := strconv.ParseFloat(rest, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}
	return 0, false
}

func normalizeLoudness(meanDB float64) float64 {
	v := 100 + meanDB
	if v < 0 {
		return 0
	}
	return v
}
