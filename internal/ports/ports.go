package ports

import (
	"context"

	"github.com/momentcut/momentcut/internal/types"
)

// MediaProber reads container metadata without decoding the media.
type MediaProber interface {
	Probe(ctx context.Context, path string) (types.VideoInfo, error)
}

// SignalAnalyzer measures media signals over a half-open window [t0, t1).
// Both methods are pure functions of (path, window): calls for different
// windows are independent and may run concurrently in any interleaving.
type SignalAnalyzer interface {
	// VisualActivity returns the mean inter-frame luma difference over the
	// window, 0 when the window yields fewer than two frames.
	VisualActivity(ctx context.Context, path string, t0, t1 float64) (float64, error)

	// AudioEnergy returns mean loudness over the window normalized to a
	// non-negative scale (0 means quieter than -100 dBFS).
	AudioEnergy(ctx context.Context, path string, t0, t1 float64) (float64, error)
}
