// Package moments fuses text, visual, and audio signals into ranked time
// windows and resolves their temporal overlaps.
package moments

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/momentcut/momentcut/internal/domain/score"
	"github.com/momentcut/momentcut/internal/ports"
	"github.com/momentcut/momentcut/internal/types"
)

// OverlapPolicy selects how competing windows are resolved. The two
// strategies survive from different revisions of the selection logic and
// produce different but equally valid rankings, so the choice stays
// configurable instead of hard-coded.
type OverlapPolicy string

const (
	// MergeAdjacentPolicy joins near-adjacent windows into longer ones.
	MergeAdjacentPolicy OverlapPolicy = "merge"
	// RejectLowerScorePolicy keeps the highest-scoring windows and drops
	// anything that overlaps an already-kept one.
	RejectLowerScorePolicy OverlapPolicy = "reject"
)

type Config struct {
	// VisualCeiling disables visual analysis entirely for videos longer than
	// this many seconds. Frame decoding is the most expensive signal by far.
	VisualCeiling float64
	// VisualWindowCap bounds the sampled sub-window per moment, in seconds.
	VisualWindowCap float64
	// MaxGap is the largest silence between two windows that still merges
	// them, in seconds.
	MaxGap float64
	// MinScore is the eligibility threshold for the reject strategy.
	MinScore float64
	// TileWidth is the fixed window width used when no transcript exists.
	TileWidth float64
	// TopN caps how many score-ranked candidates enter overlap resolution.
	TopN int
	// Workers bounds concurrent analyzer calls.
	Workers int
	// AnalyzerTimeout bounds each analyzer call; on expiry the window's
	// signal contribution is 0 rather than an error.
	AnalyzerTimeout time.Duration

	Policy OverlapPolicy
}

func DefaultConfig() Config {
	return Config{
		VisualCeiling:   300,
		VisualWindowCap: 5,
		MaxGap:          2,
		MinScore:        20,
		TileWidth:       30,
		TopN:            10,
		Workers:         4,
		AnalyzerTimeout: 30 * time.Second,
		Policy:          MergeAdjacentPolicy,
	}
}

// Ranker builds and ranks moments for one media file. Stateless across calls.
type Ranker struct {
	cfg      Config
	analyzer ports.SignalAnalyzer
	log      zerolog.Logger
}

func NewRanker(cfg Config, analyzer ports.SignalAnalyzer, log zerolog.Logger) *Ranker {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.TileWidth <= 0 {
		cfg.TileWidth = DefaultConfig().TileWidth
	}
	return &Ranker{cfg: cfg, analyzer: analyzer, log: log.With().Str("component", "ranker").Logger()}
}

// Rank produces a non-overlapping, ranked list of moments for the video at
// path. With a transcript each segment becomes a candidate scored by text
// plus signals; without one the timeline is tiled into fixed-width windows
// scored by signals alone. Analyzer failures degrade to a 0 contribution and
// never abort the pass.
func (r *Ranker) Rank(ctx context.Context, path string, segments []types.Segment, info types.VideoInfo) []types.Moment {
	var ms []types.Moment
	if len(segments) > 0 {
		ms = r.fromSegments(segments, info)
	} else {
		ms = r.fromTiles(info)
	}
	if len(ms) == 0 {
		return nil
	}

	r.measureSignals(ctx, path, ms, info)

	sortByScoreDesc(ms)
	if len(ms) > r.cfg.TopN {
		ms = ms[:r.cfg.TopN]
	}

	switch r.cfg.Policy {
	case RejectLowerScorePolicy:
		return RejectOverlapping(ms, r.cfg.MinScore)
	default:
		return MergeAdjacent(ms, r.cfg.MaxGap)
	}
}

func (r *Ranker) fromSegments(segments []types.Segment, info types.VideoInfo) []types.Moment {
	ms := make([]types.Moment, 0, len(segments))
	for i, seg := range segments {
		end := seg.End
		if end < seg.Start {
			continue
		}

		var textScore float64
		if r.cfg.Policy == RejectLowerScorePolicy {
			pos := 0.0
			if info.Duration > 0 {
				pos = seg.Start / info.Duration
			}
			textScore = score.TextInContext(seg.Text, score.Context{
				PositionFraction: pos,
				Duration:         seg.Duration(),
			})
		} else {
			textScore = score.Text(seg.Text)
		}

		ms = append(ms, types.Moment{
			Start:       seg.Start,
			End:         end,
			Text:        seg.Text,
			Score:       textScore,
			SourceIndex: i,
		})
	}
	return ms
}

func (r *Ranker) fromTiles(info types.VideoInfo) []types.Moment {
	var ms []types.Moment
	for i, t := 0, 0.0; t < info.Duration; i, t = i+1, t+r.cfg.TileWidth {
		end := t + r.cfg.TileWidth
		if end > info.Duration {
			end = info.Duration
		}
		ms = append(ms, types.Moment{
			Start:       t,
			End:         end,
			Text:        fmt.Sprintf("Segment %d", i+1),
			SourceIndex: i,
		})
	}
	return ms
}

// measureSignals adds visual and audio contributions to every moment's score.
// Calls are pure per window, so they run on a bounded pool with no ordering.
func (r *Ranker) measureSignals(ctx context.Context, path string, ms []types.Moment, info types.VideoInfo) {
	sem := make(chan struct{}, r.cfg.Workers)
	var wg sync.WaitGroup
	for i := range ms {
		wg.Add(1)
		go func(m *types.Moment) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if info.Duration < r.cfg.VisualCeiling {
				vEnd := m.End
				if limit := m.Start + r.cfg.VisualWindowCap; vEnd > limit {
					vEnd = limit
				}
				m.Score += r.measure(ctx, "visual_activity", m.Start, vEnd, func(c context.Context) (float64, error) {
					return r.analyzer.VisualActivity(c, path, m.Start, vEnd)
				})
			}

			m.Score += r.measure(ctx, "audio_energy", m.Start, m.End, func(c context.Context) (float64, error) {
				return r.analyzer.AudioEnergy(c, path, m.Start, m.End)
			})
		}(&ms[i])
	}
	wg.Wait()
}

func (r *Ranker) measure(ctx context.Context, name string, t0, t1 float64, fn func(context.Context) (float64, error)) float64 {
	cctx, cancel := context.WithTimeout(ctx, r.cfg.AnalyzerTimeout)
	defer cancel()

	v, err := fn(cctx)
	if err != nil {
		r.log.Warn().Err(err).Str("signal", name).Float64("t0", t0).Float64("t1", t1).
			Msg("analysis failed, contribution degraded to 0")
		return 0
	}
	return v
}

// MergeAdjacent joins moments whose gap is at most maxGap seconds. The sweep
// runs strictly in start-time order over a copy of the input; the merged
// window takes the later end, the higher score, and the concatenated text.
// Re-running it on its own output is a no-op. The result is ordered by score
// descending, since merge callers select clips in score order.
func MergeAdjacent(ms []types.Moment, maxGap float64) []types.Moment {
	if len(ms) == 0 {
		return nil
	}

	sorted := append([]types.Moment(nil), ms...)
	sortByStartAsc(sorted)

	merged := make([]types.Moment, 0, len(sorted))
	cur := sorted[0]
	for _, m := range sorted[1:] {
		if m.Start-cur.End <= maxGap {
			if m.End > cur.End {
				cur.End = m.End
			}
			if m.Score > cur.Score {
				cur.Score = m.Score
			}
			cur.Text += " " + m.Text
			continue
		}
		merged = append(merged, cur)
		cur = m
	}
	merged = append(merged, cur)

	sortByScoreDesc(merged)
	return merged
}

// RejectOverlapping walks moments from the highest score down, keeping a
// moment only when it clears minScore and overlaps nothing already kept.
// The survivors come back in start-time order for presentation.
func RejectOverlapping(ms []types.Moment, minScore float64) []types.Moment {
	sorted := append([]types.Moment(nil), ms...)
	sortByScoreDesc(sorted)

	var kept []types.Moment
	for _, m := range sorted {
		if m.Score <= minScore {
			continue
		}
		overlaps := false
		for _, k := range kept {
			if m.Overlaps(k) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}

	sortByStartAsc(kept)
	return kept
}

func sortByScoreDesc(ms []types.Moment) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Score > ms[j].Score })
}

func sortByStartAsc(ms []types.Moment) {
	sort.SliceStable(ms, func(i, j int) bool { return ms[i].Start < ms[j].Start })
}
