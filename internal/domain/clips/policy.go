// Package clips converts ranked moments into final extraction windows that
// obey duration and bounds policy.
package clips

import (
	"github.com/google/uuid"

	"github.com/momentcut/momentcut/internal/domain/score"
	"github.com/momentcut/momentcut/internal/types"
)

type Config struct {
	// MinDuration is the target floor: shorter windows are padded out
	// symmetrically to reach it.
	MinDuration float64
	// MaxDuration truncates longer windows, keeping the window's beginning.
	MaxDuration float64
	// DiscardBelow drops windows that end up shorter than this after all
	// adjustments; such clips are not worth extracting.
	DiscardBelow float64
	// MaxClips caps the result set.
	MaxClips int
	// ShortVideoCutoff routes whole videos at or under this duration to the
	// single-best-segment path instead of the ranking machinery.
	ShortVideoCutoff float64
	// SummaryLimit truncates clip text summaries, in characters.
	SummaryLimit int
}

func DefaultConfig() Config {
	return Config{
		MinDuration:      15,
		MaxDuration:      60,
		DiscardBelow:     5,
		MaxClips:         5,
		ShortVideoCutoff: 60,
		SummaryLimit:     100,
	}
}

const (
	fallbackScore   = 50
	shortVideoScore = 100
)

// FromMoments applies duration policy to ranked moments, in their given
// order, and returns at most MaxClips clips numbered densely from 1. A
// candidate emptied result set synthesizes a single fallback clip covering
// the video's head, so the caller always gets at least one clip.
func FromMoments(cfg Config, ms []types.Moment, info types.VideoInfo) []types.Clip {
	var out []types.Clip
	for _, m := range ms {
		if len(out) >= cfg.MaxClips {
			break
		}

		start, end := m.Start, m.End
		d := end - start

		if d < cfg.MinDuration {
			pad := (cfg.MinDuration - d) / 2
			start = max(0, start-pad)
			end = min(info.Duration, end+pad)
			d = end - start
		} else if d > cfg.MaxDuration {
			// Keep the beginning: the hook lives there, the tail is filler.
			end = start + cfg.MaxDuration
			d = cfg.MaxDuration
		}

		if end > info.Duration {
			end = info.Duration
			start = max(0, end-d)
		}

		// Padding and clamping ignore neighbors, so the widened window may
		// now reach into an already-selected clip. Earlier selections keep
		// their window; this candidate yields the contested span.
		start, end = trimAgainst(out, start, end)

		d = end - start
		if d < cfg.DiscardBelow {
			continue
		}

		out = append(out, newClip(cfg, len(out)+1, start, end, m.Score, m.Text))
	}

	if len(out) == 0 {
		end := min(info.Duration, 30)
		out = append(out, newClip(cfg, 1, 0, end, fallbackScore, "Full video clip"))
	}
	return out
}

// ForShortVideo handles whole videos at or under the cutoff: one clip built
// around the single best-scoring segment, padded by 2 s on each side and
// expanded to at least 10 s when the video allows it. Without a transcript
// the clip covers the first 15 s.
func ForShortVideo(cfg Config, segments []types.Segment, info types.VideoInfo) []types.Clip {
	var start, end float64

	best, ok := bestSegment(segments)
	if ok {
		start = max(0, best.Start-2)
		end = min(info.Duration, best.End+2)
		if end-start < 10 && info.Duration >= 10 {
			pad := (10 - (end - start)) / 2
			start = max(0, start-pad)
			end = min(info.Duration, end+pad)
		}
	} else {
		start = 0
		end = min(info.Duration, 15)
	}

	return []types.Clip{newClip(cfg, 1, start, end, shortVideoScore, "Best moment")}
}

// trimAgainst shrinks [start, end) until it overlaps none of the selected
// clips, keeping the larger free side when a clip cuts through the middle.
func trimAgainst(selected []types.Clip, start, end float64) (float64, float64) {
	for _, e := range selected {
		if start >= end {
			break
		}
		if start >= e.End || end <= e.Start {
			continue
		}
		if e.Start-start >= end-e.End {
			end = min(end, e.Start)
		} else {
			start = max(start, e.End)
		}
	}
	return start, end
}

func bestSegment(segments []types.Segment) (types.Segment, bool) {
	var best types.Segment
	bestScore := 0.0
	found := false
	for _, seg := range segments {
		if s := score.Text(seg.Text); s > bestScore {
			bestScore = s
			best = seg
			found = true
		}
	}
	return best, found
}

func newClip(cfg Config, index int, start, end, clipScore float64, text string) types.Clip {
	return types.Clip{
		Index:      index,
		Start:      start,
		End:        end,
		Duration:   end - start,
		Score:      clipScore,
		Summary:    summarize(text, cfg.SummaryLimit),
		Identifier: uuid.NewString(),
	}
}

func summarize(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
