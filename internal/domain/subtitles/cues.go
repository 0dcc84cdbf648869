// Package subtitles re-derives a subtitle track for an extracted clip. Cue
// times are rebased to the clip's own 0-based axis; they never share the
// source transcript's timeline.
package subtitles

import (
	"strings"

	"github.com/momentcut/momentcut/internal/types"
)

// maxLineWords is the widest a single-line cue may render before it gets
// split into two lines.
const maxLineWords = 4

// Rebase emits one cue per transcript segment overlapping the clip window,
// in transcript order. Times are clamped to [0, clip.Duration]; degenerate
// cues (start >= end) are dropped.
func Rebase(clip types.Clip, segments []types.Segment) []types.Cue {
	var out []types.Cue
	for _, seg := range segments {
		if seg.End <= clip.Start || seg.Start >= clip.End {
			continue
		}

		start := seg.Start - clip.Start
		if start < 0 {
			start = 0
		}
		end := seg.End - clip.Start
		if end > clip.Duration {
			end = clip.Duration
		}
		if start >= end {
			continue
		}

		lines := wrap(seg.Text)
		if len(lines) == 0 {
			continue
		}
		out = append(out, types.Cue{Start: start, End: end, Lines: lines})
	}
	return out
}

// wrap splits cue text into at most two roughly-equal lines. Phrases of up
// to maxLineWords words stay on one line.
func wrap(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if len(words) <= maxLineWords {
		return []string{strings.Join(words, " ")}
	}
	mid := len(words) / 2
	return []string{
		strings.Join(words[:mid], " "),
		strings.Join(words[mid:], " "),
	}
}
