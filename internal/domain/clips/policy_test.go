package clips

import (
	"strings"
	"testing"

	"github.com/momentcut/momentcut/internal/types"
)

func TestFromMoments_DurationBounds(t *testing.T) {
	cfg := DefaultConfig()
	info := types.VideoInfo{Duration: 600}

	ms := []types.Moment{
		{Start: 100, End: 104, Score: 90, Text: "short"},   // below floor, padded
		{Start: 200, End: 290, Score: 80, Text: "long"},    // above ceiling, truncated
		{Start: 400, End: 430, Score: 70, Text: "in range"},
	}

	got := FromMoments(cfg, ms, info)
	if len(got) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(got))
	}
	for _, c := range got {
		if c.Duration < cfg.DiscardBelow || c.Duration > cfg.MaxDuration {
			t.Fatalf("clip duration out of policy: %+v", c)
		}
		if c.Start < 0 || c.End > info.Duration {
			t.Fatalf("clip out of video bounds: %+v", c)
		}
		if c.Duration != c.End-c.Start {
			t.Fatalf("duration mismatch: %+v", c)
		}
	}

	if got[0].Duration != cfg.MinDuration {
		t.Fatalf("expected padded duration %v, got %v", cfg.MinDuration, got[0].Duration)
	}
	if got[1].Start != 200 || got[1].End != 260 {
		t.Fatalf("expected head-preserving truncation to [200,260], got [%v,%v]", got[1].Start, got[1].End)
	}
}

func TestFromMoments_ClampsToVideoEnd(t *testing.T) {
	info := types.VideoInfo{Duration: 100}
	got := FromMoments(DefaultConfig(), []types.Moment{{Start: 80, End: 120, Score: 10}}, info)
	if len(got) != 1 {
		t.Fatalf("expected 1 clip, got %d", len(got))
	}
	c := got[0]
	if c.End != 100 {
		t.Fatalf("expected end clamped to 100, got %v", c.End)
	}
	if c.Start != 100-c.Duration || c.Start < 0 {
		t.Fatalf("expected start re-derived from clamped end, got %+v", c)
	}
}

func TestFromMoments_CapsAtMaxClipsWithDenseNumbering(t *testing.T) {
	info := types.VideoInfo{Duration: 1000}
	var ms []types.Moment
	for i := 0; i < 8; i++ {
		s := float64(i * 100)
		ms = append(ms, types.Moment{Start: s, End: s + 30, Score: float64(100 - i)})
	}
	got := FromMoments(DefaultConfig(), ms, info)
	if len(got) != 5 {
		t.Fatalf("expected 5 clips, got %d", len(got))
	}
	for i, c := range got {
		if c.Index != i+1 {
			t.Fatalf("expected dense 1-based numbering, got index %d at position %d", c.Index, i)
		}
		if c.Identifier == "" {
			t.Fatalf("expected identifier on clip %d", c.Index)
		}
	}
}

func TestFromMoments_PadsWithinShortVideoBounds(t *testing.T) {
	info := types.VideoInfo{Duration: 8}
	// Window clamps to the whole 8s video, then pads against the same
	// bounds; only one real candidate survives.
	got := FromMoments(DefaultConfig(), []types.Moment{
		{Start: 0, End: 3, Score: 50, Text: "tiny"},
	}, info)
	if len(got) != 1 {
		t.Fatalf("expected 1 clip, got %d", len(got))
	}
	if got[0].Duration < DefaultConfig().DiscardBelow {
		t.Fatalf("clip below discard threshold: %+v", got[0])
	}
}

func assertNoClipOverlap(t *testing.T, cs []types.Clip) {
	t.Helper()
	for i := range cs {
		for j := i + 1; j < len(cs); j++ {
			a, b := cs[i], cs[j]
			if a.Start < b.End && a.End > b.Start {
				t.Fatalf("clips overlap: [%v,%v] and [%v,%v]", a.Start, a.End, b.Start, b.End)
			}
		}
	}
}

func TestFromMoments_PaddingNeverOverlapsNeighbor(t *testing.T) {
	// Two short moments that legitimately survive merging (gap > 2s) are
	// each padded toward the floor; the pads would collide without the
	// neighbor trim.
	got := FromMoments(DefaultConfig(), []types.Moment{
		{Start: 0, End: 10, Score: 90, Text: "first"},
		{Start: 13, End: 20, Score: 80, Text: "second"},
	}, types.VideoInfo{Duration: 600})

	if len(got) != 2 {
		t.Fatalf("expected both clips to survive, got %d: %+v", len(got), got)
	}
	assertNoClipOverlap(t, got)
	for _, c := range got {
		if c.Duration < DefaultConfig().DiscardBelow {
			t.Fatalf("trimmed clip below discard threshold: %+v", c)
		}
	}
	// The higher-scoring selection keeps its full padded window.
	if got[0].Start != 0 || got[0].End != 12.5 {
		t.Fatalf("expected first selection untouched at [0,12.5], got [%v,%v]", got[0].Start, got[0].End)
	}
}

func TestFromMoments_TightClusterStaysDisjoint(t *testing.T) {
	info := types.VideoInfo{Duration: 300}
	got := FromMoments(DefaultConfig(), []types.Moment{
		{Start: 20, End: 26, Score: 100},
		{Start: 30, End: 36, Score: 90},
		{Start: 40, End: 46, Score: 80},
		{Start: 50, End: 56, Score: 70},
	}, info)

	assertNoClipOverlap(t, got)
	for _, c := range got {
		if c.Start < 0 || c.End > info.Duration {
			t.Fatalf("clip out of bounds: %+v", c)
		}
	}
}

func TestFromMoments_FullyShadowedCandidateDiscarded(t *testing.T) {
	// The second moment's padded window lands entirely inside the first
	// selection, so nothing extractable remains of it.
	got := FromMoments(DefaultConfig(), []types.Moment{
		{Start: 100, End: 160, Score: 90},
		{Start: 130, End: 133, Score: 80},
	}, types.VideoInfo{Duration: 600})

	if len(got) != 1 {
		t.Fatalf("expected shadowed candidate dropped, got %d: %+v", len(got), got)
	}
	assertNoClipOverlap(t, got)
}

func TestFromMoments_EmptyInputSynthesizesFallback(t *testing.T) {
	info := types.VideoInfo{Duration: 200}
	got := FromMoments(DefaultConfig(), nil, info)
	if len(got) != 1 {
		t.Fatalf("expected fallback clip, got %d", len(got))
	}
	c := got[0]
	if c.Start != 0 || c.End != 30 || c.Score != fallbackScore {
		t.Fatalf("unexpected fallback clip: %+v", c)
	}
}

func TestFromMoments_FallbackOnShortUnrankedVideo(t *testing.T) {
	// All candidates discarded on a video too short to satisfy the minimum.
	info := types.VideoInfo{Duration: 4}
	got := FromMoments(DefaultConfig(), []types.Moment{{Start: 0, End: 1, Score: 10}}, info)
	if len(got) != 1 {
		t.Fatalf("expected fallback clip, got %d", len(got))
	}
	if got[0].End != 4 {
		t.Fatalf("expected fallback to span the whole video, got %+v", got[0])
	}
}

func TestForShortVideo_PadsBestSegment(t *testing.T) {
	info := types.VideoInfo{Duration: 45}
	segments := []types.Segment{
		{Start: 5, End: 7, Text: "just talking"},
		{Start: 20, End: 23, Text: "the secret trick to make 10k fast!"},
	}
	got := ForShortVideo(DefaultConfig(), segments, info)
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 clip, got %d", len(got))
	}
	c := got[0]
	if c.Duration < 10 {
		t.Fatalf("expected at least 10s clip, got %v", c.Duration)
	}
	if c.Start > 20 || c.End < 23 {
		t.Fatalf("expected clip to contain the best segment, got [%v,%v]", c.Start, c.End)
	}
	if c.Score != shortVideoScore {
		t.Fatalf("expected sentinel score, got %v", c.Score)
	}
}

func TestForShortVideo_NoTranscript(t *testing.T) {
	got := ForShortVideo(DefaultConfig(), nil, types.VideoInfo{Duration: 45})
	if len(got) != 1 {
		t.Fatalf("expected exactly 1 clip, got %d", len(got))
	}
	if got[0].Start != 0 || got[0].End != 15 {
		t.Fatalf("expected [0,15] head clip, got [%v,%v]", got[0].Start, got[0].End)
	}
}

func TestSummarize_Ellipsis(t *testing.T) {
	long := strings.Repeat("a", 150)
	got := summarize(long, 100)
	if len([]rune(got)) != 103 || !strings.HasSuffix(got, "...") {
		t.Fatalf("unexpected summary: %q (len %d)", got, len(got))
	}
	if summarize("short", 100) != "short" {
		t.Fatalf("short text must pass through unchanged")
	}
}
