// Package usecase composes probing, ranking, clip policy, and subtitle
// rebasing into the operations the orchestration layer calls. Downloading,
// encoding, and publishing stay outside: the inputs are a media path and a
// transcript, the outputs are clip descriptors and subtitle tracks.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/momentcut/momentcut/internal/config"
	"github.com/momentcut/momentcut/internal/domain/clips"
	"github.com/momentcut/momentcut/internal/domain/moments"
	"github.com/momentcut/momentcut/internal/domain/subtitles"
	"github.com/momentcut/momentcut/internal/ports"
	"github.com/momentcut/momentcut/internal/types"
)

type Deps struct {
	Prober   ports.MediaProber
	Analyzer ports.SignalAnalyzer
}

type Usecase struct {
	d   Deps
	cfg config.Config
	log zerolog.Logger
}

func New(d Deps, cfg config.Config, log zerolog.Logger) Usecase {
	return Usecase{d: d, cfg: cfg, log: log.With().Str("component", "usecase").Logger()}
}

// ProbeOrDefault reads container metadata. Probing failure is never fatal:
// it logs the cause and degrades to default assumptions so duration-based
// branching downstream stays deterministic.
func (u Usecase) ProbeOrDefault(ctx context.Context, path string) types.VideoInfo {
	info, err := u.d.Prober.Probe(ctx, path)
	if err != nil {
		u.log.Warn().Err(err).Str("input", path).Msg("probe failed, assuming defaults")
		return types.DefaultVideoInfo()
	}
	return info
}

// RankAndSegment turns the transcript and media signals into final clip
// windows. Videos at or under the short-video cutoff bypass the ranking
// machinery and yield exactly one clip around the best segment.
func (u Usecase) RankAndSegment(ctx context.Context, path string, transcript types.Transcript, info types.VideoInfo) []types.Clip {
	clipCfg := u.clipConfig()

	if info.Duration <= clipCfg.ShortVideoCutoff {
		cs := clips.ForShortVideo(clipCfg, transcript.Segments, info)
		u.log.Info().Float64("duration", info.Duration).Msg("short video, selected single best window")
		return cs
	}

	ranker := moments.NewRanker(u.rankerConfig(), u.d.Analyzer, u.log)
	ranked := ranker.Rank(ctx, path, transcript.Segments, info)
	cs := clips.FromMoments(clipCfg, ranked, info)

	u.log.Info().Int("moments", len(ranked)).Int("clips", len(cs)).Msg("ranked and segmented")
	return cs
}

// RebaseSubtitles produces the clip-local subtitle track for one clip.
func (u Usecase) RebaseSubtitles(clip types.Clip, transcript types.Transcript) []types.Cue {
	return subtitles.Rebase(clip, transcript.Segments)
}

type Input struct {
	Input      string
	Transcript types.Transcript
	OutDir     string
}

type Result struct {
	Manifest types.Manifest
	Clips    []types.Clip
}

// Run drives one full pass: probe, rank, segment, and write a per-clip ASS
// track under OutDir/subtitles. The media itself is untouched; cutting and
// burning subtitles belong to the external encoder.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	info := u.ProbeOrDefault(ctx, in.Input)

	cs := u.RankAndSegment(ctx, in.Input, in.Transcript, info)
	if len(cs) == 0 {
		// Policy synthesizes a fallback clip even for empty input, so this
		// only fires when the fallback itself was impossible.
		return Result{}, errors.New("no clips could be produced")
	}

	m := types.Manifest{Input: in.Input}
	for _, c := range cs {
		subRel := filepath.Join("subtitles", fmt.Sprintf("%03d.ass", c.Index))
		cues := subtitles.Rebase(c, in.Transcript.Segments)
		track := subtitles.RenderASS(cues)
		if err := writeFile(filepath.Join(in.OutDir, subRel), []byte(track)); err != nil {
			return Result{}, fmt.Errorf("write subtitles for clip %d: %w", c.Index, err)
		}

		m.Clips = append(m.Clips, types.ManifestClip{
			ID:        c.Identifier,
			Index:     c.Index,
			StartSec:  c.Start,
			EndSec:    c.End,
			Duration:  c.Duration,
			Score:     c.Score,
			Summary:   c.Summary,
			Subtitles: filepath.ToSlash(subRel),
		})
	}

	return Result{Manifest: m, Clips: cs}, nil
}

func (u Usecase) rankerConfig() moments.Config {
	r := u.cfg.Ranking
	policy := moments.MergeAdjacentPolicy
	if r.OverlapPolicy == "reject" {
		policy = moments.RejectLowerScorePolicy
	}
	return moments.Config{
		VisualCeiling:   r.VisualCeilingSec,
		VisualWindowCap: r.VisualWindowSec,
		MaxGap:          r.MergeGapSec,
		MinScore:        r.MinScore,
		TileWidth:       r.TileWidthSec,
		TopN:            r.TopCandidates,
		Workers:         r.Workers,
		AnalyzerTimeout: u.cfg.AnalyzerTimeout(),
		Policy:          policy,
	}
}

func (u Usecase) clipConfig() clips.Config {
	c := u.cfg.Clips
	return clips.Config{
		MinDuration:      c.MinDurationSec,
		MaxDuration:      c.MaxDurationSec,
		DiscardBelow:     c.DiscardBelowSec,
		MaxClips:         c.MaxClips,
		ShortVideoCutoff: c.ShortVideoCutoffSec,
		SummaryLimit:     100,
	}
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
