package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"

	"github.com/momentcut/momentcut/internal/config"
	"github.com/momentcut/momentcut/internal/ports"
	"github.com/momentcut/momentcut/internal/ports/adapters/ffmpeg"
	"github.com/momentcut/momentcut/internal/types"
	"github.com/momentcut/momentcut/internal/usecase"
)

type Config struct {
	// Input is the already-downloaded media file. Fetching is the
	// orchestration layer's job.
	Input string
	// TranscriptPath points at the speech-to-text collaborator's JSON output
	// ({text, segments}). Empty means no transcript: signal-only ranking.
	TranscriptPath string
	OutDir         string
	// ConfigPath optionally points at a YAML tunables file.
	ConfigPath string

	Log zerolog.Logger
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.TranscriptPath != "" {
		if _, err := os.Stat(c.TranscriptPath); err != nil {
			return fmt.Errorf("stat transcript: %w", err)
		}
	}
	return nil
}

// Run executes one full selection pass and writes the run's artifacts
// (per-clip subtitle tracks plus manifest.json) under a fresh run directory.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log

	appCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		return err
	}

	tr, err := loadTranscript(cfg.TranscriptPath)
	if err != nil {
		return err
	}
	log.Info().Int("segments", len(tr.Segments)).Str("input", cfg.Input).Msg("transcript loaded")

	adapter := ffmpeg.New(appCfg.FFmpegPath, appCfg.FFprobePath, log)
	uc := usecase.New(usecase.Deps{Prober: adapter, Analyzer: adapter}, appCfg, log)

	outDir := cfg.OutDir
	if outDir == "" {
		outDir = "out"
	}
	runOutDir := buildRunOutDir(outDir, cfg.Input, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return err
	}
	log.Info().Str("dir", runOutDir).Msg("run directory prepared")

	res, err := uc.Run(ctx, usecase.Input{
		Input:      cfg.Input,
		Transcript: tr,
		OutDir:     runOutDir,
	})
	if err != nil {
		return err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return err
	}
	log.Info().Int("clips", len(res.Manifest.Clips)).Str("manifest", manifestPath).Msg("manifest written")
	return nil
}

func loadTranscript(path string) (types.Transcript, error) {
	if path == "" {
		return types.Transcript{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	var tr types.Transcript
	if err := json.Unmarshal(b, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("parse transcript: %w", err)
	}
	return tr, nil
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "input"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure the adapter implements the ports
var _ ports.MediaProber = (*ffmpeg.Adapter)(nil)
var _ ports.SignalAnalyzer = (*ffmpeg.Adapter)(nil)
