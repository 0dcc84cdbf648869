// Package config holds the tunables for scoring and clip policy. Values come
// from defaults, an optional YAML file, then environment overrides, in that
// order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvOverlapPolicy   = "MOMENTCUT_OVERLAP_POLICY"
	EnvVisualCeiling   = "MOMENTCUT_VISUAL_CEILING_SEC"
	EnvAnalyzerTimeout = "MOMENTCUT_ANALYZER_TIMEOUT_SEC"
	EnvFFmpegPath      = "MOMENTCUT_FFMPEG"
	EnvFFprobePath     = "MOMENTCUT_FFPROBE"
)

type Config struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	Ranking RankingConfig `yaml:"ranking"`
	Clips   ClipsConfig   `yaml:"clips"`
}

type RankingConfig struct {
	// OverlapPolicy is "merge" or "reject".
	OverlapPolicy      string  `yaml:"overlap_policy"`
	VisualCeilingSec   float64 `yaml:"visual_ceiling_sec"`
	VisualWindowSec    float64 `yaml:"visual_window_sec"`
	MergeGapSec        float64 `yaml:"merge_gap_sec"`
	MinScore           float64 `yaml:"min_score"`
	TileWidthSec       float64 `yaml:"tile_width_sec"`
	TopCandidates      int     `yaml:"top_candidates"`
	Workers            int     `yaml:"workers"`
	AnalyzerTimeoutSec int     `yaml:"analyzer_timeout_sec"`
}

type ClipsConfig struct {
	MinDurationSec      float64 `yaml:"min_duration_sec"`
	MaxDurationSec      float64 `yaml:"max_duration_sec"`
	DiscardBelowSec     float64 `yaml:"discard_below_sec"`
	MaxClips            int     `yaml:"max_clips"`
	ShortVideoCutoffSec float64 `yaml:"short_video_cutoff_sec"`
}

func Default() Config {
	return Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		Ranking: RankingConfig{
			OverlapPolicy:      "merge",
			VisualCeilingSec:   300,
			VisualWindowSec:    5,
			MergeGapSec:        2,
			MinScore:           20,
			TileWidthSec:       30,
			TopCandidates:      10,
			Workers:            4,
			AnalyzerTimeoutSec: 30,
		},
		Clips: ClipsConfig{
			MinDurationSec:      15,
			MaxDurationSec:      60,
			DiscardBelowSec:     5,
			MaxClips:            5,
			ShortVideoCutoffSec: 60,
		},
	}
}

// Load builds the config: defaults, then the YAML file at path when path is
// non-empty, then environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvOverlapPolicy); v != "" {
		cfg.Ranking.OverlapPolicy = v
	}
	if v := os.Getenv(EnvVisualCeiling); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Ranking.VisualCeilingSec = f
		}
	}
	if v := os.Getenv(EnvAnalyzerTimeout); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Ranking.AnalyzerTimeoutSec = n
		}
	}
	if v := os.Getenv(EnvFFmpegPath); v != "" {
		cfg.FFmpegPath = v
	}
	if v := os.Getenv(EnvFFprobePath); v != "" {
		cfg.FFprobePath = v
	}
}

func (c Config) Validate() error {
	if c.Ranking.OverlapPolicy != "merge" && c.Ranking.OverlapPolicy != "reject" {
		return fmt.Errorf("overlap policy must be merge or reject, got %q", c.Ranking.OverlapPolicy)
	}
	if c.Clips.MinDurationSec <= 0 || c.Clips.MaxDurationSec <= 0 {
		return fmt.Errorf("clip duration bounds must be positive")
	}
	if c.Clips.MinDurationSec > c.Clips.MaxDurationSec {
		return fmt.Errorf("min clip duration must be <= max clip duration")
	}
	if c.Clips.MaxClips <= 0 {
		return fmt.Errorf("max clips must be > 0")
	}
	if c.Ranking.AnalyzerTimeoutSec <= 0 {
		return fmt.Errorf("analyzer timeout must be > 0")
	}
	return nil
}

func (c Config) AnalyzerTimeout() time.Duration {
	return time.Duration(c.Ranking.AnalyzerTimeoutSec) * time.Second
}
