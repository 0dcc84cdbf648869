package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/momentcut/momentcut/internal/config"
	"github.com/momentcut/momentcut/internal/logging"
	"github.com/momentcut/momentcut/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	outDir, _ := cmd.Flags().GetString("out")
	transcriptPath, _ := cmd.Flags().GetString("transcript")
	configPath, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	strategy, _ := cmd.Flags().GetString("strategy")

	logging.Init(verbose)

	if strategy != "" {
		// The hidden flag rides on the same env override the config reads.
		if err := os.Setenv(config.EnvOverlapPolicy, strategy); err != nil {
			return err
		}
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Input:          absIn,
		TranscriptPath: transcriptPath,
		OutDir:         outDir,
		ConfigPath:     configPath,
		Log:            logging.New(),
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return pipeline.Run(ctx, cfg)
}
