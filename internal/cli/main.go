package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "momentcut <input>",
		Short:        "Select highlight windows from a local video and its transcript",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().String("out", "out", "Output directory")
	root.Flags().String("transcript", "", "Transcript JSON path (whisper-style {text, segments})")
	root.Flags().String("config", "", "YAML config with scoring/policy tunables")
	root.Flags().BoolP("verbose", "v", false, "Debug logging")

	// Hidden tuning flag (internal)
	root.Flags().String("strategy", "", "Overlap strategy: merge or reject")
	_ = root.Flags().MarkHidden("strategy")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
