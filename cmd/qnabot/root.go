package main

import (
	"context"
	"fmt"
	"os"

	"github.com/aretw0/waterfall/internal/cli"
	"github.com/aretw0/waterfall/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "qnabot",
	Short: "qnabot answers questions from a knowledge base",
	Long: `qnabot is a console chat bot. It answers questions from a YAML knowledge base,
offers "Did you mean" suggestions for close matches, follows multi-turn prompts
and hands complaints over to a dedicated dialog.

Settings come from flags, QNABOT_* environment variables and an optional
qnabot.yaml file, in that order of precedence.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx := cli.NewSignalContext(context.Background())
	defer ctx.Cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves the configuration for cmd, including its flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, cmd.Flags())
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./qnabot.yaml if present)")
	flags.String(config.KeyKnowledgeBaseFile, "", "YAML knowledge base (default: built-in sample)")
	flags.String(config.KeyKnowledgeBaseID, "", "Knowledge base id reported in traces")
	flags.String(config.KeyDefaultAnswer, "", "Answer used when nothing matches")
	flags.Bool(config.KeyOverrideMultiTurn, false, "Enable the complaint hand-over step")
	flags.Bool(config.KeyOverrideDisplay, false, "Enable the source card display step")
	flags.Bool(config.KeyTraces, false, "Show trace activities")
	flags.String(config.KeyLogLevel, "info", "Log level (debug, info, warn, error)")
	flags.String(config.KeyLogFormat, "text", "Log format (text, json)")
	flags.String(config.KeyMetricsAddr, "", "Serve Prometheus metrics on this address, e.g. :9090")
	flags.Int(config.KeyMaxInputSize, config.DefaultMaxInputSize, "Maximum size of one input line, in bytes")
}
