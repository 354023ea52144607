package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/waterfall/internal/cli"
	"github.com/aretw0/waterfall/pkg/domain"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask QUESTION",
	Short: "Query the knowledge base once and print the ranked answers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		kb, err := cli.LoadKnowledgeBase(cfg.KnowledgeBaseFile)
		if err != nil {
			return err
		}
		top, _ := cmd.Flags().GetInt("top")
		threshold, _ := cmd.Flags().GetFloat64("threshold")

		results, err := kb.Query(cmd.Context(), strings.Join(args, " "), domain.QueryOptions{
			Top:            top,
			ScoreThreshold: threshold,
		})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(results) == 0 {
			fmt.Fprintln(out, "no match")
			return nil
		}
		for _, r := range results {
			fmt.Fprintf(out, "%3d  %.2f  %s\n", r.ID, r.Score, r.Answer)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().Int("top", 3, "Maximum number of answers")
	askCmd.Flags().Float64("threshold", 0.3, "Minimum score, between 0 and 1")
}
