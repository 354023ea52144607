package main

import (
	"io"
	"os"

	"github.com/aretw0/waterfall/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation (default)",
	Long:  `Starts a conversation on stdin/stdout. Type "exit" or "quit" to leave.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		jsonMode, _ := cmd.Flags().GetBool("json")
		conversationID, _ := cmd.Flags().GetString("conversation")

		app, err := cli.NewApp(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		return cli.RunChat(cmd.Context(), app, cli.ChatOptions{
			In:             cmd.InOrStdin(),
			Out:            out,
			JSON:           jsonMode,
			Pretty:         isTerminal(out),
			ConversationID: conversationID,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().Bool("json", false, "Run in JSON mode (NDJSON input/output)")
	chatCmd.Flags().String("conversation", "", "Conversation id (default: random)")

	// 'chat' is the default if no command is provided.
	rootCmd.Flags().AddFlagSet(chatCmd.Flags())
	rootCmd.RunE = chatCmd.RunE
}

// isTerminal reports whether w is a terminal; piped output stays plain.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
