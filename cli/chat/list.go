package chat

import (
	"time"

	"github.com/spf13/cobra"

	"termchat/internal/cli"
	"termchat/store"
)

// NewListCmd instantiates and returns the chat list command.
func NewListCmd(s *store.Store) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all chats",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			cli.Title("TERMCHAT CHAT LIST")

			chats, err := s.ListChats()
			cobra.CheckErr(err)
			for _, chat := range chats {
				cli.ChatOutput("(%d) %s\n", chat.ID, chat.Title)
				cli.TimeOutput("    updated %s\n", time.UnixMicro(chat.UpdateTimestamp).Format(time.RFC1123))
			}
		},
	}
}
