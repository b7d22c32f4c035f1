package chat

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"termchat/internal/configuration"
	"termchat/internal/llm"
	"termchat/internal/search"
	"termchat/session"
	"termchat/store"
)

// NewCmd instantiates and returns the chat command, the interactive TUI.
func NewCmd(config *configuration.Config, s *store.Store) *cobra.Command {
	var opts struct {
		Model  string
		ChatID int64
	}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the interactive chat",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Model != "" {
				config.Model = opts.Model
			}

			client, err := llm.NewClient(config)
			if err != nil {
				return errors.Wrap(err, "creating backend client")
			}

			sess := session.New(s, client, search.NewDuckDuckGo(), config.Model, config.Search.MaxResults)
			if opts.ChatID != 0 {
				if _, err := sess.LoadChat(opts.ChatID); err != nil {
					return errors.Wrap(err, "loading chat")
				}
			}

			m := NewModel(cmd.Context(), config, s, sess)
			program := tea.NewProgram(m, tea.WithAltScreen())
			_, err = program.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "override the configured model")
	cmd.Flags().Int64VarP(&opts.ChatID, "chat", "c", 0, "resume the chat with this id")
	return cmd
}
