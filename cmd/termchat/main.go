package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"termchat/cli/chat"
	"termchat/internal/configuration"
	"termchat/store"
)

const configFilepath = "~/.config/termchat/config.json"

var rootCmd = &cobra.Command{
	Use:     "termchat",
	Short:   "A terminal UI for chatting with local language models",
	Version: "1.0",
}

func main() {
	config, err := configuration.Parse(configFilepath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termchat: parsing configuration: %v\n", err)
		os.Exit(1)
	}

	// A store that cannot even be opened is the one fatal startup error.
	s, err := store.New(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termchat: opening chat store at %s: %v\n", config.Database, err)
		os.Exit(1)
	}
	defer s.Close()

	chatCmd := chat.NewCmd(config, s)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(chat.NewListCmd(s))

	// Bare invocation opens the chat TUI.
	rootCmd.RunE = chatCmd.RunE

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
