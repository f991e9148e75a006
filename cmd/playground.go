package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/pastille/internal/app"
	"github.com/zjrosen/pastille/internal/mode"
)

var playgroundCmd = &cobra.Command{
	Use:   "playground",
	Short: "Interactive showcase of token field configurations",
	Long:  `Launch an interactive playground demonstrating mention completion, chip styling, quote handling, and the theme tokens.`,
	RunE:  runPlayground,
}

func init() {
	rootCmd.AddCommand(playgroundCmd)
}

func runPlayground(cmd *cobra.Command, args []string) error {
	services, cleanup, err := buildServices()
	if err != nil {
		return err
	}
	defer cleanup()

	model := app.New(services, mode.ModePlayground, debugEnabled())
	p := tea.NewProgram(
		&model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	_, err = p.Run()

	if closeErr := model.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		return fmt.Errorf("running playground: %w", err)
	}
	return nil
}
