package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	startCmd.Flags().StringVar(&startPlayer, "player", "", "player name, defaults to SPIRITLENS_PLAYER_NAME")
	startCmd.Flags().StringVar(&startGhost, "ghost", "", "free-text description of the spirit companion")
}

var (
	startPlayer string
	startGhost  string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new investigation",
	Long: `Starts a new investigation at the authority and makes it the active
session for this database. Any previous session is abandoned.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		player := startPlayer
		if player == "" {
			player = a.cfg.PlayerName
		}

		state, err := a.controller.CreateSession(ctx, player, startGhost)
		if err != nil {
			return err
		}

		fmt.Printf("Investigation started for %s.\n", state.PlayerName)
		fmt.Printf("Session %s is now active. Photograph evidence with 'spiritlens turn <image>'.\n", state.SessionID)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the active investigation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err = a.resume(ctx); err != nil {
			return err
		}

		state := a.controller.State()
		fmt.Printf("Session:  %s\n", state.SessionID)
		fmt.Printf("Player:   %s\n", state.PlayerName)
		fmt.Printf("Clues:    %d collected\n", len(state.Clues))
		if state.AvatarURL != "" {
			fmt.Printf("Spirit:   %s\n", state.AvatarURL)
		}
		if state.Solved {
			fmt.Println("The mystery is solved. See 'spiritlens ending'.")
		} else {
			fmt.Println("The mystery remains open.")
		}
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Abandon the active investigation",
	Long: `Clears the stored session and all collected clues. The next
'spiritlens start' begins from scratch.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err = a.controller.ResetSession(ctx); err != nil {
			return err
		}
		fmt.Println("Investigation abandoned.")
		return nil
	},
}
