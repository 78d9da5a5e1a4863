package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vakkila/spiritlens/internal/game"
	"github.com/vakkila/spiritlens/internal/models"
	"github.com/vakkila/spiritlens/internal/suspects"
)

func init() {
	endingCmd.Flags().StringVar(&endingResult, "result", "", `explicit outcome, "success" or "escape"`)
}

var endingResult string

var suspectsCmd = &cobra.Command{
	Use:   "suspects",
	Short: "List the suspects",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		for _, s := range suspects.All() {
			fmt.Printf("%s: %s, %d, %s\n", s.ID, s.Name, s.Age, s.Occupation)
			fmt.Printf("  %s\n", s.Relation)
			fmt.Printf("  Alibi: %s\n", s.Alibi)
		}
		return nil
	},
}

var accuseCmd = &cobra.Command{
	Use:   "accuse <suspect-id> <reasoning...>",
	Short: "Accuse a suspect",
	Long: `Submits the accusation with your reasoning to the authority. A wrong
guess costs nothing but pride; the investigation continues.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err = a.resume(ctx); err != nil {
			return err
		}

		suspectID := args[0]
		if _, ok := suspects.ByID(suspectID); !ok {
			return fmt.Errorf("unknown suspect %q, see 'spiritlens suspects'", suspectID)
		}

		outcome, err := a.controller.Accuse(ctx, suspectID, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		fmt.Println(outcome.Message)
		if outcome.Correct {
			fmt.Println("\nThe case is closed. See 'spiritlens ending'.")
		}
		return nil
	},
}

var avatarCmd = &cobra.Command{
	Use:   "avatar <description...>",
	Short: "Render the spirit companion",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err = a.resume(ctx); err != nil {
			return err
		}

		url, err := a.controller.GenerateAvatar(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}
		fmt.Println(url)
		return nil
	},
}

var endingCmd = &cobra.Command{
	Use:   "ending",
	Short: "Show how the investigation ends",
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

		var signal game.EndingSignal
		switch endingResult {
		case "":
			signal = game.SignalNone
		case string(game.SignalSuccess):
			signal = game.SignalSuccess
		case string(game.SignalEscape):
			signal = game.SignalEscape
		default:
			return fmt.Errorf("unknown result %q, expected success or escape", endingResult)
		}

		switch game.SelectEnding(a.controller.State().Solved, signal) {
		case models.EndingResolved:
			fmt.Println("The spirit's story is complete and the culprit is named. Dawn breaks over the mansion.")
		case models.EndingEscaped:
			fmt.Println("You slip out before sunrise. The whispers follow you down the hill.")
		}
		return nil
	},
}
