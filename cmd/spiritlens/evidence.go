package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vakkila/spiritlens/internal/errors"
)

var turnCmd = &cobra.Command{
	Use:   "turn <image-file>",
	Short: "Submit a photograph as one investigation turn",
	Long: `Uploads the image to the authority for adjudication. A recognized
object clears its clue and adds the spirit's story to the ledger; an
unrecognized photo still consumes the turn.`,
	Args: cobra.ExactArgs(1),
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

		path := args[0]
		verdict, err := a.controller.SubmitTurn(ctx, func(context.Context) ([]byte, error) {
			image, readErr := os.ReadFile(path)
			if readErr != nil {
				return nil, errors.Wrap(readErr, "read image file")
			}
			return image, nil
		})
		if err != nil {
			return err
		}

		if verdict.DetectedKey == "" {
			fmt.Println(verdict.Message)
			return nil
		}

		fmt.Println(verdict.Message)
		fmt.Printf("\nChapter %d: %s\n", verdict.DetectedChapter, verdict.Story)
		if verdict.GhostMessage != "" {
			fmt.Printf("\n%s\n", verdict.GhostMessage)
		}
		if verdict.Solved {
			fmt.Println("\nEvery clue is accounted for. Name the culprit with 'spiritlens accuse'.")
		}
		return nil
	},
}

var cluesCmd = &cobra.Command{
	Use:   "clues",
	Short: "List the collected clues in story order",
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

		clues := a.controller.State().Clues
		if len(clues) == 0 {
			fmt.Println("No clues yet. Photograph evidence with 'spiritlens turn <image>'.")
			return nil
		}
		for _, clue := range clues {
			fmt.Printf("Chapter %d (%s)\n  %s\n", clue.Chapter, clue.Key, clue.Story)
		}
		return nil
	},
}
