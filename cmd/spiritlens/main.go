// Command spiritlens is the terminal client for a Spiritlens investigation.
// It keeps one active session per database file, submits photographed
// evidence to the game authority and tracks the collected clues locally so a
// relaunch resumes where the player left off.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vakkila/spiritlens/internal/logging"
)

func init() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "log at debug level")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(turnCmd)
	rootCmd.AddCommand(cluesCmd)
	rootCmd.AddCommand(suspectsCmd)
	rootCmd.AddCommand(accuseCmd)
	rootCmd.AddCommand(avatarCmd)
	rootCmd.AddCommand(endingCmd)
	rootCmd.AddCommand(resetCmd)
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "spiritlens",
	Short:         "Photograph evidence, listen to the spirit, name the culprit",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := logging.NewContextHandler(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	return slog.New(handler)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
