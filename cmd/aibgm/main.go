package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aibgm/aibgm/internal/config"
	"github.com/aibgm/aibgm/internal/logger"
	"github.com/spf13/cobra"
)

func main() {
	root := buildRoot()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// PlayFlags holds flags for the play command
type PlayFlags struct {
	Count  int
	Daemon bool
}

// StopFlags holds flags for the stop command
type StopFlags struct {
	Timeout time.Duration
}

// StatusFlags holds flags for the status command
type StatusFlags struct {
	History int
}

// buildRoot creates the root command and wires all subcommands
func buildRoot() *cobra.Command {
	playFlags := &PlayFlags{}
	stopFlags := &StopFlags{}
	statusFlags := &StatusFlags{}

	bgm := command{}

	root := createRootCommand()
	root.AddCommand(
		createPlayCommand(bgm, playFlags),
		createStopCommand(bgm, stopFlags),
		createStatusCommand(bgm, statusFlags),
		createToggleCommand(bgm, stopFlags),
		createEnableCommand(bgm),
		createDisableCommand(bgm),
		createSelectCommand(bgm),
	)
	return root
}

func createRootCommand() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:   "aibgm",
		Short: "Background music player for long-running work sessions",
		Long: `Aibgm plays short background tracks through a single detached
player process. Starting while a player is already running is a no-op,
as is stopping when nothing runs.

Examples:
  aibgm play work
  aibgm play end --count=3
  aibgm stop
  aibgm status --history=5
  aibgm select lofi`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger.SetupInteractive(cmd.ErrOrStderr(), level)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	return root
}

func createPlayCommand(bgm command, playFlags *PlayFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [category]",
		Short: "Start background playback",
		Long: `Start the detached player for a category (work, end or
notification; defaults to work). If a player is already running the
command succeeds without starting another one.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := config.CategoryWork
			if len(args) == 1 {
				category = args[0]
			}
			if !config.ValidCategory(category) {
				return fmt.Errorf("unknown category %q", category)
			}
			if playFlags.Daemon {
				return bgm.RunDaemon(category, playFlags.Count)
			}
			return bgm.Play(cmd.OutOrStdout(), category, playFlags.Count)
		},
	}
	cmd.Flags().IntVar(&playFlags.Count, "count", 1, "number of tracks to play (-1 for endless)")
	cmd.Flags().BoolVar(&playFlags.Daemon, "daemon", false, "")
	// Internal re-exec flag for the detached child.
	_ = cmd.Flags().MarkHidden("daemon")
	return cmd
}

func createStopCommand(bgm command, stopFlags *StopFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop background playback",
		Long: `Stop the running player. Succeeds when nothing is running;
fails only when a live player could not be terminated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bgm.Stop(cmd.OutOrStdout(), stopFlags.Timeout)
		},
	}
	cmd.Flags().DurationVar(&stopFlags.Timeout, "timeout", 5*time.Second, "how long to wait for graceful exit")
	return cmd
}

func createStatusCommand(bgm command, statusFlags *StatusFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show player state and current selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bgm.Status(cmd.OutOrStdout(), statusFlags.History)
		},
	}
	cmd.Flags().IntVar(&statusFlags.History, "history", 0, "also show the N most recent playback events")
	return cmd
}

func createToggleCommand(bgm command, stopFlags *StopFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle",
		Short: "Toggle playback",
		Long: `Stop the player when music is playing; otherwise start endless
work music.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return bgm.Toggle(cmd.OutOrStdout(), stopFlags.Timeout)
		},
	}
}

func createEnableCommand(bgm command) *cobra.Command {
	return &cobra.Command{
		Use:   "enable",
		Short: "Allow playback",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bgm.SetEnabled(cmd.OutOrStdout(), true)
		},
	}
}

func createDisableCommand(bgm command) *cobra.Command {
	return &cobra.Command{
		Use:   "disable",
		Short: "Forbid new playback (a running player keeps playing)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return bgm.SetEnabled(cmd.OutOrStdout(), false)
		},
	}
}

func createSelectCommand(bgm command) *cobra.Command {
	return &cobra.Command{
		Use:   "select <name>",
		Short: "Choose the active track selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return bgm.Select(cmd.OutOrStdout(), args[0])
		},
	}
}
