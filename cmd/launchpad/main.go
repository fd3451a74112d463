package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/justyntemme/launchpad/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "launchpad",
		Short: "Full-screen application launcher",
		Long: `Launchpad shows installed applications as a paged grid of icons.

Drag icons to reorder them, drop one onto another to make a folder and
right-click to add favorites. Without a subcommand the launcher window
opens.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
		},
		Run: func(cmd *cobra.Command, args []string) {
			app.Main(debug)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable verbose debug logging")

	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newOrderCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}
