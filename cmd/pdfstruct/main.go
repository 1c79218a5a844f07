package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-structure/internal/config"
	"github.com/thywilljoshua/pdf-structure/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd(config.Load()).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd(cfg config.Config) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "pdfstruct",
		Short:         "Infer outlines and tables from PDF documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := logging.ParseLevel(cfg.LogLevel)
			if verbose {
				level = slog.LevelDebug
			}
			logging.SetLogger(logging.New(cmd.ErrOrStderr(), level))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(processCmd(cfg))
	root.AddCommand(inspectCmd(cfg))
	return root
}

func usesGemini(provider string) (bool, error) {
	switch strings.ToLower(provider) {
	case "", "off":
		return false, nil
	case "gemini":
		return true, nil
	default:
		return false, fmt.Errorf("unknown AI provider %q (want off or gemini)", provider)
	}
}
