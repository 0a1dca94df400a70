// Command gemini-shell hosts the Gemini web app behind a local rendering
// surface and bridges its auth commands to Google sign-in.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"gemini-shell/internal/app"
	"gemini-shell/internal/config"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("[gemini-shell] %v", err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gemini-shell",
		Short: "Host the Gemini web app with a native auth bridge",
		Long: `gemini-shell serves the Gemini web app from one of three content
origins (remote, bundled offline assets, or a local development server) and
bridges the page's auth commands to Google sign-in over the /bridge channel.

Configuration comes from GEMINI_SHELL_* environment variables; flags
override them.`,
		RunE: runShell,
	}

	cmd.Flags().String("addr", "", "listen address (default 127.0.0.1:8397)")
	cmd.Flags().String("mode", "", "content origin: remote, bundled, or dev")
	cmd.Flags().String("remote-url", "", "production web app URL")
	cmd.Flags().String("dev-url", "", "local development server URL")
	cmd.Flags().String("assets-dir", "", "bundled asset tree root")
	cmd.Flags().String("missing-root-policy", "", "bundled mode without a root document: error-screen or fallback")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the shell version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func runShell(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)

	shell, err := app.New(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return shell.Run(ctx)
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	override := func(name string, target *string) {
		if cmd.Flags().Changed(name) {
			value, err := cmd.Flags().GetString(name)
			if err == nil {
				*target = value
			}
		}
	}

	override("addr", &cfg.Addr)
	override("mode", &cfg.Mode)
	override("remote-url", &cfg.RemoteURL)
	override("dev-url", &cfg.DevURL)
	override("assets-dir", &cfg.AssetsDir)
	override("missing-root-policy", &cfg.MissingRootPolicy)
}
