package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nixie-Tech-LLC/namaz/internal/config"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=v1.0.0"
var version = "dev"

func newRootCmd() *cobra.Command {
	var envFile string
	var cfg *config.Config

	root := &cobra.Command{
		Use:     "namaz",
		Short:   "Daily prayer tracker server",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var files []string
			if envFile != "" {
				files = append(files, envFile)
			}
			loaded, err := config.Load(files...)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			setupLogging(cfg)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: .env)")

	root.AddCommand(newServeCmd(func() *config.Config { return cfg }))
	root.AddCommand(newMigrateCmd(func() *config.Config { return cfg }))
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
