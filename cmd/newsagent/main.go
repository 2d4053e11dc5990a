package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"newsagent/config"
	srv "newsagent/internal/server"
)

func main() {
	var root = &cobra.Command{Use: "newsagent"}

	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run the news agent and its control API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return srv.Run(cfg)
		},
	}
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file path")

	root.AddCommand(serve)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
