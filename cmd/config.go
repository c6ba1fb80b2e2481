package cmd

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/iburimskiy/constellation/internal/config"
	"github.com/iburimskiy/constellation/internal/ui"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the config file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Write the default config if none exists",
			RunE: func(cmd *cobra.Command, args []string) error {
				created, err := config.EnsureExists()
				if err != nil {
					return err
				}
				if created {
					fmt.Printf("  %s created %s\n", ui.StatusIcon(true), config.Path())
				} else {
					fmt.Printf("  %s %s already exists\n", ui.Subtle.Sprint("·"), config.Path())
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Println(config.Path())
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective config",
			RunE: func(cmd *cobra.Command, args []string) error {
				ui.Banner("effective config")
				ui.KeyValue("path", config.Path())
				fmt.Println()
				return toml.NewEncoder(os.Stdout).Encode(cfg)
			},
		},
	)

	return cmd
}
