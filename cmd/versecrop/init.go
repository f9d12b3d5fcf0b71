package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmansour/versecrop/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a commented starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
		return nil
	},
}
