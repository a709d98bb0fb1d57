// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run a single poll cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newServices(cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		summary, err := svc.cycle.Run(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fetched %d, published %d, already seen %d\n",
			summary.Fetched, summary.Published, summary.Seen+summary.Duplicates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pollCmd)
}
