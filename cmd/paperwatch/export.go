// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the publication history and send it to the channel",
	Long: `Export writes every recorded article to scopus_pub.csv in the data
directory and sends it to the configured channel as a document. With
--no-send the file is only written. --format yaml writes scopus_pub.yaml
instead, which is never sent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		noSend, _ := cmd.Flags().GetBool("no-send")
		format, _ := cmd.Flags().GetString("format")

		svc, err := newServices(cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		switch format {
		case "csv":
			if !noSend {
				if err := svc.exporter.Run(ctx); err != nil {
					return err
				}
				fmt.Fprintf(out, "sent %s\n", svc.exporter.Path())
				return nil
			}
			n, err := svc.exporter.Write(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %d articles to %s\n", n, svc.exporter.Path())
		case "yaml":
			path := yamlExportPath(cfg)
			if err := svc.exporter.WriteYAML(ctx, path); err != nil {
				return err
			}
			fmt.Fprintf(out, "wrote %s\n", path)
		default:
			return fmt.Errorf("unknown format %q (want csv or yaml)", format)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().Bool("no-send", false, "write the file without sending it")
	exportCmd.Flags().String("format", "csv", "output format: csv or yaml")

	rootCmd.AddCommand(exportCmd)
}
