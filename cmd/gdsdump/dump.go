package main

import (
	"github.com/danmuck/gdsstream/internal/report"
	"github.com/spf13/cobra"
)

var dumpFormat string

var dumpCmd = &cobra.Command{
	Use:   "dump FILE|-",
	Short: "Decode a stream and print every event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := settings.Output.Format
		if cmd.Flags().Changed("format") {
			format = dumpFormat
		}
		printer, err := report.NewPrinter(format, cmd.OutOrStdout())
		if err != nil {
			return err
		}

		_, decodeErr := newDecoder().DecodeFile(cmd.Context(), args[0], printer)
		if err := printer.Flush(); err != nil && decodeErr == nil {
			return err
		}
		return decodeErr
	},
}

func init() {
	dumpCmd.Flags().StringVar(&dumpFormat, "format", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(dumpCmd)
}
