package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/gdsstream/internal/source"
	"github.com/danmuck/gdsstream/internal/stream/frame"
	"github.com/danmuck/gdsstream/internal/stream/record"
	"github.com/spf13/cobra"
)

var recordsCmd = &cobra.Command{
	Use:   "records FILE|-",
	Short: "List raw records without decoding payloads",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := source.Open(args[0])
		if err != nil {
			return err
		}
		defer src.Close()

		out := bufio.NewWriter(cmd.OutOrStdout())
		err = listRecords(cmd, src, out)
		if ferr := out.Flush(); err == nil {
			err = ferr
		}
		return err
	},
}

func listRecords(cmd *cobra.Command, r io.Reader, out io.Writer) error {
	fr := frame.NewReader(r, frame.Limits{MaxRecordBytes: settings.Decode.MaxRecordBytes})
	fmt.Fprintf(out, "%10s %6s %-13s %-12s %7s %s\n", "OFFSET", "LENGTH", "RECORD", "DATA", "PAYLOAD", "DECODED")
	for {
		if err := cmd.Context().Err(); err != nil {
			return err
		}
		rec, err := fr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		decoded := "no"
		if spec, ok := record.Lookup(rec.Type); ok && spec.Emitting() {
			decoded = "yes"
		}
		fmt.Fprintf(out, "%10d %6d %-13s %-12s %7d %s\n",
			rec.Offset, rec.Length, rec.Type, rec.DataType, len(rec.Payload), decoded)
	}
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}
