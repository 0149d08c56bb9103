package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/abihf/rollcall/ledger"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the attendance records as CSV or an Excel sheet",
	Example: `  rollcall export > attendance.csv
  rollcall export -o attendance.xlsx`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := exportFormat
		if format == "" {
			format = string(ledger.FormatCSV)
			if ext := strings.TrimPrefix(filepath.Ext(exportOutput), "."); ext != "" {
				format = ext
			}
		}
		f, err := ledger.ParseFormat(format)
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if exportOutput != "" && exportOutput != "-" {
			file, err := os.Create(exportOutput)
			if err != nil {
				return errors.Wrap(err, "Can not create output file")
			}
			defer file.Close()
			w = file
		}

		return ledger.New(conf.Ledger, log).Export(cmd.Context(), w, f)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "csv or xlsx (default from --output extension, else csv)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default stdout)")
	rootCmd.AddCommand(exportCmd)
}
