package ledger

import (
	"context"
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var header = []string{"Name", "Date", "Time"}

const sheetName = "Attendance"

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	}
	return "", errors.Errorf("unknown export format %q", s)
}

// Export writes every record to w. A missing ledger exports only the header.
func (l *Ledger) Export(ctx context.Context, w io.Writer, format Format) error {
	records, err := l.List(ctx)
	if err != nil && !errors.Is(err, ErrNotExist) {
		return err
	}

	switch format {
	case FormatCSV:
		return writeCSV(w, records)
	case FormatXLSX:
		return writeXLSX(w, records)
	}
	return errors.Errorf("unknown export format %q", format)
}

func writeCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "Can not write csv header")
	}
	for _, r := range records {
		if err := cw.Write([]string{r.Name, r.Date, r.Time}); err != nil {
			return errors.Wrap(err, "Can not write csv row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "Can not flush csv")
}

func writeXLSX(w io.Writer, records []Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return errors.Wrap(err, "Can not name sheet")
	}
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, header)
	for _, r := range records {
		rows = append(rows, []string{r.Name, r.Date, r.Time})
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "Can not address cell")
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "Can not write row %d", i+1)
		}
	}

	_, err := f.WriteTo(w)
	return errors.Wrap(err, "Can not write xlsx")
}
