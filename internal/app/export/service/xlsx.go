package export_service

import (
	"io"

	"github.com/init-pkg/sheet-relay/domain/rows"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Sheet1"

func writeXLSX(w io.Writer, header []string, data []rows.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return err
	}

	head := make([]any, len(header))
	for i, h := range header {
		head[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", head); err != nil {
		return err
	}

	for i, r := range data {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]any, len(r))
		for j, c := range r {
			values[j] = c
		}
		if err := sw.SetRow(axis, values); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
