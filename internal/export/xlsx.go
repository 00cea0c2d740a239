// Package export moves register contents in and out of spreadsheet files.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"Girder/internal/register"
)

const loadsSheet = "Loads"

// WriteXLSX renders the register as a one-sheet workbook mirroring the CSV
// layout, plus a summary row block.
func WriteXLSX(r *register.Register) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(loadsSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	header := []interface{}{"Type", "Value", "Distance/Start (m)", "End (m)", "Angle (deg)", "Moment (kN·m)"}
	if err := f.SetSheetRow(loadsSheet, "A1", &header); err != nil {
		return nil, err
	}

	row := 2
	for _, l := range r.Loads() {
		var cells []interface{}
		switch l.Kind {
		case register.KindPoint:
			cells = []interface{}{"point", l.MagnitudeKN, l.DistanceM, nil, l.AngleDeg, l.MomentKNM}
		case register.KindDistributed:
			cells = []interface{}{"distributed", l.IntensityKNM, l.StartM, l.EndM, nil, l.EquivMomentKNM}
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(loadsSheet, cell, &cells); err != nil {
			return nil, err
		}
		row++
	}

	row++
	totals := []interface{}{"Total moment (kN·m)", r.TotalMoment()}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(loadsSheet, cell, &totals); err != nil {
		return nil, err
	}
	forces := []interface{}{"Total force (kN)", r.TotalForce()}
	cell, err = excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(loadsSheet, cell, &forces); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ImportResult reports how an imported sheet was absorbed.
type ImportResult struct {
	Added   int             `json:"added"`
	Skipped int             `json:"skipped"`
	Loads   []register.Load `json:"loads"`
}

// ReadXLSX parses load rows from the first sheet of a workbook and appends
// them to the register. Row layout matches WriteXLSX: type, value,
// distance-or-start, end, angle. Malformed rows are skipped, not fatal.
func ReadXLSX(src io.Reader, r *register.Register) (ImportResult, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return ImportResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return ImportResult{}, err
	}
	if len(rows) < 2 {
		return ImportResult{}, fmt.Errorf("empty sheet")
	}

	var res ImportResult
	for i := 1; i < len(rows); i++ {
		l, err := parseRow(rows[i], r)
		if err != nil {
			res.Skipped++
			continue
		}
		res.Added++
		res.Loads = append(res.Loads, l)
	}
	return res, nil
}

func parseRow(row []string, r *register.Register) (register.Load, error) {
	if len(row) < 3 {
		return register.Load{}, fmt.Errorf("short row")
	}
	kind := row[0]
	value, err := toFloat(row[1])
	if err != nil {
		return register.Load{}, err
	}
	switch kind {
	case "point":
		distance, err := toFloat(row[2])
		if err != nil {
			return register.Load{}, err
		}
		angle := 90.0
		if len(row) > 4 && row[4] != "" {
			angle, err = toFloat(row[4])
			if err != nil {
				return register.Load{}, err
			}
		}
		return r.AddPointLoad(value, distance, angle)
	case "distributed":
		start, err := toFloat(row[2])
		if err != nil {
			return register.Load{}, err
		}
		if len(row) < 4 || row[3] == "" {
			return register.Load{}, fmt.Errorf("distributed row without end")
		}
		end, err := toFloat(row[3])
		if err != nil {
			return register.Load{}, err
		}
		return r.AddDistributedLoad(value, start, end)
	}
	return register.Load{}, fmt.Errorf("unknown load type %q", kind)
}

func toFloat(s string) (float64, error) {
	var v float64
	_, err := fmt.Sscanf(s, "%f", &v)
	return v, err
}
