package register

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
)

// WriteCSV renders the register in the dashboard's export layout: one row
// per entry, point and distributed loads sharing a column set.
func (r *Register) WriteCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"type", "value", "distance_or_start_m", "end_m", "angle_deg", "moment_knm"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, l := range r.loads {
		var row []string
		switch l.Kind {
		case KindPoint:
			row = []string{
				"point",
				ftoa(l.MagnitudeKN),
				ftoa(l.DistanceM),
				"",
				ftoa(l.AngleDeg),
				ftoa(l.MomentKNM),
			}
		case KindDistributed:
			row = []string{
				"distributed",
				ftoa(l.IntensityKNM),
				ftoa(l.StartM),
				ftoa(l.EndM),
				"",
				ftoa(l.EquivMomentKNM),
			}
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("csv export: %w", err)
	}
	return buf.Bytes(), nil
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
