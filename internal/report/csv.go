// internal/report/csv.go
package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/mwiater/gemmbench/internal/results"
)

var csvHeader = []string{
	"seq", "param", "group", "shape", "variant", "kind", "dtype", "device",
	"status", "median_s", "mean_s", "min_s", "max_s", "stddev_s", "iterations",
	"ratio_to_baseline", "speedup", "accuracy_delta", "error_kind", "error_message",
}

// WriteCSV writes one record per job row. Failed rows keep their coordinates
// and error columns; timing columns stay empty.
func WriteCSV(rep results.Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rep.Rows {
		record := []string{
			strconv.Itoa(row.Seq),
			row.Param,
			row.Group,
			row.Shape,
			row.Variant,
			row.Kind,
			row.Dtype,
			row.Device,
			string(row.Status),
		}
		if row.Timing != nil {
			record = append(record,
				formatFloat(row.Timing.MedianSeconds),
				formatFloat(row.Timing.MeanSeconds),
				formatFloat(row.Timing.MinSeconds),
				formatFloat(row.Timing.MaxSeconds),
				formatFloat(row.Timing.StddevSeconds),
				strconv.Itoa(row.Timing.Iterations),
			)
		} else {
			record = append(record, "", "", "", "", "", "")
		}
		record = append(record,
			formatOptional(row.RatioToBaseline),
			formatOptional(row.Speedup),
			formatOptional(row.AccuracyDelta),
			string(row.ErrorKind),
			row.ErrorMessage,
		)
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
