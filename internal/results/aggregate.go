// internal/results/aggregate.go
package results

import (
	"sort"
	"time"
)

// RunInfo records the provenance of one suite run.
type RunInfo struct {
	ID           string    `json:"id"`
	Suite        string    `json:"suite"`
	ConfigPath   string    `json:"configPath"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	Canceled     bool      `json:"canceled"`
	Warmup       int       `json:"warmupIterations"`
	Measurements int       `json:"measurementIterations"`
	Workers      int       `json:"workers"`
}

// Report is the aggregated output of one run, ready for the writers.
type Report struct {
	Run     RunInfo `json:"run"`
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// Row is one job outcome flattened for tables and serialization, with the
// baseline-relative ratio filled in where a measured baseline exists.
type Row struct {
	Seq             int       `json:"seq"`
	ID              string    `json:"id"`
	Param           string    `json:"param"`
	Group           string    `json:"group"`
	Shape           string    `json:"shape"`
	M               int       `json:"m"`
	K               int       `json:"k"`
	N               int       `json:"n"`
	Variant         string    `json:"variant"`
	Kind            string    `json:"kind"`
	Dtype           string    `json:"dtype"`
	Device          string    `json:"device"`
	Compile         bool      `json:"compile"`
	CompileMode     string    `json:"compileMode,omitempty"`
	Status          Status    `json:"status"`
	Timing          *Timing   `json:"timing,omitempty"`
	AccuracyDelta   *float64  `json:"accuracyDelta,omitempty"`
	RatioToBaseline *float64  `json:"ratioToBaseline,omitempty"`
	Speedup         *float64  `json:"speedup,omitempty"`
	ErrorKind       ErrorKind `json:"errorKind,omitempty"`
	ErrorMessage    string    `json:"errorMessage,omitempty"`
}

// Summary is the per-run digest shown after a run and stored in history.
type Summary struct {
	TotalJobs       int            `json:"totalJobs"`
	Measured        int            `json:"measured"`
	Failed          int            `json:"failed"`
	FailuresByKind  map[string]int `json:"failuresByKind,omitempty"`
	DurationSeconds float64        `json:"durationSeconds"`
	Canceled        bool           `json:"canceled"`
	FastestPerGroup []Highlight    `json:"fastestPerGroup,omitempty"`
	BestSpeedup     *Highlight     `json:"bestSpeedup,omitempty"`
}

// Highlight names one ranked row in the summary.
type Highlight struct {
	ID            string   `json:"id"`
	Variant       string   `json:"variant"`
	MedianSeconds float64  `json:"medianSeconds"`
	Speedup       *float64 `json:"speedup,omitempty"`
}

// Aggregate re-sorts results into matrix order, derives baseline-relative
// ratios per group, and assembles the report. Results may arrive in any order
// when the engine runs more than one worker; the output is deterministic for
// a given result set.
func Aggregate(info RunInfo, jobResults []JobResult) Report {
	ordered := make([]JobResult, len(jobResults))
	copy(ordered, jobResults)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Job.Seq < ordered[j].Job.Seq
	})

	baselines := make(map[string]float64)
	for _, jr := range ordered {
		if jr.Job.Variant.IsBaseline() && jr.Measured() && jr.Timing.MedianSeconds > 0 {
			baselines[jr.Job.BaselineKey()] = jr.Timing.MedianSeconds
		}
	}

	rows := make([]Row, 0, len(ordered))
	for _, jr := range ordered {
		row := Row{
			Seq:           jr.Job.Seq,
			ID:            jr.Job.ID(),
			Param:         jr.Job.ParamName,
			Group:         jr.Job.GroupName,
			Shape:         jr.Job.Shape.String(),
			M:             jr.Job.Shape.M(),
			K:             jr.Job.Shape.K(),
			N:             jr.Job.Shape.N(),
			Variant:       jr.Job.Variant.Label(),
			Kind:          jr.Job.Variant.Kind,
			Dtype:         jr.Job.Dtype,
			Device:        jr.Job.Device,
			Compile:       jr.Job.Compile,
			CompileMode:   jr.Job.CompileMode,
			Status:        jr.Status,
			Timing:        jr.Timing,
			AccuracyDelta: jr.AccuracyDelta,
			ErrorKind:     jr.ErrorKind,
			ErrorMessage:  jr.ErrorMessage,
		}
		if !jr.Job.Variant.IsBaseline() && jr.Measured() && jr.Timing.MedianSeconds > 0 {
			if base, ok := baselines[jr.Job.BaselineKey()]; ok {
				ratio := jr.Timing.MedianSeconds / base
				speedup := base / jr.Timing.MedianSeconds
				row.RatioToBaseline = &ratio
				row.Speedup = &speedup
			}
		}
		rows = append(rows, row)
	}

	return Report{
		Run:     info,
		Rows:    rows,
		Summary: summarize(info, ordered, rows),
	}
}

func summarize(info RunInfo, ordered []JobResult, rows []Row) Summary {
	summary := Summary{
		TotalJobs: len(rows),
		Canceled:  info.Canceled,
	}
	if !info.FinishedAt.IsZero() && !info.StartedAt.IsZero() {
		summary.DurationSeconds = info.FinishedAt.Sub(info.StartedAt).Seconds()
	}

	for _, row := range rows {
		switch row.Status {
		case StatusMeasured:
			summary.Measured++
		case StatusFailed:
			summary.Failed++
			if summary.FailuresByKind == nil {
				summary.FailuresByKind = make(map[string]int)
			}
			summary.FailuresByKind[string(row.ErrorKind)]++
		}
	}

	// Fastest variant per group, in first-seen group order.
	bestByKey := make(map[string]Row)
	var keyOrder []string
	for i, jr := range ordered {
		if !jr.Measured() {
			continue
		}
		key := jr.Job.BaselineKey()
		best, seen := bestByKey[key]
		if !seen {
			keyOrder = append(keyOrder, key)
			bestByKey[key] = rows[i]
			continue
		}
		if rows[i].Timing.MedianSeconds < best.Timing.MedianSeconds {
			bestByKey[key] = rows[i]
		}
	}
	for _, key := range keyOrder {
		row := bestByKey[key]
		summary.FastestPerGroup = append(summary.FastestPerGroup, Highlight{
			ID:            row.ID,
			Variant:       row.Variant,
			MedianSeconds: row.Timing.MedianSeconds,
			Speedup:       row.Speedup,
		})
	}

	for _, row := range rows {
		if row.Speedup == nil {
			continue
		}
		if summary.BestSpeedup == nil || *row.Speedup > *summary.BestSpeedup.Speedup {
			highlight := Highlight{
				ID:            row.ID,
				Variant:       row.Variant,
				MedianSeconds: row.Timing.MedianSeconds,
				Speedup:       row.Speedup,
			}
			summary.BestSpeedup = &highlight
		}
	}

	return summary
}
