// internal/results/results_test.go
package results

import (
	"errors"
	"math"
	"testing"

	"github.com/mwiater/gemmbench/internal/matrix"
	"github.com/mwiater/gemmbench/internal/shapes"
)

func testJob(seq int, variant matrix.Variant) matrix.Job {
	return matrix.Job{
		Seq:       seq,
		ParamName: "7B",
		GroupName: "llama",
		Shape:     shapes.Shape{4096, 4096, 4096},
		Variant:   variant,
		Dtype:     "float32",
		Device:    "cpu",
		ModelType: "linear",
	}
}

func testTiming(median float64) Timing {
	return Timing{
		MedianSeconds: median,
		MeanSeconds:   median,
		MinSeconds:    median,
		MaxSeconds:    median,
		Iterations:    5,
	}
}

func TestRunningStatTracksMomentsAndExtremes(t *testing.T) {
	var rs RunningStat
	for _, v := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		rs.Update(v)
	}

	if rs.Count != 8 {
		t.Fatalf("expected count 8, got %d", rs.Count)
	}
	if rs.Min != 2 || rs.Max != 9 {
		t.Fatalf("expected min 2 max 9, got min %v max %v", rs.Min, rs.Max)
	}
	if math.Abs(rs.Mean-5) > 1e-9 {
		t.Fatalf("expected mean 5, got %v", rs.Mean)
	}
	if math.Abs(rs.Stddev()-2) > 1e-9 {
		t.Fatalf("expected stddev 2, got %v", rs.Stddev())
	}
}

func TestRunningStatStddevNeedsTwoSamples(t *testing.T) {
	var rs RunningStat
	rs.Update(3.5)
	if got := rs.Stddev(); got != 0 {
		t.Fatalf("expected stddev 0 for a single sample, got %v", got)
	}
}

func TestSummarizeMedian(t *testing.T) {
	cases := map[string]struct {
		samples []float64
		median  float64
	}{
		"odd count takes middle":     {samples: []float64{3, 1, 2}, median: 2},
		"even count averages middle": {samples: []float64{4, 1, 3, 2}, median: 2.5},
		"single sample":              {samples: []float64{0.25}, median: 0.25},
	}

	for name, tc := range cases {
		timing := Summarize(tc.samples)
		if math.Abs(timing.MedianSeconds-tc.median) > 1e-9 {
			t.Fatalf("%s: expected median %v, got %v", name, tc.median, timing.MedianSeconds)
		}
		if timing.Iterations != len(tc.samples) {
			t.Fatalf("%s: expected %d iterations, got %d", name, len(tc.samples), timing.Iterations)
		}
	}
}

func TestSummarizeEmptyInput(t *testing.T) {
	timing := Summarize(nil)
	if timing.Iterations != 0 || timing.MedianSeconds != 0 {
		t.Fatalf("expected zero timing for empty input, got %+v", timing)
	}
}

func TestAggregateRestoresMatrixOrder(t *testing.T) {
	jobResults := []JobResult{
		Measured(testJob(2, matrix.Variant{Kind: matrix.VariantSparsity, Recipe: "semi-sparse"}), testTiming(0.5), nil),
		Measured(testJob(0, matrix.Variant{Kind: matrix.VariantBaseline}), testTiming(1.0), nil),
		Measured(testJob(1, matrix.Variant{Kind: matrix.VariantQuantization, Recipe: "int8wo"}), testTiming(0.8), nil),
	}

	report := Aggregate(RunInfo{Suite: "order"}, jobResults)
	if len(report.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(report.Rows))
	}
	for i, row := range report.Rows {
		if row.Seq != i {
			t.Fatalf("row %d carries seq %d, want %d", i, row.Seq, i)
		}
	}
	if report.Rows[0].Variant != "baseline" {
		t.Fatalf("expected baseline row first, got %q", report.Rows[0].Variant)
	}
}

func TestAggregateComputesBaselineRatios(t *testing.T) {
	jobResults := []JobResult{
		Measured(testJob(0, matrix.Variant{Kind: matrix.VariantBaseline}), testTiming(2.0), nil),
		Measured(testJob(1, matrix.Variant{Kind: matrix.VariantQuantization, Recipe: "int8wo"}), testTiming(1.0), nil),
	}

	report := Aggregate(RunInfo{Suite: "ratios"}, jobResults)

	baseline := report.Rows[0]
	if baseline.RatioToBaseline != nil || baseline.Speedup != nil {
		t.Fatalf("baseline row must not carry a ratio, got %+v", baseline)
	}

	recipe := report.Rows[1]
	if recipe.RatioToBaseline == nil || recipe.Speedup == nil {
		t.Fatalf("recipe row missing ratio or speedup: %+v", recipe)
	}
	if math.Abs(*recipe.RatioToBaseline-0.5) > 1e-9 {
		t.Fatalf("expected ratio 0.5, got %v", *recipe.RatioToBaseline)
	}
	if math.Abs(*recipe.Speedup-2.0) > 1e-9 {
		t.Fatalf("expected speedup 2.0, got %v", *recipe.Speedup)
	}
}

func TestAggregateFailedBaselineLeavesRatioUnavailable(t *testing.T) {
	jobResults := []JobResult{
		Failed(testJob(0, matrix.Variant{Kind: matrix.VariantBaseline}), ErrorKindExecution, errors.New("boom")),
		Measured(testJob(1, matrix.Variant{Kind: matrix.VariantQuantization, Recipe: "int8wo"}), testTiming(1.0), nil),
	}

	report := Aggregate(RunInfo{Suite: "no-baseline"}, jobResults)

	recipe := report.Rows[1]
	if recipe.Status != StatusMeasured {
		t.Fatalf("recipe row should stay measured, got %q", recipe.Status)
	}
	if recipe.RatioToBaseline != nil || recipe.Speedup != nil {
		t.Fatalf("ratio must be unavailable without a measured baseline, got %+v", recipe)
	}
}

func TestAggregateSummaryCountsAndRankings(t *testing.T) {
	delta := 0.002
	jobResults := []JobResult{
		Measured(testJob(0, matrix.Variant{Kind: matrix.VariantBaseline}), testTiming(2.0), nil),
		Measured(testJob(1, matrix.Variant{Kind: matrix.VariantQuantization, Recipe: "int8wo"}), testTiming(0.5), &delta),
		Failed(testJob(2, matrix.Variant{Kind: matrix.VariantQuantization, Recipe: "marlin"}), ErrorKindRecipe, errors.New("cuda only")),
		Failed(testJob(3, matrix.Variant{Kind: matrix.VariantSparsity, Recipe: "semi-sparse"}), ErrorKindTimeout, errors.New("deadline")),
	}

	report := Aggregate(RunInfo{Suite: "summary", Canceled: true}, jobResults)
	summary := report.Summary

	if summary.TotalJobs != 4 || summary.Measured != 2 || summary.Failed != 2 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if !summary.Canceled {
		t.Fatalf("expected canceled flag to propagate")
	}
	if summary.FailuresByKind[string(ErrorKindRecipe)] != 1 || summary.FailuresByKind[string(ErrorKindTimeout)] != 1 {
		t.Fatalf("unexpected failure kinds: %+v", summary.FailuresByKind)
	}

	if len(summary.FastestPerGroup) != 1 {
		t.Fatalf("expected one group highlight, got %d", len(summary.FastestPerGroup))
	}
	fastest := summary.FastestPerGroup[0]
	if fastest.Variant != "int8wo" {
		t.Fatalf("expected int8wo to lead the group, got %q", fastest.Variant)
	}

	if summary.BestSpeedup == nil || summary.BestSpeedup.Speedup == nil {
		t.Fatalf("expected a best speedup highlight")
	}
	if math.Abs(*summary.BestSpeedup.Speedup-4.0) > 1e-9 {
		t.Fatalf("expected best speedup 4.0, got %v", *summary.BestSpeedup.Speedup)
	}

	if report.Rows[1].AccuracyDelta == nil || *report.Rows[1].AccuracyDelta != delta {
		t.Fatalf("accuracy delta lost in aggregation: %+v", report.Rows[1])
	}
}
