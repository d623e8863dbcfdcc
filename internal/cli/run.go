// internal/cli/run.go
package gemmbench

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mwiater/gemmbench/internal/appconfig"
	"github.com/mwiater/gemmbench/internal/engine"
	"github.com/mwiater/gemmbench/internal/history"
	"github.com/mwiater/gemmbench/internal/logging"
	"github.com/mwiater/gemmbench/internal/matrix"
	"github.com/mwiater/gemmbench/internal/report"
	"github.com/mwiater/gemmbench/internal/results"
	"github.com/mwiater/gemmbench/internal/suite"
	"github.com/mwiater/gemmbench/internal/tui"
)

type runOptions struct {
	suitePath  string
	workers    int
	warmup     int
	iterations int
	timeoutSec int
	accuracy   bool
	outputDir  string
}

var runOpts runOptions

var startedJob = color.New(color.FgCyan).SprintFunc()
var measuredJob = color.New(color.FgGreen).SprintFunc()
var failedJob = color.New(color.FgRed).SprintFunc()

// runCmd executes the suite: expand the matrix, run every job, write the
// report artifacts, and record the run in the history database.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark suite and write its reports",
	Long: `Expand the suite configuration into its job matrix, execute every job
under the suite's warmup/measurement protocol, and write the JSON, CSV, and
HTML reports. Per-job failures are recorded in the report; they never abort
the remaining jobs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := suite.Load(resolveSuitePath(runOpts.suitePath))
		if err != nil {
			return err
		}
		applyRunOverrides(cmd, &cfg)

		jobs, err := matrix.Build(&cfg)
		if err != nil {
			return err
		}

		runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		info := results.RunInfo{
			ID:           history.NewRunID(),
			Suite:        cfg.SuiteName(),
			ConfigPath:   cfg.ConfigPath,
			StartedAt:    time.Now().UTC(),
			Warmup:       cfg.Warmup(),
			Measurements: cfg.Measurements(),
			Workers:      cfg.Workers(),
		}
		logging.LogEvent("Starting suite %q: %d jobs, %d workers, %d warmup + %d measured passes",
			info.Suite, len(jobs), info.Workers, info.Warmup, info.Measurements)

		var jobResults []results.JobResult
		if TUIEnabled() {
			jobResults, err = runWithProgressScreen(runCtx, &cfg, jobs)
			if err != nil {
				return err
			}
		} else {
			runner := engine.New(&cfg, consoleSink)
			jobResults = runner.Run(runCtx, jobs)
		}

		info.FinishedAt = time.Now().UTC()
		info.Canceled = runCtx.Err() != nil
		rep := results.Aggregate(info, jobResults)

		outDir := resolveOutputDir(cmd, cfg)
		paths, err := report.Write(rep, outDir)
		if err != nil {
			return fmt.Errorf("failed writing reports: %w", err)
		}
		logging.LogEvent("Suite %q finished: %d measured, %d failed, reports in %s",
			info.Suite, rep.Summary.Measured, rep.Summary.Failed, outDir)

		recordHistory(rep, outDir)

		fmt.Print(report.RenderConsole(rep))
		cmd.Printf("\nReport JSON: %s\n", paths.JSON)
		cmd.Printf("Report CSV:  %s\n", paths.CSV)
		cmd.Printf("Report HTML: %s\n", paths.HTML)
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runOpts.suitePath, "file", "f", "", "suite configuration file (defaults to the settings' suite file)")
	runCmd.Flags().IntVar(&runOpts.workers, "workers", 0, "override max_workers from the suite file")
	runCmd.Flags().IntVar(&runOpts.warmup, "warmup", 0, "override warmup_iterations from the suite file")
	runCmd.Flags().IntVar(&runOpts.iterations, "iterations", 0, "override measurement_iterations from the suite file")
	runCmd.Flags().IntVar(&runOpts.timeoutSec, "timeout", 0, "override job_timeout_seconds from the suite file")
	runCmd.Flags().BoolVar(&runOpts.accuracy, "accuracy", false, "record accuracy deltas against the untransformed model")
	runCmd.Flags().StringVar(&runOpts.outputDir, "output-dir", "", "write report artifacts to this directory")

	rootCmd.AddCommand(runCmd)
}

// resolveSuitePath picks the suite file: an explicit flag wins, then the tool
// settings, then the packaged default.
func resolveSuitePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg := GetConfig(); cfg != nil {
		return cfg.SuitePath()
	}
	return suite.DefaultConfigPath
}

// applyRunOverrides folds changed run flags into the loaded suite config so
// the engine sees one merged protocol.
func applyRunOverrides(cmd *cobra.Command, cfg *suite.Config) {
	if cmd.Flags().Changed("workers") {
		cfg.MaxWorkers = runOpts.workers
	}
	if cmd.Flags().Changed("warmup") {
		warmup := runOpts.warmup
		cfg.WarmupIterations = &warmup
	}
	if cmd.Flags().Changed("iterations") {
		cfg.MeasurementIterations = runOpts.iterations
	}
	if cmd.Flags().Changed("timeout") {
		cfg.JobTimeoutSeconds = runOpts.timeoutSec
	}
	if runOpts.accuracy {
		cfg.CompareAccuracy = true
	}
}

// resolveOutputDir picks the report directory: flag, then the suite's
// output_dir, then the tool settings, then the suite default.
func resolveOutputDir(cmd *cobra.Command, cfg suite.Config) string {
	if cmd.Flags().Changed("output-dir") {
		return runOpts.outputDir
	}
	if strings.TrimSpace(cfg.OutputDir) != "" {
		return cfg.OutputDir
	}
	if settings := GetConfig(); settings != nil && strings.TrimSpace(settings.OutputDir) != "" {
		return settings.OutputDirPath()
	}
	return cfg.ResultsDir()
}

// consoleSink prints one colored status line per engine event.
func consoleSink(ev engine.Event) {
	switch ev.Type {
	case engine.EventJobStarted:
		fmt.Printf("%s %s device=%s\n", startedJob("[START]"), ev.Job.ID(), ev.Job.Device)
	case engine.EventJobFinished:
		res := ev.Result
		if res.Measured() {
			fmt.Printf("%s  %s median=%s (%d/%d)\n", measuredJob("[DONE]"), ev.Job.ID(),
				results.FormatSeconds(res.Timing.MedianSeconds), ev.Completed, ev.Total)
			return
		}
		fmt.Printf("%s  %s %s: %s (%d/%d)\n", failedJob("[FAIL]"), ev.Job.ID(),
			res.ErrorKind, res.ErrorMessage, ev.Completed, ev.Total)
	}
}

// runWithProgressScreen drives the engine behind the Bubble Tea progress
// screen. The engine runs on its own goroutine and feeds the program; the
// returned results are complete once the program exits.
func runWithProgressScreen(parent context.Context, cfg *suite.Config, jobs []matrix.Job) ([]results.JobResult, error) {
	runCtx, cancel := context.WithCancel(parent)
	defer cancel()

	logging.SetConsoleOutput(false)
	defer logging.SetConsoleOutput(true)

	prog := tui.NewProgram(tui.New(cancel, cfg.SuiteName(), len(jobs)))

	runner := engine.New(cfg, func(ev engine.Event) {
		switch ev.Type {
		case engine.EventJobStarted:
			logging.LogJob("start", ev.Job.ID(), ev.Job.Device, nil)
			prog.Send(tui.JobStartedMsg{Job: ev.Job})
		case engine.EventJobFinished:
			logJobFinished(ev)
			prog.Send(tui.JobFinishedMsg{Result: *ev.Result, Completed: ev.Completed, Total: ev.Total})
		}
	})

	var collected []results.JobResult
	go func() {
		collected = runner.Run(runCtx, jobs)
		prog.Send(tui.DoneMsg{})
	}()

	if _, err := prog.Run(); err != nil {
		return nil, fmt.Errorf("progress screen failed: %w", err)
	}
	return collected, nil
}

// logJobFinished writes the file-log record for one finished job. The
// progress screen owns the terminal, so these lines are only read back from
// the log file.
func logJobFinished(ev engine.Event) {
	res := ev.Result
	if res.Measured() {
		logging.LogJob("done", ev.Job.ID(), ev.Job.Device, map[string]interface{}{
			"medianSeconds": res.Timing.MedianSeconds,
			"iterations":    res.Timing.Iterations,
		})
		return
	}
	logging.LogJob("fail", ev.Job.ID(), ev.Job.Device, map[string]interface{}{
		"errorKind": string(res.ErrorKind),
		"error":     res.ErrorMessage,
	})
}

// recordHistory indexes the finished run. History is best effort: a failure
// here is logged and never fails the run itself.
func recordHistory(rep results.Report, outputDir string) {
	dbPath := historyDBPath()
	store, err := history.Open(dbPath)
	if err != nil {
		logging.LogEvent("run history unavailable at %s: %v", dbPath, err)
		return
	}
	defer store.Close()

	if err := store.Record(rep, outputDir); err != nil {
		logging.LogEvent("could not record run history: %v", err)
	}
}

// historyDBPath returns the configured history database path.
func historyDBPath() string {
	if cfg := GetConfig(); cfg != nil {
		return cfg.HistoryDBPath()
	}
	return appconfig.Config{}.HistoryDBPath()
}
