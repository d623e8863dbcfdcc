// internal/engine/engine.go
// Package engine executes a benchmark matrix: it builds each job's model,
// applies the requested transformation, and times forward passes under the
// suite's execution protocol. Failures stay scoped to their job.
package engine

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mwiater/gemmbench/internal/matrix"
	"github.com/mwiater/gemmbench/internal/recipes"
	"github.com/mwiater/gemmbench/internal/results"
	"github.com/mwiater/gemmbench/internal/suite"
	"github.com/mwiater/gemmbench/internal/workload"
)

// EventType tags a progress event.
type EventType string

const (
	EventJobStarted  EventType = "started"
	EventJobFinished EventType = "finished"
)

// Event reports engine progress to an optional sink. Finished events carry
// the result and the completed count; the sink runs on worker goroutines and
// must be safe for concurrent use.
type Event struct {
	Type      EventType
	Job       matrix.Job
	Result    *results.JobResult
	Completed int
	Total     int
}

// Runner drives one suite run. The zero value is not useful; construct it
// with New so the suite's protocol settings are applied.
type Runner struct {
	warmup          int
	measurements    int
	jobTimeout      time.Duration
	workers         int
	compareAccuracy bool
	sink            func(Event)

	mu          sync.Mutex
	deviceLocks map[string]*sync.Mutex
}

// New builds a Runner from the suite's execution protocol. sink receives
// progress events and may be nil.
func New(cfg *suite.Config, sink func(Event)) *Runner {
	return &Runner{
		warmup:          cfg.Warmup(),
		measurements:    cfg.Measurements(),
		jobTimeout:      cfg.JobTimeout(),
		workers:         cfg.Workers(),
		compareAccuracy: cfg.CompareAccuracy,
		sink:            sink,
		deviceLocks:     make(map[string]*sync.Mutex),
	}
}

// Run executes jobs on a bounded worker pool and returns the results in
// completion order. Canceling ctx stops scheduling; jobs already in flight
// finish or hit their own timeout, and their rows are still returned. Jobs
// never started produce no rows.
func (r *Runner) Run(ctx context.Context, jobs []matrix.Job) []results.JobResult {
	out := make(chan results.JobResult, len(jobs))
	total := len(jobs)

	var (
		doneMu sync.Mutex
		done   int
	)

	var g errgroup.Group
	g.SetLimit(r.workers)

	for _, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		job := job
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			r.emit(Event{Type: EventJobStarted, Job: job, Total: total})

			res := r.runJob(job)
			out <- res

			doneMu.Lock()
			done++
			completed := done
			doneMu.Unlock()
			r.emit(Event{Type: EventJobFinished, Job: job, Result: &res, Completed: completed, Total: total})
			return nil
		})
	}

	g.Wait()
	close(out)

	collected := make([]results.JobResult, 0, total)
	for res := range out {
		collected = append(collected, res)
	}
	return collected
}

// runJob performs the full lifecycle of one job. Every failure mode,
// panics included, lands in a Failed row so one bad combination never
// takes down the run.
func (r *Runner) runJob(job matrix.Job) (res results.JobResult) {
	defer func() {
		if p := recover(); p != nil {
			res = results.Failed(job, results.ErrorKindExecution, fmt.Errorf("panic: %v", p))
		}
	}()

	model, err := workload.Build(workload.Spec{
		ModelType: job.ModelType,
		Shape:     job.Shape,
		Dtype:     job.Dtype,
		Device:    job.Device,
		Seed:      jobSeed(job),
	})
	if err != nil {
		return results.Failed(job, results.ErrorKindExecution, err)
	}
	defer model.Close()

	// Capture the untransformed output first when the suite asks for
	// accuracy deltas. Weights and input are seeded per baseline group, so
	// this matches what the baseline row computes.
	var reference *workload.Matrix
	if r.compareAccuracy && !job.Variant.IsBaseline() {
		if err := model.Forward(context.Background()); err != nil {
			return results.Failed(job, results.ErrorKindExecution, err)
		}
		reference = model.Output().Clone()
	}

	if !job.Variant.IsBaseline() {
		recipe, err := recipes.Resolve(job.Variant.Recipe)
		if err != nil {
			return results.Failed(job, results.ErrorKindRecipe, err)
		}
		if err := recipe.Apply(model); err != nil {
			return results.Failed(job, results.ErrorKindRecipe, err)
		}
	}

	if job.Compile {
		compiled, err := workload.Compile(model.Kernel(), job.CompileMode)
		if err != nil {
			return results.Failed(job, results.ErrorKindCompile, err)
		}
		model.SetKernel(compiled)
	}

	samples, err := r.measure(model, job.Device)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return results.Failed(job, results.ErrorKindTimeout, err)
		}
		return results.Failed(job, results.ErrorKindExecution, err)
	}

	var accuracyDelta *float64
	if reference != nil {
		delta := workload.MeanAbsDiff(reference, model.Output())
		accuracyDelta = &delta
	}

	return results.Measured(job, results.Summarize(samples), accuracyDelta)
}

// measure runs the warmup and timed passes. The device lock keeps the timed
// sections of two jobs on the same device from overlapping, and the deadline
// starts only once the lock is held so queueing time never eats a job's
// budget. The deadline derives from Background on purpose: a suite cancel
// must not cut down a pass already in flight.
func (r *Runner) measure(model *workload.Model, device string) ([]float64, error) {
	lock := r.deviceLock(device)
	lock.Lock()
	defer lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.jobTimeout)
	defer cancel()

	for i := 0; i < r.warmup; i++ {
		if err := model.Forward(ctx); err != nil {
			return nil, err
		}
	}

	samples := make([]float64, 0, r.measurements)
	for i := 0; i < r.measurements; i++ {
		start := time.Now()
		if err := model.Forward(ctx); err != nil {
			return nil, err
		}
		samples = append(samples, time.Since(start).Seconds())
	}
	return samples, nil
}

func (r *Runner) deviceLock(device string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deviceLocks == nil {
		r.deviceLocks = make(map[string]*sync.Mutex)
	}
	lock, ok := r.deviceLocks[device]
	if !ok {
		lock = &sync.Mutex{}
		r.deviceLocks[device] = lock
	}
	return lock
}

func (r *Runner) emit(ev Event) {
	if r.sink != nil {
		r.sink(ev)
	}
}

// jobSeed derives the deterministic fill seed. Jobs sharing a baseline group
// get identical weights and inputs, so recipe rows and their baseline compare
// like with like.
func jobSeed(job matrix.Job) int64 {
	h := fnv.New64a()
	h.Write([]byte(job.BaselineKey()))
	return int64(h.Sum64())
}
