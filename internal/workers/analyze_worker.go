package workers

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/yoockh/jobmatch/internal/services"
)

// PendingAnalyzer is the slice of services.JobService the worker needs.
type PendingAnalyzer interface {
	AnalyzePending(ctx context.Context) (int, error)
}

var _ PendingAnalyzer = services.JobService(nil)

// AnalyzeWorker extracts skills for jobs that have none yet, on a cron schedule.
type AnalyzeWorker struct {
	Jobs     PendingAnalyzer
	Schedule string // standard 5-field cron spec, ex: "*/30 * * * *"
	Timeout  time.Duration

	Logger logrus.FieldLogger

	cron *cron.Cron
}

func (w *AnalyzeWorker) Start(ctx context.Context) error {
	if w.Jobs == nil {
		return errors.New("AnalyzeWorker missing dependency: Jobs must be set")
	}
	if w.Schedule == "" {
		return errors.New("AnalyzeWorker: empty schedule")
	}
	if w.Timeout <= 0 {
		w.Timeout = 10 * time.Minute
	}
	if w.Logger == nil {
		w.Logger = logrus.New()
	}

	w.cron = cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := w.cron.AddFunc(w.Schedule, func() { w.RunOnce(ctx) }); err != nil {
		return err
	}
	w.cron.Start()
	w.Logger.WithField("schedule", w.Schedule).Info("analyze worker started")

	go func() {
		<-ctx.Done()
		<-w.cron.Stop().Done()
	}()
	return nil
}

// RunOnce analyzes every pending job and returns how many got skills.
func (w *AnalyzeWorker) RunOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()

	start := time.Now()
	n, err := w.Jobs.AnalyzePending(ctx)
	entry := w.Logger.WithFields(logrus.Fields{
		"analyzed":   n,
		"latency_ms": time.Since(start).Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("pending job analysis failed")
		return n
	}
	entry.Info("pending job analysis done")
	return n
}
