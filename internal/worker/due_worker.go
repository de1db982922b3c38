package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"todoTracker/internal/logger"
	"todoTracker/internal/repository/todo/inmemory"
)

const defaultInterval = 5 * time.Minute

// DueSource lists due todos; *service.TodoService satisfies it.
type DueSource interface {
	DueTodos(context.Context) ([]inmemory.DueEntry, error)
}

// Report is the outcome of one check, per column in board order.
type Report struct {
	Total    int
	ByColumn map[string][]string
}

// DueWorker periodically reports todos that are due.
type DueWorker struct {
	source   DueSource
	interval time.Duration
	notify   func(Report)
}

func NewDueWorker(source DueSource, interval *time.Duration) *DueWorker {
	intervalToSet := defaultInterval
	if interval != nil && *interval > 0 {
		intervalToSet = *interval
	}
	return &DueWorker{
		source:   source,
		interval: intervalToSet,
	}
}

// OnReport registers fn to receive every successful check.
func (w *DueWorker) OnReport(fn func(Report)) *DueWorker {
	w.notify = fn
	return w
}

func (w *DueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: checking due todos", zap.Time("started_at", time.Now()))
			if _, err := w.Check(ctx); err != nil {
				logger.Warn("Worker: check failed", zap.Error(err))
			}
		case <-ctx.Done():
			logger.Info("Worker: stopping")
			return
		}
	}
}

func (w *DueWorker) Check(ctx context.Context) (Report, error) {
	start := time.Now()

	due, err := w.source.DueTodos(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("list due todos: %w", err)
	}

	report := Report{Total: len(due), ByColumn: make(map[string][]string)}
	for _, e := range due {
		report.ByColumn[e.Column] = append(report.ByColumn[e.Column], e.Todo.Text())
	}

	for column, titles := range report.ByColumn {
		logger.Info("Worker: due todos",
			zap.String("column", column),
			zap.Int("count", len(titles)),
			zap.Strings("titles", titles))
	}
	logger.Info("Worker: check finished",
		zap.Duration("ms", time.Since(start)),
		zap.Int("due", report.Total))

	if w.notify != nil {
		w.notify(report)
	}
	return report, nil
}
