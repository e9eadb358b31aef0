package pipeline

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/yanun0323/logs"

	"pricemodeling/internal/bus"
	"pricemodeling/internal/obs"
)

// Run drains a task list over a worker pool. A failing task is logged and
// counted; the batch always continues to completion. The returned snapshot
// carries the success and failure counts of the run.
func Run(ctx context.Context, tasks []bus.Task, workers int) obs.Snapshot {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(tasks) && len(tasks) > 0 {
		workers = len(tasks)
	}

	metrics := obs.NewMetrics()
	queue := bus.NewQueue(len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			queue.Run(ctx, func(t bus.Task) {
				start := time.Now()
				err := t.Run()
				metrics.ObserveTask(time.Since(start), err)
				if err != nil {
					logs.Errorf("task %s failed: %v", t.Label, err)
				}
			})
		}()
	}

	for _, t := range tasks {
		if err := queue.Publish(ctx, t); err != nil {
			break
		}
	}
	queue.Close()
	wg.Wait()

	return metrics.Snapshot()
}
