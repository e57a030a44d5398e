package pipeline

import (
	"context"
	"sync"
)

// job is one unit of CPU-bound page-parsing work submitted to a
// workerPool. It parallelizes wikt.Parser.ParsePage calls across
// cfg.Pipeline.Workers goroutines while dump.Reader.Next stays
// single-threaded, since the underlying bz2+xml decoder is inherently
// sequential.
type job func(ctx context.Context)

// workerPool runs jobs using a fixed number of goroutines, trimmed to
// the fire-and-forget callback style the dump-parsing stages need:
// every job is responsible for recording its own result under its own
// synchronization.
type workerPool struct {
	jobs    chan job
	wg      sync.WaitGroup
	workers int
}

// newWorkerPool builds a pool sized to workers (at least 1) with a queue
// four times as deep, so producers rarely block waiting for a slot.
func newWorkerPool(workers int) *workerPool {
	if workers <= 0 {
		workers = 1
	}
	return &workerPool{
		jobs:    make(chan job, workers*4),
		workers: workers,
	}
}

// start launches the worker goroutines. Workers exit when ctx is done or
// the job channel is closed, whichever comes first.
func (p *workerPool) start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case j, ok := <-p.jobs:
					if !ok {
						return
					}
					j(ctx)
				}
			}
		}()
	}
}

// submit enqueues a job. The caller must not submit after closeAndWait.
func (p *workerPool) submit(j job) {
	p.jobs <- j
}

// closeAndWait stops accepting jobs and blocks until the workers exit:
// every queued job has run, unless ctx was done first, in which case
// jobs still queued are not run.
func (p *workerPool) closeAndWait() {
	close(p.jobs)
	p.wg.Wait()
}
