package parallel

import (
	"errors"
	"runtime"
	"sync"
)

type (
	Task       func() error
	WorkerFunc func(Task)
	WaitFunc   func() error
	CancelFunc func()
)

// Pool runs tasks on a fixed number of goroutines. Do queues a task, Wait
// stops accepting work, waits for the queue to drain and returns every task
// error joined. A Pool is used once.
type Pool struct {
	wg     sync.WaitGroup
	mu     sync.Mutex
	errs   []error
	Do     WorkerFunc
	Wait   WaitFunc
	Cancel CancelFunc
}

// Start launches numWorkers goroutines, or GOMAXPROCS when numWorkers < 1.
// With a single worker tasks run inline on the caller's goroutine.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{}
	pool.Do = pool.run
	pool.Wait = pool.joined
	pool.Cancel = func() {}

	if numWorkers > 1 {
		workChan := make(chan Task, numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for {
					f, ok := <-workChan
					if !ok {
						return
					}
					pool.run(f)
				}
			})
		}

		pool.Do = func(f Task) {
			workChan <- f
		}

		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
		pool.Wait = func() error {
			pool.Cancel()
			pool.wg.Wait()
			return pool.joined()
		}
	}

	return pool
}

func (p *Pool) run(f Task) {
	if err := f(); err != nil {
		p.mu.Lock()
		p.errs = append(p.errs, err)
		p.mu.Unlock()
	}
}

func (p *Pool) joined() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
