package tiles

import (
	"image"
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool runs per-tile repaint work on a fixed set of goroutines.
//
// Each worker owns a queue and steals from the others when its own runs
// dry, which keeps the load balanced when some tiles are much more
// expensive than others.
//
// Pool is safe for concurrent use.
type Pool struct {
	workers int
	queues  []chan func()
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(workers*4, 8)

	p := &Pool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if work := p.steal(id); work != nil {
				work()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

func (p *Pool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

func (p *Pool) steal(id int) func() {
	for i := range p.workers {
		if i == id {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run calls fn once for every tile in tiles and waits for all calls to
// return. Tiles are spread round-robin over the workers. On a closed pool
// Run calls fn sequentially on the calling goroutine.
func (p *Pool) Run(tiles []image.Point, fn func(tile image.Point)) {
	if len(tiles) == 0 {
		return
	}
	if !p.running.Load() {
		for _, t := range tiles {
			fn(t)
		}
		return
	}

	var wg sync.WaitGroup
	wg.Add(len(tiles))
	for i, t := range tiles {
		work := func() {
			defer wg.Done()
			fn(t)
		}
		select {
		case p.queues[i%p.workers] <- work:
		case <-p.done:
			work()
		}
	}
	wg.Wait()
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return p.workers }

// Close waits for queued work and stops the workers. It must not race with
// Run. Close is safe to call multiple times.
func (p *Pool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Repaint drains the set and calls fn with the pixel bounds of every
// drained tile, in parallel on p. Tiles are disjoint, so fn may write to
// its rectangle of a shared image without further locking. It returns the
// number of repainted tiles.
func (s *Set) Repaint(p *Pool, fn func(bounds image.Rectangle)) int {
	dirty := s.Drain()
	p.Run(dirty, func(t image.Point) {
		fn(Bounds(t.X, t.Y))
	})
	return len(dirty)
}
