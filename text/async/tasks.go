package async

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/textkit"
)

var (
	// ErrClosed is returned for work submitted to a closed TaskManager.
	ErrClosed = errors.New("async: task manager closed")

	// ErrTaskPanicked is reported for a task that panicked.
	ErrTaskPanicked = errors.New("async: task panicked")
)

// RequestID identifies a submitted task. IDs increase with every Submit, so
// a caller that only wants the latest result of a control can drop
// completions older than the last ID it submitted for it.
type RequestID uint64

// Task is run by a worker with the worker's loader.
type Task func(l *Loader) RenderInfo

// Completion is called from DrainCompleted with the result of a task.
type Completion func(id RequestID, info RenderInfo)

type job struct {
	id         RequestID
	task       Task
	onComplete Completion
}

type completed struct {
	id         RequestID
	info       RenderInfo
	onComplete Completion
}

// TaskManager runs render tasks on a fixed set of workers. Each worker owns
// a Loader, so a loader only ever runs one task at a time. Workers take
// jobs from their own queue first and steal from the others when it is
// empty.
//
// Completions are not called on the workers. They are queued and called by
// DrainCompleted on the goroutine that owns the controls.
type TaskManager struct {
	loaders []*Loader
	queues  []chan job
	done    chan struct{}
	wg      sync.WaitGroup
	running atomic.Bool
	nextID  atomic.Uint64
	// closing is held for writing by Close so no Submit is half way into
	// a queue when the workers drain.
	closing sync.RWMutex

	mu        sync.Mutex
	completed []completed
	ready     chan struct{}
}

// NewTaskManager starts workers loaders drawing with fonts. workers <= 0
// uses GOMAXPROCS.
func NewTaskManager(fonts Fonts, workers int) *TaskManager {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queueSize := max(8, workers*4)

	m := &TaskManager{
		loaders: make([]*Loader, workers),
		queues:  make([]chan job, workers),
		done:    make(chan struct{}),
		ready:   make(chan struct{}, 1),
	}
	for i := range workers {
		m.loaders[i] = NewLoader(fonts)
		m.queues[i] = make(chan job, queueSize)
	}
	m.running.Store(true)

	m.wg.Add(workers)
	for i := range workers {
		go m.worker(i)
	}
	textkit.Logger().Info("async: task manager started", "workers", workers)
	return m
}

func (m *TaskManager) worker(id int) {
	defer m.wg.Done()
	own := m.queues[id]
	loader := m.loaders[id]
	for {
		select {
		case <-m.done:
			m.drain(own, loader)
			return
		case j := <-own:
			m.run(j, loader)
		default:
			if j, ok := m.steal(id); ok {
				m.run(j, loader)
				continue
			}
			select {
			case <-m.done:
				m.drain(own, loader)
				return
			case j := <-own:
				m.run(j, loader)
			}
		}
	}
}

func (m *TaskManager) drain(queue chan job, loader *Loader) {
	for {
		select {
		case j := <-queue:
			m.run(j, loader)
		default:
			return
		}
	}
}

func (m *TaskManager) steal(id int) (job, bool) {
	for i := range m.queues {
		if i == id {
			continue
		}
		select {
		case j := <-m.queues[i]:
			return j, true
		default:
		}
	}
	return job{}, false
}

// run executes j on loader. A panicking task completes with a failure.
func (m *TaskManager) run(j job, loader *Loader) {
	info := func() (info RenderInfo) {
		defer func() {
			if r := recover(); r != nil {
				textkit.Logger().Error("async: task panicked", "request", uint64(j.id), "panic", r)
				info = failed(fmt.Errorf("%w: request %d: %v", ErrTaskPanicked, j.id, r))
			}
		}()
		return j.task(loader)
	}()
	if j.onComplete == nil {
		return
	}
	m.mu.Lock()
	m.completed = append(m.completed, completed{id: j.id, info: info, onComplete: j.onComplete})
	m.mu.Unlock()
	select {
	case m.ready <- struct{}{}:
	default:
	}
}

// Submit queues task on the worker with the shortest queue. onComplete may
// be nil. It returns ErrClosed after Close.
func (m *TaskManager) Submit(task Task, onComplete Completion) (RequestID, error) {
	if task == nil {
		return 0, errors.New("async: nil task")
	}
	m.closing.RLock()
	defer m.closing.RUnlock()
	if !m.running.Load() {
		return 0, ErrClosed
	}
	j := job{id: RequestID(m.nextID.Add(1)), task: task, onComplete: onComplete}

	shortest := 0
	for i := 1; i < len(m.queues); i++ {
		if len(m.queues[i]) < len(m.queues[shortest]) {
			shortest = i
		}
	}
	select {
	case m.queues[shortest] <- j:
		return j.id, nil
	case <-m.done:
		return 0, ErrClosed
	}
}

// Ready is signalled when completions are waiting. It can be selected on
// by the loop that calls DrainCompleted.
func (m *TaskManager) Ready() <-chan struct{} {
	return m.ready
}

// DrainCompleted calls the completions queued since the last call, in the
// order the tasks finished, and returns how many it called.
func (m *TaskManager) DrainCompleted() int {
	m.mu.Lock()
	batch := m.completed
	m.completed = nil
	m.mu.Unlock()
	for _, c := range batch {
		c.onComplete(c.id, c.info)
	}
	return len(batch)
}

// RenderAll renders every p on the workers and waits for the results,
// which are returned in the order of params. The first failed render
// cancels the wait and is returned; renders already queued still run.
func (m *TaskManager) RenderAll(ctx context.Context, params []Parameters) ([]RenderInfo, error) {
	out := make([]RenderInfo, len(params))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range params {
		g.Go(func() error {
			result := make(chan RenderInfo, 1)
			_, err := m.Submit(func(l *Loader) RenderInfo {
				info := failed(ErrTaskPanicked)
				defer func() { result <- info }()
				info = l.RenderText(p)
				return info
			}, nil)
			if err != nil {
				return err
			}
			select {
			case info := <-result:
				out[i] = info
				if !info.Success {
					return fmt.Errorf("async: render %d: %w", i, info.Err)
				}
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}
	err := g.Wait()
	return out, err
}

// SetModuleClearNeeded marks the caches of every loader as stale, for
// example after fonts were registered.
func (m *TaskManager) SetModuleClearNeeded() {
	for _, l := range m.loaders {
		l.SetModuleClearNeeded(true)
	}
}

// Workers returns the number of workers.
func (m *TaskManager) Workers() int {
	return len(m.loaders)
}

// IsRunning reports whether the manager accepts tasks.
func (m *TaskManager) IsRunning() bool {
	return m.running.Load()
}

// Pending returns the number of queued tasks that have not started.
func (m *TaskManager) Pending() int {
	n := 0
	for _, q := range m.queues {
		n += len(q)
	}
	return n
}

// Close stops accepting tasks, runs the queued ones and stops the workers.
// Completions of the queued tasks stay available to DrainCompleted. Close
// is safe to call more than once.
func (m *TaskManager) Close() {
	m.closing.Lock()
	stopped := !m.running.CompareAndSwap(true, false)
	m.closing.Unlock()
	if stopped {
		return
	}
	close(m.done)
	m.wg.Wait()
	textkit.Logger().Info("async: task manager stopped")
}
