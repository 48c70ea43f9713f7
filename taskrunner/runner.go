package taskrunner

import (
	"container/heap"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/joeycumines/tracecore/internal/telemetry"
	"github.com/joeycumines/tracecore/metatrace"
)

// ErrAlreadyRunning is returned by Run if called while Run is already in
// progress for the same Runner, whether on another goroutine or reentrantly
// from a task on the home goroutine.
var ErrAlreadyRunning = errors.New("taskrunner: Run already in progress")

// Task is a unit of deferred work. The zero value is not meaningful; Tasks
// are constructed internally from plain funcs posted by callers.
type Task struct {
	fn func()
}

// delayedTask is one entry of the delayed-task min-heap, ordered by
// (deadline, sequence) so that equal deadlines preserve insertion order.
type delayedTask struct {
	deadline time.Time
	seq      uint64
	task     Task
}

type delayedHeap []*delayedTask

func (h delayedHeap) Len() int { return len(h) }
func (h delayedHeap) Less(i, j int) bool {
	if h[i].deadline.Equal(h[j].deadline) {
		return h[i].seq < h[j].seq
	}
	return h[i].deadline.Before(h[j].deadline)
}
func (h delayedHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *delayedHeap) Push(x any)   { *h = append(*h, x.(*delayedTask)) }
func (h *delayedHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Runner is a cooperative single-threaded reactor affine to exactly one
// "home" goroutine: the one that calls Run. Any number of other goroutines
// may post tasks and fd watches to it.
type Runner struct {
	mu          sync.Mutex
	immediate   []Task
	delayed     delayedHeap
	delaySeq    uint64
	watches     map[int]func()
	dirty       bool
	done        bool
	pollFds     []unix.PollFd
	wakeRead    int
	wakeWrite   int
	loopGID     atomic.Uint64
	name        string
}

// Name returns the diagnostic name this Runner was constructed with.
func (r *Runner) Name() string { return r.name }

// NewRunner constructs a Runner with its self-pipe wakeup channel armed as
// the first (implicit) fd watch.
func NewRunner(name string) (*Runner, error) {
	var pair [2]int
	if err := unix.Pipe2(pair[:], unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("taskrunner: pipe2: %w", err)
	}
	r := &Runner{
		watches:   make(map[int]func()),
		wakeRead:  pair[0],
		wakeWrite: pair[1],
		name:      name,
	}
	r.watches[r.wakeRead] = r.drainWake
	r.dirty = true
	metatrace.Emit("taskrunner.new", map[string]string{"name": name})
	return r, nil
}

func (r *Runner) drainWake() {
	var buf [64]byte
	for {
		n, err := unix.Read(r.wakeRead, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// Run executes the reactor loop on the calling goroutine until Quit is
// called. It must not be called reentrantly or concurrently.
func (r *Runner) Run() error {
	gid := currentGoroutineID()
	if !r.loopGID.CompareAndSwap(0, gid) {
		return ErrAlreadyRunning
	}
	defer r.loopGID.Store(0)

	for {
		delayMS, quit := r.prepareIteration()
		if quit {
			return nil
		}
		if delayMS == 0 {
			r.runOneImmediateAndOneDelayed()
			continue
		}
		ready, err := r.poll(delayMS)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			telemetry.Logger().Err().Err(err).Log("taskrunner: poll failed, loop terminating")
			return err
		}
		if !ready {
			continue
		}
		r.repostReadyWatches()
	}
}

// prepareIteration computes the poll timeout (0 = runnable now, -1 =
// infinite) under the lock, rebuilding the poll set if watches changed.
// Returns (timeoutMS, quit).
func (r *Runner) prepareIteration() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return 0, true
	}
	if r.dirty {
		r.rebuildPollFdsLocked()
		r.dirty = false
	}
	if len(r.immediate) > 0 {
		return 0, false
	}
	if len(r.delayed) > 0 {
		d := time.Until(r.delayed[0].deadline)
		if d < 0 {
			d = 0
		}
		ms := int(d / time.Millisecond)
		if d%time.Millisecond != 0 {
			ms++
		}
		if ms == 0 {
			return 0, false
		}
		return ms, false
	}
	return -1, false
}

func (r *Runner) rebuildPollFdsLocked() {
	fds := make([]unix.PollFd, 0, len(r.watches))
	for fd := range r.watches {
		fds = append(fds, unix.PollFd{Fd: int32(fd), Events: unix.POLLIN})
	}
	r.pollFds = fds
}

// runOneImmediateAndOneDelayed executes one immediate task and one expired
// delayed task, interleaved, to avoid starving delayed tasks under a stream
// of immediates.
func (r *Runner) runOneImmediateAndOneDelayed() {
	var imm, del Task
	var haveImm, haveDel bool

	r.mu.Lock()
	if len(r.immediate) > 0 {
		imm = r.immediate[0]
		r.immediate = r.immediate[1:]
		haveImm = true
	}
	if len(r.delayed) > 0 && !time.Now().Before(r.delayed[0].deadline) {
		del = heap.Pop(&r.delayed).(*delayedTask).task
		haveDel = true
	}
	r.mu.Unlock()

	if haveImm {
		r.safeExecute(imm)
	}
	if haveDel {
		r.safeExecute(del)
	}
}

func (r *Runner) safeExecute(t Task) {
	defer func() {
		if rec := recover(); rec != nil {
			telemetry.Logger().Err().Any("panic", rec).Log("taskrunner: recovered panic in task")
		}
	}()
	t.fn()
}

// poll blocks for up to timeoutMS milliseconds waiting for a watched fd to
// become readable. Returns (true, nil) if at least one fd is ready, (false,
// nil) on timeout.
func (r *Runner) poll(timeoutMS int) (bool, error) {
	r.mu.Lock()
	fds := make([]unix.PollFd, len(r.pollFds))
	copy(fds, r.pollFds)
	r.mu.Unlock()

	n, err := unix.Poll(fds, timeoutMS)
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	r.mu.Lock()
	r.pollFds = fds
	r.mu.Unlock()
	return true, nil
}

// repostReadyWatches re-posts each ready watch's callable as an immediate
// task, avoiding reentrancy hazards where a watch removes itself or others.
func (r *Runner) repostReadyWatches() {
	r.mu.Lock()
	var ready []int
	for _, pfd := range r.pollFds {
		if pfd.Revents&unix.POLLIN != 0 {
			ready = append(ready, int(pfd.Fd))
		}
	}
	r.mu.Unlock()

	for _, fd := range ready {
		fd := fd
		r.PostTask(func() {
			r.mu.Lock()
			cb, ok := r.watches[fd]
			r.mu.Unlock()
			if ok {
				cb()
			}
		})
	}
}

// PostTask appends f to the immediate FIFO, waking the reactor if the queue
// was previously empty.
func (r *Runner) PostTask(f func()) {
	r.mu.Lock()
	wasEmpty := len(r.immediate) == 0
	r.immediate = append(r.immediate, Task{fn: f})
	r.mu.Unlock()
	if wasEmpty {
		r.WakeUp()
	}
}

// PostDelayedTask schedules f to run no earlier than delay from now.
func (r *Runner) PostDelayedTask(f func(), delay time.Duration) {
	r.mu.Lock()
	r.delaySeq++
	heap.Push(&r.delayed, &delayedTask{
		deadline: time.Now().Add(delay),
		seq:      r.delaySeq,
		task:     Task{fn: f},
	})
	r.mu.Unlock()
	r.WakeUp()
}

// AddFdWatch installs or replaces the callable invoked (reposted as an
// immediate task) whenever fd becomes readable.
func (r *Runner) AddFdWatch(fd int, f func()) {
	r.mu.Lock()
	r.watches[fd] = f
	r.dirty = true
	r.mu.Unlock()
	r.WakeUp()
}

// RemoveFdWatch removes fd's watch. No wakeup is necessary: a stale entry
// is filtered under the lock on the next post-poll dispatch.
func (r *Runner) RemoveFdWatch(fd int) {
	r.mu.Lock()
	delete(r.watches, fd)
	r.dirty = true
	r.mu.Unlock()
}

// WakeUp interrupts a blocked poll from another goroutine. On the home
// goroutine it is a no-op: the loop will observe new state on its next
// top-of-loop check without needing to interrupt itself.
func (r *Runner) WakeUp() {
	if currentGoroutineID() == r.loopGID.Load() {
		return
	}
	var b [1]byte
	b[0] = 'P'
	_, _ = unix.Write(r.wakeWrite, b[:])
}

// Quit marks the reactor done; it is idempotent and safe to call from any
// goroutine. The loop returns at its next top-of-loop check.
func (r *Runner) Quit() {
	r.mu.Lock()
	r.done = true
	r.mu.Unlock()
	r.WakeUp()
}

// Close releases the self-pipe file descriptors. Call only after Run has
// returned.
func (r *Runner) Close() error {
	_ = unix.Close(r.wakeRead)
	if r.wakeWrite != r.wakeRead {
		_ = unix.Close(r.wakeWrite)
	}
	return nil
}

// currentGoroutineID parses the current goroutine's numeric id out of a
// runtime.Stack trace, for the sole purpose of recognizing "am I the home
// goroutine" without requiring callers to pass an explicit handle.
func currentGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}
