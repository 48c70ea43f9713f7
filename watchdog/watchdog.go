package watchdog

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/joeycumines/tracecore/metatrace"
)

// ErrTimerAlreadyArmed is returned by CreateFatalTimer when a timer for the
// same reason is already counting down.
var ErrTimerAlreadyArmed = errors.New("watchdog: timer already armed for this reason")

// ErrNotMultipleOfPollingInterval is returned when a duration argument is
// not an exact multiple of the configured polling interval.
var ErrNotMultipleOfPollingInterval = errors.New("watchdog: duration must be a multiple of the polling interval")

const defaultPollingInterval = 30 * time.Second

// OnBreach is called, synchronously from the worker goroutine, when a
// resource limit or fatal timer is breached. It defaults to logging through
// metatrace and then exiting the process; tests may replace it.
var OnBreach = func(reason string) {
	metatrace.Emit("watchdog.breach", map[string]string{"reason": reason})
	os.Exit(1)
}

// Watchdog is a single process-wide supervisor with its own worker
// goroutine and its own mutex.
type Watchdog struct {
	pollingInterval time.Duration
	pid             int32

	startOnce sync.Once
	stopCh    chan struct{}

	mu             sync.Mutex
	memoryLimitKB  uint64
	memoryWindow   slidingWindow
	cpuLimitPct    uint64
	cpuWindow      slidingWindow
	timerCountdown map[string]int
}

var (
	defaultOnce sync.Once
	defaultInst *Watchdog
)

// Default returns the process-wide Watchdog singleton, constructing it on
// first call. Default does not start the worker goroutine; the first call
// to Start, CreateFatalTimer, SetMemoryLimit or SetCPULimit does.
func Default() *Watchdog {
	defaultOnce.Do(func() {
		metatrace.Init()
		defaultInst = New(defaultPollingInterval)
	})
	return defaultInst
}

// New constructs a Watchdog with the given polling interval. Most callers
// should use Default; New exists for tests that need a private instance
// with a shorter interval.
func New(pollingInterval time.Duration) *Watchdog {
	return &Watchdog{
		pollingInterval: pollingInterval,
		pid:             int32(os.Getpid()),
		timerCountdown:  make(map[string]int),
		stopCh:          make(chan struct{}),
	}
}

// Start launches the worker goroutine; idempotent.
func (w *Watchdog) Start() {
	w.startOnce.Do(func() {
		go w.threadMain()
	})
}

// Stop terminates the worker goroutine. Intended for tests; the process
// singleton is never stopped in production use.
func (w *Watchdog) Stop() {
	close(w.stopCh)
}

func isMultipleOf(d, divisor time.Duration) bool {
	return d > 0 && d%divisor == 0
}

// TimerHandle represents an armed fatal timer. Release (or let it be
// garbage collected after calling Release) clears the countdown.
type TimerHandle struct {
	w      *Watchdog
	reason string
	once   sync.Once
}

// Release clears this timer's countdown, preventing it from firing.
func (h *TimerHandle) Release() {
	h.once.Do(func() {
		h.w.mu.Lock()
		delete(h.w.timerCountdown, h.reason)
		h.w.mu.Unlock()
	})
}

// CreateFatalTimer arms a countdown that, if not Released before it
// expires, crashes the process via OnBreach. d must be a multiple of the
// polling interval; multiple concurrent timers per reason are forbidden.
func (w *Watchdog) CreateFatalTimer(d time.Duration, reason string) (*TimerHandle, error) {
	w.Start()
	w.mu.Lock()
	defer w.mu.Unlock()

	if !isMultipleOf(d, w.pollingInterval) {
		return nil, fmt.Errorf("%w: %s is not a multiple of %s", ErrNotMultipleOfPollingInterval, d, w.pollingInterval)
	}
	if _, armed := w.timerCountdown[reason]; armed {
		return nil, fmt.Errorf("%w: %s", ErrTimerAlreadyArmed, reason)
	}

	w.timerCountdown[reason] = int(d/w.pollingInterval) + 1
	return &TimerHandle{w: w, reason: reason}, nil
}

// SetMemoryLimit sets a resident-set mean-over-window ceiling in
// kilobytes; 0 disables it. window must be a multiple of the polling
// interval unless kb is 0.
func (w *Watchdog) SetMemoryLimit(kb uint64, window time.Duration) error {
	w.Start()
	w.mu.Lock()
	defer w.mu.Unlock()

	if kb != 0 && !isMultipleOf(window, w.pollingInterval) {
		return fmt.Errorf("%w: %s", ErrNotMultipleOfPollingInterval, window)
	}
	size := 0
	if kb != 0 {
		size = int(window/w.pollingInterval) + 1
	}
	w.memoryWindow.reset(size)
	w.memoryLimitKB = kb
	return nil
}

// SetCPULimit sets a CPU-time-percent mean-over-window ceiling; percent
// must be in [0, 100], 0 disables it.
func (w *Watchdog) SetCPULimit(percent uint64, window time.Duration) error {
	w.Start()
	w.mu.Lock()
	defer w.mu.Unlock()

	if percent > 100 {
		return fmt.Errorf("watchdog: cpu limit percentage %d out of range [0, 100]", percent)
	}
	if percent != 0 && !isMultipleOf(window, w.pollingInterval) {
		return fmt.Errorf("%w: %s", ErrNotMultipleOfPollingInterval, window)
	}
	size := 0
	if percent != 0 {
		size = int(window/w.pollingInterval) + 1
	}
	w.cpuWindow.reset(size)
	w.cpuLimitPct = percent
	return nil
}

func (w *Watchdog) threadMain() {
	ticker := time.NewTicker(w.pollingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			cpuTime, rssKB := w.sample()
			w.checkMemory(rssKB)
			w.checkCPU(cpuTime)
			w.checkTimers()
		}
	}
}

// sample reads current CPU time (seconds, user+system) and RSS (KB) for
// this process via gopsutil.
func (w *Watchdog) sample() (cpuTimeSec float64, rssKB uint64) {
	proc, err := process.NewProcess(w.pid)
	if err != nil {
		return 0, 0
	}
	if times, err := proc.Times(); err == nil {
		cpuTimeSec = times.User + times.System
	}
	if mem, err := proc.MemoryInfo(); err == nil && mem != nil {
		rssKB = mem.RSS / 1024
	}
	return cpuTimeSec, rssKB
}

func (w *Watchdog) checkMemory(rssKB uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.memoryLimitKB == 0 || !w.memoryWindow.enabled() {
		return
	}
	if w.memoryWindow.push(rssKB) {
		if w.memoryWindow.mean() > w.memoryLimitKB {
			OnBreach("memory limit exceeded")
		}
	}
}

func (w *Watchdog) checkCPU(cpuTimeSec float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cpuLimitPct == 0 || !w.cpuWindow.enabled() {
		return
	}
	sample := uint64(cpuTimeSec * 1000)
	if w.cpuWindow.push(sample) {
		windowMS := uint64(len(w.cpuWindow.buf)-1) * uint64(w.pollingInterval/time.Millisecond)
		if windowMS == 0 {
			return
		}
		diffMS := w.cpuWindow.newestWhenFull() - w.cpuWindow.oldestWhenFull()
		pct := diffMS * 100 / windowMS
		if pct > w.cpuLimitPct {
			OnBreach("cpu limit exceeded")
		}
	}
}

func (w *Watchdog) checkTimers() {
	w.mu.Lock()
	var breached []string
	for reason, countdown := range w.timerCountdown {
		if countdown <= 1 {
			breached = append(breached, reason)
			continue
		}
		w.timerCountdown[reason] = countdown - 1
	}
	w.mu.Unlock()

	for _, reason := range breached {
		OnBreach("fatal timer expired: " + reason)
	}
}
