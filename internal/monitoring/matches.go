package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MatchMonitor tracks running self-play matches and the goroutines behind them
type MatchMonitor struct {
	mu             sync.RWMutex
	baseline       int
	current        int
	peak           int
	checkInterval  time.Duration
	alertThreshold int
	lastAlert      time.Time
	alertCooldown  time.Duration
	stopChan       chan struct{}
	stopOnce       sync.Once
	logger         zerolog.Logger

	running  int
	finished int
	turns    int
	results  map[string]int
}

// NewMatchMonitor creates a new monitor reporting every interval
func NewMatchMonitor(interval time.Duration, logger zerolog.Logger) *MatchMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	baseline := runtime.NumGoroutine()
	return &MatchMonitor{
		baseline:       baseline,
		current:        baseline,
		peak:           baseline,
		checkInterval:  interval,
		alertThreshold: 1000,
		alertCooldown:  5 * time.Minute,
		stopChan:       make(chan struct{}),
		logger:         logger.With().Str("component", "match_monitor").Logger(),
		results:        make(map[string]int),
	}
}

// Start begins periodic reporting
func (m *MatchMonitor) Start() {
	go m.monitor()
	m.logger.Info().
		Int("baseline", m.baseline).
		Msg("Started match monitoring")
}

// Stop stops the monitor. It is safe to call more than once.
func (m *MatchMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *MatchMonitor) monitor() {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.stopChan:
			return
		}
	}
}

// check samples the goroutine count and logs progress
func (m *MatchMonitor) check() {
	current := runtime.NumGoroutine()

	m.mu.Lock()
	m.current = current
	if current > m.peak {
		m.peak = current
	}
	shouldAlert := current > m.alertThreshold &&
		time.Since(m.lastAlert) > m.alertCooldown
	if shouldAlert {
		m.lastAlert = time.Now()
	}
	running, finished := m.running, m.finished
	m.mu.Unlock()

	m.logger.Info().
		Int("running", running).
		Int("finished", finished).
		Int("goroutines", current).
		Msg("Self-play progress")

	if shouldAlert {
		m.logger.Warn().
			Int("current", current).
			Int("threshold", m.alertThreshold).
			Msg("High goroutine count detected - possible leak")
	}
}

// MatchStarted records a match entering play
func (m *MatchMonitor) MatchStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running++
}

// MatchFinished records a finished match, its result and length
func (m *MatchMonitor) MatchFinished(result string, turns int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running--
	m.finished++
	m.turns += turns
	m.results[result]++
}

// GetMetrics returns a snapshot of the collected metrics
func (m *MatchMonitor) GetMetrics() MatchMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	avg := 0.0
	if m.finished > 0 {
		avg = float64(m.turns) / float64(m.finished)
	}
	return MatchMetrics{
		Running:        m.running,
		Finished:       m.finished,
		AverageTurns:   avg,
		Results:        copyMap(m.results),
		Goroutines:     m.current,
		PeakGoroutines: m.peak,
	}
}

// MatchMetrics contains self-play statistics
type MatchMetrics struct {
	Running        int            `json:"running"`
	Finished       int            `json:"finished"`
	AverageTurns   float64        `json:"average_turns"`
	Results        map[string]int `json:"results"`
	Goroutines     int            `json:"goroutines"`
	PeakGoroutines int            `json:"peak_goroutines"`
}

func copyMap(m map[string]int) map[string]int {
	result := make(map[string]int, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}
