package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu          sync.Mutex
	proposals   int
	transitions map[string]int
	rejections  map[string]int
	ratings     map[int]int
	durations   map[string][]float64
	notifSent   int
	notifFailed int
	startupTime float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		transitions: make(map[string]int),
		rejections:  make(map[string]int),
		ratings:     make(map[int]int),
		durations:   make(map[string][]float64),
	}
}

func (m *Mock) IncProposals() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals++
}

func (m *Mock) IncTransition(action string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transitions[action]++
}

func (m *Mock) IncRejection(action, kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections[action+"/"+kind]++
}

func (m *Mock) IncRatings(stars int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[stars]++
}

func (m *Mock) ObserveActionDuration(action string, seconds float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[action] = append(m.durations[action], seconds)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// Proposals returns the number of times IncProposals was called.
func (m *Mock) Proposals() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.proposals
}

// Transitions returns how often IncTransition was called for action.
func (m *Mock) Transitions(action string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transitions[action]
}

// Rejections returns how often IncRejection was called for action and kind.
func (m *Mock) Rejections(action, kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rejections[action+"/"+kind]
}

// Ratings returns how often IncRatings was called with stars.
func (m *Mock) Ratings(stars int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ratings[stars]
}

// Durations returns the observations recorded for action.
func (m *Mock) Durations(action string) []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.durations[action]...)
}

// NotifSent returns the number of times IncNotifSent was called.
func (m *Mock) NotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailed returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
