package monitor

import (
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/messages"
)

// Expirer ends a session whose token has run out.
type Expirer interface {
	ExpireIfStale() (bool, error)
}

// Sender delivers messages to the running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// Monitor periodically checks the stored token and logs the user out when
// it expires.
type Monitor struct {
	expirer  Expirer
	interval time.Duration
	program  Sender
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a new background monitor. A non-positive interval disables it.
func New(interval time.Duration, expirer Expirer) *Monitor {
	return &Monitor{
		expirer:  expirer,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background polling loop.
func (m *Monitor) Start(program Sender) {
	if m.interval <= 0 {
		return
	}
	m.program = program
	go m.loop()
}

// Stop halts the background polling.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.poll()
		}
	}
}

func (m *Monitor) poll() {
	expired, err := m.expirer.ExpireIfStale()
	if err != nil {
		log.Printf("monitor: %v", err)
	}
	if !expired || m.program == nil {
		return
	}
	m.program.Send(messages.StatusMsg{Text: "Session expired, please log in again", IsError: true})
}
