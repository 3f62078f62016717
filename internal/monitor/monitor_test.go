package monitor

import (
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Caven15/demo-flask-cicd-docker/internal/ui/messages"
)

type fakeExpirer struct {
	mu      sync.Mutex
	calls   int
	expired bool
	err     error
}

func (f *fakeExpirer) ExpireIfStale() (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.expired, f.err
}

type recorder struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (r *recorder) Send(msg tea.Msg) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.msgs)
}

func TestPoll(t *testing.T) {
	cases := []struct {
		name     string
		expirer  *fakeExpirer
		wantMsgs int
	}{
		{"still valid", &fakeExpirer{}, 0},
		{"expired", &fakeExpirer{expired: true}, 1},
		{"expired but token not erased", &fakeExpirer{expired: true, err: errors.New("disk gone")}, 1},
		{"error only", &fakeExpirer{err: errors.New("disk gone")}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := &recorder{}
			m := New(time.Minute, tc.expirer)
			m.program = rec
			m.poll()
			require.Equal(t, tc.wantMsgs, rec.len())
			if tc.wantMsgs > 0 {
				msg, ok := rec.msgs[0].(messages.StatusMsg)
				require.True(t, ok)
				require.True(t, msg.IsError)
			}
		})
	}
}

func TestLoopTicksUntilStopped(t *testing.T) {
	exp := &fakeExpirer{expired: true}
	rec := &recorder{}
	m := New(5*time.Millisecond, exp)
	m.Start(rec)

	require.Eventually(t, func() bool { return rec.len() >= 2 }, time.Second, 5*time.Millisecond)
	m.Stop()
	m.Stop()
}

func TestDisabled(t *testing.T) {
	exp := &fakeExpirer{}
	m := New(0, exp)
	m.Start(&recorder{})
	time.Sleep(20 * time.Millisecond)
	m.Stop()

	exp.mu.Lock()
	defer exp.mu.Unlock()
	require.Zero(t, exp.calls)
}
