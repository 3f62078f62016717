package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Caven15/demo-flask-cicd-docker/internal/api"
)

func TestSessionStore_LoggedInFollowsUser(t *testing.T) {
	s := NewSessionStore()
	require.False(t, s.IsLoggedIn())

	steps := []*api.User{
		{ID: 1, Email: "a@b.com", Role: "user"},
		nil,
		{ID: 2, Email: "c@d.com", Role: "admin"},
		{ID: 3, Email: "e@f.com", Role: "user"},
	}
	for _, u := range steps {
		s.SetUser(u)
		got, ok := s.User()
		require.Equal(t, u != nil, ok)
		require.Equal(t, ok, s.IsLoggedIn())
		if u != nil {
			require.Equal(t, *u, got)
		}
	}

	s.Clear()
	_, ok := s.User()
	require.False(t, ok)
	require.False(t, s.IsLoggedIn())
}

func TestSessionStore_CopiesUser(t *testing.T) {
	s := NewSessionStore()
	u := &api.User{ID: 1, Email: "a@b.com", Role: "user"}
	s.SetUser(u)

	u.Role = "admin"
	got, _ := s.User()
	require.Equal(t, "user", got.Role)

	got.Email = "changed@b.com"
	again, _ := s.User()
	require.Equal(t, "a@b.com", again.Email)
}

func TestSessionStore_SubscribeKeepsLatest(t *testing.T) {
	s := NewSessionStore()
	ch, cancel := s.Subscribe()
	defer cancel()

	s.SetUser(&api.User{ID: 1, Email: "a@b.com"})
	s.SetUser(&api.User{ID: 2, Email: "c@d.com"})

	select {
	case change := <-ch:
		require.True(t, change.LoggedIn())
		require.Equal(t, 2, change.User.ID)
	case <-time.After(time.Second):
		t.Fatal("no session change delivered")
	}

	s.Clear()
	change := <-ch
	require.False(t, change.LoggedIn())
}

func TestSessionStore_CancelClosesChannel(t *testing.T) {
	s := NewSessionStore()
	ch, cancel := s.Subscribe()
	cancel()
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Writes after unsubscribe must not panic on the closed channel.
	s.SetUser(&api.User{ID: 1})
}
