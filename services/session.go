package services

import "sync"

// Sessions binds connections to the username they joined with. The same
// username may be bound to several connections.
type Sessions struct {
	mu    sync.RWMutex
	users map[*Client]string
}

func NewSessions() *Sessions {
	return &Sessions{users: make(map[*Client]string)}
}

func (s *Sessions) Bind(c *Client, username string) {
	s.mu.Lock()
	s.users[c] = username
	s.mu.Unlock()
}

func (s *Sessions) Username(c *Client) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[c]
	return u, ok
}

func (s *Sessions) Unbind(c *Client) {
	s.mu.Lock()
	delete(s.users, c)
	s.mu.Unlock()
}

