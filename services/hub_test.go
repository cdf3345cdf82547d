package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHub_BroadcastSkipsSender(t *testing.T) {
	hub := NewHub()
	a, b := testClient("a"), testClient("b")
	hub.Subscribe("R", a)
	hub.Subscribe("R", b)

	hub.Broadcast("R", EventMousePosition, MousePosition{Username: "a"}, a)

	assert.Equal(t, EventMousePosition, recv(t, b).Event)
	requireSilent(t, a)
}

func TestHub_ClosedClientRejectsFrames(t *testing.T) {
	c := testClient("c")
	c.Close()
	c.Close()

	assert.False(t, c.trySend([]byte("{}")))
	requireSilent(t, c)
}

// Run with -race: clients leave and close while frames are fanned out.
func TestHub_BroadcastWhileClientsClose(t *testing.T) {
	hub := NewHub()
	clients := make([]*Client, 50)
	for i := range clients {
		clients[i] = testClient(fmt.Sprintf("c%d", i))
		hub.Subscribe("R", clients[i])
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			hub.Broadcast("R", EventMousePosition, MousePosition{X: float64(i)}, nil)
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range clients {
			hub.UnsubscribeAll(c)
			c.Close()
		}
	}()
	wg.Wait()

	assert.Zero(t, hub.Count("R"))
	for _, c := range clients {
		assert.False(t, c.trySend([]byte("{}")))
	}
}
