package models

import (
	"context"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	a := &Client{Send: make(chan WSMessage, 4)}
	b := &Client{Send: make(chan WSMessage, 4)}
	h.Register(a)
	h.Register(b)
	waitFor(t, func() bool { return h.ClientCount() == 2 })

	h.Broadcast(WSMessage{Event: EventNews, Data: "hello"})
	for _, c := range []*Client{a, b} {
		select {
		case msg := <-c.Send:
			if msg.Event != EventNews || msg.Data != "hello" {
				t.Errorf("got %+v", msg)
			}
		case <-time.After(time.Second):
			t.Fatal("broadcast not delivered")
		}
	}

	h.Unregister(a)
	waitFor(t, func() bool { return h.ClientCount() == 1 })
	if _, ok := <-a.Send; ok {
		t.Error("unregistered client's channel should be closed")
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := NewHub(nil)
	go h.Run(ctx)

	slow := &Client{Send: make(chan WSMessage)}
	h.Register(slow)
	waitFor(t, func() bool { return h.ClientCount() == 1 })

	h.Broadcast(WSMessage{Event: EventMarket})
	waitFor(t, func() bool { return h.ClientCount() == 0 })
}

func TestHub_RunClosesClientsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	c := &Client{Send: make(chan WSMessage, 1)}
	h.Register(c)
	cancel()
	<-done

	if _, ok := <-c.Send; ok {
		t.Error("client channel should be closed on shutdown")
	}
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := NewHub(nil)
	done := make(chan struct{})
	go func() {
		h.Run(ctx)
		close(done)
	}()

	live := &Client{Send: make(chan WSMessage, 1)}
	h.Register(live)
	cancel()
	<-done

	returned := make(chan struct{})
	late := &Client{Send: make(chan WSMessage, 1)}
	go func() {
		h.Unregister(live)
		h.Register(late)
		h.Unregister(late)
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Register/Unregister blocked after the hub stopped")
	}
	if _, ok := <-late.Send; ok {
		t.Error("client registered after shutdown should have its channel closed")
	}
}
