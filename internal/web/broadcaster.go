package web

import (
	"strings"
	"sync"
	"time"

	"linkdeck/internal/store"
)

// hub fans a "something changed" signal out to all subscribed SSE streams.
type hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: map[chan struct{}]struct{}{}}
}

func (h *hub) subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	cancel := func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
	return ch, cancel
}

func (h *hub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

// broadcaster watches the persisted state by fingerprint and signals the hub
// whenever it changes. Mutating handlers poke it for snappier updates than
// the 1s poll alone.
type broadcaster struct {
	store store.Store
	hub   *hub

	mu sync.Mutex
	fp string

	pokeCh   chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

func newBroadcaster(s store.Store) *broadcaster {
	return &broadcaster{
		store:  s,
		hub:    newHub(),
		pokeCh: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
	}
}

func (b *broadcaster) Stop() {
	if b == nil {
		return
	}
	b.stopOnce.Do(func() { close(b.stopCh) })
}

func (b *broadcaster) currentFingerprint() string {
	b.mu.Lock()
	fp := b.fp
	b.mu.Unlock()
	return fp
}

func (b *broadcaster) poke() {
	select {
	case b.pokeCh <- struct{}{}:
	default:
	}
}

func (b *broadcaster) watchLoop() {
	lastFP := strings.TrimSpace(b.store.Fingerprint())
	b.mu.Lock()
	b.fp = lastFP
	b.mu.Unlock()

	t := time.NewTicker(1 * time.Second)
	defer t.Stop()

	for {
		select {
		case <-b.stopCh:
			return
		case <-t.C:
		case <-b.pokeCh:
		}

		fp := strings.TrimSpace(b.store.Fingerprint())
		if fp == "" || fp == lastFP {
			continue
		}
		lastFP = fp
		b.mu.Lock()
		b.fp = fp
		b.mu.Unlock()
		b.hub.broadcast()
	}
}
