package store

import (
	"context"
	"os"
	"strconv"
	"time"
)

// Fingerprint is a cheap change stamp for the persisted state (modtime +
// size of the SQLite file). Pollers compare stamps instead of reloading.
func (s Store) Fingerprint() string {
	st, err := os.Stat(s.sqlitePath())
	if err != nil {
		return ""
	}
	return strconv.FormatInt(st.ModTime().UnixNano(), 10) + ":" + strconv.FormatInt(st.Size(), 10)
}

// Watch polls the store and delivers a fresh snapshot whenever the persisted
// state changes, until ctx is done. Snapshots are coalesced: a slow consumer
// sees the latest state, not every intermediate one. This is the read-side
// "live query" binding; the store itself has no reactivity framework.
func (s Store) Watch(ctx context.Context, every time.Duration) <-chan *DB {
	if every <= 0 {
		every = time.Second
	}
	ch := make(chan *DB, 1)
	// Baseline stamp taken before returning, so a change racing the
	// goroutine startup is still observed.
	last := s.Fingerprint()
	go func() {
		defer close(ch)
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			fp := s.Fingerprint()
			if fp == last {
				continue
			}
			last = fp
			db, err := s.Load()
			if err != nil {
				continue
			}
			select {
			case ch <- db:
			default:
				// Drop the stale pending snapshot, keep the newest.
				select {
				case <-ch:
				default:
				}
				ch <- db
			}
		}
	}()
	return ch
}
