package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	bruteForceMaxAttempts = 5
	bruteForceWindow      = 15 * time.Minute
	bruteForceLockout     = 5 * time.Minute
	bruteForceCleanup     = 60 * time.Second
	bruteForceMaxRecords  = 10000
)

type failureRecord struct {
	attempts  int
	firstFail time.Time
	lockedAt  time.Time
}

// BruteForceGuard tracks authentication failures per client IP and blocks
// clients that exceed the failure threshold within the tracking window.
type BruteForceGuard struct {
	mu      sync.Mutex
	records map[string]*failureRecord
	log     *logrus.Logger
}

// NewBruteForceGuard creates a new guard and starts a background cleanup goroutine
// that stops when ctx is cancelled.
func NewBruteForceGuard(ctx context.Context, log *logrus.Logger) *BruteForceGuard {
	g := &BruteForceGuard{
		records: make(map[string]*failureRecord),
		log:     log,
	}
	go g.cleanupLoop(ctx)
	return g
}

// IsBlocked returns true if the given client is currently locked out.
func (g *BruteForceGuard) IsBlocked(clientIP string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[clientIP]
	if !ok {
		return false
	}

	if !rec.lockedAt.IsZero() && time.Since(rec.lockedAt) < bruteForceLockout {
		return true
	}

	return false
}

// RecordFailure records a failed authentication attempt from the given client.
func (g *BruteForceGuard) RecordFailure(clientIP string) {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[clientIP]
	if !ok {
		if len(g.records) >= bruteForceMaxRecords {
			g.evictOldest(1)
		}
		g.records[clientIP] = &failureRecord{attempts: 1, firstFail: now}
		return
	}

	// Reset if outside the tracking window.
	if now.Sub(rec.firstFail) > bruteForceWindow {
		rec.attempts = 1
		rec.firstFail = now
		rec.lockedAt = time.Time{}
		return
	}

	rec.attempts++
	if rec.attempts >= bruteForceMaxAttempts {
		rec.lockedAt = now
		g.log.WithField("client_ip", clientIP).Warn("client locked out due to repeated auth failures")
	}
}

// Reset clears failure tracking for a client (call on successful auth).
func (g *BruteForceGuard) Reset(clientIP string) {
	g.mu.Lock()
	delete(g.records, clientIP)
	g.mu.Unlock()
}

func (g *BruteForceGuard) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(bruteForceCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			g.sweep(now)
		}
	}
}

// sweep removes expired lockouts and stale windows.
func (g *BruteForceGuard) sweep(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for ip, rec := range g.records {
		locked := !rec.lockedAt.IsZero()
		if (locked && now.Sub(rec.lockedAt) >= bruteForceLockout) || (!locked && now.Sub(rec.firstFail) >= bruteForceWindow) {
			delete(g.records, ip)
		}
	}
}

// evictOldest removes n entries with the oldest firstFail times.
// Caller must hold g.mu.
func (g *BruteForceGuard) evictOldest(n int) {
	type entry struct {
		key  string
		time time.Time
	}
	entries := make([]entry, 0, len(g.records))
	for k, rec := range g.records {
		entries = append(entries, entry{k, rec.firstFail})
	}
	// Simple selection: find and delete n oldest.
	for range n {
		oldestIdx := 0
		for i := 1; i < len(entries); i++ {
			if entries[i].time.Before(entries[oldestIdx].time) {
				oldestIdx = i
			}
		}
		delete(g.records, entries[oldestIdx].key)
		entries[oldestIdx] = entries[len(entries)-1]
		entries = entries[:len(entries)-1]
	}
}
