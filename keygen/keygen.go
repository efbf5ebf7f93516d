/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package keygen produces child keys for new nodes.
package keygen

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator returns a fresh key on every call. Implementations are safe for concurrent use.
type Generator interface {
	NewKey() string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func() string

func (f GeneratorFunc) NewKey() string { return f() }

// UUID generates random version 4 UUIDs.
type UUID struct{}

func (UUID) NewKey() string {
	return uuid.NewString()
}

// pushChars is ordered by ASCII value so keys sort by creation time.
const pushChars = "-0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ_abcdefghijklmnopqrstuvwxyz"

const (
	timeChars   = 8
	randomChars = 12
)

// PushID generates 20-character keys that sort lexicographically in creation order: 8 characters
// of millisecond timestamp followed by 12 random characters. Keys generated within the same
// millisecond increment the random part, so they stay ordered and distinct.
type PushID struct {
	mu       sync.Mutex
	now      func() time.Time
	lastTime int64
	lastRand [randomChars]int
}

// NewPushID returns a push-ID generator using the wall clock.
func NewPushID() *PushID {
	return &PushID{now: time.Now}
}

func (g *PushID) NewKey() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now().UnixMilli()
	if now == g.lastTime {
		// carry into the next position when a digit overflows
		i := randomChars - 1
		for ; i >= 0 && g.lastRand[i] == len(pushChars)-1; i-- {
			g.lastRand[i] = 0
		}
		if i >= 0 {
			g.lastRand[i]++
		}
	} else {
		for i := range g.lastRand {
			g.lastRand[i] = rand.Intn(len(pushChars))
		}
	}
	g.lastTime = now

	var b strings.Builder
	b.Grow(timeChars + randomChars)
	var ts [timeChars]byte
	for i := timeChars - 1; i >= 0; i-- {
		ts[i] = pushChars[now%int64(len(pushChars))]
		now /= int64(len(pushChars))
	}
	b.Write(ts[:])
	for _, r := range g.lastRand {
		b.WriteByte(pushChars[r])
	}
	return b.String()
}

// PushTime recovers the creation time encoded in a push ID.
func PushTime(key string) (time.Time, bool) {
	if len(key) != timeChars+randomChars {
		return time.Time{}, false
	}
	var ms int64
	for i := 0; i < timeChars; i++ {
		idx := strings.IndexByte(pushChars, key[i])
		if idx < 0 {
			return time.Time{}, false
		}
		ms = ms*int64(len(pushChars)) + int64(idx)
	}
	return time.UnixMilli(ms), true
}

// Default returns the generator used when none is configured.
func Default() Generator {
	return NewPushID()
}

// Named returns the generator called name ("push" or "uuid").
func Named(name string) (Generator, bool) {
	switch strings.ToLower(name) {
	case "", "push":
		return NewPushID(), true
	case "uuid":
		return UUID{}, true
	}
	return nil, false
}
