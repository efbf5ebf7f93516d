/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package auth

import (
	"context"
	"sync"
)

// IdentityProvider reports the identity of the signed-in user.
type IdentityProvider interface {
	CurrentIdentity(ctx context.Context) (string, bool)
}

// Static is an IdentityProvider with a fixed, replaceable identity.
type Static struct {
	mu  sync.RWMutex
	uid string
}

// NewStatic returns a provider signed in as uid. An empty uid means nobody is signed in.
func NewStatic(uid string) *Static {
	return &Static{uid: uid}
}

func (s *Static) CurrentIdentity(ctx context.Context) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.uid, s.uid != ""
}

// SignIn replaces the current identity.
func (s *Static) SignIn(uid string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uid = uid
}

// SignOut clears the current identity.
func (s *Static) SignOut() {
	s.SignIn("")
}
