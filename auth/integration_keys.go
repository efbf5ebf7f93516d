/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/suparena/pathstore"
	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/prefs"
	"github.com/suparena/pathstore/registry"
)

const (
	// PrefKey is the preference key the integration key is remembered under. PrefOwnerKey holds
	// the uid the remembered key belongs to.
	PrefKey      = "UserIntegrationKey"
	PrefOwnerKey = "UserIntegrationKeyOwner"

	// KeysName and UserKeyName are the registry names of the two link locations.
	KeysName    = "user-integration-keys"
	UserKeyName = "user-integration-key"
)

func init() {
	registry.RegisterName(KeysName, "private/user-integration-keys")
	registry.RegisterName(UserKeyName, "private/users/{uid}/integration-key")
}

// IntegrationKeys registers and resolves the integration key of the signed-in user.
type IntegrationKeys struct {
	db     *pathstore.DB
	ids    IdentityProvider
	prefs  prefs.Store
	logger *slog.Logger

	mu  sync.Mutex
	uid string
	key string
}

// NewIntegrationKeys creates an IntegrationKeys. A nil prefs store keeps the key in memory only;
// a nil logger selects slog.Default().
func NewIntegrationKeys(db *pathstore.DB, ids IdentityProvider, store prefs.Store, logger *slog.Logger) *IntegrationKeys {
	if store == nil {
		store = prefs.NewMemory()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IntegrationKeys{db: db, ids: ids, prefs: store, logger: logger}
}

// Register generates a new integration key for uid, links it in both directions and remembers it.
func (k *IntegrationKeys) Register(ctx context.Context, uid string) (string, error) {
	if uid == "" {
		return "", errors.NewValidationError("uid", "uid is required")
	}
	keysPath, err := registry.Expand(registry.NamePrefix+KeysName, nil)
	if err != nil {
		return "", err
	}
	userPath, err := registry.Expand(registry.NamePrefix+UserKeyName, map[string]string{"uid": uid})
	if err != nil {
		return "", err
	}

	key, err := k.db.NewKey(ctx, keysPath.String())
	if err != nil {
		return "", fmt.Errorf("failed to generate integration key: %w", err)
	}
	if err := k.db.SetValue(ctx, keysPath.Child(key).String(), uid); err != nil {
		return "", err
	}
	if err := k.db.SetValue(ctx, userPath.String(), key); err != nil {
		return "", err
	}

	k.remember(uid, key)
	k.logger.Info("registered integration key", "uid", uid)
	return key, nil
}

// Key returns the integration key of the signed-in user, from memory, then preferences, then
// the store. A remembered key is only used when it was stored for the same user.
func (k *IntegrationKeys) Key(ctx context.Context) (string, error) {
	uid, ok := k.ids.CurrentIdentity(ctx)
	if !ok {
		return "", errors.NewIdentityMissingError("integration key")
	}

	k.mu.Lock()
	cached, owner := k.key, k.uid
	k.mu.Unlock()
	if cached != "" && owner == uid {
		return cached, nil
	}

	if v, ok := k.prefs.Get(PrefKey); ok && v != "" {
		if o, _ := k.prefs.Get(PrefOwnerKey); o == uid {
			k.mu.Lock()
			k.uid, k.key = uid, v
			k.mu.Unlock()
			return v, nil
		}
	}

	userPath, err := registry.Expand(registry.NamePrefix+UserKeyName, map[string]string{"uid": uid})
	if err != nil {
		return "", err
	}
	raw, found, err := k.db.Get(ctx, userPath.String())
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.NewNotFoundError(userPath.String())
	}
	key, ok := raw.(string)
	if !ok || key == "" {
		return "", errors.NewMalformedPayloadError(userPath.String(),
			fmt.Errorf("expected a string key, got %T", raw))
	}
	k.remember(uid, key)
	return key, nil
}

// Forget drops the remembered key, as on sign-out. The store links are kept.
func (k *IntegrationKeys) Forget() {
	k.remember("", "")
}

// remember caches key for uid in memory and in preferences.
func (k *IntegrationKeys) remember(uid, key string) {
	k.mu.Lock()
	k.uid, k.key = uid, key
	k.mu.Unlock()

	if err := k.prefs.Set(PrefKey, key); err != nil {
		k.logger.Warn("failed to remember integration key", "uid", uid, "error", err)
		return
	}
	if err := k.prefs.Set(PrefOwnerKey, uid); err != nil {
		k.logger.Warn("failed to remember integration key owner", "uid", uid, "error", err)
	}
}
