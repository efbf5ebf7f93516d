/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/storagemodels"
)

// pathRegistry associates Go types with collection path templates.
var (
	pathRegistry = make(map[reflect.Type]string)
	mu           sync.RWMutex
)

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// RegisterPath associates type T with a collection path template, replacing any previous one.
func RegisterPath[T any](template string) {
	mu.Lock()
	defer mu.Unlock()
	pathRegistry[typeOf[T]()] = template
}

// GetPath retrieves the template registered for type T, if any.
func GetPath[T any]() (string, bool) {
	mu.RLock()
	defer mu.RUnlock()
	tmpl, ok := pathRegistry[typeOf[T]()]
	return tmpl, ok
}

// ResolvePath expands the template registered for T with vars. Every macro in the template needs a
// value that is a single key.
func ResolvePath[T any](vars map[string]string) (storagemodels.Path, error) {
	tmpl, ok := GetPath[T]()
	if !ok {
		return storagemodels.Path{}, errors.NewValidationError("type",
			fmt.Sprintf("no path registered for %s", typeOf[T]()))
	}
	return storagemodels.ExpandPathStrict(tmpl, vars)
}

// UnregisterPath removes the template for T.
func UnregisterPath[T any]() {
	mu.Lock()
	defer mu.Unlock()
	delete(pathRegistry, typeOf[T]())
}
