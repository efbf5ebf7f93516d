/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/suparena/pathstore/errors"
	"github.com/suparena/pathstore/storagemodels"
)

// NamePrefix marks a raw path as a reference to a named template.
const NamePrefix = "@"

var (
	nameRegistry = make(map[string]string)
	nameMu       sync.RWMutex
)

// RegisterName registers a path template under name.
// If a template is already registered under name, it panics to prevent accidental overrides.
func RegisterName(name, template string) {
	nameMu.Lock()
	defer nameMu.Unlock()
	if _, exists := nameRegistry[name]; exists {
		panic(fmt.Sprintf("path registry: name %q already registered", name))
	}
	nameRegistry[name] = template
}

// Lookup returns the template registered under name.
func Lookup(name string) (string, error) {
	nameMu.RLock()
	defer nameMu.RUnlock()
	tmpl, ok := nameRegistry[name]
	if !ok {
		return "", errors.NewValidationError("name", fmt.Sprintf("no path registered under %q", name))
	}
	return tmpl, nil
}

// Names lists the registered names in sorted order.
func Names() []string {
	nameMu.RLock()
	defer nameMu.RUnlock()
	names := make([]string, 0, len(nameRegistry))
	for n := range nameRegistry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Expand resolves raw into a path. A raw value of the form "@name/rest" expands the template
// registered under name and appends rest; anything else is expanded as a template itself. Macros
// follow the rules of storagemodels.ExpandPathStrict.
func Expand(raw string, vars map[string]string) (storagemodels.Path, error) {
	if !strings.HasPrefix(raw, NamePrefix) {
		return storagemodels.ExpandPathStrict(raw, vars)
	}
	name, rest, _ := strings.Cut(strings.TrimPrefix(raw, NamePrefix), storagemodels.Separator)
	tmpl, err := Lookup(name)
	if err != nil {
		return storagemodels.Path{}, err
	}
	base, err := storagemodels.ExpandPathStrict(tmpl, vars)
	if err != nil {
		return storagemodels.Path{}, err
	}
	sub, err := storagemodels.ExpandPathStrict(rest, vars)
	if err != nil {
		return storagemodels.Path{}, err
	}
	return base.Join(sub), nil
}
