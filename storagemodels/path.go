/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/suparena/pathstore/errors"
)

// Separator delimits path segments. There is no escape for a literal separator inside a segment.
const Separator = "/"

// Path is a normalized location in the hierarchical tree: an ordered list of non-empty segments.
// The zero value is the root. Paths are immutable; every method that derives a path returns a copy.
type Path struct {
	segments []string
}

// RootPath returns the path of the tree root.
func RootPath() Path {
	return Path{}
}

// ParsePath splits raw on the separator and drops empty segments, so "a//b/", "/a/b" and "a/b"
// address the same node. Any string resolves; the empty string resolves to the root.
func ParsePath(raw string) Path {
	parts := strings.Split(raw, Separator)
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	if len(segments) == 0 {
		return Path{}
	}
	return Path{segments: segments}
}

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// ExpandPath replaces {name} macros in template with vars[name] and parses the result.
// A macro without a value expands to nothing and its segment disappears.
func ExpandPath(template string, vars map[string]string) Path {
	expanded := macroPattern.ReplaceAllStringFunc(template, func(macro string) string {
		return vars[strings.Trim(macro, "{}")]
	})
	return ParsePath(expanded)
}

// ExpandPathStrict is ExpandPath for templates whose variables come from callers. Every macro must
// have a value and each value must be a single valid key, so a variable can neither vanish nor
// add segments.
func ExpandPathStrict(template string, vars map[string]string) (Path, error) {
	for _, m := range macroPattern.FindAllStringSubmatch(template, -1) {
		v, ok := vars[m[1]]
		if !ok {
			return Path{}, errors.NewValidationError(m[1], fmt.Sprintf("no value for {%s} in %q", m[1], template))
		}
		if err := ValidateKey(v); err != nil {
			return Path{}, errors.NewValidationError(m[1], fmt.Sprintf("invalid value %q: %v", v, err))
		}
	}
	return ExpandPath(template, vars), nil
}

// String joins the segments with the separator. The root renders as "".
func (p Path) String() string {
	return strings.Join(p.segments, Separator)
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether p addresses the tree root.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Key returns the last segment, the store key of the node. The root has no key.
func (p Path) Key() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the enclosing path. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p.segments) <= 1 {
		return Path{}
	}
	return Path{segments: append([]string(nil), p.segments[:len(p.segments)-1]...)}
}

// Child returns p extended by each raw argument, parsed like ParsePath.
func (p Path) Child(raw ...string) Path {
	segments := append([]string(nil), p.segments...)
	for _, r := range raw {
		segments = append(segments, ParsePath(r).segments...)
	}
	if len(segments) == 0 {
		return Path{}
	}
	return Path{segments: segments}
}

// Join returns p extended by all segments of other.
func (p Path) Join(other Path) Path {
	if other.IsRoot() {
		return p
	}
	return Path{segments: append(append([]string(nil), p.segments...), other.segments...)}
}

// Equal reports whether p and other address the same node.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is p or an ancestor of p.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i := range prefix.segments {
		if p.segments[i] != prefix.segments[i] {
			return false
		}
	}
	return true
}

// Rel returns the segments of p below base, or false when base is not a prefix of p.
func (p Path) Rel(base Path) ([]string, bool) {
	if !p.HasPrefix(base) {
		return nil, false
	}
	return append([]string(nil), p.segments[len(base.segments):]...), true
}
