package filter

import (
	"strings"

	"github.com/iancoleman/orderedmap"

	"github.com/L1nMay/scanresults/internal/model"
)

// ByContent keeps hosts with any finding for which MatchLeaf finds content.
func ByContent(hosts model.HostMap, content string) model.HostMap {
	return keepIf(hosts, func(_ string, findings []model.Finding) bool {
		return anyFinding(findings, func(f *model.Finding) bool {
			return MatchLeaf(f.Tree(), content)
		})
	})
}

// MatchLeaf searches tree for content, case-insensitively. Keys are walked in
// order and string values are matched. Keys themselves are matched only on
// levels without nested maps or lists. The first nested map decides the
// result of its level alone, the first nested list decides it by matching
// any of its elements. Keys after either are never looked at.
func MatchLeaf(tree *orderedmap.OrderedMap, content string) bool {
	return matchLeaf(tree, strings.ToLower(content))
}

func matchLeaf(m *orderedmap.OrderedMap, needle string) bool {
	keys := m.Keys()

	leaf := true
	for _, k := range keys {
		v, _ := m.Get(k)
		if isNested(v) {
			leaf = false
			break
		}
	}

	for _, k := range keys {
		v, _ := m.Get(k)
		if s, ok := v.(string); ok && strings.Contains(strings.ToLower(s), needle) {
			return true
		}
		if leaf && strings.Contains(strings.ToLower(k), needle) {
			return true
		}
		switch val := v.(type) {
		case *orderedmap.OrderedMap:
			return matchLeaf(val, needle)
		case orderedmap.OrderedMap:
			return matchLeaf(&val, needle)
		case []any:
			for _, e := range val {
				if matchElem(e, needle) {
					return true
				}
			}
			return false
		}
	}
	return false
}

func matchElem(v any, needle string) bool {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		return matchLeaf(val, needle)
	case orderedmap.OrderedMap:
		return matchLeaf(&val, needle)
	case string:
		return strings.Contains(strings.ToLower(val), needle)
	default:
		return false
	}
}

func isNested(v any) bool {
	switch v.(type) {
	case *orderedmap.OrderedMap, orderedmap.OrderedMap, []any:
		return true
	}
	return false
}
