package profile

import (
	"encoding/json"
	"reflect"
	"sort"
)

// Change records one leaf that differs between two documents.
// BeforeSet and AfterSet are false when the path is absent on that side.
type Change struct {
	Path      string `json:"path"`
	Before    any    `json:"before,omitempty"`
	BeforeSet bool   `json:"-"`
	After     any    `json:"after,omitempty"`
	AfterSet  bool   `json:"-"`
}

// DeepMerge overlays source onto target. Objects merge recursively; arrays and scalars
// from source replace the target value. Neither input is modified.
func DeepMerge(target any, source any) any {
	switch typedSource := source.(type) {
	case []any:
		replacement := make([]any, len(typedSource))
		copy(replacement, typedSource)
		return replacement
	case map[string]any:
		merged := map[string]any{}
		if typedTarget, isObject := target.(map[string]any); isObject {
			for key, value := range typedTarget {
				merged[key] = value
			}
		}
		for key, value := range typedSource {
			merged[key] = DeepMerge(merged[key], value)
		}
		return merged
	default:
		return source
	}
}

// Diff lists the dotted paths whose values differ between before and after.
// Objects present on both sides are compared key by key in sorted order.
func Diff(before map[string]any, after map[string]any) []Change {
	return diffObjects(before, after, "")
}

func diffObjects(before map[string]any, after map[string]any, prefix string) []Change {
	keySet := map[string]struct{}{}
	for key := range before {
		keySet[key] = struct{}{}
	}
	for key := range after {
		keySet[key] = struct{}{}
	}
	keys := make([]string, 0, len(keySet))
	for key := range keySet {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var changes []Change
	for _, key := range keys {
		path := key
		if len(prefix) > 0 {
			path = prefix + "." + key
		}
		beforeValue, beforeSet := before[key]
		afterValue, afterSet := after[key]

		beforeObject, beforeIsObject := beforeValue.(map[string]any)
		afterObject, afterIsObject := afterValue.(map[string]any)
		if beforeIsObject && afterIsObject {
			changes = append(changes, diffObjects(beforeObject, afterObject, path)...)
			continue
		}

		if beforeSet == afterSet && sameValue(beforeValue, afterValue) {
			continue
		}
		changes = append(changes, Change{Path: path, Before: beforeValue, BeforeSet: beforeSet, After: afterValue, AfterSet: afterSet})
	}
	return changes
}

func sameValue(left any, right any) bool {
	leftEncoded, leftError := json.Marshal(left)
	rightEncoded, rightError := json.Marshal(right)
	if leftError != nil || rightError != nil {
		return reflect.DeepEqual(left, right)
	}
	return string(leftEncoded) == string(rightEncoded)
}
