package phrasekit

import (
	"fmt"
	"strings"
)

// Tree is one loaded message source: a mapping from path segments to values.
// After normalization a value is always one of string, []string, or a nested
// Tree. Loaders must return trees the Resolver may retain and modify.
type Tree map[string]any

// normalizeTree converts freshly unmarshalled data (JSON/YAML/TOML) into a
// Tree with the closed value set. Scalars other than strings are rendered
// with their default formatting, matching how nested translation maps are
// usually authored (counts, versions). Lists may only contain scalars.
func normalizeTree(data map[string]any) (Tree, error) {
	tree := make(Tree, len(data))

	for key, value := range data {
		normalized, err := normalizeValue(value)
		if err != nil {
			return nil, fmt.Errorf("%w: key %q: %s", ErrMalformedSource, key, err)
		}
		tree[key] = normalized
	}

	return tree, nil
}

func normalizeValue(value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case map[string]any:
		return normalizeTree(v)
	case map[string]string:
		sub := make(Tree, len(v))
		for k, s := range v {
			sub[k] = s
		}
		return sub, nil
	case []any:
		list := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				list = append(list, s)
			case map[string]any, []any:
				return nil, fmt.Errorf("list element must be a scalar, got %T", item)
			default:
				list = append(list, fmt.Sprintf("%v", item))
			}
		}
		return list, nil
	case []string:
		return v, nil
	case nil:
		return nil, fmt.Errorf("null value")
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// mergeTree merges src into dst recursively. Branches are merged key by key;
// everything else is last-wins, so a later scalar replaces an earlier branch
// and vice versa. Returns dst for convenience.
func mergeTree(dst, src Tree) Tree {
	for key, value := range src {
		if srcSub, ok := value.(Tree); ok {
			if dstSub, ok := dst[key].(Tree); ok {
				dst[key] = mergeTree(dstSub, srcSub)
				continue
			}
		}
		dst[key] = value
	}
	return dst
}

// extract resolves a dotted path within the tree using three ordered
// attempts, first hit wins:
//
//  1. the whole path as a single literal key (leaf names may contain dots)
//  2. a segment-by-segment walk from the root
//  3. the path split at its first dot, with the remainder used as one
//     literal key inside the first segment's branch
//
// The returned value may be a branch; callers decide what that means.
func (t Tree) extract(path string) (any, bool) {
	if value, ok := t[path]; ok {
		return value, true
	}

	if value, ok := t.walk(path); ok {
		return value, true
	}

	first, rest, found := strings.Cut(path, ".")
	if found {
		if sub, ok := t[first].(Tree); ok {
			if value, ok := sub[rest]; ok {
				return value, true
			}
		}
	}

	return nil, false
}

func (t Tree) walk(path string) (any, bool) {
	var current any = t

	for _, segment := range strings.Split(path, ".") {
		branch, ok := current.(Tree)
		if !ok {
			return nil, false
		}
		current, ok = branch[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}
