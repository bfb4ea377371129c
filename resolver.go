package phrasekit

import (
	"fmt"
	"maps"
	"strings"
)

// DefaultLocale is the final fallback locale used when no other is configured.
const DefaultLocale = "en"

// M holds named arguments for message formatting.
type M map[string]any

// Resolver turns dotted lookup keys into locale-specific messages, loading
// the backing sources lazily and caching them for its own lifetime.
//
// A Resolver is not safe for concurrent use: its caches grow on demand.
// Either serialize access or create one Resolver per concurrent context
// (the middleware package does the latter).
type Resolver struct {
	loader    Loader
	formatter Formatter
	canFormat bool

	locale   string
	fallback string

	// missingHandler is called when a key resolves in no fallback tier.
	missingHandler func(locale, key string)

	// loaded records which sources have been loaded per locale, so each
	// (locale, source) pair hits the loader at most once.
	loaded map[string]map[string]struct{}
	trees  map[string]map[string]Tree
}

// Option configures the Resolver during construction.
type Option func(*Resolver) error

// New creates a Resolver backed by the given loader. The active and fallback
// locales both default to DefaultLocale. Formatting capability is fixed at
// construction: without WithFormatter, values are returned unformatted.
func New(loader Loader, opts ...Option) (*Resolver, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}

	r := &Resolver{
		loader:   loader,
		locale:   DefaultLocale,
		fallback: DefaultLocale,
		loaded:   make(map[string]map[string]struct{}),
		trees:    make(map[string]map[string]Tree),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	r.canFormat = r.formatter != nil

	return r, nil
}

// WithLocale sets the initially active locale.
func WithLocale(locale string) Option {
	return func(r *Resolver) error {
		if locale == "" {
			return ErrEmptyLocale
		}
		r.locale = locale
		return nil
	}
}

// WithFallbackLocale sets the final fallback locale tried after the active
// locale and its language-only base.
func WithFallbackLocale(locale string) Option {
	return func(r *Resolver) error {
		if locale == "" {
			return ErrEmptyLocale
		}
		r.fallback = locale
		return nil
	}
}

// WithFormatter sets the formatting collaborator applied to resolved values.
func WithFormatter(f Formatter) Option {
	return func(r *Resolver) error {
		r.formatter = f
		return nil
	}
}

// WithMissingHandler sets a handler called when a key is found in no fallback
// tier. Useful for detecting untranslated keys during development.
func WithMissingHandler(handler func(locale, key string)) Option {
	return func(r *Resolver) error {
		r.missingHandler = handler
		return nil
	}
}

// SetLocale replaces the active locale. An empty locale leaves the current
// one unchanged. Returns the resolver to allow chaining.
func (r *Resolver) SetLocale(locale string) *Resolver {
	if locale != "" {
		r.locale = locale
	}
	return r
}

// Locale returns the currently active locale.
func (r *Resolver) Locale() string {
	return r.locale
}

// Lookup resolves a dotted key into a message under the active locale.
//
// The first dot-segment names the source; the remainder is the path within
// it. A key without a dot is treated as a literal message. Missing keys are
// retried under the language-only base locale and then the fallback locale;
// if no tier has the key, the literal key itself is returned. Arguments are
// formatted under the active locale regardless of which tier supplied the
// value.
//
// Absence is never an error. Errors are reserved for structurally broken
// source data and formatter failures, which are returned as-is.
func (r *Resolver) Lookup(key string, args ...M) (Value, error) {
	merged := mergeArgs(args)

	source, path, found := strings.Cut(key, ".")
	if !found {
		return r.formatValue(scalarValue(key), merged)
	}

	for _, locale := range r.localeChain() {
		tree, err := r.ensureLoaded(locale, source)
		if err != nil {
			return Value{}, err
		}

		raw, ok := tree.extract(path)
		if !ok {
			continue
		}

		// A branch is not a message; keep falling back.
		value, ok := messageValue(raw)
		if !ok {
			continue
		}

		return r.formatValue(value, merged)
	}

	if r.missingHandler != nil {
		r.missingHandler(r.locale, key)
	}

	return r.formatValue(scalarValue(key), merged)
}

// localeChain returns the fallback tiers for the active locale: the locale
// itself, its language-only base if it has a region, and the fallback
// locale. Tiers repeating an earlier one are dropped; loads are idempotent,
// so skipping a duplicate tier is not observable.
func (r *Resolver) localeChain() []string {
	chain := []string{r.locale}

	if base := baseLocale(r.locale); base != r.locale {
		chain = append(chain, base)
	}

	for _, seen := range chain {
		if seen == r.fallback {
			return chain
		}
	}

	return append(chain, r.fallback)
}

// ensureLoaded returns the merged tree for a (locale, source) pair, asking
// the loader only on the first call. Discovered trees merge in order, later
// trees winning at matching paths. Load failures are not cached, so broken
// source data keeps surfacing instead of degrading into an empty tree.
func (r *Resolver) ensureLoaded(locale, source string) (Tree, error) {
	if set, ok := r.loaded[locale]; ok {
		if _, ok := set[source]; ok {
			return r.trees[locale][source], nil
		}
	}

	raw, err := r.loader.Load(locale, source)
	if err != nil {
		return nil, err
	}

	var tree Tree
	switch len(raw) {
	case 0:
		tree = Tree{}
	case 1:
		tree = raw[0]
	default:
		tree = Tree{}
		for _, t := range raw {
			tree = mergeTree(tree, t)
		}
	}

	if r.loaded[locale] == nil {
		r.loaded[locale] = make(map[string]struct{})
		r.trees[locale] = make(map[string]Tree)
	}
	r.loaded[locale][source] = struct{}{}
	r.trees[locale][source] = tree

	return tree, nil
}

// formatValue applies the formatter to a resolved value under the active
// locale. Without a formatter, or without arguments, the value passes
// through unchanged. List values are formatted element by element.
func (r *Resolver) formatValue(v Value, args M) (Value, error) {
	if !r.canFormat || len(args) == 0 {
		return v, nil
	}

	if !v.isList {
		formatted, err := r.formatter.Format(r.locale, v.single, args)
		if err != nil {
			return Value{}, err
		}
		return scalarValue(formatted), nil
	}

	formatted := make([]string, len(v.list))
	for i, item := range v.list {
		s, err := r.formatter.Format(r.locale, item, args)
		if err != nil {
			return Value{}, err
		}
		formatted[i] = s
	}
	return listValue(formatted), nil
}

// messageValue converts an extracted tree value into a Value. Branches
// report false.
func messageValue(raw any) (Value, bool) {
	switch v := raw.(type) {
	case string:
		return scalarValue(v), true
	case []string:
		return listValue(v), true
	default:
		return Value{}, false
	}
}

func mergeArgs(args []M) M {
	switch len(args) {
	case 0:
		return nil
	case 1:
		return args[0]
	}

	merged := make(M)
	for _, a := range args {
		maps.Copy(merged, a)
	}
	return merged
}
