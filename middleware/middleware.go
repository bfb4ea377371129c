package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrasekit/phrasekit"
)

type resolverKey struct{}
type localeKey struct{}

// Source extracts a locale candidate from a request.
type Source func(r *http.Request) (string, bool)

// FromCookie returns a Source reading the locale from a cookie.
func FromCookie(name string) Source {
	return func(r *http.Request) (string, bool) {
		cookie, err := r.Cookie(name)
		if err != nil || cookie.Value == "" {
			return "", false
		}
		return cookie.Value, true
	}
}

// FromQuery returns a Source reading the locale from a query parameter.
func FromQuery(name string) Source {
	return func(r *http.Request) (string, bool) {
		value := r.URL.Query().Get(name)
		return value, value != ""
	}
}

// FromRouteParam returns a Source reading the locale from a chi route
// parameter, e.g. the {locale} in "/{locale}/docs".
func FromRouteParam(name string) Source {
	return func(r *http.Request) (string, bool) {
		value := chi.URLParam(r, name)
		return value, value != ""
	}
}

// FromAcceptLanguage returns a Source that matches the Accept-Language
// header against the available locales.
func FromAcceptLanguage(available []string) Source {
	return func(r *http.Request) (string, bool) {
		header := r.Header.Get("Accept-Language")
		if header == "" {
			return "", false
		}
		return phrasekit.MatchLocale(header, available), true
	}
}

// Config configures the Resolve middleware.
type Config struct {
	Sources   []Source
	Available []string
	sourceSet bool
}

// Option configures Config.
type Option func(*Config)

// WithSources sets a custom locale source chain, tried in order.
func WithSources(sources ...Source) Option {
	return func(cfg *Config) {
		cfg.Sources = sources
		cfg.sourceSet = true
	}
}

// WithAvailable sets the locales offered to the default Accept-Language
// source.
func WithAvailable(locales ...string) Option {
	return func(cfg *Config) {
		cfg.Available = locales
	}
}

// Resolve returns middleware that detects the request locale, builds a
// request-scoped Resolver from the factory, and stores both in the request
// context. One Resolver per request keeps the resolver's lazy caches out of
// concurrent reach; share loaded data by sharing the Loader behind the
// factory instead.
func Resolve(factory func() (*phrasekit.Resolver, error), opts ...Option) func(http.Handler) http.Handler {
	if factory == nil {
		panic("middleware: resolver factory is not provided")
	}

	cfg := &Config{}
	for _, opt := range opts {
		opt(cfg)
	}

	// Default chain: cookie, then Accept-Language.
	if !cfg.sourceSet {
		cfg.Sources = []Source{
			FromCookie("locale"),
			FromAcceptLanguage(cfg.Available),
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			resolver, err := factory()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			for _, source := range cfg.Sources {
				if locale, ok := source(r); ok && locale != "" {
					resolver.SetLocale(locale)
					break
				}
			}

			ctx := context.WithValue(r.Context(), resolverKey{}, resolver)
			ctx = context.WithValue(ctx, localeKey{}, resolver.Locale())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext extracts the request-scoped Resolver from the context.
// Returns nil if the Resolve middleware is not used.
func FromContext(ctx context.Context) *phrasekit.Resolver {
	if v, ok := ctx.Value(resolverKey{}).(*phrasekit.Resolver); ok {
		return v
	}
	return nil
}

// LocaleFromContext extracts the detected locale from the context.
// Returns an empty string if the Resolve middleware is not used.
func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(localeKey{}).(string); ok {
		return v
	}
	return ""
}
