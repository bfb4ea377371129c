// Package phrasekit resolves human-readable, locale-specific messages from
// dotted lookup keys, loading the backing sources lazily and caching them for
// the lifetime of a Resolver instance.
//
// The first segment of a key names a source; the rest is a path within it.
// Sources load on first use, per locale, at most once. Missing keys never
// fail: lookups fall back from the active locale to its language-only base,
// then to the fallback locale, and finally degrade to the literal key.
//
// # Basic Usage
//
// Create a Resolver over a translations directory and look up messages:
//
//	//go:embed translations
//	var translationsFS embed.FS
//
//	subFS, _ := fs.Sub(translationsFS, "translations")
//	resolver, err := phrasekit.New(
//		phrasekit.NewDirLoader(subFS),
//		phrasekit.WithLocale("fr-FR"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	msg, _ := resolver.Lookup("validation.required")
//	fmt.Println(msg)
//
// File convention: {locale}/{source}.{json,yaml,yml,toml}
//
//	en/validation.yaml
//	en/errors.json
//	fr-FR/validation.yaml
//
// # Locale Fallback
//
// A lookup under "fr-FR" that misses tries "fr", then the fallback locale
// ("en" unless changed with WithFallbackLocale). A key absent everywhere
// resolves to itself:
//
//	resolver.SetLocale("fr")
//	msg, _ := resolver.Lookup("validation.missing")
//	// msg.String() == "validation.missing"
//
// # Multiple Search Roots
//
// NewDirLoader accepts several roots. Sources with the same name merge in
// root order, later roots overriding earlier ones at matching paths, so an
// application can layer its own messages over a library's defaults:
//
//	loader := phrasekit.NewDirLoader(defaultsFS, overridesFS)
//
// # Formatting
//
// An optional Formatter substitutes named arguments into resolved messages.
// The shipped MessageFormatter understands ICU-style patterns with plural
// and select forms, using CLDR plural rules for the active locale:
//
//	resolver, _ := phrasekit.New(loader,
//		phrasekit.WithFormatter(phrasekit.NewMessageFormatter()),
//	)
//
//	// inbox.unread: "{count, plural, =0 {No mail} one {One message} other {# messages}}"
//	msg, err := resolver.Lookup("inbox.unread", phrasekit.M{"count": 3})
//
// Without a formatter, or without arguments, values pass through unchanged.
// Formatter errors (malformed patterns, missing arguments) are returned to
// the caller rather than masked.
//
// # HTTP Middleware
//
// The middleware subpackage detects the request locale (cookie, query or
// route parameter, Accept-Language) and injects a request-scoped Resolver
// into the context.
//
// # Concurrency
//
// A Resolver populates its caches on demand and is not safe for concurrent
// use. Create one per request or goroutine, or serialize access externally.
// Construction is cheap, and instances can share a single Loader.
package phrasekit
