package phrasekit

import (
	"strings"

	"golang.org/x/text/language"
)

// baseLocale strips the region from a locale (e.g. "fr-FR" becomes "fr").
// Returns the input unchanged if there is no region.
func baseLocale(locale string) string {
	if i := strings.IndexByte(locale, '-'); i > 0 {
		return locale[:i]
	}
	return locale
}

// MatchLocale picks the best match for an Accept-Language header from the
// available locales. Unparseable headers and misses fall back to the first
// available locale; an empty available list yields an empty string.
//
// Example header: "en-US,en;q=0.9,pl;q=0.8"
// Available: ["pl", "en", "de"]
// Returns: "en"
func MatchLocale(acceptLanguage string, available []string) string {
	if len(available) == 0 {
		return ""
	}

	tags := make([]language.Tag, 0, len(available))
	locales := make([]string, 0, len(available))
	for _, locale := range available {
		tag, err := language.Parse(locale)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		locales = append(locales, locale)
	}
	if len(tags) == 0 {
		return available[0]
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(desired) == 0 {
		return available[0]
	}

	_, index, confidence := language.NewMatcher(tags).Match(desired...)
	if confidence == language.No {
		return available[0]
	}

	return locales[index]
}
