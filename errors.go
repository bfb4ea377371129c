package phrasekit

import "errors"

var (
	ErrNilLoader       = errors.New("phrasekit: loader cannot be nil")
	ErrEmptyLocale     = errors.New("phrasekit: locale cannot be empty")
	ErrMalformedSource = errors.New("phrasekit: malformed message source")
	ErrBadPattern      = errors.New("phrasekit: malformed message pattern")
	ErrMissingArgument = errors.New("phrasekit: missing format argument")
)
