package infinite

import (
	"net/url"
	"strings"
)

// Path joins base and segments with "/", escaping each segment on its own.
func Path(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

// PathTrimmed is Path without trailing empty segments, so an omitted
// optional last argument does not leave a trailing slash.
func PathTrimmed(base string, segments ...string) string {
	for len(segments) > 0 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	return Path(base, segments...)
}
