package wordpress

import (
	"net/url"
	"strings"
)

// DecodeSlug returns the readable form of a slug as WordPress stores it,
// "caf%c3%a9" becomes "café". Routes and cache keys use this form because
// the router hands handlers decoded path values. Invalid escapes are kept as is.
func DecodeSlug(slug string) string {
	decoded, err := url.PathUnescape(slug)
	if err != nil {
		return slug
	}
	return decoded
}

// EncodeSlug turns a decoded slug back into the stored form, percent
// encoded with lower case hex digits the way WordPress sanitizes titles.
func EncodeSlug(slug string) string {
	escaped := url.PathEscape(slug)
	if !strings.Contains(escaped, "%") {
		return escaped
	}

	var b strings.Builder
	b.Grow(len(escaped))
	for i := 0; i < len(escaped); i++ {
		b.WriteByte(escaped[i])
		if escaped[i] == '%' && i+2 < len(escaped) {
			b.WriteString(strings.ToLower(escaped[i+1 : i+3]))
			i += 2
		}
	}
	return b.String()
}
