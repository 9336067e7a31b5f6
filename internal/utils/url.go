// url.go
//
// Samsyn - collaborative marine spatial planning backend
// Copyright (c) 2026 Mistra C2B2
//
// This file is part of samsyn-sub000, released under the terms of the
// GNU Affero General Public License version 3 or (at your option) any
// later version. See <https://www.gnu.org/licenses/> for details.

package utils

import (
	"net/url"
	"regexp"
	"strings"
)

// NormalizeURL canonicalizes a URL string so that semantically equivalent
// URLs compare equal: scheme and host are lowercased, a single trailing
// slash is stripped from a non-root path, query parameters are re-encoded
// with keys sorted, and any fragment is dropped. The path keeps its case
// because object-storage paths are case-sensitive.
//
// NormalizeURL is idempotent. Unparseable input is returned trimmed but
// otherwise untouched.
func NormalizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	u, err := url.Parse(s)
	if err != nil {
		return s
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	if len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
		u.Path = u.Path[:len(u.Path)-1]
		u.RawPath = ""
	}

	if u.RawQuery != "" {
		if q, qerr := url.ParseQuery(u.RawQuery); qerr == nil {
			// Encode sorts keys lexicographically and keeps blank values
			u.RawQuery = q.Encode()
		}
	}

	u.Fragment = ""
	u.RawFragment = ""

	return u.String()
}

// tilePlaceholders maps each template placeholder to its literal and
// percent-encoded spellings. Normalization may have escaped the braces,
// so both forms must substitute.
var tilePlaceholders = []struct{ literal, encoded string }{
	{`\{z\}`, `%7Bz%7D`},
	{`\{x\}`, `%7Bx%7D`},
	{`\{y\}`, `%7By%7D`},
}

// MatchesTemplate reports whether tileURL matches template with each of
// the {z}, {x} and {y} placeholders replaced by one or more decimal
// digits. The match is anchored at both ends and every other template
// character is literal.
func MatchesTemplate(tileURL, template string) bool {
	pattern := regexp.QuoteMeta(template)
	for _, p := range tilePlaceholders {
		pattern = strings.ReplaceAll(pattern, p.literal, `[0-9]+`)
		pattern = strings.ReplaceAll(pattern, p.encoded, `[0-9]+`)
	}

	re, err := regexp.Compile("^" + pattern + "$")
	if err != nil {
		return false
	}
	return re.MatchString(tileURL)
}
