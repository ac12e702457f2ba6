package resource

import (
	"sort"
	"strings"
	"unicode"
)

// CanonicalTagName canonicalizes an element or attribute name to
// kebab-case (§3.2 invariant 1): "FooBar" -> "foo-bar", "foo_bar" ->
// "foo-bar", "foo-bar" -> "foo-bar" (idempotent).
func CanonicalTagName(name string) string {
	return kebab(name)
}

// CanonicalLowerTrim canonicalizes a value-converter or binding-behavior
// name: lowercase, trimmed.
func CanonicalLowerTrim(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// CanonicalBindableName canonicalizes a bindable property name to
// camelCase: "foo-bar" -> "fooBar", "FooBar" -> "fooBar".
func CanonicalBindableName(name string) string {
	return camel(name)
}

// CanonicalAliases canonicalizes, deduplicates, and lexicographically
// sorts an alias list (§3.2 invariant 2). Aliases are kebab-cased the same
// way tag names are.
func CanonicalAliases(xs []string) []string {
	seen := make(map[string]bool, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		c := kebab(x)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// kebab is total (never panics, handles empty/odd input) and idempotent.
func kebab(s string) string {
	var b strings.Builder
	var prev rune
	havePrev := false
	for _, r := range s {
		switch {
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
			havePrev = false
			continue
		case unicode.IsUpper(r):
			if havePrev && (unicode.IsLower(prev) || unicode.IsDigit(prev)) {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToLower(r))
		default:
			// Drop anything else (punctuation outside identifier grammar).
			havePrev = false
			continue
		}
		prev = r
		havePrev = true
	}
	return strings.Trim(b.String(), "-")
}

// camel is total and idempotent: re-camel-casing an already camelCase
// string is a no-op because there are no separators left to split on.
func camel(s string) string {
	parts := splitWords(s)
	if len(parts) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(strings.ToLower(p))
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(strings.ToLower(p[1:]))
	}
	return b.String()
}

func splitWords(s string) []string {
	var words []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			words = append(words, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '-' || r == '_' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r):
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1])) {
				flush()
			}
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return words
}
