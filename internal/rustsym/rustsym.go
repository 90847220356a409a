// Package rustsym recognises and decodes Rust legacy symbol names.
//
// After the Itanium layer has been removed, a Rust legacy name looks like
//
//	_$LT$std..sys..fd..FileDesc$u20$as$u20$core..ops..Drop$GT$::drop::hc68340e1baa4987a
//
// which stands for
//
//	<std::sys::fd::FileDesc as core::ops::Drop>::drop
//
// The last path component is "h" plus a 64-bit hash in lowercase hex. Path
// components that do not start with an identifier character get a leading
// "_". Punctuation is spelled as '$' tokens (see escape.Rust), ".." means
// "::" and a single "." means "-".
package rustsym

import (
	"strings"

	"github.com/skdltmxn/symdemangle/internal/escape"
	"github.com/skdltmxn/symdemangle/internal/scan"
)

const (
	hashPrefix = "::h"
	hashLen    = 16
	suffixLen  = len(hashPrefix) + hashLen
)

// Hash digit diversity bounds, inclusive. Nearly every real hash uses between
// 5 and 15 of the 16 hex digits; anything outside that range, such as
// "haaaaaaaaaaaaaaaa", is more likely an ordinary path component. Stripping a
// real component from a non-Rust name is worse than leaving a rare Rust name
// undecoded, so these bounds lean towards rejection and must not be tightened.
const (
	MinHashDigits = 5
	MaxHashDigits = 15
)

// IsMangled reports whether sym, already passed through the Itanium decoder,
// is a Rust legacy name. It does not allocate.
func IsMangled(sym string) bool {
	if len(sym) <= suffixLen {
		return false
	}
	body := len(sym) - suffixLen
	if !isPrefixedHash(sym[body:]) {
		return false
	}
	return looksLikeRust(sym[:body])
}

func isPrefixedHash(s string) bool {
	if !strings.HasPrefix(s, hashPrefix) {
		return false
	}

	var seen uint16
	for i := len(hashPrefix); i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			seen |= 1 << (c - '0')
		case c >= 'a' && c <= 'f':
			seen |= 1 << (c - 'a' + 10)
		default:
			return false
		}
	}

	count := 0
	for ; seen != 0; seen &= seen - 1 {
		count++
	}
	return count >= MinHashDigits && count <= MaxHashDigits
}

func looksLikeRust(s string) bool {
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '$':
			_, n, ok := escape.Rust.Match(s[i:])
			if !ok {
				return false
			}
			i += n
		case c == '.':
			if strings.HasPrefix(s[i:], "...") {
				return false
			}
			i++
		case isAlnum(c) || c == '_' || c == ':':
			i++
		default:
			return false
		}
	}
	return true
}

// Demangle decodes sym. Callers check IsMangled first; Demangle itself only
// drops the last hash-sized suffix without validating it. An unexpected byte
// ends the name with a single '?'.
func Demangle(sym string) string {
	if len(sym) <= suffixLen {
		return sym
	}

	r := scan.NewReader(sym[:len(sym)-suffixLen])

	var out strings.Builder
	out.Grow(len(sym))

loop:
	for !r.EOF() {
		c := r.PeekAt(0)
		switch {
		case c == '$':
			d, n, ok := escape.Rust.Match(r.Rest())
			if !ok {
				out.WriteByte('?')
				break loop
			}
			out.WriteByte(d)
			_ = r.Skip(n)
		case c == '_':
			// The mangler prefixes "_" to components that would otherwise
			// start with an escape.
			if (r.Offset() == 0 || r.Prev() == ':') && r.PeekAt(1) == '$' {
				_ = r.Skip(1)
			} else {
				out.WriteByte(c)
				_ = r.Skip(1)
			}
		case c == '.':
			if r.PeekAt(1) == '.' {
				out.WriteString("::")
				_ = r.Skip(2)
			} else {
				out.WriteByte('-')
				_ = r.Skip(1)
			}
		case isAlnum(c) || c == ':':
			out.WriteByte(c)
			_ = r.Skip(1)
		default:
			out.WriteByte('?')
			break loop
		}
	}

	if out.Len() > len(sym) {
		panic("rustsym: decoded name overran its input")
	}
	return out.String()
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
