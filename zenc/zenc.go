// Package zenc decodes and encodes Z-encoded interception specs.
//
// A Z-encoded symbol packs a library name, a function name and a few small
// integers into one legal linker symbol:
//
//	_vg<r|w><TTTT><P>Z<Z|U>_<library>_<function>
//
// r/w selects redirect or wrap, TTTT is the equivalence-class tag, P the
// equivalence-class priority, and Z/U says whether the function segment is
// escaped. The library segment is always escaped; it ends at the first
// unescaped underscore. Escapes are a 'Z' followed by a letter from
// escape.Z.
package zenc

import (
	"fmt"
	"strings"

	"github.com/skdltmxn/symdemangle/internal/escape"
	"github.com/skdltmxn/symdemangle/internal/scan"
)

// Header layout.
const (
	Prefix         = "_vg"
	ReservedPrefix = "VG_Z_"

	headerLen = 12 // "_vg" + kind + 5 digits + 'Z' + mode + '_'

	kindRedirect = 'r'
	kindWrap     = 'w'
	modeEscaped  = 'Z'
	modePlain    = 'U'
)

// Limits on the numeric header fields.
const (
	MaxEClassTag  = 9999
	MaxEClassPrio = 9
)

// Spec is a decoded interception spec.
type Spec struct {
	Library    string
	Function   string
	Wrap       bool
	EClassTag  int
	EClassPrio int
}

// Decode parses sym as a Z-encoded spec.
//
// A symbol whose header does not match returns ErrNotZSpec. A matching
// header followed by a malformed body returns a *SyntaxError, and a library
// segment using the reserved prefix returns a *ReservedPrefixError.
func Decode(sym string) (Spec, error) {
	return decode(sym, true)
}

// DecodeFunction is Decode for callers that only want the function name.
// The library segment is validated but not materialized.
func DecodeFunction(sym string) (string, error) {
	spec, err := decode(sym, false)
	if err != nil {
		return "", err
	}
	return spec.Function, nil
}

// IsZSpec reports whether sym carries a valid Z header. It does not look at
// the body.
func IsZSpec(sym string) bool {
	_, ok := parseHeader(sym)
	return ok
}

type header struct {
	wrap      bool
	fnEscaped bool
	tag       int
	prio      int
}

func parseHeader(sym string) (header, bool) {
	var h header
	if len(sym) < headerLen {
		return h, false
	}

	// The length check above makes every read below succeed.
	r := scan.NewReader(sym)
	if !r.HasPrefix(Prefix) {
		return h, false
	}
	_ = r.Skip(len(Prefix))

	kind, _ := r.ReadByte()
	if kind != kindRedirect && kind != kindWrap {
		return h, false
	}
	digits, _ := r.ReadString(5)
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return h, false
		}
	}
	marker, _ := r.ReadByte()
	mode, _ := r.ReadByte()
	sep, _ := r.ReadByte()
	if marker != 'Z' || (mode != modeEscaped && mode != modePlain) || sep != '_' {
		return h, false
	}

	// Tag 0000 means "no eclass", which only makes sense with priority 0.
	if digits[:4] == "0000" && digits[4] != '0' {
		return h, false
	}

	h.wrap = kind == kindWrap
	h.fnEscaped = mode == modeEscaped
	h.tag = 1000*int(digits[0]-'0') + 100*int(digits[1]-'0') + 10*int(digits[2]-'0') + int(digits[3]-'0')
	h.prio = int(digits[4] - '0')
	return h, true
}

func decode(sym string, wantLib bool) (Spec, error) {
	h, ok := parseHeader(sym)
	if !ok {
		return Spec{}, ErrNotZSpec
	}

	r := scan.NewReader(sym)
	if err := r.Skip(headerLen); err != nil {
		return Spec{}, ErrNotZSpec
	}
	if r.HasPrefix(ReservedPrefix) {
		return Spec{}, &ReservedPrefixError{Symbol: sym}
	}

	spec := Spec{
		Wrap:       h.wrap,
		EClassTag:  h.tag,
		EClassPrio: h.prio,
	}

	var lib, fn strings.Builder
	libOut := &lib
	if !wantLib {
		libOut = nil
	}

	if err := unescape(r, sym, libOut, true); err != nil {
		return Spec{}, err
	}

	if h.fnEscaped {
		fn.Grow(r.Remaining())
		if err := unescape(r, sym, &fn, false); err != nil {
			return Spec{}, err
		}
		spec.Function = fn.String()
	} else {
		spec.Function = r.Rest()
	}

	if wantLib {
		spec.Library = lib.String()
	}
	return spec, nil
}

// unescape decodes Z-escapes from r into out (which may be nil). With
// delimited set it stops after the first unescaped '_' and fails if there is
// none; otherwise it runs to the end of the input.
func unescape(r *scan.Reader, sym string, out *strings.Builder, delimited bool) error {
	for {
		c, err := r.ReadByte()
		if err != nil {
			if delimited {
				return &SyntaxError{Symbol: sym, Offset: r.Offset(), Message: "unterminated library segment"}
			}
			return nil
		}

		if delimited && c == '_' {
			return nil
		}

		if c != escape.ZEscape {
			if out != nil {
				out.WriteByte(c)
			}
			continue
		}

		code, err := r.ReadByte()
		if err != nil {
			return &SyntaxError{Symbol: sym, Offset: r.Offset(), Message: "truncated escape"}
		}
		d, ok := escape.Z.Decode(string(code))
		if !ok {
			return &SyntaxError{
				Symbol:  sym,
				Offset:  r.Offset() - 1,
				Message: fmt.Sprintf("unknown escape Z%c", code),
			}
		}
		if out != nil {
			out.WriteByte(d)
		}
	}
}

// Encode produces the Z-encoded symbol for spec. When escapeFunction is
// false the function name is stored verbatim and must not be decoded.
func Encode(spec Spec, escapeFunction bool) (string, error) {
	if spec.EClassTag < 0 || spec.EClassTag > MaxEClassTag {
		return "", fmt.Errorf("%w: eclass tag %d out of range", ErrInvalidSpec, spec.EClassTag)
	}
	if spec.EClassPrio < 0 || spec.EClassPrio > MaxEClassPrio {
		return "", fmt.Errorf("%w: eclass priority %d out of range", ErrInvalidSpec, spec.EClassPrio)
	}
	if spec.EClassTag == 0 && spec.EClassPrio != 0 {
		return "", fmt.Errorf("%w: priority %d without an eclass tag", ErrInvalidSpec, spec.EClassPrio)
	}

	var b strings.Builder
	b.Grow(headerLen + 2*(len(spec.Library)+len(spec.Function)))
	b.WriteString(Prefix)
	if spec.Wrap {
		b.WriteByte(kindWrap)
	} else {
		b.WriteByte(kindRedirect)
	}
	fmt.Fprintf(&b, "%04d%d", spec.EClassTag, spec.EClassPrio)
	b.WriteByte('Z')
	if escapeFunction {
		b.WriteByte(modeEscaped)
	} else {
		b.WriteByte(modePlain)
	}
	b.WriteByte('_')

	b.WriteString(escapeString(spec.Library))
	b.WriteByte('_')

	if escapeFunction {
		b.WriteString(escapeString(spec.Function))
	} else {
		b.WriteString(spec.Function)
	}
	return b.String(), nil
}

func escapeString(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if code, ok := escape.Z.Encode(s[i]); ok {
			b.WriteByte(escape.ZEscape)
			b.WriteString(code)
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
