package zenc

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions.
var (
	// ErrNotZSpec indicates the symbol is not a Z-encoded interception spec.
	ErrNotZSpec = errors.New("zenc: not a Z-encoded symbol")

	// ErrReservedPrefix indicates a library name that uses the reserved
	// VG_Z_ prefix.
	ErrReservedPrefix = errors.New("zenc: reserved library prefix")

	// ErrInvalidSpec indicates a Spec that cannot be encoded.
	ErrInvalidSpec = errors.New("zenc: invalid spec")
)

// SyntaxError describes a symbol that carries a valid Z header but whose
// body is malformed. It matches ErrNotZSpec with errors.Is.
type SyntaxError struct {
	Symbol  string // Symbol being decoded
	Offset  int    // Byte offset of the problem
	Message string // Description of the error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("zenc: error Z-demangling %q at offset %d: %s",
		e.Symbol, e.Offset, e.Message)
}

func (e *SyntaxError) Unwrap() error { return ErrNotZSpec }

// ReservedPrefixError reports a library segment starting with ReservedPrefix.
// This is a naming-convention bug on the producer side, not bad input; callers
// usually treat it as fatal.
type ReservedPrefixError struct {
	Symbol string
}

func (e *ReservedPrefixError) Error() string {
	return fmt.Sprintf("zenc: symbol with a %q prefix: %s", ReservedPrefix, e.Symbol)
}

func (e *ReservedPrefixError) Unwrap() error { return ErrReservedPrefix }
