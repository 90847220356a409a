// Package demangle turns raw linker symbol names into readable names.
//
// A symbol may carry up to three encodings, applied in this order by the
// toolchain: Rust legacy mangling, Itanium C++ mangling, and the Z encoding
// used for interception specs. Demangle undoes them in reverse: Z first,
// then Itanium through a GeneralDecoder, then Rust legacy, the last only when
// the Itanium step produced a new name.
//
// Every call returns its own result. A Demangler holds no per-call state and
// may be shared between goroutines.
package demangle

import (
	"errors"
	"strings"

	itanium "github.com/ianlancetaylor/demangle"
	"go.uber.org/zap"

	"github.com/skdltmxn/symdemangle/internal/rustsym"
	"github.com/skdltmxn/symdemangle/zenc"
)

// itaniumPrefix marks names the general decoder is offered.
const itaniumPrefix = "_Z"

// Demangler runs the demangling pipeline.
type Demangler struct {
	general       GeneralDecoder
	display       bool
	fatalReserved bool
	logger        *zap.Logger
}

// Option configures a Demangler.
type Option func(*Demangler)

// WithGeneralDecoder replaces the Itanium decoder.
func WithGeneralDecoder(g GeneralDecoder) Option {
	return func(d *Demangler) { d.general = g }
}

// WithDisplay turns general demangling on or off globally, independently of
// the per-call flag. It is on by default.
func WithDisplay(enabled bool) Option {
	return func(d *Demangler) { d.display = enabled }
}

// WithFatalReservedPrefix makes Demangle panic with the *zenc.ReservedPrefixError
// when a Z-encoded symbol uses the reserved library prefix, instead of
// logging it and returning the raw name.
func WithFatalReservedPrefix(fatal bool) Option {
	return func(d *Demangler) { d.fatalReserved = fatal }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Demangler) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// New creates a Demangler. Without WithGeneralDecoder it uses an
// ItaniumDecoder with default options.
func New(opts ...Option) *Demangler {
	d := &Demangler{
		display: true,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.general == nil {
		d.general = defaultItanium
	}
	return d
}

var (
	defaultItanium = &ItaniumDecoder{options: []itanium.Option{itanium.NoRust}}
	std            = New()
)

// Demangle runs raw through the default Demangler.
func Demangle(doGeneral, doZ bool, raw string) string {
	return std.Demangle(doGeneral, doZ, raw)
}

// Demangle returns the readable form of raw. doGeneral enables the Itanium
// and Rust layers, doZ the Z layer. Any stage that is skipped or fails leaves
// the name as the previous stage produced it, so raw itself comes back when
// nothing applies.
func (d *Demangler) Demangle(doGeneral, doZ bool, raw string) string {
	name, err := d.Resolve(doGeneral, doZ, raw)
	if err != nil {
		if d.fatalReserved {
			panic(err)
		}
		d.logReserved(raw, err)
	}
	return name
}

func (d *Demangler) logReserved(raw string, err error) {
	d.logger.Error("reserved library prefix in Z-encoded symbol",
		zap.String("symbol", raw), zap.Error(err))
}

// Resolve is Demangle, except that a Z-encoded symbol with the reserved
// library prefix is reported as a *zenc.ReservedPrefixError alongside raw.
// No other condition produces an error.
func (d *Demangler) Resolve(doGeneral, doZ bool, raw string) (string, error) {
	name := raw

	if doZ {
		fn, err := zenc.DecodeFunction(raw)
		var syntaxErr *zenc.SyntaxError
		switch {
		case err == nil:
			// The library name only matters to the interception machinery.
			name = fn
		case errors.Is(err, zenc.ErrReservedPrefix):
			return raw, err
		case errors.As(err, &syntaxErr):
			d.logger.Warn("error Z-demangling",
				zap.String("symbol", raw),
				zap.Int("offset", syntaxErr.Offset),
				zap.String("reason", syntaxErr.Message))
		}
	}

	if !doGeneral || !d.display || !strings.HasPrefix(name, itaniumPrefix) {
		return name, nil
	}

	out, ok := d.general.Decode(name)
	if !ok {
		return name, nil
	}

	// Only a name the general decoder just produced is known to be ours to
	// rewrite, so the Rust layer runs here and nowhere else.
	if rustsym.IsMangled(out) {
		out = rustsym.Demangle(out)
	}
	return out, nil
}
