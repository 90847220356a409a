package demangle

import (
	"errors"
	"fmt"

	itanium "github.com/ianlancetaylor/demangle"
)

// ErrUnknownOption indicates an unrecognised general decoder option name.
var ErrUnknownOption = errors.New("demangle: unknown option")

// GeneralDecoder undoes the general (Itanium C++) mangling layer.
//
// Decode returns a freshly produced name and true, or false when name could
// not be decoded.
type GeneralDecoder interface {
	Decode(name string) (string, bool)
}

// GeneralDecoderFunc adapts a function to GeneralDecoder.
type GeneralDecoderFunc func(name string) (string, bool)

// Decode calls f(name).
func (f GeneralDecoderFunc) Decode(name string) (string, bool) { return f(name) }

// Names accepted by NewItaniumDecoder.
var GeneralOptions = []string{
	"no_params",
	"no_template_params",
	"no_enclosing_params",
	"no_clones",
	"verbose",
	"llvm_style",
}

var generalOptionMappings = map[string]itanium.Option{
	GeneralOptions[0]: itanium.NoParams,
	GeneralOptions[1]: itanium.NoTemplateParams,
	GeneralOptions[2]: itanium.NoEnclosingParams,
	GeneralOptions[3]: itanium.NoClones,
	GeneralOptions[4]: itanium.Verbose,
	GeneralOptions[5]: itanium.LLVMStyle,
}

// ItaniumDecoder decodes Itanium C++ names with
// github.com/ianlancetaylor/demangle. Rust legacy handling in that package
// is always disabled; the Demangler applies its own layer on top.
type ItaniumDecoder struct {
	options []itanium.Option
}

// NewItaniumDecoder creates a decoder with the named options.
func NewItaniumDecoder(options ...string) (*ItaniumDecoder, error) {
	opts := []itanium.Option{itanium.NoRust}
	for _, name := range options {
		opt, ok := generalOptionMappings[name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownOption, name)
		}
		opts = append(opts, opt)
	}
	return &ItaniumDecoder{options: opts}, nil
}

// Decode implements GeneralDecoder.
func (d *ItaniumDecoder) Decode(name string) (string, bool) {
	out, err := itanium.ToString(name, d.options...)
	if err != nil {
		return "", false
	}
	return out, true
}
