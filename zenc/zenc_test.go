package zenc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		sym  string
		want Spec
	}{
		{
			name: "plain redirect",
			sym:  "_vgr00000ZU_foo_bar",
			want: Spec{Library: "foo", Function: "bar"},
		},
		{
			name: "escaped soname",
			sym:  "_vgr00000ZU_libfooZdsoZd1_bar",
			want: Spec{Library: "libfoo.so.1", Function: "bar"},
		},
		{
			name: "colon and space",
			sym:  "_vgr00000ZU_libZcZsfoo_bar",
			want: Spec{Library: "lib: foo", Function: "bar"},
		},
		{
			name: "wrap with eclass",
			sym:  "_vgw12345ZZ_libcZdsoZa_mallocZLZR",
			want: Spec{Library: "libc.so*", Function: "malloc()", Wrap: true, EClassTag: 1234, EClassPrio: 5},
		},
		{
			name: "every escape",
			sym:  "_vgr99999ZZ_ZaZcZdZhZpZsZuZAZDZLZPZRZSZZ_ZaZcZdZhZpZsZuZAZDZLZPZRZSZZ",
			want: Spec{
				Library:    "*:.-+ _@$(%)/Z",
				Function:   "*:.-+ _@$(%)/Z",
				EClassTag:  9999,
				EClassPrio: 9,
			},
		},
		{
			name: "plain function keeps underscores and Z",
			sym:  "_vgr00000ZU_NONE_operator_new_Zq",
			want: Spec{Library: "NONE", Function: "operator_new_Zq"},
		},
		{
			name: "escaped underscore in function",
			sym:  "_vgr00000ZZ_libcZdsoZa_Zuexit",
			want: Spec{Library: "libc.so*", Function: "_exit"},
		},
		{
			name: "empty segments",
			sym:  "_vgr00000ZU__",
			want: Spec{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.sym)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(%q) mismatch (-want +got):\n%s", tt.sym, diff)
			}

			fn, err := DecodeFunction(tt.sym)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Function, fn)
			assert.True(t, IsZSpec(tt.sym))
		})
	}
}

func TestDecodeNotZSpec(t *testing.T) {
	tests := []string{
		"",
		"_vg",
		"main",
		"_ZN3foo3barEv",
		"_vgx00000ZU_foo_bar",
		"_vgr0000aZU_foo_bar",
		"_vgr00000XU_foo_bar",
		"_vgr00000ZX_foo_bar",
		"_vgr00000ZU-foo_bar",
		"_vgr00005ZU_foo_bar", // priority without a tag
	}

	for _, sym := range tests {
		_, err := Decode(sym)
		require.ErrorIs(t, err, ErrNotZSpec, "symbol %q", sym)

		var syntaxErr *SyntaxError
		assert.False(t, errors.As(err, &syntaxErr), "header mismatch should not be a syntax error: %q", sym)
		assert.False(t, IsZSpec(sym))
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	tests := []struct {
		name   string
		sym    string
		offset int
	}{
		{"unterminated library", "_vgr00000ZU_foobar", 18},
		{"unknown escape in library", "_vgr00000ZU_fooZq_bar", 16},
		{"unknown escape in function", "_vgr00000ZZ_foo_bZx", 18},
		{"truncated escape", "_vgr00000ZZ_foo_barZ", 20},
		{"truncated escape in library", "_vgr00000ZU_fooZ", 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.sym)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrNotZSpec)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.sym, syntaxErr.Symbol)
			assert.Equal(t, tt.offset, syntaxErr.Offset)

			_, err = DecodeFunction(tt.sym)
			assert.ErrorIs(t, err, ErrNotZSpec)
		})
	}
}

func TestDecodeReservedPrefix(t *testing.T) {
	sym := "_vgr00000ZU_VG_Z_LIBC_SONAME_malloc"

	_, err := Decode(sym)
	require.ErrorIs(t, err, ErrReservedPrefix)
	assert.NotErrorIs(t, err, ErrNotZSpec)

	var prefixErr *ReservedPrefixError
	require.ErrorAs(t, err, &prefixErr)
	assert.Equal(t, sym, prefixErr.Symbol)
	assert.Contains(t, err.Error(), "VG_Z_")

	_, err = DecodeFunction(sym)
	assert.ErrorIs(t, err, ErrReservedPrefix)

	// Only the exact prefix is reserved.
	spec, err := Decode("_vgr00000ZU_VGZuZZ_foo")
	require.NoError(t, err)
	assert.Equal(t, "VG_Z", spec.Library)
	assert.Equal(t, "foo", spec.Function)
}

func TestEncodeRoundTrip(t *testing.T) {
	specs := []Spec{
		{Library: "foo", Function: "bar"},
		{Library: "libc.so*", Function: "malloc", Wrap: true, EClassTag: 1234, EClassPrio: 5},
		{Library: "VG_Z_LIBC_SONAME", Function: "free"},
		{Library: "ld-linux-x86-64.so.2", Function: "_dl_runtime_resolve", EClassTag: 9999, EClassPrio: 9},
		{Library: "*:.-+ _@$(%)/Z", Function: "operator new(unsigned long)"},
		{Library: "", Function: ""},
	}

	for _, spec := range specs {
		for _, escapeFn := range []bool{true, false} {
			sym, err := Encode(spec, escapeFn)
			require.NoError(t, err)

			got, err := Decode(sym)
			require.NoError(t, err, "symbol %q", sym)
			if diff := cmp.Diff(spec, got); diff != "" {
				t.Errorf("round trip through %q (-want +got):\n%s", sym, diff)
			}
		}
	}
}

func TestEncode(t *testing.T) {
	sym, err := Encode(Spec{Library: "libfoo.so.1", Function: "bar"}, false)
	require.NoError(t, err)
	assert.Equal(t, "_vgr00000ZU_libfooZdsoZd1_bar", sym)

	sym, err = Encode(Spec{Library: "libc.so*", Function: "_exit", Wrap: true, EClassTag: 42, EClassPrio: 3}, true)
	require.NoError(t, err)
	assert.Equal(t, "_vgw00423ZZ_libcZdsoZa_Zuexit", sym)
}

func TestEncodeInvalid(t *testing.T) {
	tests := []Spec{
		{EClassTag: -1},
		{EClassTag: 10000},
		{EClassTag: 1, EClassPrio: 10},
		{EClassTag: 1, EClassPrio: -1},
		{EClassTag: 0, EClassPrio: 1},
	}
	for _, spec := range tests {
		_, err := Encode(spec, true)
		assert.ErrorIs(t, err, ErrInvalidSpec, "spec %+v", spec)
	}
}

func FuzzDecode(f *testing.F) {
	f.Add("_vgr00000ZU_foo_bar")
	f.Add("_vgw12345ZZ_libcZdsoZa_mallocZLZR")
	f.Add("_vgr00000ZZ_\x00Z_Z")
	f.Add("_vgr00000ZU_VG_Z_x")
	f.Add("\xff\xfe_vg")

	f.Fuzz(func(t *testing.T, sym string) {
		spec, err := Decode(sym)
		if err != nil {
			return
		}
		if len(spec.Library)+len(spec.Function) > len(sym) {
			t.Fatalf("decoded %q into %d+%d bytes", sym, len(spec.Library), len(spec.Function))
		}
		fn, err := DecodeFunction(sym)
		if err != nil || fn != spec.Function {
			t.Fatalf("DecodeFunction(%q) = %q, %v; want %q", sym, fn, err, spec.Function)
		}
	})
}
