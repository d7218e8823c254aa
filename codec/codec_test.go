package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBytesPassthrough(t *testing.T) {
	b, err := Marshal([]byte{0x00, 0x01, 0x02})
	require.NoError(t, err)
	assert.Equal(t, byte(tagBytes), b[len(b)-1])
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, b[:len(b)-1])

	v, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x02}, v)
}

func TestMarshalStringPassthrough(t *testing.T) {
	b, err := Marshal("Hello, World, Hello 中国")
	require.NoError(t, err)
	assert.Equal(t, byte(tagString), b[len(b)-1])

	v, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World, Hello 中国", v)
}

func TestMarshalSmallValuesUncompressed(t *testing.T) {
	for name, v := range map[string]any{
		"int":   1,
		"bool":  true,
		"nil":   nil,
		"slice": []int{1},
		"map":   map[string]int{"a": 1},
	} {
		t.Run(name, func(t *testing.T) {
			b, err := Marshal(v)
			require.NoError(t, err)
			assert.Equal(t, byte(tagPacked), b[len(b)-1])
			assert.Equal(t, byte(compNone), b[len(b)-2])
		})
	}
}

func TestMarshalLargeValueCompressed(t *testing.T) {
	big := make([]int, 1000)
	b, err := Marshal(big)
	require.NoError(t, err)
	assert.Equal(t, byte(tagPacked), b[len(b)-1])
	assert.Equal(t, byte(compZlib), b[len(b)-2])

	v, err := Unmarshal(b)
	require.NoError(t, err)
	decoded, ok := v.([]any)
	require.True(t, ok)
	assert.Len(t, decoded, 1000)
	assert.Equal(t, int64(0), decoded[0])
}

func TestRoundTripGeneric(t *testing.T) {
	for name, tc := range map[string]struct {
		in   any
		want any
	}{
		"int":    {in: 7, want: int64(7)},
		"float":  {in: 2.5, want: 2.5},
		"bool":   {in: true, want: true},
		"nil":    {in: nil, want: nil},
		"slice":  {in: []int{1, 2}, want: []any{int64(1), int64(2)}},
		"map":    {in: map[string]int{"a": 1}, want: map[string]any{"a": int64(1)}},
		"string": {in: "sss", want: "sss"},
		"bytes":  {in: []byte("b"), want: []byte("b")},
	} {
		t.Run(name, func(t *testing.T) {
			b, err := Marshal(tc.in)
			require.NoError(t, err)
			v, err := Unmarshal(b)
			require.NoError(t, err)
			assert.Equal(t, tc.want, v)
		})
	}
}

type profile struct {
	Name string
	Age  int
}

func TestUnmarshalIntoStruct(t *testing.T) {
	in := profile{Name: "vimiix", Age: 30}
	b, err := Marshal(in)
	require.NoError(t, err)

	var out profile
	require.NoError(t, UnmarshalInto(b, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalIntoCompressedStruct(t *testing.T) {
	in := profile{Name: string(make([]byte, 200)), Age: 1}
	b, err := Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, byte(compZlib), b[len(b)-2])

	var out profile
	require.NoError(t, UnmarshalInto(b, &out))
	assert.Equal(t, in, out)
}

func TestUnmarshalIntoRawPayloads(t *testing.T) {
	b, err := Marshal("text")
	require.NoError(t, err)
	var s string
	require.NoError(t, UnmarshalInto(b, &s))
	assert.Equal(t, "text", s)

	b, err = Marshal([]byte("raw"))
	require.NoError(t, err)
	var raw []byte
	require.NoError(t, UnmarshalInto(b, &raw))
	assert.Equal(t, []byte("raw"), raw)

	// Type mismatch between payload and destination.
	var n int
	err = UnmarshalInto(b, &n)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestMarshalUnsupportedValue(t *testing.T) {
	_, err := Marshal(func() {})
	assert.ErrorIs(t, err, ErrEncode)

	_, err = Marshal(make(chan int))
	assert.ErrorIs(t, err, ErrEncode)
}

func TestUnmarshalMalformed(t *testing.T) {
	for name, b := range map[string][]byte{
		"empty":           nil,
		"unknown tag":     {0x01, 0xff},
		"truncated":       {tagPacked},
		"bad compression": {0x01, 0x7f, tagPacked},
		"bad zlib":        {0xde, 0xad, 0xbe, 0xef, compZlib, tagPacked},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Unmarshal(b)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestUnmarshalDoesNotAliasInput(t *testing.T) {
	b, err := Marshal([]byte("abc"))
	require.NoError(t, err)

	v, err := Unmarshal(b)
	require.NoError(t, err)
	out := v.([]byte)
	out[0] = 'x'

	v2, err := Unmarshal(b)
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), v2)
}
