package internal

import (
	"math"
	"strings"
	"testing"
)

func TestAppendQuoted(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", `""`},
		{"plain", `"plain"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"line\nbreak\ttab\r", `"line\nbreak\ttab\r"`},
		{"\b\f", `"\b\f"`},
		{"\x00\x1f", `"\u0000\u001f"`},
		{"\u2028\u2029", `"\u2028\u2029"`},
		{"\u00e9\u20ac", "\"\u00e9\u20ac\""},
		{"\u2026", "\"\u2026\""},
		{"</script>", `"</script>"`},
	}

	for _, tt := range tests {
		if got := string(AppendQuoted(nil, tt.input)); got != tt.want {
			t.Errorf("AppendQuoted(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestAppendFloat(t *testing.T) {
	tests := []struct {
		input float64
		want  string
	}{
		{0, "0"},
		{1, "1"},
		{-2.5, "-2.5"},
		{0.1, "0.1"},
		{1e20, "100000000000000000000"},
		{1e21, "1e+21"},
		{1e-7, "1e-7"},
		{1.5e-10, "1.5e-10"},
		{0.000001, "0.000001"},
		{math.NaN(), "null"},
		{math.Inf(-1), "null"},
	}

	for _, tt := range tests {
		if got := string(AppendFloat(nil, tt.input)); got != tt.want {
			t.Errorf("AppendFloat(%v) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

func TestWriter(t *testing.T) {
	w := GetWriter(0)
	_ = w.WriteByte('[')
	w.WriteNull()
	_ = w.WriteByte(',')
	w.WriteBool(true)
	_ = w.WriteByte(',')
	w.WriteInt(7)
	_ = w.WriteByte(',')
	w.WriteInt(-1234567890123)
	_ = w.WriteByte(',')
	w.WriteFloat(0.5)
	_ = w.WriteByte(',')
	w.WriteString("s")
	_ = w.WriteByte(',')
	w.WriteRaw(`{"k":1}`)
	_ = w.WriteByte(']')

	want := `[null,true,7,-1234567890123,0.5,"s",{"k":1}]`
	if got := w.String(); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if w.Len() != len(want) {
		t.Errorf("Len() = %d, want %d", w.Len(), len(want))
	}
	PutWriter(w)

	again := GetWriter(0)
	if again.Len() != 0 {
		t.Error("Pooled writer should come back empty")
	}
	PutWriter(again)

	large := GetWriter(4096)
	large.WriteRaw(strings.Repeat("x", 100000))
	PutWriter(large)
	PutWriter(nil)
}
