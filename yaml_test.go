package jsondoc

import (
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/hexops/autogold/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseYAML(t *testing.T) {
	input := `
name: service
replicas: 3
ratio: 0.5
big: 9000000000
enabled: true
missing: ~
quoted: "42"
ports:
  - 80
  - 443
defaults: &defaults
  timeout: 30
override: *defaults
`
	v, err := ParseYAML([]byte(input))
	require.NoError(t, err)

	obj, err := v.AsObject()
	require.NoError(t, err)
	assert.Equal(t, []Key{"name", "replicas", "ratio", "big", "enabled", "missing", "quoted", "ports", "defaults", "override"}, obj.Keys())

	autogold.Expect(`{"name":"service","replicas":3,"ratio":0.5,"big":9000000000,"enabled":true,"missing":null,"quoted":"42","ports":[80,443],"defaults":{"timeout":30},"override":{"timeout":30}}`).Equal(t, v.String())

	replicas, _ := obj.Get("replicas")
	assert.Equal(t, KindInt, replicas.Kind())
	big, _ := obj.Get("big")
	assert.Equal(t, KindLong, big.Kind())
	quoted, _ := obj.Get("quoted")
	assert.Equal(t, KindString, quoted.Kind())
}

func TestParseYAMLScalars(t *testing.T) {
	tests := []struct {
		input string
		want  Value
	}{
		{``, Null()},
		{`null`, Null()},
		{`false`, Bool(false)},
		{`-12`, Int(-12)},
		{`0x1F`, Int(31)},
		{`1.5e3`, Double(1500)},
		{`12345678901234567890`, Double(12345678901234567890)},
		{`plain text`, String("plain text")},
		{`'true'`, String("true")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseYAML([]byte(tt.input))
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
			assert.Equal(t, tt.want.Kind(), got.Kind())
		})
	}
}

func TestParseYAMLErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", "a: [1, 2"},
		{"empty key", `"": 1`},
		{"sequence key", "? [a, b]\n: 1"},
		{"infinite float", "x: .inf"},
		{"not a number", "x: .nan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.input))
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParseYAMLAliasExpansion(t *testing.T) {
	aliasChain := func(levels int) string {
		var sb strings.Builder
		sb.WriteString("a0: &a0 [x, x, x, x, x, x, x, x, x, x]\n")
		for i := 1; i <= levels; i++ {
			fmt.Fprintf(&sb, "a%d: &a%d [", i, i)
			for j := 0; j < 10; j++ {
				if j > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "*a%d", i-1)
			}
			sb.WriteString("]\n")
		}
		return sb.String()
	}

	t.Run("bounded", func(t *testing.T) {
		v, err := ParseYAML([]byte(aliasChain(2)))
		require.NoError(t, err)
		obj, err := v.AsObject()
		require.NoError(t, err)
		a2, ok := obj.Get("a2")
		require.True(t, ok)
		assert.Equal(t, 3, a2.Depth())
	})

	t.Run("bomb", func(t *testing.T) {
		input := aliasChain(8)
		start := time.Now()
		_, err := ParseYAML([]byte(input))
		assert.ErrorIs(t, err, ErrSizeLimit)
		assert.ErrorIs(t, err, ErrParse)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestMarshalYAML(t *testing.T) {
	v := MustParse(t, `{"z":1,"a":[true,"x"],"s":"true","f":0.25,"n":null}`)

	out, err := yaml.Marshal(v)
	require.NoError(t, err)
	autogold.Expect(`z: 1
a:
    - true
    - x
s: "true"
f: 0.25
n: null
`).Equal(t, string(out))

	back, err := ParseYAML(out)
	require.NoError(t, err)
	assert.True(t, v.Equal(back))

	t.Run("non-finite doubles become null", func(t *testing.T) {
		out, err := yaml.Marshal(ArrayOf(Double(math.Inf(1))))
		require.NoError(t, err)
		assert.Equal(t, "- null\n", string(out))
	})
}
