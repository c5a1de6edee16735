package jsondoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectSetAt(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		pointer string
		value   Value
		want    string
	}{
		{"creates path", `{}`, "/foo/bar/baz", Int(23), `{"foo":{"bar":{"baz":23}}}`},
		{"replaces leaf in place", `{"a":1,"b":2}`, "/a", Int(9), `{"a":9,"b":2}`},
		{"appends new member", `{"a":1}`, "/b", String("x"), `{"a":1,"b":"x"}`},
		{"replaces scalar on path", `{"a":1}`, "/a/b", Bool(true), `{"a":{"b":true}}`},
		{"replaces array on path", `{"a":[1]}`, "/a/b", Null(), `{"a":{"b":null}}`},
		{"keeps siblings", `{"a":{"x":1,"y":2},"z":3}`, "/a/y", Int(5), `{"a":{"x":1,"y":5},"z":3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := MustParseObj(t, tt.doc)
			updated, err := obj.SetAt(MustParsePointer(tt.pointer), tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, updated.String())
			assert.Equal(t, tt.doc, obj.String(), "the original must not change")
		})
	}
}

func TestObjectSetAtEmptyPointer(t *testing.T) {
	obj := MustParseObj(t, `{"a":1}`)

	replacement := MustParseObj(t, `{"b":2}`)
	updated, err := obj.SetAt(EmptyPointer(), replacement.AsValue())
	require.NoError(t, err)
	assert.Same(t, replacement, updated)

	_, err = obj.SetAt(EmptyPointer(), Int(1))
	assert.ErrorIs(t, err, ErrIllegalArgument)
}

func TestObjectStructuralSharing(t *testing.T) {
	obj := MustParseObj(t, `{"left":{"deep":{"x":1}},"right":{"y":2},"n":3}`)
	left, _ := obj.Get("left")
	right, _ := obj.Get("right")

	updated, err := obj.SetAt(MustParsePointer("/right/y"), Int(3))
	require.NoError(t, err)

	newLeft, _ := updated.Get("left")
	newRight, _ := updated.Get("right")
	assert.Same(t, left.obj, newLeft.obj, "untouched subtree is shared")
	assert.NotSame(t, right.obj, newRight.obj, "objects on the path are new")
	assert.NotSame(t, obj, updated)

	t.Run("SameValueReturnsReceiver", func(t *testing.T) {
		assert.Same(t, obj, obj.With("n", Int(3)))
		assert.Same(t, obj, obj.With("left", left))
		assert.NotSame(t, obj, obj.With("n", Long(4)))
	})

	t.Run("RemoveMissingReturnsReceiver", func(t *testing.T) {
		assert.Same(t, obj, obj.RemoveAt(MustParsePointer("/missing")))
		assert.Same(t, obj, obj.RemoveAt(MustParsePointer("/left/missing")))
		assert.Same(t, obj, obj.RemoveAt(MustParsePointer("/n/below")))
		assert.Same(t, obj, obj.RemoveAt(EmptyPointer()))
	})

	t.Run("RemoveSharesSiblings", func(t *testing.T) {
		removed := obj.RemoveAt(MustParsePointer("/left/deep/x"))
		assert.Equal(t, `{"left":{"deep":{}},"right":{"y":2},"n":3}`, removed.String())
		r, _ := removed.Get("right")
		assert.Same(t, right.obj, r.obj)
	})
}

func TestObjectWithKeepsPosition(t *testing.T) {
	obj := MustParseObj(t, `{"a":1,"b":2,"c":3}`)
	assert.Equal(t, `{"a":1,"b":20,"c":3}`, obj.With("b", Int(20)).String())
	assert.Equal(t, `{"a":1,"c":3}`, obj.Without("b").String())
	assert.Same(t, obj, obj.Without("zzz"))
	assert.Panics(t, func() { obj.With("", Int(1)) })
}

func TestObjectIndexedLookup(t *testing.T) {
	b := NewObjectBuilder()
	for _, k := range []Key{"k0", "k1", "k2", "k3", "k4", "k5", "k6", "k7", "k8", "k9", "k10"} {
		b.Set(k, String(string(k)))
	}
	obj := b.Build()
	require.Greater(t, obj.Len(), indexThreshold)

	v, ok := obj.Get("k9")
	require.True(t, ok)
	assert.Equal(t, String("k9"), v)
	assert.False(t, obj.ContainsKey("k11"))

	smaller := obj.Without("k0")
	v, ok = smaller.Get("k10")
	require.True(t, ok)
	assert.Equal(t, String("k10"), v)
}

func TestObjectValueAt(t *testing.T) {
	obj := MustParseObj(t, `{"a":{"b":{"c":"deep"}},"n":1,"z":null}`)

	tests := []struct {
		pointer string
		want    string
		found   bool
	}{
		{"/a/b/c", `"deep"`, true},
		{"/a/b", `{"c":"deep"}`, true},
		{"/z", "null", true},
		{"/a/x", "", false},
		{"/n/x", "", false},
		{"/a/b/c/d", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.pointer, func(t *testing.T) {
			p := MustParsePointer(tt.pointer)
			v, ok := obj.ValueAt(p)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.found, obj.Contains(p))
			if tt.found {
				assert.Equal(t, tt.want, v.String())
			}
		})
	}

	t.Run("EmptyPointer", func(t *testing.T) {
		v, ok := obj.ValueAt(EmptyPointer())
		require.True(t, ok)
		assert.Same(t, obj, v.obj)
		assert.False(t, obj.Contains(EmptyPointer()))
	})
}

func TestObjectIteration(t *testing.T) {
	obj := MustParseObj(t, `{"z":1,"a":2,"m":3}`)
	assert.Equal(t, []Key{"z", "a", "m"}, obj.Keys())

	var keys []Key
	var sum int64
	for k, v := range obj.All() {
		keys = append(keys, k)
		n, err := v.AsLong()
		require.NoError(t, err)
		sum += n
	}
	assert.Equal(t, []Key{"z", "a", "m"}, keys)
	assert.Equal(t, int64(6), sum)

	for k := range obj.All() {
		if k == "a" {
			break
		}
	}
}

func TestObjectMergeAndPointers(t *testing.T) {
	base := MustParseObj(t, `{"a":1,"b":{"x":1},"c":3}`)
	overlay := MustParseObj(t, `{"b":{"y":2},"d":4}`)

	merged := base.Merge(overlay)
	assert.Equal(t, `{"a":1,"b":{"y":2},"c":3,"d":4}`, merged.String())
	assert.Same(t, base, base.Merge(EmptyObject()))
	assert.Same(t, overlay, EmptyObject().Merge(overlay))

	doc := MustParseObj(t, `{"a":{"b":1,"c":{}},"d/e":[1],"f":null}`)
	var got []string
	for _, p := range doc.Pointers() {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{"/a/b", "/a/c", "/d~1e", "/f"}, got)
}

func TestFieldDefinitions(t *testing.T) {
	const sensitive FieldMarker = "sensitive"

	name := NewFieldDefinition(MustParsePointer("/user/name"), KindString)
	age := NewFieldDefinition(MustParsePointer("/user/age"), KindInt)
	tags := NewFieldDefinition(MustParsePointer("/user/tags"), KindArray)
	secret := NewFieldDefinition(MustParsePointer("/secret"), KindString, sensitive)

	obj := MustParseObj(t, `{"user":{"name":"ann","age":41.0,"tags":null}}`)

	v, err := obj.Require(name)
	require.NoError(t, err)
	assert.Equal(t, String("ann"), v)

	v, err = obj.Require(age)
	require.NoError(t, err)
	assert.Equal(t, int64(41), must(v.AsLong()))

	v, err = obj.Require(tags)
	require.NoError(t, err, "null is accepted for containers")
	assert.True(t, v.IsNull())

	_, err = obj.Require(secret)
	assert.ErrorIs(t, err, ErrMissingField)
	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "/secret", missing.Pointer.String())

	_, found, err := obj.Lookup(secret)
	require.NoError(t, err)
	assert.False(t, found)

	wrong := NewFieldDefinition(MustParsePointer("/user/name"), KindBool)
	_, err = obj.Require(wrong)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestObjectFilter(t *testing.T) {
	const sensitive FieldMarker = "sensitive"
	const public FieldMarker = "public"

	password := NewFieldDefinition(MustParsePointer("/password"), KindString, sensitive)
	name := NewFieldDefinition(MustParsePointer("/name"), KindString, public)
	token := NewFieldDefinition(MustParsePointer("/token"), KindString, sensitive)

	inner := NewObjectBuilder().
		SetField(Field{Key: "token", Value: String("t"), Definition: token}).
		Set("plain", Int(1)).
		Build()
	obj := NewObjectBuilder().
		SetField(Field{Key: "name", Value: String("ann"), Definition: name}).
		SetField(Field{Key: "password", Value: String("pw"), Definition: password}).
		Set("nested", inner.AsValue()).
		Build()

	assert.Equal(t, `{"name":"ann","nested":{"plain":1}}`, obj.Filter(NotMarker(sensitive)).String())
	assert.Equal(t, `{"name":"ann"}`, obj.Filter(HasMarker(public)).String())
	assert.Equal(t, `{"name":"ann","password":"pw"}`, obj.Filter(AnyOf(HasMarker(public), HasMarker(sensitive))).String())

	plain := MustParseObj(t, `{"a":{"b":1}}`)
	assert.Same(t, plain, plain.Filter(NotMarker(sensitive)))
}

func TestObjectBuilder(t *testing.T) {
	b := NewObjectBuilder().Set("a", Int(1)).Set("b", Int(2)).Set("a", Int(3))
	assert.Equal(t, 2, b.Len())
	first := b.Build()
	assert.Equal(t, `{"a":3,"b":2}`, first.String())

	b.Remove("a").Set("c", Int(4))
	assert.Equal(t, `{"b":2,"c":4}`, b.Build().String())
	assert.Equal(t, `{"a":3,"b":2}`, first.String(), "built objects are independent of the builder")

	var zero ObjectBuilder
	zero.SetField(NewField("k", Bool(true)))
	assert.Equal(t, `{"k":true}`, zero.Build().String())

	copied := first.ToBuilder().Set("d", Null()).Build()
	assert.Equal(t, `{"a":3,"b":2,"d":null}`, copied.String())
	assert.Equal(t, `{"a":3,"b":2}`, first.String())

	assert.Panics(t, func() { NewObjectBuilder().Set("", Int(1)) })
	assert.Same(t, EmptyObject(), NewObjectBuilder().Build())
}

func TestArray(t *testing.T) {
	arr := NewArray(Int(1), String("two"), Null())
	assert.Equal(t, 3, arr.Len())
	assert.Equal(t, 1, arr.IndexOf(String("two")))
	assert.Equal(t, 0, arr.IndexOf(Double(1)))
	assert.Equal(t, -1, arr.IndexOf(Bool(false)))
	assert.True(t, arr.Contains(Null()))

	v, ok := arr.At(2)
	require.True(t, ok)
	assert.True(t, v.IsNull())
	_, ok = arr.At(3)
	assert.False(t, ok)

	longer := arr.Add(Bool(true))
	assert.Equal(t, `[1,"two",null,true]`, longer.String())
	assert.Equal(t, `[1,"two",null]`, arr.String())

	values := arr.Values()
	values[0] = Int(100)
	assert.Equal(t, `[1,"two",null]`, arr.String())

	b := arr.ToBuilder()
	b.Set(0, Int(0)).Remove(1).Add(String("end"))
	assert.Equal(t, `[0,null,"end"]`, b.Build().String())
	assert.Same(t, EmptyArray(), NewArray())
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
