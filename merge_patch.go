package jsondoc

// MergePatch is an RFC 7396 merge patch document.
type MergePatch struct {
	patch Value
}

// NewMergePatch wraps v as a merge patch
func NewMergePatch(v Value) MergePatch {
	return MergePatch{patch: v}
}

// ComputeMergePatch returns the patch that turns oldValue into newValue.
//
// Unless both sides are objects the patch is newValue itself. For two
// objects, removed members map to null, added members to their new value,
// changed members to the recursive patch, and unchanged members are omitted.
func ComputeMergePatch(oldValue, newValue Value) MergePatch {
	return MergePatch{patch: computeMergePatch(oldValue, newValue)}
}

func computeMergePatch(oldValue, newValue Value) Value {
	if oldValue.kind != KindObject || newValue.kind != KindObject {
		return newValue
	}
	oldObj, newObj := oldValue.obj, newValue.obj
	if oldObj == newObj {
		return emptyObject.AsValue()
	}

	b := NewObjectBuilder()
	for _, f := range newObj.fields {
		previous, ok := oldObj.Get(f.Key)
		switch {
		case !ok:
			b.Set(f.Key, f.Value)
		case !previous.Equal(f.Value):
			b.Set(f.Key, computeMergePatch(previous, f.Value))
		}
	}
	for _, f := range oldObj.fields {
		if !newObj.ContainsKey(f.Key) {
			b.Set(f.Key, Null())
		}
	}
	return b.Build().AsValue()
}

// Value returns the patch document
func (m MergePatch) Value() Value {
	return m.patch
}

// ApplyOn merges the patch into target and returns the result
func (m MergePatch) ApplyOn(target Value) Value {
	return ApplyMergePatch(m.patch, target)
}

// IsEmpty reports whether the patch is an object without members, which
// leaves any object target unchanged
func (m MergePatch) IsEmpty() bool {
	return m.patch.kind == KindObject && m.patch.obj.IsEmpty()
}

func (m MergePatch) String() string {
	return m.patch.String()
}

// ApplyMergePatch merges patch into target per RFC 7396. A non-object patch
// replaces target; an object patch is applied to target, or to an empty
// object when target is not one. Null members delete, object members merge
// recursively, anything else is set verbatim. Members of target not named
// by the patch are kept as they are.
func ApplyMergePatch(patch, target Value) Value {
	if patch.kind != KindObject {
		return patch
	}
	base := emptyObject
	if target.kind == KindObject {
		base = target.obj
	}
	if patch.obj.IsEmpty() {
		return base.AsValue()
	}

	b := base.ToBuilder()
	for _, f := range patch.obj.fields {
		switch f.Value.kind {
		case KindNull:
			b.Remove(f.Key)
		case KindObject:
			existing, _ := base.Get(f.Key)
			b.Set(f.Key, ApplyMergePatch(f.Value, existing))
		default:
			b.Set(f.Key, f.Value)
		}
	}
	return b.Build().AsValue()
}
