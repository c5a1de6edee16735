// Package jsondoc provides an immutable JSON document model with structural
// sharing, slash-separated pointers, field-selector projection and RFC 7396
// merge patches.
//
// Values are small tagged unions; objects and arrays are persistent, so every
// update returns a new container that shares all untouched members with its
// source. Containers render to canonical compact JSON and cache the text
// behind a weak reference.
//
// Most users start from text:
//
//	doc, err := jsondoc.ParseObject(`{"user":{"name":"Ada"}}`)
//	updated, err := doc.SetAt(jsondoc.MustParsePointer("/user/age"), jsondoc.Int(36))
//	name, ok := updated.ValueAt(jsondoc.MustParsePointer("/user/name"))
//
// Projection keeps only the selected members:
//
//	sel := jsondoc.MustParseFieldSelector("user(name,age),active")
//	small := doc.Select(sel)
//
// Merge patches are computed and applied over values:
//
//	patch := jsondoc.ComputeMergePatch(before, after)
//	same := patch.ApplyOn(before).Equal(after) // true when after has no null members
//
// # Processor
//
// A Processor runs the same operations over JSON text with size and depth
// limits, a cache of parsed pointers and selectors, metrics and structured
// logging through log/slog:
//
//	p := jsondoc.New(jsondoc.HighSecurityConfig())
//	defer p.Close()
//	v, err := p.Get(text, "/user/name")
//
// Every processor error is an *OperationError wrapping one of the package
// sentinels, so errors.Is(err, jsondoc.ErrMissingField) works as expected.
//
// # Binary encoding
//
// The cbor subpackage encodes values in a compact binary form and decodes
// untrusted input without panicking.
package jsondoc
