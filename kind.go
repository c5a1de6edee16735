package jsondoc

// Kind identifies the variant held by a Value.
type Kind uint8

// The zero Kind is KindNull so that the zero Value is JSON null.
const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindLong
	KindDouble
	KindString
	KindArray
	KindObject
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "boolean",
	KindInt:    "int",
	KindLong:   "long",
	KindDouble: "double",
	KindString: "string",
	KindArray:  "array",
	KindObject: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsNumber reports whether k is one of the numeric kinds
func (k Kind) IsNumber() bool {
	return k == KindInt || k == KindLong || k == KindDouble
}
