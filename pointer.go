package jsondoc

import (
	"strings"
)

const (
	pointerSeparator = '/'
	encodedTilde     = "~0"
	encodedSlash     = "~1"
)

var levelEscaper = strings.NewReplacer("~", encodedTilde, "/", encodedSlash)

// Key is the name of an object member. Keys are never empty; a key may
// contain '/' or '~', which are escaped only inside pointer text.
type Key string

// NewKey validates s as an object key
func NewKey(s string) (Key, error) {
	if s == "" {
		return "", &PointerInvalidError{Pointer: s, Description: "a JSON key must not be empty"}
	}
	return Key(s), nil
}

func (k Key) String() string {
	return string(k)
}

// Pointer addresses a location in an object tree by a sequence of keys
// ("levels"). The zero Pointer is the empty (root) pointer. Pointers are
// immutable; every derived pointer owns its own level slice.
type Pointer struct {
	levels []Key
}

// EmptyPointer returns the pointer with zero levels
func EmptyPointer() Pointer {
	return Pointer{}
}

// NewPointer builds a pointer from keys. It panics on an empty key.
func NewPointer(keys ...Key) Pointer {
	if len(keys) == 0 {
		return Pointer{}
	}
	levels := make([]Key, len(keys))
	for i, k := range keys {
		if k == "" {
			panic("jsondoc: pointer level must not be empty")
		}
		levels[i] = k
	}
	return Pointer{levels: levels}
}

// ParsePointer parses slash-separated pointer text. A leading slash is
// optional and a trailing slash is ignored; "" and "/" both yield the empty
// pointer. Consecutive slashes and malformed escapes are rejected.
func ParsePointer(s string, opts ...ParseOption) (Pointer, error) {
	return parsePointer(s, newParseConfig(opts))
}

// MustParsePointer is like ParsePointer but panics on invalid input
func MustParsePointer(s string) Pointer {
	p, err := ParsePointer(s)
	if err != nil {
		panic(err)
	}
	return p
}

func parsePointer(s string, cfg parseConfig) (Pointer, error) {
	if s == "" || s == "/" {
		return Pointer{}, nil
	}
	if strings.Contains(s, "//") {
		return Pointer{}, &PointerInvalidError{Pointer: s, Description: "consecutive slashes are not allowed"}
	}

	body := strings.TrimPrefix(s, "/")
	body = strings.TrimSuffix(body, "/")

	levels := make([]Key, 0, strings.Count(body, "/")+1)
	for part := range strings.SplitSeq(body, "/") {
		key, problem := cfg.decodeLevel(part)
		if problem != "" {
			return Pointer{}, &PointerInvalidError{Pointer: s, Description: problem}
		}
		levels = append(levels, key)
	}
	return Pointer{levels: levels}, nil
}

// unescapeLevel translates ~0 and ~1 in a single left-to-right pass
func unescapeLevel(raw string) (string, string) {
	if strings.IndexByte(raw, '~') < 0 {
		return raw, ""
	}
	var sb strings.Builder
	sb.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if c != '~' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(raw) {
			return "", "dangling '~' at end of level '" + raw + "'"
		}
		switch raw[i+1] {
		case '0':
			sb.WriteByte('~')
		case '1':
			sb.WriteByte('/')
		default:
			return "", "invalid escape sequence '~" + string(raw[i+1]) + "' in level '" + raw + "'"
		}
		i++
	}
	return sb.String(), ""
}

// LevelCount returns the number of levels
func (p Pointer) LevelCount() int {
	return len(p.levels)
}

// IsEmpty reports whether p has no levels
func (p Pointer) IsEmpty() bool {
	return len(p.levels) == 0
}

// Get returns the key at level i
func (p Pointer) Get(i int) (Key, bool) {
	if i < 0 || i >= len(p.levels) {
		return "", false
	}
	return p.levels[i], true
}

// Root returns the first level
func (p Pointer) Root() (Key, bool) {
	return p.Get(0)
}

// Leaf returns the last level
func (p Pointer) Leaf() (Key, bool) {
	return p.Get(len(p.levels) - 1)
}

// Levels returns a copy of the keys of p
func (p Pointer) Levels() []Key {
	return append([]Key(nil), p.levels...)
}

// SubPointer returns the pointer made of the levels starting at from. It
// fails when from is negative or beyond the level count; from equal to the
// level count yields the empty pointer.
func (p Pointer) SubPointer(from int) (Pointer, bool) {
	if from < 0 || from > len(p.levels) {
		return Pointer{}, false
	}
	if from == len(p.levels) {
		return Pointer{}, true
	}
	return Pointer{levels: p.levels[from:len(p.levels):len(p.levels)]}, true
}

// NextLevel returns p without its first level
func (p Pointer) NextLevel() Pointer {
	if len(p.levels) <= 1 {
		return Pointer{}
	}
	sub, _ := p.SubPointer(1)
	return sub
}

// AddLeaf returns a new pointer with key appended
func (p Pointer) AddLeaf(key Key) Pointer {
	if key == "" {
		panic("jsondoc: pointer level must not be empty")
	}
	levels := make([]Key, len(p.levels)+1)
	copy(levels, p.levels)
	levels[len(p.levels)] = key
	return Pointer{levels: levels}
}

// CutLeaf returns p without its last level
func (p Pointer) CutLeaf() Pointer {
	if len(p.levels) <= 1 {
		return Pointer{}
	}
	n := len(p.levels) - 1
	return Pointer{levels: p.levels[:n:n]}
}

// Append returns the concatenation of p and other. Appending the empty
// pointer returns p itself.
func (p Pointer) Append(other Pointer) Pointer {
	if len(other.levels) == 0 {
		return p
	}
	if len(p.levels) == 0 {
		return other
	}
	levels := make([]Key, 0, len(p.levels)+len(other.levels))
	levels = append(levels, p.levels...)
	levels = append(levels, other.levels...)
	return Pointer{levels: levels}
}

// Equal reports whether both pointers have the same levels
func (p Pointer) Equal(other Pointer) bool {
	if len(p.levels) != len(other.levels) {
		return false
	}
	for i, k := range p.levels {
		if other.levels[i] != k {
			return false
		}
	}
	return true
}

// String renders p with escaped levels, "/" for the empty pointer
func (p Pointer) String() string {
	if len(p.levels) == 0 {
		return "/"
	}
	var sb strings.Builder
	for _, k := range p.levels {
		sb.WriteByte(pointerSeparator)
		sb.WriteString(levelEscaper.Replace(string(k)))
	}
	return sb.String()
}
