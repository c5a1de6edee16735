package jsondoc

import (
	"strings"
	"sync"
)

// FieldSelector names a set of pointers to project from an object. Its
// pointers are fixed at construction, so the derived trie is built once and
// memoised.
type FieldSelector struct {
	pointers []Pointer

	trieOnce sync.Once
	trie     *SelectorTrie
}

// NewFieldSelector creates a selector from pointers; duplicates are dropped
func NewFieldSelector(pointers ...Pointer) *FieldSelector {
	s := &FieldSelector{}
	seen := make(map[string]struct{}, len(pointers))
	for _, p := range pointers {
		key := p.String()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		s.pointers = append(s.pointers, p)
	}
	return s
}

// ParseFieldSelector parses a comma separated list of pointers in which
// parentheses group pointers under a common prefix:
//
//	"a,b(c,d/e)"  selects  /a, /b/c, /b/d/e
//
// Groups nest to any depth.
func ParseFieldSelector(expr string, opts ...ParseOption) (*FieldSelector, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, &FieldSelectorInvalidError{Selector: expr, Description: "the selector must not be empty"}
	}
	if open, closing := strings.Count(expr, "("), strings.Count(expr, ")"); open != closing {
		return nil, &FieldSelectorInvalidError{
			Selector:    expr,
			Description: "the number of opening parentheses does not match the number of closing parentheses",
		}
	}

	p := &selectorParser{src: expr, cfg: newParseConfig(opts)}
	var pointers []Pointer
	if err := p.parseList(Pointer{}, 0, &pointers); err != nil {
		return nil, err
	}
	return NewFieldSelector(pointers...), nil
}

// MustParseFieldSelector is like ParseFieldSelector but panics on invalid input
func MustParseFieldSelector(expr string, opts ...ParseOption) *FieldSelector {
	s, err := ParseFieldSelector(expr, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

type selectorParser struct {
	src string
	pos int
	cfg parseConfig
}

func (p *selectorParser) fail(description string, cause error) error {
	return &FieldSelectorInvalidError{Selector: p.src, Description: description, Err: cause}
}

// parseList reads items separated by commas until the end of input or, when
// nested, until the ')' closing the group, which is left for the caller.
func (p *selectorParser) parseList(prefix Pointer, depth int, out *[]Pointer) error {
	for {
		start := p.pos
		for p.pos < len(p.src) && !isSelectorDelimiter(p.src[p.pos]) {
			p.pos++
		}
		raw := p.src[start:p.pos]
		grouped := p.pos < len(p.src) && p.src[p.pos] == '('

		if raw == "" {
			if grouped {
				return p.fail("a group must follow a pointer", nil)
			}
			return p.fail("empty pointer in selector", nil)
		}

		ptr, err := parsePointer(raw, p.cfg)
		if err != nil {
			return p.fail("invalid pointer '"+raw+"'", err)
		}
		full := prefix.Append(ptr)

		if grouped {
			p.pos++
			if p.pos < len(p.src) && p.src[p.pos] == ')' {
				return p.fail("empty parentheses", nil)
			}
			if err := p.parseList(full, depth+1, out); err != nil {
				return err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != ')' {
				return p.fail("unbalanced parentheses", nil)
			}
			p.pos++
		} else {
			if ptr.IsEmpty() {
				return p.fail("empty pointer in selector", nil)
			}
			*out = append(*out, full)
		}

		if p.pos >= len(p.src) {
			if depth > 0 {
				return p.fail("unbalanced parentheses", nil)
			}
			return nil
		}
		switch p.src[p.pos] {
		case ',':
			p.pos++
		case ')':
			if depth == 0 {
				return p.fail("unexpected ')'", nil)
			}
			return nil
		default:
			return p.fail("unexpected '"+string(p.src[p.pos])+"' after group", nil)
		}
	}
}

func isSelectorDelimiter(c byte) bool {
	return c == ',' || c == '(' || c == ')'
}

// Pointers returns the selected pointers in the order they were given
func (s *FieldSelector) Pointers() []Pointer {
	return append([]Pointer(nil), s.pointers...)
}

// Len returns the number of distinct pointers
func (s *FieldSelector) Len() int {
	return len(s.pointers)
}

// Trie returns the selector's trie, building it on first use
func (s *FieldSelector) Trie() *SelectorTrie {
	s.trieOnce.Do(func() {
		s.trie = NewSelectorTrie(s.pointers...)
	})
	return s.trie
}

// String renders the pointers comma separated
func (s *FieldSelector) String() string {
	parts := make([]string, len(s.pointers))
	for i, p := range s.pointers {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}
