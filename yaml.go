package jsondoc

import (
	"math"
	"strconv"

	"github.com/cybergodev/jsondoc/internal"
	"gopkg.in/yaml.v3"
)

const (
	maxYAMLDepth = 1000

	// Alias expansion may produce at most this many nodes per input byte,
	// with a floor for small documents.
	yamlNodesPerByte = 16
	minYAMLNodes     = 4096
)

// ParseYAML converts a YAML document into a Value. Mapping order is kept,
// keys must be scalars, and aliases are expanded. Expansion is bounded in
// proportion to the input size; documents past the bound fail with an error
// matching ErrSizeLimit.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, NewParseError("malformed YAML", err)
	}
	if doc.Kind == 0 {
		return Null(), nil
	}
	c := yamlConverter{budget: max(minYAMLNodes, yamlNodesPerByte*len(data))}
	return c.convert(&doc, 0)
}

// yamlConverter walks a node tree, spending one unit of budget per node
// visited so that aliases cannot multiply the output without bound
type yamlConverter struct {
	budget int
}

func (c *yamlConverter) convert(n *yaml.Node, depth int) (Value, error) {
	if depth > maxYAMLDepth {
		return Value{}, NewParseError("YAML document nested too deeply", ErrDepthLimit)
	}
	if c.budget--; c.budget < 0 {
		return Value{}, NewParseError("YAML aliases expand to too many nodes", ErrSizeLimit)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return c.convert(n.Content[0], depth+1)
	case yaml.AliasNode:
		return c.convert(n.Alias, depth+1)
	case yaml.SequenceNode:
		b := NewArrayBuilder()
		for _, item := range n.Content {
			v, err := c.convert(item, depth+1)
			if err != nil {
				return Value{}, err
			}
			b.Add(v)
		}
		return b.Build().AsValue(), nil
	case yaml.MappingNode:
		b := NewObjectBuilder()
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode || keyNode.Value == "" {
				return Value{}, NewParseError("YAML mapping keys must be non-empty scalars (line "+strconv.Itoa(keyNode.Line)+")", nil)
			}
			v, err := c.convert(n.Content[i+1], depth+1)
			if err != nil {
				return Value{}, err
			}
			b.Set(Key(keyNode.Value), v)
		}
		return b.Build().AsValue(), nil
	case yaml.ScalarNode:
		return fromYAMLScalar(n)
	}
	return Value{}, NewParseError("unsupported YAML node", nil)
}

func fromYAMLScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, NewParseError("invalid YAML boolean", err)
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return integer(i), nil
		}
		fallthrough
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, NewParseError("invalid YAML number '"+n.Value+"'", err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, NewParseError("YAML number '"+n.Value+"' is not finite", nil)
		}
		return Double(f), nil
	}
	return String(n.Value), nil
}

// MarshalYAML implements yaml.Marshaler, keeping member order
func (v Value) MarshalYAML() (any, error) {
	return toYAMLNode(v), nil
}

func toYAMLNode(v Value) *yaml.Node {
	switch v.kind {
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.bits == 1)}
	case KindInt, KindLong:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(v.bits), 10)}
	case KindDouble:
		f := math.Float64frombits(v.bits)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: string(internal.AppendFloat(nil, f))}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v.arr.values {
			n.Content = append(n.Content, toYAMLNode(e))
		}
		return n
	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range v.obj.fields {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(f.Key)},
				toYAMLNode(f.Value))
		}
		return n
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
