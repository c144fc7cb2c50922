package omrs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"gopkg.in/yaml.v3"
)

// wireValue is the serialized form of an InstancePropertyValue,
// shared by the YAML (archives) and JSON (REST) encodings.
type wireValue struct {
	Type         string              `yaml:"type" json:"type"`
	Value        any                 `yaml:"value,omitempty" json:"value,omitempty"`
	Ordinal      *int                `yaml:"ordinal,omitempty" json:"ordinal,omitempty"`
	SymbolicName string              `yaml:"symbolicName,omitempty" json:"symbolicName,omitempty"`
	Description  string              `yaml:"description,omitempty" json:"description,omitempty"`
	Elements     []*wireValue        `yaml:"elements,omitempty" json:"elements,omitempty"`
	Entries      *InstanceProperties `yaml:"entries,omitempty" json:"entries,omitempty"`
}

const (
	wireTypeEnum  = "enum"
	wireTypeArray = "array"
	wireTypeMap   = "map"
)

func toWire(v InstancePropertyValue) *wireValue {
	switch x := v.(type) {
	case *PrimitivePropertyValue:
		w := &wireValue{Type: x.Primitive.String(), Value: x.Value}
		if t, ok := x.Value.(time.Time); ok {
			w.Value = t.UTC().Format(time.RFC3339Nano)
		}
		return w
	case *EnumPropertyValue:
		ordinal := x.Ordinal
		return &wireValue{
			Type:         wireTypeEnum,
			Ordinal:      &ordinal,
			SymbolicName: x.SymbolicName,
			Description:  x.Description,
		}
	case *ArrayPropertyValue:
		w := &wireValue{Type: wireTypeArray, Elements: make([]*wireValue, len(x.Elements))}
		for i, el := range x.Elements {
			w.Elements[i] = toWire(el)
		}
		return w
	case *MapPropertyValue:
		entries := x.Entries
		if entries == nil {
			entries = NewInstanceProperties()
		}
		return &wireValue{Type: wireTypeMap, Entries: entries}
	}
	panic(fmt.Sprintf("unexpected property value type %T", v))
}

func fromWire(w *wireValue) (InstancePropertyValue, error) {
	switch w.Type {
	case wireTypeEnum:
		if w.Ordinal == nil {
			return nil, fmt.Errorf("enum value %q has no ordinal", w.SymbolicName)
		}
		return &EnumPropertyValue{
			Ordinal:      *w.Ordinal,
			SymbolicName: w.SymbolicName,
			Description:  w.Description,
		}, nil
	case wireTypeArray:
		elems := make([]InstancePropertyValue, len(w.Elements))
		for i, el := range w.Elements {
			v, err := fromWire(el)
			if err != nil {
				return nil, fmt.Errorf("array element %d: %w", i, err)
			}
			elems[i] = v
		}
		return &ArrayPropertyValue{Elements: elems}, nil
	case wireTypeMap:
		entries := w.Entries
		if entries == nil {
			entries = NewInstanceProperties()
		}
		return &MapPropertyValue{Entries: entries}, nil
	}
	prim, ok := ParsePrimitiveCategory(w.Type)
	if !ok {
		return nil, fmt.Errorf("unknown property type %q", w.Type)
	}
	return newPrimitive(prim, w.Value)
}

// newPrimitive converts a decoded YAML or JSON scalar to a primitive value of the given category.
func newPrimitive(prim PrimitiveCategory, v any) (*PrimitivePropertyValue, error) {
	switch prim {
	case PrimitiveString:
		if v == nil {
			return StringValue(""), nil
		}
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("string property has value %v of type %T", v, v)
		}
		return StringValue(s), nil
	case PrimitiveBoolean:
		if v == nil {
			return BooleanValue(false), nil
		}
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("boolean property has value %v of type %T", v, v)
		}
		return BooleanValue(b), nil
	case PrimitiveInt:
		if v == nil {
			return IntValue(0), nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("int property: %w", err)
		}
		if n < math.MinInt32 || n > math.MaxInt32 {
			return nil, fmt.Errorf("int property: %d is out of range", n)
		}
		return IntValue(int(n)), nil
	case PrimitiveLong:
		if v == nil {
			return LongValue(0), nil
		}
		n, err := toInt64(v)
		if err != nil {
			return nil, fmt.Errorf("long property: %w", err)
		}
		return LongValue(n), nil
	case PrimitiveDouble:
		switch f := v.(type) {
		case nil:
			return DoubleValue(0), nil
		case float64:
			return DoubleValue(f), nil
		case int:
			return DoubleValue(float64(f)), nil
		case json.Number:
			d, err := f.Float64()
			if err != nil {
				return nil, fmt.Errorf("double property: %w", err)
			}
			return DoubleValue(d), nil
		}
		return nil, fmt.Errorf("double property has value %v of type %T", v, v)
	case PrimitiveDate:
		switch t := v.(type) {
		case time.Time:
			return DateValue(t), nil
		case string:
			parsed, err := time.Parse(time.RFC3339Nano, t)
			if err != nil {
				return nil, fmt.Errorf("date property: %w", err)
			}
			return DateValue(parsed), nil
		}
		return nil, fmt.Errorf("date property has value %v of type %T", v, v)
	}
	return nil, fmt.Errorf("unsupported primitive category %v", prim)
}

// MarshalYAML encodes p as a YAML mapping that preserves property order.
func (p *InstanceProperties) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, n := range p.Names() {
		var valueNode yaml.Node
		if err := valueNode.Encode(toWire(p.values[n])); err != nil {
			return nil, fmt.Errorf("failed to encode property %s: %w", n, err)
		}
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: n}
		node.Content = append(node.Content, keyNode, &valueNode)
	}
	return node, nil
}

func (p *InstanceProperties) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("instance properties must be a mapping, but got %s at line %d", value.Tag, value.Line)
	}
	*p = InstanceProperties{}
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		var w wireValue
		if err := value.Content[i+1].Decode(&w); err != nil {
			return fmt.Errorf("property %s at line %d: %w", name, value.Content[i].Line, err)
		}
		v, err := fromWire(&w)
		if err != nil {
			return fmt.Errorf("property %s at line %d: %w", name, value.Content[i].Line, err)
		}
		p.Set(name, v)
	}
	return nil
}

// MarshalJSON encodes p as a JSON object that preserves property order.
func (p *InstanceProperties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, n := range p.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(toWire(p.values[n]))
		if err != nil {
			return nil, fmt.Errorf("failed to encode property %s: %w", n, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (p *InstanceProperties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("instance properties must be a JSON object")
	}
	*p = InstanceProperties{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected property name, got %v", tok)
		}
		var w wireValue
		if err := dec.Decode(&w); err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
		v, err := fromWire(&w)
		if err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
		p.Set(name, v)
	}
	// Consume the closing brace.
	_, err = dec.Token()
	return err
}
