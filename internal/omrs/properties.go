// Package omrs defines the generic instance model of the metadata repository:
// ordered instance properties, classifications, entities and relationships.
package omrs

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"
)

type PropertyCategory int

const (
	CategoryPrimitive PropertyCategory = iota + 1
	CategoryEnum
	CategoryArray
	CategoryMap
)

func (c PropertyCategory) String() string {
	switch c {
	case CategoryPrimitive:
		return "primitive"
	case CategoryEnum:
		return "enum"
	case CategoryArray:
		return "array"
	case CategoryMap:
		return "map"
	}
	return "unknown"
}

type PrimitiveCategory int

const (
	PrimitiveString PrimitiveCategory = iota + 1
	PrimitiveBoolean
	PrimitiveInt
	PrimitiveLong
	PrimitiveDouble
	PrimitiveDate
)

var primitiveNames = map[PrimitiveCategory]string{
	PrimitiveString:  "string",
	PrimitiveBoolean: "boolean",
	PrimitiveInt:     "int",
	PrimitiveLong:    "long",
	PrimitiveDouble:  "double",
	PrimitiveDate:    "date",
}

func (p PrimitiveCategory) String() string {
	if s, ok := primitiveNames[p]; ok {
		return s
	}
	return "unknown"
}

// ParsePrimitiveCategory returns the primitive category with the given name.
func ParsePrimitiveCategory(s string) (PrimitiveCategory, bool) {
	for k, v := range primitiveNames {
		if v == s {
			return k, true
		}
	}
	return 0, false
}

// InstancePropertyValue is the interface implemented by all typed property values.
type InstancePropertyValue interface {
	Category() PropertyCategory
	// String returns a human-readable rendering of the value.
	String() string
	Equal(other InstancePropertyValue) bool
	// Native returns the value as a plain Go value (string, bool, int64, float64,
	// time.Time, []any, map[string]any). Enums are returned as their symbolic name.
	Native() any
}

// PrimitivePropertyValue holds a single scalar value.
// Value has Go type string, bool, int, int64, float64 or time.Time,
// matching Primitive.
type PrimitivePropertyValue struct {
	Primitive PrimitiveCategory
	Value     any
}

// EnumPropertyValue holds one value of an enumeration type.
type EnumPropertyValue struct {
	Ordinal      int
	SymbolicName string
	Description  string
}

// ArrayPropertyValue holds an ordered list of values.
type ArrayPropertyValue struct {
	Elements []InstancePropertyValue
}

// MapPropertyValue holds an ordered set of named values.
type MapPropertyValue struct {
	Entries *InstanceProperties
}

func (p *PrimitivePropertyValue) Category() PropertyCategory { return CategoryPrimitive }
func (e *EnumPropertyValue) Category() PropertyCategory      { return CategoryEnum }
func (a *ArrayPropertyValue) Category() PropertyCategory     { return CategoryArray }
func (m *MapPropertyValue) Category() PropertyCategory       { return CategoryMap }

func (p *PrimitivePropertyValue) String() string {
	switch v := p.Value.(type) {
	case string:
		return v
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	default:
		return fmt.Sprint(v)
	}
}

func (e *EnumPropertyValue) String() string {
	return e.SymbolicName
}

func (a *ArrayPropertyValue) String() string {
	parts := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		parts[i] = el.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (m *MapPropertyValue) String() string {
	return m.Entries.String()
}

func (p *PrimitivePropertyValue) Equal(other InstancePropertyValue) bool {
	o, ok := other.(*PrimitivePropertyValue)
	if !ok || o.Primitive != p.Primitive {
		return false
	}
	if t, ok := p.Value.(time.Time); ok {
		u, ok := o.Value.(time.Time)
		return ok && t.Equal(u)
	}
	return p.Value == o.Value
}

func (e *EnumPropertyValue) Equal(other InstancePropertyValue) bool {
	o, ok := other.(*EnumPropertyValue)
	return ok && *o == *e
}

func (a *ArrayPropertyValue) Equal(other InstancePropertyValue) bool {
	o, ok := other.(*ArrayPropertyValue)
	if !ok || len(o.Elements) != len(a.Elements) {
		return false
	}
	for i := range a.Elements {
		if !a.Elements[i].Equal(o.Elements[i]) {
			return false
		}
	}
	return true
}

func (m *MapPropertyValue) Equal(other InstancePropertyValue) bool {
	o, ok := other.(*MapPropertyValue)
	return ok && m.Entries.Equal(o.Entries)
}

func (p *PrimitivePropertyValue) Native() any {
	switch v := p.Value.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	default:
		return v
	}
}

func (e *EnumPropertyValue) Native() any {
	return e.SymbolicName
}

func (a *ArrayPropertyValue) Native() any {
	result := make([]any, len(a.Elements))
	for i, el := range a.Elements {
		result[i] = el.Native()
	}
	return result
}

func (m *MapPropertyValue) Native() any {
	return m.Entries.AsMap()
}

// Constructors for the common value types.

func StringValue(s string) *PrimitivePropertyValue {
	return &PrimitivePropertyValue{Primitive: PrimitiveString, Value: s}
}

func BooleanValue(b bool) *PrimitivePropertyValue {
	return &PrimitivePropertyValue{Primitive: PrimitiveBoolean, Value: b}
}

func IntValue(i int) *PrimitivePropertyValue {
	return &PrimitivePropertyValue{Primitive: PrimitiveInt, Value: i}
}

func LongValue(i int64) *PrimitivePropertyValue {
	return &PrimitivePropertyValue{Primitive: PrimitiveLong, Value: i}
}

func DoubleValue(f float64) *PrimitivePropertyValue {
	return &PrimitivePropertyValue{Primitive: PrimitiveDouble, Value: f}
}

func DateValue(t time.Time) *PrimitivePropertyValue {
	return &PrimitivePropertyValue{Primitive: PrimitiveDate, Value: t.UTC()}
}

func StringArrayValue(values []string) *ArrayPropertyValue {
	elems := make([]InstancePropertyValue, len(values))
	for i, v := range values {
		elems[i] = StringValue(v)
	}
	return &ArrayPropertyValue{Elements: elems}
}

// StringMapValue returns a map value with entries in ascending key order.
func StringMapValue(m map[string]string) *MapPropertyValue {
	entries := NewInstanceProperties()
	for _, k := range slices.Sorted(maps.Keys(m)) {
		entries.Set(k, StringValue(m[k]))
	}
	return &MapPropertyValue{Entries: entries}
}

// InstanceProperties is an ordered mapping from property names to values.
// The zero value and the nil pointer are valid empty property sets for reading.
type InstanceProperties struct {
	names  []string
	values map[string]InstancePropertyValue
}

func NewInstanceProperties() *InstanceProperties {
	return &InstanceProperties{
		values: make(map[string]InstancePropertyValue),
	}
}

// Set sets the value of the named property. A property that already exists
// keeps its position. A nil value deletes the property.
func (p *InstanceProperties) Set(name string, value InstancePropertyValue) {
	if value == nil {
		p.Delete(name)
		return
	}
	if p.values == nil {
		p.values = make(map[string]InstancePropertyValue)
	}
	if _, ok := p.values[name]; !ok {
		p.names = append(p.names, name)
	}
	p.values[name] = value
}

func (p *InstanceProperties) Get(name string) (InstancePropertyValue, bool) {
	if p == nil {
		return nil, false
	}
	v, ok := p.values[name]
	return v, ok
}

func (p *InstanceProperties) Delete(name string) {
	if p == nil {
		return
	}
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	p.names = slices.DeleteFunc(p.names, func(n string) bool { return n == name })
}

// Names returns the property names in insertion order.
func (p *InstanceProperties) Names() []string {
	if p == nil {
		return nil
	}
	return slices.Clone(p.names)
}

func (p *InstanceProperties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.names)
}

// Clone returns a deep copy of p.
func (p *InstanceProperties) Clone() *InstanceProperties {
	if p == nil {
		return nil
	}
	c := NewInstanceProperties()
	for _, n := range p.names {
		c.Set(n, cloneValue(p.values[n]))
	}
	return c
}

func cloneValue(v InstancePropertyValue) InstancePropertyValue {
	switch x := v.(type) {
	case *PrimitivePropertyValue:
		cp := *x
		return &cp
	case *EnumPropertyValue:
		cp := *x
		return &cp
	case *ArrayPropertyValue:
		elems := make([]InstancePropertyValue, len(x.Elements))
		for i, el := range x.Elements {
			elems[i] = cloneValue(el)
		}
		return &ArrayPropertyValue{Elements: elems}
	case *MapPropertyValue:
		return &MapPropertyValue{Entries: x.Entries.Clone()}
	}
	return v
}

// Equal reports whether p and q hold the same properties in the same order.
// A nil set equals an empty set.
func (p *InstanceProperties) Equal(q *InstanceProperties) bool {
	if p.Len() != q.Len() {
		return false
	}
	for i, n := range p.Names() {
		if q.names[i] != n {
			return false
		}
		if !p.values[n].Equal(q.values[n]) {
			return false
		}
	}
	return true
}

// Merge copies all properties of other into p, overwriting existing values.
func (p *InstanceProperties) Merge(other *InstanceProperties) {
	for _, n := range other.Names() {
		p.Set(n, other.values[n])
	}
}

// AsMap returns the properties as plain Go values, see InstancePropertyValue.Native.
func (p *InstanceProperties) AsMap() map[string]any {
	result := make(map[string]any, p.Len())
	for _, n := range p.Names() {
		result[n] = p.values[n].Native()
	}
	return result
}

func (p *InstanceProperties) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, n := range p.Names() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(n)
		sb.WriteString("=")
		sb.WriteString(p.values[n].String())
	}
	sb.WriteString("}")
	return sb.String()
}

// Typed accessors. They return false if the property is absent or has a different type.

func (p *InstanceProperties) GetString(name string) (string, bool) {
	v, ok := p.Get(name)
	if !ok {
		return "", false
	}
	pv, ok := v.(*PrimitivePropertyValue)
	if !ok {
		return "", false
	}
	s, ok := pv.Value.(string)
	return s, ok
}

func (p *InstanceProperties) GetBool(name string) (bool, bool) {
	v, ok := p.Get(name)
	if !ok {
		return false, false
	}
	pv, ok := v.(*PrimitivePropertyValue)
	if !ok {
		return false, false
	}
	b, ok := pv.Value.(bool)
	return b, ok
}

func (p *InstanceProperties) GetInt(name string) (int, bool) {
	v, ok := p.Get(name)
	if !ok {
		return 0, false
	}
	pv, ok := v.(*PrimitivePropertyValue)
	if !ok {
		return 0, false
	}
	switch i := pv.Value.(type) {
	case int:
		return i, true
	case int64:
		return int(i), true
	}
	return 0, false
}

func (p *InstanceProperties) GetDate(name string) (time.Time, bool) {
	v, ok := p.Get(name)
	if !ok {
		return time.Time{}, false
	}
	pv, ok := v.(*PrimitivePropertyValue)
	if !ok {
		return time.Time{}, false
	}
	t, ok := pv.Value.(time.Time)
	return t, ok
}

func (p *InstanceProperties) GetEnum(name string) (*EnumPropertyValue, bool) {
	v, ok := p.Get(name)
	if !ok {
		return nil, false
	}
	e, ok := v.(*EnumPropertyValue)
	return e, ok
}

func (p *InstanceProperties) GetStringArray(name string) ([]string, bool) {
	v, ok := p.Get(name)
	if !ok {
		return nil, false
	}
	a, ok := v.(*ArrayPropertyValue)
	if !ok {
		return nil, false
	}
	result := make([]string, len(a.Elements))
	for i, el := range a.Elements {
		result[i] = el.String()
	}
	return result, true
}

func (p *InstanceProperties) GetStringMap(name string) (map[string]string, bool) {
	v, ok := p.Get(name)
	if !ok {
		return nil, false
	}
	m, ok := v.(*MapPropertyValue)
	if !ok {
		return nil, false
	}
	result := make(map[string]string, m.Entries.Len())
	for _, k := range m.Entries.Names() {
		ev, _ := m.Entries.Get(k)
		result[k] = ev.String()
	}
	return result, true
}

// GetAnyMap returns a map property as plain Go values.
func (p *InstanceProperties) GetAnyMap(name string) (map[string]any, bool) {
	v, ok := p.Get(name)
	if !ok {
		return nil, false
	}
	m, ok := v.(*MapPropertyValue)
	if !ok {
		return nil, false
	}
	return m.Entries.AsMap(), true
}

// toInt64 converts the numeric types produced by the YAML and JSON decoders.
func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("out of range: %v", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case float64:
		if n != float64(int64(n)) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int64(n), nil
	case string:
		return strconv.ParseInt(n, 10, 64)
	}
	return 0, fmt.Errorf("not a number: %v (%T)", v, v)
}
