// Package typedefs holds the catalogue of open metadata types (entities,
// relationships, classifications and enums) that the repository validates against.
package typedefs

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed types.yml
var defaultTypes []byte

// Well-known attribute types. Any other attribute type must name an enum.
const (
	TypeString       = "string"
	TypeBoolean      = "boolean"
	TypeInt          = "int"
	TypeLong         = "long"
	TypeDate         = "date"
	TypeStringArray  = "array<string>"
	TypeStringMap    = "map<string,string>"
	TypeAnyMap       = "map<string,object>"
	rootEntityMarker = ""
)

var builtinTypes = []string{
	TypeString, TypeBoolean, TypeInt, TypeLong, TypeDate,
	TypeStringArray, TypeStringMap, TypeAnyMap,
}

type EnumElement struct {
	Ordinal      int    `yaml:"ordinal"`
	SymbolicName string `yaml:"symbolicName"`
	Description  string `yaml:"description"`
}

type EntityDef struct {
	Super      string            `yaml:"super"`
	Attributes map[string]string `yaml:"attributes"`
}

type RelationshipDef struct {
	End1       string            `yaml:"end1"`
	End2       string            `yaml:"end2"`
	Attributes map[string]string `yaml:"attributes"`
}

type ClassificationDef struct {
	ValidFor   []string          `yaml:"validFor"`
	Attributes map[string]string `yaml:"attributes"`
}

// Registry is the parsed, validated type catalogue. It is immutable after Parse.
type Registry struct {
	Enums           map[string][]*EnumElement     `yaml:"enums"`
	Entities        map[string]*EntityDef         `yaml:"entities"`
	Relationships   map[string]*RelationshipDef   `yaml:"relationships"`
	Classifications map[string]*ClassificationDef `yaml:"classifications"`
}

// Load returns the registry of the built-in type catalogue.
func Load() (*Registry, error) {
	return Parse(defaultTypes)
}

// MustLoad is like Load but panics on error. The built-in catalogue is
// covered by tests, so this is safe to use in tests and static initializers.
func MustLoad() *Registry {
	r, err := Load()
	if err != nil {
		panic(fmt.Sprintf("invalid built-in type catalogue: %v", err))
	}
	return r
}

// Parse reads a type catalogue from YAML and validates it.
func Parse(data []byte) (*Registry, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var r Registry
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("invalid type catalogue YAML: %v", err)
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *Registry) validAttributeType(t string) bool {
	if slices.Contains(builtinTypes, t) {
		return true
	}
	_, ok := r.Enums[t]
	return ok
}

func (r *Registry) validate() error {
	for name, elems := range r.Enums {
		seen := map[int]bool{}
		for _, e := range elems {
			if e.SymbolicName == "" {
				return fmt.Errorf("enum %s: element with ordinal %d has no symbolic name", name, e.Ordinal)
			}
			if seen[e.Ordinal] {
				return fmt.Errorf("enum %s: duplicate ordinal %d", name, e.Ordinal)
			}
			seen[e.Ordinal] = true
		}
	}
	for name, def := range r.Entities {
		if def == nil {
			def = &EntityDef{}
			r.Entities[name] = def
		}
		if def.Super != rootEntityMarker {
			if _, ok := r.Entities[def.Super]; !ok {
				return fmt.Errorf("entity type %s: unknown supertype %s", name, def.Super)
			}
		}
		// Detect cycles by walking up the supertype chain.
		seen := map[string]bool{name: true}
		for s := def.Super; s != rootEntityMarker; s = r.Entities[s].Super {
			if seen[s] {
				return fmt.Errorf("entity type %s: supertype cycle through %s", name, s)
			}
			seen[s] = true
			if r.Entities[s] == nil {
				break
			}
		}
		for attr, t := range def.Attributes {
			if !r.validAttributeType(t) {
				return fmt.Errorf("entity type %s: attribute %s has unknown type %q", name, attr, t)
			}
		}
	}
	for name, def := range r.Relationships {
		for _, end := range []string{def.End1, def.End2} {
			if _, ok := r.Entities[end]; !ok {
				return fmt.Errorf("relationship type %s: unknown end type %q", name, end)
			}
		}
		for attr, t := range def.Attributes {
			if !r.validAttributeType(t) {
				return fmt.Errorf("relationship type %s: attribute %s has unknown type %q", name, attr, t)
			}
		}
	}
	for name, def := range r.Classifications {
		if len(def.ValidFor) == 0 {
			return fmt.Errorf("classification %s: no validFor entity types", name)
		}
		for _, v := range def.ValidFor {
			if _, ok := r.Entities[v]; !ok {
				return fmt.Errorf("classification %s: unknown validFor type %q", name, v)
			}
		}
		for attr, t := range def.Attributes {
			if !r.validAttributeType(t) {
				return fmt.Errorf("classification %s: attribute %s has unknown type %q", name, attr, t)
			}
		}
	}
	return nil
}

func (r *Registry) Entity(name string) (*EntityDef, bool) {
	def, ok := r.Entities[name]
	return def, ok
}

func (r *Registry) Relationship(name string) (*RelationshipDef, bool) {
	def, ok := r.Relationships[name]
	return def, ok
}

func (r *Registry) Classification(name string) (*ClassificationDef, bool) {
	def, ok := r.Classifications[name]
	return def, ok
}

func (r *Registry) Enum(name string) ([]*EnumElement, bool) {
	elems, ok := r.Enums[name]
	return elems, ok
}

// EnumElementByOrdinal returns the element of the named enum with the given ordinal.
func (r *Registry) EnumElementByOrdinal(enumName string, ordinal int) (*EnumElement, bool) {
	elems, ok := r.Enums[enumName]
	if !ok {
		return nil, false
	}
	i := slices.IndexFunc(elems, func(e *EnumElement) bool { return e.Ordinal == ordinal })
	if i < 0 {
		return nil, false
	}
	return elems[i], true
}

// Supertypes returns the supertype chain of the named entity type,
// starting with the type itself.
func (r *Registry) Supertypes(name string) []string {
	var chain []string
	for t := name; t != rootEntityMarker; {
		def, ok := r.Entities[t]
		if !ok {
			break
		}
		chain = append(chain, t)
		t = def.Super
	}
	return chain
}

// IsSubtypeOf reports whether entity type name equals super or inherits from it.
func (r *Registry) IsSubtypeOf(name, super string) bool {
	return slices.Contains(r.Supertypes(name), super)
}

// RootType returns the topmost supertype of the named entity type.
func (r *Registry) RootType(name string) string {
	chain := r.Supertypes(name)
	if len(chain) == 0 {
		return name
	}
	return chain[len(chain)-1]
}

// Attributes returns the attributes of the named entity type including inherited ones.
func (r *Registry) Attributes(typeName string) map[string]string {
	result := make(map[string]string)
	chain := r.Supertypes(typeName)
	// Walk top-down so that subtypes may override attribute types.
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range r.Entities[chain[i]].Attributes {
			result[k] = v
		}
	}
	return result
}

// ValidClassificationFor reports whether the classification may be attached to the entity type.
func (r *Registry) ValidClassificationFor(classification, entityType string) bool {
	def, ok := r.Classifications[classification]
	if !ok {
		return false
	}
	for _, v := range def.ValidFor {
		if r.IsSubtypeOf(entityType, v) {
			return true
		}
	}
	return false
}

// ValidRelationshipEnds reports whether entities of the given types may form
// the ends of the named relationship.
func (r *Registry) ValidRelationshipEnds(relationship, end1Type, end2Type string) bool {
	def, ok := r.Relationships[relationship]
	if !ok {
		return false
	}
	return r.IsSubtypeOf(end1Type, def.End1) && r.IsSubtypeOf(end2Type, def.End2)
}

// Subtypes returns the names of all entity types that are subtypes of super
// (including super itself), sorted by name.
func (r *Registry) Subtypes(super string) []string {
	var result []string
	for name := range r.Entities {
		if r.IsSubtypeOf(name, super) {
			result = append(result, name)
		}
	}
	slices.Sort(result)
	return result
}

// IsEnumType reports whether the attribute type names an enum.
func (r *Registry) IsEnumType(attrType string) bool {
	_, ok := r.Enums[attrType]
	return ok
}
