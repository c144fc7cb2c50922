package repository

import (
	"math"
	"time"

	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/typedefs"
)

func (r *Repository) validateEntity(methodName, typeName string, props *omrs.InstanceProperties, classifications []*omrs.Classification) error {
	if err := r.validateProperties(methodName, typeName, props); err != nil {
		return err
	}
	seen := make(map[string]bool)
	for _, c := range classifications {
		if seen[c.Name] {
			return ffdc.InvalidParameter(methodName, "classifications", "classification %q is given more than once", c.Name)
		}
		seen[c.Name] = true
		if err := r.validateClassification(methodName, typeName, c); err != nil {
			return err
		}
	}
	return r.opts.Rules.Check(methodName, typeName, props)
}

// validateProperties checks props against the attributes of the entity type typeName.
func (r *Repository) validateProperties(methodName, typeName string, props *omrs.InstanceProperties) error {
	if typeName == "" {
		return ffdc.InvalidParameter(methodName, "typeName", "no type name given")
	}
	if _, ok := r.types.Entity(typeName); !ok {
		return ffdc.TypeError(methodName, "typeName", "unknown entity type %q", typeName)
	}
	return r.checkAttributes(methodName, typeName, r.types.Attributes(typeName), props)
}

func (r *Repository) validateClassification(methodName, entityTypeName string, c *omrs.Classification) error {
	def, ok := r.types.Classification(c.Name)
	if !ok {
		return ffdc.TypeError(methodName, "classificationName", "unknown classification %q", c.Name)
	}
	if !r.types.ValidClassificationFor(c.Name, entityTypeName) {
		return ffdc.TypeError(methodName, "classificationName",
			"classification %s is not valid for entity type %s", c.Name, entityTypeName)
	}
	return r.checkAttributes(methodName, c.Name, def.Attributes, c.Properties)
}

// validateRelationship must be called with r.mu held.
func (r *Repository) validateRelationship(methodName string, rel *omrs.Relationship) error {
	def, ok := r.types.Relationship(rel.TypeName)
	if !ok {
		return ffdc.TypeError(methodName, "typeName", "unknown relationship type %q", rel.TypeName)
	}
	end1, err := r.getEntity(methodName, "end1GUID", rel.End1GUID)
	if err != nil {
		return err
	}
	end2, err := r.getEntity(methodName, "end2GUID", rel.End2GUID)
	if err != nil {
		return err
	}
	if !r.types.ValidRelationshipEnds(rel.TypeName, end1.TypeName, end2.TypeName) {
		return ffdc.TypeError(methodName, "typeName",
			"relationship %s cannot connect %s (want %s) to %s (want %s)",
			rel.TypeName, end1.TypeName, def.End1, end2.TypeName, def.End2)
	}
	return r.checkAttributes(methodName, rel.TypeName, def.Attributes, rel.Properties)
}

// checkAttributes verifies that every property in props is an attribute
// of owner and that its value has the attribute's type. Values that
// convert losslessly to the attribute's type are replaced in props.
func (r *Repository) checkAttributes(methodName, owner string, attrs map[string]string, props *omrs.InstanceProperties) error {
	for _, name := range props.Names() {
		attrType, ok := attrs[name]
		if !ok {
			return ffdc.TypeError(methodName, name, "%s has no attribute %q", owner, name)
		}
		v, _ := props.Get(name)
		if cv := coerce(v, attrType); cv != v {
			props.Set(name, cv)
			v = cv
		}
		if !r.hasType(v, attrType) {
			return ffdc.TypeError(methodName, name,
				"value %s of %s.%s does not have type %s", v, owner, name, attrType)
		}
	}
	return nil
}

// coerce converts primitive values decoded without type information,
// such as JSON numbers and RFC 3339 strings, to attrType.
// It returns v if no lossless conversion exists.
func coerce(v omrs.InstancePropertyValue, attrType string) omrs.InstancePropertyValue {
	p, ok := v.(*omrs.PrimitivePropertyValue)
	if !ok {
		return v
	}
	switch attrType {
	case typedefs.TypeInt:
		if n, ok := integral(p); ok && n >= math.MinInt32 && n <= math.MaxInt32 && p.Primitive != omrs.PrimitiveInt {
			return omrs.IntValue(int(n))
		}
	case typedefs.TypeLong:
		if n, ok := integral(p); ok && p.Primitive == omrs.PrimitiveDouble {
			return omrs.LongValue(n)
		}
	case typedefs.TypeDate:
		if s, ok := p.Value.(string); ok && p.Primitive == omrs.PrimitiveString {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return omrs.DateValue(t)
			}
		}
	}
	return v
}

// integral returns the value of an int, long or whole-numbered double.
func integral(p *omrs.PrimitivePropertyValue) (int64, bool) {
	switch x := p.Value.(type) {
	case int:
		return int64(x), true
	case int64:
		return x, true
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= math.MaxInt64 {
			return 0, false
		}
		return int64(x), true
	}
	return 0, false
}

func (r *Repository) hasType(v omrs.InstancePropertyValue, attrType string) bool {
	switch x := v.(type) {
	case *omrs.PrimitivePropertyValue:
		switch attrType {
		case typedefs.TypeString:
			return x.Primitive == omrs.PrimitiveString
		case typedefs.TypeBoolean:
			return x.Primitive == omrs.PrimitiveBoolean
		case typedefs.TypeInt:
			return x.Primitive == omrs.PrimitiveInt
		case typedefs.TypeLong:
			return x.Primitive == omrs.PrimitiveInt || x.Primitive == omrs.PrimitiveLong
		case typedefs.TypeDate:
			return x.Primitive == omrs.PrimitiveDate
		}
		return false
	case *omrs.EnumPropertyValue:
		e, ok := r.types.EnumElementByOrdinal(attrType, x.Ordinal)
		return ok && e.SymbolicName == x.SymbolicName
	case *omrs.ArrayPropertyValue:
		if attrType != typedefs.TypeStringArray {
			return false
		}
		for _, el := range x.Elements {
			if p, ok := el.(*omrs.PrimitivePropertyValue); !ok || p.Primitive != omrs.PrimitiveString {
				return false
			}
		}
		return true
	case *omrs.MapPropertyValue:
		switch attrType {
		case typedefs.TypeAnyMap:
			return true
		case typedefs.TypeStringMap:
			for _, k := range x.Entries.Names() {
				ev, _ := x.Entries.Get(k)
				if p, ok := ev.(*omrs.PrimitivePropertyValue); !ok || p.Primitive != omrs.PrimitiveString {
					return false
				}
			}
			return true
		}
	}
	return false
}
