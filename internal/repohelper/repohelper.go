// Package repohelper appends typed values to instance properties and creates
// classifications that are checked against the type catalogue.
package repohelper

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/omrs"
	"github.com/dnswlt/egeria/internal/typedefs"
)

const (
	quoteStart = `\Q`
	quoteEnd   = `\E`
)

// Helper is the repository helper used by the builders.
// All Add* methods accept a nil container, allocate one on demand
// and return it. Unset values (empty strings, nil slices and maps,
// zero times) are not added.
type Helper struct {
	types *typedefs.Registry
}

func New(types *typedefs.Registry) *Helper {
	return &Helper{types: types}
}

func ensure(props *omrs.InstanceProperties) *omrs.InstanceProperties {
	if props == nil {
		return omrs.NewInstanceProperties()
	}
	return props
}

func (h *Helper) AddString(props *omrs.InstanceProperties, name, value string) *omrs.InstanceProperties {
	if value == "" {
		return props
	}
	props = ensure(props)
	props.Set(name, omrs.StringValue(value))
	return props
}

func (h *Helper) AddBoolean(props *omrs.InstanceProperties, name string, value bool) *omrs.InstanceProperties {
	props = ensure(props)
	props.Set(name, omrs.BooleanValue(value))
	return props
}

func (h *Helper) AddInt(props *omrs.InstanceProperties, name string, value int) *omrs.InstanceProperties {
	props = ensure(props)
	props.Set(name, omrs.IntValue(value))
	return props
}

func (h *Helper) AddLong(props *omrs.InstanceProperties, name string, value int64) *omrs.InstanceProperties {
	props = ensure(props)
	props.Set(name, omrs.LongValue(value))
	return props
}

func (h *Helper) AddDate(props *omrs.InstanceProperties, name string, value time.Time) *omrs.InstanceProperties {
	if value.IsZero() {
		return props
	}
	props = ensure(props)
	props.Set(name, omrs.DateValue(value))
	return props
}

func (h *Helper) AddStringArray(props *omrs.InstanceProperties, name string, values []string) *omrs.InstanceProperties {
	if values == nil {
		return props
	}
	props = ensure(props)
	props.Set(name, omrs.StringArrayValue(values))
	return props
}

func (h *Helper) AddStringMap(props *omrs.InstanceProperties, name string, values map[string]string) *omrs.InstanceProperties {
	if values == nil {
		return props
	}
	props = ensure(props)
	props.Set(name, omrs.StringMapValue(values))
	return props
}

func (h *Helper) AddEnum(props *omrs.InstanceProperties, name string, ordinal int, symbolicName, description string) *omrs.InstanceProperties {
	props = ensure(props)
	props.Set(name, &omrs.EnumPropertyValue{
		Ordinal:      ordinal,
		SymbolicName: symbolicName,
		Description:  description,
	})
	return props
}

// AddAnyMap adds values as a single map-valued property.
// It fails with an invalid-parameter error naming the key of the first
// value whose type is not supported.
func (h *Helper) AddAnyMap(methodName string, props *omrs.InstanceProperties, name string, values map[string]any) (*omrs.InstanceProperties, error) {
	if values == nil {
		return props, nil
	}
	entries, err := h.typedProperties(methodName, name+".", values)
	if err != nil {
		return props, err
	}
	props = ensure(props)
	props.Set(name, &omrs.MapPropertyValue{Entries: entries})
	return props, nil
}

// AddPropertyMap adds each entry of values as a top-level property.
// This is how extended properties of subtypes are passed to the repository.
func (h *Helper) AddPropertyMap(methodName string, props *omrs.InstanceProperties, values map[string]any) (*omrs.InstanceProperties, error) {
	if len(values) == 0 {
		return props, nil
	}
	typed, err := h.typedProperties(methodName, "", values)
	if err != nil {
		return props, err
	}
	props = ensure(props)
	props.Merge(typed)
	return props, nil
}

// typedProperties converts values in ascending key order. Nil values are skipped.
func (h *Helper) typedProperties(methodName, paramPrefix string, values map[string]any) (*omrs.InstanceProperties, error) {
	result := omrs.NewInstanceProperties()
	for _, k := range slices.Sorted(maps.Keys(values)) {
		v := values[k]
		if v == nil {
			continue
		}
		pv, err := h.typedValue(methodName, paramPrefix+k, v)
		if err != nil {
			return nil, err
		}
		result.Set(k, pv)
	}
	return result, nil
}

func (h *Helper) typedValue(methodName, param string, v any) (omrs.InstancePropertyValue, error) {
	switch x := v.(type) {
	case string:
		return omrs.StringValue(x), nil
	case bool:
		return omrs.BooleanValue(x), nil
	case int:
		return omrs.IntValue(x), nil
	case int32:
		return omrs.IntValue(int(x)), nil
	case int64:
		return omrs.LongValue(x), nil
	case float64:
		return omrs.DoubleValue(x), nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			if n >= math.MinInt32 && n <= math.MaxInt32 {
				return omrs.IntValue(int(n)), nil
			}
			return omrs.LongValue(n), nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, ffdc.InvalidParameter(methodName, param, "the value %s of property %s is not a number", x, param)
		}
		return omrs.DoubleValue(f), nil
	case time.Time:
		return omrs.DateValue(x), nil
	case []string:
		return omrs.StringArrayValue(x), nil
	case []any:
		elems := make([]omrs.InstancePropertyValue, 0, len(x))
		for i, el := range x {
			ev, err := h.typedValue(methodName, fmt.Sprintf("%s[%d]", param, i), el)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ev)
		}
		return &omrs.ArrayPropertyValue{Elements: elems}, nil
	case map[string]string:
		return omrs.StringMapValue(x), nil
	case map[string]any:
		entries, err := h.typedProperties(methodName, param+".", x)
		if err != nil {
			return nil, err
		}
		return &omrs.MapPropertyValue{Entries: entries}, nil
	}
	return nil, ffdc.InvalidParameter(methodName, param,
		"the value of property %s has unsupported type %T", param, v)
}

// NewClassification returns a classification for an entity of type entityTypeName.
func (h *Helper) NewClassification(methodName, entityTypeName, classificationName string, props *omrs.InstanceProperties) (*omrs.Classification, error) {
	if classificationName == "" {
		return nil, ffdc.InvalidParameter(methodName, "classificationName", "the classification name is empty")
	}
	if _, ok := h.types.Classification(classificationName); !ok {
		return nil, ffdc.TypeError(methodName, "classificationName", "unknown classification %q", classificationName)
	}
	if !h.types.ValidClassificationFor(classificationName, entityTypeName) {
		return nil, ffdc.TypeError(methodName, "classificationName",
			"classification %q is not valid for entities of type %q", classificationName, entityTypeName)
	}
	return &omrs.Classification{
		Name:       classificationName,
		Origin:     omrs.OriginAssigned,
		Properties: props,
	}, nil
}

// ExactMatchRegex returns a regular expression that matches s literally.
func (h *Helper) ExactMatchRegex(s string) string {
	return ExactMatchRegex(s)
}

func (h *Helper) IsExactMatchRegex(s string) bool {
	return IsExactMatchRegex(s)
}

func ExactMatchRegex(s string) string {
	if strings.Contains(s, quoteEnd) {
		// \Q...\E cannot contain \E.
		return regexp.QuoteMeta(s)
	}
	return quoteStart + s + quoteEnd
}

// IsExactMatchRegex reports whether s was produced by ExactMatchRegex
// using the \Q...\E form.
func IsExactMatchRegex(s string) bool {
	if !strings.HasPrefix(s, quoteStart) || !strings.HasSuffix(s, quoteEnd) || len(s) < len(quoteStart)+len(quoteEnd) {
		return false
	}
	return !strings.Contains(s[len(quoteStart):len(s)-len(quoteEnd)], quoteEnd)
}

// UnquoteExactMatchRegex returns the literal matched by an exact match regex,
// or s itself if it is not one.
func UnquoteExactMatchRegex(s string) string {
	if !IsExactMatchRegex(s) {
		return s
	}
	return s[len(quoteStart) : len(s)-len(quoteEnd)]
}
