package builder

import (
	"maps"
	"slices"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/omrs"
)

// RootBuilder holds the fields shared by all builders.
type RootBuilder struct {
	helper             RepositoryHelper
	typeName           string
	extendedProperties map[string]any
	classifications    []*beans.Classification
}

// newRootBuilder uses h.TypeName if set, else defaultTypeName.
func newRootBuilder(helper RepositoryHelper, defaultTypeName string, h *beans.ElementHeader) RootBuilder {
	b := RootBuilder{
		helper:   helper,
		typeName: defaultTypeName,
	}
	if h == nil {
		return b
	}
	if h.TypeName != "" {
		b.typeName = h.TypeName
	}
	b.extendedProperties = maps.Clone(h.ExtendedProperties)
	b.classifications = slices.Clone(h.Classifications)
	return b
}

// TypeName returns the name of the entity type the builder creates.
func (b *RootBuilder) TypeName() string {
	return b.typeName
}

// SetClassifications replaces the classifications passed in with the bean.
func (b *RootBuilder) SetClassifications(classifications []*beans.Classification) {
	b.classifications = slices.Clone(classifications)
}

// Classifications converts the bean classifications. It fails if a
// classification has no name or holds properties of an unsupported type.
func (b *RootBuilder) Classifications(methodName string) ([]*omrs.Classification, error) {
	var result []*omrs.Classification
	for _, c := range b.classifications {
		if c == nil {
			continue
		}
		props, err := b.helper.AddPropertyMap(methodName, nil, c.Properties)
		if err != nil {
			return nil, err
		}
		oc, err := b.helper.NewClassification(methodName, b.typeName, c.Name, props)
		if err != nil {
			return nil, err
		}
		result = append(result, oc)
	}
	return result, nil
}

// InstanceProperties returns the extended properties.
func (b *RootBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	return b.helper.AddPropertyMap(methodName, nil, b.extendedProperties)
}

// classification appends a classification built from props, unless props is empty.
func (b *RootBuilder) classification(methodName string, cs []*omrs.Classification, name string, props *omrs.InstanceProperties) ([]*omrs.Classification, error) {
	if props.Len() == 0 {
		return cs, nil
	}
	c, err := b.helper.NewClassification(methodName, b.typeName, name, props)
	if err != nil {
		return nil, err
	}
	return append(cs, c), nil
}

// exactMatch adds value as an exact match regex, unless it is empty.
func (b *RootBuilder) exactMatch(props *omrs.InstanceProperties, name, value string) *omrs.InstanceProperties {
	if value == "" {
		return props
	}
	return b.helper.AddString(props, name, b.helper.ExactMatchRegex(value))
}
