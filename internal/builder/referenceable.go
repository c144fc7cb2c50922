package builder

import (
	"maps"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type ReferenceableBuilder struct {
	RootBuilder
	qualifiedName        string
	additionalProperties map[string]string
}

func newReferenceableBuilder(helper RepositoryHelper, defaultTypeName string, r *beans.Referenceable) ReferenceableBuilder {
	return ReferenceableBuilder{
		RootBuilder:          newRootBuilder(helper, defaultTypeName, &r.ElementHeader),
		qualifiedName:        r.QualifiedName,
		additionalProperties: maps.Clone(r.AdditionalProperties),
	}
}

// NewReferenceableBuilder returns a builder for a plain Referenceable
// or one of its subtypes without a dedicated builder.
func NewReferenceableBuilder(helper RepositoryHelper, r *beans.Referenceable) *ReferenceableBuilder {
	b := newReferenceableBuilder(helper, mapper.ReferenceableTypeName, r)
	return &b
}

func (b *ReferenceableBuilder) QualifiedName() string {
	return b.qualifiedName
}

func (b *ReferenceableBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.RootBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.QualifiedNamePropertyName, b.qualifiedName)
	props = b.helper.AddStringMap(props, mapper.AdditionalPropertiesPropertyName, b.additionalProperties)
	return props, nil
}

// NameProperties returns the properties used to search for the element
// by name. All values are exact match regexes.
func (b *ReferenceableBuilder) NameProperties(methodName string) *omrs.InstanceProperties {
	return b.exactMatch(nil, mapper.QualifiedNamePropertyName, b.qualifiedName)
}
