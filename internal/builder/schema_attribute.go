package builder

import (
	"slices"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type SchemaAttributeBuilder struct {
	ReferenceableBuilder
	name                  string
	position              int
	minCardinality        int
	maxCardinality        int
	allowsDuplicateValues bool
	orderedValues         bool
	sortOrder             beans.DataItemSortOrder
	defaultValueOverride  string
	nativeClass           string
	aliases               []string
	embeddedType          *beans.EmbeddedSchemaType
}

func NewSchemaAttributeBuilder(helper RepositoryHelper, a *beans.SchemaAttribute) *SchemaAttributeBuilder {
	b := &SchemaAttributeBuilder{
		ReferenceableBuilder:  newReferenceableBuilder(helper, mapper.SchemaAttributeTypeName, &a.Referenceable),
		name:                  a.Name,
		position:              a.Position,
		minCardinality:        a.MinCardinality,
		maxCardinality:        a.MaxCardinality,
		allowsDuplicateValues: a.AllowsDuplicateValues,
		orderedValues:         a.OrderedValues,
		sortOrder:             a.SortOrder,
		defaultValueOverride:  a.DefaultValueOverride,
		nativeClass:           a.NativeClass,
		aliases:               slices.Clone(a.Aliases),
	}
	if a.EmbeddedType != nil {
		et := *a.EmbeddedType
		b.embeddedType = &et
	}
	return b
}

// InstanceProperties always includes position, cardinalities and the
// duplicate and ordering flags.
func (b *SchemaAttributeBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.ReferenceableBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.NamePropertyName, b.name)
	props = b.helper.AddInt(props, mapper.ElementPositionPropertyName, b.position)
	props = b.helper.AddInt(props, mapper.MinCardinalityPropertyName, b.minCardinality)
	props = b.helper.AddInt(props, mapper.MaxCardinalityPropertyName, b.maxCardinality)
	props = b.helper.AddBoolean(props, mapper.AllowsDuplicateValuesPropertyName, b.allowsDuplicateValues)
	props = b.helper.AddBoolean(props, mapper.OrderedValuesPropertyName, b.orderedValues)
	props, err = addEnum(b.helper, methodName, props, mapper.SortOrderPropertyName, DataItemSortOrders, b.sortOrder)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.DefaultValueOverridePropertyName, b.defaultValueOverride)
	props = b.helper.AddString(props, mapper.NativeClassPropertyName, b.nativeClass)
	props = b.helper.AddStringArray(props, mapper.AliasesPropertyName, b.aliases)
	return props, nil
}

func (b *SchemaAttributeBuilder) NameProperties(methodName string) *omrs.InstanceProperties {
	props := b.ReferenceableBuilder.NameProperties(methodName)
	return b.exactMatch(props, mapper.NamePropertyName, b.name)
}

// TypeEmbeddedAttributeProperties returns the properties of the
// TypeEmbeddedAttribute classification, or nil if the attribute has no
// embedded type.
func (b *SchemaAttributeBuilder) TypeEmbeddedAttributeProperties(methodName string) *omrs.InstanceProperties {
	if b.embeddedType == nil {
		return nil
	}
	props := b.helper.AddString(nil, mapper.SchemaTypeNamePropertyName, b.embeddedType.SchemaTypeName)
	props = b.helper.AddString(props, mapper.DataTypePropertyName, b.embeddedType.DataType)
	props = b.helper.AddString(props, mapper.DefaultValuePropertyName, b.embeddedType.DefaultValue)
	return props
}

func (b *SchemaAttributeBuilder) Classifications(methodName string) ([]*omrs.Classification, error) {
	cs, err := b.RootBuilder.Classifications(methodName)
	if err != nil {
		return nil, err
	}
	return b.classification(methodName, cs, mapper.TypeEmbeddedAttributeClassificationName, b.TypeEmbeddedAttributeProperties(methodName))
}
