package handler

import (
	"slices"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/builder"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

// Converters from stored entities to beans. Properties that have no bean
// field end up in the bean's extended properties, classifications that
// have no bean field in its classification list.

func newHeader(e *omrs.EntityDetail, fieldProps []string, fieldClassifications []string) beans.ElementHeader {
	h := beans.ElementHeader{
		GUID:       e.GUID,
		TypeName:   e.TypeName,
		Version:    e.Version,
		UpdateTime: e.UpdateTime,
	}
	if h.UpdateTime.IsZero() {
		h.UpdateTime = e.CreateTime
	}
	for _, name := range e.Properties.Names() {
		if slices.Contains(fieldProps, name) {
			continue
		}
		if h.ExtendedProperties == nil {
			h.ExtendedProperties = make(map[string]any)
		}
		v, _ := e.Properties.Get(name)
		h.ExtendedProperties[name] = v.Native()
	}
	for _, c := range e.Classifications {
		if slices.Contains(fieldClassifications, c.Name) {
			continue
		}
		bc := &beans.Classification{Name: c.Name}
		if c.Properties.Len() > 0 {
			bc.Properties = c.Properties.AsMap()
		}
		h.Classifications = append(h.Classifications, bc)
	}
	return h
}

var referenceableProps = []string{
	mapper.QualifiedNamePropertyName,
	mapper.AdditionalPropertiesPropertyName,
}

func newReferenceable(e *omrs.EntityDetail, fieldProps []string, fieldClassifications []string) beans.Referenceable {
	r := beans.Referenceable{
		ElementHeader: newHeader(e, append(slices.Clone(referenceableProps), fieldProps...), fieldClassifications),
		QualifiedName: e.QualifiedName(),
	}
	r.AdditionalProperties, _ = e.Properties.GetStringMap(mapper.AdditionalPropertiesPropertyName)
	return r
}

func stringProp(props *omrs.InstanceProperties, name string) string {
	s, _ := props.GetString(name)
	return s
}

func intProp(props *omrs.InstanceProperties, name string) int {
	i, _ := props.GetInt(name)
	return i
}

func boolProp(props *omrs.InstanceProperties, name string) bool {
	b, _ := props.GetBool(name)
	return b
}

func enumOrdinal(props *omrs.InstanceProperties, name string) (int, bool) {
	e, ok := props.GetEnum(name)
	if !ok {
		return 0, false
	}
	return e.Ordinal, true
}

func assetFromEntity(e *omrs.EntityDetail) *beans.Asset {
	p := e.Properties
	a := &beans.Asset{
		Referenceable: newReferenceable(e,
			[]string{mapper.NamePropertyName, mapper.DisplayNamePropertyName, mapper.DescriptionPropertyName},
			[]string{
				mapper.AssetZoneMembershipClassificationName,
				mapper.AssetOwnershipClassificationName,
				mapper.AssetOriginClassificationName,
			}),
		Name:        stringProp(p, mapper.NamePropertyName),
		DisplayName: stringProp(p, mapper.DisplayNamePropertyName),
		Description: stringProp(p, mapper.DescriptionPropertyName),
	}
	if c := e.Classification(mapper.AssetZoneMembershipClassificationName); c != nil {
		a.Zones, _ = c.Properties.GetStringArray(mapper.ZoneMembershipPropertyName)
	}
	if c := e.Classification(mapper.AssetOwnershipClassificationName); c != nil {
		a.Owner = stringProp(c.Properties, mapper.OwnerPropertyName)
		if ord, ok := enumOrdinal(c.Properties, mapper.OwnerTypePropertyName); ok {
			a.OwnerType, _ = builder.AssetOwnerTypeFromOrdinal(ord)
		}
	}
	if c := e.Classification(mapper.AssetOriginClassificationName); c != nil {
		a.OriginOrganizationGUID = stringProp(c.Properties, mapper.OrganizationPropertyName)
		a.OriginBusinessCapabilityGUID = stringProp(c.Properties, mapper.BusinessCapabilityPropertyName)
		a.OtherOriginValues, _ = c.Properties.GetStringMap(mapper.OtherOriginValuesPropertyName)
	}
	return a
}

// Feedback beans carry the isPublic flag of the relationship that attaches them.

func commentFromEntity(e *omrs.EntityDetail, rel *omrs.Relationship) *beans.Comment {
	c := &beans.Comment{
		Referenceable: newReferenceable(e, []string{mapper.CommentTextPropertyName, mapper.CommentTypePropertyName}, nil),
		Text:          stringProp(e.Properties, mapper.CommentTextPropertyName),
		IsPublic:      boolProp(rel.Properties, mapper.IsPublicPropertyName),
	}
	if ord, ok := enumOrdinal(e.Properties, mapper.CommentTypePropertyName); ok {
		c.CommentType, _ = builder.CommentTypeFromOrdinal(ord)
	}
	return c
}

func ratingFromEntity(e *omrs.EntityDetail, rel *omrs.Relationship) *beans.Rating {
	r := &beans.Rating{
		ElementHeader: newHeader(e, []string{mapper.StarsPropertyName, mapper.ReviewPropertyName}, nil),
		Review:        stringProp(e.Properties, mapper.ReviewPropertyName),
		IsPublic:      boolProp(rel.Properties, mapper.IsPublicPropertyName),
	}
	if ord, ok := enumOrdinal(e.Properties, mapper.StarsPropertyName); ok {
		r.Stars, _ = builder.StarRatingFromOrdinal(ord)
	}
	return r
}

func likeFromEntity(e *omrs.EntityDetail, rel *omrs.Relationship) *beans.Like {
	return &beans.Like{
		ElementHeader: newHeader(e, nil, nil),
		IsPublic:      boolProp(rel.Properties, mapper.IsPublicPropertyName),
	}
}

// tagFromEntity converts a tag. rel may be nil for tags that were not
// reached through an AttachedTag relationship.
func tagFromEntity(e *omrs.EntityDetail, rel *omrs.Relationship) *beans.InformalTag {
	t := &beans.InformalTag{
		ElementHeader: newHeader(e, []string{mapper.TagNamePropertyName, mapper.TagDescriptionPropertyName}, nil),
		Name:          stringProp(e.Properties, mapper.TagNamePropertyName),
		Description:   stringProp(e.Properties, mapper.TagDescriptionPropertyName),
	}
	if rel != nil {
		t.IsPublic = boolProp(rel.Properties, mapper.IsPublicPropertyName)
	}
	return t
}

func schemaAttributeFromEntity(e *omrs.EntityDetail) *beans.SchemaAttribute {
	p := e.Properties
	a := &beans.SchemaAttribute{
		Referenceable: newReferenceable(e, []string{
			mapper.NamePropertyName,
			mapper.ElementPositionPropertyName,
			mapper.MinCardinalityPropertyName,
			mapper.MaxCardinalityPropertyName,
			mapper.AllowsDuplicateValuesPropertyName,
			mapper.OrderedValuesPropertyName,
			mapper.SortOrderPropertyName,
			mapper.DefaultValueOverridePropertyName,
			mapper.NativeClassPropertyName,
			mapper.AliasesPropertyName,
		}, []string{mapper.TypeEmbeddedAttributeClassificationName}),
		Name:                  stringProp(p, mapper.NamePropertyName),
		Position:              intProp(p, mapper.ElementPositionPropertyName),
		MinCardinality:        intProp(p, mapper.MinCardinalityPropertyName),
		MaxCardinality:        intProp(p, mapper.MaxCardinalityPropertyName),
		AllowsDuplicateValues: boolProp(p, mapper.AllowsDuplicateValuesPropertyName),
		OrderedValues:         boolProp(p, mapper.OrderedValuesPropertyName),
		DefaultValueOverride:  stringProp(p, mapper.DefaultValueOverridePropertyName),
		NativeClass:           stringProp(p, mapper.NativeClassPropertyName),
	}
	a.Aliases, _ = p.GetStringArray(mapper.AliasesPropertyName)
	if ord, ok := enumOrdinal(p, mapper.SortOrderPropertyName); ok {
		a.SortOrder, _ = builder.DataItemSortOrderFromOrdinal(ord)
	}
	if c := e.Classification(mapper.TypeEmbeddedAttributeClassificationName); c != nil {
		a.EmbeddedType = &beans.EmbeddedSchemaType{
			SchemaTypeName: stringProp(c.Properties, mapper.SchemaTypeNamePropertyName),
			DataType:       stringProp(c.Properties, mapper.DataTypePropertyName),
			DefaultValue:   stringProp(c.Properties, mapper.DefaultValuePropertyName),
		}
	}
	return a
}
