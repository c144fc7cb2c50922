package builder

import (
	"maps"
	"slices"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type AssetBuilder struct {
	ReferenceableBuilder
	name        string
	displayName string
	description string

	zones     []string
	owner     string
	ownerType beans.AssetOwnerType

	originOrganization       string
	originBusinessCapability string
	otherOriginValues        map[string]string
}

func NewAssetBuilder(helper RepositoryHelper, a *beans.Asset) *AssetBuilder {
	return &AssetBuilder{
		ReferenceableBuilder:     newReferenceableBuilder(helper, mapper.AssetTypeName, &a.Referenceable),
		name:                     a.Name,
		displayName:              a.DisplayName,
		description:              a.Description,
		zones:                    slices.Clone(a.Zones),
		owner:                    a.Owner,
		ownerType:                a.OwnerType,
		originOrganization:       a.OriginOrganizationGUID,
		originBusinessCapability: a.OriginBusinessCapabilityGUID,
		otherOriginValues:        maps.Clone(a.OtherOriginValues),
	}
}

func (b *AssetBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.ReferenceableBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.NamePropertyName, b.name)
	props = b.helper.AddString(props, mapper.DisplayNamePropertyName, b.displayName)
	props = b.helper.AddString(props, mapper.DescriptionPropertyName, b.description)
	return props, nil
}

func (b *AssetBuilder) NameProperties(methodName string) *omrs.InstanceProperties {
	props := b.ReferenceableBuilder.NameProperties(methodName)
	props = b.exactMatch(props, mapper.NamePropertyName, b.name)
	return props
}

// ZoneMembershipProperties returns the properties of the AssetZoneMembership
// classification, or nil if the asset has no zones.
func (b *AssetBuilder) ZoneMembershipProperties(methodName string) *omrs.InstanceProperties {
	return b.helper.AddStringArray(nil, mapper.ZoneMembershipPropertyName, b.zones)
}

// OwnershipProperties returns the properties of the AssetOwnership
// classification, or nil if the asset has no owner.
func (b *AssetBuilder) OwnershipProperties(methodName string) (*omrs.InstanceProperties, error) {
	if b.owner == "" {
		return nil, nil
	}
	props := b.helper.AddString(nil, mapper.OwnerPropertyName, b.owner)
	return addEnum(b.helper, methodName, props, mapper.OwnerTypePropertyName, AssetOwnerTypes, b.ownerType)
}

// OriginProperties returns the properties of the AssetOrigin
// classification, or nil if no origin is set.
func (b *AssetBuilder) OriginProperties(methodName string) *omrs.InstanceProperties {
	var props *omrs.InstanceProperties
	props = b.helper.AddString(props, mapper.OrganizationPropertyName, b.originOrganization)
	props = b.helper.AddString(props, mapper.BusinessCapabilityPropertyName, b.originBusinessCapability)
	props = b.helper.AddStringMap(props, mapper.OtherOriginValuesPropertyName, b.otherOriginValues)
	return props
}

// Classifications returns the bean's classifications followed by the
// zone membership, ownership and origin classifications that are set.
func (b *AssetBuilder) Classifications(methodName string) ([]*omrs.Classification, error) {
	cs, err := b.RootBuilder.Classifications(methodName)
	if err != nil {
		return nil, err
	}
	cs, err = b.classification(methodName, cs, mapper.AssetZoneMembershipClassificationName, b.ZoneMembershipProperties(methodName))
	if err != nil {
		return nil, err
	}
	ownership, err := b.OwnershipProperties(methodName)
	if err != nil {
		return nil, err
	}
	cs, err = b.classification(methodName, cs, mapper.AssetOwnershipClassificationName, ownership)
	if err != nil {
		return nil, err
	}
	return b.classification(methodName, cs, mapper.AssetOriginClassificationName, b.OriginProperties(methodName))
}
