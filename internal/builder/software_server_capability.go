package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type SoftwareServerCapabilityBuilder struct {
	ReferenceableBuilder
	name              string
	description       string
	capabilityType    string
	capabilityVersion string
	patchLevel        string
	source            string
}

func NewSoftwareServerCapabilityBuilder(helper RepositoryHelper, c *beans.SoftwareServerCapability) *SoftwareServerCapabilityBuilder {
	return &SoftwareServerCapabilityBuilder{
		ReferenceableBuilder: newReferenceableBuilder(helper, mapper.SoftwareServerCapabilityTypeName, &c.Referenceable),
		name:                 c.Name,
		description:          c.Description,
		capabilityType:       c.CapabilityType,
		capabilityVersion:    c.CapabilityVersion,
		patchLevel:           c.PatchLevel,
		source:               c.Source,
	}
}

func (b *SoftwareServerCapabilityBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.ReferenceableBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.NamePropertyName, b.name)
	props = b.helper.AddString(props, mapper.DescriptionPropertyName, b.description)
	props = b.helper.AddString(props, mapper.CapabilityTypePropertyName, b.capabilityType)
	props = b.helper.AddString(props, mapper.CapabilityVersionPropertyName, b.capabilityVersion)
	props = b.helper.AddString(props, mapper.PatchLevelPropertyName, b.patchLevel)
	props = b.helper.AddString(props, mapper.SourcePropertyName, b.source)
	return props, nil
}

func (b *SoftwareServerCapabilityBuilder) NameProperties(methodName string) *omrs.InstanceProperties {
	props := b.ReferenceableBuilder.NameProperties(methodName)
	return b.exactMatch(props, mapper.NamePropertyName, b.name)
}
