package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type InformalTagBuilder struct {
	RootBuilder
	name        string
	description string
	isPublic    bool
}

func NewInformalTagBuilder(helper RepositoryHelper, t *beans.InformalTag) *InformalTagBuilder {
	return &InformalTagBuilder{
		RootBuilder: newRootBuilder(helper, mapper.InformalTagTypeName, &t.ElementHeader),
		name:        t.Name,
		description: t.Description,
		isPublic:    t.IsPublic,
	}
}

func (b *InformalTagBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.RootBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.TagNamePropertyName, b.name)
	props = b.helper.AddString(props, mapper.TagDescriptionPropertyName, b.description)
	return props, nil
}

func (b *InformalTagBuilder) NameProperties(methodName string) *omrs.InstanceProperties {
	return b.exactMatch(nil, mapper.TagNamePropertyName, b.name)
}

// RelationshipProperties returns the properties of the AttachedTag relationship.
func (b *InformalTagBuilder) RelationshipProperties(methodName string) *omrs.InstanceProperties {
	return b.helper.AddBoolean(nil, mapper.IsPublicPropertyName, b.isPublic)
}
