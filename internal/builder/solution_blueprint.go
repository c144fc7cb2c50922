package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type SolutionBlueprintBuilder struct {
	ReferenceableBuilder
	displayName string
	description string
	version     string
}

func NewSolutionBlueprintBuilder(helper RepositoryHelper, s *beans.SolutionBlueprint) *SolutionBlueprintBuilder {
	return &SolutionBlueprintBuilder{
		ReferenceableBuilder: newReferenceableBuilder(helper, mapper.SolutionBlueprintTypeName, &s.Referenceable),
		displayName:          s.DisplayName,
		description:          s.Description,
		version:              s.Version,
	}
}

func (b *SolutionBlueprintBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.ReferenceableBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.DisplayNamePropertyName, b.displayName)
	props = b.helper.AddString(props, mapper.DescriptionPropertyName, b.description)
	props = b.helper.AddString(props, mapper.VersionPropertyName, b.version)
	return props, nil
}

// CompositionProperties returns the properties of the
// SolutionBlueprintComposition relationship to a member element.
func (b *SolutionBlueprintBuilder) CompositionProperties(methodName, role, description string) *omrs.InstanceProperties {
	props := b.helper.AddString(nil, mapper.RolePropertyName, role)
	return b.helper.AddString(props, mapper.DescriptionPropertyName, description)
}
