package mapper

const (
	SolutionBlueprintTypeName = "SolutionBlueprint"

	VersionPropertyName = "version"

	SolutionBlueprintCompositionRelationshipName = "SolutionBlueprintComposition"
	RolePropertyName                             = "role"
)
