// Package mapper defines the names of the open metadata types and properties
// used by the builders and handlers. Each file covers one entity type.
package mapper

const (
	ReferenceableTypeGUID = "a32316b8-dc8c-48c5-b12b-71c1b2a080bf"
	ReferenceableTypeName = "Referenceable"

	QualifiedNamePropertyName        = "qualifiedName"
	AdditionalPropertiesPropertyName = "additionalProperties"

	// Shared by several entity types.
	NamePropertyName        = "name"
	DisplayNamePropertyName = "displayName"
	DescriptionPropertyName = "description"

	IsPublicPropertyName = "isPublic"
)
