package mapper

const (
	SchemaTypeTypeGUID        = "5bd4a3e7-d22d-4a3d-a115-066ee8e0754f"
	SchemaTypeTypeName        = "SchemaType"
	ComplexSchemaTypeTypeName = "ComplexSchemaType"

	VersionNumberPropertyName    = "versionNumber"
	AuthorPropertyName           = "author"
	UsagePropertyName            = "usage"
	EncodingStandardPropertyName = "encodingStandard"
	NamespacePropertyName        = "namespace"

	AssetSchemaTypeRelationshipName = "AssetSchemaType"
)
