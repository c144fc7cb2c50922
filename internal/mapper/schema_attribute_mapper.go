package mapper

const (
	SchemaAttributeTypeGUID = "1a5e159b-913a-43b1-95fe-04433b25fca9"
	SchemaAttributeTypeName = "SchemaAttribute"

	ElementPositionPropertyName       = "position"
	MinCardinalityPropertyName        = "minCardinality"
	MaxCardinalityPropertyName        = "maxCardinality"
	AllowsDuplicateValuesPropertyName = "allowsDuplicateValues"
	OrderedValuesPropertyName         = "orderedValues"
	SortOrderPropertyName             = "sortOrder"
	DefaultValueOverridePropertyName  = "defaultValueOverride"
	NativeClassPropertyName           = "nativeClass"
	AliasesPropertyName               = "aliases"
	DataItemSortOrderEnumTypeName     = "DataItemSortOrder"

	TypeEmbeddedAttributeClassificationName = "TypeEmbeddedAttribute"
	SchemaTypeNamePropertyName              = "schemaTypeName"
	DataTypePropertyName                    = "dataType"
	DefaultValuePropertyName                = "defaultValue"

	AttributeForSchemaRelationshipName = "AttributeForSchema"
)
