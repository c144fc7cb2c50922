package mapper

const (
	InformalTagTypeGUID = "ba846a7b-2955-40bf-952b-2793ceca090a"
	InformalTagTypeName = "InformalTag"

	TagNamePropertyName        = "tagName"
	TagDescriptionPropertyName = "tagDescription"

	AttachedTagRelationshipName = "AttachedTag"
)
