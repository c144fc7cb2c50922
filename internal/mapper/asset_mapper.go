package mapper

const (
	AssetTypeGUID = "896d14c2-7522-4f6c-8519-757711943fe6"
	AssetTypeName = "Asset"

	HostTypeName = "Host"

	AssetZoneMembershipClassificationName = "AssetZoneMembership"
	ZoneMembershipPropertyName            = "zoneMembership"

	AssetOwnershipClassificationName = "AssetOwnership"
	OwnerPropertyName                = "owner"
	OwnerTypePropertyName            = "ownerType"
	AssetOwnerTypeEnumTypeName       = "AssetOwnerType"

	AssetOriginClassificationName  = "AssetOrigin"
	OrganizationPropertyName       = "organization"
	BusinessCapabilityPropertyName = "businessCapability"
	OtherOriginValuesPropertyName  = "otherOriginValues"

	LatestChangePropertyName    = "latestChange"
	OperatingSystemPropertyName = "operatingSystem"
	ArchitecturePropertyName    = "architecture"
)
