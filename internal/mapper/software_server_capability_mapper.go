package mapper

const (
	SoftwareServerCapabilityTypeGUID = "fe30a033-8f86-4d17-8986-e6166fa24177"
	SoftwareServerCapabilityTypeName = "SoftwareServerCapability"

	CapabilityTypePropertyName    = "capabilityType"
	CapabilityVersionPropertyName = "capabilityVersion"
	PatchLevelPropertyName        = "patchLevel"
	SourcePropertyName            = "source"

	SupportedSoftwareCapabilityRelationshipName = "SupportedSoftwareCapability"
	DeploymentTimePropertyName                  = "deploymentTime"
)
