package mapper

const (
	ConnectionTypeGUID = "114e9f8f-5ff3-4c32-bd37-a7eb42712253"
	ConnectionTypeName = "Connection"

	SecuredPropertiesPropertyName       = "securedProperties"
	ConfigurationPropertiesPropertyName = "configurationProperties"
	UserIDPropertyName                  = "userId"
	ClearPasswordPropertyName           = "clearPassword"
	EncryptedPasswordPropertyName       = "encryptedPassword"

	ConnectionEndpointRelationshipName = "ConnectionEndpoint"
	ConnectionToAssetRelationshipName  = "ConnectionToAsset"
	AssetSummaryPropertyName           = "assetSummary"
)
