package mapper

const (
	EndpointTypeGUID = "dbc20663-d705-4ff0-8424-80c262c6b8e7"
	EndpointTypeName = "Endpoint"

	NetworkAddressPropertyName   = "networkAddress"
	ProtocolPropertyName         = "protocol"
	EncryptionMethodPropertyName = "encryptionMethod"
)
