package mapper

const (
	FileSystemClassificationGUID = "cab5ba1d-cfd3-4fca-857d-c07711fc4157"
	FileSystemClassificationName = "FileSystem"

	FormatPropertyName     = "format"
	EncryptionPropertyName = "encryption"
)
