package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

// FileSystemBuilder builds a SoftwareServerCapability that always carries
// the FileSystem classification.
type FileSystemBuilder struct {
	SoftwareServerCapabilityBuilder
	format     string
	encryption string
}

func NewFileSystemBuilder(helper RepositoryHelper, fs *beans.FileSystem) *FileSystemBuilder {
	return &FileSystemBuilder{
		SoftwareServerCapabilityBuilder: *NewSoftwareServerCapabilityBuilder(helper, &fs.SoftwareServerCapability),
		format:                          fs.Format,
		encryption:                      fs.Encryption,
	}
}

func (b *FileSystemBuilder) FileSystemProperties(methodName string) *omrs.InstanceProperties {
	props := b.helper.AddString(nil, mapper.FormatPropertyName, b.format)
	props = b.helper.AddString(props, mapper.EncryptionPropertyName, b.encryption)
	return props
}

func (b *FileSystemBuilder) Classifications(methodName string) ([]*omrs.Classification, error) {
	cs, err := b.RootBuilder.Classifications(methodName)
	if err != nil {
		return nil, err
	}
	fs, err := b.helper.NewClassification(methodName, b.typeName, mapper.FileSystemClassificationName, b.FileSystemProperties(methodName))
	if err != nil {
		return nil, err
	}
	return append(cs, fs), nil
}
