package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

// SchemaTypeBuilder builds schema types. Without an explicit type name
// it creates a ComplexSchemaType, which can hold schema attributes.
type SchemaTypeBuilder struct {
	ReferenceableBuilder
	displayName      string
	versionNumber    string
	author           string
	usage            string
	encodingStandard string
	namespace        string
}

func NewSchemaTypeBuilder(helper RepositoryHelper, s *beans.SchemaType) *SchemaTypeBuilder {
	return &SchemaTypeBuilder{
		ReferenceableBuilder: newReferenceableBuilder(helper, mapper.ComplexSchemaTypeTypeName, &s.Referenceable),
		displayName:          s.DisplayName,
		versionNumber:        s.VersionNumber,
		author:               s.Author,
		usage:                s.Usage,
		encodingStandard:     s.EncodingStandard,
		namespace:            s.Namespace,
	}
}

func (b *SchemaTypeBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.ReferenceableBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.DisplayNamePropertyName, b.displayName)
	props = b.helper.AddString(props, mapper.VersionNumberPropertyName, b.versionNumber)
	props = b.helper.AddString(props, mapper.AuthorPropertyName, b.author)
	props = b.helper.AddString(props, mapper.UsagePropertyName, b.usage)
	props = b.helper.AddString(props, mapper.EncodingStandardPropertyName, b.encodingStandard)
	props = b.helper.AddString(props, mapper.NamespacePropertyName, b.namespace)
	return props, nil
}

func (b *SchemaTypeBuilder) NameProperties(methodName string) *omrs.InstanceProperties {
	props := b.ReferenceableBuilder.NameProperties(methodName)
	return b.exactMatch(props, mapper.DisplayNamePropertyName, b.displayName)
}
