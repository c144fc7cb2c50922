package builder

import (
	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type EndpointBuilder struct {
	ReferenceableBuilder
	name             string
	description      string
	networkAddress   string
	protocol         string
	encryptionMethod string
}

func NewEndpointBuilder(helper RepositoryHelper, e *beans.Endpoint) *EndpointBuilder {
	return &EndpointBuilder{
		ReferenceableBuilder: newReferenceableBuilder(helper, mapper.EndpointTypeName, &e.Referenceable),
		name:                 e.Name,
		description:          e.Description,
		networkAddress:       e.NetworkAddress,
		protocol:             e.Protocol,
		encryptionMethod:     e.EncryptionMethod,
	}
}

func (b *EndpointBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.ReferenceableBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.NamePropertyName, b.name)
	props = b.helper.AddString(props, mapper.DescriptionPropertyName, b.description)
	props = b.helper.AddString(props, mapper.NetworkAddressPropertyName, b.networkAddress)
	props = b.helper.AddString(props, mapper.ProtocolPropertyName, b.protocol)
	props = b.helper.AddString(props, mapper.EncryptionMethodPropertyName, b.encryptionMethod)
	return props, nil
}

func (b *EndpointBuilder) NameProperties(methodName string) *omrs.InstanceProperties {
	props := b.ReferenceableBuilder.NameProperties(methodName)
	return b.exactMatch(props, mapper.NamePropertyName, b.name)
}
