package builder

import (
	"maps"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/omrs"
)

type ConnectionBuilder struct {
	ReferenceableBuilder
	displayName             string
	description             string
	securedProperties       map[string]string
	configurationProperties map[string]any
	userID                  string
	clearPassword           string
	encryptedPassword       string
}

func NewConnectionBuilder(helper RepositoryHelper, c *beans.Connection) *ConnectionBuilder {
	return &ConnectionBuilder{
		ReferenceableBuilder:    newReferenceableBuilder(helper, mapper.ConnectionTypeName, &c.Referenceable),
		displayName:             c.DisplayName,
		description:             c.Description,
		securedProperties:       maps.Clone(c.SecuredProperties),
		configurationProperties: maps.Clone(c.ConfigurationProperties),
		userID:                  c.UserID,
		clearPassword:           c.ClearPassword,
		encryptedPassword:       c.EncryptedPassword,
	}
}

func (b *ConnectionBuilder) InstanceProperties(methodName string) (*omrs.InstanceProperties, error) {
	props, err := b.ReferenceableBuilder.InstanceProperties(methodName)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.DisplayNamePropertyName, b.displayName)
	props = b.helper.AddString(props, mapper.DescriptionPropertyName, b.description)
	props = b.helper.AddStringMap(props, mapper.SecuredPropertiesPropertyName, b.securedProperties)
	props, err = b.helper.AddAnyMap(methodName, props, mapper.ConfigurationPropertiesPropertyName, b.configurationProperties)
	if err != nil {
		return nil, err
	}
	props = b.helper.AddString(props, mapper.UserIDPropertyName, b.userID)
	props = b.helper.AddString(props, mapper.ClearPasswordPropertyName, b.clearPassword)
	props = b.helper.AddString(props, mapper.EncryptedPasswordPropertyName, b.encryptedPassword)
	return props, nil
}

func (b *ConnectionBuilder) NameProperties(methodName string) *omrs.InstanceProperties {
	props := b.ReferenceableBuilder.NameProperties(methodName)
	return b.exactMatch(props, mapper.DisplayNamePropertyName, b.displayName)
}

// AssetRelationshipProperties returns the properties of the ConnectionToAsset relationship.
func (b *ConnectionBuilder) AssetRelationshipProperties(methodName, assetSummary string) *omrs.InstanceProperties {
	return b.helper.AddString(nil, mapper.AssetSummaryPropertyName, assetSummary)
}
