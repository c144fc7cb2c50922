// Package beans holds the typed metadata elements exchanged with clients
// of the metadata server. They are converted to and from repository
// instances by the builder and handler packages.
package beans

import "time"

// ElementHeader holds the fields shared by all beans.
type ElementHeader struct {
	// GUID is assigned by the server. It is ignored on create requests.
	GUID string `json:"guid,omitempty" yaml:"guid,omitempty"`
	// TypeName optionally names a subtype of the bean's default type,
	// e.g. "Host" for an Asset.
	TypeName        string            `json:"typeName,omitempty" yaml:"typeName,omitempty"`
	Classifications []*Classification `json:"classifications,omitempty" yaml:"classifications,omitempty"`
	// ExtendedProperties holds the properties of a subtype that have no field in the bean.
	ExtendedProperties map[string]any `json:"extendedProperties,omitempty" yaml:"extendedProperties,omitempty"`
	// Version and UpdateTime are set by the server on returned beans.
	Version    int64     `json:"version,omitempty" yaml:"version,omitempty"`
	UpdateTime time.Time `json:"updateTime,omitzero" yaml:"updateTime,omitempty"`
}

// Classification is a named set of properties attached to an element.
type Classification struct {
	Name       string         `json:"name" yaml:"name"`
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

type Referenceable struct {
	ElementHeader        `yaml:",inline"`
	QualifiedName        string            `json:"qualifiedName" yaml:"qualifiedName"`
	AdditionalProperties map[string]string `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`
}

type Asset struct {
	Referenceable `yaml:",inline"`
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	DisplayName   string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`

	// Governance zones the asset is a member of (AssetZoneMembership).
	Zones []string `json:"zoneMembership,omitempty" yaml:"zoneMembership,omitempty"`
	// Ownership (AssetOwnership).
	Owner     string         `json:"owner,omitempty" yaml:"owner,omitempty"`
	OwnerType AssetOwnerType `json:"ownerType,omitempty" yaml:"ownerType,omitempty"`
	// Origin (AssetOrigin).
	OriginOrganizationGUID       string            `json:"originOrganizationGUID,omitempty" yaml:"originOrganizationGUID,omitempty"`
	OriginBusinessCapabilityGUID string            `json:"originBusinessCapabilityGUID,omitempty" yaml:"originBusinessCapabilityGUID,omitempty"`
	OtherOriginValues            map[string]string `json:"otherOriginValues,omitempty" yaml:"otherOriginValues,omitempty"`
}

type Connection struct {
	Referenceable           `yaml:",inline"`
	DisplayName             string            `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description             string            `json:"description,omitempty" yaml:"description,omitempty"`
	SecuredProperties       map[string]string `json:"securedProperties,omitempty" yaml:"securedProperties,omitempty"`
	ConfigurationProperties map[string]any    `json:"configurationProperties,omitempty" yaml:"configurationProperties,omitempty"`
	UserID                  string            `json:"userId,omitempty" yaml:"userId,omitempty"`
	ClearPassword           string            `json:"clearPassword,omitempty" yaml:"clearPassword,omitempty"`
	EncryptedPassword       string            `json:"encryptedPassword,omitempty" yaml:"encryptedPassword,omitempty"`
}

type Endpoint struct {
	Referenceable    `yaml:",inline"`
	Name             string `json:"name,omitempty" yaml:"name,omitempty"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	NetworkAddress   string `json:"networkAddress,omitempty" yaml:"networkAddress,omitempty"`
	Protocol         string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	EncryptionMethod string `json:"encryptionMethod,omitempty" yaml:"encryptionMethod,omitempty"`
}

type Comment struct {
	Referenceable `yaml:",inline"`
	Text          string      `json:"text,omitempty" yaml:"text,omitempty"`
	CommentType   CommentType `json:"commentType,omitempty" yaml:"commentType,omitempty"`
	IsPublic      bool        `json:"isPublic,omitempty" yaml:"isPublic,omitempty"`
}

type Rating struct {
	ElementHeader `yaml:",inline"`
	Stars         StarRating `json:"stars,omitempty" yaml:"stars,omitempty"`
	Review        string     `json:"review,omitempty" yaml:"review,omitempty"`
	IsPublic      bool       `json:"isPublic,omitempty" yaml:"isPublic,omitempty"`
}

type Like struct {
	ElementHeader `yaml:",inline"`
	IsPublic      bool `json:"isPublic,omitempty" yaml:"isPublic,omitempty"`
}

type InformalTag struct {
	ElementHeader `yaml:",inline"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	IsPublic      bool   `json:"isPublic,omitempty" yaml:"isPublic,omitempty"`
}

type SchemaType struct {
	Referenceable    `yaml:",inline"`
	DisplayName      string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	VersionNumber    string `json:"versionNumber,omitempty" yaml:"versionNumber,omitempty"`
	Author           string `json:"author,omitempty" yaml:"author,omitempty"`
	Usage            string `json:"usage,omitempty" yaml:"usage,omitempty"`
	EncodingStandard string `json:"encodingStandard,omitempty" yaml:"encodingStandard,omitempty"`
	Namespace        string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
}

// EmbeddedSchemaType describes the type of a schema attribute whose
// schema type is not stored as a separate entity (TypeEmbeddedAttribute).
type EmbeddedSchemaType struct {
	SchemaTypeName string `json:"schemaTypeName" yaml:"schemaTypeName"`
	DataType       string `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	DefaultValue   string `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

type SchemaAttribute struct {
	Referenceable         `yaml:",inline"`
	Name                  string              `json:"name,omitempty" yaml:"name,omitempty"`
	Position              int                 `json:"position" yaml:"position"`
	MinCardinality        int                 `json:"minCardinality" yaml:"minCardinality"`
	MaxCardinality        int                 `json:"maxCardinality" yaml:"maxCardinality"`
	AllowsDuplicateValues bool                `json:"allowsDuplicateValues" yaml:"allowsDuplicateValues"`
	OrderedValues         bool                `json:"orderedValues" yaml:"orderedValues"`
	SortOrder             DataItemSortOrder   `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
	DefaultValueOverride  string              `json:"defaultValueOverride,omitempty" yaml:"defaultValueOverride,omitempty"`
	NativeClass           string              `json:"nativeClass,omitempty" yaml:"nativeClass,omitempty"`
	Aliases               []string            `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	EmbeddedType          *EmbeddedSchemaType `json:"embeddedType,omitempty" yaml:"embeddedType,omitempty"`
}

type SoftwareServerCapability struct {
	Referenceable     `yaml:",inline"`
	Name              string `json:"name,omitempty" yaml:"name,omitempty"`
	Description       string `json:"description,omitempty" yaml:"description,omitempty"`
	CapabilityType    string `json:"capabilityType,omitempty" yaml:"capabilityType,omitempty"`
	CapabilityVersion string `json:"capabilityVersion,omitempty" yaml:"capabilityVersion,omitempty"`
	PatchLevel        string `json:"patchLevel,omitempty" yaml:"patchLevel,omitempty"`
	Source            string `json:"source,omitempty" yaml:"source,omitempty"`
}

// FileSystem is a software server capability classified as a file system.
type FileSystem struct {
	SoftwareServerCapability `yaml:",inline"`
	Format                   string `json:"format,omitempty" yaml:"format,omitempty"`
	Encryption               string `json:"encryption,omitempty" yaml:"encryption,omitempty"`
}

type SolutionBlueprint struct {
	Referenceable `yaml:",inline"`
	DisplayName   string `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Version       string `json:"version,omitempty" yaml:"version,omitempty"`
}
