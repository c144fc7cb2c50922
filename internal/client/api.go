// Package client defines the API of the metadata server and implements
// it over HTTP.
package client

import (
	"context"

	"github.com/dnswlt/egeria/internal/beans"
)

// API is implemented by the in-process handler service and by the HTTP client.
// Create operations return the GUID of the new element. Failures are
// reported as *ffdc.Error.
type API interface {
	CreateAsset(ctx context.Context, userID string, asset *beans.Asset) (string, error)
	GetAsset(ctx context.Context, userID, assetGUID string) (*beans.Asset, error)
	// FindAssetsByName returns the assets whose name or qualified name equals name.
	FindAssetsByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*beans.Asset, error)
	// UpdateAsset replaces the properties of the asset.
	UpdateAsset(ctx context.Context, userID, assetGUID string, asset *beans.Asset) error
	// DeleteAsset deletes the asset together with its comments, ratings and likes.
	DeleteAsset(ctx context.Context, userID, assetGUID string) error
	AddAssetToZones(ctx context.Context, userID, assetGUID string, zones []string) error

	CreateEndpoint(ctx context.Context, userID string, endpoint *beans.Endpoint) (string, error)
	CreateConnection(ctx context.Context, userID string, req *beans.ConnectionRequest) (string, error)

	AddComment(ctx context.Context, userID, elementGUID string, comment *beans.Comment) (string, error)
	// AddRating replaces the user's earlier rating of the element, if any.
	AddRating(ctx context.Context, userID, elementGUID string, rating *beans.Rating) (string, error)
	// AddLike returns the user's earlier like of the element, if any.
	AddLike(ctx context.Context, userID, elementGUID string, like *beans.Like) (string, error)
	// AddTag attaches the tag with the given name, creating it if it does not exist yet.
	AddTag(ctx context.Context, userID, elementGUID string, tag *beans.InformalTag) (string, error)
	FindTagsByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*beans.InformalTag, error)
	GetFeedback(ctx context.Context, userID, elementGUID string) (*beans.FeedbackResponse, error)

	SetAssetSchemaType(ctx context.Context, userID, assetGUID string, schemaType *beans.SchemaType) (string, error)
	AddSchemaAttribute(ctx context.Context, userID, schemaTypeGUID string, attribute *beans.SchemaAttribute) (string, error)
	// GetSchemaAttributes returns the attributes of the schema type ordered by position.
	GetSchemaAttributes(ctx context.Context, userID, schemaTypeGUID string) ([]*beans.SchemaAttribute, error)

	CreateSoftwareServerCapability(ctx context.Context, userID string, capability *beans.SoftwareServerCapability) (string, error)
	CreateFileSystem(ctx context.Context, userID string, fs *beans.FileSystem) (string, error)
}
