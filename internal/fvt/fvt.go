// Package fvt holds functional verification scenarios that exercise a
// metadata server through its client API. The same scenarios run against
// the in-process service and against a server reached over HTTP.
package fvt

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/client"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server-assigned fields, ignored when comparing beans.
var ignoreServerFields = cmpopts.IgnoreFields(beans.ElementHeader{}, "GUID", "TypeName", "Version", "UpdateTime")

// Runner runs the scenarios as a single user. Qualified names and tag
// names carry a per-runner prefix, so repeated runs against the same
// server do not interfere.
type Runner struct {
	api    client.API
	userID string
	prefix string
	logger *zap.Logger
}

func NewRunner(api client.API, userID string, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		api:    api,
		userID: userID,
		prefix: "fvt-" + uuid.NewString()[:8],
		logger: logger,
	}
}

// Scenario is a named verification step. Run returns an error describing
// the first failed expectation.
type Scenario struct {
	Name string
	Run  func(ctx context.Context) error
}

func (r *Runner) Scenarios() []Scenario {
	return []Scenario{
		{"assets", r.VerifyAssets},
		{"connections", r.VerifyConnections},
		{"schema", r.VerifySchema},
		{"feedback", r.VerifyFeedback},
	}
}

// RunAll runs all scenarios and stops at the first failure.
func (r *Runner) RunAll(ctx context.Context) error {
	for _, s := range r.Scenarios() {
		started := time.Now()
		if err := s.Run(ctx); err != nil {
			r.logger.Error("Scenario failed", zap.String("scenario", s.Name), zap.Error(err))
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		r.logger.Info("Scenario passed", zap.String("scenario", s.Name), zap.Duration("duration", time.Since(started)))
	}
	return nil
}

func (r *Runner) qualifiedName(kind, name string) string {
	return r.prefix + ":" + kind + ":" + name
}

// SampleAsset returns a data file asset owned by the runner's user.
func (r *Runner) SampleAsset(name string) *beans.Asset {
	return &beans.Asset{
		Referenceable: beans.Referenceable{
			QualifiedName:        r.qualifiedName("asset", name),
			AdditionalProperties: map[string]string{"source": "fvt"},
		},
		Name:        name,
		DisplayName: strings.ToUpper(name),
		Description: "Sample asset " + name,
		Zones:       []string{"fvt"},
		Owner:       r.userID,
		OwnerType:   beans.AssetOwnerTypeUserID,
	}
}

func (r *Runner) createAsset(ctx context.Context, name string) (string, error) {
	guid, err := r.api.CreateAsset(ctx, r.userID, r.SampleAsset(name))
	if err != nil {
		return "", fmt.Errorf("CreateAsset(%s): %w", name, err)
	}
	return guid, nil
}

// expectKind checks that err is an *ffdc.Error matching target.
func expectKind(call string, err, target error) error {
	if err == nil {
		return fmt.Errorf("%s succeeded, want %v", call, target)
	}
	if !errors.Is(err, target) {
		return fmt.Errorf("%s failed with %v, want %v", call, err, target)
	}
	return nil
}

// VerifyAssets creates, finds, updates, rezones and deletes an asset.
func (r *Runner) VerifyAssets(ctx context.Context) error {
	want := r.SampleAsset("payroll")
	guid, err := r.api.CreateAsset(ctx, r.userID, want)
	if err != nil {
		return fmt.Errorf("CreateAsset: %w", err)
	}
	got, err := r.api.GetAsset(ctx, r.userID, guid)
	if err != nil {
		return fmt.Errorf("GetAsset: %w", err)
	}
	if got.GUID != guid {
		return fmt.Errorf("GetAsset returned GUID %s, want %s", got.GUID, guid)
	}
	if diff := cmp.Diff(want, got, ignoreServerFields); diff != "" {
		return fmt.Errorf("GetAsset returned unexpected asset (-want +got):\n%s", diff)
	}

	found, err := r.api.FindAssetsByName(ctx, r.userID, want.QualifiedName, 0, 0)
	if err != nil {
		return fmt.Errorf("FindAssetsByName: %w", err)
	}
	if len(found) != 1 || found[0].GUID != guid {
		return fmt.Errorf("FindAssetsByName(%s) returned %d assets, want only %s", want.QualifiedName, len(found), guid)
	}

	update := *want
	update.Description = "Updated by fvt"
	if err := r.api.UpdateAsset(ctx, r.userID, guid, &update); err != nil {
		return fmt.Errorf("UpdateAsset: %w", err)
	}
	updated, err := r.api.GetAsset(ctx, r.userID, guid)
	if err != nil {
		return fmt.Errorf("GetAsset after update: %w", err)
	}
	if updated.Description != update.Description {
		return fmt.Errorf("description after update is %q, want %q", updated.Description, update.Description)
	}
	if updated.Version <= got.Version {
		return fmt.Errorf("version after update is %d, want more than %d", updated.Version, got.Version)
	}

	if err := r.api.AddAssetToZones(ctx, r.userID, guid, []string{"quarantine", "fvt"}); err != nil {
		return fmt.Errorf("AddAssetToZones: %w", err)
	}
	zoned, err := r.api.GetAsset(ctx, r.userID, guid)
	if err != nil {
		return fmt.Errorf("GetAsset after AddAssetToZones: %w", err)
	}
	if wantZones := []string{"fvt", "quarantine"}; !slices.Equal(zoned.Zones, wantZones) {
		return fmt.Errorf("zones are %v, want %v", zoned.Zones, wantZones)
	}

	if err := r.api.DeleteAsset(ctx, r.userID, guid); err != nil {
		return fmt.Errorf("DeleteAsset: %w", err)
	}
	_, err = r.api.GetAsset(ctx, r.userID, guid)
	return expectKind("GetAsset after delete", err, ffdc.ErrNotFound)
}

// VerifyConnections creates an endpoint and a connection that links it
// to an asset. A connection to an unknown endpoint must be rejected.
func (r *Runner) VerifyConnections(ctx context.Context) error {
	assetGUID, err := r.createAsset(ctx, "trials")
	if err != nil {
		return err
	}
	endpointGUID, err := r.api.CreateEndpoint(ctx, r.userID, &beans.Endpoint{
		Referenceable:  beans.Referenceable{QualifiedName: r.qualifiedName("endpoint", "trials")},
		Name:           "trials endpoint",
		NetworkAddress: "file:///data/trials.csv",
		Protocol:       "file",
	})
	if err != nil {
		return fmt.Errorf("CreateEndpoint: %w", err)
	}
	connectionGUID, err := r.api.CreateConnection(ctx, r.userID, &beans.ConnectionRequest{
		Connection: &beans.Connection{
			Referenceable: beans.Referenceable{QualifiedName: r.qualifiedName("connection", "trials")},
			DisplayName:   "trials connection",
			UserID:        r.userID,
			ConfigurationProperties: map[string]any{
				"delimiter": ",",
			},
		},
		EndpointGUID: endpointGUID,
		AssetGUID:    assetGUID,
		AssetSummary: "Read access to the clinical trials results",
	})
	if err != nil {
		return fmt.Errorf("CreateConnection: %w", err)
	}
	if connectionGUID == "" || connectionGUID == endpointGUID || connectionGUID == assetGUID {
		return fmt.Errorf("CreateConnection returned GUID %q", connectionGUID)
	}

	_, err = r.api.CreateConnection(ctx, r.userID, &beans.ConnectionRequest{
		Connection:   &beans.Connection{Referenceable: beans.Referenceable{QualifiedName: r.qualifiedName("connection", "dangling")}},
		EndpointGUID: uuid.NewString(),
	})
	if err := expectKind("CreateConnection with unknown endpoint", err, ffdc.ErrNotFound); err != nil {
		return err
	}
	_, err = r.api.CreateConnection(ctx, r.userID, &beans.ConnectionRequest{})
	return expectKind("CreateConnection without connection", err, ffdc.ErrInvalidParameter)
}

// VerifySchema gives an asset a complex schema type with attributes
// added out of order and checks they are returned by position.
func (r *Runner) VerifySchema(ctx context.Context) error {
	assetGUID, err := r.createAsset(ctx, "employees")
	if err != nil {
		return err
	}
	schemaType := &beans.SchemaType{
		Referenceable: beans.Referenceable{
			ElementHeader: beans.ElementHeader{TypeName: "ComplexSchemaType"},
			QualifiedName: r.qualifiedName("schema", "employees"),
		},
		DisplayName:   "employees",
		VersionNumber: "1.0",
		Author:        r.userID,
	}
	schemaGUID, err := r.api.SetAssetSchemaType(ctx, r.userID, assetGUID, schemaType)
	if err != nil {
		return fmt.Errorf("SetAssetSchemaType: %w", err)
	}

	columns := []string{"name", "id", "department"}
	positions := []int{1, 0, 2}
	for i, col := range columns {
		_, err := r.api.AddSchemaAttribute(ctx, r.userID, schemaGUID, &beans.SchemaAttribute{
			Referenceable:  beans.Referenceable{QualifiedName: r.qualifiedName("column", col)},
			Name:           col,
			Position:       positions[i],
			MinCardinality: 1,
			MaxCardinality: 1,
			EmbeddedType: &beans.EmbeddedSchemaType{
				SchemaTypeName: "PrimitiveSchemaType",
				DataType:       "string",
			},
		})
		if err != nil {
			return fmt.Errorf("AddSchemaAttribute(%s): %w", col, err)
		}
	}
	attrs, err := r.api.GetSchemaAttributes(ctx, r.userID, schemaGUID)
	if err != nil {
		return fmt.Errorf("GetSchemaAttributes: %w", err)
	}
	var names []string
	for _, a := range attrs {
		names = append(names, a.Name)
		if a.EmbeddedType == nil || a.EmbeddedType.DataType != "string" {
			return fmt.Errorf("attribute %s has embedded type %+v, want data type string", a.Name, a.EmbeddedType)
		}
	}
	if want := []string{"id", "name", "department"}; !slices.Equal(names, want) {
		return fmt.Errorf("GetSchemaAttributes returned %v, want %v", names, want)
	}

	second := *schemaType
	second.QualifiedName = r.qualifiedName("schema", "employees-v2")
	_, err = r.api.SetAssetSchemaType(ctx, r.userID, assetGUID, &second)
	return expectKind("second SetAssetSchemaType", err, ffdc.ErrInvalidParameter)
}

// VerifyFeedback attaches comments, ratings, likes and tags to assets.
// A user's second rating replaces the first, a second like is a no-op,
// and tags with the same name are shared between assets.
func (r *Runner) VerifyFeedback(ctx context.Context) error {
	assetGUID, err := r.createAsset(ctx, "customers")
	if err != nil {
		return err
	}
	otherGUID, err := r.createAsset(ctx, "suppliers")
	if err != nil {
		return err
	}

	if _, err := r.api.AddComment(ctx, r.userID, assetGUID, &beans.Comment{
		Text:        "Where does the customer region come from?",
		CommentType: beans.CommentTypeQuestion,
		IsPublic:    true,
	}); err != nil {
		return fmt.Errorf("AddComment: %w", err)
	}

	ratingGUID, err := r.api.AddRating(ctx, r.userID, assetGUID, &beans.Rating{Stars: beans.StarRatingTwoStar, Review: "incomplete"})
	if err != nil {
		return fmt.Errorf("AddRating: %w", err)
	}
	secondRating, err := r.api.AddRating(ctx, r.userID, assetGUID, &beans.Rating{Stars: beans.StarRatingFourStar, Review: "fixed", IsPublic: true})
	if err != nil {
		return fmt.Errorf("second AddRating: %w", err)
	}
	if secondRating != ratingGUID {
		return fmt.Errorf("second AddRating returned %s, want the first rating %s", secondRating, ratingGUID)
	}

	likeGUID, err := r.api.AddLike(ctx, r.userID, assetGUID, &beans.Like{IsPublic: true})
	if err != nil {
		return fmt.Errorf("AddLike: %w", err)
	}
	if again, err := r.api.AddLike(ctx, r.userID, assetGUID, nil); err != nil {
		return fmt.Errorf("second AddLike: %w", err)
	} else if again != likeGUID {
		return fmt.Errorf("second AddLike returned %s, want %s", again, likeGUID)
	}

	tagName := r.prefix + "-golden"
	tagGUID, err := r.api.AddTag(ctx, r.userID, assetGUID, &beans.InformalTag{Name: tagName, Description: "Trusted source", IsPublic: true})
	if err != nil {
		return fmt.Errorf("AddTag: %w", err)
	}
	otherTag, err := r.api.AddTag(ctx, r.userID, otherGUID, &beans.InformalTag{Name: tagName})
	if err != nil {
		return fmt.Errorf("AddTag to second asset: %w", err)
	}
	if otherTag != tagGUID {
		return fmt.Errorf("AddTag to second asset returned %s, want the existing tag %s", otherTag, tagGUID)
	}
	tags, err := r.api.FindTagsByName(ctx, r.userID, tagName, 0, 0)
	if err != nil {
		return fmt.Errorf("FindTagsByName: %w", err)
	}
	if len(tags) != 1 || tags[0].GUID != tagGUID {
		return fmt.Errorf("FindTagsByName(%s) returned %d tags, want only %s", tagName, len(tags), tagGUID)
	}

	fb, err := r.api.GetFeedback(ctx, r.userID, assetGUID)
	if err != nil {
		return fmt.Errorf("GetFeedback: %w", err)
	}
	if len(fb.Comments) != 1 || len(fb.Ratings) != 1 || len(fb.Likes) != 1 || len(fb.Tags) != 1 {
		return fmt.Errorf("GetFeedback returned %d comments, %d ratings, %d likes, %d tags, want one of each",
			len(fb.Comments), len(fb.Ratings), len(fb.Likes), len(fb.Tags))
	}
	if c := fb.Comments[0]; c.CommentType != beans.CommentTypeQuestion || !c.IsPublic {
		return fmt.Errorf("comment has type %v and isPublic %t, want Question and true", c.CommentType, c.IsPublic)
	}
	if rt := fb.Ratings[0]; rt.Stars != beans.StarRatingFourStar || rt.Review != "fixed" || !rt.IsPublic {
		return fmt.Errorf("rating is %v %q (public %t), want the second rating", rt.Stars, rt.Review, rt.IsPublic)
	}

	_, err = r.api.AddComment(ctx, r.userID, assetGUID, &beans.Comment{})
	return expectKind("AddComment without text", err, ffdc.ErrInvalidParameter)
}
