package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/mapper"
	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const user = "erinoverview"

func newTestService(t *testing.T) *Service {
	t.Helper()
	repo := repository.New(typedefs.MustLoad(), repository.Options{MaxPageSize: 50})
	s := NewService(repo, nil)
	n := 0
	s.newGUID = func() string {
		n++
		return fmt.Sprintf("%d", n)
	}
	return s
}

func mustCreateAsset(t *testing.T, s *Service, qualifiedName, name string) string {
	t.Helper()
	guid, err := s.CreateAsset(context.Background(), user, &beans.Asset{
		Referenceable: beans.Referenceable{QualifiedName: qualifiedName},
		Name:          name,
	})
	if err != nil {
		t.Fatalf("CreateAsset(%q) failed: %v", qualifiedName, err)
	}
	return guid
}

var ignoreServerFields = cmpopts.IgnoreFields(beans.ElementHeader{}, "GUID", "Version", "UpdateTime")

func TestCreateAndGetAsset(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	in := &beans.Asset{
		Referenceable: beans.Referenceable{
			ElementHeader: beans.ElementHeader{
				TypeName: "Host",
				Classifications: []*beans.Classification{
					{Name: "Confidentiality", Properties: map[string]any{"confidentialityLevel": 2}},
				},
				ExtendedProperties: map[string]any{"operatingSystem": "Linux"},
			},
			QualifiedName:        "host:payroll-01",
			AdditionalProperties: map[string]string{"rack": "r12"},
		},
		Name:        "payroll-01",
		Description: "Payroll host",
		Zones:       []string{"finance"},
		Owner:       "peterprofile",
		OwnerType:   beans.AssetOwnerTypeProfileID,
	}
	guid, err := s.CreateAsset(ctx, user, in)
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}

	got, err := s.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	want := *in
	want.Classifications = []*beans.Classification{
		{Name: "Confidentiality", Properties: map[string]any{"confidentialityLevel": int64(2)}},
	}
	if diff := cmp.Diff(&want, got, ignoreServerFields); diff != "" {
		t.Errorf("GetAsset() mismatch (-want +got):\n%s", diff)
	}
	if got.GUID != guid || got.Version != 1 {
		t.Errorf("got GUID %q version %d, want %q and 1", got.GUID, got.Version, guid)
	}
}

func TestCreateAssetErrors(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		asset     *beans.Asset
		wantErr   error
		wantParam string
	}{
		{"no user", "", &beans.Asset{}, ffdc.ErrInvalidParameter, "userId"},
		{"no asset", user, nil, ffdc.ErrInvalidParameter, "asset"},
		{"no qualified name", user, &beans.Asset{Name: "x"}, ffdc.ErrInvalidParameter, "qualifiedName"},
		{
			"not an asset type",
			user,
			&beans.Asset{Referenceable: beans.Referenceable{
				ElementHeader: beans.ElementHeader{TypeName: "Endpoint"},
				QualifiedName: "x",
			}},
			ffdc.ErrTypeError,
			"typeName",
		},
		{
			"classification without name",
			user,
			&beans.Asset{Referenceable: beans.Referenceable{
				ElementHeader: beans.ElementHeader{Classifications: []*beans.Classification{{}}},
				QualifiedName: "x",
			}},
			ffdc.ErrInvalidParameter,
			"classificationName",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestService(t)
			_, err := s.CreateAsset(context.Background(), tc.userID, tc.asset)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("CreateAsset() error = %v, want %v", err, tc.wantErr)
			}
			if p := ffdc.As("test", err).Parameter; p != tc.wantParam {
				t.Errorf("error parameter = %q, want %q", p, tc.wantParam)
			}
		})
	}
}

func TestGetAssetNotAnAsset(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	guid, err := s.CreateEndpoint(ctx, user, &beans.Endpoint{Referenceable: beans.Referenceable{QualifiedName: "ep"}})
	if err != nil {
		t.Fatalf("CreateEndpoint failed: %v", err)
	}
	if _, err := s.GetAsset(ctx, user, guid); !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("GetAsset(endpoint) error = %v, want invalid parameter", err)
	}
	if _, err := s.GetAsset(ctx, user, "unknown"); !errors.Is(err, ffdc.ErrNotFound) {
		t.Errorf("GetAsset(unknown) error = %v, want not found", err)
	}
}

func TestFindAssetsByName(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	mustCreateAsset(t, s, "asset:1", "a.b")
	mustCreateAsset(t, s, "asset:2", "axb")
	mustCreateAsset(t, s, "a.b", "other")

	assets, err := s.FindAssetsByName(ctx, user, "a.b", 0, 0)
	if err != nil {
		t.Fatalf("FindAssetsByName failed: %v", err)
	}
	var got []string
	for _, a := range assets {
		got = append(got, a.QualifiedName)
	}
	if diff := cmp.Diff([]string{"a.b", "asset:1"}, got); diff != "" {
		t.Errorf("FindAssetsByName mismatch (-want +got):\n%s", diff)
	}
	if _, err := s.FindAssetsByName(ctx, user, "", 0, 0); !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("FindAssetsByName(\"\") error = %v, want invalid parameter", err)
	}
}

func TestUpdateAsset(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	guid := mustCreateAsset(t, s, "asset:1", "one")

	err := s.UpdateAsset(ctx, user, guid, &beans.Asset{
		Referenceable: beans.Referenceable{QualifiedName: "asset:1"},
		Name:          "one",
		Description:   "updated",
		Zones:         []string{"z"},
	})
	if err != nil {
		t.Fatalf("UpdateAsset failed: %v", err)
	}
	got, err := s.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if got.Description != "updated" || len(got.Zones) != 1 {
		t.Errorf("got description %q zones %v, want updated and [z]", got.Description, got.Zones)
	}

	err = s.UpdateAsset(ctx, user, guid, &beans.Asset{
		Referenceable: beans.Referenceable{
			ElementHeader: beans.ElementHeader{TypeName: "Host"},
			QualifiedName: "asset:1",
		},
	})
	if !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("UpdateAsset() changing the type: error = %v, want invalid parameter", err)
	}
}

func TestUpdateAssetInvalidClassificationChangesNothing(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	guid := mustCreateAsset(t, s, "asset:1", "old")
	before, err := s.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}

	err = s.UpdateAsset(ctx, user, guid, &beans.Asset{
		Referenceable: beans.Referenceable{
			ElementHeader: beans.ElementHeader{
				Classifications: []*beans.Classification{
					{Name: "Confidentiality", Properties: map[string]any{"confidentialityLevel": "high"}},
				},
			},
			QualifiedName: "asset:1",
		},
		Name: "new",
	})
	if !errors.Is(err, ffdc.ErrTypeError) {
		t.Fatalf("UpdateAsset() error = %v, want type error", err)
	}
	got, err := s.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if diff := cmp.Diff(before, got); diff != "" {
		t.Errorf("asset changed by failed update (-want +got):\n%s", diff)
	}
}

func TestUpdateAssetRemovesOmittedFields(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	guid, err := s.CreateAsset(ctx, user, &beans.Asset{
		Referenceable: beans.Referenceable{
			ElementHeader: beans.ElementHeader{
				Classifications: []*beans.Classification{
					{Name: "Criticality", Properties: map[string]any{"criticalityLevel": 1}},
				},
			},
			QualifiedName: "asset:1",
		},
		Name:      "one",
		Zones:     []string{"finance"},
		Owner:     "bob",
		OwnerType: beans.AssetOwnerTypeUserID,
	})
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}

	err = s.UpdateAsset(ctx, user, guid, &beans.Asset{
		Referenceable: beans.Referenceable{QualifiedName: "asset:1"},
		Name:          "one",
		Zones:         []string{"finance"},
	})
	if err != nil {
		t.Fatalf("UpdateAsset failed: %v", err)
	}
	got, err := s.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if got.Owner != "" || got.OwnerType != 0 {
		t.Errorf("got owner %q of type %v, want none", got.Owner, got.OwnerType)
	}
	if diff := cmp.Diff([]string{"finance"}, got.Zones); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}
	// Classifications without a bean field are kept.
	want := []*beans.Classification{
		{Name: "Criticality", Properties: map[string]any{"criticalityLevel": int64(1)}},
	}
	if diff := cmp.Diff(want, got.Classifications); diff != "" {
		t.Errorf("classifications mismatch (-want +got):\n%s", diff)
	}
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
}

func TestDeleteAssetDeletesFeedback(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	guid := mustCreateAsset(t, s, "asset:1", "one")
	commentGUID, err := s.AddComment(ctx, user, guid, &beans.Comment{Text: "hello"})
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	tagGUID, err := s.AddTag(ctx, user, guid, &beans.InformalTag{Name: "pii"})
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}

	if err := s.DeleteAsset(ctx, user, guid); err != nil {
		t.Fatalf("DeleteAsset failed: %v", err)
	}
	if _, err := s.repo.GetEntity(commentGUID); !errors.Is(err, ffdc.ErrNotFound) {
		t.Errorf("comment still exists after DeleteAsset: %v", err)
	}
	if _, err := s.repo.GetEntity(tagGUID); err != nil {
		t.Errorf("tag was deleted with the asset: %v", err)
	}
}

func TestAddAssetToZones(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	guid := mustCreateAsset(t, s, "asset:1", "one")

	if err := s.AddAssetToZones(ctx, user, guid, []string{"a", "b"}); err != nil {
		t.Fatalf("AddAssetToZones failed: %v", err)
	}
	if err := s.AddAssetToZones(ctx, user, guid, []string{"b", "c"}); err != nil {
		t.Fatalf("AddAssetToZones failed: %v", err)
	}
	got, err := s.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got.Zones); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}
	if err := s.AddAssetToZones(ctx, user, guid, nil); !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("AddAssetToZones(nil) error = %v, want invalid parameter", err)
	}
}

func TestCreateConnection(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	assetGUID := mustCreateAsset(t, s, "asset:1", "one")
	endpointGUID, err := s.CreateEndpoint(ctx, user, &beans.Endpoint{
		Referenceable:  beans.Referenceable{QualifiedName: "ep:1"},
		NetworkAddress: "db.example.com:5432",
		Protocol:       "postgres",
	})
	if err != nil {
		t.Fatalf("CreateEndpoint failed: %v", err)
	}

	connGUID, err := s.CreateConnection(ctx, user, &beans.ConnectionRequest{
		Connection: &beans.Connection{
			Referenceable:           beans.Referenceable{QualifiedName: "conn:1"},
			ConfigurationProperties: map[string]any{"poolSize": 4},
			UserID:                  "svc",
		},
		EndpointGUID: endpointGUID,
		AssetGUID:    assetGUID,
		AssetSummary: "payroll database",
	})
	if err != nil {
		t.Fatalf("CreateConnection failed: %v", err)
	}
	rels, err := s.repo.GetRelationships(connGUID, "")
	if err != nil {
		t.Fatalf("GetRelationships failed: %v", err)
	}
	var got []string
	for _, rel := range rels {
		got = append(got, rel.TypeName+"->"+rel.OtherEnd(connGUID))
	}
	want := []string{
		mapper.ConnectionEndpointRelationshipName + "->" + endpointGUID,
		mapper.ConnectionToAssetRelationshipName + "->" + assetGUID,
	}
	if diff := cmp.Diff(want, got, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("relationships mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateConnectionChecksLinksFirst(t *testing.T) {
	s := newTestService(t)
	_, err := s.CreateConnection(context.Background(), user, &beans.ConnectionRequest{
		Connection:   &beans.Connection{Referenceable: beans.Referenceable{QualifiedName: "conn:1"}},
		EndpointGUID: "missing",
	})
	if !errors.Is(err, ffdc.ErrNotFound) {
		t.Fatalf("CreateConnection() error = %v, want not found", err)
	}
	if entities, _ := s.repo.Size(); entities != 0 {
		t.Errorf("got %d entities after failed CreateConnection, want 0", entities)
	}
}

func TestFeedback(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	assetGUID := mustCreateAsset(t, s, "asset:1", "one")

	if _, err := s.AddComment(ctx, user, assetGUID, &beans.Comment{
		Text:        "Is this data current?",
		CommentType: beans.CommentTypeQuestion,
		IsPublic:    true,
	}); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	r1, err := s.AddRating(ctx, user, assetGUID, &beans.Rating{Stars: beans.StarRatingTwoStar})
	if err != nil {
		t.Fatalf("AddRating failed: %v", err)
	}
	r2, err := s.AddRating(ctx, user, assetGUID, &beans.Rating{Stars: beans.StarRatingFourStar, Review: "better", IsPublic: true})
	if err != nil {
		t.Fatalf("second AddRating failed: %v", err)
	}
	if r1 != r2 {
		t.Errorf("second rating by the same user got GUID %s, want %s", r2, r1)
	}
	l1, err := s.AddLike(ctx, user, assetGUID, nil)
	if err != nil {
		t.Fatalf("AddLike failed: %v", err)
	}
	l2, err := s.AddLike(ctx, user, assetGUID, &beans.Like{IsPublic: true})
	if err != nil {
		t.Fatalf("second AddLike failed: %v", err)
	}
	if l1 != l2 {
		t.Errorf("second like by the same user got GUID %s, want %s", l2, l1)
	}
	if _, err := s.AddLike(ctx, "garygeeke", assetGUID, nil); err != nil {
		t.Fatalf("AddLike by another user failed: %v", err)
	}

	fb, err := s.GetFeedback(ctx, user, assetGUID)
	if err != nil {
		t.Fatalf("GetFeedback failed: %v", err)
	}
	want := &beans.FeedbackResponse{
		Comments: []*beans.Comment{{
			Referenceable: beans.Referenceable{QualifiedName: "Comment::1"},
			Text:          "Is this data current?",
			CommentType:   beans.CommentTypeQuestion,
			IsPublic:      true,
		}},
		Ratings: []*beans.Rating{{Stars: beans.StarRatingFourStar, Review: "better", IsPublic: true}},
		Likes:   []*beans.Like{{}, {}},
		Tags:    []*beans.InformalTag{},
	}
	opts := []cmp.Option{
		ignoreServerFields,
		cmpopts.IgnoreFields(beans.ElementHeader{}, "TypeName"),
	}
	if diff := cmp.Diff(want, fb, opts...); diff != "" {
		t.Errorf("GetFeedback() mismatch (-want +got):\n%s", diff)
	}
}

func TestFeedbackOnUnknownElement(t *testing.T) {
	s := newTestService(t)
	_, err := s.AddComment(context.Background(), user, "missing", &beans.Comment{Text: "x"})
	if !errors.Is(err, ffdc.ErrNotFound) {
		t.Errorf("AddComment() error = %v, want not found", err)
	}
}

func TestAddTagReusesTags(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	a1 := mustCreateAsset(t, s, "asset:1", "one")
	a2 := mustCreateAsset(t, s, "asset:2", "two")

	t1, err := s.AddTag(ctx, user, a1, &beans.InformalTag{Name: "pii", Description: "personal data"})
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	t2, err := s.AddTag(ctx, user, a2, &beans.InformalTag{Name: "pii"})
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	t3, err := s.AddTag(ctx, user, a2, &beans.InformalTag{Name: "pii"})
	if err != nil {
		t.Fatalf("AddTag failed: %v", err)
	}
	if t1 != t2 || t2 != t3 {
		t.Errorf("AddTag returned GUIDs %s, %s, %s, want one tag", t1, t2, t3)
	}
	rels, err := s.repo.GetRelationships(t1, mapper.AttachedTagRelationshipName)
	if err != nil {
		t.Fatalf("GetRelationships failed: %v", err)
	}
	if len(rels) != 2 {
		t.Errorf("tag is attached %d times, want 2", len(rels))
	}

	tags, err := s.FindTagsByName(ctx, user, "pii", 0, 0)
	if err != nil {
		t.Fatalf("FindTagsByName failed: %v", err)
	}
	if len(tags) != 1 || tags[0].Description != "personal data" {
		t.Errorf("FindTagsByName() = %v, want the pii tag", tags)
	}
	tags, err = s.FindTagsByName(ctx, user, "p.*", 0, 0)
	if err != nil {
		t.Fatalf("FindTagsByName failed: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("FindTagsByName(p.*) found %d tags, want an exact match only", len(tags))
	}
}

func TestSchema(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	assetGUID := mustCreateAsset(t, s, "asset:1", "one")

	stGUID, err := s.SetAssetSchemaType(ctx, user, assetGUID, &beans.SchemaType{
		Referenceable:    beans.Referenceable{QualifiedName: "asset:1::schema"},
		EncodingStandard: "CSV",
	})
	if err != nil {
		t.Fatalf("SetAssetSchemaType failed: %v", err)
	}
	if _, err := s.SetAssetSchemaType(ctx, user, assetGUID, &beans.SchemaType{
		Referenceable: beans.Referenceable{QualifiedName: "asset:1::schema2"},
	}); !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("second SetAssetSchemaType error = %v, want invalid parameter", err)
	}

	attrs := []*beans.SchemaAttribute{
		{
			Referenceable:  beans.Referenceable{QualifiedName: "asset:1::schema::amount"},
			Name:           "amount",
			Position:       1,
			MaxCardinality: 1,
			SortOrder:      beans.DataItemSortOrderDescending,
			EmbeddedType:   &beans.EmbeddedSchemaType{SchemaTypeName: "PrimitiveSchemaType", DataType: "decimal"},
		},
		{
			Referenceable:  beans.Referenceable{QualifiedName: "asset:1::schema::id"},
			Name:           "id",
			MinCardinality: 1,
			MaxCardinality: 1,
			Aliases:        []string{"key"},
		},
	}
	for _, a := range attrs {
		if _, err := s.AddSchemaAttribute(ctx, user, stGUID, a); err != nil {
			t.Fatalf("AddSchemaAttribute(%s) failed: %v", a.Name, err)
		}
	}
	got, err := s.GetSchemaAttributes(ctx, user, stGUID)
	if err != nil {
		t.Fatalf("GetSchemaAttributes failed: %v", err)
	}
	want := []*beans.SchemaAttribute{attrs[1], attrs[0]}
	opts := []cmp.Option{
		ignoreServerFields,
		cmpopts.IgnoreFields(beans.ElementHeader{}, "TypeName"),
	}
	if diff := cmp.Diff(want, got, opts...); diff != "" {
		t.Errorf("GetSchemaAttributes() mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.AddSchemaAttribute(ctx, user, assetGUID, attrs[0]); !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("AddSchemaAttribute() to an asset: error = %v, want invalid parameter", err)
	}
}

func TestCreateFileSystem(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	guid, err := s.CreateFileSystem(ctx, user, &beans.FileSystem{
		SoftwareServerCapability: beans.SoftwareServerCapability{
			Referenceable: beans.Referenceable{QualifiedName: "fs:nfs-01"},
			Name:          "nfs-01",
		},
		Format:     "NFS",
		Encryption: "none",
	})
	if err != nil {
		t.Fatalf("CreateFileSystem failed: %v", err)
	}
	e, err := s.repo.GetEntity(guid)
	if err != nil {
		t.Fatalf("GetEntity failed: %v", err)
	}
	if e.TypeName != mapper.SoftwareServerCapabilityTypeName {
		t.Errorf("TypeName = %q, want %q", e.TypeName, mapper.SoftwareServerCapabilityTypeName)
	}
	c := e.Classification(mapper.FileSystemClassificationName)
	if c == nil {
		t.Fatal("FileSystem classification missing")
	}
	if f, _ := c.Properties.GetString(mapper.FormatPropertyName); f != "NFS" {
		t.Errorf("format = %q, want NFS", f)
	}

	if _, err := s.CreateSoftwareServerCapability(ctx, user, &beans.SoftwareServerCapability{
		Referenceable: beans.Referenceable{QualifiedName: "fs:nfs-01"},
	}); !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("CreateSoftwareServerCapability() with a taken name: error = %v, want invalid parameter", err)
	}
}
