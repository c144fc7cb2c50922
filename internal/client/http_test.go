package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/client"
	"github.com/dnswlt/egeria/internal/ffdc"
	"github.com/dnswlt/egeria/internal/handler"
	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/rest"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/google/go-cmp/cmp"
)

const user = "erinoverview"

func newTestClient(t *testing.T) *client.HTTPClient {
	t.Helper()
	repo := repository.New(typedefs.MustLoad(), repository.Options{})
	s, err := rest.NewServer(rest.ServerOptions{ServerName: "cocoMDS1"}, handler.NewService(repo, nil), nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return client.NewHTTPClient(ts.URL+"/", "cocoMDS1", client.WithHTTPClient(ts.Client()))
}

func TestAssetLifecycle(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	guid, err := c.CreateAsset(ctx, user, &beans.Asset{
		Referenceable: beans.Referenceable{QualifiedName: "file:/data/payroll.csv"},
		Name:          "payroll.csv",
		Owner:         "faithbroker",
		OwnerType:     beans.AssetOwnerTypeUserID,
	})
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}

	got, err := c.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if got.Name != "payroll.csv" || got.Owner != "faithbroker" || got.OwnerType != beans.AssetOwnerTypeUserID {
		t.Errorf("GetAsset = %+v, want name, owner and owner type as created", got)
	}

	if err := c.AddAssetToZones(ctx, user, guid, []string{"finance", "quarantine"}); err != nil {
		t.Fatalf("AddAssetToZones failed: %v", err)
	}
	found, err := c.FindAssetsByName(ctx, user, "payroll.csv", 0, 10)
	if err != nil {
		t.Fatalf("FindAssetsByName failed: %v", err)
	}
	if len(found) != 1 {
		t.Fatalf("FindAssetsByName returned %d assets, want 1", len(found))
	}
	if diff := cmp.Diff([]string{"finance", "quarantine"}, found[0].Zones); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}

	got.Description = "Monthly payroll"
	if err := c.UpdateAsset(ctx, user, guid, got); err != nil {
		t.Fatalf("UpdateAsset failed: %v", err)
	}
	updated, err := c.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	if updated.Description != "Monthly payroll" {
		t.Errorf("Description = %q, want %q", updated.Description, "Monthly payroll")
	}

	if err := c.DeleteAsset(ctx, user, guid); err != nil {
		t.Fatalf("DeleteAsset failed: %v", err)
	}
	_, err = c.GetAsset(ctx, user, guid)
	if !errors.Is(err, ffdc.ErrNotFound) {
		t.Errorf("GetAsset after delete: got error %v, want not found", err)
	}
}

func TestTypedClassificationProperties(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()
	archived := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	guid, err := c.CreateAsset(ctx, user, &beans.Asset{
		Referenceable: beans.Referenceable{
			ElementHeader: beans.ElementHeader{
				Classifications: []*beans.Classification{
					{Name: "Confidentiality", Properties: map[string]any{"confidentialityLevel": 2}},
					{Name: "Memento", Properties: map[string]any{"archiveDate": archived, "archiveUser": "erinoverview"}},
				},
			},
			QualifiedName: "file:/data/archived.csv",
		},
		Name: "archived.csv",
	})
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}
	got, err := c.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	// JSON has no int or date types.
	want := []*beans.Classification{
		{Name: "Confidentiality", Properties: map[string]any{"confidentialityLevel": float64(2)}},
		{Name: "Memento", Properties: map[string]any{"archiveDate": "2024-03-01T12:30:00Z", "archiveUser": "erinoverview"}},
	}
	if diff := cmp.Diff(want, got.Classifications); diff != "" {
		t.Errorf("classifications mismatch (-want +got):\n%s", diff)
	}

	// The decoded values are accepted again.
	got.Classifications[0].Properties["confidentialityLevel"] = 3
	if err := c.UpdateAsset(ctx, user, guid, got); err != nil {
		t.Fatalf("UpdateAsset failed: %v", err)
	}
	updated, err := c.GetAsset(ctx, user, guid)
	if err != nil {
		t.Fatalf("GetAsset failed: %v", err)
	}
	want[0].Properties["confidentialityLevel"] = float64(3)
	if diff := cmp.Diff(want, updated.Classifications); diff != "" {
		t.Errorf("classifications after update mismatch (-want +got):\n%s", diff)
	}

	for _, props := range []map[string]any{
		{"confidentialityLevel": "high"},
		{"confidentialityLevel": 2.5},
		{"confidentialityLevel": int64(1) << 40},
	} {
		_, err := c.CreateAsset(ctx, user, &beans.Asset{
			Referenceable: beans.Referenceable{
				ElementHeader: beans.ElementHeader{
					Classifications: []*beans.Classification{{Name: "Confidentiality", Properties: props}},
				},
				QualifiedName: "file:/data/invalid.csv",
			},
		})
		var fe *ffdc.Error
		if !errors.As(err, &fe) || fe.Kind != ffdc.KindTypeError || fe.Parameter != "confidentialityLevel" {
			t.Errorf("CreateAsset(%v): got error %v, want type error for confidentialityLevel", props, err)
		}
	}
}

func TestErrorsAreReconstructed(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	_, err := c.CreateAsset(ctx, user, &beans.Asset{Name: "no qualified name"})
	var fe *ffdc.Error
	if !errors.As(err, &fe) {
		t.Fatalf("CreateAsset: got error %v, want *ffdc.Error", err)
	}
	want := &ffdc.Error{Kind: ffdc.KindInvalidParameter, Method: "CreateAsset", Parameter: "qualifiedName"}
	if fe.Kind != want.Kind || fe.Method != want.Method || fe.Parameter != want.Parameter {
		t.Errorf("got error %+v, want kind, method and parameter of %+v", fe, want)
	}
	if fe.HTTPCode() != http.StatusBadRequest {
		t.Errorf("HTTPCode() = %d, want %d", fe.HTTPCode(), http.StatusBadRequest)
	}
	if fe.Message == "" {
		t.Error("error message is empty")
	}
}

func TestEmptyGUIDIsRejectedLocally(t *testing.T) {
	// No server: the request must not be sent.
	c := client.NewHTTPClient("http://127.0.0.1:0", "cocoMDS1")
	_, err := c.GetAsset(context.Background(), user, "")
	if !errors.Is(err, ffdc.ErrInvalidParameter) {
		t.Errorf("GetAsset(\"\"): got error %v, want invalid parameter", err)
	}
}

func TestUnknownServer(t *testing.T) {
	repo := repository.New(typedefs.MustLoad(), repository.Options{})
	s, err := rest.NewServer(rest.ServerOptions{ServerName: "cocoMDS1"}, handler.NewService(repo, nil), nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	c := client.NewHTTPClient(ts.URL, "cocoMDS2")
	_, err = c.CreateEndpoint(context.Background(), user, &beans.Endpoint{
		Referenceable: beans.Referenceable{QualifiedName: "endpoint:x"},
	})
	var fe *ffdc.Error
	if !errors.As(err, &fe) || fe.Kind != ffdc.KindNotFound || fe.Parameter != "serverName" {
		t.Errorf("got error %v, want not found for serverName", err)
	}
}

func TestConnectionAndSchema(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	assetGUID, err := c.CreateAsset(ctx, user, &beans.Asset{
		Referenceable: beans.Referenceable{QualifiedName: "db:hr"},
		Name:          "hr",
	})
	if err != nil {
		t.Fatalf("CreateAsset failed: %v", err)
	}
	endpointGUID, err := c.CreateEndpoint(ctx, user, &beans.Endpoint{
		Referenceable:  beans.Referenceable{QualifiedName: "endpoint:hr"},
		NetworkAddress: "db.example.com:5432",
		Protocol:       "postgres",
	})
	if err != nil {
		t.Fatalf("CreateEndpoint failed: %v", err)
	}
	if _, err := c.CreateConnection(ctx, user, &beans.ConnectionRequest{
		Connection:   &beans.Connection{Referenceable: beans.Referenceable{QualifiedName: "connection:hr"}},
		EndpointGUID: endpointGUID,
		AssetGUID:    assetGUID,
		AssetSummary: "HR database",
	}); err != nil {
		t.Fatalf("CreateConnection failed: %v", err)
	}

	schemaGUID, err := c.SetAssetSchemaType(ctx, user, assetGUID, &beans.SchemaType{
		Referenceable: beans.Referenceable{QualifiedName: "schema:hr"},
	})
	if err != nil {
		t.Fatalf("SetAssetSchemaType failed: %v", err)
	}
	for i, name := range []string{"id", "name"} {
		if _, err := c.AddSchemaAttribute(ctx, user, schemaGUID, &beans.SchemaAttribute{
			Referenceable: beans.Referenceable{QualifiedName: "schema:hr:" + name},
			Name:          name,
			Position:      i,
		}); err != nil {
			t.Fatalf("AddSchemaAttribute(%s) failed: %v", name, err)
		}
	}
	attrs, err := c.GetSchemaAttributes(ctx, user, schemaGUID)
	if err != nil {
		t.Fatalf("GetSchemaAttributes failed: %v", err)
	}
	var names []string
	for _, a := range attrs {
		names = append(names, a.Name)
	}
	if diff := cmp.Diff([]string{"id", "name"}, names); diff != "" {
		t.Errorf("attribute names mismatch (-want +got):\n%s", diff)
	}
}
