package fvt

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/client"
	"github.com/dnswlt/egeria/internal/handler"
	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/rest"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/stretchr/testify/require"
)

const user = "calliequartile"

func newService() *handler.Service {
	return handler.NewService(repository.New(typedefs.MustLoad(), repository.Options{}), nil)
}

func newHTTPClient(t *testing.T, api client.API) client.API {
	t.Helper()
	s, err := rest.NewServer(rest.ServerOptions{ServerName: "cocoMDS1"}, api, nil)
	require.NoError(t, err)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return client.NewHTTPClient(ts.URL, "cocoMDS1", client.WithHTTPClient(ts.Client()))
}

func TestScenarios(t *testing.T) {
	apis := map[string]func(t *testing.T) client.API{
		"in-process": func(t *testing.T) client.API { return newService() },
		"http":       func(t *testing.T) client.API { return newHTTPClient(t, newService()) },
	}
	for name, newAPI := range apis {
		t.Run(name, func(t *testing.T) {
			r := NewRunner(newAPI(t), user, nil)
			for _, s := range r.Scenarios() {
				t.Run(s.Name, func(t *testing.T) {
					require.NoError(t, s.Run(context.Background()))
				})
			}
		})
	}
}

func TestRunAllTwiceOnSameServer(t *testing.T) {
	api := newService()
	ctx := context.Background()
	require.NoError(t, NewRunner(api, user, nil).RunAll(ctx))
	require.NoError(t, NewRunner(api, "garygeeke", nil).RunAll(ctx))
}

// staleAPI returns assets with the description they were created with.
type staleAPI struct {
	client.API
	description string
}

func (s *staleAPI) GetAsset(ctx context.Context, userID, assetGUID string) (*beans.Asset, error) {
	a, err := s.API.GetAsset(ctx, userID, assetGUID)
	if err != nil {
		return nil, err
	}
	if s.description == "" {
		s.description = a.Description
	}
	a.Description = s.description
	return a, nil
}

func TestRunAllReportsFirstFailure(t *testing.T) {
	r := NewRunner(&staleAPI{API: newService()}, user, nil)
	err := r.RunAll(context.Background())
	require.Error(t, err)
	require.ErrorContains(t, err, "scenario assets")
	require.ErrorContains(t, err, `description after update is "Sample asset payroll"`)
}

// ignoringDeleteAPI pretends to delete assets.
type ignoringDeleteAPI struct {
	client.API
}

func (ignoringDeleteAPI) DeleteAsset(ctx context.Context, userID, assetGUID string) error {
	return nil
}

func TestVerifyAssetsDetectsUndeletedAsset(t *testing.T) {
	r := NewRunner(ignoringDeleteAPI{API: newService()}, user, nil)
	err := r.VerifyAssets(context.Background())
	require.EqualError(t, err, "GetAsset after delete succeeded, want not found")
}
