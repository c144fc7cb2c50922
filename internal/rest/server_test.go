package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/client"
	"github.com/dnswlt/egeria/internal/handler"
	"github.com/dnswlt/egeria/internal/repository"
	"github.com/dnswlt/egeria/internal/typedefs"
	"github.com/google/go-cmp/cmp"
)

const (
	testServer = "cocoMDS1"
	testUser   = "erinoverview"
)

// countingAPI counts the find calls that reach the service.
type countingAPI struct {
	client.API
	findAssets atomic.Int32
}

func (c *countingAPI) FindAssetsByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*beans.Asset, error) {
	c.findAssets.Add(1)
	return c.API.FindAssetsByName(ctx, userID, name, startFrom, pageSize)
}

func newTestServer(t *testing.T) (*httptest.Server, *countingAPI) {
	t.Helper()
	repo := repository.New(typedefs.MustLoad(), repository.Options{})
	api := &countingAPI{API: handler.NewService(repo, nil)}
	s, err := NewServer(ServerOptions{ServerName: testServer}, api, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts, api
}

func apiURL(ts *httptest.Server, path string) string {
	return ts.URL + "/servers/" + testServer + "/open-metadata/users/" + testUser + path
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response of %s %s: %v", method, url, err)
		}
	}
	return resp.StatusCode
}

func TestNewServerRequiresName(t *testing.T) {
	if _, err := NewServer(ServerOptions{}, nil, nil); err == nil {
		t.Error("NewServer without server name succeeded, want error")
	}
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "OK\n" {
		t.Errorf("GET /health = %d %q, want 200 %q", resp.StatusCode, body, "OK\n")
	}
}

func TestUnknownServer(t *testing.T) {
	ts, _ := newTestServer(t)
	var got beans.FFDCResponse
	url := ts.URL + "/servers/other/open-metadata/users/" + testUser + "/assets/123"
	status := doJSON(t, "GET", url, nil, &got)
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want %d", status, http.StatusNotFound)
	}
	want := beans.FFDCResponse{
		RelatedHTTPCode:     http.StatusNotFound,
		ExceptionClassName:  "EntityNotKnownException",
		ActionDescription:   "GetAsset",
		ExceptionProperties: map[string]string{"parameterName": "serverName"},
	}
	if diff := cmp.Diff(want, got, cmpIgnoreMessage); diff != "" {
		t.Errorf("FFDC response mismatch (-want +got):\n%s", diff)
	}
}

var cmpIgnoreMessage = cmp.FilterPath(func(p cmp.Path) bool {
	f := p.Last().String()
	return f == ".ExceptionErrorMessage" || f == ".ExceptionUserAction"
}, cmp.Ignore())

func TestCreateAndGetAsset(t *testing.T) {
	ts, _ := newTestServer(t)
	in := &beans.Asset{
		Referenceable: beans.Referenceable{QualifiedName: "db:payroll"},
		Name:          "payroll",
		Description:   "Payroll database",
		Zones:         []string{"finance"},
	}
	var created beans.GUIDResponse
	if status := doJSON(t, "POST", apiURL(ts, "/assets"), in, &created); status != http.StatusOK {
		t.Fatalf("POST /assets: status = %d, want 200", status)
	}
	if created.GUID == "" {
		t.Fatal("POST /assets returned an empty GUID")
	}

	var got beans.AssetResponse
	if status := doJSON(t, "GET", apiURL(ts, "/assets/"+created.GUID), nil, &got); status != http.StatusOK {
		t.Fatalf("GET /assets/{guid}: status = %d, want 200", status)
	}
	if got.Asset == nil {
		t.Fatal("GET /assets/{guid} returned no asset")
	}
	if got.Asset.GUID != created.GUID || got.Asset.QualifiedName != "db:payroll" || got.Asset.Name != "payroll" {
		t.Errorf("GET /assets/{guid} = %+v, want GUID %s and names of %+v", got.Asset, created.GUID, in)
	}
	if diff := cmp.Diff(in.Zones, got.Asset.Zones); diff != "" {
		t.Errorf("zones mismatch (-want +got):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	ts, _ := newTestServer(t)
	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantClass  string
		wantParam  string
	}{
		{
			name:       "missing qualified name",
			method:     "POST",
			path:       "/assets",
			body:       &beans.Asset{Name: "x"},
			wantStatus: http.StatusBadRequest,
			wantClass:  "InvalidParameterException",
			wantParam:  "qualifiedName",
		},
		{
			name:       "unknown asset",
			method:     "GET",
			path:       "/assets/no-such-guid",
			wantStatus: http.StatusNotFound,
			wantClass:  "EntityNotKnownException",
			wantParam:  "assetGUID",
		},
		{
			name:       "unknown type",
			method:     "POST",
			path:       "/assets",
			body:       &beans.Asset{Referenceable: beans.Referenceable{QualifiedName: "q", ElementHeader: beans.ElementHeader{TypeName: "NoSuchType"}}},
			wantStatus: http.StatusBadRequest,
			wantClass:  "TypeErrorException",
			wantParam:  "typeName",
		},
		{
			name:       "bad paging",
			method:     "POST",
			path:       "/assets/by-name?pageSize=ten",
			body:       &beans.NameRequest{Name: "x"},
			wantStatus: http.StatusBadRequest,
			wantClass:  "InvalidParameterException",
			wantParam:  "pageSize",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got beans.FFDCResponse
			status := doJSON(t, tc.method, apiURL(ts, tc.path), tc.body, &got)
			if status != tc.wantStatus || got.RelatedHTTPCode != tc.wantStatus {
				t.Errorf("status = %d (relatedHTTPCode %d), want %d", status, got.RelatedHTTPCode, tc.wantStatus)
			}
			if got.ExceptionClassName != tc.wantClass {
				t.Errorf("exceptionClassName = %q, want %q", got.ExceptionClassName, tc.wantClass)
			}
			if p := got.ExceptionProperties["parameterName"]; p != tc.wantParam {
				t.Errorf("parameterName = %q, want %q", p, tc.wantParam)
			}
		})
	}
}

func TestEmptyBody(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Post(apiURL(ts, "/endpoints"), "application/json", strings.NewReader(""))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestFindCache(t *testing.T) {
	ts, api := newTestServer(t)
	create := func(qn string) {
		t.Helper()
		asset := &beans.Asset{Referenceable: beans.Referenceable{QualifiedName: qn}, Name: "payroll"}
		if status := doJSON(t, "POST", apiURL(ts, "/assets"), asset, nil); status != http.StatusOK {
			t.Fatalf("POST /assets: status = %d, want 200", status)
		}
	}
	find := func() int {
		t.Helper()
		var got beans.AssetsResponse
		if status := doJSON(t, "POST", apiURL(ts, "/assets/by-name"), &beans.NameRequest{Name: "payroll"}, &got); status != http.StatusOK {
			t.Fatalf("POST /assets/by-name: status = %d, want 200", status)
		}
		return len(got.Assets)
	}

	create("db:payroll:1")
	if n := find(); n != 1 {
		t.Errorf("found %d assets, want 1", n)
	}
	if n := find(); n != 1 {
		t.Errorf("found %d assets, want 1", n)
	}
	if n := api.findAssets.Load(); n != 1 {
		t.Errorf("service was called %d times, want 1 (second find is cached)", n)
	}

	create("db:payroll:2")
	if n := find(); n != 2 {
		t.Errorf("found %d assets after create, want 2", n)
	}
	if n := api.findAssets.Load(); n != 2 {
		t.Errorf("service was called %d times, want 2 (create purges the cache)", n)
	}
}

// pausingAPI blocks the first find after it has computed its result
// until release is closed.
type pausingAPI struct {
	client.API
	paused  atomic.Bool
	found   chan struct{}
	release chan struct{}
}

func (p *pausingAPI) FindAssetsByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*beans.Asset, error) {
	assets, err := p.API.FindAssetsByName(ctx, userID, name, startFrom, pageSize)
	if p.paused.CompareAndSwap(false, true) {
		close(p.found)
		<-p.release
	}
	return assets, err
}

func TestFindCacheIgnoresResultsOfConcurrentWrites(t *testing.T) {
	repo := repository.New(typedefs.MustLoad(), repository.Options{})
	api := &pausingAPI{
		API:     handler.NewService(repo, nil),
		found:   make(chan struct{}),
		release: make(chan struct{}),
	}
	s, err := NewServer(ServerOptions{ServerName: testServer}, api, nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	releaseOnce := sync.OnceFunc(func() { close(api.release) })
	t.Cleanup(releaseOnce)

	find := func() (int, error) {
		var got beans.AssetsResponse
		data, _ := json.Marshal(&beans.NameRequest{Name: "payroll"})
		resp, err := http.Post(apiURL(ts, "/assets/by-name"), "application/json", bytes.NewReader(data))
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			return 0, err
		}
		return len(got.Assets), nil
	}

	type result struct {
		n   int
		err error
	}
	first := make(chan result, 1)
	go func() {
		n, err := find()
		first <- result{n, err}
	}()
	<-api.found

	asset := &beans.Asset{Referenceable: beans.Referenceable{QualifiedName: "db:payroll"}, Name: "payroll"}
	if status := doJSON(t, "POST", apiURL(ts, "/assets"), asset, nil); status != http.StatusOK {
		t.Fatalf("POST /assets: status = %d, want 200", status)
	}
	releaseOnce()

	r := <-first
	if r.err != nil {
		t.Fatalf("first find failed: %v", r.err)
	}
	if r.n != 0 {
		t.Errorf("first find returned %d assets, want 0", r.n)
	}
	n, err := find()
	if err != nil {
		t.Fatalf("find after create failed: %v", err)
	}
	if n != 1 {
		t.Errorf("find after create returned %d assets, want 1", n)
	}
}

func TestFeedbackRoutes(t *testing.T) {
	ts, _ := newTestServer(t)
	var asset beans.GUIDResponse
	doJSON(t, "POST", apiURL(ts, "/assets"), &beans.Asset{Referenceable: beans.Referenceable{QualifiedName: "db:hr"}}, &asset)

	base := "/elements/" + asset.GUID
	for _, req := range []struct {
		path string
		body any
	}{
		{"/comments", &beans.Comment{Text: "Needs an owner", CommentType: beans.CommentTypeSuggestion}},
		{"/ratings", &beans.Rating{Stars: beans.StarRatingFourStar, Review: "Good"}},
		{"/likes", &beans.Like{}},
		{"/tags", &beans.InformalTag{Name: "hr"}},
	} {
		if status := doJSON(t, "POST", apiURL(ts, base+req.path), req.body, nil); status != http.StatusOK {
			t.Fatalf("POST %s: status = %d, want 200", req.path, status)
		}
	}

	var fb beans.FeedbackResponse
	if status := doJSON(t, "GET", apiURL(ts, base+"/feedback"), nil, &fb); status != http.StatusOK {
		t.Fatalf("GET feedback: status = %d, want 200", status)
	}
	if len(fb.Comments) != 1 || len(fb.Ratings) != 1 || len(fb.Likes) != 1 || len(fb.Tags) != 1 {
		t.Errorf("feedback = %d comments, %d ratings, %d likes, %d tags, want one each",
			len(fb.Comments), len(fb.Ratings), len(fb.Likes), len(fb.Tags))
	}

	var tags beans.TagsResponse
	doJSON(t, "POST", apiURL(ts, "/tags/by-name"), &beans.NameRequest{Name: "hr"}, &tags)
	if len(tags.Tags) != 1 || tags.Tags[0].Name != "hr" {
		t.Errorf("tags by name = %+v, want the hr tag", tags.Tags)
	}
}
