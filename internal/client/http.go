package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/ffdc"
)

const defaultTimeout = 30 * time.Second

var _ API = (*HTTPClient)(nil)

// HTTPClient calls the REST API of a metadata server.
type HTTPClient struct {
	// Root URL of the platform, e.g. "https://localhost:9443".
	platformURL string
	serverName  string
	httpClient  *http.Client
}

type Option func(*HTTPClient)

// WithHTTPClient sets the client used for requests. The default has a 30s timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		h.httpClient = c
	}
}

func NewHTTPClient(platformURL, serverName string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		platformURL: strings.TrimSuffix(platformURL, "/"),
		serverName:  serverName,
		httpClient:  &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// url returns the URL of the API path for userID. Path segments in elems are escaped.
func (c *HTTPClient) url(userID string, query url.Values, elems ...string) string {
	var sb strings.Builder
	sb.WriteString(c.platformURL)
	sb.WriteString("/servers/")
	sb.WriteString(url.PathEscape(c.serverName))
	sb.WriteString("/open-metadata/users/")
	sb.WriteString(url.PathEscape(userID))
	for _, e := range elems {
		sb.WriteByte('/')
		sb.WriteString(url.PathEscape(e))
	}
	if len(query) > 0 {
		sb.WriteByte('?')
		sb.WriteString(query.Encode())
	}
	return sb.String()
}

func pagingQuery(startFrom, pageSize int) url.Values {
	q := url.Values{}
	if startFrom != 0 {
		q.Set("startFrom", strconv.Itoa(startFrom))
	}
	if pageSize != 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	return q
}

// do sends the request and decodes the response into out, if non-nil.
// FFDC responses are returned as *ffdc.Error.
func (c *HTTPClient) do(ctx context.Context, methodName, httpMethod, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return ffdc.InvalidParameter(methodName, "requestBody", "cannot encode request: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, httpMethod, url, body)
	if err != nil {
		return ffdc.PropertyServer(methodName, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ffdc.PropertyServer(methodName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(methodName, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return ffdc.PropertyServer(methodName, fmt.Errorf("cannot decode response: %w", err))
	}
	return nil
}

// decodeError turns a non-200 response into an *ffdc.Error.
func decodeError(methodName string, resp *http.Response) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return ffdc.PropertyServer(methodName, err)
	}
	var fr beans.FFDCResponse
	if err := json.Unmarshal(data, &fr); err != nil || fr.ExceptionClassName == "" {
		return ffdc.PropertyServer(methodName,
			fmt.Errorf("unexpected HTTP status %s: %s", resp.Status, bytes.TrimSpace(data)))
	}
	fe := &ffdc.Error{
		Kind:       ffdc.KindFromClassName(fr.ExceptionClassName),
		Method:     fr.ActionDescription,
		Parameter:  fr.ExceptionProperties["parameterName"],
		Message:    fr.ExceptionErrorMessage,
		UserAction: fr.ExceptionUserAction,
	}
	if fe.Method == "" {
		fe.Method = methodName
	}
	return fe
}

func (c *HTTPClient) createGUID(ctx context.Context, methodName, url string, in any) (string, error) {
	var resp beans.GUIDResponse
	if err := c.do(ctx, methodName, http.MethodPost, url, in, &resp); err != nil {
		return "", err
	}
	return resp.GUID, nil
}

func (c *HTTPClient) CreateAsset(ctx context.Context, userID string, asset *beans.Asset) (string, error) {
	return c.createGUID(ctx, "CreateAsset", c.url(userID, nil, "assets"), asset)
}

func (c *HTTPClient) GetAsset(ctx context.Context, userID, assetGUID string) (*beans.Asset, error) {
	if err := ffdc.ValidateGUID("GetAsset", "assetGUID", assetGUID); err != nil {
		return nil, err
	}
	var resp beans.AssetResponse
	if err := c.do(ctx, "GetAsset", http.MethodGet, c.url(userID, nil, "assets", assetGUID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Asset, nil
}

func (c *HTTPClient) FindAssetsByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*beans.Asset, error) {
	var resp beans.AssetsResponse
	u := c.url(userID, pagingQuery(startFrom, pageSize), "assets", "by-name")
	if err := c.do(ctx, "FindAssetsByName", http.MethodPost, u, &beans.NameRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return resp.Assets, nil
}

func (c *HTTPClient) UpdateAsset(ctx context.Context, userID, assetGUID string, asset *beans.Asset) error {
	if err := ffdc.ValidateGUID("UpdateAsset", "assetGUID", assetGUID); err != nil {
		return err
	}
	return c.do(ctx, "UpdateAsset", http.MethodPut, c.url(userID, nil, "assets", assetGUID), asset, nil)
}

func (c *HTTPClient) DeleteAsset(ctx context.Context, userID, assetGUID string) error {
	if err := ffdc.ValidateGUID("DeleteAsset", "assetGUID", assetGUID); err != nil {
		return err
	}
	return c.do(ctx, "DeleteAsset", http.MethodDelete, c.url(userID, nil, "assets", assetGUID), nil, nil)
}

func (c *HTTPClient) AddAssetToZones(ctx context.Context, userID, assetGUID string, zones []string) error {
	if err := ffdc.ValidateGUID("AddAssetToZones", "assetGUID", assetGUID); err != nil {
		return err
	}
	u := c.url(userID, nil, "assets", assetGUID, "zones")
	return c.do(ctx, "AddAssetToZones", http.MethodPost, u, &beans.ZonesRequest{Zones: zones}, nil)
}

func (c *HTTPClient) CreateEndpoint(ctx context.Context, userID string, endpoint *beans.Endpoint) (string, error) {
	return c.createGUID(ctx, "CreateEndpoint", c.url(userID, nil, "endpoints"), endpoint)
}

func (c *HTTPClient) CreateConnection(ctx context.Context, userID string, req *beans.ConnectionRequest) (string, error) {
	return c.createGUID(ctx, "CreateConnection", c.url(userID, nil, "connections"), req)
}

func (c *HTTPClient) AddComment(ctx context.Context, userID, elementGUID string, comment *beans.Comment) (string, error) {
	if err := ffdc.ValidateGUID("AddComment", "elementGUID", elementGUID); err != nil {
		return "", err
	}
	return c.createGUID(ctx, "AddComment", c.url(userID, nil, "elements", elementGUID, "comments"), comment)
}

func (c *HTTPClient) AddRating(ctx context.Context, userID, elementGUID string, rating *beans.Rating) (string, error) {
	if err := ffdc.ValidateGUID("AddRating", "elementGUID", elementGUID); err != nil {
		return "", err
	}
	return c.createGUID(ctx, "AddRating", c.url(userID, nil, "elements", elementGUID, "ratings"), rating)
}

func (c *HTTPClient) AddLike(ctx context.Context, userID, elementGUID string, like *beans.Like) (string, error) {
	if err := ffdc.ValidateGUID("AddLike", "elementGUID", elementGUID); err != nil {
		return "", err
	}
	return c.createGUID(ctx, "AddLike", c.url(userID, nil, "elements", elementGUID, "likes"), like)
}

func (c *HTTPClient) AddTag(ctx context.Context, userID, elementGUID string, tag *beans.InformalTag) (string, error) {
	if err := ffdc.ValidateGUID("AddTag", "elementGUID", elementGUID); err != nil {
		return "", err
	}
	return c.createGUID(ctx, "AddTag", c.url(userID, nil, "elements", elementGUID, "tags"), tag)
}

func (c *HTTPClient) FindTagsByName(ctx context.Context, userID, name string, startFrom, pageSize int) ([]*beans.InformalTag, error) {
	var resp beans.TagsResponse
	u := c.url(userID, pagingQuery(startFrom, pageSize), "tags", "by-name")
	if err := c.do(ctx, "FindTagsByName", http.MethodPost, u, &beans.NameRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return resp.Tags, nil
}

func (c *HTTPClient) GetFeedback(ctx context.Context, userID, elementGUID string) (*beans.FeedbackResponse, error) {
	if err := ffdc.ValidateGUID("GetFeedback", "elementGUID", elementGUID); err != nil {
		return nil, err
	}
	var resp beans.FeedbackResponse
	if err := c.do(ctx, "GetFeedback", http.MethodGet, c.url(userID, nil, "elements", elementGUID, "feedback"), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) SetAssetSchemaType(ctx context.Context, userID, assetGUID string, schemaType *beans.SchemaType) (string, error) {
	if err := ffdc.ValidateGUID("SetAssetSchemaType", "assetGUID", assetGUID); err != nil {
		return "", err
	}
	return c.createGUID(ctx, "SetAssetSchemaType", c.url(userID, nil, "assets", assetGUID, "schema-type"), schemaType)
}

func (c *HTTPClient) AddSchemaAttribute(ctx context.Context, userID, schemaTypeGUID string, attribute *beans.SchemaAttribute) (string, error) {
	if err := ffdc.ValidateGUID("AddSchemaAttribute", "schemaTypeGUID", schemaTypeGUID); err != nil {
		return "", err
	}
	return c.createGUID(ctx, "AddSchemaAttribute", c.url(userID, nil, "schema-types", schemaTypeGUID, "schema-attributes"), attribute)
}

func (c *HTTPClient) GetSchemaAttributes(ctx context.Context, userID, schemaTypeGUID string) ([]*beans.SchemaAttribute, error) {
	if err := ffdc.ValidateGUID("GetSchemaAttributes", "schemaTypeGUID", schemaTypeGUID); err != nil {
		return nil, err
	}
	var resp beans.SchemaAttributesResponse
	u := c.url(userID, nil, "schema-types", schemaTypeGUID, "schema-attributes")
	if err := c.do(ctx, "GetSchemaAttributes", http.MethodGet, u, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Attributes, nil
}

func (c *HTTPClient) CreateSoftwareServerCapability(ctx context.Context, userID string, capability *beans.SoftwareServerCapability) (string, error) {
	return c.createGUID(ctx, "CreateSoftwareServerCapability", c.url(userID, nil, "software-server-capabilities"), capability)
}

func (c *HTTPClient) CreateFileSystem(ctx context.Context, userID string, fs *beans.FileSystem) (string, error) {
	return c.createGUID(ctx, "CreateFileSystem", c.url(userID, nil, "file-systems"), fs)
}
