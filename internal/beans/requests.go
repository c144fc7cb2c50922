package beans

// Request and response bodies of the REST API.

type ConnectionRequest struct {
	Connection *Connection `json:"connection"`
	// Optional GUID of an existing endpoint to link to the connection.
	EndpointGUID string `json:"endpointGUID,omitempty"`
	// Optional GUID of an existing asset the connection gives access to.
	AssetGUID    string `json:"assetGUID,omitempty"`
	AssetSummary string `json:"assetSummary,omitempty"`
}

type ZonesRequest struct {
	Zones []string `json:"zones"`
}

type NameRequest struct {
	Name string `json:"name"`
}

// GUIDResponse is returned by all create requests.
type GUIDResponse struct {
	GUID string `json:"guid"`
}

type AssetResponse struct {
	Asset *Asset `json:"asset"`
}

type AssetsResponse struct {
	Assets []*Asset `json:"assets"`
}

type TagsResponse struct {
	Tags []*InformalTag `json:"tags"`
}

type SchemaAttributesResponse struct {
	Attributes []*SchemaAttribute `json:"attributes"`
}

type FeedbackResponse struct {
	Comments []*Comment     `json:"comments"`
	Ratings  []*Rating      `json:"ratings"`
	Likes    []*Like        `json:"likes"`
	Tags     []*InformalTag `json:"tags"`
}

// FFDCResponse is the body of a failed REST request.
type FFDCResponse struct {
	RelatedHTTPCode       int               `json:"relatedHTTPCode"`
	ExceptionClassName    string            `json:"exceptionClassName"`
	ActionDescription     string            `json:"actionDescription,omitempty"`
	ExceptionErrorMessage string            `json:"exceptionErrorMessage"`
	ExceptionUserAction   string            `json:"exceptionUserAction,omitempty"`
	ExceptionProperties   map[string]string `json:"exceptionProperties,omitempty"`
}
