// Package rest serves the metadata server API over HTTP. Requests are
// addressed to /servers/{serverName}/open-metadata/users/{userId}/...;
// bodies are JSON beans. Failures are returned as FFDC responses whose
// HTTP status is the related HTTP code of the error.
package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/dnswlt/egeria/internal/beans"
	"github.com/dnswlt/egeria/internal/client"
	"github.com/dnswlt/egeria/internal/ffdc"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

const DefaultCacheSize = 256

// BasePath is the path prefix of all API routes.
const BasePath = "/servers/{serverName}/open-metadata/users/{userId}"

type ServerOptions struct {
	Addr string // E.g., "localhost:9443"
	// ServerName is the only server name the server answers to.
	ServerName string
	// CacheSize is the number of find results kept in memory.
	CacheSize int
}

type Server struct {
	opts   ServerOptions
	api    client.API
	logger *zap.Logger
	// Find results by request. Purged on every write.
	findCache *lru.Cache[string, any]

	mu sync.Mutex
	// writeGen counts the writes that purged findCache.
	writeGen uint64
}

func NewServer(opts ServerOptions, api client.API, logger *zap.Logger) (*Server, error) {
	if opts.ServerName == "" {
		return nil, errors.New("server name must not be empty")
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[string, any](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create find cache: %w", err)
	}
	return &Server{
		opts:      opts,
		api:       api,
		logger:    logger,
		findCache: cache,
	}, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", zap.Error(err))
	}
}

func toFFDCResponse(fe *ffdc.Error) *beans.FFDCResponse {
	resp := &beans.FFDCResponse{
		RelatedHTTPCode:       fe.HTTPCode(),
		ExceptionClassName:    fe.ClassName(),
		ActionDescription:     fe.Method,
		ExceptionErrorMessage: fe.Message,
		ExceptionUserAction:   fe.UserAction,
	}
	if fe.Parameter != "" {
		resp.ExceptionProperties = map[string]string{"parameterName": fe.Parameter}
	}
	return resp
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, methodName string, err error) {
	fe := ffdc.As(methodName, err)
	resp := toFFDCResponse(fe)
	fields := []zap.Field{
		zap.String("method", methodName),
		zap.String("path", r.URL.Path),
		zap.Int("status", resp.RelatedHTTPCode),
		zap.Error(err),
	}
	if resp.RelatedHTTPCode >= http.StatusInternalServerError {
		s.logger.Error("Request failed", fields...)
	} else {
		s.logger.Info("Request rejected", fields...)
	}
	s.writeJSON(w, resp.RelatedHTTPCode, resp)
}

// decode reads the JSON request body into a new T.
// Numbers in untyped fields are decoded as json.Number.
func decode[T any](r *http.Request, methodName string) (*T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ffdc.InvalidParameter(methodName, "requestBody", "the request body is empty")
		}
		return nil, ffdc.InvalidParameter(methodName, "requestBody", "invalid request body: %v", err)
	}
	return &v, nil
}

// paging returns the startFrom and pageSize query parameters. Both default to 0.
func paging(r *http.Request, methodName string) (startFrom, pageSize int, err error) {
	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *int
	}{{"startFrom", &startFrom}, {"pageSize", &pageSize}} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			return 0, 0, ffdc.InvalidParameter(methodName, p.name, "%q is not a number", v)
		}
		*p.dst = n
	}
	return startFrom, pageSize, nil
}

// apiFunc handles a request on behalf of userID and returns the response body.
type apiFunc func(r *http.Request, userID string) (any, error)

// handle registers fn for pattern, which is relative to BasePath.
// Handlers of writing requests purge the find cache.
func (s *Server) handle(mux *http.ServeMux, method, pattern, methodName string, write bool, fn apiFunc) {
	mux.HandleFunc(method+" "+BasePath+pattern, func(w http.ResponseWriter, r *http.Request) {
		if serverName := r.PathValue("serverName"); serverName != s.opts.ServerName {
			s.writeError(w, r, methodName, ffdc.NotFound(methodName, "serverName", "unknown server %q", serverName))
			return
		}
		result, err := fn(r, r.PathValue("userId"))
		if write {
			// Also purge on failure: a failed write may have changed some elements.
			s.purge()
		}
		if err != nil {
			s.writeError(w, r, methodName, err)
			return
		}
		s.writeJSON(w, http.StatusOK, result)
	})
}

func (s *Server) purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeGen++
	s.findCache.Purge()
}

// cached returns the cached result for key, or computes and caches it.
// A result is not cached if a write completed while it was computed.
func (s *Server) cached(key string, compute func() (any, error)) (any, error) {
	if v, ok := s.findCache.Get(key); ok {
		return v, nil
	}
	s.mu.Lock()
	gen := s.writeGen
	s.mu.Unlock()
	v, err := compute()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeGen == gen {
		s.findCache.Add(key, v)
	}
	return v, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	s.assetRoutes(mux)
	s.connectionRoutes(mux)
	s.feedbackRoutes(mux)
	s.schemaRoutes(mux)
	s.softwareServerRoutes(mux)

	// Health check. Useful for cloud deployments.
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	})

	return mux
}

// Serve starts the HTTP server on s.opts.Addr using the wrapped handler.
func (s *Server) Serve() error {
	handler := s.Handler()
	s.logger.Info("Metadata server listening",
		zap.String("addr", "http://"+s.opts.Addr),
		zap.String("serverName", s.opts.ServerName))
	return http.ListenAndServe(s.opts.Addr, handler)
}

func (s *Server) Handler() http.Handler {
	return s.withRequestLogging(s.routes())
}
