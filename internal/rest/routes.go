package rest

import (
	"fmt"
	"net/http"

	"github.com/dnswlt/egeria/internal/beans"
)

func guidResponse(guid string, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return &beans.GUIDResponse{GUID: guid}, nil
}

func (s *Server) assetRoutes(mux *http.ServeMux) {
	s.handle(mux, "POST", "/assets", "CreateAsset", true, func(r *http.Request, userID string) (any, error) {
		asset, err := decode[beans.Asset](r, "CreateAsset")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.CreateAsset(r.Context(), userID, asset))
	})
	s.handle(mux, "GET", "/assets/{guid}", "GetAsset", false, func(r *http.Request, userID string) (any, error) {
		asset, err := s.api.GetAsset(r.Context(), userID, r.PathValue("guid"))
		if err != nil {
			return nil, err
		}
		return &beans.AssetResponse{Asset: asset}, nil
	})
	s.handle(mux, "PUT", "/assets/{guid}", "UpdateAsset", true, func(r *http.Request, userID string) (any, error) {
		asset, err := decode[beans.Asset](r, "UpdateAsset")
		if err != nil {
			return nil, err
		}
		guid := r.PathValue("guid")
		return guidResponse(guid, s.api.UpdateAsset(r.Context(), userID, guid, asset))
	})
	s.handle(mux, "DELETE", "/assets/{guid}", "DeleteAsset", true, func(r *http.Request, userID string) (any, error) {
		guid := r.PathValue("guid")
		return guidResponse(guid, s.api.DeleteAsset(r.Context(), userID, guid))
	})
	s.handle(mux, "POST", "/assets/{guid}/zones", "AddAssetToZones", true, func(r *http.Request, userID string) (any, error) {
		req, err := decode[beans.ZonesRequest](r, "AddAssetToZones")
		if err != nil {
			return nil, err
		}
		guid := r.PathValue("guid")
		return guidResponse(guid, s.api.AddAssetToZones(r.Context(), userID, guid, req.Zones))
	})
	s.handle(mux, "POST", "/assets/by-name", "FindAssetsByName", false, func(r *http.Request, userID string) (any, error) {
		const methodName = "FindAssetsByName"
		req, err := decode[beans.NameRequest](r, methodName)
		if err != nil {
			return nil, err
		}
		startFrom, pageSize, err := paging(r, methodName)
		if err != nil {
			return nil, err
		}
		key := fmt.Sprintf("assets\x00%s\x00%s\x00%d\x00%d", userID, req.Name, startFrom, pageSize)
		return s.cached(key, func() (any, error) {
			assets, err := s.api.FindAssetsByName(r.Context(), userID, req.Name, startFrom, pageSize)
			if err != nil {
				return nil, err
			}
			return &beans.AssetsResponse{Assets: assets}, nil
		})
	})
}

func (s *Server) connectionRoutes(mux *http.ServeMux) {
	s.handle(mux, "POST", "/endpoints", "CreateEndpoint", true, func(r *http.Request, userID string) (any, error) {
		endpoint, err := decode[beans.Endpoint](r, "CreateEndpoint")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.CreateEndpoint(r.Context(), userID, endpoint))
	})
	s.handle(mux, "POST", "/connections", "CreateConnection", true, func(r *http.Request, userID string) (any, error) {
		req, err := decode[beans.ConnectionRequest](r, "CreateConnection")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.CreateConnection(r.Context(), userID, req))
	})
}

func (s *Server) feedbackRoutes(mux *http.ServeMux) {
	s.handle(mux, "POST", "/elements/{guid}/comments", "AddComment", true, func(r *http.Request, userID string) (any, error) {
		comment, err := decode[beans.Comment](r, "AddComment")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.AddComment(r.Context(), userID, r.PathValue("guid"), comment))
	})
	s.handle(mux, "POST", "/elements/{guid}/ratings", "AddRating", true, func(r *http.Request, userID string) (any, error) {
		rating, err := decode[beans.Rating](r, "AddRating")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.AddRating(r.Context(), userID, r.PathValue("guid"), rating))
	})
	s.handle(mux, "POST", "/elements/{guid}/likes", "AddLike", true, func(r *http.Request, userID string) (any, error) {
		like, err := decode[beans.Like](r, "AddLike")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.AddLike(r.Context(), userID, r.PathValue("guid"), like))
	})
	s.handle(mux, "POST", "/elements/{guid}/tags", "AddTag", true, func(r *http.Request, userID string) (any, error) {
		tag, err := decode[beans.InformalTag](r, "AddTag")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.AddTag(r.Context(), userID, r.PathValue("guid"), tag))
	})
	s.handle(mux, "GET", "/elements/{guid}/feedback", "GetFeedback", false, func(r *http.Request, userID string) (any, error) {
		return s.api.GetFeedback(r.Context(), userID, r.PathValue("guid"))
	})
	s.handle(mux, "POST", "/tags/by-name", "FindTagsByName", false, func(r *http.Request, userID string) (any, error) {
		const methodName = "FindTagsByName"
		req, err := decode[beans.NameRequest](r, methodName)
		if err != nil {
			return nil, err
		}
		startFrom, pageSize, err := paging(r, methodName)
		if err != nil {
			return nil, err
		}
		key := fmt.Sprintf("tags\x00%s\x00%s\x00%d\x00%d", userID, req.Name, startFrom, pageSize)
		return s.cached(key, func() (any, error) {
			tags, err := s.api.FindTagsByName(r.Context(), userID, req.Name, startFrom, pageSize)
			if err != nil {
				return nil, err
			}
			return &beans.TagsResponse{Tags: tags}, nil
		})
	})
}

func (s *Server) schemaRoutes(mux *http.ServeMux) {
	s.handle(mux, "POST", "/assets/{guid}/schema-type", "SetAssetSchemaType", true, func(r *http.Request, userID string) (any, error) {
		schemaType, err := decode[beans.SchemaType](r, "SetAssetSchemaType")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.SetAssetSchemaType(r.Context(), userID, r.PathValue("guid"), schemaType))
	})
	s.handle(mux, "POST", "/schema-types/{guid}/schema-attributes", "AddSchemaAttribute", true, func(r *http.Request, userID string) (any, error) {
		attr, err := decode[beans.SchemaAttribute](r, "AddSchemaAttribute")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.AddSchemaAttribute(r.Context(), userID, r.PathValue("guid"), attr))
	})
	s.handle(mux, "GET", "/schema-types/{guid}/schema-attributes", "GetSchemaAttributes", false, func(r *http.Request, userID string) (any, error) {
		attrs, err := s.api.GetSchemaAttributes(r.Context(), userID, r.PathValue("guid"))
		if err != nil {
			return nil, err
		}
		return &beans.SchemaAttributesResponse{Attributes: attrs}, nil
	})
}

func (s *Server) softwareServerRoutes(mux *http.ServeMux) {
	s.handle(mux, "POST", "/software-server-capabilities", "CreateSoftwareServerCapability", true, func(r *http.Request, userID string) (any, error) {
		capability, err := decode[beans.SoftwareServerCapability](r, "CreateSoftwareServerCapability")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.CreateSoftwareServerCapability(r.Context(), userID, capability))
	})
	s.handle(mux, "POST", "/file-systems", "CreateFileSystem", true, func(r *http.Request, userID string) (any, error) {
		fs, err := decode[beans.FileSystem](r, "CreateFileSystem")
		if err != nil {
			return nil, err
		}
		return guidResponse(s.api.CreateFileSystem(r.Context(), userID, fs))
	})
}
