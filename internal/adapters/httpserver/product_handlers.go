package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/phenrril/balkon/internal/domain"
)

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	if size > 100 {
		size = 100
	}
	list, total, err := s.products.List(r.Context(), domain.ProductFilter{
		Category: q.Get("category"),
		Query:    q.Get("q"),
		Sort:     q.Get("sort"),
		Page:     page,
		PageSize: size,
	})
	if err != nil {
		log.Error().Err(err).Msg("list products")
		writeMessage(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if list == nil {
		list = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": list, "total": total})
}

func (s *Server) apiProductBySlug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	slug, sub, _ := strings.Cut(rest, "/")
	if slug == "" || (sub != "" && sub != "variants") {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	p, err := s.products.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "product not found")
			return
		}
		log.Error().Err(err).Str("slug", slug).Msg("get product")
		writeMessage(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if sub == "" {
		writeJSON(w, http.StatusOK, p)
		return
	}
	vs, err := s.products.ListVariants(r.Context(), p.ID)
	if err != nil {
		log.Error().Err(err).Str("slug", slug).Msg("list variants")
		writeMessage(w, http.StatusInternalServerError, "could not list variants")
		return
	}
	if vs == nil {
		vs = []domain.Variant{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": p.Slug, "items": vs})
}

// apiVariantBySKU serves GET /api/variants?sku=...
func (s *Server) apiVariantBySKU(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	sku := strings.TrimSpace(r.URL.Query().Get("sku"))
	if sku == "" {
		writeMessage(w, http.StatusBadRequest, "sku is required")
		return
	}
	p, v, err := s.products.SearchBySKU(r.Context(), sku)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeMessage(w, http.StatusNotFound, "variant not found")
			return
		}
		log.Error().Err(err).Str("sku", sku).Msg("variant by sku")
		writeMessage(w, http.StatusInternalServerError, "could not load variant")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"product": p, "variant": v})
}

func (s *Server) apiCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	cats, err := s.products.Categories(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("categories")
		writeMessage(w, http.StatusInternalServerError, "could not list categories")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": cats})
}

// apiSystemProducts serves GET /api/systems/{id}/products.
func (s *Server) apiSystemProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/systems/"), "/")
	id, sub, _ := strings.Cut(rest, "/")
	if id == "" || sub != "products" {
		writeMessage(w, http.StatusNotFound, "not found")
		return
	}
	list, err := s.products.SystemProducts(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("system", id).Msg("system products")
		writeMessage(w, http.StatusInternalServerError, "could not list products")
		return
	}
	if list == nil {
		list = []domain.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"system": id, "items": list})
}
