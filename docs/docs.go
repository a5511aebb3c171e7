// Package docs builds the OpenAPI description of the service and serves it
// together with an interactive Swagger UI page.
package docs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	pongo2 "github.com/flosch/pongo2/v6"

	"github.com/taobot/taobot/constants"
	"github.com/taobot/taobot/utils"
)

// SwaggerUIAssets is where the Swagger UI bundle is loaded from.
const SwaggerUIAssets = "https://unpkg.com/swagger-ui-dist@5"

//go:embed swagger.html
var swaggerTemplate string

// Handler serves the documentation page and the JSON document.
type Handler struct {
	DocsPath string
	JSONPath string

	doc     *Document
	once    sync.Once
	page    []byte
	spec    []byte
	prepErr error
}

// NewHandler returns a handler for doc mounted at the given paths. Paths may
// be given with or without a leading slash.
func NewHandler(doc *Document, docsPath, jsonPath string) *Handler {
	return &Handler{
		DocsPath: NormalizePath(docsPath),
		JSONPath: NormalizePath(jsonPath),
		doc:      doc,
	}
}

// Setup registers the documentation routes on mux, documents them in doc, and
// renders the page up front.
func Setup(mux *http.ServeMux, docsPath, jsonPath string, doc *Document) (*Handler, error) {
	h := NewHandler(doc, docsPath, jsonPath)
	doc.AddPath(http.MethodGet, h.DocsPath, "Interactive API documentation", constants.ContentTypeHTML)
	doc.AddPath(http.MethodGet, h.JSONPath, "OpenAPI document", constants.ContentTypeJSON)
	if err := h.Prepare(); err != nil {
		return nil, err
	}
	mux.HandleFunc(http.MethodGet+" "+h.DocsPath, h.ServePage)
	mux.HandleFunc(http.MethodGet+" "+h.JSONPath, h.ServeJSON)
	return h, nil
}

// Prepare renders the page and serializes the document. Later calls return
// the first result.
func (h *Handler) Prepare() error {
	h.once.Do(func() {
		h.spec, h.prepErr = json.Marshal(h.doc)
		if h.prepErr != nil {
			h.prepErr = fmt.Errorf("encode api document: %w", h.prepErr)
			return
		}
		h.page, h.prepErr = renderPage(h.doc, h.JSONPath)
	})
	return h.prepErr
}

// JSON returns the serialized document.
func (h *Handler) JSON() ([]byte, error) {
	if err := h.Prepare(); err != nil {
		return nil, err
	}
	return h.spec, nil
}

func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	if err := h.Prepare(); err != nil {
		utils.WriteHTTPError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.page); err != nil {
		utils.Error(constants.LogWriteFailed, err)
	}
}

func (h *Handler) ServeJSON(w http.ResponseWriter, r *http.Request) {
	if err := h.Prepare(); err != nil {
		utils.WriteHTTPError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set(constants.HeaderContentType, constants.ContentTypeJSON)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.spec); err != nil {
		utils.Error(constants.LogWriteFailed, err)
	}
}

func renderPage(doc *Document, jsonPath string) ([]byte, error) {
	tpl, err := pongo2.FromString(swaggerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse docs template: %w", err)
	}
	out, err := tpl.ExecuteBytes(pongo2.Context{
		"title":      doc.Info.Title,
		"version":    doc.Info.Version,
		"json_url":   jsonPath,
		"asset_base": SwaggerUIAssets,
	})
	if err != nil {
		return nil, fmt.Errorf("render docs template: %w", err)
	}
	return out, nil
}

// NormalizePath turns "api/docs" or "/api/docs/" into "/api/docs".
func NormalizePath(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	return "/" + p
}
