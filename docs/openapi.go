package docs

import (
	"net/http"
	"strings"

	"github.com/taobot/taobot/constants"
	"github.com/taobot/taobot/core"
)

const openAPIVersion = "3.0.3"

// Info is the OpenAPI info object.
type Info struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Document is the subset of an OpenAPI 3 document the service publishes.
type Document struct {
	OpenAPI string              `json:"openapi"`
	Info    Info                `json:"info"`
	Tags    []Tag               `json:"tags,omitempty"`
	Paths   map[string]PathItem `json:"paths"`
}

type Tag struct {
	Name string `json:"name"`
}

// PathItem maps lower-case HTTP methods to operations.
type PathItem map[string]Operation

type Operation struct {
	OperationID string              `json:"operationId"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

type MediaType struct {
	Schema map[string]any `json:"schema,omitempty"`
}

// DocumentBuilder accumulates document metadata before the paths are known.
type DocumentBuilder struct {
	info Info
}

func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{}
}

func (b *DocumentBuilder) SetTitle(title string) *DocumentBuilder {
	b.info.Title = title
	return b
}

func (b *DocumentBuilder) SetVersion(version string) *DocumentBuilder {
	b.info.Version = version
	return b
}

func (b *DocumentBuilder) SetDescription(description string) *DocumentBuilder {
	b.info.Description = description
	return b
}

// Build returns the document skeleton with empty paths.
func (b *DocumentBuilder) Build() *Document {
	info := b.info
	if info.Title == "" {
		info.Title = constants.DefaultAPITitle
	}
	if info.Version == "" {
		info.Version = constants.DefaultAPIVersion
	}
	return &Document{
		OpenAPI: openAPIVersion,
		Info:    info,
		Paths:   map[string]PathItem{},
	}
}

// CreateDocument fills a copy of base with one path entry per documented
// operation.
func CreateDocument(base *Document, ops []*core.OperationDefinition) *Document {
	doc := &Document{
		OpenAPI: base.OpenAPI,
		Info:    base.Info,
		Paths:   make(map[string]PathItem, len(ops)),
	}
	seenTags := map[string]bool{}
	for _, op := range ops {
		if op.SkipHTTP || op.SkipDocs {
			continue
		}
		item, ok := doc.Paths[op.HTTPPath]
		if !ok {
			item = PathItem{}
			doc.Paths[op.HTTPPath] = item
		}
		var tags []string
		if op.Group != "" {
			tags = []string{op.Group}
			if !seenTags[op.Group] {
				seenTags[op.Group] = true
				doc.Tags = append(doc.Tags, Tag{Name: op.Group})
			}
		}
		item[strings.ToLower(op.HTTPMethod)] = Operation{
			OperationID: op.ID,
			Summary:     op.Name,
			Description: op.Description,
			Tags:        tags,
			Responses: map[string]Response{
				"200": successResponse(op),
			},
		}
	}
	return doc
}

// AddPath documents an extra route that is not an operation, such as the
// documentation endpoints themselves.
func (d *Document) AddPath(method, path, summary, contentType string) {
	item, ok := d.Paths[path]
	if !ok {
		item = PathItem{}
		d.Paths[path] = item
	}
	item[strings.ToLower(method)] = Operation{
		OperationID: operationID(method, path),
		Summary:     summary,
		Responses: map[string]Response{
			"200": {
				Description: http.StatusText(http.StatusOK),
				Content:     map[string]MediaType{contentType: {}},
			},
		},
	}
}

func successResponse(op *core.OperationDefinition) Response {
	contentType := op.ContentType
	if contentType == "" {
		contentType = constants.ContentTypeJSON
	}
	media := MediaType{}
	if contentType == constants.ContentTypeJSON {
		media.Schema = map[string]any{"type": "object"}
	} else {
		media.Schema = map[string]any{"type": "string"}
	}
	return Response{
		Description: http.StatusText(http.StatusOK),
		Content:     map[string]MediaType{contentType: media},
	}
}

func operationID(method, path string) string {
	trimmed := strings.Trim(path, "/")
	trimmed = strings.NewReplacer("/", "_", "{", "", "}", "", "-", "_").Replace(trimmed)
	if trimmed == "" {
		trimmed = "root"
	}
	return strings.ToLower(method) + "_" + trimmed
}
