package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/taobot/taobot/constants"
)

// Request is the platform request envelope handed to the adapter.
//
// Body may be nil (no payload), a string or []byte (forwarded unchanged), or
// any other value, which is forwarded as its JSON encoding.
type Request struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    any
}

// Response is the platform response envelope the adapter writes to.
type Response interface {
	SetHeader(name string, values ...string)
	Status(code int) Response
	Send(payload []byte) error
	JSON(v any) error
}

// InjectRequest describes one in-process HTTP transaction. A nil Payload
// means no body; an empty non-nil Payload is an explicit empty body.
type InjectRequest struct {
	Method  string
	URL     string
	Headers map[string]string
	Payload []byte
}

// InjectResponse is the result of an injected transaction.
type InjectResponse struct {
	StatusCode int
	Headers    http.Header
	Payload    []byte
}

// Injector runs HTTP transactions against an application without a socket.
type Injector interface {
	Inject(ctx context.Context, req InjectRequest) (*InjectResponse, error)
}

// Payload derives the forwarded payload from a request body.
func Payload(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case string:
		if b == "" {
			return []byte{}, nil
		}
		return []byte(b), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return []byte(b), nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("serialize request body: %w", err)
		}
		return data, nil
	}
}

// RequestFromHTTP converts a net/http request into a Request envelope.
// Multi-valued headers are joined with ", " and the Host is carried as the
// "Host" header. An empty body becomes an absent body.
func RequestFromHTTP(r *http.Request) (Request, error) {
	req := Request{
		Method:  r.Method,
		URL:     r.URL.RequestURI(),
		Headers: make(map[string]string, len(r.Header)+1),
	}
	for name, values := range r.Header {
		if len(values) == 0 {
			continue
		}
		req.Headers[name] = strings.Join(values, ", ")
	}
	if r.Host != "" {
		req.Headers["Host"] = r.Host
	}
	if r.Body != nil && r.Body != http.NoBody {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return req, fmt.Errorf("read request body: %w", err)
		}
		if len(data) > 0 {
			req.Body = data
		}
	}
	return req, nil
}

// httpResponse writes a Response envelope onto a net/http ResponseWriter.
type httpResponse struct {
	w      http.ResponseWriter
	status int
	sent   bool
}

// ErrAlreadySent is returned when a response body is written twice.
var ErrAlreadySent = errors.New("response already sent")

// NewResponse wraps w as a Response envelope.
func NewResponse(w http.ResponseWriter) Response {
	return &httpResponse{w: w, status: http.StatusOK}
}

func (r *httpResponse) SetHeader(name string, values ...string) {
	h := r.w.Header()
	h.Del(name)
	for _, v := range values {
		h.Add(name, v)
	}
}

func (r *httpResponse) Status(code int) Response {
	r.status = code
	return r
}

func (r *httpResponse) Send(payload []byte) error {
	if r.sent {
		return ErrAlreadySent
	}
	r.sent = true
	r.w.WriteHeader(r.status)
	if len(payload) == 0 || !bodyAllowed(r.status) {
		return nil
	}
	_, err := r.w.Write(payload)
	return err
}

func (r *httpResponse) JSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.SetHeader(constants.HeaderContentType, constants.ContentTypeJSON)
	return r.Send(data)
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
