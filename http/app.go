package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"

	"github.com/taobot/taobot/config"
	"github.com/taobot/taobot/constants"
	"github.com/taobot/taobot/core"
	"github.com/taobot/taobot/docs"
	"github.com/taobot/taobot/telemetry"
	"github.com/taobot/taobot/utils"
)

// ErrNotReady is returned by Inject before Ready has completed.
var ErrNotReady = errors.New("application is not ready")

// injectRemoteAddr is the peer address seen by handlers for injected requests.
const injectRemoteAddr = "127.0.0.1:0"

// Application is the HTTP application the adapter bootstraps.
type Application struct {
	cfg      *config.Config
	handler  http.Handler
	docs     *docs.Handler
	ready    atomic.Bool
	shutdown func(context.Context) error
}

// NewApplication builds the route table, registers the API documentation and
// wraps everything in telemetry and CORS middleware. The result must be made
// ready with Ready before it accepts injected requests.
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	app := &Application{cfg: cfg}

	mux := http.NewServeMux()
	ops := core.GetOperationsByGroups(cfg.Endpoints)
	if err := safeRegister(func() { core.GenerateHTTPHandlers(mux, ops) }); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}

	if !cfg.Docs.Disabled {
		base := docs.NewDocumentBuilder().
			SetTitle(cfg.Docs.Title).
			SetVersion(cfg.Docs.Version).
			SetDescription(cfg.Docs.Description).
			Build()
		doc := docs.CreateDocument(base, ops)
		var h *docs.Handler
		var setupErr error
		err := safeRegister(func() {
			h, setupErr = docs.Setup(mux, cfg.Docs.Path, cfg.Docs.JSONPath, doc)
		})
		if err == nil {
			err = setupErr
		}
		if err != nil {
			return nil, fmt.Errorf("register api docs: %w", err)
		}
		app.docs = h
	}

	if err := safeRegister(func() {
		mux.Handle(http.MethodGet+" "+constants.DefaultMetrics, telemetry.MetricsHandler())
	}); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	app.handler = CORS(cfg.CORS, telemetry.WrapHandler(constants.DefaultServiceName, mux))
	return app, nil
}

// safeRegister turns a ServeMux registration panic, such as a duplicate
// pattern, into an error.
func safeRegister(fn func()) (err error) {
	defer func() {
		if p := recover(); p != nil {
			if e, ok := p.(error); ok {
				err = e
				return
			}
			err = fmt.Errorf("%v", p)
		}
	}()
	fn()
	return nil
}

// Ready finishes startup work and marks the application as accepting
// requests. It is safe to call more than once.
func (a *Application) Ready(ctx context.Context) error {
	if a.ready.Load() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.docs != nil {
		if err := a.docs.Prepare(); err != nil {
			return err
		}
	}
	a.ready.Store(true)
	return nil
}

// IsReady reports whether Ready has completed.
func (a *Application) IsReady() bool {
	return a.ready.Load()
}

// Docs returns the documentation handler, or nil when docs are disabled.
func (a *Application) Docs() *docs.Handler {
	return a.docs
}

// ServeHTTP serves the application on a real connection.
func (a *Application) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

// Inject runs req through the application in process and captures the
// result. Panics raised by handlers propagate to the caller.
func (a *Application) Inject(ctx context.Context, req InjectRequest) (*InjectResponse, error) {
	if !a.ready.Load() {
		return nil, ErrNotReady
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	target := req.URL
	if target == "" {
		target = constants.DefaultURL
	}

	var body io.Reader = http.NoBody
	if req.Payload != nil {
		body = bytes.NewReader(req.Payload)
	}
	r, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), target, body)
	if err != nil {
		return nil, fmt.Errorf("build injected request: %w", err)
	}
	r.RequestURI = r.URL.RequestURI()
	r.RemoteAddr = injectRemoteAddr
	for name, value := range req.Headers {
		if strings.EqualFold(name, "Host") {
			r.Host = value
			continue
		}
		if strings.EqualFold(name, "Content-Length") {
			continue
		}
		r.Header.Set(name, value)
	}
	if req.Payload != nil {
		r.ContentLength = int64(len(req.Payload))
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, r)
	result := rec.Result()
	defer result.Body.Close()

	payload, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("read injected response: %w", err)
	}
	utils.DebugCtx(ctx, "injected request", "method", method, "url", target, "status", result.StatusCode)
	return &InjectResponse{
		StatusCode: result.StatusCode,
		Headers:    result.Header,
		Payload:    payload,
	}, nil
}

// Shutdown flushes telemetry set up for the application.
func (a *Application) Shutdown(ctx context.Context) error {
	if a.shutdown == nil {
		return nil
	}
	return a.shutdown(ctx)
}

// ApplicationFactory returns a Factory that builds a ready Application. A nil
// cfg is loaded from the default config file and the environment when the
// factory runs.
func ApplicationFactory(cfg *config.Config) Factory {
	return func(ctx context.Context) (Injector, error) {
		c := cfg
		if c == nil {
			loaded, err := config.Load(constants.ConfigFileName)
			if err != nil {
				return nil, fmt.Errorf("load config: %w", err)
			}
			c = loaded
		}
		if err := utils.SetLevel(c.Log.Level); err != nil {
			utils.Warn("%v", err)
		}

		app, err := NewApplication(ctx, c)
		if err != nil {
			return nil, err
		}
		if err := app.Ready(ctx); err != nil {
			return nil, fmt.Errorf("application not ready: %w", err)
		}

		// Tracing starts only once the application is ready. Failures are
		// logged and otherwise ignored.
		shutdown, err := telemetry.Init(c)
		if err != nil {
			utils.Warn(constants.LogTracingInitFailed, exporterName(c), err)
		}
		app.shutdown = shutdown
		return app, nil
	}
}

func exporterName(cfg *config.Config) string {
	if cfg.Tracing == nil {
		return constants.TracingExporterNone
	}
	return cfg.Tracing.Exporter
}
