package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/taobot/taobot/constants"
	"github.com/taobot/taobot/telemetry"
	"github.com/taobot/taobot/utils"
)

// testHookCacheMiss runs when App finds no cached application.
var testHookCacheMiss func()

// Factory constructs the application the adapter injects requests into.
type Factory func(ctx context.Context) (Injector, error)

// Adapter bridges platform request envelopes to an in-process application.
// The application is built lazily, at most once per Adapter; concurrent first
// requests share the same construction.
type Adapter struct {
	factory Factory

	mu   sync.RWMutex
	app  Injector
	init singleflight.Group
}

// NewAdapter returns an adapter that builds its application with factory.
func NewAdapter(factory Factory) *Adapter {
	return &Adapter{factory: factory}
}

// App returns the application, constructing it on first use. A failed
// construction is not cached; the next call tries again.
func (a *Adapter) App(ctx context.Context) (Injector, error) {
	if app := a.cached(); app != nil {
		return app, nil
	}
	if testHookCacheMiss != nil {
		testHookCacheMiss()
	}
	v, err, _ := a.init.Do("app", func() (any, error) {
		// A previous flight may have finished between the fast path and here.
		if app := a.cached(); app != nil {
			return app, nil
		}
		app, err := a.build(context.WithoutCancel(ctx))
		telemetry.RecordInit(err)
		if err != nil {
			utils.DebugCtx(ctx, constants.LogAppInitFailed, "error", err)
			return nil, err
		}
		a.mu.Lock()
		a.app = app
		a.mu.Unlock()
		utils.InfoCtx(ctx, constants.LogAppInitialized)
		return app, nil
	})
	var ip *initPanic
	if errors.As(err, &ip) {
		panic(ip.value)
	}
	if err != nil {
		return nil, err
	}
	return v.(Injector), nil
}

// initPanic carries a factory panic out of the singleflight call so each
// waiting caller re-panics with the original value.
type initPanic struct {
	value any
}

func (p *initPanic) Error() string {
	return fmt.Sprintf("application factory panicked: %v", p.value)
}

func (a *Adapter) build(ctx context.Context) (app Injector, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &initPanic{value: p}
		}
	}()
	app, err = a.factory(ctx)
	if err == nil && app == nil {
		err = errors.New("application factory returned no application")
	}
	return app, err
}

func (a *Adapter) cached() Injector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.app
}

// Reset drops the cached application so the next request builds a new one.
func (a *Adapter) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.app = nil
}

// Handle serves one platform request. Every failure, including a panic, is
// turned into a 500 JSON response; nothing propagates to the caller.
func (a *Adapter) Handle(ctx context.Context, req Request, res Response) {
	ctx = utils.WithRequestID(ctx, requestID(req.Headers))
	defer func() {
		if p := recover(); p != nil {
			a.fail(ctx, res, p)
		}
	}()
	if err := a.handle(ctx, req, res); err != nil {
		a.fail(ctx, res, err)
	}
}

func (a *Adapter) handle(ctx context.Context, req Request, res Response) error {
	app, err := a.App(ctx)
	if err != nil {
		return err
	}

	payload, err := Payload(req.Body)
	if err != nil {
		return err
	}

	url := req.URL
	if url == "" {
		url = constants.DefaultURL
	}
	result, err := app.Inject(ctx, InjectRequest{
		Method:  req.Method,
		URL:     url,
		Headers: req.Headers,
		Payload: payload,
	})
	if err != nil {
		return err
	}

	for name, values := range result.Headers {
		if len(values) == 0 {
			continue
		}
		res.SetHeader(name, values...)
	}
	return res.Status(result.StatusCode).Send(result.Payload)
}

// requestID reuses an inbound X-Request-ID or generates a new one.
func requestID(headers map[string]string) string {
	for name, value := range headers {
		if value != "" && strings.EqualFold(name, constants.HeaderRequestID) {
			return value
		}
	}
	return uuid.NewString()
}

// fail writes the generic error envelope. It must not panic itself.
func (a *Adapter) fail(ctx context.Context, res Response, failure any) {
	message := utils.ErrorMessage(failure)
	utils.ErrorCtx(ctx, constants.LogHandlerError, "error", failure)
	defer func() {
		if p := recover(); p != nil {
			utils.ErrorCtx(ctx, "failed to write error response", "panic", p)
		}
	}()
	err := res.Status(http.StatusInternalServerError).JSON(utils.ErrorEnvelope{
		Error:   constants.ResponseInternalServerError,
		Message: message,
	})
	if err != nil {
		utils.ErrorCtx(ctx, "failed to write error response", "error", err)
	}
}

// ServeHTTP lets the adapter sit behind any net/http host, such as the Vercel
// Go runtime or the Lambda API Gateway proxy.
func (a *Adapter) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	req, err := RequestFromHTTP(r)
	if err != nil {
		a.fail(r.Context(), res, err)
		return
	}
	a.Handle(r.Context(), req, res)
}
