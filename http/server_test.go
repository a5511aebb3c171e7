package http

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taobot/taobot/config"
	"github.com/taobot/taobot/testutil"
)

func startServe(t *testing.T, a *Adapter) (string, context.CancelFunc, <-chan error) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, ln, a) }()
	return "http://" + ln.Addr().String(), cancel, done
}

func waitStopped(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop")
		return nil
	}
}

func TestServe(t *testing.T) {
	out := testutil.CaptureOutput(t)
	base, cancel, done := startServe(t, NewAdapter(ApplicationFactory(config.Default())))

	resp, err := http.Get(base + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"healthy"}`, string(body))

	resp, err = http.Get(base + "/")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "Tao Bot API", string(body))

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), "taobot_http_requests_total")
	port := strings.TrimPrefix(base, "http://127.0.0.1:")
	assert.Contains(t, out.String(), "Server running on port "+port)

	cancel()
	assert.NoError(t, waitStopped(t, done))
}

func TestServe_AdapterFallback(t *testing.T) {
	app := &fakeApp{result: &InjectResponse{StatusCode: http.StatusAccepted, Headers: http.Header{}, Payload: []byte("via adapter")}}
	base, cancel, done := startServe(t, NewAdapter(func(context.Context) (Injector, error) { return app, nil }))

	resp, err := http.Post(base+"/anything", "text/plain", strings.NewReader("hi"))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "via adapter", string(body))
	assert.Equal(t, []byte("hi"), app.lastRequest().Payload)

	cancel()
	assert.NoError(t, waitStopped(t, done))
}

func TestServe_FactoryError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	a := NewAdapter(func(context.Context) (Injector, error) { return nil, errors.New("no config") })

	err = Serve(context.Background(), ln, a)
	assert.EqualError(t, err, "no config")

	_, err = ln.Accept()
	assert.Error(t, err)
}

func TestStartServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := config.Default()
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = ln.Addr().(*net.TCPAddr).Port

	err = StartServer(context.Background(), NewAdapter(ApplicationFactory(cfg)), cfg)
	assert.ErrorContains(t, err, "listen on 127.0.0.1:"+strconv.Itoa(cfg.HTTP.Port))
}
