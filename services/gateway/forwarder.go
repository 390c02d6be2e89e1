package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reward-platform/pkg/config"
	"reward-platform/pkg/errutil"
	"reward-platform/pkg/logger"
	"reward-platform/pkg/rbac"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const defaultTimeout = 5 * time.Second

// dropped headers are recomputed by the outbound client.
var dropped = []string{"Host", "Content-Length"}

// Forwarder relays an admitted request to the service owning its route.
type Forwarder struct {
	client    *http.Client
	upstreams map[string]*url.URL
}

func NewForwarder(cfg *config.Config) (*Forwarder, error) {
	auth, err := parseUpstream("UPSTREAM.AUTH_URL", cfg.Upstream.AuthURL)
	if err != nil {
		return nil, err
	}
	event, err := parseUpstream("UPSTREAM.EVENT_URL", cfg.Upstream.EventURL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Upstream.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Forwarder{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		upstreams: map[string]*url.URL{
			rbac.TargetAuth:          auth,
			rbac.TargetEvent:         event,
			rbac.TargetReward:        event,
			rbac.TargetRewardRequest: event,
			rbac.TargetInventory:     event,
		},
	}, nil
}

func parseUpstream(key, raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%s is required", key)
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%s: invalid url %q", key, raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// Upstreams returns the distinct base URLs keyed by the first target that
// names them.
func (f *Forwarder) Upstreams() map[string]*url.URL {
	out := map[string]*url.URL{}
	seen := map[string]bool{}
	for _, target := range []string{rbac.TargetAuth, rbac.TargetEvent, rbac.TargetReward, rbac.TargetRewardRequest, rbac.TargetInventory} {
		u := f.upstreams[target]
		if u == nil || seen[u.String()] {
			continue
		}
		seen[u.String()] = true
		out[target] = u
	}
	return out
}

// outbound builds the upstream URL for a request on route.
func (f *Forwarder) outbound(route rbac.Route, in *url.URL) (*url.URL, error) {
	base, ok := f.upstreams[route.Target]
	if !ok {
		return nil, fmt.Errorf("no upstream for target %q", route.Target)
	}

	path := in.Path
	if route.Target == rbac.TargetRewardRequest {
		path = strings.TrimPrefix(path, "/admin")
	}

	out := *base
	out.Path = base.Path + path
	out.RawPath = ""
	out.RawQuery = in.RawQuery
	return &out, nil
}

// Handle returns the gin handler relaying requests matched by route.
func (f *Forwarder) Handle(route rbac.Route) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, contentType, body, err := f.forward(c.Request.Context(), route, c.Request)
		if err != nil {
			logger.FromContext(c.Request.Context()).Error("upstream call failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.String("target", route.Target),
				zap.Error(err),
			)
			c.Error(errutil.Internal("Gateway error", err))
			return
		}
		c.Data(status, contentType, body)
	}
}

func (f *Forwarder) forward(ctx context.Context, route rbac.Route, in *http.Request) (int, string, []byte, error) {
	target, err := f.outbound(route, in.URL)
	if err != nil {
		return 0, "", nil, err
	}

	var payload io.Reader = http.NoBody
	if in.Body != nil {
		raw, err := io.ReadAll(in.Body)
		if err != nil {
			return 0, "", nil, err
		}
		if len(raw) > 0 {
			payload = bytes.NewReader(raw)
		}
	}

	req, err := http.NewRequestWithContext(ctx, in.Method, target.String(), payload)
	if err != nil {
		return 0, "", nil, err
	}
	req.Header = in.Header.Clone()
	for _, h := range dropped {
		req.Header.Del(h)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, err
	}
	return resp.StatusCode, resp.Header.Get("Content-Type"), body, nil
}
