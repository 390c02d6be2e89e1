package gateway

import (
	"context"
	"fmt"
	"net/http"

	"reward-platform/pkg/health"
)

type upstreamChecker struct {
	name   string
	url    string
	client *http.Client
}

func (u upstreamChecker) Name() string {
	return "upstream:" + u.name
}

func (u upstreamChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.url, nil)
	if err != nil {
		return err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s answered %d", u.url, resp.StatusCode)
	}
	return nil
}

// UpstreamCheckers probes /healthz on every distinct upstream.
func UpstreamCheckers(f *Forwarder) []health.Checker {
	var out []health.Checker
	for name, base := range f.Upstreams() {
		probe := *base
		probe.Path = base.Path + "/healthz"
		probe.RawQuery = ""
		out = append(out, upstreamChecker{name: name, url: probe.String(), client: f.client})
	}
	return out
}
