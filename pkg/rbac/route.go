package rbac

import (
	"net/http"
	"strings"
)

// Service keys used by the gateway to resolve an upstream.
const (
	TargetAuth          = "auth"
	TargetEvent         = "event"
	TargetReward        = "reward"
	TargetRewardRequest = "reward-request"
	TargetInventory     = "inventory"
)

// Route is one entry of the access table. Path uses gin's pattern syntax
// and must match what gin reports as FullPath.
type Route struct {
	Method string
	Path   string
	Roles  []Role
	Public bool
	Target string
}

type Table struct {
	routes []Route
	index  map[string]int
}

func NewTable(routes ...Route) *Table {
	t := &Table{index: make(map[string]int, len(routes))}
	for _, r := range routes {
		r.Method = strings.ToUpper(r.Method)
		if r.Target == "" {
			r.Target = TargetFor(r.Path)
		}
		key := r.Method + " " + r.Path
		if i, ok := t.index[key]; ok {
			t.routes[i] = r
			continue
		}
		t.index[key] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t
}

func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Lookup returns the entry for method and pattern. A missing entry means the
// route requires authentication and no particular role.
func (t *Table) Lookup(method, path string) (Route, bool) {
	i, ok := t.index[strings.ToUpper(method)+" "+path]
	if !ok {
		return Route{Method: method, Path: path, Target: TargetFor(path)}, false
	}
	return t.routes[i], true
}

// TargetFor derives the owning service key from a route pattern.
func TargetFor(path string) string {
	p := strings.TrimPrefix(path, "/")
	p = strings.TrimPrefix(p, "admin/")
	switch {
	case strings.HasPrefix(p, "auth"):
		return TargetAuth
	case strings.HasPrefix(p, "events") && strings.Contains(p, "/rewards"):
		return TargetReward
	case strings.HasPrefix(p, "events"):
		return TargetEvent
	case strings.HasPrefix(p, "reward-requests"):
		return TargetRewardRequest
	case strings.HasPrefix(p, "inventory"):
		return TargetInventory
	default:
		return ""
	}
}

var (
	anyRole   = []Role{RoleUser, RoleOperator, RoleAuditor, RoleAdmin}
	writers   = []Role{RoleOperator, RoleAdmin}
	oversight = []Role{RoleAdmin, RoleOperator, RoleAuditor}
)

// Default is the built-in access table shared by the gateway and services.
func Default() *Table {
	return NewTable(
		Route{Method: http.MethodPost, Path: "/auth/register", Public: true},
		Route{Method: http.MethodPost, Path: "/auth/login", Public: true},
		Route{Method: http.MethodGet, Path: "/auth/profile"},
		Route{Method: http.MethodGet, Path: "/auth/users", Roles: []Role{RoleAdmin}},
		Route{Method: http.MethodPatch, Path: "/auth/users/:id/roles", Roles: []Role{RoleAdmin}},

		Route{Method: http.MethodPost, Path: "/events", Roles: writers},
		Route{Method: http.MethodGet, Path: "/events", Roles: anyRole},
		Route{Method: http.MethodGet, Path: "/events/:eventId", Roles: anyRole},
		Route{Method: http.MethodPatch, Path: "/events/:eventId", Roles: writers},
		Route{Method: http.MethodDelete, Path: "/events/:eventId", Roles: writers},

		Route{Method: http.MethodPost, Path: "/events/:eventId/rewards", Roles: writers},
		Route{Method: http.MethodGet, Path: "/events/:eventId/rewards", Roles: anyRole},
		Route{Method: http.MethodGet, Path: "/events/:eventId/rewards/:id", Roles: anyRole},
		Route{Method: http.MethodPatch, Path: "/events/:eventId/rewards/:id", Roles: writers},
		Route{Method: http.MethodDelete, Path: "/events/:eventId/rewards/:id", Roles: writers},

		Route{Method: http.MethodPost, Path: "/reward-requests", Roles: []Role{RoleUser}},
		Route{Method: http.MethodGet, Path: "/reward-requests", Roles: anyRole},
		Route{Method: http.MethodGet, Path: "/admin/reward-requests", Roles: oversight},
		Route{Method: http.MethodPatch, Path: "/reward-requests/:id/status", Roles: writers},

		Route{Method: http.MethodPost, Path: "/inventory", Roles: writers},
		Route{Method: http.MethodGet, Path: "/inventory", Roles: anyRole},
		Route{Method: http.MethodGet, Path: "/inventory/:userId", Roles: oversight},
	)
}
