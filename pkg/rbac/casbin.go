package rbac

import (
	"fmt"
	"slices"

	"reward-platform/pkg/config"

	"github.com/casbin/casbin/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("rbac",
	fx.Provide(ProvideTable),
)

// PublicSubject marks a policy row whose route skips authentication.
const PublicSubject = "*"

// ProvideTable returns the casbin-backed table when ACCESS_CONTROL is set and
// the built-in table otherwise.
func ProvideTable(cfg *config.Config) (*Table, error) {
	ac := cfg.AccessControl
	if ac.Model == "" || ac.Policy == "" {
		return Default(), nil
	}

	t, err := LoadPolicy(ac.Model, ac.Policy)
	if err != nil {
		zap.L().Error("failed to load access policy", zap.String("model", ac.Model), zap.String("policy", ac.Policy), zap.Error(err))
		return nil, err
	}

	zap.L().Info("access policy loaded", zap.Int("routes", len(t.routes)))
	return t, nil
}

// LoadPolicy builds a table from a casbin model and a CSV policy whose rows
// are "p, <ROLE|*>, <METHOD>, <route pattern>".
func LoadPolicy(modelPath, policyPath string) (*Table, error) {
	e, err := casbin.NewEnforcer(modelPath, policyPath)
	if err != nil {
		return nil, err
	}

	rules, err := e.GetPolicy()
	if err != nil {
		return nil, err
	}

	type entry struct {
		route Route
		order int
	}
	byKey := make(map[string]*entry)
	for i, rule := range rules {
		if len(rule) < 3 {
			return nil, fmt.Errorf("policy rule %d: expected subject, method and path", i+1)
		}
		sub, method, path := rule[0], rule[1], rule[2]

		key := method + " " + path
		en, ok := byKey[key]
		if !ok {
			en = &entry{route: Route{Method: method, Path: path}, order: i}
			byKey[key] = en
		}

		if sub == PublicSubject {
			en.route.Public = true
			continue
		}
		role, ok := ParseRole(sub)
		if !ok {
			return nil, fmt.Errorf("policy rule %d: unknown role %q", i+1, sub)
		}
		if !slices.Contains(en.route.Roles, role) {
			en.route.Roles = append(en.route.Roles, role)
		}
	}

	entries := make([]*entry, 0, len(byKey))
	for _, en := range byKey {
		entries = append(entries, en)
	}
	slices.SortFunc(entries, func(a, b *entry) int { return a.order - b.order })

	routes := make([]Route, 0, len(entries))
	for _, en := range entries {
		routes = append(routes, en.route)
	}
	return NewTable(routes...), nil
}
