package middleware

import (
	"context"

	"reward-platform/pkg/errutil"
	"reward-platform/pkg/rbac"
	"reward-platform/pkg/token"

	"github.com/gin-gonic/gin"
)

const principalKey = "rbac.principal"

var (
	errUnauthorized = errutil.Unauthorized("Unauthorized", nil)
	errInternal     = errutil.Internal("Internal server error", nil)
)

// Verifier turns a raw bearer credential into a principal.
type Verifier interface {
	Verify(raw string) (rbac.Principal, error)
}

// SubjectValidator lets an owning service reject credentials whose subject
// no longer exists.
type SubjectValidator func(ctx context.Context, subject string) error

type gateOptions struct {
	validator SubjectValidator
}

type GateOption func(*gateOptions)

func WithSubjectValidator(v SubjectValidator) GateOption {
	return func(o *gateOptions) { o.validator = v }
}

// Gatekeeper authenticates and then authorizes every request against the
// route table entry for the matched pattern. The first failing stage ends
// the request.
func Gatekeeper(table *rbac.Table, verifier Verifier, opts ...GateOption) gin.HandlerFunc {
	o := gateOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	return func(c *gin.Context) {
		if c.FullPath() == "" {
			c.Next()
			return
		}

		route, _ := table.Lookup(c.Request.Method, c.FullPath())
		if route.Public {
			c.Next()
			return
		}

		principal, err := authenticate(c, verifier, o.validator)
		if err != nil {
			c.Error(err)
			c.Abort()
			return
		}
		c.Set(principalKey, principal)

		if err := rbac.Authorize(principal, route.Roles); err != nil {
			c.Error(err)
			c.Abort()
			return
		}

		c.Next()
	}
}

func authenticate(c *gin.Context, verifier Verifier, validator SubjectValidator) (rbac.Principal, error) {
	raw, ok := token.FromHeader(c.GetHeader("Authorization"))
	if !ok {
		return rbac.Principal{}, errUnauthorized
	}

	principal, err := verifier.Verify(raw)
	if err != nil {
		return rbac.Principal{}, err
	}

	if validator != nil {
		if err := validator(c.Request.Context(), principal.Subject); err != nil {
			if errutil.Is(err, errutil.StatusNotFound) {
				return rbac.Principal{}, errUnauthorized
			}
			return rbac.Principal{}, err
		}
	}

	return principal, nil
}

// PrincipalFrom returns the caller stored by Gatekeeper.
func PrincipalFrom(c *gin.Context) (rbac.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return rbac.Principal{}, false
	}
	p, ok := v.(rbac.Principal)
	return p, ok
}

// MustPrincipal is PrincipalFrom for handlers mounted behind Gatekeeper.
func MustPrincipal(c *gin.Context) (rbac.Principal, error) {
	p, ok := PrincipalFrom(c)
	if !ok {
		return rbac.Principal{}, errUnauthorized
	}
	return p, nil
}
