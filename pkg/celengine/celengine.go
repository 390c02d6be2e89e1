package celengine

import (
	"fmt"
	"strings"
	"sync"

	"reward-platform/pkg/errutil"

	"github.com/google/cel-go/cel"
)

// TypeCEL marks a condition whose "expression" is a CEL program over the
// request details.
const TypeCEL = "CEL"

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

// conditionEnv declares the variables a condition expression may read:
// details is the free-form map a user attaches to a reward request, user
// is the requesting subject id.
func conditionEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("details", cel.MapType(cel.StringType, cel.DynType)),
			cel.Variable("user", cel.StringType),
		)
	})
	return env, envErr
}

// Compile type-checks expr and requires it to yield a bool.
func Compile(expr string) error {
	e, err := conditionEnv()
	if err != nil {
		return err
	}

	ast, issues := e.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return issues.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return fmt.Errorf("expression yields %s, want bool", ast.OutputType())
	}
	return nil
}

// ValidateCondition checks the expression of CEL conditions. Conditions of
// any other type are left to whoever evaluates them.
func ValidateCondition(cond map[string]any) error {
	t, _ := cond["type"].(string)
	if !strings.EqualFold(strings.TrimSpace(t), TypeCEL) {
		return nil
	}

	expr, _ := cond["expression"].(string)
	if strings.TrimSpace(expr) == "" {
		return errutil.BadRequest("condition.expression is required for CEL conditions", nil)
	}
	if err := Compile(expr); err != nil {
		return errutil.BadRequest("condition.expression is invalid", err,
			errutil.WithDetails(errutil.Detail{Field: "condition.expression", Message: err.Error()}))
	}
	return nil
}
