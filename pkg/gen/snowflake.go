package gen

import (
	"strings"

	"reward-platform/pkg/config"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("snowflake",
	fx.Provide(NewNode),
)

func NewNode(cfg *config.Config) (*snowflake.Node, error) {
	node, err := snowflake.NewNode(cfg.Snowflake.NodeID)
	if err != nil {
		zap.L().Error("failed to init snowflake node", zap.Int64("node_id", cfg.Snowflake.NodeID), zap.Error(err))
		return nil, err
	}
	return node, nil
}

// ParseID parses a decimal snowflake id. Anything that is not a positive
// integer is rejected.
func ParseID(s string) (snowflake.ID, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	id, err := snowflake.ParseString(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// ValidID reports whether s is a well-formed identifier.
func ValidID(s string) bool {
	_, ok := ParseID(s)
	return ok
}
