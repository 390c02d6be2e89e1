package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reward-platform/pkg/config"
)

func TestNewNodeGeneratesValidIDs(t *testing.T) {
	cfg := &config.Config{}
	cfg.Snowflake.NodeID = 7

	node, err := NewNode(cfg)
	require.NoError(t, err)

	id := node.Generate().String()
	require.True(t, ValidID(id))
}

func TestNewNodeRejectsOutOfRange(t *testing.T) {
	cfg := &config.Config{}
	cfg.Snowflake.NodeID = 5000

	_, err := NewNode(cfg)
	require.Error(t, err)
}

func TestValidID(t *testing.T) {
	for _, s := range []string{"", " ", "abc", "0", "-12", "12x", "1.5"} {
		require.False(t, ValidID(s), s)
	}
	require.True(t, ValidID("1894650412312068096"))
}
