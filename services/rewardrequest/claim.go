package rewardrequest

import (
	"context"
	"time"

	"reward-platform/pkg/rediskey"

	"github.com/bwmarrin/snowflake"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const claimTTL = 10 * time.Second

// releaseScript deletes the claim only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Claimer serializes request creation for one (user, event) pair across
// instances. ok is false when another creation holds the pair.
type Claimer interface {
	Claim(ctx context.Context, userID, eventID string) (release func(), ok bool, err error)
}

type redisClaimer struct {
	rdb  *redis.Client
	node *snowflake.Node
	ttl  time.Duration
}

func NewRedisClaimer(rdb *redis.Client, node *snowflake.Node) Claimer {
	return &redisClaimer{rdb: rdb, node: node, ttl: claimTTL}
}

func (c *redisClaimer) Claim(ctx context.Context, userID, eventID string) (func(), bool, error) {
	key := rediskey.BuildRewardRequestClaimKey(userID, eventID)
	tok := c.node.Generate().String()

	ok, err := c.rdb.SetNX(ctx, key, tok, c.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// The caller's context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(ctx, c.rdb, []string{key}, tok).Err(); err != nil {
			zap.L().Warn("failed to release reward request claim", zap.String("key", key), zap.Error(err))
		}
	}
	return release, true, nil
}
