package rediskey

import "fmt"

const (
	RewardRequestClaimPrefix = "reward-request:claim"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildRewardRequestClaimKey returns "reward-request:claim:{userID}:{eventID}"
func BuildRewardRequestClaimKey(userID, eventID string) string {
	return NamespaceKey(RewardRequestClaimPrefix, fmt.Sprintf("%s:%s", userID, eventID))
}
