package cache

import (
	"fmt"
	"strings"
)

const (
	SettingsKey = "site:settings"
	ContentKey  = "site:content"
	StatsKey    = "admin:stats"
)

func JobKey(id string) string {
	return "jobs:item:" + id
}

func JobListKey(board string, limit, offset int) string {
	return fmt.Sprintf("jobs:list:%s:%d:%d", strings.ToLower(board), limit, offset)
}

func JobListPattern(board string) string {
	if board == "" {
		return "jobs:list:*"
	}
	return "jobs:list:" + strings.ToLower(board) + ":*"
}

func CertificateKey(id string) string {
	return "cert:" + strings.ToUpper(strings.TrimSpace(id))
}

func ChatConversationKey(id string) string {
	return "chat:conv:" + id
}

func RevokedTokenKey(jti string) string {
	return "auth:revoked:" + jti
}

func RateLimitKey(scope, subject string) string {
	return "ratelimit:" + scope + ":" + subject
}

// FillLockKey guards the database load that refills key after a miss.
func FillLockKey(key string) string {
	return key + ":fill"
}
