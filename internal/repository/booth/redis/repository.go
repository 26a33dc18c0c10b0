package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Keyspace is a stable contract with other services reading the booth.
const (
	historyIDKey = "booth:historyID"
	currentDJKey = "booth:currentDJ"
	upvotesKey   = "booth:upvotes"
	downvotesKey = "booth:downvotes"
	favoritesKey = "booth:favorites"
	waitlistKey  = "waitlist"
	advancingKey = "booth:advancing"
)

type repo struct {
	rc     *redis.Client
	logger *slog.Logger

	extendLockScript     string
	releaseLockScript    string
	commitAdvanceScript  string
	clearStateScript     string
	pushWaitlistScript   string
	rotateWaitlistScript string
}

func NewRepo(rc *redis.Client, logger *slog.Logger) *repo {
	ctx := context.Background()

	return &repo{
		rc:     rc,
		logger: logger,
		extendLockScript: rc.ScriptLoad(ctx, `
			if redis.call('GET', KEYS[1]) == ARGV[1] then
				redis.call('PEXPIRE', KEYS[1], ARGV[2])
				return 1
			end
			return 0
		`).Val(),
		releaseLockScript: rc.ScriptLoad(ctx, `
			if redis.call('GET', KEYS[1]) == ARGV[1] then
				redis.call('DEL', KEYS[1])
				return 1
			end
			return 0
		`).Val(),
		commitAdvanceScript: rc.ScriptLoad(ctx, `
			if redis.call('GET', KEYS[1]) ~= ARGV[1] then
				return 0
			end
			redis.call('DEL', KEYS[4], KEYS[5], KEYS[6])
			redis.call('SET', KEYS[2], ARGV[2])
			redis.call('SET', KEYS[3], ARGV[3])
			return 1
		`).Val(),
		clearStateScript: rc.ScriptLoad(ctx, `
			if redis.call('GET', KEYS[1]) ~= ARGV[1] then
				return 0
			end
			redis.call('DEL', KEYS[2], KEYS[3], KEYS[4], KEYS[5], KEYS[6])
			return 1
		`).Val(),
		pushWaitlistScript: rc.ScriptLoad(ctx, `
			local ids = redis.call('LRANGE', KEYS[1], 0, -1)
			for _, id in ipairs(ids) do
				if id == ARGV[1] then
					return -1
				end
			end
			return redis.call('RPUSH', KEYS[1], ARGV[1])
		`).Val(),
		rotateWaitlistScript: rc.ScriptLoad(ctx, `
			if redis.call('GET', KEYS[1]) ~= ARGV[1] then
				return -1
			end
			local len = redis.call('LLEN', KEYS[2])
			if len > 0 then
				redis.call('LPOP', KEYS[2])
				if ARGV[2] ~= '' and ARGV[3] == '1' then
					redis.call('RPUSH', KEYS[2], ARGV[2])
				end
			end
			return redis.call('LLEN', KEYS[2])
		`).Val(),
	}
}
