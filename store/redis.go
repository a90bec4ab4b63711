package store

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rushteam/mangarec/core"
)

// RedisRatingStore 是 Redis 实现的评分存储，多实例部署时共享评分数据。
// 数据布局：
//   - hash  ratings:u:{user_id}  field=item_id value=rating
//   - set   ratings:users        全部有过评分的 user_id
type RedisRatingStore struct {
	client *redis.Client
}

const (
	redisUserKeyPrefix = "ratings:u:"
	redisUsersSetKey   = "ratings:users"
)

func NewRedisRatingStore(addr string, db int) (*RedisRatingStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &RedisRatingStore{client: client}, nil
}

func (r *RedisRatingStore) Name() string { return "redis" }

func (r *RedisRatingStore) LoadRatings(ctx context.Context) (core.Ratings, error) {
	userIDs, err := r.client.SMembers(ctx, redisUsersSetKey).Result()
	if err != nil {
		return nil, err
	}

	ratings := make(core.Ratings, 0, len(userIDs)*8)
	for _, uid := range userIDs {
		userID, err := strconv.ParseInt(uid, 10, 64)
		if err != nil {
			continue
		}
		fields, err := r.client.HGetAll(ctx, redisUserKeyPrefix+uid).Result()
		if err != nil {
			return nil, err
		}
		for itemField, scoreVal := range fields {
			itemID, err1 := strconv.ParseInt(itemField, 10, 64)
			score, err2 := strconv.Atoi(scoreVal)
			if err1 != nil || err2 != nil {
				continue
			}
			ratings = append(ratings, core.Rating{UserID: userID, ItemID: itemID, Score: score})
		}
	}
	return ratings, nil
}

// SaveRating 写入评分。HSET 天然是 (user, item) 上的 last-write-wins。
func (r *RedisRatingStore) SaveRating(ctx context.Context, rating core.Rating) error {
	uid := strconv.FormatInt(rating.UserID, 10)
	pipe := r.client.Pipeline()
	pipe.HSet(ctx, redisUserKeyPrefix+uid, strconv.FormatInt(rating.ItemID, 10), rating.Score)
	pipe.SAdd(ctx, redisUsersSetKey, uid)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisRatingStore) Close() error {
	return r.client.Close()
}

var _ core.RatingStore = (*RedisRatingStore)(nil)
