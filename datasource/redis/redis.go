package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

type RedisClient struct {
	client *goredis.Client
}

var (
	redisInstances = make(map[string]*RedisClient)
)

func RegisterRedisClient(name string, options *goredis.Options) {
	if _, ok := redisInstances[name]; ok {
		return
	}

	client := goredis.NewClient(options)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		fmt.Printf("event=RegisterRedisClient\tname=%s\n", name)
		panic(err)
	}

	redisInstances[name] = &RedisClient{client: client}
}

func GetRedisClient(name string) (*RedisClient, error) {
	if _, ok := redisInstances[name]; !ok {
		return nil, fmt.Errorf("RedisClient not found, name:%s", name)
	}

	return redisInstances[name], nil
}

func (r *RedisClient) GetClient() *goredis.Client {
	return r.client
}
