package testing

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const redisContainerTag = "6.2"

// RedisContainer is a throwaway redis server started in docker.
type RedisContainer struct {
	Host     string
	Port     string
	resource *dockertest.Resource
}

// StartRedis runs a redis container in the given pool and waits until it
// answers pings.
func StartRedis(ctx context.Context, pool *dockertest.Pool) (*RedisContainer, error) {
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        redisContainerTag,
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, fmt.Errorf("run redis: %w", err)
	}
	if err := resource.Expire(300); err != nil {
		_ = resource.Close()
		return nil, fmt.Errorf("set redis container expiry: %w", err)
	}

	container := &RedisContainer{
		Host:     "localhost",
		Port:     resource.GetPort("6379/tcp"),
		resource: resource,
	}

	pool.MaxWait = 30 * time.Second
	if err := pool.Retry(func() error {
		rdb := container.Client()
		defer rdb.Close()
		return rdb.Ping(ctx).Err()
	}); err != nil {
		_ = resource.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return container, nil
}

func (c *RedisContainer) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c *RedisContainer) Client() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: c.Addr(),
		DB:   0, // use default DB
	})
}

func (c *RedisContainer) Close() error {
	return c.resource.Close()
}
