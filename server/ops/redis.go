package ops

import (
	"context"
	"flag"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/netsim/api"
	"github.com/luno/netsim/server/db"
)

var redisAddr = flag.String("redis", "", "Address to connect to the redis server, saved networks are kept in memory when empty")
var redisUser = flag.String("redis_user", "", "User for authentication to the redis server, requires password")
var redisPassword = flag.String("redis_password", "", "Password for authentication to the redis server")

func NewRedisPool(ctx context.Context) (*redis.Pool, error) {
	if *redisAddr == "" {
		return nil, errors.New("redis not configured")
	}

	log.Info(ctx, "redis database configured", j.KV("address", *redisAddr))

	do := []redis.DialOption{
		redis.DialReadTimeout(5 * time.Second),
		redis.DialWriteTimeout(5 * time.Second),
	}
	if *redisUser != "" || *redisPassword != "" {
		if *redisUser == "" || *redisPassword == "" {
			return nil, errors.New("redis username/password misconfiguration")
		}
		do = append(do,
			redis.DialUsername(*redisUser),
			redis.DialPassword(*redisPassword),
		)
	}

	pool := &redis.Pool{
		DialContext: func(ctx context.Context) (redis.Conn, error) {
			return redis.DialURLContext(ctx, *redisAddr, do...)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
		MaxIdle:     3,
		MaxActive:   10,
		IdleTimeout: time.Minute,
		Wait:        true,
	}

	conn, err := pool.GetContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "connect to redis")
	}
	defer conn.Close()
	_, err = redis.DoContext(conn, ctx, "PING")
	if err != nil {
		return nil, errors.Wrap(err, "ping redis")
	}
	return pool, nil
}

type RedisNetworkStore struct {
	pool *redis.Pool
	now  func() time.Time
}

func NewRedisNetworkStore(pool *redis.Pool) *RedisNetworkStore {
	return &RedisNetworkStore{pool: pool, now: time.Now}
}

func (r *RedisNetworkStore) withConn(ctx context.Context, f func(redis.Conn) error) error {
	conn, err := r.pool.GetContext(ctx)
	if err != nil {
		return errors.Wrap(err, "redis connection")
	}
	defer conn.Close()
	return f(conn)
}

func (r *RedisNetworkStore) SaveNetwork(ctx context.Context, session string, n api.SavedNetwork) error {
	return r.withConn(ctx, func(conn redis.Conn) error {
		return db.StoreNetwork(ctx, conn, session, n, r.now())
	})
}

func (r *RedisNetworkStore) ListNetworks(ctx context.Context, session string) ([]api.SavedNetwork, error) {
	var ret []api.SavedNetwork
	err := r.withConn(ctx, func(conn redis.Conn) error {
		var err error
		ret, err = db.ListNetworks(ctx, conn, session)
		return err
	})
	return ret, err
}

func (r *RedisNetworkStore) GetNetwork(ctx context.Context, session, id string) (api.SavedNetwork, error) {
	var ret api.SavedNetwork
	err := r.withConn(ctx, func(conn redis.Conn) error {
		var err error
		ret, err = db.GetNetwork(ctx, conn, session, id)
		return err
	})
	return ret, err
}

func (r *RedisNetworkStore) DeleteNetwork(ctx context.Context, session, id string) error {
	return r.withConn(ctx, func(conn redis.Conn) error {
		return db.DeleteNetwork(ctx, conn, session, id)
	})
}

func (r *RedisNetworkStore) DeleteSession(ctx context.Context, session string) error {
	return r.withConn(ctx, func(conn redis.Conn) error {
		return db.DeleteSession(ctx, conn, session)
	})
}

var _ NetworkStore = (*RedisNetworkStore)(nil)
