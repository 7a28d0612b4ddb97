package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/jettison/log"
	"github.com/luno/netsim/api"
)

var ErrNetworkNotFound = errors.New("saved network not found", j.C("ERR_0e7b4c92d15a3f88"))

// StoreNetwork writes n and indexes it under its session, ordered by ts.
func StoreNetwork(ctx context.Context, conn redis.Conn, session string, n api.SavedNetwork, ts time.Time) error {
	b, err := json.Marshal(n)
	if err != nil {
		return err
	}
	k := NetworkKey{Session: session, ID: n.ID}
	ttl := int(NetworkTTL.Seconds())
	_, err = redis.DoContext(conn, ctx, "SET", k.toRedis(), b, "EX", ttl)
	if err != nil {
		return errors.Wrap(err, "store network")
	}
	_, err = redis.DoContext(conn, ctx, "ZADD", indexKey(session), ts.UnixNano(), n.ID)
	if err != nil {
		return errors.Wrap(err, "index network")
	}
	_, err = redis.DoContext(conn, ctx, "EXPIRE", indexKey(session), ttl)
	return errors.Wrap(err, "")
}

func ListNetworkIDs(ctx context.Context, conn redis.Conn, session string) ([]string, error) {
	ids, err := redis.Strings(redis.DoContext(conn, ctx, "ZRANGE", indexKey(session), 0, -1))
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	return ids, nil
}

func GetNetwork(ctx context.Context, conn redis.Conn, session, id string) (api.SavedNetwork, error) {
	k := NetworkKey{Session: session, ID: id}
	v, err := redis.Bytes(redis.DoContext(conn, ctx, "GET", k.toRedis()))
	if errors.Is(err, redis.ErrNil) {
		return api.SavedNetwork{}, ErrNetworkNotFound
	} else if err != nil {
		return api.SavedNetwork{}, errors.Wrap(err, "")
	}
	var n api.SavedNetwork
	err = json.Unmarshal(v, &n)
	if err != nil {
		return api.SavedNetwork{}, errors.Wrap(err, "decode network", j.KV("id", id))
	}
	return n, nil
}

// ListNetworks loads every indexed network of a session, skipping index
// entries whose value has expired.
func ListNetworks(ctx context.Context, conn redis.Conn, session string) ([]api.SavedNetwork, error) {
	ids, err := ListNetworkIDs(ctx, conn, session)
	if err != nil {
		return nil, err
	}
	ret := make([]api.SavedNetwork, 0, len(ids))
	for _, id := range ids {
		n, err := GetNetwork(ctx, conn, session, id)
		if errors.Is(err, ErrNetworkNotFound) {
			log.Info(ctx, "skipped expired network", j.KV("network", id))
			continue
		} else if err != nil {
			return nil, err
		}
		ret = append(ret, n)
	}
	return ret, nil
}

func DeleteNetwork(ctx context.Context, conn redis.Conn, session, id string) error {
	k := NetworkKey{Session: session, ID: id}
	n, err := redis.Int(redis.DoContext(conn, ctx, "DEL", k.toRedis()))
	if err != nil {
		return errors.Wrap(err, "")
	}
	_, err = redis.DoContext(conn, ctx, "ZREM", indexKey(session), id)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if n == 0 {
		return ErrNetworkNotFound
	}
	return nil
}

func DeleteSession(ctx context.Context, conn redis.Conn, session string) error {
	ids, err := ListNetworkIDs(ctx, conn, session)
	if err != nil {
		return err
	}
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, indexKey(session))
	for _, id := range ids {
		args = append(args, NetworkKey{Session: session, ID: id}.toRedis())
	}
	_, err = redis.DoContext(conn, ctx, "DEL", args...)
	return errors.Wrap(err, "")
}
