package ops

import (
	"github.com/luno/jettison/errors"
	"github.com/luno/jettison/j"
	"github.com/luno/netsim/server/db"
)

var (
	ErrSessionNotFound   = errors.New("session not found", j.C("ERR_5c1f0e9d2b7a4e61"))
	ErrDeviceNotFound    = errors.New("device not found", j.C("ERR_a83d21f6c0e94b57"))
	ErrNetworkNotFound   = db.ErrNetworkNotFound
	ErrScenarioNotFound  = errors.New("scenario not found", j.C("ERR_d2968ab1e47c0f35"))
	ErrInvalidDeviceType = errors.New("invalid device type", j.C("ERR_71f4a0c8be2d9613"))
)
