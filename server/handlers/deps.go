package handlers

import "github.com/luno/netsim/server/ops"

type Deps interface {
	Sessions() *ops.Sessions
}
