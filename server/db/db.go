package db

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

const keySeparator = "."

const NetworkTTL = 24 * time.Hour

type NetworkKey struct {
	Session string
	ID      string
}

func (k NetworkKey) toRedis() string {
	return strings.Join([]string{"network", k.Session, k.ID}, keySeparator)
}

func indexKey(session string) string {
	return strings.Join([]string{"networks", session}, keySeparator)
}

// NetworkID derives a saved network id from its owner, name and save time.
func NetworkID(session, name string, ts time.Time) string {
	h := sha1.New()
	_, _ = fmt.Fprintln(h, session, name, ts.UnixNano())
	return fmt.Sprintf("%x", h.Sum(nil))[:16]
}
