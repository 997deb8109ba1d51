package logspy

import "github.com/rs/zerolog"

// Gate decides whether connections should be wrapped for logging at
// all. The facade re-evaluates it on every connect call, so
// implementations must reflect runtime changes, not cache.
type Gate interface {
	Enabled() bool
}

// GateFunc adapts a func to the Gate interface.
type GateFunc func() bool

// Enabled implements Gate.
func (f GateFunc) Enabled() bool { return f() }

// LevelGate enables wrapping while its logger's current level admits
// info events. A logger quieted to warn or above gets raw, unwrapped
// connections with zero overhead; raising verbosity at runtime flips
// the answer on the next connect.
type LevelGate struct {
	Logger zerolog.Logger
}

// Enabled implements Gate.
func (g LevelGate) Enabled() bool {
	return g.Logger.GetLevel() <= zerolog.InfoLevel
}
