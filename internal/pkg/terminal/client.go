// Package terminal defines the contract for pulling raw punches from
// physical time clocks. The concrete protocol client lives outside this
// repo; jobs only depend on this interface.
package terminal

import (
	"context"
	"time"
)

// RawPunch is one clock event as delivered by a terminal.
type RawPunch struct {
	Badge     string
	Timestamp time.Time
}

// Client pulls punches from a fleet of terminals.
type Client interface {
	// FetchPunches returns events recorded since the given time,
	// oldest first.
	FetchPunches(ctx context.Context, since time.Time) ([]RawPunch, error)
}
