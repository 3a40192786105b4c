// Package modkit provides module wiring and core deps
package modkit

import (
	"time"

	"csv2xml/internal/platform/config"
)

// Deps holds core dependencies passed to modules
type Deps struct {
	Cfg config.Conf

	// Started is the process start time reported by the meta module
	Started time.Time
}

// Uptime is the time since Started; zero when Started is unset
func (d Deps) Uptime(now time.Time) time.Duration {
	if d.Started.IsZero() || now.Before(d.Started) {
		return 0
	}
	return now.Sub(d.Started)
}
