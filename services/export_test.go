package services

import "time"

// SetClock replaces the time source used for file names and timestamps.
func (e *Exporter) SetClock(now func() time.Time) {
	e.now = now
}
