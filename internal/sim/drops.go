package sim

import "time"

// DropScheduler fires once more than interval of running time has passed
// since the previous drop.
type DropScheduler struct {
	interval time.Duration
	enabled  bool
	since    time.Duration
}

func NewDropScheduler(interval time.Duration, enabled bool) *DropScheduler {
	return &DropScheduler{interval: interval, enabled: enabled}
}

func (d *DropScheduler) Advance(elapsed time.Duration) bool {
	if !d.enabled || d.interval <= 0 {
		return false
	}
	d.since += elapsed
	if d.since > d.interval {
		d.since = 0
		return true
	}
	return false
}

func (d *DropScheduler) Reset()                      { d.since = 0 }
func (d *DropScheduler) Enabled() bool               { return d.enabled }
func (d *DropScheduler) SetEnabled(on bool)          { d.enabled = on }
func (d *DropScheduler) Interval() time.Duration     { return d.interval }
func (d *DropScheduler) SetInterval(i time.Duration) { d.interval = i }
