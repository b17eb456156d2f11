package attendance

import (
	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/schedule"
)

// Classify derives the status of a scan. Exit scans and entry scans of classes without
// a schedule are always present. An entry scan strictly after entry time + threshold is late.
func Classify(dir Direction, scanTime core.TimeOfDay, sched *schedule.Schedule) ScanStatus {
	if dir != DirectionEntry || sched == nil {
		return StatusPresent
	}
	if scanTime > sched.LateAfter() {
		return StatusLate
	}
	return StatusPresent
}
