package attendance

import (
	"testing"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/schedule"
)

func TestClassify(t *testing.T) {
	sched := &schedule.Schedule{
		ClassName:            "7A",
		EntryTime:            core.NewTimeOfDay(7, 30, 0),
		ExitTime:             core.NewTimeOfDay(14, 0, 0),
		LateThresholdMinutes: 15,
		IsActive:             true,
	}
	noGrace := &schedule.Schedule{EntryTime: core.NewTimeOfDay(7, 0, 0), IsActive: true}

	tests := []struct {
		name  string
		dir   Direction
		at    core.TimeOfDay
		sched *schedule.Schedule
		want  ScanStatus
	}{
		{name: "early", dir: DirectionEntry, at: core.NewTimeOfDay(6, 50, 0), sched: sched, want: StatusPresent},
		{name: "at entry time", dir: DirectionEntry, at: core.NewTimeOfDay(7, 30, 0), sched: sched, want: StatusPresent},
		{name: "at threshold", dir: DirectionEntry, at: core.NewTimeOfDay(7, 45, 0), sched: sched, want: StatusPresent},
		{name: "one second late", dir: DirectionEntry, at: core.NewTimeOfDay(7, 45, 1), sched: sched, want: StatusLate},
		{name: "afternoon", dir: DirectionEntry, at: core.NewTimeOfDay(13, 0, 0), sched: sched, want: StatusLate},
		{name: "zero threshold", dir: DirectionEntry, at: core.NewTimeOfDay(7, 0, 1), sched: noGrace, want: StatusLate},
		{name: "no schedule", dir: DirectionEntry, at: core.NewTimeOfDay(11, 0, 0), want: StatusPresent},
		{name: "exit after threshold", dir: DirectionExit, at: core.NewTimeOfDay(23, 0, 0), sched: sched, want: StatusPresent},
		{name: "exit before entry time", dir: DirectionExit, at: core.NewTimeOfDay(6, 0, 0), sched: sched, want: StatusPresent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.dir, tt.at, tt.sched); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseScanStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ScanStatus
		wantErr bool
	}{
		{in: "present", want: StatusPresent},
		{in: "late", want: StatusLate},
		{in: "absent", wantErr: true}, // never stored
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseScanStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseScanStatus() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseScanStatus() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := (ScanStatus{}).Value(); err != ErrInvalidStatus {
		t.Errorf("Value() of the zero status error = %v, want %v", err, ErrInvalidStatus)
	}
}
