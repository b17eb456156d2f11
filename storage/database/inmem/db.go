package inmemdb

import (
	"sync"

	"github.com/trezcool/eduscan/core/attendance"
	"github.com/trezcool/eduscan/core/schedule"
	"github.com/trezcool/eduscan/core/setting"
	"github.com/trezcool/eduscan/core/student"
)

type (
	// DB is a mutex-guarded set of tables. A single lock covers every table
	// so student deletion can cascade to attendance records atomically.
	DB struct {
		mutex sync.RWMutex

		students  map[int64]*student.Student
		schedules map[int64]*schedule.Schedule
		records   map[int64]*attendance.Record
		settings  *setting.SchoolSetting

		// UNIQUE(student_id, attendance_date, direction)
		recordIndex map[recordKey]int64

		studentPK, schedulePK, recordPK int64
	}

	recordKey struct {
		studentID int64
		date      string
		direction attendance.Direction
	}
)

func Open() *DB {
	return &DB{
		students:    make(map[int64]*student.Student),
		schedules:   make(map[int64]*schedule.Schedule),
		records:     make(map[int64]*attendance.Record),
		recordIndex: make(map[recordKey]int64),
	}
}

// SetSettings replaces the school settings row.
func (db *DB) SetSettings(s setting.SchoolSetting) {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	s.ID = 1
	db.settings = &s
}
