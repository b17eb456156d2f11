package attendance

import (
	"context"

	"github.com/trezcool/eduscan/core"
)

// Recorder persists classified scans.
type Recorder struct {
	repo  Repository
	clock core.Clock
}

func NewRecorder(repo Repository, clock core.Clock) *Recorder {
	return &Recorder{repo: repo, clock: clock}
}

// Record inserts a new record. It returns ErrConflict when the student already
// has a record for that date and direction.
func (r *Recorder) Record(ctx context.Context, nr NewRecord) (Record, error) {
	if !nr.Direction.IsValid() {
		return Record{}, core.NewValidationError(ErrInvalidDirection,
			core.FieldError{Field: "direction", Error: ErrInvalidDirection.Error()})
	}
	if nr.Status.IsZero() {
		return Record{}, ErrInvalidStatus
	}
	return r.repo.CreateRecord(ctx, Record{
		StudentID: nr.StudentID,
		Date:      core.DateOf(nr.Date),
		Direction: nr.Direction,
		ScanTime:  nr.ScanTime,
		Status:    nr.Status,
		Notes:     nr.Notes,
		CreatedAt: r.clock.Now(),
	})
}
