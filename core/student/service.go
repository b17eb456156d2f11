package student

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/eduscan/core"
)

var (
	// errors
	ErrNotFound      = errors.New("student not found")
	ErrNISNExists    = errors.New("this NISN is already registered")
	ErrBarcodeExists = errors.New("this barcode is already assigned")
)

type (
	Repository interface {
		// CheckNISNUniqueness returns ErrNISNExists if another student than the excluded ones has nisn.
		CheckNISNUniqueness(ctx context.Context, nisn string, excludedIDs ...int64) error
		// CreateStudent returns ErrNISNExists or ErrBarcodeExists on unique violations.
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudent(ctx context.Context, id int64) (Student, error)
		GetStudentByBarcode(ctx context.Context, barcode string) (Student, error)
		GetStudentsByID(ctx context.Context, ids ...int64) ([]Student, error)
		// QueryStudents applies AND on the set filter fields, ordered by class then name.
		// Search is a case-insensitive match on Name or NISN. A nil page returns every match.
		QueryStudents(ctx context.Context, filter *QueryFilter, page *core.Page) ([]Student, error)
		CountStudents(ctx context.Context, filter *QueryFilter) (int, error)
		// QueryClasses returns the distinct class labels, sorted.
		QueryClasses(ctx context.Context) ([]string, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		// DeleteStudent also deletes the student's attendance records.
		DeleteStudent(ctx context.Context, id int64) error
	}

	Service struct {
		repo     Repository
		clock    core.Clock
		validate *validator.Validate
	}
)

func NewService(repo Repository, clock core.Clock, validate *validator.Validate) *Service {
	return &Service{repo: repo, clock: clock, validate: validate}
}

// trapUniqueErr turns uniqueness errors into field validation errors.
func trapUniqueErr(err error) error {
	switch {
	case errors.Is(err, ErrNISNExists):
		return core.NewValidationError(err, core.FieldError{Field: "nisn", Error: err.Error()})
	case errors.Is(err, ErrBarcodeExists):
		return core.NewValidationError(err, core.FieldError{Field: "barcode", Error: err.Error()})
	}
	return err
}

func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Student{}, err
	}
	if err := svc.repo.CheckNISNUniqueness(ctx, ns.NISN); err != nil {
		return Student{}, trapUniqueErr(err)
	}

	barcode := ns.Barcode
	if barcode == "" {
		barcode = BarcodeFor(ns.NISN)
	}

	now := svc.clock.Now()
	std, err := svc.repo.CreateStudent(ctx, Student{
		NISN:            ns.NISN,
		Name:            ns.Name,
		Class:           ns.Class,
		Gender:          ns.Gender,
		GuardianContact: ns.GuardianContact,
		Barcode:         barcode,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return Student{}, trapUniqueErr(err)
	}
	return std, nil
}

func (svc *Service) Get(ctx context.Context, id int64) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

// GetActiveByBarcode returns ErrNotFound for unknown barcodes and inactive students alike.
func (svc *Service) GetActiveByBarcode(ctx context.Context, barcode string) (Student, error) {
	barcode = core.CleanString(barcode)
	if barcode == "" {
		return Student{}, ErrNotFound
	}
	std, err := svc.repo.GetStudentByBarcode(ctx, barcode)
	if err != nil {
		return Student{}, err
	}
	if !std.IsActive {
		return Student{}, ErrNotFound
	}
	return std, nil
}

func (svc *Service) Roster(ctx context.Context, filter QueryFilter, page core.Page) (Roster, error) {
	filter.Clean()
	page.Clean()

	total, err := svc.repo.CountStudents(ctx, &filter)
	if err != nil {
		return Roster{}, err
	}
	students, err := svc.repo.QueryStudents(ctx, &filter, &page)
	if err != nil {
		return Roster{}, err
	}
	classes, err := svc.repo.QueryClasses(ctx)
	if err != nil {
		return Roster{}, err
	}
	return Roster{Students: students, Page: core.NewPageInfo(page, total), Classes: classes}, nil
}

// ActiveInClass returns the active students of a class, ordered by name.
func (svc *Service) ActiveInClass(ctx context.Context, class string) ([]Student, error) {
	active := true
	return svc.repo.QueryStudents(ctx, &QueryFilter{Class: core.CleanString(class), IsActive: &active}, nil)
}

func (svc *Service) Update(ctx context.Context, id int64, us UpdateStudent) (Student, error) {
	std, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if err = us.Validate(std, svc.validate); err != nil {
		return Student{}, err
	}
	if us.NISN != std.NISN {
		if err = svc.repo.CheckNISNUniqueness(ctx, us.NISN, std.ID); err != nil {
			return Student{}, trapUniqueErr(err)
		}
	}

	std.NISN = us.NISN
	std.Name = us.Name
	std.Class = us.Class
	std.Gender = us.Gender
	std.GuardianContact = *us.GuardianContact
	std.IsActive = *us.IsActive
	std.UpdatedAt = svc.clock.Now()

	std, err = svc.repo.UpdateStudent(ctx, std)
	if err != nil {
		return Student{}, trapUniqueErr(err)
	}
	return std, nil
}

// Deactivate hides the student from scans and from the active total. Records are kept.
func (svc *Service) Deactivate(ctx context.Context, id int64) (Student, error) {
	std, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Student{}, err
	}
	if !std.IsActive {
		return std, nil
	}
	std.IsActive = false
	std.UpdatedAt = svc.clock.Now()
	return svc.repo.UpdateStudent(ctx, std)
}

func (svc *Service) DeactivateByBarcode(ctx context.Context, barcode string) (Student, error) {
	std, err := svc.repo.GetStudentByBarcode(ctx, core.CleanString(barcode))
	if err != nil {
		return Student{}, err
	}
	return svc.Deactivate(ctx, std.ID)
}

func (svc *Service) Delete(ctx context.Context, id int64) error {
	if _, err := svc.repo.GetStudent(ctx, id); err != nil {
		return err
	}
	return svc.repo.DeleteStudent(ctx, id)
}

// CountActive returns the number of active students.
func (svc *Service) CountActive(ctx context.Context) (int, error) {
	active := true
	return svc.repo.CountStudents(ctx, &QueryFilter{IsActive: &active})
}

// GetMany returns the students with the given IDs, active or not. Unknown IDs are skipped.
func (svc *Service) GetMany(ctx context.Context, ids ...int64) ([]Student, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return svc.repo.GetStudentsByID(ctx, ids...)
}
