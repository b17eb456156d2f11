package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/student"
)

const (
	studentColumns = "id, nisn, name, class, gender, guardian_contact, barcode, is_active, created_at, updated_at"

	studentsNISNKey    = "students_nisn_key"
	studentsBarcodeKey = "students_barcode_key"
)

type studentRow struct {
	ID              int64       `db:"id"`
	NISN            string      `db:"nisn"`
	Name            string      `db:"name"`
	Class           string      `db:"class"`
	Gender          string      `db:"gender"`
	GuardianContact null.String `db:"guardian_contact"`
	Barcode         string      `db:"barcode"`
	IsActive        bool        `db:"is_active"`
	CreatedAt       time.Time   `db:"created_at"`
	UpdatedAt       time.Time   `db:"updated_at"`
}

type studentRepository struct {
	db  sqlx.ExtContext
	loc *time.Location
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db sqlx.ExtContext, conf *core.Config) *studentRepository {
	return &studentRepository{db: db, loc: conf.Location()}
}

func (repo studentRepository) unrow(r studentRow) student.Student {
	return student.Student{
		ID:              r.ID,
		NISN:            r.NISN,
		Name:            r.Name,
		Class:           r.Class,
		Gender:          r.Gender,
		GuardianContact: r.GuardianContact.String,
		Barcode:         r.Barcode,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt.In(repo.loc),
		UpdatedAt:       r.UpdatedAt.In(repo.loc),
	}
}

func (repo studentRepository) unrowSlice(rows []studentRow) []student.Student {
	students := make([]student.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, repo.unrow(r))
	}
	return students
}

// trapUniqueErr maps unique violations to the student errors.
func (repo studentRepository) trapUniqueErr(err error, msg string) error {
	if code, constraint := pgError(err); code == uniqueViolation {
		switch constraint {
		case studentsNISNKey:
			return student.ErrNISNExists
		case studentsBarcodeKey:
			return student.ErrBarcodeExists
		}
	}
	return wrapErr(err, msg)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

// likeContains builds a LIKE pattern matching term as a literal substring.
func likeContains(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

func (repo studentRepository) filter(f *student.QueryFilter) *where {
	w := new(where)
	if f == nil {
		return w
	}
	if f.Class != "" {
		w.add("class = ?", f.Class)
	}
	if f.Search != "" {
		val := likeContains(f.Search)
		w.add(`(name ILIKE ? ESCAPE '\' OR nisn ILIKE ? ESCAPE '\')`, val, val)
	}
	if f.IsActive != nil {
		w.add("is_active = ?", *f.IsActive)
	}
	return w
}

func (repo studentRepository) CheckNISNUniqueness(ctx context.Context, nisn string, excludedIDs ...int64) error {
	q, args := "SELECT EXISTS (SELECT 1 FROM students WHERE nisn = ?", []interface{}{nisn}
	if len(excludedIDs) > 0 {
		q += " AND id NOT IN (?)"
		args = append(args, excludedIDs)
	}
	q += ")"

	q, args, err := sqlx.In(q, args...)
	if err != nil {
		return wrapErr(err, "building nisn uniqueness query")
	}
	var exists bool
	if err = sqlx.GetContext(ctx, repo.db, &exists, repo.db.Rebind(q), args...); err != nil {
		return wrapErr(err, "checking nisn uniqueness")
	}
	if exists {
		return student.ErrNISNExists
	}
	return nil
}

func (repo studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q := `INSERT INTO students (nisn, name, class, gender, guardian_contact, barcode, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + studentColumns

	var r studentRow
	err := sqlx.GetContext(ctx, repo.db, &r, q,
		std.NISN, std.Name, std.Class, std.Gender,
		null.NewString(std.GuardianContact, std.GuardianContact != ""),
		std.Barcode, std.IsActive, std.CreatedAt.UTC(), std.UpdatedAt.UTC())
	if err != nil {
		return student.Student{}, repo.trapUniqueErr(err, "inserting student")
	}
	return repo.unrow(r), nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int64) (student.Student, error) {
	var r studentRow
	q := "SELECT " + studentColumns + " FROM students WHERE id = $1"
	if err := sqlx.GetContext(ctx, repo.db, &r, q, id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student by ID")
	}
	return repo.unrow(r), nil
}

func (repo studentRepository) GetStudentByBarcode(ctx context.Context, barcode string) (student.Student, error) {
	var r studentRow
	q := "SELECT " + studentColumns + " FROM students WHERE barcode = $1"
	if err := sqlx.GetContext(ctx, repo.db, &r, q, barcode); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "finding student by barcode")
	}
	return repo.unrow(r), nil
}

func (repo studentRepository) GetStudentsByID(ctx context.Context, ids ...int64) ([]student.Student, error) {
	if len(ids) == 0 {
		return []student.Student{}, nil
	}
	q, args, err := sqlx.In("SELECT "+studentColumns+" FROM students WHERE id IN (?) ORDER BY id", ids)
	if err != nil {
		return nil, wrapErr(err, "building students query")
	}
	var rows []studentRow
	if err = sqlx.SelectContext(ctx, repo.db, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, wrapErr(err, "querying students by ID")
	}
	return repo.unrowSlice(rows), nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, page *core.Page) ([]student.Student, error) {
	w := repo.filter(filter)
	ordering := []core.DBOrdering{{Field: "class", Ascending: true}, {Field: "name", Ascending: true}, {Field: "id", Ascending: true}}
	q := "SELECT " + studentColumns + " FROM students" + w.String() + orderBy(ordering)
	args := w.args
	if page != nil {
		q += " LIMIT ? OFFSET ?"
		args = append(args, page.Size, page.Offset())
	}

	var rows []studentRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, repo.db.Rebind(q), args...); err != nil {
		return nil, wrapErr(err, "querying students")
	}
	return repo.unrowSlice(rows), nil
}

func (repo studentRepository) CountStudents(ctx context.Context, filter *student.QueryFilter) (int, error) {
	w := repo.filter(filter)
	var count int
	if err := sqlx.GetContext(ctx, repo.db, &count, repo.db.Rebind("SELECT COUNT(*) FROM students"+w.String()), w.args...); err != nil {
		return 0, wrapErr(err, "counting students")
	}
	return count, nil
}

func (repo studentRepository) QueryClasses(ctx context.Context) ([]string, error) {
	classes := make([]string, 0)
	if err := sqlx.SelectContext(ctx, repo.db, &classes, "SELECT DISTINCT class FROM students ORDER BY class"); err != nil {
		return nil, wrapErr(err, "querying classes")
	}
	return classes, nil
}

// UpdateStudent never touches the barcode.
func (repo studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	q := `UPDATE students
		SET nisn = $2, name = $3, class = $4, gender = $5, guardian_contact = $6, is_active = $7, updated_at = $8
		WHERE id = $1
		RETURNING ` + studentColumns

	var r studentRow
	err := sqlx.GetContext(ctx, repo.db, &r, q,
		std.ID, std.NISN, std.Name, std.Class, std.Gender,
		null.NewString(std.GuardianContact, std.GuardianContact != ""),
		std.IsActive, std.UpdatedAt.UTC())
	if err != nil {
		if code, _ := pgError(err); code == uniqueViolation {
			return student.Student{}, repo.trapUniqueErr(err, "updating student")
		}
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "updating student")
	}
	return repo.unrow(r), nil
}

// DeleteStudent relies on ON DELETE CASCADE for attendance records.
func (repo studentRepository) DeleteStudent(ctx context.Context, id int64) error {
	if _, err := repo.db.ExecContext(ctx, "DELETE FROM students WHERE id = $1", id); err != nil {
		return wrapErr(err, "deleting student")
	}
	return nil
}
