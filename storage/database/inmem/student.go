package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/eduscan/core"
	"github.com/trezcool/eduscan/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(db *DB) *studentRepository {
	return &studentRepository{db: db}
}

// query returns the students matching filter, ordered by class then name. Callers hold the lock.
func (repo *studentRepository) query(filter *student.QueryFilter) []student.Student {
	var search string
	if filter != nil {
		search = strings.ToLower(filter.Search)
	}

	students := make([]student.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		if filter != nil {
			if filter.Class != "" && std.Class != filter.Class {
				continue
			}
			if filter.IsActive != nil && std.IsActive != *filter.IsActive {
				continue
			}
			if search != "" &&
				!strings.Contains(strings.ToLower(std.Name), search) &&
				!strings.Contains(strings.ToLower(std.NISN), search) {
				continue
			}
		}
		students = append(students, *std)
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].Class != students[j].Class {
			return students[i].Class < students[j].Class
		}
		if students[i].Name != students[j].Name {
			return students[i].Name < students[j].Name
		}
		return students[i].ID < students[j].ID
	})
	return students
}

func (repo *studentRepository) checkUnique(std student.Student) error {
	for _, s := range repo.db.students {
		if s.ID == std.ID {
			continue
		}
		if s.NISN == std.NISN {
			return student.ErrNISNExists
		}
		if s.Barcode == std.Barcode {
			return student.ErrBarcodeExists
		}
	}
	return nil
}

func (repo *studentRepository) CheckNISNUniqueness(ctx context.Context, nisn string, excludedIDs ...int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	excluded := make(map[int64]bool, len(excludedIDs))
	for _, id := range excludedIDs {
		excluded[id] = true
	}
	for _, std := range repo.db.students {
		if std.NISN == nisn && !excluded[std.ID] {
			return student.ErrNISNExists
		}
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if err := ctx.Err(); err != nil {
		return student.Student{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	std.ID = 0
	if err := repo.checkUnique(std); err != nil {
		return student.Student{}, err
	}
	repo.db.studentPK++
	std.ID = repo.db.studentPK
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) GetStudent(ctx context.Context, id int64) (student.Student, error) {
	if err := ctx.Err(); err != nil {
		return student.Student{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return *std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentByBarcode(ctx context.Context, barcode string) (student.Student, error) {
	if err := ctx.Err(); err != nil {
		return student.Student{}, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, std := range repo.db.students {
		if std.Barcode == barcode {
			return *std, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *studentRepository) GetStudentsByID(ctx context.Context, ids ...int64) ([]student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := make([]student.Student, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if std, ok := repo.db.students[id]; ok && !seen[id] {
			seen[id] = true
			students = append(students, *std)
		}
	}
	return students, nil
}

func (repo *studentRepository) QueryStudents(ctx context.Context, filter *student.QueryFilter, page *core.Page) ([]student.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	students := repo.query(filter)
	if page == nil {
		return students, nil
	}
	start := page.Offset()
	if start >= len(students) {
		return []student.Student{}, nil
	}
	end := start + page.Size
	if end > len(students) {
		end = len(students)
	}
	return students[start:end], nil
}

func (repo *studentRepository) CountStudents(ctx context.Context, filter *student.QueryFilter) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.query(filter)), nil
}

func (repo *studentRepository) QueryClasses(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	seen := make(map[string]bool)
	classes := make([]string, 0)
	for _, std := range repo.db.students {
		if !seen[std.Class] {
			seen[std.Class] = true
			classes = append(classes, std.Class)
		}
	}
	sort.Strings(classes)
	return classes, nil
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, std student.Student) (student.Student, error) {
	if err := ctx.Err(); err != nil {
		return student.Student{}, err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.students[std.ID]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	std.Barcode = orig.Barcode // immutable
	std.CreatedAt = orig.CreatedAt
	if err := repo.checkUnique(std); err != nil {
		return student.Student{}, err
	}
	repo.db.students[std.ID] = &std
	return std, nil
}

func (repo *studentRepository) DeleteStudent(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.students, id)
	for recID, rec := range repo.db.records { // ON DELETE CASCADE
		if rec.StudentID == id {
			delete(repo.db.records, recID)
			delete(repo.db.recordIndex, keyOf(*rec))
		}
	}
	return nil
}
