package assignment_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/tonyorjime-cloud/WorNest/internal/assignment"
	assignmenterrors "github.com/tonyorjime-cloud/WorNest/internal/assignment/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAssignmentRepository struct {
	createFn              func(ctx context.Context, a *assignment.Assignment) error
	findAllByCompanyFn    func(ctx context.Context, companyID string) ([]assignment.Assignment, error)
	findOpenByCompanyFn   func(ctx context.Context, companyID string) ([]assignment.Assignment, error)
	findByIDAndCompanyFn  func(ctx context.Context, companyID, id string) (*assignment.Assignment, error)
	updateFn              func(ctx context.Context, a *assignment.Assignment) error
	countOpenByStaffFn    func(ctx context.Context, companyID string) (map[string]int, error)
	staffBelongsFn        func(ctx context.Context, companyID, staffID string) (bool, error)
}

func (f *fakeAssignmentRepository) WithTx(tx *sql.Tx) assignment.Repository { return f }

func (f *fakeAssignmentRepository) Create(ctx context.Context, a *assignment.Assignment) error {
	if f.createFn != nil {
		return f.createFn(ctx, a)
	}
	return nil
}

func (f *fakeAssignmentRepository) FindAllByCompany(ctx context.Context, companyID string) ([]assignment.Assignment, error) {
	if f.findAllByCompanyFn != nil {
		return f.findAllByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeAssignmentRepository) FindOpenByCompany(ctx context.Context, companyID string) ([]assignment.Assignment, error) {
	if f.findOpenByCompanyFn != nil {
		return f.findOpenByCompanyFn(ctx, companyID)
	}
	return nil, nil
}

func (f *fakeAssignmentRepository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*assignment.Assignment, error) {
	if f.findByIDAndCompanyFn != nil {
		return f.findByIDAndCompanyFn(ctx, companyID, id)
	}
	return nil, nil
}

func (f *fakeAssignmentRepository) Update(ctx context.Context, a *assignment.Assignment) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeAssignmentRepository) CountOpenByStaff(ctx context.Context, companyID string) (map[string]int, error) {
	if f.countOpenByStaffFn != nil {
		return f.countOpenByStaffFn(ctx, companyID)
	}
	return map[string]int{}, nil
}

func (f *fakeAssignmentRepository) StaffBelongsToCompany(ctx context.Context, companyID, staffID string) (bool, error) {
	if f.staffBelongsFn != nil {
		return f.staffBelongsFn(ctx, companyID, staffID)
	}
	return true, nil
}

type assignmentServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service assignment.Service
	repo    *fakeAssignmentRepository
}

func setupAssignmentServiceTest(t *testing.T) *assignmentServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeAssignmentRepository{}
	svc := assignment.NewService(db, repo)

	return &assignmentServiceDeps{db: db, sqlMock: sqlMock, service: svc, repo: repo}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestAssignmentService_Create(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	staffID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, a *assignment.Assignment) error {
			assert.Equal(t, assignment.StatusOpen, a.Status)
			assert.Equal(t, "2025-04-01", a.DueDate.Format("2006-01-02"))
			return nil
		}

		resp, err := deps.service.Create(ctx, companyID, assignment.CreateAssignmentRequest{
			StaffID:      staffID,
			Title:        "quarterly report",
			ProjectCode:  "FIN-7",
			DueDate:      "2025-04-01",
			DaysAllotted: 5,
		})

		assert.NoError(t, err)
		assert.Equal(t, assignment.StatusOpen, resp.Status)
		assert.Equal(t, "FIN-7", resp.ProjectCode)
		assert.Nil(t, resp.CompletedAt)
		assert.Nil(t, resp.DaysTaken)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative staff outside company", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.staffBelongsFn = func(ctx context.Context, cid, sid string) (bool, error) {
			return false, nil
		}

		_, err := deps.service.Create(ctx, companyID, assignment.CreateAssignmentRequest{
			StaffID: staffID,
			Title:   "quarterly report",
			DueDate: "2025-04-01",
		})

		assert.True(t, errors.Is(err, assignmenterrors.ErrStaffNotInCompany))
	})

	t.Run("negative bad due date", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		_, err := deps.service.Create(ctx, companyID, assignment.CreateAssignmentRequest{
			StaffID: staffID,
			Title:   "quarterly report",
			DueDate: "01/04/2025",
		})

		assert.True(t, errors.Is(err, assignmenterrors.ErrInvalidDateFormat))
	})
}

func TestAssignmentService_Complete(t *testing.T) {
	ctx := context.Background()
	companyID := uuid.New().String()
	id := uuid.New()

	openAssignment := func() *assignment.Assignment {
		return &assignment.Assignment{
			ID:           id,
			CompanyID:    uuid.MustParse(companyID),
			StaffID:      uuid.New(),
			Title:        "quarterly report",
			DueDate:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			DaysAllotted: 5,
			Status:       assignment.StatusOpen,
			CreatedAt:    time.Date(2025, 3, 25, 9, 30, 0, 0, time.UTC),
		}
	}

	t.Run("success derives days taken", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, targetID string) (*assignment.Assignment, error) {
			return openAssignment(), nil
		}

		resp, err := deps.service.Complete(ctx, companyID, id.String(), time.Date(2025, 3, 28, 16, 0, 0, 0, time.UTC))

		assert.NoError(t, err)
		assert.Equal(t, assignment.StatusCompleted, resp.Status)
		assert.NotNil(t, resp.CompletedAt)
		assert.Equal(t, "2025-03-28", *resp.CompletedAt)
		assert.NotNil(t, resp.DaysTaken)
		assert.Equal(t, 4, *resp.DaysTaken)
	})

	t.Run("negative already completed", func(t *testing.T) {
		deps := setupAssignmentServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)
		a := openAssignment()
		a.Status = assignment.StatusCompleted
		deps.repo.findByIDAndCompanyFn = func(ctx context.Context, cid, targetID string) (*assignment.Assignment, error) {
			return a, nil
		}

		_, err := deps.service.Complete(ctx, companyID, id.String(), time.Now())

		assert.True(t, errors.Is(err, assignmenterrors.ErrAlreadyCompleted))
	})
}
