package services

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records the months it was asked to cover and can fail
// for selected workspaces.
type fakeGenerator struct {
	calls  []generatorCall
	failOn map[uuid.UUID]error
}

type generatorCall struct {
	workspaceID uuid.UUID
	year        int
	month       time.Month
}

func (f *fakeGenerator) GenerateMonthly(workspaceID uuid.UUID, year int, month time.Month) ([]uuid.UUID, error) {
	f.calls = append(f.calls, generatorCall{workspaceID, year, month})
	if err, ok := f.failOn[workspaceID]; ok {
		return nil, err
	}
	return []uuid.UUID{uuid.New()}, nil
}

func TestRunMonthlyCoversPreviousMonth(t *testing.T) {
	db := newTestDB(t)
	workspace := seedWorkspace(t, db)

	gen := &fakeGenerator{}
	scheduler := &SchedulerService{
		db:        db,
		generator: gen,
		now: func() time.Time {
			return time.Date(2026, time.April, 1, 4, 0, 0, 0, time.UTC)
		},
	}
	scheduler.RunMonthly()

	require.Len(t, gen.calls, 1)
	assert.Equal(t, workspace.ID, gen.calls[0].workspaceID)
	assert.Equal(t, 2026, gen.calls[0].year)
	assert.Equal(t, time.March, gen.calls[0].month)
}

func TestRunMonthlyCrossesYearBoundary(t *testing.T) {
	db := newTestDB(t)
	seedWorkspace(t, db)

	gen := &fakeGenerator{}
	scheduler := &SchedulerService{
		db:        db,
		generator: gen,
		now: func() time.Time {
			return time.Date(2027, time.January, 1, 4, 0, 0, 0, time.UTC)
		},
	}
	scheduler.RunMonthly()

	require.Len(t, gen.calls, 1)
	assert.Equal(t, 2026, gen.calls[0].year)
	assert.Equal(t, time.December, gen.calls[0].month)
}

func TestRunMonthlyContinuesAfterWorkspaceFailure(t *testing.T) {
	db := newTestDB(t)
	broken := seedWorkspace(t, db)
	seedWorkspace(t, db)
	seedWorkspace(t, db)

	gen := &fakeGenerator{failOn: map[uuid.UUID]error{
		broken.ID: errors.New("boom"),
	}}
	scheduler := &SchedulerService{
		db:        db,
		generator: gen,
		now:       time.Now,
	}
	scheduler.RunMonthly()

	// all three workspaces were attempted despite the failure
	assert.Len(t, gen.calls, 3)
}
