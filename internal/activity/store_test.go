package activity

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "nested", "activity.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_RecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, s.Record(ctx, Entry{Action: ActionCreated, EmployeeID: 1, EmployeeName: "Ada", OccurredAt: base}))
	require.NoError(t, s.Record(ctx, Entry{Action: ActionUpdated, EmployeeID: 1, EmployeeName: "Ada L.", OccurredAt: base.Add(time.Hour)}))
	require.NoError(t, s.Record(ctx, Entry{Action: ActionDeleted, EmployeeID: 2, EmployeeName: "Bob", OccurredAt: base.Add(2 * time.Hour)}))

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ActionDeleted, got[0].Action)
	assert.Equal(t, "Bob", got[0].EmployeeName)
	assert.Equal(t, ActionUpdated, got[1].Action)
	assert.True(t, got[1].OccurredAt.Equal(base.Add(time.Hour)))
}

func TestStore_RecordStampsTime(t *testing.T) {
	s := openTestStore(t)
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	require.NoError(t, s.Record(context.Background(), Entry{Action: ActionCreated, EmployeeID: 7}))

	got, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].OccurredAt.Equal(fixed))
	assert.NotZero(t, got[0].ID)
}

func TestStore_RejectsUnknownAction(t *testing.T) {
	s := openTestStore(t)
	err := s.Record(context.Background(), Entry{Action: "archived", EmployeeID: 1})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Record(context.Background(), Entry{Action: ActionCreated, EmployeeID: 3, EmployeeName: "Cy"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Cy", got[0].EmployeeName)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open("")
	assert.Error(t, err)
}
