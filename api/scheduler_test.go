package api

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btels/scheme-ledger/ledger"
)

func newTestScheduler(t *testing.T, ts *testServer) *BackupScheduler {
	t.Helper()
	bs := NewBackupScheduler(ts.h.Engine, ts.blobs, quietLogger())
	bs.now = func() time.Time { return time.Date(2024, time.March, 5, 23, 0, 0, 0, time.UTC) }
	ts.h.Backups = bs
	return bs
}

func TestBackupScheduler_RunNow(t *testing.T) {
	// GIVEN: A ledger with one member
	ts := newTestServer(t)
	staff := ts.createStaff(t, "Nimal Perera")
	bs := newTestScheduler(t, ts)
	_, ok := bs.LastRun()
	require.False(t, ok)

	// WHEN: Running a backup
	key, err := bs.RunNow(context.Background())
	require.NoError(t, err)

	// THEN: A dated document holding the current state is stored
	assert.Equal(t, "backups/btels_backup_2024-03-05.json", key)
	data, found, err := ts.blobs.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, found)
	state, err := ledger.DecodeState(data)
	require.NoError(t, err)
	require.Len(t, state.Staff, 1)
	assert.Equal(t, staff.ID, state.Staff[0].ID)

	last, ok := bs.LastRun()
	assert.True(t, ok)
	assert.Equal(t, 2024, last.Year())
}

func TestBackupScheduler_StoreFailure(t *testing.T) {
	ts := newTestServer(t)
	bs := newTestScheduler(t, ts)
	ts.blobs.FailNextPut(errors.New("disk full"))

	_, err := bs.RunNow(context.Background())

	assert.Error(t, err)
	_, ok := bs.LastRun()
	assert.False(t, ok)
}

func TestListBackups_OnlyBackupKeys(t *testing.T) {
	ts := newTestServer(t)
	ts.createStaff(t, "Nimal Perera")
	bs := newTestScheduler(t, ts)
	_, err := bs.RunNow(context.Background())
	require.NoError(t, err)

	keys, err := ListBackups(context.Background(), ts.blobs)

	require.NoError(t, err)
	assert.Equal(t, []string{"backups/btels_backup_2024-03-05.json"}, keys)
}

func TestBackupScheduler_StartRunsImmediately(t *testing.T) {
	ts := newTestServer(t)
	bs := newTestScheduler(t, ts)
	bs.Interval = time.Hour

	bs.Start()
	defer bs.Stop()

	require.Eventually(t, func() bool {
		_, ok := bs.LastRun()
		return ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBackupScheduler_DisabledDoesNotRun(t *testing.T) {
	ts := newTestServer(t)
	bs := newTestScheduler(t, ts)
	bs.Enabled = false

	bs.Start()
	bs.Stop()

	_, ok := bs.LastRun()
	assert.False(t, ok)
}

func TestBackupEndpoints(t *testing.T) {
	ts := newTestServer(t)

	// Not configured yet.
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/state/backups", "").Code)

	ts.createStaff(t, "Nimal Perera")
	newTestScheduler(t, ts)

	rec := ts.do(t, http.MethodPost, "/api/state/backups", "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	name := decode[map[string]string](t, rec)["name"]
	assert.Equal(t, "btels_backup_2024-03-05.json", name)

	list := decode[map[string]any](t, ts.do(t, http.MethodGet, "/api/state/backups", ""))
	assert.Equal(t, []any{name}, list["backups"])
	assert.NotEmpty(t, list["lastRun"])

	rec = ts.do(t, http.MethodGet, "/api/state/backups/"+name, "")
	require.Equal(t, http.StatusOK, rec.Code)
	state, err := ledger.DecodeState(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, state.Staff, 1)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/api/state/backups/btels_backup_1999-01-01.json", "").Code)
}
