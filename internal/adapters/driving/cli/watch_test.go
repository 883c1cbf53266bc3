package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haneul-labs/chaja-cli/internal/core/domain"
	"github.com/haneul-labs/chaja-cli/internal/core/ports/driven"
)

type mockWatcher struct {
	changes  chan domain.DocumentChange
	watchErr error
	closed   bool
}

func (m *mockWatcher) Watch(context.Context) (<-chan domain.DocumentChange, error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	return m.changes, nil
}

func (m *mockWatcher) Close() error {
	m.closed = true
	return nil
}

// watchSession wires a specific watcher into the test session.
func watchSession(ts *testSession, watcher driven.ChangeWatcher) {
	openVault = func(context.Context, string) (*Session, error) {
		s := ts.session()
		s.NewWatcher = func() (driven.ChangeWatcher, error) {
			return watcher, nil
		}
		return s, nil
	}
}

func TestWatchCmd_Use(t *testing.T) {
	assert.Equal(t, "watch", watchCmd.Use)
	assert.Equal(t, "Watch the vault and keep the index live", watchCmd.Short)
}

func TestWatchCmd_AppliesChangesUntilStreamCloses(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	watcher := &mockWatcher{changes: make(chan domain.DocumentChange, 2)}
	watcher.changes <- domain.DocumentChange{
		Type: domain.ChangeCreated,
		Ref:  domain.DocumentRef{Path: "/vault/새문서.md", Name: "새문서"},
	}
	watcher.changes <- domain.DocumentChange{
		Type: domain.ChangeDeleted,
		Ref:  domain.DocumentRef{Path: "/vault/옛문서.md", Name: "옛문서"},
	}
	close(watcher.changes)
	watchSession(ts, watcher)

	output, err := execute(t, "watch")

	require.NoError(t, err)
	assert.Contains(t, output, "Watching /vault (2 documents)")
	assert.Contains(t, output, "Stopped watching.")

	applied := ts.engine.appliedChanges()
	require.Len(t, applied, 2)
	assert.Equal(t, domain.ChangeCreated, applied[0].Type)
	assert.Equal(t, "/vault/새문서.md", applied[0].Ref.Path)
	assert.Equal(t, domain.ChangeDeleted, applied[1].Type)

	assert.True(t, watcher.closed)
	assert.True(t, ts.engine.closed)
}

func TestWatchCmd_KeepsWatchingAfterApplyError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.engine.applyErr = assert.AnError

	watcher := &mockWatcher{changes: make(chan domain.DocumentChange, 1)}
	watcher.changes <- domain.DocumentChange{
		Type: domain.ChangeModified,
		Ref:  domain.DocumentRef{Path: "/vault/회의록.md", Name: "회의록"},
	}
	close(watcher.changes)
	watchSession(ts, watcher)

	output, err := execute(t, "watch")

	require.NoError(t, err, "a failed apply is logged, not fatal")
	assert.Contains(t, output, "Stopped watching.")
	assert.Empty(t, ts.engine.appliedChanges())
}

func TestWatchCmd_WatcherCreationError(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "create watcher")
}

func TestWatchCmd_WatchError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	watchSession(ts, &mockWatcher{watchErr: assert.AnError})

	_, err := execute(t, "watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch vault")
}

func TestWatchCmd_BuildError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.buildErr = assert.AnError
	watchSession(ts, &mockWatcher{changes: make(chan domain.DocumentChange)})

	_, err := execute(t, "watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "index vault")
}
