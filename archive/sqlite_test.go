package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArchive(t *testing.T) *SQLiteArchive {
	t.Helper()
	a, err := NewSQLite(filepath.Join(t.TempDir(), "turns.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestRecordAndFetchTurns(t *testing.T) {
	a := newTestArchive(t)

	require.NoError(t, a.RecordTurn("sess-1", "hello", "hi there"))
	require.NoError(t, a.RecordTurn("sess-1", "my order is late", "let me check"))
	require.NoError(t, a.RecordTurn("sess-2", "unrelated", "ok"))

	turns, err := a.Turns("sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "hello", turns[0].UserMessage)
	assert.Equal(t, "hi there", turns[0].AssistantMessage)
	assert.Equal(t, "my order is late", turns[1].UserMessage)
	assert.NotEmpty(t, turns[0].ID)
	assert.NotEqual(t, turns[0].ID, turns[1].ID)
}

func TestTurnsEmptySession(t *testing.T) {
	a := newTestArchive(t)

	turns, err := a.Turns("missing")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
