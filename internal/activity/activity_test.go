package activity

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:     testTime,
		Action:        ActionAdd,
		TransactionID: "6f1c2e1a-8a4b-4c7e-9f1d-2b3c4d5e6f70",
		Details:       "expense Rent 15000 2024-01-10",
		Commit:        "abc1234",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionAdd, entries[0].Action)
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	e2 := testEntry()
	e2.Action = ActionClear
	e2.TransactionID = ""
	require.NoError(t, Append(dir, []Entry{e2}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, ActionAdd, entries[0].Action)
	assert.Equal(t, ActionClear, entries[1].Action)
	assert.Empty(t, entries[1].TransactionID)
}

func TestRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	original := testEntry()
	original.Details = "note with, comma and \"quotes\""
	require.NoError(t, Append(dir, []Entry{original}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Action, got.Action)
	assert.Equal(t, original.TransactionID, got.TransactionID)
	assert.Equal(t, original.Details, got.Details)
	assert.Equal(t, original.Commit, got.Commit)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(Header+"\n"), 0o644))

	entries, err := Read(dir)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 5 fields")
}

func TestTimestampFormat(t *testing.T) {
	e := testEntry()
	e.Timestamp = time.Date(2025, 1, 15, 18, 30, 0, 0, time.FixedZone("UTC+8", 8*3600))
	assert.Equal(t, "2025-01-15T10:30:00Z", MarshalEntry(e)[0])
}

func TestLast(t *testing.T) {
	entries := make([]Entry, 5)
	for i := range entries {
		entries[i].Details = string(rune('a' + i))
	}
	got := Last(entries, 2)
	require.Len(t, got, 2)
	assert.Equal(t, "d", got[0].Details)
	assert.Equal(t, "e", got[1].Details)

	assert.Len(t, Last(entries, 0), 5)
	assert.Len(t, Last(entries, 10), 5)
}
