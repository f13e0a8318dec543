package storage

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()[:2]))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, CSVHeader, lines[0])
	assert.Equal(t, "a,2024-01-05,income,Salary,50000,", lines[1])
	assert.Equal(t, "b,2024-01-10,expense,Rent,15000,January", lines[2])
}

func TestReadCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sample()))

	rows, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, Row{ID: "b", Date: "2024-01-10", Type: "expense", Category: "Rent", Amount: "15000", Note: "January"}, rows[1])
	assert.Equal(t, "3.75", rows[2].Amount)
}

func TestReadCSV_QuotedFields(t *testing.T) {
	input := CSVHeader + "\n" + `x,2024-02-01,expense,"Food, drinks",12.5,"said ""hi"""` + "\n"
	rows, err := ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Food, drinks", rows[0].Category)
	assert.Equal(t, `said "hi"`, rows[0].Note)
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	rows, err := ReadCSV(strings.NewReader(CSVHeader + "\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReadCSV_WrongFieldCount(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(CSVHeader + "\na,b,c\n"))
	assert.Error(t, err)
}
