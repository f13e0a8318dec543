package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "pocket-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "pocket")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/pocket")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// ledgerDir is a pocket home inside a temp dir: config at <dir>/pocket.yaml,
// data under <dir>/data.
type ledgerDir struct {
	t   *testing.T
	dir string
}

func newLedger(t *testing.T, initArgs ...string) *ledgerDir {
	t.Helper()
	l := &ledgerDir{t: t, dir: t.TempDir()}
	args := append([]string{"init", l.dir, "--currency", "USD"}, initArgs...)
	out, err := runPocket(t, l.dir, "", args...)
	require.NoError(t, err, out)
	return l
}

func (l *ledgerDir) configPath() string { return filepath.Join(l.dir, "pocket.yaml") }

func (l *ledgerDir) dataPath(name string) string { return filepath.Join(l.dir, "data", name) }

// run executes pocket against this ledger.
func (l *ledgerDir) run(args ...string) (string, error) {
	l.t.Helper()
	return l.runWithInput("", args...)
}

func (l *ledgerDir) runWithInput(stdin string, args ...string) (string, error) {
	l.t.Helper()
	return runPocket(l.t, l.dir, stdin, append([]string{"--config", l.configPath()}, args...)...)
}

func (l *ledgerDir) mustRun(args ...string) string {
	l.t.Helper()
	out, err := l.run(args...)
	require.NoError(l.t, err, out)
	return out
}

// stored decodes the persisted ledger file.
func (l *ledgerDir) stored() []map[string]any {
	l.t.Helper()
	data, err := os.ReadFile(l.dataPath("budget-transactions.json"))
	require.NoError(l.t, err)
	var recs []map[string]any
	require.NoError(l.t, json.Unmarshal(data, &recs))
	return recs
}

// runPocket runs the binary in dir with POCKET_* variables removed from
// the environment so the host cannot leak settings into tests.
func runPocket(t *testing.T, dir, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, "POCKET_") {
			cmd.Env = append(cmd.Env, kv)
		}
	}
	cmd.Stdin = strings.NewReader(stdin)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

func TestInit_CreatesConfigAndEmptyLedger(t *testing.T) {
	l := newLedger(t)

	data, err := os.ReadFile(l.configPath())
	require.NoError(t, err)
	contents := string(data)
	assert.Contains(t, contents, "backend: file")
	assert.Contains(t, contents, "currency: USD")
	assert.Contains(t, contents, "key: budget-transactions")

	raw, err := os.ReadFile(l.dataPath("budget-transactions.json"))
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	l := newLedger(t)

	out, err := runPocket(t, l.dir, "", "init", l.dir)
	require.Error(t, err)
	assert.Contains(t, out, "already exists")

	_, err = runPocket(t, l.dir, "", "init", l.dir, "--force", "--currency", "EUR")
	require.NoError(t, err)
	data, err := os.ReadFile(l.configPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "currency: EUR")
}

func TestInit_RejectsUnknownCurrency(t *testing.T) {
	dir := t.TempDir()
	out, err := runPocket(t, dir, "", "init", dir, "--currency", "NOPE")
	require.Error(t, err)
	assert.Contains(t, out, "unknown currency")

	_, statErr := os.Stat(filepath.Join(dir, "pocket.yaml"))
	assert.True(t, os.IsNotExist(statErr), "invalid init must not write config")
}

func TestInit_SQLite(t *testing.T) {
	l := newLedger(t, "--backend", "sqlite")

	_, err := os.Stat(l.dataPath("pocket.db"))
	require.NoError(t, err, "pocket.db should exist")

	l.mustRun("add", "expense", "Coffee", "3.50", "--date", "2024-02-01")
	out := l.mustRun("list")
	assert.Contains(t, out, "| 2024-02-01 | Coffee | Expense | -$3.50 |")

	_, err = os.Stat(l.dataPath("budget-transactions.json"))
	assert.True(t, os.IsNotExist(err), "sqlite backend writes no json file")
}

func TestInit_GitRepo(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	l := newLedger(t, "--git")

	_, err := os.Stat(l.dataPath(".git"))
	require.NoError(t, err, ".git should exist")

	gitignore, err := os.ReadFile(l.dataPath(".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), "activity.csv")

	l.mustRun("add", "income", "Salary", "50000", "--date", "2024-01-05")

	log := exec.Command("git", "log", "--format=%s|%an <%ae>")
	log.Dir = filepath.Join(l.dir, "data")
	out, err := log.Output()
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "pocket: add: income Salary 50000 2024-01-05|pocket <pocket@localhost>", lines[0])
	assert.Equal(t, "pocket: init|pocket <pocket@localhost>", lines[1])

	rev := exec.Command("git", "rev-parse", "--short", "HEAD")
	rev.Dir = filepath.Join(l.dir, "data")
	hash, err := rev.Output()
	require.NoError(t, err)

	entries := l.mustRun("log")
	assert.Contains(t, entries, "| add |")
	assert.Contains(t, entries, "| "+strings.TrimSpace(string(hash))+" |", "commit hash is recorded")
}
