package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrata-app/vrata/internal/dates"
)

// setupConfig creates an isolated config + database directory and returns
// the config path. Each Execute against it is one app session.
func setupConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "vrata.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: test.db\n"), 0o644))
	return path
}

// run executes the CLI once with the given args, capturing output.
func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.Execute()
	return buf.String(), err
}

func TestLog_EarnsBonusAndStreak(t *testing.T) {
	cfg := setupConfig(t)
	cal := dates.NewWallCalendar(time.Local)

	out, err := run(t, cfg, "log", "-p", "meditation", "-p", "journaling")
	require.NoError(t, err)

	// First session on a fresh database: the reconciler spends the starter
	// stored practice to cover yesterday.
	assert.Contains(t, out, "A stored practice was used to cover "+cal.Yesterday())
	assert.Contains(t, out, "Logged meditation, journaling on "+cal.Today())
	assert.Contains(t, out, "Bonus points earned: +1")
	assert.Contains(t, out, "Current streak: 2 days")
}

func TestLog_JSONOutput(t *testing.T) {
	cfg := setupConfig(t)
	cal := dates.NewWallCalendar(time.Local)

	out, err := run(t, cfg, "--format", "json", "log", "-p", "meditation")
	require.NoError(t, err)

	var result logResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, cal.Today(), result.Date)
	assert.Equal(t, []string{"meditation"}, result.Practices)
	assert.Equal(t, 0, result.BonusDelta) // one distinct practice earns nothing
	assert.Equal(t, 2, result.Streak)     // yesterday covered by autouse
}

func TestLog_ThirdDistinctPracticeAddsNothing(t *testing.T) {
	cfg := setupConfig(t)

	_, err := run(t, cfg, "log", "-p", "a", "-p", "b")
	require.NoError(t, err)

	out, err := run(t, cfg, "--format", "json", "log", "-p", "c")
	require.NoError(t, err)

	var result logResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 0, result.BonusDelta) // floor(3/2) == floor(2/2)

	out, err = run(t, cfg, "--format", "json", "log", "-p", "d")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.BonusDelta) // floor(4/2) == 2
}

func TestStats_JSONOutput(t *testing.T) {
	cfg := setupConfig(t)
	cal := dates.NewWallCalendar(time.Local)

	_, err := run(t, cfg, "log", "-p", "meditation", "-p", "journaling")
	require.NoError(t, err)

	out, err := run(t, cfg, "--format", "json", "stats")
	require.NoError(t, err)

	var result statsResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.Streak)
	assert.Equal(t, 2, result.LongestStreak)
	assert.Equal(t, 1, result.BonusPoints)
	assert.Equal(t, 0, result.StoredPractices) // starter practice spent by autouse
	assert.Equal(t, 3, result.StoredCap)
	assert.Equal(t, []string{cal.Yesterday()}, result.GraceDaysSpent)
}

func TestShow_All(t *testing.T) {
	cfg := setupConfig(t)

	out, err := run(t, cfg, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No practices logged yet.")

	_, err = run(t, cfg, "log", "-p", "meditation", "--notes", "10 min")
	require.NoError(t, err)

	out, err = run(t, cfg, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "(1 practice)")
	assert.Contains(t, out, "meditation")
	assert.Contains(t, out, "10 min")
}

func TestShow_UnknownDateFails(t *testing.T) {
	cfg := setupConfig(t)

	_, err := run(t, cfg, "show", "1999-01-01")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestEntry_RemoveAndEdit(t *testing.T) {
	cfg := setupConfig(t)
	cal := dates.NewWallCalendar(time.Local)
	today := cal.Today()

	_, err := run(t, cfg, "log", "-p", "meditation", "-p", "journaling")
	require.NoError(t, err)

	out, err := run(t, cfg, "--format", "json", "show", today)
	require.NoError(t, err)
	var rec struct {
		Entries []struct {
			ID string `json:"id"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.Len(t, rec.Entries, 2)

	// Removing the journaling entry drops the distinct count 2 -> 1 and
	// claws back the bonus point.
	out, err = run(t, cfg, "--format", "json", "entry", "remove", today, rec.Entries[1].ID)
	require.NoError(t, err)
	var result logResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"meditation"}, result.Practices)
	assert.Equal(t, -1, result.BonusDelta)

	out, err = run(t, cfg, "--format", "json", "entry", "edit", today, rec.Entries[0].ID, "-p", "breathing")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, []string{"breathing"}, result.Practices)
}

func TestEntry_RemoveUnknownFails(t *testing.T) {
	cfg := setupConfig(t)

	_, err := run(t, cfg, "entry", "remove", "2025-01-01", "bogus-id")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEntry_EditWithoutChangesFails(t *testing.T) {
	cfg := setupConfig(t)

	_, err := run(t, cfg, "entry", "edit", "2025-01-01", "bogus-id")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConvert_InsufficientPointsFails(t *testing.T) {
	cfg := setupConfig(t)

	_, err := run(t, cfg, "convert")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "not enough bonus points")
}

func TestCheck_SecondRunSameDayIsNoOp(t *testing.T) {
	cfg := setupConfig(t)
	cal := dates.NewWallCalendar(time.Local)

	out, err := run(t, cfg, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "A stored practice was used to cover "+cal.Yesterday())

	out, err = run(t, cfg, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to do")
}

func TestStreak_Command(t *testing.T) {
	cfg := setupConfig(t)

	_, err := run(t, cfg, "log", "-p", "meditation")
	require.NoError(t, err)

	out, err := run(t, cfg, "streak")
	require.NoError(t, err)
	assert.Contains(t, out, "Current streak: 2 days (longest 2)")
}

func TestInvalidFormatRejected(t *testing.T) {
	cfg := setupConfig(t)

	_, err := run(t, cfg, "--format", "xml", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
