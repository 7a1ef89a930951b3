package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja7ad/coeffit/pkg/fit"
)

func sampleRows() []Row {
	p := fit.Profile{Name: "jerome-tt", Label: "Jerome TT", Mass: 88}
	q := fit.Profile{Name: "alban-pk", Label: "Alban PK", Mass: 88}
	return []Row{
		NewRow(p, Mode2D, fit.Result{Error: 0.03125, Cd: 0.2259, Cr: 0.00933, Evaluated: 40000}),
		NewRow(q, ModeJoint, fit.Result{Error: 0.1, Cd: 0.15, Cr: 0.006, Evaluated: 10}),
	}
}

func TestBlock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Block(&buf, "Jerome TT", fit.Result{Error: 0.03214, Cd: 0.2259, Cr: 0.00933}))
	assert.Equal(t, "--- Jerome TT ---\nerror = 3.2%\ncd = 0.226\ncr = 0.0093\n\n", buf.String())
}

func TestBlock_RoundsHalfAwayFromZero(t *testing.T) {
	var buf bytes.Buffer
	// each value scales to an exact .5 at its printed precision
	require.NoError(t, Block(&buf, "x", fit.Result{Error: 0.0625, Cd: 0.0625, Cr: 0.00125}))
	assert.Equal(t, "--- x ---\nerror = 6.3%\ncd = 0.063\ncr = 0.0013\n\n", buf.String())
}

func TestNewRow(t *testing.T) {
	r := sampleRows()[0]
	assert.Equal(t, "jerome-tt", r.Profile)
	assert.Equal(t, 88.0, r.MassKg)
	assert.Equal(t, 3.125, r.ErrorPct)
	assert.Equal(t, Mode2D, r.Mode)
	assert.Equal(t, 40000, r.Evaluated)
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, sampleRows()))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "PROFILE"))
	assert.Contains(t, lines[2], "Jerome TT")
	assert.Contains(t, lines[2], "3.1")
	assert.Contains(t, lines[2], "0.226")
	assert.Contains(t, lines[2], "0.0093")
	assert.Contains(t, lines[3], "joint")
}

func TestCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, sampleRows()))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, csvHeader, recs[0])
	assert.Equal(t, []string{"jerome-tt", "Jerome TT", "88", "2d", "3.125", "0.2259", "0.00933", "40000"}, recs[1])
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleRows()))

	var got []Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sampleRows(), got)
	assert.Contains(t, buf.String(), `"error_pct"`)

	buf.Reset()
	require.NoError(t, JSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestElapsed(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Elapsed(&buf, 1234567*time.Microsecond))
	assert.Equal(t, "done in 1.235s\n", buf.String())
}
