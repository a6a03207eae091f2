package report

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_Defaults(t *testing.T) {
	l := NewLogger(&bytes.Buffer{}, 0, -1)
	assert.Equal(t, DefaultNameWidth, l.Columns[0].Width)
	assert.Equal(t, DefaultResultWidth, l.Columns[1].Width)
	assert.Equal(t, 45, l.TotalWidth())
}

func TestLogger_PrintHeader(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, 10, 6)

	l.PrintHeader()

	assert.Equal(t, "\nTest      Result\n================\n", buf.String())
}

func TestLogger_PrintSeparator(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, 35, 10)

	l.PrintSeparator('-')

	assert.Equal(t, strings.Repeat("-", 45)+"\n", buf.String())
}

func TestLogger_Row(t *testing.T) {
	t.Run("name has no trailing newline", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&buf, 20, 10)

		l.PrintTestName("Go to site")
		assert.Equal(t, "Go to site          ", buf.String())
	})

	t.Run("result completes the row", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&buf, 20, 10)

		l.PrintTestName("Go to site")
		l.PrintTestResult(ResultPass)
		assert.Equal(t, "Go to site          PASS      \n", buf.String())
	})

	t.Run("long names are not truncated", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&buf, 5, 4)

		l.PrintTestName("Initialization")
		assert.Equal(t, "Initialization", buf.String())
	})
}

func TestLogger_FlushesBufferedWriter(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	l := NewLogger(w, 12, 4)

	l.PrintTestName("Send email")
	assert.Equal(t, "Send email  ", buf.String())
}

// syncRecorder counts Sync calls the way an *os.File would receive them.
type syncRecorder struct {
	bytes.Buffer
	syncs int
}

func (s *syncRecorder) Sync() error {
	s.syncs++
	return nil
}

func TestLogger_DoesNotSyncFiles(t *testing.T) {
	var w syncRecorder
	l := NewLogger(&w, 12, 4)

	l.PrintTestName("Send email")
	assert.Equal(t, "Send email  ", w.String())
	assert.Zero(t, w.syncs)
}

func TestLogger_PrintErrors(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, 3, 2)

	l.PrintErrors(errors.New("boom"))

	assert.Equal(t, "\nErrors:\n=====\nboom\n", buf.String())
}

func TestLogger_PrintRunTitle(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, 0, 0)

	l.PrintRunTitle("Test #2: All Valid Values")

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "", lines[0])
	assert.Equal(t, strings.Repeat("#", 60), lines[1])
	assert.Equal(t, "Test #2: All Valid Values", lines[2])
}

func TestLogger_PrintAllPassed(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, 0, 0).PrintAllPassed()
	assert.Equal(t, "\nAll tests passed.\n\n", buf.String())
}

func TestLogger_Styled(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, 20, 10)
	l.Styled = true

	l.PrintTestName("Verify email")
	l.PrintTestResult(ResultFail)

	assert.Contains(t, buf.String(), "Verify email")
	assert.Contains(t, buf.String(), "FAIL")
}
