package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/citewatch/internal/compare"
	"github.com/ppiankov/citewatch/internal/model"
	"github.com/ppiankov/citewatch/internal/source"
)

func trackSample(t *testing.T) *Tracked {
	t.Helper()
	p := newTestPipeline(t)
	tracked, err := p.TrackDocument(context.Background(), &source.Document{
		Origin: "answer.txt",
		Title:  "Acme answer",
		Text:   answerText,
	})
	require.NoError(t, err)
	return tracked
}

func TestRenderer_Markdown(t *testing.T) {
	tracked := trackSample(t)
	md := NewRenderer(true, 50).Markdown(tracked)

	for _, section := range []string{
		"# Citation report: Acme answer",
		"- Brand: Acme",
		"## Summary",
		"## Source types",
		"| wikipedia | 1 |",
		"## Quality distribution",
		"## Citation gaps",
		"## Recommendations",
		"## Citations",
		"https://en.wikipedia.org/wiki/Acme",
		"_Generated by citewatch.",
	} {
		assert.Contains(t, md, section)
	}
}

func TestRenderer_MarkdownRowLimitAndFooter(t *testing.T) {
	tracked := trackSample(t)
	total := len(tracked.Result.Citations)
	require.Greater(t, total, 1)

	md := NewRenderer(false, 1).Markdown(tracked)
	assert.Contains(t, md, "| 1 | ")
	assert.NotContains(t, md, "| 2 | ")
	assert.Contains(t, md, "... and ")
	assert.NotContains(t, md, "_Generated by citewatch.")
}

func TestRenderer_MarkdownEmpty(t *testing.T) {
	p := newTestPipeline(t)
	tracked, err := p.TrackDocument(context.Background(), &source.Document{Origin: "empty.txt"})
	require.NoError(t, err)

	md := NewRenderer(true, 10).Markdown(tracked)
	assert.Contains(t, md, "# Citation report: empty.txt")
	assert.Contains(t, md, "No citations found.")
}

func TestRenderer_RenderJSON(t *testing.T) {
	tracked := trackSample(t)
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, NewRenderer(true, 50).RenderJSON(tracked.Result, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded model.Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, tracked.Result.Stats.Total, decoded.Stats.Total)
	assert.Equal(t, "Acme", decoded.Brand)
}

func TestRenderer_Stdout(t *testing.T) {
	tracked := trackSample(t)

	var buf bytes.Buffer
	r := NewRenderer(true, 50)
	r.SetOutput(&buf)

	require.NoError(t, r.RenderMarkdown("-", tracked))
	assert.True(t, strings.HasPrefix(buf.String(), "# Citation report:"))

	buf.Reset()
	r.RenderSummary(tracked)
	out := buf.String()
	assert.Contains(t, out, "answer.txt")
	assert.Contains(t, out, "Citations:")
	assert.Contains(t, out, "Brand mentions:")
}

func TestRenderer_RenderComparison(t *testing.T) {
	previous := trackSample(t).Result
	current := trackSample(t).Result
	current.Citations = current.Citations[:1]
	current.Stats.Total = 1

	cmp := compare.Compare(previous, current)

	var buf bytes.Buffer
	r := NewRenderer(true, 50)
	r.SetOutput(&buf)
	r.RenderComparison(cmp)

	out := buf.String()
	assert.Contains(t, out, "Citation trend: declining")
	assert.Contains(t, out, "Lost citations")
	assert.NotContains(t, out, "New citations")
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a \| b c`, escapeCell("a | b\nc"))
}
