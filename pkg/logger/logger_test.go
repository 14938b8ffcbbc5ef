package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	tags    []string
	records []interface{}
}

func (p *recordingPoster) Post(tag string, message interface{}) error {
	p.tags = append(p.tags, tag)
	p.records = append(p.records, message)
	return nil
}

func (p *recordingPoster) Close() error { return nil }

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "error")

	l.Printf("hidden %d", 1)
	l.Debugf("hidden too")
	l.Errorf("shown %d", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLevel("debug"))
	assert.Equal(t, ERROR, ParseLevel(" ERROR "))
	assert.Equal(t, INFO, ParseLevel(""))
	assert.Equal(t, INFO, ParseLevel("verbose"))
}

func TestFluentWriterPostsRecords(t *testing.T) {
	p := &recordingPoster{}
	w := &FluentWriter{client: p, tag: "log", service: "catalog"}

	var console bytes.Buffer
	l := New(Tee(&console, w), "info")
	l.Errorf("store unavailable")

	require.Len(t, p.records, 1)
	rec := p.records[0].(map[string]interface{})
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "catalog", rec["service"])
	assert.Contains(t, rec["message"], "store unavailable")
	assert.Contains(t, console.String(), "store unavailable")
}

func TestTeeWithoutSinksReturnsPrimary(t *testing.T) {
	var buf bytes.Buffer
	assert.Same(t, &buf, Tee(&buf, nil))
}
