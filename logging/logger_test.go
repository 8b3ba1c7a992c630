package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerKeepsMessagesInOrder(t *testing.T) {
	var l CapturingLogger
	l.Printf("first %d", 1)
	l.Printf("second %s", "two")

	out := l.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "first 1", out[0].Message)
	assert.Equal(t, "second two", out[1].Message)
	assert.False(t, out[1].Time.Before(out[0].Time))
}

func TestCapturedOutputIsACopy(t *testing.T) {
	var l CapturingLogger
	l.Printf("a")
	out := l.Output()
	l.Printf("b")
	assert.Len(t, out, 1)
	assert.Len(t, l.Output(), 2)
}

func TestDumpWritesPrefixedLines(t *testing.T) {
	var l CapturingLogger
	l.Printf("hello")
	l.Printf("world")

	var buf bytes.Buffer
	l.Output().Dump(&buf, "  DEBUG ")
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "  DEBUG ["))
	assert.True(t, strings.HasSuffix(lines[0], "] hello"))
	assert.True(t, strings.HasSuffix(lines[1], "] world"))
}

func TestLoggerWithPrefix(t *testing.T) {
	var l CapturingLogger
	LoggerWithPrefix(&l, "[stub] ").Printf("got %s", "GET /")
	out := l.Output()
	require.Len(t, out, 1)
	assert.Equal(t, "[stub] got GET /", out[0].Message)
}

func TestLoggerWithPrefixNilTarget(t *testing.T) {
	assert.Equal(t, NullLogger(), LoggerWithPrefix(nil, "x"))
	assert.Equal(t, NullLogger(), OrNull(nil))
}
