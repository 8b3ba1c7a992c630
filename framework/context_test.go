package framework

import (
	"errors"
	"testing"

	"github.com/launchdarkly/http-stub-tests/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingTestLogger struct {
	started  []string
	finished map[string]bool
	skipped  map[string]string
	errors   map[string][]error
	debug    map[string]logging.CapturedOutput
}

func newRecordingTestLogger() *recordingTestLogger {
	return &recordingTestLogger{
		finished: make(map[string]bool),
		skipped:  make(map[string]string),
		errors:   make(map[string][]error),
		debug:    make(map[string]logging.CapturedOutput),
	}
}

func (r *recordingTestLogger) TestStarted(id TestID) { r.started = append(r.started, id.String()) }

func (r *recordingTestLogger) TestError(id TestID, err error) {
	r.errors[id.String()] = append(r.errors[id.String()], err)
}

func (r *recordingTestLogger) TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput) {
	r.finished[id.String()] = failed
	r.debug[id.String()] = debugOutput
}

func (r *recordingTestLogger) TestSkipped(id TestID, reason string) { r.skipped[id.String()] = reason }

func TestPassingAndFailingSubtests(t *testing.T) {
	tl := newRecordingTestLogger()
	results := Run(nil, tl, func(c *Context) {
		c.Run("passes", func(c *Context) {
			assert.Equal(c, 1, 1)
		})
		c.Run("fails", func(c *Context) {
			c.Debug("about to fail")
			assert.Equal(c, 1, 2)
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "fails", results.Failures[0].TestID.String())
	assert.Equal(t, []string{"passes", "fails"}, tl.started)
	assert.False(t, tl.finished["passes"])
	assert.True(t, tl.finished["fails"])
	require.Len(t, tl.debug["fails"], 1)
	assert.Equal(t, "about to fail", tl.debug["fails"][0].Message)
}

func TestRequireStopsTestImmediately(t *testing.T) {
	reached := false
	results := Run(nil, nil, func(c *Context) {
		c.Run("stops", func(c *Context) {
			require.NoError(c, errors.New("sorry"))
			reached = true
		})
	})
	assert.False(t, reached)
	require.Len(t, results.Failures, 1)
	assert.NotEmpty(t, results.Failures[0].Errors)
}

func TestUnexpectedPanicIsAFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("panics", func(c *Context) {
			panic("boom")
		})
	})
	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic in test: boom")
}

func TestFailNowWithoutMessage(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.Run("silent", func(c *Context) {
			c.FailNow()
		})
	})
	require.Len(t, results.Failures, 1)
	assert.EqualError(t, results.Failures[0].Errors[0], "test failed with no failure message")
}

func TestSkippedTestIsNotAFailure(t *testing.T) {
	tl := newRecordingTestLogger()
	results := Run(nil, tl, func(c *Context) {
		c.Run("skipped", func(c *Context) {
			c.SkipWithReason("not today")
		})
	})
	assert.True(t, results.OK())
	assert.Equal(t, "not today", tl.skipped["skipped"])
}

func TestFilterExcludesTests(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("^excluded"))

	tl := newRecordingTestLogger()
	ran := false
	Run(filters.AsFilter, tl, func(c *Context) {
		c.Run("excluded", func(c *Context) { ran = true })
	})
	assert.False(t, ran)
	assert.Equal(t, "excluded by filter parameters", tl.skipped["excluded"])
}

func TestDeferredFunctionsRunInReverseOrderEvenOnFailure(t *testing.T) {
	var order []int
	Run(nil, nil, func(c *Context) {
		c.Run("cleanup", func(c *Context) {
			c.Defer(func() { order = append(order, 1) })
			c.Defer(func() { order = append(order, 2) })
			require.Fail(c, "failing on purpose")
		})
	})
	assert.Equal(t, []int{2, 1}, order)
}

func TestSubtestIDsAreNested(t *testing.T) {
	var innerID TestID
	Run(nil, nil, func(c *Context) {
		c.Run("outer", func(c *Context) {
			c.Run("inner", func(c *Context) {
				innerID = c.ID()
			})
		})
	})
	assert.Equal(t, "outer/inner", innerID.String())
}
