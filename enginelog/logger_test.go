package enginelog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(LoggerTestSuite))

type LoggerTestSuite struct{}

func (s *LoggerTestSuite) TestLevelCutoff(c *gc.C) {
	var buf bytes.Buffer
	l := New(&Config{Level: LevelWarn, Output: &buf})

	l.Info("should not appear")
	l.Warn("should appear")

	out := buf.String()
	c.Assert(strings.Contains(out, "should not appear"), gc.Equals, false)
	c.Assert(strings.Contains(out, "should appear"), gc.Equals, true)
}

func (s *LoggerTestSuite) TestArgsFormatting(c *gc.C) {
	var buf bytes.Buffer
	l := New(&Config{Level: LevelDebug, Output: &buf})

	l.Info("lane event", "lane", 2, "ingredient", "queso")
	out := buf.String()
	c.Assert(strings.Contains(out, "lane=2"), gc.Equals, true)
	c.Assert(strings.Contains(out, "ingredient=queso"), gc.Equals, true)
}

func (s *LoggerTestSuite) TestDefaultLoggerIsLazilyCreated(c *gc.C) {
	c.Assert(Default(), gc.NotNil)
}

func (s *LoggerTestSuite) TestSetDefaultReplacesInstance(c *gc.C) {
	var buf bytes.Buffer
	custom := New(&Config{Level: LevelDebug, Output: &buf})
	SetDefault(custom)
	defer SetDefault(New(nil))

	Info("via package func")
	c.Assert(strings.Contains(buf.String(), "via package func"), gc.Equals, true)
}

func (s *LoggerTestSuite) TestWithTracePrependsShortenedTraceID(c *gc.C) {
	var buf bytes.Buffer
	l := New(&Config{Level: LevelDebug, Output: &buf})
	id := uuid.New()

	l.WithTrace(id).Info("order admitted", "order_id", 7)

	out := buf.String()
	c.Assert(strings.Contains(out, "trace_id="+id.String()[:8]), gc.Equals, true)
	c.Assert(strings.Contains(out, id.String()), gc.Equals, false)
	c.Assert(strings.Contains(out, "order_id=7"), gc.Equals, true)
}

func (s *LoggerTestSuite) TestWithTraceNilRendersDash(c *gc.C) {
	var buf bytes.Buffer
	l := New(&Config{Level: LevelDebug, Output: &buf})

	l.WithTrace(uuid.Nil).Warn("replenished")

	c.Assert(strings.Contains(buf.String(), "trace_id=-"), gc.Equals, true)
}

func (s *LoggerTestSuite) TestUUIDArgValueIsShortened(c *gc.C) {
	var buf bytes.Buffer
	l := New(&Config{Level: LevelDebug, Output: &buf})
	id := uuid.New()

	l.Info("dispatched", "trace", id)

	out := buf.String()
	c.Assert(strings.Contains(out, "trace="+id.String()[:8]), gc.Equals, true)
	c.Assert(strings.Contains(out, id.String()), gc.Equals, false)
}
