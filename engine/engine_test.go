package engine

import (
	"testing"
	"time"

	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(EngineTestSuite))

type EngineTestSuite struct{}

func (s *EngineTestSuite) TestNewValidatesBounds(c *gc.C) {
	_, err := New(0, 1, 1)
	c.Assert(err, gc.NotNil)

	_, err = New(MaxLanes+1, 1, 1)
	c.Assert(err, gc.NotNil)

	_, err = New(1, 0, 1)
	c.Assert(err, gc.NotNil)

	_, err = New(1, 61, 1)
	c.Assert(err, gc.NotNil)

	_, err = New(1, 1, 0)
	c.Assert(err, gc.NotNil)

	_, err = New(1, 1, 301)
	c.Assert(err, gc.NotNil)

	e, err := New(2, 1, 1)
	c.Assert(err, gc.IsNil)
	c.Assert(e, gc.NotNil)
	c.Assert(len(e.Lanes()), gc.Equals, 2)
}

func (s *EngineTestSuite) TestStartStopJoinsWithinBound(c *gc.C) {
	e, err := New(1, 1, 1)
	c.Assert(err, gc.IsNil)

	e.Start()
	time.Sleep(50 * time.Millisecond)

	stopped := make(chan error, 1)
	go func() { stopped <- e.Stop() }()

	select {
	case err := <-stopped:
		c.Assert(err, gc.IsNil)
	case <-time.After(5 * time.Second):
		c.Fatal("engine did not shut down within bound")
	}
}

func (s *EngineTestSuite) TestStopWithoutStartIsNoop(c *gc.C) {
	e, err := New(1, 1, 1)
	c.Assert(err, gc.IsNil)
	c.Assert(e.Stop(), gc.IsNil)
}

func (s *EngineTestSuite) TestEndToEndAdmitsAndCompletesOrders(c *gc.C) {
	e, err := New(2, 1, 1)
	c.Assert(err, gc.IsNil)

	// Fast-forward the generator's cadence and the worker's ingredient
	// step so the test doesn't wait on real-world seconds.
	e.generator.SetClock(instantClock{})
	e.workerStep = time.Millisecond

	e.Start()
	defer e.Stop()

	deadline := time.After(5 * time.Second)
	for e.TotalCompleted() == 0 {
		select {
		case <-deadline:
			c.Fatal("no order completed within bound")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}

	c.Assert(e.TotalAdmitted() > 0, gc.Equals, true)
}

type instantClock struct{}

func (instantClock) Sleep(time.Duration) {}
