package generator

import (
	"context"
	"testing"
	"time"

	"github.com/aszurita/burgerline/fifo"
	"github.com/aszurita/burgerline/generator/mocks"
	"github.com/aszurita/burgerline/menu"
	"github.com/golang/mock/gomock"
	gc "gopkg.in/check.v1"
)

func Test(t *testing.T) { gc.TestingT(t) }

var _ = gc.Suite(new(GeneratorTestSuite))

type GeneratorTestSuite struct{}

// instantClock sleeps not at all, so tests don't pay real wall-clock cost
// for interarrival delay.
type instantClock struct{}

func (instantClock) Sleep(time.Duration) {}

func (s *GeneratorTestSuite) TestRunAdmitsOrdersUntilCancelled(c *gc.C) {
	q := fifo.New(10)
	g := New(q, time.Millisecond)
	g.SetClock(instantClock{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	deadline := time.After(time.Second)
	for q.Len() < 3 {
		select {
		case <-deadline:
			c.Fatal("generator did not admit enough orders in time")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	select {
	case err := <-done:
		c.Assert(err, gc.IsNil)
	case <-time.After(time.Second):
		c.Fatal("generator did not exit after cancellation")
	}

	c.Assert(g.TotalAdmitted() >= 3, gc.Equals, true)
}

func (s *GeneratorTestSuite) TestSynthesizeUsesProvidedRandomizer(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	rnd := mocks.NewMockRandomizer(ctrl)
	rnd.EXPECT().Intn(len(menu.Catalogue)).Return(1)

	q := fifo.New(1)
	g := New(q, time.Hour)
	g.SetRandomizer(rnd)

	o, err := g.synthesize()
	c.Assert(err, gc.IsNil)
	c.Assert(o.Kind, gc.Equals, 1)
	c.Assert(o.Name, gc.Equals, menu.Catalogue[1].Name)
	c.Assert(o.Recipe, gc.DeepEquals, menu.Catalogue[1].Ingredients)
}

func (s *GeneratorTestSuite) TestRunExitsOnCancelWhileBlockedOnFullQueue(c *gc.C) {
	q := fifo.New(1)
	g := New(q, time.Millisecond)
	g.SetClock(instantClock{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Run(ctx) }()

	deadline := time.After(time.Second)
	for q.Len() < 1 {
		select {
		case <-deadline:
			c.Fatal("generator never filled the queue")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	cancel()
	select {
	case err := <-done:
		c.Assert(err, gc.IsNil)
	case <-time.After(time.Second):
		c.Fatal("generator did not exit while blocked on a full queue")
	}
}
