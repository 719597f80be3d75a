package desim_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dcsdes/desim"
)

func TestEventAccessorsReflectScheduling(t *testing.T) {
	e := desim.NewEngine()
	src := desim.NewEventSource("accessors")

	var seen *desim.Event
	src.Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
		seen = ev
	}))

	e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
		ctx.Schedule(src, 7, "payload")
	}))

	require.NoError(t, e.Run())
	require.NotNil(t, seen)
	require.Equal(t, desim.VTimeInSec(7), seen.FireTime())
	require.Equal(t, "payload", seen.Payload())
	require.Equal(t, src, seen.Source())
	require.False(t, seen.IsInternal())
	require.NotEmpty(t, seen.ID())
}

func TestEventIsInternalForBuiltinSources(t *testing.T) {
	e := desim.NewEngine()

	var beginEvent *desim.Event
	e.BeginOfSimEventSource().Connect(desim.SinkFunc(func(ev *desim.Event, ctx *desim.Context) {
		beginEvent = ev
	}))

	require.NoError(t, e.Run())
	require.NotNil(t, beginEvent)
	require.True(t, beginEvent.IsInternal())
}
