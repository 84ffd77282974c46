package optkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatch_RegistrationOrderAndFinalState(t *testing.T) {
	c, _ := newTestCli(t, "-b", "1", "-c", "-a", "x", "-b", "2")

	var calls []string
	var seenB []string
	record := func(o *Option) { calls = append(calls, o.Key()) }

	_, err := c.AddOption("-a", Spec{OnExists: record})
	require.NoError(t, err)
	_, err = c.AddOption("-b", Spec{OnExists: func(o *Option) {
		record(o)
		seenB = o.Values()
	}})
	require.NoError(t, err)
	_, err = c.AddFlag("-c", Spec{})
	require.NoError(t, err)
	_, err = c.AddFlag("-d", Spec{OnExists: record})
	require.NoError(t, err)

	require.NoError(t, c.Parse())

	assert.Equal(t, []string{"-a", "-b"}, calls, "absent options and options without callbacks are skipped")
	assert.Equal(t, []string{"1", "2"}, seenB, "callbacks see final values")
}

func TestDispatch_NotRunOnFailure(t *testing.T) {
	c, _ := newTestCli(t, "-a", "x", "stray-after-value", "extra")
	ran := false
	_, err := c.AddOption("-a", Spec{OnExists: func(*Option) { ran = true }})
	require.NoError(t, err)

	require.Error(t, c.Parse())
	assert.False(t, ran)
}

func TestDispatch_PromptedAndSourcedOptions(t *testing.T) {
	c, _ := newPromptCli(t, "typed\n")
	c.WithSource(&mapSource{name: "env", data: map[string]any{"b": "sourced"}})

	got := map[string]string{}
	record := func(o *Option) { got[o.Key()] = o.Value() }
	_, err := c.AddOption("-a", Spec{Mandatory: true, OnExists: record})
	require.NoError(t, err)
	_, err = c.AddOption("-b", Spec{OnExists: record})
	require.NoError(t, err)

	require.NoError(t, c.Parse())
	assert.Equal(t, map[string]string{"-a": "typed", "-b": "sourced"}, got)
}

func TestDispatch_DeferredFollowUps(t *testing.T) {
	c, _ := newTestCli(t, "-a", "-b")

	var calls []string
	_, err := c.AddFlag("-a", Spec{OnExists: func(o *Option) {
		calls = append(calls, "-a")
		require.NoError(t, c.Defer(func() {
			calls = append(calls, "after -a")
			require.NoError(t, c.Defer(func() { calls = append(calls, "after after -a") }))
		}))
	}})
	require.NoError(t, err)
	_, err = c.AddFlag("-b", Spec{OnExists: func(o *Option) {
		calls = append(calls, "-b")
	}})
	require.NoError(t, err)

	require.NoError(t, c.Parse())
	assert.Equal(t, []string{"-a", "-b", "after -a", "after after -a"}, calls)
}

func TestDefer_OutsideCallback(t *testing.T) {
	c, _ := newTestCli(t)
	assert.ErrorIs(t, c.Defer(func() {}), ErrNotDispatching)

	require.NoError(t, c.Parse())
	assert.ErrorIs(t, c.Defer(func() {}), ErrNotDispatching, "the queue is gone after dispatch")
}
