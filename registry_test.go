package optkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ModeMismatch(t *testing.T) {
	t.Run("tagless after tagged", func(t *testing.T) {
		c, _ := newTestCli(t)
		_, err := c.AddOption("-a", Spec{})
		require.NoError(t, err)

		_, err = c.AddTagless(1, Spec{})
		assert.ErrorIs(t, err, ErrModeMismatch)
	})

	t.Run("tagged after tagless", func(t *testing.T) {
		c, _ := newTestCli(t)
		_, err := c.AddTagless(1, Spec{})
		require.NoError(t, err)

		_, err = c.AddFlag("-f", Spec{})
		assert.ErrorIs(t, err, ErrModeMismatch)
	})

	t.Run("built-in help does not fix the mode", func(t *testing.T) {
		c, _ := newTestCli(t)
		assert.Equal(t, modeUndefined, c.reg.mode)

		_, err := c.AddTagless(1, Spec{})
		require.NoError(t, err)
		assert.Equal(t, modeTagless, c.reg.mode)
	})
}

func TestRegistry_PrioritizeTagless(t *testing.T) {
	c, _ := newTestCli(t)
	o, err := c.AddTagless(1, Spec{})
	require.NoError(t, err)

	assert.ErrorIs(t, c.Prioritize(o), ErrPrioritizationMismatch)
	assert.False(t, o.Prioritized())
}

func TestRegistry_DuplicateKeys(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		alias string
	}{
		{"same key", "-a", ""},
		{"key equals existing alias", "--alpha", ""},
		{"alias equals existing key", "-x", "-a"},
		{"same alias", "-x", "--alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCli(t)
			_, err := c.AddOption("-a", Spec{Alias: "--alpha"})
			require.NoError(t, err)

			_, err = c.AddOption(tt.key, Spec{Alias: tt.alias})
			assert.ErrorIs(t, err, ErrDuplicateKey)
			assert.Len(t, c.Options(), 2, "failed registration leaves the registry unchanged")
		})
	}
}

func TestRegistry_OverrideHelp(t *testing.T) {
	c, _ := newTestCli(t, "-h", "host.local")
	host, err := c.AddOption("-h", Spec{Alias: "--host"})
	require.NoError(t, err)

	_, ok := c.Lookup("--help")
	assert.False(t, ok, "the built-in help is gone")
	assert.Nil(t, c.help)

	require.NoError(t, c.Parse())
	assert.Equal(t, "host.local", host.Value())
}

func TestRegistry_FailedOverrideKeepsHelp(t *testing.T) {
	c, _ := newTestCli(t, "-h")
	_, err := c.AddOption("-a", Spec{})
	require.NoError(t, err)

	_, err = c.AddOption("-h", Spec{Alias: "-a"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	help, ok := c.Lookup("-h")
	require.True(t, ok, "-h still resolves")
	assert.Same(t, c.help, help)
	_, ok = c.Lookup("--help")
	assert.True(t, ok, "--help still resolves")
	assert.Equal(t, "--help", c.help.Alias())

	assert.ErrorIs(t, c.Parse(), ErrShortCircuit)
}

func TestRegistry_FailedRegistrationKeepsMode(t *testing.T) {
	r := newRegistry()
	help := &Option{key: "-h", alias: "--help", builtin: true}
	require.NoError(t, r.register(help))
	require.NoError(t, r.register(&Option{key: "-x", builtin: true}))

	err := r.register(&Option{key: "-x", maxValues: 1})
	require.ErrorIs(t, err, ErrDuplicateKey)
	assert.Equal(t, modeUndefined, r.mode)

	require.NoError(t, r.register(&Option{key: "0", kind: KindTagless, maxValues: 1}))
	assert.Equal(t, modeTagless, r.mode)
}

func TestRegistry_Widths(t *testing.T) {
	r := newRegistry()
	help := &Option{key: "-h", alias: "--help", description: "show this help and exit", builtin: true}
	require.NoError(t, r.register(help))
	require.NoError(t, r.register(&Option{key: "-g", alias: "--größe", description: "Größe", maxValues: 1}))

	assert.Equal(t, 2, r.keyWidth)
	assert.Equal(t, 7, r.aliasWidth, "counted in runes")
	assert.Equal(t, 23, r.descWidth)

	r.remove(help)
	assert.Equal(t, 7, r.aliasWidth)
	assert.Equal(t, 5, r.descWidth, "recomputed without the removed option")

	require.NoError(t, r.register(&Option{key: "--verbose-output", maxValues: 0}))
	assert.Equal(t, 16, r.keyWidth)
}

func TestRegistry_TaglessIDsPerInstance(t *testing.T) {
	for i := 0; i < 2; i++ {
		c, _ := newTestCli(t)
		first, err := c.AddTagless(1, Spec{})
		require.NoError(t, err)
		second, err := c.AddTagless(1, Spec{})
		require.NoError(t, err)

		assert.Equal(t, "0", first.Key())
		assert.Equal(t, "1", second.Key())
	}
}

func TestRegistry_Resolve(t *testing.T) {
	r := newRegistry()
	a := &Option{key: "-a", alias: "--alpha", maxValues: 1}
	require.NoError(t, r.register(a))

	assert.Same(t, a, r.resolve("-a"))
	assert.Same(t, a, r.resolve("--alpha"))
	assert.Nil(t, r.resolve("--beta"))
	assert.Nil(t, r.resolvePriority("-a"))

	require.NoError(t, r.prioritize(a))
	assert.Same(t, a, r.resolvePriority("--alpha"))
	assert.Equal(t, []*Option{a}, r.prioritized())

	r.remove(a)
	assert.Nil(t, r.resolve("--alpha"))
	assert.Nil(t, r.resolvePriority("-a"))
	assert.Empty(t, r.ordered())
}

func TestRegistry_OrderAndWidths(t *testing.T) {
	r := newRegistry()
	opts := []*Option{
		{key: "-c", alias: "--charlie", description: "third letter"},
		{key: "-a", description: "first"},
		{key: "--bravo-long", alias: "-b"},
	}
	for _, o := range opts {
		require.NoError(t, r.register(o))
	}

	assert.Equal(t, opts, r.ordered())
	assert.Equal(t, len("--bravo-long"), r.keyWidth)
	assert.Equal(t, len("--charlie"), r.aliasWidth)
	assert.Equal(t, len("third letter"), r.descWidth)
	assert.True(t, r.owns(opts[1]))
	assert.False(t, r.owns(&Option{key: "-a"}))
}
