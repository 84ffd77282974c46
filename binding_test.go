package optkit

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type copyOptions struct {
	Source   string        `opt:"key:-s,alias:--source,mandatory,desc:where to copy from"`
	Targets  []string      `opt:"key:-t,count:3"`
	Mode     string        `opt:"oneof:fast,safe,default:safe"`
	Retries  int           `opt:"min:0,max:5,default:1"`
	Timeout  time.Duration `opt:"default:30s,max:1m"`
	DryRun   bool          `opt:"key:-n"`
	Verbose  int           `opt:"key:-v,flag"`
	Password string        `opt:"secret"`
	Ratio    float64
	Ignored  string `opt:"-"`
	internal string
}

func TestBind_Registration(t *testing.T) {
	c, _ := newTestCli(t)
	var cfg copyOptions

	b, err := c.Bind(&cfg)
	require.NoError(t, err)

	var keys []string
	for _, o := range b.Options() {
		keys = append(keys, o.Key())
	}
	want := []string{"-s", "-t", "--mode", "--retries", "--timeout", "-n", "-v", "--password", "--ratio"}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}

	src, _ := c.Lookup("--source")
	assert.True(t, src.Mandatory())
	assert.Equal(t, "where to copy from", src.Description())

	targets, _ := c.Lookup("-t")
	assert.Equal(t, KindMulti, targets.Kind())
	assert.Equal(t, 3, targets.MaxValues())

	dry, _ := c.Lookup("-n")
	assert.True(t, dry.IsFlag())

	pw, _ := c.Lookup("--password")
	assert.True(t, pw.Secret())

	_, ok := c.Lookup("--ignored")
	assert.False(t, ok)
}

func TestBind_Apply(t *testing.T) {
	c, _ := newTestCli(t,
		"--source", "/data",
		"-t", "a", "b",
		"--retries", "3",
		"-n",
		"-v", "-v",
		"--ratio", "0.25",
	)
	var cfg copyOptions
	b, err := c.Bind(&cfg)
	require.NoError(t, err)
	require.NoError(t, c.Parse())

	require.NoError(t, b.Apply())

	want := copyOptions{
		Source:  "/data",
		Targets: []string{"a", "b"},
		Mode:    "safe",
		Retries: 3,
		Timeout: 30 * time.Second,
		DryRun:  true,
		Verbose: 2,
		Ratio:   0.25,
	}
	if diff := cmp.Diff(want, cfg, cmp.AllowUnexported(copyOptions{})); diff != "" {
		t.Errorf("bound struct mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_TagConstraints(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode string
	}{
		{"oneof violated", []string{"-s", "x", "--mode", "slow"}, ErrCodeConstraint},
		{"max violated", []string{"-s", "x", "--retries", "9"}, ErrCodeConstraint},
		{"not a number", []string{"-s", "x", "--retries", "many"}, ErrCodeConversion},
		{"duration max violated", []string{"-s", "x", "--timeout", "2m"}, ErrCodeConstraint},
		{"missing mandatory", []string{"--mode", "fast"}, ErrCodeMissingMandatory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCli(t, tt.args...)
			var cfg copyOptions
			_, err := c.Bind(&cfg)
			require.NoError(t, err)

			var pe *ParseError
			require.ErrorAs(t, c.Parse(), &pe)
			assert.Equal(t, tt.wantCode, pe.Code)
		})
	}
}

func TestBind_KeepsFieldsOfAbsentOptions(t *testing.T) {
	c, _ := newTestCli(t, "-s", "x")
	cfg := copyOptions{Password: "preset", Ratio: 2}
	b, err := c.Bind(&cfg)
	require.NoError(t, err)
	require.NoError(t, c.Parse())
	require.NoError(t, b.Apply())

	assert.Equal(t, "preset", cfg.Password)
	assert.Equal(t, 2.0, cfg.Ratio)
	assert.Nil(t, cfg.Targets)
}

func TestBind_Errors(t *testing.T) {
	t.Run("not a pointer", func(t *testing.T) {
		c, _ := newTestCli(t)
		_, err := c.Bind(copyOptions{})
		assert.Error(t, err)
	})

	t.Run("nil pointer", func(t *testing.T) {
		c, _ := newTestCli(t)
		_, err := c.Bind((*copyOptions)(nil))
		assert.Error(t, err)
	})

	t.Run("unsupported field", func(t *testing.T) {
		c, _ := newTestCli(t)
		var cfg struct {
			Lookup map[string]string
		}
		_, err := c.Bind(&cfg)
		assert.ErrorContains(t, err, "bind field Lookup")
		assert.Len(t, c.Options(), 1, "nothing but help is registered")
	})

	t.Run("flag on a string", func(t *testing.T) {
		c, _ := newTestCli(t)
		var cfg struct {
			Name string `opt:"flag"`
		}
		_, err := c.Bind(&cfg)
		assert.ErrorContains(t, err, "flag directive needs an integer field")
	})

	t.Run("bad bound", func(t *testing.T) {
		c, _ := newTestCli(t)
		var cfg struct {
			Port int `opt:"min:low"`
		}
		_, err := c.Bind(&cfg)
		assert.ErrorContains(t, err, "invalid min")
	})

	t.Run("duplicate key", func(t *testing.T) {
		c, _ := newTestCli(t)
		var cfg struct {
			A string `opt:"key:-x"`
			B string `opt:"key:-x"`
		}
		_, err := c.Bind(&cfg)
		assert.ErrorIs(t, err, ErrDuplicateKey)
	})
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		want tagConfig
	}{
		{
			name: "empty",
			tag:  "",
			want: tagConfig{},
		},
		{
			name: "key and alias",
			tag:  "key:-p,alias:--port",
			want: tagConfig{key: "-p", alias: "--port"},
		},
		{
			name: "boolean directives",
			tag:  "mandatory,secret,multi,flag",
			want: tagConfig{mandatory: true, secret: true, multi: true, flag: true},
		},
		{
			name: "explicit false",
			tag:  "mandatory:false,secret:true",
			want: tagConfig{secret: true},
		},
		{
			name: "oneof followed by directive",
			tag:  "oneof:a,b,c,default:b",
			want: tagConfig{oneof: []string{"a", "b", "c"}, defValue: "b"},
		},
		{
			name: "oneof last with spaces",
			tag:  "min:1, oneof: x , y",
			want: tagConfig{min: "1", oneof: []string{"x", "y"}},
		},
		{
			name: "count and bounds",
			tag:  "count:4,min:1,max:9",
			want: tagConfig{count: 4, min: "1", max: "9"},
		},
		{
			name: "empty default kept",
			tag:  "default:",
			want: tagConfig{},
		},
		{
			name: "unknown directive ignored",
			tag:  "env:FOO,key:-f",
			want: tagConfig{key: "-f"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseTag(tt.tag)
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(tagConfig{})); diff != "" {
				t.Errorf("parseTag(%q) mismatch (-want +got):\n%s", tt.tag, diff)
			}
		})
	}
}
