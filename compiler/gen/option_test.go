package gen

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithHeader(t *testing.T) {
	t.Run("sets header", func(t *testing.T) {
		c := &Config{}
		err := WithHeader("Code generated by tests. DO NOT EDIT.")(c)

		require.NoError(t, err)
		assert.Equal(t, "Code generated by tests. DO NOT EDIT.", c.Header)
	})

	t.Run("multi-line header returns error", func(t *testing.T) {
		c := &Config{Header: "existing"}
		err := WithHeader("first\nsecond")(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
		assert.Equal(t, "existing", c.Header)
	})
}

func TestWithBuilderSuffix(t *testing.T) {
	tests := []struct {
		name    string
		suffix  string
		wantErr bool
	}{
		{"default", "Builder", false},
		{"custom", "Draft", false},
		{"digits", "Builder2", false},
		{"empty", "", true},
		{"dash", "My-Builder", true},
		{"space", "My Builder", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithBuilderSuffix(tt.suffix)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.suffix, c.BuilderSuffix)
			}
		})
	}
}

func TestWithFileSuffix(t *testing.T) {
	tests := []struct {
		name    string
		suffix  string
		wantErr bool
	}{
		{"default", "_builder.go", false},
		{"generated", ".gen.go", false},
		{"not go", "_builder.txt", true},
		{"test file", "_builder_test.go", true},
		{"path", "/builder.go", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithFileSuffix(tt.suffix)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.suffix, c.FileSuffix)
			}
		})
	}
}

func TestWithBuildTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{"default", "mapbuilder", false},
		{"dotted", "mapbuilder.gen", false},
		{"empty disables", "", false},
		{"expression", "a && b", true},
		{"negated", "!mapbuilder", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{BuildTag: "before"}
			err := WithBuildTag(tt.tag)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
				assert.Equal(t, "before", c.BuildTag)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.tag, c.BuildTag)
			}
		})
	}
}

func TestWithRuntimePkg(t *testing.T) {
	t.Run("sets package", func(t *testing.T) {
		c := &Config{}
		err := WithRuntimePkg("example.com/fork/mapbuilder")(c)

		require.NoError(t, err)
		assert.Equal(t, "example.com/fork/mapbuilder", c.RuntimePkg)
	})

	t.Run("empty package returns error", func(t *testing.T) {
		c := &Config{}
		err := WithRuntimePkg("")(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestWithWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		wantErr bool
	}{
		{"one", 1, false},
		{"many", 16, false},
		{"zero", 0, true},
		{"negative", -1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			err := WithWorkers(tt.workers)(c)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsConfigError(err))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.workers, c.Workers)
			}
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Run("sets logger", func(t *testing.T) {
		l := zap.NewExample()
		c := &Config{}
		err := WithLogger(l)(c)

		require.NoError(t, err)
		assert.Same(t, l, c.Logger)
	})

	t.Run("nil logger returns error", func(t *testing.T) {
		c := &Config{}
		err := WithLogger(nil)(c)

		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func TestConfigApply(t *testing.T) {
	t.Run("applies all options", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithBuilderSuffix("Draft"),
			WithWorkers(2),
		)

		require.NoError(t, err)
		assert.Equal(t, "Draft", c.BuilderSuffix)
		assert.Equal(t, 2, c.Workers)
	})

	t.Run("stops on first error", func(t *testing.T) {
		c := &Config{}
		err := c.Apply(
			WithWorkers(0),
			WithBuilderSuffix("Draft"),
		)

		require.Error(t, err)
		assert.Empty(t, c.BuilderSuffix)
	})
}

func TestConfigApplyAll(t *testing.T) {
	t.Run("collects all errors", func(t *testing.T) {
		c := &Config{}
		err := c.ApplyAll(
			WithWorkers(0),
			WithBuilderSuffix("Draft"),
			WithRuntimePkg(""),
		)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "Workers")
		assert.Contains(t, err.Error(), "RuntimePkg")
		assert.Equal(t, "Draft", c.BuilderSuffix)
	})

	t.Run("returns nil without errors", func(t *testing.T) {
		c := &Config{}
		require.NoError(t, c.ApplyAll(WithWorkers(1)))
	})
}

func TestNewConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		c, err := NewConfig()

		require.NoError(t, err)
		assert.Equal(t, DefaultHeader, c.Header)
		assert.Equal(t, DefaultBuilderSuffix, c.BuilderSuffix)
		assert.Equal(t, DefaultFileSuffix, c.FileSuffix)
		assert.Equal(t, DefaultBuildTag, c.BuildTag)
		assert.Equal(t, DefaultRuntimePkg, c.RuntimePkg)
		assert.Equal(t, runtime.GOMAXPROCS(0), c.Workers)
		assert.NotNil(t, c.Logger)
	})

	t.Run("returns option error", func(t *testing.T) {
		_, err := NewConfig(WithFileSuffix("x"))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingConfig)
	})

	t.Run("MustNewConfig panics", func(t *testing.T) {
		assert.Panics(t, func() {
			MustNewConfig(WithWorkers(-1))
		})
	})
}
