package config

import (
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestDurationUnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "60s", want: 60 * time.Second},
		{input: "1m30s", want: 90 * time.Second},
		{input: "1000000000", want: time.Second},
		{input: "soon", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}
}

func TestDurationDecoders(t *testing.T) {
	var fromTOML ReportConfig
	require.NoError(t, toml.Unmarshal([]byte(`chrome_timeout = "30s"`), &fromTOML))
	assert.Equal(t, 30*time.Second, fromTOML.ChromeTimeout.Std())

	var fromYAML ReportConfig
	require.NoError(t, yaml.Unmarshal([]byte("chrome_timeout: 30s\n"), &fromYAML))
	assert.Equal(t, 30*time.Second, fromYAML.ChromeTimeout.Std())

	text, err := Duration(30 * time.Second).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "30s", string(text))
}
