package integration_tests

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stickernest/stickernest/internal/app"
	"github.com/stickernest/stickernest/internal/cli"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		args           []string
		expectExit     bool
		expectErr      bool
		expectedConfig *app.Config
		checkOutput    func(t *testing.T, output string)
	}{
		{
			name: "Happy Path with all flags",
			args: []string{
				"-preset", "grocery-management-pipeline",
				"--presets-path=/test/presets",
				"--widgets-path=/test/widgets",
				"--state-db=/test/state.db",
				"--gateway-port=9000",
				"--healthcheck-port=8080",
				"--log-level=debug",
				"--log-format=text",
			},
			expectedConfig: &app.Config{
				PresetID:        "grocery-management-pipeline",
				PresetsPath:     "/test/presets",
				WidgetsPath:     "/test/widgets",
				StateDBPath:     "/test/state.db",
				GatewayPort:     9000,
				HealthcheckPort: 8080,
				LogLevel:        "debug",
				LogFormat:       "text",
			},
		},
		{
			name: "Shorthand flag and defaults",
			args: []string{"-p", "myspace-profile-page"},
			expectedConfig: &app.Config{
				PresetID:        "myspace-profile-page",
				GatewayPort:     4455,
				HealthcheckPort: 0,
				LogLevel:        "info",
				LogFormat:       "json",
			},
		},
		{
			name: "Positional argument for preset id",
			args: []string{"game-arcade"},
			expectedConfig: &app.Config{
				PresetID:    "game-arcade",
				GatewayPort: 4455,
				LogLevel:    "info",
				LogFormat:   "json",
			},
		},
		{
			name:       "No arguments prints usage and exits cleanly",
			args:       []string{},
			expectExit: true,
			checkOutput: func(t *testing.T, output string) {
				require.Contains(t, output, "Usage:")
				require.Contains(t, output, "PRESET_ID")
			},
		},
		{
			name:       "Help flag exits cleanly",
			args:       []string{"-h"},
			expectExit: true,
		},
		{
			name:      "Invalid log format is rejected",
			args:      []string{"-p", "game-arcade", "--log-format=xml"},
			expectErr: true,
		},
		{
			name:      "Invalid log level is rejected",
			args:      []string{"-p", "game-arcade", "--log-level=verbose"},
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var output bytes.Buffer
			config, shouldExit, err := cli.Parse(tc.args, &output)

			if tc.expectErr {
				require.Error(t, err)
				var exitErr *cli.ExitError
				require.ErrorAs(t, err, &exitErr)
				require.Equal(t, 2, exitErr.Code)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expectExit, shouldExit)

			if tc.expectedConfig != nil {
				if diff := cmp.Diff(tc.expectedConfig, config); diff != "" {
					t.Errorf("config mismatch (-want +got):\n%s", diff)
				}
			}
			if tc.checkOutput != nil {
				tc.checkOutput(t, output.String())
			}
		})
	}
}

func TestParseRejectsUnknownFlag(t *testing.T) {
	t.Parallel()

	var output bytes.Buffer
	_, _, err := cli.Parse([]string{"--no-such-flag"}, &output)
	require.Error(t, err)
	require.True(t, strings.Contains(output.String(), "flag provided but not defined") ||
		strings.Contains(err.Error(), "flag provided but not defined"))
}
