package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersCoreFlags(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	require.NotNil(t, cmd.Commands())
	require.NotNil(t, cmd.PersistentFlags().Lookup("from"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("to"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("recognizer"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("synthesizer"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("voice"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("backend"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("listen-timeout"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("phrase-limit"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("silence-gate"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("silence-threshold-dbfs"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("copy"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("keep-audio"))
	require.Equal(t, "en", cmd.PersistentFlags().Lookup("from").DefValue)
	require.Equal(t, "es", cmd.PersistentFlags().Lookup("to").DefValue)
	require.Equal(t, "google", cmd.PersistentFlags().Lookup("recognizer").DefValue)
	require.Equal(t, "google", cmd.PersistentFlags().Lookup("synthesizer").DefValue)
	require.Equal(t, "5s", cmd.PersistentFlags().Lookup("listen-timeout").DefValue)
	require.Equal(t, "10s", cmd.PersistentFlags().Lookup("phrase-limit").DefValue)
	require.Equal(t, "true", cmd.PersistentFlags().Lookup("silence-gate").DefValue)
	require.Equal(t, "-65", cmd.PersistentFlags().Lookup("silence-threshold-dbfs").DefValue)
	require.NotNil(t, cmd.Flags().Lookup("once"))
	require.Equal(t, "false", cmd.Flags().Lookup("once").DefValue)
}

func TestRootHelpParsesSuccessfully(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--help"})

	err := cmd.Execute()
	require.NoError(t, err)
	require.Contains(t, out.String(), "listen")
	require.Contains(t, out.String(), "translate")
	require.Contains(t, out.String(), "speak")
	require.Contains(t, out.String(), "languages")
	require.Contains(t, out.String(), "devices")
}

func TestSubcommandHelpParsesSuccessfully(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{name: "listen", args: []string{"listen", "--help"}, contains: "Capture one utterance"},
		{name: "translate", args: []string{"translate", "--help"}, contains: "Translate text"},
		{name: "speak", args: []string{"speak", "--help"}, contains: "Synthesize text"},
		{name: "languages", args: []string{"languages", "--help"}, contains: "List the supported languages"},
		{name: "devices", args: []string{"devices", "--help"}, contains: "List capture devices"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd := NewRootCmd()
			out := new(bytes.Buffer)
			cmd.SetOut(out)
			cmd.SetErr(out)
			cmd.SetArgs(tt.args)

			err := cmd.Execute()
			require.NoError(t, err)
			require.Contains(t, out.String(), tt.contains)
		})
	}
}

func TestVersionFlagOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, []string{"--version"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "s2st v"), "expected version prefix, got: %s", stdout)
}

func TestResolveLanguagesRejectsUnknown(t *testing.T) {
	t.Parallel()

	app := &appState{from: "klingon", to: "es"}
	err := app.resolveLanguages()
	require.Error(t, err)
	require.Contains(t, err.Error(), "--from")

	app = &appState{from: "en", to: "klingon"}
	err = app.resolveLanguages()
	require.Error(t, err)
	require.Contains(t, err.Error(), "--to")
}

func TestResolveLanguagesAcceptsNames(t *testing.T) {
	t.Parallel()

	app := &appState{from: "english", to: "Hindi"}
	require.NoError(t, app.resolveLanguages())
	require.Equal(t, "en", app.source.Code)
	require.Equal(t, "hi", app.target.Code)
}
