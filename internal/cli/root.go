package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/AshayV04/Speech-to-Speech-Translator/internal/artifact"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/clipboard"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/language"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/logging"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/platform"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/playback"
	"github.com/AshayV04/Speech-to-Speech-Translator/internal/version"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type appState struct {
	verbose     bool
	jsonLogs    bool
	noProgress  bool
	from        string
	to          string
	recognizer  string
	synthesizer string
	voice       string
	backend     string
	input       string
	inputFormat string

	listenTimeout time.Duration
	phraseLimit   time.Duration
	silenceGate   bool
	silenceDBFS   float64

	copyResult bool
	keepAudio  bool
	once       bool

	source language.Language
	target language.Language

	logger *zap.Logger
	now    func() time.Time
	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// state tracks the Idle/Listening machine; at most one recognition
	// attempt is ever in flight.
	state atomic.Int32

	store  *artifact.Store
	player playback.Player

	captureFn   func(ctx context.Context, lang language.Language) (string, error)
	translateFn func(ctx context.Context, text string, source, target language.Language) (string, error)
	speakFn     func(ctx context.Context, text string, lang language.Language) (string, error)
	copyFn      func(ctx context.Context, value string) error
}

func NewRootCmd() *cobra.Command {
	app := &appState{
		from:          language.DefaultSource().Code,
		to:            language.DefaultTarget().Code,
		recognizer:    "google",
		synthesizer:   "google",
		backend:       "auto",
		listenTimeout: 5 * time.Second,
		phraseLimit:   10 * time.Second,
		silenceGate:   true,
		silenceDBFS:   -65,
		now:           time.Now,
		in:            os.Stdin,
		out:           os.Stdout,
		errOut:        os.Stderr,
	}
	app.captureFn = app.captureUtterance
	app.translateFn = app.translateText
	app.speakFn = app.synthesizeAndPlay
	app.copyFn = clipboard.CopyText

	cmd := &cobra.Command{
		Use:           "s2st",
		Short:         "Speak in one language and hear the translation in another",
		Long:          "s2st captures an utterance from the microphone, recognizes it with a speech service, translates the text, and plays back a synthesized rendition in the target language.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			// API keys for the alternate providers live in the
			// environment; a local .env is honored when present.
			_ = godotenv.Load()

			logger, err := logging.New(logging.Options{Verbose: app.verbose, JSON: app.jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			app.logger = logger

			return app.resolveLanguages()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app.out = cmd.OutOrStdout()
			app.errOut = cmd.ErrOrStderr()
			defer app.shutdown()

			if app.once {
				if err := app.runCycle(cmd.Context()); err != nil {
					return app.notify(err)
				}
				if app.player != nil {
					app.player.Drain()
				}
				return nil
			}
			return app.runSession(cmd.Context())
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindLanguageFlags(cmd, app)
	bindProviderFlags(cmd, app)
	bindCaptureFlags(cmd, app)
	bindOutputFlags(cmd, app)
	cmd.Flags().BoolVar(&app.once, "once", false, "Run a single capture-translate-speak cycle and exit")

	cmd.AddCommand(newListenCmd(app))
	cmd.AddCommand(newTranslateCmd(app))
	cmd.AddCommand(newSpeakCmd(app))
	cmd.AddCommand(newLanguagesCmd())
	cmd.AddCommand(newDevicesCmd(app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.verbose, "verbose", app.verbose, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.jsonLogs, "json", app.jsonLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.noProgress, "no-progress", app.noProgress, "Disable progress indicators")
}

func bindLanguageFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.from, "from", app.from, "Source language code or name (run \"s2st languages\")")
	cmd.PersistentFlags().StringVar(&app.to, "to", app.to, "Target language code or name")
}

func bindProviderFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.recognizer, "recognizer", app.recognizer, "Recognition provider: google|whisper")
	cmd.PersistentFlags().StringVar(&app.synthesizer, "synthesizer", app.synthesizer, "Synthesis provider: google|elevenlabs")
	cmd.PersistentFlags().StringVar(&app.voice, "voice", app.voice, "Voice id for providers with selectable voices")
}

func bindCaptureFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.backend, "backend", app.backend, "Capture backend: auto|pw-record|arecord|ffmpeg")
	cmd.PersistentFlags().StringVar(&app.input, "input", app.input, "Input device (run \"s2st devices\" to list)")
	cmd.PersistentFlags().StringVar(&app.inputFormat, "input-format", app.inputFormat, "Input format for the ffmpeg backend (pulse|alsa)")
	cmd.PersistentFlags().DurationVar(&app.listenTimeout, "listen-timeout", app.listenTimeout, "Extra budget for the capture to start before the attempt times out")
	cmd.PersistentFlags().DurationVar(&app.phraseLimit, "phrase-limit", app.phraseLimit, "Longest utterance submitted for recognition")
	cmd.PersistentFlags().BoolVar(&app.silenceGate, "silence-gate", app.silenceGate, "Classify silence-only captures without a service call")
	cmd.PersistentFlags().Float64Var(&app.silenceDBFS, "silence-threshold-dbfs", app.silenceDBFS, "Silence gate threshold in dBFS")
}

func bindOutputFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.copyResult, "copy", app.copyResult, "Copy the translated text to the clipboard")
	cmd.PersistentFlags().BoolVar(&app.keepAudio, "keep-audio", app.keepAudio, "Keep recordings and speech artifacts instead of removing them")
}

func (a *appState) resolveLanguages() error {
	source, err := language.Lookup(a.from)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}

	target, err := language.Lookup(a.to)
	if err != nil {
		return fmt.Errorf("--to: %w", err)
	}

	a.source = source
	a.target = target
	return nil
}

func (a *appState) log() *zap.Logger {
	if a.logger == nil {
		return zap.NewNop()
	}
	return a.logger
}

func (a *appState) progressEnabled() bool {
	if a.noProgress {
		return false
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

func (a *appState) errWriter() io.Writer {
	if a.errOut == nil {
		return os.Stderr
	}
	return a.errOut
}

func (a *appState) stdin() io.Reader {
	if a.in == nil {
		return os.Stdin
	}
	return a.in
}

func (a *appState) artifactStore() (*artifact.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	dir, err := platform.ResolveSpeechDir()
	if err != nil {
		return nil, err
	}

	store, err := artifact.NewStore(dir, a.keepAudio, a.log())
	if err != nil {
		return nil, err
	}

	a.store = store
	return store, nil
}

func (a *appState) playerHandle() playback.Player {
	if a.player == nil {
		a.player = playback.NewSpeakerPlayer(a.log())
	}
	return a.player
}

// shutdown stops playback and removes the remaining transient artifact.
// Deletion failure is logged inside the store, never surfaced.
func (a *appState) shutdown() {
	if a.player != nil {
		a.player.Stop()
	}
	if a.store != nil {
		a.store.Cleanup()
	}
}

func (a *appState) recordingOutputPath() (string, error) {
	dir, err := platform.ResolveRecordingDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create recording directory %s: %w", dir, err)
	}

	return filepath.Join(dir, fmt.Sprintf("utterance-%s.wav", a.now().Format("20060102-150405"))), nil
}
