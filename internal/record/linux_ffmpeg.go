package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type ffmpegLinuxBackend struct{}

func newFFMPEGLinuxBackend() Backend {
	return &ffmpegLinuxBackend{}
}

func (b *ffmpegLinuxBackend) Name() string {
	return "ffmpeg"
}

func (b *ffmpegLinuxBackend) Available() bool {
	return commandAvailable("ffmpeg")
}

type ffmpegSource struct {
	format string
	input  string
}

// ffmpegSources resolves the capture sources to try: the pinned format when
// one is selected, otherwise pulse then alsa. The selected input device
// applies either way.
func ffmpegSources(cfg Config) []ffmpegSource {
	input := cfg.Input
	if input == "" {
		input = "default"
	}

	if cfg.Format != "" {
		return []ffmpegSource{{format: cfg.Format, input: input}}
	}

	return []ffmpegSource{
		{format: "pulse", input: input},
		{format: "alsa", input: input},
	}
}

func (b *ffmpegLinuxBackend) Capture(ctx context.Context, cfg Config) error {
	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		return err
	}

	var errs []error
	for _, candidate := range ffmpegSources(cfg) {
		cmd := exec.CommandContext(ctx, "ffmpeg", ffmpegArgs(cfg, candidate.format, candidate.input)...)
		cmd.Stdout = os.Stderr
		cmd.Stderr = os.Stderr

		// -t bounds the capture; the timer is only a backstop.
		err := runBoundedCommand(ctx, cmd, 0, cfg.Logger)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		errs = append(errs, fmt.Errorf("ffmpeg (%s/%s): %w", candidate.format, candidate.input, err))
	}

	return errors.Join(errs...)
}

func ffmpegArgs(cfg Config, format, input string) []string {
	args := []string{"-nostdin", "-hide_banner", "-loglevel", "error", "-y", "-f", format, "-i", input}
	if cfg.PhraseLimit > 0 {
		seconds := int(cfg.PhraseLimit / time.Second)
		if seconds <= 0 {
			seconds = 1
		}
		args = append(args, "-t", strconv.Itoa(seconds))
	}
	return append(args,
		"-ac", strconv.Itoa(defaultChannels(cfg.Channels)),
		"-ar", strconv.Itoa(defaultSampleRate(cfg.SampleRate)),
		"-c:a", "pcm_s16le",
		cfg.OutputPath,
	)
}

func (b *ffmpegLinuxBackend) ListDevices(ctx context.Context) (string, error) {
	var sections []string

	if commandAvailable("pactl") {
		if out, err := commandOutput(ctx, "pactl", "list", "short", "sources"); err == nil {
			sections = append(sections, "PulseAudio/PipeWire sources:\n"+out)
		} else {
			sections = append(sections, "PulseAudio/PipeWire sources: "+err.Error())
		}
	}

	if commandAvailable("arecord") {
		if out, err := commandOutput(ctx, "arecord", "-L"); err == nil {
			sections = append(sections, "ALSA devices:\n"+out)
		} else {
			sections = append(sections, "ALSA devices: "+err.Error())
		}
	}

	if len(sections) == 0 {
		return "", errors.New("no device listing command available")
	}

	return strings.Join(sections, "\n\n"), nil
}
