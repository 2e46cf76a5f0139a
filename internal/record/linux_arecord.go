package record

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"time"
)

type alsaBackend struct{}

func newALSABackend() Backend {
	return &alsaBackend{}
}

func (b *alsaBackend) Name() string {
	return "arecord"
}

func (b *alsaBackend) Available() bool {
	return commandAvailable("arecord")
}

func (b *alsaBackend) Capture(ctx context.Context, cfg Config) error {
	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		return err
	}

	args := alsaArgs(cfg)
	cmd := exec.CommandContext(ctx, "arecord", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	// arecord bounds itself through -d; the timer is only a backstop.
	return runBoundedCommand(ctx, cmd, 0, cfg.Logger)
}

func alsaArgs(cfg Config) []string {
	args := []string{
		"-f", "S16_LE",
		"-r", strconv.Itoa(defaultSampleRate(cfg.SampleRate)),
		"-c", strconv.Itoa(defaultChannels(cfg.Channels)),
	}
	if cfg.PhraseLimit > 0 {
		seconds := int(cfg.PhraseLimit / time.Second)
		if seconds <= 0 {
			seconds = 1
		}
		args = append(args, "-d", strconv.Itoa(seconds))
	}
	if cfg.Input != "" {
		args = append(args, "-D", cfg.Input)
	}
	return append(args, cfg.OutputPath)
}

func (b *alsaBackend) ListDevices(ctx context.Context) (string, error) {
	return commandOutput(ctx, "arecord", "-L")
}
