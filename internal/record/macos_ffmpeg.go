package record

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

type ffmpegMacBackend struct{}

func newFFMPEGMacOSBackend() Backend {
	return &ffmpegMacBackend{}
}

func (b *ffmpegMacBackend) Name() string {
	return "ffmpeg"
}

func (b *ffmpegMacBackend) Available() bool {
	return commandAvailable("ffmpeg")
}

func (b *ffmpegMacBackend) Capture(ctx context.Context, cfg Config) error {
	if err := ensureOutputDir(cfg.OutputPath); err != nil {
		return err
	}

	input := cfg.Input
	if input == "" {
		input = ":0"
	}

	args := []string{"-nostdin", "-hide_banner", "-loglevel", "error", "-y", "-f", "avfoundation", "-i", input}
	if cfg.PhraseLimit > 0 {
		seconds := int(cfg.PhraseLimit / time.Second)
		if seconds <= 0 {
			seconds = 1
		}
		args = append(args, "-t", strconv.Itoa(seconds))
	}
	args = append(args,
		"-ac", strconv.Itoa(defaultChannels(cfg.Channels)),
		"-ar", strconv.Itoa(defaultSampleRate(cfg.SampleRate)),
		"-c:a", "pcm_s16le",
		cfg.OutputPath,
	)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	return runBoundedCommand(ctx, cmd, 0, cfg.Logger)
}

func (b *ffmpegMacBackend) ListDevices(ctx context.Context) (string, error) {
	cmd := exec.CommandContext(ctx, "ffmpeg", "-hide_banner", "-f", "avfoundation", "-list_devices", "true", "-i", "")
	out, _ := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return "", fmt.Errorf("ffmpeg returned no device output")
	}
	return trimmed, nil
}
