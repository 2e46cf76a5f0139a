package record

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
)

var ErrNoBackendAvailable = errors.New("no capture backend available")

// Config bounds one utterance capture. The capture always runs timed: the
// phrase limit is the longest stretch of audio submitted for recognition.
type Config struct {
	OutputPath  string
	PhraseLimit time.Duration
	SampleRate  int
	Channels    int
	Input       string
	Format      string
	Logger      *zap.Logger
}

// Backend records one utterance into a WAV file through an external capture
// command. The microphone is held only for the duration of the command:
// success, timeout, or error all release it.
type Backend interface {
	Name() string
	Available() bool
	Capture(ctx context.Context, cfg Config) error
	ListDevices(ctx context.Context) (string, error)
}

func DefaultBackends(goos string) []Backend {
	switch goos {
	case "linux":
		return []Backend{newPipeWireBackend(), newALSABackend(), newFFMPEGLinuxBackend()}
	case "darwin":
		return []Backend{newFFMPEGMacOSBackend()}
	default:
		return nil
	}
}

// CaptureUtterance records through the preferred backend, falling back to
// the remaining backends on failure. Returns the name of the backend that
// produced the capture.
func CaptureUtterance(ctx context.Context, preferred string, cfg Config) (string, error) {
	backends := DefaultBackends(runtime.GOOS)
	if len(backends) == 0 {
		return "", fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}

	return captureWithFallback(ctx, backends, preferred, cfg)
}

func captureWithFallback(ctx context.Context, backends []Backend, preferred string, cfg Config) (string, error) {
	ordered, err := orderBackends(backends, preferred)
	if err != nil {
		return "", err
	}

	var errs []error
	for _, backend := range ordered {
		if !backend.Available() {
			errs = append(errs, fmt.Errorf("%s: backend is not available", backend.Name()))
			continue
		}

		err := backend.Capture(ctx, cfg)
		if err == nil {
			return backend.Name(), nil
		}

		if cleanupErr := removePartialCapture(cfg.OutputPath); cleanupErr != nil {
			errs = append(errs, fmt.Errorf("%s: cleanup partial capture %q: %w", backend.Name(), cfg.OutputPath, cleanupErr))
		}

		err = fmt.Errorf("%s: %w", backend.Name(), err)
		errs = append(errs, err)

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
	}

	if len(errs) == 0 {
		return "", ErrNoBackendAvailable
	}

	return "", fmt.Errorf("capture utterance with available backends: %w", errors.Join(errs...))
}

func orderBackends(backends []Backend, preferred string) ([]Backend, error) {
	if len(backends) == 0 {
		return nil, errors.New("no backends configured")
	}

	if preferred == "" || preferred == "auto" {
		return backends, nil
	}

	preferredIndex := -1
	for i, backend := range backends {
		if backend.Name() == preferred {
			preferredIndex = i
			break
		}
	}
	if preferredIndex == -1 {
		return nil, fmt.Errorf("unknown backend %q", preferred)
	}

	ordered := make([]Backend, 0, len(backends))
	ordered = append(ordered, backends[preferredIndex])
	for i, backend := range backends {
		if i == preferredIndex {
			continue
		}
		ordered = append(ordered, backend)
	}

	return ordered, nil
}

func removePartialCapture(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return err
}

// runBoundedCommand starts the capture command and stops it with an
// interrupt once the phrase limit elapses. Backends whose command takes its
// own duration flag pass 0 and let the command end itself.
func runBoundedCommand(ctx context.Context, cmd *exec.Cmd, limit time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if limit <= 0 {
		return cmd.Run()
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		stopSignalSent := cmd.Process.Signal(os.Interrupt) == nil
		err := <-done
		if err == nil {
			return nil
		}

		if stopSignalSent {
			logger.Debug("capture process exited after stop signal", zap.Error(err))
			return nil
		}

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				logger.Debug("capture process stopped by signal", zap.String("signal", status.Signal().String()))
				return nil
			}
		}

		return err
	case <-ctx.Done():
		_ = cmd.Process.Signal(os.Interrupt)
		<-done
		return ctx.Err()
	}
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func commandOutput(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if err != nil {
		if trimmed != "" {
			return "", fmt.Errorf("%s %s failed: %w (%s)", name, strings.Join(args, " "), err, trimmed)
		}
		return "", fmt.Errorf("%s %s failed: %w", name, strings.Join(args, " "), err)
	}
	return trimmed, nil
}

func defaultSampleRate(value int) int {
	if value <= 0 {
		return 16000
	}
	return value
}

func defaultChannels(value int) int {
	if value <= 0 {
		return 1
	}
	return value
}

func ensureOutputDir(path string) error {
	if path == "" {
		return fmt.Errorf("output path is required")
	}
	return os.MkdirAll(filepath.Dir(filepath.Clean(path)), 0o755)
}
