package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store owns the transient audio files produced by synthesis. It keeps at
// most one active artifact: assigning a new one removes the previous file
// first, and Cleanup removes whatever is left at shutdown.
type Store struct {
	dir     string
	current string
	keep    bool
	logger  *zap.Logger
}

func NewStore(dir string, keep bool, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifact directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory %s: %w", dir, err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{dir: dir, keep: keep, logger: logger}, nil
}

// Put writes a fresh uniquely named .mp3 artifact and makes it current,
// deleting the one it replaces unless the store keeps audio.
func (s *Store) Put(audio []byte) (string, error) {
	path := filepath.Join(s.dir, fmt.Sprintf("speech-%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("write audio artifact: %w", err)
	}

	previous := s.current
	s.current = path

	if previous != "" && !s.keep {
		if err := os.Remove(previous); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("failed to remove replaced audio artifact", zap.String("path", previous), zap.Error(err))
		}
	}

	return path, nil
}

func (s *Store) Current() string {
	return s.current
}

// Cleanup removes the current artifact best-effort. Failure is logged, never
// surfaced.
func (s *Store) Cleanup() {
	if s.current == "" || s.keep {
		return
	}

	if err := os.Remove(s.current); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove audio artifact at shutdown", zap.String("path", s.current), zap.Error(err))
		return
	}
	s.current = ""
}
