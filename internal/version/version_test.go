package version

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveOutsideGitRepository(t *testing.T) {
	t.Parallel()

	git := func(args ...string) (string, error) {
		return "", errors.New("not a git repository")
	}

	require.Equal(t, "0.1.0", resolveVersion("0.1.0", git))
}

func TestResolveOnReleaseTag(t *testing.T) {
	t.Parallel()

	git := func(args ...string) (string, error) {
		return "v0.1.0", nil
	}

	require.Equal(t, "0.1.0", resolveVersion("0.1.0", git))
}

func TestResolveAppendsDescribeSuffix(t *testing.T) {
	t.Parallel()

	git := func(args ...string) (string, error) {
		switch args[0] {
		case "rev-parse":
			return ".git", nil
		case "describe":
			if len(args) > 2 && args[2] == "--exact-match" {
				return "", errors.New("no tag")
			}
			return "v0.1.0-3-gabc1234", nil
		}
		return "", errors.New("unexpected")
	}

	require.Equal(t, "0.1.0-3-gabc1234", resolveVersion("0.1.0", git))
}

func TestResolveEmptyBase(t *testing.T) {
	t.Parallel()

	git := func(args ...string) (string, error) {
		return "", errors.New("not a git repository")
	}

	require.Equal(t, "0.0.0", resolveVersion("", git))
}
