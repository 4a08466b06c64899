package commands

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/batonkit/baton"
)

// maxGlobMatches caps glob results so a pathological pattern cannot flood
// the conversation.
const maxGlobMatches = 500

// GlobInput is the argument schema for the glob command.
type GlobInput struct {
	Pattern string `json:"pattern" jsonschema:"glob pattern to match files, e.g. **/*.go"`
	Path    string `json:"path" jsonschema:"base directory to search from"`
}

// GlobOutput is the result schema for the glob command.
type GlobOutput struct {
	Matches   []string `json:"matches"`
	Truncated bool     `json:"truncated,omitempty"`
}

// Glob returns a command that finds files matching a glob pattern under a
// base directory. Supports ** for recursive matching.
func Glob() baton.Command {
	return must(baton.NewCommand("glob", "Find files matching a glob pattern. Supports ** for recursive matching.", runGlob))
}

func runGlob(_ context.Context, in GlobInput) (GlobOutput, error) {
	if in.Pattern == "" {
		return GlobOutput{}, errors.New("pattern is required")
	}
	if !doublestar.ValidatePattern(in.Pattern) {
		return GlobOutput{}, fmt.Errorf("invalid glob pattern: %s", in.Pattern)
	}

	info, err := os.Stat(in.Path)
	if err != nil {
		return GlobOutput{}, fmt.Errorf("failed to access path: %w", err)
	}
	if !info.IsDir() {
		return GlobOutput{}, errors.New("path must be a directory")
	}

	out := GlobOutput{Matches: []string{}}
	err = doublestar.GlobWalk(os.DirFS(in.Path), in.Pattern, func(path string, d iofs.DirEntry) error {
		if d.IsDir() {
			return nil
		}
		if len(out.Matches) == maxGlobMatches {
			out.Truncated = true
			return iofs.SkipAll
		}
		out.Matches = append(out.Matches, filepath.FromSlash(path))
		return nil
	})
	if err != nil {
		return GlobOutput{}, fmt.Errorf("error matching pattern: %w", err)
	}
	return out, nil
}
