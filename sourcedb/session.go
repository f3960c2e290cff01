// Package sourcedb resolves Python source files to the Bazel targets that own
// them and assembles the per-target source database consumed by type checkers.
package sourcedb

import (
	"context"
	"log/slog"

	"github.com/LegacyCodeHQ/sourcedb/internal/logging"
)

// Options configures a Session.
type Options struct {
	// WorkingDir anchors relative requested paths. Defaults to the workspace root.
	WorkingDir string
	// Interpreter is stamped on every entry.
	Interpreter Interpreter
	// StrictSuffixMatch limits the ownership suffix fallback to whole path
	// segments.
	StrictSuffixMatch bool
	Logger            *slog.Logger
}

// Session holds the state of one query run. Sessions are independent: caches
// are never shared between them.
type Session struct {
	querier       Querier
	cache         *NodeInfoCache
	workspaceRoot string
	opts          Options
	logger        *slog.Logger
}

// NewSession returns a Session querying through querier for the workspace at
// workspaceRoot.
func NewSession(querier Querier, workspaceRoot string, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	if opts.WorkingDir == "" {
		opts.WorkingDir = workspaceRoot
	}
	return &Session{
		querier:       querier,
		cache:         NewNodeInfoCache(querier),
		workspaceRoot: workspaceRoot,
		opts:          opts,
		logger:        logger,
	}
}

// ResolveRoots returns the sorted labels of the targets owning files.
func (s *Session) ResolveRoots(ctx context.Context, files []string) ([]string, error) {
	resolver := &OwnershipResolver{
		querier:       s.querier,
		cache:         s.cache,
		workspaceRoot: s.workspaceRoot,
		workingDir:    s.opts.WorkingDir,
		strictSuffix:  s.opts.StrictSuffixMatch,
		logger:        s.logger,
	}
	return resolver.Resolve(ctx, files)
}

// Traverse resolves the owners of files and walks their dependency closure.
func (s *Session) Traverse(ctx context.Context, files []string) (*Traversal, error) {
	roots, err := s.ResolveRoots(ctx, files)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("resolved root targets", "files", len(files), "roots", roots)

	traversal, err := Traverse(ctx, s.cache, roots)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("traversed dependency closure", "targets", len(traversal.Order))
	return traversal, nil
}

// Build produces the source database for files.
func (s *Session) Build(ctx context.Context, files []string) (*Result, error) {
	traversal, err := s.Traverse(ctx, files)
	if err != nil {
		return nil, err
	}

	assembler := NewAssembler(s.cache, s.workspaceRoot, s.opts.Interpreter)
	if err := assembler.AddAll(traversal.Order); err != nil {
		return nil, err
	}
	return assembler.Result(), nil
}
