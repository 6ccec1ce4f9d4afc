// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mdhender/hdlir"
	"github.com/mdhender/hdlir/model"
	"github.com/mdhender/hdlir/sources"
	"github.com/spf13/afero"
)

// IngestService parses source files and stores the modules.
type IngestService struct {
	store     IngestStore
	validator Validator
	options   []hdlir.Option
	fs        afero.Fs
	logger    *slog.Logger
}

// IngestStore defines the store operations needed by IngestService.
type IngestStore interface {
	GetSourceByDigest(ctx context.Context, digest string) (*model.Source, error)
	InsertModule(ctx context.Context, src *model.Source, m *hdlir.Module) (int64, error)
}

// Validator checks a parsed module before it is stored.
type Validator interface {
	Validate(m *hdlir.Module) error
}

// NewIngestService creates a new IngestService.
// The validator may be nil. Options are passed to the parser.
func NewIngestService(store IngestStore, validator Validator, logger *slog.Logger, options ...hdlir.Option) *IngestService {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestService{
		store:     store,
		validator: validator,
		options:   options,
		fs:        afero.NewOsFs(),
		logger:    logger,
	}
}

// SetFS sets the filesystem for testing.
func (s *IngestService) SetFS(fs afero.Fs) {
	s.fs = fs
}

// IngestResult contains the result of an ingest operation.
type IngestResult struct {
	Path      string
	Digest    string
	SourceID  int64
	ModuleID  int64  // zero for duplicates
	Module    string // module name; empty for duplicates
	Duplicate bool   // true if file was already ingested (idempotent no-op)
}

// IngestFile parses a single file and stores the module.
// Returns IngestResult with Duplicate=true if the same contents were already stored.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*IngestResult, error) {
	started := time.Now()

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, &ErrReadFile{Op: "read", Path: path, Err: err}
	}
	digest := sources.Digest(data)

	existing, err := s.store.GetSourceByDigest(ctx, digest)
	if err != nil {
		return nil, &ErrDatabase{Op: "check duplicate", Err: err}
	}
	if existing != nil {
		s.logger.Debug("ingest: duplicate", "path", path, "source", existing.ID)
		return &IngestResult{
			Path:      path,
			Digest:    digest,
			SourceID:  existing.ID,
			Duplicate: true,
		}, nil
	}

	m, err := hdlir.ParseModule(string(data), s.options...)
	if err != nil {
		return nil, &ErrParseSyntax{Path: path, Err: err}
	}
	if s.validator != nil {
		if err := s.validator.Validate(m); err != nil {
			return nil, &ErrContract{Path: path, Err: err}
		}
	}

	src := &model.Source{
		Path:      path,
		Digest:    digest,
		Size:      int64(len(data)),
		CreatedAt: time.Now().UTC(),
	}
	moduleID, err := s.store.InsertModule(ctx, src, m)
	if err != nil {
		return nil, &ErrDatabase{Op: "insert module", Err: err}
	}

	s.logger.Debug("ingest: stored", "path", path, "module", m.Name, "signals", len(m.Signals), "assignments", len(m.Assignments), "elapsed", time.Since(started))
	return &IngestResult{
		Path:     path,
		Digest:   digest,
		SourceID: src.ID,
		ModuleID: moduleID,
		Module:   m.Name,
	}, nil
}

// IngestTree collects every source file under root and ingests them in path order.
// It stops at the first error, returning the results so far.
func (s *IngestService) IngestTree(ctx context.Context, root string) ([]IngestResult, error) {
	files, err := sources.Collect(s.fs, root, false)
	if err != nil {
		return nil, &ErrReadFile{Op: "collect", Path: root, Err: err}
	}

	var results []IngestResult
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("ingest %s: %w", root, err)
		}
		result, err := s.IngestFile(ctx, file.Path)
		if err != nil {
			return results, err
		}
		results = append(results, *result)
	}
	s.logger.Info("ingest: tree", "root", root, "files", len(files), "stored", countStored(results))
	return results, nil
}

func countStored(results []IngestResult) (n int) {
	for _, r := range results {
		if !r.Duplicate {
			n++
		}
	}
	return n
}
