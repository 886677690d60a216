package store

import (
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/thraizz/combat-tracker/internal/encounter"
	"go.uber.org/zap"
)

const (
	archiveVersion = 1
	archiveExt     = ".encounter.gz"
)

// ErrChecksumMismatch is returned when an archive's content does not match
// the checksum recorded when it was written.
var ErrChecksumMismatch = errors.New("archive checksum mismatch")

// ArchiveInfo describes a stored encounter archive.
type ArchiveInfo struct {
	ID           string    `json:"id"`
	ArchivedAt   time.Time `json:"archived_at"`
	Version      int       `json:"version"`
	Checksum     string    `json:"checksum"`
	Round        int       `json:"round"`
	Participants int       `json:"participants"`
	Events       int       `json:"events"`
}

type archiveFile struct {
	Info  ArchiveInfo     `json:"info"`
	State encounter.State `json:"state"`
}

// Archiver writes finished encounters to gzipped files in a directory.
type Archiver struct {
	logger *zap.Logger
	dir    string
	now    func() time.Time
}

// NewArchiver creates an archiver rooted at dir.
func NewArchiver(dir string, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{
		logger: logger,
		dir:    dir,
		now:    time.Now,
	}
}

// Dir returns the archive directory.
func (a *Archiver) Dir() string {
	return a.dir
}

// Archive stores a snapshot of e under a new random ID.
func (a *Archiver) Archive(e *encounter.Engine) (ArchiveInfo, error) {
	state := e.Snapshot()
	sum, err := Checksum(state)
	if err != nil {
		return ArchiveInfo{}, err
	}

	info := ArchiveInfo{
		ID:           uuid.NewString(),
		ArchivedAt:   a.now().UTC(),
		Version:      archiveVersion,
		Checksum:     sum,
		Round:        state.Round,
		Participants: len(state.Entities),
		Events:       len(state.History),
	}

	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return ArchiveInfo{}, fmt.Errorf("failed to create directory: %w", err)
	}

	if err := writeArchive(a.path(info.ID), archiveFile{Info: info, State: state}); err != nil {
		return ArchiveInfo{}, err
	}

	a.logger.Info("archived encounter",
		zap.String("archive_id", info.ID),
		zap.Int("round", info.Round),
		zap.Int("participants", info.Participants),
		zap.Int("events", info.Events),
		zap.String("directory", a.dir),
	)
	return info, nil
}

// Load reads an archive and rebuilds its engine, verifying the checksum.
func (a *Archiver) Load(id string) (*encounter.Engine, ArchiveInfo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ArchiveInfo{}, fmt.Errorf("invalid archive id %q: %w", id, err)
	}

	file, err := os.Open(a.path(id))
	if err != nil {
		return nil, ArchiveInfo{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, ArchiveInfo{}, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	var archived archiveFile
	if err := json.NewDecoder(gzipReader).Decode(&archived); err != nil {
		return nil, ArchiveInfo{}, fmt.Errorf("failed to decode archive: %w", err)
	}

	if archived.Info.Version != archiveVersion {
		return nil, ArchiveInfo{}, fmt.Errorf("unsupported archive version: %d", archived.Info.Version)
	}
	if err := validate(archived.State); err != nil {
		return nil, ArchiveInfo{}, fmt.Errorf("invalid archived state: %w", err)
	}

	sum, err := Checksum(archived.State)
	if err != nil {
		return nil, ArchiveInfo{}, err
	}
	if sum != archived.Info.Checksum {
		return nil, ArchiveInfo{}, fmt.Errorf("%w: recorded=%s computed=%s", ErrChecksumMismatch, archived.Info.Checksum, sum)
	}

	a.logger.Info("loaded archived encounter",
		zap.String("archive_id", id),
		zap.Int("round", archived.Info.Round),
	)
	return encounter.Restore(archived.State, a.logger), archived.Info, nil
}

// writeArchive writes a gzip JSON archive to path. A failed write leaves no
// file behind.
func writeArchive(path string, archived archiveFile) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close archive: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	gzipWriter := gzip.NewWriter(file)
	if err := json.NewEncoder(gzipWriter).Encode(archived); err != nil {
		_ = gzipWriter.Close()
		return fmt.Errorf("failed to encode archive: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to flush archive: %w", err)
	}
	return nil
}

func (a *Archiver) path(id string) string {
	return filepath.Join(a.dir, id+archiveExt)
}
