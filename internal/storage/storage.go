// Package storage is a key-prefixed JSON store over the entries table.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/jask/packagebuilder/internal/database"
	"github.com/jask/packagebuilder/internal/database/repository"
	"github.com/jask/packagebuilder/internal/tracker"
)

// DefaultPrefix namespaces every key this tool writes.
const DefaultPrefix = "usmc-spb-"

// PackageKeyPrefix starts the key of every stored package.
const PackageKeyPrefix = "package-"

const (
	keyTheme          = "theme"
	keyPreviewEnabled = "preview-enabled"
)

// Storage saves and loads JSON values under a fixed key prefix.
type Storage struct {
	entries *repository.EntryRepo
	prefix  string
	log     *slog.Logger
	now     func() time.Time
}

// Option configures a Storage.
type Option func(*Storage)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Storage) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithLogger sets the logger used for skipped entries.
func WithLogger(l *slog.Logger) Option {
	return func(s *Storage) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock sets the time source used for updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) {
		if now != nil {
			s.now = now
		}
	}
}

func New(entries *repository.EntryRepo, opts ...Option) *Storage {
	s := &Storage{
		entries: entries,
		prefix:  DefaultPrefix,
		log:     slog.Default(),
		now:     database.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Prefix returns the namespace prepended to keys.
func (s *Storage) Prefix() string { return s.prefix }

func (s *Storage) key(k string) string { return s.prefix + k }

// Checksum hashes an encoded payload.
func Checksum(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

func (s *Storage) entry(key string, v any) (repository.Entry, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return repository.Entry{}, fmt.Errorf("storage: encode %s: %w", key, err)
	}
	return repository.Entry{
		Key:       s.key(key),
		Value:     string(data),
		Checksum:  Checksum(data),
		UpdatedAt: s.now().UTC(),
	}, nil
}

// Save encodes v as JSON under key. It reports whether the stored value
// changed; identical payloads are not rewritten.
func (s *Storage) Save(ctx context.Context, key string, v any) (bool, error) {
	e, err := s.entry(key, v)
	if err != nil {
		return false, err
	}
	changed, err := s.entries.Upsert(ctx, e)
	if err != nil {
		return false, fmt.Errorf("storage: save %s: %w", key, err)
	}
	return changed, nil
}

// Load decodes the value under key into dst. found is false when the key is absent.
func (s *Storage) Load(ctx context.Context, key string, dst any) (bool, error) {
	e, err := s.entries.Get(ctx, s.key(key))
	if err != nil {
		return false, fmt.Errorf("storage: load %s: %w", key, err)
	}
	if e == nil {
		return false, nil
	}
	if err := json.Unmarshal([]byte(e.Value), dst); err != nil {
		return false, fmt.Errorf("storage: decode %s: %w", key, err)
	}
	return true, nil
}

// Remove deletes key.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.entries.Delete(ctx, s.key(key)); err != nil {
		return fmt.Errorf("storage: remove %s: %w", key, err)
	}
	return nil
}

// Clear removes every key under prefix. An empty prefix clears every key
// this store manages and leaves foreign keys alone.
func (s *Storage) Clear(ctx context.Context, prefix string) (int64, error) {
	n, err := s.entries.DeletePrefix(ctx, s.key(prefix))
	if err != nil {
		return 0, fmt.Errorf("storage: clear %q: %w", prefix, err)
	}
	return n, nil
}

// GeneratePackageID returns a fresh package key.
func GeneratePackageID() string {
	return PackageKeyPrefix + uuid.NewString()
}

// ErrPackageNotFound is returned by LoadPackage when no package has the id.
var ErrPackageNotFound = errors.New("package not found")

// SavePackage stores p under its id.
func (s *Storage) SavePackage(ctx context.Context, p *tracker.Package) (bool, error) {
	if p == nil || p.ID == "" {
		return false, errors.New("storage: package id is required")
	}
	return s.Save(ctx, p.ID, p)
}

// SavePackages stores every package in one transaction and returns how
// many changed.
func (s *Storage) SavePackages(ctx context.Context, pkgs []*tracker.Package) (int, error) {
	entries := make([]repository.Entry, 0, len(pkgs))
	for _, p := range pkgs {
		if p == nil || p.ID == "" {
			return 0, errors.New("storage: package id is required")
		}
		e, err := s.entry(p.ID, p)
		if err != nil {
			return 0, err
		}
		entries = append(entries, e)
	}
	n, err := s.entries.UpsertAll(ctx, entries)
	if err != nil {
		return 0, fmt.Errorf("storage: save packages: %w", err)
	}
	return n, nil
}

// LoadPackage loads the package with id.
func (s *Storage) LoadPackage(ctx context.Context, id string) (*tracker.Package, error) {
	var p tracker.Package
	found, err := s.Load(ctx, id, &p)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%s: %w", id, ErrPackageNotFound)
	}
	return &p, nil
}

// AllPackages returns every stored package, most recently updated first.
// Entries that fail to decode are logged and skipped.
func (s *Storage) AllPackages(ctx context.Context) ([]*tracker.Package, error) {
	entries, err := s.entries.ListPrefix(ctx, s.key(PackageKeyPrefix))
	if err != nil {
		return nil, fmt.Errorf("storage: list packages: %w", err)
	}
	out := make([]*tracker.Package, 0, len(entries))
	for _, e := range entries {
		var p tracker.Package
		if err := json.Unmarshal([]byte(e.Value), &p); err != nil {
			s.log.Warn("skipping unreadable package", "key", e.Key, "err", err)
			continue
		}
		out = append(out, &p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out, nil
}

// Theme returns the stored theme name, or "" when unset.
func (s *Storage) Theme(ctx context.Context) (string, error) {
	var theme string
	if _, err := s.Load(ctx, keyTheme, &theme); err != nil {
		return "", err
	}
	return theme, nil
}

func (s *Storage) SetTheme(ctx context.Context, theme string) error {
	_, err := s.Save(ctx, keyTheme, theme)
	return err
}

// PreviewEnabled defaults to true when unset.
func (s *Storage) PreviewEnabled(ctx context.Context) (bool, error) {
	enabled := true
	if _, err := s.Load(ctx, keyPreviewEnabled, &enabled); err != nil {
		return true, err
	}
	return enabled, nil
}

func (s *Storage) SetPreviewEnabled(ctx context.Context, enabled bool) error {
	_, err := s.Save(ctx, keyPreviewEnabled, enabled)
	return err
}
