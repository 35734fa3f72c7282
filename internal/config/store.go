// internal/config/store.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"sshdock/internal/apperr"
	"sshdock/internal/logging"
	"sshdock/internal/models"
)

const (
	sshConfigPerms = 0600
	metadataPerms  = 0600
)

// Store owns the merged host registry: the SSH config file (connection
// fields, unmanaged directives preserved) plus the JSON metadata file
// (tags, notes, flags, shell, last-used). All writes go through it.
type Store struct {
	configPath   string
	metadataPath string

	doc    *document
	meta   *metadata
	cached *models.Registry
}

func NewStore(configPath, metadataPath string) *Store {
	return &Store{
		configPath:   configPath,
		metadataPath: metadataPath,
	}
}

// Load parses both files and merges them by alias. Missing files yield an
// empty registry; a malformed metadata file is a ConfigError. The returned
// registry is a copy; mutate and hand it back to Save.
func (s *Store) Load() (*models.Registry, error) {
	content, err := os.ReadFile(s.configPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, apperr.New(apperr.Config, "failed to read SSH config", err)
	}

	doc, hosts := parseSSHConfig(string(content))

	meta, err := loadMetadata(s.metadataPath)
	if err != nil {
		return nil, apperr.New(apperr.Config, "failed to load metadata", err)
	}

	reg := models.NewRegistry()
	reg.Hosts = hosts
	reg.Tags = append([]string(nil), meta.GlobalTags...)
	for _, h := range reg.Hosts {
		meta.applyTo(h)
	}
	backfillTagPool(reg)

	s.doc = doc
	s.meta = meta
	s.cached = reg
	logging.Info("config", "loaded %d hosts, %d tags", len(reg.Hosts), len(reg.Tags))
	return reg.Clone(), nil
}

// backfillTagPool appends, sorted, any host tag missing from the pool so
// the subset invariant holds even for metadata written by older versions.
func backfillTagPool(reg *models.Registry) {
	var missing []string
	for _, h := range reg.Hosts {
		for _, t := range h.Tags {
			if !reg.HasTag(t) && !contains(missing, t) {
				missing = append(missing, t)
			}
		}
	}
	sort.Strings(missing)
	reg.Tags = append(reg.Tags, missing...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Save writes both files atomically (temp file + rename) and replaces the
// in-memory cache on success. Only managed directives are rewritten;
// everything else in the SSH config survives byte for byte.
func (s *Store) Save(reg *models.Registry) error {
	if s.doc == nil {
		s.doc = &document{}
	}
	if s.meta == nil {
		s.meta = newMetadata()
	}

	content := renderSSHConfig(s.doc, reg)
	if err := writeFileAtomic(s.configPath, []byte(content), sshConfigPerms); err != nil {
		return apperr.New(apperr.Config, "failed to write SSH config", err)
	}

	if err := s.SaveMetadata(reg); err != nil {
		return err
	}

	// Re-parse what we just wrote so the skeleton tracks renames and
	// appended blocks.
	doc, _ := parseSSHConfig(content)
	s.doc = doc
	s.cached = reg.Clone()
	logging.Info("config", "saved %d hosts", len(reg.Hosts))
	return nil
}

// SaveMetadata persists only the metadata file. Used for last-used stamps
// where rewriting the SSH config would be pointless churn.
func (s *Store) SaveMetadata(reg *models.Registry) error {
	if s.meta == nil {
		s.meta = newMetadata()
	}
	s.meta.extractFrom(reg)
	data, err := s.meta.marshal()
	if err != nil {
		return apperr.New(apperr.Config, "failed to serialize metadata", err)
	}
	if err := writeFileAtomic(s.metadataPath, data, metadataPerms); err != nil {
		return apperr.New(apperr.Config, "failed to write metadata", err)
	}
	s.cached = reg.Clone()
	return nil
}

// Validate checks a host draft against the registry. editingAlias is the
// alias the draft started from ("" for a new host); a draft may keep its
// own alias without tripping the duplicate check.
func (s *Store) Validate(draft *models.Host, reg *models.Registry, editingAlias string) error {
	if draft.Alias == "" {
		return apperr.Newf(apperr.Validation, "host alias cannot be empty")
	}
	if strings.ContainsAny(draft.Alias, " \t") {
		return apperr.Newf(apperr.Validation, "host alias cannot contain whitespace")
	}
	if draft.Hostname == "" {
		return apperr.Newf(apperr.Validation, "hostname/IP cannot be empty")
	}
	if draft.Port < 0 || draft.Port > 65535 {
		return apperr.Newf(apperr.Validation, "port must be between 1 and 65535")
	}
	for _, h := range reg.Hosts {
		if h.Alias == draft.Alias && h.Alias != editingAlias {
			return apperr.Newf(apperr.Validation, "host %q already exists", draft.Alias)
		}
	}
	if draft.ProxyJump != "" {
		if draft.ProxyJump == draft.Alias {
			return apperr.Newf(apperr.Validation, "jump host cannot reference the host itself")
		}
		target := reg.Find(draft.ProxyJump)
		if target == nil || target.Alias == editingAlias {
			return apperr.Newf(apperr.Validation, "jump host %q is not a known alias", draft.ProxyJump)
		}
	}
	for _, t := range draft.Tags {
		if !reg.HasTag(t) {
			return apperr.Newf(apperr.Validation, "tag %q is not in the tag pool", t)
		}
	}
	return nil
}

// AddTag appends a new tag to the global pool. Duplicate insertion is an
// error, per the append-only pool contract.
func (s *Store) AddTag(reg *models.Registry, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Newf(apperr.Validation, "tag name cannot be empty")
	}
	if reg.HasTag(name) {
		return apperr.Newf(apperr.Validation, "tag %q already exists", name)
	}
	reg.Tags = append(reg.Tags, name)
	return nil
}

// RemoveTag deletes a tag from the pool and cascade-clears it from every
// host so the subset invariant survives.
func (s *Store) RemoveTag(reg *models.Registry, name string) {
	for i, t := range reg.Tags {
		if t == name {
			reg.Tags = append(reg.Tags[:i], reg.Tags[i+1:]...)
			break
		}
	}
	for _, h := range reg.Hosts {
		for i, t := range h.Tags {
			if t == name {
				h.Tags = append(h.Tags[:i], h.Tags[i+1:]...)
				break
			}
		}
	}
}

// writeFileAtomic writes data to a temp file in the target directory and
// renames it into place, so a crash mid-write never corrupts the original.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}
