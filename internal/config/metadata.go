// internal/config/metadata.go

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sshdock/internal/models"
)

const metadataVersion = "1.0"

// hostMetadata carries the per-host fields that do not belong in the SSH
// config file.
type hostMetadata struct {
	Note     string     `json:"note,omitempty"`
	Tags     []string   `json:"tags"`
	SSHFlags []string   `json:"ssh_flags"`
	Shell    string     `json:"shell,omitempty"`
	LastUsed *time.Time `json:"last_used,omitempty"`
}

type metadata struct {
	Version    string                  `json:"version"`
	GlobalTags []string                `json:"global_tags"`
	Hosts      map[string]hostMetadata `json:"hosts"`
}

func newMetadata() *metadata {
	return &metadata{
		Version: metadataVersion,
		Hosts:   make(map[string]hostMetadata),
	}
}

func loadMetadata(path string) (*metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return newMetadata(), nil
		}
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}
	m := newMetadata()
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata file: %w", err)
	}
	if m.Hosts == nil {
		m.Hosts = make(map[string]hostMetadata)
	}
	if m.Version == "" {
		m.Version = metadataVersion
	}
	return m, nil
}

func (m *metadata) marshal() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	return append(data, '\n'), nil
}

// applyTo copies the metadata entry for the host's alias onto it. Hosts
// without an entry keep empty metadata fields.
func (m *metadata) applyTo(host *models.Host) {
	entry, ok := m.Hosts[host.Alias]
	if !ok {
		return
	}
	host.Note = entry.Note
	host.Tags = append([]string(nil), entry.Tags...)
	host.SSHFlags = append([]string(nil), entry.SSHFlags...)
	host.Shell = entry.Shell
	if entry.LastUsed != nil {
		t := *entry.LastUsed
		host.LastUsed = &t
	}
}

// extractFrom rebuilds the metadata map and tag pool from the registry.
// Entries for aliases no longer in the registry are dropped.
func (m *metadata) extractFrom(reg *models.Registry) {
	m.GlobalTags = append([]string(nil), reg.Tags...)
	m.Hosts = make(map[string]hostMetadata, len(reg.Hosts))
	for _, h := range reg.Hosts {
		entry := hostMetadata{
			Note:     h.Note,
			Tags:     append([]string{}, h.Tags...),
			SSHFlags: append([]string{}, h.SSHFlags...),
			Shell:    h.Shell,
		}
		if h.LastUsed != nil {
			t := *h.LastUsed
			entry.LastUsed = &t
		}
		m.Hosts[h.Alias] = entry
	}
}

// DefaultMetadataPath returns ~/.ssh/sshdock.json.
func DefaultMetadataPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh", "sshdock.json"), nil
}
