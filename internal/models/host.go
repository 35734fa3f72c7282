// internal/models/host.go

package models

import (
	"strings"
	"time"
)

const DefaultSSHPort = 22

// Host is one SSH host entry: the connection fields live in ~/.ssh/config,
// the extended fields in the companion metadata file. The alias is the
// primary key across the whole registry.
type Host struct {
	Alias         string
	Hostname      string
	User          string
	Port          int // 0 means unset (effective 22)
	IdentityFiles []string
	ProxyJump     string

	// Metadata fields
	Note     string
	Tags     []string
	SSHFlags []string
	Shell    string
	LastUsed *time.Time

	// Raw directive lines inside this host's block that sshdock does not
	// manage. Preserved verbatim on save.
	Unmanaged []string
}

func NewHost(alias, hostname string) *Host {
	return &Host{
		Alias:    alias,
		Hostname: hostname,
	}
}

// EffectivePort returns the port to connect on (22 if unset).
func (h *Host) EffectivePort() int {
	if h.Port == 0 {
		return DefaultSSHPort
	}
	return h.Port
}

func (h *Host) HasKeys() bool {
	return len(h.IdentityFiles) > 0
}

// MarkUsed stamps the host as connected-to now.
func (h *Host) MarkUsed() {
	now := time.Now().UTC()
	h.LastUsed = &now
}

// MatchesSearch reports whether the host matches a case-insensitive
// substring query against alias, hostname, user, note and tags.
func (h *Host) MatchesSearch(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(h.Alias), q) ||
		strings.Contains(strings.ToLower(h.Hostname), q) ||
		strings.Contains(strings.ToLower(h.User), q) ||
		strings.Contains(strings.ToLower(h.Note), q) {
		return true
	}
	for _, t := range h.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// HasAnyTag reports whether the host carries at least one of the given
// tags. An empty filter matches every host.
func (h *Host) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range h.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

func (h *Host) HasTag(tag string) bool {
	for _, t := range h.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Clone returns a deep copy, used as the editor draft so cancel never
// touches the stored host.
func (h *Host) Clone() *Host {
	c := *h
	c.IdentityFiles = append([]string(nil), h.IdentityFiles...)
	c.Tags = append([]string(nil), h.Tags...)
	c.SSHFlags = append([]string(nil), h.SSHFlags...)
	c.Unmanaged = append([]string(nil), h.Unmanaged...)
	if h.LastUsed != nil {
		t := *h.LastUsed
		c.LastUsed = &t
	}
	return &c
}
