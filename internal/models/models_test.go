// internal/models/models_test.go

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesSearch(t *testing.T) {
	h := NewHost("web-prod", "192.168.1.10")
	h.User = "deploy"
	h.Note = "primary load balancer"
	h.Tags = []string{"production"}

	assert.True(t, h.MatchesSearch("WEB"))
	assert.True(t, h.MatchesSearch("192.168"))
	assert.True(t, h.MatchesSearch("deploy"))
	assert.True(t, h.MatchesSearch("balancer"))
	assert.True(t, h.MatchesSearch("prod"))
	assert.False(t, h.MatchesSearch("staging"))
}

func TestHasAnyTag(t *testing.T) {
	h := NewHost("a", "1.1.1.1")
	h.Tags = []string{"db"}

	assert.True(t, h.HasAnyTag(nil), "empty filter matches everything")
	assert.True(t, h.HasAnyTag([]string{"web", "db"}))
	assert.False(t, h.HasAnyTag([]string{"web"}))
}

func TestHostCloneIsDeep(t *testing.T) {
	now := time.Now()
	h := NewHost("a", "1.1.1.1")
	h.Tags = []string{"db"}
	h.LastUsed = &now

	c := h.Clone()
	c.Tags[0] = "changed"
	*c.LastUsed = now.Add(time.Hour)

	assert.Equal(t, "db", h.Tags[0])
	assert.Equal(t, now, *h.LastUsed)
}

func TestRegistryUpsert(t *testing.T) {
	r := NewRegistry()
	a := NewHost("a", "1.1.1.1")
	r.Upsert("", a)
	require.Len(t, r.Hosts, 1)

	renamed := a.Clone()
	renamed.Alias = "b"
	r.Upsert("a", renamed)
	require.Len(t, r.Hosts, 1)
	assert.Nil(t, r.Find("a"))
	assert.NotNil(t, r.Find("b"))
}

func TestStatusFromDocker(t *testing.T) {
	cases := map[string]ContainerStatus{
		"Up 3 days":               StatusRunning,
		"Up About an hour":        StatusRunning,
		"Exited (0) 2 hours ago":  StatusStopped,
		"Exited (1) 5 hours ago":  StatusFailed,
		"Exited (137) 1 min ago":  StatusFailed,
		"Created":                 StatusStopped,
		"Paused":                  StatusStopped,
		"Dead":                    StatusFailed,
		"Restarting (1) 2 s ago":  StatusUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, StatusFromDocker(raw), raw)
	}
}

func TestEnvEntryIsSecret(t *testing.T) {
	assert.True(t, EnvEntry{Key: "DB_PASSWORD"}.IsSecret())
	assert.True(t, EnvEntry{Key: "api_token"}.IsSecret())
	assert.True(t, EnvEntry{Key: "SSH_PRIVATE_KEY"}.IsSecret())
	assert.False(t, EnvEntry{Key: "TZ"}.IsSecret())
	assert.False(t, EnvEntry{Key: "PORT"}.IsSecret())
}

func TestDeploymentSpecEqualIgnoresEnvOrder(t *testing.T) {
	a := NewDeploymentSpec("")
	a.Image = "img"
	a.SetEnv("A", "1")
	a.SetEnv("B", "2")

	b := NewDeploymentSpec("")
	b.Image = "img"
	b.SetEnv("B", "2")
	b.SetEnv("A", "1")

	assert.True(t, a.Equal(b))

	b.SetEnv("A", "other")
	assert.False(t, a.Equal(b))
}

func TestDeploymentSpecExtraOrderSignificant(t *testing.T) {
	a := NewDeploymentSpec("")
	a.Image = "img"
	a.Extra = []string{"--device", "/dev/dri"}

	b := NewDeploymentSpec("")
	b.Image = "img"
	b.Extra = []string{"/dev/dri", "--device"}

	assert.False(t, a.Equal(b))
}

func TestPortMappingString(t *testing.T) {
	assert.Equal(t, "80:8080", PortMapping{HostPort: 80, ContainerPort: 8080, Protocol: "tcp"}.String())
	assert.Equal(t, "1900:1900/udp", PortMapping{HostPort: 1900, ContainerPort: 1900, Protocol: "udp"}.String())
}

func TestShortImage(t *testing.T) {
	c := Container{Image: "ghcr.io/acme/app:1.2"}
	assert.Equal(t, "app", c.ShortImage())
	c.Image = "nginx"
	assert.Equal(t, "nginx", c.ShortImage())
}
