// internal/config/sshconfig_test.go

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sshdock/internal/models"
)

const sampleConfig = `# Global defaults
Host *
  ServerAliveInterval 60

Host web
  HostName 192.168.1.10
  User deploy
  Port 2222
  IdentityFile ~/.ssh/id_ed25519
  # keepalive for flaky VPN
  ServerAliveCountMax 3

Host bastion
  HostName bastion.example.com
  User ops

Host db
  HostName 10.0.0.5
  User postgres
  ProxyJump bastion
`

func TestParseSSHConfig(t *testing.T) {
	_, hosts := parseSSHConfig(sampleConfig)
	require.Len(t, hosts, 3)

	web := hosts[0]
	assert.Equal(t, "web", web.Alias)
	assert.Equal(t, "192.168.1.10", web.Hostname)
	assert.Equal(t, "deploy", web.User)
	assert.Equal(t, 2222, web.Port)
	assert.Equal(t, []string{"~/.ssh/id_ed25519"}, web.IdentityFiles)
	// The comment and the unknown directive ride along unmanaged.
	require.Len(t, web.Unmanaged, 2)
	assert.Contains(t, web.Unmanaged[0], "keepalive for flaky VPN")
	assert.Contains(t, web.Unmanaged[1], "ServerAliveCountMax")

	db := hosts[2]
	assert.Equal(t, "bastion", db.ProxyJump)
	assert.Equal(t, 0, db.Port)
	assert.Equal(t, 22, db.EffectivePort())
}

func TestParseSkipsWildcardAndIncompleteBlocks(t *testing.T) {
	content := `Host *
  ForwardAgent yes

Host prod-*
  User root

Host alias-only
  User nobody

Host real
  HostName 1.2.3.4
`
	_, hosts := parseSSHConfig(content)
	require.Len(t, hosts, 1)
	assert.Equal(t, "real", hosts[0].Alias)
}

func TestRoundTripPreservesUnmanagedContent(t *testing.T) {
	doc, hosts := parseSSHConfig(sampleConfig)
	reg := models.NewRegistry()
	reg.Hosts = hosts

	out := renderSSHConfig(doc, reg)

	// Everything outside managed rewriting survives verbatim.
	assert.Contains(t, out, "# Global defaults")
	assert.Contains(t, out, "Host *\n  ServerAliveInterval 60")
	assert.Contains(t, out, "  ServerAliveCountMax 3")
	assert.Contains(t, out, "ProxyJump bastion")

	// A second parse yields the same hosts.
	_, again := parseSSHConfig(out)
	require.Len(t, again, 3)
	assert.Equal(t, hosts[0].Hostname, again[0].Hostname)
	assert.Equal(t, hosts[0].Unmanaged, again[0].Unmanaged)
}

func TestRenderDeletesAndAppends(t *testing.T) {
	doc, hosts := parseSSHConfig(sampleConfig)
	reg := models.NewRegistry()
	reg.Hosts = hosts

	reg.Remove("db")
	added := models.NewHost("cache", "10.0.0.9")
	added.User = "redis"
	reg.Hosts = append(reg.Hosts, added)

	out := renderSSHConfig(doc, reg)
	assert.NotContains(t, out, "Host db")
	assert.Contains(t, out, "Host cache\n  HostName 10.0.0.9\n  User redis")
	// Unrelated blocks untouched.
	assert.Contains(t, out, "Host *\n  ServerAliveInterval 60")
}

func TestRenderRename(t *testing.T) {
	doc, hosts := parseSSHConfig(sampleConfig)
	reg := models.NewRegistry()
	reg.Hosts = hosts

	web := reg.Find("web")
	require.NotNil(t, web)
	renamed := web.Clone()
	renamed.Alias = "web-prod"
	reg.Upsert("web", renamed)

	out := renderSSHConfig(doc, reg)
	assert.NotContains(t, out, "Host web\n")
	assert.Contains(t, out, "Host web-prod")
	// Unmanaged directive follows the host through the rename.
	assert.Contains(t, out, "ServerAliveCountMax 3")
}

func TestSplitDirectiveSeparators(t *testing.T) {
	for _, line := range []string{"Port 2222", "Port=2222", "\tPort\t2222", "  port 2222"} {
		k, v := splitDirective(line)
		assert.Equal(t, "port", k, line)
		assert.Equal(t, "2222", v, line)
	}

	k, _ := splitDirective("# comment")
	assert.Empty(t, k)
	k, _ = splitDirective("   ")
	assert.Empty(t, k)
}

func TestParseEmptyConfig(t *testing.T) {
	doc, hosts := parseSSHConfig("")
	assert.Empty(t, hosts)
	assert.Empty(t, renderSSHConfig(doc, models.NewRegistry()))
}
