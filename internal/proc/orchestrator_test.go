// internal/proc/orchestrator_test.go

package proc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sshdock/internal/models"
)

func testHost() *models.Host {
	h := models.NewHost("web", "192.168.1.10")
	h.User = "deploy"
	h.Port = 2222
	h.IdentityFiles = []string{"~/.ssh/id_ed25519"}
	return h
}

func TestRemoteArgs(t *testing.T) {
	args := remoteArgs(testHost())
	assert.Equal(t, []string{
		"-o", "BatchMode=yes",
		"-l", "deploy",
		"-p", "2222",
		"-i", "~/.ssh/id_ed25519",
		"web",
	}, args)
}

func TestRemoteArgsMinimalHost(t *testing.T) {
	h := models.NewHost("", "10.0.0.1")
	args := remoteArgs(h)
	// No alias: the hostname is the destination.
	assert.Equal(t, []string{"-o", "BatchMode=yes", "10.0.0.1"}, args)
}

func TestRemoteArgsJumpHost(t *testing.T) {
	h := testHost()
	h.ProxyJump = "bastion"
	args := remoteArgs(h)
	assert.Contains(t, args, "-J")
	assert.Contains(t, args, "bastion")
}

func TestSessionCommand(t *testing.T) {
	h := testHost()
	h.SSHFlags = []string{"-A", "-C"}

	cmd := SessionCommand(h)
	require.Equal(t, "ssh", cmd.Args[0])
	assert.Equal(t, []string{
		"ssh", "-l", "deploy", "-p", "2222", "-i", "~/.ssh/id_ed25519",
		"-A", "-C", "web",
	}, cmd.Args)
}

func TestSessionCommandShellOverride(t *testing.T) {
	h := testHost()
	h.Shell = "zsh"

	cmd := SessionCommand(h)
	n := len(cmd.Args)
	require.GreaterOrEqual(t, n, 3)
	assert.Equal(t, "-t", cmd.Args[n-3], "shell override forces a tty")
	assert.Equal(t, "web", cmd.Args[n-2])
	assert.Equal(t, "exec zsh -l", cmd.Args[n-1])
}

func TestRsyncCommandUpload(t *testing.T) {
	cmd := RsyncCommand(RsyncRequest{
		Host:       testHost(),
		LocalPath:  "/home/me/dist/",
		RemotePath: "/srv/app/",
		Upload:     true,
		Compress:   true,
	})

	require.Equal(t, "rsync", cmd.Args[0])
	assert.Contains(t, cmd.Args, "-a")
	assert.Contains(t, cmd.Args, "-z")
	assert.Contains(t, cmd.Args, "-e")
	assert.Contains(t, cmd.Args, "ssh -l deploy -p 2222 -i ~/.ssh/id_ed25519")

	n := len(cmd.Args)
	assert.Equal(t, "/home/me/dist/", cmd.Args[n-2])
	assert.Equal(t, "deploy@web:/srv/app/", cmd.Args[n-1])
}

func TestRsyncCommandDownload(t *testing.T) {
	cmd := RsyncCommand(RsyncRequest{
		Host:       testHost(),
		LocalPath:  "/tmp/backup/",
		RemotePath: "/var/lib/data/",
	})

	n := len(cmd.Args)
	assert.Equal(t, "deploy@web:/var/lib/data/", cmd.Args[n-2])
	assert.Equal(t, "/tmp/backup/", cmd.Args[n-1])
	assert.NotContains(t, cmd.Args, "-z")
}

func TestRsyncCommandNoUser(t *testing.T) {
	h := models.NewHost("web", "192.168.1.10")
	cmd := RsyncCommand(RsyncRequest{Host: h, LocalPath: "a", RemotePath: "/b", Upload: true})
	assert.Equal(t, "web:/b", cmd.Args[len(cmd.Args)-1])
}
