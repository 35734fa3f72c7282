// internal/docker/parse_test.go

package docker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sshdock/internal/models"
)

func TestParseContainers(t *testing.T) {
	output := strings.Join([]string{
		"a1b2c3|jellyfin|jellyfin/jellyfin:latest|Up 3 days|0.0.0.0:8096->8096/tcp, [::]:8096->8096/tcp",
		"d4e5f6|backup|restic/restic|Exited (0) 2 hours ago|",
		"f7g8h9|broken|repo/app:1|Exited (137) 5 minutes ago|",
		"not a valid line",
		"",
	}, "\n")

	containers := ParseContainers(output)
	require.Len(t, containers, 3)

	jf := containers[0]
	assert.Equal(t, "a1b2c3", jf.ID)
	assert.Equal(t, "jellyfin", jf.Name)
	assert.Equal(t, models.StatusRunning, jf.Status)
	assert.Equal(t, "Up 3 days", jf.RawStatus)
	// The IPv4/IPv6 pair collapses into one mapping.
	require.Len(t, jf.Ports, 1)
	assert.Equal(t, models.PortMapping{HostPort: 8096, ContainerPort: 8096, Protocol: "tcp"}, jf.Ports[0])

	assert.Equal(t, models.StatusStopped, containers[1].Status)
	assert.Equal(t, models.StatusFailed, containers[2].Status)
}

func TestParsePorts(t *testing.T) {
	ports := parsePorts("0.0.0.0:80->8080/tcp, 0.0.0.0:1900->1900/udp, 9000/tcp")
	require.Len(t, ports, 2)
	assert.Equal(t, models.PortMapping{HostPort: 80, ContainerPort: 8080, Protocol: "tcp"}, ports[0])
	assert.Equal(t, models.PortMapping{HostPort: 1900, ContainerPort: 1900, Protocol: "udp"}, ports[1])

	assert.Empty(t, parsePorts(""))
	assert.Empty(t, parsePorts("9000/tcp"), "unpublished ports are skipped")
}

func TestParseStats(t *testing.T) {
	stats, err := ParseStats("1.52%|256.5MiB / 7.8GiB|3.21%|1.2MB / 850kB|12MB / 0B|42\n")
	require.NoError(t, err)
	assert.Equal(t, "1.52%", stats.CPUPercent)
	assert.Equal(t, "256.5MiB", stats.MemoryUsage)
	assert.Equal(t, "7.8GiB", stats.MemoryLimit)
	assert.Equal(t, "3.21%", stats.MemoryPercent)
	assert.Equal(t, "1.2MB / 850kB", stats.NetIO)
	assert.Equal(t, "42", stats.PIDs)

	_, err = ParseStats("garbage")
	assert.Error(t, err)
}

func TestParseProcesses(t *testing.T) {
	output := `PID     USER    %CPU   %MEM   COMMAND
1234    root    2.5    1.0    /usr/bin/app --serve --port 8080
1250    app     0.0    0.2    sh -c worker
`
	procs := ParseProcesses(output)
	require.Len(t, procs, 2)
	assert.Equal(t, "1234", procs[0].PID)
	assert.Equal(t, "/usr/bin/app --serve --port 8080", procs[0].Command)
	assert.Equal(t, "app", procs[1].User)
}

func TestParseInspect(t *testing.T) {
	output := `[{
		"Id": "a1b2c3d4e5f6a7b8c9d0",
		"Name": "/jellyfin",
		"Created": "2026-08-01T10:00:00Z",
		"Config": {"Image": "jellyfin/jellyfin:latest"},
		"State": {"Status": "running", "StartedAt": "2026-08-20T08:00:00Z"},
		"HostConfig": {"RestartPolicy": {"Name": "unless-stopped"}},
		"NetworkSettings": {
			"IPAddress": "",
			"Networks": {"media": {"IPAddress": "172.18.0.5"}}
		},
		"Mounts": [{"Source": "/srv/config", "Destination": "/config"}]
	}]`

	info, err := ParseInspect(output)
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3d4e5f6", info.ID, "truncated to 12 chars")
	assert.Equal(t, "jellyfin", info.Name, "leading slash stripped")
	assert.Equal(t, "unless-stopped", info.RestartPolicy)
	assert.Equal(t, "172.18.0.5", info.IPAddress, "falls back to the network's address")
	assert.Equal(t, []string{"media"}, info.Networks)
	assert.Equal(t, []string{"/srv/config -> /config"}, info.Mounts)

	_, err = ParseInspect("[]")
	assert.Error(t, err)
	_, err = ParseInspect("not json")
	assert.Error(t, err)
}

func TestParseEnv(t *testing.T) {
	entries := ParseEnv("PATH=/usr/bin\nDB_PASSWORD=hunter2\nnoequals\n")
	require.Len(t, entries, 2)
	assert.False(t, entries[0].IsSecret())
	assert.True(t, entries[1].IsSecret())
	assert.Equal(t, "hunter2", entries[1].Value)
}

func TestParseDirListing(t *testing.T) {
	output := `drwxr-xr-x  4 user user 4096 Aug 20 10:00 .
drwxr-xr-x 12 user user 4096 Aug 19 09:00 ..
drwxr-xr-x  2 user user 4096 Aug 20 10:00 jellyfin
-rwxr-xr-x  1 user user  512 Aug 18 12:00 start.sh
-rw-r--r--  1 user user 1024 Aug 17 12:00 notes.txt
lrwxrwxrwx  1 user user   10 Aug 16 12:00 media -> /srv/media
`
	entries := ParseDirListing(output)
	// Parent row first, then directories, then files, both alphabetical.
	require.Len(t, entries, 5)
	assert.Equal(t, models.ParentEntry(), entries[0])
	assert.Equal(t, models.FileEntry{Name: "jellyfin", IsDir: true}, entries[1])
	assert.Equal(t, models.FileEntry{Name: "media", IsDir: true}, entries[2])
	assert.Equal(t, "notes.txt", entries[3].Name)
	assert.Equal(t, "start.sh", entries[4].Name)
	assert.True(t, entries[4].IsScript())
	assert.False(t, entries[3].IsScript())
}

func TestParseScriptIndex(t *testing.T) {
	output := `clients/jellyfin/start.sh:NAME='jellyfin'
clients/backup/start.sh:NAME="backup"
clients/dup/start.sh:NAME='jellyfin'
garbage line
`
	index := ParseScriptIndex(output)
	require.Len(t, index, 2)
	assert.Equal(t, "clients/jellyfin/start.sh", index["jellyfin"], "first match wins")
	assert.Equal(t, "clients/backup/start.sh", index["backup"])
}

func TestCommandConstruction(t *testing.T) {
	assert.Equal(t, "docker ps --format '"+psFormat+"'", PsCommand(false))
	assert.Contains(t, PsCommand(true), " -a ")

	assert.Equal(t, "docker logs --tail 100 abc 2>&1", LogsCommand("abc", 100, false))
	assert.Equal(t, "docker logs -f --tail 500 abc 2>&1", LogsCommand("abc", 500, true))
	assert.Equal(t, "docker logs abc 2>&1", LogsCommand("abc", 0, false))

	assert.Equal(t, "docker rm abc", RemoveCommand("abc", false))
	assert.Equal(t, "docker rm -v abc", RemoveCommand("abc", true))

	assert.Equal(t, "ls -la clients | tail -n +2", ListDirCommand("~/clients"))
	assert.Equal(t, "ls -la '/srv/my files' | tail -n +2", ListDirCommand("/srv/my files"))
}

func TestWriteScriptCommandHeredoc(t *testing.T) {
	cmd := WriteScriptCommand("clients/app/start.sh", "#!/bin/bash\necho hi")
	assert.True(t, strings.HasPrefix(cmd, "cat > clients/app/start.sh <<'SSHDOCK_EOF'\n"))
	assert.Contains(t, cmd, "#!/bin/bash\necho hi\n")
	assert.Contains(t, cmd, "\nSSHDOCK_EOF\nchmod +x clients/app/start.sh")
}

func TestRemotePath(t *testing.T) {
	assert.Equal(t, "clients", RemotePath("~/clients"))
	assert.Equal(t, ".", RemotePath("~"))
	assert.Equal(t, "/srv/deploy", RemotePath("/srv/deploy"))
}
