// internal/docker/commands.go

// Package docker builds the shell commands run on a remote host through
// the docker CLI and parses their output. No docker API client is used;
// everything goes over ssh, so the remote host only needs docker itself.
package docker

import (
	"fmt"
	"strings"
)

// fieldSep separates --format columns. A pipe never appears in the fields
// docker emits for these templates.
const fieldSep = "|"

// psFormat matches ParseContainers.
const psFormat = "{{.ID}}" + fieldSep + "{{.Names}}" + fieldSep + "{{.Image}}" + fieldSep + "{{.Status}}" + fieldSep + "{{.Ports}}"

// statsFormat matches ParseStats.
const statsFormat = "{{.CPUPerc}}" + fieldSep + "{{.MemUsage}}" + fieldSep + "{{.MemPerc}}" + fieldSep + "{{.NetIO}}" + fieldSep + "{{.BlockIO}}" + fieldSep + "{{.PIDs}}"

// PsCommand lists containers. all includes stopped ones.
func PsCommand(all bool) string {
	cmd := "docker ps"
	if all {
		cmd += " -a"
	}
	return cmd + " --format '" + psFormat + "'"
}

// LogsCommand tails container logs. tail <= 0 means the full log. Stderr
// is folded into stdout so interleaved output stays in order.
func LogsCommand(containerID string, tail int, follow bool) string {
	var b strings.Builder
	b.WriteString("docker logs")
	if follow {
		b.WriteString(" -f")
	}
	if tail > 0 {
		fmt.Fprintf(&b, " --tail %d", tail)
	}
	fmt.Fprintf(&b, " %s 2>&1", containerID)
	return b.String()
}

// StatsCommand takes a single stats sample for one container.
func StatsCommand(containerID string) string {
	return fmt.Sprintf("docker stats --no-stream --format '%s' %s", statsFormat, containerID)
}

// TopCommand lists container processes with a fixed column set so the
// output parses the same on any remote ps.
func TopCommand(containerID string) string {
	return fmt.Sprintf("docker top %s -o pid,user,%%cpu,%%mem,args", containerID)
}

// InspectCommand returns the full inspect JSON for one container.
func InspectCommand(containerID string) string {
	return "docker inspect " + containerID
}

// EnvCommand reads the environment of a running container.
func EnvCommand(containerID string) string {
	return fmt.Sprintf("docker exec %s env", containerID)
}

func StartCommand(containerID string) string {
	return "docker start " + containerID
}

func StopCommand(containerID string) string {
	return "docker stop " + containerID
}

func RestartCommand(containerID string) string {
	return "docker restart " + containerID
}

// RemoveCommand deletes a stopped container; withVolumes also removes its
// anonymous volumes.
func RemoveCommand(containerID string, withVolumes bool) string {
	if withVolumes {
		return "docker rm -v " + containerID
	}
	return "docker rm " + containerID
}

func RemoveImageCommand(image string) string {
	return "docker rmi " + shellQuote(image)
}

func PullCommand(image string) string {
	return "docker pull " + shellQuote(image)
}

// ListDirCommand lists a remote directory for the file browser. The
// `total` header line is dropped on the remote side.
func ListDirCommand(path string) string {
	return fmt.Sprintf("ls -la %s | tail -n +2", shellQuote(RemotePath(path)))
}

// RemotePath normalizes a configured remote path: a leading ~/ becomes a
// path relative to the remote home, which is where ssh commands start.
// Quoting would otherwise stop the remote shell from expanding the tilde.
func RemotePath(p string) string {
	if p == "~" || p == "~/" {
		return "."
	}
	return strings.TrimPrefix(p, "~/")
}

// FindScriptsCommand locates deployment scripts under root and prints
// each script's NAME assignment as "path:NAME='container'". The output
// feeds ParseScriptIndex, which associates containers with their scripts.
func FindScriptsCommand(root string) string {
	return fmt.Sprintf(
		"find %s -maxdepth 3 -type f -name '*.sh' -exec grep -H '^NAME=' {} + 2>/dev/null",
		shellQuote(RemotePath(root)))
}

// CatCommand reads a remote script.
func CatCommand(path string) string {
	return "cat " + shellQuote(path)
}

// WriteScriptCommand writes content to a remote path via a quoted heredoc
// (no expansion on the remote side) and marks it executable.
func WriteScriptCommand(path, content string) string {
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	quoted := shellQuote(path)
	return fmt.Sprintf("cat > %s <<'SSHDOCK_EOF'\n%sSSHDOCK_EOF\nchmod +x %s", quoted, content, quoted)
}

// RunScriptCommand executes a deployment script from its own directory so
// relative paths inside the script resolve.
func RunScriptCommand(path string) string {
	quoted := shellQuote(path)
	return fmt.Sprintf("cd $(dirname %s) && bash %s", quoted, quoted)
}

// shellQuote single-quotes a value for the remote shell. Container IDs and
// image names never need it, but paths may contain spaces.
func shellQuote(s string) string {
	if !strings.ContainsAny(s, " \t'\"$`\\!*?[](){}<>;&|~#") && s != "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
