// internal/models/docker.go

package models

import (
	"strconv"
	"strings"
)

// ContainerStatus is the coarse state reported by docker ps.
type ContainerStatus int

const (
	StatusRunning ContainerStatus = iota
	StatusStopped
	StatusFailed
	StatusUnknown
)

// StatusFromDocker maps a docker ps STATUS column ("Up 3 days",
// "Exited (1) 2 hours ago") onto the coarse status.
func StatusFromDocker(status string) ContainerStatus {
	s := strings.ToLower(status)
	switch {
	case strings.HasPrefix(s, "up"):
		return StatusRunning
	case strings.HasPrefix(s, "exited"):
		if code := exitCode(s); code != 0 {
			return StatusFailed
		}
		return StatusStopped
	case strings.HasPrefix(s, "created"), strings.HasPrefix(s, "paused"):
		return StatusStopped
	case strings.HasPrefix(s, "dead"):
		return StatusFailed
	default:
		return StatusUnknown
	}
}

func exitCode(s string) int {
	open := strings.Index(s, "(")
	end := strings.Index(s, ")")
	if open < 0 || end < open {
		return 0
	}
	code := 0
	for _, c := range s[open+1 : end] {
		if c < '0' || c > '9' {
			return 0
		}
		code = code*10 + int(c-'0')
	}
	return code
}

func (s ContainerStatus) String() string {
	switch s {
	case StatusRunning:
		return "Up"
	case StatusStopped:
		return "Down"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// PortMapping is a published host:container port pair.
type PortMapping struct {
	HostPort      int
	ContainerPort int
	Protocol      string
}

func (p PortMapping) String() string {
	s := strconv.Itoa(p.HostPort) + ":" + strconv.Itoa(p.ContainerPort)
	if p.Protocol != "" && p.Protocol != "tcp" {
		s += "/" + p.Protocol
	}
	return s
}

// Container is a live snapshot row from docker ps on the active host.
// Never persisted; discarded on refresh or mode exit.
type Container struct {
	ID         string
	Name       string
	Image      string
	Status     ContainerStatus
	RawStatus  string
	Ports      []PortMapping
	ScriptPath string // associated deployment script, if discovered
}

func (c *Container) HasScript() bool {
	return c.ScriptPath != ""
}

// ShortImage strips registry path and tag for table display.
func (c *Container) ShortImage() string {
	img := c.Image
	if i := strings.LastIndex(img, "/"); i >= 0 {
		img = img[i+1:]
	}
	if i := strings.Index(img, ":"); i >= 0 {
		img = img[:i]
	}
	return img
}

// ContainerStats is one docker stats sample (values kept as docker
// formats them).
type ContainerStats struct {
	CPUPercent    string
	MemoryUsage   string
	MemoryLimit   string
	MemoryPercent string
	NetIO         string
	BlockIO       string
	PIDs          string
}

// ProcessInfo is one row of docker top output.
type ProcessInfo struct {
	PID     string
	User    string
	CPU     string
	Mem     string
	Command string
}

// ContainerInfo is the summary extracted from docker inspect.
type ContainerInfo struct {
	ID            string
	Name          string
	Image         string
	Status        string
	Created       string
	Started       string
	IPAddress     string
	RestartPolicy string
	Networks      []string
	Mounts        []string
}

// EnvEntry is one environment variable read from a running container.
// Values that look secret are masked in the view model.
type EnvEntry struct {
	Key   string
	Value string
}

var secretMarkers = []string{"PASSWORD", "SECRET", "TOKEN", "KEY", "CREDENTIAL", "PRIVATE"}

// IsSecret reports whether the entry should be masked when displayed.
func (e EnvEntry) IsSecret() bool {
	k := strings.ToUpper(e.Key)
	for _, m := range secretMarkers {
		if strings.Contains(k, m) {
			return true
		}
	}
	return false
}

// FileEntry is one row in the remote file browser.
type FileEntry struct {
	Name  string
	IsDir bool
}

// IsScript reports whether the entry looks like a deployment script.
func (f FileEntry) IsScript() bool {
	return !f.IsDir && (strings.HasSuffix(f.Name, ".sh") || strings.HasPrefix(f.Name, "start"))
}

// ParentEntry is the ".." row used to walk up a directory.
func ParentEntry() FileEntry {
	return FileEntry{Name: "..", IsDir: true}
}
