// internal/docker/parse.go

package docker

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"sshdock/internal/apperr"
	"sshdock/internal/models"
)

// ParseContainers decodes docker ps output produced with PsCommand's
// format. Malformed lines are skipped rather than failing the whole
// listing; docker occasionally emits warnings on stdout.
func ParseContainers(output string) []*models.Container {
	var containers []*models.Container
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldSep)
		if len(fields) != 5 {
			continue
		}
		containers = append(containers, &models.Container{
			ID:        fields[0],
			Name:      fields[1],
			Image:     fields[2],
			Status:    models.StatusFromDocker(fields[3]),
			RawStatus: fields[3],
			Ports:     parsePorts(fields[4]),
		})
	}
	return containers
}

// parsePorts decodes a docker ps PORTS column such as
// "0.0.0.0:8096->8080/tcp, [::]:8096->8080/tcp, 1900/udp". Unpublished
// ports (no arrow) are skipped; the IPv4/IPv6 duplicate pair collapses to
// one mapping.
func parsePorts(column string) []models.PortMapping {
	var ports []models.PortMapping
	seen := make(map[models.PortMapping]bool)

	for _, part := range strings.Split(column, ",") {
		part = strings.TrimSpace(part)
		left, right, found := strings.Cut(part, "->")
		if !found {
			continue
		}

		// left is "addr:hostport"; addr may be bracketed IPv6.
		hostStr := left
		if i := strings.LastIndex(left, ":"); i >= 0 {
			hostStr = left[i+1:]
		}
		hostPort, err := strconv.Atoi(hostStr)
		if err != nil {
			continue
		}

		containerStr, proto, _ := strings.Cut(right, "/")
		containerPort, err := strconv.Atoi(containerStr)
		if err != nil {
			continue
		}
		if proto == "" {
			proto = "tcp"
		}

		pm := models.PortMapping{HostPort: hostPort, ContainerPort: containerPort, Protocol: proto}
		if !seen[pm] {
			seen[pm] = true
			ports = append(ports, pm)
		}
	}
	return ports
}

// ParseStats decodes one docker stats sample produced with StatsCommand's
// format. MemUsage arrives as "used / limit".
func ParseStats(output string) (*models.ContainerStats, error) {
	line := strings.TrimSpace(output)
	if i := strings.Index(line, "\n"); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	fields := strings.Split(line, fieldSep)
	if len(fields) != 6 {
		return nil, apperr.Newf(apperr.Parse, "unexpected stats output: %q", line)
	}
	usage, limit, _ := strings.Cut(fields[1], "/")
	return &models.ContainerStats{
		CPUPercent:    strings.TrimSpace(fields[0]),
		MemoryUsage:   strings.TrimSpace(usage),
		MemoryLimit:   strings.TrimSpace(limit),
		MemoryPercent: strings.TrimSpace(fields[2]),
		NetIO:         strings.TrimSpace(fields[3]),
		BlockIO:       strings.TrimSpace(fields[4]),
		PIDs:          strings.TrimSpace(fields[5]),
	}, nil
}

// ParseProcesses decodes docker top output from TopCommand. The first
// line is the ps header; the command column may contain spaces, so only
// the first four columns are split.
func ParseProcesses(output string) []models.ProcessInfo {
	var procs []models.ProcessInfo
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i, line := range lines {
		if i == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		procs = append(procs, models.ProcessInfo{
			PID:     fields[0],
			User:    fields[1],
			CPU:     fields[2],
			Mem:     fields[3],
			Command: strings.Join(fields[4:], " "),
		})
	}
	return procs
}

// inspectEntry mirrors the subset of docker inspect JSON the info view
// needs.
type inspectEntry struct {
	ID     string `json:"Id"`
	Name   string `json:"Name"`
	Config struct {
		Image string   `json:"Image"`
		Env   []string `json:"Env"`
	} `json:"Config"`
	State struct {
		Status    string `json:"Status"`
		StartedAt string `json:"StartedAt"`
	} `json:"State"`
	Created    string `json:"Created"`
	HostConfig struct {
		RestartPolicy struct {
			Name string `json:"Name"`
		} `json:"RestartPolicy"`
	} `json:"HostConfig"`
	NetworkSettings struct {
		IPAddress string `json:"IPAddress"`
		Networks  map[string]struct {
			IPAddress string `json:"IPAddress"`
		} `json:"Networks"`
	} `json:"NetworkSettings"`
	Mounts []struct {
		Source      string `json:"Source"`
		Destination string `json:"Destination"`
	} `json:"Mounts"`
}

// ParseInspect decodes docker inspect output (a one-element JSON array)
// into the info summary.
func ParseInspect(output string) (*models.ContainerInfo, error) {
	var entries []inspectEntry
	if err := json.Unmarshal([]byte(strings.TrimSpace(output)), &entries); err != nil {
		return nil, apperr.New(apperr.Parse, "failed to decode inspect output", err)
	}
	if len(entries) == 0 {
		return nil, apperr.Newf(apperr.Parse, "inspect output is empty")
	}
	e := entries[0]

	info := &models.ContainerInfo{
		ID:            shortID(e.ID),
		Name:          strings.TrimPrefix(e.Name, "/"),
		Image:         e.Config.Image,
		Status:        e.State.Status,
		Created:       e.Created,
		Started:       e.State.StartedAt,
		IPAddress:     e.NetworkSettings.IPAddress,
		RestartPolicy: e.HostConfig.RestartPolicy.Name,
	}
	for name, net := range e.NetworkSettings.Networks {
		info.Networks = append(info.Networks, name)
		if info.IPAddress == "" && net.IPAddress != "" {
			info.IPAddress = net.IPAddress
		}
	}
	sort.Strings(info.Networks)
	for _, m := range e.Mounts {
		info.Mounts = append(info.Mounts, m.Source+" -> "+m.Destination)
	}
	return info, nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

// ParseEnv decodes `docker exec <id> env` output into key/value entries.
// Lines without '=' (terminal noise, warnings) are skipped.
func ParseEnv(output string) []models.EnvEntry {
	var entries []models.EnvEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		key, value, found := strings.Cut(line, "=")
		if !found || key == "" {
			continue
		}
		entries = append(entries, models.EnvEntry{Key: key, Value: value})
	}
	return entries
}

// ParseDirListing decodes `ls -la | tail -n +2` output into file entries,
// directories first, each group alphabetical. The "." entry is dropped
// and ".." is normalized to the parent row.
func ParseDirListing(output string) []models.FileEntry {
	var dirs, files []models.FileEntry
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		fields := strings.Fields(line)
		if len(fields) < 9 {
			continue
		}
		name := strings.Join(fields[8:], " ")
		if name == "." || name == ".." {
			continue
		}
		entry := models.FileEntry{Name: name, IsDir: strings.HasPrefix(fields[0], "d")}
		// Symlinked directories show as "name -> target"; keep the name.
		if i := strings.Index(entry.Name, " -> "); i >= 0 {
			entry.Name = entry.Name[:i]
			if strings.HasPrefix(fields[0], "l") {
				entry.IsDir = true
			}
		}
		if entry.IsDir {
			dirs = append(dirs, entry)
		} else {
			files = append(files, entry)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name < dirs[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	out := make([]models.FileEntry, 0, len(dirs)+len(files)+1)
	out = append(out, models.ParentEntry())
	out = append(out, dirs...)
	return append(out, files...)
}

// ParseScriptIndex decodes FindScriptsCommand output — lines of the form
// "path:NAME='container'" — into a container-name to script-path map.
// A container name claimed by several scripts keeps the first match.
func ParseScriptIndex(output string) map[string]string {
	index := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		path, assignment, found := strings.Cut(line, ":NAME=")
		if !found || path == "" {
			continue
		}
		name := strings.Trim(assignment, `'"`)
		if name == "" {
			continue
		}
		if _, ok := index[name]; !ok {
			index[name] = path
		}
	}
	return index
}
