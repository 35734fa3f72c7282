// internal/config/sshconfig.go

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"sshdock/internal/models"
)

// The SSH config is parsed into an ordered list of sections so that a save
// can rewrite only the directives sshdock manages. A section is either a
// managed single-alias Host block, or a verbatim run of lines (comments,
// wildcard Host blocks, blocks we cannot safely edit).
type document struct {
	sections []*section
}

type section struct {
	// alias is non-empty for a managed host block.
	alias string
	// raw holds the verbatim lines of an unmanaged section.
	raw []string
}

// managedDirectives are the keywords sshdock owns inside a host block.
// Anything else in the block is carried in Host.Unmanaged.
func isManagedDirective(keyword string) bool {
	switch keyword {
	case "host", "hostname", "user", "port", "identityfile", "proxyjump":
		return true
	}
	return false
}

// parseSSHConfig splits content into the document skeleton and the managed
// hosts. Wildcard blocks, multi-pattern Host lines and blocks without a
// HostName are preserved verbatim but not offered for editing.
func parseSSHConfig(content string) (*document, []*models.Host) {
	doc := &document{}
	var hosts []*models.Host

	lines := strings.Split(content, "\n")
	// Drop the trailing empty element produced by a final newline.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var pendingRaw []string
	flushRaw := func() {
		if len(pendingRaw) > 0 {
			doc.sections = append(doc.sections, &section{raw: pendingRaw})
			pendingRaw = nil
		}
	}

	i := 0
	for i < len(lines) {
		keyword, value := splitDirective(lines[i])
		if keyword != "host" {
			pendingRaw = append(pendingRaw, lines[i])
			i++
			continue
		}

		// Collect the whole block (up to the next Host line).
		start := i
		i++
		for i < len(lines) {
			k, _ := splitDirective(lines[i])
			if k == "host" {
				break
			}
			i++
		}
		block := lines[start:i]

		patterns := strings.Fields(value)
		if len(patterns) != 1 || strings.ContainsAny(patterns[0], "*?") {
			pendingRaw = append(pendingRaw, block...)
			continue
		}

		host := parseHostBlock(patterns[0], block[1:])
		if host.Hostname == "" {
			// Not enough to manage safely; keep it as opaque text.
			pendingRaw = append(pendingRaw, block...)
			continue
		}

		flushRaw()
		doc.sections = append(doc.sections, &section{alias: host.Alias})
		hosts = append(hosts, host)
	}
	flushRaw()

	return doc, hosts
}

func parseHostBlock(alias string, body []string) *models.Host {
	host := models.NewHost(alias, "")
	for _, line := range body {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue // blank line, regenerated on save
		}
		if strings.HasPrefix(trimmed, "#") {
			// In-block comments are kept with the host.
			host.Unmanaged = append(host.Unmanaged, line)
			continue
		}
		keyword, value := splitDirective(line)
		switch keyword {
		case "hostname":
			host.Hostname = value
		case "user":
			host.User = value
		case "port":
			if p, err := strconv.Atoi(value); err == nil {
				host.Port = p
			} else {
				host.Unmanaged = append(host.Unmanaged, line)
			}
		case "identityfile":
			host.IdentityFiles = append(host.IdentityFiles, value)
		case "proxyjump":
			host.ProxyJump = value
		default:
			host.Unmanaged = append(host.Unmanaged, line)
		}
	}
	return host
}

// splitDirective returns the lowercased keyword and the value of a config
// line, or "" for blank/comment lines.
func splitDirective(line string) (string, string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", ""
	}
	sep := strings.IndexAny(trimmed, " \t=")
	if sep < 0 {
		return strings.ToLower(trimmed), ""
	}
	return strings.ToLower(trimmed[:sep]), strings.TrimSpace(trimmed[sep+1:])
}

// renderSSHConfig writes the registry back over the document skeleton:
// unmanaged sections verbatim, managed blocks regenerated, deleted hosts
// skipped, new hosts appended.
func renderSSHConfig(doc *document, reg *models.Registry) string {
	var b strings.Builder
	written := make(map[string]bool)

	for _, sec := range doc.sections {
		if sec.alias == "" {
			for _, line := range sec.raw {
				b.WriteString(line)
				b.WriteString("\n")
			}
			continue
		}
		host := reg.Find(sec.alias)
		if host == nil {
			continue // deleted (or renamed; the new alias is appended below)
		}
		writeHostBlock(&b, host)
		written[host.Alias] = true
	}

	for _, host := range reg.Hosts {
		if !written[host.Alias] {
			writeHostBlock(&b, host)
		}
	}

	return b.String()
}

func writeHostBlock(b *strings.Builder, host *models.Host) {
	fmt.Fprintf(b, "Host %s\n", host.Alias)
	fmt.Fprintf(b, "  HostName %s\n", host.Hostname)
	if host.User != "" {
		fmt.Fprintf(b, "  User %s\n", host.User)
	}
	if host.Port != 0 {
		fmt.Fprintf(b, "  Port %d\n", host.Port)
	}
	for _, f := range host.IdentityFiles {
		fmt.Fprintf(b, "  IdentityFile %s\n", f)
	}
	if host.ProxyJump != "" {
		fmt.Fprintf(b, "  ProxyJump %s\n", host.ProxyJump)
	}
	for _, line := range host.Unmanaged {
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

// DefaultSSHConfigPath returns ~/.ssh/config.
func DefaultSSHConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".ssh", "config"), nil
}
