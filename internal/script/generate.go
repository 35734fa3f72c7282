// internal/script/generate.go

package script

import (
	"fmt"
	"strings"

	"sshdock/internal/models"
)

// Generate renders a spec as the canonical deployment script: shebang,
// NAME/REPO preamble, pull, stop/rm guard, docker create with one flag per
// continuation line, docker start. Env vars are emitted in alphabetical
// key order; ports, volumes, extra flags and the container command keep
// insertion order.
func Generate(spec *models.DeploymentSpec) string {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n")
	b.WriteString("set -e\n\n")
	fmt.Fprintf(&b, "NAME='%s'\n", spec.ContainerName)
	fmt.Fprintf(&b, "REPO='%s'\n\n", spec.Image)

	b.WriteString("docker pull \"$REPO\"\n")
	b.WriteString("docker stop \"$NAME\" 2>/dev/null || true\n")
	b.WriteString("docker rm \"$NAME\" 2>/dev/null || true\n\n")

	b.WriteString("docker create \\\n")
	b.WriteString("    --name \"$NAME\" \\\n")
	if spec.RestartPolicy != "" {
		fmt.Fprintf(&b, "    --restart %s \\\n", spec.RestartPolicy)
	}
	if spec.Network != "" {
		fmt.Fprintf(&b, "    --network %s \\\n", spec.Network)
	}
	for _, p := range spec.Ports {
		fmt.Fprintf(&b, "    -p %s \\\n", formatPort(p))
	}
	for _, v := range spec.Volumes {
		fmt.Fprintf(&b, "    -v %s \\\n", v.String())
	}
	for _, e := range spec.SortedEnv() {
		fmt.Fprintf(&b, "    -e %s \\\n", quoteAssignment(e.Key+"="+e.Value))
	}
	for _, extra := range spec.Extra {
		fmt.Fprintf(&b, "    %s \\\n", quoteIfNeeded(extra))
	}
	if len(spec.Command) == 0 {
		b.WriteString("    \"$REPO\"\n\n")
	} else {
		// The container command stays behind the image reference.
		b.WriteString("    \"$REPO\" \\\n")
		args := make([]string, len(spec.Command))
		for i, arg := range spec.Command {
			args[i] = quoteIfNeeded(arg)
		}
		b.WriteString("    " + strings.Join(args, " ") + "\n\n")
	}

	b.WriteString("docker start \"$NAME\"\n")
	return b.String()
}

// quoteAssignment wraps a KEY=value token in quotes, switching to double
// quotes when the value itself contains a single quote so the generated
// line tokenizes back to the same assignment.
func quoteAssignment(s string) string {
	if strings.Contains(s, "'") {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}

func formatPort(p models.PortMapping) string {
	s := fmt.Sprintf("%d:%d", p.HostPort, p.ContainerPort)
	if p.Protocol != "" && p.Protocol != "tcp" {
		s += "/" + p.Protocol
	}
	return s
}

func quoteIfNeeded(s string) string {
	if strings.Contains(s, "'") {
		return `"` + s + `"`
	}
	if strings.ContainsAny(s, " \t") {
		return "'" + s + "'"
	}
	return s
}
