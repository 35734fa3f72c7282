// internal/script/parser.go

// Package script turns deployment shell scripts into structured
// DeploymentSpecs and regenerates canonical scripts from them. The
// round-trip law is Parse(Generate(spec)) == spec (semantic equality).
package script

import (
	"strconv"
	"strings"

	"sshdock/internal/apperr"
	"sshdock/internal/models"
)

// Parse extracts the docker run/create invocation from a deployment
// script. NAME/REPO-style shell variables assigned in the preamble are
// substituted; flags the parser does not understand land in spec.Extra
// and positional arguments after the image in spec.Command, so nothing
// is silently dropped. A command the parser cannot make sense of still
// returns a degraded spec carrying the whole command as extra arguments,
// alongside the ParseError; only a script with no docker run/create
// command at all returns a nil spec.
func Parse(content string) (*models.DeploymentSpec, error) {
	vars := collectVariables(content)

	cmdLine, lineNo := findDockerCommand(content)
	if cmdLine == "" {
		return nil, apperr.Newf(apperr.Parse, "no docker run/create command found")
	}

	tokens, err := tokenize(cmdLine)
	if err != nil {
		return salvageSpec(cmdLine, vars), apperr.Newf(apperr.Parse, "line %d: %v", lineNo, err)
	}

	spec := models.NewDeploymentSpec("")
	if name, ok := vars["NAME"]; ok {
		spec.ContainerName = name
	}

	if err := parseTokens(spec, tokens, vars); err != nil {
		return salvageSpec(cmdLine, vars), err
	}
	return spec, nil
}

// salvageSpec degrades an unparseable docker command into an opaque spec:
// every argument after "docker run/create" lands in Extra verbatim, so an
// edit/save cycle cannot drop configuration it did not understand.
func salvageSpec(cmdLine string, vars map[string]string) *models.DeploymentSpec {
	spec := models.NewDeploymentSpec("")
	if name, ok := vars["NAME"]; ok {
		spec.ContainerName = name
	}
	if repo, ok := vars["REPO"]; ok {
		spec.Image = repo
	}
	fields := strings.Fields(cmdLine)
	for i := 2; i < len(fields); i++ {
		switch f := fields[i]; f {
		case "$REPO", "\"$REPO\"", "${REPO}":
			// Regeneration re-emits the image reference itself.
		default:
			spec.Extra = append(spec.Extra, f)
		}
	}
	return spec
}

// collectVariables gathers simple VAR='value' / VAR="value" / VAR=value
// assignments from the script preamble.
func collectVariables(content string) map[string]string {
	vars := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		eq := strings.Index(trimmed, "=")
		if eq <= 0 {
			continue
		}
		name := trimmed[:eq]
		if !isShellIdentifier(name) {
			continue
		}
		value := trimmed[eq+1:]
		if len(value) >= 2 && (value[0] == '\'' || value[0] == '"') && value[len(value)-1] == value[0] {
			value = value[1 : len(value)-1]
		} else if i := strings.IndexAny(value, " \t"); i >= 0 {
			value = value[:i]
		}
		vars[name] = value
	}
	return vars
}

func isShellIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c >= 'A' && c <= 'Z', c == '_':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// findDockerCommand locates the first docker run/create line and joins its
// backslash continuations into a single logical line. Returns the joined
// line and its starting line number (1-based).
func findDockerCommand(content string) (string, int) {
	lines := strings.Split(content, "\n")
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		fields := strings.Fields(trimmed)
		if len(fields) < 2 || fields[0] != "docker" {
			continue
		}
		if fields[1] != "run" && fields[1] != "create" {
			continue
		}
		joined := trimmed
		for strings.HasSuffix(joined, "\\") && i+1 < len(lines) {
			i++
			joined = strings.TrimSuffix(joined, "\\")
			joined = strings.TrimSpace(joined) + " " + strings.TrimSpace(lines[i])
		}
		return joined, i + 1
	}
	return "", 0
}

// tokenize splits a logical shell line on whitespace, honoring single and
// double quotes (quotes removed from the token).
func tokenize(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inToken := false
	var quote byte

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inToken = true
		case c == ' ' || c == '\t':
			if inToken {
				tokens = append(tokens, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteByte(c)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, strconv.ErrSyntax
	}
	if inToken {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

// parseTokens walks the docker run/create argv. tokens[0]=="docker",
// tokens[1]=="run"|"create".
func parseTokens(spec *models.DeploymentSpec, tokens []string, vars map[string]string) error {
	i := 2
	expand := func(s string) string { return expandVars(s, vars) }

	for i < len(tokens) {
		tok := tokens[i]
		if !strings.HasPrefix(tok, "-") {
			// Trailing image reference; anything after it is the
			// container command.
			spec.Image = expand(tok)
			for _, rest := range tokens[i+1:] {
				spec.Command = append(spec.Command, expand(rest))
			}
			return nil
		}

		flag, inline, hasInline := splitFlag(tok)
		value := func() (string, bool) {
			if hasInline {
				return inline, true
			}
			if i+1 < len(tokens) {
				i++
				return tokens[i], true
			}
			return "", false
		}

		switch flag {
		case "-e", "--env":
			v, ok := value()
			if !ok {
				return apperr.Newf(apperr.Parse, "flag %s is missing a value", flag)
			}
			key, val, found := strings.Cut(expand(v), "=")
			if !found {
				return apperr.Newf(apperr.Parse, "malformed env assignment %q", v)
			}
			spec.SetEnv(key, val)
		case "-p", "--publish":
			v, ok := value()
			if !ok {
				return apperr.Newf(apperr.Parse, "flag %s is missing a value", flag)
			}
			pm, err := parsePortFlag(expand(v))
			if err != nil {
				return err
			}
			spec.Ports = append(spec.Ports, pm)
		case "-v", "--volume":
			v, ok := value()
			if !ok {
				return apperr.Newf(apperr.Parse, "flag %s is missing a value", flag)
			}
			vm, err := parseVolumeFlag(expand(v))
			if err != nil {
				return err
			}
			spec.Volumes = append(spec.Volumes, vm)
		case "--network", "--net":
			v, ok := value()
			if !ok {
				return apperr.Newf(apperr.Parse, "flag %s is missing a value", flag)
			}
			spec.Network = expand(v)
		case "--name":
			v, ok := value()
			if !ok {
				return apperr.Newf(apperr.Parse, "flag %s is missing a value", flag)
			}
			spec.ContainerName = expand(v)
		case "--restart":
			v, ok := value()
			if !ok {
				return apperr.Newf(apperr.Parse, "flag %s is missing a value", flag)
			}
			spec.RestartPolicy = expand(v)
		case "-d", "--detach", "--rm", "-it", "-i", "-t":
			// Run-mode switches; canonical generation re-adds -d.
		default:
			// Unknown flag: preserve verbatim (with its value when the
			// next token is clearly not another flag).
			spec.Extra = append(spec.Extra, tok)
			if !hasInline && i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") && !looksLikeImage(tokens, i+1) {
				i++
				spec.Extra = append(spec.Extra, tokens[i])
			}
		}
		i++
	}

	if spec.Image == "" {
		return apperr.Newf(apperr.Parse, "docker command has no image reference")
	}
	return nil
}

// looksLikeImage reports whether tokens[i] is the final positional
// argument, i.e. the image reference.
func looksLikeImage(tokens []string, i int) bool {
	return i == len(tokens)-1
}

func splitFlag(tok string) (flag, value string, ok bool) {
	if strings.HasPrefix(tok, "--") {
		if eq := strings.Index(tok, "="); eq >= 0 {
			return tok[:eq], tok[eq+1:], true
		}
	}
	return tok, "", false
}

func expandVars(s string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(s, "$") {
		return s
	}
	for name, value := range vars {
		s = strings.ReplaceAll(s, "${"+name+"}", value)
		s = replaceBareVar(s, name, value)
	}
	return s
}

// replaceBareVar substitutes $name only on identifier boundaries, so a
// NAME assignment never rewrites $NAMESPACE.
func replaceBareVar(s, name, value string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "$"+name)
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		end := i + 1 + len(name)
		if end < len(s) && isIdentChar(s[end]) {
			b.WriteString(s[:end])
			s = s[end:]
			continue
		}
		b.WriteString(s[:i])
		b.WriteString(value)
		s = s[end:]
	}
}

func isIdentChar(c byte) bool {
	return c == '_' || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}

// ParsePortSpec parses a -p style mapping ("8080:80", "1900:1900/udp",
// "127.0.0.1:8080:80") for callers editing a spec by hand.
func ParsePortSpec(v string) (models.PortMapping, error) {
	return parsePortFlag(v)
}

// ParseVolumeSpec parses a -v style mount ("host:container[:mode]").
func ParseVolumeSpec(v string) (models.VolumeMount, error) {
	return parseVolumeFlag(v)
}

func parsePortFlag(v string) (models.PortMapping, error) {
	proto := "tcp"
	if i := strings.Index(v, "/"); i >= 0 {
		proto = v[i+1:]
		v = v[:i]
	}
	parts := strings.Split(v, ":")
	// Accept host:container and ip:host:container.
	if len(parts) == 3 {
		parts = parts[1:]
	}
	if len(parts) != 2 {
		return models.PortMapping{}, apperr.Newf(apperr.Parse, "malformed port mapping %q", v)
	}
	hostPort, err1 := strconv.Atoi(parts[0])
	containerPort, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return models.PortMapping{}, apperr.Newf(apperr.Parse, "malformed port mapping %q", v)
	}
	return models.PortMapping{HostPort: hostPort, ContainerPort: containerPort, Protocol: proto}, nil
}

func parseVolumeFlag(v string) (models.VolumeMount, error) {
	parts := strings.SplitN(v, ":", 3)
	if len(parts) < 2 {
		return models.VolumeMount{}, apperr.Newf(apperr.Parse, "malformed volume mount %q", v)
	}
	vm := models.VolumeMount{HostPath: parts[0], ContainerPath: parts[1]}
	if len(parts) == 3 {
		vm.Mode = parts[2]
	}
	return vm, nil
}
