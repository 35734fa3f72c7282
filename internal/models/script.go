// internal/models/script.go

package models

import "sort"

// EnvVar is one -e assignment in a deployment script. Keys are unique
// within a spec; a later assignment overwrites the earlier value.
type EnvVar struct {
	Key   string
	Value string
}

// VolumeMount is one -v host:container[:mode] mount.
type VolumeMount struct {
	HostPath      string
	ContainerPath string
	Mode          string // "", "ro", "rw", ...
}

func (v VolumeMount) String() string {
	s := v.HostPath + ":" + v.ContainerPath
	if v.Mode != "" {
		s += ":" + v.Mode
	}
	return s
}

// DeploymentSpec is the structured form of a container deployment script:
// everything needed to regenerate the docker create invocation.
type DeploymentSpec struct {
	Path          string // remote script path ("" for an unsaved spec)
	ContainerName string
	Image         string
	Env           []EnvVar
	Ports         []PortMapping
	Volumes       []VolumeMount
	Network       string // "" = default bridge
	RestartPolicy string
	// Extra preserves flags the parser does not understand, in order of
	// appearance, so regeneration never drops configuration.
	Extra []string
	// Command preserves positional arguments after the image reference
	// (the container command); regeneration keeps them behind the image.
	Command []string
}

func NewDeploymentSpec(path string) *DeploymentSpec {
	return &DeploymentSpec{Path: path}
}

// SetEnv sets key to value, overwriting an existing entry (last write
// wins) while keeping first-insertion order.
func (s *DeploymentSpec) SetEnv(key, value string) {
	for i := range s.Env {
		if s.Env[i].Key == key {
			s.Env[i].Value = value
			return
		}
	}
	s.Env = append(s.Env, EnvVar{Key: key, Value: value})
}

func (s *DeploymentSpec) RemoveEnv(key string) {
	for i := range s.Env {
		if s.Env[i].Key == key {
			s.Env = append(s.Env[:i], s.Env[i+1:]...)
			return
		}
	}
}

// SortedEnv returns the env vars in alphabetical key order, the canonical
// order used by script generation.
func (s *DeploymentSpec) SortedEnv() []EnvVar {
	out := append([]EnvVar(nil), s.Env...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Equal compares two specs semantically: env order is ignored, everything
// else (including Extra order) is significant.
func (s *DeploymentSpec) Equal(other *DeploymentSpec) bool {
	if s.ContainerName != other.ContainerName ||
		s.Image != other.Image ||
		s.Network != other.Network ||
		s.RestartPolicy != other.RestartPolicy {
		return false
	}
	a, b := s.SortedEnv(), other.SortedEnv()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	if len(s.Ports) != len(other.Ports) || len(s.Volumes) != len(other.Volumes) ||
		len(s.Extra) != len(other.Extra) || len(s.Command) != len(other.Command) {
		return false
	}
	for i := range s.Ports {
		if s.Ports[i] != other.Ports[i] {
			return false
		}
	}
	for i := range s.Volumes {
		if s.Volumes[i] != other.Volumes[i] {
			return false
		}
	}
	for i := range s.Extra {
		if s.Extra[i] != other.Extra[i] {
			return false
		}
	}
	for i := range s.Command {
		if s.Command[i] != other.Command[i] {
			return false
		}
	}
	return true
}
