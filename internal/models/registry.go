// internal/models/registry.go

package models

// Registry is the authoritative in-memory view of the merged SSH config and
// metadata: all hosts plus the global tag pool. The config store produces
// and persists it; everything else works on copies or reads.
type Registry struct {
	Hosts []*Host
	// Tags is the global tag pool. Every host's tag set must stay a
	// subset of it.
	Tags []string
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Find returns the host with the given alias, or nil.
func (r *Registry) Find(alias string) *Host {
	for _, h := range r.Hosts {
		if h.Alias == alias {
			return h
		}
	}
	return nil
}

// IndexOf returns the position of alias in Hosts, or -1.
func (r *Registry) IndexOf(alias string) int {
	for i, h := range r.Hosts {
		if h.Alias == alias {
			return i
		}
	}
	return -1
}

func (r *Registry) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Upsert replaces the host stored under oldAlias with host, or appends it
// when oldAlias is empty (a new host).
func (r *Registry) Upsert(oldAlias string, host *Host) {
	if oldAlias != "" {
		if i := r.IndexOf(oldAlias); i >= 0 {
			r.Hosts[i] = host
			return
		}
	}
	r.Hosts = append(r.Hosts, host)
}

// Remove deletes the host with the given alias. Returns false if absent.
func (r *Registry) Remove(alias string) bool {
	i := r.IndexOf(alias)
	if i < 0 {
		return false
	}
	r.Hosts = append(r.Hosts[:i], r.Hosts[i+1:]...)
	return true
}

// Clone deep-copies the registry; the store hands these out so callers can
// draft changes without touching the cached copy.
func (r *Registry) Clone() *Registry {
	c := &Registry{
		Hosts: make([]*Host, len(r.Hosts)),
		Tags:  append([]string(nil), r.Tags...),
	}
	for i, h := range r.Hosts {
		c.Hosts[i] = h.Clone()
	}
	return c
}
