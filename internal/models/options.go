// internal/models/options.go

package models

// Option is a selectable value with a short description, used by the flag
// and shell selector modes.
type Option struct {
	Value       string
	Description string
}

// SSHFlagOptions is the fixed vocabulary of per-host ssh flags.
func SSHFlagOptions() []Option {
	return []Option{
		{Value: "-t", Description: "Force pseudo-terminal (needed for interactive shells)"},
		{Value: "-A", Description: "Enable SSH agent forwarding"},
		{Value: "-X", Description: "Enable X11 forwarding"},
		{Value: "-Y", Description: "Enable trusted X11 forwarding"},
		{Value: "-C", Description: "Enable compression"},
		{Value: "-v", Description: "Verbose mode (debug connection)"},
		{Value: "-vv", Description: "More verbose (extra debugging)"},
		{Value: "-vvv", Description: "Very verbose (maximum debugging)"},
		{Value: "-N", Description: "Don't execute command (port forwarding only)"},
		{Value: "-f", Description: "Go to background before command execution"},
		{Value: "-q", Description: "Quiet mode (suppress warnings)"},
		{Value: "-4", Description: "Force IPv4 only"},
		{Value: "-6", Description: "Force IPv6 only"},
	}
}

// ShellOptions lists the shells offered by the shell selector.
func ShellOptions() []Option {
	return []Option{
		{Value: "bash", Description: "Bourne Again Shell (most common)"},
		{Value: "zsh", Description: "Z Shell (enhanced Bourne shell)"},
		{Value: "fish", Description: "Friendly Interactive Shell"},
		{Value: "sh", Description: "Bourne Shell (POSIX standard)"},
		{Value: "ksh", Description: "Korn Shell"},
		{Value: "tcsh", Description: "TENEX C Shell"},
		{Value: "dash", Description: "Debian Almquist Shell"},
	}
}

// IsKnownSSHFlag reports whether flag belongs to the fixed vocabulary.
func IsKnownSSHFlag(flag string) bool {
	for _, o := range SSHFlagOptions() {
		if o.Value == flag {
			return true
		}
	}
	return false
}

// SortBy enumerates host table sort orders.
type SortBy int

const (
	SortByName SortBy = iota
	SortByHostname
	SortByLastUsed
	SortByUser
	SortByTags
)

// Next cycles to the following sort order.
func (s SortBy) Next() SortBy {
	switch s {
	case SortByName:
		return SortByHostname
	case SortByHostname:
		return SortByLastUsed
	case SortByLastUsed:
		return SortByUser
	case SortByUser:
		return SortByTags
	default:
		return SortByName
	}
}

func (s SortBy) Label() string {
	switch s {
	case SortByName:
		return "Name"
	case SortByHostname:
		return "Hostname"
	case SortByLastUsed:
		return "Last Used"
	case SortByUser:
		return "User"
	case SortByTags:
		return "Tags"
	default:
		return "Name"
	}
}
