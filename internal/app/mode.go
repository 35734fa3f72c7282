// internal/app/mode.go

// Package app is the dashboard state machine: one Model in the Elm style,
// with a mode discriminator selecting which reducer handles input. All
// side effects run as commands; reducers only transform state.
package app

// Mode identifies which screen owns the keyboard.
type Mode int

const (
	ModeHostList Mode = iota
	ModeHostEditor
	ModeKeySelector
	ModeFlagSelector
	ModeShellSelector
	ModeTagEditor
	ModeDeleteConfirm
	ModeSearch
	ModeTagFilter
	ModeHelp

	ModeDockerList
	ModeDockerConfirm
	ModeDockerLogs
	ModeDockerStats
	ModeDockerProcesses
	ModeDockerInspect
	ModeDockerEnv

	ModeScriptBrowser
	ModeScriptViewer
	ModeScriptEditor
	ModeFileBrowser

	ModeRsync
)

func (m Mode) String() string {
	switch m {
	case ModeHostList:
		return "hosts"
	case ModeHostEditor:
		return "host-editor"
	case ModeKeySelector:
		return "key-selector"
	case ModeFlagSelector:
		return "flag-selector"
	case ModeShellSelector:
		return "shell-selector"
	case ModeTagEditor:
		return "tag-editor"
	case ModeDeleteConfirm:
		return "delete-confirm"
	case ModeSearch:
		return "search"
	case ModeTagFilter:
		return "tag-filter"
	case ModeHelp:
		return "help"
	case ModeDockerList:
		return "docker"
	case ModeDockerConfirm:
		return "docker-confirm"
	case ModeDockerLogs:
		return "docker-logs"
	case ModeDockerStats:
		return "docker-stats"
	case ModeDockerProcesses:
		return "docker-processes"
	case ModeDockerInspect:
		return "docker-inspect"
	case ModeDockerEnv:
		return "docker-env"
	case ModeScriptBrowser:
		return "script-browser"
	case ModeScriptViewer:
		return "script-viewer"
	case ModeScriptEditor:
		return "script-editor"
	case ModeFileBrowser:
		return "file-browser"
	case ModeRsync:
		return "rsync"
	default:
		return "unknown"
	}
}
