// internal/app/msgs.go

package app

import (
	"sshdock/internal/models"
	"sshdock/internal/proc"
)

// containersMsg carries a docker ps refresh plus the script index built
// alongside it.
type containersMsg struct {
	alias      string
	containers []*models.Container
	scripts    map[string]string
	err        error
}

// actionDoneMsg reports a one-shot container action (start, stop, ...).
type actionDoneMsg struct {
	verb string
	name string
	err  error
}

// deployDoneMsg reports a full deployment script run.
type deployDoneMsg struct {
	name   string
	output string
	err    error
}

// logBatchMsg delivers buffered lines from the active log stream. gen
// guards against batches from a stream that has since been replaced.
type logBatchMsg struct {
	gen    int
	lines  []string
	closed bool
}

// statsTickMsg triggers the next stats sample; statsMsg delivers one.
type statsTickMsg struct{ gen int }

type statsMsg struct {
	gen   int
	stats *models.ContainerStats
	err   error
}

type processesMsg struct {
	procs []models.ProcessInfo
	err   error
}

type inspectMsg struct {
	info *models.ContainerInfo
	err  error
}

type envMsg struct {
	entries []models.EnvEntry
	err     error
}

// dirListingMsg carries a remote directory listing for the script or
// rsync file browser.
type dirListingMsg struct {
	path    string
	entries []models.FileEntry
	err     error
}

type scriptLoadedMsg struct {
	path    string
	content string
	err     error
}

type scriptSavedMsg struct {
	path string
	err  error
}

// sessionFinishedMsg fires when an interactive ssh session or rsync
// handoff returns the terminal.
type sessionFinishedMsg struct {
	alias string
	err   error
}

type rsyncFinishedMsg struct {
	err error
}

// streamStartedMsg hands the new log stream to the model.
type streamStartedMsg struct {
	gen    int
	stream proc.LineStream
	err    error
}

type savedMsg struct {
	err error
}

// reloadedMsg carries a registry re-read from disk.
type reloadedMsg struct {
	reg *models.Registry
	err error
}

type yankedMsg struct {
	command string
	err     error
}
