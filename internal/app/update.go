// internal/app/update.go

package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"sshdock/internal/logging"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.anyLoading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m.updateAsync(msg)
}

func (m *Model) anyLoading() bool {
	return m.docker.loading || m.script.loading || m.rsync.running
}

// updateKey routes a key press to the reducer owning the current mode.
func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeHostList:
		return m.updateHostList(msg)
	case ModeSearch:
		return m.updateSearch(msg)
	case ModeTagFilter:
		return m.updateTagFilter(msg)
	case ModeDeleteConfirm:
		return m.updateDeleteConfirm(msg)
	case ModeHelp:
		return m.updateHelp(msg)
	case ModeHostEditor:
		return m.updateHostEditor(msg)
	case ModeKeySelector:
		return m.updateKeySelector(msg)
	case ModeFlagSelector:
		return m.updateFlagSelector(msg)
	case ModeShellSelector:
		return m.updateShellSelector(msg)
	case ModeTagEditor:
		return m.updateTagEditor(msg)
	case ModeDockerList:
		return m.updateDockerList(msg)
	case ModeDockerConfirm:
		return m.updateDockerConfirm(msg)
	case ModeDockerLogs:
		return m.updateDockerLogs(msg)
	case ModeDockerStats:
		return m.updateDockerStats(msg)
	case ModeDockerProcesses, ModeDockerInspect, ModeDockerEnv:
		return m.updateDockerDetail(msg)
	case ModeScriptBrowser:
		return m.updateScriptBrowser(msg)
	case ModeScriptViewer:
		return m.updateScriptViewer(msg)
	case ModeScriptEditor:
		return m.updateScriptEditor(msg)
	case ModeFileBrowser:
		return m.updateFileBrowser(msg)
	case ModeRsync:
		return m.updateRsync(msg)
	}
	return m, nil
}

// updateAsync handles completion messages from commands. Every handler
// checks staleness first: a message from a superseded fetch or stream is
// dropped on the floor.
func (m *Model) updateAsync(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case containersMsg:
		if m.docker.host == nil || msg.alias != m.docker.host.Alias {
			return m, nil
		}
		m.docker.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.docker.containers = msg.containers
		m.docker.scripts = msg.scripts
		m.docker.cursor = moveCursor(m.docker.cursor, 0, len(msg.containers))
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.docker.loading = false
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("%s %s: done", msg.verb, msg.name))
		return m, m.refreshContainers()

	case deployDoneMsg:
		m.docker.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		logging.Info("docker", "deploy script for %s finished", msg.name)
		m.setStatus(fmt.Sprintf("deployed %s", msg.name))
		return m, m.refreshContainers()

	case streamStartedMsg:
		if msg.gen != m.docker.streamGen {
			if msg.stream != nil {
				msg.stream.Cancel()
			}
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.docker.stream = msg.stream
		return m, readLogBatch(msg.stream, msg.gen)

	case logBatchMsg:
		if msg.gen != m.docker.streamGen {
			return m, nil
		}
		m.docker.logLines = append(m.docker.logLines, msg.lines...)
		// The buffer is bounded by the active tail setting, so follow
		// mode keeps exactly the window the user asked for.
		if n, limit := len(m.docker.logLines), m.tailSize(); n > limit {
			m.docker.logLines = m.docker.logLines[n-limit:]
		}
		if m.docker.autoScroll {
			m.docker.logScroll = len(m.docker.logLines)
		}
		if msg.closed {
			m.docker.stream = nil
			m.docker.follow = false
			return m, nil
		}
		return m, readLogBatch(m.docker.stream, msg.gen)

	case statsTickMsg:
		if msg.gen != m.docker.statsGen || m.mode != ModeDockerStats || m.docker.target == nil {
			return m, nil
		}
		return m, fetchStats(m.runner, m.docker.host, m.docker.target.ID, msg.gen)

	case statsMsg:
		if msg.gen != m.docker.statsGen || m.mode != ModeDockerStats {
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.docker.stats = msg.stats
		}
		return m, statsTick(msg.gen)

	case processesMsg:
		m.docker.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.docker.procs = msg.procs
		return m, nil

	case inspectMsg:
		m.docker.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.docker.info = msg.info
		return m, nil

	case envMsg:
		m.docker.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.docker.env = msg.entries
		return m, nil

	case dirListingMsg:
		m.script.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.script.dir = msg.path
		m.script.entries = msg.entries
		m.script.cursor = 0
		return m, nil

	case scriptLoadedMsg:
		return m.handleScriptLoaded(msg)

	case scriptSavedMsg:
		m.script.loading = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.script.dirty = false
		m.setStatus("script saved: " + msg.path)
		return m, nil

	case sessionFinishedMsg:
		return m.handleSessionFinished(msg)

	case rsyncFinishedMsg:
		m.rsync.running = false
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("transfer complete")
		return m, nil

	case yankedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("copied: " + msg.command)
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		}
		return m, nil

	case reloadedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.registry = msg.reg
		m.hosts.cursor = moveCursor(m.hosts.cursor, 0, len(m.visibleHosts()))
		m.setStatus("configuration reloaded")
		return m, nil
	}
	return m, nil
}

// refreshContainers re-fetches the container list for the active host.
func (m *Model) refreshContainers() tea.Cmd {
	if m.docker.host == nil {
		return nil
	}
	m.docker.loading = true
	return tea.Batch(
		m.spinner.Tick,
		fetchContainers(m.runner, m.docker.host, m.docker.psAll, m.settings.ScriptsPath),
	)
}

// handleSessionFinished stamps the host as used after an interactive
// session and persists the stamp without rewriting the SSH config.
func (m *Model) handleSessionFinished(msg sessionFinishedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		logging.Error("session", msg.err, "ssh session for %s ended", msg.alias)
		m.setError(msg.err)
	} else {
		m.setStatus("session closed: " + msg.alias)
	}
	if host := m.registry.Find(msg.alias); host != nil {
		host.MarkUsed()
		store := m.store
		reg := m.registry
		return m, func() tea.Msg {
			return savedMsg{err: store.SaveMetadata(reg)}
		}
	}
	return m, nil
}
