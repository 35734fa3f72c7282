// internal/app/update_docker.go

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sshdock/internal/docker"
	"sshdock/internal/models"
)

// openDockerList switches to the container screen for host and kicks off
// the first refresh.
func (m *Model) openDockerList(host *models.Host) tea.Cmd {
	m.stopStream()
	m.docker.host = host
	m.docker.containers = nil
	m.docker.cursor = 0
	m.docker.target = nil
	m.clearStatus()
	m.mode = ModeDockerList
	return m.refreshContainers()
}

func (m *Model) updateDockerList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = ModeHostList
		m.clearStatus()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.docker.cursor = moveCursor(m.docker.cursor, -1, len(m.docker.containers))
	case key.Matches(msg, m.keys.Down):
		m.docker.cursor = moveCursor(m.docker.cursor, 1, len(m.docker.containers))

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshContainers()

	case key.Matches(msg, m.keys.ToggleAll):
		m.docker.psAll = !m.docker.psAll
		return m, m.refreshContainers()

	case key.Matches(msg, m.keys.Start):
		if c := m.selectedContainer(); c != nil {
			m.confirmAction("start", c)
		}

	case key.Matches(msg, m.keys.Stop):
		if c := m.selectedContainer(); c != nil {
			m.confirmAction("stop", c)
		}

	case key.Matches(msg, m.keys.Restart):
		if c := m.selectedContainer(); c != nil {
			m.confirmAction("restart", c)
		}

	case key.Matches(msg, m.keys.Pull):
		if c := m.selectedContainer(); c != nil {
			m.confirmAction("pull", c)
		}

	case key.Matches(msg, m.keys.Remove):
		if c := m.selectedContainer(); c != nil {
			m.confirmAction("remove", c)
		}

	case key.Matches(msg, m.keys.RemoveImage):
		if c := m.selectedContainer(); c != nil {
			m.confirmAction("remove+image", c)
		}

	case key.Matches(msg, m.keys.ExecScript):
		if c := m.selectedContainer(); c != nil {
			if !c.HasScript() {
				m.setStatus("no deployment script found for " + c.Name)
				return m, nil
			}
			m.confirmAction("deploy", c)
		}

	case key.Matches(msg, m.keys.ViewScript):
		if c := m.selectedContainer(); c != nil {
			if !c.HasScript() {
				m.setStatus("no deployment script found for " + c.Name)
				return m, nil
			}
			return m, m.openScript(c.ScriptPath, ModeDockerList, false)
		}

	case key.Matches(msg, m.keys.Edit):
		if c := m.selectedContainer(); c != nil {
			if !c.HasScript() {
				m.setStatus("no deployment script found for " + c.Name)
				return m, nil
			}
			return m, m.openScript(c.ScriptPath, ModeDockerList, true)
		}

	case key.Matches(msg, m.keys.Logs), key.Matches(msg, m.keys.Enter):
		if c := m.selectedContainer(); c != nil {
			return m, m.openLogs(c, false)
		}

	case key.Matches(msg, m.keys.Stats):
		if c := m.selectedContainer(); c != nil {
			return m, m.openStats(c)
		}

	case key.Matches(msg, m.keys.Processes):
		if c := m.selectedContainer(); c != nil {
			m.docker.target = c
			m.docker.procs = nil
			m.docker.detailScroll = 0
			m.docker.loading = true
			m.mode = ModeDockerProcesses
			return m, tea.Batch(m.spinner.Tick, fetchProcesses(m.runner, m.docker.host, c.ID))
		}

	case key.Matches(msg, m.keys.Inspect):
		if c := m.selectedContainer(); c != nil {
			m.docker.target = c
			m.docker.info = nil
			m.docker.detailScroll = 0
			m.docker.loading = true
			m.mode = ModeDockerInspect
			return m, tea.Batch(m.spinner.Tick, fetchInspect(m.runner, m.docker.host, c.ID))
		}

	case key.Matches(msg, m.keys.Env):
		if c := m.selectedContainer(); c != nil {
			m.docker.target = c
			m.docker.env = nil
			m.docker.showSecrets = false
			m.docker.envFiltering = false
			m.docker.envQuery = ""
			m.docker.detailScroll = 0
			m.docker.loading = true
			m.mode = ModeDockerEnv
			return m, tea.Batch(m.spinner.Tick, fetchEnv(m.runner, m.docker.host, c.ID))
		}

	case key.Matches(msg, m.keys.Browse):
		return m, m.openScriptBrowser(m.settings.ScriptsPath)

	case key.Matches(msg, m.keys.Help):
		m.hosts.prevMode = ModeDockerList
		m.mode = ModeHelp
	}
	return m, nil
}

func (m *Model) confirmAction(verb string, c *models.Container) {
	m.docker.confirmVerb = verb
	m.docker.confirmID = c.ID
	m.docker.confirmName = c.Name
	m.docker.confirmImage = c.Image
	m.mode = ModeDockerConfirm
}

func (m *Model) updateDockerConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	verb := m.docker.confirmVerb
	id := m.docker.confirmID
	name := m.docker.confirmName
	image := m.docker.confirmImage

	switch msg.String() {
	case "y", "Y", "enter":
		m.mode = ModeDockerList
		m.docker.loading = true
		var action tea.Cmd
		switch verb {
		case "start":
			action = runContainerAction(m.runner, m.docker.host, "start", docker.StartCommand(id), name)
		case "stop":
			action = runContainerAction(m.runner, m.docker.host, "stop", docker.StopCommand(id), name)
		case "restart":
			action = runContainerAction(m.runner, m.docker.host, "restart", docker.RestartCommand(id), name)
		case "pull":
			action = runContainerAction(m.runner, m.docker.host, "pull", docker.PullCommand(image), name)
		case "remove":
			action = runContainerAction(m.runner, m.docker.host, "remove", docker.RemoveCommand(id, false), name)
		case "remove+image":
			// The image removal only runs once the container is gone.
			command := docker.RemoveCommand(id, false) + " && " + docker.RemoveImageCommand(image)
			action = runContainerAction(m.runner, m.docker.host, "remove", command, name)
		case "deploy":
			if c := m.containerByID(id); c != nil {
				action = runDeploy(m.runner, m.docker.host, c.ScriptPath, name)
			}
		}
		if action == nil {
			m.docker.loading = false
			return m, nil
		}
		return m, tea.Batch(m.spinner.Tick, action)

	case "v":
		// Remove including anonymous volumes.
		if verb == "remove" {
			m.mode = ModeDockerList
			m.docker.loading = true
			return m, tea.Batch(m.spinner.Tick,
				runContainerAction(m.runner, m.docker.host, "remove", docker.RemoveCommand(id, true), name))
		}

	case "n", "N", "esc", "q":
		m.mode = ModeDockerList
	}
	return m, nil
}

func (m *Model) containerByID(id string) *models.Container {
	for _, c := range m.docker.containers {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// openLogs starts a fresh log stream for the container.
func (m *Model) openLogs(c *models.Container, follow bool) tea.Cmd {
	m.stopStream()
	m.docker.target = c
	m.docker.logLines = nil
	m.docker.logScroll = 0
	m.docker.autoScroll = true
	m.docker.follow = follow
	m.mode = ModeDockerLogs
	gen := m.docker.streamGen
	return startLogStream(m.runner, m.docker.host, c.ID, m.tailSize(), follow, gen)
}

func (m *Model) updateDockerLogs(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pageSize := m.height - 4
	if pageSize < 1 {
		pageSize = 10
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.stopStream()
		m.mode = ModeDockerList
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.docker.autoScroll = false
		m.docker.logScroll = clamp(m.docker.logScroll-1, 0, len(m.docker.logLines))
	case key.Matches(msg, m.keys.Down):
		m.docker.logScroll = clamp(m.docker.logScroll+1, 0, len(m.docker.logLines))
	case key.Matches(msg, m.keys.PageUp):
		m.docker.autoScroll = false
		m.docker.logScroll = clamp(m.docker.logScroll-pageSize, 0, len(m.docker.logLines))
	case key.Matches(msg, m.keys.PageDown):
		m.docker.logScroll = clamp(m.docker.logScroll+pageSize, 0, len(m.docker.logLines))
	case key.Matches(msg, m.keys.Home):
		m.docker.autoScroll = false
		m.docker.logScroll = 0
	case key.Matches(msg, m.keys.End):
		m.docker.autoScroll = true
		m.docker.logScroll = len(m.docker.logLines)

	case key.Matches(msg, m.keys.Follow):
		if m.docker.target == nil {
			return m, nil
		}
		// Flip follow by restarting the stream in the other mode.
		return m, m.openLogs(m.docker.target, !m.docker.follow)

	case key.Matches(msg, m.keys.CycleTail):
		if m.docker.target == nil {
			return m, nil
		}
		m.docker.tailIdx = (m.docker.tailIdx + 1) % len(tailSizes)
		return m, m.openLogs(m.docker.target, m.docker.follow)
	}
	return m, nil
}

// openStats enters the live stats screen and takes the first sample.
func (m *Model) openStats(c *models.Container) tea.Cmd {
	m.docker.target = c
	m.docker.stats = nil
	m.docker.statsGen++
	m.mode = ModeDockerStats
	return fetchStats(m.runner, m.docker.host, c.ID, m.docker.statsGen)
}

func (m *Model) updateDockerStats(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		// Bump the generation so pending ticks die quietly.
		m.docker.statsGen++
		m.mode = ModeDockerList

	case key.Matches(msg, m.keys.RefreshNow):
		// An immediate sample; bumping the generation retires the old
		// tick loop so samples never double up.
		if m.docker.target == nil {
			return m, nil
		}
		m.docker.statsGen++
		return m, fetchStats(m.runner, m.docker.host, m.docker.target.ID, m.docker.statsGen)
	}
	return m, nil
}

// updateDockerDetail serves the static detail screens: processes,
// inspect, environment.
func (m *Model) updateDockerDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeDockerEnv && m.docker.envFiltering {
		return m.updateEnvFilter(msg)
	}

	rows := m.detailRows()
	pageSize := m.height - 6
	if pageSize < 1 {
		pageSize = 10
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = ModeDockerList
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.docker.detailScroll = clamp(m.docker.detailScroll-1, 0, rows)
	case key.Matches(msg, m.keys.Down):
		m.docker.detailScroll = clamp(m.docker.detailScroll+1, 0, rows)
	case key.Matches(msg, m.keys.PageUp):
		m.docker.detailScroll = clamp(m.docker.detailScroll-pageSize, 0, rows)
	case key.Matches(msg, m.keys.PageDown):
		m.docker.detailScroll = clamp(m.docker.detailScroll+pageSize, 0, rows)
	case key.Matches(msg, m.keys.Home):
		m.docker.detailScroll = 0
	case key.Matches(msg, m.keys.End):
		m.docker.detailScroll = rows

	case key.Matches(msg, m.keys.RefreshNow):
		c := m.docker.target
		if c == nil {
			return m, nil
		}
		m.docker.loading = true
		switch m.mode {
		case ModeDockerProcesses:
			return m, tea.Batch(m.spinner.Tick, fetchProcesses(m.runner, m.docker.host, c.ID))
		case ModeDockerInspect:
			return m, tea.Batch(m.spinner.Tick, fetchInspect(m.runner, m.docker.host, c.ID))
		case ModeDockerEnv:
			return m, tea.Batch(m.spinner.Tick, fetchEnv(m.runner, m.docker.host, c.ID))
		}

	case key.Matches(msg, m.keys.Search):
		if m.mode == ModeDockerEnv {
			m.docker.envInput = textinput.New()
			m.docker.envInput.Placeholder = "filter"
			m.docker.envInput.CharLimit = 64
			m.docker.envInput.SetValue(m.docker.envQuery)
			m.docker.envInput.Focus()
			m.docker.envFiltering = true
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.ToggleSecrets):
		if m.mode == ModeDockerEnv {
			m.docker.showSecrets = !m.docker.showSecrets
		}
	}
	return m, nil
}

// updateEnvFilter narrows the environment listing while typing.
func (m *Model) updateEnvFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.docker.envQuery = m.docker.envInput.Value()
		m.docker.envInput.Blur()
		m.docker.envFiltering = false
		return m, nil
	case "esc":
		m.docker.envInput.SetValue("")
		m.docker.envQuery = ""
		m.docker.envInput.Blur()
		m.docker.envFiltering = false
		return m, nil
	}
	var cmd tea.Cmd
	m.docker.envInput, cmd = m.docker.envInput.Update(msg)
	m.docker.envQuery = m.docker.envInput.Value()
	return m, cmd
}

// detailRows is the scrollable row count of the active detail screen.
func (m *Model) detailRows() int {
	switch m.mode {
	case ModeDockerProcesses:
		return len(m.docker.procs)
	case ModeDockerEnv:
		return len(m.filteredEnv())
	case ModeDockerInspect:
		if m.docker.info == nil {
			return 0
		}
		return 8 + len(m.docker.info.Mounts)
	}
	return 0
}

// filteredEnv applies the env filter to key and value, case-insensitive.
func (m *Model) filteredEnv() []models.EnvEntry {
	if m.docker.envQuery == "" {
		return m.docker.env
	}
	q := strings.ToLower(m.docker.envQuery)
	var out []models.EnvEntry
	for _, e := range m.docker.env {
		if strings.Contains(strings.ToLower(e.Key), q) || strings.Contains(strings.ToLower(e.Value), q) {
			out = append(out, e)
		}
	}
	return out
}
