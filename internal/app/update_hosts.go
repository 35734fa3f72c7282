// internal/app/update_hosts.go

package app

import (
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) updateHostList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	visible := m.visibleHosts()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		// esc clears active filters before it quits.
		if m.hosts.query != "" || len(m.hosts.tagFilter) > 0 {
			m.hosts.query = ""
			m.hosts.search.SetValue("")
			m.hosts.tagFilter = nil
			m.hosts.cursor = 0
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.hosts.cursor = moveCursor(m.hosts.cursor, -1, len(visible))
	case key.Matches(msg, m.keys.Down):
		m.hosts.cursor = moveCursor(m.hosts.cursor, 1, len(visible))
	case key.Matches(msg, m.keys.PageUp):
		m.hosts.cursor = moveCursor(m.hosts.cursor, -10, len(visible))
	case key.Matches(msg, m.keys.PageDown):
		m.hosts.cursor = moveCursor(m.hosts.cursor, 10, len(visible))
	case key.Matches(msg, m.keys.Home):
		m.hosts.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.hosts.cursor = moveCursor(0, len(visible)-1, len(visible))

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Toggle):
		host := m.selectedHost()
		if host == nil {
			return m, nil
		}
		m.clearStatus()
		return m, openSession(host)

	case key.Matches(msg, m.keys.Add):
		m.openEditor(nil)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Edit):
		if host := m.selectedHost(); host != nil {
			m.openEditor(host)
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Duplicate):
		if host := m.selectedHost(); host != nil {
			dup := host.Clone()
			dup.Alias = uniqueAlias(m, host.Alias)
			dup.LastUsed = nil
			m.openEditor(nil)
			m.editor.draft = dup
			m.syncEditorInputs()
			return m, textinput.Blink
		}

	case key.Matches(msg, m.keys.Delete):
		if host := m.selectedHost(); host != nil {
			m.hosts.deleteAlias = host.Alias
			m.mode = ModeDeleteConfirm
		}

	case key.Matches(msg, m.keys.Search):
		m.hosts.search.SetValue(m.hosts.query)
		m.hosts.search.Focus()
		m.mode = ModeSearch
		return m, textinput.Blink

	case key.Matches(msg, m.keys.TagFilter):
		m.hosts.tagCursor = 0
		m.mode = ModeTagFilter

	case key.Matches(msg, m.keys.TagPool):
		m.openTagEditor(nil)
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.hosts.sort = m.hosts.sort.Next()
		m.setStatus("sorted by " + m.hosts.sort.Label())

	case key.Matches(msg, m.keys.Help):
		m.hosts.prevMode = ModeHostList
		m.mode = ModeHelp

	case key.Matches(msg, m.keys.Yank):
		if host := m.selectedHost(); host != nil {
			return m, yankSSHCommand(host)
		}

	case key.Matches(msg, m.keys.Reload):
		return m, reloadRegistry(m.store)

	case key.Matches(msg, m.keys.Docker):
		if host := m.selectedHost(); host != nil {
			return m, m.openDockerList(host)
		}

	case key.Matches(msg, m.keys.Rsync):
		if host := m.selectedHost(); host != nil {
			m.openRsync(host)
			return m, textinput.Blink
		}
	}
	return m, nil
}

// uniqueAlias finds the first "<alias>-copy", "<alias>-copy2", ... not in
// the registry.
func uniqueAlias(m *Model, alias string) string {
	candidate := alias + "-copy"
	for n := 2; m.registry.Find(candidate) != nil; n++ {
		candidate = alias + "-copy" + strconv.Itoa(n)
	}
	return candidate
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.hosts.query = m.hosts.search.Value()
		m.hosts.search.Blur()
		m.mode = ModeHostList
		return m, nil
	case "esc":
		m.hosts.search.SetValue("")
		m.hosts.query = ""
		m.hosts.search.Blur()
		m.mode = ModeHostList
		return m, nil
	}
	var cmd tea.Cmd
	m.hosts.search, cmd = m.hosts.search.Update(msg)
	// Live filtering: the list narrows while typing.
	m.hosts.query = m.hosts.search.Value()
	m.hosts.cursor = 0
	return m, cmd
}

func (m *Model) updateTagFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tags := m.registry.Tags

	switch {
	case key.Matches(msg, m.keys.Up):
		m.hosts.tagCursor = moveCursor(m.hosts.tagCursor, -1, len(tags))
	case key.Matches(msg, m.keys.Down):
		m.hosts.tagCursor = moveCursor(m.hosts.tagCursor, 1, len(tags))

	case key.Matches(msg, m.keys.Toggle):
		if len(tags) == 0 {
			return m, nil
		}
		tag := tags[m.hosts.tagCursor]
		m.hosts.tagFilter = toggleString(m.hosts.tagFilter, tag)
		m.hosts.cursor = 0

	case msg.String() == "c":
		m.hosts.tagFilter = nil
		m.hosts.cursor = 0

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Back):
		m.mode = ModeHostList
	}
	return m, nil
}

func toggleString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return append(list, s)
}

func (m *Model) updateDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		alias := m.hosts.deleteAlias
		m.hosts.deleteAlias = ""
		m.mode = ModeHostList
		if m.registry.Remove(alias) {
			m.save()
			if m.status.IsError {
				return m, nil
			}
			m.setStatus("deleted " + alias)
			m.hosts.cursor = moveCursor(m.hosts.cursor, 0, len(m.visibleHosts()))
		}
	case "n", "esc", "q":
		m.hosts.deleteAlias = ""
		m.mode = ModeHostList
	}
	return m, nil
}

func (m *Model) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = m.hosts.prevMode
	return m, nil
}
