// internal/app/update_scripts.go

package app

import (
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sshdock/internal/apperr"
	"sshdock/internal/docker"
	"sshdock/internal/script"
)

// openScriptBrowser lists the deployment script tree on the active host.
func (m *Model) openScriptBrowser(root string) tea.Cmd {
	root = docker.RemotePath(root)
	m.script.root = root
	m.script.entries = nil
	m.script.cursor = 0
	m.script.loading = true
	m.mode = ModeScriptBrowser
	return tea.Batch(m.spinner.Tick, fetchDir(m.runner, m.docker.host, root))
}

// openScript fetches a script by path. returnMode is where the viewer
// pops back to; autoEdit drops straight into the editor once parsed.
func (m *Model) openScript(scriptPath string, returnMode Mode, autoEdit bool) tea.Cmd {
	m.script.returnMode = returnMode
	m.script.autoEdit = autoEdit
	m.script.loading = true
	return tea.Batch(m.spinner.Tick, loadScript(m.runner, m.docker.host, scriptPath))
}

func (m *Model) updateScriptBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.script.entries

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = ModeDockerList
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.script.cursor = moveCursor(m.script.cursor, -1, len(entries))
	case key.Matches(msg, m.keys.Down):
		m.script.cursor = moveCursor(m.script.cursor, 1, len(entries))
	case key.Matches(msg, m.keys.PageUp):
		m.script.cursor = moveCursor(m.script.cursor, -10, len(entries))
	case key.Matches(msg, m.keys.PageDown):
		m.script.cursor = moveCursor(m.script.cursor, 10, len(entries))
	case key.Matches(msg, m.keys.Home):
		m.script.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.script.cursor = moveCursor(0, len(entries)-1, len(entries))

	case key.Matches(msg, m.keys.RefreshNow):
		m.script.loading = true
		return m, tea.Batch(m.spinner.Tick, fetchDir(m.runner, m.docker.host, m.script.dir))

	case key.Matches(msg, m.keys.Enter):
		if len(entries) == 0 {
			return m, nil
		}
		entry := entries[m.script.cursor]
		if entry.IsDir {
			next := path.Join(m.script.dir, entry.Name)
			if entry.Name == ".." && m.script.dir == m.script.root {
				return m, nil // don't climb above the scripts root
			}
			m.script.loading = true
			return m, tea.Batch(m.spinner.Tick, fetchDir(m.runner, m.docker.host, next))
		}
		if entry.IsScript() {
			return m, m.openScript(path.Join(m.script.dir, entry.Name), ModeScriptBrowser, false)
		}
		m.setStatus(entry.Name + " is not a deployment script")
	}
	return m, nil
}

// handleScriptLoaded parses the fetched script and opens the viewer. A
// script the parser cannot understand still opens read-only.
func (m *Model) handleScriptLoaded(msg scriptLoadedMsg) (tea.Model, tea.Cmd) {
	m.script.loading = false
	if msg.err != nil {
		m.script.autoEdit = false
		m.setError(msg.err)
		return m, nil
	}
	m.script.path = msg.path
	m.script.content = msg.content
	m.script.scroll = 0
	m.script.dirty = false
	m.script.spec, m.script.parseErr = script.Parse(msg.content)
	if m.script.spec != nil {
		m.script.spec.Path = msg.path
	}
	if m.script.autoEdit && m.script.spec != nil {
		m.script.autoEdit = false
		if m.script.parseErr != nil {
			m.setStatus("script only partially understood; unrecognized parts kept verbatim")
		}
		m.openScriptEditor()
		return m, nil
	}
	m.script.autoEdit = false
	m.mode = ModeScriptViewer
	return m, nil
}

func (m *Model) updateScriptViewer(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := strings.Count(m.script.content, "\n") + 1
	pageSize := m.height - 4
	if pageSize < 1 {
		pageSize = 10
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = m.script.returnMode
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.script.scroll = clamp(m.script.scroll-1, 0, lines)
	case key.Matches(msg, m.keys.Down):
		m.script.scroll = clamp(m.script.scroll+1, 0, lines)
	case key.Matches(msg, m.keys.PageUp):
		m.script.scroll = clamp(m.script.scroll-pageSize, 0, lines)
	case key.Matches(msg, m.keys.PageDown):
		m.script.scroll = clamp(m.script.scroll+pageSize, 0, lines)
	case key.Matches(msg, m.keys.Home):
		m.script.scroll = 0
	case key.Matches(msg, m.keys.End):
		m.script.scroll = lines

	case key.Matches(msg, m.keys.Edit):
		if m.script.spec == nil {
			m.setError(m.script.parseErr)
			return m, nil
		}
		if m.script.parseErr != nil {
			// Degraded spec: the command survives as extra arguments.
			m.setStatus("script only partially understood; unrecognized parts kept verbatim")
		}
		m.openScriptEditor()
		return m, nil

	case key.Matches(msg, m.keys.ExecScript):
		name := path.Base(m.script.path)
		if m.script.spec != nil && m.script.spec.ContainerName != "" {
			name = m.script.spec.ContainerName
		}
		m.docker.loading = true
		return m, tea.Batch(m.spinner.Tick,
			runDeploy(m.runner, m.docker.host, m.script.path, name))
	}
	return m, nil
}

// openScriptEditor enters the tabbed spec editor (env, ports, volumes,
// network) for the parsed spec.
func (m *Model) openScriptEditor() {
	keyInput := textinput.New()
	keyInput.Placeholder = "KEY"
	keyInput.CharLimit = 64
	valInput := textinput.New()
	valInput.Placeholder = "value"
	valInput.CharLimit = 256

	m.script.keyInput = keyInput
	m.script.valInput = valInput
	m.script.tab = tabEnv
	m.script.rowCursor = 0
	m.script.editing = false
	m.script.adding = false
	m.mode = ModeScriptEditor
}

// editorRows is the row count of the active script editor tab.
func (m *Model) scriptTabRows() int {
	switch m.script.tab {
	case tabPorts:
		return len(m.script.spec.Ports)
	case tabVolumes:
		return len(m.script.spec.Volumes)
	case tabNetwork:
		return 1
	default:
		return len(m.script.spec.SortedEnv())
	}
}

func (m *Model) updateScriptEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.script.editing || m.script.adding {
		return m.updateScriptRowInput(msg)
	}

	rows := m.scriptTabRows()
	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		// Back to the viewer; an edited spec previews its regenerated
		// form until saved.
		if m.script.dirty {
			m.script.content = script.Generate(m.script.spec)
		}
		m.mode = ModeScriptViewer
		return m, nil

	case msg.String() == "tab":
		m.script.tab = (m.script.tab + 1) % tabCount
		m.script.rowCursor = 0
	case msg.String() == "shift+tab":
		m.script.tab = (m.script.tab + tabCount - 1) % tabCount
		m.script.rowCursor = 0

	case key.Matches(msg, m.keys.Up):
		m.script.rowCursor = moveCursor(m.script.rowCursor, -1, rows)
	case key.Matches(msg, m.keys.Down):
		m.script.rowCursor = moveCursor(m.script.rowCursor, 1, rows)

	case key.Matches(msg, m.keys.Enter):
		return m, m.startRowEdit()

	case msg.String() == "a":
		return m, m.startRowAdd()

	case msg.String() == "d":
		m.deleteScriptRow()

	case key.Matches(msg, m.keys.Save):
		if !m.script.dirty {
			m.setStatus("no changes to save")
			return m, nil
		}
		content := script.Generate(m.script.spec)
		m.script.content = content
		m.script.loading = true
		return m, tea.Batch(m.spinner.Tick,
			saveScript(m.runner, m.docker.host, m.script.path, content))
	}
	return m, nil
}

// startRowEdit loads the row under the cursor into the edit inputs.
func (m *Model) startRowEdit() tea.Cmd {
	spec := m.script.spec
	switch m.script.tab {
	case tabEnv:
		env := spec.SortedEnv()
		if len(env) == 0 {
			return nil
		}
		entry := env[m.script.rowCursor]
		m.script.keyInput.SetValue(entry.Key)
		m.script.valInput.SetValue(entry.Value)
		m.script.focusVal = true
	case tabPorts:
		if len(spec.Ports) == 0 {
			return nil
		}
		m.script.valInput.SetValue(spec.Ports[m.script.rowCursor].String())
		m.script.valInput.Placeholder = "host:container[/proto]"
	case tabVolumes:
		if len(spec.Volumes) == 0 {
			return nil
		}
		m.script.valInput.SetValue(spec.Volumes[m.script.rowCursor].String())
		m.script.valInput.Placeholder = "host-path:container-path[:mode]"
	case tabNetwork:
		m.script.valInput.SetValue(spec.Network)
		m.script.valInput.Placeholder = "bridge, host, none or a network name"
	}
	m.script.editing = true
	m.script.valInput.Focus()
	return textinput.Blink
}

// startRowAdd opens empty inputs for a new row; the network tab has a
// single row, so adding is editing.
func (m *Model) startRowAdd() tea.Cmd {
	switch m.script.tab {
	case tabNetwork:
		return m.startRowEdit()
	case tabEnv:
		m.script.keyInput.SetValue("")
		m.script.valInput.SetValue("")
		m.script.keyInput.Focus()
		m.script.focusVal = false
	case tabPorts:
		m.script.valInput.SetValue("")
		m.script.valInput.Placeholder = "host:container[/proto]"
		m.script.valInput.Focus()
	case tabVolumes:
		m.script.valInput.SetValue("")
		m.script.valInput.Placeholder = "host-path:container-path[:mode]"
		m.script.valInput.Focus()
	}
	m.script.adding = true
	if m.script.tab != tabEnv {
		m.script.editing = false
	}
	return textinput.Blink
}

func (m *Model) deleteScriptRow() {
	spec := m.script.spec
	switch m.script.tab {
	case tabEnv:
		env := spec.SortedEnv()
		if len(env) > 0 {
			spec.RemoveEnv(env[m.script.rowCursor].Key)
			m.script.dirty = true
		}
	case tabPorts:
		if len(spec.Ports) > 0 {
			i := m.script.rowCursor
			spec.Ports = append(spec.Ports[:i], spec.Ports[i+1:]...)
			m.script.dirty = true
		}
	case tabVolumes:
		if len(spec.Volumes) > 0 {
			i := m.script.rowCursor
			spec.Volumes = append(spec.Volumes[:i], spec.Volumes[i+1:]...)
			m.script.dirty = true
		}
	case tabNetwork:
		if spec.Network != "" {
			spec.Network = ""
			m.script.dirty = true
		}
	}
	m.script.rowCursor = moveCursor(m.script.rowCursor, 0, m.scriptTabRows())
}

// updateScriptRowInput handles the row entry overlay for every tab.
func (m *Model) updateScriptRowInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.script.editing = false
		m.script.adding = false
		m.script.keyInput.Blur()
		m.script.valInput.Blur()
		return m, nil

	case "tab":
		if m.script.tab == tabEnv && m.script.adding {
			m.script.focusVal = !m.script.focusVal
			if m.script.focusVal {
				m.script.keyInput.Blur()
				m.script.valInput.Focus()
			} else {
				m.script.valInput.Blur()
				m.script.keyInput.Focus()
			}
			return m, textinput.Blink
		}

	case "enter":
		if err := m.commitScriptRow(); err != nil {
			m.setError(err)
			return m, nil
		}
		m.script.dirty = true
		m.script.editing = false
		m.script.adding = false
		m.script.keyInput.Blur()
		m.script.valInput.Blur()
		m.script.rowCursor = moveCursor(m.script.rowCursor, 0, m.scriptTabRows())
		return m, nil
	}

	var cmd tea.Cmd
	if m.script.tab == tabEnv && !m.script.focusVal && m.script.adding {
		m.script.keyInput, cmd = m.script.keyInput.Update(msg)
	} else {
		m.script.valInput, cmd = m.script.valInput.Update(msg)
	}
	return m, cmd
}

// commitScriptRow validates the entered value and writes it to the spec.
func (m *Model) commitScriptRow() error {
	spec := m.script.spec
	value := strings.TrimSpace(m.script.valInput.Value())

	switch m.script.tab {
	case tabEnv:
		keyName := strings.TrimSpace(m.script.keyInput.Value())
		if keyName == "" {
			return apperr.Newf(apperr.Validation, "variable name cannot be empty")
		}
		spec.SetEnv(keyName, m.script.valInput.Value())
	case tabPorts:
		pm, err := script.ParsePortSpec(value)
		if err != nil {
			return err
		}
		if m.script.adding {
			spec.Ports = append(spec.Ports, pm)
		} else {
			spec.Ports[m.script.rowCursor] = pm
		}
	case tabVolumes:
		vm, err := script.ParseVolumeSpec(value)
		if err != nil {
			return err
		}
		if m.script.adding {
			spec.Volumes = append(spec.Volumes, vm)
		} else {
			spec.Volumes[m.script.rowCursor] = vm
		}
	case tabNetwork:
		spec.Network = value
	}
	return nil
}

// updateFileBrowser picks a directory or file for the rsync form, on
// whichever side of the transfer is being browsed.
func (m *Model) updateFileBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.script.entries

	pick := func(value string) {
		if m.rsync.browseLocal {
			m.rsync.local.SetValue(value)
		} else {
			m.rsync.remote.SetValue(value)
		}
		m.mode = ModeRsync
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = ModeRsync
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.script.cursor = moveCursor(m.script.cursor, -1, len(entries))
	case key.Matches(msg, m.keys.Down):
		m.script.cursor = moveCursor(m.script.cursor, 1, len(entries))
	case key.Matches(msg, m.keys.PageUp):
		m.script.cursor = moveCursor(m.script.cursor, -10, len(entries))
	case key.Matches(msg, m.keys.PageDown):
		m.script.cursor = moveCursor(m.script.cursor, 10, len(entries))
	case key.Matches(msg, m.keys.Home):
		m.script.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.script.cursor = moveCursor(0, len(entries)-1, len(entries))

	case key.Matches(msg, m.keys.Toggle):
		// Select the directory being browsed.
		pick(m.script.dir)
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		if len(entries) == 0 {
			return m, nil
		}
		entry := entries[m.script.cursor]
		if entry.IsDir {
			next := path.Join(m.script.dir, entry.Name)
			m.script.loading = true
			if m.rsync.browseLocal {
				return m, tea.Batch(m.spinner.Tick, fetchLocalDir(next))
			}
			return m, tea.Batch(m.spinner.Tick, fetchDir(m.runner, m.rsync.host, next))
		}
		pick(path.Join(m.script.dir, entry.Name))
		return m, nil
	}
	return m, nil
}
