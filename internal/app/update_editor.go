// internal/app/update_editor.go

package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sshdock/internal/models"
)

var editorLabels = [fieldCount]string{"Alias", "Hostname", "User", "Port", "Jump host", "Note"}

// openEditor prepares the form. host == nil starts a blank add; otherwise
// the host is cloned so cancel never touches the registry.
func (m *Model) openEditor(host *models.Host) {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 128
		inputs[i] = in
	}
	inputs[fieldPort].CharLimit = 5
	inputs[fieldNote].CharLimit = 256

	m.editor = editorState{
		inputs:     inputs,
		keyChoices: scanLocalKeys(),
	}
	if host != nil {
		m.editor.editingAlias = host.Alias
		m.editor.draft = host.Clone()
	} else {
		m.editor.draft = models.NewHost("", "")
	}
	m.syncEditorInputs()
	m.mode = ModeHostEditor
}

// syncEditorInputs copies the draft's scalar fields into the form.
func (m *Model) syncEditorInputs() {
	d := m.editor.draft
	m.editor.inputs[fieldAlias].SetValue(d.Alias)
	m.editor.inputs[fieldHostname].SetValue(d.Hostname)
	m.editor.inputs[fieldUser].SetValue(d.User)
	if d.Port != 0 {
		m.editor.inputs[fieldPort].SetValue(strconv.Itoa(d.Port))
	} else {
		m.editor.inputs[fieldPort].SetValue("")
	}
	m.editor.inputs[fieldJump].SetValue(d.ProxyJump)
	m.editor.inputs[fieldNote].SetValue(d.Note)
}

// applyEditorInputs copies the form back into the draft. A malformed port
// is reported without leaving the form.
func (m *Model) applyEditorInputs() bool {
	d := m.editor.draft
	d.Alias = strings.TrimSpace(m.editor.inputs[fieldAlias].Value())
	d.Hostname = strings.TrimSpace(m.editor.inputs[fieldHostname].Value())
	d.User = strings.TrimSpace(m.editor.inputs[fieldUser].Value())
	d.ProxyJump = strings.TrimSpace(m.editor.inputs[fieldJump].Value())
	d.Note = strings.TrimSpace(m.editor.inputs[fieldNote].Value())

	portText := strings.TrimSpace(m.editor.inputs[fieldPort].Value())
	if portText == "" {
		d.Port = 0
		return true
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		m.editor.errText = "port must be a number"
		return false
	}
	d.Port = port
	return true
}

// updateHostEditor runs the two-sub-mode form: navigation moves the row
// cursor over text fields and structured rows; enter either drops into
// the focused text input or pushes the matching selector.
func (m *Model) updateHostEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editor.editing {
		return m.updateEditorField(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeHostList
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.saveEditor()

	case key.Matches(msg, m.keys.NextField):
		m.editor.focus = (m.editor.focus + 1) % editorRowCount
	case key.Matches(msg, m.keys.PrevField):
		m.editor.focus = (m.editor.focus + editorRowCount - 1) % editorRowCount

	case key.Matches(msg, m.keys.Enter):
		switch m.editor.focus {
		case rowKeys:
			m.editor.keyCursor = 0
			m.mode = ModeKeySelector
		case rowFlags:
			m.editor.flagCursor = 0
			m.mode = ModeFlagSelector
		case rowShell:
			m.editor.shellCursor = 0
			m.mode = ModeShellSelector
		case rowTags:
			m.openTagEditor(m.editor.draft)
		default:
			m.editor.editing = true
			m.editor.inputs[m.editor.focus].Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

// updateEditorField is the field-edit sub-mode: the focused input owns
// the keyboard until enter commits it or esc drops back to navigation.
func (m *Model) updateEditorField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editor.inputs[m.editor.focus].Blur()
		m.editor.editing = false
		return m, nil

	case "enter", "tab":
		m.editor.inputs[m.editor.focus].Blur()
		m.editor.editing = false
		m.editor.focus = (m.editor.focus + 1) % editorRowCount
		return m, nil

	case "ctrl+s":
		m.editor.inputs[m.editor.focus].Blur()
		m.editor.editing = false
		return m.saveEditor()
	}

	var cmd tea.Cmd
	m.editor.inputs[m.editor.focus], cmd = m.editor.inputs[m.editor.focus].Update(msg)
	m.editor.errText = ""
	return m, cmd
}

func (m *Model) saveEditor() (tea.Model, tea.Cmd) {
	if !m.applyEditorInputs() {
		return m, nil
	}
	draft := m.editor.draft
	if err := m.store.Validate(draft, m.registry, m.editor.editingAlias); err != nil {
		m.editor.errText = err.Error()
		return m, nil
	}

	// Commit to the registry only once the write succeeds; a failed save
	// must leave the draft editable, not half-applied in memory.
	var prev *models.Host
	if m.editor.editingAlias != "" {
		prev = m.registry.Find(m.editor.editingAlias)
	}
	m.registry.Upsert(m.editor.editingAlias, draft)
	if err := m.store.Save(m.registry); err != nil {
		if prev != nil {
			m.registry.Upsert(draft.Alias, prev)
		} else {
			m.registry.Remove(draft.Alias)
		}
		m.setError(err)
		return m, nil
	}
	m.setStatus("saved " + draft.Alias)
	m.mode = ModeHostList
	// Keep the saved host under the cursor.
	for i, h := range m.visibleHosts() {
		if h.Alias == draft.Alias {
			m.hosts.cursor = i
			break
		}
	}
	return m, nil
}

func (m *Model) updateKeySelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	choices := m.editor.keyChoices

	switch {
	case key.Matches(msg, m.keys.Up):
		m.editor.keyCursor = moveCursor(m.editor.keyCursor, -1, len(choices))
	case key.Matches(msg, m.keys.Down):
		m.editor.keyCursor = moveCursor(m.editor.keyCursor, 1, len(choices))
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Enter):
		if len(choices) > 0 {
			path := choices[m.editor.keyCursor]
			m.editor.draft.IdentityFiles = toggleString(m.editor.draft.IdentityFiles, path)
		}
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = ModeHostEditor
	}
	return m, nil
}

func (m *Model) updateFlagSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := models.SSHFlagOptions()

	switch {
	case key.Matches(msg, m.keys.Up):
		m.editor.flagCursor = moveCursor(m.editor.flagCursor, -1, len(options))
	case key.Matches(msg, m.keys.Down):
		m.editor.flagCursor = moveCursor(m.editor.flagCursor, 1, len(options))
	case key.Matches(msg, m.keys.Toggle), key.Matches(msg, m.keys.Enter):
		flag := options[m.editor.flagCursor].Value
		m.editor.draft.SSHFlags = toggleString(m.editor.draft.SSHFlags, flag)
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = ModeHostEditor
	}
	return m, nil
}

func (m *Model) updateShellSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Row 0 clears the override; shells follow.
	options := models.ShellOptions()
	total := len(options) + 1

	switch {
	case key.Matches(msg, m.keys.Up):
		m.editor.shellCursor = moveCursor(m.editor.shellCursor, -1, total)
	case key.Matches(msg, m.keys.Down):
		m.editor.shellCursor = moveCursor(m.editor.shellCursor, 1, total)
	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Toggle):
		if m.editor.shellCursor == 0 {
			m.editor.draft.Shell = ""
		} else {
			m.editor.draft.Shell = options[m.editor.shellCursor-1].Value
		}
		m.mode = ModeHostEditor
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = ModeHostEditor
	}
	return m, nil
}

// openTagEditor enters tag management. host is the editor draft for
// per-host assignment, or nil to manage the global pool from the list.
func (m *Model) openTagEditor(host *models.Host) {
	input := textinput.New()
	input.Placeholder = "new tag"
	input.CharLimit = 32
	m.tags = tagEditorState{host: host, input: input}
	m.mode = ModeTagEditor
}

func (m *Model) updateTagEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.tags.adding {
		switch msg.String() {
		case "enter":
			name := strings.TrimSpace(m.tags.input.Value())
			if err := m.store.AddTag(m.registry, name); err != nil {
				m.setError(err)
			} else {
				if m.tags.host != nil {
					m.tags.host.Tags = append(m.tags.host.Tags, name)
				} else {
					m.save()
				}
			}
			m.tags.adding = false
			m.tags.input.SetValue("")
			return m, nil
		case "esc":
			m.tags.adding = false
			m.tags.input.SetValue("")
			return m, nil
		}
		var cmd tea.Cmd
		m.tags.input, cmd = m.tags.input.Update(msg)
		return m, cmd
	}

	pool := m.registry.Tags
	switch {
	case key.Matches(msg, m.keys.Up):
		m.tags.cursor = moveCursor(m.tags.cursor, -1, len(pool))
	case key.Matches(msg, m.keys.Down):
		m.tags.cursor = moveCursor(m.tags.cursor, 1, len(pool))

	case key.Matches(msg, m.keys.Toggle),
		key.Matches(msg, m.keys.Enter) && m.tags.host != nil:
		if m.tags.host != nil && len(pool) > 0 {
			tag := pool[m.tags.cursor]
			m.tags.host.Tags = toggleString(m.tags.host.Tags, tag)
		}

	case msg.String() == "a", msg.String() == "n", msg.String() == "i":
		m.tags.adding = true
		m.tags.input.Focus()
		return m, textinput.Blink

	case msg.String() == "d":
		if len(pool) > 0 {
			tag := pool[m.tags.cursor]
			// Cascade: the tag disappears from every host so the pool
			// stays a superset of all host tags. The mutation touches
			// the whole registry, so it persists immediately even when
			// a host draft is open.
			m.store.RemoveTag(m.registry, tag)
			if m.tags.host != nil {
				m.tags.host.Tags = toggleRemove(m.tags.host.Tags, tag)
			}
			m.save()
			m.tags.cursor = moveCursor(m.tags.cursor, 0, len(m.registry.Tags))
			m.hosts.tagFilter = toggleRemove(m.hosts.tagFilter, tag)
		}

	case key.Matches(msg, m.keys.Enter), key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		if m.tags.host != nil {
			m.mode = ModeHostEditor
		} else {
			m.mode = ModeHostList
		}
	}
	return m, nil
}

// toggleRemove removes s from list if present (no insertion).
func toggleRemove(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
