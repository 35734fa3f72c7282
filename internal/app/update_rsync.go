// internal/app/update_rsync.go

package app

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sshdock/internal/config"
	"sshdock/internal/docker"
	"sshdock/internal/models"
	"sshdock/internal/proc"
)

// openRsync prepares the transfer form for host.
func (m *Model) openRsync(host *models.Host) {
	local := textinput.New()
	local.Placeholder = "local path"
	local.CharLimit = 256
	remote := textinput.New()
	remote.Placeholder = "remote path"
	remote.CharLimit = 256

	m.rsync = rsyncState{
		host:     host,
		local:    local,
		remote:   remote,
		upload:   true,
		compress: m.settings.RsyncCompress,
	}
	m.clearStatus()
	m.mode = ModeRsync
}

// updateRsync runs the transfer form. Navigation moves between the two
// path fields; i/enter edits the focused field, space starts the
// transfer.
func (m *Model) updateRsync(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.rsync.editing {
		return m.updateRsyncField(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.mode = ModeHostList
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down),
		msg.String() == "tab", msg.String() == "shift+tab":
		m.rsync.focus = 1 - m.rsync.focus
		return m, nil

	case key.Matches(msg, m.keys.Enter), msg.String() == "i":
		m.rsync.editing = true
		if m.rsync.focus == 0 {
			m.rsync.local.Focus()
		} else {
			m.rsync.remote.Focus()
		}
		return m, textinput.Blink

	case msg.String() == "r":
		m.rsync.upload = !m.rsync.upload
		return m, nil

	case msg.String() == "z":
		m.rsync.compress = !m.rsync.compress
		return m, nil

	case msg.String() == "b":
		// Browse the focused side to fill in its path.
		if m.rsync.focus == 0 {
			start := strings.TrimSpace(m.rsync.local.Value())
			if start == "" {
				start, _ = os.UserHomeDir()
			}
			if start == "" {
				start = "/"
			}
			m.rsync.browseLocal = true
			m.script.loading = true
			m.mode = ModeFileBrowser
			return m, tea.Batch(m.spinner.Tick, fetchLocalDir(config.ExpandTilde(start)))
		}
		start := m.rsync.remote.Value()
		if start == "" {
			start = "."
		}
		m.rsync.browseLocal = false
		m.script.loading = true
		m.mode = ModeFileBrowser
		return m, tea.Batch(m.spinner.Tick,
			fetchDir(m.runner, m.rsync.host, docker.RemotePath(start)))

	case key.Matches(msg, m.keys.Toggle):
		localPath := strings.TrimSpace(m.rsync.local.Value())
		remotePath := strings.TrimSpace(m.rsync.remote.Value())
		if localPath == "" || remotePath == "" {
			m.setStatus("both paths are required")
			return m, nil
		}
		m.rsync.running = true
		m.clearStatus()
		return m, runRsync(proc.RsyncRequest{
			Host:       m.rsync.host,
			LocalPath:  config.ExpandTilde(localPath),
			RemotePath: remotePath,
			Upload:     m.rsync.upload,
			Compress:   m.rsync.compress,
		})
	}
	return m, nil
}

// updateRsyncField is the field-edit sub-mode of the transfer form.
func (m *Model) updateRsyncField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.rsync.local.Blur()
		m.rsync.remote.Blur()
		m.rsync.editing = false
		return m, nil
	}
	var cmd tea.Cmd
	if m.rsync.focus == 0 {
		m.rsync.local, cmd = m.rsync.local.Update(msg)
	} else {
		m.rsync.remote, cmd = m.rsync.remote.Update(msg)
	}
	return m, cmd
}
