// internal/app/view_docker.go

package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"sshdock/internal/models"
	"sshdock/internal/ui"
)

func (m *Model) dockerTitle(screen string) string {
	host := ""
	if m.docker.host != nil {
		host = m.docker.host.Alias
	}
	return ui.TitleBar(screen+" @ "+host, "", m.width)
}

func statusCell(c *models.Container) string {
	label := c.Status.String()
	switch c.Status {
	case models.StatusRunning:
		return ui.RunningStyle.Render(label)
	case models.StatusFailed:
		return ui.FailedStyle.Render(label)
	default:
		return ui.StoppedStyle.Render(label)
	}
}

func (m *Model) viewDockerList() string {
	var b strings.Builder
	b.WriteString(m.dockerTitle("Containers"))
	b.WriteString("\n\n")

	if m.docker.loading && len(m.docker.containers) == 0 {
		b.WriteString("  " + m.spinner.View() + " loading containers...\n")
	} else if len(m.docker.containers) == 0 {
		b.WriteString(ui.MutedStyle.Render("  no containers"))
		b.WriteString("\n")
	} else {
		cols := []ui.Column{
			{Title: "Name", Width: 24},
			{Title: "Image", Width: 22},
			{Title: "State", Width: 8},
			{Title: "Status", Width: 22},
			{Title: "Ports", Width: 20},
			{Title: "Script", Width: 6},
		}
		var rows [][]string
		for _, c := range m.docker.containers {
			var ports []string
			for _, p := range c.Ports {
				ports = append(ports, p.String())
			}
			script := ""
			if c.HasScript() {
				script = "yes"
			}
			rows = append(rows, []string{
				c.Name,
				c.ShortImage(),
				statusCell(c),
				c.RawStatus,
				strings.Join(ports, " "),
				script,
			})
		}
		b.WriteString(ui.Table(cols, rows, m.docker.cursor))
	}

	if m.mode == ModeDockerConfirm {
		b.WriteString("\n")
		prompt := fmt.Sprintf("%s %s? (y/n", m.docker.confirmVerb, m.docker.confirmName)
		if m.docker.confirmVerb == "remove" {
			prompt += ", v: with volumes"
		}
		prompt += ")"
		b.WriteString(ui.BoxStyle.Render(prompt))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine(
		"l", "logs", "S/s/r", "start/stop/restart", "p", "pull",
		"d", "remove", "X", "rm+image", "D/T/I/E", "stats/top/inspect/env",
		"v/e/x", "script", "b", "browse", "R", "refresh", "esc", "back"))
	b.WriteString("\n")
	b.WriteString(ui.StatusBar(m.status.Message, m.status.IsError))
	return b.String()
}

func (m *Model) viewDockerLogs() string {
	var b strings.Builder
	name := ""
	if m.docker.target != nil {
		name = m.docker.target.Name
	}
	context := fmt.Sprintf("tail %d", m.tailSize())
	if m.docker.follow {
		context += " · following"
	}
	b.WriteString(ui.TitleBar("Logs: "+name, context, m.width))
	b.WriteString("\n")

	height := m.height - 4
	if height < 1 {
		height = 20
	}
	window, _ := ui.ScrollWindow(m.docker.logLines, m.docker.logScroll-height, height)
	for _, line := range window {
		b.WriteString(ui.Truncate(line, m.width))
		b.WriteString("\n")
	}
	for i := len(window); i < height; i++ {
		b.WriteString("\n")
	}

	b.WriteString(ui.HelpLine("f", "follow", "m", "tail size", "g/G", "top/bottom", "esc", "back"))
	return b.String()
}

func (m *Model) viewDockerStats() string {
	var b strings.Builder
	name := ""
	if m.docker.target != nil {
		name = m.docker.target.Name
	}
	b.WriteString(ui.TitleBar("Stats: "+name, "refreshing every 2s", m.width))
	b.WriteString("\n\n")

	s := m.docker.stats
	if s == nil {
		b.WriteString("  " + m.spinner.View() + " sampling...\n")
	} else {
		row := func(label, value string) {
			fmt.Fprintf(&b, "  %s %s\n", ui.MutedStyle.Render(ui.Pad(label, 10)), value)
		}
		row("CPU", s.CPUPercent)
		row("Memory", fmt.Sprintf("%s / %s (%s)", s.MemoryUsage, s.MemoryLimit, s.MemoryPercent))
		row("Net I/O", s.NetIO)
		row("Block I/O", s.BlockIO)
		row("PIDs", s.PIDs)
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine("r", "refresh now", "esc", "back"))
	b.WriteString("\n")
	b.WriteString(ui.StatusBar(m.status.Message, m.status.IsError))
	return b.String()
}

func (m *Model) viewDockerProcesses() string {
	var b strings.Builder
	name := ""
	if m.docker.target != nil {
		name = m.docker.target.Name
	}
	b.WriteString(ui.TitleBar("Processes: "+name, "", m.width))
	b.WriteString("\n\n")

	if m.docker.loading {
		b.WriteString("  " + m.spinner.View() + " loading...\n")
	} else if len(m.docker.procs) == 0 {
		b.WriteString(ui.MutedStyle.Render("  no processes"))
		b.WriteString("\n")
	} else {
		cols := []ui.Column{
			{Title: "PID", Width: 7},
			{Title: "User", Width: 10},
			{Title: "%CPU", Width: 6},
			{Title: "%MEM", Width: 6},
			{Title: "Command", Width: 60},
		}
		var rows [][]string
		for _, p := range m.docker.procs {
			rows = append(rows, []string{p.PID, p.User, p.CPU, p.Mem, p.Command})
		}
		height := m.height - 8
		if height < 1 {
			height = 20
		}
		start := detailWindowStart(m.docker.detailScroll, len(rows), height)
		end := start + height
		if end > len(rows) {
			end = len(rows)
		}
		b.WriteString(ui.Table(cols, rows[start:end], -1))
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine("r", "refresh", "esc", "back"))
	return b.String()
}

// detailWindowStart clamps a scroll offset so the window stays in range.
func detailWindowStart(offset, total, height int) int {
	maxOffset := total - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	return clamp(offset, 0, maxOffset)
}

func (m *Model) viewDockerInspect() string {
	var b strings.Builder
	name := ""
	if m.docker.target != nil {
		name = m.docker.target.Name
	}
	b.WriteString(ui.TitleBar("Inspect: "+name, "", m.width))
	b.WriteString("\n\n")

	info := m.docker.info
	if m.docker.loading || info == nil {
		b.WriteString("  " + m.spinner.View() + " loading...\n")
	} else {
		var lines []string
		row := func(label, value string) {
			if value == "" {
				value = ui.MutedStyle.Render("-")
			}
			lines = append(lines, fmt.Sprintf("  %s %s", ui.MutedStyle.Render(ui.Pad(label, 14)), value))
		}
		row("ID", info.ID)
		row("Image", info.Image)
		row("Status", info.Status)
		row("Created", info.Created)
		row("Started", info.Started)
		row("IP address", info.IPAddress)
		row("Restart", info.RestartPolicy)
		row("Networks", strings.Join(info.Networks, ", "))
		for i, mount := range info.Mounts {
			label := ""
			if i == 0 {
				label = "Mounts"
			}
			row(label, mount)
		}
		height := m.height - 6
		if height < 1 {
			height = 20
		}
		window, _ := ui.ScrollWindow(lines, m.docker.detailScroll, height)
		for _, line := range window {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine("r", "refresh", "esc", "back"))
	return b.String()
}

func (m *Model) viewDockerEnv() string {
	var b strings.Builder
	name := ""
	if m.docker.target != nil {
		name = m.docker.target.Name
	}
	context := ""
	if m.docker.envQuery != "" {
		context = "filter: " + m.docker.envQuery
	}
	b.WriteString(ui.TitleBar("Environment: "+name, context, m.width))
	b.WriteString("\n\n")

	if m.docker.envFiltering {
		b.WriteString("  /" + m.docker.envInput.View() + "\n\n")
	}

	env := m.filteredEnv()
	if m.docker.loading {
		b.WriteString("  " + m.spinner.View() + " loading...\n")
	} else if len(env) == 0 {
		b.WriteString(ui.MutedStyle.Render("  no environment variables"))
		b.WriteString("\n")
	} else {
		var lines []string
		for _, e := range env {
			value := e.Value
			if e.IsSecret() && !m.docker.showSecrets {
				value = ui.SecretStyle.Render("********")
			}
			lines = append(lines, fmt.Sprintf("  %s=%s", ui.HeaderStyle.Render(e.Key), value))
		}
		height := m.height - 8
		if height < 1 {
			height = 20
		}
		window, _ := ui.ScrollWindow(lines, m.docker.detailScroll, height)
		for _, line := range window {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine("/", "filter", "S", "reveal secrets", "r", "refresh", "esc", "back"))
	return b.String()
}

// viewFileList serves both the script browser and the rsync remote
// browser; only the title and hints differ.
func (m *Model) viewFileList() string {
	var b strings.Builder
	title := "Scripts"
	if m.mode == ModeFileBrowser {
		title = "Remote files"
		if m.rsync.browseLocal {
			title = "Local files"
		}
	}
	b.WriteString(ui.TitleBar(title+": "+m.script.dir, "", m.width))
	b.WriteString("\n\n")

	if m.script.loading {
		b.WriteString("  " + m.spinner.View() + " listing...\n")
	} else if len(m.script.entries) == 0 {
		b.WriteString(ui.MutedStyle.Render("  empty directory"))
		b.WriteString("\n")
	} else {
		var rows []string
		for _, e := range m.script.entries {
			name := e.Name
			if e.IsDir {
				name += "/"
			} else if e.IsScript() {
				name = ui.TagStyle.Render(name)
			}
			rows = append(rows, name)
		}
		b.WriteString(ui.List(rows, m.script.cursor))
	}

	b.WriteString("\n")
	if m.mode == ModeFileBrowser {
		b.WriteString(ui.HelpLine("enter", "open / pick file", "space", "pick this directory", "esc", "back"))
	} else {
		b.WriteString(ui.HelpLine("enter", "open", "r", "refresh", "esc", "back"))
	}
	b.WriteString("\n")
	b.WriteString(ui.StatusBar(m.status.Message, m.status.IsError))
	return b.String()
}

func (m *Model) viewScriptViewer() string {
	var b strings.Builder
	context := ""
	if m.script.parseErr != nil {
		context = ui.StatusErrorStyle.Render("parse error: " + m.script.parseErr.Error())
	} else if m.script.dirty {
		context = ui.SecretStyle.Render("modified (unsaved)")
	}
	b.WriteString(ui.TitleBar("Script: "+m.script.path, context, m.width))
	b.WriteString("\n")

	lines := strings.Split(m.script.content, "\n")
	height := m.height - 4
	if height < 1 {
		height = 20
	}
	window, _ := ui.ScrollWindow(lines, m.script.scroll, height)
	for _, line := range window {
		b.WriteString(ui.Truncate(line, m.width))
		b.WriteString("\n")
	}
	for i := len(window); i < height; i++ {
		b.WriteString("\n")
	}

	b.WriteString(ui.HelpLine("e", "edit", "x", "run script", "esc", "back"))
	return b.String()
}

var scriptTabTitles = [tabCount]string{"Env", "Ports", "Volumes", "Network"}

// scriptTabRowsView renders the active tab's rows.
func (m *Model) scriptTabRowsView() []string {
	spec := m.script.spec
	switch m.script.tab {
	case tabPorts:
		var rows []string
		for _, p := range spec.Ports {
			rows = append(rows, p.String())
		}
		return rows
	case tabVolumes:
		var rows []string
		for _, v := range spec.Volumes {
			rows = append(rows, v.String())
		}
		return rows
	case tabNetwork:
		network := spec.Network
		if network == "" {
			network = "(default bridge)"
		}
		return []string{network}
	default:
		var rows []string
		for _, e := range spec.SortedEnv() {
			rows = append(rows, e.Key+"="+e.Value)
		}
		return rows
	}
}

func (m *Model) viewScriptEditor() string {
	var b strings.Builder
	context := ""
	if m.script.dirty {
		context = ui.SecretStyle.Render("modified")
	}
	b.WriteString(ui.TitleBar("Edit: "+m.script.path, context, m.width))
	b.WriteString("\n\n")

	spec := m.script.spec
	fmt.Fprintf(&b, "  %s %s\n", ui.MutedStyle.Render(ui.Pad("Container", 10)), spec.ContainerName)
	fmt.Fprintf(&b, "  %s %s\n\n", ui.MutedStyle.Render(ui.Pad("Image", 10)), spec.Image)

	var tabs []string
	for i, title := range scriptTabTitles {
		if i == m.script.tab {
			tabs = append(tabs, ui.HeaderStyle.Render("["+title+"]"))
		} else {
			tabs = append(tabs, ui.MutedStyle.Render(" "+title+" "))
		}
	}
	b.WriteString("  " + strings.Join(tabs, " ") + "\n\n")

	rows := m.scriptTabRowsView()
	if len(rows) == 0 {
		b.WriteString(ui.MutedStyle.Render("  nothing here — press a to add an entry"))
		b.WriteString("\n")
	} else {
		b.WriteString(ui.List(rows, m.script.rowCursor))
	}

	if m.script.editing || m.script.adding {
		b.WriteString("\n")
		if m.script.tab == tabEnv && m.script.adding {
			fmt.Fprintf(&b, "  %s %s\n", ui.HeaderStyle.Render("key:"), m.script.keyInput.View())
		}
		fmt.Fprintf(&b, "  %s %s\n", ui.HeaderStyle.Render("value:"), m.script.valInput.View())
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine(
		"tab", "switch tab", "enter", "edit", "a", "add", "d", "delete",
		"ctrl+s", "save to host", "esc", "back"))
	b.WriteString("\n")
	b.WriteString(ui.StatusBar(m.status.Message, m.status.IsError))
	return b.String()
}

func (m *Model) viewRsync() string {
	var b strings.Builder
	host := ""
	if m.rsync.host != nil {
		host = m.rsync.host.Alias
	}
	b.WriteString(ui.TitleBar("Rsync @ "+host, "", m.width))
	b.WriteString("\n\n")

	direction := "local → remote (upload)"
	if !m.rsync.upload {
		direction = "remote → local (download)"
	}
	compress := "off"
	if m.rsync.compress {
		compress = "on"
	}

	label := func(text string, focused bool) string {
		if focused {
			return ui.HeaderStyle.Render(ui.Pad(text, 12))
		}
		return ui.MutedStyle.Render(ui.Pad(text, 12))
	}
	field := func(input textinput.Model, focused bool) string {
		if m.rsync.editing && focused {
			return input.View()
		}
		return input.Value()
	}
	fmt.Fprintf(&b, "  %s %s\n", label("Local path", m.rsync.focus == 0), field(m.rsync.local, m.rsync.focus == 0))
	fmt.Fprintf(&b, "  %s %s\n\n", label("Remote path", m.rsync.focus == 1), field(m.rsync.remote, m.rsync.focus == 1))
	fmt.Fprintf(&b, "  %s %s\n", ui.MutedStyle.Render(ui.Pad("Direction", 12)), direction)
	fmt.Fprintf(&b, "  %s %s\n", ui.MutedStyle.Render(ui.Pad("Compression", 12)), compress)

	if m.rsync.running {
		b.WriteString("\n  " + m.spinner.View() + " transferring...\n")
	}

	b.WriteString("\n")
	if m.rsync.editing {
		b.WriteString(ui.HelpLine("enter", "commit field", "esc", "stop editing"))
	} else {
		b.WriteString(ui.HelpLine(
			"space", "start transfer", "i", "edit field", "j/k", "switch field",
			"b", "browse", "r", "flip direction", "z", "compression", "esc", "back"))
	}
	b.WriteString("\n")
	b.WriteString(ui.StatusBar(m.status.Message, m.status.IsError))
	return b.String()
}
