// internal/app/view.go

package app

import (
	"fmt"
	"strings"
	"time"

	"sshdock/internal/models"
	"sshdock/internal/ui"
)

func (m *Model) View() string {
	switch m.mode {
	case ModeHostList, ModeSearch:
		return m.viewHostList()
	case ModeTagFilter:
		return m.viewTagFilter()
	case ModeDeleteConfirm:
		return m.viewDeleteConfirm()
	case ModeHelp:
		return m.viewHelp()
	case ModeHostEditor:
		return m.viewHostEditor()
	case ModeKeySelector:
		return m.viewKeySelector()
	case ModeFlagSelector:
		return m.viewFlagSelector()
	case ModeShellSelector:
		return m.viewShellSelector()
	case ModeTagEditor:
		return m.viewTagEditor()
	case ModeDockerList, ModeDockerConfirm:
		return m.viewDockerList()
	case ModeDockerLogs:
		return m.viewDockerLogs()
	case ModeDockerStats:
		return m.viewDockerStats()
	case ModeDockerProcesses:
		return m.viewDockerProcesses()
	case ModeDockerInspect:
		return m.viewDockerInspect()
	case ModeDockerEnv:
		return m.viewDockerEnv()
	case ModeScriptBrowser, ModeFileBrowser:
		return m.viewFileList()
	case ModeScriptViewer:
		return m.viewScriptViewer()
	case ModeScriptEditor:
		return m.viewScriptEditor()
	case ModeRsync:
		return m.viewRsync()
	}
	return ""
}

func (m *Model) viewHostList() string {
	var b strings.Builder

	context := fmt.Sprintf("%d hosts · sort: %s", len(m.registry.Hosts), m.hosts.sort.Label())
	if len(m.hosts.tagFilter) > 0 {
		context = "tags: " + strings.Join(m.hosts.tagFilter, ",") + " · " + context
	}
	b.WriteString(ui.TitleBar("sshdock", context, m.width))
	b.WriteString("\n\n")

	if m.mode == ModeSearch {
		b.WriteString("  /" + m.hosts.search.View() + "\n\n")
	}

	visible := m.visibleHosts()
	if len(visible) == 0 {
		b.WriteString(ui.MutedStyle.Render("  no hosts — press n to add one"))
		b.WriteString("\n")
	} else {
		cols := []ui.Column{
			{Title: "Alias", Width: 18},
			{Title: "Hostname", Width: 24},
			{Title: "User", Width: 10},
			{Title: "Port", Width: 5},
			{Title: "Tags", Width: 18},
			{Title: "Last used", Width: 10},
			{Title: "Note", Width: 24},
		}
		var rows [][]string
		for _, h := range visible {
			rows = append(rows, []string{
				h.Alias,
				h.Hostname,
				h.User,
				fmt.Sprintf("%d", h.EffectivePort()),
				strings.Join(h.Tags, ","),
				formatLastUsed(h.LastUsed),
				h.Note,
			})
		}
		b.WriteString(ui.Table(cols, rows, m.hosts.cursor))
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine(
		"enter", "connect", "n", "new", "e", "edit", "D", "delete",
		"d", "docker", "R", "rsync", "/", "search", "t", "tags", "?", "help", "q", "quit"))
	b.WriteString("\n")
	b.WriteString(ui.StatusBar(m.status.Message, m.status.IsError))
	return b.String()
}

func formatLastUsed(t *time.Time) string {
	if t == nil {
		return "never"
	}
	d := time.Since(*t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

func (m *Model) viewTagFilter() string {
	var b strings.Builder
	b.WriteString(ui.TitleBar("Filter by tag", "", m.width))
	b.WriteString("\n\n")

	if len(m.registry.Tags) == 0 {
		b.WriteString(ui.MutedStyle.Render("  no tags defined — press T on the host list to add some"))
		b.WriteString("\n")
	} else {
		var rows []string
		for _, tag := range m.registry.Tags {
			mark := "[ ]"
			for _, f := range m.hosts.tagFilter {
				if f == tag {
					mark = "[x]"
					break
				}
			}
			rows = append(rows, mark+" "+tag)
		}
		b.WriteString(ui.List(rows, m.hosts.tagCursor))
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine("space", "toggle", "c", "clear", "enter", "apply", "esc", "back"))
	return b.String()
}

func (m *Model) viewDeleteConfirm() string {
	var b strings.Builder
	b.WriteString(ui.TitleBar("Delete host", "", m.width))
	b.WriteString("\n\n")
	b.WriteString(ui.BoxStyle.Render(fmt.Sprintf(
		"Delete %s?\n\nThe SSH config entry and its metadata will be removed.\n\n%s",
		ui.HeaderStyle.Render(m.hosts.deleteAlias),
		ui.HelpLine("y", "delete", "n", "cancel"))))
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(ui.TitleBar("Help", "", m.width))
	b.WriteString("\n\n")

	section := func(title string, pairs ...string) {
		b.WriteString(ui.HeaderStyle.Render(title))
		b.WriteString("\n")
		for i := 0; i+1 < len(pairs); i += 2 {
			fmt.Fprintf(&b, "  %s  %s\n",
				ui.HelpKeyStyle.Render(ui.Pad(pairs[i], 10)),
				pairs[i+1])
		}
		b.WriteString("\n")
	}

	section("Host list",
		"enter", "open SSH session",
		"n / e / D", "new, edit, delete host",
		"c", "duplicate host",
		"/", "search (live filter)",
		"t / T", "filter by tag / manage tag pool",
		"s", "cycle sort order",
		"y", "copy ssh command to clipboard",
		"r", "reload configuration from disk",
		"d", "container dashboard",
		"R", "rsync transfer",
		"q", "quit")

	section("Containers",
		"enter / l", "logs",
		"S / s / r", "start, stop, restart",
		"p", "pull image",
		"d", "remove (v: with volumes)",
		"X", "remove container and image",
		"D / T / I / E", "stats, processes, inspect, environment",
		"v / e / x", "view, edit, run deployment script",
		"b", "browse deployment scripts",
		"a", "toggle stopped containers",
		"R", "refresh")

	section("Logs",
		"f", "toggle follow",
		"m", "cycle tail size",
		"g / G", "jump to top / bottom")

	b.WriteString(ui.MutedStyle.Render("press any key to close"))
	return b.String()
}

func (m *Model) viewHostEditor() string {
	var b strings.Builder
	title := "Add host"
	if m.editor.editingAlias != "" {
		title = "Edit " + m.editor.editingAlias
	}
	b.WriteString(ui.TitleBar(title, "", m.width))
	b.WriteString("\n\n")

	label := func(row int, text string) string {
		padded := ui.Pad(text, 11)
		if row == m.editor.focus {
			return ui.HeaderStyle.Render(padded)
		}
		return ui.MutedStyle.Render(padded)
	}

	for i, input := range m.editor.inputs {
		value := input.View()
		if !m.editor.editing || i != m.editor.focus {
			value = input.Value()
		}
		fmt.Fprintf(&b, "  %s %s\n", label(i, editorLabels[i]), value)
	}

	d := m.editor.draft
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %s\n", label(rowKeys, "Keys"), summarize(d.IdentityFiles, "none"))
	fmt.Fprintf(&b, "  %s %s\n", label(rowFlags, "Flags"), summarize(d.SSHFlags, "none"))
	fmt.Fprintf(&b, "  %s %s\n", label(rowShell, "Shell"), orDefault(d.Shell, "remote default"))
	fmt.Fprintf(&b, "  %s %s\n", label(rowTags, "Tags"), ui.TagStyle.Render(summarize(d.Tags, "none")))

	if m.editor.errText != "" {
		b.WriteString("\n  ")
		b.WriteString(ui.StatusErrorStyle.Render(m.editor.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editor.editing {
		b.WriteString(ui.HelpLine("enter", "commit field", "esc", "stop editing", "ctrl+s", "save"))
	} else {
		b.WriteString(ui.HelpLine(
			"j/k", "move", "enter", "edit field / open selector",
			"ctrl+s", "save", "esc", "cancel"))
	}
	return b.String()
}

func summarize(values []string, empty string) string {
	if len(values) == 0 {
		return empty
	}
	return strings.Join(values, ", ")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (m *Model) viewKeySelector() string {
	var b strings.Builder
	b.WriteString(ui.TitleBar("Identity files", "", m.width))
	b.WriteString("\n\n")

	if len(m.editor.keyChoices) == 0 {
		b.WriteString(ui.MutedStyle.Render("  no private keys found in ~/.ssh"))
		b.WriteString("\n")
	} else {
		var rows []string
		for _, k := range m.editor.keyChoices {
			mark := "[ ]"
			for _, sel := range m.editor.draft.IdentityFiles {
				if sel == k {
					mark = "[x]"
					break
				}
			}
			rows = append(rows, mark+" "+k)
		}
		b.WriteString(ui.List(rows, m.editor.keyCursor))
	}

	b.WriteString("\n")
	b.WriteString(ui.HelpLine("space", "toggle", "esc", "done"))
	return b.String()
}

func (m *Model) viewFlagSelector() string {
	var b strings.Builder
	b.WriteString(ui.TitleBar("SSH flags", "", m.width))
	b.WriteString("\n\n")

	var rows []string
	for _, opt := range models.SSHFlagOptions() {
		mark := "[ ]"
		for _, sel := range m.editor.draft.SSHFlags {
			if sel == opt.Value {
				mark = "[x]"
				break
			}
		}
		rows = append(rows, fmt.Sprintf("%s %s  %s", mark, ui.Pad(opt.Value, 5), ui.MutedStyle.Render(opt.Description)))
	}
	b.WriteString(ui.List(rows, m.editor.flagCursor))

	b.WriteString("\n")
	b.WriteString(ui.HelpLine("space", "toggle", "esc", "done"))
	return b.String()
}

func (m *Model) viewShellSelector() string {
	var b strings.Builder
	b.WriteString(ui.TitleBar("Remote shell", "", m.width))
	b.WriteString("\n\n")

	rows := []string{"(remote default)"}
	for _, opt := range models.ShellOptions() {
		rows = append(rows, fmt.Sprintf("%s  %s", ui.Pad(opt.Value, 6), ui.MutedStyle.Render(opt.Description)))
	}
	b.WriteString(ui.List(rows, m.editor.shellCursor))

	b.WriteString("\n")
	b.WriteString(ui.HelpLine("enter", "select", "esc", "back"))
	return b.String()
}

func (m *Model) viewTagEditor() string {
	var b strings.Builder
	title := "Tag pool"
	if m.tags.host != nil {
		title = "Tags for " + orDefault(m.tags.host.Alias, "new host")
	}
	b.WriteString(ui.TitleBar(title, "", m.width))
	b.WriteString("\n\n")

	if m.tags.adding {
		b.WriteString("  new tag: " + m.tags.input.View() + "\n\n")
	}

	if len(m.registry.Tags) == 0 {
		b.WriteString(ui.MutedStyle.Render("  no tags — press a to add one"))
		b.WriteString("\n")
	} else {
		var rows []string
		for _, tag := range m.registry.Tags {
			row := tag
			if m.tags.host != nil {
				mark := "[ ]"
				if m.tags.host.HasTag(tag) {
					mark = "[x]"
				}
				row = mark + " " + tag
			}
			rows = append(rows, row)
		}
		b.WriteString(ui.List(rows, m.tags.cursor))
	}

	b.WriteString("\n")
	if m.tags.host != nil {
		b.WriteString(ui.HelpLine("space", "toggle", "a", "add", "d", "delete from pool", "esc", "done"))
	} else {
		b.WriteString(ui.HelpLine("a", "add", "d", "delete (cascades)", "esc", "back"))
	}
	b.WriteString("\n")
	b.WriteString(ui.StatusBar(m.status.Message, m.status.IsError))
	return b.String()
}
