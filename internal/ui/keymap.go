// internal/ui/keymap.go

package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap is the full binding set for the dashboard. Each mode consults
// the subset it handles; the bindings double as help-screen content.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	Enter key.Binding
	Back  key.Binding
	Quit  key.Binding

	Add       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Duplicate key.Binding

	Search    key.Binding
	TagFilter key.Binding
	TagPool   key.Binding
	Sort      key.Binding
	Help      key.Binding
	Yank      key.Binding
	Reload    key.Binding

	Docker key.Binding
	Rsync  key.Binding

	Refresh     key.Binding
	RefreshNow  key.Binding
	Pull        key.Binding
	Start       key.Binding
	Stop        key.Binding
	Restart     key.Binding
	Remove      key.Binding
	RemoveImage key.Binding
	Logs        key.Binding
	Stats       key.Binding
	Processes   key.Binding
	Inspect     key.Binding
	Env         key.Binding
	ViewScript  key.Binding
	ExecScript  key.Binding
	Browse      key.Binding
	ToggleAll   key.Binding

	Follow    key.Binding
	CycleTail key.Binding

	Toggle        key.Binding
	NextField     key.Binding
	PrevField     key.Binding
	Save          key.Binding
	ToggleSecrets key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("ctrl+u", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("ctrl+d", "page down")),
		Home:     key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		End:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),

		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Back:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Add:       key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new host")),
		Edit:      key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:    key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete host")),
		Duplicate: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "duplicate host")),

		Search:    key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		TagFilter: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "filter by tag")),
		TagPool:   key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "manage tags")),
		Sort:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Yank:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy ssh command")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload config")),

		Docker: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "containers")),
		Rsync:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "rsync transfer")),

		Refresh:     key.NewBinding(key.WithKeys("R", "ctrl+r"), key.WithHelp("R", "refresh")),
		RefreshNow:  key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "refresh")),
		Pull:        key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pull image")),
		Start:       key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "start")),
		Stop:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Restart:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Remove:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		RemoveImage: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "remove + image")),
		Logs:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "logs")),
		Stats:       key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "live stats")),
		Processes:   key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "processes")),
		Inspect:     key.NewBinding(key.WithKeys("I"), key.WithHelp("I", "inspect")),
		Env:         key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "environment")),
		ViewScript:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "view script")),
		ExecScript:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "run script")),
		Browse:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "browse scripts")),
		ToggleAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "toggle stopped")),

		Follow:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "follow")),
		CycleTail: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "cycle tail size")),

		Toggle:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		NextField:     key.NewBinding(key.WithKeys("tab", "down", "j"), key.WithHelp("tab", "next field")),
		PrevField:     key.NewBinding(key.WithKeys("shift+tab", "up", "k"), key.WithHelp("shift+tab", "previous field")),
		Save:          key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		ToggleSecrets: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "reveal secrets")),
	}
}
