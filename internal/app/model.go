// internal/app/model.go

package app

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"sshdock/internal/config"
	"sshdock/internal/models"
	"sshdock/internal/proc"
	"sshdock/internal/ui"
)

// Store is the persistence surface the state machine depends on.
// config.Store is the production implementation; tests use a fake.
type Store interface {
	Load() (*models.Registry, error)
	Save(reg *models.Registry) error
	SaveMetadata(reg *models.Registry) error
	Validate(draft *models.Host, reg *models.Registry, editingAlias string) error
	AddTag(reg *models.Registry, name string) error
	RemoveTag(reg *models.Registry, name string)
}

// Status is the transient message shown in the bottom bar.
type Status struct {
	Message string
	IsError bool
}

// tailSizes is the docker logs line-bound cycle.
var tailSizes = []int{100, 500, 1000, 5000, 50000}

// hostListState backs the host table plus its overlays (search, tag
// filter, delete confirmation).
type hostListState struct {
	cursor      int
	search      textinput.Model
	query       string // applied search query
	tagFilter   []string
	tagCursor   int
	sort        models.SortBy
	deleteAlias string
	prevMode    Mode // mode to return to from help
}

// editorState backs the host editor form and its sub-selectors. The
// editor has two sub-modes: navigation (focus moves over the rows) and
// field edit (the focused text input owns the keyboard).
type editorState struct {
	inputs       []textinput.Model // alias, hostname, user, port, jump, note
	focus        int               // row cursor over text fields + structured rows
	editing      bool              // a text field is being edited
	editingAlias string            // "" when adding
	draft        *models.Host

	keyChoices  []string
	keyCursor   int
	flagCursor  int
	shellCursor int
	errText     string
}

const (
	fieldAlias = iota
	fieldHostname
	fieldUser
	fieldPort
	fieldJump
	fieldNote
	fieldCount
)

// Structured rows below the text fields; enter pushes a selector.
const (
	rowKeys = fieldCount + iota
	rowFlags
	rowShell
	rowTags
	editorRowCount
)

// tagEditorState serves both per-host tag assignment (host != nil) and
// global pool management.
type tagEditorState struct {
	host   *models.Host // draft being edited, or nil for pool management
	cursor int
	input  textinput.Model
	adding bool
}

// dockerState backs every container screen for the active host.
type dockerState struct {
	host       *models.Host
	containers []*models.Container
	scripts    map[string]string
	cursor     int
	psAll      bool
	loading    bool
	target     *models.Container // container a detail view is showing

	confirmVerb  string
	confirmID    string
	confirmName  string
	confirmImage string

	logLines   []string
	logScroll  int
	autoScroll bool
	follow     bool
	tailIdx    int
	streamGen  int
	stream     proc.LineStream

	stats    *models.ContainerStats
	statsGen int

	procs        []models.ProcessInfo
	info         *models.ContainerInfo
	env          []models.EnvEntry
	showSecrets  bool
	detailScroll int // shared by the processes/inspect/env screens

	envInput     textinput.Model
	envFiltering bool // the filter input owns the keyboard
	envQuery     string
}

// Script editor tabs.
const (
	tabEnv = iota
	tabPorts
	tabVolumes
	tabNetwork
	tabCount
)

// scriptState backs the deployment script browser, viewer and editor.
type scriptState struct {
	root    string
	dir     string
	entries []models.FileEntry
	cursor  int
	loading bool

	path       string
	content    string
	scroll     int
	spec       *models.DeploymentSpec
	parseErr   error
	returnMode Mode // where the viewer pops back to
	autoEdit   bool // open the editor as soon as the script loads

	tab       int
	rowCursor int
	keyInput  textinput.Model
	valInput  textinput.Model
	editing   bool // a row is being edited
	adding    bool
	focusVal  bool
	dirty     bool
}

// rsyncState backs the transfer form. Navigation moves between the two
// path fields; i/enter drops into the focused field's input.
type rsyncState struct {
	host        *models.Host
	local       textinput.Model
	remote      textinput.Model
	focus       int
	editing     bool
	browseLocal bool // the file browser is walking the local side
	upload      bool
	compress    bool
	running     bool
}

// Model is the whole dashboard.
type Model struct {
	store    Store
	runner   proc.Runner
	settings config.Settings
	keys     ui.KeyMap

	registry *models.Registry
	mode     Mode
	width    int
	height   int
	status   Status
	spinner  spinner.Model

	hosts  hostListState
	editor editorState
	tags   tagEditorState
	docker dockerState
	script scriptState
	rsync  rsyncState
}

// New builds the dashboard model around an already-loaded registry.
func New(store Store, runner proc.Runner, settings config.Settings, reg *models.Registry) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.MutedStyle

	search := textinput.New()
	search.Placeholder = "search hosts..."
	search.CharLimit = 64

	m := &Model{
		store:    store,
		runner:   runner,
		settings: settings,
		keys:     ui.DefaultKeyMap(),
		registry: reg,
		mode:     ModeHostList,
		spinner:  sp,
	}
	m.hosts.search = search
	m.docker.psAll = settings.DockerPsAll
	m.docker.tailIdx = tailIndexFor(settings.LogTail)
	return m
}

func tailIndexFor(tail int) int {
	for i, n := range tailSizes {
		if n >= tail {
			return i
		}
	}
	return 0
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// tailSize is the current docker logs line bound.
func (m *Model) tailSize() int {
	return tailSizes[m.docker.tailIdx]
}

// visibleHosts applies the search query, tag filter and sort order to the
// registry. The cursor always indexes into this slice.
func (m *Model) visibleHosts() []*models.Host {
	var out []*models.Host
	for _, h := range m.registry.Hosts {
		if m.hosts.query != "" && !h.MatchesSearch(m.hosts.query) {
			continue
		}
		if !h.HasAnyTag(m.hosts.tagFilter) {
			continue
		}
		out = append(out, h)
	}
	sortHosts(out, m.hosts.sort)
	return out
}

func sortHosts(hosts []*models.Host, by models.SortBy) {
	sort.SliceStable(hosts, func(i, j int) bool {
		a, b := hosts[i], hosts[j]
		switch by {
		case models.SortByHostname:
			return a.Hostname < b.Hostname
		case models.SortByUser:
			return a.User < b.User
		case models.SortByTags:
			return strings.Join(a.Tags, ",") < strings.Join(b.Tags, ",")
		case models.SortByLastUsed:
			// Most recent first; never-used hosts sink.
			switch {
			case a.LastUsed == nil:
				return false
			case b.LastUsed == nil:
				return true
			default:
				return a.LastUsed.After(*b.LastUsed)
			}
		default:
			return a.Alias < b.Alias
		}
	})
}

// selectedHost returns the host under the cursor, or nil on an empty
// view.
func (m *Model) selectedHost() *models.Host {
	visible := m.visibleHosts()
	if len(visible) == 0 {
		return nil
	}
	if m.hosts.cursor >= len(visible) {
		m.hosts.cursor = len(visible) - 1
	}
	return visible[m.hosts.cursor]
}

// selectedContainer returns the container under the docker cursor.
func (m *Model) selectedContainer() *models.Container {
	if len(m.docker.containers) == 0 {
		return nil
	}
	if m.docker.cursor >= len(m.docker.containers) {
		m.docker.cursor = len(m.docker.containers) - 1
	}
	return m.docker.containers[m.docker.cursor]
}

func (m *Model) setStatus(message string) {
	m.status = Status{Message: message}
}

func (m *Model) setError(err error) {
	if err == nil {
		return
	}
	m.status = Status{Message: err.Error(), IsError: true}
}

func (m *Model) clearStatus() {
	m.status = Status{}
}

// stopStream tears down the active log stream, if any. Bumping the
// generation makes any in-flight batch messages stale.
func (m *Model) stopStream() {
	if m.docker.stream != nil {
		m.docker.stream.Cancel()
		m.docker.stream = nil
	}
	m.docker.streamGen++
	m.docker.follow = false
}

// save persists the registry and reports the outcome on the status bar.
func (m *Model) save() {
	if err := m.store.Save(m.registry); err != nil {
		m.setError(err)
		return
	}
	m.setStatus("saved")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func moveCursor(cursor, delta, length int) int {
	if length == 0 {
		return 0
	}
	return clamp(cursor+delta, 0, length-1)
}
