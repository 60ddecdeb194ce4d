// Package tui is the interactive keybinding editor.
package tui

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"inikeys/internal/capture"
	"inikeys/internal/config"
	"inikeys/internal/keybind"
	"inikeys/internal/keycode"
	"inikeys/internal/log"
	"inikeys/internal/session"
	"inikeys/internal/tui/common"
	"inikeys/internal/tui/components"
	"inikeys/internal/tui/messages"
	"inikeys/internal/tui/styles"
	"inikeys/internal/tui/views"
	"inikeys/internal/watch"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type Model struct {
	sess     *session.Session
	cfg      *config.Config
	capturer *capture.Capturer
	changes  <-chan watch.Change

	// UI components
	keys   KeyMap
	help   help.Model
	styles styles.Styles
	table  *components.BindingTable
	status *components.StatusBar
	filter textinput.Model

	// View state
	mode         common.Mode
	rows         []keybind.Keybind
	pattern      string
	cursor       int
	showHelp     bool
	showDefaults bool
	fileSize     int64
	quitArmed    bool

	// Number of declarations of each index declared more than once
	duplicates map[int]int

	// Modifiers held with the key being captured
	pendingMods keycode.Modifiers
}

// Option configures a Model.
type Option func(*Model)

// WithWatcher makes the editor follow changes reported by w.
func WithWatcher(w *watch.Watcher) Option {
	return func(m *Model) {
		m.changes = w.Events()
	}
}

// WithChanges is like WithWatcher but reads changes from ch.
func WithChanges(ch <-chan watch.Change) Option {
	return func(m *Model) {
		m.changes = ch
	}
}

// New creates the editor over a loaded session.
func New(sess *session.Session, cfg *config.Config, opts ...Option) *Model {
	if cfg == nil {
		cfg = config.New()
	}
	st := styles.FromTheme(cfg.Theme)

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "command glob, e.g. Move*"
	ti.CharLimit = 128

	m := &Model{
		sess:         sess,
		cfg:          cfg,
		capturer:     capture.New(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		styles:       st,
		table:        components.NewBindingTable(st),
		status:       components.NewStatusBar(st),
		filter:       ti,
		mode:         common.Normal,
		pattern:      cfg.Display.Filter,
		showDefaults: cfg.Display.ShowDefaults,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.statFile()
	m.findDuplicates()
	m.refresh()

	if w := sess.Warning(); w != nil {
		m.status.SetText(w.Error(), common.StatusWarning)
	} else if note := m.duplicateNote(); note != "" {
		m.status.SetText(note, common.StatusWarning)
	}
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return nil
		}
		return messages.FileChangedMsg{Path: c.Path}
	}
}

// View implements tea.Model
func (m *Model) View() string {
	parts := views.Parts{
		Table:  m.table.View(),
		Prompt: m.filter.View(),
		Status: m.status.View(),
	}
	if m.showHelp {
		parts.Help = m.help.FullHelpView(m.keys.FullHelp())
	} else {
		parts.Help = m.help.ShortHelpView(m.keys.ShortHelp())
	}
	return views.RenderMainView(m, m.styles, parts)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		m.filter.Width = msg.Width - 8
		m.table.SetHeight(msg.Height - 12)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case messages.SavedMsg:
		m.status.SetLoading(false)
		m.statFile()
		m.status.SetText("Saved "+msg.Path, common.StatusSuccess)
		return m, nil

	case messages.ErrorMsg:
		m.status.SetLoading(false)
		m.status.SetText(msg.Err.Error(), common.StatusError)
		return m, nil

	case messages.FileChangedMsg:
		m.handleFileChanged(msg.Path)
		return m, m.waitForChange()
	}

	return m, m.status.Update(msg)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case common.Capture:
		return m.handleCaptureKeys(msg)
	case common.Filter:
		return m.handleFilterKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.quitArmed = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.sess.Dirty() && !m.quitArmed {
			m.quitArmed = true
			m.status.SetText("Unsaved changes, press q again to quit without saving", common.StatusWarning)
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(msg, m.keys.Down):
		m.SetCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.Up):
		m.SetCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.GotoTop):
		m.SetCursor(0)
	case key.Matches(msg, m.keys.GotoBottom):
		m.SetCursor(len(m.rows) - 1)
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, m.keys.Defaults):
		m.showDefaults = !m.showDefaults
		m.table.SetShowDefaults(m.showDefaults)
	case key.Matches(msg, m.keys.Filter):
		m.mode = common.Filter
		m.filter.SetValue(m.pattern)
		m.filter.CursorEnd()
		return m, m.filter.Focus()
	case key.Matches(msg, m.keys.Capture):
		m.startCapture()
	case key.Matches(msg, m.keys.Unbind):
		m.edit(func(kb *keybind.Keybind) { kb.SetKey(keycode.Unbound) })
	case key.Matches(msg, m.keys.ToggleCtrl):
		m.edit(func(kb *keybind.Keybind) { kb.Ctrl = !kb.Ctrl })
	case key.Matches(msg, m.keys.ToggleAlt):
		m.edit(func(kb *keybind.Keybind) { kb.Alt = !kb.Alt })
	case key.Matches(msg, m.keys.ToggleShift):
		m.edit(func(kb *keybind.Keybind) { kb.Shift = !kb.Shift })
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	}
	return m, nil
}

func (m *Model) handleFilterKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = common.Normal
		m.filter.Blur()
		return m, nil
	case tea.KeyEnter:
		pattern := m.filter.Value()
		if _, err := keybind.Filter(nil, pattern); err != nil {
			m.status.SetText(fmt.Sprintf("Invalid filter %q: %v", pattern, err), common.StatusError)
			return m, nil
		}
		m.pattern = pattern
		m.mode = common.Normal
		m.filter.Blur()
		m.cursor = 0
		m.refresh()
		m.status.SetText(fmt.Sprintf("%d bindings match", len(m.rows)), common.StatusInfo)
		return m, nil
	}

	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return m, cmd
}

func (m *Model) startCapture() {
	kb, ok := m.Selected()
	if !ok {
		return
	}
	index := kb.Index
	m.mode = common.Capture
	m.status.Clear()
	m.capturer.Start(func(code int) { m.assignKey(index, code) })
}

func (m *Model) handleCaptureKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.pendingMods = keycode.ModifiersOf(msg)
	m.capturer.Handle(keycode.FromKeyMsg(msg))

	if !m.capturer.Capturing() {
		m.mode = common.Normal
		if _, ok := m.capturer.Last(); !ok {
			m.status.SetText("Capture cancelled", common.StatusInfo)
		}
	}
	return m, nil
}

// assignKey stores a captured key. Modifiers held with the key replace the
// binding's modifiers; a plain key keeps them.
func (m *Model) assignKey(index, code int) {
	mods := m.pendingMods
	err := m.sess.Update(index, func(kb *keybind.Keybind) {
		kb.SetKey(code)
		if mods.Ctrl || mods.Alt || mods.Shift {
			kb.Ctrl, kb.Alt, kb.Shift = mods.Ctrl, mods.Alt, mods.Shift
		}
	})
	if err != nil {
		m.status.SetText(err.Error(), common.StatusError)
		return
	}
	m.refresh()
	if n := m.duplicates[index]; n > 1 {
		m.status.SetText(duplicateEditNote(index, n), common.StatusWarning)
		return
	}
	if kb, ok := m.Selected(); ok {
		m.status.SetText(fmt.Sprintf("Bindings[%d] set to %s", index, kb.Chord()), common.StatusSuccess)
	}
}

// edit applies fn to the selected binding.
func (m *Model) edit(fn func(*keybind.Keybind)) {
	kb, ok := m.Selected()
	if !ok {
		return
	}
	if err := m.sess.Update(kb.Index, fn); err != nil {
		m.status.SetText(err.Error(), common.StatusError)
		return
	}
	m.refresh()
	if n := m.duplicates[kb.Index]; n > 1 {
		m.status.SetText(duplicateEditNote(kb.Index, n), common.StatusWarning)
		return
	}
	m.status.Clear()
}

// findDuplicates records the indices the loaded document declares on more
// than one line.
func (m *Model) findDuplicates() {
	m.duplicates = nil
	doc := m.sess.Document()
	if doc == nil {
		return
	}
	for index, positions := range keybind.Duplicates(doc) {
		if m.duplicates == nil {
			m.duplicates = make(map[int]int)
		}
		m.duplicates[index] = len(positions)
	}
}

// duplicateNote lists the indices declared more than once, or returns "".
func (m *Model) duplicateNote() string {
	if len(m.duplicates) == 0 {
		return ""
	}
	indices := make([]int, 0, len(m.duplicates))
	for index := range m.duplicates {
		indices = append(indices, index)
	}
	slices.Sort(indices)

	names := make([]string, len(indices))
	for i, index := range indices {
		names[i] = fmt.Sprintf("Bindings[%d]", index)
	}
	return fmt.Sprintf("%s declared more than once, edits apply to every declaration", strings.Join(names, ", "))
}

func duplicateEditNote(index, n int) string {
	return fmt.Sprintf("Bindings[%d] is declared %d times, the edit applies to every declaration", index, n)
}

func (m *Model) save() tea.Cmd {
	if !m.sess.Loaded() {
		m.status.SetText("No INI file loaded", common.StatusError)
		return nil
	}

	sess := m.sess
	path := sess.Path()
	backup := m.cfg.Settings.Backup
	spin := m.status.SetLoading(true)
	m.status.SetText("Saving...", common.StatusInfo)

	save := func() tea.Msg {
		if err := sess.SaveFile(path, backup); err != nil {
			return messages.ErrorMsg{Err: err}
		}
		return messages.SavedMsg{Path: sess.Path()}
	}
	return tea.Batch(save, spin)
}

func (m *Model) handleFileChanged(path string) {
	if m.sess.Dirty() {
		m.status.SetText("File changed on disk, keeping unsaved edits", common.StatusWarning)
		return
	}

	err := m.sess.LoadFile(m.sess.Path())
	m.statFile()
	m.findDuplicates()
	m.refresh()

	switch {
	case err == nil && len(m.duplicates) > 0:
		m.status.SetText("Reloaded "+path+": "+m.duplicateNote(), common.StatusWarning)
	case err == nil:
		m.status.SetText("Reloaded "+path, common.StatusInfo)
	case m.sess.Loaded():
		m.status.SetText(err.Error(), common.StatusWarning)
	default:
		log.LogWithError(err).Warn("Reload failed")
		m.status.SetText(err.Error(), common.StatusError)
	}
}

func (m *Model) statFile() {
	m.fileSize = 0
	if path := m.sess.Path(); path != "" {
		if info, err := os.Stat(path); err == nil {
			m.fileSize = info.Size()
		}
	}
}

// refresh rebuilds the visible rows from the session and the current filter,
// keeping the cursor on the same binding where possible.
func (m *Model) refresh() {
	selected := -1
	if kb, ok := m.Selected(); ok {
		selected = kb.Index
	}

	rows, err := keybind.Filter(m.sess.Bindings(), m.pattern)
	if err != nil {
		rows = m.sess.Bindings()
	}
	m.rows = rows

	if selected >= 0 {
		for i, kb := range m.rows {
			if kb.Index == selected {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()

	m.table.SetRows(m.rows)
	m.table.SetCursor(m.cursor)
	m.table.SetShowDefaults(m.showDefaults)
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Getters

func (m *Model) Rows() []keybind.Keybind {
	return m.rows
}

func (m *Model) Cursor() int {
	return m.cursor
}

// SetCursor moves the cursor, ignoring out of range positions.
func (m *Model) SetCursor(pos int) {
	if pos >= 0 && pos < len(m.rows) {
		m.cursor = pos
		m.table.SetCursor(pos)
	}
}

// Selected returns the binding under the cursor.
func (m *Model) Selected() (keybind.Keybind, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return keybind.Keybind{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) ShowHelp() bool {
	return m.showHelp
}

func (m *Model) Mode() common.Mode {
	return m.mode
}

func (m *Model) FileName() string {
	return m.sess.FileName()
}

func (m *Model) FileSize() int64 {
	return m.fileSize
}

func (m *Model) Dirty() bool {
	return m.sess.Dirty()
}

func (m *Model) FilterPattern() string {
	return m.pattern
}

func (m *Model) Status() (string, common.StatusKind) {
	return m.status.Text()
}

// Run starts the editor on the terminal.
func Run(sess *session.Session, cfg *config.Config, opts ...Option) error {
	p := tea.NewProgram(New(sess, cfg, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
