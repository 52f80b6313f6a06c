// Package viewer is the interactive mode: it shows one or more documents with
// their checkboxes highlighted and keeps them current as files change.
package viewer

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/checklight/internal/checkbox"
	"github.com/zjrosen/checklight/internal/decorator"
	"github.com/zjrosen/checklight/internal/document"
	"github.com/zjrosen/checklight/internal/keys"
	"github.com/zjrosen/checklight/internal/log"
	"github.com/zjrosen/checklight/internal/pubsub"
	"github.com/zjrosen/checklight/internal/transition"
	"github.com/zjrosen/checklight/internal/ui/markdown"
	"github.com/zjrosen/checklight/internal/ui/styles"
	"github.com/zjrosen/checklight/internal/ui/toaster"
)

const (
	tabBarHeight    = 2 // labels plus bottom border
	statusBarHeight = 1
	progressWidth   = 12
	maxLogLines     = 5
	horizontalStep  = 4
	tabZonePrefix   = "viewer-tab-"
)

// decorationsMsg carries a decorator event into the update loop.
type decorationsMsg struct {
	event pubsub.Event[decorator.Decorations]
}

// documentsChangedMsg lists documents that changed on disk.
type documentsChangedMsg struct {
	paths []string
}

// rescanDoneMsg reports the result of a forced rescan.
type rescanDoneMsg struct {
	err error
}

// plainTextMsg carries the text of a document that is not decorated.
type plainTextMsg struct {
	path string
	text string
	err  error
}

// logMsg carries one debug log line.
type logMsg struct {
	line string
}

// Config wires the viewer to its collaborators.
type Config struct {
	Decorator *decorator.Decorator
	Documents []document.Source
	// Changes delivers changed document paths, e.g. from the file watcher.
	// Nil disables live updates.
	Changes <-chan []string
	KeyMap  keys.KeyMap
	// MarkdownStyle is passed to the preview renderer; empty detects the terminal.
	MarkdownStyle string
	// Preview starts the viewer in markdown preview.
	Preview bool
	// Logs feeds the log pane. Nil when logging is off.
	Logs <-chan log.LogEvent
}

// Model is the viewer state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	decorator *decorator.Decorator
	listener  *pubsub.ContinuousListener[decorator.Decorations]
	changes   <-chan []string
	logs      <-chan log.LogEvent
	docs      []document.Source
	active    int

	keys     keys.KeyMap
	help     help.Model
	showHelp bool
	viewport viewport.Model
	ready    bool
	width    int
	height   int

	current   *decorator.Decorations
	plain     string // text of an undecorated active document
	preview   bool
	renderer  *markdown.Renderer
	mdStyle   string
	statusErr error

	logLines []string
	showLogs bool

	toaster toaster.Model
}

// New creates the viewer. Call Close when the program exits.
func New(cfg Config) Model {
	ctx, cancel := context.WithCancel(context.Background())
	km := cfg.KeyMap
	if len(km.Quit.Keys()) == 0 {
		km = keys.DefaultKeyMap()
	}
	return Model{
		ctx:       ctx,
		cancel:    cancel,
		decorator: cfg.Decorator,
		listener: pubsub.NewMappedListener[decorator.Decorations](ctx, cfg.Decorator,
			func(e pubsub.Event[decorator.Decorations]) tea.Msg { return decorationsMsg{event: e} }),
		changes: cfg.Changes,
		logs:    cfg.Logs,
		docs:    cfg.Documents,
		keys:    km,
		help:    help.New(),
		toaster: toaster.New(),
		mdStyle: cfg.MarkdownStyle,
		preview: cfg.Preview,
	}
}

// Init activates the first document and starts listening.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listener.Listen(), m.listenChanges(), m.listenLogs()}
	if len(m.docs) > 0 {
		cmds = append(cmds, m.activate(0))
	}
	return tea.Batch(cmds...)
}

// Close stops listening for events.
func (m Model) Close() {
	m.cancel()
}

// Active returns the active document, or nil when there are none.
func (m Model) Active() document.Source {
	if m.active < 0 || m.active >= len(m.docs) {
		return nil
	}
	return m.docs[m.active]
}

// Current returns the decorations shown for the active document.
func (m Model) Current() *decorator.Decorations {
	return m.current
}

// Preview reports whether the glamour preview is shown.
func (m Model) Preview() bool {
	return m.preview
}

func (m Model) listenChanges() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch, ctx := m.changes, m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case paths, ok := <-ch:
			if !ok {
				return nil
			}
			return documentsChangedMsg{paths: paths}
		}
	}
}

func (m Model) listenLogs() tea.Cmd {
	if m.logs == nil {
		return nil
	}
	ch, ctx := m.logs, m.ctx
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-ch:
			if !ok {
				return nil
			}
			return logMsg{line: strings.TrimRight(e.Payload, "\n")}
		}
	}
}

// activate switches the decorator to docs[i]. Undecorated documents are read
// so they can still be shown as plain text.
func (m *Model) activate(i int) tea.Cmd {
	if i < 0 || i >= len(m.docs) {
		return nil
	}
	m.active = i
	doc := m.docs[i]
	m.current = nil
	m.plain = ""
	if cached, ok := m.decorator.Cached(doc.Path()); ok {
		m.current = &cached
	}
	m.decorator.ChangeActiveDocument(doc)
	m.refreshContent()
	m.viewport.GotoTop()

	log.Debug(log.CatUI, "Switched document", "path", doc.Path(), "index", i)
	if m.decorator.Matches(doc.Path()) {
		return nil
	}
	return func() tea.Msg {
		text, err := doc.Text()
		return plainTextMsg{path: doc.Path(), text: text, err: err}
	}
}

func (m Model) rescan() tea.Cmd {
	d, ctx := m.decorator, m.ctx
	return func() tea.Msg {
		_, err := d.Update(ctx)
		return rescanDoneMsg{err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.renderer = nil
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft {
			for i := range m.docs {
				if z := zone.Get(tabZoneID(i)); z != nil && z.InBounds(msg) {
					return m, m.activate(i)
				}
			}
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case decorationsMsg:
		cmd := m.handleDecorations(msg.event)
		return m, tea.Batch(cmd, m.listener.Listen())

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case documentsChangedMsg:
		for _, path := range msg.paths {
			for _, doc := range m.docs {
				if doc.Path() == path {
					m.decorator.ChangeDocument(doc)
				}
			}
		}
		var cmd tea.Cmd
		if active := m.Active(); active != nil && !m.decorator.Matches(active.Path()) {
			for _, path := range msg.paths {
				if path == active.Path() {
					cmd = m.activate(m.active)
				}
			}
		}
		return m, tea.Batch(cmd, m.listenChanges())

	case plainTextMsg:
		if active := m.Active(); active != nil && active.Path() == msg.path {
			m.plain = msg.text
			m.statusErr = msg.err
			m.refreshContent()
		}
		return m, nil

	case logMsg:
		m.logLines = append(m.logLines, msg.line)
		if len(m.logLines) > maxLogLines {
			m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
		}
		if m.showLogs {
			m.resize()
		}
		return m, m.listenLogs()

	case rescanDoneMsg:
		m.statusErr = msg.err
		var cmd tea.Cmd
		if msg.err != nil {
			log.ErrorErr(log.CatUI, "Rescan failed", msg.err)
			m.toaster, cmd = m.toaster.Show("Rescan failed", toaster.KindError, toaster.DefaultDuration)
		} else if active := m.Active(); active != nil {
			m.toaster, cmd = m.toaster.Show("Rescanned "+filepath.Base(active.Path()), toaster.KindInfo, toaster.DefaultDuration)
		}
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.NextDoc):
		if len(m.docs) < 2 {
			return m, nil
		}
		return m, m.activate((m.active + 1) % len(m.docs))
	case key.Matches(msg, m.keys.PrevDoc):
		if len(m.docs) < 2 {
			return m, nil
		}
		return m, m.activate((m.active - 1 + len(m.docs)) % len(m.docs))
	case key.Matches(msg, m.keys.Rescan):
		return m, m.rescan()
	case key.Matches(msg, m.keys.Logs):
		m.showLogs = !m.showLogs
		m.resize()
		return m, nil
	case key.Matches(msg, m.keys.Preview):
		m.preview = !m.preview
		m.refreshContent()
		return m, nil
	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()
		return m, nil
	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleDecorations(e pubsub.Event[decorator.Decorations]) tea.Cmd {
	if e.Type == pubsub.ClearedEvent {
		m.current = nil
		m.refreshContent()
		return nil
	}

	active := m.Active()
	if active == nil || active.Path() != e.Payload.Path {
		return nil
	}
	dec := e.Payload
	m.current = &dec
	m.statusErr = nil
	m.refreshContent()

	for _, c := range dec.Changes {
		log.Info(log.CatUI, "Checkbox changed", "path", dec.Path, "line", c.Line+1, "from", c.From, "to", c.To)
	}
	if len(dec.Changes) == 0 {
		return nil
	}
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(describeChanges(dec.Changes), changeKind(dec.Changes), toaster.DefaultDuration)
	return cmd
}

// describeChanges summarizes one rescan's transitions for a toast.
func describeChanges(changes []transition.Change) string {
	if len(changes) == 1 {
		c := changes[0]
		return fmt.Sprintf("%s → %s", styles.TruncateString(itemLabel(c.Text), 40), stateLabel(c.To))
	}
	done := 0
	for _, c := range changes {
		if c.To == checkbox.Done {
			done++
		}
	}
	if done == len(changes) {
		return fmt.Sprintf("%d items done", done)
	}
	return fmt.Sprintf("%d items changed", len(changes))
}

// itemLabel strips the "[?]" prefix from a match.
func itemLabel(match string) string {
	if !strings.HasPrefix(match, "[") {
		return strings.TrimSpace(match)
	}
	_, size := utf8.DecodeRuneInString(match[1:])
	rest := match[min(len(match), 1+size+1):]
	return strings.TrimSpace(rest)
}

func changeKind(changes []transition.Change) toaster.Kind {
	for _, c := range changes {
		if c.To != checkbox.Done {
			return toaster.KindInfo
		}
	}
	return toaster.KindSuccess
}

func stateLabel(s checkbox.State) string {
	switch s {
	case checkbox.Done:
		return "done"
	case checkbox.InProgress:
		return "in progress"
	default:
		return "open"
	}
}

func (m *Model) resize() {
	helpHeight := lipgloss.Height(m.helpView())
	logHeight := 0
	if v := m.logView(); v != "" {
		logHeight = lipgloss.Height(v)
	}
	height := max(1, m.height-tabBarHeight-statusBarHeight-helpHeight-logHeight)
	if !m.ready {
		m.viewport = viewport.New(m.width, height)
		m.viewport.SetHorizontalStep(horizontalStep)
		m.ready = true
	} else {
		m.viewport.Width = m.width
		m.viewport.Height = height
	}
	m.refreshContent()
}

func (m *Model) refreshContent() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.content())
}

func (m *Model) content() string {
	active := m.Active()
	switch {
	case active == nil:
		return styles.EmptyStyle.Render("No documents. Pass markdown files to view.")
	case !m.decorator.Matches(active.Path()):
		return m.plain
	case m.current == nil:
		return styles.EmptyStyle.Render("Scanning " + filepath.Base(active.Path()) + "...")
	case m.preview:
		return m.previewContent()
	default:
		return m.decorator.Render(*m.current)
	}
}

func (m *Model) previewContent() string {
	if m.renderer == nil {
		r, err := markdown.NewWithStyle(max(20, m.width), m.mdStyle)
		if err != nil {
			return styles.ErrorStyle.Render(err.Error())
		}
		m.renderer = r
	}
	out, err := m.renderer.Render(m.current.Text)
	if err != nil {
		return styles.ErrorStyle.Render(fmt.Sprintf("rendering preview: %v", err))
	}
	return out
}

// View renders the viewer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var sb strings.Builder
	sb.WriteString(m.tabsView())
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(m.statusView())
	if l := m.logView(); l != "" {
		sb.WriteString("\n")
		sb.WriteString(l)
	}
	if h := m.helpView(); h != "" {
		sb.WriteString("\n")
		sb.WriteString(h)
	}
	// Toasts sit in the corner of the document area, clear of the status bar
	return zone.Scan(m.toaster.Overlay(sb.String(), m.width, tabBarHeight+m.viewport.Height))
}

func tabZoneID(i int) string {
	return fmt.Sprintf("%s%d", tabZonePrefix, i)
}

func (m Model) tabsView() string {
	tabs := make([]string, 0, len(m.docs))
	for i, doc := range m.docs {
		style := styles.TabStyle
		if i == m.active {
			style = styles.ActiveTabStyle
		}
		tabs = append(tabs, zone.Mark(tabZoneID(i), style.Render(filepath.Base(doc.Path()))))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return styles.TabBarStyle.Width(m.width).Render(styles.TruncateString(row, m.width))
}

func (m Model) statusView() string {
	active := m.Active()
	if active == nil {
		return styles.StatusBarStyle.Render("")
	}

	var right string
	switch {
	case m.statusErr != nil:
		right = lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Render(m.statusErr.Error())
	case !m.decorator.Matches(active.Path()):
		right = "not highlighted"
	case m.current != nil:
		right = styles.FormatStats(m.current.Stats) + "  " + styles.ProgressBar(m.current.Stats.Progress, progressWidth)
	}
	if m.preview {
		right = styles.BadgeStyle.Render("PREVIEW") + "  " + right
	}

	// Status bar padding takes two cells
	avail := max(0, m.width-2)
	rightWidth := lipgloss.Width(right)
	left := styles.TruncateString(active.Path(), max(0, avail-rightWidth-1))
	gap := max(1, avail-lipgloss.Width(left)-rightWidth)
	line := styles.TruncateString(left+strings.Repeat(" ", gap)+right, avail)
	return styles.StatusBarStyle.Render(line)
}

func (m Model) logView() string {
	if !m.showLogs {
		return ""
	}
	if len(m.logLines) == 0 {
		return styles.EmptyStyle.Render("No log output (run with --debug)")
	}
	lines := make([]string, len(m.logLines))
	for i, l := range m.logLines {
		lines[i] = styles.TruncateString(l, m.width)
	}
	return styles.HelpStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) helpView() string {
	m.help.ShowAll = m.showHelp
	return styles.HelpStyle.Render(m.help.View(m.keys))
}
