package tui

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kittengames/kittengames/internal/branding"
	"github.com/kittengames/kittengames/internal/catalog"
	"github.com/kittengames/kittengames/internal/cloak"
	"github.com/kittengames/kittengames/internal/personalize"
	"github.com/kittengames/kittengames/internal/theme"
	"github.com/rs/zerolog"
)

// actionTimeout bounds a single import or cloak check started from the UI.
const actionTimeout = 20 * time.Second

// Mode is the active input surface.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeImport
	ModeCloak
)

// Loader produces the catalog.
type Loader interface {
	Load(ctx context.Context) ([]catalog.Entry, error)
}

// Deps are the collaborators the browser drives.
type Deps struct {
	Catalog  Loader
	Themes   *personalize.Service
	Cloak    *cloak.Service
	Reloads  *Reloads
	Debounce time.Duration
	Rand     catalog.Intn
	Logger   zerolog.Logger
}

// Messages
type (
	manifestLoadedMsg struct {
		entries []catalog.Entry
		err     error
	}
	debounceMsg struct{ job catalog.Job }
	resultMsg   struct{ result catalog.Result }

	themeImportedMsg struct {
		seq  int
		name string
		err  error
	}
	cloakSavedMsg struct {
		seq int
		err error
	}
	reloadMsg struct{}
)

// Model is the browser state.
type Model struct {
	deps   Deps
	keys   KeyMap
	styles Styles
	view   *catalog.View

	search   textinput.Model
	urlInput textinput.Model
	iconIn   textinput.Model
	titleIn  textinput.Model
	spinner  spinner.Model
	help     help.Model

	mode       Mode
	cloakField int
	cursor     int
	loading    bool
	busy       bool
	latest     uint64
	importSeq  int
	cloakSeq   int
	identity   cloak.Identity
	status     string
	loadErr    error
	launched   *catalog.Launch
	width      int
	height     int

	// cancel aborts the import or cloak check the open popup started.
	cancel context.CancelFunc
}

// New returns a browser model. Call Init through tea.NewProgram.
func New(deps Deps) *Model {
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}

	search := textinput.New()
	search.Placeholder = "Search games..."
	search.Prompt = "/ "
	search.CharLimit = 80
	search.Width = 40
	search.Focus()

	urlInput := textinput.New()
	urlInput.Placeholder = "https://example.com/theme.json"
	urlInput.CharLimit = 500
	urlInput.Width = 50

	iconIn := textinput.New()
	iconIn.Placeholder = "Icon URL or site (blank for default)"
	iconIn.CharLimit = 500
	iconIn.Width = 50

	titleIn := textinput.New()
	titleIn.Placeholder = "Tab title (blank for default)"
	titleIn.CharLimit = 120
	titleIn.Width = 50

	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		deps:     deps,
		keys:     DefaultKeyMap(),
		view:     catalog.NewView(nil),
		search:   search,
		urlInput: urlInput,
		iconIn:   iconIn,
		titleIn:  titleIn,
		spinner:  s,
		help:     help.New(),
		loading:  deps.Catalog != nil,
		width:    80,
		height:   24,
	}
	m.refresh()
	return m
}

// Init starts the manifest load and the reload listener.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick}
	if m.deps.Catalog != nil {
		cmds = append(cmds, m.loadManifest())
	}
	if m.deps.Reloads != nil {
		cmds = append(cmds, m.deps.Reloads.wait())
	}
	return tea.Batch(cmds...)
}

func (m *Model) loadManifest() tea.Cmd {
	loader := m.deps.Catalog
	return func() tea.Msg {
		entries, err := loader.Load(context.Background())
		return manifestLoadedMsg{entries: entries, err: err}
	}
}

// Launched returns the entry chosen before quitting, if any.
func (m *Model) Launched() (catalog.Launch, bool) {
	if m.launched == nil {
		return catalog.Launch{}, false
	}
	return *m.launched, true
}

// Mode returns the active input surface.
func (m *Model) Mode() Mode { return m.mode }

// Status returns the last inline message.
func (m *Model) Status() string { return m.status }

// Styles returns the styles currently in use.
func (m *Model) Styles() Styles { return m.styles }

// Visible returns the committed catalog rows.
func (m *Model) Visible() []catalog.Entry { return m.view.Visible() }

// Pending reports whether a filter recomputation is in flight.
func (m *Model) Pending() bool { return m.view.Pending() }

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case manifestLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			m.deps.Logger.Error().Err(msg.err).Msg("catalog load failed")
			return m, nil
		}
		m.loadErr = nil
		return m, m.schedule(m.view.Replace(msg.entries), 0)

	case debounceMsg:
		if msg.job.Generation != m.latest {
			return m, nil
		}
		return m, runJob(msg.job)

	case resultMsg:
		if m.view.Commit(msg.result) {
			m.clampCursor()
		}
		return m, nil

	case themeImportedMsg:
		if msg.seq != m.importSeq {
			// A dismissed import may still have saved its theme.
			m.refresh()
			return m, nil
		}
		m.stopAction()
		m.busy = false
		switch {
		case errors.Is(msg.err, personalize.ErrSuperseded):
			m.status = fmt.Sprintf("Imported %q", msg.name)
		case msg.err != nil:
			m.status = personalize.UserMessage(msg.err)
			return m, nil
		default:
			m.status = fmt.Sprintf("Using theme %q", msg.name)
		}
		m.closePopup()
		m.refresh()
		return m, nil

	case cloakSavedMsg:
		if msg.seq != m.cloakSeq {
			m.refresh()
			return m, nil
		}
		m.stopAction()
		m.busy = false
		switch {
		case errors.Is(msg.err, cloak.ErrSuperseded):
			return m, nil
		case errors.Is(msg.err, cloak.ErrInvalidIcon):
			m.status = "Invalid icon URL"
			return m, nil
		case msg.err != nil:
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = "Cloak saved"
		m.closePopup()
		m.refresh()
		return m, nil

	case reloadMsg:
		if m.deps.Cloak != nil {
			if err := m.deps.Cloak.Reread(); err != nil {
				m.deps.Logger.Warn().Err(err).Msg("re-reading cloak")
			}
		}
		m.refresh()
		if m.deps.Reloads != nil {
			return m, m.deps.Reloads.wait()
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.stopAction()
		return m, tea.Quit
	}

	switch m.mode {
	case ModeImport:
		return m.handleImportKeys(msg)
	case ModeCloak:
		return m.handleCloakKeys(msg)
	}
	return m.handleBrowseKeys(msg)
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		if m.search.Value() == "" {
			return m, tea.Quit
		}
		m.search.SetValue("")
		return m, m.schedule(m.view.Type(""), m.deps.Debounce)

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Visible())-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.NextType):
		return m, m.cycleCategory(1)

	case key.Matches(msg, m.keys.PrevType):
		return m, m.cycleCategory(-1)

	case key.Matches(msg, m.keys.Launch):
		visible := m.view.Visible()
		if m.cursor >= len(visible) {
			return m, nil
		}
		l := catalog.LaunchFor(visible[m.cursor])
		m.launched = &l
		return m, tea.Quit

	case key.Matches(msg, m.keys.Random):
		e, err := catalog.Random(m.view.Visible(), m.deps.Rand)
		if err != nil {
			m.status = "No games to pick from"
			return m, nil
		}
		l := catalog.LaunchFor(e)
		m.launched = &l
		return m, tea.Quit

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.ImportTheme):
		if m.deps.Themes == nil {
			return m, nil
		}
		m.mode = ModeImport
		m.status = ""
		m.search.Blur()
		m.urlInput.SetValue("")
		return m, m.urlInput.Focus()

	case key.Matches(msg, m.keys.Cloak):
		if m.deps.Cloak == nil {
			return m, nil
		}
		m.mode = ModeCloak
		m.status = ""
		m.search.Blur()
		m.iconIn.SetValue(m.identity.IconURL)
		m.titleIn.SetValue(m.identity.PageTitle)
		m.cloakField = 0
		m.titleIn.Blur()
		return m, m.iconIn.Focus()

	case key.Matches(msg, m.keys.RemoveCloak):
		if m.deps.Cloak == nil {
			return m, nil
		}
		if err := m.deps.Cloak.Remove(); err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.cloakSeq++
		m.status = "Cloak removed"
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.schedule(m.view.Type(m.search.Value()), m.deps.Debounce))
}

func (m *Model) handleImportKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.stopAction()
		m.importSeq++
		m.busy = false
		m.status = ""
		m.closePopup()
		return m, nil

	case key.Matches(msg, m.keys.Launch):
		raw := strings.TrimSpace(m.urlInput.Value())
		if raw == "" {
			m.status = "Enter a theme URL"
			return m, nil
		}
		m.importSeq++
		m.busy = true
		m.status = "Importing..."
		return m, importTheme(m.startAction(), m.deps.Themes, m.importSeq, raw)
	}

	var cmd tea.Cmd
	m.urlInput, cmd = m.urlInput.Update(msg)
	return m, cmd
}

func (m *Model) handleCloakKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.stopAction()
		m.cloakSeq++
		m.busy = false
		m.status = ""
		m.closePopup()
		return m, nil

	case key.Matches(msg, m.keys.NextType), key.Matches(msg, m.keys.PrevType),
		key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		m.cloakField = 1 - m.cloakField
		if m.cloakField == 0 {
			m.titleIn.Blur()
			return m, m.iconIn.Focus()
		}
		m.iconIn.Blur()
		return m, m.titleIn.Focus()

	case key.Matches(msg, m.keys.Launch):
		m.cloakSeq++
		m.busy = true
		m.status = "Checking icon..."
		p := cloak.Partial{
			IconURL:   cloak.String(strings.TrimSpace(m.iconIn.Value())),
			PageTitle: cloak.String(m.titleIn.Value()),
		}
		return m, saveCloak(m.startAction(), m.deps.Cloak, m.cloakSeq, p)
	}

	var cmd tea.Cmd
	if m.cloakField == 0 {
		m.iconIn, cmd = m.iconIn.Update(msg)
	} else {
		m.titleIn, cmd = m.titleIn.Update(msg)
	}
	return m, cmd
}

func (m *Model) closePopup() {
	m.mode = ModeBrowse
	m.urlInput.Blur()
	m.iconIn.Blur()
	m.titleIn.Blur()
	m.search.Focus()
}

// schedule returns the command that runs job after delay. A non-positive
// delay runs it immediately.
func (m *Model) schedule(job catalog.Job, delay time.Duration) tea.Cmd {
	m.latest = job.Generation
	if delay <= 0 {
		return runJob(job)
	}
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return debounceMsg{job: job}
	})
}

func runJob(job catalog.Job) tea.Cmd {
	return func() tea.Msg {
		return resultMsg{result: job.Run()}
	}
}

// startAction replaces any running popup action with a fresh context bounded
// by actionTimeout.
func (m *Model) startAction() context.Context {
	m.stopAction()
	ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
	m.cancel = cancel
	return ctx
}

func (m *Model) stopAction() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func importTheme(ctx context.Context, svc *personalize.Service, seq int, raw string) tea.Cmd {
	return func() tea.Msg {
		doc, err := svc.ImportAndSelect(ctx, raw)
		return themeImportedMsg{seq: seq, name: doc.Name, err: err}
	}
}

func saveCloak(ctx context.Context, svc *cloak.Service, seq int, p cloak.Partial) tea.Cmd {
	return func() tea.Msg {
		return cloakSavedMsg{seq: seq, err: svc.Update(ctx, p)}
	}
}

func (m *Model) cycleCategory(step int) tea.Cmd {
	cats := catalog.Categories()
	_, current := m.view.Typed()
	idx := 0
	for i, c := range cats {
		if c == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(cats)) % len(cats)
	m.cursor = 0
	return m.schedule(m.view.Choose(cats[idx]), 0)
}

func (m *Model) cycleTheme() {
	if m.deps.Themes == nil {
		return
	}
	choices := m.deps.Themes.Themes()
	if len(choices) == 0 {
		return
	}
	idx := 0
	for i, c := range choices {
		if c.Selected {
			idx = i
			break
		}
	}
	next := choices[(idx+1)%len(choices)]
	if err := m.deps.Themes.Select(next.ID); err != nil {
		m.status = personalize.UserMessage(err)
		return
	}
	m.status = fmt.Sprintf("Using theme %q", next.Document.Name)
	m.refresh()
}

// refresh re-reads the persisted theme selection and cloak identity and
// rebuilds every style from them.
func (m *Model) refresh() {
	if m.deps.Themes != nil {
		m.styles = BuildStyles(m.deps.Themes.Active().Document)
	} else {
		m.styles = BuildStyles(theme.Default())
	}
	if m.deps.Cloak != nil {
		m.identity = m.deps.Cloak.Get()
	}
}

func (m *Model) clampCursor() {
	n := len(m.view.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View renders the browser.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	b.WriteString(m.styles.Input.Render(m.search.View()))
	b.WriteString("\n")

	switch m.mode {
	case ModeImport:
		b.WriteString(m.renderImport())
	case ModeCloak:
		b.WriteString(m.renderCloak())
	default:
		b.WriteString(m.renderGrid())
	}

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Accent.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))

	return m.styles.App.Render(b.String())
}

func (m *Model) renderHeader() string {
	title := m.identity.PageTitle
	if title == "" {
		title = branding.DisplayName()
	}
	header := m.styles.Title.Render(title)
	if m.identity.IconURL != "" {
		header += " " + m.styles.Muted.Render("["+m.identity.IconURL+"]")
	}
	if m.loading || m.busy {
		header += " " + m.spinner.View()
	}
	return header
}

func (m *Model) renderTabs() string {
	_, current := m.view.Typed()
	tabs := make([]string, 0, len(catalog.Categories()))
	for _, c := range catalog.Categories() {
		if c == current {
			tabs = append(tabs, m.styles.TabActive.Render(c.Label()))
		} else {
			tabs = append(tabs, m.styles.Tab.Render(c.Label()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderGrid() string {
	if m.loading {
		return m.styles.Muted.Render("Loading games...")
	}
	if m.loadErr != nil {
		return m.styles.Error.Render("Could not load games: " + m.loadErr.Error())
	}

	visible := m.view.Visible()
	if len(visible) == 0 {
		return m.styles.Muted.Render("No games found")
	}

	rows := m.height - 10
	if rows < 3 {
		rows = 3
	}
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(visible))

	card, active := m.styles.Card, m.styles.CardActive
	if m.view.Pending() {
		card, active = m.styles.Pending, m.styles.Pending.Bold(true)
	}

	lines := make([]string, 0, end-start+1)
	for i := start; i < end; i++ {
		e := visible[i]
		label := fmt.Sprintf("%-32s %s", e.Name, e.Type.Label())
		if e.NewTab {
			label += " ↗"
		}
		if i == m.cursor {
			lines = append(lines, active.Render("> "+label))
		} else {
			lines = append(lines, card.Render("  "+label))
		}
	}
	lines = append(lines, m.styles.Muted.Render(fmt.Sprintf("%d of %d games", len(visible), m.view.Total())))
	return strings.Join(lines, "\n")
}

func (m *Model) renderImport() string {
	body := m.styles.Title.Render("Import theme") + "\n\n" +
		m.urlInput.View() + "\n\n" +
		m.styles.Muted.Render("enter import • esc cancel")
	return m.styles.Popup.Render(body)
}

func (m *Model) renderCloak() string {
	body := m.styles.Title.Render("Cloak") + "\n\n" +
		m.styles.Text.Render("Icon") + "\n" + m.iconIn.View() + "\n\n" +
		m.styles.Text.Render("Title") + "\n" + m.titleIn.View() + "\n\n" +
		m.styles.Muted.Render("tab switch field • enter save • esc cancel")
	return m.styles.Popup.Render(body)
}
