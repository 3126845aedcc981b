package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/akira/internal/domain"
	"github.com/hammamikhairi/akira/internal/format"
	"github.com/hammamikhairi/akira/internal/render"
)

const (
	minInputRows = 1
	maxInputRows = 6

	// Rows above the bottom before the jump affordance shows.
	scrollThresholdRows = 5

	headerRows = 1
	footerRows = 2 // indicator + help line
)

// Messages.
type (
	appendMsg struct {
		msg    domain.Message
		reveal bool
	}
	revealMsg struct {
		id   string
		text string
	}
	finishMsg       struct{ id string }
	clearMsg        struct{}
	clearInputMsg   struct{}
	typingMsg       bool
	focusMsg        struct{}
	scrollBottomMsg struct{}
	noticeMsg       string
	statusMsg       string
)

type entry struct {
	msg    domain.Message
	shown  string // revealed part of a bot reply
	reveal bool   // render shown instead of msg.Text
	notice bool
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	title  string
	status string

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	entries    []entry
	typing     bool
	scrolledUp bool

	width, height int
	sized         bool

	inputCh  chan<- string
	readyCh  chan struct{}
	activity Publisher
}

func newModel(title string, inputCh chan<- string, readyCh chan struct{}, activity Publisher) model {
	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetWidth(60)
	ta.SetHeight(minInputRows)
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetKeys("alt+enter", "ctrl+j")
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = typingStyle

	vp := viewport.New(80, 20)
	// Keys belong to the input box; the model scrolls explicitly.
	vp.KeyMap = viewport.KeyMap{}

	return model{
		title:    title,
		viewport: vp,
		input:    ta,
		spinner:  sp,
		inputCh:  inputCh,
		readyCh:  readyCh,
		activity: activity,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		tea.SetWindowTitle(m.title),
		signalReady(m.readyCh),
	)
}

func signalReady(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		close(ch)
		return nil
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.sized = true
		m.input.SetWidth(max(msg.Width-2, 1))
		m.input.SetHeight(inputRows(m.input.Value(), m.input.Width()))
		m.layout()
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case appendMsg:
		m.entries = append(m.entries, entry{msg: msg.msg, reveal: msg.reveal})
		m.refresh()
		return m, nil

	case noticeMsg:
		m.entries = append(m.entries, entry{msg: domain.Message{Text: string(msg)}, notice: true})
		m.refresh()
		return m, nil

	case revealMsg:
		if i := m.find(msg.id); i >= 0 {
			m.entries[i].shown += msg.text
			m.refresh()
		}
		return m, nil

	case finishMsg:
		if i := m.find(msg.id); i >= 0 {
			m.entries[i].shown = m.entries[i].msg.Text
			m.refresh()
		}
		return m, nil

	case clearMsg:
		m.entries = nil
		m.refresh()
		return m, nil

	case clearInputMsg:
		m.input.Reset()
		m.resizeInput()
		return m, nil

	case typingMsg:
		m.typing = bool(msg)
		if m.typing {
			return m, m.spinner.Tick
		}
		return m, nil

	case spinner.TickMsg:
		if !m.typing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case focusMsg:
		return m, m.input.Focus()

	case scrollBottomMsg:
		m.toBottom()
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.activity.Publish(domain.ActivityKeyPress)

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "pgup":
		m.scrollBy(-m.viewport.Height)
		return m, nil
	case "pgdown":
		m.scrollBy(m.viewport.Height)
		return m, nil
	case "ctrl+g":
		m.toBottom()
		return m, nil
	case "end":
		if m.scrolledUp {
			m.toBottom()
			return m, nil
		}
	}

	if msg.Type == tea.KeyEnter && !msg.Alt && !msg.Paste {
		// The input is cleared by whoever accepts the line, so a
		// rejected send leaves the text in place.
		if v := m.input.Value(); strings.TrimSpace(v) != "" {
			select {
			case m.inputCh <- v:
			default:
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.resizeInput()
	return m, cmd
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		m.activity.Publish(domain.ActivityScroll)
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		m.updateScrolled()
		return m, cmd
	case tea.MouseButtonLeft:
		m.activity.Publish(domain.ActivityPointerDown)
		if m.scrolledUp && msg.Y == headerRows+m.viewport.Height {
			m.toBottom()
		}
	}
	return m, nil
}

// ── Layout & scrolling ───────────────────────────────────────────

func (m *model) layout() {
	if !m.sized {
		return
	}
	inputH := m.input.Height() + 2 // border
	m.viewport.Width = m.width
	m.viewport.Height = max(m.height-headerRows-footerRows-inputH, 1)
}

// resizeInput grows or shrinks the input box to fit its content.
func (m *model) resizeInput() {
	rows := inputRows(m.input.Value(), m.input.Width())
	if rows == m.input.Height() {
		return
	}
	m.input.SetHeight(rows)
	m.layout()
	m.refresh()
}

// refresh re-renders the message list, staying pinned to the bottom if
// the view was there already.
func (m *model) refresh() {
	pinned := m.viewport.AtBottom()
	m.viewport.SetContent(m.renderContent())
	if pinned {
		m.viewport.GotoBottom()
	}
	m.updateScrolled()
}

func (m *model) scrollBy(rows int) {
	m.activity.Publish(domain.ActivityScroll)
	m.viewport.SetYOffset(m.viewport.YOffset + rows)
	m.updateScrolled()
}

func (m *model) toBottom() {
	render.ScrollToBottom(viewportScroll{&m.viewport})
	m.updateScrolled()
}

func (m *model) updateScrolled() {
	m.scrolledUp = render.ScrolledUp(viewportScroll{&m.viewport}, scrollThresholdRows)
}

func (m model) find(id string) int {
	for i := len(m.entries) - 1; i >= 0; i-- {
		if m.entries[i].msg.ID == id && !m.entries[i].notice {
			return i
		}
	}
	return -1
}

// viewportScroll exposes a viewport as a render.Scrollable in rows.
type viewportScroll struct{ vp *viewport.Model }

func (s viewportScroll) ScrollHeight() int    { return s.vp.TotalLineCount() }
func (s viewportScroll) ScrollTop() int       { return s.vp.YOffset }
func (s viewportScroll) ClientHeight() int    { return s.vp.Height }
func (s viewportScroll) SetScrollTop(top int) { s.vp.SetYOffset(top) }

// inputRows is the number of rows value occupies when wrapped at width,
// clamped to the input box limits.
func inputRows(value string, width int) int {
	width = max(width, 1)
	rows := 0
	for _, line := range strings.Split(value, "\n") {
		w := lipgloss.Width(line)
		rows += max(1, (w+width-1)/width)
	}
	return min(max(rows, minInputRows), maxInputRows)
}

// ── Rendering ────────────────────────────────────────────────────

func (m model) View() string {
	if !m.sized {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderIndicator(),
		inputBox.Width(max(m.width-2, 1)).Render(m.input.View()),
		m.renderHelp(),
	)
}

func (m model) renderHeader() string {
	left := headerStyle.Render(" " + m.title + " ")
	right := statusStyle.Render(m.status + " ")
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + statusStyle.Render(strings.Repeat(" ", gap)) + right
}

func (m model) renderIndicator() string {
	var left, right string
	if m.typing {
		left = typingStyle.Render(" " + m.spinner.View() + " Akira is typing...")
	}
	if m.scrolledUp {
		right = jumpStyle.Render("↓ new messages · ctrl+g")
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + strings.Repeat(" ", gap) + right
}

func (m model) renderHelp() string {
	send := sendDisabled.Render(" ⏎ send")
	if strings.TrimSpace(m.input.Value()) != "" {
		send = sendEnabled.Render(" ⏎ send")
	}
	return send + helpStyle.Render("  alt+enter newline · pgup/pgdn scroll · /help · ctrl+c quit")
}

func (m model) renderContent() string {
	var b strings.Builder
	b.WriteString(RenderBanner(m.width))
	b.WriteByte('\n')

	bubbleW := max(m.width*3/4, 20)
	for _, e := range m.entries {
		b.WriteString(m.renderEntry(e, bubbleW))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m model) renderEntry(e entry, bubbleW int) string {
	if e.notice {
		return noticeStyle.Width(max(m.width, 1)).Render("  · " + format.SanitizeTerminal(e.msg.Text))
	}

	text := e.msg.Text
	if e.reveal {
		text = e.shown
	}
	text = format.SanitizeTerminal(text)
	if text == "" {
		text = "▍"
	}

	who, style, align := "Akira", botBubble, lipgloss.Left
	switch e.msg.Role {
	case domain.RoleUser:
		who, style, align = "You", userBubble, lipgloss.Right
	case domain.RoleError:
		style = errorBubble
	}

	meta := metaStyle.Render(who + " · " + format.ClockTime(e.msg.Timestamp))
	body := style.Width(min(widestLine(text)+2, bubbleW)).Render(text)
	block := lipgloss.JoinVertical(align, meta, body)
	return lipgloss.PlaceHorizontal(max(m.width, lipgloss.Width(block)), align, block)
}

func widestLine(s string) int {
	w := 0
	for _, line := range strings.Split(s, "\n") {
		w = max(w, lipgloss.Width(line))
	}
	return w
}
