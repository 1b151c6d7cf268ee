package tui

import (
	"strings"
	"time"

	"gamechat/internal/chat"
	"gamechat/internal/logger"
	"gamechat/internal/tui/render"
	"gamechat/internal/tui/slash"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	// DefaultID 是组件的默认标识，同时用作日志组件名。
	DefaultID                  = "game-chat-widget"
	DefaultPollInterval        = 2 * time.Second
	DefaultStickyThresholdRows = 3
	DefaultNoticeDuration      = 4 * time.Second

	headerTitle      = "Game Chat"
	inputPlaceholder = "Type message..."
)

// Options 配置聊天组件。零值字段使用默认值。
type Options struct {
	Client              Client
	ID                  string
	PollInterval        time.Duration
	StickyThresholdRows int
	NoticeDuration      time.Duration
	// Clipboard 写入系统剪贴板，默认 atotto/clipboard。
	Clipboard func(string) error
	// Log 为空时使用以 ID 命名的全局日志入口。
	Log    *logger.LogEntry
	Width  int
	Height int
}

// Model 是聊天组件：渲染一次后按固定间隔拉取记录，保持列表与服务端同步。
type Model struct {
	id        string
	client    Client
	log       *logger.LogEntry
	input     textinput.Model
	viewport  render.StickyViewport
	renderer  render.Renderer
	slash     *slash.State
	sent      inputHistory
	messages  []chat.Message
	clipboard func(string) error

	pollInterval time.Duration
	pollGen      int
	polling      bool
	threshold    int
	noticeTTL    time.Duration
	notice       notice

	isOpen     bool
	minimized  bool
	confirming bool

	width  int
	height int
	dirty  bool
}

// New 构造组件并完成首次渲染（此时列表为占位文本）。
func New(opts Options) *Model {
	id := strings.TrimSpace(opts.ID)
	if id == "" {
		id = DefaultID
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	threshold := opts.StickyThresholdRows
	if threshold <= 0 {
		threshold = DefaultStickyThresholdRows
	}
	ttl := opts.NoticeDuration
	if ttl == 0 {
		ttl = DefaultNoticeDuration
	}
	write := opts.Clipboard
	if write == nil {
		write = clipboard.WriteAll
	}
	entry := opts.Log
	if entry == nil {
		entry = logger.Named(id)
	}

	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.Prompt = "› "
	ti.CharLimit = chat.MaxMessageLength
	ti.Focus()

	m := &Model{
		id:           id,
		client:       opts.Client,
		log:          entry,
		input:        ti,
		viewport:     render.NewStickyViewport(76, 10),
		renderer:     render.NewRenderer(),
		slash:        slash.NewState(slash.Options{}),
		clipboard:    write,
		pollInterval: interval,
		threshold:    threshold,
		noticeTTL:    ttl,
		isOpen:       true,
		dirty:        true,
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.resize(width, height)
	m.flush()
	return m
}

// Init 发起首次拉取并启动轮询。
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.fetchHistory(), m.Start())
}

// Start 启动轮询；已在轮询时返回 nil。
func (m *Model) Start() tea.Cmd {
	if m.polling {
		return nil
	}
	m.polling = true
	m.pollGen++
	m.log.WithField("interval", m.pollInterval).Debug("auto refresh started")
	return pollTick(m.pollInterval, m.pollGen)
}

// Stop 停止轮询。已发出的请求不会取消，结果仍会应用。
func (m *Model) Stop() {
	if !m.polling {
		return
	}
	m.polling = false
	m.pollGen++
	m.log.Debug("auto refresh stopped")
}

// Polling 报告轮询是否在运行。
func (m *Model) Polling() bool {
	return m.polling
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m.finish(cmds...)
	case pollTickMsg:
		if !m.polling || msg.gen != m.pollGen {
			return m.finish(cmds...)
		}
		cmds = append(cmds, m.fetchHistory(), pollTick(m.pollInterval, msg.gen))
		return m.finish(cmds...)
	case historyMsg:
		m.applyHistory(msg)
		return m.finish(cmds...)
	case sendResultMsg:
		cmds = append(cmds, m.handleSendResult(msg))
		return m.finish(cmds...)
	case clearResultMsg:
		if msg.err != nil {
			m.log.Warnf("clear chat failed: %v", msg.err)
			cmds = append(cmds, m.showNotice(failureText(msg.err, "Failed to clear chat", "Error clearing chat")))
			return m.finish(cmds...)
		}
		cmds = append(cmds, m.fetchHistory())
		return m.finish(cmds...)
	case copyResultMsg:
		if msg.err != nil {
			m.log.Warnf("copy to clipboard failed: %v", msg.err)
			cmds = append(cmds, m.showNotice("Copy failed"))
		} else {
			cmds = append(cmds, m.showNotice("Copied"))
		}
		return m.finish(cmds...)
	case noticeExpiredMsg:
		m.expireNotice(msg.seq)
		return m.finish(cmds...)
	case tea.MouseMsg:
		if !m.minimized {
			cmds = append(cmds, m.viewport.HandleUpdate(msg))
		}
		return m.finish(cmds...)
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
		return m.finish(cmds...)
	}

	if m.isOpen && !m.minimized {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m.finish(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.confirming {
		return m.handleConfirmKey(msg)
	}
	if m.slash.Open() {
		if act, handled := m.slash.HandleKey(msg.String()); handled {
			return m.applySlashAction(act)
		}
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m.quit()
	case "ctrl+t":
		m.ToggleMinimize()
		return nil
	}
	if m.minimized {
		return nil
	}

	switch msg.String() {
	case "enter":
		if !m.isOpen {
			return m.focusInput()
		}
		return m.submit()
	case "tab":
		if m.isOpen {
			m.blurInput()
			return nil
		}
		return m.focusInput()
	case "ctrl+l":
		m.openClearConfirm()
		return nil
	case "ctrl+r":
		return m.Refresh()
	case "ctrl+y":
		return m.copyNewest()
	case "pgup", "pgdown":
		return m.viewport.HandleUpdate(msg)
	}

	if !m.isOpen {
		return m.viewport.HandleUpdate(msg)
	}

	switch msg.String() {
	case "up":
		if value, ok := m.sent.Prev(m.input.Value()); ok {
			m.input.SetValue(value)
			m.input.CursorEnd()
		}
		return nil
	case "down":
		if value, ok := m.sent.Next(); ok {
			m.input.SetValue(value)
			m.input.CursorEnd()
		}
		return nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.sent.Browsing() && m.input.Value() != before {
		// 改过的旧消息成为新的草稿，上下键从最新位置重新翻。
		m.sent.ResetBrowsing()
	}
	m.syncSlash()
	return cmd
}

// submit 处理回车：斜杠命令、`//` 转义，其余按消息发送。
func (m *Model) submit() tea.Cmd {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return nil
	}
	act := m.slash.ResolveSubmit(input)
	switch act.Kind {
	case slash.ActionSubmitCommand, slash.ActionError:
		return m.applySlashAction(act)
	}
	text, _ := slash.Unescape(input)
	return m.sendMessage(input, text)
}

// Send 发送一条消息。去掉首尾空白后为空则不发请求。
// 成功后若输入框内容与 text 相同则清空。
func (m *Model) Send(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return m.sendMessage(text, text)
}

func (m *Model) handleSendResult(msg sendResultMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warnf("send message failed: %v", msg.err)
		return m.showNotice(failureText(msg.err, "Failed to send message", "Error sending message"))
	}
	m.sent.Add(msg.input)
	// 请求期间输入框被改动时保留新内容。
	if strings.TrimSpace(m.input.Value()) == msg.input {
		m.input.SetValue("")
		m.syncSlash()
	}
	return tea.Batch(m.focusInput(), m.fetchHistory())
}

// Refresh 立即拉取一次记录，失败只记日志。
func (m *Model) Refresh() tea.Cmd {
	return m.fetchHistory()
}

// Clear 打开清空确认框，确认后才发请求。
func (m *Model) Clear() {
	m.openClearConfirm()
}

func (m *Model) applyHistory(msg historyMsg) {
	if msg.err != nil {
		m.log.Warnf("load chat history failed: %v", msg.err)
		return
	}
	m.messages = append([]chat.Message(nil), msg.messages...)
	m.dirty = true
}

func (m *Model) applySlashAction(act slash.Action) tea.Cmd {
	switch act.Kind {
	case slash.ActionInsert:
		m.input.SetValue(act.NewValue)
		m.input.SetCursor(act.CursorColumn)
		m.syncSlash()
		return nil
	case slash.ActionError:
		return m.showNotice(act.Message)
	case slash.ActionSubmitCommand:
		m.input.SetValue("")
		m.syncSlash()
		return m.runCommand(act.Command)
	}
	return nil
}

func (m *Model) runCommand(cmd slash.Command) tea.Cmd {
	m.log.WithField("command", string(cmd)).Debug("slash command")
	switch cmd {
	case slash.CommandClear:
		m.openClearConfirm()
	case slash.CommandRefresh:
		return m.Refresh()
	case slash.CommandMinimize:
		m.ToggleMinimize()
	case slash.CommandCopy:
		return m.copyNewest()
	case slash.CommandQuit:
		return m.quit()
	}
	return nil
}

func (m *Model) syncSlash() {
	m.slash.SyncInput(slash.Input{Value: m.input.Value(), CursorColumn: m.input.Position()})
}

func (m *Model) copyNewest() tea.Cmd {
	if len(m.messages) == 0 {
		return m.showNotice("Nothing to copy")
	}
	return m.copyText(m.messages[len(m.messages)-1].Message)
}

// ToggleMinimize 切换最小化：隐藏消息列表与输入框。
func (m *Model) ToggleMinimize() {
	m.minimized = !m.minimized
	m.slash.Close()
}

// Minimized 报告是否处于最小化。
func (m *Model) Minimized() bool {
	return m.minimized
}

// IsOpen 报告输入框是否持有焦点。
func (m *Model) IsOpen() bool {
	return m.isOpen
}

// ID 返回组件标识。
func (m *Model) ID() string {
	return m.id
}

// Messages 返回当前渲染的记录副本。
func (m *Model) Messages() []chat.Message {
	return append([]chat.Message(nil), m.messages...)
}

// Input 返回输入框当前内容。
func (m *Model) Input() string {
	return m.input.Value()
}

func (m *Model) focusInput() tea.Cmd {
	m.isOpen = true
	return m.input.Focus()
}

func (m *Model) blurInput() {
	m.isOpen = false
	m.input.Blur()
	m.slash.Close()
}

func (m *Model) quit() tea.Cmd {
	m.Stop()
	return tea.Quit
}

func (m *Model) finish(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	if m.dirty {
		m.flush()
	}
	return m, tea.Batch(cmds...)
}

// flush 重绘列表；是否贴底由更新前的位置决定。
func (m *Model) flush() {
	lines := render.LinesToStrings(m.renderer.Messages(m.messages, m.viewport.Width))
	m.viewport.SetLines(lines, m.threshold)
	m.dirty = false
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	paneWidth := maxInt(20, width-2)
	// 标题 1 行，列表边框 2 行，输入框 3 行，状态行 1 行
	viewHeight := maxInt(3, height-7)
	m.viewport.Resize(maxInt(10, paneWidth-2), viewHeight)
	m.input.Width = maxInt(10, paneWidth-2-lipgloss.Width(m.input.Prompt)-1)
	m.dirty = true
}

func (m *Model) View() string {
	header := renderHeader(m.width, m.minimized)
	if m.minimized {
		return header
	}
	parts := []string{
		header,
		renderPane(m.viewport.View(), m.width, m.viewport.Height, !m.isOpen),
	}
	if m.slash.Open() {
		parts = append(parts, modalStyle.Render(m.slash.View(maxInt(20, m.width-4))))
	}
	parts = append(parts, renderPane(m.input.View(), m.width, 1, m.isOpen))
	if overlay := m.confirmView(m.width); overlay != "" {
		parts = append(parts, overlay)
	}
	parts = append(parts, m.statusLine(m.width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderHeader(width int, minimized bool) string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Render(headerTitle)
	toggle := "−"
	if minimized {
		toggle = "+"
	}
	right := hintStyle.Render(toggle + " ctrl+t")
	gap := maxInt(1, width-lipgloss.Width(title)-lipgloss.Width(right)-2)
	return lipgloss.NewStyle().Padding(0, 1).Render(title + strings.Repeat(" ", gap) + right)
}

func renderPane(body string, width, height int, focused bool) string {
	border := lipgloss.Color("#5E6472")
	if focused {
		border = lipgloss.Color("#7D56F4")
	}
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(maxInt(20, width-2))
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(body)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
