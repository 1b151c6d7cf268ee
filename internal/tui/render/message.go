package render

import (
	"time"

	"gamechat/internal/chat"

	"github.com/charmbracelet/lipgloss"
)

const (
	// Placeholder 在没有任何消息时显示。
	Placeholder = "No messages yet"
	// TimeLayout 两位小时、两位分钟，12 小时制。
	TimeLayout = "03:04 PM"
)

// Styles 按方向区分的消息样式。
type Styles struct {
	SentSender     lipgloss.Style
	ReceivedSender lipgloss.Style
	Body           lipgloss.Style
	Time           lipgloss.Style
	Placeholder    lipgloss.Style
	SentBar        lipgloss.Style
	ReceivedBar    lipgloss.Style
}

// DefaultStyles 返回默认配色：发出为绿色，收到为蓝色。
func DefaultStyles() Styles {
	sent := lipgloss.Color("#4CAF50")
	received := lipgloss.Color("#2196F3")
	return Styles{
		SentSender:     lipgloss.NewStyle().Foreground(sent).Bold(true),
		ReceivedSender: lipgloss.NewStyle().Foreground(received).Bold(true),
		Body:           lipgloss.NewStyle(),
		Time:           lipgloss.NewStyle().Foreground(lipgloss.Color("#7D7A85")).Faint(true),
		Placeholder:    lipgloss.NewStyle().Foreground(lipgloss.Color("#5E6472")).Italic(true),
		SentBar:        lipgloss.NewStyle().Foreground(sent),
		ReceivedBar:    lipgloss.NewStyle().Foreground(received),
	}
}

// Renderer 把消息记录渲染为视口行。
type Renderer struct {
	Styles   Styles
	Location *time.Location
}

// NewRenderer 使用默认样式与本地时区。
func NewRenderer() Renderer {
	return Renderer{Styles: DefaultStyles(), Location: time.Local}
}

// FormatTime 按 TimeLayout 格式化时间，零值返回空串。
func (r Renderer) FormatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	if r.Location != nil {
		ts = ts.In(r.Location)
	}
	return ts.Format(TimeLayout)
}

// Messages 生成整张列表：空列表只有占位行，否则按服务端顺序每条一块，
// 块之间空一行。
func (r Renderer) Messages(msgs []chat.Message, width int) []Line {
	if len(msgs) == 0 {
		return []Line{Text(Placeholder, r.Styles.Placeholder)}
	}
	var buf Buffer
	for i, msg := range msgs {
		if i > 0 {
			buf.WriteLine(Line{})
		}
		buf.WriteLines(r.Block(msg, width)...)
	}
	return buf.Lines
}

// Block 渲染单条消息：发送者、正文、时间三段，所有服务端文本先转义。
func (r Renderer) Block(msg chat.Message, width int) []Line {
	bar, sender := r.Styles.ReceivedBar, r.Styles.ReceivedSender
	if msg.Direction == chat.DirectionSent {
		bar, sender = r.Styles.SentBar, r.Styles.SentSender
	}
	const gutter = "│ "
	inner := width - lipgloss.Width(gutter)
	if width <= 0 {
		inner = 0
	}

	line := func(text string, style lipgloss.Style) Line {
		return Line{Spans: []Span{{Text: gutter, Style: bar}, {Text: text, Style: style}}}
	}

	out := []Line{line(Escape(msg.Sender), sender)}
	for _, l := range wrapText(Escape(msg.Message), inner) {
		out = append(out, line(l, r.Styles.Body))
	}
	out = append(out, line(r.FormatTime(msg.Timestamp), r.Styles.Time))
	return out
}
