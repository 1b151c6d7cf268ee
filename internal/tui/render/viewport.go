package render

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// StickyViewport 包装 bubbles viewport：内容更新前若已接近底部，
// 更新后滚到底部，否则保持原偏移。
type StickyViewport struct {
	viewport.Model
	lastLines []string
}

// NewStickyViewport 创建视口。
func NewStickyViewport(width, height int) StickyViewport {
	vp := viewport.New(width, height)
	return StickyViewport{Model: vp}
}

// Resize 更新宽高；宽度变化时清空缓存，下一次 SetLines 一定重写内容。
func (v *StickyViewport) Resize(width, height int) {
	if v == nil {
		return
	}
	if v.Width != width {
		v.Invalidate()
	}
	v.Width = width
	v.Height = height
	if v.YOffset > v.maxOffset() {
		v.GotoBottom()
	}
}

// HandleUpdate 代理 bubbles 的 Update，处理翻页等按键。
func (v *StickyViewport) HandleUpdate(msg tea.Msg) tea.Cmd {
	if v == nil {
		return nil
	}
	var cmd tea.Cmd
	v.Model, cmd = v.Model.Update(msg)
	return cmd
}

// DistanceFromBottom 返回可见区域底边到内容底边的行数，内容不足一屏时为 0。
func (v *StickyViewport) DistanceFromBottom() int {
	if v == nil {
		return 0
	}
	d := v.TotalLineCount() - v.Height - v.YOffset
	if d < 0 {
		return 0
	}
	return d
}

// NearBottom 判断距底部是否不超过 threshold 行。
func (v *StickyViewport) NearBottom(threshold int) bool {
	return v.DistanceFromBottom() <= threshold
}

// SetLines 替换全部内容，返回是否贴底。
func (v *StickyViewport) SetLines(lines []string, threshold int) bool {
	if v == nil {
		return false
	}
	stick := v.NearBottom(threshold)
	if slices.Equal(lines, v.lastLines) {
		return stick
	}
	offset := v.YOffset
	v.lastLines = append([]string(nil), lines...)
	v.SetContent(strings.Join(lines, "\n"))
	if stick {
		v.GotoBottom()
		return true
	}
	v.SetYOffset(offset)
	return false
}

// Lines 返回最近一次写入的内容。
func (v *StickyViewport) Lines() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.lastLines...)
}

// Invalidate 清空已缓存的行。
func (v *StickyViewport) Invalidate() {
	if v == nil {
		return
	}
	v.lastLines = nil
}

func (v *StickyViewport) maxOffset() int {
	m := v.TotalLineCount() - v.Height
	if m < 0 {
		return 0
	}
	return m
}
