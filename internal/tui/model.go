// Package tui 是聊天小部件的终端界面
package tui

import (
	"context"
	"errors"
	"strings"

	bspinner "github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"pattern_chat/internal/models"
	"pattern_chat/internal/widget"
)

const placeholder = "Ask about design patterns..."

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("62")).Padding(0, 1)
	userLabel      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("118"))
	userBody       = lipgloss.NewStyle().MarginLeft(2)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// renderMarkdown 渲染助手回复
func renderMarkdown(content string) (string, error) {
	return glamour.Render(content, "dark")
}

// replyMsg 一次提交的结果
type replyMsg struct {
	reply models.Message
	err   error
}

// Options 界面参数
type Options struct {
	Title    string
	Markdown bool // 用 glamour 渲染助手回复
}

// Model bubbletea 模型，对话状态全部保存在 widget 中
type Model struct {
	ctx     context.Context
	widget  *widget.Widget
	sender  widget.Sender
	opts    Options
	input   textinput.Model
	spinner bspinner.Model
	view    viewport.Model
	ready   bool

	// 对话只追加，按下标缓存已渲染的助手回复
	rendered map[int]string
	render   func(string) (string, error)
}

// New 创建界面模型
func New(ctx context.Context, sender widget.Sender, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.Focus()

	sp := bspinner.New()
	sp.Spinner = bspinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	if opts.Title == "" {
		opts.Title = "Design Patterns"
	}

	return Model{
		ctx:     ctx,
		widget:  widget.New(sender),
		sender:  sender,
		opts:    opts,
		input:   ti,
		spinner: sp,
		view:    viewport.New(80, 20),

		rendered: make(map[int]string),
		render:   renderMarkdown,
	}
}

// Widget 返回底层小部件
func (m Model) Widget() *widget.Widget {
	return m.widget
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.view, cmd = m.view.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.view.Width = msg.Width
		m.view.Height = max(msg.Height-4, 3)
		m.input.Width = max(msg.Width-4, 10)
		m.ready = true
		m.refresh()
		return m, nil

	case replyMsg:
		_ = m.widget.Finish(msg.reply, msg.err)
		m.input.Focus()
		m.refresh()
		return m, nil

	case bspinner.TickMsg:
		if !m.widget.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit 乐观追加用户消息，清空输入并异步发送
func (m Model) submit() (tea.Model, tea.Cmd) {
	snapshot, err := m.widget.Begin(m.input.Value())
	if errors.Is(err, widget.ErrEmptyInput) || errors.Is(err, widget.ErrBusy) {
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.refresh()

	sender, ctx := m.sender, m.ctx
	send := func() tea.Msg {
		reply, err := sender.Send(ctx, snapshot)
		return replyMsg{reply: reply, err: err}
	}
	return m, tea.Batch(send, m.spinner.Tick)
}

func (m *Model) refresh() {
	m.view.SetContent(m.renderConversation())
	m.view.GotoBottom()
}

func (m Model) renderConversation() string {
	var b strings.Builder
	for i, msg := range m.widget.Conversation() {
		if msg.Role == models.RoleUser {
			b.WriteString(userLabel.Render("You"))
			b.WriteString("\n")
			b.WriteString(userBody.Render(msg.Content))
			b.WriteString("\n\n")
			continue
		}
		b.WriteString(assistantLabel.Render("AI"))
		b.WriteString("\n")
		b.WriteString(m.renderAssistant(i, msg.Content))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderAssistant(index int, content string) string {
	if !m.opts.Markdown {
		return userBody.Render(content) + "\n"
	}
	if out, ok := m.rendered[index]; ok {
		return out
	}

	out, err := m.render(content)
	if err != nil {
		out = userBody.Render(content) + "\n"
	}
	m.rendered[index] = out
	return out
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.opts.Title))
	b.WriteString("\n")
	if m.ready {
		b.WriteString(m.view.View())
	} else {
		b.WriteString(m.renderConversation())
	}
	b.WriteString("\n")

	if m.widget.Busy() {
		b.WriteString(m.spinner.View() + statusStyle.Render(" Thinking..."))
	} else {
		if m.widget.LastError() != nil {
			b.WriteString(errorStyle.Render("request failed, try again"))
			b.WriteString("\n")
		}
		b.WriteString(m.input.View())
	}
	b.WriteString("\n")
	b.WriteString(statusStyle.Render("enter: send • pgup/pgdn: scroll • esc: quit"))
	return b.String()
}

// Run 启动交互界面，阻塞直到退出
func Run(ctx context.Context, sender widget.Sender, opts Options) error {
	_, err := tea.NewProgram(New(ctx, sender, opts), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
