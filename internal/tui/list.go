package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yiblet/recent/internal/store"
)

// ListMsg represents messages that the record list handles
type ListMsg interface {
	isListMsg()
}

type NavigateUpMsg struct{}

func (NavigateUpMsg) isListMsg() {}

type NavigateDownMsg struct {
	MaxIndex int // Maximum valid index for bounds checking
}

func (NavigateDownMsg) isListMsg() {}

type GoToTopMsg struct{}

func (GoToTopMsg) isListMsg() {}

type GoToBottomMsg struct {
	MaxIndex int
}

func (GoToBottomMsg) isListMsg() {}

type ResizeListMsg struct {
	Width  int
	Height int
}

func (ResizeListMsg) isListMsg() {}

// ListModel holds the cursor state for the record list
type ListModel struct {
	Cursor int
	Width  int
	Height int
}

// NewListModel creates a list model with the cursor on the newest record
func NewListModel(width, height int) ListModel {
	return ListModel{Width: width, Height: height}
}

// Update applies msg to the list state
func (l *ListModel) Update(msg ListMsg) {
	switch m := msg.(type) {
	case NavigateUpMsg:
		if l.Cursor > 0 {
			l.Cursor--
		}
	case NavigateDownMsg:
		if l.Cursor < m.MaxIndex {
			l.Cursor++
		}
	case GoToTopMsg:
		l.Cursor = 0
	case GoToBottomMsg:
		if m.MaxIndex >= 0 {
			l.Cursor = m.MaxIndex
		}
	case ResizeListMsg:
		l.Width = m.Width
		l.Height = m.Height
	}
}

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// FormatRecord renders one record as a single line
func FormatRecord(index int, r *store.Record) string {
	return fmt.Sprintf("%d  page %-4d  %s", index, r.Item, r.ModifiedAt.Local().Format("2006-01-02 15:04"))
}

// ListView renders the record list as a pure function
func ListView(model ListModel, records []*store.Record) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Last pages"))
	b.WriteString("\n\n")

	if len(records) == 0 {
		b.WriteString(dimStyle.Render("No pages yet."))
	}

	for i, r := range records {
		line := FormatRecord(i, r)
		if i == model.Cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		if i < len(records)-1 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render("↑/k ↓/j move • g/G top/bottom • enter open • q quit"))

	style := borderStyle
	if model.Width > 2 {
		style = style.Width(model.Width - 2)
	}
	return style.Render(b.String())
}
