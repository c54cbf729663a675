// Package tui implements the interactive browser over the page history.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/yiblet/recent/internal/store"
)

// AppModel is the bubbletea model for `recent browse`
type AppModel struct {
	List     ListModel
	Records  []*store.Record
	selected *store.Record
	quitting bool
}

// NewAppModel creates a browser over records (newest first)
func NewAppModel(records []*store.Record) AppModel {
	return AppModel{
		List:    NewListModel(60, 10),
		Records: records,
	}
}

// Init implements tea.Model
func (m AppModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.List.Update(ResizeListMsg{Width: msg.Width, Height: msg.Height})
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m AppModel) handleKey(key string) (tea.Model, tea.Cmd) {
	maxIndex := len(m.Records) - 1

	switch key {
	case "ctrl+c", "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		m.List.Update(NavigateUpMsg{})
	case "down", "j":
		m.List.Update(NavigateDownMsg{MaxIndex: maxIndex})
	case "g", "home":
		m.List.Update(GoToTopMsg{})
	case "G", "end":
		m.List.Update(GoToBottomMsg{MaxIndex: maxIndex})
	case "enter":
		if m.List.Cursor >= 0 && m.List.Cursor <= maxIndex {
			m.selected = m.Records[m.List.Cursor]
			return m, tea.Quit
		}
	}
	return m, nil
}

// View implements tea.Model
func (m AppModel) View() string {
	if m.quitting || m.selected != nil {
		return ""
	}
	return ListView(m.List, m.Records)
}

// Selected returns the record chosen with enter, if any
func (m AppModel) Selected() (*store.Record, bool) {
	return m.selected, m.selected != nil
}
