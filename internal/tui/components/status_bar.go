package components

import (
	"inikeys/internal/tui/common"
	"inikeys/internal/tui/styles"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

type StatusBar struct {
	text    string
	kind    common.StatusKind
	styles  styles.Styles
	spinner spinner.Model
	loading bool
}

func NewStatusBar(st styles.Styles) *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = st.Help

	return &StatusBar{
		styles:  st,
		spinner: s,
	}
}

// SetLoading toggles the spinner and returns the command that drives it.
func (s *StatusBar) SetLoading(loading bool) tea.Cmd {
	s.loading = loading
	if loading {
		return s.spinner.Tick
	}
	return nil
}

func (s *StatusBar) Loading() bool {
	return s.loading
}

func (s *StatusBar) SetText(text string, kind common.StatusKind) {
	s.text = text
	s.kind = kind
}

func (s *StatusBar) Text() (string, common.StatusKind) {
	return s.text, s.kind
}

func (s *StatusBar) Clear() {
	s.text = ""
	s.kind = common.StatusInfo
}

func (s *StatusBar) Update(msg tea.Msg) tea.Cmd {
	if s.loading {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (s *StatusBar) View() string {
	if s.text == "" && !s.loading {
		return ""
	}

	style := s.styles.Info
	switch s.kind {
	case common.StatusSuccess:
		style = s.styles.Success
	case common.StatusWarning:
		style = s.styles.Warning
	case common.StatusError:
		style = s.styles.Error
	}

	if s.loading {
		return style.Render(s.spinner.View() + " " + s.text)
	}
	return style.Render(s.text)
}
