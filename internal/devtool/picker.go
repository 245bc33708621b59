package devtool

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrCancelled = errors.New("no selection made")

// Selection is the picker's result. Project is nil when All is set.
type Selection struct {
	All     bool
	Project *Project
}

type choice struct {
	title   string
	desc    string
	all     bool
	project *Project
}

func (c choice) Title() string       { return c.title }
func (c choice) Description() string { return c.desc }
func (c choice) FilterValue() string { return c.title }

func choices(projects []Project) []list.Item {
	items := []list.Item{choice{
		title: "ALL PROJECTS",
		desc:  "Set up dependencies for all apps & scripts",
		all:   true,
	}}
	for i := range projects {
		p := &projects[i]
		desc := "Set up this script"
		if p.Kind == KindApp {
			desc = "Set up and launch this app"
		}
		items = append(items, choice{
			title:   fmt.Sprintf("%s: %s", p.Kind, p.Name),
			desc:    desc,
			project: p,
		})
	}
	return items
}

type pickerModel struct {
	list      list.Model
	selection *Selection
	quitting  bool
}

func newPicker(projects []Project) pickerModel {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(infoStyle.GetForeground()).BorderForeground(infoStyle.GetForeground())
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(accentStyle.GetForeground()).BorderForeground(infoStyle.GetForeground())

	l := list.New(choices(projects), d, 60, 20)
	l.Title = "Select a project to run, or choose to set up all projects"
	l.Styles.Title = headingStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	return pickerModel{list: l}
}

func (m pickerModel) Init() tea.Cmd { return nil }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if c, ok := m.list.SelectedItem().(choice); ok {
				m.selection = &Selection{All: c.all, Project: c.project}
			}
			m.quitting = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m pickerModel) View() string {
	if m.quitting {
		return ""
	}
	return m.list.View()
}

// Pick shows the interactive project picker on the terminal.
func Pick(projects []Project, in io.Reader, out io.Writer) (Selection, error) {
	p := tea.NewProgram(newPicker(projects), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return Selection{}, fmt.Errorf("picker: %w", err)
	}
	m, ok := final.(pickerModel)
	if !ok || m.selection == nil {
		return Selection{}, ErrCancelled
	}
	return *m.selection, nil
}

// Describe names a selection for log lines.
func (s Selection) Describe() string {
	if s.All {
		return "all projects"
	}
	return strings.TrimSpace(s.Project.Kind.String() + " " + s.Project.Name)
}
