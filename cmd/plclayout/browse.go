package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/plcmem/instance"
	"github.com/wippyai/plcmem/layout"
	"github.com/wippyai/plcmem/loader"
	"github.com/wippyai/plcmem/memory"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// BrowseCmd opens the interactive data block browser.
type BrowseCmd struct {
	File      string `arg:"" help:"Declaration source file" type:"existingfile"`
	Block     string `arg:"" optional:"" help:"Data block name (default: first declared)"`
	Linear    bool   `help:"Store the data block in a WebAssembly linear memory"`
	PageLimit uint32 `name:"page-limit" help:"Linear memory limit in 64KiB pages (0 = no limit)" default:"0"`
}

func (c *BrowseCmd) Run(_ *kong.Context) error {
	ctx := context.Background()

	reg, err := loader.LoadFile(c.File)
	if err != nil {
		return err
	}

	block := c.Block
	if block == "" {
		blocks := reg.Blocks()
		if len(blocks) == 0 {
			return fmt.Errorf("%s declares no data blocks", c.File)
		}
		block = blocks[0]
	}

	s, err := reg.Block(block)
	if err != nil {
		return err
	}

	var opts []instance.Option
	if c.Linear {
		mem, err := memory.NewLinear(ctx, s.Size(), &memory.LinearConfig{MemoryLimitPages: c.PageLimit})
		if err != nil {
			return err
		}
		defer mem.Close(ctx)
		opts = append(opts, instance.WithMemory(mem))
	}

	inst, err := reg.NewInstance(block, opts...)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newBrowseModel(c.File, inst), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

type browseState int

const (
	stateSelectField browseState = iota
	stateEditValue
)

type browseModel struct {
	err      error
	inst     *instance.Instance
	filename string
	message  string
	fields   []*layout.Field
	input    textinput.Model
	selected int
	offset   int
	height   int
	state    browseState
}

func newBrowseModel(filename string, inst *instance.Instance) *browseModel {
	var fields []*layout.Field
	for _, f := range inst.Struct().Fields() {
		if f.Name() != "" {
			fields = append(fields, f)
		}
	}
	return &browseModel{
		inst:     inst,
		filename: filename,
		fields:   fields,
		height:   20,
		state:    stateSelectField,
	}
}

func (m *browseModel) Init() tea.Cmd {
	return nil
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// title, blank, help lines
		m.height = max(msg.Height-6, 1)
		m.scroll()

	case tea.KeyMsg:
		if m.state == stateEditValue {
			return m.updateEdit(msg)
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.selected < len(m.fields)-1 {
				m.selected++
			}

		case "pgup":
			m.selected = max(m.selected-m.height, 0)

		case "pgdown":
			m.selected = min(m.selected+m.height, len(m.fields)-1)

		case "enter":
			m.startEdit()
		}
		m.scroll()
	}

	return m, nil
}

func (m *browseModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.state = stateSelectField
		return m, nil

	case "enter":
		m.commit()
		m.state = stateSelectField
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *browseModel) scroll() {
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+m.height {
		m.offset = m.selected - m.height + 1
	}
}

func (m *browseModel) startEdit() {
	if len(m.fields) == 0 {
		return
	}
	f := m.fields[m.selected]
	if f.IsCompound() {
		m.err = nil
		m.message = f.Name() + " is " + f.DataType().Kind().String() + ", edit its members"
		return
	}

	ti := textinput.New()
	ti.Prompt = f.Name() + " := "
	ti.Placeholder = f.DataType().String()
	ti.Width = 40
	if v, err := m.inst.Value(f); err == nil {
		ti.SetValue(editText(v))
	}
	ti.Focus()

	m.input = ti
	m.message = ""
	m.err = nil
	m.state = stateEditValue
}

func (m *browseModel) commit() {
	f := m.fields[m.selected]
	v, err := parseValue(f.DataType(), m.input.Value())
	if err != nil {
		m.err = err
		return
	}
	if err := m.inst.SetValue(f, v); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.message = f.Name() + " updated"
}

// editText renders v the way parseValue reads it back.
func editText(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return formatValue(v)
}

func (m *browseModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.inst.Name()))
	b.WriteString(fmt.Sprintf(" %s  %d bytes  %s\n\n", m.filename, m.inst.Struct().Size(), m.inst.Memory()))

	end := min(m.offset+m.height, len(m.fields))
	for i := m.offset; i < end; i++ {
		line := m.formatField(m.fields[i])
		if i == m.selected {
			b.WriteString(selectedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.state == stateEditValue:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter store • esc cancel"))
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • q quit"))
	default:
		if m.message != "" {
			b.WriteString(resultStyle.Render(m.message))
			b.WriteString("\n")
		}
		b.WriteString(helpStyle.Render("↑/↓ select • enter edit • q quit"))
	}

	return b.String()
}

func (m *browseModel) formatField(f *layout.Field) string {
	value := ""
	if !f.IsCompound() || f.DataType().Kind() == layout.KindArray {
		v, err := m.inst.Value(f)
		if err != nil {
			value = errorStyle.Render(err.Error())
		} else {
			value = resultStyle.Render(formatValue(v))
		}
	}
	return fmt.Sprintf("%-8s %s %s %s",
		f.FinalOffset(),
		nameStyle.Render(f.Name()),
		typeStyle.Render(f.DataType().String()),
		value)
}
