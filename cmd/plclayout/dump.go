package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"

	"github.com/wippyai/plcmem/layout"
	"github.com/wippyai/plcmem/loader"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	descriptorStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#87CEEB"))
)

// DumpCmd prints field tables.
type DumpCmd struct {
	File  string `arg:"" help:"Declaration source file" type:"existingfile"`
	Block string `short:"b" help:"Only dump this data block"`
	All   bool   `short:"a" help:"Include unnamed filler and guard fields"`
	Plain bool   `help:"Plain output even on a terminal" env:"PLCLAYOUT_PLAIN"`
}

func (c *DumpCmd) Run(ctx *kong.Context) error {
	reg, err := loader.LoadFile(c.File)
	if err != nil {
		return err
	}

	styled := !c.Plain && term.IsTerminal(int(os.Stdout.Fd()))

	if c.Block != "" {
		s, err := reg.Block(c.Block)
		if err != nil {
			return err
		}
		c.print(ctx, "DATA_BLOCK "+c.Block, s, styled)
		return nil
	}

	for _, name := range reg.Types() {
		s, err := reg.UDT(name)
		if err != nil {
			return err
		}
		c.print(ctx, "TYPE "+name, s, styled)
	}
	for _, name := range reg.Blocks() {
		s, err := reg.Block(name)
		if err != nil {
			return err
		}
		c.print(ctx, "DATA_BLOCK "+name, s, styled)
	}
	return nil
}

func (c *DumpCmd) print(ctx *kong.Context, title string, s *layout.Struct, styled bool) {
	rows := fieldRows(s, c.All)

	t := table.New().Headers("OFFSET", "STORAGE", "SIZE", "TYPE", "NAME").Rows(rows...)
	if styled {
		title = headerStyle.Render(title)
		t = t.Border(lipgloss.RoundedBorder()).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return cellStyle.Bold(true)
				case rows[row][1] != rows[row][0]:
					return descriptorStyle
				default:
					return cellStyle
				}
			})
	} else {
		t = t.Border(lipgloss.ASCIIBorder()).
			StyleFunc(func(row, col int) lipgloss.Style { return cellStyle })
	}

	fmt.Fprintf(ctx.Stdout, "%s  %d bytes\n%s\n\n", title, s.Size(), t.Render())
}

// fieldRows renders one table row per field. Descriptors show the offset of
// their storage in the second column.
func fieldRows(s *layout.Struct, all bool) [][]string {
	var rows [][]string
	for _, f := range s.Fields() {
		name := f.Name()
		if name == "" {
			if !all {
				continue
			}
			name = "<" + f.DataType().Kind().String() + ">"
		}
		rows = append(rows, []string{
			f.Offset().String(),
			f.FinalOffset().String(),
			sizeString(f),
			f.DataType().String(),
			name,
		})
	}
	return rows
}

func sizeString(f *layout.Field) string {
	switch bits := f.BitSize(); {
	case bits < 0:
		return "?"
	case bits == 1:
		return "1 bit"
	default:
		return fmt.Sprintf("%d B", f.ByteSize())
	}
}

// FingerprintCmd prints layout fingerprints.
type FingerprintCmd struct {
	File string `arg:"" help:"Declaration source file" type:"existingfile"`
}

func (c *FingerprintCmd) Run(ctx *kong.Context) error {
	reg, err := loader.LoadFile(c.File)
	if err != nil {
		return err
	}

	for _, name := range reg.Types() {
		s, err := reg.UDT(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "%s  %-6d TYPE %s\n", layout.Fingerprint(s), s.Size(), name)
	}
	for _, name := range reg.Blocks() {
		s, err := reg.Block(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "%s  %-6d DATA_BLOCK %s\n", layout.Fingerprint(s), s.Size(), name)
	}
	return nil
}

// GetCmd reads one field of a data block initialized from its declaration.
type GetCmd struct {
	File  string `arg:"" help:"Declaration source file" type:"existingfile"`
	Block string `arg:"" help:"Data block name"`
	Field string `arg:"" help:"Field name, e.g. motor.speed or flags[3]"`
	Raw   bool   `help:"Print the raw bytes as hex"`
}

func (c *GetCmd) Run(ctx *kong.Context) error {
	reg, err := loader.LoadFile(c.File)
	if err != nil {
		return err
	}
	inst, err := reg.NewInstance(c.Block)
	if err != nil {
		return err
	}

	if c.Raw {
		data, err := inst.GetFieldDataByName(c.Field)
		if err != nil {
			return err
		}
		fmt.Fprintf(ctx.Stdout, "% x\n", data)
		return nil
	}

	v, err := inst.ValueByName(c.Field)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Stdout, formatValue(v))
	return nil
}
