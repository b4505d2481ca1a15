package ui

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/Mohsinsiddi/stewsale/internal/chain"
	tea "github.com/charmbracelet/bubbletea"
)

// RecordColumns is the column layout shared by the interactive browser and
// the plain table.
var RecordColumns = []Column{
	{Title: "BLOCK", Width: 6},
	{Title: "HASH", Width: 13},
	{Title: "FROM", Width: 13},
	{Title: "TO", Width: 13},
	{Title: "METHOD", Width: 22},
	{Title: "VALUE", Width: 12},
	{Title: "STATUS", Width: 8},
}

// RecordTable builds a table of mined transactions, newest last.
func RecordTable(records []chain.Record) *Table {
	t := NewTable(RecordColumns)
	for _, r := range records {
		t.AddRow(recordRow(r))
	}
	return t
}

func recordRow(r chain.Record) Row {
	to := "-"
	switch {
	case r.ContractAddress != nil:
		to = "new " + TruncateAddr(r.ContractAddress.Hex())
	case r.To != nil:
		to = TruncateAddr(r.To.Hex())
	}
	status := "ok"
	if !r.Success() {
		status = "reverted"
	}
	value := r.Value
	if wei, ok := new(big.Int).SetString(r.Value, 10); ok {
		value = chain.FormatUnits(wei, chain.EtherDecimals)
	}
	return Row{
		strconv.FormatUint(r.Block, 10),
		TruncateAddr(r.Hash.Hex()),
		TruncateAddr(r.From.Hex()),
		to,
		r.Method,
		value,
		status,
	}
}

// RecordDetail renders every field of one record.
func RecordDetail(r chain.Record) string {
	pairs := [][2]string{
		{"Hash", r.Hash.Hex()},
		{"Block", strconv.FormatUint(r.Block, 10)},
		{"From", r.From.Hex()},
	}
	if r.To != nil {
		pairs = append(pairs, [2]string{"To", r.To.Hex()})
	}
	if r.ContractAddress != nil {
		pairs = append(pairs, [2]string{"Contract", r.ContractAddress.Hex()})
	}
	pairs = append(pairs,
		[2]string{"Method", r.Method},
		[2]string{"Value (wei)", r.Value},
		[2]string{"Gas used", strconv.FormatUint(r.GasUsed, 10)},
		[2]string{"Status", Status(r.Success())},
	)
	if r.Reason != "" {
		pairs = append(pairs, [2]string{"Revert reason", r.Reason})
	}
	return KeyValueBlock("Transaction", pairs)
}

// txListModel is the bubbletea model for the interactive receipt browser.
type txListModel struct {
	title      string
	all        []chain.Record
	visible    []chain.Record
	failedOnly bool
	cursor     int
	detail     bool
	flash      string // brief feedback shown in hint bar
}

func newTxListModel(title string, records []chain.Record) txListModel {
	m := txListModel{title: title, all: records}
	m.refilter()
	return m
}

func (m *txListModel) refilter() {
	m.visible = nil
	for _, r := range m.all {
		if m.failedOnly && r.Success() {
			continue
		}
		m.visible = append(m.visible, r)
	}
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m txListModel) Init() tea.Cmd { return nil }

func (m txListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.flash = ""
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if !m.detail {
			return m, tea.Quit
		}
		m.detail = false

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}

	case "enter":
		if len(m.visible) > 0 {
			m.detail = !m.detail
		}

	case "f":
		m.failedOnly = !m.failedOnly
		m.detail = false
		m.refilter()

	case "c":
		if m.cursor < len(m.visible) {
			hash := m.visible[m.cursor].Hash.Hex()
			if err := copyToClipboard(hash); err == nil {
				m.flash = "Copied: " + hash[:10] + "…"
			} else {
				m.flash = "Copy failed: " + err.Error()
			}
		}
	}
	return m, nil
}

func (m txListModel) View() string {
	var sb strings.Builder

	title := m.title
	if m.failedOnly {
		title += StyleMeta.Render(" (reverted only)")
	}
	sb.WriteString(StyleTitle.Render(title))
	sb.WriteString("\n")

	switch {
	case len(m.visible) == 0:
		sb.WriteString(Meta("  no transactions"))
		sb.WriteString("\n")
	case m.detail:
		sb.WriteString(RecordDetail(m.visible[m.cursor]))
		sb.WriteString("\n")
	default:
		t := RecordTable(m.visible)
		t.SelIdx = m.cursor
		sb.WriteString(t.Render())
	}

	sb.WriteString("\n")
	if m.flash != "" {
		sb.WriteString(StyleSuccess.Render("  ✓ " + m.flash))
	} else {
		sb.WriteString(txControls())
	}
	sb.WriteString("\n")
	return sb.String()
}

// txControls renders the bottom control bar.
func txControls() string {
	sep := StyleMeta.Render("   ")
	var sb strings.Builder
	sb.WriteString(StyleMeta.Render("[ ↑↓ ] navigate"))
	sb.WriteString(sep)
	sb.WriteString(StyleInfo.Render("[ enter ]"))
	sb.WriteString(StyleMeta.Render(" details"))
	sb.WriteString(sep)
	sb.WriteString(StyleInfo.Render("[ f ]"))
	sb.WriteString(StyleMeta.Render(" reverted only"))
	sb.WriteString(sep)
	sb.WriteString(StyleWarning.Render("[ c ]"))
	sb.WriteString(StyleMeta.Render(" copy hash"))
	sb.WriteString(sep)
	sb.WriteString(StyleMeta.Render("[ q ] quit"))
	return sb.String()
}

// RunTxList starts the interactive receipt browser. Blocks until the user
// presses q. Uses the alt screen so the terminal is restored on exit.
func RunTxList(title string, records []chain.Record) error {
	p := tea.NewProgram(newTxListModel(title, records),
		tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// copyToClipboard writes text to the system clipboard.
func copyToClipboard(text string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("pbcopy")
	case "windows":
		cmd = exec.Command("clip")
	default:
		if _, err := exec.LookPath("wl-copy"); err == nil {
			cmd = exec.Command("wl-copy")
		} else {
			cmd = exec.Command("xclip", "-selection", "clipboard")
		}
	}
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("clipboard: %w", err)
	}
	_, _ = io.WriteString(stdin, text)
	stdin.Close()
	return cmd.Wait()
}
