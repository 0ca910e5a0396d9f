package view

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ozank/kapici/internal/importer"
	"github.com/ozank/kapici/internal/order"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateFilePick importState = iota
	importStateImporting
	importStateResult
)

type ImportModel struct {
	CommonModel
	orderService  *order.Service
	importService *importer.Service

	state      importState
	filePicker filepicker.Model

	status string
	err    error
}

func NewImportModel(orderSvc *order.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		orderService:  orderSvc,
		importService: impSvc,
		filePicker:    fp,
	}
}

func (m ImportModel) Title() string { return "Import Ledger" }

func (m ImportModel) ShortHelp() string {
	return "Esc: back | Enter: select file"
}

func (m ImportModel) Init() tea.Cmd {
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			if m.state == importStateResult {
				m.state = importStateFilePick
				m.err = nil
				m.status = ""

				return m, m.filePicker.Init()
			}

			return m, Back
		}

	case importResultMsg:
		m.state = importStateResult
		m.err = msg.err

		if msg.err == nil {
			m.status = fmt.Sprintf("Imported %d historical orders for %d apartments.",
				msg.imported, msg.apartments)
		}

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if ok, path := m.filePicker.DidSelectFile(msg); ok {
		m.state = importStateImporting
		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render("Importing ledger...")

	case importStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(2).Render(
				fmt.Sprintf("Error: %v\n\nEsc to try another file", m.err))
		}

		return lipgloss.NewStyle().Padding(2).Render(m.status + "\n\nEsc to go back")
	}

	return lipgloss.NewStyle().Padding(1).Render(
		"Pick a legacy ledger CSV export\n\n" + m.filePicker.View(),
	)
}

// Messages

type importResultMsg struct {
	imported   int
	apartments int
	err        error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	return func() tea.Msg {
		file, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer file.Close()

		params, err := m.importService.Import(importer.SourceLedger, file)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		orders, err := m.orderService.RestoreBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		apartments := make(map[string]struct{})
		for _, o := range orders {
			apartments[o.ApartmentNumber] = struct{}{}
		}

		return importResultMsg{imported: len(orders), apartments: len(apartments)}
	}
}
