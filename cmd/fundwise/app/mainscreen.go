package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fundwise/cmd/fundwise/ui"
)

type mainTab int

const (
	tabNewInvestor mainTab = iota
	tabExistingInvestor
)

// mainModel hosts the two investor forms behind a tab bar. Switching
// tabs recreates the target form, so returning to a tab always shows a
// clean slate. Every form incarnation gets a fresh generation from the
// shared counter, so neither a catalog fetch nor a submit started by a
// discarded form can land in its replacement.
type mainModel struct {
	tab  mainTab
	svc  Service
	log  *zap.Logger
	gens *genCounter

	newForm  newInvestorModel
	existing existingInvestorModel

	styles ui.Styles
}

func newMainModel(svc Service, log *zap.Logger, styles ui.Styles, gens *genCounter) mainModel {
	return mainModel{
		svc:     svc,
		log:     log,
		gens:    gens,
		newForm: newNewInvestorModel(svc, styles, gens.next()),
		styles:  styles,
	}
}

// switchTab mounts a fresh form for the target tab under a new
// generation. Entering the existing-investor tab kicks off a catalog
// fetch.
func (m mainModel) switchTab(to mainTab) (mainModel, tea.Cmd) {
	if to == m.tab {
		return m, nil
	}
	m.tab = to
	switch to {
	case tabNewInvestor:
		m.newForm = newNewInvestorModel(m.svc, m.styles, m.gens.next())
		return m, nil
	default:
		m.existing = newExistingInvestorModel(m.svc, m.log, m.styles, m.gens.next())
		return m, m.existing.fetchCatalogCmd()
	}
}

func (m mainModel) Update(msg tea.Msg) (mainModel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+t" {
			if m.tab == tabNewInvestor {
				return m.switchTab(tabExistingInvestor)
			}
			return m.switchTab(tabNewInvestor)
		}

	// Async resolutions are routed to the form that owns them even if
	// the user has since switched tabs; generation guards inside the
	// forms decide whether they still apply.
	case fundsDoneMsg:
		m.newForm, cmd = m.newForm.Update(msg)
		return m, cmd
	case schemesLoadedMsg, comparisonDoneMsg:
		m.existing, cmd = m.existing.Update(msg)
		return m, cmd
	}

	switch m.tab {
	case tabNewInvestor:
		m.newForm, cmd = m.newForm.Update(msg)
	default:
		m.existing, cmd = m.existing.Update(msg)
	}
	return m, cmd
}

func (m mainModel) View() string {
	var sb strings.Builder

	tabs := []struct {
		label string
		tab   mainTab
	}{
		{"New Investor", tabNewInvestor},
		{"Existing Investor", tabExistingInvestor},
	}
	parts := make([]string, 0, len(tabs))
	for _, t := range tabs {
		style := m.styles.Tab
		if t.tab == m.tab {
			style = m.styles.TabActive
		}
		parts = append(parts, style.Render(t.label))
	}
	sb.WriteString(strings.Join(parts, " "))
	sb.WriteString("\n\n")

	switch m.tab {
	case tabNewInvestor:
		sb.WriteString(m.newForm.View())
	default:
		sb.WriteString(m.existing.View())
	}
	return sb.String()
}
