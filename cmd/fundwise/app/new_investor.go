package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"fundwise/cmd/fundwise/ui"
	"fundwise/internal/api"
)

const (
	niFieldBudget = iota
	niFieldRisk
	niFieldAssetClass
	niFieldMarketCap
	niFieldCount
)

// newInvestorModel collects a profile and renders the ranked fund list
// the service returns. States run Idle → Submitting → {Success,
// Failure} and back to Idle on the next submit; a submit clears the
// previous result and error before dispatch so stale data is never
// shown alongside a pending request. gen is the incarnation allocated
// by the main screen; a resolution from a form discarded by a tab
// switch is dropped even when its seq collides with this one's.
type newInvestorModel struct {
	svc Service
	gen int

	budget     textinput.Model
	risk       picker
	assetClass picker
	marketCap  picker
	focus      int
	spin       spinner.Model

	submitting   bool
	seq          int
	funds        []api.Fund
	errText      string
	showRequired bool

	styles ui.Styles
}

func newNewInvestorModel(svc Service, styles ui.Styles, gen int) newInvestorModel {
	budget := textinput.New()
	budget.Placeholder = "50000"
	budget.CharLimit = 12
	budget.Width = 16
	budget.Validate = validateNumber
	budget.Focus()

	return newInvestorModel{
		svc:        svc,
		gen:        gen,
		budget:     budget,
		risk:       newPicker(false, api.RiskLevels),
		assetClass: newPicker(true, api.AssetClasses),
		marketCap:  newPicker(true, api.MarketCaps),
		spin:       newSpinner(styles),
		styles:     styles,
	}
}

func (m newInvestorModel) Update(msg tea.Msg) (newInvestorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case fundsDoneMsg:
		if msg.gen != m.gen || msg.seq != m.seq {
			// A later submit superseded this response, or it belongs
			// to an incarnation a tab switch already discarded.
			return m, nil
		}
		m.submitting = false
		m.funds = msg.funds
		m.errText = msg.errText
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			return m.moveFocus(-1), nil
		case "left":
			m.cyclePicker(-1)
			return m, nil
		case "right":
			m.cyclePicker(1)
			return m, nil
		case "enter":
			return m.submit()
		}

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.focus == niFieldBudget {
		var cmd tea.Cmd
		m.budget, cmd = m.budget.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m newInvestorModel) moveFocus(delta int) newInvestorModel {
	m.budget.Blur()
	m.focus = (m.focus + delta + niFieldCount) % niFieldCount
	if m.focus == niFieldBudget {
		m.budget.Focus()
	}
	return m
}

func (m *newInvestorModel) cyclePicker(delta int) {
	var p *picker
	switch m.focus {
	case niFieldRisk:
		p = &m.risk
	case niFieldAssetClass:
		p = &m.assetClass
	case niFieldMarketCap:
		p = &m.marketCap
	default:
		return
	}
	if delta > 0 {
		p.next()
	} else {
		p.prev()
	}
}

// submit validates the mandatory fields and dispatches. Previous
// results and errors are cleared synchronously before the request goes
// out.
func (m newInvestorModel) submit() (newInvestorModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	budget, err := strconv.ParseFloat(strings.TrimSpace(m.budget.Value()), 64)
	if err != nil || budget <= 0 || m.risk.value() == "" {
		m.showRequired = true
		return m, nil
	}

	profile := api.NewInvestorProfile{
		Budget:     budget,
		RiskLevel:  m.risk.value(),
		AssetClass: m.assetClass.value(),
		MarketCap:  m.marketCap.value(),
	}

	m.seq++
	m.submitting = true
	m.funds = nil
	m.errText = ""
	m.showRequired = false
	return m, tea.Batch(m.spin.Tick, m.submitCmd(m.seq, profile))
}

func (m newInvestorModel) submitCmd(seq int, profile api.NewInvestorProfile) tea.Cmd {
	svc, gen := m.svc, m.gen
	return func() tea.Msg {
		funds, err := svc.RecommendNew(context.Background(), profile)
		if err != nil {
			var noMatch *api.NoMatchError
			if errors.As(err, &noMatch) {
				return fundsDoneMsg{gen: gen, seq: seq, errText: noMatch.Message}
			}
			return fundsDoneMsg{gen: gen, seq: seq, errText: msgFetchRecommendations}
		}
		return fundsDoneMsg{gen: gen, seq: seq, funds: funds}
	}
}

// resultRows builds the display rows for the fund list: rank, name with
// scheme ID, NAV fixed to two decimals, purchasable units as returned.
func (m newInvestorModel) resultRows() [][]string {
	rows := make([][]string, 0, len(m.funds))
	for i, f := range m.funds {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("%s (ID: %d)", f.SchemeName, f.SchemeID),
			f.NAV.StringFixed(2),
			f.UnitsPurchasable.String(),
		})
	}
	return rows
}

func (m newInvestorModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("New Investor Recommendation") + "\n")

	sb.WriteString(fieldLabel(m.styles, "Budget", m.focus == niFieldBudget, m.showRequired && m.budget.Value() == "") + "\n")
	box := m.styles.InputBox
	if m.focus == niFieldBudget {
		box = m.styles.InputFocused
	}
	sb.WriteString(box.Render(m.budget.View()) + "\n")

	sb.WriteString(fieldLabel(m.styles, "Risk Level", m.focus == niFieldRisk, m.showRequired && m.risk.value() == "") + "\n")
	sb.WriteString(m.risk.view(m.styles, m.focus == niFieldRisk) + "\n")

	sb.WriteString(fieldLabel(m.styles, "Asset Class", m.focus == niFieldAssetClass, false) + "\n")
	sb.WriteString(m.assetClass.view(m.styles, m.focus == niFieldAssetClass) + "\n")

	sb.WriteString(fieldLabel(m.styles, "Market Cap", m.focus == niFieldMarketCap, false) + "\n")
	sb.WriteString(m.marketCap.view(m.styles, m.focus == niFieldMarketCap) + "\n")

	if m.submitting {
		sb.WriteString("\n" + m.spin.View() + m.styles.Muted.Render(" fetching recommendations...") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n" + m.styles.Error.Render(m.errText) + "\n")
	}

	if len(m.funds) > 0 {
		tbl := ui.NewResultTable("Recommended Funds", "#", "Scheme Name (ID)", "NAV", "Units")
		for _, row := range m.resultRows() {
			tbl.AddRow(row...)
		}
		sb.WriteString("\n" + tbl.View(m.styles))
	}

	return sb.String()
}
