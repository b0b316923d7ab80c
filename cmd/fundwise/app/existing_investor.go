package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"fundwise/cmd/fundwise/ui"
	"fundwise/internal/api"
)

const (
	eiFieldScheme = iota
	eiFieldNAV
	eiFieldUnits
	eiFieldDate
	eiFieldCount
)

const purchaseDateLayout = "2006-01-02"

// existingInvestorModel collects a held position and renders the
// service's comparison verdict. The scheme catalog is fetched once per
// mount; a fetch failure is logged and leaves the picker empty until
// the screen is remounted. Submit runs the same submit lifecycle as
// the new-investor form, with its own generation counter; the two
// forms share no state.
type existingInvestorModel struct {
	svc Service
	log *zap.Logger

	catalog  []api.SchemeEntry
	filtered []api.SchemeEntry
	filter   textinput.Model
	schemes  table.Model
	selected *api.SchemeEntry

	nav   textinput.Model
	units textinput.Model
	date  textinput.Model
	focus int
	spin  spinner.Model

	mount          int
	loadingCatalog bool

	submitting   bool
	seq          int
	result       *api.Comparison
	errText      string
	showRequired bool

	styles ui.Styles
}

func newExistingInvestorModel(svc Service, log *zap.Logger, styles ui.Styles, mount int) existingInvestorModel {
	filter := textinput.New()
	filter.Placeholder = "Search scheme..."
	filter.CharLimit = 80
	filter.Width = 36
	filter.Focus()

	schemes := table.New(
		table.WithColumns([]table.Column{
			{Title: "ID", Width: 8},
			{Title: "Scheme", Width: 44},
		}),
		table.WithHeight(5),
		table.WithFocused(true),
	)

	nav := textinput.New()
	nav.Placeholder = "40.50"
	nav.CharLimit = 12
	nav.Width = 16
	nav.Validate = validateNumber

	units := textinput.New()
	units.Placeholder = "120"
	units.CharLimit = 12
	units.Width = 16
	units.Validate = validateNumber

	date := textinput.New()
	date.Placeholder = "2023-01-15"
	date.CharLimit = 10
	date.Width = 16

	return existingInvestorModel{
		svc:            svc,
		log:            log,
		filter:         filter,
		schemes:        schemes,
		nav:            nav,
		units:          units,
		date:           date,
		spin:           newSpinner(styles),
		mount:          mount,
		loadingCatalog: true,
		styles:         styles,
	}
}

// fetchCatalogCmd loads the scheme catalog for this mount. The mount
// generation lets a remounted screen discard a fetch started by a
// previous incarnation.
func (m existingInvestorModel) fetchCatalogCmd() tea.Cmd {
	svc, mount := m.svc, m.mount
	return func() tea.Msg {
		entries, err := svc.Schemes(context.Background())
		return schemesLoadedMsg{mount: mount, entries: entries, err: err}
	}
}

func (m existingInvestorModel) Update(msg tea.Msg) (existingInvestorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case schemesLoadedMsg:
		if msg.mount != m.mount {
			return m, nil
		}
		m.loadingCatalog = false
		if msg.err != nil {
			// The form stays usable; scheme selection needs a remount.
			m.log.Warn("failed to fetch scheme catalog", zap.Error(msg.err))
			return m, nil
		}
		m.catalog = msg.entries
		m.applyFilter()
		return m, nil

	case comparisonDoneMsg:
		if msg.mount != m.mount || msg.seq != m.seq {
			// Superseded submit, or one issued by a discarded mount.
			return m, nil
		}
		m.submitting = false
		m.result = msg.result
		m.errText = msg.errText
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.submitting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m existingInvestorModel) handleKey(msg tea.KeyMsg) (existingInvestorModel, tea.Cmd) {
	switch msg.String() {
	case "tab":
		return m.moveFocus(1), nil
	case "shift+tab":
		return m.moveFocus(-1), nil
	case "up", "down":
		if m.focus == eiFieldScheme {
			// Arrow keys drive the catalog table while picking.
			var cmd tea.Cmd
			m.schemes, cmd = m.schemes.Update(msg)
			return m, cmd
		}
		if msg.String() == "down" {
			return m.moveFocus(1), nil
		}
		return m.moveFocus(-1), nil
	case "enter":
		if m.focus == eiFieldScheme {
			return m.selectScheme(), nil
		}
		if m.focus == eiFieldDate {
			return m.submit()
		}
		return m.moveFocus(1), nil
	}
	return m.updateFocused(msg)
}

func (m existingInvestorModel) updateFocused(msg tea.Msg) (existingInvestorModel, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case eiFieldScheme:
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
	case eiFieldNAV:
		m.nav, cmd = m.nav.Update(msg)
	case eiFieldUnits:
		m.units, cmd = m.units.Update(msg)
	case eiFieldDate:
		m.date, cmd = m.date.Update(msg)
	}
	return m, cmd
}

func (m existingInvestorModel) moveFocus(delta int) existingInvestorModel {
	m.filter.Blur()
	m.nav.Blur()
	m.units.Blur()
	m.date.Blur()

	m.focus = (m.focus + delta + eiFieldCount) % eiFieldCount
	switch m.focus {
	case eiFieldScheme:
		m.filter.Focus()
	case eiFieldNAV:
		m.nav.Focus()
	case eiFieldUnits:
		m.units.Focus()
	case eiFieldDate:
		m.date.Focus()
	}
	return m
}

// applyFilter narrows the catalog to entries whose name or ID contains
// the filter text, case-insensitively.
func (m *existingInvestorModel) applyFilter() {
	query := strings.ToLower(strings.TrimSpace(m.filter.Value()))

	m.filtered = m.filtered[:0]
	for _, e := range m.catalog {
		if query != "" {
			name := strings.ToLower(e.Scheme)
			id := strconv.FormatInt(e.SchemeID, 10)
			if !strings.Contains(name, query) && !strings.Contains(id, query) {
				continue
			}
		}
		m.filtered = append(m.filtered, e)
	}

	rows := make([]table.Row, 0, len(m.filtered))
	for _, e := range m.filtered {
		rows = append(rows, table.Row{strconv.FormatInt(e.SchemeID, 10), e.Scheme})
	}
	m.schemes.SetRows(rows)
	if m.schemes.Cursor() >= len(rows) {
		m.schemes.SetCursor(0)
	}
}

// selectScheme pins the highlighted catalog entry as the held scheme.
// Selection is only possible from the fetched catalog.
func (m existingInvestorModel) selectScheme() existingInvestorModel {
	idx := m.schemes.Cursor()
	if idx < 0 || idx >= len(m.filtered) {
		return m
	}
	entry := m.filtered[idx]
	m.selected = &entry
	return m.moveFocus(1)
}

// submit validates the four mandatory fields and dispatches, clearing
// the previous result and error synchronously first.
func (m existingInvestorModel) submit() (existingInvestorModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	nav, navErr := strconv.ParseFloat(strings.TrimSpace(m.nav.Value()), 64)
	units, unitsErr := strconv.ParseFloat(strings.TrimSpace(m.units.Value()), 64)
	_, dateErr := time.Parse(purchaseDateLayout, strings.TrimSpace(m.date.Value()))

	if m.selected == nil || navErr != nil || unitsErr != nil || dateErr != nil {
		m.showRequired = true
		return m, nil
	}

	position := api.HeldPosition{
		SchemeID:      m.selected.SchemeID,
		NAVAtPurchase: nav,
		UnitsHeld:     units,
		PurchaseDate:  strings.TrimSpace(m.date.Value()),
	}

	m.seq++
	m.submitting = true
	m.result = nil
	m.errText = ""
	m.showRequired = false
	return m, tea.Batch(m.spin.Tick, m.submitCmd(m.seq, position))
}

func (m existingInvestorModel) submitCmd(seq int, position api.HeldPosition) tea.Cmd {
	svc, mount := m.svc, m.mount
	return func() tea.Msg {
		result, err := svc.RecommendExisting(context.Background(), position)
		if err != nil {
			var ce *api.ComparisonError
			if errors.As(err, &ce) {
				return comparisonDoneMsg{mount: mount, seq: seq, errText: ce.Message}
			}
			return comparisonDoneMsg{mount: mount, seq: seq, errText: msgFetchRecommendation}
		}
		return comparisonDoneMsg{mount: mount, seq: seq, result: result}
	}
}

// comparisonRows flattens a comparison into label/value pairs, reading
// every leaf through a placeholder accessor.
func comparisonRows(c *api.Comparison) [][2]string {
	yf := c.YourFund
	if yf == nil {
		yf = &api.YourFund{}
	}
	rf := c.RecommendedFund
	if rf == nil {
		rf = &api.RecommendedFund{}
	}

	rows := [][2]string{
		{"Current Fund ID", intOr(yf.SchemeID, "-")},
		{"Scheme Name", strOr(yf.Scheme, "-")},
		{"NAV at Purchase", decOr(yf.NAVAtPurchase, "-")},
		{"Latest NAV", decOr(yf.CurrentNAV, "-")},
	}
	if yf.UnitsHeld != nil {
		rows = append(rows, [2]string{"Units Held", yf.UnitsHeld.String()})
	}
	if yf.CurrentValue != nil {
		rows = append(rows, [2]string{"Current Value", yf.CurrentValue.String()})
	}
	if yf.CAGR != nil {
		rows = append(rows, [2]string{"CAGR (%)", yf.CAGR.String()})
	}
	rows = append(rows,
		[2]string{"Top Similar Fund", strOr(rf.Scheme, "N/A")},
		[2]string{"Recommendation", strOr(c.Suggestion, "-")},
		[2]string{"Reason", strOr(c.Reason, "-")},
	)
	return rows
}

func (m existingInvestorModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Title.Render("Existing Investor Analysis") + "\n")

	sb.WriteString(fieldLabel(m.styles, "Scheme", m.focus == eiFieldScheme, m.showRequired && m.selected == nil) + "\n")
	if m.selected != nil {
		sb.WriteString(m.styles.Success.Render(fmt.Sprintf("✓ %s (ID: %d)", m.selected.Scheme, m.selected.SchemeID)) + "\n")
	}
	if m.focus == eiFieldScheme {
		box := m.styles.InputFocused
		sb.WriteString(box.Render(m.filter.View()) + "\n")
		switch {
		case m.loadingCatalog:
			sb.WriteString(m.styles.Muted.Render("loading scheme catalog...") + "\n")
		case len(m.catalog) == 0:
			sb.WriteString(m.styles.Warning.Render("scheme catalog unavailable") + "\n")
		default:
			sb.WriteString(m.schemes.View() + "\n")
		}
	}

	fields := []struct {
		label string
		input *textinput.Model
		field int
	}{
		{"NAV at Purchase", &m.nav, eiFieldNAV},
		{"Units Held", &m.units, eiFieldUnits},
		{"Purchase Date (YYYY-MM-DD)", &m.date, eiFieldDate},
	}
	for _, f := range fields {
		missing := m.showRequired && f.input.Value() == ""
		sb.WriteString(fieldLabel(m.styles, f.label, m.focus == f.field, missing) + "\n")
		box := m.styles.InputBox
		if m.focus == f.field {
			box = m.styles.InputFocused
		}
		sb.WriteString(box.Render(f.input.View()) + "\n")
	}

	if m.submitting {
		sb.WriteString("\n" + m.spin.View() + m.styles.Muted.Render(" analyzing holding...") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n" + m.styles.Error.Render(m.errText) + "\n")
	}

	if m.result != nil {
		tbl := ui.NewKeyValueTable("Analysis Result")
		for _, row := range comparisonRows(m.result) {
			tbl.Add(row[0], row[1])
		}
		sb.WriteString("\n" + tbl.View(m.styles))
	}

	return sb.String()
}
