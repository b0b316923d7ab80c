package app

import (
	"strconv"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/shopspring/decimal"

	"fundwise/cmd/fundwise/ui"
)

// Value-or-placeholder accessors. A successful comparison payload may
// omit any leaf; missing leaves render a placeholder token, never a
// crash or the word "nil".

func strOr(p *string, placeholder string) string {
	if p == nil || *p == "" {
		return placeholder
	}
	return *p
}

func intOr(p *int64, placeholder string) string {
	if p == nil {
		return placeholder
	}
	return strconv.FormatInt(*p, 10)
}

func decOr(p *decimal.Decimal, placeholder string) string {
	if p == nil {
		return placeholder
	}
	return p.String()
}

// fieldLabel renders a form label, highlighted when focused and marked
// when a required value is missing after a refused submit.
func fieldLabel(styles ui.Styles, label string, focused, missing bool) string {
	switch {
	case missing:
		return styles.LabelMissing.Render(label + " (required)")
	case focused:
		return styles.LabelFocused.Render(label)
	default:
		return styles.Label.Render(label)
	}
}

func newSpinner(styles ui.Styles) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.Spinner),
	)
}

// validateNumber is a textinput validator admitting only decimal
// number shapes while typing.
func validateNumber(s string) error {
	if s == "" || s == "." {
		return nil
	}
	_, err := strconv.ParseFloat(s, 64)
	return err
}
