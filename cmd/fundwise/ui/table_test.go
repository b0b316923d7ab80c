package ui

import (
	"strings"
	"testing"
)

func TestResultTable_EmptyRendersNothing(t *testing.T) {
	tbl := NewResultTable("Funds", "#", "Name")
	if got := tbl.View(DefaultStyles()); got != "" {
		t.Errorf("empty table should render nothing, got %q", got)
	}
}

func TestResultTable_ContainsCells(t *testing.T) {
	tbl := NewResultTable("Funds", "#", "Scheme Name (ID)", "NAV", "Units")
	tbl.AddRow("1", "Axis Bluechip (ID: 101)", "45.68", "1094.9")

	out := tbl.View(NewStyles(LightTheme()))
	for _, want := range []string{"Axis Bluechip (ID: 101)", "45.68", "1094.9", "Funds"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}

func TestKeyValueTable_AlignsPairs(t *testing.T) {
	tbl := NewKeyValueTable("Analysis Result")
	tbl.Add("Scheme Name", "Axis Bluechip")
	tbl.Add("Latest NAV", "45.68")

	out := tbl.View(NewStyles(LightTheme()))
	if !strings.Contains(out, "Scheme Name") || !strings.Contains(out, "45.68") {
		t.Errorf("key/value table missing content:\n%s", out)
	}
}
