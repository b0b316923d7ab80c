package app

import "fundwise/cmd/fundwise/ui"

// picker is a cycling selector over a fixed vocabulary. The leading
// empty entry means "nothing selected"; for optional pickers that is a
// valid choice ("no filter"), for required ones submit refuses it.
type picker struct {
	options  []string
	index    int
	optional bool
}

func newPicker(optional bool, options []string) picker {
	return picker{
		options:  append([]string{""}, options...),
		optional: optional,
	}
}

func (p *picker) next() {
	p.index = (p.index + 1) % len(p.options)
}

func (p *picker) prev() {
	p.index--
	if p.index < 0 {
		p.index = len(p.options) - 1
	}
}

// value returns the selected option, "" when nothing is selected.
func (p picker) value() string {
	return p.options[p.index]
}

func (p picker) view(styles ui.Styles, focused bool) string {
	label := p.value()
	if label == "" {
		if p.optional {
			label = "(any)"
		} else {
			label = "-- select --"
		}
	}
	box := styles.InputBox
	if focused {
		box = styles.InputFocused
	}
	return box.Render("◂ " + label + " ▸")
}
