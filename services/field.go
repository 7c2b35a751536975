package services

import (
	"github.com/playwright-community/playwright-go"
)

// WidgetKind tags the structurally distinct ways a form control shows up in
// markup. The injector and the discovery passes both dispatch on this tag.
type WidgetKind string

const (
	WidgetText            WidgetKind = "text"
	WidgetTextarea        WidgetKind = "textarea"
	WidgetSelect          WidgetKind = "select"
	WidgetNativeRadioGroup WidgetKind = "native-radio-group"
	WidgetAriaRadioGroup  WidgetKind = "aria-radio-group"
	WidgetAriaListbox     WidgetKind = "aria-listbox"
	WidgetDivDropdown     WidgetKind = "div-dropdown"
)

// Option is one selectable choice of a choice-type widget.
type Option struct {
	Value string
	Text  string
}

// Display returns the option's user-visible text, falling back to the value.
func (o Option) Display() string {
	if o.Text != "" {
		return o.Text
	}
	return o.Value
}

// Field is one logical form question, normalized across widget families. A
// widget spanning many DOM nodes (a radio group) still yields exactly one
// Field; Group holds the member controls, index-aligned with Options.
type Field struct {
	Element     playwright.Locator
	Label       string
	Placeholder string
	Kind        WidgetKind
	InputType   string // raw type attribute for native inputs
	Options     []Option
	Group       []playwright.Locator
	ListboxID   string // aria-controls target resolved at discovery, if any
}

// IsTextLike reports whether the field takes free text.
func (f *Field) IsTextLike() bool {
	if f.Kind == WidgetTextarea {
		return true
	}
	if f.Kind != WidgetText {
		return false
	}
	switch f.InputType {
	case "", "text", "email", "url":
		return true
	}
	return false
}

// IsChoice reports whether the field is answered by picking one option.
func (f *Field) IsChoice() bool {
	switch f.Kind {
	case WidgetSelect, WidgetNativeRadioGroup, WidgetAriaRadioGroup, WidgetAriaListbox, WidgetDivDropdown:
		return true
	}
	return false
}

// EffectiveLabel is the text used for classification and prompts: the
// resolved label, else the placeholder.
func (f *Field) EffectiveLabel() string {
	if l := trimText(f.Label); l != "" {
		return l
	}
	return trimText(f.Placeholder)
}
