package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Fixed settle delay after the open gesture on a script-driven dropdown.
// Many widgets mount their option list asynchronously with no signal to
// await. TODO: poll for the option list with a bounded timeout instead.
const dropdownOpenDelayMS = 320

// FieldWriter writes values into discovered fields and reads their live
// state. The orchestrator depends on this interface so fill passes can be
// tested without a browser.
type FieldWriter interface {
	SetValue(field *Field, value string) error
	CurrentValue(field *Field) string
	MarkProvenance(field *Field, source string)
}

// ValueInjector drives page widgets through playwright, firing the synthetic
// event sequence each widget family expects.
type ValueInjector struct {
	page playwright.Page
}

func NewValueInjector(page playwright.Page) *ValueInjector {
	return &ValueInjector{page: page}
}

// SetValue selects or types value into the field using the widget-appropriate
// action. Choice widgets pick the best fuzzy-matched option; a best score
// under the family's acceptance threshold leaves the field unset.
func (inj *ValueInjector) SetValue(field *Field, value string) error {
	v := strings.TrimSpace(value)
	if field == nil || field.Element == nil || v == "" {
		return nil
	}
	switch field.Kind {
	case WidgetText, WidgetTextarea:
		return inj.setTextValue(field, v)
	case WidgetSelect:
		return inj.setSelectValue(field, v)
	case WidgetNativeRadioGroup:
		return inj.setNativeRadioValue(field, v)
	case WidgetAriaRadioGroup:
		return inj.setAriaRadioValue(field, v)
	case WidgetAriaListbox, WidgetDivDropdown:
		return inj.setDropdownValue(field, v)
	}
	return nil
}

const assignTextJS = `(el, v) => {
	el.value = v;
	el.dispatchEvent(new Event('input', { bubbles: true }));
	el.dispatchEvent(new Event('change', { bubbles: true }));
}`

func (inj *ValueInjector) setTextValue(field *Field, v string) error {
	if field.InputType == "number" {
		v = digitsOnly(v)
		if v == "" {
			return nil
		}
	}
	// Assignment can throw for invalid native input states ("value cannot be
	// parsed"); that is expected and leaves the field unset.
	if _, err := field.Element.Evaluate(assignTextJS, v); err != nil {
		log.Printf("⚠ Text assignment failed: %v", err)
	}
	return nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

const assignSelectJS = `(el, v) => {
	el.value = v;
	el.dispatchEvent(new Event('change', { bubbles: true }));
	el.dispatchEvent(new Event('input', { bubbles: true }));
}`

const dispatchSelectEventsJS = `el => {
	el.dispatchEvent(new Event('change', { bubbles: true }));
	el.dispatchEvent(new Event('input', { bubbles: true }));
}`

func (inj *ValueInjector) setSelectValue(field *Field, v string) error {
	idx, score := bestOptionIndex(field.Options, v)
	if idx < 0 || score < MinMatchScore {
		idx = selectFallbackIndex(field.Options, v)
	}
	if idx >= 0 {
		if _, err := field.Element.Evaluate(assignSelectJS, field.Options[idx].Value); err != nil {
			return fmt.Errorf("failed to set select value: %w", err)
		}
		return nil
	}
	// No acceptable option; still notify the page in case it re-renders.
	_, _ = field.Element.Evaluate(dispatchSelectEventsJS, nil)
	return nil
}

// bestOptionIndex returns the highest-scoring option for the target text,
// or (-1, 0) when options is empty or nothing scores above zero.
func bestOptionIndex(options []Option, target string) (int, int) {
	best, bestScore := -1, 0
	for i, opt := range options {
		if opt.Value == "" && opt.Text == "" {
			continue
		}
		if s := ScoreMatch(target, opt.Text, opt.Value); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, bestScore
}

// selectFallbackIndex is the last-resort select match: exact case-insensitive
// equality first, then display-text containment.
func selectFallbackIndex(options []Option, target string) int {
	t := strings.ToLower(strings.TrimSpace(target))
	for i, opt := range options {
		key := opt.Value
		if key == "" {
			key = opt.Text
		}
		if strings.ToLower(strings.TrimSpace(key)) == t {
			return i
		}
	}
	for i, opt := range options {
		if strings.Contains(strings.ToLower(opt.Display()), t) {
			return i
		}
	}
	return -1
}

const checkNativeRadioJS = `el => {
	el.checked = true;
	el.dispatchEvent(new Event('change', { bubbles: true }));
	el.dispatchEvent(new Event('input', { bubbles: true }));
	let label = null;
	if (el.id) {
		try { label = document.querySelector('label[for="' + CSS.escape(el.id) + '"]'); } catch (_) {}
	}
	// Clicking the label, when there is one, is what real users do and what
	// many page scripts listen for.
	if (label) label.click(); else el.click();
}`

func (inj *ValueInjector) setNativeRadioValue(field *Field, v string) error {
	idx, score := bestGroupMemberIndex(field, v)
	if idx < 0 || score < MinRadioMatchScore {
		return nil
	}
	if _, err := field.Group[idx].Evaluate(checkNativeRadioJS, nil); err != nil {
		return fmt.Errorf("failed to check radio: %w", err)
	}
	return nil
}

// ARIA widgets have no native checked property: visual state follows the
// aria-checked attribute plus whatever events the page scripts observe.
const checkAriaRadioJS = `el => {
	const group = el.closest('[role="radiogroup"]');
	if (group) {
		group.querySelectorAll('[role="radio"]').forEach(r => {
			r.setAttribute('aria-checked', r === el ? 'true' : 'false');
		});
	} else {
		el.setAttribute('aria-checked', 'true');
	}
	el.focus();
	el.click();
	el.dispatchEvent(new MouseEvent('mousedown', { bubbles: true, view: window }));
	el.dispatchEvent(new MouseEvent('mouseup', { bubbles: true, view: window }));
	el.dispatchEvent(new MouseEvent('click', { bubbles: true, view: window }));
}`

func (inj *ValueInjector) setAriaRadioValue(field *Field, v string) error {
	idx, score := bestGroupMemberIndex(field, v)
	if idx < 0 || score < MinMatchScore {
		return nil
	}
	winner := field.Group[idx]
	// Without a radiogroup container the siblings are the group; uncheck them
	// individually.
	if !evalBool(winner, `el => !!el.closest('[role="radiogroup"]')`) {
		for i, m := range field.Group {
			if i == idx {
				continue
			}
			_, _ = m.Evaluate(`el => el.setAttribute('aria-checked', 'false')`, nil)
		}
	}
	if _, err := winner.Evaluate(checkAriaRadioJS, nil); err != nil {
		return fmt.Errorf("failed to check aria radio: %w", err)
	}
	return nil
}

// bestGroupMemberIndex scores every member of a radio group against the
// target, using the index-aligned Options for display text and value.
func bestGroupMemberIndex(field *Field, target string) (int, int) {
	best, bestScore := -1, 0
	for i := range field.Group {
		var opt Option
		if i < len(field.Options) {
			opt = field.Options[i]
		}
		display := opt.Display()
		value := opt.Value
		if display == "" {
			display = attr(field.Group[i], "value")
		}
		if value == "" {
			value = display
		}
		if s := ScoreMatch(target, display, value); s > bestScore {
			best, bestScore = i, s
		}
	}
	return best, bestScore
}

const openDropdownJS = `el => {
	el.focus();
	el.click();
	el.dispatchEvent(new MouseEvent('mousedown', { bubbles: true, view: window }));
	el.dispatchEvent(new MouseEvent('mouseup', { bubbles: true, view: window }));
	el.dispatchEvent(new MouseEvent('click', { bubbles: true, view: window }));
}`

// Re-resolve the option list after the open gesture: the aria-controls
// target first, else any visible listbox/menu, else class-heuristic popup
// scanning. Marks each option for locator retrieval and returns its text.
const resolveDropdownOptionsJS = `controlsId => {
	const optionText = el => {
		const ariaLabel = (el.getAttribute('aria-label') || '').trim();
		if (ariaLabel && ariaLabel.length < 300) return ariaLabel;
		return (el.textContent || '').trim().replace(/\s+/g, ' ').substring(0, 300);
	};
	let listbox = controlsId ? document.getElementById(controlsId) : null;
	if (!listbox || listbox.querySelectorAll('[role="option"], [role="menuitem"]').length === 0) {
		for (const lb of document.querySelectorAll('[role="listbox"], [role="menu"]')) {
			if (lb.querySelectorAll('[role="option"], [role="menuitem"]').length &&
				(lb.offsetParent != null || lb.getBoundingClientRect().height > 0)) {
				listbox = lb;
				break;
			}
		}
	}
	let optionEls = listbox ? Array.from(listbox.querySelectorAll('[role="option"], [role="menuitem"]')) : [];
	if (optionEls.length === 0) {
		const popup = document.querySelector('[class*="exportSelectPopup"], [class*="SelectPopup"]');
		if (popup) {
			const nonEmpty = o => (o.textContent || '').trim().length > 0;
			optionEls = Array.from(popup.querySelectorAll('[class*="PaperselectOption"], [class*="exportOption"], [class*="SelectOption"], [class*="quantumWizMenuPaperselectOption"], [class*="Option"]')).filter(nonEmpty);
			if (optionEls.length === 0) {
				optionEls = Array.from(popup.querySelectorAll('[data-value]')).filter(nonEmpty);
			}
			if (optionEls.length === 0 && popup.children.length > 0) {
				optionEls = Array.from(popup.children).filter(o => nonEmpty(o) && (o.textContent || '').trim() !== 'Choose');
			}
		}
	}
	document.querySelectorAll('[data-jobfill-option]').forEach(el => el.removeAttribute('data-jobfill-option'));
	const texts = [];
	optionEls.forEach((el, i) => {
		el.setAttribute('data-jobfill-option', String(i));
		texts.push(optionText(el));
	});
	return texts;
}`

const clickDropdownOptionJS = `el => {
	el.focus();
	el.click();
	el.dispatchEvent(new MouseEvent('mousedown', { bubbles: true, view: window }));
	el.dispatchEvent(new MouseEvent('mouseup', { bubbles: true, view: window }));
	el.dispatchEvent(new MouseEvent('click', { bubbles: true, view: window }));
}`

func (inj *ValueInjector) setDropdownValue(field *Field, v string) error {
	if _, err := field.Element.Evaluate(openDropdownJS, nil); err != nil {
		return fmt.Errorf("failed to open dropdown: %w", err)
	}
	inj.page.WaitForTimeout(dropdownOpenDelayMS)

	raw, err := inj.page.Evaluate(resolveDropdownOptionsJS, field.ListboxID)
	if err != nil {
		return fmt.Errorf("failed to resolve dropdown options: %w", err)
	}
	var options []Option
	if list, ok := raw.([]interface{}); ok {
		for _, item := range list {
			if t, ok := item.(string); ok {
				t = trimText(t)
				options = append(options, Option{Value: t, Text: t})
			} else {
				options = append(options, Option{})
			}
		}
	}

	idx, score := bestOptionIndex(options, v)
	if idx < 0 || score < MinMatchScore {
		log.Printf("⚠ No dropdown option matched %q (best score %d)", v, score)
		return nil
	}
	winner := inj.page.Locator(fmt.Sprintf(`[data-jobfill-option="%d"]`, idx)).First()
	if _, err := winner.Evaluate(clickDropdownOptionJS, nil); err != nil {
		return fmt.Errorf("failed to click dropdown option: %w", err)
	}
	return nil
}

// CurrentValue reads the field's live state from the DOM: checked member for
// radio groups, aria-checked for ARIA radios, trigger text for dropdowns
// (empty when it still shows the placeholder), the element value otherwise.
func (inj *ValueInjector) CurrentValue(field *Field) string {
	if field == nil || field.Element == nil {
		return ""
	}
	switch field.Kind {
	case WidgetNativeRadioGroup:
		for _, m := range field.Group {
			if evalBool(m, `el => el.checked === true`) {
				return attr(m, "value")
			}
		}
		return ""
	case WidgetAriaRadioGroup:
		for _, m := range field.Group {
			if attr(m, "aria-checked") == "true" {
				return "selected"
			}
		}
		return ""
	case WidgetAriaListbox, WidgetDivDropdown:
		t, err := field.Element.TextContent()
		if err != nil {
			return ""
		}
		cur := trimText(t)
		if cur == "Choose" || cur == "Select" {
			return ""
		}
		if field.Placeholder != "" && cur == trimText(field.Placeholder) {
			return ""
		}
		return cur
	default:
		v, err := field.Element.InputValue()
		if err != nil {
			return ""
		}
		return strings.TrimSpace(v)
	}
}

const addBadgeJS = `(el, source) => {
	if (!el.parentNode) return;
	const cls = 'job-autofill-badge';
	const next = el.nextElementSibling;
	if (next && next.classList && next.classList.contains(cls)) next.remove();
	const badge = document.createElement('span');
	badge.className = cls;
	badge.textContent = source === 'Prefilled' ? 'Prefilled' : 'AI';
	badge.setAttribute('data-autofill-source', source);
	badge.style.cssText = 'display:inline-block;margin-left:6px;padding:2px 6px;font-size:10px;font-weight:600;border-radius:4px;vertical-align:middle;' +
		(source === 'Prefilled' ? 'background:#dcfce7;color:#166534;' : 'background:#dbeafe;color:#1e40af;');
	el.insertAdjacentElement('afterend', badge);
}`

// MarkProvenance drops a small badge next to the control showing whether its
// value came from the profile or from generated text.
func (inj *ValueInjector) MarkProvenance(field *Field, source string) {
	if field == nil || field.Element == nil {
		return
	}
	if _, err := field.Element.Evaluate(addBadgeJS, source); err != nil {
		log.Printf("Failed to add provenance badge: %v", err)
	}
}
