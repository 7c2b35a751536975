package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Discovery claims every DOM node it wraps into a Field with a marker
// attribute. Playwright locators carry no cross-call node identity, so the
// marker is what guarantees a node consumed by an earlier widget family is
// never re-wrapped by a later one.
const claimedAttr = "data-jobfill-claimed"

const clearMarkersJS = `() => {
	for (const a of ['data-jobfill-claimed', 'data-jobfill-group', 'data-jobfill-trigger', 'data-jobfill-option']) {
		document.querySelectorAll('[' + a + ']').forEach(el => el.removeAttribute(a));
	}
	window.__jobfillGroupSeq = 0;
}`

func clearMarkers(page playwright.Page) {
	if _, err := page.Evaluate(clearMarkersJS); err != nil {
		log.Printf("Failed to clear discovery markers: %v", err)
	}
}

func claim(el playwright.Locator) {
	_, _ = el.Evaluate(`el => el.setAttribute('data-jobfill-claimed', '1')`, nil)
}

func isClaimed(el playwright.Locator) bool {
	return attr(el, claimedAttr) != ""
}

func evalBool(el playwright.Locator, js string) bool {
	v, err := el.Evaluate(js, nil)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func evalString(el playwright.Locator, js string) string {
	v, err := el.Evaluate(js, nil)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// DiscoverFields enumerates all fillable controls on the page across the five
// widget families and normalizes them into Field descriptors, one per logical
// question. Within each family DOM order is preserved.
func DiscoverFields(page playwright.Page) []Field {
	clearMarkers(page)

	var fields []Field
	fields = append(fields, gatherNativeControls(page)...)
	fields = append(fields, gatherRadioGroups(page)...)
	fields = append(fields, gatherAriaRadioGroups(page)...)
	fields = append(fields, gatherAriaListboxes(page)...)
	fields = append(fields, gatherDivDropdowns(page)...)

	log.Printf("Discovered %d form fields", len(fields))
	return fields
}

// Native leaf controls: text-like inputs, textareas, selects. Checkboxes and
// radios are excluded here; radios get grouped by the next pass.
func gatherNativeControls(page playwright.Page) []Field {
	var fields []Field
	controls, err := page.Locator(`input:not([type="hidden"]):not([type="submit"]):not([type="button"]):not([type="image"]), textarea, select`).All()
	if err != nil {
		log.Printf("Failed to enumerate native controls: %v", err)
		return nil
	}
	for _, el := range controls {
		if evalBool(el, `el => el.disabled === true || el.readOnly === true`) {
			continue
		}
		tag := evalString(el, `el => el.tagName.toLowerCase()`)
		inputType := attr(el, "type")
		if tag == "input" && (inputType == "checkbox" || inputType == "radio") {
			continue
		}

		field := Field{
			Element:     el,
			Label:       ResolveLabel(page, el),
			Placeholder: attr(el, "placeholder"),
			InputType:   inputType,
		}
		switch tag {
		case "textarea":
			field.Kind = WidgetTextarea
		case "select":
			field.Kind = WidgetSelect
			field.Options = selectOptions(el)
		default:
			field.Kind = WidgetText
		}
		claim(el)
		fields = append(fields, field)
	}
	return fields
}

func selectOptions(sel playwright.Locator) []Option {
	var options []Option
	optionEls, err := sel.Locator("option").All()
	if err != nil {
		return nil
	}
	for _, o := range optionEls {
		value := attr(o, "value")
		text := ""
		if t, err := o.TextContent(); err == nil {
			text = trimText(t)
		}
		if value == "" && text == "" {
			continue
		}
		opt := Option{Value: value, Text: text}
		if opt.Value == "" {
			opt.Value = text
		}
		if opt.Text == "" {
			opt.Text = value
		}
		options = append(options, opt)
	}
	return options
}

// Native radio groups: all enabled radios sharing a name collapse to one
// Field whose Options and Group are index-aligned.
func gatherRadioGroups(page playwright.Page) []Field {
	var fields []Field
	radios, err := page.Locator(`input[type="radio"]:not([disabled])`).All()
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, r := range radios {
		name := attr(r, "name")
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		group, err := page.Locator(fmt.Sprintf(`input[type="radio"][name="%s"]:not([disabled])`, cssEscapeAttr(name))).All()
		if err != nil || len(group) == 0 {
			continue
		}
		options := make([]Option, 0, len(group))
		for _, member := range group {
			value := attr(member, "value")
			text := radioOptionText(member)
			opt := Option{Value: value, Text: truncate(text, 200)}
			if opt.Value == "" {
				opt.Value = text
			}
			if opt.Text == "" {
				opt.Text = truncate(value, 200)
			}
			options = append(options, opt)
			claim(member)
		}
		fields = append(fields, Field{
			Element: group[0],
			Label:   ResolveLabel(page, group[0]),
			Kind:    WidgetNativeRadioGroup,
			Options: options,
			Group:   group,
		})
	}
	return fields
}

// ARIA radio groups: one Field per [role="radiogroup"] container; orphan
// [role="radio"] nodes are grouped by their nearest group-like ancestor.
func gatherAriaRadioGroups(page playwright.Page) []Field {
	var fields []Field

	groups, err := page.Locator(`[role="radiogroup"]`).All()
	if err == nil {
		for _, rg := range groups {
			members := ariaRadioMembers(rg)
			if len(members) == 0 {
				continue
			}
			label := attr(rg, "aria-label")
			if label == "" {
				if labelledBy := attr(rg, "aria-labelledby"); labelledBy != "" {
					ref := page.Locator(fmt.Sprintf(`[id="%s"]`, cssEscapeAttr(firstToken(labelledBy)))).First()
					if n, err := ref.Count(); err == nil && n > 0 {
						if t, err := ref.TextContent(); err == nil {
							label = trimText(t)
						}
					}
				}
			}
			if label == "" {
				label = ResolveLabel(page, members[0])
			}
			fields = append(fields, buildAriaRadioField(label, members))
		}
	}

	// Orphans: [role="radio"] outside any radiogroup, grouped by the nearest
	// [role="group"] ancestor (else the direct parent).
	orphans, err := page.Locator(`[role="radio"]`).All()
	if err != nil {
		return fields
	}
	keyed := make(map[string][]playwright.Locator)
	var order []string
	for _, r := range orphans {
		if isClaimed(r) || evalBool(r, `el => el.matches('input[type="radio"]') || !!el.closest('[role="radiogroup"]')`) {
			continue
		}
		key := evalString(r, `el => {
			const c = el.closest('[role="group"]') || el.parentElement;
			if (!c) return '';
			if (!c.hasAttribute('data-jobfill-group')) {
				window.__jobfillGroupSeq = (window.__jobfillGroupSeq || 0) + 1;
				c.setAttribute('data-jobfill-group', String(window.__jobfillGroupSeq));
			}
			return c.getAttribute('data-jobfill-group');
		}`)
		if key == "" {
			continue
		}
		if _, ok := keyed[key]; !ok {
			order = append(order, key)
		}
		keyed[key] = append(keyed[key], r)
	}
	for _, key := range order {
		members := keyed[key]
		fields = append(fields, buildAriaRadioField(ResolveLabel(page, members[0]), members))
	}
	return fields
}

func ariaRadioMembers(rg playwright.Locator) []playwright.Locator {
	all, err := rg.Locator(`[role="radio"]`).All()
	if err != nil {
		return nil
	}
	var members []playwright.Locator
	for _, r := range all {
		if evalBool(r, `el => el.matches('input[type="radio"]')`) {
			continue
		}
		members = append(members, r)
	}
	return members
}

func buildAriaRadioField(label string, members []playwright.Locator) Field {
	options := make([]Option, 0, len(members))
	for _, m := range members {
		text := truncate(roleRadioOptionText(m), 200)
		options = append(options, Option{Value: text, Text: text})
		claim(m)
	}
	return Field{
		Element: members[0],
		Label:   label,
		Kind:    WidgetAriaRadioGroup,
		Options: options,
		Group:   members,
	}
}

func firstToken(s string) string {
	tokens := strings.Fields(s)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[0]
}

// ARIA listbox/combobox widgets. The option list may be empty here: many
// implementations mount it only after an open gesture, so the injector
// re-resolves options at fill time.
func gatherAriaListboxes(page playwright.Page) []Field {
	var fields []Field
	combos, err := page.Locator(`[role="combobox"], [aria-haspopup="listbox"]`).All()
	if err != nil {
		return nil
	}
	for _, combo := range combos {
		if isClaimed(combo) {
			continue
		}
		if evalBool(combo, `el => !!el.closest('[role="listbox"], [role="menu"]')`) {
			continue
		}
		listboxID := attr(combo, "aria-controls")
		options := listboxOptions(page, listboxID)

		label := attr(combo, "aria-label")
		if label == "" {
			label = ResolveLabel(page, combo)
		}
		placeholder := ""
		if t, err := combo.TextContent(); err == nil {
			placeholder = truncate(trimText(t), 100)
		}
		claim(combo)
		fields = append(fields, Field{
			Element:     combo,
			Label:       label,
			Placeholder: placeholder,
			Kind:        WidgetAriaListbox,
			Options:     options,
			ListboxID:   listboxID,
		})
	}
	return fields
}

func listboxOptions(page playwright.Page, listboxID string) []Option {
	if listboxID == "" {
		return nil
	}
	lb := page.Locator(fmt.Sprintf(`[id="%s"]`, cssEscapeAttr(listboxID))).First()
	if n, err := lb.Count(); err != nil || n == 0 {
		return nil
	}
	optionEls, err := lb.Locator(`[role="option"], [role="menuitem"]`).All()
	if err != nil {
		return nil
	}
	var options []Option
	for _, o := range optionEls {
		text := attr(o, "aria-label")
		if text == "" {
			if t, err := o.TextContent(); err == nil {
				text = trimText(t)
			}
		}
		if text == "" || len(text) >= 300 {
			continue
		}
		text = truncate(text, 200)
		options = append(options, Option{Value: text, Text: text})
	}
	return options
}

// Known class-name patterns for div-based dropdown triggers with no native
// semantics and no ARIA (Google Forms style, including minified/hashed
// classes).
var divDropdownSelectors = []string{
	`[class*="PaperselectOptionList"]`,
	`[class*="MenuPaperselect"]`,
	`[class*="quantumWizMenuPaperselect"]`,
	`[class*="MaterialWizMenuPaperselect"]`,
	`[class*="freebirdThemedSelect"]`,
	`[class*="Dropdown"]:not([class*="SelectPopup"])`,
	`[data-value][class*="Select"]`,
}

// Structural fallback: any small, visible, clickable-looking element whose
// entire text is exactly a placeholder word. Marks candidates so they can be
// retrieved as locators.
const markPlaceholderTriggersJS = `() => {
	let n = 0;
	const placeholders = ['Choose', 'Select'];
	for (const el of document.querySelectorAll('div, span, [role="button"]')) {
		const text = (el.textContent || '').trim();
		if (!placeholders.includes(text)) continue;
		if (el.closest('[class*="exportSelectPopup"], [class*="SelectPopup"]')) continue;
		const clickable = el.closest('[class*="Select"], [class*="Dropdown"], [class*="MenuPaper"], [class*="Paperselect"]') || el.parentElement;
		const trigger = clickable && clickable !== el ? clickable : el;
		if (!trigger || trigger.hasAttribute('data-jobfill-trigger')) continue;
		const rect = trigger.getBoundingClientRect();
		if (rect.width > 20 && rect.height > 10) {
			trigger.setAttribute('data-jobfill-trigger', '1');
			n++;
		}
	}
	return n;
}`

func gatherDivDropdowns(page playwright.Page) []Field {
	var fields []Field

	addTrigger := func(trigger playwright.Locator) {
		if isClaimed(trigger) {
			return
		}
		if evalBool(trigger, `el => !!el.closest('[class*="exportSelectPopup"], [class*="SelectPopup"]')`) {
			return
		}
		label := ResolveLabel(page, trigger)
		if label == "" || label == "Choose" || label == "Select" {
			if q := dropdownQuestionLabel(trigger); q != "" {
				label = q
			}
		}
		placeholder := ""
		if t, err := trigger.TextContent(); err == nil {
			placeholder = truncate(trimText(t), 100)
		}
		if label == "" && placeholder == "" {
			return
		}
		if label == "" {
			label = placeholder
		}
		claim(trigger)
		fields = append(fields, Field{
			Element:     trigger,
			Label:       label,
			Placeholder: placeholder,
			Kind:        WidgetDivDropdown,
		})
	}

	for _, sel := range divDropdownSelectors {
		triggers, err := page.Locator(sel).All()
		if err != nil {
			continue
		}
		for _, t := range triggers {
			addTrigger(t)
		}
	}

	if _, err := page.Evaluate(markPlaceholderTriggersJS); err == nil {
		if marked, err := page.Locator(`[data-jobfill-trigger]`).All(); err == nil {
			for _, t := range marked {
				addTrigger(t)
			}
		}
	}
	return fields
}
