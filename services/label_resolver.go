package services

import (
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
)

// Placeholder strings that are never the real question text.
var genericPlaceholders = []string{"your answer", "other response", "enter your answer", "choose", "select"}

func trimText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isGenericPlaceholder(s string) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	for _, g := range genericPlaceholders {
		if t == g {
			return true
		}
	}
	return false
}

// attr reads an attribute, treating lookup failures as absence.
func attr(el playwright.Locator, name string) string {
	v, err := el.GetAttribute(name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(v)
}

// cssEscapeAttr makes an attribute value safe inside a double-quoted CSS
// attribute selector.
func cssEscapeAttr(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	return strings.ReplaceAll(v, `"`, `\"`)
}

// Text of the nearest semantically-labeled ancestor container, with the
// control's own value stripped out. Containers carrying a dedicated label
// element use that label's text instead of the whole container dump.
const parentContainerTextJS = `el => {
	const parent = el.closest('label, [role="group"], .field, .form-group, .form-field, .input-group, [class*="field"], [class*="form"]');
	if (!parent) return '';
	const labelEl = parent.querySelector('label');
	const container = labelEl || parent;
	let text = (container.textContent || '').trim().replace(/\s+/g, ' ');
	if (el.value != null && el.value !== '') {
		const val = String(el.value).trim();
		if (val) text = text.replace(val, '').trim();
	}
	return text;
}`

// Text of the immediately preceding sibling, unless it wraps another control.
const prevSiblingTextJS = `el => {
	const prev = el.previousElementSibling;
	if (!prev || prev.querySelector('input, select, textarea')) return '';
	return (prev.textContent || '').trim().replace(/\s+/g, ' ');
}`

// ResolveLabel produces the best-effort human-readable question for a form
// control. No single markup signal is reliable, so candidates are collected
// from several sources and the smallest sufficient one wins; known generic
// placeholders are escaped to contextual text when possible. Never fails:
// returns "" when nothing usable exists.
func ResolveLabel(page playwright.Page, el playwright.Locator) string {
	var direct, all []string
	add := func(dst *[]string, s string, maxLen int) {
		s = trimText(s)
		if s != "" && len(s) < maxLen {
			*dst = append(*dst, s)
		}
	}

	// Explicitly associated label element.
	id := attr(el, "id")
	var labelFor string
	if id != "" {
		lbl := page.Locator(fmt.Sprintf(`label[for="%s"]`, cssEscapeAttr(id))).First()
		if n, err := lbl.Count(); err == nil && n > 0 {
			if t, err := lbl.TextContent(); err == nil {
				labelFor = trimText(t)
				add(&all, labelFor, 400)
			}
		}
	}
	if labelledBy := attr(el, "aria-labelledby"); labelledBy != "" {
		refID := strings.Fields(labelledBy)[0]
		ref := page.Locator(fmt.Sprintf(`[id="%s"]`, cssEscapeAttr(refID))).First()
		if n, err := ref.Count(); err == nil && n > 0 {
			if t, err := ref.TextContent(); err == nil {
				add(&all, t, 400)
			}
		}
	}

	ariaLabel := attr(el, "aria-label")
	placeholder := attr(el, "placeholder")
	name := attr(el, "name")
	nameID := attr(el, "id")
	sep := strings.NewReplacer(".", " ", "_", " ")

	if ariaLabel != "" {
		all = append(all, ariaLabel)
	}
	if placeholder != "" {
		all = append(all, placeholder)
	}
	if name != "" {
		all = append(all, sep.Replace(name))
	}
	if nameID != "" && nameID != name {
		all = append(all, sep.Replace(nameID))
	}

	if v, err := el.Evaluate(parentContainerTextJS, nil); err == nil {
		if t, ok := v.(string); ok {
			add(&all, t, 400)
		}
	}
	var prevText string
	if v, err := el.Evaluate(prevSiblingTextJS, nil); err == nil {
		if t, ok := v.(string); ok {
			prevText = trimText(t)
			add(&all, prevText, 200)
		}
	}

	// Direct signals are scoped to this one control; contextual parent text
	// is noisier and may describe several fields.
	if placeholder != "" {
		direct = append(direct, placeholder)
	}
	if name != "" {
		direct = append(direct, sep.Replace(name))
	}
	if nameID != "" && nameID != name {
		direct = append(direct, sep.Replace(nameID))
	}
	if ariaLabel != "" {
		direct = append(direct, ariaLabel)
	}
	if labelFor != "" {
		direct = append(direct, labelFor)
	}
	add(&direct, prevText, 200)

	return pickLabel(direct, all)
}

// pickLabel selects the final label from direct (control-scoped) and all
// (direct plus contextual) candidates. Pure so it can be tested without a
// browser.
func pickLabel(direct, all []string) string {
	filtered := dedupe(direct, func(s string) bool { return len(s) >= 2 && len(s) <= 350 })
	if len(filtered) > 0 {
		chosen := shortest(filtered)
		if isGenericPlaceholder(chosen) {
			questionLike := dedupe(all, func(s string) bool {
				return len(s) > 2 && len(s) <= 350 && !isGenericPlaceholder(s)
			})
			if len(questionLike) > 0 {
				return shortest(questionLike)
			}
		}
		return chosen
	}

	unique := dedupe(all, func(s string) bool { return s != "" })
	if len(unique) == 0 {
		return ""
	}
	if short := dedupe(unique, func(s string) bool { return len(s) >= 2 && len(s) <= 350 }); len(short) > 0 {
		return shortest(short)
	}
	return shortest(unique)
}

func dedupe(in []string, keep func(string) bool) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if s == "" || seen[s] || !keep(s) {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func shortest(in []string) string {
	best := in[0]
	for _, s := range in[1:] {
		if len(s) < len(best) {
			best = s
		}
	}
	return best
}

// Visible label for one native radio option, e.g. "Electrical Engineering".
// Tries the associated label, a wrapping label with the raw value stripped,
// adjacent siblings, the parent text, then the raw value.
const radioOptionTextJS = `el => {
	const clean = s => (s || '').trim().replace(/\s+/g, ' ');
	if (el.id) {
		try {
			const label = document.querySelector('label[for="' + CSS.escape(el.id) + '"]');
			if (label) {
				const t = clean(label.textContent);
				if (t && t.length < 200) return t;
			}
		} catch (_) {}
	}
	const parent = el.parentElement;
	if (parent) {
		const v = (el.value || '').trim();
		if ((parent.tagName || '').toLowerCase() === 'label') {
			const raw = clean(parent.textContent);
			const text = v ? raw.replace(v, '').trim() : raw;
			if (text && text.length < 200) return text;
		}
		let sibling = el.nextElementSibling;
		if (sibling) {
			const t = clean(sibling.textContent);
			if (t && t.length < 200) return t;
		}
		sibling = el.previousElementSibling;
		if (sibling && !sibling.matches('input, select, textarea')) {
			const t = clean(sibling.textContent);
			if (t && t.length < 200) return t;
		}
		const raw = clean(parent.textContent);
		const text = v ? raw.replace(v, '').trim() : raw;
		if (text && text.length < 200) return text;
	}
	return (el.value || '').trim();
}`

// radioOptionText resolves the display text of one radio input.
func radioOptionText(radio playwright.Locator) string {
	if v, err := radio.Evaluate(radioOptionTextJS, nil); err == nil {
		if t, ok := v.(string); ok {
			return trimText(t)
		}
	}
	return attr(radio, "value")
}

// Label for one [role="radio"] node: aria-label, own text, aria-describedby.
const roleRadioOptionTextJS = `el => {
	const ariaLabel = (el.getAttribute('aria-label') || '').trim();
	if (ariaLabel && ariaLabel.length < 200) return ariaLabel;
	const raw = (el.textContent || '').trim().replace(/\s+/g, ' ');
	if (raw.length > 0 && raw.length < 200) return raw;
	const descId = el.getAttribute('aria-describedby');
	if (descId) {
		const ref = document.getElementById(descId);
		if (ref) return (ref.textContent || '').trim().replace(/\s+/g, ' ').substring(0, 200);
	}
	return '';
}`

func roleRadioOptionText(el playwright.Locator) string {
	if v, err := el.Evaluate(roleRadioOptionTextJS, nil); err == nil {
		if t, ok := v.(string); ok {
			return trimText(t)
		}
	}
	return ""
}

// For dropdown triggers whose own text is just "Choose"/"Select": walk up the
// ancestor chain for a heading-like sibling or question-like text.
const dropdownQuestionLabelJS = `trigger => {
	const skipText = ['choose', 'select'];
	const clean = s => (s || '').trim().replace(/\s+/g, ' ');
	const ok = t => {
		const s = clean(t);
		return s.length > 1 && s.length < 200 && !skipText.includes(s.toLowerCase());
	};
	for (let p = trigger.parentElement; p && p !== document.body; p = p.parentElement) {
		if (p.closest('[class*="exportSelectPopup"], [class*="SelectPopup"]')) continue;
		const heading = p.querySelector('[class*="Title"], [class*="title"], [class*="Header"], [role="heading"]');
		if (heading && !trigger.contains(heading) && heading !== trigger) {
			const t = clean(heading.textContent);
			if (ok(t)) return t;
		}
		for (const child of p.children) {
			if (child.contains(trigger) || child === trigger) continue;
			const t = clean(child.textContent);
			if (ok(t)) return t;
		}
		const raw = clean(p.textContent);
		const withoutPlaceholder = raw.replace(/\bChoose\b/gi, '').replace(/\bSelect\b/gi, '').trim();
		const first = withoutPlaceholder.split(/\s{2,}|\n/)[0] || withoutPlaceholder.substring(0, 80);
		if (ok(first)) return first;
	}
	const parent = trigger.closest('[role="group"], [class*="Question"], [class*="question"], [class*="Formviewer"], [class*="freebird"]');
	if (parent && !parent.closest('[class*="exportSelectPopup"]')) {
		const prev = trigger.previousElementSibling;
		if (prev && ok(prev.textContent)) return clean(prev.textContent);
		const raw = clean(parent.textContent);
		const first = raw.replace(/\bChoose\b/gi, '').trim().split(/\s{2,}|\n/)[0] || raw.substring(0, 80);
		if (ok(first)) return first;
	}
	return '';
}`

func dropdownQuestionLabel(trigger playwright.Locator) string {
	if v, err := trigger.Evaluate(dropdownQuestionLabelJS, nil); err == nil {
		if t, ok := v.(string); ok {
			return trimText(t)
		}
	}
	return ""
}
