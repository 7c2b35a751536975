package services

import (
	"fmt"
	"log"
	"strings"
)

// Short generic labels that should never be sent as standalone questions
// ("Other", "Please specify", ...). Matched whole or as a leading word, and
// only when the label is short enough to carry no real question.
var aiSkipLabels = []string{"other response", "other", "specify", "please specify", "your answer"}

const defaultQuestion = "Please provide a brief professional response for this form field."

// AnswerGenerator produces answers and classifications for form questions.
// Satisfied by LLMClient; fakes stand in for it in tests.
type AnswerGenerator interface {
	GenerateAnswer(question, resume string) (string, error)
	ClassifyFields(labels []string) ([]string, error)
}

// ProfileValues resolves a profile key ("firstName", "cgpa", ...) to the
// candidate's stored value, empty when unknown.
type ProfileValues interface {
	Value(key string) string
}

// FillResult summarizes one fill run over a page.
type FillResult struct {
	Filled int      `json:"filled"`
	Total  int      `json:"total"`
	Errors []string `json:"errors"`
}

// FillOrchestrator routes discovered fields to the profile-backed path or
// the generated-answer path, then sweeps fields that are still empty.
type FillOrchestrator struct {
	writer FieldWriter
	gen    AnswerGenerator
}

func NewFillOrchestrator(writer FieldWriter, gen AnswerGenerator) *FillOrchestrator {
	return &FillOrchestrator{writer: writer, gen: gen}
}

// Fill runs the classify / primary / sweep sequence over fields. A nil
// generator (no API key configured) limits the run to profile data only.
// Panics from the browser layer surface as a single-error result.
func (o *FillOrchestrator) Fill(fields []Field, profile ProfileValues, resume string) (result FillResult) {
	defer func() {
		if r := recover(); r != nil {
			result = FillResult{Filled: 0, Total: len(fields), Errors: []string{fmt.Sprint(r)}}
		}
	}()

	labels := make([]string, len(fields))
	for i := range fields {
		labels[i] = fields[i].EffectiveLabel()
		if labels[i] == "" {
			labels[i] = "(no label)"
		}
	}

	classifications := o.classify(fields, labels)

	// Fills are tracked per field so a field re-attempted by the sweep
	// (choice widgets can accept a value without landing an option) is
	// never counted twice.
	filledAt := make([]bool, len(fields))
	var errors []string

	for i := range fields {
		field := &fields[i]
		eff := field.EffectiveLabel()

		if classifications[i] == ClassPrefilled {
			key, ok := ProfileKeyForLabel(eff)
			if !ok || profile == nil {
				continue
			}
			value := profile.Value(key)
			if value == "" {
				continue
			}
			if err := o.writer.SetValue(field, value); err != nil {
				errors = append(errors, fieldErr(eff, err))
				continue
			}
			o.writer.MarkProvenance(field, "Prefilled")
			filledAt[i] = true
			continue
		}

		if resume == "" || o.gen == nil {
			continue
		}
		if skipShortGenericLabel(eff) {
			continue
		}
		question, ok := buildQuestion(field, eff)
		if !ok {
			continue
		}
		if o.tryFillWithAI(field, question, resume, &errors) {
			filledAt[i] = true
		}
	}

	// Sweep: anything a page script reset, or the primary pass could not
	// answer from the profile, gets one generated attempt.
	for i := range fields {
		field := &fields[i]
		if o.writer.CurrentValue(field) != "" {
			continue
		}
		if resume == "" || o.gen == nil {
			continue
		}
		eff := field.EffectiveLabel()
		if !field.IsTextLike() && !field.IsChoice() {
			continue
		}
		if skipShortGenericLabel(eff) {
			continue
		}
		question, ok := buildQuestion(field, eff)
		if !ok {
			continue
		}
		if o.tryFillWithAI(field, question, resume, &errors) {
			filledAt[i] = true
		}
	}

	filled := 0
	for _, ok := range filledAt {
		if ok {
			filled++
		}
	}
	log.Printf("✓ Filled %d/%d fields (%d errors)", filled, len(fields), len(errors))
	return FillResult{Filled: filled, Total: len(fields), Errors: errors}
}

// classify asks the generator for a batch classification; any failure or
// length mismatch falls back to the local label-pattern table.
func (o *FillOrchestrator) classify(fields []Field, labels []string) []string {
	if o.gen != nil && len(labels) > 0 {
		cls, err := o.gen.ClassifyFields(labels)
		if err == nil && len(cls) == len(labels) {
			return cls
		}
		if err != nil {
			log.Printf("⚠ Field classification failed, using local fallback: %v", err)
		}
	}
	cls := make([]string, len(fields))
	for i := range fields {
		if _, ok := ProfileKeyForLabel(fields[i].EffectiveLabel()); ok {
			cls[i] = ClassPrefilled
		} else {
			cls[i] = ClassAIAnswer
		}
	}
	return cls
}

// buildQuestion turns a field into the question sent to the generator.
// Choice widgets get their option list appended; unlabeled non-text widgets
// are not worth a call and report ok=false.
func buildQuestion(field *Field, eff string) (string, bool) {
	question := eff
	if question == "" {
		question = defaultQuestion
	}
	if field.IsChoice() {
		var texts []string
		for _, opt := range field.Options {
			if d := opt.Display(); d != "" {
				texts = append(texts, d)
			}
		}
		if len(texts) > 0 {
			question += " Choose exactly one from: " + strings.Join(texts, ", ") + ". Reply with only that option."
		}
		return question, true
	}
	return question, field.IsTextLike()
}

func (o *FillOrchestrator) tryFillWithAI(field *Field, question, resume string, errors *[]string) bool {
	text, err := o.gen.GenerateAnswer(question, resume)
	if err != nil {
		*errors = append(*errors, fieldErr(field.EffectiveLabel(), err))
		return false
	}
	if err := o.writer.SetValue(field, text); err != nil {
		*errors = append(*errors, fieldErr(field.EffectiveLabel(), err))
		return false
	}
	o.writer.MarkProvenance(field, "AI")
	return true
}

func fieldErr(label string, err error) string {
	if label == "" {
		label = "Field"
	}
	return label + ": " + err.Error()
}

func skipShortGenericLabel(eff string) bool {
	if len(eff) >= 15 {
		return false
	}
	l := strings.ToLower(eff)
	for _, s := range aiSkipLabels {
		if l == s || strings.HasPrefix(l, s+" ") {
			return true
		}
	}
	return false
}
