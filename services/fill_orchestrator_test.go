package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeWriter struct {
	values  map[string]string
	badges  map[string]string
	current map[string]string
	setErr  map[string]error
	// Labels whose SetValue succeeds without the value landing, the way a
	// dropdown behaves when no option clears the match threshold.
	unlanded map[string]bool
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{
		values:   map[string]string{},
		badges:   map[string]string{},
		current:  map[string]string{},
		setErr:   map[string]error{},
		unlanded: map[string]bool{},
	}
}

func (w *fakeWriter) SetValue(f *Field, v string) error {
	label := f.EffectiveLabel()
	if err := w.setErr[label]; err != nil {
		return err
	}
	if w.unlanded[label] {
		return nil
	}
	w.values[label] = v
	w.current[label] = v
	return nil
}

func (w *fakeWriter) CurrentValue(f *Field) string {
	return w.current[f.EffectiveLabel()]
}

func (w *fakeWriter) MarkProvenance(f *Field, source string) {
	w.badges[f.EffectiveLabel()] = source
}

type fakeGenerator struct {
	answer          string
	genErr          error
	classifications []string
	classifyErr     error
	questions       []string
	classifyCalls   int
}

func (g *fakeGenerator) GenerateAnswer(question, resume string) (string, error) {
	g.questions = append(g.questions, question)
	if g.genErr != nil {
		return "", g.genErr
	}
	return g.answer, nil
}

func (g *fakeGenerator) ClassifyFields(labels []string) ([]string, error) {
	g.classifyCalls++
	if g.classifyErr != nil {
		return nil, g.classifyErr
	}
	return g.classifications, nil
}

type fakeProfile map[string]string

func (p fakeProfile) Value(key string) string { return p[key] }

func TestFill_PrefilledFromProfile(t *testing.T) {
	writer := newFakeWriter()
	gen := &fakeGenerator{classifications: []string{ClassPrefilled}}
	o := NewFillOrchestrator(writer, gen)

	fields := []Field{{Label: "First Name", Kind: WidgetText}}
	result := o.Fill(fields, fakeProfile{"firstName": "Ada"}, "resume text")

	assert.Equal(t, 1, result.Filled)
	assert.Equal(t, 1, result.Total)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "Ada", writer.values["First Name"])
	assert.Equal(t, "Prefilled", writer.badges["First Name"])
	assert.Empty(t, gen.questions, "profile-backed fields should not hit the generator")
}

func TestFill_GeneratedAnswerForOpenQuestion(t *testing.T) {
	writer := newFakeWriter()
	gen := &fakeGenerator{
		classifications: []string{ClassAIAnswer},
		answer:          "I admire the team's engineering culture.",
	}
	o := NewFillOrchestrator(writer, gen)

	fields := []Field{{Label: "Why do you want to join us?", Kind: WidgetTextarea}}
	result := o.Fill(fields, fakeProfile{}, "resume text")

	assert.Equal(t, 1, result.Filled)
	assert.Empty(t, result.Errors)
	assert.Equal(t, gen.answer, writer.values["Why do you want to join us?"])
	assert.Equal(t, "AI", writer.badges["Why do you want to join us?"])
	// Filled in the primary pass; the sweep must not ask again.
	assert.Len(t, gen.questions, 1)
}

func TestFill_LocalFallbackWhenClassificationFails(t *testing.T) {
	run := func() FillResult {
		writer := newFakeWriter()
		gen := &fakeGenerator{
			classifyErr: errors.New("API error 500"),
			answer:      "A brief answer.",
		}
		o := NewFillOrchestrator(writer, gen)
		fields := []Field{
			{Label: "Email", Kind: WidgetText},
			{Label: "Describe a challenge you faced", Kind: WidgetTextarea},
		}
		return o.Fill(fields, fakeProfile{"email": "ada@example.com"}, "resume text")
	}

	first := run()
	second := run()
	assert.Equal(t, first, second, "fallback classification must be deterministic")
	assert.Equal(t, 2, first.Filled)
	assert.Empty(t, first.Errors)
}

func TestFill_ShortGenericLabelsSkipped(t *testing.T) {
	writer := newFakeWriter()
	gen := &fakeGenerator{classifications: []string{ClassAIAnswer}, answer: "text"}
	o := NewFillOrchestrator(writer, gen)

	fields := []Field{{Label: "Other", Kind: WidgetTextarea}}
	result := o.Fill(fields, fakeProfile{}, "resume text")

	assert.Equal(t, 0, result.Filled)
	assert.Empty(t, gen.questions)
}

func TestFill_ChoiceQuestionCarriesOptions(t *testing.T) {
	writer := newFakeWriter()
	gen := &fakeGenerator{classifications: []string{ClassAIAnswer}, answer: "Yes"}
	o := NewFillOrchestrator(writer, gen)

	fields := []Field{{
		Label:   "Are you willing to relocate to our office?",
		Kind:    WidgetNativeRadioGroup,
		Options: []Option{{Value: "yes", Text: "Yes"}, {Value: "no", Text: "No"}},
	}}
	result := o.Fill(fields, fakeProfile{}, "resume text")

	assert.Equal(t, 1, result.Filled)
	if assert.Len(t, gen.questions, 1) {
		assert.Contains(t, gen.questions[0], "Are you willing to relocate")
		assert.Contains(t, gen.questions[0], "Choose exactly one from: Yes, No. Reply with only that option.")
	}
}

func TestFill_SweepCoversUnansweredPrefilled(t *testing.T) {
	// Classified PREFILLED but the profile has no institute stored; the
	// sweep should fall back to a generated answer.
	writer := newFakeWriter()
	gen := &fakeGenerator{classifications: []string{ClassPrefilled}, answer: "Example University"}
	o := NewFillOrchestrator(writer, gen)

	fields := []Field{{Label: "College Name", Kind: WidgetText}}
	result := o.Fill(fields, fakeProfile{}, "resume text")

	assert.Equal(t, 1, result.Filled)
	assert.Equal(t, "Example University", writer.values["College Name"])
	assert.Equal(t, "AI", writer.badges["College Name"])
}

func TestFill_GeneratorErrorsCarryFieldLabel(t *testing.T) {
	writer := newFakeWriter()
	gen := &fakeGenerator{
		classifications: []string{ClassAIAnswer},
		genErr:          errors.New("API error 401"),
	}
	o := NewFillOrchestrator(writer, gen)

	fields := []Field{{Label: "Cover Letter Details", Kind: WidgetTextarea}}
	result := o.Fill(fields, fakeProfile{}, "resume text")

	assert.Equal(t, 0, result.Filled)
	assert.NotEmpty(t, result.Errors)
	for _, e := range result.Errors {
		assert.True(t, strings.HasPrefix(e, "Cover Letter Details: "), "error %q", e)
	}
}

func TestFill_NoGeneratorLimitsToProfile(t *testing.T) {
	writer := newFakeWriter()
	o := NewFillOrchestrator(writer, nil)

	fields := []Field{
		{Label: "Phone", Kind: WidgetText},
		{Label: "Tell us about yourself", Kind: WidgetTextarea},
	}
	result := o.Fill(fields, fakeProfile{"phone": "5551234"}, "")

	assert.Equal(t, 1, result.Filled)
	assert.Equal(t, 2, result.Total)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "5551234", writer.values["Phone"])
	_, answered := writer.values["Tell us about yourself"]
	assert.False(t, answered)
}

func TestFill_FilledNeverExceedsTotal(t *testing.T) {
	writer := newFakeWriter()
	gen := &fakeGenerator{
		classifications: []string{ClassPrefilled, ClassAIAnswer, ClassAIAnswer},
		answer:          "answer",
	}
	o := NewFillOrchestrator(writer, gen)

	fields := []Field{
		{Label: "Email", Kind: WidgetText},
		{Label: "Describe your proudest project", Kind: WidgetTextarea},
		{Label: "Anything else you want to share?", Kind: WidgetTextarea},
	}
	result := o.Fill(fields, fakeProfile{"email": "a@b.c"}, "resume text")

	assert.LessOrEqual(t, result.Filled, result.Total)
	assert.Equal(t, 3, result.Filled)
}

func TestFill_UnmatchedDropdownCountedOnce(t *testing.T) {
	// A dropdown with no option matching the generated answer accepts the
	// write but stays empty, so the sweep retries it. The field must still
	// count at most once.
	writer := newFakeWriter()
	writer.unlanded["Which branch do you prefer to join?"] = true
	gen := &fakeGenerator{
		classifications: []string{ClassAIAnswer},
		answer:          "Computer Science",
	}
	o := NewFillOrchestrator(writer, gen)

	fields := []Field{{
		Label:   "Which branch do you prefer to join?",
		Kind:    WidgetDivDropdown,
		Options: []Option{{Text: "Mechanical"}, {Text: "Civil"}},
	}}
	result := o.Fill(fields, fakeProfile{}, "resume text")

	assert.LessOrEqual(t, result.Filled, result.Total)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 1, result.Filled)
	assert.Len(t, gen.questions, 2, "primary pass plus one sweep retry")
}

func TestSkipShortGenericLabel(t *testing.T) {
	assert.True(t, skipShortGenericLabel("Other"))
	assert.True(t, skipShortGenericLabel("Please specify"))
	assert.True(t, skipShortGenericLabel("other response"))
	// Long labels are real questions even when they start with a skip word.
	assert.False(t, skipShortGenericLabel("Other languages you are fluent in"))
	assert.False(t, skipShortGenericLabel("First Name"))
}
