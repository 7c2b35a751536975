package services

import (
	"regexp"
	"strings"
)

// ProfileKeys is the fixed set of personal-data keys a form field can be
// prefilled from. fullName and currentCompanyAndRole are derived at read time
// (see models.Profile.Value), not stored directly.
var ProfileKeys = []string{
	"firstName", "lastName", "fullName", "email", "phone",
	"yearsExperience", "linkedin", "currentCompany", "currentRole", "currentCompanyAndRole",
	"currentSalary", "currentCGPA", "tenthPercentage", "tenthBoard", "tenthStream",
	"twelfthPercentage", "twelfthBoard", "twelfthStream", "rollNumber",
	"age", "gender", "institute", "degree", "branch",
}

var (
	labelSepRe   = regexp.MustCompile(`[\s_\-.]+`)
	labelPunctRe = regexp.MustCompile(`[^\w\s]`)
)

// NormalizeLabel prepares a label/placeholder/name for mapping lookups:
// lowercase, separators become spaces, punctuation is dropped.
func NormalizeLabel(s string) string {
	s = strings.ToLower(s)
	s = labelSepRe.ReplaceAllString(s, " ")
	s = labelPunctRe.ReplaceAllString(s, "")
	s = spacesRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// labelRule maps label patterns to a profile key. excludeIf vetoes a rule for
// labels that superficially match but ask for something else.
type labelRule struct {
	patterns  []string
	key       string
	excludeIf func(norm string) bool
}

var (
	companyQuestionRe = regexp.MustCompile(`\b(tell about|describe|explain|tell us about)\b`)
	companyProjectRe  = regexp.MustCompile(`\b(project|tech stack|experience in your)\b`)
	companyWordRe     = regexp.MustCompile(`\bcompany\b`)
	ageOnlyRe         = regexp.MustCompile(`^(age|your age|dob|date of birth)$`)
	schoolYearRe      = regexp.MustCompile(`10th|12th|tenth|twelfth|percentage|diploma`)
)

// Rule order matters: specific patterns (first name, institute) come before
// generic ones ("name").
var labelRules = []labelRule{
	{patterns: []string{"first name", "firstname", "given name", "fname", "applicant first"}, key: "firstName"},
	{patterns: []string{"last name", "lastname", "family name", "surname", "lname", "applicant last"}, key: "lastName"},
	{patterns: []string{"name of institute", "name of university", "institute", "university", "college", "institute name", "university name", "college name", "name of your institute", "name of your university", "institute university final degree", "name of institute university final degree", "final degree institute", "final degree university"}, key: "institute"},
	{patterns: []string{"degree", "qualification", "course", "degree name", "graduation", "highest qualification", "highest educational qualification", "educational qualification"}, key: "degree"},
	{patterns: []string{"branch", "branch name", "specialization", "department", "stream", "branch specialization"}, key: "branch"},
	{patterns: []string{"full name", "name", "applicant name", "your name", "candidate name"}, key: "fullName"},
	{patterns: []string{"email", "e mail", "email address", "e-mail", "work email", "primary email", "applicant email"}, key: "email"},
	{patterns: []string{"phone", "telephone", "mobile", "cell", "phone number", "work phone", "primary phone", "contact number"}, key: "phone"},
	{patterns: []string{"years of experience", "years experience", "experience years", "yoe", "years in", "how many years"}, key: "yearsExperience"},
	{patterns: []string{"linkedin", "linked in", "linkedin url", "linkedin profile"}, key: "linkedin"},
	{patterns: []string{"current company name role", "current company role", "company name role", "current company and role", "company and role in it"}, key: "currentCompanyAndRole"},
	{
		patterns: []string{"current company", "current employer", "company name", "employer", "organization"},
		key:      "currentCompany",
		// Long questions about experience/projects at the company want a
		// generated answer, not the bare company name.
		excludeIf: func(n string) bool {
			return len(n) > 50 || companyQuestionRe.MatchString(n) ||
				(companyProjectRe.MatchString(n) && companyWordRe.MatchString(n))
		},
	},
	{patterns: []string{"current role", "role", "designation", "job title", "position", "role in it"}, key: "currentRole"},
	{
		patterns:  []string{"current salary", "current ctc", "ctc", "salary", "current compensation", "annual salary", "expected ctc", "expected salary", "current package", "salary expectation"},
		key:       "currentSalary",
		excludeIf: func(n string) bool { return ageOnlyRe.MatchString(n) },
	},
	{patterns: []string{"current cgpa", "cgpa", "current gpa", "gpa"}, key: "currentCGPA"},
	{patterns: []string{"age", "your age", "date of birth", "dob"}, key: "age", excludeIf: func(n string) bool { return schoolYearRe.MatchString(n) }},
	{patterns: []string{"10th percentage", "10th %", "tenth percentage", "tenth %", "class 10 percentage", "10 percentage"}, key: "tenthPercentage", excludeIf: func(n string) bool { return ageOnlyRe.MatchString(n) }},
	{patterns: []string{"10th board", "tenth board", "class 10 board", "10 board"}, key: "tenthBoard"},
	{patterns: []string{"10th stream", "tenth stream", "class 10 stream", "10 stream"}, key: "tenthStream"},
	{patterns: []string{"12th percentage", "12th %", "twelfth percentage", "twelfth %", "class 12 percentage", "12 percentage", "12 diploma", "12% diploma", "diploma %", "diploma percentage"}, key: "twelfthPercentage"},
	{patterns: []string{"12th board", "twelfth board", "class 12 board", "12 board"}, key: "twelfthBoard"},
	{patterns: []string{"12th stream", "twelfth stream", "class 12 stream", "12 stream"}, key: "twelfthStream"},
	{patterns: []string{"roll number", "roll no"}, key: "rollNumber"},
	{patterns: []string{"gender", "sex", "male female"}, key: "gender"},
}

// ProfileKeyForLabel maps a form label to the profile key it can be prefilled
// from. Returns ok=false when the label matches no rule (the field needs a
// generated answer instead).
func ProfileKeyForLabel(labelText string) (string, bool) {
	n := NormalizeLabel(labelText)
	if n == "" {
		return "", false
	}
	for _, rule := range labelRules {
		if rule.excludeIf != nil && rule.excludeIf(n) {
			continue
		}
		for _, p := range rule.patterns {
			if n == p || strings.Contains(n, p) || strings.Contains(p, n) {
				return rule.key, true
			}
		}
	}
	return "", false
}

// Phrases that suggest an open-ended / essay question.
var aiQuestionPatterns = []string{
	"tell me about", "describe", "explain", "why do you", "what is your",
	"how did you", "share an example", "tell us about", "walk me through",
	"project", "experience", "accomplishment", "challenge", "motivation",
	"interest", "goals", "cover letter", "additional", "anything else",
	"summary", "introduce yourself", "about yourself", "background",
	"why us", "why company", "why this role", "letter", "comments",
	"other", "question", "anything", "message", "bio", "story",
}

// LooksLikeAIQuestion reports whether the label reads like an open-ended
// question that needs generated text.
func LooksLikeAIQuestion(labelText string) bool {
	n := NormalizeLabel(labelText)
	if n == "" {
		return false
	}
	for _, p := range aiQuestionPatterns {
		if strings.Contains(n, p) {
			return true
		}
	}
	return false
}

// ShouldTryAI reports whether a free-text field with no profile mapping is
// worth a generation attempt at all.
func ShouldTryAI(labelText, tagName, placeholder string) bool {
	text := strings.TrimSpace(labelText)
	if text == "" {
		text = strings.TrimSpace(placeholder)
	}
	if text == "" {
		return false
	}
	n := NormalizeLabel(text)
	if n == "" {
		return false
	}
	// Textareas are almost always open-ended.
	if strings.EqualFold(tagName, "textarea") {
		return true
	}
	if LooksLikeAIQuestion(text) {
		return true
	}
	// Longer labels tend to be real questions.
	return len(n) >= 15
}
