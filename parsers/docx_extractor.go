package parsers

import (
	"fmt"
	"strings"

	"baliance.com/gooxml/document"
)

// DocxExtractor pulls plain text out of .docx resumes so the answer
// generator can ground on it.
type DocxExtractor struct{}

func NewDocxExtractor() *DocxExtractor {
	return &DocxExtractor{}
}

// ExtractText reads every paragraph of the document, one line per
// paragraph, skipping empty ones.
func (e *DocxExtractor) ExtractText(filePath string) (string, error) {
	doc, err := document.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open document: %v", err)
	}

	var sb strings.Builder
	for _, para := range doc.Paragraphs() {
		var line strings.Builder
		for _, run := range para.Runs() {
			line.WriteString(run.Text())
		}
		if t := strings.TrimSpace(line.String()); t != "" {
			sb.WriteString(t)
			sb.WriteString("\n")
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("no text found in document")
	}
	return text, nil
}
