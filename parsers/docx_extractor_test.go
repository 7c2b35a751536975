package parsers

import (
	"path/filepath"
	"testing"

	"baliance.com/gooxml/document"
	"github.com/stretchr/testify/assert"
)

func writeDocx(t *testing.T, paragraphs []string) string {
	t.Helper()
	doc := document.New()
	for _, p := range paragraphs {
		doc.AddParagraph().AddRun().AddText(p)
	}
	path := filepath.Join(t.TempDir(), "resume.docx")
	assert.NoError(t, doc.SaveToFile(path))
	return path
}

func TestDocxExtractor_ExtractText(t *testing.T) {
	path := writeDocx(t, []string{
		"Ada Lovelace",
		"",
		"Software Engineer with 5 years of experience.",
	})

	text, err := NewDocxExtractor().ExtractText(path)
	assert.NoError(t, err)
	assert.Equal(t, "Ada Lovelace\nSoftware Engineer with 5 years of experience.", text)
}

func TestDocxExtractor_EmptyDocument(t *testing.T) {
	path := writeDocx(t, nil)

	_, err := NewDocxExtractor().ExtractText(path)
	assert.Error(t, err)
}

func TestDocxExtractor_MissingFile(t *testing.T) {
	_, err := NewDocxExtractor().ExtractText(filepath.Join(t.TempDir(), "nope.docx"))
	assert.Error(t, err)
}
