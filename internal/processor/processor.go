package processor

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// Processor converts event description HTML to Markdown.
type Processor struct{}

// New creates a new HTML to Markdown processor.
func New() *Processor {
	return &Processor{}
}

// Convert transforms an HTML fragment into Markdown.
func (p *Processor) Convert(htmlContent string) (string, error) {
	if strings.TrimSpace(htmlContent) == "" {
		return "", nil
	}

	markdown, err := htmltomarkdown.ConvertString(htmlContent)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(markdown), nil
}
