package chunking

import (
	"regexp"
	"strings"

	"github.com/skute123/genai-defect-management/internal/domain/knowledge"
)

var headerRe = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

// Chunker splits markdown documents into overlapping word windows,
// keeping section headings as search metadata
type Chunker struct {
	chunkSize int // words per chunk
	overlap   int // words carried into the next chunk
}

// NewChunker creates a chunker. Zero values fall back to 500/50.
func NewChunker(chunkSize, overlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 50
	}
	return &Chunker{chunkSize: chunkSize, overlap: overlap}
}

type section struct {
	heading string
	content string
}

// ChunkDocument splits one markdown document into indexed chunks
func (c *Chunker) ChunkDocument(filename, content string) []knowledge.DocumentChunk {
	title := documentTitle(filename, content)
	sections := splitSections(content)

	var chunks []knowledge.DocumentChunk
	index := 0
	for _, sec := range sections {
		words := strings.Fields(sec.content)
		if len(words) == 0 {
			continue
		}

		step := c.chunkSize - c.overlap
		for start := 0; start < len(words); start += step {
			end := start + c.chunkSize
			if end > len(words) {
				end = len(words)
			}
			text := strings.Join(words[start:end], " ")
			chunks = append(chunks, knowledge.NewDocumentChunk(filename, title, sec.heading, text, index))
			index++
			if end == len(words) {
				break
			}
		}
	}
	return chunks
}

// splitSections breaks content at markdown headings. Text before the
// first heading becomes an unnamed leading section.
func splitSections(content string) []section {
	lines := strings.Split(content, "\n")

	var sections []section
	current := section{}
	var body []string

	flush := func() {
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" || current.heading != "" {
			current.content = text
			sections = append(sections, current)
		}
		body = body[:0]
	}

	for _, line := range lines {
		if m := headerRe.FindStringSubmatch(line); m != nil {
			flush()
			current = section{heading: strings.TrimSpace(m[2])}
			continue
		}
		body = append(body, line)
	}
	flush()
	return sections
}

// documentTitle prefers the first H1, then falls back to the filename
func documentTitle(filename, content string) string {
	for _, line := range strings.Split(content, "\n") {
		m := headerRe.FindStringSubmatch(line)
		if m != nil && len(m[1]) == 1 {
			return strings.TrimSpace(m[2])
		}
	}
	name := filename
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".md")
}
