package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/MegaGrindStone/lms-chatbot/internal/models"
	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PDFSummarizer summarizes PDF documents by extracting their text, splitting it into chunks and asking
// the assistant for a concise summary of every chunk.
type PDFSummarizer struct {
	assistant Assistant
	maxPages  int
	chunkSize int

	logger *zap.Logger
}

const (
	defaultMaxPages  = 50
	defaultChunkSize = 1000
)

// ErrNoText is returned when a document contains no extractable text.
var ErrNoText = errors.New("no text content found in PDF")

// NewPDFSummarizer creates a PDFSummarizer reading at most maxPages pages and sending chunkSize
// characters per chunk. Zero values select 50 pages and 1000 characters.
func NewPDFSummarizer(assistant Assistant, maxPages, chunkSize int, logger *zap.Logger) PDFSummarizer {
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return PDFSummarizer{
		assistant: assistant,
		maxPages:  maxPages,
		chunkSize: chunkSize,
		logger:    logger.With(zap.String("module", "pdf")),
	}
}

// Summarize summarizes the PDF document of the given size read from r.
func (p PDFSummarizer) Summarize(ctx context.Context, r io.ReaderAt, size int64) (string, error) {
	text, err := p.ExtractText(r, size)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}

	chunks := ChunkText(text, p.chunkSize)
	p.logger.Debug("Summarizing document", zap.Int("chunks", len(chunks)))

	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		summaries = append(summaries, p.assistant.Answer(ctx,
			"Please summarize this text concisely: "+chunk, models.RoleStudent, nil))
	}

	return strings.Join(summaries, " "), nil
}

// ExtractText returns the plain text of the first pages of the document, joined by spaces.
func (p PDFSummarizer) ExtractText(r io.ReaderAt, size int64) (string, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to read PDF: %w", err)
	}

	pages := min(doc.NumPage(), p.maxPages)
	texts := make([]string, 0, pages)
	for i := 1; i <= pages; i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		texts = append(texts, text)
	}

	return strings.Join(texts, " "), nil
}

// ChunkText splits text into consecutive chunks of at most size characters. Characters are counted as
// runes, so multi-byte characters are never split.
func ChunkText(text string, size int) []string {
	if size <= 0 {
		size = defaultChunkSize
	}
	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
