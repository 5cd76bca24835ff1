// Package report assembles the session's accumulated lookup results
// into a downloadable document. The dialogue core hands over plain
// data and knows nothing about the document format.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
	"github.com/google/uuid"
)

// Document is one assembled report payload.
type Document struct {
	ID          string
	Filename    string
	ContentType string
	Data        []byte
}

// Assembler builds a document from accumulated results. Either list
// may be empty.
type Assembler interface {
	Build(model, serial3 string, codes []domain.FaultCodeRecord, events []domain.EventRecord) (*Document, error)
}

// TextAssembler renders a plain-text diagnostic summary.
type TextAssembler struct{}

// NewTextAssembler creates the default plain-text assembler.
func NewTextAssembler() *TextAssembler {
	return &TextAssembler{}
}

// Build renders the accumulated results as a plain-text report.
func (a *TextAssembler) Build(model, serial3 string, codes []domain.FaultCodeRecord, events []domain.EventRecord) (*Document, error) {
	id := uuid.NewString()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "CAT DIAGNOSTIC REPORT\n")
	fmt.Fprintf(&buf, "Report ID: %s\n", id)
	fmt.Fprintf(&buf, "Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Machine model: %s\n", model)
	fmt.Fprintf(&buf, "Serial prefix: %s\n\n", serial3)

	fmt.Fprintf(&buf, "FAULT CODES (%d)\n", len(codes))
	if len(codes) == 0 {
		buf.WriteString("  No fault codes resolved in this session.\n")
	}
	for i, c := range codes {
		fmt.Fprintf(&buf, "  %d. CID %s / FMI %s", i+1, c.CID, c.FMI)
		if c.Raw != "" {
			fmt.Fprintf(&buf, " (entered as %q)", c.Raw)
		}
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "     Description: %s\n", c.Description)
		fmt.Fprintf(&buf, "     Possible causes: %s\n", c.Causes)
		fmt.Fprintf(&buf, "     Reference: %s\n", c.URL)
	}
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "EVENTS (%d)\n", len(events))
	if len(events) == 0 {
		buf.WriteString("  No events resolved in this session.\n")
	}
	for i, e := range events {
		fmt.Fprintf(&buf, "  %d. %s level %s", i+1, e.EID, e.Level)
		if e.Raw != "" {
			fmt.Fprintf(&buf, " (entered as %q)", e.Raw)
		}
		buf.WriteString("\n")
		fmt.Fprintf(&buf, "     Description: %s\n", e.WarningDescription)
		fmt.Fprintf(&buf, "     Reference: %s\n", e.URLMain)
	}

	return &Document{
		ID:          id,
		Filename:    fmt.Sprintf("diagnostic-report-%s.txt", time.Now().Format("20060102-150405")),
		ContentType: "text/plain; charset=utf-8",
		Data:        buf.Bytes(),
	}, nil
}
