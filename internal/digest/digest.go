// Package digest renders the weekly claims report.
//
// Output is a pure function of its inputs: the same claims, range and
// generation date always produce byte-identical text.
package digest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/roach88/microclaims/internal/claim"
)

const (
	title       = "# Micro-Claims Weekly Digest"
	tableHeader = "| ID | Date | Type | Severity | Status | Description | Outcome |"
	tableRule   = "|---|---|---|---|---|---|---|"

	// rowTimeLayout renders created_at to minute precision.
	rowTimeLayout = "2006-01-02T15:04"
)

// Generate renders the digest for claims over [from, to].
//
// Rows appear in the order given; callers pass the result of a List call.
// Lines are joined with "\n" and the text has no trailing newline.
func Generate(claims []claim.Claim, from, to, generatedAt time.Time) string {
	byStatus := make(map[claim.Status]int)
	bySeverity := make(map[claim.Severity]int)
	byType := make(map[claim.Type]int)
	for _, c := range claims {
		byStatus[c.Status]++
		bySeverity[c.Severity]++
		byType[c.Type]++
	}

	lines := []string{
		title,
		"Generated: " + generatedAt.Format(claim.DateLayout),
		fmt.Sprintf("Range: %s to %s", from.Format(claim.DateLayout), to.Format(claim.DateLayout)),
		"",
		"## Summary",
		fmt.Sprintf("- Total Claims: %d", len(claims)),
		"- By Status:",
	}
	for _, s := range claim.Statuses() {
		lines = append(lines, countLine(s.String(), byStatus[s]))
	}
	lines = append(lines, "- By Severity:")
	for _, s := range claim.Severities() {
		lines = append(lines, countLine(s.String(), bySeverity[s]))
	}
	lines = append(lines, "- By Type:")
	for _, t := range claim.Types() {
		lines = append(lines, countLine(t.String(), byType[t]))
	}

	lines = append(lines, "", "## Claims List", tableHeader, tableRule)
	for _, c := range claims {
		lines = append(lines, row(c))
	}

	return strings.Join(lines, "\n")
}

// Write renders the digest to w.
func Write(w io.Writer, claims []claim.Claim, from, to, generatedAt time.Time) error {
	_, err := io.WriteString(w, Generate(claims, from, to, generatedAt))
	return err
}

// Filename returns the conventional file name for a digest over [from, to].
func Filename(from, to time.Time) string {
	return fmt.Sprintf("claims_digest_%s_to_%s.md", from.Format(claim.DateLayout), to.Format(claim.DateLayout))
}

func countLine(label string, n int) string {
	return fmt.Sprintf("  - %s: %d", label, n)
}

func row(c claim.Claim) string {
	return fmt.Sprintf("| %d | %s | %s | %s | %s | %s | %s |",
		c.ID,
		c.CreatedAt.Format(rowTimeLayout),
		c.Type,
		c.Severity,
		c.Status,
		cellText(c.Description),
		outcomeCell(c),
	)
}

var cellReplacer = strings.NewReplacer("\n", " ", "\r", " ", "|", " ")

// cellText keeps a value on one table row.
func cellText(s string) string {
	return cellReplacer.Replace(s)
}

// outcomeCell is the outcome label followed by the note in parentheses.
// An empty note is omitted.
func outcomeCell(c claim.Claim) string {
	out := c.ResolutionOutcome.String()
	if c.ResolvedNote != nil && *c.ResolvedNote != "" {
		out += fmt.Sprintf(" (%s)", cellText(*c.ResolvedNote))
	}
	return out
}
