package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/roach88/microclaims/internal/claim"
)

const displayTimeLayout = "2006-01-02 15:04"

// describeClaim renders one claim as labelled lines.
func describeClaim(c claim.Claim) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Claim #%d (%s)\n", c.ID, c.ClaimUUID)
	fmt.Fprintf(&b, "  Type:        %s\n", c.Type)
	fmt.Fprintf(&b, "  Severity:    %s\n", c.Severity)
	fmt.Fprintf(&b, "  Status:      %s\n", c.Status)
	fmt.Fprintf(&b, "  Created:     %s\n", c.CreatedAt.Format(displayTimeLayout))
	fmt.Fprintf(&b, "  Updated:     %s\n", c.UpdatedAt.Format(displayTimeLayout))
	if c.ResolvedAt != nil {
		fmt.Fprintf(&b, "  Resolved:    %s\n", c.ResolvedAt.Format(displayTimeLayout))
	}
	if c.ResolutionOutcome != 0 {
		fmt.Fprintf(&b, "  Outcome:     %s\n", c.ResolutionOutcome)
	}
	if c.ResolvedNote != nil {
		fmt.Fprintf(&b, "  Note:        %s\n", *c.ResolvedNote)
	}
	if c.PhotoPath != nil {
		fmt.Fprintf(&b, "  Photo:       %s\n", *c.PhotoPath)
	}
	fmt.Fprintf(&b, "  Description: %s", c.Description)
	return b.String()
}

// writeClaimTable renders claims as aligned columns, one per line.
func writeClaimTable(w io.Writer, claims []claim.Claim) error {
	if len(claims) == 0 {
		_, err := fmt.Fprintln(w, "No claims found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tTYPE\tSEVERITY\tSTATUS\tDESCRIPTION")
	for _, c := range claims {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			c.ID,
			c.CreatedAt.Format(displayTimeLayout),
			c.Type,
			c.Severity,
			c.Status,
			truncate(oneLine(c.Description), 48),
		)
	}
	return tw.Flush()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func formatDate(t time.Time) string {
	return t.Format(claim.DateLayout)
}
