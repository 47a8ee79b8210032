package digest

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/microclaims/internal/claim"
)

var (
	weekFrom    = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	weekTo      = time.Date(2024, 1, 7, 23, 59, 59, 999999000, time.UTC)
	generatedOn = time.Date(2024, 1, 8, 7, 30, 0, 0, time.UTC)
)

func newGoldie(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

// sampleClaims is newest first, as List returns them.
func sampleClaims() []claim.Claim {
	return []claim.Claim{
		{
			ID:                4,
			ClaimUUID:         "d",
			CreatedAt:         time.Date(2024, 1, 5, 16, 45, 12, 0, time.UTC),
			Type:              claim.Safety,
			Severity:          claim.High,
			Status:            claim.Resolved,
			ResolvedAt:        timePtr(time.Date(2024, 1, 6, 8, 0, 0, 0, time.UTC)),
			Description:       "Strap snapped\nduring unload | nobody hurt",
			ResolutionOutcome: claim.Valid,
			ResolvedNote:      strPtr("replaced strap"),
		},
		{
			ID:           3,
			ClaimUUID:    "c",
			CreatedAt:    time.Date(2024, 1, 4, 9, 5, 0, 0, time.UTC),
			Type:         claim.MissingKit,
			Severity:     claim.Medium,
			Status:       claim.Open,
			Description:  "No ramp kit on truck 12",
			ResolvedNote: strPtr("was reopened"),
		},
		{
			ID:                2,
			ClaimUUID:         "b",
			CreatedAt:         time.Date(2024, 1, 3, 14, 0, 59, 0, time.UTC),
			Type:              claim.Shortage,
			Severity:          claim.Low,
			Status:            claim.Resolved,
			ResolvedAt:        timePtr(time.Date(2024, 1, 3, 15, 0, 0, 0, time.UTC)),
			Description:       "Two cases short",
			ResolutionOutcome: claim.Invalid,
		},
		{
			ID:          1,
			ClaimUUID:   "a",
			CreatedAt:   time.Date(2024, 1, 2, 8, 30, 0, 0, time.UTC),
			Type:        claim.Damage,
			Severity:    claim.High,
			Status:      claim.InReview,
			Description: "Crushed pallet",
		},
	}
}

func TestGenerate_Golden(t *testing.T) {
	got := Generate(sampleClaims(), weekFrom, weekTo, generatedOn)
	newGoldie(t).Assert(t, "weekly_digest", []byte(got))
}

func TestGenerate_EmptyRangeGolden(t *testing.T) {
	got := Generate(nil, weekFrom, weekTo, generatedOn)
	newGoldie(t).Assert(t, "empty_digest", []byte(got))
}

func TestGenerate_Deterministic(t *testing.T) {
	first := Generate(sampleClaims(), weekFrom, weekTo, generatedOn)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Generate(sampleClaims(), weekFrom, weekTo, generatedOn))
	}
}

func TestGenerate_NoTrailingNewline(t *testing.T) {
	got := Generate(sampleClaims(), weekFrom, weekTo, generatedOn)
	assert.False(t, strings.HasSuffix(got, "\n"))
	assert.True(t, strings.HasSuffix(got, "| 1 | 2024-01-02T08:30 | Damage | High | In Review | Crushed pallet |  |"))
}

func TestGenerate_RowsKeepInputOrder(t *testing.T) {
	claims := sampleClaims()
	claims[0], claims[3] = claims[3], claims[0]

	lines := strings.Split(Generate(claims, weekFrom, weekTo, generatedOn), "\n")
	rows := lines[len(lines)-4:]
	assert.True(t, strings.HasPrefix(rows[0], "| 1 |"))
	assert.True(t, strings.HasPrefix(rows[3], "| 4 |"))
}

func TestGenerate_DescriptionStaysOnOneRow(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"newline", "a\nb", "a b"},
		{"carriage return", "a\rb", "a b"},
		{"crlf", "a\r\nb", "a  b"},
		{"pipe", "a|b", "a b"},
		{"plain", "nothing odd", "nothing odd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := claim.Claim{ID: 1, CreatedAt: weekFrom, Type: claim.Other, Severity: claim.Low, Status: claim.Open, Description: tt.in}
			lines := strings.Split(Generate([]claim.Claim{c}, weekFrom, weekTo, generatedOn), "\n")
			last := lines[len(lines)-1]
			assert.Equal(t, "| 1 | 2024-01-01T00:00 | Other | Low | Open | "+tt.want+" |  |", last)
		})
	}
}

func TestGenerate_OutcomeCell(t *testing.T) {
	tests := []struct {
		name    string
		outcome claim.Outcome
		note    *string
		want    string
	}{
		{"neither", 0, nil, ""},
		{"outcome only", claim.Valid, nil, "Valid"},
		{"note only", 0, strPtr("kept after reopen"), " (kept after reopen)"},
		{"both", claim.Invalid, strPtr("duplicate"), "Invalid (duplicate)"},
		{"empty note", claim.Valid, strPtr(""), "Valid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := claim.Claim{ResolutionOutcome: tt.outcome, ResolvedNote: tt.note}
			assert.Equal(t, tt.want, outcomeCell(c))
		})
	}
}

func TestGenerate_SummaryCounts(t *testing.T) {
	got := Generate(sampleClaims(), weekFrom, weekTo, generatedOn)

	for _, line := range []string{
		"- Total Claims: 4",
		"  - Open: 1",
		"  - In Review: 1",
		"  - Resolved: 2",
		"  - Low: 1",
		"  - Med: 1",
		"  - High: 2",
		"  - Missing Kit: 1",
	} {
		assert.Contains(t, got, line+"\n")
	}
}

func TestWrite_MatchesGenerate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleClaims(), weekFrom, weekTo, generatedOn))
	assert.Equal(t, Generate(sampleClaims(), weekFrom, weekTo, generatedOn), buf.String())
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "claims_digest_2024-01-01_to_2024-01-07.md", Filename(weekFrom, weekTo))
}
