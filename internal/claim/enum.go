package claim

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// enumDef describes one closed enumeration.
// Index 0 of labels and names is the unset value.
type enumDef struct {
	kind   string
	labels []string // persisted/rendered form
	names  []string // Go identifier form
}

func (e enumDef) valid(v int) bool {
	return v > 0 && v < len(e.labels)
}

func (e enumDef) label(v int) string {
	if !e.valid(v) {
		return fmt.Sprintf("%s(%d)", e.kind, v)
	}
	return e.labels[v]
}

// parse accepts a label or a Go name, ignoring case and surrounding space.
func (e enumDef) parse(s string) (int, error) {
	s = strings.TrimSpace(s)
	for i := 1; i < len(e.labels); i++ {
		if strings.EqualFold(s, e.labels[i]) || strings.EqualFold(s, e.names[i]) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownValue, e.kind, s)
}

func (e enumDef) scan(src any) (int, error) {
	switch v := src.(type) {
	case nil:
		return 0, nil
	case string:
		return e.parse(v)
	case []byte:
		return e.parse(string(v))
	default:
		return 0, fmt.Errorf("scan %s: unsupported source type %T", e.kind, src)
	}
}

func (e enumDef) value(v int) (driver.Value, error) {
	if v == 0 {
		return nil, nil
	}
	if !e.valid(v) {
		return nil, fmt.Errorf("%w: %s(%d)", ErrUnknownValue, e.kind, v)
	}
	return e.labels[v], nil
}

func (e enumDef) marshal(v int) ([]byte, error) {
	if v == 0 {
		return []byte{}, nil
	}
	if !e.valid(v) {
		return nil, fmt.Errorf("%w: %s(%d)", ErrUnknownValue, e.kind, v)
	}
	return []byte(e.labels[v]), nil
}

func (e enumDef) unmarshal(text []byte) (int, error) {
	if len(text) == 0 {
		return 0, nil
	}
	return e.parse(string(text))
}

// Type is the category of incident a claim reports.
type Type int

const (
	Damage Type = iota + 1
	Shortage
	MissingKit
	Safety
	Other
)

var typeDef = enumDef{
	kind:   "type",
	labels: []string{"", "Damage", "Shortage", "Missing Kit", "Safety", "Other"},
	names:  []string{"", "Damage", "Shortage", "MissingKit", "Safety", "Other"},
}

// Types returns every Type in declaration order.
func Types() []Type {
	return []Type{Damage, Shortage, MissingKit, Safety, Other}
}

// ParseType parses a type label or name.
func ParseType(s string) (Type, error) {
	v, err := typeDef.parse(s)
	return Type(v), err
}

func (t Type) String() string { return typeDef.label(int(t)) }
func (t Type) Known() bool { return typeDef.valid(int(t)) }
func (t Type) Value() (driver.Value, error) { return typeDef.value(int(t)) }
func (t Type) MarshalText() ([]byte, error) { return typeDef.marshal(int(t)) }
func (t *Type) UnmarshalText(text []byte) error {
	v, err := typeDef.unmarshal(text)
	return assign(t, v, err)
}

func (t *Type) Scan(src any) error {
	v, err := typeDef.scan(src)
	return assign(t, v, err)
}

// Severity ranks how serious a claim is.
type Severity int

const (
	Low Severity = iota + 1
	Medium
	High
)

var severityDef = enumDef{
	kind:   "severity",
	labels: []string{"", "Low", "Med", "High"},
	names:  []string{"", "Low", "Medium", "High"},
}

// Severities returns every Severity in declaration order.
func Severities() []Severity {
	return []Severity{Low, Medium, High}
}

// ParseSeverity parses a severity label or name.
func ParseSeverity(s string) (Severity, error) {
	v, err := severityDef.parse(s)
	return Severity(v), err
}

func (s Severity) String() string { return severityDef.label(int(s)) }
func (s Severity) Known() bool { return severityDef.valid(int(s)) }
func (s Severity) Value() (driver.Value, error) { return severityDef.value(int(s)) }
func (s Severity) MarshalText() ([]byte, error) { return severityDef.marshal(int(s)) }
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := severityDef.unmarshal(text)
	return assign(s, v, err)
}

func (s *Severity) Scan(src any) error {
	v, err := severityDef.scan(src)
	return assign(s, v, err)
}

// Status is the lifecycle position of a claim.
type Status int

const (
	Open Status = iota + 1
	InReview
	Resolved
)

var statusDef = enumDef{
	kind:   "status",
	labels: []string{"", "Open", "In Review", "Resolved"},
	names:  []string{"", "Open", "InReview", "Resolved"},
}

// Statuses returns every Status in declaration order.
func Statuses() []Status {
	return []Status{Open, InReview, Resolved}
}

// ParseStatus parses a status label or name.
func ParseStatus(s string) (Status, error) {
	v, err := statusDef.parse(s)
	return Status(v), err
}

func (s Status) String() string { return statusDef.label(int(s)) }
func (s Status) Known() bool { return statusDef.valid(int(s)) }
func (s Status) Value() (driver.Value, error) { return statusDef.value(int(s)) }
func (s Status) MarshalText() ([]byte, error) { return statusDef.marshal(int(s)) }
func (s *Status) UnmarshalText(text []byte) error {
	v, err := statusDef.unmarshal(text)
	return assign(s, v, err)
}

func (s *Status) Scan(src any) error {
	v, err := statusDef.scan(src)
	return assign(s, v, err)
}

// Outcome is the verdict recorded when a claim is resolved.
// The zero value means no outcome, which is stored as NULL.
type Outcome int

const (
	Valid Outcome = iota + 1
	Invalid
)

var outcomeDef = enumDef{
	kind:   "outcome",
	labels: []string{"", "Valid", "Invalid"},
	names:  []string{"", "Valid", "Invalid"},
}

// Outcomes returns every Outcome in declaration order.
func Outcomes() []Outcome {
	return []Outcome{Valid, Invalid}
}

// ParseOutcome parses an outcome label or name.
func ParseOutcome(s string) (Outcome, error) {
	v, err := outcomeDef.parse(s)
	return Outcome(v), err
}

// String returns the label, or "" when no outcome is set.
func (o Outcome) String() string {
	if o == 0 {
		return ""
	}
	return outcomeDef.label(int(o))
}

func (o Outcome) Known() bool { return outcomeDef.valid(int(o)) }
func (o Outcome) Value() (driver.Value, error) { return outcomeDef.value(int(o)) }
func (o Outcome) MarshalText() ([]byte, error) { return outcomeDef.marshal(int(o)) }
func (o *Outcome) UnmarshalText(text []byte) error {
	v, err := outcomeDef.unmarshal(text)
	return assign(o, v, err)
}

func (o *Outcome) Scan(src any) error {
	v, err := outcomeDef.scan(src)
	return assign(o, v, err)
}

// assign stores v into dst only when parsing succeeded.
func assign[T ~int](dst *T, v int, err error) error {
	if err != nil {
		return err
	}
	*dst = T(v)
	return nil
}
