package reconcile

import (
	"fmt"
	"strings"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/errors"
	"github.com/agentstation/eventmap/pkg/events"
)

// IssueKind classifies a consistency issue.
type IssueKind string

// Issue kinds reported by Check.
const (
	IssueNonCanonical      IssueKind = "non_canonical_country"
	IssueUnknownCountry    IssueKind = "unknown_country"
	IssueCodeMismatch      IssueKind = "code_mismatch"
	IssueDuplicate         IssueKind = "duplicate"
	IssueUndefinedCategory IssueKind = "undefined_category"
	IssueStaleDecade       IssueKind = "stale_decade"
)

// Severity tells whether an issue is something a pass would fix (error) or
// something only a person can decide (warning).
type Severity string

// Issue severities.
const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one consistency problem found in a collection.
type Issue struct {
	Kind     IssueKind `json:"kind" yaml:"kind"`
	Severity Severity  `json:"severity" yaml:"severity"`
	EventID  string    `json:"event_id,omitempty" yaml:"event_id,omitempty"`
	Index    int       `json:"index" yaml:"index"`
	Message  string    `json:"message" yaml:"message"`
}

// Report is the outcome of Check.
type Report struct {
	Events    int     `json:"events" yaml:"events"`
	Countries int     `json:"countries" yaml:"countries"`
	Issues    []Issue `json:"issues" yaml:"issues"`
}

// OK reports whether the collection has no error-level issues.
func (r *Report) OK() bool {
	return len(r.Errors()) == 0
}

// Errors returns the error-level issues.
func (r *Report) Errors() []Issue {
	return r.filter(SeverityError)
}

// Warnings returns the warning-level issues.
func (r *Report) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(s Severity) []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Severity == s {
			out = append(out, is)
		}
	}
	return out
}

// Err returns a ConsistencyError listing the error-level issues, or nil.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, is := range errs {
		msgs[i] = is.Message
	}
	return errors.NewConsistencyError(msgs)
}

// Check reports where collection deviates from what a reconciliation pass
// would produce, without modifying it.
//
// Errors: country names that resolve to a different canonical name, stale
// decades and duplicate keys. Warnings: unknown countries, codes that differ
// from the ISO code, and categories without a definition.
func Check(collection *events.Collection, idx *countries.Index) *Report {
	report := &Report{}
	if collection == nil {
		return report
	}
	report.Events = len(collection.Events)

	add := func(kind IssueKind, sev Severity, i int, rec *events.Record, format string, args ...any) {
		report.Issues = append(report.Issues, Issue{
			Kind:     kind,
			Severity: sev,
			EventID:  rec.ID,
			Index:    i,
			Message:  fmt.Sprintf("event %s: ", label(rec, i)) + fmt.Sprintf(format, args...),
		})
	}

	names := make(map[string]struct{})
	seen := make(map[string]int)
	for i, rec := range collection.Events {
		if rec == nil {
			continue
		}
		name := strings.TrimSpace(rec.CountryName)
		names[name] = struct{}{}

		canon, ok := idx.Resolve(name)
		switch {
		case !ok:
			add(IssueUnknownCountry, SeverityWarning, i, rec, "country %q matches no definition", name)
		case canon.Name != rec.CountryName:
			add(IssueNonCanonical, SeverityError, i, rec, "country %q is not canonical, expected %q", rec.CountryName, canon.Name)
		default:
			code := strings.ToUpper(strings.TrimSpace(rec.CountryCode))
			if canon.ISOCode != "" && code != canon.ISOCode {
				add(IssueCodeMismatch, SeverityWarning, i, rec, "country code %q differs from %q", rec.CountryCode, canon.ISOCode)
			}
		}

		if decade, ok := rec.Year.Decade(); ok && decade != rec.Decade {
			add(IssueStaleDecade, SeverityError, i, rec, "decade %q does not match year %s", rec.Decade, rec.Year)
		}

		if rec.Category != "" {
			if _, ok := collection.Categories[rec.Category]; !ok {
				add(IssueUndefinedCategory, SeverityWarning, i, rec, "category %q is not defined", rec.Category)
			}
		}

		key := rec.DuplicateKey()
		if first, dup := seen[key]; dup {
			add(IssueDuplicate, SeverityError, i, rec, "duplicates %s (%s)", label(collection.Events[first], first), key)
		} else {
			seen[key] = i
		}
	}
	report.Countries = len(names)
	return report
}

func label(rec *events.Record, i int) string {
	if rec.ID != "" {
		return rec.ID
	}
	return fmt.Sprintf("#%d", i)
}
