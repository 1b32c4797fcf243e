package reconcile

import (
	"fmt"
	"sort"
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/eventmap/pkg/countries"
	"github.com/agentstation/eventmap/pkg/events"
)

// Result represents the outcome of a reconciliation pass.
type Result struct {
	// Collection is the reconciled collection, the same value that was passed in.
	Collection *events.Collection `json:"-" yaml:"-"`

	Statistics      Statistics            `json:"statistics" yaml:"statistics"`
	Merged          []MergedGroup         `json:"merged,omitempty" yaml:"merged,omitempty"`
	Unresolved      []Unresolved          `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Collisions      []countries.Collision `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	CategoriesAdded []string              `json:"categories_added,omitempty" yaml:"categories_added,omitempty"`

	Metadata ResultMetadata `json:"metadata" yaml:"metadata"`
}

// ResultMetadata contains metadata about the pass.
type ResultMetadata struct {
	PassID    string        `json:"pass_id" yaml:"pass_id"`
	StartTime utc.Time      `json:"start_time" yaml:"start_time"`
	EndTime   utc.Time      `json:"end_time" yaml:"end_time"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
}

// Statistics counts what a pass did.
type Statistics struct {
	EventsIn          int `json:"events_in" yaml:"events_in"`
	EventsOut         int `json:"events_out" yaml:"events_out"`
	CountriesRenamed  int `json:"countries_renamed" yaml:"countries_renamed"`
	NamesTrimmed      int `json:"names_trimmed" yaml:"names_trimmed"`
	CodesFilled       int `json:"codes_filled" yaml:"codes_filled"`
	CodesStandardized int `json:"codes_standardized" yaml:"codes_standardized"`
	DecadesUpdated    int `json:"decades_updated" yaml:"decades_updated"`
	DuplicatesRemoved int `json:"duplicates_removed" yaml:"duplicates_removed"`
	MergeOperations   int `json:"merge_operations" yaml:"merge_operations"`
	CategoriesAdded   int `json:"categories_added" yaml:"categories_added"`
}

// MergedGroup lists the records folded into one survivor.
type MergedGroup struct {
	Key        string   `json:"key" yaml:"key"`
	SurvivorID string   `json:"survivor_id" yaml:"survivor_id"`
	MergedIDs  []string `json:"merged_ids" yaml:"merged_ids"`
}

// Unresolved is a country name that matched no definition.
type Unresolved struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Changed reports whether the pass modified the collection.
func (r *Result) Changed() bool {
	s := r.Statistics
	return s.CountriesRenamed+s.NamesTrimmed+s.CodesFilled+s.CodesStandardized+
		s.DecadesUpdated+s.DuplicatesRemoved+s.MergeOperations+s.CategoriesAdded > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	s := r.Statistics
	if !r.Changed() {
		return fmt.Sprintf("Reconciliation completed. %d events, no changes.", s.EventsOut)
	}
	return fmt.Sprintf(
		"Reconciliation completed. %d → %d events: %d renamed, %d codes filled, %d codes standardized, %d decades updated, %d duplicates removed.",
		s.EventsIn, s.EventsOut, s.CountriesRenamed+s.NamesTrimmed, s.CodesFilled,
		s.CodesStandardized, s.DecadesUpdated, s.DuplicatesRemoved,
	)
}

func (s *Statistics) add(ch RecordChanges) {
	if ch.CountryRenamed {
		s.CountriesRenamed++
	}
	if ch.NameTrimmed {
		s.NamesTrimmed++
	}
	if ch.CodeFilled {
		s.CodesFilled++
	}
	if ch.CodeStandardized {
		s.CodesStandardized++
	}
	if ch.DecadeUpdated {
		s.DecadesUpdated++
	}
}

func newResult(passID string) *Result {
	return &Result{
		Metadata: ResultMetadata{
			PassID:    passID,
			StartTime: utc.Now(),
		},
	}
}

// finalize calculates duration and marks completion.
func (r *Result) finalize() {
	r.Metadata.EndTime = utc.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Time.Sub(r.Metadata.StartTime.Time)
}

func sortUnresolved(counts map[string]int) []Unresolved {
	out := make([]Unresolved, 0, len(counts))
	for name, n := range counts {
		out = append(out, Unresolved{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
