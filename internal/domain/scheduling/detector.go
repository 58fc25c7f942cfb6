// Package scheduling implements conflict detection for appointment windows.
// It is pure computation: no I/O, no logging, no clock reads. Date and time
// strings are naive wall-clock values; parsing anchors them in a fixed
// reference location and never converts between zones, matching how the
// agenda stores them.
package scheduling

import (
	"errors"
	"strings"
	"time"

	"github.com/saudehub/backend/internal/domain/entities"
)

// ErrInvalidDateTime signals a window that fails to parse or whose end is
// not strictly after its start. This is a validation failure, distinct from
// any conflict.
var ErrInvalidDateTime = errors.New("invalid datetime")

// DefaultTravelGapMinutes is the minimum transit time assumed between
// appointments at different addresses.
const DefaultTravelGapMinutes = 60

const windowLayout = "2006-01-02 15:04"

// Candidate is the window being checked. ExcludeID, when set, removes one
// event from the scan (used on updates so an event never conflicts with
// itself).
type Candidate struct {
	EventDate    string
	StartTime    string
	EndTime      string
	Professional string
	ExcludeID    string
}

// AddressLookup resolves a professional's address. nil means the
// professional is unknown or has no address on file.
type AddressLookup func(professional string) *string

// Result holds the two disjoint conflict lists. Slices are always non-nil;
// a clean candidate yields two empty lists.
type Result struct {
	Overlaps   []entities.Conflict `json:"overlapConflicts"`
	TravelGaps []entities.Conflict `json:"travelConflicts"`
}

// HasConflicts reports whether any conflict of either kind was found
func (r *Result) HasConflicts() bool {
	return len(r.Overlaps) > 0 || len(r.TravelGaps) > 0
}

// Detector checks candidate windows against existing events
type Detector struct {
	gap time.Duration
}

// NewDetector creates a detector with the given travel-gap threshold in
// minutes; non-positive values fall back to the default.
func NewDetector(gapMinutes int) *Detector {
	if gapMinutes <= 0 {
		gapMinutes = DefaultTravelGapMinutes
	}
	return &Detector{gap: time.Duration(gapMinutes) * time.Minute}
}

// Detect scans the existing events for overlap and travel-gap conflicts
// with the candidate window. Soft-deleted events, the excluded id and rows
// whose stored date/time fails to parse are skipped. An overlapping pair is
// never also reported as a travel-gap conflict.
func (d *Detector) Detect(candidate Candidate, existing []*entities.Event, lookup AddressLookup) (*Result, error) {
	candStart, candEnd, err := ParseWindow(candidate.EventDate, candidate.StartTime, candidate.EndTime)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Overlaps:   []entities.Conflict{},
		TravelGaps: []entities.Conflict{},
	}

	candAddr := resolveAddress(lookup, candidate.Professional)

	for _, ev := range existing {
		if !ev.Active() {
			continue
		}
		if candidate.ExcludeID != "" && ev.ID == candidate.ExcludeID {
			continue
		}

		otherStart, otherEnd, err := ParseWindow(ev.EventDate, ev.StartTime, ev.EndTime)
		if err != nil {
			// malformed historical rows must not break the scan
			continue
		}

		// half-open intervals [start, end)
		if candStart.Before(otherEnd) && candEnd.After(otherStart) {
			result.Overlaps = append(result.Overlaps, conflictFrom(ev, entities.ConflictKindOverlap, ""))
			continue
		}

		// same professional means same location, never a travel conflict
		if ev.Professional == candidate.Professional {
			continue
		}

		otherAddr := resolveAddress(lookup, ev.Professional)
		if sameAddress(candAddr, otherAddr) {
			continue
		}

		// gap boundary is inclusive: exactly gap minutes apart is clean
		if otherStart.Sub(candEnd) >= d.gap || candStart.Sub(otherEnd) >= d.gap {
			continue
		}

		addr := ""
		if otherAddr != nil {
			addr = *otherAddr
		}
		result.TravelGaps = append(result.TravelGaps, conflictFrom(ev, entities.ConflictKindTravelGap, addr))
	}

	return result, nil
}

// ParseWindow parses a naive date + time window into absolute instants.
// Dates longer than 10 characters (ISO timestamps) are truncated to their
// date part. Returns ErrInvalidDateTime on parse failure or end <= start.
func ParseWindow(date, start, end string) (time.Time, time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateTime
	}
	s, err := time.Parse(windowLayout, day.Format("2006-01-02")+" "+start)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateTime
	}
	e, err := time.Parse(windowLayout, day.Format("2006-01-02")+" "+end)
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidDateTime
	}
	if !e.After(s) {
		return time.Time{}, time.Time{}, ErrInvalidDateTime
	}
	return s, e, nil
}

// ParseDate parses a YYYY-MM-DD date, truncating ISO timestamps to their
// first 10 characters.
func ParseDate(date string) (time.Time, error) {
	if len(date) > 10 {
		date = date[:10]
	}
	return time.Parse("2006-01-02", date)
}

func resolveAddress(lookup AddressLookup, professional string) *string {
	if lookup == nil {
		return nil
	}
	return lookup(professional)
}

// sameAddress compares normalized addresses; a missing address on either
// side counts as different so a possible travel conflict is still flagged.
func sameAddress(a, b *string) bool {
	if a == nil || b == nil {
		return false
	}
	na := strings.ToLower(strings.TrimSpace(*a))
	nb := strings.ToLower(strings.TrimSpace(*b))
	if na == "" || nb == "" {
		return false
	}
	return na == nb
}

func conflictFrom(ev *entities.Event, kind entities.ConflictKind, address string) entities.Conflict {
	return entities.Conflict{
		EventID:      ev.ID,
		Kind:         kind,
		EventType:    ev.EventType,
		Professional: ev.Professional,
		EventDate:    ev.EventDate,
		StartTime:    ev.StartTime,
		EndTime:      ev.EndTime,
		Address:      address,
	}
}
