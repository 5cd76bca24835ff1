// Package maintenance holds the static preventive-maintenance catalog
// and its traversal. The catalog is pure data (catalog.go); nothing
// here mutates it at runtime.
package maintenance

import (
	"github.com/chatbotcat-dotcom/chatbot-cat/internal/domain"
)

// IntervalKey identifies a service checkpoint.
type IntervalKey string

const (
	IntervalDaily    IntervalKey = "daily"
	Interval50h      IntervalKey = "50h"
	Interval100h     IntervalKey = "100h"
	Interval250h     IntervalKey = "250h"
	Interval500h     IntervalKey = "500h"
	Interval1000h    IntervalKey = "1000h"
	Interval2000h    IntervalKey = "2000h"
	Interval3000h    IntervalKey = "3000h"
	Interval6000h    IntervalKey = "6000h"
	IntervalLongTerm IntervalKey = "long_term"
	IntervalSummary  IntervalKey = "summary"
)

// canonicalOrder fixes the relative ordering of interval keys. Menu
// numbering always follows this order, skipping keys a machine type
// does not define.
var canonicalOrder = []IntervalKey{
	IntervalDaily,
	Interval50h,
	Interval100h,
	Interval250h,
	Interval500h,
	Interval1000h,
	Interval2000h,
	Interval3000h,
	Interval6000h,
	IntervalLongTerm,
	IntervalSummary,
}

// TaskGroup is a titled list of service tasks.
type TaskGroup struct {
	Title string
	Tasks []string
}

// Interval is one service checkpoint with its grouped tasks.
type Interval struct {
	Key    IntervalKey
	Label  string
	Groups []TaskGroup
}

// Plan is the full preventive-maintenance catalog entry for one
// machine type.
type Plan struct {
	DisplayName   string
	ReferenceLink string
	intervals     map[IntervalKey]Interval
}

// menuOrder fixes which machine type each numeric menu choice maps to.
var menuOrder = []domain.MachineType{
	domain.MachineRoller,
	domain.MachineWheelLoader,
	domain.MachineExcavator,
	domain.MachineTractor,
}

// MachineTypes returns the machine types in menu order.
func MachineTypes() []domain.MachineType {
	out := make([]domain.MachineType, len(menuOrder))
	copy(out, menuOrder)
	return out
}

// DisplayName returns the human label for a machine type, or "" if the
// type is unknown.
func DisplayName(mt domain.MachineType) string {
	p, ok := catalog[mt]
	if !ok {
		return ""
	}
	return p.DisplayName
}

// ReferenceLink returns the catalog reference URL for a machine type.
func ReferenceLink(mt domain.MachineType) string {
	p, ok := catalog[mt]
	if !ok {
		return ""
	}
	return p.ReferenceLink
}

// Intervals returns the interval keys present for the machine type, in
// canonical order. Numeric menu selections index into this slice.
func Intervals(mt domain.MachineType) []string {
	p, ok := catalog[mt]
	if !ok {
		return nil
	}
	var keys []string
	for _, k := range canonicalOrder {
		if _, present := p.intervals[k]; present {
			keys = append(keys, string(k))
		}
	}
	return keys
}

// Render returns the interval definition and the plan's reference link
// for presentation. The second return is false when the machine type or
// the key is absent; callers treat that as a recoverable miss, never a
// crash.
func Render(mt domain.MachineType, key string) (Interval, string, bool) {
	p, ok := catalog[mt]
	if !ok {
		return Interval{}, "", false
	}
	iv, ok := p.intervals[IntervalKey(key)]
	if !ok {
		return Interval{}, "", false
	}
	return iv, p.ReferenceLink, true
}
