package reservation

import "strings"

// Slot is an occupied interval of one room on one date.
type Slot struct {
	ID       string
	RoomID   string
	Date     string
	Interval Interval
}

// Conflict identifies an existing slot that overlaps a candidate.
type Conflict struct {
	WithSlotID string
	RoomID     string
	Date       string
	Interval   Interval
}

// PartitionKey groups slots by room (case-insensitive) and date.
func PartitionKey(roomID, date string) string {
	return strings.ToUpper(strings.TrimSpace(roomID)) + "|" + date
}

// SamePartition reports whether both slots belong to the same room on the same date.
func SamePartition(a, b Slot) bool {
	return a.Date == b.Date && strings.EqualFold(strings.TrimSpace(a.RoomID), strings.TrimSpace(b.RoomID))
}

// DetectConflicts returns every existing slot that overlaps candidate within
// candidate's room and date, in the order they appear in existing.
func DetectConflicts(existing []Slot, candidate Slot) []Conflict {
	var conflicts []Conflict
	for _, slot := range existing {
		if !SamePartition(slot, candidate) {
			continue
		}
		if !slot.Interval.Overlaps(candidate.Interval) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			WithSlotID: slot.ID,
			RoomID:     slot.RoomID,
			Date:       slot.Date,
			Interval:   slot.Interval,
		})
	}
	return conflicts
}

// Free reports whether candidate can be placed without overlapping any existing slot.
func Free(existing []Slot, candidate Slot) bool {
	return len(DetectConflicts(existing, candidate)) == 0
}
