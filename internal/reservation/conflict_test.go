package reservation

import "testing"

func slot(id, room, date, start, end string) Slot {
	iv, err := ParseInterval(start, end)
	if err != nil {
		panic(err)
	}
	return Slot{ID: id, RoomID: room, Date: date, Interval: iv}
}

func TestDetectConflicts(t *testing.T) {
	existing := []Slot{
		slot("a", "C01", "2025-10-15", "09:00", "10:00"),
		slot("b", "C01", "2025-10-15", "11:00", "12:00"),
		slot("c", "C02", "2025-10-15", "09:00", "10:00"),
		slot("d", "C01", "2025-10-16", "09:00", "10:00"),
	}

	t.Run("room overlap produces conflict", func(t *testing.T) {
		conflicts := DetectConflicts(existing, slot("", "C01", "2025-10-15", "09:30", "10:30"))
		if len(conflicts) != 1 || conflicts[0].WithSlotID != "a" {
			t.Fatalf("expected conflict with a, got %#v", conflicts)
		}
	})

	t.Run("room ids compare case-insensitively", func(t *testing.T) {
		conflicts := DetectConflicts(existing, slot("", "c01", "2025-10-15", "09:00", "10:00"))
		if len(conflicts) != 1 {
			t.Fatalf("expected one conflict, got %#v", conflicts)
		}
	})

	t.Run("containment spanning two bookings reports both", func(t *testing.T) {
		conflicts := DetectConflicts(existing, slot("", "C01", "2025-10-15", "08:00", "13:00"))
		if len(conflicts) != 2 || conflicts[0].WithSlotID != "a" || conflicts[1].WithSlotID != "b" {
			t.Fatalf("expected conflicts with a and b, got %#v", conflicts)
		}
	})

	t.Run("touching schedules yield no conflicts", func(t *testing.T) {
		if !Free(existing, slot("", "C01", "2025-10-15", "10:00", "11:00")) {
			t.Fatalf("expected back-to-back slot to be free")
		}
	})

	t.Run("other rooms and dates are ignored", func(t *testing.T) {
		if !Free(existing, slot("", "C03", "2025-10-15", "09:00", "10:00")) {
			t.Fatalf("expected different room to be free")
		}
		if !Free(existing, slot("", "C01", "2025-10-17", "09:00", "10:00")) {
			t.Fatalf("expected different date to be free")
		}
	})

	t.Run("shared ids do not hide an overlap", func(t *testing.T) {
		conflicts := DetectConflicts(existing, slot("a", "C01", "2025-10-15", "09:30", "10:30"))
		if len(conflicts) != 1 || conflicts[0].WithSlotID != "a" {
			t.Fatalf("expected conflict with a, got %#v", conflicts)
		}
		if Free(existing, existing[0]) {
			t.Fatalf("expected an identical slot to conflict")
		}
	})
}

func TestPartitionKey(t *testing.T) {
	if PartitionKey(" c01 ", "2025-10-15") != PartitionKey("C01", "2025-10-15") {
		t.Fatalf("expected partition keys to normalise room ids")
	}
	if PartitionKey("C01", "2025-10-15") == PartitionKey("C01", "2025-10-16") {
		t.Fatalf("expected dates to separate partitions")
	}
}
