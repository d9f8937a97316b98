package testfixtures

import "testing"

func TestIDGeneratorProducesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("")

	first := gen.Next()
	second := gen.Next()

	if first != "booking-1" || second != "booking-2" {
		t.Fatalf("unexpected identifiers: %q, %q", first, second)
	}
	if gen.Issued() != 2 {
		t.Fatalf("expected 2 issued identifiers, got %d", gen.Issued())
	}
}

func TestIDGeneratorNilFunc(t *testing.T) {
	var gen *IDGenerator
	if gen.NextFunc() != nil {
		t.Fatalf("expected nil generator to yield a nil func")
	}
}
