package model

import (
	"strings"
	"testing"
	"time"
)

func TestDeleteReasonValid(t *testing.T) {
	for _, r := range []DeleteReason{ReasonSold, ReasonExpired, ReasonReturned, ReasonOther} {
		if !r.Valid() {
			t.Fatalf("%q should be valid", r)
		}
	}
	if DeleteReason("sold").Valid() {
		t.Fatal("unknown code must be rejected")
	}
	if DeleteReason("").Valid() {
		t.Fatal("empty reason must be rejected")
	}
}

func TestAuditDetailsFormatting(t *testing.T) {
	got := ReasonOther.AuditDetails("تالف")
	if !strings.Contains(got, string(ReasonOther)) || !strings.Contains(got, "تالف") {
		t.Fatalf("other reason must carry the free text, got %q", got)
	}

	got = ReasonSold.AuditDetails("should be dropped")
	if strings.Contains(got, "should be dropped") {
		t.Fatalf("fixed reasons must omit free text, got %q", got)
	}
	if !strings.Contains(got, string(ReasonSold)) {
		t.Fatalf("expected reason label, got %q", got)
	}
}

func TestTruncateToDay(t *testing.T) {
	in := time.Date(2026, 9, 10, 18, 42, 7, 999, time.UTC)
	got := TruncateToDay(in)
	want := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if !TruncateToDay(want).Equal(want) {
		t.Fatal("truncation must be idempotent")
	}
}
