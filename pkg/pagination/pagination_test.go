package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("NormalizeLimit(0) = %d", got)
	}
	if got := NormalizeLimit(-3); got != DefaultLimit {
		t.Fatalf("NormalizeLimit(-3) = %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("NormalizeLimit over max = %d", got)
	}
	if got := NormalizeLimit(7); got != 7 {
		t.Fatalf("NormalizeLimit(7) = %d", got)
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(0, 10); got != 0 {
		t.Fatalf("Offset(0,10) = %d", got)
	}
	if got := Offset(3, 10); got != 30 {
		t.Fatalf("Offset(3,10) = %d", got)
	}
	if got := Offset(-1, 10); got != 0 {
		t.Fatalf("negative pages should clamp, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC),
		ID:        uuid.New(),
	}

	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if got == nil || !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("cursor round trip mismatch: %+v", got)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	got, err := ParseCursor("  ")
	if err != nil || got != nil {
		t.Fatalf("blank cursor should be nil, got %+v err %v", got, err)
	}
}

func TestParseCursorGarbage(t *testing.T) {
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected decode error")
	}
}
