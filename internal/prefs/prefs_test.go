package prefs

import (
	"context"
	"testing"

	"github.com/verte-zerg/typesymphony/internal/kv"
)

func TestSoundToggle(t *testing.T) {
	ctx := context.Background()
	st := kv.NewMemory()

	on, err := SoundEnabled(ctx, st)
	if err != nil || on {
		t.Fatalf("expected sound off by default, got %v err=%v", on, err)
	}
	if err := SetSoundEnabled(ctx, st, true); err != nil {
		t.Fatalf("set: %v", err)
	}
	if on, _ := SoundEnabled(ctx, st); !on {
		t.Fatalf("expected sound on")
	}
	if err := st.Set(ctx, SoundKey, "garbage"); err != nil {
		t.Fatalf("set raw: %v", err)
	}
	if on, err := SoundEnabled(ctx, st); err != nil || on {
		t.Fatalf("expected unparsable value to mean off, got %v err=%v", on, err)
	}
}
