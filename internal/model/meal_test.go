package model

import "testing"

func TestParseSlot(t *testing.T) {
	tests := map[string]Slot{
		"breakfast": Breakfast,
		"B":         Breakfast,
		" dinner ":  Dinner,
		"d":         Dinner,
	}
	for in, want := range tests {
		got, err := ParseSlot(in)
		if err != nil || got != want {
			t.Errorf("ParseSlot(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseSlot("lunch"); err == nil {
		t.Error("ParseSlot(lunch) succeeded, want error")
	}
}

func TestMealRecord_With(t *testing.T) {
	r := MealRecord{ID: "x", Dinner: true}
	got := r.With(Breakfast, true)
	if !got.Breakfast || !got.Dinner || got.ID != "x" {
		t.Fatalf("With = %+v", got)
	}
	if r.Breakfast {
		t.Fatal("With mutated the receiver")
	}
	if got.Selected() != 2 {
		t.Fatalf("Selected() = %d, want 2", got.Selected())
	}
}

func TestPatch(t *testing.T) {
	r := MealRecord{Breakfast: true, Dinner: true}

	if got := SlotPatch(Dinner, false).Apply(r); !got.Breakfast || got.Dinner {
		t.Errorf("SlotPatch(dinner,false) = %+v", got)
	}
	if got := ClearPatch().Apply(r); got.Selected() != 0 {
		t.Errorf("ClearPatch = %+v", got)
	}
	if !(Patch{}).Empty() || ClearPatch().Empty() {
		t.Error("Empty() wrong")
	}
	if !SlotPatch("lunch", true).Empty() {
		t.Error("patch for unknown slot should be empty")
	}
}
