package brackets

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Dosada05/bracket-live/models"
)

func mustBuild(t *testing.T, names ...string) models.Bracket {
	t.Helper()
	b, err := Build(names)
	if err != nil {
		t.Fatalf("build %v: %v", names, err)
	}
	return b
}

func mustSet(t *testing.T, b models.Bracket, round, position int, winner string) Outcome {
	t.Helper()
	out, err := SetWinner(b, round, position, models.Ref(winner))
	if err != nil {
		t.Fatalf("SetWinner(%d,%d,%q): %v", round, position, winner, err)
	}
	if err := Validate(b); err != nil {
		t.Fatalf("after SetWinner(%d,%d,%q): %v", round, position, winner, err)
	}
	return out
}

func TestSetWinnerPropagatesToNextSlot(t *testing.T) {
	b := mustBuild(t, "A", "B", "C", "D")

	mustSet(t, b, 0, 0, "A")
	if got := slotValue(b[1][0].Slots[0]); got != "A" {
		t.Fatalf("R1M0 slot0 = %s, want A", got)
	}
	if b[1][0].Slots[1] != nil {
		t.Fatalf("R1M0 slot1 should still be unset")
	}

	mustSet(t, b, 0, 1, "D")
	if got := slotValue(b[1][0].Slots[1]); got != "D" {
		t.Fatalf("R1M0 slot1 = %s, want D", got)
	}
}

func TestSetWinnerChangeCascades(t *testing.T) {
	b := mustBuild(t, "A", "B", "C", "D")
	mustSet(t, b, 0, 0, "A")
	mustSet(t, b, 0, 1, "C")
	mustSet(t, b, 1, 0, "A")

	out := mustSet(t, b, 0, 0, "B")
	if got := slotValue(b[1][0].Slots[0]); got != "B" {
		t.Fatalf("R1M0 slot0 = %s, want B", got)
	}
	if b[1][0].Winner != nil {
		t.Fatalf("final winner should be cleared after its input changed, got %s", slotValue(b[1][0].Winner))
	}
	if !reflect.DeepEqual(out.Invalidated, []Address{{Round: 1, Position: 0}}) {
		t.Fatalf("invalidated = %v", out.Invalidated)
	}
	if out.Complete || out.Champion != nil {
		t.Fatalf("tournament should no longer be complete")
	}
}

func TestSetWinnerDeepCascade(t *testing.T) {
	b := mustBuild(t, "A", "B", "C", "D", "E", "F", "G", "H")
	mustSet(t, b, 0, 0, "A")
	mustSet(t, b, 0, 1, "C")
	mustSet(t, b, 0, 2, "E")
	mustSet(t, b, 0, 3, "G")
	mustSet(t, b, 1, 0, "A")
	mustSet(t, b, 1, 1, "G")
	out := mustSet(t, b, 2, 0, "A")
	if !out.Complete || slotValue(out.Champion) != "A" {
		t.Fatalf("expected A as champion, got %+v", out)
	}

	out = mustSet(t, b, 0, 0, "B")
	want := []Address{{Round: 1, Position: 0}, {Round: 2, Position: 0}}
	if !reflect.DeepEqual(out.Invalidated, want) {
		t.Fatalf("invalidated = %v, want %v", out.Invalidated, want)
	}
	if got := slotValue(b[1][0].Slots[0]); got != "B" {
		t.Fatalf("R1M0 slot0 = %s, want B", got)
	}
	if b[2][0].Slots[0] != nil {
		t.Fatalf("R2M0 slot0 should be cleared, got %s", slotValue(b[2][0].Slots[0]))
	}
	if got := slotValue(b[2][0].Slots[1]); got != "G" {
		t.Fatalf("R2M0 slot1 from the untouched half = %s, want G", got)
	}
	if b[2][0].Winner != nil || out.Complete {
		t.Fatalf("champion should be cleared")
	}
}

func TestSetWinnerCascadeStopsAtUndecidedChild(t *testing.T) {
	b := mustBuild(t, "A", "B", "C", "D", "E", "F", "G", "H")
	mustSet(t, b, 0, 0, "A")
	mustSet(t, b, 0, 1, "C")
	mustSet(t, b, 1, 0, "C")
	mustSet(t, b, 0, 2, "E")

	out := mustSet(t, b, 0, 2, "F")
	if len(out.Invalidated) != 0 {
		t.Fatalf("nothing downstream of R1M1 was decided, got %v", out.Invalidated)
	}
	if got := slotValue(b[2][0].Slots[0]); got != "C" {
		t.Fatalf("unrelated final slot changed to %s", got)
	}
}

func TestSetWinnerIdempotent(t *testing.T) {
	once := mustBuild(t, "A", "B", "C", "D", "E")
	twice := mustBuild(t, "A", "B", "C", "D", "E")

	mustSet(t, once, 0, 1, "D")
	mustSet(t, twice, 0, 1, "D")
	out := mustSet(t, twice, 0, 1, "D")

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second identical call changed state")
	}
	if len(out.Changed) != 1 || len(out.Invalidated) != 0 {
		t.Fatalf("repeat call should only touch its own match, got %+v", out)
	}
}

func TestSetWinnerClearPropagates(t *testing.T) {
	b := mustBuild(t, "A", "B", "C", "D")
	mustSet(t, b, 0, 0, "A")
	mustSet(t, b, 0, 1, "C")
	mustSet(t, b, 1, 0, "C")

	out, err := SetWinner(b, 0, 0, nil)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if b[0][0].Winner != nil {
		t.Fatalf("R0M0 winner should be cleared")
	}
	if b[1][0].Slots[0] != nil {
		t.Fatalf("R1M0 slot0 should be cleared, got %s", slotValue(b[1][0].Slots[0]))
	}
	if b[1][0].Winner != nil {
		t.Fatalf("final winner should be cleared")
	}
	if len(out.Invalidated) != 1 {
		t.Fatalf("invalidated = %v", out.Invalidated)
	}
	if err := Validate(b); err != nil {
		t.Fatalf("inconsistent after clear: %v", err)
	}
}

func TestSetWinnerRejectsInvalidInput(t *testing.T) {
	b := mustBuild(t, "A", "B", "C", "D", "E")
	mustSet(t, b, 0, 0, "A")
	before := b.Clone()

	cases := []struct {
		name     string
		round    int
		position int
		winner   *string
		want     error
	}{
		{"not in match", 0, 0, models.Ref("C"), ErrInvalidWinner},
		{"unset slot", 1, 0, models.Ref("C"), ErrInvalidWinner},
		{"negative round", -1, 0, models.Ref("A"), ErrInvalidMatchAddress},
		{"round out of range", 3, 0, models.Ref("A"), ErrInvalidMatchAddress},
		{"position out of range", 0, 3, models.Ref("A"), ErrInvalidMatchAddress},
		{"negative position", 1, -1, nil, ErrInvalidMatchAddress},
		{"change bye", 0, 2, models.Ref(models.Bye), ErrImmutableByeMatch},
		{"clear bye", 0, 2, nil, ErrImmutableByeMatch},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := SetWinner(b, tc.round, tc.position, tc.winner)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			if !reflect.DeepEqual(b, before) {
				t.Fatalf("state changed on rejected call")
			}
		})
	}
}

func TestSetWinnerByeReassertAdvances(t *testing.T) {
	b := mustBuild(t, "A", "B", "C")
	out := mustSet(t, b, 0, 1, "C")
	if got := slotValue(b[1][0].Slots[1]); got != "C" {
		t.Fatalf("bye winner should advance, R1M0 slot1 = %s", got)
	}
	if len(out.Changed) != 2 {
		t.Fatalf("changed = %v", out.Changed)
	}
}

func TestAdvanceByes(t *testing.T) {
	b := mustBuild(t, "A", "B", "C", "D", "E")
	if _, err := AdvanceByes(b); err != nil {
		t.Fatalf("advance byes: %v", err)
	}
	if got := slotValue(b[1][1].Slots[0]); got != "E" {
		t.Fatalf("R1M1 slot0 = %s, want E", got)
	}
	if err := Validate(b); err != nil {
		t.Fatalf("inconsistent: %v", err)
	}

	even := mustBuild(t, "A", "B", "C", "D")
	out, err := AdvanceByes(even)
	if err != nil || len(out.Changed) != 0 {
		t.Fatalf("no byes to advance: out=%+v err=%v", out, err)
	}
}

func TestFiveEntrantTournamentToChampion(t *testing.T) {
	b := mustBuild(t, "A", "B", "C", "D", "E")
	if len(b) != 3 || len(b[1]) != 2 || len(b[2]) != 1 {
		t.Fatalf("unexpected shape")
	}

	mustSet(t, b, 0, 0, "A")
	mustSet(t, b, 0, 1, "C")
	mustSet(t, b, 0, 2, "E")
	mustSet(t, b, 1, 0, "A")
	out := mustSet(t, b, 1, 1, "E")
	if out.Complete {
		t.Fatalf("tournament should not be complete before the final")
	}
	if got := [2]string{slotValue(b[2][0].Slots[0]), slotValue(b[2][0].Slots[1])}; got != [2]string{"A", "E"} {
		t.Fatalf("final slots = %v", got)
	}

	out = mustSet(t, b, 2, 0, "E")
	if !out.Complete || slotValue(out.Champion) != "E" {
		t.Fatalf("expected champion E, got %+v", out)
	}
	if slotValue(Champion(b)) != "E" {
		t.Fatalf("Champion() = %s", slotValue(Champion(b)))
	}
}

func TestSetWinnerDoesNotAliasArgument(t *testing.T) {
	b := mustBuild(t, "A", "B")
	w := "A"
	if _, err := SetWinner(b, 0, 0, &w); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w = "B"
	if slotValue(b[0][0].Winner) != "A" {
		t.Fatalf("winner aliases caller memory")
	}
}
