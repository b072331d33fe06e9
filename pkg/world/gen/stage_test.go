package gen

import "testing"

func TestStageOrder(t *testing.T) {
	order := []Stage{StageTerrain, StageSurface, StageFeatures, StageLive}
	for i := 1; i < len(order); i++ {
		if !order[i-1].Before(order[i]) {
			t.Errorf("%s should come before %s", order[i-1], order[i])
		}
		if order[i-1].Next() != order[i] {
			t.Errorf("%s.Next() = %s, want %s", order[i-1], order[i-1].Next(), order[i])
		}
	}
	if FirstStage() != order[0] {
		t.Errorf("FirstStage() = %s, want %s", FirstStage(), order[0])
	}
}

func TestLastStage(t *testing.T) {
	last := LastStage()
	if !last.IsLast() {
		t.Fatalf("LastStage().IsLast() = false")
	}
	if last.Next() != last {
		t.Errorf("LastStage().Next() = %s, want %s", last.Next(), last)
	}
	for _, s := range []Stage{StageTerrain, StageSurface, StageFeatures} {
		if s.IsLast() {
			t.Errorf("%s.IsLast() = true", s)
		}
	}
}

func TestParseStage(t *testing.T) {
	for _, s := range []Stage{StageTerrain, StageSurface, StageFeatures, StageLive} {
		got, err := ParseStage(s.String())
		if err != nil {
			t.Fatalf("ParseStage(%q): %v", s.String(), err)
		}
		if got != s {
			t.Errorf("ParseStage(%q) = %s, want %s", s.String(), got, s)
		}
	}
	if _, err := ParseStage("lighting"); err == nil {
		t.Error("ParseStage(lighting) should fail")
	}
	if got := Stage(9).String(); got != "stage(9)" {
		t.Errorf("Stage(9).String() = %q", got)
	}
}
