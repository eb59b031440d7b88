package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestDiff(t *testing.T) {
	yes := true
	no := false

	tests := []struct {
		name     string
		old      *State
		new      *State
		wantDiff *StateDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new:  &State{SessionID: "sess-1", Entry: "12"},
			wantDiff: &StateDiff{
				SessionID:  "sess-1",
				Expression: strPtr(""),
				Value:      strPtr("12"),
			},
		},
		{
			name:     "No Changes",
			old:      &State{SessionID: "sess-1", Entry: "12"},
			new:      &State{SessionID: "sess-1", Entry: "12"},
			wantDiff: nil,
		},
		{
			name: "Operator Selected",
			old:  &State{SessionID: "sess-1", Entry: "5"},
			new:  &State{SessionID: "sess-1", Entry: "0", Accumulator: strPtr("5"), Operator: OpAdd},
			wantDiff: &StateDiff{
				SessionID:  "sess-1",
				Expression: strPtr("5 +"),
				Value:      strPtr("0"),
			},
		},
		{
			name: "Entering Error",
			old:  &State{SessionID: "sess-1", Entry: "0", Accumulator: strPtr("6"), Operator: OpDivide},
			new:  &State{SessionID: "sess-1", Entry: "0", Accumulator: strPtr("6"), Operator: OpDivide, Err: "divide by zero"},
			wantDiff: &StateDiff{
				SessionID:  "sess-1",
				Expression: strPtr(""),
				Value:      strPtr("Error"),
				Error:      &yes,
			},
		},
		{
			name: "Leaving Error",
			old:  &State{SessionID: "sess-1", Entry: "0", Err: "divide by zero"},
			new:  &State{SessionID: "sess-1", Entry: "7"},
			wantDiff: &StateDiff{
				SessionID: "sess-1",
				Value:     strPtr("7"),
				Error:     &no,
			},
		},
		{
			name:     "Invisible Change Only",
			old:      &State{SessionID: "sess-1", Entry: "8", JustEvaluated: true},
			new:      &State{SessionID: "sess-1", Entry: "8"},
			wantDiff: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Fatalf("Diff() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Diff() = nil, want %+v", tt.wantDiff)
			}
			gotJSON, _ := json.Marshal(got)
			wantJSON, _ := json.Marshal(tt.wantDiff)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("Diff() = %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestDiff_JSONOmitsUnchanged(t *testing.T) {
	old := &State{SessionID: "s", Entry: "1"}
	next := &State{SessionID: "s", Entry: "12"}

	data, err := json.Marshal(Diff(old, next))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "expression") {
		t.Errorf("expected expression to be omitted, got %s", out)
	}
	if !strings.Contains(out, `"value":"12"`) {
		t.Errorf("expected value delta, got %s", out)
	}
}

func TestDiff_NilNewState(t *testing.T) {
	if d := Diff(&State{}, nil); d != nil {
		t.Errorf("expected nil diff, got %+v", d)
	}
}
