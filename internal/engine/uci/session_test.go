package uci

import (
	"strings"
	"testing"
	"time"
)

func TestBuildPositionCommand(t *testing.T) {
	cases := []struct {
		name  string
		fen   string
		moves []string
		want  string
	}{
		{"startpos no moves", "", nil, "position startpos\n"},
		{"startpos keyword", "startpos", []string{"e2e4"}, "position startpos moves e2e4\n"},
		{"move list", "", []string{"e2e4", "e7e5", "g1f3"}, "position startpos moves e2e4 e7e5 g1f3\n"},
		{"explicit fen", "8/8/8/8/8/8/8/K6k w - - 0 1", nil, "position fen 8/8/8/8/8/8/8/K6k w - - 0 1\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildPositionCommand(tc.fen, tc.moves)
			if got != tc.want {
				t.Fatalf("buildPositionCommand = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestBuildGoTokens(t *testing.T) {
	got, err := buildGoTokens(Limits{Depth: 6, MoveTimeMillis: 500, NodeCap: 20000})
	if err != nil {
		t.Fatalf("buildGoTokens: %v", err)
	}
	want := "go depth 6 movetime 500 nodes 20000"
	if strings.Join(got, " ") != want {
		t.Fatalf("got %q, want %q", strings.Join(got, " "), want)
	}

	if _, err := buildGoTokens(Limits{}); err == nil {
		t.Fatal("expected error for empty limits")
	}
}

func TestParseInfo(t *testing.T) {
	line := "info depth 12 seldepth 18 multipv 2 score cp -34 nodes 51234 pv e7e5 g1f3 b8c6"
	mv, cand, ok := parseInfo(line)
	if !ok {
		t.Fatal("parseInfo rejected a valid line")
	}
	if mv != 2 {
		t.Fatalf("multipv = %d, want 2", mv)
	}
	if cand.Move != "e7e5" {
		t.Fatalf("move = %q, want e7e5", cand.Move)
	}
	if cand.EvalCP != -34 {
		t.Fatalf("eval = %d, want -34", cand.EvalCP)
	}
	if len(cand.Principal) != 3 {
		t.Fatalf("principal length = %d, want 3", len(cand.Principal))
	}
}

func TestParseInfoMateScore(t *testing.T) {
	_, cand, ok := parseInfo("info depth 20 multipv 1 score mate -3 pv h7h8q")
	if !ok {
		t.Fatal("parseInfo rejected mate line")
	}
	if cand.EvalCP != -30000 {
		t.Fatalf("mate eval = %d, want -30000", cand.EvalCP)
	}
}

func TestParseInfoNoPV(t *testing.T) {
	if _, _, ok := parseInfo("info depth 5 currmove e2e4 currmovenumber 1"); ok {
		t.Fatal("parseInfo accepted a line without pv")
	}
}

func TestCollapseCandidatesOrder(t *testing.T) {
	m := map[int]Candidate{
		3: {Move: "c"},
		1: {Move: "a"},
		2: {Move: "b"},
	}
	got := collapseCandidates(m)
	if len(got) != 3 || got[0].Move != "a" || got[1].Move != "b" || got[2].Move != "c" {
		t.Fatalf("candidates out of multipv order: %+v", got)
	}
}

func TestComputeSearchTimeout(t *testing.T) {
	if d := computeSearchTimeout(Limits{MoveTimeMillis: 500}); d != 7500*time.Millisecond {
		t.Fatalf("movetime timeout = %v", d)
	}
	if d := computeSearchTimeout(Limits{Depth: 4}); d != 6*time.Second {
		t.Fatalf("shallow depth timeout = %v", d)
	}
	if d := computeSearchTimeout(Limits{}); d != 6*time.Second {
		t.Fatalf("default timeout = %v", d)
	}
}

func TestValidateOptions(t *testing.T) {
	valid := Options{Threads: 1, SkillLevel: 5, HashMB: 64, MultiPV: 3}
	if err := validateOptions(valid); err != nil {
		t.Fatalf("valid options rejected: %v", err)
	}
	bad := []Options{
		{SkillLevel: 21, HashMB: 64, MultiPV: 1},
		{SkillLevel: 5, HashMB: 0, MultiPV: 1},
		{SkillLevel: 5, HashMB: 64, MultiPV: 0},
		{SkillLevel: 5, HashMB: 64, MultiPV: 1, Elo: -1},
	}
	for i, opt := range bad {
		if err := validateOptions(opt); err == nil {
			t.Fatalf("case %d: invalid options accepted", i)
		}
	}
}
