package game

import (
	"context"
	"errors"
	"testing"
	"time"

	nchess "github.com/corentings/chess/v2"
)

type stubEngine struct {
	replies []string
	calls   int
	err     error
	resets  int
}

func (e *stubEngine) BestMove(ctx context.Context, moves []string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	if e.calls >= len(e.replies) {
		return "", errors.New("stub out of moves")
	}
	mv := e.replies[e.calls]
	e.calls++
	return mv, nil
}

func (e *stubEngine) NewGame(ctx context.Context) error {
	e.resets++
	return nil
}

func (e *stubEngine) SearchTimeout() time.Duration { return time.Second }

func sq(t *testing.T, name string) nchess.Square {
	t.Helper()
	for s := nchess.A1; s <= nchess.H8; s++ {
		if s.String() == name {
			return s
		}
	}
	t.Fatalf("bad square name %q", name)
	return nchess.A1
}

func playUCI(t *testing.T, s *State, now time.Time, moves ...string) {
	t.Helper()
	for _, mv := range moves {
		from := sq(t, mv[:2])
		to := sq(t, mv[2:4])
		if moved := s.Click(from, now); moved {
			t.Fatalf("selecting %s applied a move", mv[:2])
		}
		if !s.Click(to, now) {
			t.Fatalf("move %s was not applied", mv)
		}
	}
}

func TestSelectionOnlyOwnPieces(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	now := time.Now()

	// opponent piece: no selection
	s.Click(sq(t, "e7"), now)
	if _, ok := s.Selected(); ok {
		t.Fatal("selected an opponent piece")
	}

	// empty square: no selection
	s.Click(sq(t, "e4"), now)
	if _, ok := s.Selected(); ok {
		t.Fatal("selected an empty square")
	}

	// own piece: selected
	s.Click(sq(t, "e2"), now)
	got, ok := s.Selected()
	if !ok || got.String() != "e2" {
		t.Fatalf("selection = %v,%v, want e2", got, ok)
	}
}

func TestSelectionTransitions(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	now := time.Now()

	// same square clears
	s.Click(sq(t, "e2"), now)
	s.Click(sq(t, "e2"), now)
	if _, ok := s.Selected(); ok {
		t.Fatal("clicking the selected square did not clear it")
	}

	// another own piece re-selects
	s.Click(sq(t, "e2"), now)
	s.Click(sq(t, "d2"), now)
	got, ok := s.Selected()
	if !ok || got.String() != "d2" {
		t.Fatalf("selection = %v,%v, want d2", got, ok)
	}

	// illegal destination clears without moving
	if moved := s.Click(sq(t, "d6"), now); moved {
		t.Fatal("illegal move was applied")
	}
	if _, ok := s.Selected(); ok {
		t.Fatal("selection not cleared after illegal move")
	}
	if len(s.MovesUCI()) != 0 {
		t.Fatalf("moves recorded: %v", s.MovesUCI())
	}
}

func TestLegalMoveApplies(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	playUCI(t, s, time.Now(), "e2e4")

	moves := s.MovesUCI()
	if len(moves) != 1 || moves[0] != "e2e4" {
		t.Fatalf("history = %v, want [e2e4]", moves)
	}
	if s.Position().Turn() != nchess.Black {
		t.Fatal("turn did not pass to black")
	}
	if _, ok := s.Selected(); ok {
		t.Fatal("selection survived a move")
	}
}

func TestMoveAcceptanceMatchesValidMoves(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	playUCI(t, s, time.Now(), "e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "f8c5")

	// pawn double step still legal for untouched pawns
	valid := map[string]bool{}
	notation := nchess.UCINotation{}
	pos := s.Position()
	for _, mv := range s.ValidMoves() {
		m := mv
		valid[notation.Encode(pos, &m)] = true
	}
	if !valid["d2d4"] {
		t.Fatal("d2d4 missing from valid moves")
	}

	before := len(s.MovesUCI())
	playUCI(t, s, time.Now(), "d2d4")
	if len(s.MovesUCI()) != before+1 {
		t.Fatal("valid move rejected")
	}

	// moving the same pawn two squares again must fail
	now := time.Now()
	s.Click(sq(t, "d4"), now)
	if moved := s.Click(sq(t, "d6"), now); moved {
		t.Fatal("pawn double step accepted after the pawn had moved")
	}
}

func TestAutoQueenPromotion(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	playUCI(t, s, time.Now(), "h2h4", "g7g5", "h4g5", "h7h6", "g5h6", "g8f6", "h6h7", "h8g8")

	// capture onto the last rank promotes without asking
	playUCI(t, s, time.Now(), "h7g8")
	moves := s.MovesUCI()
	last := moves[len(moves)-1]
	if last != "h7g8q" {
		t.Fatalf("promotion move = %q, want h7g8q", last)
	}
	p := s.Position().Board().Piece(sq(t, "g8"))
	if p.Type() != nchess.Queen || p.Color() != nchess.White {
		t.Fatalf("piece on g8 = %v, want white queen", p)
	}
}

func TestCheckmateSetsResult(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	// fool's mate
	playUCI(t, s, time.Now(), "f2f3", "e7e5", "g2g4", "d8h4")

	res := s.Result()
	if res == nil {
		t.Fatal("no result after checkmate")
	}
	if res.Outcome != nchess.BlackWon || res.Method != nchess.Checkmate {
		t.Fatalf("result = %+v", res)
	}
	if res.Message != "Checkmate! Black Wins" {
		t.Fatalf("message = %q", res.Message)
	}
	if s.HumanToMove() {
		t.Fatal("input still reaches the board after game over")
	}
	if s.Click(sq(t, "e2"), time.Now()) {
		t.Fatal("move applied after game over")
	}
}

func TestCheckFlag(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	playUCI(t, s, time.Now(), "e2e4", "f7f6", "d1h5")
	if !s.InCheck() {
		t.Fatal("check not flagged after Qh5+")
	}
	playUCI(t, s, time.Now(), "g7g6")
	if s.InCheck() {
		t.Fatal("check flag survived the reply")
	}
}

func TestResign(t *testing.T) {
	eng := &stubEngine{replies: []string{"e7e5"}}
	s := NewState(eng, nchess.White, time.Now())
	now := time.Now()
	playUCI(t, s, now, "e2e4")

	if !s.EngineDue(now.Add(EngineMoveDelay)) {
		t.Fatal("trigger not armed after human move")
	}

	s.Resign()
	res := s.Result()
	if res == nil || res.Method != nchess.Resignation {
		t.Fatalf("result = %+v", res)
	}
	if res.Message != "Black Wins by Resignation" {
		t.Fatalf("message = %q", res.Message)
	}
	if res.Outcome != nchess.BlackWon {
		t.Fatalf("outcome = %v", res.Outcome)
	}

	// the pending engine move is cancelled, not fired late
	if s.EngineDue(now.Add(time.Hour)) {
		t.Fatal("engine trigger survived resignation")
	}
	if s.Click(sq(t, "d2"), now) {
		t.Fatal("move applied after resignation")
	}
}

func TestResignAsBlack(t *testing.T) {
	s := NewState(nil, nchess.Black, time.Now())
	s.Resign()
	res := s.Result()
	if res == nil || res.Message != "White Wins by Resignation" {
		t.Fatalf("result = %+v", res)
	}
}

func TestEngineTriggerAndReply(t *testing.T) {
	eng := &stubEngine{replies: []string{"e7e5"}}
	s := NewState(eng, nchess.White, time.Now())
	now := time.Now()

	if s.EngineDue(now.Add(time.Hour)) {
		t.Fatal("trigger armed before any human move")
	}

	playUCI(t, s, now, "e2e4")
	if s.EngineDue(now.Add(EngineMoveDelay - time.Millisecond)) {
		t.Fatal("trigger fired early")
	}
	due := now.Add(EngineMoveDelay + 10*time.Millisecond)
	if !s.EngineDue(due) {
		t.Fatal("trigger did not fire after the delay")
	}

	if err := s.PlayEngineMove(context.Background()); err != nil {
		t.Fatalf("PlayEngineMove: %v", err)
	}
	moves := s.MovesUCI()
	if len(moves) != 2 || moves[1] != "e7e5" {
		t.Fatalf("history = %v", moves)
	}
	if eng.calls != 1 {
		t.Fatalf("engine consulted %d times, want 1", eng.calls)
	}
	if s.EngineDue(due.Add(time.Hour)) {
		t.Fatal("trigger re-armed without a human move")
	}
}

func TestEngineMovesFirstWhenHumanIsBlack(t *testing.T) {
	eng := &stubEngine{replies: []string{"e2e4"}}
	start := time.Now()
	s := NewState(eng, nchess.Black, start)

	if !s.EngineDue(start.Add(EngineMoveDelay)) {
		t.Fatal("opening trigger not armed for a black human")
	}
	if err := s.PlayEngineMove(context.Background()); err != nil {
		t.Fatalf("PlayEngineMove: %v", err)
	}
	if s.Position().Turn() != nchess.Black {
		t.Fatal("turn should be black after the engine opening")
	}
}

func TestEngineFailureDegrades(t *testing.T) {
	eng := &stubEngine{err: errors.New("engine crashed")}
	s := NewState(eng, nchess.White, time.Now())
	now := time.Now()
	playUCI(t, s, now, "e2e4")

	if err := s.PlayEngineMove(context.Background()); err == nil {
		t.Fatal("expected engine error")
	}
	if s.EngineAvailable() {
		t.Fatal("engine still marked available after failure")
	}
	if s.EngineDue(now.Add(time.Hour)) {
		t.Fatal("trigger armed after engine failure")
	}

	// the human now plays both sides
	if !s.HumanToMove() {
		t.Fatal("human cannot move for the opponent after degradation")
	}
	playUCI(t, s, time.Now(), "e7e5")
	if got := len(s.MovesUCI()); got != 2 {
		t.Fatalf("history length = %d, want 2", got)
	}
}

func TestNoEngineNeverTriggers(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	playUCI(t, s, time.Now(), "e2e4")
	if s.EngineDue(time.Now().Add(time.Hour)) {
		t.Fatal("trigger armed without an engine")
	}
}

func TestBothSidesSelectableWithoutEngine(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	now := time.Now()
	playUCI(t, s, now, "e2e4")

	// black to move: white pieces stay unselectable
	s.Click(sq(t, "e4"), now)
	if _, ok := s.Selected(); ok {
		t.Fatal("white piece selectable on black's turn")
	}
	s.Click(sq(t, "e7"), now)
	if got, ok := s.Selected(); !ok || got != sq(t, "e7") {
		t.Fatal("black piece not selectable on black's turn")
	}
	if !s.Click(sq(t, "e5"), now) {
		t.Fatal("black reply was not applied")
	}
}

func TestReset(t *testing.T) {
	eng := &stubEngine{replies: []string{"e7e5"}}
	s := NewState(eng, nchess.White, time.Now())
	now := time.Now()
	playUCI(t, s, now, "e2e4")
	s.Resign()

	s.Reset(context.Background(), now)
	if s.Result() != nil {
		t.Fatal("result survived reset")
	}
	if len(s.MovesUCI()) != 0 {
		t.Fatal("history survived reset")
	}
	if eng.resets != 1 {
		t.Fatalf("engine NewGame called %d times, want 1", eng.resets)
	}
	if s.EngineDue(now.Add(time.Hour)) {
		t.Fatal("trigger armed for a white human after reset")
	}
}

func TestResetAsBlackArmsDelayedTrigger(t *testing.T) {
	eng := &stubEngine{replies: []string{"e2e4"}}
	now := time.Now()
	s := NewState(eng, nchess.Black, now)
	s.Reset(context.Background(), now)

	if s.EngineDue(now.Add(EngineMoveDelay)) {
		t.Fatal("reset trigger fired before the extra settle delay")
	}
	if !s.EngineDue(now.Add(EngineMoveDelay + resetExtraDelay)) {
		t.Fatal("reset trigger did not arm for a black human")
	}
}

func TestStalemateMessage(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	// fastest known stalemate
	playUCI(t, s, time.Now(),
		"e2e3", "a7a5", "d1h5", "a8a6", "h5a5", "h7h5", "h2h4", "a6h6",
		"a5c7", "f7f6", "c7d7", "e8f7", "d7b7", "d8d3", "b7b8", "d3h7",
		"b8c8", "f7g6", "c8e6")

	res := s.Result()
	if res == nil {
		t.Fatal("no result after stalemate")
	}
	if res.Outcome != nchess.Draw || res.Method != nchess.Stalemate {
		t.Fatalf("result = %+v", res)
	}
	if res.Message != "Stalemate! Draw" {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestTurnLabel(t *testing.T) {
	s := NewState(nil, nchess.White, time.Now())
	if s.TurnLabel() != "White's Turn" {
		t.Fatalf("label = %q", s.TurnLabel())
	}
	playUCI(t, s, time.Now(), "e2e4")
	if s.TurnLabel() != "Black's Turn" {
		t.Fatalf("label = %q", s.TurnLabel())
	}
}
