package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/Zer0will/chesschamp/internal/obslog"
	"go.uber.org/zap"
)

// EngineMoveDelay is how long after the human's move the engine reply is
// triggered.
const (
	EngineMoveDelay = 500 * time.Millisecond
	resetExtraDelay = 100 * time.Millisecond
)

var (
	ErrGameOver    = errors.New("game is over")
	ErrNotYourTurn = errors.New("not the player's turn")
	ErrIllegalMove = errors.New("illegal move")
)

// EngineClient is the boundary to the chess engine. The game core only ever
// sends the move history and receives one move back; everything else about
// the engine is the caller's concern.
type EngineClient interface {
	BestMove(ctx context.Context, moves []string) (string, error)
	NewGame(ctx context.Context) error
	SearchTimeout() time.Duration
}

// Result describes a finished game.
type Result struct {
	Outcome nchess.Outcome
	Method  nchess.Method
	Message string
}

// State owns everything about one game in progress: the position, the
// human's color, the current selection, the pending engine trigger and the
// terminal result. All mutation goes through its methods.
type State struct {
	game       *nchess.Game
	humanColor nchess.Color
	moves      []string

	selected     nchess.Square
	hasSelection bool

	engine   EngineClient
	engineOK bool

	// trigger is the time at which the engine should move. Zero means no
	// move is pending.
	trigger time.Time

	inCheck bool
	result  *Result
}

// NewState starts a fresh game. A nil engine means the human plays both
// sides; the engine trigger then never arms.
func NewState(engine EngineClient, humanColor nchess.Color, now time.Time) *State {
	s := &State{
		game:       nchess.NewGame(),
		humanColor: humanColor,
		engine:     engine,
		engineOK:   engine != nil,
	}
	if s.engineOK && humanColor == nchess.Black {
		s.trigger = now.Add(EngineMoveDelay)
	}
	return s
}

// Reset abandons the current game and starts another with the same colors
// and engine. The engine trigger gets a slightly longer delay so the board
// visibly settles before the opponent moves.
func (s *State) Reset(ctx context.Context, now time.Time) {
	s.game = nchess.NewGame()
	s.moves = nil
	s.clearSelection()
	s.result = nil
	s.inCheck = false
	s.trigger = time.Time{}

	if s.engineOK {
		if err := s.engine.NewGame(ctx); err != nil {
			obslog.L().Warn("engine reset failed, continuing without opponent", zap.Error(err))
			s.engineOK = false
		}
	}
	if s.engineOK && s.humanColor == nchess.Black {
		s.trigger = now.Add(EngineMoveDelay + resetExtraDelay)
	}
}

// Click handles one pointer press on a board square and returns whether a
// move was applied.
//
// With no selection, clicking one of the human's pieces selects it and
// anything else is ignored. With a selection, clicking the same square
// clears it, clicking another of the human's pieces moves the selection,
// and clicking anywhere else attempts the move; an illegal target just
// clears the selection.
func (s *State) Click(sq nchess.Square, now time.Time) bool {
	if s.result != nil || !s.HumanToMove() {
		return false
	}

	if !s.hasSelection {
		if s.ownPiece(sq) {
			s.selected = sq
			s.hasSelection = true
		}
		return false
	}

	if sq == s.selected {
		s.clearSelection()
		return false
	}
	if s.ownPiece(sq) {
		s.selected = sq
		return false
	}

	from := s.selected
	s.clearSelection()
	if err := s.applyMove(from, sq); err != nil {
		return false
	}
	s.afterHumanMove(now)
	return true
}

// ClearSelection drops the current selection, e.g. for clicks outside the
// board.
func (s *State) ClearSelection() { s.clearSelection() }

// Resign ends the game in the opponent's favor and cancels any pending
// engine move.
func (s *State) Resign() {
	if s.result != nil {
		return
	}
	s.game.Resign(s.humanColor)
	winner := "White"
	if s.humanColor == nchess.White {
		winner = "Black"
	}
	s.result = &Result{
		Outcome: s.game.Outcome(),
		Method:  nchess.Resignation,
		Message: winner + " Wins by Resignation",
	}
	s.trigger = time.Time{}
	s.clearSelection()
	s.inCheck = false
}

// EngineDue reports whether a pending engine move should fire now.
func (s *State) EngineDue(now time.Time) bool {
	if !s.engineOK || s.result != nil || s.trigger.IsZero() {
		return false
	}
	if s.game.Position().Turn() == s.humanColor {
		return false
	}
	return !now.Before(s.trigger)
}

// PlayEngineMove asks the engine for its reply and applies it. Any failure
// permanently disables the engine for this process: the human keeps playing
// both sides and no further triggers arm.
func (s *State) PlayEngineMove(ctx context.Context) error {
	s.trigger = time.Time{}

	searchCtx, cancel := context.WithTimeout(ctx, s.engine.SearchTimeout())
	defer cancel()

	mv, err := s.engine.BestMove(searchCtx, s.MovesUCI())
	if err != nil {
		s.disableEngine("engine search failed", err)
		return err
	}
	if err := s.applyUCI(mv); err != nil {
		s.disableEngine("engine returned unplayable move", err)
		return err
	}
	return nil
}

func (s *State) disableEngine(msg string, err error) {
	s.engineOK = false
	s.trigger = time.Time{}
	obslog.L().Error(msg+", continuing without opponent", zap.Error(err))
}

func (s *State) afterHumanMove(now time.Time) {
	if s.result != nil || !s.engineOK {
		return
	}
	if s.game.Position().Turn() != s.humanColor {
		s.trigger = now.Add(EngineMoveDelay)
	}
}

func (s *State) ownPiece(sq nchess.Square) bool {
	p := s.game.Position().Board().Piece(sq)
	if p == nchess.NoPiece {
		return false
	}
	side := s.humanColor
	if !s.engineOK {
		// no opponent: selectable pieces follow the side to move
		side = s.game.Position().Turn()
	}
	return p.Color() == side
}

// applyMove validates and plays from->to, promoting to a queen
// automatically when a pawn reaches the last rank.
func (s *State) applyMove(from, to nchess.Square) error {
	uci := from.String() + to.String()
	if s.isPromotion(from, to) {
		uci += "q"
	}
	return s.applyUCI(uci)
}

func (s *State) isPromotion(from, to nchess.Square) bool {
	p := s.game.Position().Board().Piece(from)
	if p == nchess.NoPiece || p.Type() != nchess.Pawn {
		return false
	}
	if p.Color() == nchess.White {
		return to.Rank() == nchess.Rank8
	}
	return to.Rank() == nchess.Rank1
}

func (s *State) applyUCI(uci string) error {
	uci = strings.TrimSpace(uci)
	pos := s.game.Position()
	mv, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	san := nchess.AlgebraicNotation{}.Encode(pos, mv)
	if err := s.game.Move(mv, nil); err != nil {
		return fmt.Errorf("%w: %s", ErrIllegalMove, uci)
	}
	s.moves = append(s.moves, uci)
	s.inCheck = strings.HasSuffix(san, "+")
	s.refreshResult()
	return nil
}

func (s *State) refreshResult() {
	outcome := s.game.Outcome()
	if outcome == nchess.NoOutcome {
		return
	}
	s.result = &Result{
		Outcome: outcome,
		Method:  s.game.Method(),
		Message: resultMessage(outcome, s.game.Method()),
	}
	s.trigger = time.Time{}
	s.inCheck = false
}

func resultMessage(outcome nchess.Outcome, method nchess.Method) string {
	label := methodLabel(method)
	switch outcome {
	case nchess.WhiteWon:
		return label + "! White Wins"
	case nchess.BlackWon:
		return label + "! Black Wins"
	case nchess.Draw:
		return label + "! Draw"
	}
	return "Game Over"
}

func methodLabel(m nchess.Method) string {
	switch m {
	case nchess.Checkmate:
		return "Checkmate"
	case nchess.Stalemate:
		return "Stalemate"
	case nchess.Resignation:
		return "Resignation"
	case nchess.ThreefoldRepetition:
		return "Threefold Repetition"
	case nchess.FivefoldRepetition:
		return "Fivefold Repetition"
	case nchess.FiftyMoveRule:
		return "Fifty Move Rule"
	case nchess.SeventyFiveMoveRule:
		return "Seventy-Five Move Rule"
	case nchess.InsufficientMaterial:
		return "Insufficient Material"
	case nchess.DrawOffer:
		return "Draw Offer"
	}
	return "Game Over"
}

func (s *State) clearSelection() {
	s.hasSelection = false
}

// Accessors used by the render loop.

func (s *State) Position() *nchess.Position { return s.game.Position() }

func (s *State) HumanColor() nchess.Color { return s.humanColor }

// Selected returns the selected square, if any.
func (s *State) Selected() (nchess.Square, bool) {
	return s.selected, s.hasSelection
}

func (s *State) Result() *Result { return s.result }

func (s *State) GameOver() bool { return s.result != nil }

func (s *State) InCheck() bool { return s.inCheck }

func (s *State) EngineAvailable() bool { return s.engineOK }

// HumanToMove reports whether input should currently reach the board.
func (s *State) HumanToMove() bool {
	if s.result != nil {
		return false
	}
	if !s.engineOK {
		// no opponent: the human drives both sides
		return true
	}
	return s.game.Position().Turn() == s.humanColor
}

// TurnLabel is the status line above the board.
func (s *State) TurnLabel() string {
	if s.game.Position().Turn() == nchess.White {
		return "White's Turn"
	}
	return "Black's Turn"
}

// MovesUCI returns a copy of the move history in UCI long algebraic form.
func (s *State) MovesUCI() []string {
	return append([]string(nil), s.moves...)
}

// ValidMoves exposes the legal moves of the current position.
func (s *State) ValidMoves() []nchess.Move {
	return s.game.ValidMoves()
}
