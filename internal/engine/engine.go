package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/Zer0will/chesschamp/internal/engine/uci"
	"github.com/Zer0will/chesschamp/internal/obslog"
	"go.uber.org/zap"
)

// Engine wraps a single long-lived UCI subprocess configured for one
// difficulty preset. It is created when a game starts and closed when the
// application shuts down.
type Engine struct {
	session *uci.Session
	preset  DifficultyPreset

	randMu sync.Mutex
	rand   *rand.Rand
}

// New spawns the engine binary and applies the preset for the given skill
// level. A spawn or handshake failure is returned to the caller, which is
// expected to continue without an opponent.
func New(ctx context.Context, binaryPath string, skill int) (*Engine, error) {
	preset, err := GetPreset(skill)
	if err != nil {
		return nil, err
	}

	session, err := uci.NewSession(ctx, binaryPath, uci.Options{
		Threads:    preset.Threads,
		SkillLevel: preset.SkillLevel,
		HashMB:     preset.HashMB,
		MultiPV:    preset.MultiPV,
		Elo:        preset.Elo,
	})
	if err != nil {
		return nil, fmt.Errorf("start engine (skill %d): %w", skill, err)
	}

	return &Engine{
		session: session,
		preset:  preset,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// Preset returns the active difficulty preset.
func (e *Engine) Preset() DifficultyPreset { return e.preset }

// BestMove searches the position after the given move history (UCI long
// algebraic, from the initial position) and returns the move the engine
// plays. Lower presets pick among the top candidates instead of always
// taking the best line.
func (e *Engine) BestMove(ctx context.Context, moves []string) (string, error) {
	start := time.Now()

	resp, err := e.session.Search(ctx, uci.SearchRequest{
		Moves: moves,
		Limits: uci.Limits{
			Depth:          e.preset.DepthCap,
			MoveTimeMillis: e.preset.MoveTimeMillis,
		},
	})
	if err != nil {
		return "", err
	}

	candidates := make([]Candidate, 0, len(resp.Candidates))
	for _, c := range resp.Candidates {
		candidates = append(candidates, Candidate{
			Move:      c.Move,
			EvalCP:    c.EvalCP,
			Principal: append([]string(nil), c.Principal...),
		})
	}
	if len(candidates) == 0 {
		if resp.BestMove == "" || resp.BestMove == "(none)" {
			return "", fmt.Errorf("engine returned no move")
		}
		return resp.BestMove, nil
	}

	chosen, err := SelectCandidate(e.preset, candidates, e.random())
	if err != nil {
		return "", err
	}

	obslog.L().Debug("engine move",
		zap.String("move", chosen.Move),
		zap.Int("eval_cp", chosen.EvalCP),
		zap.String("best", resp.BestMove),
		zap.Duration("took", time.Since(start)))
	return chosen.Move, nil
}

// NewGame resets engine search state between games.
func (e *Engine) NewGame(ctx context.Context) error {
	return e.session.NewGame(ctx)
}

// SearchTimeout is the context budget a caller should allow for one
// BestMove call.
func (e *Engine) SearchTimeout() time.Duration {
	base := time.Duration(e.preset.MoveTimeMillis) * time.Millisecond
	return base*3 + 6*time.Second
}

// SetRandomSeed makes candidate selection deterministic, for tests.
func (e *Engine) SetRandomSeed(seed int64) {
	e.randMu.Lock()
	e.rand = rand.New(rand.NewSource(seed))
	e.randMu.Unlock()
}

func (e *Engine) random() *rand.Rand {
	e.randMu.Lock()
	seed := e.rand.Int63()
	e.randMu.Unlock()
	return rand.New(rand.NewSource(seed))
}

// Close terminates the engine subprocess.
func (e *Engine) Close() error {
	if e.session == nil {
		return nil
	}
	return e.session.Close()
}
