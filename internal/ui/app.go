package ui

import (
	"context"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/Zer0will/chesschamp/internal/engine"
	"github.com/Zer0will/chesschamp/internal/game"
	"github.com/Zer0will/chesschamp/internal/obslog"
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Mode is the current screen.
type Mode int

const (
	ModeMenu Mode = iota
	ModePlaying
)

// App is the ebiten game: a setup menu followed by the board screen. All
// engine work happens synchronously inside Update, behind the game core's
// engine boundary.
type App struct {
	mode Mode

	stockfishPath string

	// menu selections; -1 until the player picks
	menuSkill int
	menuColor int

	menuButtons []*Button
	startButton *Button
	gameButtons []*Button

	state  *game.State
	engine *engine.Engine

	prevMouseDown bool
}

// NewApp builds the app in menu mode.
func NewApp(stockfishPath string) *App {
	a := &App{
		stockfishPath: stockfishPath,
		menuSkill:     -1,
		menuColor:     -1,
	}
	a.buildMenuButtons()
	return a
}

// NewAppPlaying skips the menu, for launches with --skill and --color.
func NewAppPlaying(stockfishPath string, skill, colorVal int) *App {
	a := NewApp(stockfishPath)
	a.startGame(skill, colorVal)
	return a
}

func (a *App) buildMenuButtons() {
	labels := []string{"Beginner", "Easy", "Intermediate", "Hard", "Impossible"}
	const (
		btnW       = 140
		btnH       = 40
		spacing    = 15
		diffY      = 200
		colorY     = 350
		colorW     = 150
		colorGap   = 30
		startY     = 500
		startW     = 200
		startH     = 50
	)

	totalW := len(labels)*btnW + (len(labels)-1)*spacing
	startX := (ScreenWidth - totalW) / 2
	for i, label := range labels {
		a.menuButtons = append(a.menuButtons, &Button{
			X: startX + i*(btnW+spacing), Y: diffY, W: btnW, H: btnH,
			Label:   label,
			Cmd:     Command{Kind: CmdSetDifficulty, Value: i},
			Enabled: true,
		})
	}

	colorX := (ScreenWidth - (2*colorW + colorGap)) / 2
	a.menuButtons = append(a.menuButtons,
		&Button{
			X: colorX, Y: colorY, W: colorW, H: btnH,
			Label:   "Play as White",
			Cmd:     Command{Kind: CmdSetColor, Value: 0},
			Enabled: true,
		},
		&Button{
			X: colorX + colorW + colorGap, Y: colorY, W: colorW, H: btnH,
			Label:   "Play as Black",
			Cmd:     Command{Kind: CmdSetColor, Value: 1},
			Enabled: true,
		},
	)

	a.startButton = &Button{
		X: ScreenWidth/2 - startW/2, Y: startY, W: startW, H: startH,
		Label: "Start Game",
		Cmd:   Command{Kind: CmdStart},
	}
	a.menuButtons = append(a.menuButtons, a.startButton)
}

func (a *App) buildGameButtons() {
	const (
		btnW    = 120
		btnH    = 40
		spacing = 30
	)
	btnY := BoardY + BoardPixels + 20
	startX := (ScreenWidth - (2*btnW + spacing)) / 2

	a.gameButtons = []*Button{
		{
			X: startX, Y: btnY, W: btnW, H: btnH,
			Label:   "New Game",
			Cmd:     Command{Kind: CmdNewGame},
			Enabled: true,
		},
		{
			X: startX + btnW + spacing, Y: btnY, W: btnW, H: btnH,
			Label:   "Resign",
			Cmd:     Command{Kind: CmdResign},
			Enabled: true,
		},
	}
}

// startGame spawns the engine for the chosen difficulty and enters the
// board screen. An engine failure is logged and the game continues with
// the human playing both sides.
func (a *App) startGame(skill, colorVal int) {
	humanColor := nchess.White
	if colorVal == 1 {
		humanColor = nchess.Black
	}

	eng, err := engine.New(context.Background(), a.stockfishPath, skill)
	if err != nil {
		obslog.L().Warn("engine unavailable, starting without opponent",
			zap.Int("skill", skill), zap.Error(err))
		eng = nil
	} else {
		obslog.L().Info("engine ready",
			zap.Int("skill", skill),
			zap.String("difficulty", engine.SkillName(skill)),
			zap.String("human_color", humanColor.Name()))
	}
	a.engine = eng

	var client game.EngineClient
	if eng != nil {
		client = eng
	}
	a.state = game.NewState(client, humanColor, time.Now())
	a.buildGameButtons()
	a.mode = ModePlaying
}

// Shutdown releases the engine subprocess.
func (a *App) Shutdown() {
	if a.engine != nil {
		if err := a.engine.Close(); err != nil {
			obslog.L().Debug("engine close", zap.Error(err))
		}
		a.engine = nil
	}
}

// Update implements ebiten.Game.
func (a *App) Update() error {
	mx, my := ebiten.CursorPosition()
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	clicked := down && !a.prevMouseDown
	a.prevMouseDown = down

	switch a.mode {
	case ModeMenu:
		a.updateMenu(mx, my, clicked)
	case ModePlaying:
		a.updatePlaying(mx, my, clicked)
	}
	return nil
}

func (a *App) updateMenu(mx, my int, clicked bool) {
	a.startButton.Enabled = a.menuSkill >= 0 && a.menuColor >= 0
	if !clicked {
		return
	}
	a.dispatch(hitButton(a.menuButtons, mx, my))
}

func (a *App) updatePlaying(mx, my int, clicked bool) {
	if clicked {
		// resign only makes sense while the game is live
		for _, b := range a.gameButtons {
			if b.Cmd.Kind == CmdResign {
				b.Enabled = !a.state.GameOver()
			}
		}
		if cmd := hitButton(a.gameButtons, mx, my); cmd.Kind != CmdNone {
			a.dispatch(cmd)
		} else if sq, ok := screenToSquare(mx, my, a.state.HumanColor()); ok {
			a.state.Click(sq, time.Now())
		} else {
			a.state.ClearSelection()
		}
	}

	if a.state.EngineDue(time.Now()) {
		// blocks the frame for the search duration
		if err := a.state.PlayEngineMove(context.Background()); err != nil {
			obslog.L().Warn("engine move failed", zap.Error(err))
		}
	}
}

func (a *App) dispatch(cmd Command) {
	switch cmd.Kind {
	case CmdSetDifficulty:
		a.menuSkill = cmd.Value
		for _, b := range a.menuButtons {
			if b.Cmd.Kind == CmdSetDifficulty {
				b.Selected = b.Cmd.Value == cmd.Value
			}
		}
	case CmdSetColor:
		a.menuColor = cmd.Value
		for _, b := range a.menuButtons {
			if b.Cmd.Kind == CmdSetColor {
				b.Selected = b.Cmd.Value == cmd.Value
			}
		}
	case CmdStart:
		if a.menuSkill >= 0 && a.menuColor >= 0 {
			a.startGame(a.menuSkill, a.menuColor)
		}
	case CmdNewGame:
		a.state.Reset(context.Background(), time.Now())
	case CmdResign:
		a.state.Resign()
	}
}

// Layout implements ebiten.Game.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}
