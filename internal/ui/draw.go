package ui

import (
	"image"
	"image/color"
	imagedraw "image/draw"

	nchess "github.com/corentings/chess/v2"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	backgroundColor = color.RGBA{49, 46, 43, 255}
	lightSquare     = color.RGBA{233, 207, 163, 255}
	darkSquare      = color.RGBA{187, 136, 96, 255}
	highlightColor  = color.NRGBA{100, 255, 100, 150}

	buttonColor         = color.RGBA{220, 220, 220, 255}
	buttonSelectedColor = color.RGBA{170, 220, 170, 255}
	buttonDisabledColor = color.RGBA{120, 120, 120, 255}

	overlayColor     = color.NRGBA{0, 0, 0, 180}
	overlayTextColor = color.White
)

// Draw implements ebiten.Game.
func (a *App) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	switch a.mode {
	case ModeMenu:
		a.drawMenu(screen)
	case ModePlaying:
		a.drawPlaying(screen)
	}
}

func (a *App) drawMenu(screen *ebiten.Image) {
	drawCenteredText(screen, "Chess Game Setup", ScreenWidth/2, 100)
	drawCenteredText(screen, "Select Difficulty", ScreenWidth/2, 175)
	drawCenteredText(screen, "Select Your Color", ScreenWidth/2, 325)
	for _, b := range a.menuButtons {
		drawButton(screen, b)
	}
}

func (a *App) drawPlaying(screen *ebiten.Image) {
	a.drawBoard(screen)
	a.drawSelection(screen)
	a.drawPieces(screen)

	drawCenteredText(screen, a.statusLine(), ScreenWidth/2, BoardY-45)
	if a.state.InCheck() && !a.state.GameOver() {
		drawCenteredText(screen, "Check!", ScreenWidth/2, BoardY-25)
	}
	if !a.state.EngineAvailable() && !a.state.GameOver() {
		drawCenteredText(screen, "Engine unavailable - playing both sides", ScreenWidth/2, ScreenHeight-20)
	}

	for _, b := range a.gameButtons {
		drawButton(screen, b)
	}

	if res := a.state.Result(); res != nil {
		a.drawGameOverOverlay(screen, res.Message)
	}
}

func (a *App) statusLine() string {
	if a.state.GameOver() {
		return "Game Over"
	}
	return a.state.TurnLabel()
}

func (a *App) drawBoard(screen *ebiten.Image) {
	for sq := nchess.A1; sq <= nchess.H8; sq++ {
		x, y := squareToScreen(sq, a.state.HumanColor())
		clr := darkSquare
		if isLightSquare(sq) {
			clr = lightSquare
		}
		ebitenutil.DrawRect(screen, float64(x), float64(y), SquareSize, SquareSize, clr)
	}
}

func (a *App) drawSelection(screen *ebiten.Image) {
	sq, ok := a.state.Selected()
	if !ok {
		return
	}
	x, y := squareToScreen(sq, a.state.HumanColor())
	ebitenutil.DrawRect(screen, float64(x), float64(y), SquareSize, SquareSize, highlightColor)
}

func (a *App) drawPieces(screen *ebiten.Image) {
	board := a.state.Position().Board()
	for sq := nchess.A1; sq <= nchess.H8; sq++ {
		piece := board.Piece(sq)
		if piece == nchess.NoPiece {
			continue
		}
		img := pieceImage(piece)
		if img == nil {
			continue
		}
		x, y := squareToScreen(sq, a.state.HumanColor())
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(float64(x), float64(y))
		screen.DrawImage(img, op)
	}
}

func drawButton(screen *ebiten.Image, b *Button) {
	clr := buttonColor
	if !b.Enabled {
		clr = buttonDisabledColor
	} else if b.Selected {
		clr = buttonSelectedColor
	}
	ebitenutil.DrawRect(screen, float64(b.X), float64(b.Y), float64(b.W), float64(b.H), clr)
	labelX := b.X + (b.W-len(b.Label)*6)/2
	labelY := b.Y + b.H/2 - 8
	ebitenutil.DebugPrintAt(screen, b.Label, labelX, labelY)
}

// drawCenteredText centers a debug-font string horizontally at y.
func drawCenteredText(screen *ebiten.Image, text string, cx, y int) {
	ebitenutil.DebugPrintAt(screen, text, cx-len(text)*3, y)
}

// drawGameOverOverlay blits a translucent box over the board center with
// the result message in a readable face.
func (a *App) drawGameOverOverlay(screen *ebiten.Image, message string) {
	const margin = 10
	const boxH = 80
	boxX := BoardX + margin
	boxY := BoardY + BoardPixels/2 - 40
	boxW := BoardPixels - 2*margin

	ebitenutil.DrawRect(screen, float64(boxX), float64(boxY), float64(boxW), float64(boxH), overlayColor)

	img := renderOverlayText(message, boxW, boxH)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(boxX), float64(boxY))
	screen.DrawImage(ebiten.NewImageFromImage(img), op)
}

func renderOverlayText(message string, w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, imagedraw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(overlayTextColor),
		Face: face,
	}
	width := drawer.MeasureString(message)
	drawer.Dot = fixed.Point26_6{
		X: (fixed.I(w) - width) / 2,
		Y: fixed.I(h/2 + face.Height/2),
	}
	drawer.DrawString(message)
	return img
}
