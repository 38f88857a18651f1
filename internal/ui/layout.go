package ui

import (
	nchess "github.com/corentings/chess/v2"
)

// Window and board geometry. The extra height below the board holds the
// New Game / Resign buttons.
const (
	ScreenWidth  = 800
	ScreenHeight = 700

	SquareSize  = 60
	boardFiles  = 8
	BoardPixels = SquareSize * boardFiles

	BoardX = (ScreenWidth - BoardPixels) / 2
	BoardY = (ScreenHeight-BoardPixels-80)/2 + 40
)

// screenToSquare maps a pixel position to a board square, honoring the
// board orientation: a black human sees the board flipped so their pieces
// start at the bottom. The second return is false for positions outside
// the board.
func screenToSquare(x, y int, humanColor nchess.Color) (nchess.Square, bool) {
	if x < BoardX || x >= BoardX+BoardPixels || y < BoardY || y >= BoardY+BoardPixels {
		return 0, false
	}

	col := (x - BoardX) / SquareSize
	row := (y - BoardY) / SquareSize

	var file, rank int
	if humanColor == nchess.White {
		file = col
		rank = boardFiles - 1 - row
	} else {
		file = boardFiles - 1 - col
		rank = row
	}
	return nchess.NewSquare(nchess.File(file), nchess.Rank(rank)), true
}

// squareToScreen returns the top-left pixel of a square for the given
// orientation.
func squareToScreen(sq nchess.Square, humanColor nchess.Color) (int, int) {
	file := int(sq.File())
	rank := int(sq.Rank())

	var col, row int
	if humanColor == nchess.White {
		col = file
		row = boardFiles - 1 - rank
	} else {
		col = boardFiles - 1 - file
		row = rank
	}
	return BoardX + col*SquareSize, BoardY + row*SquareSize
}

func isLightSquare(sq nchess.Square) bool {
	return (int(sq.File())+int(sq.Rank()))%2 == 1
}
