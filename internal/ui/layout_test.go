package ui

import (
	"testing"

	nchess "github.com/corentings/chess/v2"
)

func squareByName(t *testing.T, name string) nchess.Square {
	t.Helper()
	for s := nchess.A1; s <= nchess.H8; s++ {
		if s.String() == name {
			return s
		}
	}
	t.Fatalf("bad square name %q", name)
	return nchess.A1
}

func TestScreenToSquareWhiteOrientation(t *testing.T) {
	cases := []struct {
		x, y int
		want string
	}{
		{BoardX, BoardY, "a8"},
		{BoardX + 7*SquareSize, BoardY, "h8"},
		{BoardX, BoardY + 7*SquareSize, "a1"},
		{BoardX + 7*SquareSize, BoardY + 7*SquareSize, "h1"},
		{BoardX + 4*SquareSize + 30, BoardY + 6*SquareSize + 30, "e2"},
	}
	for _, tc := range cases {
		sq, ok := screenToSquare(tc.x, tc.y, nchess.White)
		if !ok {
			t.Fatalf("(%d,%d) reported outside the board", tc.x, tc.y)
		}
		if sq.String() != tc.want {
			t.Fatalf("(%d,%d) -> %s, want %s", tc.x, tc.y, sq, tc.want)
		}
	}
}

func TestScreenToSquareBlackOrientation(t *testing.T) {
	cases := []struct {
		x, y int
		want string
	}{
		{BoardX, BoardY, "h1"},
		{BoardX + 7*SquareSize, BoardY, "a1"},
		{BoardX, BoardY + 7*SquareSize, "h8"},
		{BoardX + 7*SquareSize, BoardY + 7*SquareSize, "a8"},
		{BoardX + 3*SquareSize + 10, BoardY + 6*SquareSize + 10, "e7"},
	}
	for _, tc := range cases {
		sq, ok := screenToSquare(tc.x, tc.y, nchess.Black)
		if !ok {
			t.Fatalf("(%d,%d) reported outside the board", tc.x, tc.y)
		}
		if sq.String() != tc.want {
			t.Fatalf("(%d,%d) -> %s, want %s", tc.x, tc.y, sq, tc.want)
		}
	}
}

func TestScreenToSquareOutsideBoard(t *testing.T) {
	outside := [][2]int{
		{BoardX - 1, BoardY},
		{BoardX, BoardY - 1},
		{BoardX + BoardPixels, BoardY},
		{BoardX, BoardY + BoardPixels},
		{0, 0},
		{ScreenWidth - 1, ScreenHeight - 1},
	}
	for _, p := range outside {
		if _, ok := screenToSquare(p[0], p[1], nchess.White); ok {
			t.Fatalf("(%d,%d) mapped to a square", p[0], p[1])
		}
	}
}

func TestSquareToScreenRoundTrip(t *testing.T) {
	for _, clr := range []nchess.Color{nchess.White, nchess.Black} {
		for sq := nchess.A1; sq <= nchess.H8; sq++ {
			x, y := squareToScreen(sq, clr)
			got, ok := screenToSquare(x+SquareSize/2, y+SquareSize/2, clr)
			if !ok || got != sq {
				t.Fatalf("color %v: %s -> (%d,%d) -> %v,%v", clr, sq, x, y, got, ok)
			}
		}
	}
}

func TestIsLightSquare(t *testing.T) {
	if isLightSquare(squareByName(t, "a1")) {
		t.Fatal("a1 should be dark")
	}
	if !isLightSquare(squareByName(t, "h1")) {
		t.Fatal("h1 should be light")
	}
	if !isLightSquare(squareByName(t, "a8")) {
		t.Fatal("a8 should be light")
	}
}
