package ui

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	nchess "github.com/corentings/chess/v2"
	"github.com/Zer0will/chesschamp/internal/obslog"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"go.uber.org/zap"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

var (
	pieceCache   = map[nchess.Piece]*ebiten.Image{}
	pieceFailed  = map[nchess.Piece]bool{}
	pieceCacheMu sync.Mutex
)

// pieceImage rasterizes the embedded SVG for a piece at square size and
// caches the result. A broken or missing asset is reported once and the
// piece is simply not drawn afterwards.
func pieceImage(piece nchess.Piece) *ebiten.Image {
	pieceCacheMu.Lock()
	defer pieceCacheMu.Unlock()

	if img, ok := pieceCache[piece]; ok {
		return img
	}
	if pieceFailed[piece] {
		return nil
	}

	img, err := renderPieceImage(piece, SquareSize)
	if err != nil {
		pieceFailed[piece] = true
		obslog.L().Warn("piece asset unavailable, square will render empty",
			zap.String("piece", piece.String()), zap.Error(err))
		return nil
	}
	eimg := ebiten.NewImageFromImage(img)
	pieceCache[piece] = eimg
	return eimg
}

func renderPieceImage(piece nchess.Piece, size int) (image.Image, error) {
	name := pieceAssetName(piece)
	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 {
		w = size
		icon.ViewBox.W = float64(w)
	}
	if h <= 0 {
		h = size
		icon.ViewBox.H = float64(h)
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

func pieceAssetName(piece nchess.Piece) string {
	var prefix string
	if piece.Color() == nchess.White {
		prefix = "w"
	} else {
		prefix = "b"
	}

	var suffix string
	switch piece.Type() {
	case nchess.King:
		suffix = "K"
	case nchess.Queen:
		suffix = "Q"
	case nchess.Rook:
		suffix = "R"
	case nchess.Bishop:
		suffix = "B"
	case nchess.Knight:
		suffix = "N"
	case nchess.Pawn:
		suffix = "P"
	}

	return fmt.Sprintf("assets/pieces/%s%s.svg", prefix, suffix)
}
