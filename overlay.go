package backdrop

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// overlay prints FPS, TPS and per-layer frame counts in the top-left corner.
// The text is refreshed every ~0.5 seconds into its own small image.
type overlay struct {
	img     *ebiten.Image
	elapsed int
}

func (o *overlay) draw(screen *ebiten.Image, s *Stage) {
	if o.img == nil {
		// 160x64 fits FPS, TPS and a few layer lines.
		o.img = ebiten.NewImage(160, 64)
		o.elapsed = ebiten.TPS()
	}
	o.elapsed++
	if o.elapsed >= ebiten.TPS()/2 {
		o.elapsed = 0
		o.img.Clear()
		o.img.Fill(color.RGBA{0, 0, 0, 128})
		text := fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
		for _, l := range s.layers {
			text += fmt.Sprintf("\n%s: %d", l.Effect().Name(), l.Frames())
		}
		ebitenutil.DebugPrint(o.img, text)
	}
	screen.DrawImage(o.img, nil)
}
