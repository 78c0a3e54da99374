// Package headerbar renders the top title bar.
package headerbar

import (
	"github.com/llehouerou/tuner/internal/ui/render"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

// Height is the number of rows the header occupies.
const Height = 1

// Render renders the header: gradient app title on the left, contextual
// text (station count, playback state) on the right.
func Render(width int, right string) string {
	t := styles.T()
	title := styles.ApplyBoldGradient("tuner", t.Primary, t.Secondary)
	return render.Row(title, t.S().Muted.Render(right), width)
}
