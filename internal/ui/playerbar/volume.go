package playerbar

import (
	"fmt"
	"strings"

	"github.com/llehouerou/tuner/internal/icons"
	"github.com/llehouerou/tuner/internal/ui/styles"
)

// volumeBarWidth is the fixed width of the volume gauge.
const volumeBarWidth = 8

// renderVolume renders the volume gauge: "🔊 ━━━━──── 50%".
// When muted the gauge renders dimmed with the muted speaker.
func renderVolume(volume float64, muted bool, barWidth int) string {
	st := styles.T().S()

	filled := int(volume*float64(barWidth) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)
	pct := int(volume*100 + 0.5)

	if muted {
		return st.Muted.Render(fmt.Sprintf("%s %s %3d%%", icons.VolumeMute(), bar, pct))
	}
	return st.Base.Render(fmt.Sprintf("%s %s %3d%%", icons.Volume(), bar, pct))
}
