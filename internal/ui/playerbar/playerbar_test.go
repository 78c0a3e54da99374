package playerbar

import (
	"errors"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/llehouerou/tuner/internal/playback"
	"github.com/llehouerou/tuner/internal/player"
	"github.com/llehouerou/tuner/internal/station"
)

// stripANSI removes ANSI escape codes from a string for easier testing.
func stripANSI(s string) string {
	re := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return re.ReplaceAllString(s, "")
}

func playingState() State {
	return State{
		Playing:     true,
		Station:     "Jazz FM",
		StreamTitle: "Miles Davis - So What",
		Genre:       "Jazz",
		Format:      "MP3",
		Bitrate:     128,
		Bytes:       1 << 20,
		Volume:      0.5,
	}
}

func TestRenderHiddenWhenStopped(t *testing.T) {
	assert.Empty(t, Render(State{}, 80))
}

func TestRenderCompact(t *testing.T) {
	s := playingState()
	out := Render(s, 80)
	require.NotEmpty(t, out)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, Height(ModeCompact))

	stripped := stripANSI(out)
	assert.Contains(t, stripped, "Jazz FM")
	assert.Contains(t, stripped, "Miles Davis")
	assert.Contains(t, stripped, "128 kbps")
	assert.Contains(t, stripped, "1.0 MiB")
	assert.Contains(t, stripped, "50%")
}

func TestRenderExpanded(t *testing.T) {
	s := playingState()
	s.Mode = ModeExpanded
	out := Render(s, 80)
	require.NotEmpty(t, out)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, Height(ModeExpanded))

	stripped := stripANSI(out)
	assert.Contains(t, stripped, "Jazz FM")
	assert.Contains(t, stripped, "Jazz")
	assert.Contains(t, stripped, "MP3")
	assert.Contains(t, stripped, "received")
}

func TestRenderExpandedWithoutTitle(t *testing.T) {
	s := playingState()
	s.Mode = ModeExpanded
	s.StreamTitle = ""

	stripped := stripANSI(Render(s, 80))
	assert.Contains(t, stripped, "(no title)")
}

func TestRenderConnectingSpinner(t *testing.T) {
	s := State{Connecting: true, Station: "Jazz FM", Spinner: "⣾"}

	stripped := stripANSI(Render(s, 80))
	assert.Contains(t, stripped, "⣾")
	assert.Contains(t, stripped, "Jazz FM")
}

func TestRenderNarrowFallsBackToCompact(t *testing.T) {
	s := playingState()
	s.Mode = ModeExpanded

	out := Render(s, 30)
	require.NotEmpty(t, out)
	assert.Len(t, strings.Split(out, "\n"), Height(ModeCompact))
}

func TestRenderVolumeGauge(t *testing.T) {
	full := stripANSI(renderVolume(1.0, false, 8))
	assert.Contains(t, full, "100%")
	assert.Contains(t, full, strings.Repeat("━", 8))

	zero := stripANSI(renderVolume(0, false, 8))
	assert.Contains(t, zero, "0%")
	assert.Contains(t, zero, strings.Repeat("─", 8))

	muted := stripANSI(renderVolume(0.5, true, 8))
	assert.Contains(t, muted, "50%")
}

// fakeStore keeps stations in memory, satisfying playback.Store.
type fakeStore struct {
	stations []station.Station
	nextID   int64
}

func (f *fakeStore) Stations() ([]station.Station, error) {
	return slices.Clone(f.stations), nil
}

func (f *fakeStore) Add(name, url, icon string) (*station.Station, error) {
	f.nextID++
	st := station.Station{ID: f.nextID, Name: name, URL: url, Icon: icon}
	f.stations = append(f.stations, st)
	return &st, nil
}

func (f *fakeStore) Remove(id int64) error {
	for i, st := range f.stations {
		if st.ID == id {
			f.stations = slices.Delete(f.stations, i, i+1)
			return nil
		}
	}
	return errors.New("station not found")
}

func (f *fakeStore) PlayerState() (*station.PlayerState, error) { return nil, nil }

func (f *fakeStore) SavePlayerState(_ station.PlayerState) {}

func TestNewState(t *testing.T) {
	mock := player.NewMock()
	store := &fakeStore{
		stations: []station.Station{{ID: 1, Name: "Jazz FM", URL: "http://radio.example/jazz"}},
		nextID:   1,
	}
	svc, err := playback.New(mock, store, playback.Options{VolumeStep: 0.05, DefaultVolume: 0.8}, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(svc.Close)

	s := NewState(svc, ModeCompact, "")
	assert.False(t, s.Playing)
	assert.False(t, s.Connecting)
	assert.Empty(t, s.Station)

	require.NoError(t, svc.PlayStation(1))
	mock.SetBytesReceived(2048)

	s = NewState(svc, ModeExpanded, "")
	assert.True(t, s.Playing)
	assert.Equal(t, "Jazz FM", s.Station)
	assert.Equal(t, "MP3", s.Format)
	assert.Equal(t, int64(2048), s.Bytes)
	assert.InDelta(t, 0.8, s.Volume, 0.001)
	assert.Equal(t, ModeExpanded, s.Mode)
}
