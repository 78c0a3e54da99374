package playback

import (
	"errors"
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/llehouerou/tuner/internal/player"
	"github.com/llehouerou/tuner/internal/station"
)

type fakeStore struct {
	stations    []station.Station
	saved       *station.PlayerState
	stationsErr error
	nextID      int64
}

func newFakeStore(stations ...station.Station) *fakeStore {
	fs := &fakeStore{stations: stations}
	for _, st := range stations {
		if st.ID > fs.nextID {
			fs.nextID = st.ID
		}
	}
	return fs
}

func (f *fakeStore) Stations() ([]station.Station, error) {
	if f.stationsErr != nil {
		return nil, f.stationsErr
	}
	return append([]station.Station(nil), f.stations...), nil
}

func (f *fakeStore) Add(name, url, icon string) (*station.Station, error) {
	f.nextID++
	st := station.Station{
		ID:       f.nextID,
		Name:     name,
		URL:      url,
		Icon:     icon,
		Position: len(f.stations) + 1,
	}
	f.stations = append(f.stations, st)
	return &st, nil
}

func (f *fakeStore) Remove(id int64) error {
	for i := range f.stations {
		if f.stations[i].ID == id {
			f.stations = append(f.stations[:i], f.stations[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) PlayerState() (*station.PlayerState, error) {
	return f.saved, nil
}

func (f *fakeStore) SavePlayerState(state station.PlayerState) {
	f.saved = &state
}

func testStations() []station.Station {
	return []station.Station{
		{ID: 1, Name: "Jazz FM", URL: "http://radio.example/jazz", Position: 1},
		{ID: 2, Name: "Rock One", URL: "http://radio.example/rock", Position: 2},
		{ID: 3, Name: "News 24", URL: "http://radio.example/news", Position: 3},
	}
}

func newTestService(t *testing.T, store *fakeStore) (Service, *player.Mock) {
	t.Helper()
	p := player.NewMock()
	svc, err := New(p, store, Options{VolumeStep: 0.05, DefaultVolume: 0.8}, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(svc.Close)
	return svc, p
}

func waitState(t *testing.T, sub *Subscription) StateChange {
	t.Helper()
	select {
	case e := <-sub.StateChanged:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for StateChanged event")
		return StateChange{}
	}
}

func waitStation(t *testing.T, sub *Subscription) StationChange {
	t.Helper()
	select {
	case e := <-sub.StationChanged:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for StationChanged event")
		return StationChange{}
	}
}

func waitTitle(t *testing.T, sub *Subscription) TitleChange {
	t.Helper()
	select {
	case e := <-sub.TitleChanged:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for TitleChanged event")
		return TitleChange{}
	}
}

func waitVolume(t *testing.T, sub *Subscription) VolumeChange {
	t.Helper()
	select {
	case e := <-sub.VolumeChanged:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for VolumeChanged event")
		return VolumeChange{}
	}
}

func waitError(t *testing.T, sub *Subscription) ErrorEvent {
	t.Helper()
	select {
	case e := <-sub.Error:
		return e
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Error event")
		return ErrorEvent{}
	}
}

func TestNew_ReturnsService(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore(testStations()...))

	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}
	if svc.Volume() != 0.8 {
		t.Errorf("Volume() = %v, want 0.8 (default)", svc.Volume())
	}
	if svc.CurrentStation() != nil {
		t.Errorf("CurrentStation() = %+v, want nil", svc.CurrentStation())
	}
}

func TestNew_RestoresSavedState(t *testing.T) {
	store := newFakeStore(testStations()...)
	id := int64(2)
	store.saved = &station.PlayerState{LastStationID: &id, Volume: 0.3, Muted: true}

	svc, p := newTestService(t, store)

	if svc.Volume() != 0.3 {
		t.Errorf("Volume() = %v, want 0.3", svc.Volume())
	}
	if !svc.Muted() {
		t.Error("Muted() = false, want true")
	}
	if p.Volume() != 0.3 {
		t.Errorf("player volume = %v, want 0.3", p.Volume())
	}
	if !p.Muted() {
		t.Error("player muted = false, want true")
	}

	st := svc.CurrentStation()
	if st == nil || st.ID != 2 {
		t.Fatalf("CurrentStation() = %+v, want id 2", st)
	}
	// Restoring the tuned station must not start playback
	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}
}

func TestNew_StoreError(t *testing.T) {
	store := newFakeStore()
	store.stationsErr = errors.New("database locked")

	p := player.NewMock()
	_, err := New(p, store, Options{}, zap.NewNop().Sugar())

	if err == nil {
		t.Fatal("New() error = nil, want error")
	}
}

func TestService_Play_NoStations(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore())

	err := svc.Play()

	if !errors.Is(err, ErrNoStations) {
		t.Errorf("Play() error = %v, want ErrNoStations", err)
	}
}

func TestService_Play_StartsFirstStation(t *testing.T) {
	store := newFakeStore(testStations()...)
	svc, p := newTestService(t, store)
	sub := svc.Subscribe()

	err := svc.Play()

	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if svc.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", svc.State())
	}
	if len(p.PlayCalls()) != 1 || p.PlayCalls()[0] != "http://radio.example/jazz" {
		t.Errorf("PlayCalls() = %v, want [http://radio.example/jazz]", p.PlayCalls())
	}

	e := waitState(t, sub)
	if e.Previous != StateStopped || e.Current != StateConnecting {
		t.Errorf("first StateChange = %+v, want Stopped -> Connecting", e)
	}
	e = waitState(t, sub)
	if e.Previous != StateConnecting || e.Current != StatePlaying {
		t.Errorf("second StateChange = %+v, want Connecting -> Playing", e)
	}

	sc := waitStation(t, sub)
	if sc.Previous != nil {
		t.Errorf("StationChange.Previous = %+v, want nil", sc.Previous)
	}
	if sc.Current == nil || sc.Current.Name != "Jazz FM" {
		t.Errorf("StationChange.Current = %+v, want Jazz FM", sc.Current)
	}

	if store.saved == nil || store.saved.LastStationID == nil || *store.saved.LastStationID != 1 {
		t.Errorf("saved state = %+v, want LastStationID 1", store.saved)
	}
}

func TestService_Play_ResumesTunedStation(t *testing.T) {
	store := newFakeStore(testStations()...)
	id := int64(2)
	store.saved = &station.PlayerState{LastStationID: &id, Volume: 0.8}
	svc, p := newTestService(t, store)

	if err := svc.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}

	if len(p.PlayCalls()) != 1 || p.PlayCalls()[0] != "http://radio.example/rock" {
		t.Errorf("PlayCalls() = %v, want [http://radio.example/rock]", p.PlayCalls())
	}
}

func TestService_PlayStation(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))

	if err := svc.PlayStation(3); err != nil {
		t.Fatalf("PlayStation(3) error = %v", err)
	}

	if len(p.PlayCalls()) != 1 || p.PlayCalls()[0] != "http://radio.example/news" {
		t.Errorf("PlayCalls() = %v, want [http://radio.example/news]", p.PlayCalls())
	}
	st := svc.CurrentStation()
	if st == nil || st.ID != 3 {
		t.Errorf("CurrentStation() = %+v, want id 3", st)
	}
}

func TestService_PlayStation_UnknownID(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))

	err := svc.PlayStation(99)

	if err == nil {
		t.Fatal("PlayStation(99) error = nil, want error")
	}
	if len(p.PlayCalls()) != 0 {
		t.Errorf("PlayCalls() = %v, want none", p.PlayCalls())
	}
}

func TestService_Play_PlayerError(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))
	sub := svc.Subscribe()
	playErr := errors.New("connection refused")
	p.SetPlayError(playErr)

	err := svc.Play()

	if !errors.Is(err, playErr) {
		t.Errorf("Play() error = %v, want %v", err, playErr)
	}
	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}

	e := waitState(t, sub)
	if e.Current != StateConnecting {
		t.Errorf("first StateChange = %+v, want -> Connecting", e)
	}
	e = waitState(t, sub)
	if e.Current != StateStopped {
		t.Errorf("second StateChange = %+v, want -> Stopped", e)
	}

	ev := waitError(t, sub)
	if ev.Operation != "play" {
		t.Errorf("Error.Operation = %q, want play", ev.Operation)
	}
	if ev.URL != "http://radio.example/jazz" {
		t.Errorf("Error.URL = %q, want the stream url", ev.URL)
	}
	if !errors.Is(ev.Err, playErr) {
		t.Errorf("Error.Err = %v, want %v", ev.Err, playErr)
	}
}

func TestService_Stop(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))
	sub := svc.Subscribe()

	_ = svc.Play()
	// Drain the Play events
	waitState(t, sub)
	waitState(t, sub)

	svc.Stop()

	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}
	if p.StopCalls() == 0 {
		t.Error("player Stop was not called")
	}
	if svc.NowPlaying() != "" {
		t.Errorf("NowPlaying() = %q, want empty", svc.NowPlaying())
	}

	e := waitState(t, sub)
	if e.Previous != StatePlaying || e.Current != StateStopped {
		t.Errorf("StateChange = %+v, want Playing -> Stopped", e)
	}

	// The tuned station survives a stop
	st := svc.CurrentStation()
	if st == nil || st.ID != 1 {
		t.Errorf("CurrentStation() = %+v, want id 1", st)
	}
}

func TestService_Toggle(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore(testStations()...))

	if err := svc.Toggle(); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if svc.State() != StatePlaying {
		t.Errorf("State() after first toggle = %v, want Playing", svc.State())
	}

	if err := svc.Toggle(); err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}
	if svc.State() != StateStopped {
		t.Errorf("State() after second toggle = %v, want Stopped", svc.State())
	}
}

func TestService_NextStation_WrapsAround(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))

	want := []string{
		"http://radio.example/jazz",
		"http://radio.example/rock",
		"http://radio.example/news",
		"http://radio.example/jazz",
	}
	for i := range want {
		if err := svc.NextStation(); err != nil {
			t.Fatalf("NextStation() #%d error = %v", i+1, err)
		}
	}

	calls := p.PlayCalls()
	if len(calls) != len(want) {
		t.Fatalf("len(PlayCalls()) = %d, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("PlayCalls()[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestService_PreviousStation_WrapsAround(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))

	// Nothing tuned: previous starts from the bottom of the list
	want := []string{
		"http://radio.example/news",
		"http://radio.example/rock",
	}
	for i := range want {
		if err := svc.PreviousStation(); err != nil {
			t.Fatalf("PreviousStation() #%d error = %v", i+1, err)
		}
	}

	calls := p.PlayCalls()
	if len(calls) != len(want) {
		t.Fatalf("len(PlayCalls()) = %d, want %d", len(calls), len(want))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("PlayCalls()[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestService_SetVolume(t *testing.T) {
	store := newFakeStore(testStations()...)
	svc, p := newTestService(t, store)
	sub := svc.Subscribe()

	svc.SetVolume(0.5)

	if svc.Volume() != 0.5 {
		t.Errorf("Volume() = %v, want 0.5", svc.Volume())
	}
	if p.Volume() != 0.5 {
		t.Errorf("player volume = %v, want 0.5", p.Volume())
	}

	e := waitVolume(t, sub)
	if e.Level != 0.5 || e.Muted {
		t.Errorf("VolumeChange = %+v, want {0.5 false}", e)
	}

	if store.saved == nil || store.saved.Volume != 0.5 {
		t.Errorf("saved state = %+v, want Volume 0.5", store.saved)
	}
}

func TestService_SetVolume_Clamps(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore(testStations()...))

	svc.SetVolume(1.5)
	if svc.Volume() != 1.0 {
		t.Errorf("Volume() = %v, want 1.0", svc.Volume())
	}

	svc.SetVolume(-0.5)
	if svc.Volume() != 0.0 {
		t.Errorf("Volume() = %v, want 0.0", svc.Volume())
	}
}

func TestService_VolumeUpDown(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore(testStations()...))

	svc.VolumeUp()
	if math.Abs(svc.Volume()-0.85) > 1e-9 {
		t.Errorf("Volume() after up = %v, want 0.85", svc.Volume())
	}

	svc.VolumeDown()
	svc.VolumeDown()
	if math.Abs(svc.Volume()-0.75) > 1e-9 {
		t.Errorf("Volume() after two downs = %v, want 0.75", svc.Volume())
	}
}

func TestService_ToggleMute(t *testing.T) {
	store := newFakeStore(testStations()...)
	svc, p := newTestService(t, store)
	sub := svc.Subscribe()

	svc.ToggleMute()

	if !svc.Muted() {
		t.Error("Muted() = false, want true")
	}
	if !p.Muted() {
		t.Error("player muted = false, want true")
	}
	if svc.Volume() != 0.8 {
		t.Errorf("Volume() = %v, want 0.8 (mute keeps the level)", svc.Volume())
	}

	e := waitVolume(t, sub)
	if !e.Muted || e.Level != 0.8 {
		t.Errorf("VolumeChange = %+v, want {0.8 true}", e)
	}
	if store.saved == nil || !store.saved.Muted {
		t.Errorf("saved state = %+v, want Muted true", store.saved)
	}

	svc.ToggleMute()
	if svc.Muted() {
		t.Error("Muted() = true after second toggle, want false")
	}
}

func TestService_TitleUpdates(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))
	sub := svc.Subscribe()

	_ = svc.Play()

	p.SimulateTitle("Miles Davis - So What")

	e := waitTitle(t, sub)
	if e.Title != "Miles Davis - So What" {
		t.Errorf("TitleChange.Title = %q, want Miles Davis - So What", e.Title)
	}
	if svc.NowPlaying() != "Miles Davis - So What" {
		t.Errorf("NowPlaying() = %q, want Miles Davis - So What", svc.NowPlaying())
	}
}

func TestService_TitleDeduplicated(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))
	sub := svc.Subscribe()

	_ = svc.Play()

	p.SimulateTitle("Same Song")
	p.SimulateTitle("Same Song")

	waitTitle(t, sub)

	select {
	case e := <-sub.TitleChanged:
		t.Errorf("unexpected TitleChange: %+v", e)
	case <-time.After(50 * time.Millisecond):
		// Expected - no event
	}
}

func TestService_TitleClearedOnStationSwitch(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))
	sub := svc.Subscribe()

	_ = svc.Play()
	p.SimulateTitle("Old Song")
	waitTitle(t, sub)

	if err := svc.NextStation(); err != nil {
		t.Fatalf("NextStation() error = %v", err)
	}

	if svc.NowPlaying() != "" {
		t.Errorf("NowPlaying() = %q, want empty after station switch", svc.NowPlaying())
	}
}

func TestService_StreamDrop(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))
	sub := svc.Subscribe()

	_ = svc.Play()
	// Drain the Play events
	waitState(t, sub)
	waitState(t, sub)

	p.SimulateStopped()

	e := waitState(t, sub)
	if e.Previous != StatePlaying || e.Current != StateStopped {
		t.Errorf("StateChange = %+v, want Playing -> Stopped", e)
	}

	ev := waitError(t, sub)
	if ev.Operation != "stream" {
		t.Errorf("Error.Operation = %q, want stream", ev.Operation)
	}
	if !errors.Is(ev.Err, ErrStreamDropped) {
		t.Errorf("Error.Err = %v, want ErrStreamDropped", ev.Err)
	}
	if ev.URL != "http://radio.example/jazz" {
		t.Errorf("Error.URL = %q, want the stream url", ev.URL)
	}

	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}
	if p.StopCalls() == 0 {
		t.Error("player Stop was not called for cleanup")
	}
}

func TestService_AddStation(t *testing.T) {
	store := newFakeStore(testStations()...)
	svc, _ := newTestService(t, store)

	st, err := svc.AddStation("Chill Beats", "http://radio.example/chill", "")

	if err != nil {
		t.Fatalf("AddStation() error = %v", err)
	}
	if st.ID == 0 {
		t.Error("AddStation() returned zero id")
	}

	stations := svc.Stations()
	if len(stations) != 4 {
		t.Fatalf("len(Stations()) = %d, want 4", len(stations))
	}
	if stations[3].Name != "Chill Beats" {
		t.Errorf("Stations()[3].Name = %q, want Chill Beats", stations[3].Name)
	}
}

func TestService_RemoveStation(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))

	_ = svc.PlayStation(1)

	// Removing another station leaves playback alone
	if err := svc.RemoveStation(2); err != nil {
		t.Fatalf("RemoveStation(2) error = %v", err)
	}
	if svc.State() != StatePlaying {
		t.Errorf("State() = %v, want Playing", svc.State())
	}
	st := svc.CurrentStation()
	if st == nil || st.ID != 1 {
		t.Errorf("CurrentStation() = %+v, want id 1", st)
	}

	// Removing the tuned station stops playback
	if err := svc.RemoveStation(1); err != nil {
		t.Fatalf("RemoveStation(1) error = %v", err)
	}
	if svc.State() != StateStopped {
		t.Errorf("State() = %v, want Stopped", svc.State())
	}
	if p.StopCalls() == 0 {
		t.Error("player Stop was not called")
	}
	if svc.CurrentStation() != nil {
		t.Errorf("CurrentStation() = %+v, want nil", svc.CurrentStation())
	}
	if len(svc.Stations()) != 1 {
		t.Errorf("len(Stations()) = %d, want 1", len(svc.Stations()))
	}
}

func TestService_Stations_ReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore(testStations()...))

	stations := svc.Stations()
	stations[0].Name = "mutated"

	if svc.Stations()[0].Name != "Jazz FM" {
		t.Error("Stations() does not return a copy")
	}
}

func TestService_Subscribe_ReturnsSubscription(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore())

	sub := svc.Subscribe()

	if sub == nil {
		t.Fatal("Subscribe() returned nil")
	}
	if sub.StateChanged == nil {
		t.Error("StateChanged channel is nil")
	}
}

func TestService_Close_SignalsSubscribers(t *testing.T) {
	svc, _ := newTestService(t, newFakeStore())
	sub := svc.Subscribe()

	svc.Close()

	select {
	case <-sub.Done:
		// Expected
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for Done")
	}
}

func TestService_Close_Idempotent(t *testing.T) {
	svc, p := newTestService(t, newFakeStore(testStations()...))

	_ = svc.Play()
	svc.Close()
	svc.Close()

	if p.StopCalls() == 0 {
		t.Error("player Stop was not called on close")
	}
}
