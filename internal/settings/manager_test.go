package settings

import (
	"errors"
	"testing"

	"github.com/habitflash/habitflash/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memDB struct {
	saved   *Settings
	loadErr error
	saveErr error
}

func (m *memDB) Load() (Settings, error) {
	if m.loadErr != nil {
		return Settings{}, m.loadErr
	}
	if m.saved == nil {
		return Defaults(), nil
	}
	return *m.saved, nil
}

func (m *memDB) Save(s Settings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = &s
	return nil
}

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 100.0, d.FontSize)
	assert.Equal(t, "FFFFFF", d.FontColor)
	assert.Equal(t, 50.0, d.DisplayDuration)
	assert.True(t, d.UseFullScreenNotifications)
	assert.False(t, d.UseSystemNotifications)
	assert.Equal(t, 25, d.PomodoroDuration)
	assert.Equal(t, 10, d.PomodoroCountdownDisplayFrequency)
	assert.Equal(t, "0 * * * *", d.ChimeSchedule)

	cfg := d.Delivery()
	assert.True(t, cfg.FullScreen)
	assert.Equal(t, 50.0, cfg.DisplayDuration)
	assert.Equal(t, 25, d.Pomodoro().DurationMinutes)
}

func TestManager_SetAnnouncesAndPersists(t *testing.T) {
	db := &memDB{}
	m := NewManager(db, logger.NewMockLogger())
	var said []string
	var seen []Settings
	m.OnAnnounce(func(s string) { said = append(said, s) })
	m.OnChange(func(s Settings) { seen = append(seen, s) })

	s, err := m.Set("fadeInOut", "true")
	require.NoError(t, err)
	assert.True(t, s.FadeInOut)
	require.NotNil(t, db.saved)
	assert.True(t, db.saved.FadeInOut)

	_, err = m.Set("fadeInOut", "off")
	require.NoError(t, err)
	_, err = m.Set("showHourOnTheHour", "false")
	require.NoError(t, err)

	assert.Equal(t, []string{"Fade enabled", "Fade disabled", "Clock reminders off"}, said)
	assert.Len(t, seen, 3)
}

func TestManager_SetUnchangedIsQuiet(t *testing.T) {
	m := NewManager(&memDB{}, nil)
	said := 0
	m.OnAnnounce(func(string) { said++ })
	_, err := m.Set("fontShadow", "true")
	require.NoError(t, err)
	assert.Zero(t, said)
}

func TestManager_SetClampsAndValidates(t *testing.T) {
	m := NewManager(nil, nil)

	s, err := m.Set("volume", "3")
	require.NoError(t, err)
	assert.Equal(t, 1.0, s.Volume)

	s, err = m.Set("displayDuration", "-10")
	require.NoError(t, err)
	assert.Equal(t, 0.0, s.DisplayDuration)

	s, err = m.Set("pomodoroDuration", "0")
	require.NoError(t, err)
	assert.Equal(t, 1, s.PomodoroDuration)

	s, err = m.Set("fontColor", "#0f8")
	require.NoError(t, err)
	assert.Equal(t, "00FF88", s.FontColor)

	_, err = m.Set("fontColor", "#12345")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = m.Set("volume", "loud")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = m.Set("chimeSchedule", "hourly")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = m.Set("playSound", "maybe")
	assert.ErrorIs(t, err, ErrInvalidValue)
	_, err = m.Set("nope", "1")
	assert.ErrorIs(t, err, ErrUnknownSetting)

	assert.Equal(t, "00FF88", m.Get().FontColor)
}

func TestManager_ValueAndNames(t *testing.T) {
	m := NewManager(nil, nil)
	v, err := m.Value("VOLUME")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
	v, err = m.Value("chimeSchedule")
	require.NoError(t, err)
	assert.Equal(t, "0 * * * *", v)
	_, err = m.Value("missing")
	assert.ErrorIs(t, err, ErrUnknownSetting)
	assert.Len(t, m.Names(), 15)
	assert.Equal(t, "fontSize", m.Names()[0])
}

func TestManager_LoadRepairsAndFallsBack(t *testing.T) {
	bad := Defaults()
	bad.Volume = 7
	bad.FontColor = "zz"
	bad.ChimeSchedule = ""
	m := NewManager(&memDB{saved: &bad}, nil)
	got := m.Get()
	assert.Equal(t, 1.0, got.Volume)
	assert.Equal(t, "FFFFFF", got.FontColor)
	assert.Equal(t, "0 * * * *", got.ChimeSchedule)

	log := logger.NewMockLogger()
	m = NewManager(&memDB{loadErr: errors.New("corrupt")}, log)
	assert.Equal(t, Defaults(), m.Get())
	assert.NotEmpty(t, log.Warnings())
}

func TestManager_SaveFailureKeepsChange(t *testing.T) {
	db := &memDB{saveErr: errors.New("read-only")}
	m := NewManager(db, logger.NewMockLogger())
	_, err := m.Set("playSound", "yes")
	require.Error(t, err)
	assert.True(t, m.Get().PlaySound)
}

func TestManager_Reset(t *testing.T) {
	db := &memDB{}
	m := NewManager(db, nil)
	_, _ = m.Set("fontSize", "42")
	s, err := m.Reset()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Equal(t, Defaults(), *db.saved)
}
