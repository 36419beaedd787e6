package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func TestTimeString_Validate(t *testing.T) {
	for _, s := range []string{"00:00", "09:30", "23:59"} {
		assert.NoError(t, types.TimeString(s).Validate(), s)
	}
	for _, s := range []string{"", "24:00", "12:60", "9:30", "12:5", "noon"} {
		assert.ErrorIs(t, types.TimeString(s).Validate(), types.ErrInvalidTimeString, s)
	}
}

func TestTimeString_Comparisons(t *testing.T) {
	assert.True(t, types.TimeString("09:00").IsBefore("10:30"))
	assert.True(t, types.TimeString("10:30").IsAfter("09:00"))
	assert.False(t, types.TimeString("09:00").IsAfter("09:00"))
}

func TestTimeString_Minutes(t *testing.T) {
	minutes, err := types.TimeString("10:45").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 645, minutes)
}

func TestTimeString_AddMinutes_WrapsAroundMidnight(t *testing.T) {
	got, err := types.TimeString("23:50").AddMinutes(20)
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("00:10"), got)
}

func TestTimeString_OnDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	date := time.Date(2026, time.June, 15, 0, 0, 0, 0, loc)

	got, err := types.TimeString("10:30").OnDate(date, loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.June, 15, 10, 30, 0, 0, loc), got)
}

func TestTimeString_OnDate_DSTTransition(t *testing.T) {
	// Wall-clock время привязывается к самой дате: 10:00 в понедельник
	// до перехода на летнее время и 10:00 в понедельник после имеют
	// разные UTC-смещения, но одинаковое локальное время
	loc, err := time.LoadLocation("Europe/Helsinki")
	require.NoError(t, err)

	// Переход на летнее время в Хельсинки: 2026-03-29
	beforeDST := time.Date(2026, time.March, 23, 0, 0, 0, 0, loc)
	afterDST := time.Date(2026, time.March, 30, 0, 0, 0, 0, loc)

	first, err := types.TimeString("10:00").OnDate(beforeDST, loc)
	require.NoError(t, err)
	second, err := types.TimeString("10:00").OnDate(afterDST, loc)
	require.NoError(t, err)

	assert.Equal(t, 10, first.Hour())
	assert.Equal(t, 10, second.Hour())

	_, offsetBefore := first.Zone()
	_, offsetAfter := second.Zone()
	assert.Equal(t, 2*3600, offsetBefore, "EET before the transition")
	assert.Equal(t, 3*3600, offsetAfter, "EEST after the transition")

	// Наивное "первое вхождение + 7*24h" дало бы 11:00 - занятие уехало бы
	naive := first.Add(7 * 24 * time.Hour)
	assert.Equal(t, 11, naive.In(loc).Hour())
	assert.NotEqual(t, naive, second)
}

func TestNewTimeString(t *testing.T) {
	ts := types.NewTimeString(time.Date(2026, time.March, 10, 7, 5, 59, 0, time.UTC))
	assert.Equal(t, types.TimeString("07:05"), ts)

	parsed, err := types.NewTimeStringFromString("18:00")
	require.NoError(t, err)
	assert.Equal(t, types.TimeString("18:00"), parsed)

	_, err = types.NewTimeStringFromString("18:99")
	assert.ErrorIs(t, err, types.ErrInvalidTimeString)
}
