package stats

import (
	"math"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMapper() *Mapper {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewMapper(logger)
}

func TestMapRowsHitters(t *testing.T) {
	rows := []RawRow{
		{"player_name": "Aaron Judge", "xwoba": "0.430", "barrel_percent": "0.12", "pa": "600"},
		{"player_name": "Mookie Betts", "xwoba": "0.420", "barrel_percent": "0.08", "pa": "580"},
	}

	mapping, _ := newTestMapper().MapRows(rows, HitterAliases())
	require.Len(t, mapping, 2)

	judge := mapping["aaron judge"]
	require.NotNil(t, judge)
	assert.InDelta(t, 0.430, judge["xwOBA"], 1e-9)
	assert.InDelta(t, 0.12, judge["Barrel%"], 1e-9)
	assert.InDelta(t, 600, judge["PA"], 1e-9)
}

func TestMapRowsNoFabricatedDefaults(t *testing.T) {
	rows := []RawRow{
		{"player_name": "Luis Arraez", "xwoba": "0.350"},
	}

	mapping, _ := newTestMapper().MapRows(rows, HitterAliases())
	record := mapping["luis arraez"]
	require.NotNil(t, record)

	// Only the metric present in the source row is included; everything else
	// is an absent key, not a zero.
	assert.Len(t, record, 1)
	_, hasBarrel := record["Barrel%"]
	assert.False(t, hasBarrel)
	for metric, v := range record {
		assert.False(t, math.IsNaN(v), "metric %s", metric)
		assert.False(t, math.IsInf(v, 0), "metric %s", metric)
	}
}

func TestMapRowsOmissionReasons(t *testing.T) {
	rows := []RawRow{
		{"player_name": "Test Batter", "xwoba": "not-a-number", "barrel_percent": ""},
	}

	_, omissions := newTestMapper().MapRows(rows, HitterAliases())

	reasons := make(map[string]OmitReason)
	for _, o := range omissions {
		if o.Player == "test batter" {
			reasons[o.Metric] = o.Reason
		}
	}
	assert.Equal(t, OmitNotNumeric, reasons["xwOBA"])
	assert.Equal(t, OmitCellEmpty, reasons["Barrel%"])
	assert.Equal(t, OmitColumnAbsent, reasons["PA"])
}

func TestMapRowsSkipsRowsWithoutName(t *testing.T) {
	rows := []RawRow{
		{"player_name": "", "xwoba": "0.400"},
		{"xwoba": "0.380"},
		{"player_name": "Real Player", "xwoba": "0.333"},
	}

	mapping, _ := newTestMapper().MapRows(rows, HitterAliases())
	assert.Len(t, mapping, 1)
	assert.Contains(t, mapping, "real player")
}

func TestMapRowsDuplicateNamesLastWins(t *testing.T) {
	rows := []RawRow{
		{"player_name": "Jose Ramirez", "xwoba": "0.300"},
		{"player_name": "Jose Ramirez", "xwoba": "0.360"},
	}

	mapping, _ := newTestMapper().MapRows(rows, HitterAliases())
	assert.InDelta(t, 0.360, mapping["jose ramirez"]["xwOBA"], 1e-9)
}

func TestMapRowsPitcherAliases(t *testing.T) {
	rows := []RawRow{
		{"player": "Gerrit Cole", "xFIP": "3.10", "K/9": "11.2", "CSW%": "0.31", "hr/fb": "0.09"},
	}

	mapping, _ := newTestMapper().MapRows(rows, PitcherAliases())
	cole := mapping["gerrit cole"]
	require.NotNil(t, cole)
	assert.InDelta(t, 3.10, cole["xFIP"], 1e-9)
	assert.InDelta(t, 11.2, cole["K9"], 1e-9)
	assert.InDelta(t, 0.31, cole["CSW"], 1e-9)
	assert.InDelta(t, 0.09, cole["HR/FB"], 1e-9)
}

func TestMapRowsAliasPriorityResolvedOnce(t *testing.T) {
	// Both spellings present: the higher-priority alias wins for every row.
	rows := []RawRow{
		{"player_name": "A Hitter", "xwoba": "0.350", "est_woba": "0.999"},
	}

	mapping, _ := newTestMapper().MapRows(rows, HitterAliases())
	assert.InDelta(t, 0.350, mapping["a hitter"]["xwOBA"], 1e-9)
}

func TestMapRowsEmptyInput(t *testing.T) {
	mapping, omissions := newTestMapper().MapRows(nil, HitterAliases())
	assert.Empty(t, mapping)
	assert.Empty(t, omissions)
}
