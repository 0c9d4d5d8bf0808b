// Package stats converts heterogeneous leaderboard rows, whose column names
// vary by provider, into canonical StatRecords keyed by normalized player
// name.
package stats

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/mwhitman/propedge/internal/models"
	"github.com/mwhitman/propedge/internal/names"
)

// RawRow is one tabular row from a provider, column name -> cell text.
type RawRow map[string]string

// OmitReason explains why a metric was left out of a StatRecord.
type OmitReason string

const (
	OmitColumnAbsent OmitReason = "column_absent"
	OmitCellEmpty    OmitReason = "cell_empty"
	OmitNotNumeric   OmitReason = "not_numeric"
)

// Omission records a single omitted field. The mapper never substitutes
// defaults, that burden belongs to the model layer, but it does say why
// each field is missing so tests and logs can tell schema drift from sparse
// data.
type Omission struct {
	Player string
	Metric string
	Reason OmitReason
}

// MetricAliases lists acceptable source-column spellings for one canonical
// metric, in priority order.
type MetricAliases struct {
	Canonical string
	Aliases   []string
}

// AliasTable describes how to read one leaderboard shape.
type AliasTable struct {
	NameAliases []string
	Metrics     []MetricAliases
}

// HitterAliases covers the Savant/FanGraphs batter leaderboard spellings.
func HitterAliases() AliasTable {
	return AliasTable{
		NameAliases: []string{"player_name", "player", "name"},
		Metrics: []MetricAliases{
			{Canonical: "xwOBA", Aliases: []string{"xwoba", "xwOBA", "est_woba", "xwob"}},
			{Canonical: "Barrel%", Aliases: []string{"barrel", "barrel_percent", "barrel%", "barrel_batted_rate"}},
			{Canonical: "HardHit%", Aliases: []string{"hard_hit_percent", "hardhit%", "hardhit"}},
			{Canonical: "xBA", Aliases: []string{"xba", "est_ba"}},
			{Canonical: "xSLG", Aliases: []string{"xslg", "est_slg"}},
			{Canonical: "BABIP", Aliases: []string{"babip"}},
			{Canonical: "PA", Aliases: []string{"pa", "pa_count", "plate_appearances"}},
			{Canonical: "ISO", Aliases: []string{"iso", "isolated_power"}},
			{Canonical: "BB%", Aliases: []string{"bb%", "bb_percent", "walk_rate"}},
			{Canonical: "K%", Aliases: []string{"k%", "k_percent", "strikeout_rate"}},
		},
	}
}

// PitcherAliases covers the pitcher leaderboard spellings.
func PitcherAliases() AliasTable {
	return AliasTable{
		NameAliases: []string{"player_name", "player", "name"},
		Metrics: []MetricAliases{
			{Canonical: "xFIP", Aliases: []string{"xfip"}},
			{Canonical: "SIERA", Aliases: []string{"siera"}},
			{Canonical: "CSW", Aliases: []string{"csw", "csw%", "csw_percent"}},
			{Canonical: "SwStr%", Aliases: []string{"swstr", "swstr%", "swinging_strike_percent"}},
			{Canonical: "K9", Aliases: []string{"k/9", "k9", "k_per_9"}},
			{Canonical: "BB9", Aliases: []string{"bb/9", "bb9", "bb_per_9"}},
			{Canonical: "HR/FB", Aliases: []string{"hr/fb", "hrfb", "hr_fb_rate"}},
		},
	}
}

// Mapper maps provider rows into StatRecords.
type Mapper struct {
	logger *logrus.Logger
}

// NewMapper creates a new Mapper.
func NewMapper(logger *logrus.Logger) *Mapper {
	return &Mapper{logger: logger}
}

// MapRows builds normalized-name -> StatRecord from raw rows. Alias
// resolution happens once against the row schema, not per row. A row without
// a usable player name is skipped; a metric cell that is absent, empty, or
// non-numeric is omitted from the record (and reported in the omission list)
// rather than defaulted. Duplicate normalized names overwrite earlier rows:
// the input is a single-season snapshot, last row wins.
func (m *Mapper) MapRows(rows []RawRow, table AliasTable) (map[string]models.StatRecord, []Omission) {
	mapping := make(map[string]models.StatRecord)
	var omissions []Omission
	if len(rows) == 0 {
		return mapping, omissions
	}

	schema := resolveSchema(rows[0], table)
	if schema.nameColumn == "" {
		m.logger.Warn("No player name column found in row schema; nothing to map")
		return mapping, omissions
	}

	for _, row := range rows {
		nameRaw := strings.TrimSpace(row[schema.nameColumn])
		if nameRaw == "" {
			continue
		}
		key := names.Normalize(nameRaw)
		record := make(models.StatRecord, len(schema.metricColumns))
		for _, mc := range schema.metricColumns {
			if mc.column == "" {
				omissions = append(omissions, Omission{Player: key, Metric: mc.canonical, Reason: OmitColumnAbsent})
				continue
			}
			cell := strings.TrimSpace(row[mc.column])
			if cell == "" {
				omissions = append(omissions, Omission{Player: key, Metric: mc.canonical, Reason: OmitCellEmpty})
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				omissions = append(omissions, Omission{Player: key, Metric: mc.canonical, Reason: OmitNotNumeric})
				continue
			}
			record[mc.canonical] = v
		}
		mapping[key] = record
	}
	return mapping, omissions
}

type resolvedColumn struct {
	canonical string
	column    string
}

type resolvedSchema struct {
	nameColumn    string
	metricColumns []resolvedColumn
}

// resolveSchema picks the first alias present in the column set for each
// canonical metric. Column matching is case-insensitive because providers
// disagree on capitalization too.
func resolveSchema(sample RawRow, table AliasTable) resolvedSchema {
	byLower := make(map[string]string, len(sample))
	for col := range sample {
		byLower[strings.ToLower(col)] = col
	}
	pick := func(aliases []string) string {
		for _, a := range aliases {
			if col, ok := byLower[strings.ToLower(a)]; ok {
				return col
			}
		}
		return ""
	}

	schema := resolvedSchema{nameColumn: pick(table.NameAliases)}
	for _, metric := range table.Metrics {
		schema.metricColumns = append(schema.metricColumns, resolvedColumn{
			canonical: metric.Canonical,
			column:    pick(metric.Aliases),
		})
	}
	return schema
}
