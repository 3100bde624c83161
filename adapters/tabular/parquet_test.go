package tabular

import (
	"bytes"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goeda/domain/table"
)

type stationReading struct {
	Station  string  `parquet:"station"`
	Day      int32   `parquet:"day,date"`
	TakenAt  int64   `parquet:"taken_at,timestamp(millisecond)"`
	LoggedAt int64   `parquet:"logged_at,timestamp(microsecond)"`
	SyncedAt int64   `parquet:"synced_at,timestamp(nanosecond)"`
	Samples  int32   `parquet:"samples"`
	Reading  float32 `parquet:"reading"`
	Healthy  bool    `parquet:"healthy"`
}

func TestLoadParquet_LogicalTypesWithoutOrderMetadata(t *testing.T) {
	taken := time.Date(2024, 3, 10, 8, 15, 30, 250_000_000, time.UTC)
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := []stationReading{
		{"north", int32(day.Unix() / 86400), taken.UnixMilli(), taken.UnixMicro(), taken.UnixNano(), 12, 21.5, true},
		{"south", int32(day.Unix()/86400) + 1, taken.Add(time.Hour).UnixMilli(), taken.Add(time.Hour).UnixMicro(), taken.Add(time.Hour).UnixNano(), 7, -3.25, false},
	}

	var buf bytes.Buffer
	w := parquet.NewGenericWriter[stationReading](&buf)
	_, err := w.Write(rows)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	tbl, err := NewDataReader().Load(&buf, table.FormatParquet)
	require.NoError(t, err)

	assert.Equal(t, []string{"station", "day", "taken_at", "logged_at", "synced_at", "samples", "reading", "healthy"},
		tbl.ColumnNames(), "file order is kept when no order metadata is stored")
	require.Equal(t, 2, tbl.RowCount())

	wantKinds := map[string]table.Kind{
		"station":   table.KindText,
		"day":       table.KindDatetime,
		"taken_at":  table.KindDatetime,
		"logged_at": table.KindDatetime,
		"synced_at": table.KindDatetime,
		"samples":   table.KindNumeric,
		"reading":   table.KindNumeric,
		"healthy":   table.KindBoolean,
	}
	for name, kind := range wantKinds {
		col, ok := tbl.Column(name)
		require.True(t, ok, name)
		assert.Equal(t, kind, col.Kind, name)
	}

	dayCol, _ := tbl.Column("day")
	assert.True(t, dayCol.Values[0].Time.Equal(day), dayCol.Values[0].Time)
	assert.True(t, dayCol.Values[1].Time.Equal(day.AddDate(0, 0, 1)))
	for _, name := range []string{"taken_at", "logged_at", "synced_at"} {
		col, _ := tbl.Column(name)
		assert.True(t, col.Values[0].Time.Equal(taken), "%s: %v", name, col.Values[0].Time)
	}

	samples, _ := tbl.Column("samples")
	assert.Equal(t, 12.0, samples.Values[0].Num)
	reading, _ := tbl.Column("reading")
	assert.Equal(t, -3.25, reading.Values[1].Num)
}
