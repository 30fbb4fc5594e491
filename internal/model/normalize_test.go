package model

import (
	"encoding/json"
	"errors"
	"testing"

	"coros-extract/internal/coros"
)

func validSummaryFields() map[string]any {
	return map[string]any{
		"adjustedPace":         343,
		"aerobicEffect":        2.5,
		"aerobicEffectState":   1,
		"anaerobicEffect":      0.8,
		"anaerobicEffectState": 0,
		"avgCadence":           172,
		"avgHr":                148,
		"avgMoveSpeed":         295,
		"avgPace":              343,
		"avgRunningEf":         58,
		"avgSpeed":             2.91,
		"avgStepLen":           101,
		"calories":             523,
		"currentVo2Max":        49,
		"deviceSportMode":      8,
		"distance":             8012,
		"endTimestamp":         175_000_275_000,
		"maxCadence":           190,
		"maxHr":                167,
		"maxSpeed":             330,
		"name":                 "Morning Run",
		"sportMode":            8,
		"sportType":            100,
		"startTimestamp":       175_000_000_000,
		"totalTime":            2750,
		"trainType":            0,
		"trainingLoad":         77,
		"workoutTime":          2680,
	}
}

func validLapFields(index int) map[string]any {
	return map[string]any{
		"avgCadence":      170,
		"avgHr":           150,
		"avgMoveSpeed":    290,
		"avgPace":         343.0,
		"avgPower":        280,
		"avgSpeedV2":      2.9,
		"avgStrideLength": 100,
		"calories":        65,
		"distance":        1000,
		"endTimestamp":    175_000_040_000,
		"lapIndex":        index,
		"rowIndex":        index,
		"setIndex":        0,
		"startTimestamp":  175_000_000_000,
		"totalDistance":   1000,
	}
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	return data
}

func TestNewFrequencySeriesDefaultsAndLength(t *testing.T) {
	samples := []json.RawMessage{
		[]byte(`{"cadence":5}`),
	}

	series, err := NewFrequencySeries(samples)
	if err != nil {
		t.Fatalf("NewFrequencySeries: %v", err)
	}

	if got := series.Cadence; len(got) != 1 || got[0] != 5 {
		t.Errorf("Cadence = %v, want [5]", got)
	}
	for name, seq := range map[string][]int{
		"Distance":   series.Distance,
		"Heart":      series.Heart,
		"HeartLevel": series.HeartLevel,
		"Timestamp":  series.Timestamp,
	} {
		if len(seq) != 1 || seq[0] != 0 {
			t.Errorf("%s = %v, want [0]", name, seq)
		}
	}
}

func TestNewFrequencySeriesParallelLengths(t *testing.T) {
	samples := []json.RawMessage{
		[]byte(`{"cadence":10,"distance":1,"heart":120,"heartLevel":2,"timestamp":175000000000}`),
		[]byte(`{"heart":125}`),
		[]byte(`{}`),
		[]byte(`{"timestamp":175000000200,"unknownField":true}`),
	}

	series, err := NewFrequencySeries(samples)
	if err != nil {
		t.Fatalf("NewFrequencySeries: %v", err)
	}

	want := len(samples)
	for name, seq := range map[string][]int{
		"Cadence":    series.Cadence,
		"Distance":   series.Distance,
		"Heart":      series.Heart,
		"HeartLevel": series.HeartLevel,
		"Timestamp":  series.Timestamp,
	} {
		if len(seq) != want {
			t.Errorf("len(%s) = %d, want %d", name, len(seq), want)
		}
	}

	// Input order is preserved.
	if series.Heart[0] != 120 || series.Heart[1] != 125 || series.Heart[2] != 0 {
		t.Errorf("Heart = %v, want [120 125 0 0]", series.Heart)
	}
}

func TestNewFrequencySeriesEmpty(t *testing.T) {
	series, err := NewFrequencySeries(nil)
	if err != nil {
		t.Fatalf("NewFrequencySeries: %v", err)
	}
	if series.Len() != 0 {
		t.Errorf("Len = %d, want 0", series.Len())
	}
}

func TestNewSummary(t *testing.T) {
	fields := validSummaryFields()
	fields["someBrandNewVendorField"] = "ignored"

	summary, err := NewSummary(mustJSON(t, fields))
	if err != nil {
		t.Fatalf("NewSummary: %v", err)
	}

	if summary.Name != "Morning Run" {
		t.Errorf("Name = %q, want %q", summary.Name, "Morning Run")
	}
	if summary.Calories != 523 {
		t.Errorf("Calories = %d, want 523", summary.Calories)
	}
	if summary.AerobicEffect != 2.5 {
		t.Errorf("AerobicEffect = %v, want 2.5", summary.AerobicEffect)
	}
	if got := summary.StartTimestamp.Unix(); got != 1_750_000_000 {
		t.Errorf("StartTimestamp = %d, want 1750000000", got)
	}
	if !summary.EndTimestamp.After(summary.StartTimestamp.Time) {
		t.Error("EndTimestamp should be after StartTimestamp")
	}
}

func TestNewSummaryMissingField(t *testing.T) {
	fields := validSummaryFields()
	delete(fields, "calories")

	_, err := NewSummary(mustJSON(t, fields))
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("err = %v, want *FieldError", err)
	}
	if fieldErr.Field != "calories" {
		t.Errorf("Field = %q, want %q", fieldErr.Field, "calories")
	}
}

func TestNewSummaryWrongType(t *testing.T) {
	fields := validSummaryFields()
	fields["name"] = 12345

	_, err := NewSummary(mustJSON(t, fields))
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("err = %v, want *FieldError", err)
	}
	if fieldErr.Field != "name" {
		t.Errorf("Field = %q, want %q", fieldErr.Field, "name")
	}
}

func TestNewLapsFiltersRideGroups(t *testing.T) {
	groups := []json.RawMessage{
		mustJSON(t, map[string]any{
			"type":        coros.LapRunning.Code(),
			"lapItemList": []any{validLapFields(1), validLapFields(2)},
		}),
		mustJSON(t, map[string]any{
			"type":        coros.LapBikeRide.Code(),
			"lapItemList": []any{validLapFields(9)},
		}),
	}

	laps, err := NewLaps(groups)
	if err != nil {
		t.Fatalf("NewLaps: %v", err)
	}

	if len(laps) != 2 {
		t.Fatalf("len = %d, want 2 (ride group must be excluded)", len(laps))
	}
	if laps[0].LapIndex != 1 || laps[1].LapIndex != 2 {
		t.Errorf("lap order = [%d %d], want [1 2]", laps[0].LapIndex, laps[1].LapIndex)
	}
}

func TestNewLapsMissingField(t *testing.T) {
	lap := validLapFields(1)
	delete(lap, "rowIndex")
	groups := []json.RawMessage{
		mustJSON(t, map[string]any{
			"type":        coros.LapRunning.Code(),
			"lapItemList": []any{lap},
		}),
	}

	_, err := NewLaps(groups)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("err = %v, want *FieldError", err)
	}
	if fieldErr.Field != "rowIndex" {
		t.Errorf("Field = %q, want %q", fieldErr.Field, "rowIndex")
	}
}

func TestNewActivity(t *testing.T) {
	detail := &coros.Detail{
		Summary: mustJSON(t, validSummaryFields()),
		FrequencyList: []json.RawMessage{
			[]byte(`{"cadence":170,"heart":140,"timestamp":175000000000}`),
			[]byte(`{"cadence":174,"heart":145,"timestamp":175000000100}`),
		},
		LapList: []json.RawMessage{
			mustJSON(t, map[string]any{
				"type":        coros.LapRunning.Code(),
				"lapItemList": []any{validLapFields(1)},
			}),
		},
	}

	activity, err := NewActivity(detail)
	if err != nil {
		t.Fatalf("NewActivity: %v", err)
	}

	if activity.Summary.Name != "Morning Run" {
		t.Errorf("Summary.Name = %q", activity.Summary.Name)
	}
	if activity.Data.Len() != 2 {
		t.Errorf("Data.Len() = %d, want 2", activity.Data.Len())
	}
	if len(activity.Laps) != 1 {
		t.Errorf("len(Laps) = %d, want 1", len(activity.Laps))
	}
}
