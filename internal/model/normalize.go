package model

import (
	"encoding/json"
	"fmt"

	"coros-extract/internal/coros"
)

// FieldError reports a required field that was missing or mistyped in a
// vendor payload. Orchestrators treat it as a per-activity failure.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("required field %q missing", e.Field)
}

func (e *FieldError) Unwrap() error { return e.Err }

// NewActivity normalizes one raw detail payload into the domain model.
func NewActivity(detail *coros.Detail) (Activity, error) {
	summary, err := NewSummary(detail.Summary)
	if err != nil {
		return Activity{}, fmt.Errorf("normalizing summary: %w", err)
	}

	series, err := NewFrequencySeries(detail.FrequencyList)
	if err != nil {
		return Activity{}, fmt.Errorf("normalizing samples: %w", err)
	}

	laps, err := NewLaps(detail.LapList)
	if err != nil {
		return Activity{}, fmt.Errorf("normalizing laps: %w", err)
	}

	return Activity{Summary: summary, Data: series, Laps: laps}, nil
}

// NewFrequencySeries converts the raw sample list into the five parallel
// sequences. A sample's missing fields default to zero; input order is
// preserved and each sequence ends up exactly as long as the sample list.
func NewFrequencySeries(samples []json.RawMessage) (FrequencySeries, error) {
	series := FrequencySeries{
		Cadence:    make([]int, 0, len(samples)),
		Distance:   make([]int, 0, len(samples)),
		Heart:      make([]int, 0, len(samples)),
		HeartLevel: make([]int, 0, len(samples)),
		Timestamp:  make([]int, 0, len(samples)),
	}

	for i, raw := range samples {
		var s struct {
			Cadence    int `json:"cadence"`
			Distance   int `json:"distance"`
			Heart      int `json:"heart"`
			HeartLevel int `json:"heartLevel"`
			Timestamp  int `json:"timestamp"`
		}
		if err := json.Unmarshal(raw, &s); err != nil {
			return FrequencySeries{}, fmt.Errorf("decoding sample %d: %w", i, err)
		}

		series.Cadence = append(series.Cadence, s.Cadence)
		series.Distance = append(series.Distance, s.Distance)
		series.Heart = append(series.Heart, s.Heart)
		series.HeartLevel = append(series.HeartLevel, s.HeartLevel)
		series.Timestamp = append(series.Timestamp, s.Timestamp)
	}

	return series, nil
}

// NewSummary decodes a raw summary object field by field. All declared
// fields must be present and well typed; unknown keys are ignored.
func NewSummary(raw json.RawMessage) (Summary, error) {
	d, err := newFieldDecoder(raw)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{
		AdjustedPace:         d.integer("adjustedPace"),
		AerobicEffect:        d.float("aerobicEffect"),
		AerobicEffectState:   d.integer("aerobicEffectState"),
		AnaerobicEffect:      d.float("anaerobicEffect"),
		AnaerobicEffectState: d.integer("anaerobicEffectState"),
		AvgCadence:           d.integer("avgCadence"),
		AvgHr:                d.integer("avgHr"),
		AvgMoveSpeed:         d.integer("avgMoveSpeed"),
		AvgPace:              d.integer("avgPace"),
		AvgRunningEf:         d.integer("avgRunningEf"),
		AvgSpeed:             d.float("avgSpeed"),
		AvgStepLen:           d.integer("avgStepLen"),
		Calories:             d.integer("calories"),
		CurrentVo2Max:        d.integer("currentVo2Max"),
		DeviceSportMode:      d.integer("deviceSportMode"),
		Distance:             d.integer("distance"),
		EndTimestamp:         d.timestamp("endTimestamp"),
		MaxCadence:           d.integer("maxCadence"),
		MaxHr:                d.integer("maxHr"),
		MaxSpeed:             d.integer("maxSpeed"),
		Name:                 d.text("name"),
		SportMode:            d.integer("sportMode"),
		SportType:            d.integer("sportType"),
		StartTimestamp:       d.timestamp("startTimestamp"),
		TotalTime:            d.integer("totalTime"),
		TrainType:            d.integer("trainType"),
		TrainingLoad:         d.integer("trainingLoad"),
		WorkoutTime:          d.integer("workoutTime"),
	}
	if d.err != nil {
		return Summary{}, d.err
	}
	return s, nil
}

// NewLaps flattens the grouped lap list, keeping only groups that carry
// running laps. Ride lap groups are skipped outright, not merged. Relative
// order is preserved across and within groups.
func NewLaps(groups []json.RawMessage) ([]Lap, error) {
	var laps []Lap
	for i, raw := range groups {
		var group struct {
			Type        int               `json:"type"`
			LapItemList []json.RawMessage `json:"lapItemList"`
		}
		if err := json.Unmarshal(raw, &group); err != nil {
			return nil, fmt.Errorf("decoding lap group %d: %w", i, err)
		}

		if coros.LapType(group.Type) != coros.LapRunning {
			continue
		}

		for _, item := range group.LapItemList {
			lap, err := newLap(item)
			if err != nil {
				return nil, err
			}
			laps = append(laps, lap)
		}
	}
	return laps, nil
}

func newLap(raw json.RawMessage) (Lap, error) {
	d, err := newFieldDecoder(raw)
	if err != nil {
		return Lap{}, err
	}

	lap := Lap{
		AvgCadence:      d.integer("avgCadence"),
		AvgHr:           d.integer("avgHr"),
		AvgMoveSpeed:    d.integer("avgMoveSpeed"),
		AvgPace:         d.float("avgPace"),
		AvgPower:        d.integer("avgPower"),
		AvgSpeedV2:      d.float("avgSpeedV2"),
		AvgStrideLength: d.integer("avgStrideLength"),
		Calories:        d.integer("calories"),
		Distance:        d.integer("distance"),
		EndTimestamp:    d.timestamp("endTimestamp"),
		LapIndex:        d.integer("lapIndex"),
		RowIndex:        d.integer("rowIndex"),
		SetIndex:        d.integer("setIndex"),
		StartTimestamp:  d.timestamp("startTimestamp"),
		TotalDistance:   d.integer("totalDistance"),
	}
	if d.err != nil {
		return Lap{}, d.err
	}
	return lap, nil
}

// fieldDecoder pulls required fields out of a raw JSON object one at a
// time, recording the first failure. Keys nobody asks for are ignored.
type fieldDecoder struct {
	fields map[string]json.RawMessage
	err    error
}

func newFieldDecoder(raw json.RawMessage) (*fieldDecoder, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decoding object: %w", err)
	}
	return &fieldDecoder{fields: fields}, nil
}

func (d *fieldDecoder) integer(name string) int {
	var v int
	d.decode(name, &v)
	return v
}

func (d *fieldDecoder) float(name string) float64 {
	var v float64
	d.decode(name, &v)
	return v
}

func (d *fieldDecoder) text(name string) string {
	var v string
	d.decode(name, &v)
	return v
}

func (d *fieldDecoder) timestamp(name string) Timestamp {
	var raw int64
	d.decode(name, &raw)
	return DecodeTimestamp(raw)
}

func (d *fieldDecoder) decode(name string, into any) {
	if d.err != nil {
		return
	}
	raw, ok := d.fields[name]
	if !ok {
		d.err = &FieldError{Field: name}
		return
	}
	if err := json.Unmarshal(raw, into); err != nil {
		d.err = &FieldError{Field: name, Err: err}
	}
}
