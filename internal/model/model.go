package model

import (
	"encoding/json"
	"time"
)

// Timestamp is an instant decoded from the vendor's integer timestamps,
// which count hundredths of a second since the Unix epoch. It serializes as
// ISO-8601 in the local time zone, matching the JSON document this tool has
// always produced.
type Timestamp struct {
	time.Time
}

// DecodeTimestamp converts a raw centisecond epoch value.
func DecodeTimestamp(raw int64) Timestamp {
	sec := raw / 100
	nsec := (raw % 100) * int64(10*time.Millisecond)
	return Timestamp{time.Unix(sec, nsec).Local()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// Summary is the per-activity aggregate block of a detail payload. Every
// declared field is required; anything else the vendor sends is dropped.
type Summary struct {
	AdjustedPace         int       `json:"adjustedPace"`
	AerobicEffect        float64   `json:"aerobicEffect"`
	AerobicEffectState   int       `json:"aerobicEffectState"`
	AnaerobicEffect      float64   `json:"anaerobicEffect"`
	AnaerobicEffectState int       `json:"anaerobicEffectState"`
	AvgCadence           int       `json:"avgCadence"`
	AvgHr                int       `json:"avgHr"`
	AvgMoveSpeed         int       `json:"avgMoveSpeed"`
	AvgPace              int       `json:"avgPace"`
	AvgRunningEf         int       `json:"avgRunningEf"`
	AvgSpeed             float64   `json:"avgSpeed"`
	AvgStepLen           int       `json:"avgStepLen"`
	Calories             int       `json:"calories"`
	CurrentVo2Max        int       `json:"currentVo2Max"`
	DeviceSportMode      int       `json:"deviceSportMode"`
	Distance             int       `json:"distance"`
	EndTimestamp         Timestamp `json:"endTimestamp"`
	MaxCadence           int       `json:"maxCadence"`
	MaxHr                int       `json:"maxHr"`
	MaxSpeed             int       `json:"maxSpeed"`
	Name                 string    `json:"name"`
	SportMode            int       `json:"sportMode"`
	SportType            int       `json:"sportType"`
	StartTimestamp       Timestamp `json:"startTimestamp"`
	TotalTime            int       `json:"totalTime"`
	TrainType            int       `json:"trainType"`
	TrainingLoad         int       `json:"trainingLoad"`
	WorkoutTime          int       `json:"workoutTime"`
}

// FrequencySeries is the time series collected during an activity: five
// parallel sequences, one entry per sample. The sequences always have equal
// length because they are filled from a single pass over the sample list.
type FrequencySeries struct {
	Cadence    []int `json:"cadence"`
	Distance   []int `json:"distance"`
	Heart      []int `json:"heart"`
	HeartLevel []int `json:"heartLevel"`
	Timestamp  []int `json:"timestamp"`
}

// Len returns the number of samples in the series.
func (f *FrequencySeries) Len() int { return len(f.Timestamp) }

// Lap is one completed lap of a running lap group.
type Lap struct {
	AvgCadence      int       `json:"avgCadence"`
	AvgHr           int       `json:"avgHr"`
	AvgMoveSpeed    int       `json:"avgMoveSpeed"`
	AvgPace         float64   `json:"avgPace"`
	AvgPower        int       `json:"avgPower"`
	AvgSpeedV2      float64   `json:"avgSpeedV2"`
	AvgStrideLength int       `json:"avgStrideLength"`
	Calories        int       `json:"calories"`
	Distance        int       `json:"distance"`
	EndTimestamp    Timestamp `json:"endTimestamp"`
	LapIndex        int       `json:"lapIndex"`
	RowIndex        int       `json:"rowIndex"`
	SetIndex        int       `json:"setIndex"`
	StartTimestamp  Timestamp `json:"startTimestamp"`
	TotalDistance   int       `json:"totalDistance"`
}

// Activity is one fully normalized activity.
type Activity struct {
	Summary Summary         `json:"summary"`
	Data    FrequencySeries `json:"data"`
	Laps    []Lap           `json:"laps"`
}

// Collection is the append-only set of activities built over one extraction
// run. It serializes as a bare JSON array.
type Collection []Activity

// Add appends an activity, preserving encounter order.
func (c *Collection) Add(a Activity) {
	*c = append(*c, a)
}
