package coros

import (
	"encoding/json"
	"fmt"
)

// Session holds the credentials returned by a successful login. It is
// immutable for the lifetime of the run that created it.
type Session struct {
	AccessToken string
	UserID      string
}

// Headers returns the header set every authenticated call must carry.
func (s *Session) Headers() map[string]string {
	return map[string]string{"Accesstoken": s.AccessToken}
}

// IndexEntry is one row of the activity listing. The listing schema is
// treated as opaque: only the fields needed to address the activity are
// decoded, and the raw row is kept for logging.
type IndexEntry struct {
	LabelID   string
	SportType int

	Raw json.RawMessage
}

func (e *IndexEntry) UnmarshalJSON(b []byte) error {
	var p struct {
		LabelID   json.RawMessage `json:"labelId"`
		SportType int             `json:"sportType"`
	}
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}

	// labelId arrives as a bare JSON number too wide for float64, though
	// some payloads quote it. Keep the literal digits either way.
	var label string
	if len(p.LabelID) > 0 && string(p.LabelID) != "null" {
		if err := json.Unmarshal(p.LabelID, &label); err != nil {
			var n json.Number
			if err := json.Unmarshal(p.LabelID, &n); err != nil {
				return fmt.Errorf("labelId: %w", err)
			}
			label = n.String()
		}
	}

	e.LabelID = label
	e.SportType = p.SportType
	e.Raw = append(json.RawMessage(nil), b...)
	return nil
}

// Detail is the raw payload of one activity detail query. The summary, the
// sample list and the lap groups stay undecoded JSON; turning them into the
// domain model is the normalizer's job.
type Detail struct {
	Summary       json.RawMessage   `json:"summary"`
	FrequencyList []json.RawMessage `json:"frequencyList"`
	LapList       []json.RawMessage `json:"lapList"`
}

type loginResponse struct {
	Data *struct {
		AccessToken string `json:"accessToken"`
		UserID      string `json:"userId"`
	} `json:"data"`
}

type listData struct {
	Count    int          `json:"count"`
	DataList []IndexEntry `json:"dataList"`
}

type listResponse struct {
	Data *listData `json:"data"`
}

type detailResponse struct {
	Data *Detail `json:"data"`
}

// valid answers whether the payload can be handed to the normalizer. The
// only structural requirement is a non-null summary inside the data
// envelope.
func (r *detailResponse) valid() bool {
	return r.Data != nil && len(r.Data.Summary) > 0 && string(r.Data.Summary) != "null"
}

type downloadResponse struct {
	Data *struct {
		FileURL string `json:"fileUrl"`
	} `json:"data"`
}
