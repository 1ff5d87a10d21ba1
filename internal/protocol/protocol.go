// Package protocol defines the match trace record format and the stable error
// codes shared by the engine and its tools.
package protocol

import (
	_ "embed"
	"encoding/json"
)

const Version = "1.0"

// Record types.
const (
	TypeHeader = "header"
	TypeTick   = "tick"
	TypeResult = "result"
)

//go:embed trace.schema.json
var TraceSchema []byte

// BaseRecord lets readers route a trace line by type.
type BaseRecord struct {
	Type    string `json:"type"`
	Version string `json:"version,omitempty"`
}

func DecodeBase(b []byte) (BaseRecord, error) {
	var m BaseRecord
	err := json.Unmarshal(b, &m)
	return m, err
}

// HeaderRecord is the first line of a trace. Red and Blue carry the alliance
// configs verbatim so a replay can rebuild the match.
type HeaderRecord struct {
	Type          string          `json:"type"`
	Version       string          `json:"version"`
	Seed          int64           `json:"seed"`
	Ticks         int             `json:"ticks"`
	Red           json.RawMessage `json:"red"`
	Blue          json.RawMessage `json:"blue"`
	TuningDigest  string          `json:"tuning_digest"`
	CatalogDigest string          `json:"catalog_digest"`
	TieBreak      string          `json:"tie_break,omitempty"`
}

type PoolsRecord struct {
	OnField      int    `json:"on_field"`
	AllianceZone [2]int `json:"alliance_zone"`
	FeedStation  [2]int `json:"feed_station"`
	Held         []int  `json:"held"`
	InFlight     int    `json:"in_flight"`
	InTransit    int    `json:"in_transit"`
}

type TickRecord struct {
	Type         string      `json:"type"`
	Tick         int         `json:"tick"`
	Phase        string      `json:"phase"`
	RedEligible  bool        `json:"red_eligible"`
	BlueEligible bool        `json:"blue_eligible"`
	RedScore     int         `json:"red_score"`
	BlueScore    int         `json:"blue_score"`
	Pools        PoolsRecord `json:"pools"`
	States       []string    `json:"states"`
	Digest       string      `json:"digest"`
}

type ResultRecord struct {
	Type      string `json:"type"`
	Winner    string `json:"winner"`
	RedScore  int    `json:"red_score"`
	BlueScore int    `json:"blue_score"`
	RedRP     int    `json:"red_rp"`
	BlueRP    int    `json:"blue_rp"`
	Digest    string `json:"digest"`
	Aborted   bool   `json:"aborted,omitempty"`
	Error     string `json:"error,omitempty"`
}
