// Package log writes and reads match traces: zstd-compressed JSONL with a
// header line, one line per tick and a closing result line.
package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/protocol"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/alliance"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/match"
	"github.com/Morgan920225/FRC-2026-Strategy-Simulation/internal/sim/simerr"
)

// TraceWriter implements match.TickObserver.
type TraceWriter struct {
	w     *JSONLZstdWriter
	ticks int
}

// CreateTrace opens path and writes the header line.
func CreateTrace(path string, h protocol.HeaderRecord) (*TraceWriter, error) {
	w, err := NewJSONLZstdWriter(path)
	if err != nil {
		return nil, err
	}
	h.Type = protocol.TypeHeader
	if h.Version == "" {
		h.Version = protocol.Version
	}
	if err := w.Write(h); err != nil {
		_ = w.Close()
		return nil, err
	}
	return &TraceWriter{w: w}, nil
}

func (t *TraceWriter) WriteTick(rec protocol.TickRecord) error {
	rec.Type = protocol.TypeTick
	t.ticks++
	return t.w.Write(rec)
}

func (t *TraceWriter) WriteResult(rec protocol.ResultRecord) error {
	rec.Type = protocol.TypeResult
	return t.w.Write(rec)
}

// Ticks is the number of tick lines written so far.
func (t *TraceWriter) Ticks() int { return t.ticks }

func (t *TraceWriter) Close() error { return t.w.Close() }

// NewHeader describes a match so that a replay can rebuild it.
func NewHeader(seed int64, red, blue alliance.Config, env match.Env) (protocol.HeaderRecord, error) {
	h := protocol.HeaderRecord{
		Type:          protocol.TypeHeader,
		Version:       protocol.Version,
		Seed:          seed,
		Ticks:         env.Tuning.TotalTicks(),
		TuningDigest:  env.Tuning.Digest(),
		CatalogDigest: env.Catalog.Digest,
	}
	var err error
	if h.Red, err = json.Marshal(red); err != nil {
		return h, err
	}
	if h.Blue, err = json.Marshal(blue); err != nil {
		return h, err
	}
	return h, nil
}

// Alliances decodes the configs carried in a header.
func Alliances(h protocol.HeaderRecord) (red, blue alliance.Config, err error) {
	if err = json.Unmarshal(h.Red, &red); err != nil {
		return red, blue, fmt.Errorf("header red: %w", err)
	}
	if err = json.Unmarshal(h.Blue, &blue); err != nil {
		return red, blue, fmt.Errorf("header blue: %w", err)
	}
	return red, blue, nil
}

// NewResult is the closing line for a match that returned res and err. An
// invariant abort is recorded; any other error is the caller's to report.
func NewResult(res match.Result, err error) protocol.ResultRecord {
	rec := protocol.ResultRecord{
		Type:      protocol.TypeResult,
		Winner:    res.Winner,
		RedScore:  res.Red().Score,
		BlueScore: res.Blue().Score,
		RedRP:     res.Red().RP,
		BlueRP:    res.Blue().RP,
		Digest:    res.Digest,
	}
	if simerr.IsInvariant(err) {
		rec.Aborted = true
		rec.Error = err.Error()
	}
	return rec
}

// Trace is a fully read trace file.
type Trace struct {
	Header protocol.HeaderRecord
	Ticks  []protocol.TickRecord
	// Result is nil when the trace was cut short.
	Result *protocol.ResultRecord
}

var ErrNoHeader = errors.New("trace does not start with a header")

// ReadTrace decodes a whole trace file.
func ReadTrace(path string) (Trace, error) {
	var tr Trace
	f, err := os.Open(path)
	if err != nil {
		return tr, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return tr, err
	}
	defer dec.Close()

	name := filepath.Base(path)
	sc := bufio.NewScanner(dec)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		b := sc.Bytes()
		base, err := protocol.DecodeBase(b)
		if err != nil {
			return tr, fmt.Errorf("%s:%d: %w", name, line, err)
		}
		if line == 1 && base.Type != protocol.TypeHeader {
			return tr, fmt.Errorf("%s: %w", name, ErrNoHeader)
		}
		switch base.Type {
		case protocol.TypeHeader:
			if line != 1 {
				return tr, fmt.Errorf("%s:%d: second header", name, line)
			}
			if err := json.Unmarshal(b, &tr.Header); err != nil {
				return tr, fmt.Errorf("%s:%d: %w", name, line, err)
			}
		case protocol.TypeTick:
			var rec protocol.TickRecord
			if err := json.Unmarshal(b, &rec); err != nil {
				return tr, fmt.Errorf("%s:%d: %w", name, line, err)
			}
			tr.Ticks = append(tr.Ticks, rec)
		case protocol.TypeResult:
			var rec protocol.ResultRecord
			if err := json.Unmarshal(b, &rec); err != nil {
				return tr, fmt.Errorf("%s:%d: %w", name, line, err)
			}
			tr.Result = &rec
		default:
			return tr, fmt.Errorf("%s:%d: unknown record type %q", name, line, base.Type)
		}
	}
	if err := sc.Err(); err != nil {
		return tr, err
	}
	if line == 0 {
		return tr, fmt.Errorf("%s: %w", name, ErrNoHeader)
	}
	return tr, nil
}
