package sim

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
)

// CFDUnit scales the CFD fraction into the integer units of the table
// report, matching a 15-bit fraction register.
const CFDUnit = 32768

// Results collects results in memory.
type Results []Result

// Write appends r.
func (rs *Results) Write(r Result) error {
	*rs = append(*rs, r)
	return nil
}

// CSVSink writes one CSV row per result after a header row.
type CSVSink struct {
	w      *csv.Writer
	closer io.Closer
	header bool
	record []string
}

var csvHeader = []string{"index", "energy", "timestamp", "cfd_point", "cfd"}

// NewCSVSink returns a sink writing to w. Close flushes but does not close w.
func NewCSVSink(w io.Writer) *CSVSink {
	return &CSVSink{w: csv.NewWriter(w), record: make([]string, len(csvHeader))}
}

// CreateCSV creates or truncates the file at path. Close closes the file.
func CreateCSV(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("sim: create csv: %w", err)
	}
	s := NewCSVSink(f)
	s.closer = f
	return s, nil
}

func (s *CSVSink) writeHeader() error {
	if s.header {
		return nil
	}
	s.header = true
	return s.w.Write(csvHeader)
}

// Write writes r as one row.
func (s *CSVSink) Write(r Result) error {
	if err := s.writeHeader(); err != nil {
		return err
	}
	s.record[0] = strconv.Itoa(r.Index)
	s.record[1] = strconv.FormatFloat(r.Energy, 'g', -1, 64)
	s.record[2] = strconv.Itoa(r.Timestamp)
	s.record[3] = strconv.Itoa(r.CFDPoint)
	s.record[4] = strconv.FormatFloat(r.CFD, 'g', -1, 64)
	return s.w.Write(s.record)
}

// Close writes pending rows, including the header of an empty run.
func (s *CSVSink) Close() error {
	err := s.writeHeader()
	s.w.Flush()
	err = errors.Join(err, s.w.Error())
	if s.closer != nil {
		err = errors.Join(err, s.closer.Close())
	}
	return err
}

// TableSink writes a tab-aligned table with the integer energy, the
// timestamp, the CFD point and the CFD fraction in units of 1/CFDUnit.
type TableSink struct {
	tw *tabwriter.Writer
}

// NewTableSink writes the table header to w and returns the sink.
func NewTableSink(w io.Writer) *TableSink {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "index\tenergy\tts\tcfdp\tcfd\t")
	return &TableSink{tw: tw}
}

// Write adds one row.
func (s *TableSink) Write(r Result) error {
	_, err := fmt.Fprintf(s.tw, "%d\t%d\t%d\t%d\t%d\t\n",
		r.Index, int(r.Energy), r.Timestamp, r.CFDPoint, int(r.CFD*CFDUnit))
	return err
}

// Close flushes the aligned table.
func (s *TableSink) Close() error {
	return s.tw.Flush()
}

// MultiSink fans results out to every sink in order.
type MultiSink []Sink

// Write passes r to each sink and stops at the first error.
func (m MultiSink) Write(r Result) error {
	for _, s := range m {
		if err := s.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink that is an io.Closer.
func (m MultiSink) Close() error {
	var errs []error
	for _, s := range m {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// WriteNoiseCSV writes a spectrum as frequency,power rows.
func WriteNoiseCSV(w io.Writer, freqs, power []float64) error {
	if len(freqs) != len(power) {
		return fmt.Errorf("sim: %d frequencies for %d power bins", len(freqs), len(power))
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frequency_hz", "power"}); err != nil {
		return err
	}
	for i := range freqs {
		row := []string{
			strconv.FormatFloat(freqs[i], 'g', -1, 64),
			strconv.FormatFloat(power[i], 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
