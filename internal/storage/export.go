package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/wheelsim/internal/sim"
)

type ExportData struct {
	RunMetadata
	Labels []string    `json:"labels"`
	Steps  int         `json:"steps"`
	Times  []float64   `json:"times"`
	States [][]float64 `json:"states"`
}

// ExportJSON writes a saved run, metadata and samples, as indented JSON.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Labels:      Header()[1:],
		Steps:       len(times),
		Times:       times,
		States:      states,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV copies a saved run's samples to w with the standard header.
func (s *Store) ExportCSV(w io.Writer, runID string) error {
	states, times, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	return writeRows(w, states, times)
}

// WriteCSV writes a result's samples with the standard header.
func WriteCSV(w io.Writer, result *sim.Result) error {
	rows := make([][]float64, len(result.States))
	for i, st := range result.States {
		rows[i] = st
	}
	return writeRows(w, rows, result.Times)
}

func writeRows(w io.Writer, states [][]float64, times []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}

	for i := range states {
		if i >= len(times) {
			break
		}
		row := make([]string, 0, len(states[i])+1)
		row = append(row, strconv.FormatFloat(times[i], 'f', 6, 64))
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
