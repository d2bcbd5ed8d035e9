package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/wheelsim/internal/analysis"
	"github.com/san-kum/wheelsim/internal/dynamo"
	"github.com/san-kum/wheelsim/internal/physics"
	"github.com/san-kum/wheelsim/internal/storage"
	"github.com/spf13/cobra"
)

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tSEED\tDURATION\tNUMBER\tFORCED")

	for _, run := range runs {
		number := "-"
		if run.Stopped {
			number = fmt.Sprint(run.Number)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2fs\t%s\t%v\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Seed,
			run.Duration,
			number,
			run.Forced,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, [][]float64, []float64, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(states) == 0 {
		return nil, nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, states, times, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, states, _, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s  seed: %d\n", meta.Preset, meta.Seed)
	fmt.Printf("samples: %d\n\n", len(states))

	for _, name := range plotVars {
		data, err := storage.Column(states, name)
		if err != nil {
			return err
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func columnIndex(name string) (int, error) {
	for i, l := range physics.VectorLabels {
		if l == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown column %q (have %v)", name, physics.VectorLabels)
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, rows, _, err := loadRun(args[0])
	if err != nil {
		return err
	}
	xi, err := columnIndex(xAxis)
	if err != nil {
		return err
	}
	yi, err := columnIndex(yAxis)
	if err != nil {
		return err
	}

	states := make([]dynamo.State, len(rows))
	for i, r := range rows {
		states[i] = dynamo.State(r)
	}
	portrait := analysis.PhasePortrait(states, xi, yi)

	fmt.Printf("phase portrait: %s vs %s (%s)\n\n", yAxis, xAxis, meta.ID)
	fmt.Println(analysis.PhasePortraitToASCII(portrait, 70, 24))
	return nil
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	meta, states, times, err := loadRun(args[0])
	if err != nil {
		return err
	}
	data, err := storage.Column(states, column)
	if err != nil {
		return err
	}
	if len(times) < 2 {
		return fmt.Errorf("run %s: need at least two samples", meta.ID)
	}
	dt := times[1] - times[0]

	power := analysis.PowerSpectrum(data)
	freq := analysis.DominantFrequency(data, dt)

	fmt.Printf("run: %s  column: %s  samples: %d  dt: %.4fs\n", meta.ID, column, len(data), dt)
	fmt.Printf("dominant frequency: %.4f Hz\n\n", freq)
	if len(power) > 1 {
		fmt.Println(asciigraph.Plot(power[1:],
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum"),
		))
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(os.Stdout, args[0])
}

func exportCSV(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportCSV(os.Stdout, args[0])
}
