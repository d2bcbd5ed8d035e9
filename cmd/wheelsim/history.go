package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/san-kum/wheelsim/internal/analysis"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/spf13/cobra"
)

func showHistory(cmd *cobra.Command, args []string) error {
	ledger, err := openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()
	ctx := context.Background()

	spins, err := ledger.ListSpins(ctx, limit)
	if err != nil {
		return err
	}
	if len(spins) == 0 {
		fmt.Println("no spins recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tPRESET\tSEED\tNUMBER\tTICKS\tFORCED\tBATCH")
	for _, sp := range spins {
		batch := "-"
		if sp.BatchID != uuid.Nil {
			batch = sp.BatchID.String()[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%v\t%s\n",
			sp.CreatedAt.Local().Format("2006-01-02 15:04:05"), sp.Preset, sp.Seed, sp.Number, sp.Ticks, sp.Forced, batch)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	var filter []string
	if preset != "" {
		filter = append(filter, preset)
	}
	counts, err := ledger.Counts(ctx, filter...)
	if err != nil {
		return err
	}
	var outcomes []int
	for n, c := range counts {
		for i := 0; i < c; i++ {
			outcomes = append(outcomes, n)
		}
	}
	fmt.Printf("\nrecorded spins (%d):\n", len(outcomes))
	l, _, err := loadLayout()
	if err != nil {
		l = layout.DefaultEuropean()
	}
	printDistribution(l, outcomes)

	batches, err := ledger.ListBatches(ctx, 5)
	if err != nil || len(batches) == 0 {
		return err
	}
	fmt.Println("\nrecent batches:")
	for _, b := range batches {
		dof := len(l.Numbers()) - 1
		fmt.Printf("  %s  %-24s %4d runs  chi2 %.2f / %.2f\n",
			b.ID.String()[:8], b.Preset, b.Runs, b.ChiSquare, analysis.ChiSquareCritical(dof))
	}
	return nil
}
