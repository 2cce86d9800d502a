// Command bracketctl is the operator CLI of the tournament engine.
//
// Usage:
//
//	bracketctl preview --format double_elimination --participants 6
//	bracketctl schedule --participants 5
//	bracketctl migrate --database-url postgres://...
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/db"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bracketctl",
		Short:         "Tournament engine operator CLI",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(previewCmd())
	root.AddCommand(scheduleCmd())
	root.AddCommand(migrateCmd())
	return root
}

func previewCmd() *cobra.Command {
	var (
		format       string
		participants int
		asJSON       bool
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Print the round layout of a format without creating anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := brackets.BuildTopology(models.FormatName(format), participants)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(topo)
			}
			return printTopology(cmd.OutOrStdout(), topo)
		},
	}
	cmd.Flags().StringVar(&format, "format", string(models.FormatKnockout), "knockout, double_elimination or round_robin")
	cmd.Flags().IntVarP(&participants, "participants", "n", 8, "Number of participants")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func printTopology(out io.Writer, topo *brackets.Topology) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "%s, %d participants, %d matches\n", topo.Format, topo.Participants, topo.TotalMatches())
	fmt.Fprintln(w, "BRACKET\tROUND\tNAME\tMATCHES\tBYES\tADVANCE\tELIMINATED")
	for _, r := range topo.Rounds() {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%d\t%d\n",
			r.Bracket, r.RoundNumber, r.RoundName, r.MatchCount, r.Byes, r.AdvancerCount, r.EliminatedCount)
	}
	return w.Flush()
}

func scheduleCmd() *cobra.Command {
	var participants int
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the round-robin pairings for n participants (seats are 1-based)",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := brackets.RoundRobinSchedule(participants)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, round := range schedule {
				fmt.Fprintf(out, "Round %d:", i+1)
				for _, p := range round {
					fmt.Fprintf(out, " %d-%d", p.A+1, p.B+1)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&participants, "participants", "n", 4, "Number of participants")
	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL string
		printOnly   bool
	)
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				_, err := io.WriteString(cmd.OutOrStdout(), db.Schema())
				return err
			}
			if databaseURL == "" {
				databaseURL = os.Getenv("DATABASE_URL")
			}
			if databaseURL == "" {
				return errors.New("DATABASE_URL is required")
			}

			conn, err := db.Connect(databaseURL, 5*time.Second)
			if err != nil {
				return err
			}
			defer conn.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
			defer cancel()
			if err := db.Migrate(ctx, conn); err != nil {
				return err
			}
			logger.Info("schema applied")
			return nil
		},
	}
	cmd.Flags().StringVar(&databaseURL, "database-url", "", "Postgres DSN (defaults to DATABASE_URL)")
	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")
	return cmd
}
