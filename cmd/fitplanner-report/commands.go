package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/claude/fitplanner/internal/models"
	"github.com/claude/fitplanner/internal/planner"
	"github.com/claude/fitplanner/internal/report"
	"github.com/claude/fitplanner/internal/sampler"
	"github.com/claude/fitplanner/internal/storage"
	"github.com/spf13/cobra"
)

const noMatchWarning = "No exercises found for this body part."

func newSummaryCmd(o *rootOptions) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the exercise count and the most common body parts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(svc *planner.Service) error {
				sum, err := svc.Summary(cmd.Context(), top)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if o.jsonOut {
					return writeJSON(out, sum)
				}
				fmt.Fprintf(out, "Total exercises: %d (dropped %d incomplete rows)\n\n", sum.Count, sum.Dropped)
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "BODY PART\tEXERCISES")
				for _, c := range sum.TopBodyParts {
					fmt.Fprintf(tw, "%s\t%d\n", c.Value, c.Count)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&top, "top", report.DefaultTopN, "number of body parts to rank")
	return cmd
}

func newPreviewCmd(o *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the first rows of the cleaned dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(svc *planner.Service) error {
				recs, err := svc.Preview(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return o.writeExercises(cmd.OutOrStdout(), recs)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", report.DefaultPreviewRows, "number of rows")
	return cmd
}

func newBodyPartsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "body-parts",
		Short: "List the body parts that can be sampled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(svc *planner.Service) error {
				parts, err := svc.BodyParts(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if o.jsonOut {
					return writeJSON(out, parts)
				}
				for _, p := range parts {
					fmt.Fprintln(out, p)
				}
				return nil
			})
		},
	}
}

func newSampleCmd(o *rootOptions) *cobra.Command {
	var (
		bodyPart string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Show a random selection of exercises for a body part",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(svc *planner.Service) error {
				recs, err := svc.Sample(cmd.Context(), bodyPart, limit)
				if errors.Is(err, models.ErrNoMatch) {
					fmt.Fprintln(cmd.ErrOrStderr(), "⚠ Warning:", noMatchWarning)
					return nil
				}
				if err != nil {
					return err
				}
				return o.writeExercises(cmd.OutOrStdout(), recs)
			})
		},
	}
	cmd.Flags().StringVar(&bodyPart, "body-part", "", "body part to filter on (exact match)")
	cmd.Flags().IntVar(&limit, "limit", sampler.DefaultMaxSamples, "maximum exercises to show")
	_ = cmd.MarkFlagRequired("body-part")
	return cmd
}

func newGoalsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "goals",
		Short: "List the fitness goals advice can be generated for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			goals := models.Goals()
			if o.jsonOut {
				return writeJSON(out, goals)
			}
			for _, g := range goals {
				fmt.Fprintln(out, g)
			}
			return nil
		},
	}
}

func newAdviceCmd(o *rootOptions) *cobra.Command {
	var goal string
	cmd := &cobra.Command{
		Use:   "advice",
		Short: "Generate a motivational sentence for a fitness goal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(svc *planner.Service) error {
				res, err := svc.Advice(cmd.Context(), goal)
				if err != nil {
					return fmt.Errorf("%w %q (choose one of %v)", err, goal, models.Goals())
				}
				out := cmd.OutOrStdout()
				if o.jsonOut {
					if err := writeJSON(out, res); err != nil {
						return err
					}
				}
				if res.Failed() {
					return errors.New(res.Error)
				}
				if !o.jsonOut {
					fmt.Fprintln(out, res.Text)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&goal, "goal", "", "fitness goal, e.g. \"Muscle Gain\"")
	_ = cmd.MarkFlagRequired("goal")
	return cmd
}

func newHistoryCmd(o *rootOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently generated advice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, func(svc *planner.Service) error {
				items, err := svc.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if o.jsonOut {
					return writeJSON(out, items)
				}
				if len(items) == 0 {
					fmt.Fprintln(out, "(no advice yet)")
					return nil
				}
				tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "WHEN\tGOAL\tRESULT")
				for _, r := range items {
					text := r.Text
					if r.Failed() {
						text = r.Error
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Goal, text)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", storage.DefaultRecentLimit, "number of entries")
	return cmd
}

func (o *rootOptions) writeExercises(out io.Writer, recs []models.ExerciseRecord) error {
	if o.jsonOut {
		return writeJSON(out, recs)
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tTYPE\tBODY PART\tEQUIPMENT\tLEVEL")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Title, r.Type, r.BodyPart, r.Equipment, r.Level)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
