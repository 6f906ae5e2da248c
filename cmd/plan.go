package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/studyplan/app"
	"github.com/kilianp07/studyplan/core/model"
	"github.com/kilianp07/studyplan/core/scheduler"
	"github.com/kilianp07/studyplan/core/workload"
	"github.com/kilianp07/studyplan/infra/logger"
	"github.com/kilianp07/studyplan/pkg/export"
)

var (
	workloadPath string
	outFormat    string
	outPath      string
	weekDate     string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and store the weekly schedule for a workload file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		wl, err := workload.Load(workloadPath)
		if err != nil {
			return fmt.Errorf("load workload: %w", err)
		}
		return withService(func(ctx context.Context, svc *app.Service) error {
			plan, err := svc.Generate(ctx, userID, wl)
			if err != nil {
				return err
			}
			if !plan.Report.IsValid {
				log := logger.New("plan")
				for _, s := range plan.Report.Shortfalls {
					log.Warnf("%s %s is short by %d minutes", s.Type, s.Name, s.MissingMinutes)
				}
			}
			sum := scheduler.Summarize(plan.Schedule, plan.BudgetMinutes)
			return writeOutput(cmd, func(w io.Writer) error {
				if outFormat == "json" {
					return writeJSON(w, struct {
						*scheduler.Plan
						Summary scheduler.Summary `json:"summary"`
					}{plan, sum})
				}
				return export.Write(w, outFormat, plan.Schedule, &sum)
			})
		})
	},
}

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the stored week containing --date",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ref := time.Now()
		if weekDate != "" {
			d, err := model.ParseDate(weekDate)
			if err != nil {
				return err
			}
			ref = d
		}
		return withService(func(ctx context.Context, svc *app.Service) error {
			view, err := svc.Week(ctx, userID, ref)
			if err != nil {
				return err
			}
			return writeOutput(cmd, func(w io.Writer) error {
				return export.Write(w, outFormat, view.Schedule, &view.Summary)
			})
		})
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the stored week against a workload file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		wl, err := workload.Load(workloadPath)
		if err != nil {
			return fmt.Errorf("load workload: %w", err)
		}
		return withService(func(ctx context.Context, svc *app.Service) error {
			report, err := svc.Validate(ctx, userID, wl)
			if err != nil {
				return err
			}
			if err := writeJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if !report.IsValid {
				return fmt.Errorf("schedule is not valid")
			}
			return nil
		})
	},
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput sends fn's output to --out, or stdout when unset.
func writeOutput(cmd *cobra.Command, fn func(io.Writer) error) error {
	if outPath == "" {
		return fn(cmd.OutOrStdout())
	}
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func init() {
	planCmd.Flags().StringVarP(&workloadPath, "workload", "w", "workload.yaml", "tasks and exams (yaml or json)")
	planCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json or csv")
	planCmd.Flags().StringVarP(&outPath, "out", "o", "", "write output to file")

	weekCmd.Flags().StringVar(&weekDate, "date", "", "any date of the week, YYYY-MM-DD (default today)")
	weekCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json or csv")
	weekCmd.Flags().StringVarP(&outPath, "out", "o", "", "write output to file")

	validateCmd.Flags().StringVarP(&workloadPath, "workload", "w", "workload.yaml", "tasks and exams (yaml or json)")

	rootCmd.AddCommand(planCmd, weekCmd, validateCmd)
}
