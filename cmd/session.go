package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/studyplan/app"
	"github.com/kilianp07/studyplan/core/model"
)

var statusCmd = &cobra.Command{
	Use:   "status <session-id> <planned|completed|missed|rescheduled>",
	Short: "Record what happened to a session",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := model.ParseSessionStatus(args[1])
		if err != nil {
			return err
		}
		return withService(func(ctx context.Context, svc *app.Service) error {
			sess, err := svc.MarkStatus(ctx, userID, args[0], status)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sess)
		})
	},
}

var rescheduleCmd = &cobra.Command{
	Use:   "reschedule <session-id>",
	Short: "Spread a missed session over the next days",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(ctx context.Context, svc *app.Service) error {
			res, err := svc.Reschedule(ctx, userID, args[0])
			if err != nil {
				return err
			}
			if res.Partial() {
				fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d minutes could not be placed\n", res.DroppedMinutes, res.RequestedMinutes)
			}
			return writeJSON(cmd.OutOrStdout(), res)
		})
	},
}

func init() {
	rootCmd.AddCommand(statusCmd, rescheduleCmd)
}
