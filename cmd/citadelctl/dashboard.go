package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"citadel/internal/agenda"
	"citadel/internal/client"
	"citadel/internal/model"

	"github.com/spf13/cobra"
)

type dashboard struct {
	User     *model.User
	Upcoming []agenda.Classified
	Counts   map[string]int
	Activity []model.ActivityLog
}

func newDashboardCmd() *cobra.Command {
	var baseURL string
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print upcoming reminders, category counts and recent activity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.New(baseURL, os.Getenv("CITADEL_TOKEN"))
			d, err := loadDashboard(cmd, c, time.Now())
			if errors.Is(err, client.ErrUnauthorized) {
				return errors.New("not signed in: set CITADEL_TOKEN (see citadelctl token)")
			}
			if err != nil {
				return err
			}
			renderDashboard(cmd.OutOrStdout(), d, time.Now())
			return nil
		},
	}
	cmd.Flags().StringVar(&baseURL, "url", "http://localhost:8080", "API base URL")
	return cmd
}

func loadDashboard(cmd *cobra.Command, c *client.Client, now time.Time) (*dashboard, error) {
	ctx := cmd.Context()
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, err := c.Upcoming(ctx, agenda.UpcomingLimit, now)
	if err != nil {
		return nil, err
	}
	counts, err := c.CategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := c.Activity(ctx)
	if err != nil {
		return nil, err
	}
	return &dashboard{User: user, Upcoming: upcoming, Counts: counts, Activity: activity}, nil
}

func renderDashboard(w io.Writer, d *dashboard, now time.Time) {
	name := d.User.DisplayName()
	if name == "" {
		name = d.User.ID
	}
	fmt.Fprintf(w, "Citadel: %s (%s)\n\n", name, d.User.SubscriptionStatus)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UPCOMING\tDUE\tURGENCY")
	if len(d.Upcoming) == 0 {
		fmt.Fprintln(tw, "(none)\t\t")
	}
	for _, r := range d.Upcoming {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Title, dueIn(r.DueDate, now), r.Urgency)
	}
	fmt.Fprintln(tw, "\t\t")
	fmt.Fprintln(tw, "CATEGORY\tENTRIES\t")
	for _, c := range model.Categories {
		fmt.Fprintf(tw, "%s\t%d\t\n", c, d.Counts[c])
	}
	_ = tw.Flush()

	fmt.Fprintln(w, "\nRECENT ACTIVITY")
	if len(d.Activity) == 0 {
		fmt.Fprintln(w, "(none)")
	}
	for _, a := range d.Activity {
		desc := a.Action
		if a.Description != nil {
			desc = *a.Description
		}
		fmt.Fprintf(w, "%s  %s\n", a.CreatedAt.Format("2006-01-02 15:04"), desc)
	}
}

func dueIn(due, now time.Time) string {
	d := due.Sub(now).Round(time.Minute)
	if d < 0 {
		return "overdue by " + (-d).String()
	}
	return "in " + d.String()
}
