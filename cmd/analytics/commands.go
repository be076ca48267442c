package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/moneymate/moneymate-backend/internal/domain"
	"github.com/moneymate/moneymate-backend/internal/handler"
	"github.com/moneymate/moneymate-backend/internal/service"
	"github.com/moneymate/moneymate-backend/internal/util"
)

// serviceOpener returns a ready analytics service and a cleanup func
type serviceOpener func(ctx context.Context) (*service.AnalyticsService, func(), error)

type rootOptions struct {
	userID  string
	verbose bool
	open    serviceOpener
}

func newRootCmd(open serviceOpener) *cobra.Command {
	opts := &rootOptions{open: open}

	cmd := &cobra.Command{
		Use:           "analytics",
		Short:         "Run MoneyMate analytics for a single user",
		Long:          `Computes the same reports the API serves, straight from the transaction store, and prints them as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.userID, "user", "", "user ID (UUID)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	_ = cmd.MarkPersistentFlagRequired("user")

	cmd.AddCommand(reportCmd(opts))
	cmd.AddCommand(predictCmd(opts))
	cmd.AddCommand(categoriesCmd(opts))
	cmd.AddCommand(trendsCmd(opts))

	return cmd
}

func reportCmd(opts *rootOptions) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Comprehensive report for a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, svc *service.AnalyticsService, userID uuid.UUID) (any, error) {
				dr, err := parseRange(start, end, svc.Location())
				if err != nil {
					return nil, err
				}
				report, err := svc.GetReport(ctx, userID, dr)
				if err != nil {
					return nil, err
				}
				return handler.ToReportResponse(report), nil
			})
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD), inclusive")
	return cmd
}

func predictCmd(opts *rootOptions) *cobra.Command {
	var req handler.SavingsPredictionRequest
	var reduction, increase float64
	var months int

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Project monthly savings under a what-if scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("expense-reduction") {
				req.ExpenseReduction = &reduction
			}
			if cmd.Flags().Changed("income-increase") {
				req.IncomeIncrease = &increase
			}
			if cmd.Flags().Changed("months") {
				req.Months = &months
			}

			return opts.run(cmd, func(ctx context.Context, svc *service.AnalyticsService, userID uuid.UUID) (any, error) {
				prediction, err := svc.PredictSavings(ctx, userID, handler.ScenarioFromRequest(req))
				if err != nil {
					return nil, err
				}
				return handler.ToPredictionResponse(prediction), nil
			})
		},
	}

	cmd.Flags().Float64Var(&reduction, "expense-reduction", 0, "expense reduction percentage (0-100)")
	cmd.Flags().Float64Var(&increase, "income-increase", 0, "income increase percentage (0-100)")
	cmd.Flags().IntVar(&months, "months", domain.DefaultPredictionHorizon, "months to project")
	return cmd
}

func categoriesCmd(opts *rootOptions) *cobra.Command {
	var kind, start, end string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Totals per category",
		RunE: func(cmd *cobra.Command, args []string) error {
			txType := domain.TransactionType(kind)
			if !txType.IsValid() {
				return fmt.Errorf("--type must be one of: income, expense")
			}

			return opts.run(cmd, func(ctx context.Context, svc *service.AnalyticsService, userID uuid.UUID) (any, error) {
				dr, err := parseRange(start, end, svc.Location())
				if err != nil {
					return nil, err
				}
				breakdown, err := svc.GetCategoryBreakdown(ctx, userID, txType, dr)
				if err != nil {
					return nil, err
				}
				return handler.ToCategoryBreakdownResponse(*breakdown), nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "type", string(domain.TransactionTypeExpense), "income or expense")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD), inclusive")
	return cmd
}

func trendsCmd(opts *rootOptions) *cobra.Command {
	var granularity, start, end string

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Income, expense and net per period",
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, func(ctx context.Context, svc *service.AnalyticsService, userID uuid.UUID) (any, error) {
				dr, err := parseRange(start, end, svc.Location())
				if err != nil {
					return nil, err
				}
				buckets, err := svc.GetPeriodTrend(ctx, userID, domain.Granularity(granularity), dr)
				if err != nil {
					return nil, err
				}
				return handler.ToPeriodTrendResponse(buckets), nil
			})
		},
	}

	cmd.Flags().StringVar(&granularity, "granularity", string(domain.GranularityMonth), "day, week or month")
	cmd.Flags().StringVar(&start, "start", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "end date (YYYY-MM-DD), inclusive")
	return cmd
}

// run opens the service, executes fn for the --user and prints its result
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, svc *service.AnalyticsService, userID uuid.UUID) (any, error)) error {
	userID, err := uuid.Parse(o.userID)
	if err != nil {
		return fmt.Errorf("--user must be a valid UUID: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, cleanup, err := o.open(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := fn(ctx, svc, userID)
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}

	log.Debug().Str("user_id", userID.String()).Str("command", cmd.Name()).Msg("Analytics command finished")
	return printJSON(cmd.OutOrStdout(), result)
}

func parseRange(start, end string, loc *time.Location) (domain.DateRange, error) {
	var dr domain.DateRange
	if start != "" {
		t, err := time.ParseInLocation("2006-01-02", start, loc)
		if err != nil {
			return dr, fmt.Errorf("--start must be in YYYY-MM-DD format")
		}
		dr.Start = &t
	}
	if end != "" {
		t, err := time.ParseInLocation("2006-01-02", end, loc)
		if err != nil {
			return dr, fmt.Errorf("--end must be in YYYY-MM-DD format")
		}
		t = util.DayEnd(t)
		dr.End = &t
	}
	return dr, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
