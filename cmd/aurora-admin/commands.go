package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/Dan9191/aurora/internal/ai"
	"github.com/Dan9191/aurora/internal/ledger"
	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

func newMigrateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create any missing tables and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.repo.Migrate(cmd.Context()); err != nil {
				return wrapExitError(exitCommandError, "migration failed", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema applied (%s)\n", a.cfg.DBDriver)
			return nil
		},
	}
}

func newSeedCommand(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load a demo user with accounts, transactions, goals, budgets and subscriptions",
		Long: `Load demo data. Transactions are posted through the ledger, so account
balances are consistent with their history from the start.

Examples:
  aurora-admin seed
  aurora-admin seed --email demo@aurora.app --password secret123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.repo.Migrate(cmd.Context()); err != nil {
				return wrapExitError(exitCommandError, "migration failed", err)
			}
			summary, err := seedDemo(cmd.Context(), a, email, password)
			if err != nil {
				return wrapExitError(exitCommandError, "seed failed", err)
			}
			if a.opts.Format == "json" {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
			}
			fmt.Fprintln(cmd.OutOrStdout(), summary)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "nicolas@aurora.app", "demo user email")
	cmd.Flags().StringVar(&password, "password", "aurora123", "demo user password")
	return cmd
}

func newReconcileCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Compare every account balance with its opening balance plus ledger",
		Long: `Recompute each account balance as opening balance plus the signed sum of
its transactions and report accounts whose stored balance differs.

Exit codes:
  0 - every balance matches its ledger
  1 - at least one account has drifted
  2 - command error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			drifts, err := a.ledger.Verify(cmd.Context())
			if err != nil {
				return wrapExitError(exitCommandError, "reconcile failed", err)
			}
			if err := printDrifts(cmd, a.opts.Format, drifts); err != nil {
				return err
			}
			if len(drifts) > 0 {
				return wrapExitError(exitFailure, fmt.Sprintf("%d account(s) out of balance", len(drifts)), nil)
			}
			return nil
		},
	}
}

type driftRow struct {
	AccountID  int64  `json:"accountId"`
	UserID     int64  `json:"userId"`
	Name       string `json:"name"`
	Stored     string `json:"stored"`
	Expected   string `json:"expected"`
	Difference string `json:"difference"`
}

func printDrifts(cmd *cobra.Command, format string, drifts []ledger.Drift) error {
	rows := make([]driftRow, 0, len(drifts))
	for _, d := range drifts {
		rows = append(rows, driftRow{
			AccountID:  d.AccountID,
			UserID:     d.UserID,
			Name:       d.Name,
			Stored:     d.Stored.String(),
			Expected:   d.Expected.String(),
			Difference: d.Difference().String(),
		})
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return json.NewEncoder(out).Encode(map[string]interface{}{"drifts": rows, "count": len(rows)})
	}
	if len(rows) == 0 {
		fmt.Fprintln(out, "All account balances match their ledgers.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tUSER\tNAME\tSTORED\tEXPECTED\tDIFFERENCE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n", r.AccountID, r.UserID, r.Name, r.Stored, r.Expected, r.Difference)
	}
	return tw.Flush()
}

func newAskCommand(a *app) *cobra.Command {
	var email string
	var raw bool
	cmd := &cobra.Command{
		Use:     "ask <question>",
		Short:   "Ask the assistant a question on behalf of a user",
		Example: `  aurora-admin ask --email nicolas@aurora.app "¿Cuánto gasté en Starbucks este mes?"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := a.repo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
			if err != nil {
				return wrapExitError(exitCommandError, fmt.Sprintf("user %s", email), err)
			}

			assistant := ai.NewAssistant(a.svc, a.cfg, a.log, ai.NewProviders(a.cfg)...)
			reply, err := assistant.Chat(ctx, user.ID, strings.Join(args, " "))
			if err != nil {
				return wrapExitError(exitFailure, "assistant request failed", err)
			}

			out := cmd.OutOrStdout()
			if a.opts.Format == "json" {
				return json.NewEncoder(out).Encode(map[string]string{"response": reply})
			}
			if raw {
				fmt.Fprintln(out, reply)
				return nil
			}
			r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				return wrapExitError(exitCommandError, "failed to create renderer", err)
			}
			rendered, err := r.Render(reply)
			if err != nil {
				return wrapExitError(exitCommandError, "failed to render reply", err)
			}
			fmt.Fprint(out, rendered)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user to ask as (required)")
	cobra.CheckErr(cmd.MarkFlagRequired("email"))
	cmd.Flags().BoolVar(&raw, "raw", false, "print the reply without markdown rendering")
	return cmd
}
