package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"gridiron/internal/repositories"
	"gridiron/internal/services/payment"
	"gridiron/internal/services/wallet"
)

func reconcileCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Inspect and settle deposits that were captured but not credited",
	}
	cmd.AddCommand(reconcileListCmd(a))
	cmd.AddCommand(reconcileRetryCmd(a))
	return cmd
}

// paymentService builds a payment service without gateways: reconciliation
// never calls a provider.
func (a *app) paymentService() payment.Service {
	store := repositories.NewStore(a.db)
	wallets := wallet.NewService(store, a.cache, depositCurrency(a), a.log)

	var limits payment.Limits
	if a.cfg != nil {
		if minAmount, maxAmount, err := a.cfg.Deposits.Bounds(); err == nil {
			limits = payment.Limits{Min: minAmount, Max: maxAmount, LockTTL: a.cfg.Deposits.LockTTL}
		}
	}
	return payment.NewService(store, nil, a.cache, wallets, limits, a.log)
}

func reconcileListCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger entries waiting for manual reconciliation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			txs, total, err := a.paymentService().ListReconciliations(cmd.Context(), limit, 0)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TRANSACTION\tPROVIDER\tREFERENCE\tUSER\tAMOUNT\tERROR")
			for _, tx := range txs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s %s\t%s\n",
					tx.TransactionID, tx.Provider, tx.Reference, tx.UserID, tx.Amount.StringFixed(2), tx.Currency, tx.ErrorNote)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d of %d pending\n", len(txs), total)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum entries to show")
	return cmd
}

func reconcileRetryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "retry TRANSACTION_ID",
		Short: "Re-run the balance credit for a captured deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.paymentService().RetryReconciliation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "transaction %s %s: credited %s %s",
				result.TransactionID, result.Status, result.Amount.StringFixed(2), result.Currency)
			if result.Balance != nil {
				fmt.Fprintf(cmd.OutOrStdout(), ", balance %s", result.Balance.StringFixed(2))
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}
