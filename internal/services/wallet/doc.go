/*
Package wallet manages the balance ledger row each user holds.

The wallet service handles:
- Wallet creation on registration
- Balance reads, cached in redis
- Deposit credits with currency and status checks
- Ledger history for the wallet owner

Usage:

	svc := wallet.NewService(store, cacheService, "USD", log)

	// Create the wallet for a new user
	w, err := svc.EnsureWallet(ctx, userID)

	// Credit a deposit
	w, err = svc.Credit(ctx, userID, amount, "USD")

	// Page through ledger entries
	txs, total, err := svc.ListTransactions(ctx, userID, limit, offset)

Payment capture credits inside its own database transaction and calls
ApplyCredit with the transaction-bound repository, so the same checks apply
on both paths.
*/
package wallet
