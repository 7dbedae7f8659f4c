/*
Package wallet owns merchant balances.

Balances live on the merchant row and only change through this service:

	svc := wallet.NewService(walletRepo, merchantRepo, merchantCache, notifier, recorder)

	// Credit revenue (ad rewards, verified payments)
	err := svc.Credit(ctx, merchantID, decimal.RequireFromString("0.005"))

	// Reserve funds for a payout to the merchant's Pi wallet
	w, err := svc.Withdraw(ctx, merchantID, amount)

Every write is a single conditional UPDATE in the repository, so concurrent
credits and withdrawals never lose an increment or overdraw.

Error Handling:

- ErrInvalidAmount: amount is zero or negative
- ErrNoWalletAddress: the merchant has no payout address on file
- ErrInsufficientBalance: available balance does not cover the withdrawal

The merchant cache entry is dropped after every balance change.
*/
package wallet
