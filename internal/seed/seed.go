// Package seed holds the built-in records served when nothing has been persisted yet.
// Default returns a fresh Dataset on every call, so callers own what they receive.
package seed

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wallet-ledger/internal/domain/account"
	"github.com/wallet-ledger/internal/domain/contact"
	"github.com/wallet-ledger/internal/domain/ledger"
	"github.com/wallet-ledger/internal/domain/request"
	"github.com/wallet-ledger/internal/domain/schedule"
)

// Identity of the seed account and its holder
const (
	AccountID  = "acc-001"
	HolderName = "Carlos Rodríguez"
)

// Dataset is the complete set of built-in records
type Dataset struct {
	Account            account.Account
	Cards              []account.Card
	Contacts           []contact.Contact
	Transactions       []ledger.Transaction
	MoneyRequests      []request.MoneyRequest
	ScheduledTransfers []schedule.ScheduledTransfer
}

// Default builds the demo dataset
func Default() *Dataset {
	opened := date(2023, 1, 15)

	return &Dataset{
		Account: account.Account{
			ID:            AccountID,
			AccountNumber: "ES91 2100 0418 4502 0005 1332",
			Type:          "checking",
			Balance:       amount("125430.50"),
			Currency:      "EUR",
			IsActive:      true,
			CreatedAt:     opened,
			UpdatedAt:     opened,
		},
		Cards: []account.Card{
			{ID: "card-1", Type: account.CardTypeDebit, Brand: "visa", LastFourDigits: "4532", HolderName: HolderName, ExpiryDate: "12/27", IsActive: true, UpdatedAt: opened},
			{ID: "card-2", Type: account.CardTypeCredit, Brand: "mastercard", LastFourDigits: "8821", HolderName: HolderName, ExpiryDate: "08/26", IsActive: true, UpdatedAt: opened},
			{ID: "card-3", Type: account.CardTypeDebit, Brand: "visa", LastFourDigits: "1209", HolderName: HolderName, ExpiryDate: "03/25", IsActive: false, UpdatedAt: opened},
		},
		Contacts: []contact.Contact{
			{
				ID: "1", Name: "Ana Martínez", Initials: "AM", HasWalletAccount: true,
				Email: "ana.martinez@example.com", Phone: "+34 612 345 678",
				RecentTransfers: []contact.RecentTransfer{
					{ID: "rt-1", Amount: amount("150"), Date: date(2024, 3, 10), Type: contact.DirectionSent, Reason: "Cena"},
					{ID: "rt-2", Amount: amount("75.50"), Date: date(2024, 2, 28), Type: contact.DirectionReceived},
				},
			},
			{
				ID: "2", Name: "Luis García", Initials: "LG", HasWalletAccount: true,
				Email: "luis.garcia@example.com",
				RecentTransfers: []contact.RecentTransfer{
					{ID: "rt-3", Amount: amount("1200"), Date: date(2024, 3, 1), Type: contact.DirectionSent, Reason: "Alquiler"},
				},
			},
			{ID: "3", Name: "María López", Initials: "ML", HasWalletAccount: false, Phone: "+34 698 765 432", RecentTransfers: []contact.RecentTransfer{}},
			{ID: "4", Name: "Jorge Fernández", Initials: "JF", HasWalletAccount: true, RecentTransfers: []contact.RecentTransfer{}},
			{ID: "5", Name: "Sofía Ramírez", Initials: "SR", HasWalletAccount: false, Email: "sofia.ramirez@example.com", RecentTransfers: []contact.RecentTransfer{}},
		},
		Transactions: []ledger.Transaction{
			transaction("tx-001", ledger.TransactionTypeTransfer, "-150", "Transferencia a Ana Martínez", date(2024, 3, 10), "transfers", "Ana Martínez", "125430.50"),
			transaction("tx-002", ledger.TransactionTypePayment, "-89.99", "Pago Netflix", date(2024, 3, 8), "entertainment", "Netflix", "125580.50"),
			transaction("tx-003", ledger.TransactionTypeDeposit, "3500", "Nómina marzo", date(2024, 3, 5), "income", "", "125670.49"),
			transaction("tx-004", ledger.TransactionTypeTransfer, "-1200", "Transferencia a Luis García", date(2024, 3, 1), "transfers", "Luis García", "122170.49"),
			transaction("tx-005", ledger.TransactionTypeWithdrawal, "-200", "Retiro cajero", date(2024, 2, 29), "cash", "", "123370.49"),
			transaction("tx-006", ledger.TransactionTypeTransfer, "75.50", "Transferencia de Ana Martínez", date(2024, 2, 28), "transfers", "Ana Martínez", "123570.49"),
		},
		MoneyRequests: []request.MoneyRequest{
			{
				ID: "req-1", Amount: amount("45"), Description: "Entradas concierto",
				RequesterID: "2", RequesterName: "Luis García", TargetID: AccountID, TargetName: HolderName,
				Status: request.StatusPending, CreatedAt: date(2024, 3, 12), ExpiresAt: date(2024, 3, 19),
			},
			{
				ID: "req-2", Amount: amount("30"), Description: "Taxi aeropuerto",
				RequesterID: AccountID, RequesterName: HolderName, TargetID: "4", TargetName: "Jorge Fernández",
				Status: request.StatusCompleted, CreatedAt: date(2024, 3, 2), ExpiresAt: date(2024, 3, 9), CompletedAt: ptr(date(2024, 3, 3)),
			},
		},
		ScheduledTransfers: []schedule.ScheduledTransfer{
			{
				ID: "sched-1", ContactID: "2", ContactName: "Luis García", Amount: amount("1200"),
				ScheduledDate: date(2024, 4, 1), Frequency: schedule.FrequencyMonthly, Reason: "Alquiler",
				IsActive: true, CreatedAt: date(2024, 3, 1), UpdatedAt: date(2024, 3, 1),
			},
		},
	}
}

func transaction(id string, txType ledger.TransactionType, value, description string, at time.Time, category, recipient, balance string) ledger.Transaction {
	return ledger.Transaction{
		ID:          id,
		Type:        txType,
		Amount:      amount(value),
		Description: description,
		Date:        at,
		Timestamp:   at.UnixMilli(),
		Status:      ledger.TransactionStatusCompleted,
		Category:    category,
		Recipient:   recipient,
		Balance:     amount(balance),
	}
}

func amount(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T {
	return &v
}
