package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Transaction status.  Only COMPLETED is modelled; there is no pending
// or failed transaction path in this design.
const TransactionCompleted = "COMPLETED"

// Payment methods accepted at the desk.
const (
    PaymentCash         = "CASH"
    PaymentCard         = "CARD"
    PaymentBankTransfer = "BANK_TRANSFER"
)

// Transaction is a ledger entry grouping one payment event.  Rows are
// immutable once created.  BookingID is nil only for guest service
// payments, which create details without a parent transaction and are
// therefore never represented by this struct at all; the column is
// nullable to keep the schema honest about that scenario.
//
// Fields:
//  ID             – primary key identifier.
//  BookingID      – booking this entry belongs to (nullable).
//  Type           – DEPOSIT, ROOM_CHARGE, SERVICE_CHARGE, REFUND or
//                   ADJUSTMENT.
//  BaseAmount     – sum of detail base amounts before discounts.
//  DiscountAmount – sum of promotion discounts applied.
//  Amount         – BaseAmount - DiscountAmount.
//  Method         – payment method (see Payment* constants).
//  Status         – always COMPLETED.
//  ProcessedByID  – employee who recorded the entry.
//  TransactionRef – external reference supplied by the caller, or a
//                   generated UUID when omitted.
//  Description    – free-text description.
//  OccurredAt     – when the payment event happened.
//  CreatedAt      – creation timestamp.
type Transaction struct {
    ID             uint64          // transactions.id
    BookingID      *uint64         // transactions.booking_id (nullable)
    Type           string          // transactions.type
    BaseAmount     decimal.Decimal // transactions.base_amount
    DiscountAmount decimal.Decimal // transactions.discount_amount
    Amount         decimal.Decimal // transactions.amount
    Method         string          // transactions.method
    Status         string          // transactions.status
    ProcessedByID  uint64          // transactions.processed_by_id
    TransactionRef *string         // transactions.transaction_ref (nullable)
    Description    string          // transactions.description
    OccurredAt     time.Time       // transactions.occurred_at
    CreatedAt      time.Time       // transactions.created_at
}

// TransactionDetail is one allocation line within a transaction,
// targeting either a booking room or a service usage, never both.  The
// detail amounts for a transaction must sum to the transaction's own
// amounts.  TransactionID is nil for guest service payments, which have
// no parent transaction.
//
// Fields:
//  ID             – primary key identifier.
//  TransactionID  – owning transaction (nullable, see above).
//  BookingRoomID  – targeted booking room (nullable).
//  ServiceUsageID – targeted service usage (nullable).
//  BaseAmount     – outstanding balance of the target when built.
//  DiscountAmount – promotion discount applied to this line.
//  Amount         – BaseAmount - DiscountAmount.
//  CreatedAt      – creation timestamp.
type TransactionDetail struct {
    ID             uint64          // transaction_details.id
    TransactionID  *uint64         // transaction_details.transaction_id (nullable)
    BookingRoomID  *uint64         // transaction_details.booking_room_id (nullable)
    ServiceUsageID *uint64         // transaction_details.service_usage_id (nullable)
    BaseAmount     decimal.Decimal // transaction_details.base_amount
    DiscountAmount decimal.Decimal // transaction_details.discount_amount
    Amount         decimal.Decimal // transaction_details.amount
    CreatedAt      time.Time       // transaction_details.created_at
}
