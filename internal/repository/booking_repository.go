package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-operations-backend/internal/ledger"
    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// BookingRepo provides CRUD operations for bookings, their rooms and
// their guests.  Bookings group together one or more allocated rooms
// for a date range and carry the financial aggregates the ledger
// maintains.  All timestamp fields are assumed to be stored in UTC.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, booking_code, status, primary_customer_id, check_in_date,
    check_out_date, total_guests, total_amount, deposit_required, total_deposit,
    total_paid, balance, expires_at, created_at, updated_at`

func scanBooking(row interface{ Scan(...interface{}) error }) (model.Booking, error) {
    var b model.Booking
    var expires sql.NullTime
    err := row.Scan(&b.ID, &b.BookingCode, &b.Status, &b.PrimaryCustomerID,
        &b.CheckInDate, &b.CheckOutDate, &b.TotalGuests,
        &b.TotalAmount, &b.DepositRequired, &b.TotalDeposit, &b.TotalPaid, &b.Balance,
        &expires, &b.CreatedAt, &b.UpdatedAt)
    if err != nil {
        return model.Booking{}, err
    }
    if expires.Valid {
        t := expires.Time
        b.ExpiresAt = &t
    }
    return b, nil
}

// CreateTx inserts a new booking within the scope of an existing
// transaction.  It populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback the
// transaction.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO bookings (booking_code, status, primary_customer_id, check_in_date,
            check_out_date, total_guests, total_amount, deposit_required, total_deposit,
            total_paid, balance, expires_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
        b.BookingCode, b.Status, b.PrimaryCustomerID, b.CheckInDate, b.CheckOutDate,
        b.TotalGuests, b.TotalAmount, b.DepositRequired, b.TotalDeposit, b.TotalPaid,
        b.Balance, b.ExpiresAt)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    got, err := scanBooking(tx.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, b.ID))
    if err != nil {
        return err
    }
    *b = got
    return nil
}

// CreateRoomsBulkTx inserts multiple booking_rooms rows in a single
// statement.  The caller must supply the booking ID in each record.
// Passing an empty slice has no effect and returns nil.
func (r *BookingRepo) CreateRoomsBulkTx(ctx context.Context, tx *sql.Tx, rooms []model.BookingRoom) error {
    if len(rooms) == 0 {
        return nil
    }
    query := `INSERT INTO booking_rooms (booking_id, room_id, room_type_id, check_in_date,
        check_out_date, price_per_night, subtotal, total_amount, total_paid, balance,
        deposit_amount, status) VALUES `
    args := make([]interface{}, 0, len(rooms)*12)
    for i, br := range rooms {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
        args = append(args, br.BookingID, br.RoomID, br.RoomTypeID, br.CheckInDate,
            br.CheckOutDate, br.PricePerNight, br.Subtotal, br.TotalAmount, br.TotalPaid,
            br.Balance, br.DepositAmount, br.Status)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// GetByID returns one booking outside of any transaction.  It returns
// sql.ErrNoRows when the booking does not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (model.Booking, error) {
    return scanBooking(r.db.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
}

// GetForUpdateTx loads a booking with a row lock so that concurrent
// ledger mutations for the same booking serialize on commit order.
func (r *BookingRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Booking, error) {
    return scanBooking(tx.QueryRowContext(ctx,
        `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, id))
}

const bookingRoomColumns = `id, booking_id, room_id, room_type_id, check_in_date,
    check_out_date, price_per_night, subtotal, total_amount, total_paid, balance,
    deposit_amount, status, actual_check_in, created_at, updated_at`

func scanBookingRoom(row interface{ Scan(...interface{}) error }) (model.BookingRoom, error) {
    var br model.BookingRoom
    var actual sql.NullTime
    err := row.Scan(&br.ID, &br.BookingID, &br.RoomID, &br.RoomTypeID,
        &br.CheckInDate, &br.CheckOutDate, &br.PricePerNight, &br.Subtotal,
        &br.TotalAmount, &br.TotalPaid, &br.Balance, &br.DepositAmount, &br.Status,
        &actual, &br.CreatedAt, &br.UpdatedAt)
    if err != nil {
        return model.BookingRoom{}, err
    }
    if actual.Valid {
        t := actual.Time
        br.ActualCheckIn = &t
    }
    return br, nil
}

// RoomsTx returns all booking rooms of a booking, locked FOR UPDATE, so
// callers can settle balances against a stable snapshot.
func (r *BookingRepo) RoomsTx(ctx context.Context, tx *sql.Tx, bookingID uint64) ([]model.BookingRoom, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT `+bookingRoomColumns+` FROM booking_rooms WHERE booking_id = ? ORDER BY id FOR UPDATE`,
        bookingID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.BookingRoom, 0)
    for rows.Next() {
        br, err := scanBookingRoom(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, br)
    }
    return out, rows.Err()
}

// RoomTx loads a single booking room with a row lock.  It returns
// sql.ErrNoRows when the booking room does not exist.
func (r *BookingRepo) RoomTx(ctx context.Context, tx *sql.Tx, bookingRoomID uint64) (model.BookingRoom, error) {
    return scanBookingRoom(tx.QueryRowContext(ctx,
        `SELECT `+bookingRoomColumns+` FROM booking_rooms WHERE id = ? FOR UPDATE`, bookingRoomID))
}

// UpdateTotalsTx writes the booking aggregates produced by the ledger
// back to the row.  When the booking has left PENDING the hold window
// no longer applies, so expires_at is cleared.
func (r *BookingRepo) UpdateTotalsTx(ctx context.Context, tx *sql.Tx, bookingID uint64, t ledger.Totals) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE bookings
         SET total_amount = ?, total_deposit = ?, total_paid = ?, balance = ?, status = ?,
             expires_at = IF(? = 'PENDING', expires_at, NULL)
         WHERE id = ?`,
        t.TotalAmount, t.TotalDeposit, t.TotalPaid, t.Balance, t.Status, t.Status, bookingID)
    return err
}

// RoomDepositShare pairs a booking room with its slice of a confirming
// deposit.
type RoomDepositShare struct {
    BookingRoomID uint64
    Share         decimal.Decimal
}

// ConfirmPendingRoomsTx flips the booking's PENDING rooms to CONFIRMED
// and records each room's deposit share.  Rooms already past PENDING
// are left untouched.
func (r *BookingRepo) ConfirmPendingRoomsTx(ctx context.Context, tx *sql.Tx, shares []RoomDepositShare) error {
    for _, s := range shares {
        if _, err := tx.ExecContext(ctx,
            `UPDATE booking_rooms SET status = ?, deposit_amount = ? WHERE id = ? AND status = ?`,
            model.BookingConfirmed, s.Share, s.BookingRoomID, model.BookingPending); err != nil {
            return err
        }
    }
    return nil
}

// ApplyRoomPaymentTx settles a payment against one booking room: the
// paid amount grows total_paid and the balance is recomputed from the
// room's own total.
func (r *BookingRepo) ApplyRoomPaymentTx(ctx context.Context, tx *sql.Tx, bookingRoomID uint64, paid decimal.Decimal) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE booking_rooms
         SET total_paid = total_paid + ?, balance = total_amount - (total_paid + ?)
         WHERE id = ?`,
        paid, paid, bookingRoomID)
    return err
}

// AddChargeTx grows a booking's total_amount and balance by the given
// amount, as recording a new stay service usage does.
func (r *BookingRepo) AddChargeTx(ctx context.Context, tx *sql.Tx, bookingID uint64, amount decimal.Decimal) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE bookings SET total_amount = total_amount + ?, balance = balance + ? WHERE id = ?`,
        amount, amount, bookingID)
    return err
}

// AddRoomChargeTx grows one booking room's total_amount and balance by
// the given amount.
func (r *BookingRepo) AddRoomChargeTx(ctx context.Context, tx *sql.Tx, bookingRoomID uint64, amount decimal.Decimal) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE booking_rooms SET total_amount = total_amount + ?, balance = balance + ? WHERE id = ?`,
        amount, amount, bookingRoomID)
    return err
}

// SetRoomCheckedInTx records the actual check-in instant and flips the
// booking room to CHECKED_IN.
func (r *BookingRepo) SetRoomCheckedInTx(ctx context.Context, tx *sql.Tx, bookingRoomID uint64, at time.Time) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE booking_rooms SET status = ?, actual_check_in = ? WHERE id = ?`,
        model.BookingCheckedIn, at, bookingRoomID)
    return err
}

// UpdateStatusTx sets the booking's lifecycle status.
func (r *BookingRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, bookingID uint64, status string) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE bookings SET status = ? WHERE id = ?`, status, bookingID)
    return err
}

// LinkGuestsTx attaches guests to a booking room.  Duplicate
// guest/room/booking combinations are silently ignored via INSERT
// IGNORE, matching the unique key on the table.
func (r *BookingRepo) LinkGuestsTx(ctx context.Context, tx *sql.Tx, guests []model.BookingGuest) error {
    if len(guests) == 0 {
        return nil
    }
    query := `INSERT IGNORE INTO booking_guests (booking_id, booking_room_id, customer_id, is_primary) VALUES `
    args := make([]interface{}, 0, len(guests)*4)
    for i, g := range guests {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, g.BookingID, g.BookingRoomID, g.CustomerID, g.IsPrimary)
    }
    _, err := tx.ExecContext(ctx, query, args...)
    return err
}

// BookingRoomDetail is one allocated room within a booking detail
// response, joined with the physical room and room type for display.
type BookingRoomDetail struct {
    ID            uint64          `json:"id"`
    RoomID        uint64          `json:"room_id"`
    RoomNumber    string          `json:"room_number"`
    RoomTypeID    uint64          `json:"room_type_id"`
    RoomTypeName  string          `json:"room_type_name"`
    PricePerNight decimal.Decimal `json:"price_per_night"`
    Subtotal      decimal.Decimal `json:"subtotal"`
    TotalAmount   decimal.Decimal `json:"total_amount"`
    TotalPaid     decimal.Decimal `json:"total_paid"`
    Balance       decimal.Decimal `json:"balance"`
    DepositAmount decimal.Decimal `json:"deposit_amount"`
    Status        string          `json:"status"`
    ActualCheckIn *string         `json:"actual_check_in,omitempty"`
}

// BookingGuestDetail is one registered guest within a booking detail
// response.
type BookingGuestDetail struct {
    CustomerID    uint64 `json:"customer_id"`
    FullName      string `json:"full_name"`
    BookingRoomID uint64 `json:"booking_room_id"`
    IsPrimary     bool   `json:"is_primary"`
}

// BookingHistoryDetail is one audit entry within a booking detail
// response.
type BookingHistoryDetail struct {
    ID         uint64  `json:"id"`
    EmployeeID *uint64 `json:"employee_id,omitempty"`
    Action     string  `json:"action"`
    Changes    string  `json:"changes"`
    CreatedAt  string  `json:"created_at"`
}

// BookingDetail aggregates a booking with its rooms, guests and recent
// history for display to the desk.
type BookingDetail struct {
    Booking   model.Booking          `json:"-"`
    ID        uint64                 `json:"id"`
    Code      string                 `json:"booking_code"`
    Status    string                 `json:"status"`
    Rooms     []BookingRoomDetail    `json:"rooms"`
    Guests    []BookingGuestDetail   `json:"guests"`
    Histories []BookingHistoryDetail `json:"histories"`
}

// GetDetail returns a booking along with its rooms (joined with room
// and room type), registered guests and the 10 most recent history
// entries.  It returns sql.ErrNoRows when the booking does not exist.
func (r *BookingRepo) GetDetail(ctx context.Context, id uint64) (*BookingDetail, error) {
    b, err := r.GetByID(ctx, id)
    if err != nil {
        return nil, err
    }
    det := &BookingDetail{Booking: b, ID: b.ID, Code: b.BookingCode, Status: b.Status}
    det.Rooms = []BookingRoomDetail{}
    det.Guests = []BookingGuestDetail{}
    det.Histories = []BookingHistoryDetail{}

    const roomQ = `SELECT br.id, br.room_id, rm.room_number, br.room_type_id, rt.name,
                          br.price_per_night, br.subtotal, br.total_amount, br.total_paid,
                          br.balance, br.deposit_amount, br.status, br.actual_check_in
                   FROM booking_rooms br
                   JOIN rooms rm ON rm.id = br.room_id
                   JOIN room_types rt ON rt.id = br.room_type_id
                   WHERE br.booking_id = ?
                   ORDER BY br.id`
    rows, err := r.db.QueryContext(ctx, roomQ, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var rd BookingRoomDetail
        var actual sql.NullTime
        if err := rows.Scan(&rd.ID, &rd.RoomID, &rd.RoomNumber, &rd.RoomTypeID, &rd.RoomTypeName,
            &rd.PricePerNight, &rd.Subtotal, &rd.TotalAmount, &rd.TotalPaid, &rd.Balance,
            &rd.DepositAmount, &rd.Status, &actual); err != nil {
            return nil, err
        }
        if actual.Valid {
            iso := actual.Time.UTC().Format(time.RFC3339)
            rd.ActualCheckIn = &iso
        }
        det.Rooms = append(det.Rooms, rd)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }

    const guestQ = `SELECT bg.customer_id, c.full_name, bg.booking_room_id, bg.is_primary
                    FROM booking_guests bg
                    JOIN customers c ON c.id = bg.customer_id
                    WHERE bg.booking_id = ?
                    ORDER BY bg.id`
    grows, err := r.db.QueryContext(ctx, guestQ, id)
    if err != nil {
        return nil, err
    }
    defer grows.Close()
    for grows.Next() {
        var gd BookingGuestDetail
        if err := grows.Scan(&gd.CustomerID, &gd.FullName, &gd.BookingRoomID, &gd.IsPrimary); err != nil {
            return nil, err
        }
        det.Guests = append(det.Guests, gd)
    }
    if err := grows.Err(); err != nil {
        return nil, err
    }

    const histQ = `SELECT id, employee_id, action, changes, created_at
                   FROM booking_histories
                   WHERE booking_id = ?
                   ORDER BY created_at DESC, id DESC
                   LIMIT 10`
    hrows, err := r.db.QueryContext(ctx, histQ, id)
    if err != nil {
        return nil, err
    }
    defer hrows.Close()
    for hrows.Next() {
        var hd BookingHistoryDetail
        var emp sql.NullInt64
        var created time.Time
        if err := hrows.Scan(&hd.ID, &emp, &hd.Action, &hd.Changes, &created); err != nil {
            return nil, err
        }
        if emp.Valid {
            e := uint64(emp.Int64)
            hd.EmployeeID = &e
        }
        hd.CreatedAt = created.UTC().Format(time.RFC3339)
        det.Histories = append(det.Histories, hd)
    }
    if err := hrows.Err(); err != nil {
        return nil, err
    }
    return det, nil
}
