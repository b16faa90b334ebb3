package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/iliyamo/hotel-operations-backend/internal/model"
)

// RoomRepo provides data access to room types and rooms, including the
// availability query used by the room allocator.  All timestamp fields
// are assumed to be stored in UTC.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions.
func (r *RoomRepo) DB() *sql.DB { return r.db }

// CreateRoomType inserts a room type and populates the generated ID.
func (r *RoomRepo) CreateRoomType(ctx context.Context, rt *model.RoomType) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO room_types (name, description, price_per_night, capacity) VALUES (?, ?, ?, ?)`,
        rt.Name, rt.Description, rt.PricePerNight, rt.Capacity)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rt.ID = uint64(id)
    return nil
}

// ListRoomTypes returns all room types ordered by name.
func (r *RoomRepo) ListRoomTypes(ctx context.Context) ([]model.RoomType, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, description, price_per_night, capacity, created_at, updated_at
         FROM room_types ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.RoomType, 0)
    for rows.Next() {
        var rt model.RoomType
        var desc sql.NullString
        if err := rows.Scan(&rt.ID, &rt.Name, &desc, &rt.PricePerNight, &rt.Capacity,
            &rt.CreatedAt, &rt.UpdatedAt); err != nil {
            return nil, err
        }
        if desc.Valid {
            d := desc.String
            rt.Description = &d
        }
        out = append(out, rt)
    }
    return out, rows.Err()
}

// RoomTypesByIDs loads the requested room types keyed by id.  Callers
// compare the result size against the request to detect missing types.
func (r *RoomRepo) RoomTypesByIDs(ctx context.Context, ids []uint64) (map[uint64]model.RoomType, error) {
    if len(ids) == 0 {
        return map[uint64]model.RoomType{}, nil
    }
    placeholders := make([]string, 0, len(ids))
    args := make([]interface{}, 0, len(ids))
    for _, id := range ids {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    query := `SELECT id, name, description, price_per_night, capacity, created_at, updated_at
              FROM room_types WHERE id IN (` + strings.Join(placeholders, ",") + `)`
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make(map[uint64]model.RoomType, len(ids))
    for rows.Next() {
        var rt model.RoomType
        var desc sql.NullString
        if err := rows.Scan(&rt.ID, &rt.Name, &desc, &rt.PricePerNight, &rt.Capacity,
            &rt.CreatedAt, &rt.UpdatedAt); err != nil {
            return nil, err
        }
        if desc.Valid {
            d := desc.String
            rt.Description = &d
        }
        out[rt.ID] = rt
    }
    return out, rows.Err()
}

// CreateRoom inserts a physical room in AVAILABLE status.
func (r *RoomRepo) CreateRoom(ctx context.Context, room *model.Room) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO rooms (room_type_id, room_number, floor, status) VALUES (?, ?, ?, ?)`,
        room.RoomTypeID, room.RoomNumber, room.Floor, model.RoomAvailable)
    if err != nil {
        if strings.Contains(strings.ToLower(err.Error()), "1062") {
            return ErrConflict
        }
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    room.ID = uint64(id)
    room.Status = model.RoomAvailable
    return nil
}

// ListRooms returns all rooms, optionally filtered by room type.
func (r *RoomRepo) ListRooms(ctx context.Context, roomTypeID uint64) ([]model.Room, error) {
    query := `SELECT id, room_type_id, room_number, floor, status, created_at, updated_at FROM rooms`
    args := []interface{}{}
    if roomTypeID != 0 {
        query += ` WHERE room_type_id = ?`
        args = append(args, roomTypeID)
    }
    query += ` ORDER BY room_number`
    rows, err := r.db.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        var rm model.Room
        if err := rows.Scan(&rm.ID, &rm.RoomTypeID, &rm.RoomNumber, &rm.Floor, &rm.Status,
            &rm.CreatedAt, &rm.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, rm)
    }
    return out, rows.Err()
}

// ReleaseExpiredHoldsTx cancels PENDING bookings whose hold window has
// lapsed and returns their rooms to AVAILABLE.  It returns
// the cancelled booking IDs.  Run this inside the same transaction that
// performs a new allocation so stale holds never block fresh demand.
// When there are no expired holds, it returns an empty slice and nil
// error.
func (r *RoomRepo) ReleaseExpiredHoldsTx(ctx context.Context, tx *sql.Tx) ([]uint64, error) {
    rows, err := tx.QueryContext(ctx,
        `SELECT id FROM bookings
         WHERE status = ? AND expires_at IS NOT NULL AND expires_at <= UTC_TIMESTAMP()
         FOR UPDATE`,
        model.BookingPending,
    )
    if err != nil {
        return nil, err
    }
    var expired []uint64
    for rows.Next() {
        var id uint64
        if scanErr := rows.Scan(&id); scanErr != nil {
            rows.Close()
            return nil, scanErr
        }
        expired = append(expired, id)
    }
    if err = rows.Close(); err != nil {
        return nil, err
    }
    if len(expired) == 0 {
        return []uint64{}, nil
    }
    placeholders := make([]string, 0, len(expired))
    args := make([]interface{}, 0, len(expired))
    for _, id := range expired {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    in := strings.Join(placeholders, ",")
    // Rooms first (while booking_rooms still reference them), then the
    // booking rooms, then the bookings themselves.
    if _, err := tx.ExecContext(ctx,
        `UPDATE rooms SET status = ?
         WHERE status = ? AND id IN (SELECT room_id FROM booking_rooms WHERE booking_id IN (`+in+`))`,
        append([]interface{}{model.RoomAvailable, model.RoomReserved}, args...)...); err != nil {
        return nil, err
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE booking_rooms SET status = ? WHERE booking_id IN (`+in+`)`,
        append([]interface{}{model.BookingCancelled}, args...)...); err != nil {
        return nil, err
    }
    if _, err := tx.ExecContext(ctx,
        `UPDATE bookings SET status = ?, expires_at = NULL WHERE id IN (`+in+`)`,
        append([]interface{}{model.BookingCancelled}, args...)...); err != nil {
        return nil, err
    }
    return expired, nil
}

// FindAvailableTx returns up to `count` AVAILABLE rooms of the given
// type whose booking rooms do not overlap the requested date range
// while in an active booking status.  Overlap test:
// existing.check_in_date <= requestedCheckOut AND
// existing.check_out_date >= requestedCheckIn.  Rows are ordered by id
// and locked FOR UPDATE so concurrent allocations for the same type
// serialize inside their transactions instead of double-booking.
func (r *RoomRepo) FindAvailableTx(ctx context.Context, tx *sql.Tx, roomTypeID uint64, count int, checkIn, checkOut time.Time) ([]model.Room, error) {
    const q = `SELECT r.id, r.room_type_id, r.room_number, r.floor, r.status
               FROM rooms r
               WHERE r.room_type_id = ? AND r.status = ?
                 AND NOT EXISTS (
                   SELECT 1 FROM booking_rooms br
                   WHERE br.room_id = r.id
                     AND br.status IN (?, ?, ?)
                     AND br.check_in_date <= ? AND br.check_out_date >= ?)
               ORDER BY r.id
               LIMIT ?
               FOR UPDATE`
    rows, err := tx.QueryContext(ctx, q,
        roomTypeID, model.RoomAvailable,
        model.BookingPending, model.BookingConfirmed, model.BookingCheckedIn,
        checkOut, checkIn, count)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0, count)
    for rows.Next() {
        var rm model.Room
        if err := rows.Scan(&rm.ID, &rm.RoomTypeID, &rm.RoomNumber, &rm.Floor, &rm.Status); err != nil {
            return nil, err
        }
        out = append(out, rm)
    }
    return out, rows.Err()
}

// BulkUpdateStatusTx sets the status of the given rooms in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (r *RoomRepo) BulkUpdateStatusTx(ctx context.Context, tx *sql.Tx, roomIDs []uint64, status string) error {
    if len(roomIDs) == 0 {
        return nil
    }
    placeholders := make([]string, 0, len(roomIDs))
    args := make([]interface{}, 0, len(roomIDs)+1)
    args = append(args, status)
    for _, id := range roomIDs {
        placeholders = append(placeholders, "?")
        args = append(args, id)
    }
    _, err := tx.ExecContext(ctx,
        `UPDATE rooms SET status = ? WHERE id IN (`+strings.Join(placeholders, ",")+`)`,
        args...)
    return err
}

// UpdateStatusTx sets one room's status within the transaction.
func (r *RoomRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, roomID uint64, status string) error {
    _, err := tx.ExecContext(ctx, `UPDATE rooms SET status = ? WHERE id = ?`, status, roomID)
    return err
}
