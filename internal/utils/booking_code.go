package utils

import (
    "crypto/rand" // secure random number generation
    "fmt"
    "time"
)

// bookingCodeAlphabet is the character set used for the random suffix
// of booking codes.  Digits and uppercase letters keep codes easy to
// read back over the phone.
const bookingCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewBookingCode returns a unique human-readable booking code of the
// form BK<unix millis><5 random chars>, e.g. BK1735689600000X7K2P.
// The millisecond prefix keeps codes roughly sortable by creation time;
// the random suffix disambiguates codes created in the same
// millisecond.
func NewBookingCode() (string, error) {
    buf := make([]byte, 5)
    if _, err := rand.Read(buf); err != nil {
        return "", err
    }
    suffix := make([]byte, len(buf))
    for i, b := range buf {
        suffix[i] = bookingCodeAlphabet[int(b)%len(bookingCodeAlphabet)]
    }
    return fmt.Sprintf("BK%d%s", time.Now().UTC().UnixMilli(), suffix), nil
}
