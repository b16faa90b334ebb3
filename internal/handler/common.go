package handler // handler defines http handlers

import (
    "errors"  // errors provides sentinel values used in getEmployeeID
    "strconv" // strconv converts strings to numeric types

    "github.com/labstack/echo/v4" // echo defines request context types
)

// getEmployeeID extracts the authenticated employee's id from
// echo.Context and converts it to uint64.  The JWT middleware stores
// the subject claim under "user_id"; the claim type depends on how the
// token was decoded, so several representations are accepted.
func getEmployeeID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// parseID parses a numeric path parameter and rejects zero values.
func parseID(c echo.Context, name string) (uint64, error) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, errors.New("invalid " + name)
    }
    return id, nil
}
