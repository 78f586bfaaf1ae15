package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

// Firefox reads local storage from a Firefox profile's webappsstore.sqlite.
type Firefox struct {
	db        *sql.DB
	originKey string
}

// OpenFirefox opens the webappsstore database at path read-only and scopes
// lookups to origin (e.g., "https://oldschool.runescape.wiki").
func OpenFirefox(path, origin string) (*Firefox, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	originKey, err := FirefoxOriginKey(origin)
	if err != nil {
		return nil, err
	}

	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrUnavailable, err)
	}
	db.SetMaxOpenConns(1)

	return &Firefox{db: db, originKey: originKey}, nil
}

// Get implements Store.
func (f *Firefox) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := f.db.QueryRowContext(ctx,
		`SELECT value FROM webappsstore2 WHERE originKey = ? AND key = ? LIMIT 1`,
		f.originKey, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: query webappsstore2: %v", ErrUnavailable, err)
	}
	return value, true, nil
}

// Close closes the underlying database.
func (f *Firefox) Close() error {
	return f.db.Close()
}

// FirefoxOriginKey converts an origin URL into the originKey column format:
// the reversed host followed by ".:scheme:port".
func FirefoxOriginKey(origin string) (string, error) {
	u, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	host := u.Hostname()
	if u.Scheme == "" || host == "" {
		return "", fmt.Errorf("invalid origin %q: scheme and host required", origin)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		default:
			return "", fmt.Errorf("invalid origin %q: no default port for scheme %s", origin, u.Scheme)
		}
	}

	return reverse(strings.ToLower(host)) + ".:" + u.Scheme + ":" + port, nil
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}
