// Package storage implements disk-backed object storage with expiring signed
// read URLs. Object names, never URLs, are what persists on posts and
// reports; clients exchange a name for a fresh signed URL on every access.
package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"findtogether/internal/observability"
)

// ErrObjectNotFound is returned when a signed URL is requested for an object
// that does not exist.
var ErrObjectNotFound = errors.New("storage: object not found")

// ErrInvalidObjectName is returned for names carrying path separators or
// traversal segments.
var ErrInvalidObjectName = errors.New("storage: invalid object name")

// Store writes uploaded objects under a single directory and signs read URLs
// for them with an HMAC shared only with this process.
type Store struct {
	dir     string
	secret  []byte
	baseURL string
	ttl     time.Duration
}

// New returns a Store rooted at dir. baseURL is the public prefix under which
// the media handler is mounted, without a trailing slash.
func New(dir, secret, baseURL string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("storage: creating object dir: %w", err)
	}
	return &Store{
		dir:     dir,
		secret:  []byte(secret),
		baseURL: strings.TrimSuffix(baseURL, "/"),
		ttl:     ttl,
	}, nil
}

// TTL returns the default signed URL lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Save writes data as a new object and returns its generated name. The name
// embeds a millisecond timestamp and a random component so repeated uploads
// of the same file never collide.
func (s *Store) Save(ctx context.Context, data []byte, contentType, originalFilename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ext := filepath.Ext(originalFilename)
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}

	name := fmt.Sprintf("%d-%d%s", time.Now().UnixMilli(), rand.Int63n(1_000_000_000), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o600); err != nil {
		observability.StorageWriteFailures.Inc()
		return "", fmt.Errorf("storage: writing object %s: %w", name, err)
	}
	return name, nil
}

// SignedURL returns a time-limited read URL for an existing object. A zero
// ttl uses the store default.
func (s *Store) SignedURL(object string, ttl time.Duration) (string, error) {
	if err := validateObjectName(object); err != nil {
		return "", err
	}
	if _, err := os.Stat(filepath.Join(s.dir, object)); err != nil {
		if os.IsNotExist(err) {
			return "", ErrObjectNotFound
		}
		return "", fmt.Errorf("storage: stat object %s: %w", object, err)
	}

	if ttl <= 0 {
		ttl = s.ttl
	}
	expires := time.Now().Add(ttl).Unix()
	sig := s.sign(object, expires)

	observability.SignedURLsIssued.Inc()
	return fmt.Sprintf("%s/media/%s?expires=%d&sig=%s", s.baseURL, object, expires, sig), nil
}

// Verify checks a signed URL's signature and expiry for the given object.
func (s *Store) Verify(object string, expires int64, sig string) bool {
	if validateObjectName(object) != nil {
		return false
	}
	if time.Now().Unix() > expires {
		return false
	}
	expected := s.sign(object, expires)
	return hmac.Equal([]byte(expected), []byte(sig))
}

// Path returns the on-disk path for a validated object name.
func (s *Store) Path(object string) (string, error) {
	if err := validateObjectName(object); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, object), nil
}

func (s *Store) sign(object string, expires int64) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(object + "|" + strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

func validateObjectName(object string) error {
	if object == "" ||
		strings.ContainsAny(object, "/\\") ||
		strings.Contains(object, "..") {
		return ErrInvalidObjectName
	}
	return nil
}
