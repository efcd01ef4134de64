package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

const (
	configDirName   = "einthusarr"
	cookieFileName  = "cookies.txt"
	credsFileName   = "credentials.json"
	storeDirPerm    = 0o700
	storeFilePerm   = 0o600
)

// Credentials are the saved site login details.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Store reads and writes the cookie jar and credential files under a
// fixed per-user config directory (~/.config/einthusarr).
//
// Concurrent invocations of the tool race on these files; that is a
// documented limitation of the single-user, cron-scheduled usage model.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// NewStore creates a store rooted at the default per-user config path.
func NewStore(logger zerolog.Logger) (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(home, ".config", configDirName), logger), nil
}

// NewStoreAt creates a store rooted at an explicit directory.
func NewStoreAt(dir string, logger zerolog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// CookiePath returns the path of the Netscape-format cookie file.
func (s *Store) CookiePath() string {
	return filepath.Join(s.dir, cookieFileName)
}

// CredentialsPath returns the path of the credentials JSON file.
func (s *Store) CredentialsPath() string {
	return filepath.Join(s.dir, credsFileName)
}

// LoadSession restores the session from the cookie file. A missing file
// yields an empty, unauthenticated session rather than an error.
func (s *Store) LoadSession() (*Session, error) {
	f, err := os.Open(s.CookiePath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewSession(), nil
		}
		return nil, fmt.Errorf("failed to open cookie file: %w", err)
	}
	defer f.Close()

	cookies, err := parseNetscape(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cookie file: %w", err)
	}

	sess := &Session{Cookies: cookies}
	sess.Authenticated = sess.HasLiveCookies(time.Now())

	s.logger.Debug().
		Int("cookies", len(cookies)).
		Bool("authenticated", sess.Authenticated).
		Str("path", s.CookiePath()).
		Msg("Loaded session from cookie file")

	return sess, nil
}

// SaveSession persists the session's cookies back to the cookie file.
func (s *Store) SaveSession(sess *Session) error {
	if err := os.MkdirAll(s.dir, storeDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(s.CookiePath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, storeFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}
	defer f.Close()

	if err := writeNetscape(f, sess.Cookies); err != nil {
		return fmt.Errorf("failed to write cookie file: %w", err)
	}

	s.logger.Debug().Int("cookies", len(sess.Cookies)).Str("path", s.CookiePath()).Msg("Saved session")
	return nil
}

// LoadCredentials reads saved credentials. Returns fs.ErrNotExist when
// no credentials file is present.
func (s *Store) LoadCredentials() (*Credentials, error) {
	data, err := os.ReadFile(s.CredentialsPath())
	if err != nil {
		return nil, err
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials file: %w", err)
	}

	return &creds, nil
}

// SaveCredentials writes credentials with owner-only permissions.
func (s *Store) SaveCredentials(creds Credentials) error {
	if err := os.MkdirAll(s.dir, storeDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}

	if err := os.WriteFile(s.CredentialsPath(), data, storeFilePerm); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}

	return nil
}
