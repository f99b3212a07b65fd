package credentials

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Store holds the two pieces of session state the booking API needs on every
// call: the bearer token and the company scope. It is process-wide
// configuration with an explicit get/set/clear lifecycle, injected into the
// HTTP layer instead of read ambiently at call sites. The token is encrypted
// at rest in the state file.
type Store struct {
	mu        sync.Mutex
	path      string
	key       []byte
	token     string
	companyID string
}

type stateFile struct {
	Token     string `json:"token"`
	CompanyID string `json:"companyId"`
}

// Open loads the store from the state file at path. A missing or unreadable
// file yields an empty store; session state is always reconstructible by
// logging in again.
func Open(path string, key []byte) *Store {
	s := &Store{path: path, key: key}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var state stateFile
	if err := json.Unmarshal(raw, &state); err != nil {
		return s
	}
	if token, err := s.decrypt(state.Token); err == nil {
		s.token = token
	}
	s.companyID = NormalizeCompanyID(state.CompanyID)
	return s
}

func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Store) CompanyID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.companyID
}

// Set stores a new session. The company id accepts the textual encodings the
// old clients persisted and normalizes before keeping it.
func (s *Store) Set(token, companyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = strings.TrimSpace(token)
	s.companyID = NormalizeCompanyID(companyID)
	return s.persist()
}

// Clear wipes the session. Called by the API client on a 401.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.companyID = ""
	if s.path != "" {
		os.Remove(s.path)
	}
}

func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	sealed, err := s.encrypt(s.token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	raw, err := json.Marshal(stateFile{Token: sealed, CompanyID: s.companyID})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0600)
}

// NormalizeCompanyID reduces the encodings seen in the wild to the bare id:
// JSON-quoted strings, single quotes, and the wrapped object-id literal
// ObjectId("..."). The strings "undefined" and "null" mean no company.
func NormalizeCompanyID(raw string) string {
	id := strings.TrimSpace(raw)
	id = strings.Trim(id, `"'`)
	lower := strings.ToLower(id)
	if strings.HasPrefix(lower, "objectid(") && strings.HasSuffix(id, ")") {
		id = id[len("objectid(") : len(id)-1]
		id = strings.Trim(strings.TrimSpace(id), `"'`)
	}
	switch strings.ToLower(id) {
	case "undefined", "null":
		return ""
	}
	return id
}

// AES-256-GCM, nonce prefixed to the ciphertext, base64 on the wire. An
// empty or wrongly sized key falls back to storing the token in the clear,
// so a missing STATE_KEY degrades rather than breaking login.

func (s *Store) encrypt(plain string) (string, error) {
	if plain == "" || len(s.key) != 32 {
		return plain, nil
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(gcm.Seal(nonce, nonce, []byte(plain), nil)), nil
}

func (s *Store) decrypt(sealed string) (string, error) {
	if sealed == "" || len(s.key) != 32 {
		return sealed, nil
	}
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", err
	}
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return "", err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", err
	}
	if len(raw) < gcm.NonceSize() {
		return "", fmt.Errorf("sealed token too short")
	}
	nonce, ciphertext := raw[:gcm.NonceSize()], raw[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// KeyFromEnv decodes a base64 AES-256 key from the environment variable,
// returning nil when unset or malformed.
func KeyFromEnv(name string) []byte {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return nil
	}
	key, err := base64.StdEncoding.DecodeString(raw)
	if err != nil || len(key) != 32 {
		return nil
	}
	return key
}
