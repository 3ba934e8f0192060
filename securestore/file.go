package securestore

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

// File persists credentials in a single file encrypted with
// XChaCha20-Poly1305. The cipher key is derived from a passphrase with
// argon2id; the salt lives in the file header so the same passphrase reopens
// the store after a restart.
//
// Every mutation rewrites the whole file under a fresh nonce. Writes go
// through a temp file + rename so a crash never leaves a half-written store.
type File struct {
	mu   sync.Mutex
	path string
	key  []byte
	salt []byte
}

const (
	fileMagic     = "ASK1"
	fileSaltLen   = 16
	argonTime     = 3
	argonMemoryKB = 64 * 1024
	argonThreads  = 2
)

// ErrBadPassphrase is returned when the file exists but cannot be decrypted,
// either because the passphrase is wrong or the file was tampered with.
var ErrBadPassphrase = errors.New("securestore: cannot decrypt store file")

// NewFile opens or creates an encrypted store at path.
func NewFile(path, passphrase string) (*File, error) {
	if passphrase == "" {
		return nil, errors.New("securestore: empty passphrase")
	}

	f := &File{path: path}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.salt = make([]byte, fileSaltLen)
		if _, err := rand.Read(f.salt); err != nil {
			return nil, fmt.Errorf("securestore: salt: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("securestore: open %s: %w", path, err)
	default:
		if len(raw) < len(fileMagic)+fileSaltLen || string(raw[:len(fileMagic)]) != fileMagic {
			return nil, fmt.Errorf("securestore: %s is not a store file", path)
		}
		f.salt = raw[len(fileMagic) : len(fileMagic)+fileSaltLen]
	}

	f.key = argon2.IDKey([]byte(passphrase), f.salt, argonTime, argonMemoryKB, argonThreads, chacha20poly1305.KeySize)

	// Verify the passphrase eagerly so a typo fails at open, not at first Get.
	if raw != nil {
		if _, err := f.decode(raw); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *File) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return "", err
	}
	v, ok := values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	values[key] = value
	return f.save(values)
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)
	return f.save(values)
}

func (f *File) load() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("securestore: read %s: %w", f.path, err)
	}
	return f.decode(raw)
}

func (f *File) decode(raw []byte) (map[string]string, error) {
	header := len(fileMagic) + fileSaltLen
	if len(raw) < header+chacha20poly1305.NonceSizeX {
		return nil, ErrBadPassphrase
	}

	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return nil, fmt.Errorf("securestore: cipher: %w", err)
	}

	nonce := raw[header : header+chacha20poly1305.NonceSizeX]
	plain, err := aead.Open(nil, nonce, raw[header+chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return nil, ErrBadPassphrase
	}

	values := map[string]string{}
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, fmt.Errorf("securestore: corrupt store payload: %w", err)
	}
	return values, nil
}

func (f *File) save(values map[string]string) error {
	plain, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("securestore: encode: %w", err)
	}

	aead, err := chacha20poly1305.NewX(f.key)
	if err != nil {
		return fmt.Errorf("securestore: cipher: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("securestore: nonce: %w", err)
	}

	out := make([]byte, 0, len(fileMagic)+len(f.salt)+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, fileMagic...)
	out = append(out, f.salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plain, nil)

	tmp := f.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("securestore: mkdir: %w", err)
	}
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("securestore: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("securestore: rename: %w", err)
	}
	return nil
}
