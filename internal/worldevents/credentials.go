package worldevents

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-cosmic-codex/internal/config"
	"github.com/zalando/go-keyring"
)

// NewsArchiveKey resolves the news archive API key. An explicit override
// (config file or environment) wins over the system keyring. A missing key
// is not an error: the news archive feed is then skipped.
func NewsArchiveKey(override string) string {
	if k := strings.TrimSpace(override); k != "" {
		return k
	}

	key, err := keyring.Get(config.KeyringService, config.KeyringNewsUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			slog.Debug(config.MsgKeyringMiss, config.LogKeyComponent, config.CompWorld)
		} else {
			slog.Warn(config.ErrKeyringRead,
				config.LogKeyComponent, config.CompWorld,
				config.LogKeyError, err)
		}
		return ""
	}
	return strings.TrimSpace(key)
}

// StoreNewsArchiveKey saves the news archive API key in the system keyring.
func StoreNewsArchiveKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New(config.ErrKeyEmpty)
	}
	if err := keyring.Set(config.KeyringService, config.KeyringNewsUser, key); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringWrite, err)
	}
	return nil
}
