// Package prefs stores small user preferences in the key-value store.
package prefs

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/typesymphony/internal/kv"
)

// SoundKey holds "true" when completion sounds are enabled.
const SoundKey = "soundEnabled"

// SoundEnabled reports whether completion sounds are on. Missing or
// unparsable values mean off.
func SoundEnabled(ctx context.Context, st kv.Store) (bool, error) {
	v, ok, err := st.Get(ctx, SoundKey)
	if err != nil {
		return false, fmt.Errorf("failed to read sound setting: %w", err)
	}
	if !ok {
		return false, nil
	}
	enabled, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("value", v).Msg("ignoring unparsable sound setting")
		return false, nil
	}
	return enabled, nil
}

// SetSoundEnabled persists the sound setting.
func SetSoundEnabled(ctx context.Context, st kv.Store, enabled bool) error {
	if err := st.Set(ctx, SoundKey, strconv.FormatBool(enabled)); err != nil {
		return fmt.Errorf("failed to save sound setting: %w", err)
	}
	return nil
}
