// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestConfigHolder_ReloadKeepsOldOnInvalid(t *testing.T) {
	path := writeFile(t, "decoder:\n  maxRecoveryAttempts: 3\n")
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewConfigHolder(initial, loader)
	ch := make(chan AppConfig, 1)
	h.RegisterListener(ch)

	require.NoError(t, os.WriteFile(path, []byte("decoder:\n  maxRecoveryAttempts: 5\n"), 0o600))
	require.NoError(t, h.Reload(context.Background()))
	assert.Equal(t, 5, h.Get().Decoder.MaxRecoveryAttempts)
	assert.Equal(t, 5, (<-ch).Decoder.MaxRecoveryAttempts)

	require.NoError(t, os.WriteFile(path, []byte("decoder:\n  maxRecoveryAttempts: 99\n"), 0o600))
	require.Error(t, h.Reload(context.Background()))
	assert.Equal(t, 5, h.Get().Decoder.MaxRecoveryAttempts)
}

func TestConfigHolder_WatcherReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := writeFile(t, "color:\n  range: limited\n")
	loader := NewLoader(path, "")
	initial, err := loader.Load()
	require.NoError(t, err)

	h := NewConfigHolder(initial, loader)
	h.debounce = 10 * time.Millisecond
	ch := make(chan AppConfig, 4)
	h.RegisterListener(ch)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.StartWatcher(ctx))

	require.NoError(t, os.WriteFile(path, []byte("color:\n  range: full\n"), 0o600))

	select {
	case cfg := <-ch:
		assert.Equal(t, RangeFull, cfg.Color.Range)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload notification")
	}

	cancel()
	h.Wait()
	// Let a pending debounced reload finish before the leak check.
	time.Sleep(50 * time.Millisecond)
}

func TestConfigHolder_NoFileNoWatcher(t *testing.T) {
	h := NewConfigHolder(Defaults(), NewLoader("", ""))
	require.NoError(t, h.StartWatcher(context.Background()))
	h.Wait()
}
