// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package sim_test

import (
	"testing"
	"time"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/session"
	"github.com/ManuGH/streamdec/internal/engine/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestSessionOverSim(t *testing.T) {
	defer goleak.VerifyNone(t)

	factory := sim.NewFactory(sim.Config{Buffers: 4, BufferSize: 1024})
	cfg := session.DefaultConfig()
	cfg.InputTimeout = 5 * time.Millisecond
	cfg.OutputTimeout = 2 * time.Millisecond

	ctrl, err := session.New(session.Deps{
		Factory:      factory,
		Capabilities: sim.Capabilities{},
		Platform:     sim.Platform{SDK: 34},
	}, cfg)
	require.NoError(t, err)
	defer ctrl.Close()

	surface := sim.NewSurface("sim-0")
	ctrl.SetSurface(surface)
	ctrl.SetColorConfig(int(model.ColorRangeLimited), int(model.ColorStandardBT709), int(model.ColorTransferSDRVideo), 0)

	require.Equal(t, model.SetupOK, ctrl.Setup(model.VideoFormatH264, 1280, 720, 30))
	assert.Equal(t, model.DataSpaceSRGB, surface.DataSpace())
	ctrl.Start()
	require.Equal(t, model.StateStarted, ctrl.State())

	sps := []byte{0, 0, 0, 1, 0x67, 0x42, 0x00, 0x1f}
	assert.Equal(t, model.ResultOK, ctrl.Submit(model.AccessUnit{Data: sps, Length: len(sps), Kind: model.UnitSPS}))

	idr := []byte{0, 0, 0, 1, 0x65, 0x88, 0x84}
	for i := 0; i < 3; i++ {
		res := ctrl.Submit(model.AccessUnit{
			Data: idr, Length: len(idr), Kind: model.UnitPicture,
			Frame: model.FrameKey, EnqueueMs: int64(i * 33),
		})
		assert.Equal(t, model.ResultOK, res)
	}

	require.Eventually(t, func() bool { return surface.Presented() == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(3), ctrl.Snapshot().FramesRendered)

	ctrl.Cleanup()
	assert.Equal(t, model.StateUninitialized, ctrl.State())
	assert.True(t, surface.Released())
}
