// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package session

import (
	"testing"
	"time"

	"github.com/ManuGH/streamdec/internal/decoder/model"
	"github.com/ManuGH/streamdec/internal/decoder/testkit"
	"github.com/stretchr/testify/require"
)

type harness struct {
	ctrl    *Controller
	factory *testkit.FakeFactory
	surface *testkit.FakeSurface
}

func newHarness(t *testing.T, mutate func(*Deps)) *harness {
	t.Helper()
	factory := testkit.NewFakeFactory()
	deps := Deps{
		Factory:  factory,
		Platform: testkit.FakePlatform{SDK: 34},
	}
	if mutate != nil {
		mutate(&deps)
	}
	if f, ok := deps.Factory.(*testkit.FakeFactory); ok {
		factory = f
	}
	cfg := DefaultConfig()
	cfg.InputTimeout = time.Millisecond
	cfg.OutputTimeout = 2 * time.Millisecond

	ctrl, err := New(deps, cfg)
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)

	surface := testkit.NewFakeSurface("surface-1")
	ctrl.SetSurface(surface)
	return &harness{ctrl: ctrl, factory: factory, surface: surface}
}

// sdrColor stores a complete limited-range BT.709 configuration.
func (h *harness) sdrColor() {
	h.ctrl.SetColorConfig(int(model.ColorRangeLimited), int(model.ColorStandardBT709), int(model.ColorTransferSDRVideo), 0)
}

func (h *harness) setupAVC(t *testing.T) {
	t.Helper()
	h.sdrColor()
	require.Equal(t, model.SetupOK, h.ctrl.Setup(model.VideoFormatH264, 1920, 1080, 60))
}

func (h *harness) started(t *testing.T) *testkit.FakeCodec {
	t.Helper()
	h.setupAVC(t)
	h.ctrl.Start()
	require.Equal(t, model.StateStarted, h.ctrl.State())
	codec := h.factory.Last()
	require.NotNil(t, codec)
	return codec
}

func configUnit() model.AccessUnit {
	data := []byte{0, 0, 0, 1, 0x67, 0x42}
	return model.AccessUnit{Data: data, Length: len(data), Kind: model.UnitSPS}
}

func pictureUnit(frame model.FrameKind, enqueueMs int64) model.AccessUnit {
	data := []byte{0, 0, 0, 1, 0x65, 0x88, 0x84}
	return model.AccessUnit{Data: data, Length: len(data), Kind: model.UnitPicture, Frame: frame, EnqueueMs: enqueueMs}
}
