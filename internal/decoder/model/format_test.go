// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVideoFormat_Codec(t *testing.T) {
	cases := []struct {
		format VideoFormat
		codec  Codec
		mime   string
		tenBit bool
	}{
		{VideoFormatH264, CodecAVC, MIMEAVC, false},
		{VideoFormatH264High44, CodecAVC, MIMEAVC, false},
		{VideoFormatH265, CodecHEVC, MIMEHEVC, false},
		{VideoFormatH265Main10, CodecHEVC, MIMEHEVC, true},
		{VideoFormatAV1Main8, CodecAV1, MIMEAV1, false},
		{VideoFormatAV1Main10, CodecAV1, MIMEAV1, true},
		{0, CodecAVC, MIMEAVC, false},
		{VideoFormatH265 | VideoFormatAV1Main8, CodecHEVC, MIMEHEVC, false},
	}
	for _, tc := range cases {
		t.Run(tc.format.String(), func(t *testing.T) {
			assert.Equal(t, tc.codec, tc.format.Codec())
			assert.Equal(t, tc.mime, tc.format.Codec().MIME())
			assert.Equal(t, tc.tenBit, tc.format.Is10Bit())
		})
	}
}

func TestVideoFormat_Strip10Bit(t *testing.T) {
	assert.Equal(t, VideoFormatH265, VideoFormatH265Main10.Strip10Bit())
	assert.Equal(t, VideoFormatAV1Main8, VideoFormatAV1Main10.Strip10Bit())
	assert.Equal(t, VideoFormatH264|VideoFormatH265, (VideoFormatH264 | VideoFormatH265Main10).Strip10Bit())
	assert.Equal(t, VideoFormatH264, VideoFormatH264.Strip10Bit())
	assert.False(t, (VideoFormatH265Main10 | VideoFormatAV1Main10).Strip10Bit().Is10Bit())
}

func TestHostCodecModes_SupportsHDR(t *testing.T) {
	assert.True(t, HostCodecModes(0).SupportsHDR(), "unreported")
	assert.True(t, HostCodecModes(0x00200).SupportsHDR())
	assert.True(t, HostCodecModes(0x20000).SupportsHDR())
	assert.False(t, HostCodecModes(0x00101).SupportsHDR())
}

func TestStreamFormat_Validate(t *testing.T) {
	require.NoError(t, StreamFormat{Width: 1920, Height: 1080, FPS: 60}.Validate())
	require.NoError(t, StreamFormat{Width: 1280, Height: 720}.Validate())

	err := StreamFormat{Width: 0, Height: 1080}.Validate()
	require.ErrorIs(t, err, ErrInvalidFormat)

	err = StreamFormat{Width: 1920, Height: 1080, FPS: -1}.Validate()
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestAccessUnit_PayloadRejectsBadLength(t *testing.T) {
	au := AccessUnit{Data: []byte{1, 2, 3, 4}, Length: 2}
	p, err := au.Payload()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, p)

	au.Length = 4
	p, err = au.Payload()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, p)

	for _, n := range []int{10, -1} {
		au.Length = n
		_, err = au.Payload()
		assert.ErrorIs(t, err, ErrBadUnitLength, n)
	}
}

func TestSetupStatusFor(t *testing.T) {
	assert.Equal(t, SetupOK, SetupStatusFor(nil))
	assert.Equal(t, SetupMissingColorConfig, SetupStatusFor(ErrMissingColorConfig))
	assert.Equal(t, SetupMissingColorSpace, SetupStatusFor(ErrMissingColorSpace))
	assert.Equal(t, SetupFailed, SetupStatusFor(ErrNoSurface))
	assert.Equal(t, SetupFailed, SetupStatusFor(ErrConfigureFailed))
}

func TestColorRequest_Presence(t *testing.T) {
	r := ColorRequest{Range: 1, Standard: 1, Transfer: 3, ColorSpace: int(DataSpaceSRGB)}
	assert.True(t, r.HasTriple())
	assert.True(t, r.HasColorSpace())

	r.Transfer = -1
	assert.False(t, r.HasTriple())

	r = ColorRequest{Range: 1, Standard: 1, Transfer: 3, ColorSpace: -1}
	assert.True(t, r.HasTriple())
	assert.False(t, r.HasColorSpace())
}
