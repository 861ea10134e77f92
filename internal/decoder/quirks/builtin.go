// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package quirks

var builtinRules = []Rule{
	{
		Name:         "qualcomm",
		NamePrefixes: []string{"omx.qcom.", "c2.qti."},
		Quirk: Descriptor{
			Vendor:           "qualcomm",
			IgnoresColorKeys: true,
			LowLatencyKeys: []VendorKey{
				{Key: "vendor.qti-ext-dec-low-latency.enable", Value: 1},
				{Key: "vendor.qti-ext-dec-picture-order.enable", Value: 1},
			},
		},
	},
	{
		Name:         "exynos",
		NamePrefixes: []string{"omx.exynos.", "c2.exynos."},
		Quirk: Descriptor{
			Vendor: "samsung",
			LowLatencyKeys: []VendorKey{
				{Key: "vendor.rtc-ext-dec-low-latency.enable", Value: 1},
			},
		},
	},
	{
		Name:         "hisilicon",
		NamePrefixes: []string{"omx.hisi."},
		Quirk: Descriptor{
			Vendor: "hisilicon",
			LowLatencyKeys: []VendorKey{
				{Key: "vendor.hisi-ext-low-latency-video-dec.video-scene-for-low-latency-req", Value: 1},
				{Key: "vendor.hisi-ext-low-latency-video-dec.video-scene-for-low-latency-rdy", Value: -1},
			},
		},
	},
	{
		Name:         "amlogic",
		NamePrefixes: []string{"omx.amlogic.", "c2.amlogic."},
		Quirk: Descriptor{
			Vendor: "amlogic",
			LowLatencyKeys: []VendorKey{
				{Key: "vendor.low-latency.enable", Value: 1},
			},
		},
	},
	{
		Name:         "mediatek",
		NamePrefixes: []string{"omx.mtk.", "c2.mtk."},
		Quirk:        Descriptor{Vendor: "mediatek"},
	},
	{
		// Standalone XR headsets on Snapdragon XR platforms, used when the
		// engine does not report a component name.
		Name:        "qualcomm-xr",
		Fingerprint: []string{"qcom", "kona", "xr2", "oculus", "meta"},
		Quirk: Descriptor{
			Vendor:           "qualcomm",
			IgnoresColorKeys: true,
		},
	},
}
