// SPDX-License-Identifier: EPL-2.0

// Package mixer turns player requests into transport calls and scheduled
// gain fades.
//
// An Engine owns a fixed set of channels on a device.Device. In
// DualTrackMix mode there are two, an instrumental and a vocal stem played
// in sync and blended by the mix balance. In Playlist mode one channel is
// reused for every track and switching crossfades by fading the current
// track out and the next one in.
//
// Every fade is a ramp on the engine's fade.Scheduler, and every deferred
// transport call (pausing once silent, loading the next track once the
// previous one faded out) is the completion action of such a ramp. A new
// request on a channel supersedes the ramp already running there, so
// rapid play/pause presses reverse the fade from wherever it is instead of
// stacking.
//
//	eng, _ := mixer.New(dev, mixer.DefaultConfig())
//	_ = eng.LoadTrack(mixer.SlotInstrumental, inst)
//	_ = eng.LoadTrack(mixer.SlotVocals, vox) // starts playing
//	_ = eng.SetMixBalance(0.3)
//	_ = eng.PlayPause()                      // fades out, then pauses
//
//	go mixer.NewDriver(eng, mixer.DefaultTickRate, logger).Run(ctx)
package mixer
