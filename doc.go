// SPDX-License-Identifier: EPL-2.0

// Package fademix is a fade-scheduled mixing engine for a small number of
// audio channels.
//
// Every audible change goes through a gain ramp: pausing fades the audible
// channels to silence and only then pauses them, resuming restarts them
// silent and fades them back in, and switching playlist tracks fades the
// old track out before the new one fades in. A balance control blends two
// stems, typically an instrumental and a vocal take of the same song.
//
// # Packages
//
//   - fade: the per-target ramp scheduler with completion actions
//   - mixer: channels, the engine state machine and the tick driver
//   - device: the playback device contract
//   - device/soft: an in-process device that decodes and mixes sources
//   - device/speaker: plays a soft device through the system audio output
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders
//   - library: track catalog backed by SQLite or a JSON file
//   - config: environment configuration for cmd/fademix
//   - cmd/fademix: interactive shell and offline renderer
//
// # Quick Start
//
//	dev, _ := soft.New(fademix.DefaultRegistry(), 44100, 2, soft.WithLogger(log))
//	instr, _ := dev.LoadSource("song_instrumental.mp3")
//	vocals, _ := dev.LoadSource("song_vocals.mp3")
//
//	eng, _ := mixer.New(dev, mixer.DefaultConfig(), mixer.WithLogger(log))
//	_ = eng.LoadTrack(mixer.SlotInstrumental, instr)
//	_ = eng.LoadTrack(mixer.SlotVocals, vocals) // both stems start playing
//	_ = eng.SetMixBalance(0.3)
//
//	go mixer.NewDriver(eng, mixer.DefaultTickRate, log).Run(ctx)
//	_ = eng.PlayPause() // fades out over 1.5s, then pauses
//
// DefaultRegistry wires every decoder shipped with the module by file
// extension.
package fademix
