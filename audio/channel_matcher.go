// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMatcher presents src with a different channel count. Down-mixing
// to mono averages all channels, up-mixing from mono duplicates the single
// channel, and any other layout maps output channel c to source channel
// c modulo the source count.
type ChannelMatcher struct {
	src      Source
	channels int
	tmp      []float32
}

func NewChannelMatcher(src Source, channels int) (*ChannelMatcher, error) {
	if channels <= 0 || src.Channels() <= 0 {
		return nil, ErrInvalidChannels
	}

	return &ChannelMatcher{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}, nil
}

func (m *ChannelMatcher) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMatcher) Channels() int   { return m.channels }

func (m *ChannelMatcher) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMatcher) ReadSamples(dst []float32) (int, error) {
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	in := m.src.Channels()
	if in == m.channels {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / m.channels
	if frames == 0 {
		return 0, nil
	}

	needed := frames * in
	if cap(m.tmp) < needed {
		m.tmp = make([]float32, needed)
	}
	m.tmp = m.tmp[:needed]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	got := n / in

	switch {
	case m.channels == 1:
		inv := float32(1.0) / float32(in)
		for f := range got {
			sum := float32(0)
			base := f * in
			for c := range in {
				sum += m.tmp[base+c]
			}
			dst[f] = sum * inv
		}
	case in == 1:
		for f := range got {
			v := m.tmp[f]
			base := f * m.channels
			for c := range m.channels {
				dst[base+c] = v
			}
		}
	default:
		for f := range got {
			base := f * m.channels
			for c := range m.channels {
				dst[base+c] = m.tmp[f*in+c%in]
			}
		}
	}

	return got * m.channels, err
}
