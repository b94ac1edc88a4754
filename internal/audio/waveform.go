package audio

import "encoding/binary"

// Waveform converts little-endian 16-bit PCM bytes into a normalized
// float32 waveform in [-1, 1], the input format the transcription model
// expects. A trailing odd byte is ignored.
func Waveform(pcm []byte) []float32 {
	samples := len(pcm) / 2
	out := make([]float32, samples)
	for i := 0; i < samples; i++ {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2:]))
		out[i] = float32(v) / 32768.0
	}
	return out
}

// PCM16 converts a normalized waveform back to little-endian 16-bit PCM,
// clipping out-of-range samples.
func PCM16(waveform []float32) []byte {
	out := make([]byte, len(waveform)*2)
	for i, sample := range waveform {
		if sample > 1 {
			sample = 1
		} else if sample < -1 {
			sample = -1
		}
		v := int16(sample * 32767)
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}
