package audio

import (
	"encoding/binary"
	"fmt"
)

// Clip is a normalized mono PCM16LE waveform, the only format the
// transcription capability accepts.
type Clip struct {
	PCM        []byte
	SampleRate int
}

// DecodeWAVPCM16LE extracts the PCM payload and sample rate from a mono
// PCM16LE WAV stream, skipping any non-data chunks along the way.
func DecodeWAVPCM16LE(data []byte) (Clip, error) {
	if len(data) < 44 {
		return Clip{}, fmt.Errorf("wav too short: %d bytes", len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, fmt.Errorf("not a RIFF/WAVE stream")
	}

	var (
		sampleRate int
		fmtSeen    bool
	)
	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8
		if body+chunkSize > len(data) {
			return Clip{}, fmt.Errorf("truncated %q chunk", chunkID)
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return Clip{}, fmt.Errorf("fmt chunk too short: %d", chunkSize)
			}
			audioFormat := binary.LittleEndian.Uint16(data[body : body+2])
			numChannels := binary.LittleEndian.Uint16(data[body+2 : body+4])
			bitsPerSample := binary.LittleEndian.Uint16(data[body+14 : body+16])
			if audioFormat != 1 {
				return Clip{}, fmt.Errorf("unsupported wav format code %d", audioFormat)
			}
			if numChannels != 1 {
				return Clip{}, fmt.Errorf("expected mono audio, got %d channels", numChannels)
			}
			if bitsPerSample != 16 {
				return Clip{}, fmt.Errorf("expected 16-bit samples, got %d", bitsPerSample)
			}
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			fmtSeen = true
		case "data":
			if !fmtSeen {
				return Clip{}, fmt.Errorf("data chunk before fmt chunk")
			}
			return Clip{PCM: data[body : body+chunkSize], SampleRate: sampleRate}, nil
		}

		// Chunks are word-aligned.
		if chunkSize%2 == 1 {
			chunkSize++
		}
		offset = body + chunkSize
	}

	return Clip{}, fmt.Errorf("no data chunk found")
}
