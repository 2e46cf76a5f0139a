package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

var (
	ErrUnsupportedWAV = errors.New("unsupported wav format")
	ErrInvalidWAV     = errors.New("invalid wav file")
)

// Metrics summarizes the loudness of one captured utterance. The session
// uses it to gate silence-only captures before any network call.
type Metrics struct {
	RMSdBFS  float64
	PeakdBFS float64
	Samples  int64
}

// SilentBelow reports whether the utterance is effectively silent for the
// given RMS threshold. The peak gate sits 6 dB above the RMS threshold so a
// single click does not defeat the gate.
func (m Metrics) SilentBelow(thresholdDBFS float64) bool {
	if m.Samples == 0 {
		return true
	}
	if math.IsInf(m.RMSdBFS, -1) && math.IsInf(m.PeakdBFS, -1) {
		return true
	}
	return m.RMSdBFS <= thresholdDBFS && m.PeakdBFS <= thresholdDBFS+6
}

type wavData struct {
	format        uint16
	bitsPerSample uint16
	sampleRate    uint32
	channels      uint16
	data          []byte
}

// Analyze computes loudness metrics over every sample of a WAV file.
func Analyze(path string) (Metrics, error) {
	wav, err := readWAV(path)
	if err != nil {
		return Metrics{}, err
	}

	peak, sumSquares, samples, err := measure(wav)
	if err != nil {
		return Metrics{}, err
	}

	if samples == 0 {
		return Metrics{RMSdBFS: math.Inf(-1), PeakdBFS: math.Inf(-1)}, nil
	}

	rms := math.Sqrt(sumSquares / float64(samples))
	return Metrics{
		RMSdBFS:  toDBFS(rms),
		PeakdBFS: toDBFS(peak),
		Samples:  samples,
	}, nil
}

// PCM16 returns the raw little-endian PCM16 payload and sample rate of a
// capture, the shape the recognition service expects for audio/l16 uploads.
func PCM16(path string) ([]byte, int, error) {
	wav, err := readWAV(path)
	if err != nil {
		return nil, 0, err
	}

	if wav.format != 1 || wav.bitsPerSample != 16 {
		return nil, 0, fmt.Errorf("%w: recognition upload requires PCM16, got format %d with %d bits", ErrUnsupportedWAV, wav.format, wav.bitsPerSample)
	}

	return wav.data, int(wav.sampleRate), nil
}

func readWAV(path string) (wavData, error) {
	f, err := os.Open(path)
	if err != nil {
		return wavData{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	header := make([]byte, 12)
	if _, err := io.ReadFull(f, header); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return wavData{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		return wavData{}, fmt.Errorf("read wav header: %w", err)
	}

	if string(header[:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return wavData{}, ErrInvalidWAV
	}

	var (
		wav     wavData
		hasFmt  bool
		hasData bool
	)

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(f, chunkHeader); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return wavData{}, fmt.Errorf("read wav chunk header: %w", err)
		}

		chunkID := string(chunkHeader[:4])
		chunkSize := binary.LittleEndian.Uint32(chunkHeader[4:8])

		padded := int64(chunkSize)
		if chunkSize%2 != 0 {
			padded++
		}

		switch chunkID {
		case "fmt ":
			if chunkSize < 16 {
				return wavData{}, ErrInvalidWAV
			}

			buf := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, buf); err != nil {
				return wavData{}, fmt.Errorf("read wav fmt chunk: %w", err)
			}

			wav.format = binary.LittleEndian.Uint16(buf[0:2])
			wav.channels = binary.LittleEndian.Uint16(buf[2:4])
			wav.sampleRate = binary.LittleEndian.Uint32(buf[4:8])
			wav.bitsPerSample = binary.LittleEndian.Uint16(buf[14:16])
			hasFmt = true

			if chunkSize%2 != 0 {
				if _, err := f.Seek(1, io.SeekCurrent); err != nil {
					return wavData{}, fmt.Errorf("seek wav fmt padding: %w", err)
				}
			}
		case "data":
			buf := make([]byte, chunkSize)
			if _, err := io.ReadFull(f, buf); err != nil {
				return wavData{}, fmt.Errorf("read wav data: %w", err)
			}
			wav.data = buf
			hasData = true

			if chunkSize%2 != 0 {
				if _, err := f.Seek(1, io.SeekCurrent); err != nil {
					return wavData{}, fmt.Errorf("seek wav data padding: %w", err)
				}
			}
		default:
			if _, err := f.Seek(padded, io.SeekCurrent); err != nil {
				return wavData{}, fmt.Errorf("seek wav chunk %s: %w", chunkID, err)
			}
		}
	}

	if !hasFmt || !hasData {
		return wavData{}, ErrInvalidWAV
	}

	if err := validateFormat(wav.format, wav.bitsPerSample); err != nil {
		return wavData{}, err
	}

	return wav, nil
}

func validateFormat(audioFormat, bitsPerSample uint16) error {
	switch audioFormat {
	case 1:
		switch bitsPerSample {
		case 8, 16, 24, 32:
			return nil
		}
	case 3:
		switch bitsPerSample {
		case 32, 64:
			return nil
		}
	}
	return ErrUnsupportedWAV
}

func measure(wav wavData) (float64, float64, int64, error) {
	bytesPerSample := int(wav.bitsPerSample / 8)
	if bytesPerSample <= 0 {
		return 0, 0, 0, ErrUnsupportedWAV
	}

	var peak float64
	var sumSquares float64
	var samples int64

	for i := 0; i+bytesPerSample <= len(wav.data); i += bytesPerSample {
		value, err := decodeSample(wav.data[i:i+bytesPerSample], wav.format, wav.bitsPerSample)
		if err != nil {
			return 0, 0, 0, err
		}

		abs := math.Abs(value)
		if abs > peak {
			peak = abs
		}
		sumSquares += value * value
		samples++
	}

	return peak, sumSquares, samples, nil
}

func decodeSample(sample []byte, audioFormat, bitsPerSample uint16) (float64, error) {
	if audioFormat == 3 {
		switch bitsPerSample {
		case 32:
			bits := binary.LittleEndian.Uint32(sample)
			return float64(math.Float32frombits(bits)), nil
		case 64:
			bits := binary.LittleEndian.Uint64(sample)
			return math.Float64frombits(bits), nil
		default:
			return 0, ErrUnsupportedWAV
		}
	}

	switch bitsPerSample {
	case 8:
		u := float64(sample[0])
		return (u - 128.0) / 128.0, nil
	case 16:
		v := int16(binary.LittleEndian.Uint16(sample))
		return float64(v) / 32768.0, nil
	case 24:
		v := int32(sample[0]) | int32(sample[1])<<8 | int32(sample[2])<<16
		if v&0x800000 != 0 {
			v |= ^0xFFFFFF
		}
		return float64(v) / 8388608.0, nil
	case 32:
		v := int32(binary.LittleEndian.Uint32(sample))
		return float64(v) / 2147483648.0, nil
	default:
		return 0, ErrUnsupportedWAV
	}
}

func toDBFS(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20.0 * math.Log10(amplitude)
}
