package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedFormat reports that the uploaded blob could not be decoded
// as any known audio container.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Transcoder normalizes an arbitrary uploaded audio container into the
// mono PCM16LE waveform the recognizer requires.
type Transcoder interface {
	Transcode(ctx context.Context, blob []byte) (Clip, error)
}

// FFmpegTranscoder shells out to ffmpeg, which handles whatever container
// the browser recorded (webm/opus, ogg, mp4, wav, ...).
type FFmpegTranscoder struct {
	// Path is the ffmpeg binary; "ffmpeg" resolves via PATH when empty.
	Path string
	// SampleRate of the normalized output; 16000 when zero.
	SampleRate int
}

func (t *FFmpegTranscoder) Transcode(ctx context.Context, blob []byte) (Clip, error) {
	if len(blob) == 0 {
		return Clip{}, fmt.Errorf("%w: empty upload", ErrUnsupportedFormat)
	}

	binPath := strings.TrimSpace(t.Path)
	if binPath == "" {
		binPath = "ffmpeg"
	}
	rate := t.SampleRate
	if rate <= 0 {
		rate = 16000
	}

	id := uuid.NewString()
	inPath := filepath.Join(os.TempDir(), "input_"+id)
	outPath := filepath.Join(os.TempDir(), "converted_"+id+".wav")
	defer os.Remove(inPath)
	defer os.Remove(outPath)

	if err := os.WriteFile(inPath, blob, 0o600); err != nil {
		return Clip{}, fmt.Errorf("write upload temp file: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binPath,
		"-hide_banner", "-loglevel", "error",
		"-i", inPath,
		"-ac", "1",
		"-ar", fmt.Sprintf("%d", rate),
		"-f", "wav",
		"-y", outPath,
	)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return Clip{}, ctx.Err()
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return Clip{}, fmt.Errorf("run ffmpeg: %w", err)
		}
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return Clip{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detail)
	}

	wav, err := os.ReadFile(outPath)
	if err != nil {
		return Clip{}, fmt.Errorf("read converted wav: %w", err)
	}
	clip, err := DecodeWAVPCM16LE(wav)
	if err != nil {
		return Clip{}, fmt.Errorf("parse converted wav: %w", err)
	}
	return clip, nil
}
