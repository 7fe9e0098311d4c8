// Package transcode renders audio previews and hands them to FFmpeg for encoding.
package transcode

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/RyanBlaney/synthviz/config"
	"github.com/RyanBlaney/synthviz/logging"
)

// ErrNoSamples is returned when there is nothing to encode
var ErrNoSamples = errors.New("no samples to encode")

// EncoderConfig holds encoder configuration
type EncoderConfig struct {
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Format     string        `json:"format"`      // "wav" or "flac"
	FFmpegPath string        `json:"ffmpeg_path"` // Path to ffmpeg binary
	Timeout    time.Duration `json:"timeout"`     // Zero means no limit beyond ctx
}

// DefaultEncoderConfig returns default encoder configuration
func DefaultEncoderConfig() *EncoderConfig {
	return &EncoderConfig{
		SampleRate: 48000,
		Channels:   1,
		Format:     "wav",
		FFmpegPath: "ffmpeg", // Assume in PATH
		Timeout:    30 * time.Second,
	}
}

// EncoderConfigFromPreview takes the encoding settings from a preview section
func EncoderConfigFromPreview(p config.PreviewConfig) *EncoderConfig {
	cfg := DefaultEncoderConfig()
	cfg.SampleRate = p.SampleRate
	cfg.Format = strings.ToLower(p.Format)
	cfg.Timeout = p.Timeout
	if p.FFmpegPath != "" {
		cfg.FFmpegPath = p.FFmpegPath
	}
	return cfg
}

// Encoder writes PCM to audio files through FFmpeg
type Encoder struct {
	config *EncoderConfig
}

// NewEncoder creates a new encoder
func NewEncoder(config *EncoderConfig) *Encoder {
	if config == nil {
		config = DefaultEncoderConfig()
	}
	return &Encoder{config: config}
}

// ValidateConfig validates the encoder configuration without running FFmpeg
func (e *Encoder) ValidateConfig() error {
	if e.config.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive: %d", e.config.SampleRate)
	}
	if e.config.Channels <= 0 || e.config.Channels > 8 {
		return fmt.Errorf("channels must be between 1 and 8: %d", e.config.Channels)
	}
	if _, ok := codecs[e.config.Format]; !ok {
		return fmt.Errorf("unsupported format %q; valid values: %s", e.config.Format, strings.Join(e.GetSupportedFormats(), ", "))
	}
	if e.config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %v", e.config.Timeout)
	}
	return nil
}

// CheckFFmpegAvailability runs "ffmpeg -version"
func (e *Encoder) CheckFFmpegAvailability(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, e.config.FFmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", e.config.FFmpegPath, err)
	}
	return nil
}

var codecs = map[string]string{
	"wav":  "pcm_s16le",
	"flac": "flac",
}

// GetSupportedFormats returns the output formats this encoder produces
func (e *Encoder) GetSupportedFormats() []string {
	formats := make([]string, 0, len(codecs))
	for f := range codecs {
		formats = append(formats, f)
	}
	slices.Sort(formats)
	return formats
}

// BuildArgs returns the FFmpeg arguments that read raw f64le from stdin and
// write output. Use "pipe:1" to write to stdout.
func (e *Encoder) BuildArgs(output string) []string {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "f64le", // Input is raw float64 little-endian
		"-ar", strconv.Itoa(e.config.SampleRate),
		"-ac", strconv.Itoa(e.config.Channels),
		"-i", "pipe:0",
		"-c:a", codecs[e.config.Format],
	}

	// container has to be named when there is no file extension to infer it from
	if output == "pipe:1" {
		args = append(args, "-f", e.config.Format)
	}

	return append(args, "-y", output)
}

// EncodeFile encodes interleaved samples to path
func (e *Encoder) EncodeFile(ctx context.Context, samples []float64, path string) error {
	return e.run(ctx, samples, path, nil)
}

// Encode encodes interleaved samples and writes the container to w
func (e *Encoder) Encode(ctx context.Context, samples []float64, w io.Writer) error {
	return e.run(ctx, samples, "pipe:1", w)
}

func (e *Encoder) run(ctx context.Context, samples []float64, output string, w io.Writer) error {
	logger := logging.WithFields(logging.Fields{
		"component": "audio_encoder",
		"function":  "Encode",
		"output":    output,
		"format":    e.config.Format,
	}).WithContext(ctx)

	if err := e.ValidateConfig(); err != nil {
		return fmt.Errorf("ffmpeg encode: %w", err)
	}
	if len(samples) == 0 {
		return fmt.Errorf("ffmpeg encode: %w", ErrNoSamples)
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	args := e.BuildArgs(output)
	cmd := exec.CommandContext(ctx, e.config.FFmpegPath, args...)
	cmd.Stdin = bytes.NewReader(Float64ToBytes(samples))
	cmd.Stdout = w

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debug("Running FFmpeg encode command", logging.Fields{
		"command": fmt.Sprintf("%s %s", e.config.FFmpegPath, strings.Join(args, " ")),
		"samples": len(samples),
		"timeout": e.config.Timeout.Seconds(),
	})

	startTime := time.Now()
	err := cmd.Run()
	encodeTime := time.Since(startTime)

	if err != nil {
		var exitError *exec.ExitError
		if errors.As(err, &exitError) {
			logger.Error(err, "FFmpeg encode failed", logging.Fields{
				"stderr": stderr.String(),
			})
			return fmt.Errorf("ffmpeg encode failed: %w, stderr: %s", err, stderr.String())
		}
		return fmt.Errorf("ffmpeg encode failed: %w", err)
	}

	logger.Debug("FFmpeg encode completed", logging.Fields{
		"encode_time": encodeTime.Seconds(),
	})
	return nil
}

// Float64ToBytes packs samples as raw f64le
func Float64ToBytes(samples []float64) []byte {
	out := make([]byte, len(samples)*8)
	for i, s := range samples {
		binary.LittleEndian.PutUint64(out[i*8:], math.Float64bits(s))
	}
	return out
}
