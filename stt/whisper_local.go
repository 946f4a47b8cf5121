package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

// WhisperLocal implements the Provider interface using the whisper.cpp CLI.
type WhisperLocal struct {
	modelPath string
	modelSize string // "tiny", "base", "small", "medium", "large"
	modelURL  string
	binPath   string // Path to whisper-cli binary
	http      *http.Client

	mu            sync.RWMutex
	ready         bool
	hasBinary     bool
	setupProgress int
}

// WhisperLocalConfig holds configuration for WhisperLocal.
type WhisperLocalConfig struct {
	ModelSize string // "tiny", "base", "small", "medium", "large"
	ModelDir  string // Directory to store models
	BinPath   string // Path to whisper-cli binary (optional, searched in PATH if not set)
	Endpoint  string // Hugging Face mirror such as https://hf-mirror.com (optional)
}

// defaultEndpoint hosts the ggml model files.
const defaultEndpoint = "https://huggingface.co"

// Multilingual model files and their approximate download sizes.
var modelSizes = map[string]struct {
	Path string // relative to the endpoint
	Size int64  // Approximate size in bytes
}{
	"tiny":   {"/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin", 75 * 1024 * 1024},
	"base":   {"/ggerganov/whisper.cpp/resolve/main/ggml-base.bin", 142 * 1024 * 1024},
	"small":  {"/ggerganov/whisper.cpp/resolve/main/ggml-small.bin", 466 * 1024 * 1024},
	"medium": {"/ggerganov/whisper.cpp/resolve/main/ggml-medium.bin", 1500 * 1024 * 1024},
	"large":  {"/ggerganov/whisper.cpp/resolve/main/ggml-large-v3.bin", 3000 * 1024 * 1024},
}

// ModelURL returns the download URL of a model on endpoint.
func ModelURL(endpoint, size string) string {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return strings.TrimSuffix(endpoint, "/") + modelSizes[size].Path
}

// ModelPath returns where a model of the given size lives inside dir.
func ModelPath(dir, size string) string {
	return filepath.Join(dir, fmt.Sprintf("ggml-%s.bin", size))
}

// NewWhisperLocal creates a new WhisperLocal provider.
func NewWhisperLocal(cfg WhisperLocalConfig) (*WhisperLocal, error) {
	if cfg.ModelSize == "" {
		cfg.ModelSize = "small"
	}

	if _, ok := modelSizes[cfg.ModelSize]; !ok {
		return nil, fmt.Errorf("invalid model size: %s", cfg.ModelSize)
	}

	if cfg.ModelDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.ModelDir = filepath.Join(homeDir, ".livesub", "models")
	}

	w := &WhisperLocal{
		modelSize:     cfg.ModelSize,
		modelPath:     ModelPath(cfg.ModelDir, cfg.ModelSize),
		modelURL:      ModelURL(cfg.Endpoint, cfg.ModelSize),
		binPath:       cfg.BinPath,
		http:          &http.Client{},
		setupProgress: -1,
	}

	if w.binPath == "" {
		w.binPath = findWhisperBinary()
	}
	w.hasBinary = w.binPath != ""

	// Ready only if both binary and model exist
	if _, err := os.Stat(w.modelPath); err == nil && w.hasBinary {
		w.ready = true
		w.setupProgress = 100
	}

	return w, nil
}

func (w *WhisperLocal) Name() string { return "whisper-local" }
func (w *WhisperLocal) DisplayName() string {
	if !w.hasBinary {
		return fmt.Sprintf("Whisper Local (%s) [需安装 whisper.cpp]", w.modelSize)
	}
	return fmt.Sprintf("Whisper Local (%s)", w.modelSize)
}

func (w *WhisperLocal) IsReady() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ready
}

func (w *WhisperLocal) SetupProgress() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.setupProgress
}

// Setup downloads the whisper model if needed.
func (w *WhisperLocal) Setup(ctx context.Context, progress func(percent int)) error {
	w.mu.Lock()
	if w.ready {
		w.mu.Unlock()
		return nil
	}
	if !w.hasBinary {
		w.mu.Unlock()
		return fmt.Errorf("whisper-cli binary not found, please install whisper.cpp")
	}
	w.setupProgress = 0
	w.mu.Unlock()

	if _, err := os.Stat(w.modelPath); err != nil {
		modelInfo := modelSizes[w.modelSize]
		if err := os.MkdirAll(filepath.Dir(w.modelPath), 0755); err != nil {
			return fmt.Errorf("create model dir: %w", err)
		}
		if err := w.downloadModel(ctx, w.modelURL, modelInfo.Size, progress); err != nil {
			return fmt.Errorf("download model: %w", err)
		}
	}

	w.mu.Lock()
	w.ready = true
	w.setupProgress = 100
	w.mu.Unlock()

	if progress != nil {
		progress(100)
	}
	return nil
}

func (w *WhisperLocal) downloadModel(ctx context.Context, url string, expectedSize int64, progress func(percent int)) error {
	return downloadFile(ctx, w.http, url, w.modelPath, expectedSize, func(pct int) {
		w.mu.Lock()
		w.setupProgress = pct
		w.mu.Unlock()
		if progress != nil {
			progress(pct)
		}
	})
}

// downloadFile fetches url into dst through a temp file, reporting progress.
func downloadFile(ctx context.Context, client *http.Client, url, dst string, expectedSize int64, report func(pct int)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}
	if resp.ContentLength > 0 {
		expectedSize = resp.ContentLength
	}

	tmpPath := dst + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // no-op after a successful rename
	}()

	pw := &progressWriter{total: expectedSize, report: report}
	if _, err := io.Copy(f, io.TeeReader(resp.Body, pw)); err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

// progressWriter reports whole-percent download progress.
type progressWriter struct {
	total   int64
	written int64
	last    int
	report  func(pct int)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if p.total > 0 {
		pct := min(int(p.written*100/p.total), 99)
		if pct > p.last && p.report != nil {
			p.last = pct
			p.report(pct)
		}
	}
	return len(b), nil
}

// Transcribe converts audio samples to text using the whisper.cpp CLI.
func (w *WhisperLocal) Transcribe(ctx context.Context, audio []float32, opts Options) (*TranscribeResult, error) {
	if !w.IsReady() {
		return nil, fmt.Errorf("whisper-local: %w", ErrNotReady)
	}

	tmpDir, err := os.MkdirTemp("", "livesub-whisper-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	audioPath := filepath.Join(tmpDir, "segment.wav")
	if err := writeWAV(audioPath, audio, DefaultSampleRate); err != nil {
		return nil, err
	}

	outBase := filepath.Join(tmpDir, "segment")
	cmd := exec.CommandContext(ctx, w.binPath, whisperArgs(w.modelPath, audioPath, outBase, opts)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("whisper-cli failed: %w, stderr: %s", err, stderr.String())
	}

	data, err := os.ReadFile(outBase + ".json")
	if err != nil {
		return nil, fmt.Errorf("read whisper output: %w", err)
	}
	return parseWhisperOutput(data, opts.Language)
}

// whisperArgs builds the whisper-cli command line.
func whisperArgs(modelPath, audioPath, outBase string, opts Options) []string {
	args := []string{
		"-m", modelPath,
		"-f", audioPath,
		"-oj",
		"-of", outBase,
		"-np",
	}
	if opts.BeamSize > 0 {
		args = append(args, "-bs", strconv.Itoa(opts.BeamSize))
	}
	if opts.Language != "" {
		args = append(args, "-l", opts.Language)
	}
	return args
}

// whisperCppOutput represents the JSON output from whisper.cpp.
type whisperCppOutput struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Text    string `json:"text"`
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
	} `json:"transcription"`
}

func parseWhisperOutput(data []byte, language string) (*TranscribeResult, error) {
	var out whisperCppOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("unmarshal whisper output: %w", err)
	}

	result := &TranscribeResult{
		Language: out.Result.Language,
		Segments: make([]Segment, 0, len(out.Transcription)),
	}
	if result.Language == "" {
		result.Language = language
	}

	for _, seg := range out.Transcription {
		result.Segments = append(result.Segments, Segment{
			Text:  seg.Text,
			Start: time.Duration(seg.Offsets.From) * time.Millisecond,
			End:   time.Duration(seg.Offsets.To) * time.Millisecond,
		})
	}
	result.Text = joinSegments(result.Segments)
	return result, nil
}

func findWhisperBinary() string {
	// whisper-cli is the Homebrew and current upstream name
	names := []string{"whisper-cli", "whisper-cpp", "whisper"}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	homeDir, _ := os.UserHomeDir()
	locations := []string{
		"/opt/homebrew/bin",
		"/usr/local/bin",
		filepath.Join(homeDir, ".local", "bin"),
		filepath.Join(homeDir, "whisper.cpp", "build", "bin"),
	}

	for _, loc := range locations {
		for _, name := range names {
			path := filepath.Join(loc, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	if runtime.GOOS == "darwin" {
		execPath, _ := os.Executable()
		bundlePath := filepath.Join(filepath.Dir(execPath), "..", "Resources", "whisper-cli")
		if _, err := os.Stat(bundlePath); err == nil {
			return bundlePath
		}
	}

	return ""
}

func (w *WhisperLocal) Close() error {
	return nil
}
