package clip

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

const (
	defaultBinary  = "yt-dlp"
	defaultTimeout = 15 * time.Minute

	// defaultUserAgent is used when neither the request nor the
	// configuration supplies one. Some sources refuse tool-identifying
	// agents, so it mimics a current desktop browser.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	acceptLanguageHeader = "Accept-Language:en-US,en;q=0.9"
	dntHeader            = "DNT:1"
)

// minExtractionBudget is the floor applied to any requested timeout.
// Package-level var so tests can shrink it.
var minExtractionBudget = 10 * time.Second

// Config carries the environment-derived defaults for a Downloader.
// All values are resolved by the caller (main reads the environment once);
// the Downloader itself never consults the environment.
type Config struct {
	Binary       string        // external tool name or path; default "yt-dlp"
	OutputDir    string        // where output files are written
	Timeout      time.Duration // default extraction budget; floor 10s, default 15m
	UserAgent    string        // default User-Agent override
	CookieHeader string        // default raw Cookie header
	CookiesFile  string        // default cookie-jar file path
	Logger       *slog.Logger
}

// Downloader runs the external media tool to extract time-bounded clips.
type Downloader struct {
	binary       string
	outputDir    string
	timeout      time.Duration
	userAgent    string
	cookieHeader string
	cookiesFile  string
	resolver     outputResolver
	log          *slog.Logger
}

// NewDownloader returns a Downloader with defaults applied: binary name,
// 15-minute budget when unspecified, 10-second floor otherwise.
func NewDownloader(cfg Config) *Downloader {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Downloader{
		binary:       orDefault(cfg.Binary, defaultBinary),
		outputDir:    cfg.OutputDir,
		timeout:      extractionBudget(cfg.Timeout),
		userAgent:    cfg.UserAgent,
		cookieHeader: cfg.CookieHeader,
		cookiesFile:  cfg.CookiesFile,
		resolver:     probeScanResolver{},
		log:          log,
	}
}

// DownloadClip extracts the clip described by opts and returns the produced
// file's path with the tool's captured output. Ownership of the file
// transfers to the caller. The subprocess is always reaped: it exits, fails
// to spawn, or is killed when the time budget expires.
func (d *Downloader) DownloadClip(ctx context.Context, opts ClipOptions) (ClipResult, error) {
	if opts.End <= opts.Start {
		return ClipResult{}, ErrInvalidRange
	}

	if err := os.MkdirAll(d.outputDir, 0o755); err != nil {
		return ClipResult{}, fmt.Errorf("create output dir: %w", err)
	}

	base := opts.BaseName
	if base == "" {
		base = uuid.New().String()
	}
	stem := filepath.Join(d.outputDir, base)

	args := d.buildArgs(opts, stem)
	d.log.Debug("running yt-dlp",
		slog.String("url", opts.URL),
		slog.String("section", sectionArg(opts.Start, opts.End)),
		slog.String("format", string(opts.Format)),
		slog.String("stem", stem),
	)

	// The subprocess inherits the service environment so that
	// environment-based overrides remain visible to the tool itself.
	cmd := exec.CommandContext(ctx, d.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	// The tool spawns its own children (downloader, muxer) which inherit
	// the output pipes; killing only the direct child would leave them
	// holding Wait open past the budget. Run the whole tree in its own
	// process group and kill the group.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 5 * time.Second

	if err := cmd.Start(); err != nil {
		return ClipResult{}, fmt.Errorf("start %s: %w", d.binary, err)
	}

	budget := d.timeout
	if opts.Timeout > 0 {
		budget = extractionBudget(opts.Timeout)
	}
	var timedOut atomic.Bool
	timer := time.AfterFunc(budget, func() {
		// No grace period: the tool is not presumed to honor
		// cooperative termination.
		timedOut.Store(true)
		_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	})
	waitErr := cmd.Wait()
	timer.Stop()

	errText := stderr.String()
	if timedOut.Load() {
		errText = strings.TrimRight(errText, "\n") + "\n" + timeoutMarker
	}

	if waitErr != nil {
		msg := strings.TrimSpace(strings.TrimSpace(stdout.String()) + "\n" + strings.TrimSpace(errText))
		if msg == "" {
			msg = fmt.Sprintf("%s exited with code %d", d.binary, cmd.ProcessState.ExitCode())
		}
		d.log.Error("yt-dlp failed",
			slog.String("url", opts.URL),
			slog.Int("exit_code", cmd.ProcessState.ExitCode()),
			slog.Bool("timed_out", timedOut.Load()),
		)
		return ClipResult{}, errors.New(msg)
	}

	path, ok := d.resolver.Resolve(d.outputDir, base)
	if !ok {
		return ClipResult{}, fmt.Errorf("%w (base %q)", ErrNoOutput, base)
	}

	d.log.Info("clip extracted",
		slog.String("url", opts.URL),
		slog.String("output", path),
	)
	return ClipResult{OutputPath: path, Stdout: stdout.String(), Stderr: errText}, nil
}

// buildArgs assembles the tool's argument vector in a fixed order so tests
// can assert on the exact list.
func (d *Downloader) buildArgs(opts ClipOptions, stem string) []string {
	args := []string{
		opts.URL,
		"-f", "bv*+ba/b",
		"--no-playlist",
		"--no-progress",
		"--newline",
		"--force-keyframes-at-cuts",
		"--download-sections", sectionArg(opts.Start, opts.End),
		"-o", stem + ".%(ext)s",
	}

	if opts.Format == FormatMKV {
		args = append(args, "--merge-output-format", "mkv")
	} else {
		args = append(args, "--remux-video", "mp4")
	}

	ua := firstNonEmpty(opts.UserAgent, d.userAgent, defaultUserAgent)
	args = append(args,
		"--user-agent", ua,
		"--add-header", acceptLanguageHeader,
		"--add-header", dntHeader,
	)

	if cookie := firstNonEmpty(opts.CookieHeader, d.cookieHeader); cookie != "" {
		args = append(args, "--add-header", "Cookie:"+cookie)
	}
	if jar := firstNonEmpty(opts.CookiesFile, d.cookiesFile); jar != "" {
		args = append(args, "--cookies", jar)
	}

	return args
}

// sectionArg formats the download-sections directive for a start/end pair.
func sectionArg(start, end float64) string {
	return "*" + SecondsToHMS(start) + "-" + SecondsToHMS(end)
}

// extractionBudget resolves a requested timeout to the effective budget:
// the default when unset, never below the floor.
func extractionBudget(requested time.Duration) time.Duration {
	if requested <= 0 {
		return defaultTimeout
	}
	if requested < minExtractionBudget {
		return minExtractionBudget
	}
	return requested
}

func orDefault(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
