// Package toolrunner invokes the external site-generator binary as a
// subprocess. The binary does the heavy lifting (talking to the tablet
// cloud, rendering notebooks, emitting the static site); this package
// only owns process lifecycle, output capture, and the exit-code
// success contract.
package toolrunner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// generatorBinary is the name of the site-generator executable shipped
// alongside the app.
const generatorBinary = "inkwell-sitegen"

// Result captures a finished subprocess invocation. Success is decided
// by ExitCode alone; Stdout and Stderr are opaque diagnostic text for
// the user, never parsed for control flow.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Ok reports whether the tool exited successfully.
func (r Result) Ok() bool { return r.ExitCode == 0 }

// Message returns the user-facing diagnostic for a failed run: stderr
// if the tool wrote any, stdout otherwise.
func (r Result) Message() string {
	if r.Stderr != "" {
		return r.Stderr
	}
	return r.Stdout
}

// Runner executes the site-generator binary.
type Runner struct {
	// exePath is the resolved absolute path of the generator binary.
	exePath string
	// siteConfigPath is passed as the tool's first argument on every
	// invocation, per the tool's CLI contract.
	siteConfigPath string
}

// New creates a Runner for the generator binary. override, when
// non-empty, skips resolution and uses the given path directly.
func New(override, siteConfigPath string) (*Runner, error) {
	exePath, err := resolveGenerator(override)
	if err != nil {
		return nil, err
	}
	return &Runner{exePath: exePath, siteConfigPath: siteConfigPath}, nil
}

// resolveGenerator locates the site-generator binary. Resolution order:
//  1. Explicit override (inkwell.yml generator_path)
//  2. The directory containing the inkwell executable itself - this is
//     the packaged layout, where the generator ships next to the app
//  3. $PATH
//
// The rest of the system never deals with packaging layout; it only
// sees the resolved path.
func resolveGenerator(override string) (string, error) {
	if override != "" {
		if _, err := os.Stat(override); err != nil {
			return "", fmt.Errorf("configured generator path %s: %w", override, err)
		}
		return override, nil
	}

	if self, err := os.Executable(); err == nil {
		packaged := filepath.Join(filepath.Dir(self), generatorBinary)
		if _, err := os.Stat(packaged); err == nil {
			return packaged, nil
		}
	}

	if found, err := exec.LookPath(generatorBinary); err == nil {
		return found, nil
	}

	return "", fmt.Errorf("site generator %s not found next to the app or on PATH", generatorBinary)
}

// Run executes the generator with the given mode arguments in cwd.
// Stdout and stderr are captured incrementally as the process writes
// them; output volumes are small for this workload, so unbounded
// buffers are fine.
//
// Returns an error only when the process could not be started at all.
// A non-zero exit is a normal Result - callers decide what to do with
// it via Result.Ok().
func (r *Runner) Run(ctx context.Context, args []string, cwd string) (Result, error) {
	full := append([]string{r.siteConfigPath}, args...)
	cmd := exec.CommandContext(ctx, r.exePath, full...)
	cmd.Dir = cwd

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return Result{ExitCode: -1}, fmt.Errorf("failed to start %s: %w", r.exePath, err)
	}

	return result, nil
}

// Init runs the tool's init mode, which binds a source folder on the
// tablet to this site: exe <site_config> init <device_token> <site_name>.
func (r *Runner) Init(ctx context.Context, deviceToken, siteName string) (Result, error) {
	return r.Run(ctx, []string{"init", deviceToken, siteName}, "")
}

// Fetch runs the tool's fetch mode, mirroring cloud notebook content
// into materialPath: exe <site_config> fetch <device_token> <material_path>.
func (r *Runner) Fetch(ctx context.Context, deviceToken, materialPath string) (Result, error) {
	return r.Run(ctx, []string{"fetch", deviceToken, materialPath}, "")
}

// Gen runs the tool's gen mode, generating the static site from the
// material tree: exe <site_config> gen <material_path> <build_path>.
func (r *Runner) Gen(ctx context.Context, materialPath, buildPath string) (Result, error) {
	return r.Run(ctx, []string{"gen", materialPath, buildPath}, "")
}
