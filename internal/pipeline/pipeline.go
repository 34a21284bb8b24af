// Package pipeline sequences the build stages that turn cloud notebook
// content into a previewable static site: Fetch mirrors the material
// tree, Generate produces the build tree, LoadPreview composes both.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell/internal/appdata"
	"github.com/inkwell-app/inkwell/internal/toolrunner"
)

// Tool is the slice of the tool runner the pipeline drives.
type Tool interface {
	Fetch(ctx context.Context, deviceToken, materialPath string) (toolrunner.Result, error)
	Gen(ctx context.Context, materialPath, buildPath string) (toolrunner.Result, error)
}

// Result is the outcome of a pipeline operation. Msg carries the
// failing stage's diagnostic when Success is false; URL carries the
// preview URL after a successful LoadPreview.
type Result struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	URL     string `json:"url,omitempty"`
}

func failure(msg string) Result { return Result{Success: false, Msg: msg} }

// Builder runs the build pipeline. Both stages are idempotent and
// independently retryable: each one produces its output in a staging
// directory and only adopts it over the previous tree on success, so a
// failed run leaves the prior tree untouched.
type Builder struct {
	paths      *appdata.Paths
	tool       Tool
	previewURL func() string
}

// New creates a Builder. previewURL supplies the current preview
// address (with cache-busting nonce) after a successful build.
func New(paths *appdata.Paths, tool Tool, previewURL func() string) *Builder {
	return &Builder{paths: paths, tool: tool, previewURL: previewURL}
}

// Fetch mirrors the cloud notebook content into the material tree.
func (b *Builder) Fetch(ctx context.Context) Result {
	token, err := appdata.Load(b.paths.DeviceToken())
	if err != nil {
		if errors.Is(err, appdata.ErrNotFound) {
			return failure("no device is linked")
		}
		return failure(err.Error())
	}

	return b.runStage(ctx, "fetch", b.paths.MaterialDir(), func(staging string) (toolrunner.Result, error) {
		return b.tool.Fetch(ctx, string(token), staging)
	})
}

// Generate produces the static site from the current material tree.
func (b *Builder) Generate(ctx context.Context) Result {
	if !appdata.Exists(b.paths.MaterialDir()) {
		return failure("no notebook material has been fetched yet")
	}

	return b.runStage(ctx, "gen", b.paths.BuildDir(), func(staging string) (toolrunner.Result, error) {
		return b.tool.Gen(ctx, b.paths.MaterialDir(), staging)
	})
}

// LoadPreview runs Fetch, then Generate only if Fetch succeeded, and
// returns the composed result. On success the result carries the
// preview URL with a fresh cache-busting nonce so the consumer never
// renders a stale cached page.
func (b *Builder) LoadPreview(ctx context.Context) Result {
	if result := b.Fetch(ctx); !result.Success {
		return result
	}
	if result := b.Generate(ctx); !result.Success {
		return result
	}
	return Result{Success: true, URL: b.previewURL()}
}

// runStage invokes a tool stage against a staging directory and, on
// exit code 0, adopts the staging output over target. The old tree is
// removed immediately before the rename; a crash in that window leaves
// no target tree rather than a half-overwritten one, and the next run
// rebuilds it from scratch.
func (b *Builder) runStage(ctx context.Context, stage, target string, run func(staging string) (toolrunner.Result, error)) Result {
	staging := filepath.Join(b.paths.TmpDir(), stage+"-"+uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return failure(fmt.Sprintf("failed to create staging directory: %v", err))
	}
	defer os.RemoveAll(staging)

	log.Printf("[INFO] Running build stage: stage=%s staging=%s", stage, staging)
	result, err := run(staging)
	if err != nil {
		return failure(err.Error())
	}
	if !result.Ok() {
		log.Printf("[ERROR] Build stage failed: stage=%s exit_code=%d", stage, result.ExitCode)
		return failure(result.Message())
	}

	if err := os.RemoveAll(target); err != nil {
		return failure(fmt.Sprintf("failed to clear %s: %v", target, err))
	}
	if err := os.Rename(staging, target); err != nil {
		return failure(fmt.Sprintf("failed to adopt %s output: %v", stage, err))
	}

	log.Printf("[INFO] Build stage completed: stage=%s target=%s", stage, target)
	return Result{Success: true}
}
