package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-app/inkwell/internal/appdata"
	"github.com/inkwell-app/inkwell/internal/toolrunner"
)

// fakeTool simulates the site-generator binary, recording calls and
// writing canned output into the staging directory it is given.
type fakeTool struct {
	fetchResult toolrunner.Result
	genResult   toolrunner.Result
	fetchCalls  int
	genCalls    int
	fetchToken  string
	writeFiles  map[string]string
}

func (f *fakeTool) Fetch(ctx context.Context, deviceToken, materialPath string) (toolrunner.Result, error) {
	f.fetchCalls++
	f.fetchToken = deviceToken
	if f.fetchResult.Ok() {
		for name, content := range f.writeFiles {
			path := filepath.Join(materialPath, name)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return toolrunner.Result{}, err
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return toolrunner.Result{}, err
			}
		}
	}
	return f.fetchResult, nil
}

func (f *fakeTool) Gen(ctx context.Context, materialPath, buildPath string) (toolrunner.Result, error) {
	f.genCalls++
	if f.genResult.Ok() {
		if err := os.WriteFile(filepath.Join(buildPath, "index.html"), []byte("generated"), 0o644); err != nil {
			return toolrunner.Result{}, err
		}
	}
	return f.genResult, nil
}

func newBuilder(t *testing.T, tool Tool) (*Builder, *appdata.Paths) {
	t.Helper()
	paths, err := appdata.NewPaths(t.TempDir())
	require.NoError(t, err)
	builder := New(paths, tool, func() string { return "http://127.0.0.1:9999/?1756400000" })
	return builder, paths
}

func linkDevice(t *testing.T, paths *appdata.Paths) {
	t.Helper()
	require.NoError(t, appdata.Save(paths.DeviceToken(), []byte("tok-1")))
}

func TestFetch_WithoutDeviceTokenFails(t *testing.T) {
	tool := &fakeTool{}
	builder, _ := newBuilder(t, tool)

	result := builder.Fetch(context.Background())
	assert.False(t, result.Success)
	assert.Contains(t, result.Msg, "no device is linked")
	assert.Zero(t, tool.fetchCalls, "tool must not run without a credential")
}

func TestFetch_SuccessAdoptsMaterialTree(t *testing.T) {
	tool := &fakeTool{writeFiles: map[string]string{
		"manifest.json":    `{"notebooks":1}`,
		"zip/notebook.zip": "zipdata",
	}}
	builder, paths := newBuilder(t, tool)
	linkDevice(t, paths)

	result := builder.Fetch(context.Background())
	require.True(t, result.Success, "msg: %s", result.Msg)
	assert.Equal(t, "tok-1", tool.fetchToken)

	data, err := os.ReadFile(paths.Manifest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"notebooks":1}`, string(data))
}

func TestFetch_FailureLeavesPreviousMaterialUntouched(t *testing.T) {
	tool := &fakeTool{writeFiles: map[string]string{"manifest.json": `{"v":1}`}}
	builder, paths := newBuilder(t, tool)
	linkDevice(t, paths)
	require.True(t, builder.Fetch(context.Background()).Success)

	tool.fetchResult = toolrunner.Result{ExitCode: 1, Stderr: "cloud unreachable"}
	result := builder.Fetch(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, "cloud unreachable", result.Msg)

	// The previous mirror is intact.
	data, err := os.ReadFile(paths.Manifest())
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":1}`, string(data))
}

func TestGenerate_WithoutMaterialFails(t *testing.T) {
	tool := &fakeTool{}
	builder, _ := newBuilder(t, tool)

	result := builder.Generate(context.Background())
	assert.False(t, result.Success)
	assert.Zero(t, tool.genCalls)
}

func TestLoadPreview_FetchFailureSkipsGenerate(t *testing.T) {
	tool := &fakeTool{fetchResult: toolrunner.Result{ExitCode: 2, Stderr: "bad token"}}
	builder, paths := newBuilder(t, tool)
	linkDevice(t, paths)

	result := builder.LoadPreview(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, "bad token", result.Msg)
	assert.Equal(t, 1, tool.fetchCalls)
	assert.Zero(t, tool.genCalls, "Generate must not start after a failed Fetch")
}

func TestLoadPreview_SuccessReturnsPreviewURL(t *testing.T) {
	tool := &fakeTool{writeFiles: map[string]string{"manifest.json": "{}"}}
	builder, paths := newBuilder(t, tool)
	linkDevice(t, paths)

	result := builder.LoadPreview(context.Background())
	require.True(t, result.Success, "msg: %s", result.Msg)
	assert.Equal(t, "http://127.0.0.1:9999/?1756400000", result.URL)
	assert.Equal(t, 1, tool.fetchCalls)
	assert.Equal(t, 1, tool.genCalls)

	// Generated output was adopted into the build tree.
	data, err := os.ReadFile(filepath.Join(paths.BuildDir(), "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "generated", string(data))
}

func TestLoadPreview_RetryAfterFailureSucceeds(t *testing.T) {
	tool := &fakeTool{
		fetchResult: toolrunner.Result{ExitCode: 1, Stderr: "flaky"},
		writeFiles:  map[string]string{"manifest.json": "{}"},
	}
	builder, paths := newBuilder(t, tool)
	linkDevice(t, paths)

	require.False(t, builder.LoadPreview(context.Background()).Success)

	// User-initiated retry after the transient failure clears.
	tool.fetchResult = toolrunner.Result{}
	result := builder.LoadPreview(context.Background())
	assert.True(t, result.Success, "msg: %s", result.Msg)
}

func TestGenerate_FailureLeavesPreviousBuildUntouched(t *testing.T) {
	tool := &fakeTool{writeFiles: map[string]string{"manifest.json": "{}"}}
	builder, paths := newBuilder(t, tool)
	linkDevice(t, paths)
	require.True(t, builder.LoadPreview(context.Background()).Success)

	tool.genResult = toolrunner.Result{ExitCode: 1, Stderr: "template error"}
	result := builder.Generate(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, "template error", result.Msg)

	data, err := os.ReadFile(filepath.Join(paths.BuildDir(), "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "generated", string(data))
}
