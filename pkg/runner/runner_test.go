package runner

import (
	"bytes"
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alantheprice/vibecode/pkg/language"
	"github.com/alantheprice/vibecode/pkg/manifest"
	"github.com/alantheprice/vibecode/pkg/process"
	"github.com/alantheprice/vibecode/pkg/process/processtest"
	"github.com/alantheprice/vibecode/pkg/utils"
	"github.com/alantheprice/vibecode/pkg/workspace"
)

func newRunner(t *testing.T, ex process.Executor) (*Runner, string) {
	t.Helper()
	root := t.TempDir()
	return New(workspace.NewWriter(root, []string{".git/"}, nil), language.Default(), ex, 5*time.Second, nil), root
}

func TestExecute_PythonHello(t *testing.T) {
	fake := processtest.New(func(cmd process.Command) *process.Result {
		return processtest.Output("hello\n")
	})
	r, root := newRunner(t, fake)

	out := r.Execute(context.Background(), "hello", []manifest.File{{Filename: "main.py", Content: "print('hello')"}})

	assert.Equal(t, Success, out.Kind)
	assert.True(t, out.Success())
	assert.Equal(t, "main.py", out.MainFile)
	assert.Equal(t, "Python", out.Language)
	assert.Equal(t, "hello\n", out.Stdout)
	assert.Empty(t, out.Error)
	assert.Equal(t, "✓ Compilation/Execution successful", out.Status())

	calls := fake.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, filepath.Join(root, "hello"), calls[0].Dir)
	assert.FileExists(t, filepath.Join(root, "hello", "main.py"))
}

func TestExecute_UpperCaseExtension(t *testing.T) {
	fake := processtest.New(func(cmd process.Command) *process.Result {
		return processtest.Output("hi\n")
	})
	r, _ := newRunner(t, fake)

	out := r.Execute(context.Background(), "shout", []manifest.File{{Filename: "Hello.PY", Content: "print('hi')"}})

	assert.Equal(t, Success, out.Kind)
	assert.Equal(t, "Hello.PY", out.MainFile)
	assert.Equal(t, "Python", out.Language)
	require.Len(t, fake.Calls(), 1)
	assert.Equal(t, []string{"Hello.PY"}, fake.Calls()[0].Args)
}

func TestExecute_CompileFailureSkipsRun(t *testing.T) {
	fake := processtest.New(func(cmd process.Command) *process.Result {
		if cmd.Name == "g++" {
			return processtest.Failure(1, "main.cpp:3:5: error: expected ';' before '}' token")
		}
		t.Fatalf("unexpected command %s", cmd)
		return nil
	})
	r, _ := newRunner(t, fake)

	out := r.Execute(context.Background(), "cpp", []manifest.File{{Filename: "main.cpp", Content: "int main() { return 0 }"}})

	assert.Equal(t, CompileFailed, out.Kind)
	assert.False(t, out.Success())
	assert.Contains(t, out.Error, "expected ';'")
	assert.Equal(t, []string{"g++"}, fake.Names())
	assert.Equal(t, "✗ Compilation/Execution failed", out.Status())
}

func TestExecute_NoMainFile(t *testing.T) {
	fake := processtest.New(nil)
	r, _ := newRunner(t, fake)

	out := r.Execute(context.Background(), "docs", []manifest.File{{Filename: "README.md", Content: "# hi"}})

	assert.Equal(t, NoMainFile, out.Kind)
	assert.Equal(t, NoMainFileMessage, out.Error)
	assert.Empty(t, fake.Calls())
	require.Len(t, out.Write.Written, 1)
}

func TestExecute_NotExecutable(t *testing.T) {
	fake := processtest.New(nil)
	r, _ := newRunner(t, fake)

	out := r.Execute(context.Background(), "site", []manifest.File{{Filename: "index.html", Content: "<h1>hi</h1>"}})

	assert.Equal(t, NotExecutable, out.Kind)
	assert.Equal(t, "HTML", out.Language)
	assert.Equal(t, "File index.html is not executable", out.Error)
	assert.Equal(t, "Not executable", out.Status())
	assert.Empty(t, fake.Calls())
}

func TestExecute_SkippedFilesAreNotCandidates(t *testing.T) {
	fake := processtest.New(nil)
	r, _ := newRunner(t, fake)

	out := r.Execute(context.Background(), "p", []manifest.File{{Filename: "../main.py", Content: "x"}})

	assert.Equal(t, NoMainFile, out.Kind)
	assert.Len(t, out.Write.Skipped, 1)
}

func TestExecute_RunFailureAndTimeout(t *testing.T) {
	tests := []struct {
		name   string
		result *process.Result
		kind   Kind
		err    string
	}{
		{"traceback", &process.Result{ExitCode: 1, Stdout: "partial\n", Stderr: "Traceback: ZeroDivisionError"}, RunFailed, "Traceback: ZeroDivisionError"},
		{"timeout", &process.Result{TimedOut: true, ExitCode: -1}, TimedOut, "Execution timed out (5 seconds limit)."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := processtest.New(func(process.Command) *process.Result {
				r := *tt.result
				return &r
			})
			r, _ := newRunner(t, fake)

			out := r.Execute(context.Background(), "p", []manifest.File{{Filename: "app.py", Content: "1/0"}})

			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.err, out.Error)
			assert.Equal(t, tt.result.Stdout, out.Stdout)
		})
	}
}

func TestExecute_FailureIsLoggedWithContext(t *testing.T) {
	fake := processtest.New(func(process.Command) *process.Result {
		return processtest.Failure(1, "NameError: name 'x' is not defined")
	})
	var logs bytes.Buffer
	r := New(workspace.NewWriter(t.TempDir(), nil, nil), language.Default(), fake, 5*time.Second, utils.NewLogger(&logs, nil))

	out := r.Execute(context.Background(), "p", []manifest.File{{Filename: "main.py", Content: "print(x)"}})

	assert.Equal(t, RunFailed, out.Kind)
	assert.Contains(t, logs.String(), "[EXEC_ERROR] Execution failed in runner during run: NameError")
	assert.Contains(t, logs.String(), "main_file:main.py")
	assert.Contains(t, logs.String(), "language:Python")
}

func TestExecute_MissingRuntime(t *testing.T) {
	fake := processtest.New(nil, "node")
	r, _ := newRunner(t, fake)

	out := r.Execute(context.Background(), "p", []manifest.File{{Filename: "index.js", Content: "console.log(1)"}})

	assert.Equal(t, RunFailed, out.Kind)
	assert.Equal(t, "Runtime 'node' not found. Please install it.", out.Error)
}

func TestExecute_Cancelled(t *testing.T) {
	fake := processtest.New(nil)
	r, _ := newRunner(t, fake)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := r.Execute(ctx, "p", []manifest.File{{Filename: "main.py", Content: "print(1)"}})

	assert.Equal(t, Cancelled, out.Kind)
	assert.Empty(t, fake.Calls())
}

func TestExecute_RealShellTimeout(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("python3 not available")
	}
	root := t.TempDir()
	r := New(workspace.NewWriter(root, nil, nil), language.Default(), process.NewLocalExecutor(nil, 0), 300*time.Millisecond, nil)

	start := time.Now()
	out := r.Execute(context.Background(), "sleepy", []manifest.File{{Filename: "main.py", Content: "import time\ntime.sleep(10)\n"}})

	assert.Equal(t, TimedOut, out.Kind)
	assert.Less(t, time.Since(start), 5*time.Second)
}
