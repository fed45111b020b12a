package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quillback/scalebind/internal/upscayl"
)

// --- Fakes ---

// recorder captures every event in arrival order as a tagged string.
type recorder struct {
	events []string
	result BatchResult
	fired  bool
}

func (r *recorder) Progress(index, total int) {
	r.events = append(r.events, fmt.Sprintf("progress %d/%d", index, total))
}

func (r *recorder) LogLine(text string) {
	r.events = append(r.events, "line "+text)
}

func (r *recorder) DirectoryDone(in, out string) {
	r.events = append(r.events, "done "+filepath.Base(in))
}

func (r *recorder) DirectoryFailed(in string, code int) {
	r.events = append(r.events, fmt.Sprintf("failed %s %d", filepath.Base(in), code))
}

func (r *recorder) BatchDone(result BatchResult) {
	r.events = append(r.events, "batch done")
	r.result = result
	r.fired = true
}

func (r *recorder) has(event string) bool {
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

// fakeRunner plays back canned lines per directory and fails the directories
// named in fail. beforeDir, when set, runs at directory entry (used to
// trigger RequestStop mid-batch).
type fakeRunner struct {
	lines     []string
	fail      map[string]int // input basename → exit code
	beforeDir func(inputDir string)
	calls     int
}

func (f *fakeRunner) Executable() string { return "upscayl-bin" }

func (f *fakeRunner) RunOne(
	ctx context.Context,
	tpl upscayl.Template,
	inputDir, outputDir string,
	onLine func(string),
	stopped func() bool,
) upscayl.RunResult {
	f.calls++
	if f.beforeDir != nil {
		f.beforeDir(inputDir)
	}
	for _, l := range f.lines {
		if stopped != nil && stopped() {
			return upscayl.RunResult{Status: upscayl.StatusCancelled}
		}
		if onLine != nil {
			onLine(l)
		}
	}
	if code, ok := f.fail[filepath.Base(inputDir)]; ok {
		return upscayl.RunResult{Status: upscayl.StatusFailure, Code: code}
	}
	return upscayl.RunResult{Status: upscayl.StatusSuccess}
}

// makeJob creates n real input directories ch01..chNN plus an output base
// under a temp root, and returns the ready job.
func makeJob(t *testing.T, n int) Job {
	t.Helper()
	root := t.TempDir()
	dirs := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		dir := filepath.Join(root, fmt.Sprintf("ch%02d", i))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
		dirs = append(dirs, dir)
	}
	tpl := upscayl.Template{upscayl.Literal("-i"), upscayl.InputSlot(), upscayl.Literal("-o"), upscayl.OutputSlot()}
	return NewJob(dirs, filepath.Join(root, "out"), tpl)
}

// --- Run tests ---

func TestRun_AllSucceed(t *testing.T) {
	job := makeJob(t, 3)
	rec := &recorder{}
	o := New(&fakeRunner{lines: []string{"100.00%"}}, rec)

	result, err := o.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Cancelled {
		t.Error("result should not be cancelled")
	}
	if len(result.Outcomes) != 3 || result.Succeeded() != 3 {
		t.Errorf("outcomes = %+v, want 3 successes", result.Outcomes)
	}
	if o.State() != StateCompleted {
		t.Errorf("state = %v, want completed", o.State())
	}
	for i := 1; i <= 3; i++ {
		if !rec.has(fmt.Sprintf("progress %d/3", i)) {
			t.Errorf("missing progress %d/3 event", i)
		}
		if _, err := os.Stat(filepath.Join(job.OutputBase, fmt.Sprintf("ch%02d", i))); err != nil {
			t.Errorf("output dir ch%02d not created: %v", i, err)
		}
	}
}

func TestRun_MiddleFailureDoesNotStopBatch(t *testing.T) {
	job := makeJob(t, 3)
	rec := &recorder{}
	o := New(&fakeRunner{fail: map[string]int{"ch02": 9}}, rec)

	result, err := o.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Outcomes) != 3 {
		t.Fatalf("got %d outcomes, want 3 (failure must not stop the batch)", len(result.Outcomes))
	}
	if result.Outcomes[1].Success || result.Outcomes[1].Code != 9 {
		t.Errorf("outcome[1] = %+v, want failure code 9", result.Outcomes[1])
	}
	if !result.Outcomes[0].Success || !result.Outcomes[2].Success {
		t.Errorf("outcomes 0 and 2 should succeed: %+v", result.Outcomes)
	}
	if !rec.has("failed ch02 9") || !rec.has("done ch01") || !rec.has("done ch03") {
		t.Errorf("events = %v", rec.events)
	}
	if result.Failed() != 1 || result.Succeeded() != 2 {
		t.Errorf("counts: %d ok %d failed, want 2/1", result.Succeeded(), result.Failed())
	}
}

func TestRun_CancelDuringSecondDirectory(t *testing.T) {
	job := makeJob(t, 3)
	rec := &recorder{}
	fr := &fakeRunner{lines: []string{"10%", "20%"}}
	o := New(fr, rec)
	fr.beforeDir = func(inputDir string) {
		if filepath.Base(inputDir) == "ch02" {
			o.RequestStop()
		}
	}

	result, err := o.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.Cancelled {
		t.Fatal("result should be cancelled")
	}
	if len(result.Outcomes) != 1 || !result.Outcomes[0].Success {
		t.Errorf("outcomes = %+v, want exactly the ch01 success", result.Outcomes)
	}
	if o.State() != StateCancelled {
		t.Errorf("state = %v, want cancelled", o.State())
	}
	if rec.has("progress 3/3") {
		t.Error("ch03 must never be started after cancellation")
	}
	if !rec.fired {
		t.Error("BatchDone must still fire on cancellation")
	}
}

func TestRun_StopBeforeRun(t *testing.T) {
	job := makeJob(t, 2)
	rec := &recorder{}
	o := New(&fakeRunner{}, rec)

	o.RequestStop()
	result, err := o.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !result.Cancelled || len(result.Outcomes) != 0 {
		t.Errorf("result = %+v, want cancelled with no outcomes", result)
	}
	if rec.has("progress 1/2") {
		t.Error("no directory should start after a pre-run stop")
	}
}

func TestRun_SecondRunRejected(t *testing.T) {
	job := makeJob(t, 1)
	o := New(&fakeRunner{}, &recorder{})

	if _, err := o.Run(context.Background(), job); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if _, err := o.Run(context.Background(), job); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("second Run error = %v, want ErrAlreadyStarted", err)
	}
}

func TestRun_ValidationErrors(t *testing.T) {
	tpl := upscayl.Template{upscayl.Literal("-i"), upscayl.InputSlot(), upscayl.Literal("-o"), upscayl.OutputSlot()}
	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	os.MkdirAll(realDir, 0o755)
	filePath := filepath.Join(root, "file.txt")
	os.WriteFile(filePath, []byte("x"), 0o644)

	tests := []struct {
		name    string
		job     Job
		wantErr error
	}{
		{
			"no directories",
			Job{OutputBase: root, Template: tpl},
			ErrNoDirectories,
		},
		{
			"no output base",
			Job{Directories: []string{realDir}, Template: tpl},
			ErrNoOutputBase,
		},
		{
			"missing directory",
			Job{Directories: []string{filepath.Join(root, "nope")}, OutputBase: root, Template: tpl},
			ErrDirNotFound,
		},
		{
			"file instead of directory",
			Job{Directories: []string{filePath}, OutputBase: root, Template: tpl},
			ErrNotADirectory,
		},
		{
			"template without slots",
			Job{Directories: []string{realDir}, OutputBase: root, Template: upscayl.Template{upscayl.Literal("-v")}},
			upscayl.ErrInputSlot,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := New(&fakeRunner{}, &recorder{})
			_, err := o.Run(context.Background(), tt.job)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Run error = %v, want %v", err, tt.wantErr)
			}
			if o.State() != StateFailed {
				t.Errorf("state = %v, want failed", o.State())
			}
		})
	}
}

func TestRun_EventOrder(t *testing.T) {
	job := makeJob(t, 2)
	rec := &recorder{}
	o := New(&fakeRunner{lines: []string{"ok"}}, rec)

	if _, err := o.Run(context.Background(), job); err != nil {
		t.Fatalf("Run: %v", err)
	}

	cmd := func(i int) string {
		name := fmt.Sprintf("ch%02d", i)
		return "line upscayl-bin -i " + job.Directories[i-1] + " -o " + filepath.Join(job.OutputBase, name)
	}
	want := []string{
		"progress 1/2",
		cmd(1),
		"line ok",
		"done ch01",
		"progress 2/2",
		cmd(2),
		"line ok",
		"done ch02",
		"batch done",
	}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("event[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}
}

func TestRun_DryRun(t *testing.T) {
	job := makeJob(t, 2)
	rec := &recorder{}
	fr := &fakeRunner{}
	o := New(fr, rec)
	o.DryRun = true

	result, err := o.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if fr.calls != 0 {
		t.Errorf("tool invoked %d times in dry-run, want 0", fr.calls)
	}
	if result.Succeeded() != 2 {
		t.Errorf("dry-run outcomes = %+v, want 2 successes", result.Outcomes)
	}
	sawDry := false
	for _, e := range rec.events {
		if strings.HasPrefix(e, "line [DRY] upscayl-bin -i ") {
			sawDry = true
		}
	}
	if !sawDry {
		t.Errorf("no [DRY] command line emitted: %v", rec.events)
	}
}

func TestRun_OutputDirCreationFailure(t *testing.T) {
	job := makeJob(t, 2)
	// Occupy the ch01 output path with a file so MkdirAll fails.
	os.MkdirAll(job.OutputBase, 0o755)
	if err := os.WriteFile(filepath.Join(job.OutputBase, "ch01"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := &recorder{}
	o := New(&fakeRunner{}, rec)

	result, err := o.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Outcomes) != 2 {
		t.Fatalf("outcomes = %+v, want 2", result.Outcomes)
	}
	if result.Outcomes[0].Success || result.Outcomes[0].Code != upscayl.CodeLaunchFailed {
		t.Errorf("outcome[0] = %+v, want launch-failed sentinel", result.Outcomes[0])
	}
	if !result.Outcomes[1].Success {
		t.Errorf("outcome[1] = %+v, batch should continue past the bad directory", result.Outcomes[1])
	}
	if !rec.has(fmt.Sprintf("failed ch01 %d", upscayl.CodeLaunchFailed)) {
		t.Errorf("events = %v", rec.events)
	}
}

func TestRun_DuplicateBasenames(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a", "ch01")
	b := filepath.Join(root, "b", "ch01")
	os.MkdirAll(a, 0o755)
	os.MkdirAll(b, 0o755)
	tpl := upscayl.Template{upscayl.Literal("-i"), upscayl.InputSlot(), upscayl.Literal("-o"), upscayl.OutputSlot()}
	job := NewJob([]string{a, b}, filepath.Join(root, "out"), tpl)

	o := New(&fakeRunner{}, &recorder{})
	result, err := o.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Outcomes[0].OutputDir == result.Outcomes[1].OutputDir {
		t.Fatalf("both inputs mapped to %s", result.Outcomes[0].OutputDir)
	}
	if !strings.HasSuffix(result.Outcomes[1].OutputDir, "ch01 - dup1") {
		t.Errorf("second output dir = %s, want dup suffix", result.Outcomes[1].OutputDir)
	}
}

// --- Job tests ---

func TestNewJob_AssignsIDs(t *testing.T) {
	tpl := upscayl.Template{upscayl.InputSlot(), upscayl.OutputSlot()}
	j1 := NewJob(nil, "", tpl)
	j2 := NewJob(nil, "", tpl)
	if j1.ID == "" || j2.ID == "" {
		t.Fatal("job IDs should be assigned")
	}
	if j1.ID == j2.ID {
		t.Errorf("job IDs should be unique, both %s", j1.ID)
	}
}

func TestBatchResult_Summary(t *testing.T) {
	r := BatchResult{Outcomes: []DirectoryOutcome{
		{Success: true}, {Success: true}, {Code: 1},
	}}
	if got := r.Summary(); got != "Completed: 2 upscaled, 1 failed" {
		t.Errorf("Summary() = %q", got)
	}

	r.Cancelled = true
	if got := r.Summary(); got != "Cancelled: 2 upscaled, 1 failed" {
		t.Errorf("Summary() = %q", got)
	}
}
