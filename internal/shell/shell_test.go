package shell

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcelocantos/rush/internal/audit"
	"github.com/marcelocantos/rush/internal/input"
	"github.com/marcelocantos/rush/internal/jobs"
	"github.com/marcelocantos/rush/internal/runner"
)

const interactiveEnv = "RUSH_TEST_INTERACTIVE"

func TestMain(m *testing.M) {
	if runner.IsSubshell() {
		os.Exit(runner.SubshellMain(os.Args[1:]))
	}
	if os.Getenv(interactiveEnv) != "" {
		os.Unsetenv(interactiveEnv)
		code, err := Main(context.Background(), os.Stdin, os.Stdout, os.Stderr, Options{Prompt: "$ "})
		if err != nil {
			os.Stderr.WriteString("rush: " + err.Error() + "\n")
		}
		os.Exit(code)
	}
	os.Exit(m.Run())
}

type fixture struct {
	shell   *Shell
	out     *os.File
	outR    *os.File
	errs    *bytes.Buffer
	notices *bytes.Buffer
	fs      afero.Fs
}

func newFixture(t *testing.T, script string) *fixture {
	t.Helper()
	outR, out, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		outR.Close()
		out.Close()
	})
	null, err := os.Open(os.DevNull)
	require.NoError(t, err)
	t.Cleanup(func() { null.Close() })

	r := runner.New(jobs.NewTable())
	r.Stdin, r.Stdout = null, out
	errFile, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	t.Cleanup(func() { errFile.Close() })
	r.Stderr = errFile

	fs := afero.NewMemMapFs()
	logger, err := audit.NewLoggerFS(fs, "/audit.jsonl")
	require.NoError(t, err)

	f := &fixture{
		out:     out,
		outR:    outR,
		errs:    &bytes.Buffer{},
		notices: &bytes.Buffer{},
		fs:      fs,
	}
	r.Notices = f.notices
	f.shell = New(r, input.NewPlain(strings.NewReader(script), nil), Options{Prompt: "$ ", Audit: logger})
	f.shell.Stderr = f.errs
	return f
}

func (f *fixture) output(t *testing.T) string {
	t.Helper()
	f.out.Close()
	b, err := io.ReadAll(f.outR)
	require.NoError(t, err)
	return string(b)
}

func (f *fixture) entries(t *testing.T) []audit.Entry {
	t.Helper()
	require.NoError(t, audit.VerifyFS(f.fs, "/audit.jsonl"))
	entries, err := audit.TailFS(f.fs, "/audit.jsonl", 100)
	require.NoError(t, err)
	return entries
}

func TestRunLines(t *testing.T) {
	f := newFixture(t, "echo one\n\necho two; echo three\necho 'multi\nline'\n")
	status := f.shell.Run(context.Background())

	assert.Equal(t, 0, status)
	assert.Equal(t, "one\ntwo\nthree\nmulti\nline\n", f.output(t))
	assert.Empty(t, f.errs.String())

	entries := f.entries(t)
	require.Len(t, entries, 3, "blank lines are not audited")
	assert.Equal(t, "echo one", entries[0].Line)
	assert.Equal(t, "echo two; echo three", entries[1].Line)
	assert.Equal(t, "echo 'multi\nline'", entries[2].Line)
}

func TestParseErrorReprompts(t *testing.T) {
	f := newFixture(t, "echo a |\n| wc\necho after\n")
	status := f.shell.Run(context.Background())

	assert.Equal(t, 0, status)
	assert.Equal(t, "after\n", f.output(t))
	assert.Equal(t,
		"rush: parse error: unexpected end of input\n"+
			"rush: parse error: expected command, found '|' at 0\n",
		f.errs.String())

	entries := f.entries(t)
	require.Len(t, entries, 3)
	assert.Equal(t, 2, entries[0].ExitCode)
	assert.Equal(t, "unexpected end of input", entries[0].Error)
	assert.Equal(t, 0, entries[2].ExitCode)
}

func TestExitStatusOfLastLine(t *testing.T) {
	f := newFixture(t, "true\nfalse\n")
	assert.Equal(t, 1, f.shell.Run(context.Background()))

	f = newFixture(t, "rush-no-such-command-xyz\n")
	assert.Equal(t, 127, f.shell.Run(context.Background()))
	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, []int{127}, entries[0].PipeStatus)
}

func TestUnterminatedInput(t *testing.T) {
	f := newFixture(t, "echo 'never closed\n")
	assert.Equal(t, 2, f.shell.Run(context.Background()))
	assert.Equal(t, "rush: unexpected end of input\n", f.errs.String())
}

func TestBackgroundJobsAudited(t *testing.T) {
	f := newFixture(t, "")
	ctx := context.Background()

	require.NoError(t, f.shell.Execute(ctx, "true & true &\n"))
	assert.Regexp(t, regexp.MustCompile(`^\[1\] \d+\n\[2\] \d+\n$`), f.notices.String())

	entries := f.entries(t)
	require.Len(t, entries, 1)
	assert.Equal(t, []uint32{1, 2}, entries[0].BackgroundJobs)

	// Completion notices appear when the next line is executed.
	f.notices.Reset()
	require.Eventually(t, func() bool {
		f.shell.Runner.Changed().Set()
		_ = f.shell.Execute(ctx, "\n")
		return strings.Count(f.notices.String(), "Done") == 2
	}, 10*time.Second, 20*time.Millisecond)
	assert.Equal(t,
		"[1] Done                    true\n[2] Done                    true\n",
		f.notices.String())
}

// terminal collects everything the shell writes to the pty.
type terminal struct {
	mu   sync.Mutex
	buf  bytes.Buffer
	seen int
}

func (tm *terminal) Write(p []byte) (int, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.buf.Write(p)
}

// expect waits for re to match output not yet consumed and consumes up to
// the end of the match.
func (tm *terminal) expect(t *testing.T, re *regexp.Regexp) string {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		tm.mu.Lock()
		rest := tm.buf.String()[tm.seen:]
		loc := re.FindStringIndex(rest)
		if loc != nil {
			tm.seen += loc[1]
			tm.mu.Unlock()
			return rest[loc[0]:loc[1]]
		}
		tm.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	tm.mu.Lock()
	defer tm.mu.Unlock()
	t.Fatalf("timed out waiting for %q in %q", re, tm.buf.String()[tm.seen:])
	return ""
}

func TestInteractiveSession(t *testing.T) {
	cmd := exec.Command(os.Args[0])
	cmd.Env = append(os.Environ(), interactiveEnv+"=1")
	ptmx, err := pty.Start(cmd)
	require.NoError(t, err)
	defer ptmx.Close()

	var tm terminal
	go io.Copy(&tm, ptmx)

	prompt := regexp.MustCompile(`\$ `)
	send := func(s string) {
		_, err := ptmx.Write([]byte(s))
		require.NoError(t, err)
	}

	tm.expect(t, prompt)
	send("printf '%s-%s\\n' left right\r")
	tm.expect(t, regexp.MustCompile(`left-right\r\n`))

	tm.expect(t, prompt)
	send("printf 'a\\nb\\n' | wc -l\r")
	tm.expect(t, regexp.MustCompile(`\n\s*2\r\n`))

	tm.expect(t, prompt)
	send("sleep 0.2 &\r")
	tm.expect(t, regexp.MustCompile(`\[1\] \d+\r\n`))

	tm.expect(t, prompt)
	time.Sleep(time.Second)
	send("\r")
	tm.expect(t, regexp.MustCompile(`\[1\] Done {20}sleep 0\.2\r\n`))

	tm.expect(t, prompt)
	send("\x04")

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		cmd.Process.Kill()
		t.Fatal("shell did not exit on end of input")
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()
	assert.NotContains(t, tm.buf.String(), "rush:", "no diagnostics expected")
}
