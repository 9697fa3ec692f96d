package core_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"iter"
	"sync"

	"github.com/Lin-Jiong-HDU/ag/internal/ai"
	"github.com/Lin-Jiong-HDU/ag/internal/core"
	"github.com/Lin-Jiong-HDU/ag/internal/core/security"
)

// fakeRunner records every command that reached the shell.
type fakeRunner struct {
	mu     sync.Mutex
	calls  []string
	result func(command string) *core.Result
}

func (r *fakeRunner) Run(_ context.Context, command string) *core.Result {
	r.mu.Lock()
	r.calls = append(r.calls, command)
	r.mu.Unlock()

	if r.result != nil {
		return r.result(command)
	}
	return &core.Result{Command: command, Succeeded: true, Stdout: "ok\n"}
}

func (r *fakeRunner) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

type fakeConfirmer struct {
	answer bool
	err    error
	asked  []string
}

func (c *fakeConfirmer) Confirm(command string) (bool, error) {
	c.asked = append(c.asked, command)
	return c.answer, c.err
}

type recordingReporter struct {
	blocked   []string
	keywords  []string
	cancelled []string
	succeeded []*core.Result
	failed    []*core.Result
}

func (r *recordingReporter) Blocked(command string, verdict security.Verdict) {
	r.blocked = append(r.blocked, command)
	r.keywords = append(r.keywords, verdict.Keyword)
}

func (r *recordingReporter) Cancelled(command string) {
	r.cancelled = append(r.cancelled, command)
}

func (r *recordingReporter) Succeeded(result *core.Result) {
	r.succeeded = append(r.succeeded, result)
}

func (r *recordingReporter) Failed(result *core.Result) {
	r.failed = append(r.failed, result)
}

type fakePresenter struct {
	recordingReporter
	streamed    bytes.Buffer
	began       int
	ended       int
	shown       []string
	detected    []string
	noCommands  int
	requestErrs []error
}

func (p *fakePresenter) BeginResponse() io.Writer {
	p.began++
	return &p.streamed
}

func (p *fakePresenter) EndResponse() { p.ended++ }

func (p *fakePresenter) ShowResponse(text string) { p.shown = append(p.shown, text) }

func (p *fakePresenter) CommandsDetected(commands []string) {
	p.detected = append(p.detected, commands...)
}

func (p *fakePresenter) NoCommands() { p.noCommands++ }

func (p *fakePresenter) RequestFailed(err error) { p.requestErrs = append(p.requestErrs, err) }

type fakeProvider struct {
	chunks   []string
	mid      error
	startErr error
	messages []ai.Message
	opts     ai.StreamOptions
}

func (p *fakeProvider) ChatStream(_ context.Context, messages []ai.Message, opts ai.StreamOptions) (iter.Seq2[string, error], error) {
	p.messages = messages
	p.opts = opts
	if p.startErr != nil {
		return nil, p.startErr
	}
	return ai.FromChunks(p.chunks, p.mid), nil
}

type failingRenderer struct{}

func (failingRenderer) Render(string) (string, error) {
	return "", errors.New("bad style")
}

type prefixRenderer struct{}

func (prefixRenderer) Render(markdown string) (string, error) {
	return "rendered:" + markdown, nil
}
