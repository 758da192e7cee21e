package engine

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-verisure/pkg/api"
	"github.com/goliatone/go-verisure/pkg/banner"
	"github.com/goliatone/go-verisure/pkg/dom"
)

type postCall struct {
	endpoint string
	payload  any
	field    string
	filename string
	content  string
}

type stubPoster struct {
	mu    sync.Mutex
	resp  api.Response
	err   error
	calls []postCall
}

func (s *stubPoster) PostJSON(_ context.Context, endpoint string, payload any) (api.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, postCall{endpoint: endpoint, payload: payload})
	return s.resp, s.err
}

func (s *stubPoster) PostFile(_ context.Context, endpoint, field, filename string, content io.Reader) (api.Response, error) {
	data, _ := io.ReadAll(content)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, postCall{endpoint: endpoint, field: field, filename: filename, content: string(data)})
	return s.resp, s.err
}

func pageDoc(extra ...dom.Landmark) *dom.Memory {
	landmarks := append([]dom.Landmark{
		dom.SuccessMessage, dom.ErrorMessage, dom.WarningMessage, dom.InfoMessage, dom.PDFViewer,
	}, extra...)
	return dom.NewMemory(landmarks...)
}

func newEngine(t *testing.T, poster Poster, doc *dom.Memory) (*Engine, *banner.Board) {
	t.Helper()
	board := banner.New(banner.WithSurface(doc))
	e, err := New(poster, board)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, board
}

func TestNew_RequiresCollaborators(t *testing.T) {
	if _, err := New(nil, banner.New()); err == nil {
		t.Fatalf("expected error for nil poster")
	}
	if _, err := New(&stubPoster{}, nil); err == nil {
		t.Fatalf("expected error for nil board")
	}
}

func TestBindForm_AbsentLandmarkIsNoop(t *testing.T) {
	doc := pageDoc()
	e, _ := newEngine(t, &stubPoster{}, doc)

	bound, err := e.BindForm(doc, FormDescriptor{Landmark: dom.LoginForm, Endpoint: api.EndpointLogin})
	if err != nil || bound {
		t.Fatalf("expected silent no-op, got bound=%v err=%v", bound, err)
	}
}

func TestBindForm_AttachesExactlyOneListener(t *testing.T) {
	doc := pageDoc(dom.LoginForm)
	e, _ := newEngine(t, &stubPoster{}, doc)

	bound, err := e.BindForm(doc, FormDescriptor{Landmark: dom.LoginForm, Endpoint: api.EndpointLogin})
	if err != nil || !bound {
		t.Fatalf("expected bind, got bound=%v err=%v", bound, err)
	}
	if got := doc.HandlerCount(dom.LoginForm); got != 1 {
		t.Fatalf("expected one listener, got %d", got)
	}
}

func TestSubmit_BannerOutcomes(t *testing.T) {
	cases := []struct {
		name     string
		resp     api.Response
		err      error
		wantKind banner.Kind
		wantText string
		wantOut  OutcomeKind
	}{
		{name: "success with message", resp: api.Response{Success: true, Message: "M"}, wantKind: banner.Success, wantText: "M", wantOut: OutcomeSuccess},
		{name: "success default", resp: api.Response{Success: true}, wantKind: banner.Success, wantText: "Operation successful!", wantOut: OutcomeSuccess},
		{name: "failure with error", resp: api.Response{Error: "E"}, wantKind: banner.Error, wantText: "E", wantOut: OutcomeValidationFailure},
		{name: "failure default", resp: api.Response{}, wantKind: banner.Error, wantText: "Operation failed!", wantOut: OutcomeValidationFailure},
		{name: "transport", err: &api.TransportError{Op: "post", Endpoint: api.EndpointLogin, Err: errors.New("timeout")}, wantKind: banner.Error, wantText: "Error: timeout", wantOut: OutcomeTransportFailure},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := pageDoc(dom.LoginForm)
			poster := &stubPoster{resp: tc.resp, err: tc.err}
			e, board := newEngine(t, poster, doc)

			out := e.Submit(context.Background(), FormDescriptor{Landmark: dom.LoginForm, Endpoint: api.EndpointLogin}, nil)

			if out.Kind != tc.wantOut {
				t.Fatalf("outcome: want %s, got %s", tc.wantOut, out.Kind)
			}
			want := banner.Snapshot{Visible: tc.wantKind, Text: tc.wantText}
			if diff := cmp.Diff(want, board.Snapshot()); diff != "" {
				t.Fatalf("board mismatch (-want +got):\n%s", diff)
			}
			if got := doc.Text(tc.wantKind.Landmark()); got != tc.wantText {
				t.Fatalf("document text: want %q, got %q", tc.wantText, got)
			}
		})
	}
}

func TestBindForm_PostsPayloadAndRunsContinuationOnSuccess(t *testing.T) {
	doc := pageDoc(dom.CertForm)
	poster := &stubPoster{resp: api.Response{Success: true, CertificateID: "abc"}}
	e, _ := newEngine(t, poster, doc)

	var continued []string
	_, err := e.BindForm(doc, FormDescriptor{
		Landmark: dom.CertForm,
		Endpoint: api.EndpointGenerateCertificate,
		OnSuccess: func(_ context.Context, resp api.Response) {
			continued = append(continued, resp.CertificateID)
		},
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	err = doc.Submit(context.Background(), dom.CertForm,
		dom.Field{Name: "uid", Value: "1"},
		dom.Field{Name: "candidateName", Value: "Ada"},
		dom.Field{Name: "uid", Value: "2"},
	)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if len(poster.calls) != 1 || poster.calls[0].endpoint != api.EndpointGenerateCertificate {
		t.Fatalf("unexpected calls %+v", poster.calls)
	}
	payload, ok := poster.calls[0].payload.(api.Fields)
	if !ok {
		t.Fatalf("expected api.Fields payload, got %T", poster.calls[0].payload)
	}
	if diff := cmp.Diff(map[string]string{"uid": "2", "candidateName": "Ada"}, payload.Map()); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"abc"}, continued); diff != "" {
		t.Fatalf("continuation mismatch (-want +got):\n%s", diff)
	}
}

func TestBindForm_ContinuationSkippedOnFailure(t *testing.T) {
	doc := pageDoc(dom.LoginForm)
	poster := &stubPoster{err: errors.New("timeout")}
	e, board := newEngine(t, poster, doc)

	called := false
	_, _ = e.BindForm(doc, FormDescriptor{
		Landmark:  dom.LoginForm,
		Endpoint:  api.EndpointLogin,
		OnSuccess: func(context.Context, api.Response) { called = true },
	})
	_ = doc.Submit(context.Background(), dom.LoginForm)

	if called {
		t.Fatalf("continuation must not run after a transport failure")
	}
	if got := board.Snapshot(); got.Visible != banner.Error || got.Text != "Error: timeout" {
		t.Fatalf("unexpected board %+v", got)
	}
}

func TestUpload_FirstFileOnly(t *testing.T) {
	doc := pageDoc(dom.PDFFile)
	poster := &stubPoster{resp: api.Response{Success: true}}
	e, board := newEngine(t, poster, doc)

	out := e.Upload(context.Background(), FileDescriptor{Landmark: dom.PDFFile, Endpoint: api.EndpointVerifyPDF}, []dom.File{
		{Name: "first.pdf", Body: strings.NewReader("one")},
		{Name: "second.pdf", Body: strings.NewReader("two")},
	})

	if !out.Succeeded() {
		t.Fatalf("expected success, got %s", out.Kind)
	}
	want := []postCall{{endpoint: api.EndpointVerifyPDF, field: api.UploadField, filename: "first.pdf", content: "one"}}
	if diff := cmp.Diff(want, poster.calls, cmp.AllowUnexported(postCall{})); diff != "" {
		t.Fatalf("calls mismatch (-want +got):\n%s", diff)
	}
	if got := board.Snapshot(); got.Visible != banner.Success || got.Text != DefaultSuccessMessage {
		t.Fatalf("unexpected board %+v", got)
	}
}

func TestUpload_EmptySelectionIsSilent(t *testing.T) {
	doc := pageDoc(dom.PDFFile)
	poster := &stubPoster{}
	e, board := newEngine(t, poster, doc)
	board.Show(banner.Info, "before")

	out := e.Upload(context.Background(), FileDescriptor{Landmark: dom.PDFFile, Endpoint: api.EndpointVerifyPDF}, nil)

	if out.Kind != OutcomeSilent {
		t.Fatalf("expected silent outcome, got %s", out.Kind)
	}
	if len(poster.calls) != 0 {
		t.Fatalf("expected no request, got %d", len(poster.calls))
	}
	if got := board.Snapshot(); got.Visible != banner.Info || got.Text != "before" {
		t.Fatalf("expected board untouched, got %+v", got)
	}
}

func TestUpload_FailureTexts(t *testing.T) {
	cases := []struct {
		name string
		resp api.Response
		err  error
		want string
	}{
		{name: "default", resp: api.Response{}, want: "File processing failed!"},
		{name: "server error", resp: api.Response{Error: "No file selected"}, want: "No file selected"},
		{name: "transport", err: errors.New("network down"), want: "Error processing file: network down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := pageDoc(dom.PDFFile)
			e, board := newEngine(t, &stubPoster{resp: tc.resp, err: tc.err}, doc)
			_, _ = e.BindFile(doc, FileDescriptor{Landmark: dom.PDFFile, Endpoint: api.EndpointVerifyPDF})

			_ = doc.Choose(context.Background(), dom.PDFFile, dom.File{Name: "x.pdf", Body: strings.NewReader("x")})

			if got := board.Snapshot(); got.Visible != banner.Error || got.Text != tc.want {
				t.Fatalf("want error %q, got %+v", tc.want, got)
			}
		})
	}
}

// gatedPoster holds each request until its gate is released, so tests can
// choose the order in which responses settle.
type gatedPoster struct {
	sent  chan string
	gates map[string]chan struct{}
}

func (g *gatedPoster) PostJSON(_ context.Context, _ string, payload any) (api.Response, error) {
	seq, _ := payload.(api.Fields).Get("seq")
	g.sent <- seq
	<-g.gates[seq]
	return api.Response{Success: true, Message: "response " + seq}, nil
}

func (g *gatedPoster) PostFile(context.Context, string, string, string, io.Reader) (api.Response, error) {
	return api.Response{}, errors.New("not used")
}

func TestSubmit_LastSettledResponseWins(t *testing.T) {
	cases := []struct {
		name        string
		settleOrder []string
		want        string
	}{
		{name: "first sent settles last", settleOrder: []string{"2", "1"}, want: "response 1"},
		{name: "second sent settles last", settleOrder: []string{"1", "2"}, want: "response 2"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			defer goleak.VerifyNone(t)

			poster := &gatedPoster{
				sent:  make(chan string, 2),
				gates: map[string]chan struct{}{"1": make(chan struct{}), "2": make(chan struct{})},
			}
			doc := pageDoc(dom.ViewCertForm)
			e, board := newEngine(t, poster, doc)
			_, _ = e.BindForm(doc, FormDescriptor{Landmark: dom.ViewCertForm, Endpoint: api.EndpointViewCertificate})

			var g errgroup.Group
			settled := make(map[string]chan struct{}, 2)
			for _, seq := range []string{"1", "2"} {
				seq := seq
				done := make(chan struct{})
				settled[seq] = done
				g.Go(func() error {
					defer close(done)
					return doc.Submit(context.Background(), dom.ViewCertForm, dom.Field{Name: "seq", Value: seq})
				})
				if got := <-poster.sent; got != seq {
					t.Fatalf("expected request %s in flight, got %s", seq, got)
				}
			}

			for _, seq := range tc.settleOrder {
				close(poster.gates[seq])
				<-settled[seq]
			}
			if err := g.Wait(); err != nil {
				t.Fatalf("submit: %v", err)
			}

			if got := board.Snapshot(); got.Visible != banner.Success || got.Text != tc.want {
				t.Fatalf("want %q, got %+v", tc.want, got)
			}
		})
	}
}

func TestEngine_WithRealClientTransportFailure(t *testing.T) {
	client, err := api.NewClient("http://api.invalid", api.WithHTTPClient(&http.Client{
		Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("timeout")
		}),
	}))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	doc := pageDoc(dom.LoginForm)
	e, board := newEngine(t, client, doc)

	out := e.Submit(context.Background(), FormDescriptor{Landmark: dom.LoginForm, Endpoint: api.EndpointLogin}, []dom.Field{{Name: "email", Value: "a"}})

	if out.Kind != OutcomeTransportFailure {
		t.Fatalf("expected transport failure, got %s", out.Kind)
	}
	if got := board.Text(banner.Error); got != "Error: timeout" {
		t.Fatalf("want Error: timeout, got %q", got)
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
