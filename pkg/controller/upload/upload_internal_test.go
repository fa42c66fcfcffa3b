package upload

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"

	"github.com/scanhub/repconv/pkg/github"
)

func newLogE() *logrus.Entry {
	logger, _ := logrustest.NewNullLogger()
	return logrus.NewEntry(logger)
}

type fakeUploader struct {
	calls     int
	responses []fakeResponse
	analysis  *github.SarifAnalysis
}

type fakeResponse struct {
	id     *github.SarifID
	status int
	err    error
}

func (f *fakeUploader) UploadSarif(_ context.Context, _, _ string, analysis *github.SarifAnalysis) (*github.SarifID, *github.Response, error) {
	f.analysis = analysis
	r := f.responses[f.calls]
	f.calls++
	var resp *github.Response
	if r.status != 0 {
		resp = &github.Response{
			Response: &http.Response{StatusCode: r.status},
		}
	}
	return r.id, resp, r.err
}

const sarifDoc = `{"version": "2.1.0", "runs": []}`

func newFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/out/result.sarif", []byte(sarifDoc), 0o644); err != nil {
		t.Fatal(err)
	}
	return fs
}

func TestController_Run(t *testing.T) {
	t.Parallel()
	uploader := &fakeUploader{
		responses: []fakeResponse{
			{id: &github.SarifID{ID: github.Ptr("47177e22-5596-11eb-80a1-c1e54ef945c6")}, status: http.StatusAccepted},
		},
	}
	stdout := &bytes.Buffer{}
	ctrl := New(newFs(t), uploader, nil, &ParamUpload{
		RepoOwner: "scanhub",
		RepoName:  "demo",
		Ref:       "refs/heads/main",
		SHA:       "4b6472266afd7b471e86085a6659e8c7f2b119da",
		SarifFile: "/out/result.sarif",
		Stdout:    stdout,
	})
	if err := ctrl.Run(context.Background(), newLogE()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if uploader.calls != 1 {
		t.Errorf("calls = %d, want 1", uploader.calls)
	}
	if got := strings.TrimSpace(stdout.String()); got != "47177e22-5596-11eb-80a1-c1e54ef945c6" {
		t.Errorf("stdout = %q", got)
	}

	if got := *uploader.analysis.Ref; got != "refs/heads/main" {
		t.Errorf("ref = %q", got)
	}
	zr, err := gzip.NewReader(base64.NewDecoder(base64.StdEncoding, strings.NewReader(*uploader.analysis.Sarif)))
	if err != nil {
		t.Fatalf("the payload must be base64-encoded gzip: %v", err)
	}
	decoded, err := io.ReadAll(zr)
	if err != nil {
		t.Fatal(err)
	}
	if string(decoded) != sarifDoc {
		t.Errorf("payload = %q, want the SARIF document", decoded)
	}
}

func TestController_Run_retriesOnceAfterRefresh(t *testing.T) {
	t.Parallel()
	expired := &fakeUploader{
		responses: []fakeResponse{
			{status: http.StatusUnauthorized, err: errors.New("Bad credentials")},
		},
	}
	refreshed := &fakeUploader{
		responses: []fakeResponse{
			{id: &github.SarifID{ID: github.Ptr("new-id")}, status: http.StatusAccepted},
		},
	}
	refreshCalls := 0
	refresher := RefresherFunc(func(_ context.Context, _ *logrus.Entry) (SarifUploader, error) {
		refreshCalls++
		return refreshed, nil
	})
	ctrl := New(newFs(t), expired, refresher, &ParamUpload{
		RepoOwner: "scanhub",
		RepoName:  "demo",
		SarifFile: "/out/result.sarif",
		Stdout:    &bytes.Buffer{},
	})
	if err := ctrl.Run(context.Background(), newLogE()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if refreshCalls != 1 {
		t.Errorf("refreshCalls = %d, want 1", refreshCalls)
	}
	if expired.calls != 1 || refreshed.calls != 1 {
		t.Errorf("calls = %d/%d, want 1/1", expired.calls, refreshed.calls)
	}
}

func TestController_Run_secondExpiryIsFinal(t *testing.T) {
	t.Parallel()
	expired := &fakeUploader{
		responses: []fakeResponse{
			{status: http.StatusUnauthorized, err: errors.New("Bad credentials")},
			{status: http.StatusUnauthorized, err: errors.New("Bad credentials")},
		},
	}
	refresher := RefresherFunc(func(_ context.Context, _ *logrus.Entry) (SarifUploader, error) {
		return expired, nil
	})
	ctrl := New(newFs(t), expired, refresher, &ParamUpload{
		SarifFile: "/out/result.sarif",
		Stdout:    &bytes.Buffer{},
	})
	err := ctrl.Run(context.Background(), newLogE())
	if !errors.Is(err, ErrAuthDenied) {
		t.Fatalf("Run() error = %v, want ErrAuthDenied", err)
	}
	if expired.calls != 2 {
		t.Errorf("calls = %d, want exactly one retry", expired.calls)
	}
}

func TestController_Run_noRetryOnOtherFailures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "repository not found", status: http.StatusNotFound, want: ErrStoreNotFound},
		{name: "access forbidden", status: http.StatusForbidden, want: ErrAuthDenied},
		{name: "store down", status: http.StatusBadGateway, want: ErrStoreUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uploader := &fakeUploader{
				responses: []fakeResponse{
					{status: tt.status, err: errors.New("upload rejected")},
				},
			}
			refresher := RefresherFunc(func(_ context.Context, _ *logrus.Entry) (SarifUploader, error) {
				t.Error("Refresh must not be called")
				return nil, nil
			})
			ctrl := New(newFs(t), uploader, refresher, &ParamUpload{
				SarifFile: "/out/result.sarif",
				Stdout:    &bytes.Buffer{},
			})
			err := ctrl.Run(context.Background(), newLogE())
			if !errors.Is(err, tt.want) {
				t.Fatalf("Run() error = %v, want %v", err, tt.want)
			}
			if uploader.calls != 1 {
				t.Errorf("calls = %d, want 1", uploader.calls)
			}
		})
	}
}

func TestController_Run_missingSarifFile(t *testing.T) {
	t.Parallel()
	uploader := &fakeUploader{}
	ctrl := New(afero.NewMemMapFs(), uploader, nil, &ParamUpload{
		SarifFile: "/out/missing.sarif",
		Stdout:    &bytes.Buffer{},
	})
	if err := ctrl.Run(context.Background(), newLogE()); err == nil {
		t.Fatal("Run() must fail")
	}
	if uploader.calls != 0 {
		t.Errorf("calls = %d, want 0", uploader.calls)
	}
}
