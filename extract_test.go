package extractor

import (
	"context"
	"testing"

	"github.com/webextract/extractor/internal/testsite"
	"github.com/webextract/extractor/result"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(PipelineConfig{
		LibraryWorkers:   2,
		LibraryAdmitRate: 100,
		BrowserPermits:   1,
		Headless:         true,
	})
}

func TestExtract_MaxTierOneNeverEscalates(t *testing.T) {
	srv := testsite.Serve(500, "text/html", "server error")
	defer srv.Close()

	p := newTestPipeline()
	res, err := p.Extract(context.Background(), srv.URL, 1)
	if err != nil {
		t.Fatal(err)
	}
	if res.Success() {
		t.Fatal("expected failure")
	}
	if res.FetchMethod() == nil || *res.FetchMethod() != MethodHTTP {
		t.Errorf("expected http fetch_method at max_tier=1, got %v", res.FetchMethod())
	}
}

func TestExtract_SuccessAtTier1ReturnsImmediately(t *testing.T) {
	article := ""
	for i := 0; i < 10; i++ {
		article += "this is article content. "
	}
	srv := testsite.Serve(200, "text/html", "<html><body><p>"+article+"</p></body></html>")
	defer srv.Close()

	p := newTestPipeline()
	res, err := p.Extract(context.Background(), srv.URL, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success() {
		t.Fatalf("expected success, got error %v", res.Error())
	}
	if res.FetchMethod() == nil || *res.FetchMethod() != MethodHTTP {
		t.Errorf("expected http fetch_method, got %v", res.FetchMethod())
	}
}

func TestExtract_CancellationPropagates(t *testing.T) {
	srv := testsite.Serve(200, "text/html", "irrelevant")
	defer srv.Close()

	p := newTestPipeline()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Extract(ctx, srv.URL, 4)
	if err == nil {
		t.Fatal("expected cancellation to propagate as an error")
	}
}

func TestShouldSkipToTier3_SkipSetExcludes403And429(t *testing.T) {
	for _, code := range []int{403, 429} {
		r := result.NewFailure("u", "x", result.StrPtr(MethodHTTP), result.IntPtr(code), 0)
		if shouldSkipToTier3(r) {
			t.Errorf("status %d should not trigger tier-3 skip", code)
		}
	}
	for _, code := range []int{404, 500, 502} {
		r := result.NewFailure("u", "x", result.StrPtr(MethodHTTP), result.IntPtr(code), 0)
		if !shouldSkipToTier3(r) {
			t.Errorf("status %d should trigger tier-3 skip", code)
		}
	}
}
