package flash

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSetPop(t *testing.T) {
	rec := httptest.NewRecorder()
	Set(rec, Success, "Blog post created successfully!")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	m := Pop(out, req)
	if m == nil || m.Kind != Success || m.Text != "Blog post created successfully!" {
		t.Fatalf("Pop = %+v", m)
	}
	cleared := out.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("flash cookie not cleared: %+v", cleared)
	}
}

func TestPopWithoutCookie(t *testing.T) {
	if m := Pop(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil)); m != nil {
		t.Fatalf("Pop = %+v", m)
	}
}
