package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/kataras/iris/v12"
)

func serveOnce(t *testing.T, handler iris.Handler) *httptest.ResponseRecorder {
	t.Helper()

	app := iris.New()
	app.Get("/t", handler)
	if err := app.Build(); err != nil {
		t.Fatal(err)
	}

	w := httptest.NewRecorder()
	app.ServeHTTP(w, httptest.NewRequest("GET", "/t", nil))
	return w
}

func TestJSONErrorCarriesRevertData(t *testing.T) {
	serverOrder := []int{3, 1, 2}

	w := serveOnce(t, func(ctx iris.Context) {
		JSONError(ctx, iris.StatusInternalServerError, "reorder_failed",
			"Order change could not be saved; showing the previous order.", serverOrder)
	})

	if w.Code != iris.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}

	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Data    []int  `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error != "reorder_failed" {
		t.Errorf("error code = %q", body.Error)
	}
	if len(body.Data) != 3 || body.Data[0] != 3 || body.Data[1] != 1 || body.Data[2] != 2 {
		t.Errorf("data = %v, want the server-side order for the client to revert to", body.Data)
	}
}

func TestJSONErrorWithoutData(t *testing.T) {
	w := serveOnce(t, func(ctx iris.Context) {
		JSONError(ctx, iris.StatusBadGateway, "upstream_error", "try again later", nil)
	})

	if w.Code != iris.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if _, present := body["data"]; present {
		t.Errorf("nil data must not produce a data key: %v", body)
	}
	if body["error"] != "upstream_error" {
		t.Errorf("error code = %v", body["error"])
	}
}
