package responseformat

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

type sample struct {
	Datetime string  `json:"datetime"`
	Temp     *string `json:"temp"`
	GasLeak  bool    `json:"gasLeak"`
}

func TestWriteResponseJSON(t *testing.T) {
	f := NewFormatter("*")
	temp := "21.50"
	req := httptest.NewRequest(http.MethodGet, "/last-reading", nil)
	rec := httptest.NewRecorder()

	if err := f.WriteResponse(rec, req, sample{Datetime: "2024-05-01 14:30", Temp: &temp}, map[string]string{"Cache-Control": "no-store"}); err != nil {
		t.Fatalf("WriteResponse: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != ContentTypeJSON {
		t.Errorf("Content-Type = %q", ct)
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q", cc)
	}
	if o := rec.Header().Get("Access-Control-Allow-Origin"); o != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q", o)
	}

	var got sample
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
	}
	if got.Datetime != "2024-05-01 14:30" || got.Temp == nil || *got.Temp != "21.50" {
		t.Errorf("decoded %+v", got)
	}
}

func TestWriteStatusMsgPack(t *testing.T) {
	f := NewFormatter("")
	req := httptest.NewRequest(http.MethodGet, "/last-reading?format=msgpack", nil)
	rec := httptest.NewRecorder()

	if err := f.WriteStatus(rec, req, http.StatusBadRequest, sample{Datetime: "x", GasLeak: true}, nil); err != nil {
		t.Fatalf("WriteStatus: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != ContentTypeMsgPack {
		t.Errorf("Content-Type = %q", ct)
	}
	if o := rec.Header().Get("Access-Control-Allow-Origin"); o != "" {
		t.Errorf("Access-Control-Allow-Origin = %q, want unset", o)
	}

	var got map[string]any
	if err := msgpack.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid msgpack: %v", err)
	}
	if got["datetime"] != "x" || got["gasLeak"] != true || got["temp"] != nil {
		t.Errorf("decoded %+v", got)
	}
}
