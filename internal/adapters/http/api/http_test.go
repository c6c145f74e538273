package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/seojun/eventory/internal/adapters/http/api"
	"github.com/seojun/eventory/internal/adapters/repository"
	"github.com/seojun/eventory/internal/app"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	svc := app.New(app.WithStore(repository.NewMemoryStore()))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	return mux
}

func TestEventsEndpoint(t *testing.T) {
	convey.Convey("Given the events endpoint", t, func() {
		mux := newTestMux(t)

		convey.Convey("When requesting the timeline", func() {
			req := httptest.NewRequest(http.MethodGet, "/events", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Header().Get("Content-Type"), convey.ShouldEqual, "application/json; charset=utf-8")

			var out []map[string]any
			convey.So(json.Unmarshal(w.Body.Bytes(), &out), convey.ShouldBeNil)
			convey.So(len(out), convey.ShouldBeGreaterThan, 0)
			convey.So(out[0]["id"], convey.ShouldNotBeEmpty)
		})

		convey.Convey("When requesting UTC display", func() {
			req := httptest.NewRequest(http.MethodGet, "/events?tz=utc", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
		})

		convey.Convey("When the tz parameter is unknown", func() {
			req := httptest.NewRequest(http.MethodGet, "/events?tz=mars", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When the method is wrong", func() {
			req := httptest.NewRequest(http.MethodPost, "/events", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("Then a request ID is echoed back", func() {
			req := httptest.NewRequest(http.MethodGet, "/events", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Header().Get("X-Request-Id"), convey.ShouldNotBeEmpty)
		})

		convey.Convey("And a supplied request ID is preserved", func() {
			req := httptest.NewRequest(http.MethodGet, "/events", http.NoBody)
			req.Header.Set("X-Request-Id", "fixed-id")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Header().Get("X-Request-Id"), convey.ShouldEqual, "fixed-id")
		})
	})
}

func TestSchedulesEndpoint(t *testing.T) {
	convey.Convey("Given the schedules endpoint", t, func() {
		mux := newTestMux(t)

		convey.Convey("When upserting a schedule", func() {
			body := `{"event_id":"bear_trap","day":"월(10:00)"}`
			req := httptest.NewRequest(http.MethodPut, "/schedules", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)

			var out map[string]any
			convey.So(json.Unmarshal(w.Body.Bytes(), &out), convey.ShouldBeNil)

			convey.Convey("Then the alias is canonicalized and stamped", func() {
				convey.So(out["event_id"], convey.ShouldEqual, "bear_hunt")
				convey.So(out["updated_at"], convey.ShouldBeGreaterThan, 0)
			})

			convey.Convey("And a subsequent list returns it", func() {
				listReq := httptest.NewRequest(http.MethodGet, "/schedules", http.NoBody)
				lw := httptest.NewRecorder()
				mux.ServeHTTP(lw, listReq)

				convey.So(lw.Code, convey.ShouldEqual, http.StatusOK)
				var records []map[string]any
				convey.So(json.Unmarshal(lw.Body.Bytes(), &records), convey.ShouldBeNil)
				convey.So(records, convey.ShouldHaveLength, 1)
				convey.So(records[0]["day"], convey.ShouldEqual, "월(10:00)")
			})

			convey.Convey("And deleting under the alias removes it", func() {
				delReq := httptest.NewRequest(http.MethodDelete, "/schedules?event_id=bear_trap", http.NoBody)
				dw := httptest.NewRecorder()
				mux.ServeHTTP(dw, delReq)

				convey.So(dw.Code, convey.ShouldEqual, http.StatusOK)

				listReq := httptest.NewRequest(http.MethodGet, "/schedules", http.NoBody)
				lw := httptest.NewRecorder()
				mux.ServeHTTP(lw, listReq)
				var records []map[string]any
				convey.So(json.Unmarshal(lw.Body.Bytes(), &records), convey.ShouldBeNil)
				convey.So(records, convey.ShouldHaveLength, 0)
			})
		})

		convey.Convey("When deleting without an event ID", func() {
			req := httptest.NewRequest(http.MethodDelete, "/schedules", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When deleting a missing record", func() {
			req := httptest.NewRequest(http.MethodDelete, "/schedules?event_id=arena", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
		})

		convey.Convey("When the body is not JSON", func() {
			req := httptest.NewRequest(http.MethodPut, "/schedules", strings.NewReader("not json"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When the event ID is missing", func() {
			req := httptest.NewRequest(http.MethodPut, "/schedules", strings.NewReader(`{"day":"월(10:00)"}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})

		convey.Convey("When the recurrence unit is invalid", func() {
			body := `{"event_id":"arena","recurrence_unit":"month"}`
			req := httptest.NewRequest(http.MethodPut, "/schedules", strings.NewReader(body))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	convey.Convey("Given the operational endpoints", t, func() {
		mux := newTestMux(t)

		convey.Convey("Then /healthz reports ok", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			convey.So(w.Body.String(), convey.ShouldContainSubstring, `"status":"ok"`)
		})

		convey.Convey("Then /stats returns service statistics", func() {
			req := httptest.NewRequest(http.MethodGet, "/stats", http.NoBody)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			var stats map[string]any
			convey.So(json.Unmarshal(w.Body.Bytes(), &stats), convey.ShouldBeNil)
			convey.So(stats["started"], convey.ShouldEqual, true)
		})
	})
}
