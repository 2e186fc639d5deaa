package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/eventboard/internal/adapters/controls"
	"github.com/okian/eventboard/internal/adapters/http/api"
	"github.com/okian/eventboard/internal/adapters/provider"
	"github.com/okian/eventboard/internal/adapters/surface"
	service "github.com/okian/eventboard/internal/app"
	"github.com/okian/eventboard/internal/domain/labels"
	"github.com/okian/eventboard/internal/domain/model"
	"github.com/okian/eventboard/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

type harness struct {
	board  *service.Board
	bar    *controls.Bar
	page   *surface.Page
	target *surface.Memory
	mux    *http.ServeMux
}

func newHarness() *harness {
	h := &harness{
		page:   surface.NewPage(),
		target: surface.NewMemory(),
		mux:    http.NewServeMux(),
	}
	h.page.Mount(surface.DefaultName, h.target)
	h.board = service.New(
		service.WithProvider(provider.NewStatic(model.Record{
			ID:       1,
			Title:    "Faveeがリリース！！",
			Category: model.CategoryUpdate,
			Status:   model.StatusUpcoming,
			DateSort: "2025-07-04",
		})),
		service.WithPage(h.page),
	)
	if err := h.board.Load(context.Background()); err != nil {
		panic(err)
	}
	h.bar = controls.NewBar(h.board, labels.MustCatalog(), h.board.Filter())
	srv := api.NewServer(h.board, h.bar, api.PageView(h.page, surface.DefaultName))
	srv.Register(context.Background(), h.mux)
	return h
}

func (h *harness) do(method, target, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.mux.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestHealthAndMetrics(t *testing.T) {
	Convey("Given a registered API", t, func() {
		h := newHarness()
		defer h.board.Stop()

		Convey("When requesting /healthz", func() {
			w := h.do(http.MethodGet, "/healthz", "", "")

			Convey("Then it should report ok", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			})
		})

		Convey("When requesting /readyz after load", func() {
			w := h.do(http.MethodGet, "/readyz", "", "")

			Convey("Then it should report ready", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"status":"ready"`)
			})
		})

		Convey("When requesting /metrics", func() {
			h.do(http.MethodGet, "/healthz", "", "")
			w := h.do(http.MethodGet, "/metrics", "", "")

			Convey("Then Prometheus metrics should be exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "eventboard_board_renders_total")
				So(w.Body.String(), ShouldContainSubstring, "http_requests_total")
			})
		})

		Convey("When requesting /stats", func() {
			w := h.do(http.MethodGet, "/stats", "", "")

			Convey("Then board stats should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
				So(stats["records"], ShouldEqual, float64(1))
				So(stats["filter"], ShouldEqual, "all")
				So(w.Header().Get("Cache-Control"), ShouldEqual, "no-store")
			})
		})

		Convey("When posting to a GET-only route", func() {
			w := h.do(http.MethodPost, "/stats", "", "")

			Convey("Then it should be not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestReadinessBeforeLoad(t *testing.T) {
	Convey("Given a board that has not loaded", t, func() {
		board := service.New(service.WithPage(nil))
		defer board.Stop()
		health := api.NewHealthHandler(board)

		Convey("When requesting readiness", func() {
			w := httptest.NewRecorder()
			health.HandleReady(w, httptest.NewRequest(http.MethodGet, "/readyz", http.NoBody))

			Convey("Then it should be unavailable", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Body.String(), ShouldContainSubstring, `"code":"not_ready"`)
			})
		})
	})
}

func TestBoardAndFilter(t *testing.T) {
	Convey("Given a registered API over a loaded board", t, func() {
		h := newHarness()
		defer h.board.Stop()

		Convey("When reading /board", func() {
			w := h.do(http.MethodGet, "/board", "", "")

			Convey("Then the rendered fragment should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "text/html")
				So(w.Body.String(), ShouldContainSubstring, `data-id="1"`)
			})
		})

		Convey("When the surface is absent", func() {
			h.page.Unmount(surface.DefaultName)
			w := h.do(http.MethodGet, "/board", "", "")

			Convey("Then the body should be empty", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.Len(), ShouldEqual, 0)
			})
		})

		Convey("When selecting a filter with JSON", func() {
			w := h.do(http.MethodPost, "/filter", "application/json", `{"value":"event"}`)

			Convey("Then the active filter should be returned and the board emptied", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"filter":"event"`)
				So(h.board.Filter(), ShouldEqual, model.Filter("event"))
				So(h.target.Len(), ShouldEqual, 0)
				So(h.bar.Active(), ShouldEqual, model.Filter("event"))
			})
		})

		Convey("When selecting a filter with a form", func() {
			form := url.Values{"value": {"update"}}.Encode()
			w := h.do(http.MethodPost, "/filter", "application/x-www-form-urlencoded", form)

			Convey("Then it should redirect back to the page", func() {
				So(w.Code, ShouldEqual, http.StatusSeeOther)
				So(w.Header().Get("Location"), ShouldEqual, "/")
				So(h.target.Len(), ShouldEqual, 1)
			})
		})

		Convey("When selecting an unknown filter", func() {
			w := h.do(http.MethodPost, "/filter", "application/json", `{"value":"festival"}`)

			Convey("Then it should be not found and nothing should change", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
				So(h.board.Filter(), ShouldEqual, model.FilterAll)
			})
		})

		Convey("When posting malformed JSON to /filter", func() {
			w := h.do(http.MethodPost, "/filter", "application/json", `{`)

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})
	})
}

func TestAdminEndpoints(t *testing.T) {
	Convey("Given a registered API over a loaded board", t, func() {
		h := newHarness()
		defer h.board.Stop()

		Convey("When adding an event", func() {
			w := h.do(http.MethodPost, "/admin/events", "application/json",
				`{"title":"X","category":"event","status":"upcoming","dateSort":"2025-06-01"}`)

			Convey("Then it should be created with the next id", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				var rec model.Record
				So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)
				So(rec.ID, ShouldEqual, 2)
				So(h.board.Events()[0].ID, ShouldEqual, 2)
			})
		})

		Convey("When retrying an add with the same idempotency key", func() {
			send := func() *httptest.ResponseRecorder {
				req := httptest.NewRequest(http.MethodPost, "/admin/events", strings.NewReader(`{"title":"once","dateSort":"2025-05-01"}`))
				req.Header.Set("Content-Type", "application/json")
				req.Header.Set(api.IdempotencyKeyHeader, "retry-1")
				w := httptest.NewRecorder()
				h.mux.ServeHTTP(w, req)
				return w
			}
			first := send()
			second := send()

			Convey("Then the event should be stored once and replayed", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				So(second.Header().Get(api.ReplayedHeader), ShouldEqual, "true")
				So(second.Body.String(), ShouldEqual, first.Body.String())
				So(h.board.Events(), ShouldHaveLength, 2)
			})
		})

		Convey("When adding after importing the largest possible id", func() {
			doc := `{"events":[{"id":` + strconv.Itoa(math.MaxInt) + `,"title":"last"}]}`
			So(h.do(http.MethodPost, "/admin/events/import", "application/json", doc).Code, ShouldEqual, http.StatusNoContent)
			w := h.do(http.MethodPost, "/admin/events", "application/json", `{"title":"overflow"}`)

			Convey("Then the add should conflict and store nothing", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(w.Body.String(), ShouldContainSubstring, `"code":"ids_exhausted"`)
				So(h.board.Events(), ShouldHaveLength, 1)
				So(h.board.Events()[0].ID, ShouldEqual, math.MaxInt)
			})
		})

		Convey("When adding with a malformed body", func() {
			w := h.do(http.MethodPost, "/admin/events", "application/json", `nope`)

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(h.board.Events(), ShouldHaveLength, 1)
			})
		})

		Convey("When patching an existing event", func() {
			w := h.do(http.MethodPatch, "/admin/events/1", "application/json", `{"title":"renamed","id":9}`)

			Convey("Then the title should change and the id should not", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var rec model.Record
				So(json.Unmarshal(w.Body.Bytes(), &rec), ShouldBeNil)
				So(rec.ID, ShouldEqual, 1)
				So(rec.Title, ShouldEqual, "renamed")
				So(rec.Category, ShouldEqual, model.CategoryUpdate)
			})
		})

		Convey("When patching a missing event", func() {
			w := h.do(http.MethodPatch, "/admin/events/42", "application/json", `{"title":"x"}`)

			Convey("Then it should be not found", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the id is not a number", func() {
			w := h.do(http.MethodDelete, "/admin/events/abc", "", "")

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When deleting an existing event", func() {
			w := h.do(http.MethodDelete, "/admin/events/1", "", "")

			Convey("Then the removed record should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"id":1`)
				So(h.board.Events(), ShouldBeEmpty)
			})

			Convey("And deleting it again should be not found", func() {
				So(h.do(http.MethodDelete, "/admin/events/1", "", "").Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When exporting and importing back", func() {
			export := h.do(http.MethodGet, "/admin/events/export", "", "")
			before := h.board.Events()
			imp := h.do(http.MethodPost, "/admin/events/import", "application/json", export.Body.String())

			Convey("Then the round trip should preserve the collection", func() {
				So(export.Code, ShouldEqual, http.StatusOK)
				So(export.Header().Get("Content-Type"), ShouldStartWith, "application/json")
				So(imp.Code, ShouldEqual, http.StatusNoContent)
				So(h.board.Events(), ShouldResemble, before)
			})
		})

		Convey("When importing a document without events", func() {
			w := h.do(http.MethodPost, "/admin/events/import", "application/json", `{"items":[]}`)

			Convey("Then it should fail with import_failed", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "import_failed")
				So(h.board.Events(), ShouldHaveLength, 1)
			})
		})
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	Convey("Given a handler behind the request id middleware", t, func() {
		var seen string
		handler := api.RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = api.RequestID(r.Context())
		}))

		Convey("When no id is supplied", func() {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

			Convey("Then a UUID should be generated and echoed", func() {
				_, err := uuid.Parse(seen)
				So(err, ShouldBeNil)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
			})
		})

		Convey("When a valid id is supplied", func() {
			id := uuid.NewString()
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.RequestIDHeader, id)
			handler.ServeHTTP(httptest.NewRecorder(), req)

			Convey("Then it should be reused", func() {
				So(seen, ShouldEqual, id)
			})
		})

		Convey("When a malformed id is supplied", func() {
			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			req.Header.Set(api.RequestIDHeader, "<script>")
			handler.ServeHTTP(httptest.NewRecorder(), req)

			Convey("Then it should be replaced", func() {
				So(seen, ShouldNotEqual, "<script>")
				So(seen, ShouldNotBeEmpty)
			})
		})
	})
}

func TestAccessLogMiddleware(t *testing.T) {
	Convey("Given the access log inside the request id middleware", t, func() {
		var buf bytes.Buffer
		So(logger.InitWithWriter(&buf), ShouldBeNil)
		So(logger.SetLevelString("debug"), ShouldBeNil)
		defer func() { _ = logger.SetLevelString("info") }()

		handler := api.RequestIDMiddleware(api.AccessLogMiddleware(logger.Get(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})))

		Convey("When serving a request", func() {
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/board", http.NoBody))

			Convey("Then one line should carry the id and status", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "path=/board")
				So(out, ShouldContainSubstring, "status=418")
				So(out, ShouldContainSubstring, "requestId="+w.Header().Get(api.RequestIDHeader))
			})
		})
	})
}

func TestOpErrors(t *testing.T) {
	Convey("Given op-tagged errors", t, func() {
		cause := errors.New("boom")

		Convey("Then WrapKind should match both the kind and the cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then NewKind should carry only the kind", func() {
			err := api.NewKind("api.op", api.ErrNotFound)
			So(errors.Is(err, api.ErrNotFound), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: not found")
		})

		Convey("Then Wrap should pass nil through", func() {
			So(api.Wrap("api.op", nil), ShouldBeNil)
			So(errors.Is(api.Wrap("api.op", cause), cause), ShouldBeTrue)
		})
	})
}
