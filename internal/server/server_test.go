package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dt-pm-tools/jsm-panel/internal/aggregate"
	"github.com/dt-pm-tools/jsm-panel/internal/handlers"
	"github.com/dt-pm-tools/jsm-panel/internal/server"
)

type mockInvoker struct {
	invokeFn func(ctx context.Context, name string, inv handlers.Invocation) (any, error)
}

func (m *mockInvoker) Invoke(ctx context.Context, name string, inv handlers.Invocation) (any, error) {
	return m.invokeFn(ctx, name, inv)
}

func (m *mockInvoker) Names() []string { return []string{"getSubTasksData"} }

type stubStrategy struct{}

func (stubStrategy) Name() string { return "link" }

func (stubStrategy) Collect(_ context.Context, key string) (*aggregate.Board, error) {
	return &aggregate.Board{
		MainIssue: aggregate.IssueSummary{Key: key},
		SubTasks:  []aggregate.SubTask{},
		Strategy:  "link",
	}, nil
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var _ = Describe("Router", func() {
	var (
		router  *gin.Engine
		invoker *mockInvoker
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		invoker = &mockInvoker{}
		router = server.NewRouter(invoker)
	})

	Describe("POST /invoke/:name", func() {
		It("passes the name and invocation to the invoker", func() {
			var gotName string
			var gotInv handlers.Invocation
			invoker.invokeFn = func(_ context.Context, name string, inv handlers.Invocation) (any, error) {
				gotName, gotInv = name, inv
				return handlers.Result{Success: true}, nil
			}

			w := post(router, "/invoke/addComment", `{"payload":{"issueKey":"JSW-1","comment":"hi"},"context":{"accountId":"acc-1","issueKey":"SD-1"}}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(gotName).To(Equal("addComment"))
			Expect(gotInv.Context.AccountID).To(Equal("acc-1"))
			Expect(gotInv.Context.IssueKey).To(Equal("SD-1"))
			Expect(string(gotInv.Payload)).To(MatchJSON(`{"issueKey":"JSW-1","comment":"hi"}`))
			Expect(w.Body.String()).To(MatchJSON(`{"success":true}`))
		})

		It("returns 200 with the failure inside the result", func() {
			invoker.invokeFn = func(context.Context, string, handlers.Invocation) (any, error) {
				return handlers.Fail(errors.New("no issue key found in request")), nil
			}

			w := post(router, "/invoke/getSubTasksData", `{}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"success":false,"error":"no issue key found in request"}`))
		})

		It("returns 404 for unknown handlers", func() {
			invoker.invokeFn = func(_ context.Context, name string, _ handlers.Invocation) (any, error) {
				return nil, fmt.Errorf("%w: %q", handlers.ErrUnknownHandler, name)
			}

			w := post(router, "/invoke/dropTables", `{}`)

			Expect(w.Code).To(Equal(http.StatusNotFound))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeFalse())
			Expect(resp["error"]).To(ContainSubstring("unknown handler"))
		})

		It("returns 400 on an undecodable body", func() {
			invoker.invokeFn = func(context.Context, string, handlers.Invocation) (any, error) {
				Fail("invoker must not be called")
				return nil, nil
			}

			w := post(router, "/invoke/addComment", `{`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 500 when the invoker panics", func() {
			invoker.invokeFn = func(context.Context, string, handlers.Invocation) (any, error) {
				panic("boom")
			}

			w := post(router, "/invoke/addComment", `{}`)

			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(w.Body.String()).To(MatchJSON(`{"success":false,"error":"internal server error"}`))
		})

		It("echoes a caller supplied request id", func() {
			invoker.invokeFn = func(context.Context, string, handlers.Invocation) (any, error) {
				return handlers.Result{Success: true}, nil
			}

			req := httptest.NewRequest(http.MethodPost, "/invoke/addComment", bytes.NewBufferString(`{}`))
			req.Header.Set("X-Request-ID", "req-42")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Header().Get("X-Request-ID")).To(Equal("req-42"))
		})

		It("assigns a request id when none is sent", func() {
			invoker.invokeFn = func(context.Context, string, handlers.Invocation) (any, error) {
				return handlers.Result{Success: true}, nil
			}

			w := post(router, "/invoke/addComment", `{}`)

			Expect(w.Header().Get("X-Request-ID")).To(HaveLen(36))
		})
	})

	Describe("with the handler registry", func() {
		BeforeEach(func() {
			router = server.NewRouter(handlers.NewRegistry(stubStrategy{}, nil))
		})

		It("signals an empty board", func() {
			w := post(router, "/invoke/getSubTasksData", `{"context":{"issueKey":"SD-7"}}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["success"]).To(BeTrue())
			Expect(resp["noSubTasks"]).To(BeTrue())
			Expect(resp["strategy"]).To(Equal("link"))
			Expect(resp["subTasks"]).To(BeEmpty())
		})

		It("returns 404 for unknown names", func() {
			w := post(router, "/invoke/nope", `{}`)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("GET /healthz", func() {
		It("lists the registered handlers", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(MatchJSON(`{"status":"ok","handlers":["getSubTasksData"]}`))
		})
	})

	Describe("GET /metrics", func() {
		It("serves prometheus metrics", func() {
			req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("go_goroutines"))
		})
	})
})
