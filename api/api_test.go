package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
	"github.com/papercomputeco/aiscore/pkg/dispatch"
	"github.com/papercomputeco/aiscore/pkg/history/inmemory"
	"github.com/papercomputeco/aiscore/pkg/logger"
	"github.com/papercomputeco/aiscore/pkg/scorer"
	testutils "github.com/papercomputeco/aiscore/pkg/utils/test"
)

const sampleText = "The committee reviewed the proposal and asked for a revised budget by Friday."

func doJSON(s *Server, method, path, body string) (*http.Response, map[string]any) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.app.Test(req, 5000)
	Expect(err).NotTo(HaveOccurred())

	raw, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		Expect(json.Unmarshal(raw, &decoded)).To(Succeed())
	}
	return resp, decoded
}

var _ = Describe("API Server", func() {
	var (
		upstream *testutils.FakeUpstream
		driver   *inmemory.Driver
		server   *Server
	)

	BeforeEach(func() {
		upstream = testutils.NewFakeUpstream()
		driver = inmemory.NewDriver()

		svc := scorer.New(scorer.Config{
			Dispatcher: dispatch.New(provider.Default, dispatch.WithHTTPClient(upstream.Client())),
			MinChars:   50,
		})

		var err error
		server, err = NewServer(Config{ListenAddr: ":0"}, svc, driver, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		upstream.Close()
	})

	Describe("NewServer", func() {
		It("requires a scorer service", func() {
			_, err := NewServer(Config{}, nil, nil, logger.Nop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("GET /ping", func() {
		It("returns pong", func() {
			resp, _ := doJSON(server, http.MethodGet, "/ping", "")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
		})
	})

	Describe("GET /v1/providers", func() {
		It("lists the providers with the default marked", func() {
			resp, body := doJSON(server, http.MethodGet, "/v1/providers", "")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body["default"]).To(Equal("gptzero"))

			providers, ok := body["providers"].([]any)
			Expect(ok).To(BeTrue())
			Expect(providers).To(HaveLen(7))

			first := providers[0].(map[string]any)
			Expect(first["id"]).To(Equal("gptzero"))
			Expect(first["default"]).To(BeTrue())
			Expect(first["scale"]).To(Equal(detect.ScaleUnit.String()))
		})
	})

	Describe("POST /v1/analyze", func() {
		It("returns the normalized result", func() {
			upstream.Respond(http.StatusOK, `{"data":{"fakePercentage":72}}`)

			resp, body := doJSON(server, http.MethodPost, "/v1/analyze",
				`{"text":"`+sampleText+`","provider":"zerogpt","api_key":"k"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body["provider"]).To(Equal("zerogpt"))
			Expect(body["ai_score"]).To(BeNumerically("~", 0.72, 1e-9))
			Expect(body["percent"]).To(BeNumerically("==", 72))
			Expect(body["verdict"]).To(Equal(string(detect.VerdictAI)))
			Expect(body["word_count"]).To(BeNumerically("==", 13))
		})

		DescribeTable("maps detection errors onto HTTP statuses",
			func(upstreamStatus, expected int, kind string) {
				upstream.Respond(upstreamStatus, `{}`)

				resp, body := doJSON(server, http.MethodPost, "/v1/analyze",
					`{"text":"`+sampleText+`","api_key":"k"}`)
				Expect(resp.StatusCode).To(Equal(expected))
				Expect(body["kind"]).To(Equal(kind))
				Expect(body["status_code"]).To(BeNumerically("==", upstreamStatus))
				Expect(body["error"]).NotTo(BeEmpty())
			},
			Entry("401", http.StatusUnauthorized, http.StatusUnauthorized, "invalid_credential"),
			Entry("403", http.StatusForbidden, http.StatusUnauthorized, "invalid_credential"),
			Entry("429", http.StatusTooManyRequests, http.StatusTooManyRequests, "rate_limited"),
			Entry("500", http.StatusInternalServerError, http.StatusBadGateway, "upstream_error"),
		)

		It("reports a missing credential as a bad request", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/analyze", `{"text":"`+sampleText+`"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["kind"]).To(Equal("missing_credential"))
			Expect(upstream.Calls()).To(BeEmpty())
		})

		It("reports an unknown provider as a bad request", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/analyze",
				`{"text":"`+sampleText+`","provider":"turnitin","api_key":"k"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["kind"]).To(Equal("unknown_provider"))
		})

		It("rejects text below the minimum length", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/analyze", `{"text":"too short","api_key":"k"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["kind"]).To(Equal(kindBadInput))
			Expect(body["error"]).To(Equal("Please select at least 50 characters for accurate analysis."))
		})

		It("rejects missing text", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/analyze", `{"api_key":"k"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal("text is required"))
		})

		It("rejects malformed bodies", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/analyze", `{"text":`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(body["error"]).To(Equal("invalid request body"))
		})
	})

	Describe("POST /v1/test", func() {
		It("reports success", func() {
			resp, body := doJSON(server, http.MethodPost, "/v1/test", `{"provider":"sapling","api_key":"k"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body["provider"]).To(Equal("sapling"))
			Expect(body["ok"]).To(BeTrue())
			Expect(upstream.Calls()[0].Body).To(HaveKeyWithValue("text", dispatch.ConnectionTestText))
		})

		It("reports rate limiting as an upstream error", func() {
			upstream.Respond(http.StatusTooManyRequests, `{}`)

			resp, body := doJSON(server, http.MethodPost, "/v1/test", `{"api_key":"k"}`)
			Expect(resp.StatusCode).To(Equal(http.StatusBadGateway))
			Expect(body["kind"]).To(Equal("upstream_error"))
			Expect(body["status_code"]).To(BeNumerically("==", 429))
		})
	})

	Describe("GET /v1/history", func() {
		BeforeEach(func() {
			ctx := context.Background()
			base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
			for i, id := range []string{"a", "b", "c"} {
				Expect(driver.Put(ctx, testutils.NewTestRecord(id, 0.1, base.Add(time.Duration(i)*time.Minute)))).To(Succeed())
			}
		})

		It("lists the newest records first", func() {
			resp, body := doJSON(server, http.MethodGet, "/v1/history?limit=2", "")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body["count"]).To(BeNumerically("==", 2))

			records := body["records"].([]any)
			Expect(records[0].(map[string]any)["id"]).To(Equal("c"))
			Expect(records[1].(map[string]any)["id"]).To(Equal("b"))
		})

		It("rejects negative limits", func() {
			resp, _ := doJSON(server, http.MethodGet, "/v1/history?limit=-1", "")
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("returns a single record", func() {
			resp, body := doJSON(server, http.MethodGet, "/v1/history/b", "")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(body["id"]).To(Equal("b"))
		})

		It("returns 404 for unknown records", func() {
			resp, _ := doJSON(server, http.MethodGet, "/v1/history/zzz", "")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
		})

		It("returns 404 when history is disabled", func() {
			s, err := NewServer(Config{DisableMCP: true}, scorer.New(scorer.Config{}), nil, nil)
			Expect(err).NotTo(HaveOccurred())

			resp, body := doJSON(s, http.MethodGet, "/v1/history", "")
			Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
			Expect(body["error"]).To(Equal("history is disabled"))
		})
	})

	Describe("httpStatusFor", func() {
		It("treats unclassified errors as internal", func() {
			Expect(httpStatusFor(detect.KindUnknown)).To(Equal(http.StatusInternalServerError))
			Expect(httpStatusFor(detect.KindNetwork)).To(Equal(http.StatusBadGateway))
		})
	})
})
