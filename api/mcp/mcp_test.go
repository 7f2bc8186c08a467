package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/credentials"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/detect/provider"
	"github.com/papercomputeco/aiscore/pkg/dispatch"
	"github.com/papercomputeco/aiscore/pkg/logger"
	"github.com/papercomputeco/aiscore/pkg/scorer"
	testutils "github.com/papercomputeco/aiscore/pkg/utils/test"
)

const sampleText = "Some sentences are written by people and others are sampled from a model."

// keyResolver hands every provider the same key.
type keyResolver struct{}

func (keyResolver) Resolve(_ detect.ProviderID, _ string) (string, credentials.Source, error) {
	return "mcp-key", credentials.SourceEnv, nil
}

var _ = Describe("MCP Server", func() {
	var (
		upstream *testutils.FakeUpstream
		server   *Server
		ctx      context.Context
	)

	BeforeEach(func() {
		upstream = testutils.NewFakeUpstream()
		svc := scorer.New(scorer.Config{
			Dispatcher:      dispatch.New(provider.Default, dispatch.WithHTTPClient(upstream.Client())),
			Keys:            keyResolver{},
			DefaultProvider: detect.Sapling,
			MinChars:        20,
		})

		var err error
		server, err = NewServer(Config{Analyzer: svc, Logger: logger.Nop()})
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		upstream.Close()
	})

	Describe("NewServer", func() {
		It("requires an analyzer", func() {
			_, err := NewServer(Config{Logger: logger.Nop()})
			Expect(err).To(MatchError(ContainSubstring("analyzer is required")))
		})

		It("requires a logger", func() {
			_, err := NewServer(Config{Analyzer: scorer.New(scorer.Config{})})
			Expect(err).To(MatchError(ContainSubstring("logger is required")))
		})

		It("builds an empty server in noop mode", func() {
			s, err := NewServer(Config{Noop: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Handler()).NotTo(BeNil())
		})

		It("exposes an HTTP handler", func() {
			var h http.Handler = server.Handler()
			Expect(h).NotTo(BeNil())
		})
	})

	Describe("analyze_text", func() {
		It("returns the normalized score", func() {
			upstream.Respond(http.StatusOK, `{"score":0.756}`)

			res, out, err := server.handleAnalyze(ctx, nil, AnalyzeInput{Text: sampleText})
			Expect(err).NotTo(HaveOccurred())
			Expect(res).To(BeNil())
			Expect(out.Provider).To(Equal("sapling"))
			Expect(out.AIScore).To(BeNumerically("~", 0.756, 1e-9))
			Expect(out.Percent).To(Equal(76))
			Expect(out.Verdict).To(Equal(string(detect.VerdictAI)))
			Expect(out.WordCount).To(Equal(13))
		})

		It("honors a named provider", func() {
			upstream.Respond(http.StatusOK, `{"fakePercentage":10}`)

			_, out, err := server.handleAnalyze(ctx, nil, AnalyzeInput{Text: sampleText, Provider: "zerogpt"})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Provider).To(Equal("zerogpt"))
			Expect(out.Percent).To(Equal(10))
		})

		It("reports detection failures as tool errors", func() {
			upstream.Respond(http.StatusTooManyRequests, `{}`)

			res, _, err := server.handleAnalyze(ctx, nil, AnalyzeInput{Text: sampleText})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(res.Content).To(HaveLen(1))
			text, ok := res.Content[0].(*mcp.TextContent)
			Expect(ok).To(BeTrue())
			Expect(text.Text).To(Equal("Rate limit exceeded. Please try again later."))
		})

		It("reports short input as a tool error", func() {
			res, _, err := server.handleAnalyze(ctx, nil, AnalyzeInput{Text: "short"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.IsError).To(BeTrue())
			Expect(res.Content[0].(*mcp.TextContent).Text).To(ContainSubstring("at least 20 characters"))
			Expect(upstream.Calls()).To(BeEmpty())
		})
	})

	Describe("list_providers", func() {
		It("lists every provider and marks the default", func() {
			_, out, err := server.handleListProviders(ctx, nil, ListProvidersInput{})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.Providers).To(HaveLen(7))

			var defaults []string
			for _, p := range out.Providers {
				Expect(p.KeyURL).NotTo(BeEmpty())
				if p.Default {
					defaults = append(defaults, p.ID)
				}
			}
			Expect(defaults).To(ConsistOf("sapling"))
		})
	})
})
