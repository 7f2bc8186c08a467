package servecmder_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/aiscore/cmd/aiscore/serve"
	"github.com/papercomputeco/aiscore/pkg/credentials"
	"github.com/papercomputeco/aiscore/pkg/detect"
	testutils "github.com/papercomputeco/aiscore/pkg/utils/test"
)

const essay = "The museum reopened after a long renovation, and visitors lined up around the block to see the new wing."

func freeAddr() string {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	addr := l.Addr().String()
	Expect(l.Close()).To(Succeed())
	return addr
}

var _ = Describe("NewServeCmd", func() {
	var (
		configDir string
		upstream  *testutils.FakeUpstream
		errOut    *bytes.Buffer
	)

	BeforeEach(func() {
		configDir = GinkgoT().TempDir()
		upstream = testutils.NewFakeUpstream()
		DeferCleanup(servecmder.SetHTTPClient(upstream.Client()))
		errOut = &bytes.Buffer{}

		for _, p := range credentials.SupportedProviders() {
			GinkgoT().Setenv(credentials.EnvVarForProvider(detect.ProviderID(p)), "")
		}
	})

	AfterEach(func() {
		upstream.Close()
	})

	newCmd := func(args ...string) *cobra.Command {
		cmd := servecmder.NewServeCmd()
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.PersistentFlags().BoolP("debug", "d", false, "")
		cmd.SetOut(io.Discard)
		cmd.SetErr(errOut)
		cmd.SetArgs(append(args, "--config-dir", configDir))
		return cmd
	}

	It("registers the server flags", func() {
		cmd := servecmder.NewServeCmd()
		for _, name := range []string{
			"listen", "provider", "timeout", "min-chars", "history", "history-driver",
			"sqlite", "postgres", "kafka-brokers", "kafka-topic", "json-logs", "log-file", "no-mcp",
		} {
			Expect(cmd.Flags().Lookup(name)).NotTo(BeNil(), name)
		}
	})

	It("fails before listening when the history store cannot be opened", func() {
		cmd := newCmd("--listen", freeAddr(), "--history", "--history-driver", "postgres")
		Expect(cmd.Execute()).To(MatchError(ContainSubstring("postgres")))
	})

	It("serves the API until the context is cancelled", func() {
		addr := freeAddr()
		base := "http://" + addr
		upstream.Respond(http.StatusOK, `{"score": 0.8}`)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		logPath := filepath.Join(GinkgoT().TempDir(), "serve.log")
		cmd := newCmd("--listen", addr, "--provider", "sapling", "--min-chars", "10",
			"--history", "--history-driver", "inmemory", "--log-file", logPath)
		done := make(chan error, 1)
		go func() {
			done <- cmd.ExecuteContext(ctx)
		}()

		Eventually(func() int {
			resp, err := http.Get(base + "/ping")
			if err != nil {
				return 0
			}
			resp.Body.Close()
			return resp.StatusCode
		}, 5*time.Second, 50*time.Millisecond).Should(Equal(http.StatusOK))

		resp, err := http.Post(base+"/v1/analyze", "application/json",
			strings.NewReader(`{"text": "`+essay+`", "api_key": "sk-live"}`))
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var body map[string]any
		Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
		Expect(body["provider"]).To(Equal("sapling"))
		Expect(body["percent"]).To(BeNumerically("==", 80))

		calls := upstream.Calls()
		Expect(calls).To(HaveLen(1))
		Expect(calls[0].Body["key"]).To(Equal("sk-live"))

		Eventually(func() float64 {
			resp, err := http.Get(base + "/v1/history")
			if err != nil {
				return -1
			}
			defer resp.Body.Close()
			var list map[string]any
			if json.NewDecoder(resp.Body).Decode(&list) != nil {
				return -1
			}
			count, _ := list["count"].(float64)
			return count
		}, 2*time.Second, 50*time.Millisecond).Should(BeNumerically("==", 1))

		cancel()
		Eventually(done, 5*time.Second).Should(Receive(BeNil()))

		logged, err := os.ReadFile(logPath)
		Expect(err).NotTo(HaveOccurred())
		var messages []string
		for _, line := range strings.Split(strings.TrimSpace(string(logged)), "\n") {
			var record map[string]any
			Expect(json.Unmarshal([]byte(line), &record)).To(Succeed(), line)
			msg, _ := record["msg"].(string)
			messages = append(messages, msg)
		}
		Expect(messages).To(ContainElements("serving detection API", "context done, shutting down"))
	})
})

var _ = Describe("NewLogger", func() {
	It("writes pretty console output and JSON file records", func() {
		console := &bytes.Buffer{}
		file := &bytes.Buffer{}
		log := servecmder.NewLogger(console, file, false, false)

		log.Info("listening", "addr", "127.0.0.1:8080")

		Expect(console.String()).To(ContainSubstring("listening"))
		Expect(console.String()).NotTo(HavePrefix("{"))
		var record map[string]any
		Expect(json.Unmarshal(file.Bytes(), &record)).To(Succeed())
		Expect(record["msg"]).To(Equal("listening"))
		Expect(record["addr"]).To(Equal("127.0.0.1:8080"))
		Expect(record).NotTo(HaveKey("source"))
	})

	It("writes the same JSON record to both outputs in JSON mode", func() {
		console := &bytes.Buffer{}
		file := &bytes.Buffer{}
		log := servecmder.NewLogger(console, file, false, true)

		log.Info("listening")

		Expect(console.String()).To(HavePrefix("{"))
		Expect(file.String()).To(Equal(console.String()))
	})

	It("adds the source location to file records in debug mode", func() {
		file := &bytes.Buffer{}
		log := servecmder.NewLogger(io.Discard, file, true, false)

		log.Debug("dispatching")

		var record map[string]any
		Expect(json.Unmarshal(file.Bytes(), &record)).To(Succeed())
		Expect(record["msg"]).To(Equal("dispatching"))
		Expect(record).To(HaveKey("source"))
	})

	It("logs only to the console without a file", func() {
		console := &bytes.Buffer{}
		log := servecmder.NewLogger(console, nil, false, true)

		log.Info("listening")

		Expect(console.String()).To(ContainSubstring(`"msg":"listening"`))
	})
})
