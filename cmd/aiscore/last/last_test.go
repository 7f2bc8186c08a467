package lastcmder_test

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	lastcmder "github.com/papercomputeco/aiscore/cmd/aiscore/last"
	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/dotdir"
)

var _ = Describe("NewLastCmd", func() {
	var (
		configDir string
		out       *bytes.Buffer
		ddm       *dotdir.Manager
	)

	BeforeEach(func() {
		configDir = filepath.Join(GinkgoT().TempDir(), ".aiscore")
		out = &bytes.Buffer{}
		ddm = dotdir.NewManager()
	})

	run := func(args ...string) error {
		cmd := lastcmder.NewLastCmd()
		cmd.PersistentFlags().String("config-dir", "", "")
		cmd.SetOut(out)
		cmd.SetArgs(append(args, "--config-dir", configDir))
		return cmd.Execute()
	}

	It("says when nothing is recorded", func() {
		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("No analysis recorded yet"))
	})

	It("renders a recorded result", func() {
		Expect(ddm.SaveLastResult(&detect.Result{
			Provider:  detect.Sapling,
			AIScore:   0.82,
			WordCount: 120,
			CharCount: 700,
			Timestamp: time.Now(),
		}, configDir)).To(Succeed())

		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("82%"))
		Expect(out.String()).To(ContainSubstring(string(detect.VerdictAI)))
		Expect(out.String()).To(ContainSubstring("Sapling"))
	})

	It("renders a recorded error message", func() {
		err := &detect.Error{Kind: detect.KindRateLimited, Provider: detect.GPTZero, StatusCode: 429}
		Expect(ddm.SaveLastError(err, configDir)).To(Succeed())

		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring(detect.Message(err)))
	})

	It("prints the record as JSON", func() {
		Expect(ddm.SaveLastResult(&detect.Result{Provider: detect.Writer, AIScore: 0.1, Timestamp: time.Now()}, configDir)).To(Succeed())

		Expect(run("--json")).To(Succeed())
		Expect(out.String()).To(ContainSubstring(`"provider": "writer"`))
		Expect(out.String()).To(ContainSubstring(`"recorded_at"`))
	})

	It("clears the record", func() {
		Expect(ddm.SaveLastResult(&detect.Result{Provider: detect.Writer, Timestamp: time.Now()}, configDir)).To(Succeed())

		Expect(run("--clear")).To(Succeed())
		_, err := os.Stat(filepath.Join(configDir, "last.json"))
		Expect(os.IsNotExist(err)).To(BeTrue())

		out.Reset()
		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("No analysis recorded yet"))
	})
})
