package dotdir_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/dotdir"
)

var _ = Describe("dotdir.Manager last analysis", func() {
	var tmpDir string
	var m *dotdir.Manager

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "dotdir-last-*")
		Expect(err).NotTo(HaveOccurred())
		m = dotdir.NewManager()
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns nil when nothing has been recorded", func() {
		state, err := m.LoadLastAnalysis(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(BeNil())
	})

	It("round-trips a result", func() {
		ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
		result := &detect.Result{
			Provider:  detect.ZeroGPT,
			AIScore:   0.87,
			WordCount: 120,
			CharCount: 640,
			Timestamp: ts,
		}
		Expect(m.SaveLastResult(result, tmpDir)).To(Succeed())

		state, err := m.LoadLastAnalysis(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Error).To(BeEmpty())
		Expect(state.Result).NotTo(BeNil())
		Expect(state.Result.AIScore).To(Equal(0.87))
		Expect(state.Result.Timestamp.Equal(ts)).To(BeTrue())
	})

	It("replaces a result with a later error", func() {
		Expect(m.SaveLastResult(&detect.Result{AIScore: 0.1}, tmpDir)).To(Succeed())
		Expect(m.SaveLastError(&detect.Error{Kind: detect.KindRateLimited}, tmpDir)).To(Succeed())

		state, err := m.LoadLastAnalysis(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.Result).To(BeNil())
		Expect(state.Error).To(Equal("Rate limit exceeded. Please try again later."))
		Expect(state.Kind).To(Equal("rate_limited"))
	})

	It("writes the state file with restricted permissions", func() {
		Expect(m.SaveLastResult(&detect.Result{AIScore: 0.5}, tmpDir)).To(Succeed())

		info, err := os.Stat(filepath.Join(tmpDir, "last.json"))
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))
	})

	It("rejects nil values", func() {
		Expect(m.SaveLastResult(nil, tmpDir)).To(HaveOccurred())
		Expect(m.SaveLastError(nil, tmpDir)).To(HaveOccurred())
	})

	It("returns an error for a corrupt state file", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "last.json"), []byte("{"), 0o600)).To(Succeed())

		state, err := m.LoadLastAnalysis(tmpDir)
		Expect(err).To(HaveOccurred())
		Expect(state).To(BeNil())
	})

	It("clears the state and tolerates clearing twice", func() {
		Expect(m.SaveLastResult(&detect.Result{AIScore: 0.5}, tmpDir)).To(Succeed())
		Expect(m.ClearLastAnalysis(tmpDir)).To(Succeed())
		Expect(m.ClearLastAnalysis(tmpDir)).To(Succeed())

		state, err := m.LoadLastAnalysis(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state).To(BeNil())
	})
})
