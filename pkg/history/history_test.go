package history_test

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/detect"
	"github.com/papercomputeco/aiscore/pkg/history"
	testutils "github.com/papercomputeco/aiscore/pkg/utils/test"
)

var _ = Describe("NewRecord", func() {
	It("copies the result and assigns a uuid", func() {
		res := testutils.NewTestResult(detect.Writer, 0.73)
		rec := history.NewRecord(res, 300*time.Millisecond)

		_, err := uuid.Parse(rec.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Provider).To(Equal(detect.Writer))
		Expect(rec.AIScore).To(Equal(0.73))
		Expect(rec.WordCount).To(Equal(res.WordCount))
		Expect(rec.CharCount).To(Equal(res.CharCount))
		Expect(rec.Duration).To(Equal(300 * time.Millisecond))
		Expect(rec.CreatedAt.Equal(res.Timestamp)).To(BeTrue())
		Expect(rec.Verdict()).To(Equal(detect.VerdictAI))
	})

	It("assigns distinct ids", func() {
		res := testutils.NewTestResult(detect.GPTZero, 0.1)
		Expect(history.NewRecord(res, 0).ID).NotTo(Equal(history.NewRecord(res, 0).ID))
	})
})

var _ = Describe("NotFoundError", func() {
	It("formats with and without an id", func() {
		Expect(history.NotFoundError{}.Error()).To(Equal("record not found"))
		Expect(history.NotFoundError{ID: "x"}.Error()).To(Equal("record not found: x"))
	})

	It("is detected through wrapping", func() {
		err := fmt.Errorf("loading: %w", history.NotFoundError{ID: "x"})
		Expect(history.IsNotFound(err)).To(BeTrue())
		Expect(history.IsNotFound(fmt.Errorf("other"))).To(BeFalse())
	})
})

var _ = Describe("NormalizeLimit", func() {
	It("defaults non-positive limits", func() {
		Expect(history.NormalizeLimit(0)).To(Equal(history.DefaultListLimit))
		Expect(history.NormalizeLimit(-3)).To(Equal(history.DefaultListLimit))
		Expect(history.NormalizeLimit(7)).To(Equal(7))
	})
})
