package inmemory_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/history"
	"github.com/papercomputeco/aiscore/pkg/history/inmemory"
	testutils "github.com/papercomputeco/aiscore/pkg/utils/test"
)

var _ = Describe("Driver", func() {
	testutils.DescribeHistoryDriver(func() history.Driver {
		return inmemory.NewDriver()
	})

	It("returns copies so callers cannot mutate stored records", func() {
		ctx := context.Background()
		d := inmemory.NewDriver()
		Expect(d.Put(ctx, testutils.NewTestRecord("r", 0.2, time.Now()))).To(Succeed())

		got, err := d.Get(ctx, "r")
		Expect(err).NotTo(HaveOccurred())
		got.AIScore = 0.99

		again, err := d.Get(ctx, "r")
		Expect(err).NotTo(HaveOccurred())
		Expect(again.AIScore).To(Equal(0.2))
	})

	It("orders equal timestamps latest insert first", func() {
		ctx := context.Background()
		d := inmemory.NewDriver()
		ts := time.Now()
		Expect(d.Put(ctx, testutils.NewTestRecord("first", 0.2, ts))).To(Succeed())
		Expect(d.Put(ctx, testutils.NewTestRecord("second", 0.2, ts))).To(Succeed())

		recs, err := d.List(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(recs[0].ID).To(Equal("second"))
	})
})
