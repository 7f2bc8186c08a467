package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/history"
	"github.com/papercomputeco/aiscore/pkg/history/sqlite"
	testutils "github.com/papercomputeco/aiscore/pkg/utils/test"
)

var _ = Describe("Driver", func() {
	testutils.DescribeHistoryDriver(func() history.Driver {
		d, err := sqlite.NewDriver(context.Background(), ":memory:")
		Expect(err).NotTo(HaveOccurred())
		return d
	})

	Describe("NewDriver", func() {
		It("creates a database file and reopens it with data intact", func() {
			ctx := context.Background()
			dbPath := filepath.Join(GinkgoT().TempDir(), "history.db")

			d, err := sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Put(ctx, testutils.NewTestRecord("persisted", 0.66, time.Now()))).To(Succeed())
			Expect(d.Close()).To(Succeed())

			_, err = os.Stat(dbPath)
			Expect(err).NotTo(HaveOccurred())

			d, err = sqlite.NewDriver(ctx, dbPath)
			Expect(err).NotTo(HaveOccurred())
			defer d.Close()

			got, err := d.Get(ctx, "persisted")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.AIScore).To(Equal(0.66))
		})

		It("fails for a path in a missing directory", func() {
			_, err := sqlite.NewDriver(context.Background(), "/nonexistent/dir/history.db")
			Expect(err).To(HaveOccurred())
		})
	})
})
