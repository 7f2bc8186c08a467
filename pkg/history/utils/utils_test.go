package historyutils_test

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/history/inmemory"
	"github.com/papercomputeco/aiscore/pkg/history/sqlite"
	historyutils "github.com/papercomputeco/aiscore/pkg/history/utils"
)

var _ = Describe("NewDriver", func() {
	ctx := context.Background()

	It("defaults to the in-memory driver", func() {
		d, err := historyutils.NewDriver(ctx, &historyutils.NewDriverOpts{})
		Expect(err).NotTo(HaveOccurred())
		Expect(d).To(BeAssignableToTypeOf(&inmemory.Driver{}))
	})

	It("opens SQLite at the given path", func() {
		d, err := historyutils.NewDriver(ctx, &historyutils.NewDriverOpts{
			Driver:     historyutils.DriverSQLite,
			SQLitePath: filepath.Join(GinkgoT().TempDir(), "h.db"),
		})
		Expect(err).NotTo(HaveOccurred())
		defer d.Close()
		Expect(d).To(BeAssignableToTypeOf(&sqlite.Driver{}))
	})

	It("requires a path for SQLite", func() {
		_, err := historyutils.NewDriver(ctx, &historyutils.NewDriverOpts{Driver: historyutils.DriverSQLite})
		Expect(err).To(MatchError(ContainSubstring("requires a database path")))
	})

	It("requires a DSN for PostgreSQL", func() {
		_, err := historyutils.NewDriver(ctx, &historyutils.NewDriverOpts{Driver: historyutils.DriverPostgres})
		Expect(err).To(MatchError(ContainSubstring("requires a connection string")))
	})

	It("rejects unknown drivers", func() {
		_, err := historyutils.NewDriver(ctx, &historyutils.NewDriverOpts{Driver: "mongo"})
		Expect(err).To(MatchError("unsupported history driver: mongo"))
	})
})
