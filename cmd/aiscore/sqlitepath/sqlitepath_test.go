package sqlitepath

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ResolveSQLitePath", func() {
	BeforeEach(func() {
		GinkgoT().Setenv("XDG_DATA_HOME", "")
	})

	It("prefers an explicit path", func() {
		path, err := ResolveSQLitePath(" /tmp/custom.db ", "")
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal("/tmp/custom.db"))
	})

	It("uses an existing database under XDG_DATA_HOME", func() {
		xdg := GinkgoT().TempDir()
		GinkgoT().Setenv("XDG_DATA_HOME", xdg)

		dbPath := filepath.Join(xdg, "aiscore", DefaultFileName)
		Expect(os.MkdirAll(filepath.Dir(dbPath), 0o755)).To(Succeed())
		Expect(os.WriteFile(dbPath, []byte("test"), 0o644)).To(Succeed())

		path, err := ResolveSQLitePath("", GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(dbPath))
	})

	It("falls back to the config directory", func() {
		configDir := GinkgoT().TempDir()

		path, err := ResolveSQLitePath("", configDir)
		Expect(err).NotTo(HaveOccurred())

		abs, err := filepath.Abs(configDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(path).To(Equal(filepath.Join(abs, DefaultFileName)))
	})
})
