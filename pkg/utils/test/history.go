package testutils

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aiscore/pkg/history"
)

// MockHistoryDriver is a history driver that records Put calls and can be
// made to fail.
type MockHistoryDriver struct {
	mu      sync.Mutex
	Records []*history.Record

	// FailPut causes Put to return an error.
	FailPut bool
}

func (m *MockHistoryDriver) Put(_ context.Context, rec *history.Record) error {
	if m.FailPut {
		return errors.New("mock history failure")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, rec)
	return nil
}

func (m *MockHistoryDriver) Get(_ context.Context, id string) (*history.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.Records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, history.NotFoundError{ID: id}
}

func (m *MockHistoryDriver) List(_ context.Context, limit int) ([]*history.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	limit = history.NormalizeLimit(limit)
	out := make([]*history.Record, 0, limit)
	for i := len(m.Records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.Records[i])
	}
	return out, nil
}

func (m *MockHistoryDriver) Close() error {
	return nil
}

// Puts returns the number of stored records.
func (m *MockHistoryDriver) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Records)
}

// DescribeHistoryDriver declares the behavior every history.Driver shares.
// newDriver is called before each spec; the driver is closed afterwards.
func DescribeHistoryDriver(newDriver func() history.Driver) {
	var (
		driver history.Driver
		ctx    context.Context
		base   time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
		driver = newDriver()
	})

	AfterEach(func() {
		if driver != nil {
			Expect(driver.Close()).To(Succeed())
			driver = nil
		}
	})

	It("stores and retrieves a record", func() {
		rec := NewTestRecord("rec-1", 0.42, base)
		Expect(driver.Put(ctx, rec)).To(Succeed())

		got, err := driver.Get(ctx, "rec-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.ID).To(Equal("rec-1"))
		Expect(got.Provider).To(Equal(rec.Provider))
		Expect(got.AIScore).To(Equal(0.42))
		Expect(got.WordCount).To(Equal(rec.WordCount))
		Expect(got.CharCount).To(Equal(rec.CharCount))
		Expect(got.Duration).To(Equal(rec.Duration))
		Expect(got.CreatedAt.Equal(base)).To(BeTrue())
	})

	It("returns NotFoundError for unknown ids", func() {
		_, err := driver.Get(ctx, "missing")
		Expect(err).To(HaveOccurred())
		Expect(history.IsNotFound(err)).To(BeTrue())
	})

	It("rejects nil records", func() {
		Expect(driver.Put(ctx, nil)).To(MatchError(history.ErrNilRecord))
	})

	It("ignores a second write of the same id", func() {
		Expect(driver.Put(ctx, NewTestRecord("dup", 0.1, base))).To(Succeed())
		Expect(driver.Put(ctx, NewTestRecord("dup", 0.9, base))).To(Succeed())

		got, err := driver.Get(ctx, "dup")
		Expect(err).NotTo(HaveOccurred())
		Expect(got.AIScore).To(Equal(0.1))

		all, err := driver.List(ctx, 10)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(1))
	})

	It("lists most recent first and honors the limit", func() {
		for i, id := range []string{"a", "b", "c"} {
			Expect(driver.Put(ctx, NewTestRecord(id, 0.5, base.Add(time.Duration(i)*time.Minute)))).To(Succeed())
		}

		recs, err := driver.List(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(2))
		Expect(recs[0].ID).To(Equal("c"))
		Expect(recs[1].ID).To(Equal("b"))
	})

	It("uses the default limit for non-positive values", func() {
		for i := range history.DefaultListLimit + 5 {
			rec := NewTestRecord(string(rune('A'+i)), 0.5, base.Add(time.Duration(i)*time.Second))
			Expect(driver.Put(ctx, rec)).To(Succeed())
		}

		recs, err := driver.List(ctx, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(HaveLen(history.DefaultListLimit))
	})

	It("returns an empty list when nothing is stored", func() {
		recs, err := driver.List(ctx, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(recs).To(BeEmpty())
	})
}
