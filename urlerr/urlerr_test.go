package urlerr_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/region23/weburl/urlerr"
)

var _ = Describe("Kind", func() {
	It("classifies fatal vs non-fatal", func() {
		Expect(urlerr.InvalidURLCodePoint.Fatal()).To(BeFalse())
		Expect(urlerr.InvalidScheme.Fatal()).To(BeTrue())
		Expect(urlerr.PortOutOfRange.Fatal()).To(BeTrue())
	})

	It("has a description for every kind used in wrapping", func() {
		Expect(urlerr.InvalidIPv4Address.String()).NotTo(BeEmpty())
		Expect(urlerr.InvalidIPv6Address.String()).NotTo(BeEmpty())
		Expect(urlerr.IPv6InvalidIPv4Tail.String()).NotTo(BeEmpty())
	})
})

var _ = Describe("Error wrapping", func() {
	It("wraps a cause and unwraps it", func() {
		inner := urlerr.New(urlerr.IPv4PartOutOfRange)
		outer := urlerr.Wrap(urlerr.IPv6InvalidIPv4Tail, inner)
		Expect(outer.Unwrap()).To(Equal(inner))

		k, ok := urlerr.AsError(outer)
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal(urlerr.IPv6InvalidIPv4Tail))
	})
})

var _ = Describe("sinks", func() {
	It("NoopSink discards", func() {
		var s urlerr.NoopSink
		s.Report(urlerr.InvalidScheme) // must not panic
	})

	It("LastErrorSink keeps only the latest", func() {
		s := &urlerr.LastErrorSink{}
		s.Report(urlerr.InvalidScheme)
		s.Report(urlerr.PortOutOfRange)
		Expect(s.Has).To(BeTrue())
		Expect(s.Last).To(Equal(urlerr.PortOutOfRange))
	})

	It("CollectingSink keeps all in order", func() {
		s := &urlerr.CollectingSink{}
		s.Report(urlerr.InvalidScheme)
		s.Report(urlerr.PortOutOfRange)
		Expect(s.Errors).To(Equal([]urlerr.Kind{urlerr.InvalidScheme, urlerr.PortOutOfRange}))
	})
})
