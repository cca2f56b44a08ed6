package ipv4_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/region23/weburl/ipv4"
)

var _ = Describe("Parse", func() {
	It("parses 4 decimal pieces", func() {
		r := ipv4.Parse([]byte("127.0.0.1"))
		Expect(r.Status).To(Equal(ipv4.Success))
		Expect(r.Addr).To(Equal(uint32(0x7F000001)))
	})

	It("resolves a hex piece in 2-piece shorthand", func() {
		r := ipv4.Parse([]byte("0x7f.1"))
		Expect(r.Status).To(Equal(ipv4.Success))
		Expect(r.Addr).To(Equal(uint32(0x7F000001)))
	})

	It("assembles 1-piece, 2-piece and 3-piece shorthand", func() {
		Expect(ipv4.Parse([]byte("2130706433")).Addr).To(Equal(uint32(0x7F000001)))
		Expect(ipv4.Parse([]byte("127.1")).Addr).To(Equal(uint32(0x7F000001)))
		Expect(ipv4.Parse([]byte("127.0.1")).Addr).To(Equal(uint32(0x7F000001)))
	})

	It("allows a single trailing dot", func() {
		r := ipv4.Parse([]byte("127.0.0.1."))
		Expect(r.Status).To(Equal(ipv4.Success))
	})

	It("treats a non-numeric label as not an IP address", func() {
		r := ipv4.Parse([]byte("example.com"))
		Expect(r.Status).To(Equal(ipv4.NotAnIPAddress))
	})

	It("fails (not falls back) when a field overflows", func() {
		r := ipv4.Parse([]byte("256.0.0.1"))
		Expect(r.Status).To(Equal(ipv4.Failure))
	})

	It("treats more than 4 pieces as not an IP address", func() {
		r := ipv4.Parse([]byte("1.2.3.4.5"))
		Expect(r.Status).To(Equal(ipv4.NotAnIPAddress))
	})

	It("round-trips through Serialize", func() {
		r := ipv4.Parse([]byte("192.168.1.42"))
		Expect(r.Status).To(Equal(ipv4.Success))
		Expect(ipv4.SerializeString(r.Addr)).To(Equal("192.168.1.42"))
	})
})

var _ = Describe("ParseSimple", func() {
	It("accepts exactly 4 plain decimal pieces", func() {
		addr, ok := ipv4.ParseSimple([]byte("1.2.3.4"))
		Expect(ok).To(BeTrue())
		Expect(addr).To(Equal(uint32(0x01020304)))
	})

	It("rejects leading zeros, hex, octal, and non-4-piece input", func() {
		_, ok := ipv4.ParseSimple([]byte("01.2.3.4"))
		Expect(ok).To(BeFalse())
		_, ok = ipv4.ParseSimple([]byte("0x1.2.3.4"))
		Expect(ok).To(BeFalse())
		_, ok = ipv4.ParseSimple([]byte("1.2.3"))
		Expect(ok).To(BeFalse())
		_, ok = ipv4.ParseSimple([]byte("1.2.3.4."))
		Expect(ok).To(BeFalse())
	})
})
