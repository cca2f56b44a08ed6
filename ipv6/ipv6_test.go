package ipv6_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/region23/weburl/ipv6"
	"github.com/region23/weburl/urlerr"
)

var _ = Describe("Parse", func() {
	It("parses 8 explicit pieces", func() {
		a, err := ipv6.Parse([]byte("2001:db8:1f70:0:999:de8:7648:6e8"))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(ipv6.Addr{0x2001, 0x0db8, 0x1f70, 0, 0x999, 0x0de8, 0x7648, 0x06e8}))
	})

	It("compresses a run of zero pieces in the middle", func() {
		a, err := ipv6.Parse([]byte("2001:db8::1"))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(ipv6.Addr{0x2001, 0x0db8, 0, 0, 0, 0, 0, 1}))
	})

	It("parses an embedded IPv4 tail", func() {
		a, err := ipv6.Parse([]byte("::ffff:1.2.3.4"))
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(ipv6.Addr{0, 0, 0, 0, 0, 0xffff, 0x0102, 0x0304}))
	})

	It("rejects more than one ::", func() {
		_, err := ipv6.Parse([]byte("1::2::3"))
		Expect(err).To(HaveOccurred())
		k, ok := urlerr.AsError(err)
		Expect(ok).To(BeTrue())
		Expect(k).To(Equal(urlerr.IPv6MultipleCompression))
	})

	It("rejects too few pieces without compression", func() {
		_, err := ipv6.Parse([]byte("1:2:3:4:5:6:7"))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a lone leading colon", func() {
		_, err := ipv6.Parse([]byte(":1:2:3:4:5:6:7"))
		k, _ := urlerr.AsError(err)
		Expect(k).To(Equal(urlerr.IPv6UnexpectedLeadingColon))
	})

	It("rejects an invalid embedded IPv4 tail", func() {
		_, err := ipv6.Parse([]byte("::ffff:999.2.3.4"))
		k, _ := urlerr.AsError(err)
		Expect(k).To(Equal(urlerr.IPv6InvalidIPv4Tail))
	})
})

var _ = Describe("Serialize", func() {
	It("produces RFC 5952 form for the embedded-IPv4 example", func() {
		a, _ := ipv6.Parse([]byte("::ffff:1.2.3.4"))
		Expect(ipv6.SerializeString(a)).To(Equal("::ffff:102:304"))
	})

	It("round-trips through Parse", func() {
		for _, s := range []string{"2001:db8::1", "::1", "1:2:3:4:5:6:7:8", "::"} {
			a, err := ipv6.Parse([]byte(s))
			Expect(err).NotTo(HaveOccurred())
			a2, err := ipv6.Parse(ipv6.Serialize(a))
			Expect(err).NotTo(HaveOccurred())
			Expect(a2).To(Equal(a))
		}
	})
})
