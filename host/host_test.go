package host_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/region23/weburl/host"
	"github.com/region23/weburl/urlerr"
)

var _ = Describe("Parse", func() {
	It("returns Empty for an empty input", func() {
		h, err := host.Parse(nil, false, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Kind).To(Equal(host.Empty))
	})

	It("parses a bracketed IPv6 literal", func() {
		h, err := host.Parse([]byte("[2001:db8::1]"), false, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Kind).To(Equal(host.IPv6))
		Expect(h.String()).To(Equal("[2001:db8::1]"))
	})

	It("lowercases and returns a domain", func() {
		h, err := host.Parse([]byte("EXAMPLE.com"), false, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Kind).To(Equal(host.Domain))
		Expect(h.Domain).To(Equal("example.com"))
	})

	It("recognizes an IPv4 domain after normalization, including hex shorthand", func() {
		h, err := host.Parse([]byte("0x7f.1"), false, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Kind).To(Equal(host.IPv4))
		Expect(h.String()).To(Equal("127.0.0.1"))
	})

	It("rejects non-ASCII domains (no full IDNA)", func() {
		_, err := host.Parse([]byte("exämple.com"), false, nil)
		Expect(err).To(HaveOccurred())
		k, _ := urlerr.AsError(err)
		Expect(k).To(Equal(urlerr.DomainToASCIIFailure))
	})

	It("rejects a forbidden host code point in a domain", func() {
		_, err := host.Parse([]byte("exa mple.com"), false, nil)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a forbidden code point in an opaque host", func() {
		_, err := host.Parse([]byte("a/b"), true, nil)
		Expect(err).To(HaveOccurred())
		k, _ := urlerr.AsError(err)
		Expect(k).To(Equal(urlerr.OpaqueHostForbiddenCodePoint))
	})

	It("parses a valid opaque host", func() {
		h, err := host.Parse([]byte("example!host"), true, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Kind).To(Equal(host.Opaque))
		Expect(h.Opaque).To(Equal("example!host"))
	})
})
