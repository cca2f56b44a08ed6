package ascii_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/region23/weburl/ascii"
)

var _ = Describe("classification", func() {
	It("classifies alpha/digit/alphanumeric/hex", func() {
		Expect(ascii.IsAlpha('a')).To(BeTrue())
		Expect(ascii.IsAlpha('9')).To(BeFalse())
		Expect(ascii.IsDigit('9')).To(BeTrue())
		Expect(ascii.IsAlphanumeric('z')).To(BeTrue())
		Expect(ascii.IsHexDigit('f')).To(BeTrue())
		Expect(ascii.IsHexDigit('g')).To(BeFalse())
	})

	It("parses digit values and signals NotFound on miss", func() {
		Expect(ascii.HexDigitValue('a')).To(Equal(10))
		Expect(ascii.HexDigitValue('F')).To(Equal(15))
		Expect(ascii.HexDigitValue('g')).To(Equal(ascii.NotFound))
		Expect(ascii.DecDigitValue('7')).To(Equal(7))
		Expect(ascii.DecDigitValue('a')).To(Equal(ascii.NotFound))
	})

	It("identifies forbidden host code points", func() {
		for _, c := range []byte("\x00\t\n\r #%/:<>?@[\\]^") {
			Expect(ascii.IsForbiddenHostCodePoint(c)).To(BeTrue(), string(c))
		}
		Expect(ascii.IsForbiddenHostCodePoint('a')).To(BeFalse())
	})
})

var _ = Describe("numeric writing", func() {
	It("writes decimal", func() {
		buf := make([]byte, 10)
		n := ascii.WriteDecimal(buf, 0)
		Expect(string(buf[:n])).To(Equal("0"))
		n = ascii.WriteDecimal(buf, 127)
		Expect(string(buf[:n])).To(Equal("127"))
	})

	It("writes hex without leading zeros", func() {
		buf := make([]byte, 8)
		n := ascii.WriteHex(buf, 0)
		Expect(string(buf[:n])).To(Equal("0"))
		n = ascii.WriteHex(buf, 0x102)
		Expect(string(buf[:n])).To(Equal("102"))
	})
})

var _ = Describe("NextURLCodePoint", func() {
	It("accepts ordinary ASCII", func() {
		size, ok := ascii.NextURLCodePoint([]byte("a"))
		Expect(size).To(Equal(1))
		Expect(ok).To(BeTrue())
	})

	It("rejects control characters and backtick-quote-angle-brackets", func() {
		for _, c := range []byte{0x01, '"', '<', '>', '`'} {
			_, ok := ascii.NextURLCodePoint([]byte{c})
			Expect(ok).To(BeFalse())
		}
	})

	It("accepts a multi-byte emoji and reports its length", func() {
		size, ok := ascii.NextURLCodePoint([]byte("😎"))
		Expect(size).To(Equal(4))
		Expect(ok).To(BeTrue())
	})

	It("rejects noncharacters", func() {
		_, ok := ascii.NextURLCodePoint([]byte{0xEF, 0xB7, 0x90}) // U+FDD0
		Expect(ok).To(BeFalse())
	})
})
