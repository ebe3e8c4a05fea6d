package enrich

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// ClassifySuite tests the user-agent classification rules. Ordering is
// contract, so the suite pins the first-match-wins behavior explicitly.
type ClassifySuite struct {
	suite.Suite
}

func TestClassifySuite(t *testing.T) {
	suite.Run(t, new(ClassifySuite))
}

func (s *ClassifySuite) TestBrowserClassification() {
	s.Run("chrome on windows desktop", func() {
		ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
		info := Classify(ua)
		s.Equal("Chrome", info.Browser)
		s.Equal("Windows", info.OS)
		s.Equal("Desktop", info.Device)
	})

	s.Run("firefox wins over chrome substring", func() {
		info := Classify("Firefox Chrome")
		s.Equal("Firefox", info.Browser)
	})

	s.Run("edge user agents classify as chrome because chrome is checked first", func() {
		ua := "Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 Chrome/120.0.0.0 Safari/537.36 Edge/120.0"
		s.Equal("Chrome", Classify(ua).Browser)
	})

	s.Run("unmatched browser is unknown", func() {
		s.Equal("Unknown", Classify("curl/8.0").Browser)
	})
}

func (s *ClassifySuite) TestOSClassification() {
	s.Run("mac maps to MacOS", func() {
		ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 Safari/537.36"
		s.Equal("MacOS", Classify(ua).OS)
	})

	s.Run("android after linux in rule order", func() {
		// Android user agents contain "Linux", so rule order makes them Linux.
		ua := "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 Chrome/120.0 Mobile Safari/537.36"
		s.Equal("Linux", Classify(ua).OS)
	})

	s.Run("unmatched OS is unknown", func() {
		s.Equal("Unknown", Classify("curl/8.0").OS)
	})
}

func (s *ClassifySuite) TestDeviceClassification() {
	s.Run("mobile beats every other substring", func() {
		s.Equal("Mobile", Classify("Tablet Mobile Desktop whatever").Device)
	})

	s.Run("tablet when no mobile", func() {
		s.Equal("Tablet", Classify("Android Tablet Chrome").Device)
	})

	s.Run("neither mobile nor tablet is desktop", func() {
		s.Equal("Desktop", Classify("Mozilla/5.0 (Windows NT 10.0) Chrome/120.0").Device)
	})

	s.Run("empty user agent is desktop with unknowns", func() {
		info := Classify("")
		s.Equal("Unknown", info.Browser)
		s.Equal("Unknown", info.OS)
		s.Equal("Desktop", info.Device)
	})
}
