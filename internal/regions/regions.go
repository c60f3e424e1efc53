package regions

import "strings"

// Sido lists the first-level administrative divisions accepted as Q0.
var Sido = []string{
	"서울특별시", "부산광역시", "대구광역시", "인천광역시",
	"광주광역시", "대전광역시", "울산광역시", "세종특별자치시",
	"경기도", "강원특별자치도", "충청북도", "충청남도",
	"전북특별자치도", "전라남도", "경상북도", "경상남도", "제주특별자치도",
}

// IsSido reports whether name is a known province or metropolitan city.
func IsSido(name string) bool {
	name = strings.TrimSpace(name)
	for _, s := range Sido {
		if s == name {
			return true
		}
	}
	return false
}

// Region is a sido with an optional sigungu.
type Region struct {
	Sido    string `json:"sido"`
	Sigungu string `json:"sigungu,omitempty"`
}

// String renders "sido sigungu", or just the sido.
func (r Region) String() string {
	if r.Sigungu == "" {
		return r.Sido
	}
	return r.Sido + " " + r.Sigungu
}

// ParseList parses "sido:sigungu;sido:;sido" into regions, skipping blanks.
func ParseList(list string) []Region {
	var out []Region
	for _, part := range strings.Split(list, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sido, sigungu, _ := strings.Cut(part, ":")
		sido = strings.TrimSpace(sido)
		if sido == "" {
			continue
		}
		out = append(out, Region{Sido: sido, Sigungu: strings.TrimSpace(sigungu)})
	}
	return out
}
