package entities

import "strings"

// ZodiacSign is stored in its lowercase Russian form.
type ZodiacSign string

const (
	SignAries       ZodiacSign = "овен"
	SignTaurus      ZodiacSign = "телец"
	SignGemini      ZodiacSign = "близнецы"
	SignCancer      ZodiacSign = "рак"
	SignLeo         ZodiacSign = "лев"
	SignVirgo       ZodiacSign = "дева"
	SignLibra       ZodiacSign = "весы"
	SignScorpio     ZodiacSign = "скорпион"
	SignSagittarius ZodiacSign = "стрелец"
	SignCapricorn   ZodiacSign = "козерог"
	SignAquarius    ZodiacSign = "водолей"
	SignPisces      ZodiacSign = "рыбы"
)

// ZodiacSigns lists the signs in calendar order.
var ZodiacSigns = []ZodiacSign{
	SignAries, SignTaurus, SignGemini, SignCancer, SignLeo, SignVirgo,
	SignLibra, SignScorpio, SignSagittarius, SignCapricorn, SignAquarius, SignPisces,
}

var zodiacSlugs = map[ZodiacSign]string{
	SignAries:       "aries",
	SignTaurus:      "taurus",
	SignGemini:      "gemini",
	SignCancer:      "cancer",
	SignLeo:         "leo",
	SignVirgo:       "virgo",
	SignLibra:       "libra",
	SignScorpio:     "scorpio",
	SignSagittarius: "sagittarius",
	SignCapricorn:   "capricorn",
	SignAquarius:    "aquarius",
	SignPisces:      "pisces",
}

// ParseZodiacSign accepts Russian or English sign names in any letter case.
func ParseZodiacSign(s string) (ZodiacSign, bool) {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	for sign, slug := range zodiacSlugs {
		if s == string(sign) || s == slug {
			return sign, true
		}
	}
	return "", false
}

// Slug is the English name used by horoscope sources.
func (z ZodiacSign) Slug() string {
	if slug, ok := zodiacSlugs[z]; ok {
		return slug
	}
	return zodiacSlugs[SignAries]
}
