package answer

import "strconv"

var englishOnes = []string{
	"zero", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen", "seventeen",
	"eighteen", "nineteen",
}

var englishTens = []string{
	"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety",
}

// englishNumberWords: 영어 0-99. 21-99 합성어는 하이픈/공백 표기를 모두 포함한다.
func englishNumberWords() map[string]string {
	out := make(map[string]string, 200)
	for n, w := range englishOnes {
		out[w] = strconv.Itoa(n)
	}
	for tens := 2; tens <= 9; tens++ {
		out[englishTens[tens]] = strconv.Itoa(tens * 10)
		for one := 1; one <= 9; one++ {
			n := strconv.Itoa(tens*10 + one)
			out[englishTens[tens]+"-"+englishOnes[one]] = n
			out[englishTens[tens]+" "+englishOnes[one]] = n
		}
	}
	return out
}

var spanishUnits = []string{
	"cero", "uno", "dos", "tres", "cuatro", "cinco", "seis", "siete", "ocho", "nueve",
	"diez", "once", "doce", "trece", "catorce", "quince",
	"dieciséis", "diecisiete", "dieciocho", "diecinueve",
	"veinte", "veintiuno", "veintidós", "veintitrés", "veinticuatro", "veinticinco",
	"veintiséis", "veintisiete", "veintiocho", "veintinueve",
}

var spanishTens = []string{
	"", "", "", "treinta", "cuarenta", "cincuenta", "sesenta", "setenta", "ochenta", "noventa",
}

// 악센트 없이 쓰는 흔한 철자와 성/어미 변형.
var spanishVariants = map[string]string{
	"un":         "1",
	"una":        "1",
	"dieciseis":  "16",
	"veintiún":   "21",
	"veintiun":   "21",
	"veintiuna":  "21",
	"veintidos":  "22",
	"veintitres": "23",
	"veintiseis": "26",
	"cien":       "100",
	"ciento":     "100",
}

// spanishNumberWords: 스페인어 0-100. 31-99 는 "treinta y uno" 형태.
func spanishNumberWords() map[string]string {
	out := make(map[string]string, 120)
	for n, w := range spanishUnits {
		out[w] = strconv.Itoa(n)
	}
	for tens := 3; tens <= 9; tens++ {
		out[spanishTens[tens]] = strconv.Itoa(tens * 10)
		for one := 1; one <= 9; one++ {
			out[spanishTens[tens]+" y "+spanishUnits[one]] = strconv.Itoa(tens*10 + one)
		}
	}
	for w, n := range spanishVariants {
		out[w] = n
	}
	return out
}
