// Package quotation arma la proyección imprimible de una cotización (cotización o proforma).
package quotation

import (
	"sort"
	"strconv"
	"strings"

	"github.com/WMASewwandi/clovesis-sub003/internal/domain/entity"
)

var embellishmentNames = map[entity.EmbellishmentType]string{
	entity.EmbellishmentEmbroider:   "EMBROIDER",
	entity.EmbellishmentSublimation: "SUBLIMATION",
	entity.EmbellishmentScreenPrint: "SCREEN PRINT",
	entity.EmbellishmentDTF:         "DTF",
}

// EmbellishmentName nombre impreso de un código de acabado; "" si no es conocido.
func EmbellishmentName(code int) string {
	return embellishmentNames[entity.EmbellishmentType(code)]
}

// FormatEmbellishments convierte los códigos de acabado de una línea en una lista numerada,
// un acabado por renglón y en orden de código. Los códigos desconocidos o cero se ignoran.
//
//	[3, 1] → "1. EMBROIDER\n2. SCREEN PRINT"
func FormatEmbellishments(codes []int) string {
	known := make([]int, 0, len(codes))
	for _, c := range codes {
		if EmbellishmentName(c) != "" {
			known = append(known, c)
		}
	}
	sort.Ints(known)

	var b strings.Builder
	for i, c := range known {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(EmbellishmentName(c))
	}
	return b.String()
}
