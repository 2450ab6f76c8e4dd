package db

import (
	"strconv"
	"strings"
)

// VectorParam renders a float32 vector as a pgvector literal ("[0.1,0.2]")
// suitable for binding to a $n::vector placeholder.
func VectorParam(v []float32) string {
	var b strings.Builder
	b.Grow(len(v)*10 + 2)
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
