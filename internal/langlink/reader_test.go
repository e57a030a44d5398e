package langlink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRowTuplesFiltersToEsperanto(t *testing.T) {
	rows := parseRowTuples(`(1,'eo','Hundo'),(1,'fr','Chien'),(2,'eo','Kato')`)
	assert.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].fromPageID)
	assert.Equal(t, "Hundo", rows[0].eoTitle)
	assert.Equal(t, int64(2), rows[1].fromPageID)
	assert.Equal(t, "Kato", rows[1].eoTitle)
}

func TestParseRowTuplesHandlesEscapedQuotes(t *testing.T) {
	rows := parseRowTuples(`(5,'eo','L\'hirondo')`)
	assert.Len(t, rows, 1)
	assert.Equal(t, "L'hirondo", rows[0].eoTitle)
}

func TestUnquoteSQLStripsSingleQuotes(t *testing.T) {
	assert.Equal(t, "Hundo", unquoteSQL(`'Hundo'`))
}
