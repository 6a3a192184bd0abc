package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractItems(t *testing.T) {
	xml := `<items><item><a>1</a></item><item><a>2</a></item></items>`

	items := extractItems(xml)

	assert.Len(t, items, 2)
	assert.Equal(t, "<a>1</a>", items[0])
}

func TestExtractItems_None(t *testing.T) {
	assert.Empty(t, extractItems(`<items></items>`))
}

func TestExtractValue(t *testing.T) {
	xml := `<dutyTel1> 02-1234-5678 </dutyTel1>`

	assert.Equal(t, "02-1234-5678", extractValue(xml, "dutyTel1"))
	assert.Equal(t, "", extractValue(xml, "dutyTel2"))
}

func TestExtractValue_ToleratesBareAmpersand(t *testing.T) {
	// The upstream sometimes emits unescaped ampersands in plain fields.
	xml := `<dutyName>A & B</dutyName><dutyTel1>02-1</dutyTel1>`

	assert.Equal(t, "02-1", extractValue(xml, "dutyTel1"))
}

func TestExtractValueCDATA(t *testing.T) {
	xml := `<dutyName><![CDATA[서울중앙병원 & 응급센터]]></dutyName>`

	assert.Equal(t, "서울중앙병원 & 응급센터", extractValueCDATA(xml, "dutyName"))
}

func TestExtractValueCDATA_FallsBackToPlain(t *testing.T) {
	xml := `<dutyName>한강종합병원</dutyName>`

	assert.Equal(t, "한강종합병원", extractValueCDATA(xml, "dutyName"))
}

func TestExtractInt(t *testing.T) {
	assert.Equal(t, 7, extractInt(`<hvec>7</hvec>`, "hvec"))
	assert.Equal(t, 0, extractInt(`<hvec>없음</hvec>`, "hvec"))
	assert.Equal(t, 0, extractInt(``, "hvec"))
	assert.Equal(t, -2, extractInt(`<hvec>-2</hvec>`, "hvec"))
}

func TestExtractFloat(t *testing.T) {
	assert.Equal(t, 37.5665, extractFloat(`<wgs84Lat>37.5665</wgs84Lat>`, "wgs84Lat"))
	assert.Equal(t, 0.0, extractFloat(`<wgs84Lat>n/a</wgs84Lat>`, "wgs84Lat"))
}
