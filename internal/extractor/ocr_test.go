package extractor

import (
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRecognitionAvailable(t *testing.T) {
	// The result depends on the host; verify consistency with direct checks.
	result := IsRecognitionAvailable()
	t.Logf("IsRecognitionAvailable() = %v", result)

	_, err1 := exec.LookPath("pdftoppm")
	_, err2 := exec.LookPath("tesseract")
	expected := err1 == nil && err2 == nil
	assert.Equal(t, expected, result)
}

const sampleTSV = `level	page_num	block_num	par_num	line_num	word_num	left	top	width	height	conf	text
1	1	0	0	0	0	0	0	1000	1400	-1
4	1	1	1	1	0	10	10	500	20	-1
5	1	1	1	1	1	10	10	80	20	96.5	01/05/2024
5	1	1	1	1	2	100	10	120	20	91.2	GROCERY
5	1	1	1	1	3	230	10	60	20	88.3	MART
5	1	1	1	2	1	10	40	60	20	84.0	45.50
5	1	1	1	2	2	80	40	10	20	-1	 `

func TestParseTSV(t *testing.T) {
	text, conf := parseTSV(sampleTSV)

	assert.Equal(t, "01/05/2024 GROCERY MART\n45.50", text)
	// Mean of 96.5, 91.2, 88.3, 84.0; negative-confidence rows excluded.
	assert.InDelta(t, 90.0, conf, 0.001)
}

func TestParseTSVEmpty(t *testing.T) {
	text, conf := parseTSV("")
	assert.Empty(t, text)
	assert.Zero(t, conf)
}

func TestCharWhitelistCoversStatementText(t *testing.T) {
	// Every character the parser's transaction grammar relies on must stay
	// recognizable.
	for _, r := range "01/05/2024 GROCERY-MART #42 $1,234.56 +" {
		assert.True(t, strings.ContainsRune(charWhitelist, r), "missing %q", r)
	}
}
