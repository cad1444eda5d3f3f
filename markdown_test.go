package papertrade

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFencedBlocks(t *testing.T) {
	src := "Here is my plan:\n\n```json\n[{\"action\":\"HOLD\"}]\n```\n\nand\n\n```\nBUY 1 X\n```\n"
	assert.Equal(t, []string{"[{\"action\":\"HOLD\"}]\n", "BUY 1 X\n"}, fencedBlocks([]byte(src)))
	assert.Empty(t, fencedBlocks([]byte("no code here")))
}

func TestPlainLines(t *testing.T) {
	src := "# Decision\n\n- **BUY** 10 shares of `AAPL`\n- sell 5 [MSFT](https://example.com) at $300\n"
	assert.Equal(t, []string{
		"Decision",
		"BUY 10 shares of AAPL",
		"sell 5 MSFT at $300",
	}, plainLines([]byte(src)))
}
