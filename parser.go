package papertrade

import (
	"encoding/json"
	"regexp"
	"slices"
	"strings"
)

// strategy attempts to read instructions from an advisor text.
// It reports false when the text is not in the shape it understands.
type strategy func(text string) ([]Instruction, bool)

// strategies are attempted in order, the first one that recognizes the text wins.
var strategies = []strategy{
	parseObject,
	parseArray,
	parseEmbedded,
	parseSentences,
}

// ParseInstructions extracts the trade instructions from an advisor text, in the
// order they appear.
//
// The text can be a single JSON object, a JSON array of objects, prose that
// embeds such JSON (possibly in markdown code blocks) or plain sentences like
// "BUY 100 shares of AAPL at $150.00". Text without any instruction yields an
// empty slice, never an error.
func ParseInstructions(text string) []Instruction {
	for _, s := range strategies {
		if ins, ok := s(text); ok {
			return ins
		}
	}
	return []Instruction{}
}

// parseObject reads the whole text as one instruction object.
func parseObject(text string) ([]Instruction, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "{") {
		return nil, false
	}
	var ins Instruction
	if err := json.Unmarshal([]byte(text), &ins); err != nil {
		return nil, false
	}
	return []Instruction{ins}, true
}

// parseArray reads the whole text as an array of instruction objects.
func parseArray(text string) ([]Instruction, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "[") {
		return nil, false
	}
	var ins []Instruction
	if err := json.Unmarshal([]byte(text), &ins); err != nil {
		return nil, false
	}
	if ins == nil {
		ins = []Instruction{}
	}
	return ins, true
}

// parseStructured reads a fragment either as an object or as an array.
func parseStructured(fragment string) ([]Instruction, bool) {
	if ins, ok := parseObject(fragment); ok {
		return ins, true
	}
	return parseArray(fragment)
}

// parseEmbedded looks for JSON inside the text: first in markdown code blocks,
// then in every balanced {...} or [...] fragment of the prose.
func parseEmbedded(text string) ([]Instruction, bool) {
	var found []Instruction
	for _, block := range fencedBlocks([]byte(text)) {
		if ins, ok := parseStructured(block); ok {
			found = append(found, ins...)
		}
	}
	if len(found) > 0 {
		return found, true
	}

	for _, fragment := range fragments(text) {
		if ins, ok := parseStructured(fragment); ok {
			found = append(found, ins...)
		}
	}
	return found, len(found) > 0
}

// maxNesting bounds how deep fragments looks inside a bracketed span that is not
// an instruction, so that hostile input stays linear.
const maxNesting = 8

// span is a pair of matching brackets, open and close are byte offsets.
type span struct{ open, close int }

// fragments returns the balanced JSON-looking fragments of text in order of appearance.
// A fragment that is not valid JSON is skipped and the scan resumes inside it, so an
// instruction nested in a larger bracketed sentence is still found.
func fragments(text string) []string {
	var result []string
	var walk func(spans []span, depth int)
	walk = func(spans []span, depth int) {
		for i := 0; i < len(spans); {
			s := spans[i]
			// spans are sorted by open, the ones nested in s follow it.
			j := i + 1
			for j < len(spans) && spans[j].open < s.close {
				j++
			}
			candidate := text[s.open : s.close+1]
			if _, ok := parseStructured(candidate); ok {
				result = append(result, candidate)
			} else if depth < maxNesting {
				walk(spans[i+1:j], depth+1)
			}
			i = j
		}
	}
	walk(bracketSpans(text), 0)
	return result
}

// bracketSpans returns the matching bracket pairs of text sorted by opening offset,
// in a single pass.
//
// Brackets inside JSON strings are ignored, strings only start inside brackets. A
// closing bracket that does not match discards every bracket still open.
func bracketSpans(text string) []span {
	var spans []span
	var stack []int
	inString, escaped := false, false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = len(stack) > 0
		case '{', '[':
			stack = append(stack, i)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			if text[open] != opening(c) {
				stack = stack[:0]
				continue
			}
			stack = stack[:len(stack)-1]
			spans = append(spans, span{open, i})
		}
	}
	slices.SortFunc(spans, func(a, b span) int { return a.open - b.open })
	return spans
}

func opening(closing byte) byte {
	if closing == '}' {
		return '{'
	}
	return '['
}

var (
	reNumber  = `(\d[\d,]*(?:\.\d+)?)`
	reTicker  = `([A-Z][A-Z0-9]*(?:[.\-][A-Z]+)?)`
	reAtPrice = `(?:\s+(?:(?i:at)\s+|@\s*)\$?` + reNumber + `)?`

	// BUY 100 [shares [of]] AAPL [at $150.00]
	quantityFirst = regexp.MustCompile(`\b((?i:buy|sell))\s+(\d[\d,]*)\s+(?:(?i:shares?)\s+(?:(?i:of)\s+)?)?\$?` + reTicker + `\b` + reAtPrice)
	// BUY AAPL 100 [shares] [at $150.00]
	symbolFirst = regexp.MustCompile(`\b((?i:buy|sell))\s+\$?` + reTicker + `\s+(\d[\d,]*)\b(?:\s+(?i:shares?)\b)?` + reAtPrice)

	// negated matches the end of a text that turns the following action down.
	negated = regexp.MustCompile(`(?i)\b(?:not|never|don't|dont|won't|avoid|instead of)\s+$`)
)

// notTickers are words the sentence patterns can mistake for a symbol.
// Symbols must be written in capitals, so only shouted prose reaches this list.
var notTickers = []string{
	"SHARE", "SHARES", "OF", "AT", "UNITS", "STOCK", "STOCKS", "IN", "ON", "THE", "ALL", "MORE", "SOME",
	"OFF", "UP", "BACK", "NOW", "TODAY", "TOMORROW", "LATER", "SOON", "AGAIN", "IT", "THEM",
}

// sentenceMatch is a natural language instruction found in a line.
type sentenceMatch struct {
	start, end int
	ins        Instruction
}

// parseSentences scans the text, line by line, for natural language instructions.
func parseSentences(text string) ([]Instruction, bool) {
	var found []Instruction
	for _, line := range plainLines([]byte(text)) {
		var matches []sentenceMatch
		for _, loc := range quantityFirst.FindAllStringSubmatchIndex(line, -1) {
			if m, ok := newSentenceMatch(line, loc, 2, 3); ok {
				matches = append(matches, m)
			}
		}
		for _, loc := range symbolFirst.FindAllStringSubmatchIndex(line, -1) {
			if m, ok := newSentenceMatch(line, loc, 3, 2); ok {
				matches = append(matches, m)
			}
		}
		slices.SortStableFunc(matches, func(a, b sentenceMatch) int { return a.start - b.start })

		end := 0
		for _, m := range matches {
			if m.start < end {
				continue // overlaps a match already taken
			}
			found = append(found, m.ins)
			end = m.end
		}
	}
	return found, len(found) > 0
}

// newSentenceMatch builds an instruction from a regexp match. qty and sym are the
// submatch indexes of the quantity and the symbol, the action is always 1 and the price 4.
func newSentenceMatch(line string, loc []int, qty, sym int) (sentenceMatch, bool) {
	group := func(n int) string {
		if loc[2*n] < 0 {
			return ""
		}
		return line[loc[2*n]:loc[2*n+1]]
	}

	symbol := group(sym)
	if slices.Contains(notTickers, symbol) || negated.MatchString(line[max(0, loc[0]-24):loc[0]]) {
		return sentenceMatch{}, false
	}
	d, err := parseNumber(group(qty))
	if err != nil {
		return sentenceMatch{}, false
	}
	q := Q(d)
	ins := Instruction{
		Action:   Action(strings.ToUpper(group(1))),
		Symbol:   symbol,
		Quantity: &q,
	}
	if p := group(4); p != "" {
		if price, err := ParseMoney(p); err == nil {
			ins.Price = &price
		}
	}
	return sentenceMatch{start: loc[0], end: loc[1], ins: ins}, true
}
