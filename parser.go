package casfolio

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Patterns reconstructing statement rows from flattened page text. The text
// layer of a CAS page collapses table cells into whitespace-separated runs,
// so rows are recognized by shape rather than position.
var (
	folioPattern    = regexp.MustCompile(`^Folio No:\s+(?P<folio>.*?)\s+PAN:\s+[A-Z0-9]{10}`)
	fundISINPattern = regexp.MustCompile(`^(?P<name>.*?)(?:\s*-\s*|\s+)ISIN:\s*(?P<isin>INF[A-Z0-9]{9})`)

	buyPattern        = regexp.MustCompile(`^(?P<date>\d+-\S+-\d+)\s+(?P<desc>.*)\s+(?P<amount>[0-9]+\.[0-9]*)\s+(?P<units>[0-9]+\.[0-9]*)\s+(?P<nav>[0-9]+\.[0-9]*)\s+(?P<balance>[0-9]+\.[0-9]*)`)
	sellPattern       = regexp.MustCompile(`^(?P<date>\d+-\S+-\d+)\s+(?P<desc>.*)\s+\((?P<amount>[0-9]+\.[0-9]*)\)\s+\((?P<units>[0-9]+\.[0-9]*)\)\s+(?P<nav>[0-9]+\.[0-9]*)\s+(?P<balance>[0-9]+\.[0-9]*)`)
	segregatedPattern = regexp.MustCompile(`^(?P<date>\d+-\S+-\d+)\s+(?P<desc>.*)\s+(?P<units>[0-9]+\.[0-9]*)\s+(?P<balance>[0-9]+\.[0-9]*)`)

	isinPattern     = regexp.MustCompile(`INF[A-Z0-9]{9}`)
	isinTailPattern = regexp.MustCompile(`([A-Z0-9]{9})`)
)

// fundNameIndicators mark lines that carry a fund name even when the ISIN
// has wrapped onto the following line. AMC and registrar names cover the
// schemes CAMS and KFintech statements print.
var fundNameIndicators = []string{
	"PAMP-",
	"-Growth",
	"-Direct",
	"-Regular",
	"-Plan",
	"-Fund",
	"-HDFC",
	"-ICICI",
	"-SBI",
	"-Axis",
	"-Kotak",
	"-Nippon",
	"-Tata",
	"-UTI",
	"-Aditya",
	"-Mirae",
	"-Parag",
	"-Edelweiss",
	"-DSP",
	"-Invesco",
	"-PGIM",
	"-HSBC",
	"-Franklin",
	"-Motilal",
	"-Quantum",
	"-Sundaram",
	"-Baroda",
	"-LIC",
	"-Union",
	"-PPFAS",
	"-WhiteOak",
	"-Samco",
	"-Groww",
	"-KFintech",
	"-CAMS",
	"-Karvy",
}

// holdingModePrefixes start continuation lines that carry the ISIN when the
// fund name filled the whole previous line.
var holdingModePrefixes = []string{"(Non-Demat)", "(Demat)", "(Physical)"}

// ParseResult holds the transactions segmented out of a statement's text
// along with counters for lines that matched no rule.
type ParseResult struct {
	Transactions []*Transaction

	// SkippedLines counts non-empty lines that matched no rule. Headers,
	// addresses, and summary rows all land here.
	SkippedLines int

	// MalformedRows counts lines that looked like transaction rows but
	// whose date or numeric fields failed to parse.
	MalformedRows int
}

// ParseStatement segments statement text lines into transaction records.
//
// Folio number, fund name, and ISIN are stateful: once seen, they apply to
// every following transaction row until replaced. Scheme codes are not
// resolved here; see extract.Pipeline.
func ParseStatement(lines []string) *ParseResult {
	result := &ParseResult{}

	// Thousands separators would split the numeric columns.
	normalized := make([]string, len(lines))
	for i, line := range lines {
		normalized[i] = strings.TrimRight(strings.ReplaceAll(line, ",", ""), " \t\r\n")
	}

	var folio, fundName, isin string

	i := 0
	for i < len(normalized) {
		line := normalized[i]
		if strings.TrimSpace(line) == "" {
			i++
			continue
		}

		if m := folioPattern.FindStringSubmatch(line); m != nil {
			folio = strings.TrimSpace(m[1])
			i++
			continue
		}

		if m := fundISINPattern.FindStringSubmatch(line); m != nil {
			fundName = cleanFundName(m[1])
			isin = m[2]
			i++
			continue
		}

		// Fund name and ISIN broken across lines.
		if strings.Contains(line, "ISIN:") || (i+1 < len(normalized) && strings.Contains(normalized[i+1], "ISIN:")) {
			if name, code, last := extractFundAndISIN(normalized, i); name != "" && code != "" {
				fundName = name
				isin = code
				i = last + 1
				continue
			}
		}

		// ISIN split mid-code: "INF" at the end of this line, the remaining
		// nine characters at the start of the next.
		if strings.Contains(line, "ISIN:") && strings.Contains(line, "INF") && i+1 < len(normalized) {
			if tail := isinTailPattern.FindStringSubmatch(strings.TrimSpace(normalized[i+1])); tail != nil {
				if before, _, ok := strings.Cut(line, "ISIN:"); ok {
					fundName = cleanFundNameSmart(before)
				}
				isin = "INF" + tail[1]
				i += 2
				continue
			}
		}

		// Fund name fills this line, ISIN opens the next.
		if i+1 < len(normalized) && strings.Contains(normalized[i+1], "ISIN:") {
			current := strings.TrimSpace(line)
			next := strings.TrimSpace(normalized[i+1])
			if hasFundNameIndicator(current) || hasHoldingModePrefix(next) {
				if code := extractISIN(strings.Replace(next, "ISIN:", "", 1)); code != "" {
					fundName = cleanFundName(current)
					isin = code
					i += 2
					continue
				}
			}
		}

		// Last resort for any remaining line mentioning an ISIN.
		if strings.Contains(line, "ISIN:") {
			before, after, _ := strings.Cut(line, "ISIN:")
			fundName = cleanFundNameSmart(before)
			if code := extractISIN(after); code != "" {
				isin = code
			} else if strings.Contains(after, "INF") && i+1 < len(normalized) {
				if tail := isinTailPattern.FindStringSubmatch(strings.TrimSpace(normalized[i+1])); tail != nil {
					isin = "INF" + tail[1]
					i++
				}
			}
			i++
			continue
		}

		if txn, ok, malformed := parseTransactionRow(line); ok {
			txn.FolioNumber = folio
			txn.FundName = fundName
			txn.ISIN = isin
			result.Transactions = append(result.Transactions, txn)
			i++
			continue
		} else if malformed {
			result.MalformedRows++
			i++
			continue
		}

		result.SkippedLines++
		i++
	}

	return result
}

// parseTransactionRow matches a line against the three row shapes: regular
// purchase, regular redemption (parenthesized negatives), and segregated
// portfolio allotment (no amount or NAV columns). The segregated shape is a
// prefix of the regular one, so order matters.
func parseTransactionRow(line string) (txn *Transaction, ok bool, malformed bool) {
	if m := buyPattern.FindStringSubmatch(line); m != nil {
		txn, err := newTransaction(TxnBuy, m[1], m[3], m[4], m[5], m[6])
		if err != nil {
			return nil, false, true
		}
		return txn, true, false
	}

	if m := sellPattern.FindStringSubmatch(line); m != nil {
		txn, err := newTransaction(TxnSell, m[1], m[3], m[4], m[5], m[6])
		if err != nil {
			return nil, false, true
		}
		return txn, true, false
	}

	if m := segregatedPattern.FindStringSubmatch(line); m != nil {
		txn, err := newTransaction(TxnBuy, m[1], "0", m[3], "0", m[4])
		if err != nil {
			return nil, false, true
		}
		return txn, true, false
	}

	return nil, false, false
}

func newTransaction(kind TxnType, date, amount, units, nav, balance string) (*Transaction, error) {
	d, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	fields := make([]decimal.Decimal, 4)
	for i, s := range []string{amount, units, nav, balance} {
		fields[i], err = decimal.NewFromString(s)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid numeric field %q", s)
		}
	}

	return &Transaction{
		Date:         d,
		Txn:          kind,
		Amount:       fields[0],
		Units:        fields[1],
		NAV:          fields[2],
		BalanceUnits: fields[3],
	}, nil
}

// extractFundAndISIN recovers a fund name and ISIN that the text layer has
// spread over up to three lines, starting at lines[start]. It returns the
// index of the last line consumed; a miss returns empty strings and start.
func extractFundAndISIN(lines []string, start int) (name, isin string, last int) {
	current := strings.TrimSpace(lines[start])

	// Name ends with a hyphen, "ISIN:" opens the next line.
	if strings.HasSuffix(current, "-") && start+1 < len(lines) {
		next := strings.TrimSpace(lines[start+1])
		if strings.HasPrefix(next, "ISIN:") {
			name = cleanFundName(strings.TrimRight(current, "- "))
			if isin = extractISIN(strings.TrimPrefix(next, "ISIN:")); isin != "" {
				return name, isin, start + 1
			}
		}
	}

	// "ISIN:" somewhere in the current line.
	if before, after, found := strings.Cut(current, "ISIN:"); found {
		name = cleanFundName(before)
		if isin = extractISIN(after); isin != "" {
			return name, isin, start
		}
		// The code itself may have wrapped after "INF".
		if strings.Contains(after, "INF") && start+1 < len(lines) {
			if tail := isinTailPattern.FindStringSubmatch(strings.TrimSpace(lines[start+1])); tail != nil {
				return name, "INF" + tail[1], start + 1
			}
		}
	}

	// "ISIN:" on the following line.
	if start+1 < len(lines) {
		next := strings.TrimSpace(lines[start+1])
		if strings.Contains(next, "ISIN:") {
			switch {
			case hasFundNameIndicator(current), hasHoldingModePrefix(next):
				name = cleanFundName(current)
				if isin = extractISIN(strings.Replace(next, "ISIN:", "", 1)); isin != "" {
					return name, isin, start + 1
				}
			default:
				before, after, _ := strings.Cut(next, "ISIN:")
				name = cleanFundName(before)
				if isin = extractISIN(after); isin != "" {
					return name, isin, start + 1
				}
			}
		}

		// Tail of a split code with no "ISIN:" marker on either line.
		if strings.Contains(current, "INF") {
			if tail := isinTailPattern.FindStringSubmatch(next); tail != nil {
				return name, "INF" + tail[1], start + 1
			}
		}
	}

	// Aggressive forward scan for any ISIN within reach.
	for j := start; j < start+3 && j < len(lines); j++ {
		if before, after, found := strings.Cut(lines[j], "ISIN:"); found {
			name = cleanFundName(before)
			if isin = extractISIN(after); isin != "" {
				return name, isin, j
			}
		}
	}

	return "", "", start
}

// cleanFundName drops the leading scheme-plan code before the first hyphen
// and removes registrar furniture.
func cleanFundName(raw string) string {
	name := strings.TrimSpace(raw)
	if _, after, found := strings.Cut(name, "-"); found {
		name = strings.TrimSpace(after)
		name = strings.TrimSpace(strings.TrimRight(name, "- "))
	}
	return stripRegistrar(name)
}

// cleanFundNameSmart prefers the segment after the last hyphen, falling back
// to the first-hyphen split when that segment is too short to be a name or
// is a parenthesized qualifier.
func cleanFundNameSmart(raw string) string {
	name := strings.TrimSpace(raw)
	if strings.Contains(name, "-") {
		parts := strings.Split(name, "-")
		lastPart := strings.TrimSpace(parts[len(parts)-1])
		if len(lastPart) < 5 || strings.HasPrefix(lastPart, "(") {
			if _, after, found := strings.Cut(name, "-"); found {
				name = strings.TrimSpace(after)
			} else {
				name = lastPart
			}
		} else {
			name = lastPart
		}
	}
	return stripRegistrar(name)
}

func stripRegistrar(name string) string {
	if strings.Contains(name, "Registrar : CAMS") {
		name = strings.TrimSpace(strings.ReplaceAll(name, "Registrar : CAMS", ""))
	}
	return name
}

// extractISIN returns the first ISIN in text, or "".
func extractISIN(text string) string {
	return isinPattern.FindString(text)
}

func hasFundNameIndicator(line string) bool {
	for _, indicator := range fundNameIndicators {
		if strings.Contains(line, indicator) {
			return true
		}
	}
	return false
}

func hasHoldingModePrefix(line string) bool {
	for _, prefix := range holdingModePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}
