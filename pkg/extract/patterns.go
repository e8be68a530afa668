package extract

import "regexp"

// The pattern library. Every list is ordered most-specific first and the
// extractors stop at the first validated match, so precedence lives in this
// data rather than in control flow. Everything here is compiled once at
// process start and read-only afterwards.

// Invoice/bill number patterns, label-anchored forms before bare structural
// ones. Matched against the lowercase full text and against raw lines.
var numberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)invoice\s+no[.:\s]+([a-z0-9\-/]+)`),
	regexp.MustCompile(`(?i)(?:invoice|inv)\s*(?:number|no|#)[\s#:]*([a-z0-9\-/]+)`),
	regexp.MustCompile(`(?i)(?:invoice|inv)[\s#:]+([a-z0-9\-/]+)`),
	regexp.MustCompile(`(?i)inv[.\s]*no[.:\s]+([a-z0-9\-/]+)`),
	regexp.MustCompile(`(?i)doc[.\s]*no[.:\s]+([a-z0-9\-/]+)`),
	regexp.MustCompile(`(?i)#\s*([a-z0-9\-/]+)`),
	regexp.MustCompile(`(?i)no[.:\s]+([a-z0-9\-/]+)`),
	regexp.MustCompile(`(?i)([a-z0-9]+[/-]\d{2,}[/-]\d{2,}[/-]\d{3,})`), // 1/25-26/014013
	regexp.MustCompile(`(?i)([a-z]{2,}[-/]\d{4}[-/]\d{3,})`),            // ORD-2023-78912
	regexp.MustCompile(`(?i)([a-z]{2,}\d{4,})`),                         // ABC1234
	regexp.MustCompile(`(?i)(\d{4,}[-/][a-z0-9]+)`),                     // 2023-ORD789
}

// numberNoiseRE strips trailing junk that OCR glues onto a captured number
// (gst ids, phone numbers, addresses, a following date label, ...).
var numberNoiseRE = regexp.MustCompile(`(?i)\s*(?:gst|phone|email|address|pincode|pin|state|city|page|date|invoice).*$`)

// datePattern pairs a regex with the candidate layouts tried against its
// first capture group, in order.
type datePattern struct {
	re      *regexp.Regexp
	layouts []string
}

var billDatePatterns = []datePattern{
	{regexp.MustCompile(`(?i)invoice\s+date[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		[]string{"2/1/2006", "2-1-2006", "2/1/06", "2-1-06"}},
	{regexp.MustCompile(`(?i)(?:bill|invoice)\s*(?:date|dated)[\s:]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		[]string{"2/1/2006", "2-1-2006", "2/1/06", "2-1-06"}},
	{regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{4})`),
		[]string{"2/1/2006", "2-1-2006"}},
	{regexp.MustCompile(`(\d{4}[/-]\d{1,2}[/-]\d{1,2})`),
		[]string{"2006-1-2", "2006/1/2"}},
	{regexp.MustCompile(`(\d{1,2}[/-]\d{1,2}[/-]\d{2})`),
		[]string{"2/1/06", "2-1-06"}},
	{regexp.MustCompile(`(?i)(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{2,4})`),
		[]string{"2 Jan 2006", "2 January 2006", "2 Jan 06"}},
}

// Delivery-date patterns all require a delivery/ship keyword next to the
// date; a bare date never counts as a delivery date.
var deliveryDatePatterns = []datePattern{
	{regexp.MustCompile(`(?i)(?:delivery|delivered|ship|shipped)\s*(?:date|on|dt)[\s:]*(\d{4}[/-]\d{1,2}[/-]\d{1,2})`),
		[]string{"2006-1-2", "2006/1/2"}},
	{regexp.MustCompile(`(?i)(?:delivery|delivered|ship|shipped)\s*(?:date|on|dt)[\s:]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
		[]string{"2/1/2006", "2-1-2006", "2/1/06", "2-1-06", "1/2/2006", "1-2-2006"}},
	{regexp.MustCompile(`(?i)(?:delivery|delivered|ship|shipped)\s*(?:date|on|dt)[\s:]*(\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{2,4})`),
		[]string{"2 Jan 2006", "2 January 2006", "2 Jan 06"}},
}

// Amount label patterns per category. The capture is the numeral; an
// optional currency marker (₹, $, or an OCR-misread S) may precede it.
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:grand\s*)?total[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)total\s*amount[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
}

var totalNetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:nnet\s+amt\s+payable|net\s+amt\s+payable|net\s+amount\s+payable)[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)net\s+amt[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)(?:net|net\s+amount)[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)total\s+net[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
}

var subtotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:taxable\s+value|taxable\s+amt)[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)sub\s*total[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)total\s*before\s*tax[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
}

var taxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)total\s+tax\s+amt[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)(?:gst|tax|vat)[\s(]*\d+%[):\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)(?:gst|tax|vat)[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
	regexp.MustCompile(`(?i)tax\s*amount[:\s]*[₹$s]?\s*(\d+(?:,\d{3})*(?:[.,]\d{2})?)`),
}

// Free-text name patterns.
var billedToPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:billed\s+to|bill\s+to|customer|cust\.|buyer|purchaser)[\s:]+(.+?)$`),
	regexp.MustCompile(`(?i)(?:billed\s+to|bill\s+to|customer|cust\.)[\s:]+(.+?)(?:delivery|ship|address|gst|phone|email|$)`),
}

var shippedToPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)shipped\s+to[:\s]+(.+?)(?:cust\s+code|address|gst|phone|email|$)`),
	regexp.MustCompile(`(?i)(?:shipped\s+to|ship\s+to|delivery\s+to|deliver\s+to|consignee|recipient)[\s:]+(.+?)$`),
}

var drPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:^|\s)(?:d\.?\s*r\.?|dr)[:\s]+([a-z][a-z\s]{1,50})(?:$|contact|phone|mobile|dr)`),
	regexp.MustCompile(`(?i)(?:d\.?\s*r\.?|dr)[:\s]+([a-z][a-z\s]{1,50})(?:\s|$|contact|phone)`),
	regexp.MustCompile(`(?i)(?:d\.?\s*r\.?|dr)[:\s]+([a-z\s]{2,50})(?:$|contact|phone|mobile|dr)`),
	regexp.MustCompile(`(?i)delivery\s+recipient[:\s]+([a-z\s]{2,50})(?:$|contact|phone|mobile)`),
	regexp.MustCompile(`(?i)delivery\s+rec[:\s]+([a-z\s]{2,50})(?:$|contact|phone|mobile)`),
	regexp.MustCompile(`(?i)(?:d\.?\s*r\.?|dr)\s+contact[:\s]+([a-z\s]{2,50})(?:$|phone|mobile)`),
	regexp.MustCompile(`(?i)recipient[:\s]+([a-z\s]{2,50})(?:$|contact|phone|mobile)`),
}

var postPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:post|post\s+office|postal)[\s:]+([a-z\s]{2,50})(?:$|,|pincode|pin)`),
	regexp.MustCompile(`(?i)post[:\s]+([a-z\s]{2,50})(?:$|,|pincode|pin|state|district)`),
	regexp.MustCompile(`(?i)post\s+office[:\s]+([a-z\s]{2,50})(?:$|,|pincode|pin)`),
}

// Spatial label anchors per field (matched against single-token text).
var numberLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:invoice|inv)\s*(?:number|no|#)[\s#:]`),
	regexp.MustCompile(`(?i)(?:invoice|inv)[\s#:]`),
	regexp.MustCompile(`(?i)doc[.\s]*(?:number|no|#)[\s#:]`),
}

var drLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:d\.?\s*r\.?|dr)[:\s]`),
	regexp.MustCompile(`(?i)(?:^|\s)(?:d\.?\s*r\.?|dr)[:\s]`),
	regexp.MustCompile(`(?i)(?:d\.?\s*r\.?|dr)\s+contact[:\s]`),
	regexp.MustCompile(`(?i)delivery\s+recipient[:\s]`),
	regexp.MustCompile(`(?i)delivery\s+rec[:\s]`),
}

var billedToLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:billed\s+to|bill\s+to|customer|cust\.)`),
}

var shippedToLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:shipped\s+to|ship\s+to|delivery\s+to|deliver\s+to|consignee)`),
}

var postLabelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:post|post\s+office|postal)`),
}

// Skip lists: lines containing these are never considered by the respective
// extractor (they are UI/form labels, not bill content).
var (
	numberSkipKeywords = []string{"bill type", "payment", "create proxy", "items", "subtotal", "tax"}
	dateSkipKeywords   = []string{"bill type", "payment", "create proxy", "items"}
	amountSkipKeywords = []string{"bill type", "payment", "create proxy"}
	nameSkipKeywords   = []string{"bill type", "payment", "create proxy", "items", "total", "subtotal"}

	vendorSkipKeywords = []string{
		"bill", "invoice", "date", "page", "gst", "number", "normal", "handbill",
		"yes", "no", "payment", "status", "items", "subtotal", "tax", "total",
		"create proxy", "fully paid", "unpaid", "partially paid",
	}
)

// Shared validation helpers.
var (
	pureDigitsRE = regexp.MustCompile(`^[\d\s\-/:]+$`)
	identLineRE  = regexp.MustCompile(`^[A-Z0-9\-/]+$`)
	isoDateRE    = regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}`)
	hasLettersRE = regexp.MustCompile(`(?i)[a-z]{2,}`)

	// artifactRE drops characters OCR tends to hallucinate around values.
	artifactRE = regexp.MustCompile(`[^\w\s\-/.,:()₹$]`)

	nameNoiseRE      = regexp.MustCompile(`(?i)\s*(?:gst|phone|email|address|pincode|pin|state|city).*$`)
	contactNoiseRE   = regexp.MustCompile(`(?i)\s*(?:contact|phone|mobile|email|address|dr\s+contact).*$`)
	drPrefixRE       = regexp.MustCompile(`(?i)^(?:d\.?\s*r\.?|dr)\s*:?\s*`)
	drContactLineRE  = regexp.MustCompile(`(?i)^(?:d\.?\s*r\.?|dr)\s*:?\s*$`)
	corporateTailRE  = regexp.MustCompile(`(?i)\s*(?:pvt|ltd|limited|inc|corporation|corp|company).*$`)
	trailingDigitsRE = regexp.MustCompile(`\d+.*$`)
	postNoiseRE      = regexp.MustCompile(`(?i)\s*(?:pincode|pin|state|district|city|taluk).*$`)
	postOfficeRE     = regexp.MustCompile(`(?i)\s*(?:post\s+)?(?:office|ofc).*$`)
	digitsRE         = regexp.MustCompile(`\d+`)
	lettersOnlyRE    = regexp.MustCompile(`^[A-Za-z\s]+$`)

	// OCR digit confusion fixes, applied to spatially-derived numbers only.
	zeroConfusionRE = regexp.MustCompile(`[O0]`)
	oneConfusionRE  = regexp.MustCompile(`[Il1]`)

	amountNumberRE = regexp.MustCompile(`(\d{1,3}(?:[.,]\d{2,3})*(?:[.,]\d{2})?)`)

	netPayableRE = regexp.MustCompile(`(?i)(?:nnet|net)\s+amt\s+payable`)
)
