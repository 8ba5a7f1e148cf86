package respond

import (
	"net/http"
	"strconv"
	"strings"
)

type mediaRange struct {
	typ     string
	subtype string
	q       float64
}

// parseAccept splits an Accept header into media ranges (RFC 9110 §12.5.1).
// Malformed q values keep the default weight of 1.
func parseAccept(header string) []mediaRange {
	var ranges []mediaRange
	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		mr := mediaRange{q: 1}
		media, params, _ := strings.Cut(part, ";")
		for param := range strings.SplitSeq(params, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || !strings.EqualFold(name, "q") {
				continue
			}
			if q, err := strconv.ParseFloat(value, 64); err == nil && q >= 0 && q <= 1 {
				mr.q = q
			}
		}

		typ, sub, ok := strings.Cut(strings.TrimSpace(media), "/")
		if !ok {
			sub = "*"
		}
		mr.typ = strings.ToLower(strings.TrimSpace(typ))
		mr.subtype = strings.ToLower(strings.TrimSpace(sub))
		ranges = append(ranges, mr)
	}
	return ranges
}

// match reports how specifically mr names JSON and CBOR; 0 means no match.
func (mr mediaRange) match() (cbor, json int) {
	switch {
	case mr.typ == "*" && mr.subtype == "*":
		return 1, 1
	case mr.typ != "application":
		return 0, 0
	case mr.subtype == "*":
		return 2, 2
	case mr.subtype == "problem+cbor":
		return 4, 0
	case mr.subtype == "problem+json":
		return 0, 4
	case mr.subtype == "cbor", strings.HasSuffix(mr.subtype, "+cbor"):
		return 3, 0
	case mr.subtype == "json", strings.HasSuffix(mr.subtype, "+json"):
		return 0, 3
	}
	return 0, 0
}

type preference struct {
	q           float64
	specificity int
}

// consider keeps the weight of the most specific matching range.
func (p *preference) consider(specificity int, q float64) {
	if specificity == 0 {
		return
	}
	if specificity > p.specificity || (specificity == p.specificity && q > p.q) {
		p.specificity, p.q = specificity, q
	}
}

// preferCBOR reports whether the Accept header ranks CBOR above JSON. Weight
// decides first and specificity breaks ties; JSON wins otherwise.
func preferCBOR(header string) bool {
	cborPref := preference{q: -1}
	jsonPref := preference{q: -1}

	for _, mr := range parseAccept(header) {
		if mr.q == 0 {
			continue
		}
		c, j := mr.match()
		cborPref.consider(c, mr.q)
		jsonPref.consider(j, mr.q)
	}

	switch {
	case cborPref.q <= 0 && jsonPref.q <= 0:
		return false
	case cborPref.q != jsonPref.q:
		return cborPref.q > jsonPref.q
	default:
		return cborPref.specificity > jsonPref.specificity
	}
}

// ensureVary appends values to Vary, skipping ones already present.
func ensureVary(h http.Header, values ...string) {
	seen := make(map[string]struct{})
	for _, v := range h.Values("Vary") {
		for part := range strings.SplitSeq(v, ",") {
			seen[strings.ToLower(strings.TrimSpace(part))] = struct{}{}
		}
	}
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		h.Add("Vary", v)
		seen[key] = struct{}{}
	}
}
