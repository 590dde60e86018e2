package parser

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"staybook/internal/domain"
)

// Alias keys accepted for each canonical field, canonical name first.
var fieldAliases = map[string][]string{
	"check_in_date":  {"check_in_date", "checkin_date", "check_in", "checkin", "arrival_date", "arrival"},
	"check_out_date": {"check_out_date", "checkout_date", "check_out", "checkout", "departure_date", "departure"},
	"guest_name":     {"guest_name", "name", "guest", "guest_full_name"},
	"guest_count":    {"guest_count", "guests", "num_guests", "number_of_guests"},
	"property_name":  {"property_name", "property", "accommodation", "listing"},
	"total_amount":   {"total_amount", "total", "amount", "total_price", "price"},
	"cleaning_fee":   {"cleaning_fee", "cleaning", "cleaning_cost"},
	"checkin_fee":    {"checkin_fee", "check_in_fee"},
	"phone":          {"phone", "phone_number", "telephone", "mobile"},
}

var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
	"2006/01/02",
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
}

// CoerceCandidate turns one untyped model object into a CandidateReservation.
// Every field is coerced to its type with a zero default, alias keys are
// folded in, and derived fields (nights, reservation_id, needs_review) are
// computed. Confidence below reviewConfidence marks the candidate for review.
func CoerceCandidate(raw map[string]any, reviewConfidence float64) domain.CandidateReservation {
	c := domain.CandidateReservation{
		CheckInDate:     NormalizeDate(asString(lookup(raw, "check_in_date"))),
		CheckOutDate:    NormalizeDate(asString(lookup(raw, "check_out_date"))),
		GuestName:       strings.Join(strings.Fields(asString(lookup(raw, "guest_name"))), " "),
		GuestCount:      coerceGuestCount(raw),
		Country:         asString(raw["country"]),
		CountryInferred: asBool(raw["country_inferred"]),
		Platform:        CanonicalPlatform(asString(raw["platform"])),
		Notes:           asString(raw["notes"]),
		TimezoneSource:  asString(raw["timezone_source"]),
		SourcePage:      asInt(raw["source_page"]),
		PropertyName:    asString(lookup(raw, "property_name")),
		TotalAmount:     asFloat(lookup(raw, "total_amount")),
		CleaningFee:     asFloat(lookup(raw, "cleaning_fee")),
		CheckInFee:      asFloat(lookup(raw, "checkin_fee")),
	}

	phone, cc := NormalizePhone(asString(lookup(raw, "phone")))
	c.Phone = phone
	if c.Country == "" && cc != "" {
		if country, ok := countryByCallingCode[cc]; ok {
			c.Country = country
			c.CountryInferred = true
		}
	}

	c.Nights = asInt(raw["nights"])
	stay, datesOK := c.StayRange()
	reversed := datesOK && stay.Start.After(stay.End)
	if datesOK && !reversed {
		c.Nights = int(stay.End.Sub(stay.Start).Hours() / 24)
	}
	if c.Nights < 0 {
		c.Nights = 0
	}

	c.Confidence = clampConfidence(asFloat(raw["confidence"]))
	c.ReservationID = ReservationID(c.GuestName, c.CheckInDate, c.Platform)

	c.NeedsReview = asBool(raw["needs_review"]) ||
		!datesOK ||
		reversed ||
		c.Phone == "" ||
		cc == "" ||
		c.Confidence < reviewConfidence

	return c
}

// ReservationID derives a stable correlation id from guest, check-in and platform.
func ReservationID(guestName, checkIn string, platform domain.Platform) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(guestName)) + "|" + checkIn + "|" + string(platform)))
	return hex.EncodeToString(sum[:])[:16]
}

// NormalizeDate rewrites a supported date format into YYYY-MM-DD. Unparseable
// values are returned trimmed so the validator can report them.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	candidate := s
	if i := strings.IndexAny(candidate, " T"); i >= 8 {
		candidate = candidate[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, candidate); err == nil {
			return t.Format(domain.DateLayout)
		}
	}
	return s
}

// CanonicalPlatform maps free-text channel names onto the known platforms.
func CanonicalPlatform(s string) domain.Platform {
	lower := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(lower, "airbnb"):
		return domain.PlatformAirbnb
	case strings.Contains(lower, "booking"):
		return domain.PlatformBooking
	case strings.Contains(lower, "vrbo"), strings.Contains(lower, "homeaway"), strings.Contains(lower, "abritel"):
		return domain.PlatformVrbo
	case strings.Contains(lower, "direct"), strings.Contains(lower, "diret"):
		return domain.PlatformDirect
	case strings.Contains(lower, "owner"), strings.Contains(lower, "propriet"):
		return domain.PlatformOwner
	default:
		return domain.PlatformOther
	}
}

// NormalizePhone formats a phone number as "+<cc> <national>" and returns the
// calling code. Nine-digit numbers without a prefix are treated as Portuguese;
// longer bare numbers are read as international when they start with a known
// calling code. An empty calling code means the number could not be put in
// international form and is returned as written digits.
func NormalizePhone(s string) (string, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	international := strings.HasPrefix(s, "+")
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return "", ""
	}
	if !international && strings.HasPrefix(d, "00") {
		international = true
		d = d[2:]
	}
	if !international {
		switch {
		case len(d) == 9:
			return "+351 " + d, "351"
		case len(d) >= minBareInternational && len(d) <= maxE164Digits:
			if cc := callingCode(d); cc != "" {
				return "+" + cc + " " + d[len(cc):], cc
			}
		}
		return d, ""
	}
	if cc := callingCode(d); cc != "" {
		return "+" + cc + " " + d[len(cc):], cc
	}
	return "+" + d, ""
}

const (
	minBareInternational = 11
	maxE164Digits        = 15
)

func callingCode(d string) string {
	for _, cc := range callingCodesLongestFirst {
		if strings.HasPrefix(d, cc) && len(d) > len(cc) {
			return cc
		}
	}
	return ""
}

// countryByCallingCode covers the ITU-T E.164 country codes. The codes are
// prefix-free, so at most one matches a number.
var countryByCallingCode = map[string]string{
	"1": "United States", "7": "Russia",

	"20": "Egypt", "211": "South Sudan", "212": "Morocco", "213": "Algeria", "216": "Tunisia",
	"218": "Libya", "220": "Gambia", "221": "Senegal", "222": "Mauritania", "223": "Mali",
	"224": "Guinea", "225": "Ivory Coast", "226": "Burkina Faso", "227": "Niger", "228": "Togo",
	"229": "Benin", "230": "Mauritius", "231": "Liberia", "232": "Sierra Leone", "233": "Ghana",
	"234": "Nigeria", "235": "Chad", "236": "Central African Republic", "237": "Cameroon",
	"238": "Cape Verde", "239": "Sao Tome and Principe", "240": "Equatorial Guinea", "241": "Gabon",
	"242": "Republic of the Congo", "243": "DR Congo", "244": "Angola", "245": "Guinea-Bissau",
	"246": "Diego Garcia", "248": "Seychelles", "249": "Sudan", "250": "Rwanda", "251": "Ethiopia",
	"252": "Somalia", "253": "Djibouti", "254": "Kenya", "255": "Tanzania", "256": "Uganda",
	"257": "Burundi", "258": "Mozambique", "260": "Zambia", "261": "Madagascar", "262": "Reunion",
	"263": "Zimbabwe", "264": "Namibia", "265": "Malawi", "266": "Lesotho", "267": "Botswana",
	"268": "Eswatini", "269": "Comoros", "27": "South Africa", "290": "Saint Helena",
	"291": "Eritrea", "297": "Aruba", "298": "Faroe Islands", "299": "Greenland",

	"30": "Greece", "31": "Netherlands", "32": "Belgium", "33": "France", "34": "Spain",
	"350": "Gibraltar", "351": "Portugal", "352": "Luxembourg", "353": "Ireland", "354": "Iceland",
	"355": "Albania", "356": "Malta", "357": "Cyprus", "358": "Finland", "359": "Bulgaria",
	"36": "Hungary", "370": "Lithuania", "371": "Latvia", "372": "Estonia", "373": "Moldova",
	"374": "Armenia", "375": "Belarus", "376": "Andorra", "377": "Monaco", "378": "San Marino",
	"380": "Ukraine", "381": "Serbia", "382": "Montenegro", "383": "Kosovo", "385": "Croatia",
	"386": "Slovenia", "387": "Bosnia and Herzegovina", "389": "North Macedonia", "39": "Italy",

	"40": "Romania", "41": "Switzerland", "420": "Czech Republic", "421": "Slovakia",
	"423": "Liechtenstein", "43": "Austria", "44": "United Kingdom", "45": "Denmark",
	"46": "Sweden", "47": "Norway", "48": "Poland", "49": "Germany",

	"500": "Falkland Islands", "501": "Belize", "502": "Guatemala", "503": "El Salvador",
	"504": "Honduras", "505": "Nicaragua", "506": "Costa Rica", "507": "Panama",
	"508": "Saint Pierre and Miquelon", "509": "Haiti", "51": "Peru", "52": "Mexico", "53": "Cuba",
	"54": "Argentina", "55": "Brazil", "56": "Chile", "57": "Colombia", "58": "Venezuela",
	"590": "Guadeloupe", "591": "Bolivia", "592": "Guyana", "593": "Ecuador", "594": "French Guiana",
	"595": "Paraguay", "596": "Martinique", "597": "Suriname", "598": "Uruguay", "599": "Curacao",

	"60": "Malaysia", "61": "Australia", "62": "Indonesia", "63": "Philippines", "64": "New Zealand",
	"65": "Singapore", "66": "Thailand", "670": "Timor-Leste", "672": "Norfolk Island",
	"673": "Brunei", "674": "Nauru", "675": "Papua New Guinea", "676": "Tonga",
	"677": "Solomon Islands", "678": "Vanuatu", "679": "Fiji", "680": "Palau",
	"681": "Wallis and Futuna", "682": "Cook Islands", "683": "Niue", "685": "Samoa",
	"686": "Kiribati", "687": "New Caledonia", "688": "Tuvalu", "689": "French Polynesia",
	"690": "Tokelau", "691": "Micronesia", "692": "Marshall Islands",

	"81": "Japan", "82": "South Korea", "84": "Vietnam", "850": "North Korea", "852": "Hong Kong",
	"853": "Macau", "855": "Cambodia", "856": "Laos", "86": "China", "880": "Bangladesh",
	"886": "Taiwan",

	"90": "Turkey", "91": "India", "92": "Pakistan", "93": "Afghanistan", "94": "Sri Lanka",
	"95": "Myanmar", "960": "Maldives", "961": "Lebanon", "962": "Jordan", "963": "Syria",
	"964": "Iraq", "965": "Kuwait", "966": "Saudi Arabia", "967": "Yemen", "968": "Oman",
	"970": "Palestine", "971": "United Arab Emirates", "972": "Israel", "973": "Bahrain",
	"974": "Qatar", "975": "Bhutan", "976": "Mongolia", "977": "Nepal", "98": "Iran",
	"992": "Tajikistan", "993": "Turkmenistan", "994": "Azerbaijan", "995": "Georgia",
	"996": "Kyrgyzstan", "998": "Uzbekistan",
}

var callingCodesLongestFirst = func() []string {
	codes := make([]string, 0, len(countryByCallingCode))
	for cc := range countryByCallingCode {
		codes = append(codes, cc)
	}
	sort.Slice(codes, func(i, j int) bool {
		if len(codes[i]) != len(codes[j]) {
			return len(codes[i]) > len(codes[j])
		}
		return codes[i] < codes[j]
	})
	return codes
}()

func lookup(raw map[string]any, field string) any {
	for _, key := range fieldAliases[field] {
		if v, ok := raw[key]; ok && v != nil {
			if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
				continue
			}
			return v
		}
	}
	return nil
}

func coerceGuestCount(raw map[string]any) int {
	if v := lookup(raw, "guest_count"); v != nil {
		return asInt(v)
	}
	adults, children := asInt(raw["adults"]), asInt(raw["children"])
	return adults + children
}

func clampConfidence(f float64) float64 {
	if f > 1 && f <= 100 {
		f /= 100
	}
	return math.Max(0, math.Min(1, f))
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, ok := parseLocaleNumber(t)
		if !ok {
			return 0
		}
		return f
	default:
		return 0
	}
}

func asInt(v any) int {
	return int(math.Round(asFloat(v)))
}

func asBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1", "sim":
			return true
		}
	}
	return false
}

// parseLocaleNumber accepts "1234.5", "1.234,50", "1,234.50", "123,45" and
// values carrying currency symbols.
func parseLocaleNumber(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	n := b.String()
	if n == "" {
		return 0, false
	}

	lastComma, lastDot := strings.LastIndex(n, ","), strings.LastIndex(n, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			n = strings.ReplaceAll(n, ".", "")
			n = strings.Replace(n, ",", ".", 1)
		} else {
			n = strings.ReplaceAll(n, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(n, ",") == 1 && len(n)-lastComma-1 <= 2 {
			n = strings.Replace(n, ",", ".", 1)
		} else {
			n = strings.ReplaceAll(n, ",", "")
		}
	case strings.Count(n, ".") > 1:
		n = strings.ReplaceAll(n, ".", "")
	}

	f, err := strconv.ParseFloat(n, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
