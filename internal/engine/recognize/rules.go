package recognize

// Pattern is one regex with its base confidence score.
type Pattern struct {
	Name  string
	Regex string
	Score float64
}

// Rule is a declarative recognizer definition for one entity type. Rules are
// data: loaded once at startup, compiled into an immutable table.
//
// Bare numeric patterns deliberately carry base scores near (or below) the
// filtering threshold, so they only surface when a context keyword boosts
// them. Validate, when set, gates every match: checksum failure means the
// span is never emitted.
type Rule struct {
	Entity   string
	Patterns []Pattern
	Context  []string
	Validate func(string) bool
}

// DefaultRules returns the built-in recognizer set.
func DefaultRules() []Rule {
	return []Rule{
		{
			Entity: "EMAIL",
			Patterns: []Pattern{
				{"email", `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`, 0.9},
			},
			Context: []string{"email", "e-mail", "mail", "contact"},
		},
		{
			Entity: "CREDIT_CARD",
			Patterns: []Pattern{
				{"card_formatted", `\b(?:\d{4}[-\s]?){3}\d{4}\b`, 0.8},
			},
			Context:  []string{"card", "credit", "visa", "mastercard", "amex", "payment"},
			Validate: ValidLuhn,
		},
		{
			Entity: "SSN",
			Patterns: []Pattern{
				{"ssn_formatted", `\b\d{3}-\d{2}-\d{4}\b`, 0.85},
			},
			Context:  []string{"ssn", "social security", "social"},
			Validate: ValidSSN,
		},
		{
			Entity: "IP_ADDRESS",
			Patterns: []Pattern{
				{"ipv4", `\b(?:\d{1,3}\.){3}\d{1,3}\b`, 0.6},
			},
			Context: []string{"ip", "address", "host", "server", "gateway"},
		},
		{
			Entity: "AU_PHONE",
			Patterns: []Pattern{
				{"landline", `\b\(?0[2-9]\)?[-\s]?\d{4}[-\s]?\d{4}\b`, 0.85},
				{"mobile", `\b04\d{2}[-\s.]?\d{3}[-\s.]?\d{3}\b`, 0.9},
				{"international", `\b\+?61[-\s]?\(?0?\)?[-\s]?[2-9][-\s]?\d{4}[-\s]?\d{4}\b`, 0.95},
				{"international_mobile", `\b\+?61[-\s]?4\d{2}[-\s]?\d{3}[-\s]?\d{3}\b`, 0.95},
				{"mobile_partial", `\b04\d{2}[-\s]?\d{2,3}[-\s]?\d{2,3}\b`, 0.6},
			},
			Context: []string{"phone", "mobile", "cell", "number", "call", "contact", "tel", "ph"},
		},
		{
			Entity: "AU_SPECIAL_PHONE",
			Patterns: []Pattern{
				{"1300", `\b1300[-\s]?\d{3}[-\s]?\d{3}\b`, 0.9},
				{"1800", `\b1800[-\s]?\d{3}[-\s]?\d{3}\b`, 0.9},
				{"13", `\b13[-\s]?\d{2}[-\s]?\d{2}\b`, 0.85},
			},
			Context: []string{"phone", "call", "contact", "helpline", "support", "hotline", "number"},
		},
		{
			Entity: "AU_ADDRESS",
			Patterns: []Pattern{
				{"street_state_postcode", `\b\d{1,3}\s+(?:[A-Za-z]+\s+){1,5}(?:Street|St|Road|Rd|Avenue|Ave|Drive|Dr|Lane|Ln|Boulevard|Blvd|Circuit|Cct|Court|Ct|Place|Pl|Way|Crescent|Cres)\b,?\s*(?:[A-Za-z]+\s+){1,3}(?:NSW|VIC|QLD|WA|SA|TAS|ACT|NT)\s+\d{4}\b`, 0.95},
				{"street_suburb", `\b\d{1,3}\s+(?:[A-Za-z]+\s+){1,5}(?:Street|St|Road|Rd|Avenue|Ave|Drive|Dr|Lane|Ln|Boulevard|Blvd|Circuit|Cct|Court|Ct|Place|Pl|Way|Crescent|Cres)\b,?\s+[A-Za-z]+(?:\s+[A-Za-z]+){0,2}\b`, 0.8},
				{"street_simple", `\b\d{1,3}\s+(?:[A-Za-z]+\s+){1,5}(?:Street|St|Road|Rd|Avenue|Ave|Drive|Dr|Lane|Ln|Boulevard|Blvd|Circuit|Cct|Court|Ct|Place|Pl|Way|Crescent|Cres)\b`, 0.7},
			},
			Context: []string{"address", "live", "lives", "located", "premises", "residence"},
		},
		{
			Entity: "AU_PO_BOX",
			Patterns: []Pattern{
				{"po_box_full_address", `(?i)\b(?:P\.?\s*O\.?\s*Box|GPO\s*Box)\s+\d{1,6}\s*,?\s*[A-Za-z][A-Za-z\s]{2,25}\s+(?:NSW|VIC|QLD|WA|SA|TAS|ACT|NT)\s+\d{4}\b`, 0.95},
				{"po_box", `(?i)\bP\.?\s*O\.?\s*Box\s+\d{1,6}\b`, 0.85},
				{"gpo_box", `(?i)\bGPO\s*Box\s+\d{1,6}\b`, 0.85},
				{"locked_bag", `(?i)\bLocked\s+Bag\s+\d{1,6}\b`, 0.85},
				{"private_bag", `(?i)\bPrivate\s+Bag\s+\d{1,6}\b`, 0.85},
				{"rural_delivery", `(?i)\b(?:CMB|RMB|RSD|MS)\s*\.?\s*\d{1,6}\b`, 0.8},
			},
			Context: []string{"postal", "mail", "correspondence", "send to", "address", "post"},
		},
		{
			Entity: "DATE_OF_BIRTH",
			Patterns: []Pattern{
				{"dob_with_prefix", `(?i)(?:dob|d\.o\.b\.?|date\s*of\s*birth|birth\s*date|born)[:\s]+\d{1,2}[\/\-\.]\d{1,2}[\/\-\.]\d{2,4}`, 0.95},
				{"dob_written_with_prefix", `(?i)(?:dob|d\.o\.b\.?|date\s*of\s*birth|birth\s*date|born)[:\s]+\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\s+\d{2,4}`, 0.95},
				// Bare dates sit below the default threshold and only surface
				// with a birth-context boost.
				{"dob_ddmmyyyy_slash", `\b(?:0?[1-9]|[12][0-9]|3[01])\/(?:0?[1-9]|1[0-2])\/(?:19|20)\d{2}\b`, 0.3},
				{"dob_ddmmyyyy_dash", `\b(?:0?[1-9]|[12][0-9]|3[01])-(?:0?[1-9]|1[0-2])-(?:19|20)\d{2}\b`, 0.3},
				{"dob_iso", `\b(?:19|20)\d{2}-(?:0?[1-9]|1[0-2])-(?:0?[1-9]|[12][0-9]|3[01])\b`, 0.3},
				{"dob_written", `(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+(?:19|20)\d{2}\b`, 0.3},
			},
			Context: []string{"date of birth", "dob", "d.o.b", "birthdate", "born", "birthday", "age"},
		},
		{
			Entity: "AU_NBN_LOC_ID",
			Patterns: []Pattern{
				{"loc_with_context", `(?i)(?:location\s*id|loc\s*id|nbn\s*location)[:\s#]*(?:LOC)?[-\s]?[A-Z0-9]{10,12}`, 0.95},
				{"loc_standard", `(?i)\bLOC[-\s]?[A-Z0-9]{10,12}\b`, 0.9},
			},
			Context: []string{"location id", "loc id", "nbn location", "premises", "nbn address", "service address"},
		},
		{
			Entity: "AU_NBN_SERVICE_ID",
			Patterns: []Pattern{
				{"avc", `(?i)\bAVC[-\s]?[A-Z0-9]{10,12}\b`, 0.9},
				{"cvc", `(?i)\bCVC[-\s]?[A-Z0-9]{6,12}\b`, 0.9},
				{"poi", `(?i)\bPOI[-:\s]?[A-Z0-9]{3,15}\b`, 0.8},
			},
			Context: []string{"avc", "cvc", "virtual circuit", "nbn service", "access circuit", "poi"},
		},
		{
			Entity: "IMEI",
			Patterns: []Pattern{
				{"imei_with_context", `(?i)(?:imei|device\s*id|handset)[:\s#]*\d{15,17}`, 0.95},
				{"imei_formatted", `\b\d{2}[-\s]\d{6}[-\s]\d{6}[-\s]\d{1}\b`, 0.7},
				{"imei_bare", `\b\d{15}\b`, 0.4},
			},
			Context: []string{"imei", "device id", "handset", "phone serial", "mobile device", "device"},
		},
		{
			Entity: "ICCID",
			Patterns: []Pattern{
				{"iccid_with_context", `(?i)(?:iccid|sim|sim\s*card|sim\s*number)[:\s#]*89\d{17,19}`, 0.95},
				{"iccid_bare", `\b89\d{17,19}\b`, 0.85},
			},
			Context: []string{"iccid", "sim", "sim card", "sim number", "icc", "sim serial"},
		},
		{
			Entity: "AU_NTD_SERIAL",
			Patterns: []Pattern{
				{"ntd_with_context", `(?i)(?:ntd|network\s*termination|connection\s*box|nbn\s*device)[:\s#]*[A-Z0-9]{8,16}`, 0.95},
				{"ntd_prefixed", `(?i)\bNTD[-\s]?[A-Z0-9]{8,16}\b`, 0.9},
				{"ntd_nokia", `\bNOKA[A-Z0-9]{8,14}\b`, 0.85},
				{"ntd_alcatel", `\bALCL[A-Z0-9]{8,14}\b`, 0.85},
				{"ntd_hfc_modem", `\b[23]M[A-Z0-9]{8,12}\b`, 0.8},
			},
			Context: []string{"ntd", "network termination", "connection box", "nbn device", "modem serial"},
		},
		{
			Entity: "AU_DRIVER_LICENSE",
			Patterns: []Pattern{
				{"dl_with_context", `(?i)(?:driver[']?s?\s*licen[cs]e|licen[cs]e\s*(?:no|number|num|#))[:\s#]*[A-Za-z]?\d{6,9}`, 0.9},
				{"dl_state_prefix", `(?i)(?:licen[cs]e|lic\.?)\s+(?:vic|nsw|qld|sa|wa|tas|nt|act)\s+\d{6,10}\b`, 0.9},
				{"dl_state_suffix", `(?i)\b(?:vic|nsw|qld|sa|wa|tas|nt|act)\s+(?:licen[cs]e|lic\.?)\s*[:\-#]?\s*\d{6,10}\b`, 0.9},
				{"dl_vic_alpha", `\b[A-Za-z]\d{8}\b`, 0.5},
				// Bare 8/9-digit sequences are phone numbers, dates, account
				// numbers... near-zero base, context boost required.
				{"dl_8digit", `\b\d{8}\b`, 0.05},
				{"dl_9digit", `\b\d{9}\b`, 0.05},
			},
			Context: []string{"driver license", "driver licence", "drivers license", "drivers licence",
				"driving licence", "licence number", "license number", "licence no", "license no",
				"lic", "dl"},
		},
		{
			Entity: "AU_PASSPORT",
			Patterns: []Pattern{
				{"passport_with_context", `(?i)(?:passport(?:\s*(?:no|number|num|#))?|travel\s*document)[:\s#]*[A-Za-z]{1,2}\d{7}\b`, 0.95},
				{"passport_two_letter", `\b[PNE][A-Za-z]\d{7}\b`, 0.7},
				{"passport_single_letter", `\b[PNELM]\d{7}\b`, 0.65},
			},
			Context: []string{"passport", "passport number", "travel document", "passport no"},
		},
		{
			Entity: "AU_CENTRELINK_CRN",
			Patterns: []Pattern{
				{"crn_with_context", `(?i)(?:centrelink|CRN|customer\s*reference\s*(?:no|number|num)?)[:\s#]*\d{9}[A-Za-z]\b`, 0.95},
				{"crn_pension", `(?i)(?:pension|concession|health\s*care|seniors)\s*(?:card)?[:\s#]*\d{9}[A-Za-z]\b`, 0.9},
				{"crn_bare", `\b\d{9}[A-Za-z]\b`, 0.75},
			},
			Context: []string{"centrelink", "crn", "customer reference number", "reference number",
				"pension", "concession", "health care card"},
		},
		{
			Entity: "AU_TFN",
			Patterns: []Pattern{
				{"tfn_formatted", `\b\d{3}[ ]?\d{3}[ ]?\d{2,3}\b`, 0.35},
			},
			Context:  []string{"tfn", "tax file number", "tax file", "tax"},
			Validate: ValidTFN,
		},
		{
			Entity: "AU_MEDICARE",
			Patterns: []Pattern{
				{"medicare", `\b[2-6]\d{3}[ ]?\d{5}[ ]?\d{1,2}\b`, 0.4},
			},
			Context:  []string{"medicare", "medicare number", "medicare card"},
			Validate: ValidMedicare,
		},
		{
			Entity: "AU_ABN",
			Patterns: []Pattern{
				{"abn", `\b\d{2}[ ]?\d{3}[ ]?\d{3}[ ]?\d{3}\b`, 0.3},
			},
			Context:  []string{"abn", "business number", "australian business number"},
			Validate: ValidABN,
		},
	}
}
