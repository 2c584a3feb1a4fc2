package filter

// falsePositiveWords is the built-in lexicon of terms the token classifier
// habitually mislabels as names or organisations in support transcripts.
// All comparisons are case-insensitive.
var falsePositiveWords = []string{
	// Greetings and sign-offs.
	"hi", "hello", "hey", "dear", "thanks", "thank", "cheers", "regards",
	"kind", "sincerely", "best", "morning", "afternoon", "evening",

	// Days and months.
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
	"sunday", "january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	"today", "tomorrow", "yesterday", "week", "month", "year",

	// Support-desk vocabulary.
	"customer", "service", "support", "team", "agent", "technician",
	"account", "billing", "invoice", "payment", "order", "ticket",
	"case", "reference", "issue", "outage", "fault", "escalation",
	"complaint", "refund", "credit", "plan", "contract", "provider",

	// Network and product terms.
	"internet", "broadband", "nbn", "adsl", "vdsl", "fibre", "fiber",
	"wifi", "wi-fi", "router", "modem", "gateway", "ethernet", "cable",
	"speed", "download", "upload", "data", "bandwidth", "latency",
	"connection", "network", "signal", "device", "phone", "mobile",
	"landline", "voicemail", "sim", "handset", "port", "line",

	// Generic sentence-initial words that get capitalized.
	"the", "this", "that", "these", "those", "please", "sorry",
	"unfortunately", "currently", "also", "however", "regarding",
	"update", "status", "note", "important", "urgent", "new",
	"ok", "okay", "yes", "no", "na", "n/a", "tbc", "tba",

	// Common address words the model tags as LOC without a full address.
	"street", "road", "avenue", "drive", "lane", "court", "place",
	"australia", "sydney", "melbourne", "brisbane", "perth", "adelaide",
	"unit", "level", "suite", "floor", "box",
}
