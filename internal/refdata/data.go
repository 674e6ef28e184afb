// Package refdata holds the static reference pools used to generate
// realistic amateur radio QSO exchanges: operator names, locations (QTH),
// equipment, weather terms, signal reports, and procedural abbreviations.
//
// The data is compiled in and owned by a single immutable ReferenceData
// value constructed once at startup. Nothing mutates the pools at runtime;
// callers must treat returned slices as read-only.
package refdata

// Common operator names heard on the air.
var commonNames = []string{
	"BOB", "JOHN", "MIKE", "TOM", "DAVE", "BILL", "JIM", "STEVE", "PAUL", "MARK",
	"IAN", "CHRIS", "PETER", "ALAN", "BRIAN", "GARY", "LARRY", "TONY", "FRED", "ROGER",
	"DAN", "KEN", "RON", "JACK", "ED", "AL", "JOE", "SAM", "TED", "BEN",

	// European names
	"HANS", "JEAN", "PIERRE", "LUIGI", "CARLOS", "JOSE", "ANTONIO", "MARCO",
	"KLAUS", "HELMUT", "FRANZ", "GEORG", "ERIK", "LARS", "SVEN", "PAOLO",

	// YL operators
	"MARY", "SUE", "LINDA", "KAREN", "NANCY", "BARBARA", "SARAH", "ANNA",
	"LISA", "LAURA", "JANE", "BETTY", "RUTH", "CAROL", "DIANE", "HELEN",
}

var usCities = []string{
	"BOSTON", "CHICAGO", "DENVER", "SEATTLE", "PORTLAND", "AUSTIN", "DALLAS",
	"MIAMI", "ATLANTA", "PHOENIX", "DETROIT", "MINNEAPOLIS", "CLEVELAND",
	"PHILADELPHIA", "NEW YORK", "LOS ANGELES", "SAN DIEGO", "HOUSTON",
	"NASHVILLE", "MEMPHIS", "CHARLOTTE", "RALEIGH", "TAMPA", "ORLANDO",
	"KANSAS CITY", "ST LOUIS", "MILWAUKEE", "COLUMBUS", "INDIANAPOLIS",
	"CINCINNATI", "PITTSBURGH", "BUFFALO", "ROCHESTER", "ALBANY", "HARTFORD",
}

var ukCities = []string{
	"LONDON", "MANCHESTER", "BIRMINGHAM", "LEEDS", "GLASGOW", "EDINBURGH",
	"BRISTOL", "LIVERPOOL", "CARDIFF", "BELFAST", "STAINES", "OXFORD",
	"CAMBRIDGE", "BRIGHTON", "PLYMOUTH", "SOUTHAMPTON", "NOTTINGHAM",
	"SHEFFIELD", "NEWCASTLE", "YORK", "READING", "BATH", "EXETER",
}

var germanCities = []string{
	"BERLIN", "MUNICH", "HAMBURG", "COLOGNE", "FRANKFURT", "STUTTGART",
	"DUSSELDORF", "DORTMUND", "ESSEN", "LEIPZIG", "BREMEN", "DRESDEN",
	"HANNOVER", "NUREMBERG", "BONN", "HEIDELBERG",
}

var frenchCities = []string{
	"PARIS", "LYON", "MARSEILLE", "TOULOUSE", "NICE", "NANTES", "STRASBOURG",
	"MONTPELLIER", "BORDEAUX", "LILLE", "RENNES", "REIMS", "TOURS",
}

var italianCities = []string{
	"ROME", "MILAN", "FLORENCE", "VENICE", "NAPLES", "TURIN", "BOLOGNA",
	"GENOA", "PALERMO", "VERONA", "PADUA", "TRIESTE",
}

var belgianCities = []string{
	"BRUSSELS", "ANTWERP", "GHENT", "BRUGES", "LIEGE", "NAMUR", "CHARLEROI",
}

var dutchCities = []string{
	"AMSTERDAM", "ROTTERDAM", "UTRECHT", "THE HAGUE", "EINDHOVEN", "TILBURG",
	"GRONINGEN", "LEIDEN", "HAARLEM",
}

var spanishCities = []string{
	"MADRID", "BARCELONA", "VALENCIA", "SEVILLA", "BILBAO", "MALAGA",
	"ZARAGOZA", "MURCIA", "PALMA", "GRANADA",
}

var asiaPacificCities = []string{
	"TOKYO", "OSAKA", "KYOTO", "YOKOHAMA", "NAGOYA", "SAPPORO",
	"SYDNEY", "MELBOURNE", "BRISBANE", "PERTH", "ADELAIDE", "AUCKLAND",
	"WELLINGTON", "CHRISTCHURCH",
}

// Transceivers by manufacturer.
var (
	icomRigs     = []string{"IC7300", "IC7610", "IC9700", "IC705", "IC7100", "IC7851"}
	yaesuRigs    = []string{"FT991A", "FT710", "FTDX10", "FTDX101D", "FT818", "FT891"}
	kenwoodRigs  = []string{"TS590", "TS890", "TS480", "TS990", "TS570"}
	elecraftRigs = []string{"K3", "K4", "KX3", "KX2", "K2"}
)

var antennas = []string{
	"DIPOLE", "VERTICAL", "BEAM", "YAGI", "LOOP", "WIRE", "INVERTED V",
	"G5RV", "WINDOM", "DOUBLET", "GROUND PLANE", "DELTA LOOP", "QUAD",
	"HEX BEAM", "MAGNETIC LOOP", "END FED", "LONG WIRE", "FOLDED DIPOLE",
}

// Common amateur radio power outputs.
var powerLevels = []string{"5W", "10W", "25W", "50W", "100W", "150W", "200W", "400W"}

var weatherConditions = []string{
	"SUNNY", "CLOUDY", "RAIN", "CLEAR", "OVERCAST", "SNOW", "FOGGY",
	"PARTLY CLOUDY", "WINDY", "STORMS", "DRIZZLE", "FAIR",
}

// Temperatures in Celsius, as exchanged on the air.
var temperatures = []string{
	"-10C", "-5C", "0C", "5C", "10C", "15C", "20C", "25C", "30C", "35C",
}

// Most common signal reports in real QSOs.
// RST = Readability (1-5), Strength (1-9), Tone (1-9).
var rstReports = []string{
	"599", // Perfect signal
	"589", // Excellent signal
	"579", // Very good signal
	"569", // Good signal
	"559", // Fair signal
	"549", // Weak but clear
	"539", // Weak
	"449", // Poor but readable
}

// Procedural abbreviations, Q-codes, and prosigns with their meanings.
var abbreviations = map[string]string{
	// Greetings
	"GM": "Good Morning",
	"GA": "Good Afternoon",
	"GE": "Good Evening",
	"GN": "Good Night",

	// Friendly terms
	"OM":  "Old Man (fellow operator)",
	"YL":  "Young Lady",
	"XYL": "Wife",
	"OT":  "Old Timer",

	// Common phrases
	"TNX":   "Thanks",
	"TKS":   "Thanks",
	"FB":    "Fine Business (excellent)",
	"HPE":   "Hope",
	"CUAGN": "See You Again",
	"CUL":   "See You Later",
	"SN":    "Soon",
	"VY":    "Very",
	"ES":    "And",
	"FER":   "For",
	"HW":    "How",
	"ABT":   "About",
	"AGR":   "Agree",
	"CPY":   "Copy",

	// Technical
	"HR":   "Here",
	"UR":   "Your/You're",
	"U":    "You",
	"R":    "Roger/Received",
	"RIG":  "Transceiver",
	"ANT":  "Antenna",
	"PWR":  "Power",
	"WX":   "Weather",
	"TEMP": "Temperature",
	"SIGS": "Signals",
	"BAND": "Frequency Band",

	// Signal quality
	"RST":   "Readability-Strength-Tone",
	"QSB":   "Fading",
	"QRM":   "Interference",
	"QRN":   "Static",
	"NIL":   "Nothing/None",
	"SOLID": "Very strong signal",

	// Prosigns
	"AR": "End of message",
	"K":  "Over/Invitation to transmit",
	"KN": "Go ahead, specific station only",
	"SK": "End of contact/Silent Key",
	"CQ": "Calling any station",
	"DE": "From (this is)",
	"VA": "End of work",

	// Q-codes
	"QTH": "Location",
	"QRU": "Nothing more to send",
	"QSL": "Acknowledgement/Confirm",
	"QRZ": "Who is calling me?",
	"QSY": "Change frequency",
	"QSO": "Contact/Conversation",
	"QRP": "Low power",
	"QRO": "High power",
	"QRT": "Stop transmitting",

	// Numbers and expressions
	"73":  "Best regards",
	"88":  "Love and kisses",
	"599": "Perfect signal (RST)",
	"589": "Very good signal (RST)",
	"579": "Good signal (RST)",
	"569": "Fair signal (RST)",
	"559": "Weak but readable (RST)",
}

// Abbreviation glossary categories for organized display.
var abbreviationCategories = map[string][]string{
	"greetings":      {"GM", "GA", "GE", "GN"},
	"friendly":       {"OM", "YL", "XYL", "OT"},
	"common_phrases": {"TNX", "TKS", "FB", "HPE", "CUAGN", "CUL", "SN", "VY", "73", "88"},
	"technical":      {"HR", "UR", "U", "R", "RIG", "ANT", "PWR", "WX", "TEMP", "RST"},
	"q_codes":        {"QTH", "QRU", "QSL", "QRZ", "QSY", "QSO", "QRP", "QRO", "QRT"},
	"prosigns":       {"AR", "K", "KN", "SK", "CQ", "DE", "VA"},
	"signal_quality": {"QSB", "QRM", "QRN", "SOLID", "NIL"},
}

// ReferenceData is the immutable, compiled-in data set consumed by the QSO
// generator. Construct it once with New and pass it by reference; the
// returned slices and maps are shared and must not be modified.
type ReferenceData struct {
	names          []string
	citiesByRegion map[string][]string
	allCities      []string
	transceivers   []string
	antennas       []string
	powerLevels    []string
	weather        []string
	temperatures   []string
	rstReports     []string
	abbreviations  map[string]string
	categories     map[string][]string
}

// New constructs the canonical reference data set
func New() *ReferenceData {
	euCities := concat(germanCities, frenchCities, italianCities,
		belgianCities, dutchCities, spanishCities)

	citiesByRegion := map[string][]string{
		"us":           usCities,
		"uk":           ukCities,
		"germany":      germanCities,
		"france":       frenchCities,
		"italy":        italianCities,
		"belgium":      belgianCities,
		"netherlands":  dutchCities,
		"spain":        spanishCities,
		"asia_pacific": asiaPacificCities,
	}

	return &ReferenceData{
		names:          commonNames,
		citiesByRegion: citiesByRegion,
		allCities:      concat(usCities, ukCities, euCities, asiaPacificCities),
		transceivers:   concat(icomRigs, yaesuRigs, kenwoodRigs, elecraftRigs),
		antennas:       antennas,
		powerLevels:    powerLevels,
		weather:        weatherConditions,
		temperatures:   temperatures,
		rstReports:     rstReports,
		abbreviations:  abbreviations,
		categories:     abbreviationCategories,
	}
}

// Names returns the operator name pool
func (rd *ReferenceData) Names() []string { return rd.names }

// AllCities returns every location pool combined
func (rd *ReferenceData) AllCities() []string { return rd.allCities }

// CitiesForRegion returns the location pool for a region, or nil if the
// region is unknown
func (rd *ReferenceData) CitiesForRegion(region string) []string {
	return rd.citiesByRegion[region]
}

// Transceivers returns the rig pool
func (rd *ReferenceData) Transceivers() []string { return rd.transceivers }

// Antennas returns the antenna pool
func (rd *ReferenceData) Antennas() []string { return rd.antennas }

// PowerLevels returns the power level pool
func (rd *ReferenceData) PowerLevels() []string { return rd.powerLevels }

// WeatherConditions returns the weather term pool
func (rd *ReferenceData) WeatherConditions() []string { return rd.weather }

// Temperatures returns the temperature pool
func (rd *ReferenceData) Temperatures() []string { return rd.temperatures }

// RSTReports returns the signal report pool
func (rd *ReferenceData) RSTReports() []string { return rd.rstReports }

// Abbreviations returns the glossary of procedural abbreviations
func (rd *ReferenceData) Abbreviations() map[string]string { return rd.abbreviations }

// AbbreviationCategories returns the glossary grouped by category
func (rd *ReferenceData) AbbreviationCategories() map[string][]string { return rd.categories }

func concat(lists ...[]string) []string {
	total := 0
	for _, l := range lists {
		total += len(l)
	}
	out := make([]string, 0, total)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
