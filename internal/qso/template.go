package qso

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/yegors/qso-trainer/internal/callsign"
	"github.com/yegors/qso-trainer/internal/refdata"
)

// Placeholder names every template substitution must supply.
var requiredVariables = []string{
	"CALL1", "CALL2", "NAME1", "NAME2", "QTH1", "QTH2",
	"RST1", "RST2", "RIG1", "RIG2", "ANT1", "ANT2",
	"PWR1", "PWR2", "WX1", "WX2", "TEMP1", "TEMP2",
}

// Minimal tier: essential exchange only (calls, reports, names, sign-off).
var minimalTemplates = []string{
	"CQ CQ CQ DE {CALL1} {CALL1} K = " +
		"{CALL1} DE {CALL2} {CALL2} K = " +
		"{CALL2} DE {CALL1} = TNX FER CALL UR RST {RST1} {RST1} = NAME HR IS {NAME1} {NAME1} = HW CPY K = " +
		"{CALL1} DE {CALL2} = R R FB {NAME1} = UR RST {RST2} {RST2} = NAME HR IS {NAME2} {NAME2} = 73 ES TNX FER QSO K = " +
		"{CALL2} DE {CALL1} = R R TNX {NAME2} = 73 ES CUAGN = {CALL1} SK = " +
		"{CALL1} DE {CALL2} SK",

	"CQ CQ DE {CALL1} K = " +
		"{CALL1} DE {CALL2} K = " +
		"{CALL2} DE {CALL1} = UR RST {RST1} = NAME {NAME1} = QTH {QTH1} = HW K = " +
		"{CALL1} DE {CALL2} = R TNX = UR RST {RST2} = NAME {NAME2} = QTH {QTH2} = 73 K = " +
		"{CALL2} DE {CALL1} = 73 GL {NAME2} SK = " +
		"{CALL1} DE {CALL2} SK",

	"CQ DE {CALL1} K = " +
		"{CALL1} DE {CALL2} {CALL2} K = " +
		"{CALL2} DE {CALL1} = GM OM UR {RST1} = NAME {NAME1} {NAME1} = QTH {QTH1} = K = " +
		"{CALL1} DE {CALL2} = TNX {NAME1} = UR {RST2} = NAME {NAME2} = QTH {QTH2} = 73 K = " +
		"{CALL2} DE {CALL1} = 73 {NAME2} SK = " +
		"{CALL1} DE {CALL2} SK",
}

// Medium tier: standard exchange with equipment details.
var mediumTemplates = []string{
	"CQ CQ CQ DE {CALL1} {CALL1} K = " +
		"{CALL1} DE {CALL2} {CALL2} K = " +
		"{CALL2} DE {CALL1} = GM OM TNX FER CALL = UR RST {RST1} {RST1} = NAME HR IS {NAME1} {NAME1} = QTH {QTH1} = RIG HR {RIG1} = HW CPY K = " +
		"{CALL1} DE {CALL2} = R R FB {NAME1} = UR RST {RST2} {RST2} = NAME HR {NAME2} {NAME2} = QTH {QTH2} = RIG {RIG2} = ANT {ANT2} = 73 ES TNX FER FB QSO K = " +
		"{CALL2} DE {CALL1} = R TNX {NAME2} = FB RIG UR RUNNING = HPE CUAGN SN = 73 ES GL = {CALL1} SK = " +
		"{CALL1} DE {CALL2} = 73 {NAME1} SK",

	"CQ DE {CALL1} {CALL1} K = " +
		"{CALL1} DE {CALL2} K = " +
		"{CALL2} DE {CALL1} = GE OM = UR RST {RST1} = NAME {NAME1} = QTH {QTH1} = RIG {RIG1} = PWR {PWR1} = ANT {ANT1} = HW K = " +
		"{CALL1} DE {CALL2} = R R TNX {NAME1} = UR RST {RST2} = NAME {NAME2} = QTH {QTH2} = RIG {RIG2} PWR {PWR2} = FB SIGS HR = 73 K = " +
		"{CALL2} DE {CALL1} = TNX FER FB QSO {NAME2} = 73 ES GL SK = " +
		"{CALL1} DE {CALL2} SK",

	"CQ CQ DE {CALL1} K = " +
		"{CALL1} DE {CALL2} {CALL2} K = " +
		"{CALL2} DE {CALL1} = GA OM TNX = UR RST {RST1} {RST1} = NAME {NAME1} = QTH {QTH1} = RUNNING {RIG1} TO {ANT1} = HW CPY K = " +
		"{CALL1} DE {CALL2} = FB {NAME1} = CPY SOLID = UR RST {RST2} = NAME {NAME2} = QTH {QTH2} = RIG {RIG2} {PWR2} = VY FB SIGS FM U = TNX FER QSO ES 73 K = " +
		"{CALL2} DE {CALL1} = R TNX {NAME2} = 73 ES HPE CUAGN SN = {CALL1} SK = " +
		"{CALL1} DE {CALL2} SK",
}

// Chatty tier: verbose exchange with weather and equipment discussion.
var chattyTemplates = []string{
	"CQ CQ CQ DE {CALL1} {CALL1} {CALL1} K = " +
		"{CALL1} DE {CALL2} {CALL2} K = " +
		"{CALL2} DE {CALL1} = GM OM TNX FER CALL = UR RST {RST1} {RST1} SOLID CPY = NAME HR IS {NAME1} {NAME1} = QTH {QTH1} = WX HR {WX1} TEMP ABT {TEMP1} = RIG HR {RIG1} {PWR1} TO {ANT1} = HW CPY K = " +
		"{CALL1} DE {CALL2} = R R FB {NAME1} VY NICE COPY = UR RST {RST2} {RST2} = NAME HR {NAME2} {NAME2} = QTH {QTH2} = WX HR {WX2} {TEMP2} = RUNNING {RIG2} {PWR2} TO {ANT2} = FB SIGS FM U OM = HW ABT RIG K = " +
		"{CALL2} DE {CALL1} = R TNX {NAME2} = {RIG1} IS FB RIG VY STABLE = UR RIG {RIG2} ALSO FB = {ANT2} WRKS GREAT I HEAR = 73 ES TNX FER FB QSO OM K = " +
		"{CALL1} DE {CALL2} = R R AGR {NAME1} = TNX FER INFO = HPE CUAGN SN = 73 ES GL {NAME1} = {CALL2} SK = " +
		"{CALL2} DE {CALL1} = 73 {NAME2} CUAGN SK = " +
		"{CALL1} DE {CALL2} SK",

	"CQ CQ DE {CALL1} {CALL1} K = " +
		"{CALL1} DE {CALL2} K = " +
		"{CALL2} DE {CALL1} = GE OM VY NICE TO HEAR U = UR RST {RST1} {RST1} FB SIGS = NAME HR IS {NAME1} {NAME1} = QTH {QTH1} = RIG {RIG1} PWR {PWR1} = ANT {ANT1} ABT 20M UP = WX {WX1} TEMP {TEMP1} = HW CPY OM K = " +
		"{CALL1} DE {CALL2} = R R FB {NAME1} CPY SOLID = UR RST {RST2} {RST2} VY FB = NAME {NAME2} {NAME2} = QTH {QTH2} = RUNNING {RIG2} AT {PWR2} = ANT {ANT2} = WX HR {WX2} ES {TEMP2} = UR {ANT1} FB OM HW HIGH K = " +
		"{CALL2} DE {CALL1} = TNX {NAME2} = {ANT1} IS ABT 20M HIGH WRKS FB = UR ANT {ANT2} ALSO WRKING VY WELL I HEAR = {RIG2} IS NICE RIG = 73 ES TNX FER FB CHAT OM K = " +
		"{CALL1} DE {CALL2} = R R {NAME1} AGR = TNX FER INFO ABT ANT = HPE WRK U AGN SN = 73 ES GL = {CALL2} SK = " +
		"{CALL2} DE {CALL1} = 73 {NAME2} SK = " +
		"{CALL1} DE {CALL2} SK",

	"CQ CQ CQ DE {CALL1} K = " +
		"{CALL1} DE {CALL2} {CALL2} K = " +
		"{CALL2} DE {CALL1} = GA OM VY FB TO HEAR U = UR RST {RST1} {RST1} SOLID = NAME HR {NAME1} {NAME1} = QTH {QTH1} = WX HR IS {WX1} ES TEMP {TEMP1} VY NICE = RIG HR IS {RIG1} RUNNING {PWR1} = ANT IS {ANT1} = HW CPY OM K = " +
		"{CALL1} DE {CALL2} = R R {NAME1} CPY 100 PERCENT = UR RST {RST2} {RST2} = NAME {NAME2} {NAME2} = QTH {QTH2} = WX HR {WX2} TEMP {TEMP2} = RIG {RIG2} PWR {PWR2} TO {ANT2} = VY FB SIGS FM U OM SOLID CPY = HW LONG RUNNING {RIG1} K = " +
		"{CALL2} DE {CALL1} = TNX {NAME2} = HAD {RIG1} ABT 5 YRS NOW VY SOLID RIG = UR RIG {RIG2} ALSO FB I HEAR = WX SOUNDS NICE THERE = HR {WX1} TODAY = 73 ES TNX FER VY FB QSO OM K = " +
		"{CALL1} DE {CALL2} = R R {NAME1} TNX FER INFO = {RIG1} IS GREAT RIG = HPE WRK U AGN SN ON THIS BAND = 73 ES GL {NAME1} = {CALL2} SK = " +
		"{CALL2} DE {CALL1} = 73 ES CUAGN {NAME2} SK = " +
		"{CALL1} DE {CALL2} SK",
}

// TemplateEngine selects exchange skeletons per verbosity tier and
// performs validating placeholder substitution. Not safe for concurrent
// use; template selection draws from the injected random source.
type TemplateEngine struct {
	rnd *rand.Rand
}

// NewTemplateEngine creates a template engine drawing from rnd.
func NewTemplateEngine(rnd *rand.Rand) *TemplateEngine {
	return &TemplateEngine{rnd: rnd}
}

// Render picks a template uniformly at random from the requested tier's
// pool. The returned text still contains {PLACEHOLDER} tokens.
func (te *TemplateEngine) Render(verbosity Verbosity) (string, error) {
	var pool []string
	switch verbosity {
	case VerbosityMinimal:
		pool = minimalTemplates
	case VerbosityMedium:
		pool = mediumTemplates
	case VerbosityChatty:
		pool = chattyTemplates
	default:
		return "", &InvalidVerbosityError{Verbosity: string(verbosity)}
	}
	return pool[te.rnd.Intn(len(pool))], nil
}

// Substitute replaces every placeholder in template with its value from
// values. All 18 required placeholders must be present (MissingVariableError
// otherwise) and every value must pass its field grammar (InvalidValueError).
// Replacement is literal token replacement; values are uppercased and
// trimmed before insertion.
func (te *TemplateEngine) Substitute(template string, values map[string]string) (string, error) {
	var missing []string
	for _, name := range requiredVariables {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", &MissingVariableError{Missing: missing}
	}

	// Values render uppercase and trimmed; validate what will actually
	// be substituted.
	normalized := make(map[string]string, len(values))
	for name, value := range values {
		normalized[name] = strings.ToUpper(strings.TrimSpace(value))
	}

	for _, name := range requiredVariables {
		if !validValue(name, normalized[name]) {
			return "", &InvalidValueError{Field: name, Value: values[name]}
		}
	}

	result := template
	for name, value := range normalized {
		result = strings.ReplaceAll(result, "{"+name+"}", value)
	}
	return result, nil
}

// validValue dispatches a placeholder value to its field grammar.
func validValue(name, value string) bool {
	switch name {
	case "CALL1", "CALL2":
		return callsign.Validate(value)
	case "NAME1", "NAME2":
		return refdata.ValidName(value)
	case "QTH1", "QTH2":
		return refdata.ValidQTH(value)
	case "RST1", "RST2":
		return refdata.ValidRST(value)
	case "RIG1", "RIG2", "ANT1", "ANT2":
		return refdata.ValidEquipment(value)
	case "PWR1", "PWR2":
		return refdata.ValidPower(value)
	case "WX1", "WX2", "TEMP1", "TEMP2":
		return refdata.ValidFreeform(value)
	}
	return false
}
