package qso

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/yegors/qso-trainer/internal/callsign"
	"github.com/yegors/qso-trainer/internal/refdata"
	"github.com/yegors/qso-trainer/pkg/logger"
)

// Batch size limits for GenerateBatch.
const (
	MinBatchCount = 1
	MaxBatchCount = 100
)

// Generator builds complete QSO records from the reference pools, the
// call sign generator, and the template engine. It owns a single seeded
// random source, so it is not safe for concurrent use; the practice
// session drives it from one goroutine only.
type Generator struct {
	data      *refdata.ReferenceData
	calls     *callsign.Generator
	templates *TemplateEngine
	rnd       *rand.Rand
	seed      int64
	logger    *logger.Logger
}

// NewGenerator creates a QSO generator over the given reference data.
// A zero seed selects a time-based seed; any other value makes field
// selection reproducible across generators built with the same seed.
func NewGenerator(data *refdata.ReferenceData, seed int64, log *logger.Logger) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(seed))

	return &Generator{
		data:      data,
		calls:     callsign.New(rnd),
		templates: NewTemplateEngine(rnd),
		rnd:       rnd,
		seed:      seed,
		logger:    log.Named("qso-generator"),
	}
}

// Seed returns the seed the generator's random source was built with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// GenerateStationProfile draws one value from each reference pool and a
// call sign for the given region (empty region selects a weighted random
// one). All values are pool members, so they pass their own validators.
func (g *Generator) GenerateStationProfile(region string) (StationProfile, error) {
	call, err := g.calls.Generate(region)
	if err != nil {
		return StationProfile{}, err
	}

	cities := g.data.CitiesForRegion(cityRegion(region))
	if len(cities) == 0 {
		cities = g.data.AllCities()
	}

	return StationProfile{
		Callsign:    call,
		Name:        g.pick(g.data.Names()),
		QTH:         g.pick(cities),
		RST:         g.pick(g.data.RSTReports()),
		Rig:         g.pick(g.data.Transceivers()),
		Antenna:     g.pick(g.data.Antennas()),
		Power:       g.pick(g.data.PowerLevels()),
		Weather:     g.pick(g.data.WeatherConditions()),
		Temperature: g.pick(g.data.Temperatures()),
	}, nil
}

// GenerateQSO builds two station profiles, renders a template for the
// requested tier, substitutes the profiles into it, and extracts the
// element index.
func (g *Generator) GenerateQSO(verbosity Verbosity, region1, region2 string) (*Record, error) {
	if !verbosity.Valid() {
		return nil, &InvalidVerbosityError{Verbosity: string(verbosity)}
	}

	calling, err := g.GenerateStationProfile(region1)
	if err != nil {
		return nil, fmt.Errorf("failed to generate calling station: %w", err)
	}
	responding, err := g.GenerateStationProfile(region2)
	if err != nil {
		return nil, fmt.Errorf("failed to generate responding station: %w", err)
	}

	template, err := g.templates.Render(verbosity)
	if err != nil {
		return nil, err
	}

	text, err := g.templates.Substitute(template, substitutionValues(calling, responding))
	if err != nil {
		// Generated values pass their validators by construction;
		// reaching this path means the reference data is broken.
		return nil, fmt.Errorf("failed to substitute template: %w", err)
	}

	record := &Record{
		Calling:    calling,
		Responding: responding,
		Verbosity:  verbosity,
		Template:   template,
		FullText:   text,
		Elements:   extractElements(calling, responding, verbosity),
	}

	g.logger.Debug("Generated QSO",
		logger.String("verbosity", string(verbosity)),
		logger.String("calling", calling.Callsign),
		logger.String("responding", responding.Callsign),
		logger.Int("text_length", len(text)))

	return record, nil
}

// GenerateBatch builds count QSOs of the given tier. count must be within
// [MinBatchCount, MaxBatchCount]; InvalidCountError otherwise. No two
// records are guaranteed distinct, but independent draws per field give
// large batches high practical diversity.
func (g *Generator) GenerateBatch(count int, verbosity Verbosity) ([]*Record, error) {
	if count < MinBatchCount || count > MaxBatchCount {
		return nil, &InvalidCountError{Count: count}
	}

	records := make([]*Record, 0, count)
	for i := 0; i < count; i++ {
		record, err := g.GenerateQSO(verbosity, "", "")
		if err != nil {
			return nil, fmt.Errorf("failed to generate QSO %d of %d: %w", i+1, count, err)
		}
		records = append(records, record)
	}

	g.logger.Debug("Generated QSO batch",
		logger.Int("count", count),
		logger.String("verbosity", string(verbosity)))

	return records, nil
}

// cityRegion maps call sign regions onto location pools; Australia and
// Japan share the Asia-Pacific city list.
func cityRegion(region string) string {
	switch region {
	case "australia", "japan":
		return "asia_pacific"
	default:
		return region
	}
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rnd.Intn(len(pool))]
}

// substitutionValues maps the two profiles onto the 18 template
// placeholders in fixed order.
func substitutionValues(calling, responding StationProfile) map[string]string {
	return map[string]string{
		"CALL1": calling.Callsign, "CALL2": responding.Callsign,
		"NAME1": calling.Name, "NAME2": responding.Name,
		"QTH1": calling.QTH, "QTH2": responding.QTH,
		"RST1": calling.RST, "RST2": responding.RST,
		"RIG1": calling.Rig, "RIG2": responding.Rig,
		"ANT1": calling.Antenna, "ANT2": responding.Antenna,
		"PWR1": calling.Power, "PWR2": responding.Power,
		"WX1": calling.Weather, "WX2": responding.Weather,
		"TEMP1": calling.Temperature, "TEMP2": responding.Temperature,
	}
}

// extractElements builds the answer key in fixed field order: calling
// station first, responding second. Equipment lists are included only for
// tiers whose templates carry them.
func extractElements(calling, responding StationProfile, verbosity Verbosity) Elements {
	elements := Elements{
		Callsigns: []string{calling.Callsign, responding.Callsign},
		Names:     []string{calling.Name, responding.Name},
		QTHs:      []string{calling.QTH, responding.QTH},
		RSTs:      []string{calling.RST, responding.RST},
	}

	if verbosity.IncludesEquipment() {
		elements.Rigs = []string{calling.Rig, responding.Rig}
		elements.Antennas = []string{calling.Antenna, responding.Antenna}
		elements.Powers = []string{calling.Power, responding.Power}
	}

	return elements
}
