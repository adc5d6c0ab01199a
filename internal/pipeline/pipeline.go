// Package pipeline wires the fetch, filter, digest and delivery stages into
// the one-shot run the reminder performs per invocation.
package pipeline

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/asincerity/convertible-bond-reminder/internal/bonds"
	"github.com/asincerity/convertible-bond-reminder/internal/config"
	"github.com/asincerity/convertible-bond-reminder/internal/digest"
	"github.com/asincerity/convertible-bond-reminder/internal/formatter"
	"github.com/asincerity/convertible-bond-reminder/internal/logger"
	"github.com/asincerity/convertible-bond-reminder/internal/models"
	"github.com/asincerity/convertible-bond-reminder/internal/normalizer"
	"github.com/asincerity/convertible-bond-reminder/internal/notifier"
	"github.com/asincerity/convertible-bond-reminder/internal/weather"
)

// BondSource fetches the raw listing.
type BondSource interface {
	Fetch() ([]models.BondRecord, error)
}

// WeatherSource fetches the optional snapshot.
type WeatherSource interface {
	Fetch() (*models.WeatherSnapshot, error)
}

// Pipeline holds the wired stages for one deployment variant.
type Pipeline struct {
	bonds    BondSource
	weather  WeatherSource
	filter   *normalizer.Filter
	builder  *digest.Builder
	renderer formatter.Renderer
	notifier notifier.Notifier
	logger   *logger.Logger
	now      func() time.Time
}

// Report summarizes one run. Stage failures are recorded here and logged;
// they never abort the run.
type Report struct {
	RunID           string
	FetchedRecords  int
	ActionableBonds []models.ActionableBond
	Title           string
	WeatherOK       bool
	Receipt         *notifier.Receipt
	BondFetchErr    error
	WeatherErr      error
	DeliveryErr     error
}

// Delivered reports whether the provider accepted the message.
func (r *Report) Delivered() bool {
	return r.DeliveryErr == nil
}

// New builds a pipeline with real HTTP clients from a validated config.
func New(cfg *config.Config, log *logger.Logger) (*Pipeline, error) {
	return NewWithHTTP(cfg, nil, log)
}

// NewWithHTTP builds a pipeline sharing one injected http.Client across all
// network components; nil selects per-component clients with the configured
// timeouts. Tests inject recording transports through here.
func NewWithHTTP(cfg *config.Config, httpClient *http.Client, log *logger.Logger) (*Pipeline, error) {
	filter, err := normalizer.NewFilter(cfg.Bonds.DateField)
	if err != nil {
		return nil, err
	}

	renderer, err := formatter.ForChannel(cfg.Notify.Channel)
	if err != nil {
		return nil, err
	}

	var send notifier.Notifier
	if httpClient != nil {
		send, err = notifier.NewWithHTTP(cfg.Notify, httpClient, log)
	} else {
		send, err = notifier.New(cfg.Notify, log)
	}

	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		filter:   filter,
		builder:  digest.NewBuilder(cfg.Bonds.ListURL, cfg.Weather.Enabled),
		renderer: renderer,
		notifier: send,
		logger:   log,
		now:      time.Now,
	}

	if httpClient != nil {
		p.bonds = bonds.NewClientWithHTTP(cfg.Bonds, httpClient, log)
	} else {
		p.bonds = bonds.NewClient(cfg.Bonds, log)
	}

	if cfg.Weather.Enabled {
		if httpClient != nil {
			p.weather = weather.NewClientWithHTTP(cfg.Weather, httpClient, log)
		} else {
			p.weather = weather.NewClient(cfg.Weather, log)
		}
	}

	return p, nil
}

// NewWithComponents builds a pipeline from pre-built stages. Tests use this
// to substitute fakes; weatherSource may be nil for the date-only variant.
func NewWithComponents(
	bondSource BondSource,
	weatherSource WeatherSource,
	filter *normalizer.Filter,
	builder *digest.Builder,
	renderer formatter.Renderer,
	send notifier.Notifier,
	log *logger.Logger,
	now func() time.Time,
) *Pipeline {
	return &Pipeline{
		bonds:    bondSource,
		weather:  weatherSource,
		filter:   filter,
		builder:  builder,
		renderer: renderer,
		notifier: send,
		logger:   log,
		now:      now,
	}
}

// Run executes the four stages sequentially. Fetch and delivery failures
// degrade the run instead of stopping it; the report carries whatever
// happened.
func (p *Pipeline) Run() *Report {
	report := &Report{RunID: uuid.NewString()}
	log := p.logger.With("run_id", report.RunID)

	now := p.now()
	today := normalizer.Today(now)

	log.Info("starting reminder run", "date", today)

	// Phase 1: bond listing.
	records, err := p.bonds.Fetch()
	if err != nil {
		report.BondFetchErr = err
		log.Error("bond listing fetch failed, continuing with empty listing", "error", err)
	}

	report.FetchedRecords = len(records)
	log.Info("bond listing loaded", "records", len(records))

	// Phase 2: weather, only in weather-enabled variants.
	var snapshot *models.WeatherSnapshot

	if p.weather != nil {
		snapshot, err = p.weather.Fetch()
		if err != nil {
			report.WeatherErr = err
			log.Warn("weather fetch failed, digest will carry a placeholder", "error", err)
		} else {
			report.WeatherOK = true
		}
	}

	// Phase 3: filter and digest.
	report.ActionableBonds = p.filter.SelectToday(records, today)
	log.Info("today-actionable bonds selected", "count", len(report.ActionableBonds))

	d := p.builder.Build(report.ActionableBonds, snapshot, now)
	report.Title = d.Title

	title, body := p.renderer.Render(d)

	// Phase 4: delivery. Single attempt, failure is logged, never fatal.
	receipt, err := p.notifier.Send(title, body)
	report.Receipt = receipt

	if err != nil {
		report.DeliveryErr = err
		log.Error("delivery failed", "channel", p.notifier.Channel(), "error", err)
	} else {
		log.Info("digest delivered", "channel", p.notifier.Channel(), "title", title)
	}

	return report
}
