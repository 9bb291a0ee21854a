package statsController

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Ether-4432/crane-game-log/config"
	"github.com/Ether-4432/crane-game-log/internal/database"
	"github.com/Ether-4432/crane-game-log/internal/logger"
	"github.com/Ether-4432/crane-game-log/internal/models"
	"github.com/Ether-4432/crane-game-log/internal/repositories"
	"github.com/Ether-4432/crane-game-log/internal/stats"
)

var ErrValidation = errors.New("validation error")

type StatsController struct {
	recordRepo repositories.RecordRepository
	db         database.DB
	Config     config.Config
}

// SummaryRequest selects the slice of records to aggregate. An empty period
// means all; an empty targetDate means today; shift moves the target by whole
// periods before aggregating, which is what the prev/next navigation sends.
type SummaryRequest struct {
	Period     string `json:"period"     query:"period"`
	TargetDate string `json:"targetDate" query:"targetDate"`
	Shift      int    `json:"shift"      query:"shift"`
	StoreName  string `json:"storeName"  query:"storeName"`
}

// SummaryResponse echoes the effective period and target alongside the
// aggregate so a client can render navigation without re-deriving them.
type SummaryResponse struct {
	Period     stats.PeriodType `json:"period"`
	TargetDate string           `json:"targetDate"`
	stats.Summary
}

type StatsControllerInterface interface {
	Overview(ctx context.Context, request *SummaryRequest) (*SummaryResponse, error)
	FinishChart(ctx context.Context, request *SummaryRequest) ([]byte, error)
}

func New(
	repos repositories.Repository,
	config config.Config,
	db database.DB,
) StatsControllerInterface {
	return &StatsController{
		recordRepo: repos.Record,
		db:         db,
		Config:     config,
	}
}

func validationError(log logger.Logger, msg string, args ...any) error {
	return log.Err(msg, fmt.Errorf("%w: %s", ErrValidation, msg), args...)
}

func (c *StatsController) Overview(
	ctx context.Context,
	request *SummaryRequest,
) (*SummaryResponse, error) {
	log := logger.New("statsController").TraceFromContext(ctx).Function("Overview")

	filter, err := c.buildFilter(log, request)
	if err != nil {
		return nil, err
	}

	records, err := c.recordRepo.GetAll(ctx, c.db.SQL)
	if err != nil {
		return nil, log.Err("failed to load records for aggregation", err)
	}

	return &SummaryResponse{
		Period:     filter.Period,
		TargetDate: filter.Target.Format(models.PlayDateLayout),
		Summary:    stats.Summarize(records, filter),
	}, nil
}

// FinishChart renders the finish breakdown of the selected slice as a donut
// PNG.
func (c *StatsController) FinishChart(
	ctx context.Context,
	request *SummaryRequest,
) ([]byte, error) {
	log := logger.New("statsController").TraceFromContext(ctx).Function("FinishChart")

	response, err := c.Overview(ctx, request)
	if err != nil {
		return nil, err
	}

	png, err := stats.RenderFinishChart(response.FinishData)
	if err != nil {
		return nil, log.Err("failed to render finish chart", err)
	}

	return png, nil
}

func (c *StatsController) buildFilter(
	log logger.Logger,
	request *SummaryRequest,
) (stats.Filter, error) {
	period := stats.PeriodAll
	if request.Period != "" {
		period = stats.PeriodType(request.Period)
		if !period.IsValid() {
			return stats.Filter{}, validationError(
				log,
				"period must be day, month, year, or all",
				"period", request.Period,
			)
		}
	}

	target := time.Now()
	if request.TargetDate != "" {
		parsed, err := time.Parse(models.PlayDateLayout, request.TargetDate)
		if err != nil {
			return stats.Filter{}, validationError(
				log,
				"targetDate must be formatted YYYY-MM-DD",
				"targetDate", request.TargetDate,
			)
		}
		target = parsed
	}

	if request.Shift != 0 {
		target = stats.ShiftTarget(target, period, request.Shift)
	}

	return stats.Filter{
		Period:    period,
		Target:    target,
		StoreName: request.StoreName,
	}, nil
}
